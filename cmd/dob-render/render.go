// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/blinklabs-io/godob/dna"
	"github.com/blinklabs-io/godob/render"
)

type renderFlags struct {
	flagset     *flag.FlagSet
	cluster     string
	dna         string
	content     string
	dnaList     string
	output      string
	image       string
	concurrency int
}

func newRenderFlags() *renderFlags {
	f := &renderFlags{
		flagset: flag.NewFlagSet("render", flag.ExitOnError),
	}
	f.flagset.StringVar(&f.cluster, "cluster", "", "cluster description file")
	f.flagset.StringVar(&f.dna, "dna", "", "DNA in hex")
	f.flagset.StringVar(&f.content, "content", "", "spore content file carrying the DNA")
	f.flagset.StringVar(
		&f.dnaList,
		"dna-list",
		"",
		"file with one hex DNA per line, rendered as a batch",
	)
	f.flagset.StringVar(&f.output, "output", "json", "output format (json, dob or svg)")
	f.flagset.StringVar(&f.image, "image", "", "image to print with -output svg (defaults to the first image)")
	f.flagset.IntVar(&f.concurrency, "concurrency", 0, "batch render concurrency (defaults to GOMAXPROCS)")
	return f
}

func cmdRender(f *globalFlags) {
	renderFlags := newRenderFlags()
	err := renderFlags.flagset.Parse(f.flagset.Args()[1:])
	if err != nil {
		fmt.Printf("failed to parse subcommand args: %s\n", err)
		os.Exit(1)
	}
	r := newRenderer(f, render.WithConcurrency(renderFlags.concurrency))
	desc := loadCluster(f, r, renderFlags.cluster)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var results []*render.Result
	switch {
	case renderFlags.dnaList != "":
		dnas, err := readDNAList(renderFlags.dnaList)
		if err != nil {
			fmt.Printf("ERROR: %s\n", err)
			os.Exit(1)
		}
		results, err = r.RenderBatch(ctx, desc, dnas)
		if err != nil {
			fmt.Printf("ERROR: render failed: %s\n", err)
			os.Exit(1)
		}
	case renderFlags.dna != "" || renderFlags.content != "":
		var res *render.Result
		if renderFlags.dna != "" {
			d, err := dna.ParseHex(renderFlags.dna)
			if err != nil {
				fmt.Printf("ERROR: %s\n", err)
				os.Exit(1)
			}
			res, err = r.Render(ctx, desc, d)
			if err != nil {
				fmt.Printf("ERROR: render failed: %s\n", err)
				os.Exit(1)
			}
		} else {
			content, err := os.ReadFile(renderFlags.content)
			if err != nil {
				fmt.Printf("ERROR: failed to read content: %s\n", err)
				os.Exit(1)
			}
			res, err = r.RenderContent(ctx, desc, content)
			if err != nil {
				fmt.Printf("ERROR: render failed: %s\n", err)
				os.Exit(1)
			}
		}
		results = []*render.Result{res}
	default:
		fmt.Printf("ERROR: you must specify one of -dna, -content or -dna-list\n")
		os.Exit(1)
	}

	for _, res := range results {
		out, err := formatResult(res, renderFlags.output, renderFlags.image)
		if err != nil {
			fmt.Printf("ERROR: %s\n", err)
			os.Exit(1)
		}
		fmt.Println(string(out))
	}
}

func formatResult(res *render.Result, output string, image string) ([]byte, error) {
	switch output {
	case "json":
		return res.MarshalJSON()
	case "dob":
		return res.DobOutput()
	case "svg":
		if len(res.Images) == 0 {
			return nil, errors.New("the cluster composes no images")
		}
		if image == "" {
			return []byte(res.Images[0].SVG()), nil
		}
		img, ok := res.Image(image)
		if !ok {
			return nil, fmt.Errorf("no image named %q", image)
		}
		return []byte(img.SVG()), nil
	default:
		return nil, fmt.Errorf("unknown output format: %s", output)
	}
}

func readDNAList(path string) ([]dna.DNA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read DNA list: %w", err)
	}
	var ret []dna.DNA
	scanner := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		d, err := dna.ParseHex(text)
		if err != nil {
			return nil, fmt.Errorf("DNA list line %d: %w", line, err)
		}
		ret = append(ret, d)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read DNA list: %w", err)
	}
	return ret, nil
}
