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
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/blinklabs-io/godob/cluster"
	"github.com/blinklabs-io/godob/render"
)

type globalFlags struct {
	flagset *flag.FlagSet
	format  string
	debug   bool
}

func newGlobalFlags() *globalFlags {
	f := &globalFlags{
		flagset: flag.NewFlagSet(os.Args[0], flag.ExitOnError),
	}
	f.flagset.StringVar(
		&f.format,
		"format",
		"auto",
		"cluster description format (auto, json, yaml or cbor)",
	)
	f.flagset.BoolVar(&f.debug, "debug", false, "enable debug logging")
	return f
}

func main() {
	f := newGlobalFlags()
	err := f.flagset.Parse(os.Args[1:])
	if err != nil {
		fmt.Printf("failed to parse command args: %s\n", err)
		os.Exit(1)
	}

	if len(f.flagset.Args()) > 0 {
		switch f.flagset.Arg(0) {
		case "render":
			cmdRender(f)
		case "validate":
			cmdValidate(f)
		case "convert":
			cmdConvert(f)
		default:
			fmt.Printf("Unknown subcommand: %s\n", f.flagset.Arg(0))
			os.Exit(1)
		}
	} else {
		fmt.Printf("You must specify a subcommand (render, validate or convert)\n")
		os.Exit(1)
	}
}

func newLogger(f *globalFlags) *slog.Logger {
	level := slog.LevelInfo
	if f.debug {
		level = slog.LevelDebug
	}
	return slog.New(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}),
	)
}

func newRenderer(f *globalFlags, opts ...render.OptionFunc) *render.Renderer {
	return render.New(
		append([]render.OptionFunc{render.WithLogger(newLogger(f))}, opts...)...,
	)
}

// descriptionFormat resolves "auto" from the file extension. An empty result
// leaves detection to the renderer.
func descriptionFormat(f *globalFlags, path string) (string, error) {
	switch f.format {
	case "json", "yaml", "cbor":
		return f.format, nil
	case "auto":
	default:
		return "", fmt.Errorf("unknown description format: %s", f.format)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml", nil
	case ".cbor":
		return "cbor", nil
	case ".json":
		return "json", nil
	}
	return "", nil
}

// loadCluster reads, decodes and registers a cluster description
func loadCluster(f *globalFlags, r *render.Renderer, path string) *cluster.Description {
	if path == "" {
		fmt.Printf("ERROR: you must specify -cluster\n")
		os.Exit(1)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("ERROR: failed to read cluster description: %s\n", err)
		os.Exit(1)
	}
	format, err := descriptionFormat(f, path)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	var desc *cluster.Description
	switch format {
	case "json":
		desc, err = cluster.DecodeJSON(data)
	case "yaml":
		desc, err = cluster.DecodeYAML(data)
	case "cbor":
		desc, err = cluster.Decode(data)
	default:
		desc, err = r.Load(data)
	}
	if err == nil && format != "" {
		desc, err = r.Register(desc)
	}
	if err != nil {
		fmt.Printf("ERROR: failed to load cluster description: %s\n", err)
		os.Exit(1)
	}
	return desc
}
