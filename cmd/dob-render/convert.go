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
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/blinklabs-io/godob/cbor"
	"github.com/blinklabs-io/godob/cluster"
)

type convertFlags struct {
	flagset *flag.FlagSet
	cluster string
	to      string
	out     string
}

func newConvertFlags() *convertFlags {
	f := &convertFlags{
		flagset: flag.NewFlagSet("convert", flag.ExitOnError),
	}
	f.flagset.StringVar(&f.cluster, "cluster", "", "cluster description file")
	f.flagset.StringVar(&f.to, "to", "json", "target format (json, yaml, cbor, or dump for an indented view of the CBOR)")
	f.flagset.StringVar(
		&f.out,
		"out",
		"",
		"output file (defaults to stdout, with CBOR printed as hex)",
	)
	return f
}

func cmdConvert(f *globalFlags) {
	convertFlags := newConvertFlags()
	err := convertFlags.flagset.Parse(f.flagset.Args()[1:])
	if err != nil {
		fmt.Printf("failed to parse subcommand args: %s\n", err)
		os.Exit(1)
	}
	r := newRenderer(f)
	desc := loadCluster(f, r, convertFlags.cluster)
	var out []byte
	switch convertFlags.to {
	case "json":
		out, err = cluster.EncodeJSON(desc)
	case "yaml":
		out, err = cluster.EncodeYAML(desc)
	case "cbor":
		out, err = cluster.Encode(desc)
	case "dump":
		var cborData []byte
		cborData, err = cluster.Encode(desc)
		if err == nil {
			var dump string
			dump, err = cbor.Dump(cborData)
			out = []byte(dump)
		}
	default:
		fmt.Printf("ERROR: unknown target format: %s\n", convertFlags.to)
		os.Exit(1)
	}
	if err != nil {
		fmt.Printf("ERROR: conversion failed: %s\n", err)
		os.Exit(1)
	}
	if convertFlags.out != "" {
		if err := os.WriteFile(convertFlags.out, out, 0o644); err != nil {
			fmt.Printf("ERROR: failed to write output: %s\n", err)
			os.Exit(1)
		}
		return
	}
	if convertFlags.to == "cbor" {
		fmt.Println(hex.EncodeToString(out))
		return
	}
	fmt.Println(string(out))
}
