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

	"github.com/blinklabs-io/godob/cluster"
)

type validateFlags struct {
	flagset *flag.FlagSet
	cluster string
}

func newValidateFlags() *validateFlags {
	f := &validateFlags{
		flagset: flag.NewFlagSet("validate", flag.ExitOnError),
	}
	f.flagset.StringVar(&f.cluster, "cluster", "", "cluster description file")
	return f
}

func cmdValidate(f *globalFlags) {
	validateFlags := newValidateFlags()
	err := validateFlags.flagset.Parse(f.flagset.Args()[1:])
	if err != nil {
		fmt.Printf("failed to parse subcommand args: %s\n", err)
		os.Exit(1)
	}
	r := newRenderer(f)
	desc := loadCluster(f, r, validateFlags.cluster)
	sum, err := cluster.Digest(desc)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	fmt.Printf(
		"valid: DOB/%d, %d stage(s), digest %s\n",
		desc.Protocol,
		len(desc.Stages),
		hex.EncodeToString(sum[:]),
	)
}
