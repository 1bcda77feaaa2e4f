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

// Package bench provides benchmark fixtures for the decoding and rendering
// pipeline.
package bench

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/blinklabs-io/godob/cluster"
	"github.com/blinklabs-io/godob/dna"
	"github.com/blinklabs-io/godob/internal/test"
)

// dnaSize covers every byte range read by the fixtures
const dnaSize = 16

var fixtureSources = map[string]string{
	"colorful-loot": test.ColorfulLootCluster,
	"nervape":       test.NervapeCluster,
	"zodiac":        test.ZodiacCluster,
}

// ClusterFixture contains a pre-loaded cluster description for benchmarking.
type ClusterFixture struct {
	Name        string
	JSON        []byte
	Cbor        []byte
	Description *cluster.Description
}

// LoadClusterFixture loads a named cluster description and its CBOR encoding.
// The name should be one of FixtureNames().
func LoadClusterFixture(name string) (*ClusterFixture, error) {
	src, ok := fixtureSources[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown cluster fixture: %s", name)
	}
	desc, err := cluster.DecodeJSON([]byte(src))
	if err != nil {
		return nil, fmt.Errorf("decode %s cluster: %w", name, err)
	}
	if err := cluster.Validate(desc); err != nil {
		return nil, fmt.Errorf("validate %s cluster: %w", name, err)
	}
	cborData, err := cluster.Encode(desc)
	if err != nil {
		return nil, fmt.Errorf("encode %s cluster: %w", name, err)
	}
	return &ClusterFixture{
		Name:        strings.ToLower(name),
		JSON:        []byte(src),
		Cbor:        cborData,
		Description: desc,
	}, nil
}

// MustLoadClusterFixture loads a cluster fixture and panics on error.
// Use this in benchmark setup code.
func MustLoadClusterFixture(name string) *ClusterFixture {
	fixture, err := LoadClusterFixture(name)
	if err != nil {
		panic(fmt.Sprintf("failed to load %s cluster fixture: %v", name, err))
	}
	return fixture
}

// FixtureNames returns the names of all cluster fixtures in sorted order
func FixtureNames() []string {
	ret := make([]string, 0, len(fixtureSources))
	for name := range fixtureSources {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}

// RandomDNAs returns count DNAs long enough for every fixture. The same seed
// always yields the same DNAs.
func RandomDNAs(seed uint64, count int) []dna.DNA {
	rng := rand.New(rand.NewPCG(seed, seed))
	ret := make([]dna.DNA, 0, count)
	for range count {
		buf := make([]byte, dnaSize)
		for i := range buf {
			buf[i] = byte(rng.UintN(256))
		}
		ret = append(ret, dna.New(buf))
	}
	return ret
}
