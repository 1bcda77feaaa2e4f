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

// Package dob0 implements the base stage of DOB rendering: decoding the traits
// declared by a pattern out of a DNA buffer.
package dob0

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/blinklabs-io/godob/dna"
	"github.com/blinklabs-io/godob/pattern"
	"github.com/blinklabs-io/godob/trait"
)

// Decode resolves every declaration against d, in declaration order. Options and
// range declarations reduce the raw value modulo their domain, so decoding never
// fails for valid offsets. A byte range past the end of d fails with
// dna.ErrOffsetOutOfRange.
func Decode(d dna.DNA, decls []pattern.TraitDeclaration) ([]trait.Resolved, error) {
	ret := make([]trait.Resolved, 0, len(decls))
	for _, decl := range decls {
		value, err := DecodeTrait(d, decl)
		if err != nil {
			return nil, fmt.Errorf("decode trait %q: %w", decl.Name, err)
		}
		ret = append(ret, trait.Resolved{Name: decl.Name, Value: value})
	}
	return ret, nil
}

// DecodeTrait resolves a single declaration
func DecodeTrait(d dna.DNA, decl pattern.TraitDeclaration) (trait.Value, error) {
	raw, err := d.Uint(decl.Offset, decl.Length)
	if err != nil {
		return trait.Value{}, err
	}
	switch decl.Decode {
	case pattern.DecodeOptions:
		return selectOption(raw, decl.Args)
	case pattern.DecodeRange:
		r, err := decl.Range()
		if err != nil {
			return trait.Value{}, err
		}
		return r.Map(raw)
	case pattern.DecodeRawNumber:
		return trait.Number(raw), nil
	default:
		return trait.Value{}, fmt.Errorf("unknown pattern type %s", decl.Decode)
	}
}

func selectOption(raw *big.Int, args []trait.Value) (trait.Value, error) {
	if len(args) == 0 {
		return trait.Value{}, errors.New("options pattern has no arguments")
	}
	idx := new(big.Int).Mod(raw, big.NewInt(int64(len(args))))
	return args[idx.Int64()], nil
}
