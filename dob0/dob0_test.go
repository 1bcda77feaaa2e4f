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

package dob0_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blinklabs-io/godob/dna"
	"github.com/blinklabs-io/godob/dob0"
	"github.com/blinklabs-io/godob/internal/test"
	"github.com/blinklabs-io/godob/pattern"
	"github.com/blinklabs-io/godob/trait"
)

var sequentialDNA = dna.New(test.DecodeHexString("000102030405060708090a0b0c0d0e0f"))

func basicPattern() []pattern.TraitDeclaration {
	return []pattern.TraitDeclaration{
		{
			Name:   "BackgroundColor",
			Kind:   trait.KindString,
			Offset: 0,
			Length: 1,
			Decode: pattern.DecodeOptions,
			Args: []trait.Value{
				trait.String("red"),
				trait.String("blue"),
				trait.String("green"),
				trait.String("black"),
				trait.String("white"),
			},
		},
		{
			Name:   "Type",
			Kind:   trait.KindNumber,
			Offset: 1,
			Length: 1,
			Decode: pattern.DecodeRange,
			Args:   []trait.Value{trait.Int(10), trait.Int(50)},
		},
		{
			Name:   "Timestamp",
			Kind:   trait.KindNumber,
			Offset: 2,
			Length: 4,
			Decode: pattern.DecodeRawNumber,
		},
	}
}

func TestDecodeEndToEnd(t *testing.T) {
	traits, err := dob0.Decode(sequentialDNA, basicPattern())
	require.NoError(t, err)
	expected := []trait.Resolved{
		// 0x00 mod 5 = 0
		{Name: "BackgroundColor", Value: trait.String("red")},
		// 10 + (1 mod 41) = 11
		{Name: "Type", Value: trait.Int(11)},
		// 0x02030405
		{Name: "Timestamp", Value: trait.Int(0x02030405)},
	}
	assert.Equal(t, expected, traits)
}

func TestDecodeIsDeterministic(t *testing.T) {
	first, err := dob0.Decode(sequentialDNA, basicPattern())
	require.NoError(t, err)
	for range 10 {
		again, err := dob0.Decode(sequentialDNA, basicPattern())
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestOptionsModuloLaw(t *testing.T) {
	decl := basicPattern()[0]
	for raw := 0; raw <= 0xff; raw++ {
		value, err := dob0.DecodeTrait(dna.New([]byte{byte(raw)}), decl)
		require.NoError(t, err)
		assert.Equal(t, decl.Args[raw%len(decl.Args)], value, "raw %d", raw)
	}
}

func TestOptionsModuloLawWide(t *testing.T) {
	decl := basicPattern()[0]
	decl.Length = 2
	// 0xffff mod 5 = 0
	value, err := dob0.DecodeTrait(dna.New([]byte{0xff, 0xff}), decl)
	require.NoError(t, err)
	assert.Equal(t, trait.String("red"), value)
	// 0x0100 = 256, 256 mod 5 = 1
	value, err = dob0.DecodeTrait(dna.New([]byte{0x01, 0x00}), decl)
	require.NoError(t, err)
	assert.Equal(t, trait.String("blue"), value)
}

func TestNumericOptions(t *testing.T) {
	decl := pattern.TraitDeclaration{
		Name:   "USDI Value",
		Kind:   trait.KindNumber,
		Offset: 0,
		Length: 1,
		Decode: pattern.DecodeOptions,
		Args: []trait.Value{
			trait.Int(5), trait.Int(10), trait.Int(20), trait.Int(50),
			trait.Int(100), trait.Int(200), trait.Int(500), trait.Int(1000),
		},
	}
	value, err := dob0.DecodeTrait(dna.New([]byte{0x0f}), decl)
	require.NoError(t, err)
	assert.Equal(t, trait.Int(1000), value)
}

func TestRangeMappingLaw(t *testing.T) {
	decl := basicPattern()[1]
	decl.Offset = 0
	for raw := 0; raw <= 0xff; raw++ {
		value, err := dob0.DecodeTrait(dna.New([]byte{byte(raw)}), decl)
		require.NoError(t, err)
		n := value.Int().Int64()
		assert.GreaterOrEqual(t, n, int64(10))
		assert.LessOrEqual(t, n, int64(50))
		assert.Equal(t, int64(10+raw%41), n)
	}
	// Maximum raw value of an 8 byte range
	decl.Length = 8
	value, err := dob0.DecodeTrait(dna.New(test.DecodeHexString("ffffffffffffffff")), decl)
	require.NoError(t, err)
	maxRaw := new(big.Int).SetUint64(0xffffffffffffffff)
	expected := new(big.Int).Mod(maxRaw, big.NewInt(41))
	expected.Add(expected, big.NewInt(10))
	assert.Equal(t, trait.Number(expected), value)
}

func TestRawNumberWide(t *testing.T) {
	decl := pattern.TraitDeclaration{
		Name:   "Seed",
		Kind:   trait.KindNumber,
		Offset: 0,
		Length: 16,
		Decode: pattern.DecodeRawNumber,
	}
	value, err := dob0.DecodeTrait(sequentialDNA, decl)
	require.NoError(t, err)
	expected := new(big.Int).SetBytes(test.DecodeHexString("000102030405060708090a0b0c0d0e0f"))
	assert.Equal(t, expected.String(), value.String())
}

func TestOffsetOverrun(t *testing.T) {
	decls := basicPattern()
	decls[2].Offset = 14
	_, err := dob0.Decode(sequentialDNA, decls)
	require.Error(t, err)
	assert.ErrorIs(t, err, dna.ErrOffsetOutOfRange)
	assert.Contains(t, err.Error(), "Timestamp")

	// A short DNA is never padded
	short := dna.New([]byte{0x00, 0x01, 0x02})
	_, err = dob0.Decode(short, basicPattern())
	assert.ErrorIs(t, err, dna.ErrOffsetOutOfRange)
}

func TestDecodeUnvalidatedShapes(t *testing.T) {
	decl := basicPattern()[0]
	decl.Args = nil
	_, err := dob0.DecodeTrait(sequentialDNA, decl)
	assert.Error(t, err)

	decl = basicPattern()[1]
	decl.Args = decl.Args[:1]
	_, err = dob0.DecodeTrait(sequentialDNA, decl)
	assert.Error(t, err)

	decl = basicPattern()[2]
	decl.Decode = pattern.DecodeKind(7)
	_, err = dob0.DecodeTrait(sequentialDNA, decl)
	assert.Error(t, err)
}

func TestDecodeEmptyPattern(t *testing.T) {
	traits, err := dob0.Decode(sequentialDNA, nil)
	require.NoError(t, err)
	assert.Empty(t, traits)
}
