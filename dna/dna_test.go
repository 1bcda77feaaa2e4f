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

package dna_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blinklabs-io/godob/dna"
)

func TestParseHex(t *testing.T) {
	for _, input := range []string{"0123456789abcdef", "0x0123456789abcdef", " 0X0123456789ABCDEF\n"} {
		d, err := dna.ParseHex(input)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, 8, d.Len())
		assert.Equal(t, "0123456789abcdef", d.String())
	}
	for _, input := range []string{"", "0x", "abc", "zz"} {
		_, err := dna.ParseHex(input)
		assert.ErrorIs(t, err, dna.ErrMalformedDNA, "input %q", input)
	}
}

func TestParseContent(t *testing.T) {
	testDefs := []struct {
		content string
		hex     string
	}{
		{content: `{ "dna": "07e30122" }`, hex: "07e30122"},
		{content: `{"dna":"0x07e30122","extra":1}`, hex: "07e30122"},
		{content: `"07e30122"`, hex: "07e30122"},
		{content: `["07e30122", "ignored"]`, hex: "07e30122"},
		{content: "07e30122", hex: "07e30122"},
	}
	for _, testDef := range testDefs {
		d, err := dna.ParseContent([]byte(testDef.content))
		require.NoError(t, err, "content %s", testDef.content)
		assert.Equal(t, testDef.hex, d.String())
	}
	for _, content := range []string{``, `{}`, `{"dna": 5}`, `[]`, `hello, basic loot`} {
		_, err := dna.ParseContent([]byte(content))
		assert.ErrorIs(t, err, dna.ErrMalformedDNA, "content %q", content)
	}
}

func TestUintBigEndian(t *testing.T) {
	d := dna.New([]byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05})
	n, err := d.Uint(0, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n.Int64())
	n, err = d.Uint(2, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(0x02030405), n.Int64())
	n, err = d.Uint(0, 6)
	require.NoError(t, err)
	assert.Equal(t, int64(0x000102030405), n.Int64())
}

func TestUintWideRange(t *testing.T) {
	raw := make([]byte, 16)
	for i := range raw {
		raw[i] = 0xff
	}
	d := dna.New(raw)
	n, err := d.Uint(0, 16)
	require.NoError(t, err)
	assert.Equal(t, 128, n.BitLen())
}

func TestOffsetOutOfRange(t *testing.T) {
	d := dna.New(make([]byte, 16))
	testDefs := []struct {
		offset uint64
		length uint64
	}{
		{offset: 16, length: 1},
		{offset: 15, length: 2},
		{offset: 0, length: 17},
		{offset: 17, length: 0},
		// offset+length overflows uint64
		{offset: math.MaxUint64, length: 2},
		{offset: 1, length: math.MaxUint64},
	}
	for _, testDef := range testDefs {
		_, err := d.Uint(testDef.offset, testDef.length)
		require.Error(t, err)
		assert.ErrorIs(t, err, dna.ErrOffsetOutOfRange)
		var rangeErr dna.OffsetOutOfRangeError
		require.True(t, errors.As(err, &rangeErr))
		assert.Equal(t, testDef.offset, rangeErr.Offset)
		assert.Equal(t, 16, rangeErr.Size)
	}
	// The last byte is in range
	_, err := d.Uint(15, 1)
	assert.NoError(t, err)
}

func TestDNAIsImmutable(t *testing.T) {
	raw := []byte{0x01, 0x02}
	d := dna.New(raw)
	raw[0] = 0xff
	assert.Equal(t, "0102", d.String())
	b := d.Bytes()
	b[1] = 0xff
	assert.Equal(t, "0102", d.String())
}
