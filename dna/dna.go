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

// Package dna holds the immutable genome bytes of a DOB and the byte-range
// reads the base decoder performs on them.
package dna

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// ErrMalformedDNA is returned when DNA text or a spore content payload cannot be parsed
var ErrMalformedDNA = errors.New("malformed DNA")

// Sentinel error for byte ranges past the end of the DNA so callers can use errors.Is
var ErrOffsetOutOfRange = errors.New("DNA offset out of range")

// OffsetOutOfRangeError indicates a byte range that does not fit inside the DNA
type OffsetOutOfRangeError struct {
	Offset uint64
	Length uint64
	Size   int
}

func (e OffsetOutOfRangeError) Error() string {
	return fmt.Sprintf(
		"DNA offset out of range: bytes [%d, %d+%d) exceed DNA length %d",
		e.Offset,
		e.Offset,
		e.Length,
		e.Size,
	)
}

func (OffsetOutOfRangeError) Is(target error) bool {
	return target == ErrOffsetOutOfRange
}

// DNA is the genome of a single DOB. It is assigned at mint time and never changes.
type DNA struct {
	data []byte
}

// New returns a DNA holding a copy of data
func New(data []byte) DNA {
	return DNA{data: bytes.Clone(data)}
}

// ParseHex decodes hex DNA text, with or without a 0x prefix
func ParseHex(s string) (DNA, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if s == "" {
		return DNA{}, fmt.Errorf("%w: empty", ErrMalformedDNA)
	}
	data, err := hex.DecodeString(s)
	if err != nil {
		return DNA{}, fmt.Errorf("%w: %w", ErrMalformedDNA, err)
	}
	return DNA{data: data}, nil
}

// ParseContent extracts the DNA from spore content. The content may be a JSON
// object with a "dna" field, a JSON string, a JSON array whose first item is the
// DNA, or bare hex text.
func ParseContent(content []byte) (DNA, error) {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 {
		return DNA{}, fmt.Errorf("%w: empty content", ErrMalformedDNA)
	}
	switch trimmed[0] {
	case '{':
		var tmp struct {
			Dna *string `json:"dna"`
		}
		if err := json.Unmarshal(trimmed, &tmp); err != nil {
			return DNA{}, fmt.Errorf("%w: %w", ErrMalformedDNA, err)
		}
		if tmp.Dna == nil {
			return DNA{}, fmt.Errorf("%w: content has no \"dna\" field", ErrMalformedDNA)
		}
		return ParseHex(*tmp.Dna)
	case '"':
		var tmp string
		if err := json.Unmarshal(trimmed, &tmp); err != nil {
			return DNA{}, fmt.Errorf("%w: %w", ErrMalformedDNA, err)
		}
		return ParseHex(tmp)
	case '[':
		var tmp []string
		if err := json.Unmarshal(trimmed, &tmp); err != nil {
			return DNA{}, fmt.Errorf("%w: %w", ErrMalformedDNA, err)
		}
		if len(tmp) == 0 {
			return DNA{}, fmt.Errorf("%w: empty content list", ErrMalformedDNA)
		}
		return ParseHex(tmp[0])
	default:
		return ParseHex(string(trimmed))
	}
}

func (d DNA) Len() int {
	return len(d.data)
}

// Bytes returns a copy of the DNA bytes
func (d DNA) Bytes() []byte {
	return bytes.Clone(d.data)
}

func (d DNA) String() string {
	return hex.EncodeToString(d.data)
}

// Slice returns a copy of bytes [offset, offset+length). It never truncates:
// a range past the end is an OffsetOutOfRangeError.
func (d DNA) Slice(offset, length uint64) ([]byte, error) {
	size := uint64(len(d.data))
	// Written so that offset+length cannot overflow
	if offset > size || length > size-offset {
		return nil, OffsetOutOfRangeError{
			Offset: offset,
			Length: length,
			Size:   len(d.data),
		}
	}
	return bytes.Clone(d.data[offset : offset+length]), nil
}

// Uint reads bytes [offset, offset+length) as an unsigned big-endian integer
func (d DNA) Uint(offset, length uint64) (*big.Int, error) {
	raw, err := d.Slice(offset, length)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(raw), nil
}
