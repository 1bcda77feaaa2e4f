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

// Package trait holds the value model shared by every decoding stage: the
// String/Number kinds a DOB trait can take, the tagged Value type, and the
// ordered set of resolved traits that flows from one stage into the next.
package trait

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/blinklabs-io/godob/cbor"
)

type Kind uint8

const (
	KindString Kind = 0
	KindNumber Kind = 1
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "String"
	case KindNumber:
		return "Number"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Valid reports whether k is one of the known kinds
func (k Kind) Valid() bool {
	return k == KindString || k == KindNumber
}

// ParseKind returns the Kind for its protocol name ("String" or "Number")
func ParseKind(s string) (Kind, error) {
	switch s {
	case "String":
		return KindString, nil
	case "Number":
		return KindNumber, nil
	default:
		return 0, fmt.Errorf("unknown trait kind %q", s)
	}
}

// Value is a trait value: either a string or an arbitrary precision integer.
// The zero value is the empty string. Values are immutable and comparable with ==.
type Value struct {
	kind Kind
	// string content, or the canonical base-10 form of a number
	text string
}

// String returns a string Value
func String(s string) Value {
	return Value{kind: KindString, text: s}
}

// Number returns a numeric Value holding a copy of n
func Number(n *big.Int) Value {
	if n == nil {
		return Value{kind: KindNumber, text: "0"}
	}
	return Value{kind: KindNumber, text: n.String()}
}

func Int(n int64) Value {
	return Number(big.NewInt(n))
}

func Uint(n uint64) Value {
	return Number(new(big.Int).SetUint64(n))
}

// ParseNumber parses a base-10 integer literal
func ParseNumber(s string) (Value, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Value{}, fmt.Errorf("invalid integer %q", s)
	}
	return Number(n), nil
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsNumber() bool {
	return v.kind == KindNumber
}

// Text returns the content of a string value, and "" for numbers
func (v Value) Text() string {
	if v.kind != KindString {
		return ""
	}
	return v.text
}

// Int returns a fresh copy of a numeric value, and nil for strings
func (v Value) Int() *big.Int {
	if v.kind != KindNumber {
		return nil
	}
	n, ok := new(big.Int).SetString(v.text, 10)
	if !ok {
		return new(big.Int)
	}
	return n
}

// String formats the value for template substitution: strings verbatim,
// numbers in base 10
func (v Value) String() string {
	if v.kind == KindNumber && v.text == "" {
		return "0"
	}
	return v.text
}

// Equal is type aware: String("5") never equals Int(5)
func (v Value) Equal(o Value) bool {
	return v.kind == o.kind && v.String() == o.String()
}

// Cmp compares two numeric values. It returns false when either value is a string.
func (v Value) Cmp(o Value) (int, bool) {
	if v.kind != KindNumber || o.kind != KindNumber {
		return 0, false
	}
	return v.Int().Cmp(o.Int()), true
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == KindNumber {
		return []byte(v.String()), nil
	}
	return marshalJSON(v.text)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return errors.New("trait value must be a string or an integer")
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal([]byte(trimmed), &s); err != nil {
			return err
		}
		*v = String(s)
		return nil
	}
	tmp, err := ParseNumber(trimmed)
	if err != nil {
		return fmt.Errorf("trait value must be a string or an integer: %w", err)
	}
	*v = tmp
	return nil
}

func (v Value) MarshalCBOR() ([]byte, error) {
	if v.kind == KindNumber {
		return cbor.Encode(v.Int())
	}
	return cbor.Encode(v.text)
}

func (v *Value) UnmarshalCBOR(data []byte) error {
	majorType, ok := cbor.MajorType(data)
	if !ok {
		return errors.New("empty CBOR trait value")
	}
	switch majorType {
	case cbor.CborTypeTextString:
		var s string
		if _, err := cbor.Decode(data, &s); err != nil {
			return err
		}
		*v = String(s)
	case cbor.CborTypeUnsigned, cbor.CborTypeNegative, cbor.CborTypeTag:
		// Tags are only accepted as bignums; the decoder rejects any other tag
		n := new(big.Int)
		if _, err := cbor.Decode(data, n); err != nil {
			return err
		}
		*v = Number(n)
	default:
		return fmt.Errorf(
			"unsupported CBOR major type 0x%x for trait value",
			majorType,
		)
	}
	return nil
}

// marshalJSON encodes v without escaping HTML characters, which appear in
// nearly every SVG fragment
func marshalJSON(v any) ([]byte, error) {
	var buf strings.Builder
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return []byte(strings.TrimSuffix(buf.String(), "\n")), nil
}
