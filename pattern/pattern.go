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

// Package pattern describes how DNA is decoded into traits (base stage) and how
// traits are composed into images (compositing stages). Patterns are plain data;
// they are authored once per cluster and validated when loaded.
package pattern

import (
	"fmt"

	"github.com/blinklabs-io/godob/match"
	"github.com/blinklabs-io/godob/trait"
)

type DecodeKind uint8

const (
	DecodeOptions   DecodeKind = 0
	DecodeRange     DecodeKind = 1
	DecodeRawNumber DecodeKind = 2
)

func (k DecodeKind) String() string {
	switch k {
	case DecodeOptions:
		return "options"
	case DecodeRange:
		return "range"
	case DecodeRawNumber:
		return "rawNumber"
	default:
		return fmt.Sprintf("DecodeKind(%d)", uint8(k))
	}
}

func ParseDecodeKind(s string) (DecodeKind, error) {
	switch s {
	case "options":
		return DecodeOptions, nil
	case "range":
		return DecodeRange, nil
	case "rawNumber":
		return DecodeRawNumber, nil
	default:
		return 0, fmt.Errorf("unknown pattern type %q", s)
	}
}

// TraitDeclaration describes one trait of the base stage: which DNA bytes it
// reads and how the raw integer becomes a value
type TraitDeclaration struct {
	Name   string
	Kind   trait.Kind
	Offset uint64
	Length uint64
	Decode DecodeKind
	// Options: the choices. Range: [min, max]. RawNumber: unused.
	Args []trait.Value
}

// Range returns the [min, max] bounds of a range declaration
func (d TraitDeclaration) Range() (match.Range, error) {
	if d.Decode != DecodeRange {
		return match.Range{}, fmt.Errorf("trait %q is not a range", d.Name)
	}
	if len(d.Args) != 2 {
		return match.Range{}, fmt.Errorf(
			"range trait %q needs 2 arguments, found %d",
			d.Name,
			len(d.Args),
		)
	}
	return match.Range{Low: d.Args[0], High: d.Args[1]}, nil
}

// Field selects which part of an SVG image a fragment is written to
type Field uint8

const (
	FieldAttributes Field = 0
	FieldElements   Field = 1
)

func (f Field) String() string {
	switch f {
	case FieldAttributes:
		return "attributes"
	case FieldElements:
		return "elements"
	default:
		return fmt.Sprintf("Field(%d)", uint8(f))
	}
}

func ParseField(s string) (Field, error) {
	switch s {
	case "attributes":
		return FieldAttributes, nil
	case "elements":
		return FieldElements, nil
	default:
		return 0, fmt.Errorf("unknown SVG field %q", s)
	}
}

type MatchKind uint8

const (
	MatchRaw     MatchKind = 0
	MatchOptions MatchKind = 1
)

func (k MatchKind) String() string {
	switch k {
	case MatchRaw:
		return "raw"
	case MatchOptions:
		return "options"
	default:
		return fmt.Sprintf("MatchKind(%d)", uint8(k))
	}
}

func ParseMatchKind(s string) (MatchKind, error) {
	switch s {
	case "raw":
		return MatchRaw, nil
	case "options":
		return MatchOptions, nil
	default:
		return 0, fmt.Errorf("unknown pattern type %q", s)
	}
}

// VisualElement is one entry of a compositing stage. Raw elements always emit
// Raw; options elements emit the template of the first rule matching Trait.
type VisualElement struct {
	Image string
	Field Field
	Trait string
	Match MatchKind
	Raw   string
	// Options elements carry at least one rule. The codecs decode an absent
	// rule list as nil.
	Rules []match.Rule[string]
}
