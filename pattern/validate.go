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

package pattern

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/blinklabs-io/godob/match"
	"github.com/blinklabs-io/godob/trait"
)

// Sentinel error for malformed pattern descriptions so callers can use errors.Is
var ErrValidation = errors.New("pattern validation failed")

// ValidationError describes the first problem found in a pattern
type ValidationError struct {
	// Stage index within the cluster description
	Stage int
	// Index of the offending entry within the stage, or -1 for the stage itself
	Index   int
	Name    string
	Message string
}

func (e ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("stage %d: %s", e.Stage, e.Message)
	}
	if e.Name != "" {
		return fmt.Sprintf(
			"stage %d, entry %d (%q): %s",
			e.Stage,
			e.Index,
			e.Name,
			e.Message,
		)
	}
	return fmt.Sprintf("stage %d, entry %d: %s", e.Stage, e.Index, e.Message)
}

func (ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func newValidationError(
	stage int,
	index int,
	name string,
	format string,
	args ...any,
) *ValidationError {
	return &ValidationError{
		Stage:   stage,
		Index:   index,
		Name:    name,
		Message: fmt.Sprintf(format, args...),
	}
}

// ValidateBase checks a base stage pattern. Byte ranges are not checked against
// any DNA length here; that can only happen at decode time.
func ValidateBase(decls []TraitDeclaration) error {
	if len(decls) == 0 {
		return newValidationError(0, -1, "", "base pattern is empty")
	}
	seen := make(map[string]struct{}, len(decls))
	for idx, decl := range decls {
		if decl.Name == "" {
			return newValidationError(0, idx, "", "trait name is empty")
		}
		if !utf8.ValidString(decl.Name) {
			return newValidationError(0, idx, "", "trait name is not valid UTF-8")
		}
		if _, ok := seen[decl.Name]; ok {
			return newValidationError(0, idx, decl.Name, "duplicate trait name")
		}
		seen[decl.Name] = struct{}{}
		if err := validateDeclaration(decl); err != nil {
			return newValidationError(0, idx, decl.Name, "%s", err)
		}
	}
	return nil
}

func validateDeclaration(decl TraitDeclaration) error {
	if !decl.Kind.Valid() {
		return fmt.Errorf("unknown trait kind %s", decl.Kind)
	}
	if decl.Length == 0 {
		return errors.New("DNA length must be greater than 0")
	}
	switch decl.Decode {
	case DecodeOptions:
		if len(decl.Args) == 0 {
			return errors.New("options pattern needs at least one argument")
		}
		for argIdx, arg := range decl.Args {
			if err := CheckText(fmt.Sprintf("option %d", argIdx), arg.Text()); err != nil {
				return err
			}
			if arg.Kind() != decl.Kind {
				return fmt.Errorf(
					"option %d is a %s, trait is a %s",
					argIdx,
					arg.Kind(),
					decl.Kind,
				)
			}
		}
	case DecodeRange:
		if decl.Kind != trait.KindNumber {
			return errors.New("range pattern requires a Number trait")
		}
		r, err := decl.Range()
		if err != nil {
			return err
		}
		if err := r.Check(); err != nil {
			return err
		}
		if r.Wraps() {
			return fmt.Errorf("range minimum %s is greater than maximum %s", r.Low, r.High)
		}
	case DecodeRawNumber:
		if decl.Kind != trait.KindNumber {
			return errors.New("rawNumber pattern requires a Number trait")
		}
		if len(decl.Args) != 0 {
			return errors.New("rawNumber pattern takes no arguments")
		}
	default:
		return fmt.Errorf("unknown pattern type %s", decl.Decode)
	}
	return nil
}

// ValidateVisual checks a compositing stage. known holds every trait name
// produced by earlier stages; options elements may only reference those.
func ValidateVisual(
	stage int,
	elements []VisualElement,
	known map[string]struct{},
) error {
	if len(elements) == 0 {
		return newValidationError(stage, -1, "", "compositing pattern is empty")
	}
	for idx, elem := range elements {
		if elem.Image == "" {
			return newValidationError(stage, idx, "", "image name is empty")
		}
		if !utf8.ValidString(elem.Image) {
			return newValidationError(stage, idx, "", "image name is not valid UTF-8")
		}
		if err := CheckText("trait name", elem.Trait); err != nil {
			return newValidationError(stage, idx, elem.Image, "%s", err)
		}
		switch elem.Field {
		case FieldAttributes, FieldElements:
		default:
			return newValidationError(stage, idx, elem.Image, "unknown SVG field %s", elem.Field)
		}
		switch elem.Match {
		case MatchRaw:
			if len(elem.Rules) != 0 {
				return newValidationError(stage, idx, elem.Image, "raw pattern takes no rules")
			}
			if err := CheckText("raw fragment", elem.Raw); err != nil {
				return newValidationError(stage, idx, elem.Image, "%s", err)
			}
		case MatchOptions:
			if elem.Trait == "" {
				return newValidationError(stage, idx, elem.Image, "options pattern needs a trait name")
			}
			if _, ok := known[elem.Trait]; !ok {
				return newValidationError(
					stage,
					idx,
					elem.Image,
					"trait %q is not produced by an earlier stage",
					elem.Trait,
				)
			}
			if len(elem.Rules) == 0 {
				return newValidationError(stage, idx, elem.Image, "options pattern needs at least one rule")
			}
			for ruleIdx, rule := range elem.Rules {
				if err := validateMatcher(rule.Matcher); err != nil {
					return newValidationError(stage, idx, elem.Image, "rule %d: %s", ruleIdx, err)
				}
				if err := CheckText("template", rule.Payload); err != nil {
					return newValidationError(stage, idx, elem.Image, "rule %d: %s", ruleIdx, err)
				}
			}
		default:
			return newValidationError(stage, idx, elem.Image, "unknown pattern type %s", elem.Match)
		}
	}
	return nil
}

func validateMatcher(m match.Matcher) error {
	switch v := m.(type) {
	case nil:
		return errors.New("missing matcher")
	case match.Range:
		return v.Check()
	case match.Literal:
		return CheckText("literal", v.Value.Text())
	case match.Wildcard:
		return nil
	default:
		return fmt.Errorf("unsupported matcher %T", m)
	}
}

// CheckText fails when s is not valid UTF-8. Every text field of a description
// must be, or it cannot be written as CBOR or JSON.
func CheckText(field string, s string) error {
	if !utf8.ValidString(s) {
		return fmt.Errorf("%s is not valid UTF-8", field)
	}
	return nil
}

// ImageNames returns the distinct image names of a compositing stage in order
// of first appearance
func ImageNames(elements []VisualElement) []string {
	seen := make(map[string]struct{})
	var ret []string
	for _, elem := range elements {
		if _, ok := seen[elem.Image]; ok {
			continue
		}
		seen[elem.Image] = struct{}{}
		ret = append(ret, elem.Image)
	}
	return ret
}
