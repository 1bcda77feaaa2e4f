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

// Package cluster reads and writes the DOB description persisted on a spore
// cluster: the ordered list of decoding stages every DOB of the cluster is
// rendered with.
package cluster

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/blinklabs-io/godob/match"
	"github.com/blinklabs-io/godob/pattern"
)

const (
	// ProtocolDob0 clusters carry a single base stage
	ProtocolDob0 uint = 0
	// ProtocolDob1 clusters carry a base stage followed by compositing stages
	ProtocolDob1 uint = 1
)

type LocatorType uint8

const (
	LocatorNone       LocatorType = 0
	LocatorCodeHash   LocatorType = 1
	LocatorTypeId     LocatorType = 2
	LocatorTypeScript LocatorType = 3
)

func (t LocatorType) String() string {
	switch t {
	case LocatorNone:
		return ""
	case LocatorCodeHash:
		return "code_hash"
	case LocatorTypeId:
		return "type_id"
	case LocatorTypeScript:
		return "type_script"
	default:
		return fmt.Sprintf("LocatorType(%d)", uint8(t))
	}
}

func ParseLocatorType(s string) (LocatorType, error) {
	switch s {
	case "code_hash":
		return LocatorCodeHash, nil
	case "type_id":
		return LocatorTypeId, nil
	case "type_script":
		return LocatorTypeScript, nil
	default:
		return LocatorNone, fmt.Errorf("unknown decoder locator type %q", s)
	}
}

// Locator identifies the on-chain decoder binary of a stage. It is carried
// through the codecs untouched; decoding here never depends on it.
type Locator struct {
	Type LocatorType
	Hash [32]byte
}

func (l Locator) IsZero() bool {
	return l == Locator{}
}

// HashHex returns the hash in 0x-prefixed hex
func (l Locator) HashHex() string {
	return "0x" + hex.EncodeToString(l.Hash[:])
}

// ParseLocator builds a Locator from its JSON envelope fields
func ParseLocator(locatorType string, hash string) (Locator, error) {
	t, err := ParseLocatorType(locatorType)
	if err != nil {
		return Locator{}, err
	}
	hashBytes, err := hex.DecodeString(
		strings.TrimPrefix(strings.TrimPrefix(hash, "0x"), "0X"),
	)
	if err != nil {
		return Locator{}, fmt.Errorf("decoder hash: %w", err)
	}
	ret := Locator{Type: t}
	if len(hashBytes) != len(ret.Hash) {
		return Locator{}, fmt.Errorf(
			"decoder hash must be %d bytes, found %d",
			len(ret.Hash),
			len(hashBytes),
		)
	}
	copy(ret.Hash[:], hashBytes)
	return ret, nil
}

// Stage is one decoding pass. Version 0 is the base stage and uses Traits;
// every later version is a compositing stage and uses Elements.
type Stage struct {
	Version  uint
	Decoder  Locator
	Traits   []pattern.TraitDeclaration
	Elements []pattern.VisualElement
}

// IsBase reports whether the stage decodes DNA rather than composing traits
func (s Stage) IsBase() bool {
	return s.Version == 0
}

// Description is a cluster's DOB description
type Description struct {
	// Human readable cluster description
	Text     string
	Protocol uint
	Stages   []Stage
}

// Base returns the trait declarations of the base stage
func (d *Description) Base() []pattern.TraitDeclaration {
	if d == nil || len(d.Stages) == 0 {
		return nil
	}
	return d.Stages[0].Traits
}

// Validate checks the description as a whole: stage ordering, each stage's
// pattern, and that compositing stages only reference names produced by earlier
// stages. Failures are *pattern.ValidationError.
func Validate(d *Description) error {
	if d == nil || len(d.Stages) == 0 {
		return &pattern.ValidationError{Index: -1, Message: "description has no stages"}
	}
	if err := pattern.CheckText("description text", d.Text); err != nil {
		return &pattern.ValidationError{Index: -1, Message: err.Error()}
	}
	switch d.Protocol {
	case ProtocolDob0:
		if len(d.Stages) != 1 {
			return &pattern.ValidationError{
				Stage:   1,
				Index:   -1,
				Message: fmt.Sprintf("dob/0 descriptions carry exactly one stage, found %d", len(d.Stages)),
			}
		}
	case ProtocolDob1:
	default:
		return &pattern.ValidationError{
			Index:   -1,
			Message: fmt.Sprintf("unsupported DOB protocol version %d", d.Protocol),
		}
	}
	known := make(map[string]struct{})
	for idx, stage := range d.Stages {
		if stage.Version != uint(idx) {
			return &pattern.ValidationError{
				Stage:   idx,
				Index:   -1,
				Message: fmt.Sprintf("stage version %d does not match its position", stage.Version),
			}
		}
		if stage.IsBase() {
			if len(stage.Elements) != 0 {
				return &pattern.ValidationError{Stage: idx, Index: -1, Message: "base stage carries compositing elements"}
			}
			if err := pattern.ValidateBase(stage.Traits); err != nil {
				return err
			}
			for _, decl := range stage.Traits {
				known[decl.Name] = struct{}{}
			}
			continue
		}
		if len(stage.Traits) != 0 {
			return &pattern.ValidationError{Stage: idx, Index: -1, Message: "compositing stage carries trait declarations"}
		}
		if err := pattern.ValidateVisual(idx, stage.Elements, known); err != nil {
			return err
		}
		for _, name := range pattern.ImageNames(stage.Elements) {
			if _, ok := known[name]; ok {
				return &pattern.ValidationError{
					Stage:   idx,
					Index:   -1,
					Name:    name,
					Message: fmt.Sprintf("image name %q collides with an earlier trait", name),
				}
			}
			known[name] = struct{}{}
		}
	}
	return nil
}

// checkText finds the first text field that is not valid UTF-8 and returns its
// location alongside the error
func checkText(d *Description) (string, error) {
	if err := pattern.CheckText("text", d.Text); err != nil {
		return "description", err
	}
	for stageIdx, stage := range d.Stages {
		for idx, decl := range stage.Traits {
			path := fmt.Sprintf("stages[%d].pattern[%d]", stageIdx, idx)
			if err := pattern.CheckText("trait name", decl.Name); err != nil {
				return path, err
			}
			for argIdx, arg := range decl.Args {
				if err := pattern.CheckText(fmt.Sprintf("option %d", argIdx), arg.Text()); err != nil {
					return path, err
				}
			}
		}
		for idx, elem := range stage.Elements {
			path := fmt.Sprintf("stages[%d].pattern[%d]", stageIdx, idx)
			if err := pattern.CheckText("image name", elem.Image); err != nil {
				return path, err
			}
			if err := pattern.CheckText("trait name", elem.Trait); err != nil {
				return path, err
			}
			if err := pattern.CheckText("raw fragment", elem.Raw); err != nil {
				return path, err
			}
			for ruleIdx, rule := range elem.Rules {
				if err := pattern.CheckText(fmt.Sprintf("rule %d template", ruleIdx), rule.Payload); err != nil {
					return path, err
				}
				if lit, ok := rule.Matcher.(match.Literal); ok {
					if err := pattern.CheckText(fmt.Sprintf("rule %d literal", ruleIdx), lit.Value.Text()); err != nil {
						return path, err
					}
				}
			}
		}
	}
	return "", nil
}

// Sentinel error for malformed persisted descriptions so callers can use errors.Is
var ErrCodec = errors.New("cluster description codec error")

// CodecError indicates bytes that do not parse as a description, or a
// description that cannot be represented in the requested format
type CodecError struct {
	Format string
	// Location within the document, such as "dob.pattern[2][4]"
	Path string
	Err  error
}

func (e CodecError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s description: %s: %v", e.Format, e.Path, e.Err)
	}
	return fmt.Sprintf("%s description: %v", e.Format, e.Err)
}

func (e CodecError) Unwrap() error { return e.Err }

func (CodecError) Is(target error) bool {
	return target == ErrCodec
}
