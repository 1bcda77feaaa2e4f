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

package cluster

import (
	"errors"
	"fmt"

	"github.com/blinklabs-io/godob/cbor"
	"github.com/blinklabs-io/godob/match"
	"github.com/blinklabs-io/godob/pattern"
	"github.com/blinklabs-io/godob/trait"
	"golang.org/x/crypto/blake2b"
)

const formatCBOR = "cbor"

const (
	matcherWildcard = 0
	matcherLiteral  = 1
	matcherRange    = 2
)

// DigestSize is the size of a description digest in bytes
const DigestSize = blake2b.Size256

type cborDescription struct {
	cbor.StructAsArray
	Text     string
	Protocol uint
	Stages   []cborStage
}

type cborStage struct {
	cbor.StructAsArray
	Version uint
	Decoder cborLocator
	Pattern []cbor.RawMessage
}

type cborLocator struct {
	cbor.StructAsArray
	Type LocatorType
	Hash []byte
}

func (l cborLocator) check() error {
	switch {
	case l.Type == LocatorNone:
		if len(l.Hash) != 0 {
			return errors.New("decoder hash without a locator type")
		}
	case l.Type > LocatorTypeScript:
		return fmt.Errorf("unknown decoder locator type %d", l.Type)
	case len(l.Hash) != 32:
		return fmt.Errorf("decoder hash must be 32 bytes, found %d", len(l.Hash))
	}
	return nil
}

func (l *cborLocator) UnmarshalCBOR(cborData []byte) error {
	if err := cbor.DecodeGeneric(cborData, l); err != nil {
		return err
	}
	return l.check()
}

func (l cborLocator) MarshalCBOR() ([]byte, error) {
	if err := l.check(); err != nil {
		return nil, err
	}
	return cbor.EncodeGeneric(&l)
}

func newCBORLocator(l Locator) cborLocator {
	if l.IsZero() {
		return cborLocator{}
	}
	return cborLocator{Type: l.Type, Hash: l.Hash[:]}
}

func (l cborLocator) locator() Locator {
	ret := Locator{Type: l.Type}
	copy(ret.Hash[:], l.Hash)
	return ret
}

type cborTrait struct {
	cbor.StructAsArray
	Name   string
	Kind   trait.Kind
	Offset uint64
	Length uint64
	Decode pattern.DecodeKind
	Args   []trait.Value
}

type cborElement struct {
	cbor.StructAsArray
	Image   string
	Field   pattern.Field
	Trait   string
	Match   pattern.MatchKind
	Payload cbor.RawMessage
}

type cborRule struct {
	cbor.StructAsArray
	Matcher  cbor.RawMessage
	Template string
}

// Encode renders the description as canonical CBOR. Equal descriptions always
// encode to the same bytes.
func Encode(d *Description) ([]byte, error) {
	if d == nil || len(d.Stages) == 0 {
		return nil, CodecError{Format: formatCBOR, Err: errors.New("description has no stages")}
	}
	if path, err := checkText(d); err != nil {
		return nil, CodecError{Format: formatCBOR, Path: path, Err: err}
	}
	tmp := cborDescription{
		Text:     d.Text,
		Protocol: d.Protocol,
		Stages:   make([]cborStage, 0, len(d.Stages)),
	}
	for idx, stage := range d.Stages {
		items, err := encodeCBORStage(stage)
		if err != nil {
			return nil, CodecError{
				Format: formatCBOR,
				Path:   fmt.Sprintf("stages[%d]", idx),
				Err:    err,
			}
		}
		tmp.Stages = append(tmp.Stages, cborStage{
			Version: stage.Version,
			Decoder: newCBORLocator(stage.Decoder),
			Pattern: items,
		})
	}
	ret, err := cbor.Encode(&tmp)
	if err != nil {
		return nil, CodecError{Format: formatCBOR, Err: err}
	}
	return ret, nil
}

func encodeCBORStage(stage Stage) ([]cbor.RawMessage, error) {
	if err := checkStageShape(stage); err != nil {
		return nil, err
	}
	ret := make([]cbor.RawMessage, 0, len(stage.Traits)+len(stage.Elements))
	for _, decl := range stage.Traits {
		item, err := cbor.Encode(&cborTrait{
			Name:   decl.Name,
			Kind:   decl.Kind,
			Offset: decl.Offset,
			Length: decl.Length,
			Decode: decl.Decode,
			Args:   decl.Args,
		})
		if err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	for idx, elem := range stage.Elements {
		tmp := cborElement{
			Image: elem.Image,
			Field: elem.Field,
			Trait: elem.Trait,
			Match: elem.Match,
		}
		var payload any
		switch elem.Match {
		case pattern.MatchRaw:
			payload = elem.Raw
		case pattern.MatchOptions:
			rules := make([]cborRule, 0, len(elem.Rules))
			for ruleIdx, rule := range elem.Rules {
				m, err := encodeCBORMatcher(rule.Matcher)
				if err != nil {
					return nil, fmt.Errorf("pattern[%d] rule %d: %w", idx, ruleIdx, err)
				}
				rules = append(rules, cborRule{Matcher: m, Template: rule.Payload})
			}
			payload = rules
		default:
			return nil, fmt.Errorf("pattern[%d]: unknown pattern type %s", idx, elem.Match)
		}
		payloadCbor, err := cbor.Encode(payload)
		if err != nil {
			return nil, err
		}
		tmp.Payload = payloadCbor
		item, err := cbor.Encode(&tmp)
		if err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, nil
}

func encodeCBORMatcher(m match.Matcher) (cbor.RawMessage, error) {
	switch v := m.(type) {
	case match.Wildcard:
		return cbor.Encode([]any{matcherWildcard})
	case match.Literal:
		return cbor.Encode([]any{matcherLiteral, v.Value})
	case match.Range:
		return cbor.Encode([]any{matcherRange, v.Low, v.High})
	default:
		return nil, fmt.Errorf("unsupported matcher %T", m)
	}
}

// Decode parses a description produced by Encode
func Decode(data []byte) (*Description, error) {
	var tmp cborDescription
	if err := cbor.DecodeStrict(data, &tmp); err != nil {
		return nil, CodecError{Format: formatCBOR, Err: err}
	}
	ret := &Description{
		Text:     tmp.Text,
		Protocol: tmp.Protocol,
		Stages:   make([]Stage, 0, len(tmp.Stages)),
	}
	for idx, item := range tmp.Stages {
		stage, err := decodeCBORStage(item)
		if err != nil {
			return nil, CodecError{
				Format: formatCBOR,
				Path:   fmt.Sprintf("stages[%d]", idx),
				Err:    err,
			}
		}
		ret.Stages = append(ret.Stages, stage)
	}
	return ret, nil
}

func decodeCBORStage(item cborStage) (Stage, error) {
	ret := Stage{
		Version: item.Version,
		Decoder: item.Decoder.locator(),
	}
	for idx, raw := range item.Pattern {
		if ret.IsBase() {
			var tmp cborTrait
			if err := cbor.DecodeStrict(raw, &tmp); err != nil {
				return Stage{}, fmt.Errorf("pattern[%d]: %w", idx, err)
			}
			if !tmp.Kind.Valid() {
				return Stage{}, fmt.Errorf("pattern[%d]: unknown trait kind %d", idx, tmp.Kind)
			}
			if tmp.Decode > pattern.DecodeRawNumber {
				return Stage{}, fmt.Errorf("pattern[%d]: unknown pattern type %d", idx, tmp.Decode)
			}
			if len(tmp.Args) == 0 {
				tmp.Args = nil
			}
			ret.Traits = append(ret.Traits, pattern.TraitDeclaration{
				Name:   tmp.Name,
				Kind:   tmp.Kind,
				Offset: tmp.Offset,
				Length: tmp.Length,
				Decode: tmp.Decode,
				Args:   tmp.Args,
			})
			continue
		}
		elem, err := decodeCBORElement(raw)
		if err != nil {
			return Stage{}, fmt.Errorf("pattern[%d]: %w", idx, err)
		}
		ret.Elements = append(ret.Elements, elem)
	}
	return ret, nil
}

func decodeCBORElement(raw cbor.RawMessage) (pattern.VisualElement, error) {
	var tmp cborElement
	if err := cbor.DecodeStrict(raw, &tmp); err != nil {
		return pattern.VisualElement{}, err
	}
	if tmp.Field > pattern.FieldElements {
		return pattern.VisualElement{}, fmt.Errorf("unknown SVG field %d", tmp.Field)
	}
	ret := pattern.VisualElement{
		Image: tmp.Image,
		Field: tmp.Field,
		Trait: tmp.Trait,
		Match: tmp.Match,
	}
	switch tmp.Match {
	case pattern.MatchRaw:
		if err := cbor.DecodeStrict(tmp.Payload, &ret.Raw); err != nil {
			return pattern.VisualElement{}, fmt.Errorf("raw payload: %w", err)
		}
	case pattern.MatchOptions:
		var rules []cborRule
		if err := cbor.DecodeStrict(tmp.Payload, &rules); err != nil {
			return pattern.VisualElement{}, fmt.Errorf("rules: %w", err)
		}
		for idx, rule := range rules {
			m, err := decodeCBORMatcher(rule.Matcher)
			if err != nil {
				return pattern.VisualElement{}, fmt.Errorf("rule %d: %w", idx, err)
			}
			ret.Rules = append(ret.Rules, match.Rule[string]{Matcher: m, Payload: rule.Template})
		}
	default:
		return pattern.VisualElement{}, fmt.Errorf("unknown pattern type %d", tmp.Match)
	}
	return ret, nil
}

func decodeCBORMatcher(raw cbor.RawMessage) (match.Matcher, error) {
	id, err := cbor.DecodeIdFromList(raw)
	if err != nil {
		return nil, fmt.Errorf("matcher: %w", err)
	}
	var items []cbor.RawMessage
	if err := cbor.DecodeStrict(raw, &items); err != nil {
		return nil, fmt.Errorf("matcher: %w", err)
	}
	values := make([]trait.Value, len(items)-1)
	for idx := range values {
		if err := cbor.DecodeStrict(items[idx+1], &values[idx]); err != nil {
			return nil, fmt.Errorf("matcher item %d: %w", idx+1, err)
		}
	}
	switch id {
	case matcherWildcard:
		if len(values) != 0 {
			return nil, fmt.Errorf("wildcard matcher takes no values, found %d", len(values))
		}
		return match.Wildcard{}, nil
	case matcherLiteral:
		if len(values) != 1 {
			return nil, fmt.Errorf("literal matcher takes 1 value, found %d", len(values))
		}
		return match.Literal{Value: values[0]}, nil
	case matcherRange:
		if len(values) != 2 {
			return nil, fmt.Errorf("range matcher takes 2 values, found %d", len(values))
		}
		return match.Range{Low: values[0], High: values[1]}, nil
	default:
		return nil, fmt.Errorf("unknown matcher type %d", id)
	}
}

// Digest identifies a description by the blake2b-256 hash of its canonical
// CBOR encoding
func Digest(d *Description) ([DigestSize]byte, error) {
	data, err := Encode(d)
	if err != nil {
		return [DigestSize]byte{}, err
	}
	return blake2b.Sum256(data), nil
}

// checkStageShape rejects stages whose entries do not fit their version
func checkStageShape(stage Stage) error {
	if stage.IsBase() && len(stage.Elements) != 0 {
		return errors.New("base stage carries compositing elements")
	}
	if !stage.IsBase() && len(stage.Traits) != 0 {
		return errors.New("compositing stage carries trait declarations")
	}
	return nil
}
