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
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/blinklabs-io/godob/match"
	"github.com/blinklabs-io/godob/pattern"
	"github.com/blinklabs-io/godob/trait"
)

const formatJSON = "json"

// WildcardText is the JSON spelling of the wildcard matcher
const WildcardText = "*"

type jsonEnvelope struct {
	Description string  `json:"description"`
	Dob         jsonDob `json:"dob"`
}

type jsonDob struct {
	Ver      *uint           `json:"ver"`
	Decoder  *jsonLocator    `json:"decoder,omitempty"`
	Pattern  json.RawMessage `json:"pattern,omitempty"`
	Decoders []jsonDecoder   `json:"decoders,omitempty"`
}

type jsonDecoder struct {
	Decoder *jsonLocator    `json:"decoder,omitempty"`
	Pattern json.RawMessage `json:"pattern"`
}

type jsonLocator struct {
	Type string `json:"type"`
	Hash string `json:"hash"`
}

func newJSONLocator(l Locator) *jsonLocator {
	if l.IsZero() {
		return nil
	}
	return &jsonLocator{Type: l.Type.String(), Hash: l.HashHex()}
}

func (l *jsonLocator) locator() (Locator, error) {
	if l == nil {
		return Locator{}, nil
	}
	return ParseLocator(l.Type, l.Hash)
}

// EncodeJSON renders the description in the envelope stored on-chain in a
// cluster's description field
func EncodeJSON(d *Description) ([]byte, error) {
	if d == nil || len(d.Stages) == 0 {
		return nil, CodecError{Format: formatJSON, Err: errors.New("description has no stages")}
	}
	if path, err := checkText(d); err != nil {
		return nil, CodecError{Format: formatJSON, Path: path, Err: err}
	}
	ver := d.Protocol
	env := jsonEnvelope{
		Description: d.Text,
		Dob:         jsonDob{Ver: &ver},
	}
	switch d.Protocol {
	case ProtocolDob0:
		if len(d.Stages) != 1 {
			return nil, CodecError{
				Format: formatJSON,
				Err:    fmt.Errorf("dob/0 descriptions carry exactly one stage, found %d", len(d.Stages)),
			}
		}
		raw, err := encodeJSONStage(d.Stages[0])
		if err != nil {
			return nil, CodecError{Format: formatJSON, Path: "dob.pattern", Err: err}
		}
		env.Dob.Decoder = newJSONLocator(d.Stages[0].Decoder)
		env.Dob.Pattern = raw
	case ProtocolDob1:
		for idx, stage := range d.Stages {
			if stage.Version != uint(idx) {
				return nil, CodecError{
					Format: formatJSON,
					Path:   fmt.Sprintf("dob.decoders[%d]", idx),
					Err:    fmt.Errorf("stage version %d does not match its position", stage.Version),
				}
			}
			raw, err := encodeJSONStage(stage)
			if err != nil {
				return nil, CodecError{
					Format: formatJSON,
					Path:   fmt.Sprintf("dob.decoders[%d].pattern", idx),
					Err:    err,
				}
			}
			env.Dob.Decoders = append(
				env.Dob.Decoders,
				jsonDecoder{Decoder: newJSONLocator(stage.Decoder), Pattern: raw},
			)
		}
	default:
		return nil, CodecError{
			Format: formatJSON,
			Path:   "dob.ver",
			Err:    fmt.Errorf("unsupported DOB protocol version %d", d.Protocol),
		}
	}
	ret, err := marshalJSON(env)
	if err != nil {
		return nil, CodecError{Format: formatJSON, Err: err}
	}
	return ret, nil
}

func encodeJSONStage(stage Stage) (json.RawMessage, error) {
	if err := checkStageShape(stage); err != nil {
		return nil, err
	}
	entries := make([]any, 0, len(stage.Traits)+len(stage.Elements))
	if stage.IsBase() {
		for _, decl := range stage.Traits {
			entry := []any{
				decl.Name,
				decl.Kind.String(),
				decl.Offset,
				decl.Length,
				decl.Decode.String(),
			}
			if len(decl.Args) > 0 {
				entry = append(entry, decl.Args)
			}
			entries = append(entries, entry)
		}
	} else {
		for idx, elem := range stage.Elements {
			var payload any
			switch elem.Match {
			case pattern.MatchRaw:
				payload = elem.Raw
			case pattern.MatchOptions:
				rules := make([]any, 0, len(elem.Rules))
				for ruleIdx, rule := range elem.Rules {
					m, err := encodeJSONMatcher(rule.Matcher)
					if err != nil {
						return nil, fmt.Errorf("[%d][4][%d]: %w", idx, ruleIdx, err)
					}
					rules = append(rules, []any{m, rule.Payload})
				}
				payload = rules
			default:
				return nil, fmt.Errorf("[%d]: unknown pattern type %s", idx, elem.Match)
			}
			entries = append(entries, []any{
				elem.Image,
				elem.Field.String(),
				elem.Trait,
				elem.Match.String(),
				payload,
			})
		}
	}
	return marshalJSON(entries)
}

func encodeJSONMatcher(m match.Matcher) (any, error) {
	switch v := m.(type) {
	case match.Wildcard:
		return []string{WildcardText}, nil
	case match.Range:
		return []trait.Value{v.Low, v.High}, nil
	case match.Literal:
		if !v.Value.IsNumber() && v.Value.Text() == WildcardText {
			return nil, errors.New("a literal \"*\" cannot be told apart from the wildcard")
		}
		return v.Value, nil
	default:
		return nil, fmt.Errorf("unsupported matcher %T", m)
	}
}

// DecodeJSON parses the on-chain JSON envelope. Stage versions are assigned
// from each stage's position.
func DecodeJSON(data []byte) (*Description, error) {
	var env jsonEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, CodecError{Format: formatJSON, Err: err}
	}
	if env.Dob.Ver == nil {
		return nil, CodecError{Format: formatJSON, Path: "dob.ver", Err: errors.New("missing protocol version")}
	}
	ret := &Description{
		Text:     env.Description,
		Protocol: *env.Dob.Ver,
	}
	switch ret.Protocol {
	case ProtocolDob0:
		if len(env.Dob.Decoders) != 0 {
			return nil, CodecError{Format: formatJSON, Path: "dob.decoders", Err: errors.New("dob/0 descriptions use a single decoder")}
		}
		if len(env.Dob.Pattern) == 0 {
			return nil, CodecError{Format: formatJSON, Path: "dob.pattern", Err: errors.New("missing pattern")}
		}
		stage, err := decodeJSONStage(0, env.Dob.Decoder, env.Dob.Pattern)
		if err != nil {
			return nil, CodecError{Format: formatJSON, Path: "dob.pattern", Err: err}
		}
		ret.Stages = []Stage{stage}
	case ProtocolDob1:
		if env.Dob.Decoder != nil || len(env.Dob.Pattern) != 0 {
			return nil, CodecError{Format: formatJSON, Path: "dob", Err: errors.New("dob/1 descriptions list their stages under decoders")}
		}
		if len(env.Dob.Decoders) == 0 {
			return nil, CodecError{Format: formatJSON, Path: "dob.decoders", Err: errors.New("no decoders")}
		}
		for idx, dec := range env.Dob.Decoders {
			stage, err := decodeJSONStage(uint(idx), dec.Decoder, dec.Pattern)
			if err != nil {
				return nil, CodecError{
					Format: formatJSON,
					Path:   fmt.Sprintf("dob.decoders[%d]", idx),
					Err:    err,
				}
			}
			ret.Stages = append(ret.Stages, stage)
		}
	default:
		return nil, CodecError{
			Format: formatJSON,
			Path:   "dob.ver",
			Err:    fmt.Errorf("unsupported DOB protocol version %d", ret.Protocol),
		}
	}
	return ret, nil
}

func decodeJSONStage(version uint, loc *jsonLocator, raw json.RawMessage) (Stage, error) {
	ret := Stage{Version: version}
	var err error
	if ret.Decoder, err = loc.locator(); err != nil {
		return Stage{}, err
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return Stage{}, fmt.Errorf("pattern: %w", err)
	}
	for idx, entry := range entries {
		var fields []json.RawMessage
		if err := json.Unmarshal(entry, &fields); err != nil {
			return Stage{}, fmt.Errorf("pattern[%d]: %w", idx, err)
		}
		if ret.IsBase() {
			decl, err := decodeJSONTrait(fields)
			if err != nil {
				return Stage{}, fmt.Errorf("pattern[%d]%w", idx, err)
			}
			ret.Traits = append(ret.Traits, decl)
			continue
		}
		elem, err := decodeJSONElement(fields)
		if err != nil {
			return Stage{}, fmt.Errorf("pattern[%d]%w", idx, err)
		}
		ret.Elements = append(ret.Elements, elem)
	}
	return ret, nil
}

// fieldError prefixes an error with the position of the offending field
func fieldError(pos int, err error) error {
	return fmt.Errorf("[%d]: %w", pos, err)
}

func decodeJSONTrait(fields []json.RawMessage) (pattern.TraitDeclaration, error) {
	var ret pattern.TraitDeclaration
	if len(fields) != 5 && len(fields) != 6 {
		return ret, fmt.Errorf(": trait entries have 5 or 6 fields, found %d", len(fields))
	}
	var kind, decode string
	if err := json.Unmarshal(fields[0], &ret.Name); err != nil {
		return ret, fieldError(0, err)
	}
	if err := json.Unmarshal(fields[1], &kind); err != nil {
		return ret, fieldError(1, err)
	}
	var err error
	if ret.Kind, err = trait.ParseKind(kind); err != nil {
		return ret, fieldError(1, err)
	}
	if err := json.Unmarshal(fields[2], &ret.Offset); err != nil {
		return ret, fieldError(2, err)
	}
	if err := json.Unmarshal(fields[3], &ret.Length); err != nil {
		return ret, fieldError(3, err)
	}
	if err := json.Unmarshal(fields[4], &decode); err != nil {
		return ret, fieldError(4, err)
	}
	if ret.Decode, err = pattern.ParseDecodeKind(decode); err != nil {
		return ret, fieldError(4, err)
	}
	if len(fields) == 6 {
		if err := json.Unmarshal(fields[5], &ret.Args); err != nil {
			return ret, fieldError(5, err)
		}
		if len(ret.Args) == 0 {
			ret.Args = nil
		}
	}
	return ret, nil
}

func decodeJSONElement(fields []json.RawMessage) (pattern.VisualElement, error) {
	var ret pattern.VisualElement
	if len(fields) != 5 {
		return ret, fmt.Errorf(": element entries have 5 fields, found %d", len(fields))
	}
	var field, kind string
	if err := json.Unmarshal(fields[0], &ret.Image); err != nil {
		return ret, fieldError(0, err)
	}
	if err := json.Unmarshal(fields[1], &field); err != nil {
		return ret, fieldError(1, err)
	}
	var err error
	if ret.Field, err = pattern.ParseField(field); err != nil {
		return ret, fieldError(1, err)
	}
	if err := json.Unmarshal(fields[2], &ret.Trait); err != nil {
		return ret, fieldError(2, err)
	}
	if err := json.Unmarshal(fields[3], &kind); err != nil {
		return ret, fieldError(3, err)
	}
	if ret.Match, err = pattern.ParseMatchKind(kind); err != nil {
		return ret, fieldError(3, err)
	}
	switch ret.Match {
	case pattern.MatchRaw:
		if err := json.Unmarshal(fields[4], &ret.Raw); err != nil {
			return ret, fieldError(4, err)
		}
	case pattern.MatchOptions:
		var rules [][]json.RawMessage
		if err := json.Unmarshal(fields[4], &rules); err != nil {
			return ret, fieldError(4, err)
		}
		for idx, rule := range rules {
			if len(rule) != 2 {
				return ret, fmt.Errorf("[4][%d]: rules are [matcher, template] pairs, found %d fields", idx, len(rule))
			}
			m, err := decodeJSONMatcher(rule[0])
			if err != nil {
				return ret, fmt.Errorf("[4][%d][0]: %w", idx, err)
			}
			var template string
			if err := json.Unmarshal(rule[1], &template); err != nil {
				return ret, fmt.Errorf("[4][%d][1]: %w", idx, err)
			}
			ret.Rules = append(ret.Rules, match.Rule[string]{Matcher: m, Payload: template})
		}
	}
	return ret, nil
}

// decodeJSONMatcher accepts a literal, the wildcard as "*" or ["*"], a
// [low, high] numeric range, or a one element list wrapping a literal
func decodeJSONMatcher(raw json.RawMessage) (match.Matcher, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var items []trait.Value
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		switch len(items) {
		case 1:
			if isWildcard(items[0]) {
				return match.Wildcard{}, nil
			}
			return match.Literal{Value: items[0]}, nil
		case 2:
			if !items[0].IsNumber() || !items[1].IsNumber() {
				return nil, errors.New("range bounds must be numbers")
			}
			return match.Range{Low: items[0], High: items[1]}, nil
		default:
			return nil, fmt.Errorf("matcher lists have 1 or 2 items, found %d", len(items))
		}
	}
	var v trait.Value
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	if isWildcard(v) {
		return match.Wildcard{}, nil
	}
	return match.Literal{Value: v}, nil
}

func isWildcard(v trait.Value) bool {
	return !v.IsNumber() && v.Text() == WildcardText
}

// marshalJSON encodes without HTML escaping so SVG fragments stay readable
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
