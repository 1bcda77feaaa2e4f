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

package pattern_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blinklabs-io/godob/match"
	"github.com/blinklabs-io/godob/pattern"
	"github.com/blinklabs-io/godob/trait"
)

func colorfulLoot() []pattern.TraitDeclaration {
	return []pattern.TraitDeclaration{
		{
			Name:   "prev.bgcolor",
			Kind:   trait.KindString,
			Offset: 0,
			Length: 1,
			Decode: pattern.DecodeOptions,
			Args: []trait.Value{
				trait.String("#DBAB00"),
				trait.String("#FFBDFC"),
				trait.String("#09D3FF"),
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

func TestValidateBaseValid(t *testing.T) {
	require.NoError(t, pattern.ValidateBase(colorfulLoot()))
}

func TestValidateBaseErrors(t *testing.T) {
	testDefs := []struct {
		name   string
		mutate func([]pattern.TraitDeclaration) []pattern.TraitDeclaration
		index  int
	}{
		{
			name:   "empty pattern",
			mutate: func([]pattern.TraitDeclaration) []pattern.TraitDeclaration { return nil },
			index:  -1,
		},
		{
			name: "empty name",
			mutate: func(d []pattern.TraitDeclaration) []pattern.TraitDeclaration {
				d[1].Name = ""
				return d
			},
			index: 1,
		},
		{
			name: "duplicate name",
			mutate: func(d []pattern.TraitDeclaration) []pattern.TraitDeclaration {
				d[2].Name = "Type"
				return d
			},
			index: 2,
		},
		{
			name: "zero length",
			mutate: func(d []pattern.TraitDeclaration) []pattern.TraitDeclaration {
				d[0].Length = 0
				return d
			},
			index: 0,
		},
		{
			name: "empty options",
			mutate: func(d []pattern.TraitDeclaration) []pattern.TraitDeclaration {
				d[0].Args = nil
				return d
			},
			index: 0,
		},
		{
			name: "option kind mismatch",
			mutate: func(d []pattern.TraitDeclaration) []pattern.TraitDeclaration {
				d[0].Args = append(d[0].Args, trait.Int(5))
				return d
			},
			index: 0,
		},
		{
			name: "range with three arguments",
			mutate: func(d []pattern.TraitDeclaration) []pattern.TraitDeclaration {
				d[1].Args = append(d[1].Args, trait.Int(60))
				return d
			},
			index: 1,
		},
		{
			name: "range with string bound",
			mutate: func(d []pattern.TraitDeclaration) []pattern.TraitDeclaration {
				d[1].Args[1] = trait.String("50")
				return d
			},
			index: 1,
		},
		{
			name: "range min above max",
			mutate: func(d []pattern.TraitDeclaration) []pattern.TraitDeclaration {
				d[1].Args = []trait.Value{trait.Int(50), trait.Int(10)}
				return d
			},
			index: 1,
		},
		{
			name: "range on string trait",
			mutate: func(d []pattern.TraitDeclaration) []pattern.TraitDeclaration {
				d[1].Kind = trait.KindString
				return d
			},
			index: 1,
		},
		{
			name: "rawNumber with arguments",
			mutate: func(d []pattern.TraitDeclaration) []pattern.TraitDeclaration {
				d[2].Args = []trait.Value{trait.Int(1)}
				return d
			},
			index: 2,
		},
		{
			name: "rawNumber on string trait",
			mutate: func(d []pattern.TraitDeclaration) []pattern.TraitDeclaration {
				d[2].Kind = trait.KindString
				return d
			},
			index: 2,
		},
		{
			name: "unknown decode kind",
			mutate: func(d []pattern.TraitDeclaration) []pattern.TraitDeclaration {
				d[2].Decode = pattern.DecodeKind(9)
				return d
			},
			index: 2,
		},
		{
			name: "unknown trait kind",
			mutate: func(d []pattern.TraitDeclaration) []pattern.TraitDeclaration {
				d[0].Kind = trait.Kind(9)
				return d
			},
			index: 0,
		},
		{
			name: "invalid UTF-8 name",
			mutate: func(d []pattern.TraitDeclaration) []pattern.TraitDeclaration {
				d[1].Name = "bad\xff"
				return d
			},
			index: 1,
		},
		{
			name: "invalid UTF-8 option",
			mutate: func(d []pattern.TraitDeclaration) []pattern.TraitDeclaration {
				d[0].Args[2] = trait.String("#\xc3\x28")
				return d
			},
			index: 0,
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			err := pattern.ValidateBase(testDef.mutate(colorfulLoot()))
			require.Error(t, err)
			assert.ErrorIs(t, err, pattern.ErrValidation)
			var validationErr *pattern.ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.Equal(t, 0, validationErr.Stage)
			assert.Equal(t, testDef.index, validationErr.Index)
		})
	}
}

func backgroundElements() []pattern.VisualElement {
	return []pattern.VisualElement{
		{
			Image: "IMAGE.0",
			Field: pattern.FieldAttributes,
			Match: pattern.MatchRaw,
			Raw:   "xmlns='http://www.w3.org/2000/svg' viewBox='0 0 300 200'",
		},
		{
			Image: "IMAGE.0",
			Field: pattern.FieldElements,
			Trait: "prev.bgcolor",
			Match: pattern.MatchOptions,
			Rules: []match.Rule[string]{
				{Matcher: match.Literal{Value: trait.String("#DBAB00")}, Payload: "<rect fill='#DBAB00'/>"},
				{Matcher: match.Wildcard{}, Payload: "<rect fill='pink'/>"},
			},
		},
		{
			Image: "IMAGE.0",
			Field: pattern.FieldElements,
			Trait: "Timestamp",
			Match: pattern.MatchOptions,
			Rules: []match.Rule[string]{
				{Matcher: match.NewRange(0, 1000000), Payload: "<text>{value}</text>"},
			},
		},
	}
}

func knownNames() map[string]struct{} {
	return map[string]struct{}{
		"prev.bgcolor": {},
		"Type":         {},
		"Timestamp":    {},
	}
}

func TestValidateVisualValid(t *testing.T) {
	require.NoError(t, pattern.ValidateVisual(1, backgroundElements(), knownNames()))
}

func TestValidateVisualErrors(t *testing.T) {
	testDefs := []struct {
		name   string
		mutate func([]pattern.VisualElement) []pattern.VisualElement
		index  int
	}{
		{
			name:   "empty pattern",
			mutate: func([]pattern.VisualElement) []pattern.VisualElement { return nil },
			index:  -1,
		},
		{
			name: "empty image name",
			mutate: func(e []pattern.VisualElement) []pattern.VisualElement {
				e[1].Image = ""
				return e
			},
			index: 1,
		},
		{
			name: "dangling trait reference",
			mutate: func(e []pattern.VisualElement) []pattern.VisualElement {
				e[2].Trait = "Birth Day"
				return e
			},
			index: 2,
		},
		{
			name: "options without trait",
			mutate: func(e []pattern.VisualElement) []pattern.VisualElement {
				e[1].Trait = ""
				return e
			},
			index: 1,
		},
		{
			name: "raw with rules",
			mutate: func(e []pattern.VisualElement) []pattern.VisualElement {
				e[0].Rules = e[1].Rules
				return e
			},
			index: 0,
		},
		{
			name: "unknown field",
			mutate: func(e []pattern.VisualElement) []pattern.VisualElement {
				e[0].Field = pattern.Field(3)
				return e
			},
			index: 0,
		},
		{
			name: "unknown match kind",
			mutate: func(e []pattern.VisualElement) []pattern.VisualElement {
				e[0].Match = pattern.MatchKind(3)
				return e
			},
			index: 0,
		},
		{
			name: "nil matcher",
			mutate: func(e []pattern.VisualElement) []pattern.VisualElement {
				e[1].Rules[0].Matcher = nil
				return e
			},
			index: 1,
		},
		{
			name: "range matcher with string bound",
			mutate: func(e []pattern.VisualElement) []pattern.VisualElement {
				e[2].Rules[0].Matcher = match.Range{Low: trait.String("a"), High: trait.Int(1)}
				return e
			},
			index: 2,
		},
		{
			name: "options without rules",
			mutate: func(e []pattern.VisualElement) []pattern.VisualElement {
				e[1].Rules = []match.Rule[string]{}
				return e
			},
			index: 1,
		},
		{
			name: "invalid UTF-8 image name",
			mutate: func(e []pattern.VisualElement) []pattern.VisualElement {
				e[1].Image = "IMAGE.\xff"
				return e
			},
			index: 1,
		},
		{
			name: "invalid UTF-8 raw fragment",
			mutate: func(e []pattern.VisualElement) []pattern.VisualElement {
				e[0].Raw = "viewBox='\xfe'"
				return e
			},
			index: 0,
		},
		{
			name: "invalid UTF-8 template",
			mutate: func(e []pattern.VisualElement) []pattern.VisualElement {
				e[2].Rules[0].Payload = "<text>\xff</text>"
				return e
			},
			index: 2,
		},
		{
			name: "invalid UTF-8 literal",
			mutate: func(e []pattern.VisualElement) []pattern.VisualElement {
				e[1].Rules[0].Matcher = match.Literal{Value: trait.String("\xff")}
				return e
			},
			index: 1,
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			err := pattern.ValidateVisual(2, testDef.mutate(backgroundElements()), knownNames())
			require.Error(t, err)
			assert.ErrorIs(t, err, pattern.ErrValidation)
			var validationErr *pattern.ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.Equal(t, 2, validationErr.Stage)
			assert.Equal(t, testDef.index, validationErr.Index)
		})
	}
}

func TestWrappingRangeMatcherIsValid(t *testing.T) {
	elems := []pattern.VisualElement{
		{
			Image: "IMAGE.0",
			Field: pattern.FieldElements,
			Trait: "Timestamp",
			Match: pattern.MatchOptions,
			Rules: []match.Rule[string]{
				{Matcher: match.NewRange(1222, 119), Payload: "Capricorn"},
			},
		},
	}
	assert.NoError(t, pattern.ValidateVisual(1, elems, knownNames()))
}

func TestImageNames(t *testing.T) {
	elems := backgroundElements()
	elems = append(elems, pattern.VisualElement{Image: "IMAGE.1", Match: pattern.MatchRaw})
	assert.Equal(t, []string{"IMAGE.0", "IMAGE.1"}, pattern.ImageNames(elems))
}

func TestKindNames(t *testing.T) {
	for _, name := range []string{"options", "range", "rawNumber"} {
		k, err := pattern.ParseDecodeKind(name)
		require.NoError(t, err)
		assert.Equal(t, name, k.String())
	}
	for _, name := range []string{"attributes", "elements"} {
		f, err := pattern.ParseField(name)
		require.NoError(t, err)
		assert.Equal(t, name, f.String())
	}
	for _, name := range []string{"raw", "options"} {
		k, err := pattern.ParseMatchKind(name)
		require.NoError(t, err)
		assert.Equal(t, name, k.String())
	}
	_, err := pattern.ParseDecodeKind("Options")
	assert.Error(t, err)
	_, err = pattern.ParseField("body")
	assert.Error(t, err)
	_, err = pattern.ParseMatchKind("range")
	assert.Error(t, err)
}

func TestValidationErrorMessage(t *testing.T) {
	err := pattern.ValidationError{Stage: 1, Index: 2, Name: "IMAGE.0", Message: "boom"}
	assert.Equal(t, `stage 1, entry 2 ("IMAGE.0"): boom`, err.Error())
	err = pattern.ValidationError{Stage: 1, Index: -1, Message: "boom"}
	assert.Equal(t, "stage 1: boom", err.Error())
}
