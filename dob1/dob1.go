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

// Package dob1 implements the compositing stage of DOB rendering: mapping
// resolved traits through ordered match rules into SVG fragments.
package dob1

import (
	"errors"
	"fmt"
	"strings"

	"github.com/blinklabs-io/godob/match"
	"github.com/blinklabs-io/godob/pattern"
	"github.com/blinklabs-io/godob/trait"
)

// ValuePlaceholder is replaced by the resolved trait value in emitted fragments
const ValuePlaceholder = "{value}"

// Sentinel error for references to traits that no earlier stage produced
var ErrUnknownTrait = errors.New("unknown trait")

// UnknownTraitError indicates a compositing element that references a trait
// missing from the resolved set
type UnknownTraitError struct {
	Image string
	Trait string
}

func (e UnknownTraitError) Error() string {
	return fmt.Sprintf("image %q references unknown trait %q", e.Image, e.Trait)
}

func (UnknownTraitError) Is(target error) bool {
	return target == ErrUnknownTrait
}

// Image is the assembled description of one named image.
//
// Attribute fragments are joined with a single space, skipping empty ones, so
// fragments such as "width='10'" and "height='10'" stay separate attributes.
// Element fragments are concatenated with no separator. Renderers that must
// agree byte for byte on SVG output have to follow both rules.
type Image struct {
	Name string
	// Attribute fragments in declaration order, joined by single spaces
	Attributes string
	// Element fragments in declaration order. An options element that matched
	// nothing contributes an empty fragment.
	Elements []string
}

// SVG assembles the image into a single SVG document
func (i Image) SVG() string {
	var sb strings.Builder
	sb.WriteString("<svg")
	if i.Attributes != "" {
		sb.WriteString(" ")
		sb.WriteString(i.Attributes)
	}
	sb.WriteString(">")
	for _, elem := range i.Elements {
		sb.WriteString(elem)
	}
	sb.WriteString("</svg>")
	return sb.String()
}

// Composition holds the images of one compositing stage in order of first appearance
type Composition struct {
	Images []Image
}

// Get returns the named image
func (c *Composition) Get(name string) (Image, bool) {
	if c == nil {
		return Image{}, false
	}
	for _, img := range c.Images {
		if img.Name == name {
			return img, true
		}
	}
	return Image{}, false
}

// Traits returns one String trait per image, named after the image and holding
// its SVG, so that later stages can compose on top of earlier ones
func (c *Composition) Traits() []trait.Resolved {
	if c == nil {
		return nil
	}
	ret := make([]trait.Resolved, 0, len(c.Images))
	for _, img := range c.Images {
		ret = append(ret, trait.Resolved{Name: img.Name, Value: trait.String(img.SVG())})
	}
	return ret
}

// Compose runs a compositing stage over the traits resolved by earlier stages
func Compose(traits *trait.Set, elements []pattern.VisualElement) (*Composition, error) {
	ret := &Composition{}
	index := make(map[string]int)
	attrs := make(map[string][]string)
	for idx, elem := range elements {
		fragment, err := emit(traits, elem)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", idx, err)
		}
		imgIdx, ok := index[elem.Image]
		if !ok {
			imgIdx = len(ret.Images)
			index[elem.Image] = imgIdx
			ret.Images = append(ret.Images, Image{Name: elem.Image})
		}
		switch elem.Field {
		case pattern.FieldAttributes:
			if fragment != "" {
				attrs[elem.Image] = append(attrs[elem.Image], fragment)
			}
		case pattern.FieldElements:
			ret.Images[imgIdx].Elements = append(ret.Images[imgIdx].Elements, fragment)
		default:
			return nil, fmt.Errorf("element %d: unknown SVG field %s", idx, elem.Field)
		}
	}
	for i := range ret.Images {
		ret.Images[i].Attributes = strings.Join(attrs[ret.Images[i].Name], " ")
	}
	return ret, nil
}

// emit produces the fragment of a single element. An options element whose
// value matches no rule yields "" and no error.
func emit(traits *trait.Set, elem pattern.VisualElement) (string, error) {
	switch elem.Match {
	case pattern.MatchRaw:
		return elem.Raw, nil
	case pattern.MatchOptions:
		value, ok := traits.Get(elem.Trait)
		if !ok {
			return "", UnknownTraitError{Image: elem.Image, Trait: elem.Trait}
		}
		template, ok := match.Resolve(value, elem.Rules)
		if !ok {
			return "", nil
		}
		return Substitute(template, value), nil
	default:
		return "", fmt.Errorf("unknown pattern type %s", elem.Match)
	}
}

// Substitute replaces every {value} placeholder in template with v
func Substitute(template string, v trait.Value) string {
	return strings.ReplaceAll(template, ValuePlaceholder, v.String())
}
