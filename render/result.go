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

package render

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/blinklabs-io/godob/dob1"
	"github.com/blinklabs-io/godob/trait"
)

// PreviewPrefix marks base traits that carry viewer hints rather than DOB attributes
const PreviewPrefix = "prev."

// Result is a rendered DOB
type Result struct {
	// Base traits followed by one trait per composed image
	Traits []trait.Resolved
	// Images of every compositing stage, in stage order
	Images []dob1.Image
	// Viewer hints keyed by the trait name without its "prev." prefix
	Preview map[string]string
}

// Image returns the named image
func (r *Result) Image(name string) (dob1.Image, bool) {
	for _, img := range r.Images {
		if img.Name == name {
			return img, true
		}
	}
	return dob1.Image{}, false
}

// Trait returns the value of the named trait
func (r *Result) Trait(name string) (trait.Value, bool) {
	for _, item := range r.Traits {
		if item.Name == name {
			return item.Value, true
		}
	}
	return trait.Value{}, false
}

type imageJSON struct {
	Name       string   `json:"name"`
	Attributes string   `json:"attributes"`
	Elements   []string `json:"elements"`
	SVG        string   `json:"svg"`
}

func (r Result) MarshalJSON() ([]byte, error) {
	tmp := struct {
		Traits  []trait.Resolved  `json:"traits"`
		Images  []imageJSON       `json:"images"`
		Preview map[string]string `json:"preview"`
	}{
		Traits:  r.Traits,
		Images:  make([]imageJSON, 0, len(r.Images)),
		Preview: r.Preview,
	}
	if tmp.Traits == nil {
		tmp.Traits = []trait.Resolved{}
	}
	if tmp.Preview == nil {
		tmp.Preview = map[string]string{}
	}
	for _, img := range r.Images {
		elements := img.Elements
		if elements == nil {
			elements = []string{}
		}
		tmp.Images = append(tmp.Images, imageJSON{
			Name:       img.Name,
			Attributes: img.Attributes,
			Elements:   elements,
			SVG:        img.SVG(),
		})
	}
	return marshalJSON(tmp)
}

// DobOutput renders the result in the output convention of on-chain spore
// decoders: one entry per trait, images tagged as SVG
func (r *Result) DobOutput() ([]byte, error) {
	type entry struct {
		Name   string           `json:"name"`
		Traits []map[string]any `json:"traits"`
	}
	images := make(map[string]dob1.Image, len(r.Images))
	for _, img := range r.Images {
		images[img.Name] = img
	}
	ret := make([]entry, 0, len(r.Traits))
	for _, item := range r.Traits {
		var value map[string]any
		if img, ok := images[item.Name]; ok {
			value = map[string]any{"SVG": img.SVG()}
		} else {
			value = map[string]any{item.Value.Kind().String(): item.Value}
		}
		ret = append(ret, entry{Name: item.Name, Traits: []map[string]any{value}})
	}
	return marshalJSON(ret)
}

func previewHints(traits []trait.Resolved) map[string]string {
	ret := make(map[string]string)
	for _, item := range traits {
		key, ok := strings.CutPrefix(item.Name, PreviewPrefix)
		if !ok || key == "" {
			continue
		}
		ret[key] = item.Value.String()
	}
	return ret
}

// marshalJSON encodes without HTML escaping so SVG markup stays readable
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
