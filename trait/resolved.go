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

package trait

import (
	"fmt"
)

// Resolved is a named trait value produced by a decoding stage
type Resolved struct {
	Name  string
	Value Value
}

func (r Resolved) MarshalJSON() ([]byte, error) {
	tmp := struct {
		Name  string `json:"name"`
		Type  string `json:"type"`
		Value Value  `json:"value"`
	}{
		Name:  r.Name,
		Type:  r.Value.Kind().String(),
		Value: r.Value,
	}
	return marshalJSON(tmp)
}

// Set is an ordered collection of resolved traits with unique names. Later
// stages read it; only the stage that produced a trait adds it.
type Set struct {
	items []Resolved
	index map[string]int
}

// NewSet builds a Set from traits in order, failing on duplicate names
func NewSet(items ...Resolved) (*Set, error) {
	s := &Set{
		items: make([]Resolved, 0, len(items)),
		index: make(map[string]int, len(items)),
	}
	for _, item := range items {
		if err := s.Add(item); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add appends a trait, failing if the name is already present
func (s *Set) Add(r Resolved) error {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if _, ok := s.index[r.Name]; ok {
		return fmt.Errorf("duplicate trait name %q", r.Name)
	}
	s.index[r.Name] = len(s.items)
	s.items = append(s.items, r)
	return nil
}

// Get returns the value of the named trait
func (s *Set) Get(name string) (Value, bool) {
	if s == nil {
		return Value{}, false
	}
	idx, ok := s.index[name]
	if !ok {
		return Value{}, false
	}
	return s.items[idx].Value, true
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// All returns a copy of the traits in insertion order
func (s *Set) All() []Resolved {
	if s == nil {
		return nil
	}
	ret := make([]Resolved, len(s.items))
	copy(ret, s.items)
	return ret
}
