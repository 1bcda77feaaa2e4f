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

// Package match implements the ordered, first-match-wins rule lists used by
// DOB compositing, and the numeric range helpers shared with base decoding.
package match

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/blinklabs-io/godob/trait"
)

// Matcher decides whether a resolved trait value selects a rule
type Matcher interface {
	isMatcher()
	Matches(v trait.Value) bool
}

// Literal matches values equal to its own value. Equality is type aware.
type Literal struct {
	Value trait.Value
}

// Range matches numbers between Low and High inclusive. When Low is greater
// than High the range wraps: it matches values >= Low or <= High.
type Range struct {
	Low  trait.Value
	High trait.Value
}

// Wildcard matches every value
type Wildcard struct{}

func (Literal) isMatcher()  {}
func (Range) isMatcher()    {}
func (Wildcard) isMatcher() {}

func (l Literal) Matches(v trait.Value) bool {
	return l.Value.Equal(v)
}

func (Wildcard) Matches(trait.Value) bool {
	return true
}

// NewRange builds a Range from integer bounds
func NewRange(low, high int64) Range {
	return Range{Low: trait.Int(low), High: trait.Int(high)}
}

// Check verifies that both bounds are numbers
func (r Range) Check() error {
	if !r.Low.IsNumber() || !r.High.IsNumber() {
		return fmt.Errorf(
			"range bounds must be numbers, got %s and %s",
			r.Low.Kind(),
			r.High.Kind(),
		)
	}
	return nil
}

// Wraps reports whether the range spans a rollover (Low > High)
func (r Range) Wraps() bool {
	c, ok := r.Low.Cmp(r.High)
	return ok && c > 0
}

func (r Range) Matches(v trait.Value) bool {
	aboveLow, ok := v.Cmp(r.Low)
	if !ok {
		return false
	}
	belowHigh, ok := v.Cmp(r.High)
	if !ok {
		return false
	}
	if r.Wraps() {
		return aboveLow >= 0 || belowHigh <= 0
	}
	return aboveLow >= 0 && belowHigh <= 0
}

// ErrEmptyRange is returned by Map for a range whose High is below its Low
var ErrEmptyRange = errors.New("range has no values")

// Map projects a raw unsigned value into the range: Low + raw mod (High - Low + 1).
// The result always lies within [Low, High].
func (r Range) Map(raw *big.Int) (trait.Value, error) {
	if err := r.Check(); err != nil {
		return trait.Value{}, err
	}
	low := r.Low.Int()
	width := new(big.Int).Sub(r.High.Int(), low)
	width.Add(width, big.NewInt(1))
	if width.Sign() <= 0 {
		return trait.Value{}, fmt.Errorf("%w: [%s, %s]", ErrEmptyRange, r.Low, r.High)
	}
	// Mod is Euclidean, so the offset is non-negative even for negative input
	offset := new(big.Int).Mod(raw, width)
	return trait.Number(offset.Add(offset, low)), nil
}

func (r Range) String() string {
	return fmt.Sprintf("[%s, %s]", r.Low, r.High)
}

func (l Literal) String() string {
	return l.Value.String()
}

func (Wildcard) String() string {
	return "*"
}

// Rule pairs a matcher with the payload returned when it matches
type Rule[T any] struct {
	Matcher Matcher
	Payload T
}

// Resolve evaluates rules in order and returns the payload of the first rule
// whose matcher accepts v. It returns false when nothing matches; that is not
// an error, and callers decide what an unmatched value means.
func Resolve[T any](v trait.Value, rules []Rule[T]) (T, bool) {
	idx := Index(v, rules)
	if idx < 0 {
		var zero T
		return zero, false
	}
	return rules[idx].Payload, true
}

// Index returns the position of the first rule matching v, or -1. Rules with
// a nil matcher never match.
func Index[T any](v trait.Value, rules []Rule[T]) int {
	for i, rule := range rules {
		if rule.Matcher != nil && rule.Matcher.Matches(v) {
			return i
		}
	}
	return -1
}
