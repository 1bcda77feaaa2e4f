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
	"log/slog"
)

// OptionFunc is a type that represents functions that modify the Renderer config
type OptionFunc func(*Renderer)

// WithLogger specifies the logger to use. If none is provided, slog.Default() is used
func WithLogger(logger *slog.Logger) OptionFunc {
	return func(r *Renderer) {
		r.logger = logger
	}
}

// WithConcurrency specifies how many DNAs RenderBatch renders at once. Values
// below 1 select runtime.GOMAXPROCS(0)
func WithConcurrency(concurrency int) OptionFunc {
	return func(r *Renderer) {
		r.concurrency = concurrency
	}
}

// WithCache specifies whether loaded descriptions are cached by digest. This is enabled by default
func WithCache(enabled bool) OptionFunc {
	return func(r *Renderer) {
		r.cacheEnabled = enabled
	}
}

// WithCacheSize specifies how many descriptions the cache holds. Once full, the
// oldest entry is evicted. Values below 1 select DefaultCacheSize
func WithCacheSize(size int) OptionFunc {
	return func(r *Renderer) {
		r.cacheSize = size
	}
}

// WithValidation specifies whether descriptions are validated before use. This is enabled
// by default. Disabling it trades early, descriptive errors for failures at render time
func WithValidation(enabled bool) OptionFunc {
	return func(r *Renderer) {
		r.validate = enabled
	}
}
