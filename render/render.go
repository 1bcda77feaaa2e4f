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

// Package render runs a cluster description against DOB DNA: the base stage
// decodes traits, then each compositing stage builds images on top of them.
package render

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/blinklabs-io/godob/cluster"
	"github.com/blinklabs-io/godob/dna"
	"github.com/blinklabs-io/godob/dob0"
	"github.com/blinklabs-io/godob/dob1"
	"github.com/blinklabs-io/godob/trait"
)

type digest = [cluster.DigestSize]byte

// DefaultCacheSize is the number of cached descriptions kept when WithCacheSize is not used
const DefaultCacheSize = 256

// Renderer renders DOBs. It is safe for concurrent use.
type Renderer struct {
	logger       *slog.Logger
	concurrency  int
	cacheEnabled bool
	cacheSize    int
	validate     bool
	cacheMutex   sync.RWMutex
	cache        map[digest]*cluster.Description
	// Cached digests, oldest first
	cacheOrder []digest
}

// New returns a Renderer with the specified options
func New(opts ...OptionFunc) *Renderer {
	r := &Renderer{
		cacheEnabled: true,
		validate:     true,
		cache:        make(map[digest]*cluster.Description),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.concurrency < 1 {
		r.concurrency = runtime.GOMAXPROCS(0)
	}
	if r.cacheSize < 1 {
		r.cacheSize = DefaultCacheSize
	}
	return r
}

// Load decodes a cluster description, detecting the JSON envelope by its
// leading brace and treating anything else as CBOR, then registers it
func (r *Renderer) Load(data []byte) (*cluster.Description, error) {
	var desc *cluster.Description
	var err error
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		desc, err = cluster.DecodeJSON(trimmed)
	} else {
		desc, err = cluster.Decode(data)
	}
	if err != nil {
		return nil, err
	}
	return r.Register(desc)
}

// Register validates a decoded description and caches it by digest. The cache
// holds at most the configured number of descriptions and evicts the oldest
// first. The returned description is shared and must not be modified.
func (r *Renderer) Register(desc *cluster.Description) (*cluster.Description, error) {
	if desc == nil {
		return nil, errors.New("nil cluster description")
	}
	sum, err := cluster.Digest(desc)
	if err != nil {
		return nil, err
	}
	if r.cacheEnabled {
		r.cacheMutex.RLock()
		cached, ok := r.cache[sum]
		r.cacheMutex.RUnlock()
		if ok {
			r.logger.Debug(
				"cluster description cache hit",
				"digest",
				hex.EncodeToString(sum[:]),
			)
			return cached, nil
		}
	}
	if r.validate {
		if err := cluster.Validate(desc); err != nil {
			return nil, fmt.Errorf("invalid cluster description: %w", err)
		}
	}
	r.logger.Debug(
		"loaded cluster description",
		"digest",
		hex.EncodeToString(sum[:]),
		"protocol",
		desc.Protocol,
		"stages",
		len(desc.Stages),
	)
	if !r.cacheEnabled {
		return desc, nil
	}
	r.cacheMutex.Lock()
	defer r.cacheMutex.Unlock()
	// Another goroutine may have registered the same description meanwhile
	if cached, ok := r.cache[sum]; ok {
		return cached, nil
	}
	for len(r.cacheOrder) >= r.cacheSize {
		oldest := r.cacheOrder[0]
		r.cacheOrder = r.cacheOrder[1:]
		delete(r.cache, oldest)
		r.logger.Debug(
			"evicted cluster description",
			"digest",
			hex.EncodeToString(oldest[:]),
		)
	}
	r.cache[sum] = desc
	r.cacheOrder = append(r.cacheOrder, sum)
	return desc, nil
}

// Cached returns the number of cached descriptions
func (r *Renderer) Cached() int {
	r.cacheMutex.RLock()
	defer r.cacheMutex.RUnlock()
	return len(r.cache)
}

// Render renders a single DOB
func (r *Renderer) Render(
	ctx context.Context,
	desc *cluster.Description,
	d dna.DNA,
) (*Result, error) {
	if err := r.check(desc); err != nil {
		return nil, err
	}
	return r.render(ctx, desc, d)
}

// RenderContent renders the DOB whose DNA is carried in spore content
func (r *Renderer) RenderContent(
	ctx context.Context,
	desc *cluster.Description,
	content []byte,
) (*Result, error) {
	d, err := dna.ParseContent(content)
	if err != nil {
		return nil, err
	}
	return r.Render(ctx, desc, d)
}

// RenderBatch renders independent DOBs of one cluster concurrently. Results are
// returned in input order. The first failure cancels the remaining renders.
func (r *Renderer) RenderBatch(
	ctx context.Context,
	desc *cluster.Description,
	dnas []dna.DNA,
) ([]*Result, error) {
	if err := r.check(desc); err != nil {
		return nil, err
	}
	ret := make([]*Result, len(dnas))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for idx, d := range dnas {
		g.Go(func() error {
			res, err := r.render(gctx, desc, d)
			if err != nil {
				return fmt.Errorf("DNA %d: %w", idx, err)
			}
			ret[idx] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	r.logger.Debug("rendered batch", "count", len(dnas))
	return ret, nil
}

func (r *Renderer) check(desc *cluster.Description) error {
	if desc == nil || len(desc.Stages) == 0 {
		return errors.New("cluster description has no stages")
	}
	if r.validate {
		if err := cluster.Validate(desc); err != nil {
			return fmt.Errorf("invalid cluster description: %w", err)
		}
	}
	return nil
}

func (r *Renderer) render(
	ctx context.Context,
	desc *cluster.Description,
	d dna.DNA,
) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	base, err := dob0.Decode(d, desc.Stages[0].Traits)
	if err != nil {
		return nil, fmt.Errorf("stage 0: %w", err)
	}
	traits, err := trait.NewSet(base...)
	if err != nil {
		return nil, fmt.Errorf("stage 0: %w", err)
	}
	ret := &Result{}
	for idx := 1; idx < len(desc.Stages); idx++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		comp, err := dob1.Compose(traits, desc.Stages[idx].Elements)
		if err != nil {
			return nil, fmt.Errorf("stage %d: %w", idx, err)
		}
		for _, img := range comp.Traits() {
			if err := traits.Add(img); err != nil {
				return nil, fmt.Errorf("stage %d: %w", idx, err)
			}
		}
		ret.Images = append(ret.Images, comp.Images...)
	}
	ret.Traits = traits.All()
	ret.Preview = previewHints(ret.Traits)
	r.logger.Debug(
		"rendered DOB",
		"dna",
		d.String(),
		"traits",
		len(ret.Traits),
		"images",
		len(ret.Images),
	)
	return ret, nil
}
