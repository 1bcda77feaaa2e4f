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

package bench

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/blinklabs-io/godob/cluster"
	"github.com/blinklabs-io/godob/dob0"
	"github.com/blinklabs-io/godob/render"
)

func quietRenderer(opts ...render.OptionFunc) *render.Renderer {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return render.New(append([]render.OptionFunc{render.WithLogger(logger)}, opts...)...)
}

// BenchmarkDecodeJSON benchmarks parsing the on-chain JSON envelope.
func BenchmarkDecodeJSON(b *testing.B) {
	for _, name := range FixtureNames() {
		fixture := MustLoadClusterFixture(name)
		b.Run("Cluster_"+name, func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := cluster.DecodeJSON(fixture.JSON); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkDecodeCBOR benchmarks parsing the binary envelope.
func BenchmarkDecodeCBOR(b *testing.B) {
	for _, name := range FixtureNames() {
		fixture := MustLoadClusterFixture(name)
		b.Run("Cluster_"+name, func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := cluster.Decode(fixture.Cbor); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkDigest benchmarks the cache key computation done on every load.
func BenchmarkDigest(b *testing.B) {
	fixture := MustLoadClusterFixture("nervape")
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := cluster.Digest(fixture.Description); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkBaseDecode isolates the base stage.
func BenchmarkBaseDecode(b *testing.B) {
	dnas := RandomDNAs(1, 64)
	for _, name := range FixtureNames() {
		fixture := MustLoadClusterFixture(name)
		b.Run("Cluster_"+name, func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := dob0.Decode(dnas[i%len(dnas)], fixture.Description.Base()); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkRender benchmarks the full pipeline for a single DOB.
func BenchmarkRender(b *testing.B) {
	dnas := RandomDNAs(1, 64)
	ctx := context.Background()
	for _, name := range FixtureNames() {
		fixture := MustLoadClusterFixture(name)
		r := quietRenderer(render.WithValidation(false))
		b.Run("Cluster_"+name, func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := r.Render(ctx, fixture.Description, dnas[i%len(dnas)]); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkLoadCached benchmarks loading a description that is already cached.
func BenchmarkLoadCached(b *testing.B) {
	fixture := MustLoadClusterFixture("zodiac")
	r := quietRenderer()
	if _, err := r.Load(fixture.JSON); err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := r.Load(fixture.JSON); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkRenderBatch benchmarks concurrent rendering of a batch of DOBs.
func BenchmarkRenderBatch(b *testing.B) {
	dnas := RandomDNAs(2, 256)
	fixture := MustLoadClusterFixture("nervape")
	r := quietRenderer()
	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := r.RenderBatch(ctx, fixture.Description, dnas); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkRenderParallel benchmarks concurrent Render calls sharing one
// Renderer.
func BenchmarkRenderParallel(b *testing.B) {
	dnas := RandomDNAs(3, 64)
	fixture := MustLoadClusterFixture("zodiac")
	r := quietRenderer(render.WithValidation(false))
	ctx := context.Background()
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			if _, err := r.Render(ctx, fixture.Description, dnas[i%len(dnas)]); err != nil {
				b.Error(err)
				return
			}
			i++
		}
	})
}
