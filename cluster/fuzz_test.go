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
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/blinklabs-io/godob/internal/test"
)

func FuzzDecodeJSON(f *testing.F) {
	f.Add([]byte(test.ColorfulLootCluster))
	f.Add([]byte(test.NervapeCluster))
	f.Add([]byte(test.ZodiacCluster))
	f.Add([]byte(`{"dob":{"ver":0,"pattern":[]}}`))
	f.Add([]byte(`{"dob":{"ver":1,"decoders":[{"pattern":null}]}}`))
	f.Fuzz(func(t *testing.T, data []byte) {
		desc, err := DecodeJSON(data)
		if err != nil {
			return
		}
		encoded, err := EncodeJSON(desc)
		if err != nil {
			t.Fatalf("re-encoding decoded description: %v", err)
		}
		again, err := DecodeJSON(encoded)
		if err != nil {
			t.Fatalf("decoding re-encoded description: %v", err)
		}
		if diff := cmp.Diff(desc, again); diff != "" {
			t.Fatalf("JSON round trip mismatch (-want +got):\n%s", diff)
		}
	})
}

func FuzzDecode(f *testing.F) {
	for _, fixture := range []string{test.ColorfulLootCluster, test.NervapeCluster, test.ZodiacCluster} {
		desc, err := DecodeJSON([]byte(fixture))
		if err != nil {
			f.Fatal(err)
		}
		data, err := Encode(desc)
		if err != nil {
			f.Fatal(err)
		}
		f.Add(data)
	}
	f.Add([]byte{0x83, 0x60, 0x00, 0x80})
	f.Fuzz(func(t *testing.T, data []byte) {
		desc, err := Decode(data)
		if err != nil {
			return
		}
		// Validation must not panic on anything the codec accepts
		_ = Validate(desc)
		encoded, err := Encode(desc)
		if err != nil {
			// Only an empty stage list can decode but not encode
			if len(desc.Stages) == 0 {
				return
			}
			t.Fatalf("re-encoding decoded description: %v", err)
		}
		again, err := Decode(encoded)
		if err != nil {
			t.Fatalf("decoding re-encoded description: %v", err)
		}
		if diff := cmp.Diff(desc, again); diff != "" {
			t.Fatalf("CBOR round trip mismatch (-want +got):\n%s", diff)
		}
	})
}
