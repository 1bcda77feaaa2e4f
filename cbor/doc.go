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

// Package cbor provides CBOR encoding/decoding utilities for DOB cluster descriptions.
//
// This package wraps github.com/fxamacker/cbor/v2 with cached, deterministic
// encode and decode modes. Every encode uses core deterministic map ordering and
// the shortest integer form, so encoding the same value twice always yields the
// same bytes.
//
// # Key Types
//
//   - StructAsArray: Embed to encode struct fields as CBOR array instead of map
//   - RawMessage: Deferred decoding (like json.RawMessage)
//
// # Variant records
//
// Tagged variants are encoded as lists whose first item is a numeric ID:
//
//	[0]             // wildcard
//	[1, value]      // literal
//	[2, low, high]  // range
//
// DecodeIdFromList extracts that ID cheaply so callers can pick the concrete
// type before decoding the rest of the list.
//
// # DecodeGeneric
//
// Types with a custom UnmarshalCBOR that still want the default struct decoding
// for their exported fields call DecodeGeneric from inside UnmarshalCBOR:
//
//	func (s *stage) UnmarshalCBOR(data []byte) error {
//	    if err := cbor.DecodeGeneric(data, s); err != nil {
//	        return err
//	    }
//	    // post-process s
//	    return nil
//	}
package cbor
