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

package test

// ColorfulLootCluster is a DOB/0 description with preview hints, a range and
// a raw number trait.
//
// DNA 0a1b2c3d4e5f6071 decodes to prev.bgcolor #DBAB00, Type 37 and
// Timestamp 742215263.
const ColorfulLootCluster = `{
  "description": "A colorful loot cluster",
  "dob": {
    "ver": 0,
    "decoder": {
      "type": "code_hash",
      "hash": "0x13cac78ad8482202f18f9df4ea707611c35f994375fa03ae79121312dda9925c"
    },
    "pattern": [
      ["prev.bgcolor", "String", 0, 1, "options", ["#DBAB00", "#FFBDFC", "#09D3FF", "#AFE7F9", "#66C084"]],
      ["prev<%k: %v>", "String", 0, 1, "options", ["#FFFFFF", "#000000", "#FFBDFC", "#000000", "#FFFFFF"]],
      ["Type", "Number", 1, 1, "range", [10, 50]],
      ["Timestamp", "Number", 2, 4, "rawNumber"]
    ]
  }
}`

// NervapeCluster is a DOB/1 description layering images selected by
// option traits over a fixed base image.
//
// DNA 0102 selects "Volcano Eruption Magenta" and "Cap Nervos Green".
const NervapeCluster = `{
  "description": "A cluster with Nervape compose as the primary rendering objects.",
  "dob": {
    "ver": 1,
    "decoders": [
      {
        "decoder": {
          "type": "code_hash",
          "hash": "0x13cac78ad8482202f18f9df4ea707611c35f994375fa03ae79121312dda9925c"
        },
        "pattern": [
          ["Background", "String", 0, 1, "options", ["Flames Red", "Volcano Eruption Magenta", "Ocean Floor Blue", "Winter Wonderland Day"]],
          ["Headwear", "String", 1, 1, "options", ["Cap Bitcoin", "Nervape Xmas Tree Head Strap", "Cap Nervos Green", "Cap Nervape Yellow"]]
        ]
      },
      {
        "decoder": {
          "type": "code_hash",
          "hash": "0xda3525549b72970b4c95f5b5749357f20d1293d335710b674f09c32f7d54b6dc"
        },
        "pattern": [
          ["IMAGE.0", "attributes", "", "raw", "xmlns='http://www.w3.org/2000/svg' viewBox='0 0 500 500'"],
          ["IMAGE.0", "elements", "", "raw", "<image width='500' height='500' href='btcfs://base' />"],
          ["IMAGE.0", "elements", "Background", "options", [
            ["Flames Red", "<image width='500' height='500' href='btcfs://bg-red' />"],
            ["Volcano Eruption Magenta", "<image width='500' height='500' href='btcfs://bg-magenta' />"],
            ["Ocean Floor Blue", "<image width='500' height='500' href='btcfs://bg-blue' />"],
            ["Winter Wonderland Day", "<image width='500' height='500' href='btcfs://bg-winter' />"]
          ]],
          ["IMAGE.0", "elements", "Headwear", "options", [
            ["Cap Bitcoin", "<image width='500' height='500' href='btcfs://cap-bitcoin' />"],
            ["Cap Nervos Green", "<image width='500' height='500' href='btcfs://cap-green' />"],
            [["*"], "<image width='500' height='500' href='btcfs://cap-default' />"]
          ]]
        ]
      }
    ]
  }
}`

// ZodiacCluster is a DOB/1 description printing raw numbers with {value}
// and picking a sign through ranges, one of which wraps around the year.
//
// DNA 07cb04c7 is born in 1995 on day 1223, which is Capricorn.
const ZodiacCluster = `{
  "description": "A zodiac cluster.",
  "dob": {
    "ver": 1,
    "decoders": [
      {
        "pattern": [
          ["Birth Year", "Number", 0, 2, "rawNumber"],
          ["Birth Day", "Number", 2, 2, "rawNumber"]
        ]
      },
      {
        "pattern": [
          ["IMAGE.0", "attributes", "", "raw", "xmlns='http://www.w3.org/2000/svg' viewBox='0 0 500 500'"],
          ["IMAGE.0", "elements", "Birth Year", "options", [
            [["*"], "<text x=\"250\" y=\"200\">{value}</text>"]
          ]],
          ["IMAGE.0", "elements", "Birth Day", "options", [
            ["*", "<text x=\"250\" y=\"250\">{value}</text>"]
          ]],
          ["IMAGE.0", "elements", "Birth Day", "options", [
            [[321, 419], "<text x=\"250\" y=\"300\">Aries</text>"],
            [[622, 722], "<text x=\"250\" y=\"300\">Cancer</text>"],
            [[1222, 119], "<text x=\"250\" y=\"300\">Capricorn</text>"],
            [["*"], "<text x=\"250\" y=\"300\">Unknown</text>"]
          ]]
        ]
      }
    ]
  }
}`
