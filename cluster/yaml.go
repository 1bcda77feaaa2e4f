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
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"gopkg.in/yaml.v3"
)

const formatYAML = "yaml"

// DecodeYAML parses a description authored in YAML. The document has the same
// shape as the JSON envelope and goes through the same checks. Integers keep
// their exact digits, so values beyond 64 bits survive.
func DecodeYAML(data []byte) (*Description, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, CodecError{Format: formatYAML, Err: err}
	}
	tmp, err := yamlValue(&doc)
	if err != nil {
		return nil, CodecError{Format: formatYAML, Err: err}
	}
	if tmp == nil {
		return nil, CodecError{Format: formatYAML, Err: errors.New("empty document")}
	}
	jsonData, err := json.Marshal(tmp)
	if err != nil {
		return nil, CodecError{Format: formatYAML, Err: err}
	}
	ret, err := DecodeJSON(jsonData)
	if err != nil {
		var codecErr CodecError
		if errors.As(err, &codecErr) {
			codecErr.Format = formatYAML
			return nil, codecErr
		}
		return nil, CodecError{Format: formatYAML, Err: err}
	}
	return ret, nil
}

// yamlValue converts a YAML node into values encoding/json can marshal.
// Integers become json.Number in base 10.
func yamlValue(node *yaml.Node) (any, error) {
	switch node.Kind {
	case 0:
		return nil, nil
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return yamlValue(node.Content[0])
	case yaml.AliasNode:
		return yamlValue(node.Alias)
	case yaml.SequenceNode:
		ret := make([]any, 0, len(node.Content))
		for _, child := range node.Content {
			item, err := yamlValue(child)
			if err != nil {
				return nil, err
			}
			ret = append(ret, item)
		}
		return ret, nil
	case yaml.MappingNode:
		ret := make(map[string]any, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i]
			if key.Kind != yaml.ScalarNode || key.ShortTag() != "!!str" {
				return nil, fmt.Errorf("line %d: mapping keys must be strings", key.Line)
			}
			if _, ok := ret[key.Value]; ok {
				return nil, fmt.Errorf("line %d: duplicate key %q", key.Line, key.Value)
			}
			item, err := yamlValue(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			ret[key.Value] = item
		}
		return ret, nil
	case yaml.ScalarNode:
		return yamlScalar(node)
	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node kind %d", node.Line, node.Kind)
	}
}

func yamlScalar(node *yaml.Node) (any, error) {
	switch node.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var ret bool
		if err := node.Decode(&ret); err != nil {
			return nil, err
		}
		return ret, nil
	case "!!int":
		// Base 0 follows YAML's prefixes and digit separators
		if n, ok := new(big.Int).SetString(node.Value, 0); ok {
			return json.Number(n.String()), nil
		}
		return nil, fmt.Errorf("line %d: %q is not an integer", node.Line, node.Value)
	case "!!float":
		// Plain integers beyond 64 bits resolve as floats
		if n, ok := new(big.Int).SetString(node.Value, 10); ok {
			return json.Number(n.String()), nil
		}
		return nil, fmt.Errorf("line %d: %q is not an integer", node.Line, node.Value)
	default:
		return node.Value, nil
	}
}

// EncodeYAML renders the description as YAML in the JSON envelope's shape
func EncodeYAML(d *Description) ([]byte, error) {
	jsonData, err := EncodeJSON(d)
	if err != nil {
		return nil, err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(jsonData, &doc); err != nil {
		return nil, CodecError{Format: formatYAML, Err: err}
	}
	blockStyle(&doc)
	ret, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, CodecError{Format: formatYAML, Err: err}
	}
	return ret, nil
}

// blockStyle switches collections parsed from JSON to block style. Scalars
// keep their quoting so "*" and SVG fragments survive unchanged.
func blockStyle(node *yaml.Node) {
	if node.Kind == yaml.MappingNode || node.Kind == yaml.SequenceNode {
		node.Style &^= yaml.FlowStyle
	}
	for _, child := range node.Content {
		blockStyle(child)
	}
}
