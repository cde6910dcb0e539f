// Copyright 2025 StatForge, Inc
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

package codec

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// yamlEnvelope carries the kind and version alongside the state so a
// document identifies itself.
type yamlEnvelope struct {
	Kind    string    `yaml:"kind"`
	Version uint8     `yaml:"version"`
	State   yaml.Node `yaml:"state"`
}

// MarshalYAML renders an accumulator state as a self-describing YAML
// document.
func MarshalYAML[S any](kind Kind, st S) ([]byte, error) {
	var node yaml.Node
	if err := node.Encode(st); err != nil {
		return nil, fmt.Errorf("codec: encode state: %w", err)
	}
	return yaml.Marshal(yamlEnvelope{
		Kind:    kind.String(),
		Version: FormatVersion,
		State:   node,
	})
}

// UnmarshalYAML parses a YAML document produced by MarshalYAML,
// verifying the kind and version.
func UnmarshalYAML[S any](data []byte, want Kind) (S, error) {
	var st S
	var env yamlEnvelope
	if err := yaml.Unmarshal(data, &env); err != nil {
		return st, fmt.Errorf("codec: parse envelope: %w", err)
	}
	if env.Version != FormatVersion {
		return st, fmt.Errorf("%w: %d", ErrVersion, env.Version)
	}
	if KindFromName(env.Kind) != want {
		return st, fmt.Errorf("%w: got %q, want %q", ErrKindMismatch, env.Kind, want)
	}
	if err := env.State.Decode(&st); err != nil {
		return st, fmt.Errorf("codec: decode state: %w", err)
	}
	return st, nil
}
