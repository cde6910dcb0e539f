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

package compose

import "github.com/statforge/accrue/accumulator"

// Pure lifts a constant into the accumulator contract. It counts but
// otherwise ignores samples and always evaluates to the lifted value.
// Useful as a placeholder branch in a composition.
type Pure[V, R any] struct {
	value R
	count uint64
}

var _ accumulator.Accumulator[*Pure[float64, string], float64, string] = (*Pure[float64, string])(nil)

// NewPure returns an accumulator that always evaluates to value.
func NewPure[V, R any](value R) *Pure[V, R] {
	return &Pure[V, R]{value: value}
}

func (p *Pure[V, R]) Ingest(V) {
	p.count++
}

func (p *Pure[V, R]) Merge(other *Pure[V, R]) error {
	p.count += other.count
	return nil
}

func (p *Pure[V, R]) Eval() R {
	return p.value
}

func (p *Pure[V, R]) Fresh() *Pure[V, R] {
	return NewPure[V](p.value)
}

func (p *Pure[V, R]) Empty() bool {
	return p.count == 0
}

// Size returns the number of ignored samples.
func (p *Pure[V, R]) Size() uint64 { return p.count }
