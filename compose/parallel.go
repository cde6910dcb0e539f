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

// Package compose combines accumulators into larger ones: fan-out over
// the same stream, chaining through intermediate results, predicate
// routing, and homogeneous groups. Every combinator is itself an
// accumulator, so compositions nest.
//
// The value and result type parameters come first on every combinator
// so callers can name just those and let the compiler infer the
// accumulator types from the arguments:
//
//	p := compose.NewParallel[float64, float64, uint64](
//		accumulator.NewKBNSum[float64](),
//		accumulator.NewCount[float64](),
//	)
package compose

import (
	"go.uber.org/multierr"

	"github.com/statforge/accrue/accumulator"
)

// Pair holds the two results of a Parallel accumulator.
type Pair[RA, RB any] struct {
	First  RA
	Second RB
}

// Parallel feeds every sample to two accumulators over the same value
// type and evaluates to both results. The sides may be different kinds.
type Parallel[V, RA, RB any, A accumulator.Accumulator[A, V, RA], B accumulator.Accumulator[B, V, RB]] struct {
	first  A
	second B
}

var _ accumulator.Accumulator[
	*Parallel[float64, float64, uint64, *accumulator.KBNSum[float64], *accumulator.Count[float64]],
	float64,
	Pair[float64, uint64],
] = (*Parallel[float64, float64, uint64, *accumulator.KBNSum[float64], *accumulator.Count[float64]])(nil)

// NewParallel returns a fan-out over the two accumulators.
func NewParallel[V, RA, RB any, A accumulator.Accumulator[A, V, RA], B accumulator.Accumulator[B, V, RB]](first A, second B) *Parallel[V, RA, RB, A, B] {
	return &Parallel[V, RA, RB, A, B]{first: first, second: second}
}

func (p *Parallel[V, RA, RB, A, B]) Ingest(v V) {
	p.first.Ingest(v)
	p.second.Ingest(v)
}

// Merge merges both sides pairwise. Structural errors from either side
// are combined; a failed side leaves the other side merged.
func (p *Parallel[V, RA, RB, A, B]) Merge(other *Parallel[V, RA, RB, A, B]) error {
	return multierr.Append(
		p.first.Merge(other.first),
		p.second.Merge(other.second),
	)
}

func (p *Parallel[V, RA, RB, A, B]) Eval() Pair[RA, RB] {
	return Pair[RA, RB]{First: p.first.Eval(), Second: p.second.Eval()}
}

func (p *Parallel[V, RA, RB, A, B]) Fresh() *Parallel[V, RA, RB, A, B] {
	return &Parallel[V, RA, RB, A, B]{first: p.first.Fresh(), second: p.second.Fresh()}
}

func (p *Parallel[V, RA, RB, A, B]) Empty() bool {
	return p.first.Empty() && p.second.Empty()
}

// First returns the left accumulator for direct inspection.
func (p *Parallel[V, RA, RB, A, B]) First() A { return p.first }

// Second returns the right accumulator for direct inspection.
func (p *Parallel[V, RA, RB, A, B]) Second() B { return p.second }
