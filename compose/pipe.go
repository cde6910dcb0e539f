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

import (
	"go.uber.org/multierr"

	"github.com/statforge/accrue/accumulator"
)

// Pipe chains two accumulators: each sample is ingested by the inner
// accumulator, and the inner's updated result is then ingested by the
// outer. The pipe evaluates to the outer's result.
type Pipe[V, RA, RB any, A accumulator.Accumulator[A, V, RA], B accumulator.Accumulator[B, RA, RB]] struct {
	inner A
	outer B
}

var _ accumulator.Accumulator[
	*Pipe[float64, float64, uint64, *accumulator.Max[float64], *accumulator.Count[float64]],
	float64,
	uint64,
] = (*Pipe[float64, float64, uint64, *accumulator.Max[float64], *accumulator.Count[float64]])(nil)

// NewPipe returns a chain feeding inner results into outer.
func NewPipe[V, RA, RB any, A accumulator.Accumulator[A, V, RA], B accumulator.Accumulator[B, RA, RB]](inner A, outer B) *Pipe[V, RA, RB, A, B] {
	return &Pipe[V, RA, RB, A, B]{inner: inner, outer: outer}
}

func (p *Pipe[V, RA, RB, A, B]) Ingest(v V) {
	p.inner.Ingest(v)
	p.outer.Ingest(p.inner.Eval())
}

// Merge merges both stages pairwise. The outer stage saw the receiver's
// own intermediate trajectory, not the interleaved one, so a merged
// pipe approximates the single-stream pipe unless the outer stage is
// order-insensitive.
func (p *Pipe[V, RA, RB, A, B]) Merge(other *Pipe[V, RA, RB, A, B]) error {
	return multierr.Append(
		p.inner.Merge(other.inner),
		p.outer.Merge(other.outer),
	)
}

func (p *Pipe[V, RA, RB, A, B]) Eval() RB {
	return p.outer.Eval()
}

func (p *Pipe[V, RA, RB, A, B]) Fresh() *Pipe[V, RA, RB, A, B] {
	return &Pipe[V, RA, RB, A, B]{inner: p.inner.Fresh(), outer: p.outer.Fresh()}
}

func (p *Pipe[V, RA, RB, A, B]) Empty() bool {
	return p.inner.Empty()
}

// Intermediate returns the inner stage's current result.
func (p *Pipe[V, RA, RB, A, B]) Intermediate() RA {
	return p.inner.Eval()
}

// Inner returns the first stage for direct inspection.
func (p *Pipe[V, RA, RB, A, B]) Inner() A { return p.inner }

// Outer returns the second stage for direct inspection.
func (p *Pipe[V, RA, RB, A, B]) Outer() B { return p.outer }
