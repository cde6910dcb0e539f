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

// Side identifies which branch of a Conditional is active.
type Side int

const (
	SideWhen Side = iota
	SideOtherwise
)

// Conditional routes each sample to one of two accumulators of the same
// value and result type, chosen by a predicate. Switching branches
// resets the newly activated branch, so the active branch only ever
// holds the current run of same-branch samples. Eval reflects the
// active branch.
type Conditional[V, R any, A accumulator.Accumulator[A, V, R], B accumulator.Accumulator[B, V, R]] struct {
	pred      func(V) bool
	when      A
	otherwise B
	active    Side
}

var _ accumulator.Accumulator[
	*Conditional[float64, float64, *accumulator.Min[float64], *accumulator.Max[float64]],
	float64,
	float64,
] = (*Conditional[float64, float64, *accumulator.Min[float64], *accumulator.Max[float64]])(nil)

// NewConditional returns a router ingesting into when while the
// predicate holds and into otherwise when it does not. The when branch
// starts active.
func NewConditional[V, R any, A accumulator.Accumulator[A, V, R], B accumulator.Accumulator[B, V, R]](pred func(V) bool, when A, otherwise B) *Conditional[V, R, A, B] {
	return &Conditional[V, R, A, B]{
		pred:      pred,
		when:      when,
		otherwise: otherwise,
		active:    SideWhen,
	}
}

func (c *Conditional[V, R, A, B]) Ingest(v V) {
	want := SideOtherwise
	if c.pred(v) {
		want = SideWhen
	}
	if want != c.active {
		// Reset the branch being switched to; a run starts from scratch.
		if want == SideWhen {
			c.when = c.when.Fresh()
		} else {
			c.otherwise = c.otherwise.Fresh()
		}
		c.active = want
	}
	if c.active == SideWhen {
		c.when.Ingest(v)
	} else {
		c.otherwise.Ingest(v)
	}
}

// Merge combines the two routers only when both have the same active
// branch; a mismatch means the runs are not comparable and the merge is
// a no-op rather than an error.
func (c *Conditional[V, R, A, B]) Merge(other *Conditional[V, R, A, B]) error {
	if c.active != other.active {
		return nil
	}
	if c.active == SideWhen {
		return c.when.Merge(other.when)
	}
	return c.otherwise.Merge(other.otherwise)
}

func (c *Conditional[V, R, A, B]) Eval() R {
	if c.active == SideWhen {
		return c.when.Eval()
	}
	return c.otherwise.Eval()
}

func (c *Conditional[V, R, A, B]) Fresh() *Conditional[V, R, A, B] {
	return &Conditional[V, R, A, B]{
		pred:      c.pred,
		when:      c.when.Fresh(),
		otherwise: c.otherwise.Fresh(),
		active:    SideWhen,
	}
}

func (c *Conditional[V, R, A, B]) Empty() bool {
	if c.active == SideWhen {
		return c.when.Empty()
	}
	return c.otherwise.Empty()
}

// Active returns which branch is currently accumulating.
func (c *Conditional[V, R, A, B]) Active() Side { return c.active }

// When returns the predicate-true branch for direct inspection.
func (c *Conditional[V, R, A, B]) When() A { return c.when }

// Otherwise returns the predicate-false branch for direct inspection.
func (c *Conditional[V, R, A, B]) Otherwise() B { return c.otherwise }
