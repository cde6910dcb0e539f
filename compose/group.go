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
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/statforge/accrue/accumulator"
)

// ErrGroupSize is returned when merging groups of different widths.
var ErrGroupSize = errors.New("compose: group width mismatch")

// Group fans each sample out to N accumulators of the same kind and
// evaluates to the slice of their results. Heterogeneous fan-out nests
// Parallel instead.
type Group[V, R any, A accumulator.Accumulator[A, V, R]] struct {
	members []A
}

var _ accumulator.Accumulator[
	*Group[float64, float64, *accumulator.KBNSum[float64]],
	float64,
	[]float64,
] = (*Group[float64, float64, *accumulator.KBNSum[float64]])(nil)

// NewGroup returns a fan-out over the given members.
func NewGroup[V, R any, A accumulator.Accumulator[A, V, R]](members ...A) *Group[V, R, A] {
	return &Group[V, R, A]{members: members}
}

func (g *Group[V, R, A]) Ingest(v V) {
	for _, m := range g.members {
		m.Ingest(v)
	}
}

// Merge merges member-by-member. Groups of different widths are
// structurally incompatible.
func (g *Group[V, R, A]) Merge(other *Group[V, R, A]) error {
	if len(g.members) != len(other.members) {
		return fmt.Errorf("%w: %d vs %d", ErrGroupSize, len(g.members), len(other.members))
	}
	var err error
	for i := range g.members {
		err = multierr.Append(err, g.members[i].Merge(other.members[i]))
	}
	return err
}

func (g *Group[V, R, A]) Eval() []R {
	out := make([]R, len(g.members))
	for i, m := range g.members {
		out[i] = m.Eval()
	}
	return out
}

func (g *Group[V, R, A]) Fresh() *Group[V, R, A] {
	members := make([]A, len(g.members))
	for i, m := range g.members {
		members[i] = m.Fresh()
	}
	return &Group[V, R, A]{members: members}
}

func (g *Group[V, R, A]) Empty() bool {
	for _, m := range g.members {
		if !m.Empty() {
			return false
		}
	}
	return true
}

// Len returns the number of members.
func (g *Group[V, R, A]) Len() int { return len(g.members) }

// Member returns one member for direct inspection.
func (g *Group[V, R, A]) Member(i int) A { return g.members[i] }
