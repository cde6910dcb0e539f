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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statforge/accrue/accumulator"
)

func newMinOrMax() *Conditional[float64, float64, *accumulator.Min[float64], *accumulator.Max[float64]] {
	return NewConditional[float64, float64](
		func(v float64) bool { return v < 3 },
		accumulator.NewMin[float64](),
		accumulator.NewMax[float64](),
	)
}

func TestConditional_SwitchResetsTargetBranch(t *testing.T) {
	t.Parallel()

	c := newMinOrMax()

	// Small values run through the min branch.
	c.Ingest(1)
	c.Ingest(2)
	assert.Equal(t, SideWhen, c.Active())
	assert.Equal(t, 1.0, c.Eval())

	// A large value switches to the max branch, which starts fresh.
	c.Ingest(4)
	c.Ingest(5)
	assert.Equal(t, SideOtherwise, c.Active())
	assert.Equal(t, 5.0, c.Eval())

	// Switching back resets the min branch; earlier 1 and 2 are gone.
	c.Ingest(1.5)
	c.Ingest(0.5)
	assert.Equal(t, SideWhen, c.Active())
	assert.Equal(t, 0.5, c.Eval())
}

func TestConditional_StartsOnWhenBranch(t *testing.T) {
	t.Parallel()

	c := newMinOrMax()
	assert.Equal(t, SideWhen, c.Active())
	assert.True(t, c.Empty())

	// First sample on the otherwise branch switches without losing it.
	c.Ingest(10)
	assert.Equal(t, SideOtherwise, c.Active())
	assert.Equal(t, 10.0, c.Eval())
}

func TestConditional_MergeSameActiveBranch(t *testing.T) {
	t.Parallel()

	a := newMinOrMax()
	b := newMinOrMax()
	a.Ingest(2)
	b.Ingest(1)

	require.NoError(t, a.Merge(b))
	assert.Equal(t, 1.0, a.Eval())
}

func TestConditional_MergeMismatchedActiveIsNoOp(t *testing.T) {
	t.Parallel()

	a := newMinOrMax()
	b := newMinOrMax()
	a.Ingest(2)  // when branch active
	b.Ingest(10) // otherwise branch active

	require.NoError(t, a.Merge(b))
	assert.Equal(t, SideWhen, a.Active())
	assert.Equal(t, 2.0, a.Eval())
}

func TestConditional_FreshResetsToWhen(t *testing.T) {
	t.Parallel()

	c := newMinOrMax()
	c.Ingest(10)

	f := c.Fresh()
	assert.Equal(t, SideWhen, f.Active())
	assert.True(t, f.Empty())
}
