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

func newSumAndCount() *Parallel[float64, float64, uint64, *accumulator.KBNSum[float64], *accumulator.Count[float64]] {
	return NewParallel[float64, float64, uint64](
		accumulator.NewKBNSum[float64](),
		accumulator.NewCount[float64](),
	)
}

func TestParallel_MeanFromSumAndCount(t *testing.T) {
	t.Parallel()

	p := newSumAndCount()
	for _, v := range []float64{2, 4, 6, 8} {
		p.Ingest(v)
	}

	res := p.Eval()
	assert.Equal(t, 20.0, res.First)
	assert.Equal(t, uint64(4), res.Second)
	assert.Equal(t, 5.0, res.First/float64(res.Second))
}

func TestParallel_SidesAreIndependentKinds(t *testing.T) {
	t.Parallel()

	p := NewParallel[float64, float64, accumulator.Extent[float64]](
		accumulator.NewWelford[float64](),
		accumulator.NewMinMax[float64](),
	)
	for _, v := range []float64{1, 2, 3, 4, 5} {
		p.Ingest(v)
	}

	res := p.Eval()
	assert.InDelta(t, 3.0, res.First, 1e-12)
	assert.Equal(t, 1.0, res.Second.Min)
	assert.Equal(t, 5.0, res.Second.Max)
	assert.InDelta(t, 2.0, p.First().Variance(), 1e-12)
}

func TestParallel_Merge(t *testing.T) {
	t.Parallel()

	a := newSumAndCount()
	b := newSumAndCount()
	a.Ingest(1)
	a.Ingest(2)
	b.Ingest(3)

	require.NoError(t, a.Merge(b))
	res := a.Eval()
	assert.Equal(t, 6.0, res.First)
	assert.Equal(t, uint64(3), res.Second)
}

func TestParallel_MergeSurfacesStructuralErrors(t *testing.T) {
	t.Parallel()

	mk := func(bins uint64) *Parallel[float64, float64, uint64, *accumulator.Histogram[float64], *accumulator.Count[float64]] {
		h, err := accumulator.NewHistogram(0.0, 10.0, bins)
		require.NoError(t, err)
		return NewParallel[float64, float64, uint64](h, accumulator.NewCount[float64]())
	}

	a := mk(10)
	b := mk(20)
	a.Ingest(5)
	b.Ingest(5)

	err := a.Merge(b)
	assert.ErrorIs(t, err, accumulator.ErrBinLayout)
	// The non-failing side still merged.
	assert.Equal(t, uint64(2), a.Second().Eval())
}

func TestParallel_FreshAndEmpty(t *testing.T) {
	t.Parallel()

	p := newSumAndCount()
	assert.True(t, p.Empty())
	p.Ingest(1)
	assert.False(t, p.Empty())

	f := p.Fresh()
	assert.True(t, f.Empty())
	assert.Equal(t, 1.0, p.Eval().First)
}

func TestParallel_Nesting(t *testing.T) {
	t.Parallel()

	inner := newSumAndCount()
	outer := NewParallel[float64, Pair[float64, uint64], float64](
		inner,
		accumulator.NewMax[float64](),
	)
	for _, v := range []float64{3, 1, 2} {
		outer.Ingest(v)
	}

	res := outer.Eval()
	assert.Equal(t, 6.0, res.First.First)
	assert.Equal(t, uint64(3), res.First.Second)
	assert.Equal(t, 3.0, res.Second)
}
