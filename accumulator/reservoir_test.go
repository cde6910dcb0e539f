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

package accumulator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReservoir_CapacityValidation(t *testing.T) {
	t.Parallel()

	_, err := NewReservoir[float64](0, 1)
	assert.ErrorIs(t, err, ErrReservoirSize)

	_, err = NewReservoir[float64](-3, 1)
	assert.ErrorIs(t, err, ErrReservoirSize)
}

func TestReservoir_ExactWhileUnderCapacity(t *testing.T) {
	t.Parallel()

	r, err := NewReservoir[float64](100, 1)
	require.NoError(t, err)
	for i := 1; i <= 100; i++ {
		r.Ingest(float64(i))
	}

	assert.Equal(t, uint64(100), r.Size())
	assert.Equal(t, 100, r.SampleSize())
	assert.InDelta(t, 50.5, r.Median(), 1e-12)
	assert.InDelta(t, 25.75, r.Q1(), 1e-12)
	assert.InDelta(t, 75.25, r.Q3(), 1e-12)
	assert.InDelta(t, 49.5, r.IQR(), 1e-12)
	assert.InDelta(t, 50.5, r.Mean(), 1e-12)
}

func TestReservoir_QuantileEdges(t *testing.T) {
	t.Parallel()

	r, err := NewReservoir[float64](10, 7)
	require.NoError(t, err)
	for _, v := range []float64{3, 1, 4, 1, 5} {
		r.Ingest(v)
	}

	assert.Equal(t, 1.0, r.Quantile(0))
	assert.Equal(t, 5.0, r.Quantile(1))
	assert.Equal(t, 1.0, r.Quantile(-0.5))
	assert.Equal(t, 5.0, r.Quantile(1.5))
}

func TestReservoir_EmptyEvaluatesToZero(t *testing.T) {
	t.Parallel()

	r, err := NewReservoir[float64](10, 1)
	require.NoError(t, err)
	assert.True(t, r.Empty())
	assert.Equal(t, 0.0, r.Eval())
	assert.Equal(t, 0.0, r.Mean())
}

func TestReservoir_BoundedRetention(t *testing.T) {
	t.Parallel()

	r, err := NewReservoir[float64](50, 42)
	require.NoError(t, err)
	for i := 0; i < 10_000; i++ {
		r.Ingest(float64(i))
	}

	assert.Equal(t, uint64(10_000), r.Size())
	assert.Equal(t, 50, r.SampleSize())
	for _, v := range r.Sample() {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 10_000.0)
	}
}

func TestReservoir_SeedReproducibility(t *testing.T) {
	t.Parallel()

	run := func() []float64 {
		r, err := NewReservoir[float64](20, 12345)
		require.NoError(t, err)
		for i := 0; i < 5_000; i++ {
			r.Ingest(float64(i))
		}
		return r.Sample()
	}

	assert.Equal(t, run(), run())
}

func TestReservoir_MedianOfLargeUniformStream(t *testing.T) {
	t.Parallel()

	r, err := NewReservoir[float64](500, 99)
	require.NoError(t, err)
	for i := 0; i < 100_000; i++ {
		r.Ingest(float64(i % 1000))
	}

	// Sampling error only; the quantile math over the sample is exact.
	assert.InDelta(t, 500.0, r.Median(), 60.0)
}

func TestReservoir_MergeReingestsSample(t *testing.T) {
	t.Parallel()

	a, err := NewReservoir[float64](100, 1)
	require.NoError(t, err)
	b, err := NewReservoir[float64](100, 2)
	require.NoError(t, err)

	for i := 1; i <= 30; i++ {
		a.Ingest(float64(i))
		b.Ingest(float64(i + 30))
	}

	require.NoError(t, a.Merge(b))
	// Both sides were under capacity, so the merge is lossless.
	assert.Equal(t, 60, a.SampleSize())
	assert.InDelta(t, 30.5, a.Median(), 1e-12)
}

func TestReservoir_FreshKeepsConfiguration(t *testing.T) {
	t.Parallel()

	r, err := NewReservoir[float64](25, 7)
	require.NoError(t, err)
	r.Ingest(1)

	f := r.Fresh()
	assert.True(t, f.Empty())
	assert.Equal(t, 25, f.Capacity())
	assert.Equal(t, 0, f.SampleSize())
}

func TestReservoir_Quantiles(t *testing.T) {
	t.Parallel()

	r, err := NewReservoir[float64](10, 3)
	require.NoError(t, err)
	for i := 1; i <= 5; i++ {
		r.Ingest(float64(i))
	}

	qs := r.Quantiles([]float64{0, 0.5, 1})
	assert.Equal(t, []float64{1, 3, 5}, qs)
}
