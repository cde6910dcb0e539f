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

func TestEMA_AlphaValidation(t *testing.T) {
	t.Parallel()

	for _, alpha := range []float64{0, -0.1, 1.0001, 2} {
		_, err := NewEMA(alpha)
		assert.ErrorIs(t, err, ErrSmoothingFactor, "alpha %v", alpha)
	}

	e, err := NewEMA(1.0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, e.Alpha())
}

func TestEMA_FirstSampleSeeds(t *testing.T) {
	t.Parallel()

	e, err := NewEMA(0.5)
	require.NoError(t, err)

	e.Ingest(10)
	assert.Equal(t, 10.0, e.Eval())
	assert.Equal(t, 0.0, e.Variance())

	e.Ingest(20)
	assert.InDelta(t, 15.0, e.Eval(), 1e-12)
}

func TestEMA_AlphaOneTracksLastValue(t *testing.T) {
	t.Parallel()

	e, err := NewEMA(1.0)
	require.NoError(t, err)
	for _, v := range []float64{3, 9, -4, 7.5} {
		e.Ingest(v)
	}
	assert.Equal(t, 7.5, e.Eval())
}

func TestEMA_FromPeriod(t *testing.T) {
	t.Parallel()

	e, err := NewEMAFromPeriod[float64](19)
	require.NoError(t, err)
	assert.InDelta(t, 0.1, e.Alpha(), 1e-12)

	_, err = NewEMAFromPeriod[float64](0)
	assert.ErrorIs(t, err, ErrSmoothingFactor)
}

func TestEMA_FromHalfLife(t *testing.T) {
	t.Parallel()

	e, err := NewEMAFromHalfLife(10.0)
	require.NoError(t, err)

	// After exactly one half-life of samples the weight of the first
	// sample has decayed to one half.
	weight := 1.0
	for i := 0; i < 10; i++ {
		weight *= 1 - float64(e.Alpha())
	}
	assert.InDelta(t, 0.5, weight, 1e-9)

	_, err = NewEMAFromHalfLife(0.0)
	assert.ErrorIs(t, err, ErrSmoothingFactor)
}

func TestEMA_MergePreservesAlphaAndBlends(t *testing.T) {
	t.Parallel()

	a, err := NewEMA(0.2)
	require.NoError(t, err)
	a.Ingest(10)
	a.Ingest(10)

	b, err := NewEMA(0.2)
	require.NoError(t, err)
	b.Ingest(30)
	b.Ingest(30)

	require.NoError(t, a.Merge(b))
	assert.Equal(t, 0.2, a.Alpha())
	assert.InDelta(t, 20.0, a.Eval(), 1e-12)
	assert.Equal(t, uint64(4), a.Size())
}

func TestEMA_MergeIntoEmptyKeepsReceiverAlpha(t *testing.T) {
	t.Parallel()

	a, err := NewEMA(0.5)
	require.NoError(t, err)

	b, err := NewEMA(0.1)
	require.NoError(t, err)
	b.Ingest(42)

	require.NoError(t, a.Merge(b))
	assert.Equal(t, 0.5, a.Alpha())
	assert.Equal(t, 42.0, a.Eval())
}

func TestEMA_FreshKeepsAlpha(t *testing.T) {
	t.Parallel()

	e, err := NewEMA(0.3)
	require.NoError(t, err)
	e.Ingest(100)

	f := e.Fresh()
	assert.True(t, f.Empty())
	assert.Equal(t, 0.3, f.Alpha())
}
