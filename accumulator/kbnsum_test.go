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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKBNSum_CatastrophicCancellation(t *testing.T) {
	t.Parallel()

	s := NewKBNSum[float64]()
	for _, v := range []float64{1e16, 1.0, 1.0, -1e16} {
		s.Ingest(v)
	}
	assert.Equal(t, 2.0, s.Eval())
	assert.Equal(t, uint64(4), s.Size())
}

func TestKBNSum_NaivelyLostSmallTerms(t *testing.T) {
	t.Parallel()

	// 1.0 followed by many terms each too small to register individually.
	s := NewKBNSum[float64]()
	s.Ingest(1.0)
	for i := 0; i < 1_000_000; i++ {
		s.Ingest(1e-16)
	}
	assert.InDelta(t, 1.0+1e-10, s.Eval(), 1e-13)
}

func TestKBNSum_Empty(t *testing.T) {
	t.Parallel()

	s := NewKBNSum[float64]()
	assert.True(t, s.Empty())
	assert.Equal(t, 0.0, s.Eval())

	s.Ingest(3.5)
	assert.False(t, s.Empty())
	assert.Equal(t, 3.5, s.Eval())
}

func TestKBNSum_MergeIdentity(t *testing.T) {
	t.Parallel()

	s := NewKBNSumOf(42.0)
	require.NoError(t, s.Merge(NewKBNSum[float64]()))
	assert.Equal(t, 42.0, s.Eval())
	assert.Equal(t, uint64(1), s.Size())

	empty := NewKBNSum[float64]()
	require.NoError(t, empty.Merge(NewKBNSumOf(42.0)))
	assert.Equal(t, 42.0, empty.Eval())
	assert.Equal(t, uint64(1), empty.Size())
}

func TestKBNSum_SplitMergeMatchesSequential(t *testing.T) {
	t.Parallel()

	values := []float64{1e16, 3.25, -7.5, 1.0, -1e16, 2.125, 0.0625}

	seq := NewKBNSum[float64]()
	for _, v := range values {
		seq.Ingest(v)
	}

	left := NewKBNSum[float64]()
	right := NewKBNSum[float64]()
	for i, v := range values {
		if i < len(values)/2 {
			left.Ingest(v)
		} else {
			right.Ingest(v)
		}
	}
	require.NoError(t, left.Merge(right))

	assert.InDelta(t, seq.Eval(), left.Eval(), 1e-9)
	assert.Equal(t, seq.Size(), left.Size())
}

func TestKBNSum_NaNPropagates(t *testing.T) {
	t.Parallel()

	s := NewKBNSum[float64]()
	s.Ingest(1.0)
	s.Ingest(math.NaN())
	assert.True(t, math.IsNaN(s.Eval()))
}

func TestKBNSum_Fresh(t *testing.T) {
	t.Parallel()

	s := NewKBNSumOf(99.0)
	f := s.Fresh()
	assert.True(t, f.Empty())
	assert.Equal(t, 99.0, s.Eval())
}

func TestKBNSum_Float32(t *testing.T) {
	t.Parallel()

	s := NewKBNSum[float32]()
	s.Ingest(1.5)
	s.Ingest(2.5)
	assert.Equal(t, float32(4.0), s.Eval())
}
