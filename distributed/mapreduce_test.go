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

package distributed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statforge/accrue/accumulator"
)

func TestMapReduce_MatchesSequential(t *testing.T) {
	t.Parallel()

	values := make([]float64, 10_000)
	for i := range values {
		values[i] = float64(i%997) - 498.0
	}

	seq := accumulator.NewWelford[float64]()
	for _, v := range values {
		seq.Ingest(v)
	}

	got, err := MapReduce[float64, float64](
		context.Background(),
		accumulator.NewWelford[float64],
		values,
		WithWorkers(8),
	)
	require.NoError(t, err)

	assert.Equal(t, seq.Size(), got.Size())
	assert.InDelta(t, seq.Mean(), got.Mean(), 1e-9)
	assert.InDelta(t, seq.Variance(), got.Variance(), 1e-9)
}

func TestMapReduce_RaggedChunks(t *testing.T) {
	t.Parallel()

	// Lengths that do not divide evenly by the worker count; the
	// rounded-up chunk size must not index past the end of the slice.
	cases := []struct {
		name    string
		length  int
		workers int
	}{
		{"five_values_four_workers", 5, 4},
		{"seven_values_four_workers", 7, 4},
		{"prime_length_eight_workers", 10_007, 8},
		{"more_workers_than_values", 3, 8},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			values := make([]float64, tc.length)
			for i := range values {
				values[i] = float64(i + 1)
			}

			seq := accumulator.NewKBNSum[float64]()
			for _, v := range values {
				seq.Ingest(v)
			}

			got, err := MapReduce[float64, float64](
				context.Background(),
				accumulator.NewKBNSum[float64],
				values,
				WithWorkers(tc.workers),
			)
			require.NoError(t, err)
			assert.Equal(t, seq.Size(), got.Size())
			assert.InDelta(t, seq.Eval(), got.Eval(), 1e-9)
		})
	}
}

func TestMapReduce_EmptyInput(t *testing.T) {
	t.Parallel()

	got, err := MapReduce[float64, float64](
		context.Background(),
		accumulator.NewKBNSum[float64],
		nil,
	)
	require.NoError(t, err)
	assert.True(t, got.Empty())
}

func TestMapReduce_SingleWorkerFallsBackToSequential(t *testing.T) {
	t.Parallel()

	got, err := MapReduce[float64, float64](
		context.Background(),
		accumulator.NewKBNSum[float64],
		[]float64{1, 2, 3},
		WithWorkers(1),
	)
	require.NoError(t, err)
	assert.Equal(t, 6.0, got.Eval())
}

func TestMapReduce_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	values := make([]float64, 1_000)
	_, err := MapReduce[float64, float64](
		ctx,
		accumulator.NewKBNSum[float64],
		values,
		WithWorkers(4),
	)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMapReduce_SurfacesMergeErrors(t *testing.T) {
	t.Parallel()

	// Workers build identical layouts; force a mismatch by alternating
	// the configuration the factory hands out.
	layouts := make(chan uint64, 16)
	for i := 0; i < 16; i++ {
		layouts <- uint64(10 + i%2*10)
	}
	newAcc := func() *accumulator.Histogram[float64] {
		h, _ := accumulator.NewHistogram(0.0, 10.0, <-layouts)
		return h
	}

	values := make([]float64, 100)
	_, err := MapReduce[float64, float64](
		context.Background(),
		newAcc,
		values,
		WithWorkers(4),
	)
	assert.ErrorIs(t, err, accumulator.ErrBinLayout)
}

func TestMergeSequential(t *testing.T) {
	t.Parallel()

	partials := []*accumulator.KBNSum[float64]{
		accumulator.NewKBNSumOf(1.0),
		accumulator.NewKBNSumOf(2.0),
		accumulator.NewKBNSumOf(3.0),
	}
	got, err := MergeSequential[float64, float64](partials)
	require.NoError(t, err)
	assert.Equal(t, 6.0, got.Eval())

	_, err = MergeSequential[float64, float64]([]*accumulator.KBNSum[float64]{})
	assert.ErrorIs(t, err, ErrNoPartials)
}

func TestMergeTree_MatchesSequential(t *testing.T) {
	t.Parallel()

	mk := func(vals ...float64) []*accumulator.Welford[float64] {
		out := make([]*accumulator.Welford[float64], 0, len(vals))
		for _, v := range vals {
			out = append(out, accumulator.NewWelfordOf(v))
		}
		return out
	}

	vals := []float64{5, 3, 8, 1, 9, 2, 7}
	seq, err := MergeSequential[float64, float64](mk(vals...))
	require.NoError(t, err)

	tree, err := MergeTree[float64, float64](context.Background(), mk(vals...))
	require.NoError(t, err)

	assert.Equal(t, seq.Size(), tree.Size())
	assert.InDelta(t, seq.Mean(), tree.Mean(), 1e-10)
	assert.InDelta(t, seq.Variance(), tree.Variance(), 1e-10)
}

func TestMergeTree_SinglePartial(t *testing.T) {
	t.Parallel()

	got, err := MergeTree[float64, float64](
		context.Background(),
		[]*accumulator.KBNSum[float64]{accumulator.NewKBNSumOf(5.0)},
	)
	require.NoError(t, err)
	assert.Equal(t, 5.0, got.Eval())
}

func TestMergeTree_Empty(t *testing.T) {
	t.Parallel()

	_, err := MergeTree[float64, float64](
		context.Background(),
		[]*accumulator.KBNSum[float64]{},
	)
	assert.ErrorIs(t, err, ErrNoPartials)
}
