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

	"github.com/statforge/accrue/accumulator"
)

var lawSamples = []float64{2.5, -1.25, 19, 4, 4, 8.875, -30.5, 0, 12, 3.5, 7, -2}

func TestLaws_KBNSumIsAMonoid(t *testing.T) {
	t.Parallel()

	err := VerifyMonoid[float64, float64](
		accumulator.NewKBNSum[float64],
		lawSamples,
		Float64Near(1e-9),
	)
	assert.NoError(t, err)
}

func TestLaws_WelfordIsAMonoid(t *testing.T) {
	t.Parallel()

	err := VerifyMonoid[float64, float64](
		accumulator.NewWelford[float64],
		lawSamples,
		Float64Near(1e-9),
	)
	assert.NoError(t, err)
}

func TestLaws_MinMaxIsAMonoid(t *testing.T) {
	t.Parallel()

	err := VerifyMonoid[float64, accumulator.Extent[float64]](
		accumulator.NewMinMax[float64],
		lawSamples,
		Exactly[accumulator.Extent[float64]](),
	)
	assert.NoError(t, err)
}

func TestLaws_CountIsAMonoid(t *testing.T) {
	t.Parallel()

	err := VerifyMonoid[float64, uint64](
		accumulator.NewCount[float64],
		lawSamples,
		Exactly[uint64](),
	)
	assert.NoError(t, err)
}

func TestLaws_ProductIsAMonoid(t *testing.T) {
	t.Parallel()

	samples := []float64{1.5, 2, 0.25, 8, 3, 0.5}
	err := VerifyMonoid[float64, float64](
		accumulator.NewProduct[float64],
		samples,
		Float64Near(1e-9),
	)
	assert.NoError(t, err)
}

func TestLaws_HistogramIsAMonoid(t *testing.T) {
	t.Parallel()

	newHist := func() *accumulator.Histogram[float64] {
		h, _ := accumulator.NewHistogram(-50.0, 50.0, 20)
		return h
	}
	err := VerifyMonoid[float64, float64](newHist, lawSamples, Float64Near(1e-9))
	assert.NoError(t, err)
}

func TestLaws_ParallelOfMonoidsIsAMonoid(t *testing.T) {
	t.Parallel()

	newPar := func() *Parallel[float64, float64, uint64, *accumulator.KBNSum[float64], *accumulator.Count[float64]] {
		return newSumAndCount()
	}
	eq := func(a, b Pair[float64, uint64]) bool {
		return Float64Near(1e-9)(a.First, b.First) && a.Second == b.Second
	}
	err := VerifyMonoid[float64, Pair[float64, uint64]](newPar, lawSamples, eq)
	assert.NoError(t, err)
}

func TestLaws_ViolationIsReported(t *testing.T) {
	t.Parallel()

	// An EMA merge depends on arrival order, so split/merge equivalence
	// does not hold for a stream whose halves have different levels.
	newEMA := func() *accumulator.EMA[float64] {
		e, _ := accumulator.NewEMA(0.9)
		return e
	}
	samples := []float64{1, 1, 1, 100, 100, 100}
	err := VerifySplitMergeEquivalence[float64, float64](newEMA, samples, Float64Near(1e-9))
	assert.Error(t, err)
}

func TestFold_IngestsAndEvaluates(t *testing.T) {
	t.Parallel()

	got := Fold[float64, float64](accumulator.NewKBNSum[float64](), 1, 2, 3)
	assert.Equal(t, 6.0, got)
}

func TestMergeAll_FoldsLeft(t *testing.T) {
	t.Parallel()

	a := accumulator.NewKBNSumOf(1.0)
	b := accumulator.NewKBNSumOf(2.0)
	c := accumulator.NewKBNSumOf(3.0)

	merged, err := MergeAll[float64, float64](a, b, c)
	assert.NoError(t, err)
	assert.Equal(t, 6.0, merged.Eval())
}
