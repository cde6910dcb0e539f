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

import "math"

// Welford computes running mean and variance in a single pass using
// Welford's online algorithm. The running mean and the sum of squared
// deviations are each held in a compensated sum, so the result stays
// stable even over very long streams. Never computed as E[x^2]-E[x]^2.
type Welford[F Float] struct {
	count uint64
	mean  KBNSum[F]
	m2    KBNSum[F]
}

var _ Accumulator[*Welford[float64], float64, float64] = (*Welford[float64])(nil)

// NewWelford returns an empty moment accumulator.
func NewWelford[F Float]() *Welford[F] {
	return &Welford[F]{}
}

// NewWelfordOf returns a moment accumulator seeded with one sample.
func NewWelfordOf[F Float](v F) *Welford[F] {
	w := NewWelford[F]()
	w.Ingest(v)
	return w
}

func (w *Welford[F]) Ingest(v F) {
	w.count++
	delta := v - w.mean.Eval()
	w.mean.add(delta / F(w.count))
	// The deviation from the updated mean, combined with the deviation
	// from the pre-update mean, is what keeps M2 free of catastrophic
	// cancellation.
	delta2 := v - w.mean.Eval()
	w.m2.add(delta * delta2)
}

// Merge combines two moment accumulators with the parallel-variance
// formula of Chan et al.
func (w *Welford[F]) Merge(other *Welford[F]) error {
	if other.count == 0 {
		return nil
	}
	if w.count == 0 {
		*w = *other
		return nil
	}

	n1 := F(w.count)
	n2 := F(other.count)
	n := n1 + n2
	delta := other.mean.Eval() - w.mean.Eval()

	w.mean.set((n1*w.mean.Eval() + n2*other.mean.Eval()) / n)
	w.m2.add(other.m2.Eval() + delta*delta*n1*n2/n)
	w.count += other.count
	return nil
}

// Eval returns the running mean.
func (w *Welford[F]) Eval() F {
	return w.Mean()
}

func (w *Welford[F]) Fresh() *Welford[F] {
	return NewWelford[F]()
}

func (w *Welford[F]) Empty() bool {
	return w.count == 0
}

// Mean returns the sample mean, 0 when empty.
func (w *Welford[F]) Mean() F {
	if w.count == 0 {
		return 0
	}
	return w.mean.Eval()
}

// Variance returns the population variance (divide by n), 0 when empty.
func (w *Welford[F]) Variance() F {
	if w.count == 0 {
		return 0
	}
	return w.m2.Eval() / F(w.count)
}

// SampleVariance returns the sample variance (divide by n-1), 0 when
// fewer than two samples have been seen.
func (w *Welford[F]) SampleVariance() F {
	if w.count < 2 {
		return 0
	}
	return w.m2.Eval() / F(w.count-1)
}

// StdDev returns the population standard deviation.
func (w *Welford[F]) StdDev() F {
	return F(math.Sqrt(float64(w.Variance())))
}

// SampleStdDev returns the sample standard deviation.
func (w *Welford[F]) SampleStdDev() F {
	return F(math.Sqrt(float64(w.SampleVariance())))
}

// Sum returns the total of all ingested samples (mean times count).
func (w *Welford[F]) Sum() F {
	return w.mean.Eval() * F(w.count)
}

// SumSquaredDeviations exposes M2 for serialization and merge testing.
func (w *Welford[F]) SumSquaredDeviations() F {
	return w.m2.Eval()
}

// Size returns the number of samples ingested.
func (w *Welford[F]) Size() uint64 {
	return w.count
}
