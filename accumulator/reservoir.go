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
	"errors"
	"fmt"
	"math/rand"

	"golang.org/x/exp/slices"
)

// ErrReservoirSize is returned when a reservoir is constructed with zero
// capacity.
var ErrReservoirSize = errors.New("reservoir: capacity must be > 0")

// Reservoir keeps a bounded uniform random sample of the stream and
// computes exact sort-based quantiles over the retained sample. The
// quantile arithmetic is exact; the sampling is the only source of
// error. The RNG seed is explicit accumulator state, never global, so
// runs are reproducible.
type Reservoir[F Float] struct {
	sample   []F
	capacity int
	count    uint64
	seed     int64
	rng      *rand.Rand
}

var _ Accumulator[*Reservoir[float64], float64, float64] = (*Reservoir[float64])(nil)

// NewReservoir returns a reservoir with the given capacity, seeded for
// reproducible sampling.
func NewReservoir[F Float](capacity int, seed int64) (*Reservoir[F], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrReservoirSize, capacity)
	}
	return &Reservoir[F]{
		sample:   make([]F, 0, capacity),
		capacity: capacity,
		seed:     seed,
		rng:      rand.New(rand.NewSource(seed)),
	}, nil
}

func (r *Reservoir[F]) Ingest(v F) {
	r.count++
	if len(r.sample) < r.capacity {
		r.sample = append(r.sample, v)
		return
	}
	// Replace a uniformly chosen slot with probability capacity/count.
	if j := r.rng.Int63n(int64(r.count)); j < int64(r.capacity) {
		r.sample[j] = v
	}
}

// Merge re-ingests the other reservoir's retained samples through the
// receiver's sampling process. Items either side already discarded are
// gone, so merging two downsampled reservoirs only approximates a single
// pass over the concatenated stream.
func (r *Reservoir[F]) Merge(other *Reservoir[F]) error {
	for _, v := range other.sample {
		r.Ingest(v)
	}
	return nil
}

// Eval returns the median of the retained sample.
func (r *Reservoir[F]) Eval() F {
	return r.Quantile(0.5)
}

// Fresh preserves capacity and seed and drops the sample.
func (r *Reservoir[F]) Fresh() *Reservoir[F] {
	fresh, _ := NewReservoir[F](r.capacity, r.seed)
	return fresh
}

func (r *Reservoir[F]) Empty() bool { return r.count == 0 }

// Quantile computes the exact p-quantile of the retained sample with
// linear interpolation between order statistics.
func (r *Reservoir[F]) Quantile(p float64) F {
	if len(r.sample) == 0 {
		return 0
	}
	sorted := slices.Clone(r.sample)
	slices.Sort(sorted)
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	idx := p * float64(len(sorted)-1)
	lo := int(idx)
	hi := lo + 1
	if hi > len(sorted)-1 {
		hi = len(sorted) - 1
	}
	frac := F(idx - float64(lo))
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Quantiles computes several quantiles over a single sorted copy.
func (r *Reservoir[F]) Quantiles(ps []float64) []F {
	out := make([]F, len(ps))
	if len(r.sample) == 0 {
		return out
	}
	sorted := slices.Clone(r.sample)
	slices.Sort(sorted)
	for i, p := range ps {
		switch {
		case p <= 0:
			out[i] = sorted[0]
		case p >= 1:
			out[i] = sorted[len(sorted)-1]
		default:
			idx := p * float64(len(sorted)-1)
			lo := int(idx)
			hi := lo + 1
			if hi > len(sorted)-1 {
				hi = len(sorted) - 1
			}
			frac := F(idx - float64(lo))
			out[i] = sorted[lo]*(1-frac) + sorted[hi]*frac
		}
	}
	return out
}

// Median returns the 0.5 quantile of the retained sample.
func (r *Reservoir[F]) Median() F { return r.Quantile(0.5) }

// Q1 returns the first quartile of the retained sample.
func (r *Reservoir[F]) Q1() F { return r.Quantile(0.25) }

// Q3 returns the third quartile of the retained sample.
func (r *Reservoir[F]) Q3() F { return r.Quantile(0.75) }

// IQR returns the interquartile range of the retained sample.
func (r *Reservoir[F]) IQR() F { return r.Q3() - r.Q1() }

// Mean returns the mean of the retained sample.
func (r *Reservoir[F]) Mean() F {
	if len(r.sample) == 0 {
		return 0
	}
	var sum KBNSum[F]
	for _, v := range r.sample {
		sum.add(v)
	}
	return sum.Eval() / F(len(r.sample))
}

// Size returns the number of samples ingested, retained or not.
func (r *Reservoir[F]) Size() uint64 { return r.count }

// SampleSize returns the number of retained samples.
func (r *Reservoir[F]) SampleSize() int { return len(r.sample) }

// Capacity returns the maximum number of retained samples.
func (r *Reservoir[F]) Capacity() int { return r.capacity }

// Sample returns a copy of the retained sample in retention order.
func (r *Reservoir[F]) Sample() []F {
	return slices.Clone(r.sample)
}
