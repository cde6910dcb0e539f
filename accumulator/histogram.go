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
)

var (
	// ErrHistogramRange is returned when a histogram is constructed with
	// min >= max or zero bins.
	ErrHistogramRange = errors.New("histogram: invalid range")

	// ErrBinLayout is returned by Merge when the two histograms do not
	// share an identical (min, max, bins) layout.
	ErrBinLayout = errors.New("histogram: bin layout mismatch")
)

// Histogram counts samples into fixed-width bins over [min, max).
// Samples below min land in the underflow counter, samples at or above
// max in the overflow counter. The upper bound is half-open: ingesting
// exactly max is overflow.
type Histogram[F Float] struct {
	min       F
	max       F
	bins      uint64
	binWidth  F
	counts    []uint64
	underflow uint64
	overflow  uint64
	total     uint64
}

var _ Accumulator[*Histogram[float64], float64, float64] = (*Histogram[float64])(nil)

// NewHistogram returns a histogram over [min, max) with the given number
// of equal-width bins.
func NewHistogram[F Float](min, max F, bins uint64) (*Histogram[F], error) {
	if min >= max {
		return nil, fmt.Errorf("%w: min %v >= max %v", ErrHistogramRange, min, max)
	}
	if bins == 0 {
		return nil, fmt.Errorf("%w: need at least one bin", ErrHistogramRange)
	}
	return &Histogram[F]{
		min:      min,
		max:      max,
		bins:     bins,
		binWidth: (max - min) / F(bins),
		counts:   make([]uint64, bins),
	}, nil
}

func (h *Histogram[F]) Ingest(v F) {
	h.total++
	switch {
	case v < h.min:
		h.underflow++
	case v >= h.max:
		h.overflow++
	default:
		bin := uint64((v - h.min) / h.binWidth)
		// Rounding can push a value just under max into a bin index equal
		// to bins; clamp it into the top bin.
		if bin >= h.bins {
			bin = h.bins - 1
		}
		h.counts[bin]++
	}
}

// Merge adds the other histogram's counters. Both sides must share an
// identical bin layout; a mismatch is a structural error, never silently
// reconciled.
func (h *Histogram[F]) Merge(other *Histogram[F]) error {
	if h.min != other.min || h.max != other.max || h.bins != other.bins {
		return fmt.Errorf("%w: [%v,%v)x%d vs [%v,%v)x%d",
			ErrBinLayout, h.min, h.max, h.bins, other.min, other.max, other.bins)
	}
	for i := range h.counts {
		h.counts[i] += other.counts[i]
	}
	h.underflow += other.underflow
	h.overflow += other.overflow
	h.total += other.total
	return nil
}

// Eval returns the bin-center-weighted mean estimate.
func (h *Histogram[F]) Eval() F {
	return h.Mean()
}

// Fresh preserves the bin layout and zeroes all counters.
func (h *Histogram[F]) Fresh() *Histogram[F] {
	fresh, _ := NewHistogram(h.min, h.max, h.bins)
	return fresh
}

func (h *Histogram[F]) Empty() bool { return h.total == 0 }

// Min returns the left edge of the first bin.
func (h *Histogram[F]) Min() F { return h.min }

// Max returns the (exclusive) right edge of the last bin.
func (h *Histogram[F]) Max() F { return h.max }

// Bins returns the number of bins.
func (h *Histogram[F]) Bins() uint64 { return h.bins }

// BinWidth returns the width of each bin.
func (h *Histogram[F]) BinWidth() F { return h.binWidth }

// Underflow returns the number of samples below min.
func (h *Histogram[F]) Underflow() uint64 { return h.underflow }

// Overflow returns the number of samples at or above max.
func (h *Histogram[F]) Overflow() uint64 { return h.overflow }

// Size returns the total number of samples, including under/overflow.
func (h *Histogram[F]) Size() uint64 { return h.total }

// BinCount returns the count in one bin, 0 for an out-of-range index.
func (h *Histogram[F]) BinCount(bin uint64) uint64 {
	if bin >= h.bins {
		return 0
	}
	return h.counts[bin]
}

// Counts returns a copy of the per-bin counters.
func (h *Histogram[F]) Counts() []uint64 {
	out := make([]uint64, len(h.counts))
	copy(out, h.counts)
	return out
}

// BinLeft returns the left edge of a bin.
func (h *Histogram[F]) BinLeft(bin uint64) F {
	return h.min + F(bin)*h.binWidth
}

// BinRight returns the right edge of a bin.
func (h *Histogram[F]) BinRight(bin uint64) F {
	return h.min + F(bin+1)*h.binWidth
}

// BinCenter returns the midpoint of a bin.
func (h *Histogram[F]) BinCenter(bin uint64) F {
	return h.min + (F(bin)+F(0.5))*h.binWidth
}

// Density returns count / (total * binWidth) for a bin.
func (h *Histogram[F]) Density(bin uint64) float64 {
	if h.total == 0 || bin >= h.bins {
		return 0
	}
	return float64(h.counts[bin]) / (float64(h.total) * float64(h.binWidth))
}

// Frequency returns count / total for a bin.
func (h *Histogram[F]) Frequency(bin uint64) float64 {
	if h.total == 0 || bin >= h.bins {
		return 0
	}
	return float64(h.counts[bin]) / float64(h.total)
}

// CumulativeCount returns the number of samples at or below the given
// bin, including underflow.
func (h *Histogram[F]) CumulativeCount(bin uint64) uint64 {
	sum := h.underflow
	for i := uint64(0); i <= bin && i < h.bins; i++ {
		sum += h.counts[i]
	}
	return sum
}

// CDF returns the cumulative distribution function value at a bin.
func (h *Histogram[F]) CDF(bin uint64) float64 {
	if h.total == 0 {
		return 0
	}
	return float64(h.CumulativeCount(bin)) / float64(h.total)
}

// Quantile estimates the p-quantile by linear interpolation within the
// bin containing the target rank. Out-of-range p or an empty histogram
// returns min.
func (h *Histogram[F]) Quantile(p float64) F {
	if h.total == 0 || p < 0 || p > 1 {
		return h.min
	}
	target := uint64(p * float64(h.total))
	cumsum := h.underflow
	for i := uint64(0); i < h.bins; i++ {
		if cumsum+h.counts[i] >= target {
			frac := 0.0
			if h.counts[i] > 0 {
				frac = float64(target-cumsum) / float64(h.counts[i])
			}
			return h.BinLeft(i) + F(frac)*h.binWidth
		}
		cumsum += h.counts[i]
	}
	return h.max
}

// Median estimates the 0.5 quantile.
func (h *Histogram[F]) Median() F { return h.Quantile(0.5) }

// Mean estimates the mean as the bin-center-weighted average of the
// in-range counts. Under/overflow samples are excluded from the divisor
// since their positions are unknown.
func (h *Histogram[F]) Mean() F {
	inRange := h.total - h.underflow - h.overflow
	if inRange == 0 {
		return 0
	}
	var sum F
	for i := uint64(0); i < h.bins; i++ {
		sum += h.BinCenter(i) * F(h.counts[i])
	}
	return sum / F(inRange)
}
