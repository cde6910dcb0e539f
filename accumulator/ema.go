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
	"math"
)

// ErrSmoothingFactor is returned when an EMA smoothing factor, period,
// or half-life is out of range at construction.
var ErrSmoothingFactor = errors.New("ema: smoothing factor out of range")

// EMA maintains an exponential moving average with smoothing factor
// alpha in (0, 1], plus an exponentially weighted variance of the
// deviations as a volatility proxy. The first sample seeds the average
// directly.
type EMA[F Float] struct {
	alpha       F
	ema         F
	emaVariance F
	count       uint64
	initialized bool
}

var _ Accumulator[*EMA[float64], float64, float64] = (*EMA[float64])(nil)

// NewEMA returns an EMA accumulator with the given smoothing factor.
// Alpha outside (0, 1] is a configuration error, not clamped.
func NewEMA[F Float](alpha F) (*EMA[F], error) {
	if alpha <= 0 || alpha > 1 {
		return nil, fmt.Errorf("%w: alpha %v not in (0, 1]", ErrSmoothingFactor, alpha)
	}
	return &EMA[F]{alpha: alpha}, nil
}

// NewEMAFromPeriod derives alpha as 2/(period+1).
func NewEMAFromPeriod[F Float](period uint64) (*EMA[F], error) {
	if period == 0 {
		return nil, fmt.Errorf("%w: period must be > 0", ErrSmoothingFactor)
	}
	return NewEMA[F](F(2) / (F(period) + 1))
}

// NewEMAFromHalfLife derives alpha as 1 - exp(-ln2/halfLife).
func NewEMAFromHalfLife[F Float](halfLife F) (*EMA[F], error) {
	if halfLife <= 0 {
		return nil, fmt.Errorf("%w: half-life %v must be > 0", ErrSmoothingFactor, halfLife)
	}
	return NewEMA[F](1 - F(math.Exp(-math.Ln2/float64(halfLife))))
}

func (e *EMA[F]) Ingest(v F) {
	e.count++
	if !e.initialized {
		e.ema = v
		e.emaVariance = 0
		e.initialized = true
		return
	}
	delta := v - e.ema
	e.ema += e.alpha * delta
	e.emaVariance = (1 - e.alpha) * (e.emaVariance + e.alpha*delta*delta)
}

// Merge blends the two averages weighted by relative sample counts. This
// is deliberately approximate: an EMA has no exact parallel-merge form
// because the weighting depends on arrival order.
func (e *EMA[F]) Merge(other *EMA[F]) error {
	if !other.initialized {
		return nil
	}
	if !e.initialized {
		alpha := e.alpha
		*e = *other
		e.alpha = alpha
		return nil
	}

	total := F(e.count + other.count)
	w1 := F(e.count) / total
	w2 := F(other.count) / total

	e.ema = w1*e.ema + w2*other.ema
	e.emaVariance = w1*e.emaVariance + w2*other.emaVariance
	e.count += other.count
	return nil
}

// Eval returns the current moving average.
func (e *EMA[F]) Eval() F {
	return e.ema
}

// Fresh preserves the smoothing factor and drops the accumulated state.
func (e *EMA[F]) Fresh() *EMA[F] {
	return &EMA[F]{alpha: e.alpha}
}

func (e *EMA[F]) Empty() bool { return !e.initialized }

// Alpha returns the smoothing factor.
func (e *EMA[F]) Alpha() F { return e.alpha }

// Variance returns the exponentially weighted variance.
func (e *EMA[F]) Variance() F { return e.emaVariance }

// StdDev returns the square root of the exponentially weighted variance.
func (e *EMA[F]) StdDev() F {
	return F(math.Sqrt(float64(e.emaVariance)))
}

// Size returns the number of samples ingested.
func (e *EMA[F]) Size() uint64 { return e.count }

// EffectiveSamples returns 1/alpha, the effective window length of the
// exponential weighting for an infinite stream.
func (e *EMA[F]) EffectiveSamples() F {
	return 1 / e.alpha
}
