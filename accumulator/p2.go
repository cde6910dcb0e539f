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

	"golang.org/x/exp/slices"
)

// ErrQuantileTarget is returned when a quantile target is outside (0, 1).
var ErrQuantileTarget = errors.New("p2: quantile target out of range")

// P2Quantile estimates a single quantile in constant space with the
// Jain-Chlamtac P-squared algorithm: five marker heights whose positions
// track the target rank, adjusted by parabolic interpolation with a
// linear fallback whenever the parabola would cross a neighboring
// marker. The estimate is approximate and improves with stream length.
type P2Quantile[F Float] struct {
	p       F
	heights [5]F
	pos     [5]int64
	desired [5]F
	incr    [5]F
	count   uint64
}

var _ Accumulator[*P2Quantile[float64], float64, float64] = (*P2Quantile[float64])(nil)

// NewP2Quantile returns an estimator for the given target quantile,
// which must lie strictly inside (0, 1).
func NewP2Quantile[F Float](p F) (*P2Quantile[F], error) {
	if p <= 0 || p >= 1 {
		return nil, fmt.Errorf("%w: p %v not in (0, 1)", ErrQuantileTarget, p)
	}
	return &P2Quantile[F]{
		p:       p,
		pos:     [5]int64{0, 1, 2, 3, 4},
		desired: [5]F{0, 2 * p, 4 * p, 2 + 2*p, 4},
		incr:    [5]F{0, p / 2, p, (1 + p) / 2, 1},
	}, nil
}

// NewMedian returns a P2 estimator targeting the 0.5 quantile.
func NewMedian[F Float]() *P2Quantile[F] {
	m, _ := NewP2Quantile[F](0.5)
	return m
}

func (q *P2Quantile[F]) Ingest(v F) {
	q.count++

	if q.count <= 5 {
		// Seeding phase: buffer the first five observations, sort them
		// into marker order once the fifth arrives.
		q.heights[q.count-1] = v
		if q.count == 5 {
			slices.Sort(q.heights[:])
		}
		return
	}

	// Locate the cell holding v, clamping the extreme markers.
	var k int
	switch {
	case v < q.heights[0]:
		q.heights[0] = v
		k = 0
	case v < q.heights[1]:
		k = 0
	case v < q.heights[2]:
		k = 1
	case v < q.heights[3]:
		k = 2
	case v < q.heights[4]:
		k = 3
	default:
		q.heights[4] = v
		k = 3
	}

	for i := k + 1; i < 5; i++ {
		q.pos[i]++
	}
	for i := 0; i < 5; i++ {
		q.desired[i] += q.incr[i]
	}

	// Adjust the three interior markers whose actual position drifted a
	// full step from the desired one.
	for i := 1; i < 4; i++ {
		d := q.desired[i] - F(q.pos[i])
		if (d >= 1 && q.pos[i+1]-q.pos[i] > 1) || (d <= -1 && q.pos[i-1]-q.pos[i] < -1) {
			dir := int64(1)
			if d < 0 {
				dir = -1
			}
			h := q.parabolic(i, dir)
			if h <= q.heights[i-1] || h >= q.heights[i+1] {
				// The parabolic estimate would violate marker
				// monotonicity; fall back to linear interpolation.
				h = q.linear(i, dir)
			}
			q.heights[i] = h
			q.pos[i] += dir
		}
	}
}

func (q *P2Quantile[F]) parabolic(i int, d int64) F {
	qi := q.heights[i]
	qm := q.heights[i-1]
	qp := q.heights[i+1]
	ni := q.pos[i]
	nm := q.pos[i-1]
	np := q.pos[i+1]

	return qi + F(d)/F(np-nm)*
		(F(ni-nm+d)*(qp-qi)/F(np-ni)+F(np-ni-d)*(qi-qm)/F(ni-nm))
}

func (q *P2Quantile[F]) linear(i int, d int64) F {
	j := i + int(d)
	return q.heights[i] + F(d)*(q.heights[j]-q.heights[i])/F(q.pos[j]-q.pos[i])
}

// Merge blends the marker heights weighted by sample count. Markers are
// not a sufficient statistic for the stream, so this is a documented
// approximation, not an exact combination.
func (q *P2Quantile[F]) Merge(other *P2Quantile[F]) error {
	if other.count == 0 {
		return nil
	}
	if q.count < 5 {
		// Still seeding: replay the other side's retained values.
		for i := uint64(0); i < other.count && i < 5; i++ {
			q.Ingest(other.heights[i])
		}
		return nil
	}

	w1 := F(q.count) / F(q.count+other.count)
	w2 := 1 - w1
	for i := 0; i < 5; i++ {
		q.heights[i] = w1*q.heights[i] + w2*other.heights[i]
	}
	q.count += other.count
	return nil
}

// Eval returns the middle marker once five samples have been seen, and
// the median of the buffered values before that.
func (q *P2Quantile[F]) Eval() F {
	if q.count < 5 {
		buf := make([]F, q.count)
		copy(buf, q.heights[:q.count])
		slices.Sort(buf)
		if len(buf) == 0 {
			return 0
		}
		return buf[len(buf)/2]
	}
	return q.heights[2]
}

// Fresh preserves the quantile target and drops all markers.
func (q *P2Quantile[F]) Fresh() *P2Quantile[F] {
	fresh, _ := NewP2Quantile(q.p)
	return fresh
}

func (q *P2Quantile[F]) Empty() bool { return q.count == 0 }

// Target returns the configured quantile.
func (q *P2Quantile[F]) Target() F { return q.p }

// Size returns the number of samples ingested.
func (q *P2Quantile[F]) Size() uint64 { return q.count }

// Markers returns the five marker heights for diagnostics.
func (q *P2Quantile[F]) Markers() [5]F { return q.heights }
