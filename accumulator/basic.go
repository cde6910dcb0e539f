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

// Min tracks the smallest value seen. An empty Min evaluates to the
// value type's maximum representable value, a documented sentinel rather
// than a null.
type Min[V Number] struct {
	min  V
	seen bool
}

var _ Accumulator[*Min[float64], float64, float64] = (*Min[float64])(nil)

// NewMin returns an empty minimum tracker.
func NewMin[V Number]() *Min[V] {
	return &Min[V]{}
}

// NewMinOf returns a minimum tracker seeded with one value.
func NewMinOf[V Number](v V) *Min[V] {
	return &Min[V]{min: v, seen: true}
}

func (m *Min[V]) Ingest(v V) {
	if !m.seen || v < m.min {
		m.min = v
		m.seen = true
	}
}

func (m *Min[V]) Merge(other *Min[V]) error {
	if other.seen {
		m.Ingest(other.min)
	}
	return nil
}

func (m *Min[V]) Eval() V {
	if !m.seen {
		return maxValue[V]()
	}
	return m.min
}

func (m *Min[V]) Fresh() *Min[V] { return NewMin[V]() }

func (m *Min[V]) Empty() bool { return !m.seen }

// Max tracks the largest value seen. An empty Max evaluates to the value
// type's minimum representable value.
type Max[V Number] struct {
	max  V
	seen bool
}

var _ Accumulator[*Max[float64], float64, float64] = (*Max[float64])(nil)

// NewMax returns an empty maximum tracker.
func NewMax[V Number]() *Max[V] {
	return &Max[V]{}
}

// NewMaxOf returns a maximum tracker seeded with one value.
func NewMaxOf[V Number](v V) *Max[V] {
	return &Max[V]{max: v, seen: true}
}

func (m *Max[V]) Ingest(v V) {
	if !m.seen || v > m.max {
		m.max = v
		m.seen = true
	}
}

func (m *Max[V]) Merge(other *Max[V]) error {
	if other.seen {
		m.Ingest(other.max)
	}
	return nil
}

func (m *Max[V]) Eval() V {
	if !m.seen {
		return minValue[V]()
	}
	return m.max
}

func (m *Max[V]) Fresh() *Max[V] { return NewMax[V]() }

func (m *Max[V]) Empty() bool { return !m.seen }

// Extent is the result of a MinMax accumulator.
type Extent[V Number] struct {
	Min V
	Max V
}

// Range returns the spread between the bounds.
func (e Extent[V]) Range() V {
	return e.Max - e.Min
}

// MinMax tracks both bounds in a single state, cheaper than composing a
// Min and a Max. Empty-state sentinels match the individual kinds.
type MinMax[V Number] struct {
	min  V
	max  V
	seen bool
}

var _ Accumulator[*MinMax[float64], float64, Extent[float64]] = (*MinMax[float64])(nil)

// NewMinMax returns an empty bounds tracker.
func NewMinMax[V Number]() *MinMax[V] {
	return &MinMax[V]{}
}

// NewMinMaxOf returns a bounds tracker seeded with one value.
func NewMinMaxOf[V Number](v V) *MinMax[V] {
	return &MinMax[V]{min: v, max: v, seen: true}
}

func (m *MinMax[V]) Ingest(v V) {
	if !m.seen {
		m.min = v
		m.max = v
		m.seen = true
		return
	}
	if v < m.min {
		m.min = v
	}
	if v > m.max {
		m.max = v
	}
}

func (m *MinMax[V]) Merge(other *MinMax[V]) error {
	if other.seen {
		m.Ingest(other.min)
		m.Ingest(other.max)
	}
	return nil
}

func (m *MinMax[V]) Eval() Extent[V] {
	if !m.seen {
		return Extent[V]{Min: maxValue[V](), Max: minValue[V]()}
	}
	return Extent[V]{Min: m.min, Max: m.max}
}

func (m *MinMax[V]) Fresh() *MinMax[V] { return NewMinMax[V]() }

func (m *MinMax[V]) Empty() bool { return !m.seen }

// Min returns the lower bound seen so far.
func (m *MinMax[V]) Min() V { return m.Eval().Min }

// Max returns the upper bound seen so far.
func (m *MinMax[V]) Max() V { return m.Eval().Max }

// Count counts ingested samples regardless of their content.
type Count[V any] struct {
	count uint64
}

var _ Accumulator[*Count[float64], float64, uint64] = (*Count[float64])(nil)

// NewCount returns an empty counter.
func NewCount[V any]() *Count[V] {
	return &Count[V]{}
}

func (c *Count[V]) Ingest(V) {
	c.count++
}

func (c *Count[V]) Merge(other *Count[V]) error {
	c.count += other.count
	return nil
}

func (c *Count[V]) Eval() uint64 {
	return c.count
}

func (c *Count[V]) Fresh() *Count[V] { return NewCount[V]() }

func (c *Count[V]) Empty() bool { return c.count == 0 }

// Size is an alias for Eval, matching the other kinds.
func (c *Count[V]) Size() uint64 { return c.count }
