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

import "golang.org/x/exp/slices"

// State structs are the portable form of each accumulator kind. They
// carry every field needed to reconstruct the accumulator exactly, with
// exported names so codecs can marshal them. Derived fields (bin width,
// P2 marker increments) are recomputed on restore rather than stored.

// KBNSumState is the portable form of KBNSum.
type KBNSumState[F Float] struct {
	Sum        F      `yaml:"sum"`
	Correction F      `yaml:"correction"`
	Seen       uint64 `yaml:"seen"`
}

// State captures the current sum for serialization.
func (s *KBNSum[F]) State() KBNSumState[F] {
	return KBNSumState[F]{Sum: s.sum, Correction: s.correction, Seen: s.seen}
}

// Restore overwrites the receiver with a previously captured state.
func (s *KBNSum[F]) Restore(st KBNSumState[F]) {
	s.sum = st.Sum
	s.correction = st.Correction
	s.seen = st.Seen
}

// WelfordState is the portable form of Welford.
type WelfordState[F Float] struct {
	Count uint64         `yaml:"count"`
	Mean  KBNSumState[F] `yaml:"mean"`
	M2    KBNSumState[F] `yaml:"m2"`
}

func (w *Welford[F]) State() WelfordState[F] {
	return WelfordState[F]{Count: w.count, Mean: w.mean.State(), M2: w.m2.State()}
}

func (w *Welford[F]) Restore(st WelfordState[F]) {
	w.count = st.Count
	w.mean.Restore(st.Mean)
	w.m2.Restore(st.M2)
}

// CovarianceState is the portable form of Covariance.
type CovarianceState[F Float] struct {
	Count uint64         `yaml:"count"`
	MeanX KBNSumState[F] `yaml:"mean_x"`
	MeanY KBNSumState[F] `yaml:"mean_y"`
	M2X   KBNSumState[F] `yaml:"m2_x"`
	M2Y   KBNSumState[F] `yaml:"m2_y"`
	CXY   KBNSumState[F] `yaml:"c_xy"`
}

func (c *Covariance[F]) State() CovarianceState[F] {
	return CovarianceState[F]{
		Count: c.count,
		MeanX: c.meanX.State(),
		MeanY: c.meanY.State(),
		M2X:   c.m2X.State(),
		M2Y:   c.m2Y.State(),
		CXY:   c.cXY.State(),
	}
}

func (c *Covariance[F]) Restore(st CovarianceState[F]) {
	c.count = st.Count
	c.meanX.Restore(st.MeanX)
	c.meanY.Restore(st.MeanY)
	c.m2X.Restore(st.M2X)
	c.m2Y.Restore(st.M2Y)
	c.cXY.Restore(st.CXY)
}

// MinState is the portable form of Min.
type MinState[V Number] struct {
	Min  V    `yaml:"min"`
	Seen bool `yaml:"seen"`
}

func (m *Min[V]) State() MinState[V] {
	return MinState[V]{Min: m.min, Seen: m.seen}
}

func (m *Min[V]) Restore(st MinState[V]) {
	m.min = st.Min
	m.seen = st.Seen
}

// MaxState is the portable form of Max.
type MaxState[V Number] struct {
	Max  V    `yaml:"max"`
	Seen bool `yaml:"seen"`
}

func (m *Max[V]) State() MaxState[V] {
	return MaxState[V]{Max: m.max, Seen: m.seen}
}

func (m *Max[V]) Restore(st MaxState[V]) {
	m.max = st.Max
	m.seen = st.Seen
}

// MinMaxState is the portable form of MinMax.
type MinMaxState[V Number] struct {
	Min  V    `yaml:"min"`
	Max  V    `yaml:"max"`
	Seen bool `yaml:"seen"`
}

func (m *MinMax[V]) State() MinMaxState[V] {
	return MinMaxState[V]{Min: m.min, Max: m.max, Seen: m.seen}
}

func (m *MinMax[V]) Restore(st MinMaxState[V]) {
	m.min = st.Min
	m.max = st.Max
	m.seen = st.Seen
}

// CountState is the portable form of Count.
type CountState struct {
	Count uint64 `yaml:"count"`
}

func (c *Count[V]) State() CountState {
	return CountState{Count: c.count}
}

func (c *Count[V]) Restore(st CountState) {
	c.count = st.Count
}

// ProductState is the portable form of Product.
type ProductState[F Float] struct {
	LogSum  KBNSumState[F] `yaml:"log_sum"`
	Seen    bool           `yaml:"seen"`
	SawZero bool           `yaml:"saw_zero"`
}

func (p *Product[F]) State() ProductState[F] {
	return ProductState[F]{LogSum: p.logSum.State(), Seen: p.seen, SawZero: p.sawZero}
}

func (p *Product[F]) Restore(st ProductState[F]) {
	p.logSum.Restore(st.LogSum)
	p.seen = st.Seen
	p.sawZero = st.SawZero
}

// EMAState is the portable form of EMA.
type EMAState[F Float] struct {
	Alpha       F      `yaml:"alpha"`
	EMA         F      `yaml:"ema"`
	EMAVariance F      `yaml:"ema_variance"`
	Count       uint64 `yaml:"count"`
	Initialized bool   `yaml:"initialized"`
}

func (e *EMA[F]) State() EMAState[F] {
	return EMAState[F]{
		Alpha:       e.alpha,
		EMA:         e.ema,
		EMAVariance: e.emaVariance,
		Count:       e.count,
		Initialized: e.initialized,
	}
}

func (e *EMA[F]) Restore(st EMAState[F]) {
	e.alpha = st.Alpha
	e.ema = st.EMA
	e.emaVariance = st.EMAVariance
	e.count = st.Count
	e.initialized = st.Initialized
}

// HistogramState is the portable form of Histogram. Bin width is
// recomputed from the bounds on restore.
type HistogramState[F Float] struct {
	Min       F        `yaml:"min"`
	Max       F        `yaml:"max"`
	Bins      uint64   `yaml:"bins"`
	Counts    []uint64 `yaml:"counts"`
	Underflow uint64   `yaml:"underflow"`
	Overflow  uint64   `yaml:"overflow"`
	Total     uint64   `yaml:"total"`
}

func (h *Histogram[F]) State() HistogramState[F] {
	return HistogramState[F]{
		Min:       h.min,
		Max:       h.max,
		Bins:      h.bins,
		Counts:    slices.Clone(h.counts),
		Underflow: h.underflow,
		Overflow:  h.overflow,
		Total:     h.total,
	}
}

func (h *Histogram[F]) Restore(st HistogramState[F]) {
	h.min = st.Min
	h.max = st.Max
	h.bins = st.Bins
	h.binWidth = (st.Max - st.Min) / F(st.Bins)
	h.counts = slices.Clone(st.Counts)
	h.underflow = st.Underflow
	h.overflow = st.Overflow
	h.total = st.Total
}

// P2QuantileState is the portable form of P2Quantile. The marker
// increments are a pure function of the target quantile and are rebuilt
// on restore.
type P2QuantileState[F Float] struct {
	P       F       `yaml:"p"`
	Heights [5]F    `yaml:"heights"`
	Pos     [5]int64 `yaml:"pos"`
	Desired [5]F    `yaml:"desired"`
	Count   uint64  `yaml:"count"`
}

func (q *P2Quantile[F]) State() P2QuantileState[F] {
	return P2QuantileState[F]{
		P:       q.p,
		Heights: q.heights,
		Pos:     q.pos,
		Desired: q.desired,
		Count:   q.count,
	}
}

func (q *P2Quantile[F]) Restore(st P2QuantileState[F]) {
	q.p = st.P
	q.heights = st.Heights
	q.pos = st.Pos
	q.desired = st.Desired
	q.incr = [5]F{0, st.P / 2, st.P, (1 + st.P) / 2, 1}
	q.count = st.Count
}

// ReservoirState is the portable form of Reservoir. Restoring reseeds
// the generator from the stored seed, so a restored reservoir makes the
// same replacement choices as a fresh one with that seed, not the ones
// the captured reservoir would have made next.
type ReservoirState[F Float] struct {
	Sample   []F    `yaml:"sample"`
	Capacity int    `yaml:"capacity"`
	Count    uint64 `yaml:"count"`
	Seed     int64  `yaml:"seed"`
}

func (r *Reservoir[F]) State() ReservoirState[F] {
	return ReservoirState[F]{
		Sample:   slices.Clone(r.sample),
		Capacity: r.capacity,
		Count:    r.count,
		Seed:     r.seed,
	}
}

// Restore overwrites the receiver with a previously captured state.
// A state with a non-positive capacity cannot have come from State and
// is ignored, leaving the receiver unchanged.
func (r *Reservoir[F]) Restore(st ReservoirState[F]) {
	fresh, err := NewReservoir[F](st.Capacity, st.Seed)
	if err != nil {
		return
	}
	*r = *fresh
	r.sample = append(r.sample, st.Sample...)
	r.count = st.Count
}
