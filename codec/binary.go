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

package codec

import (
	"encoding/binary"
	"math"

	"github.com/statforge/accrue/accumulator"
)

// The binary payload stores float64 regardless of the accumulator's
// in-memory precision, so checkpoints are portable across builds.

type writer struct {
	buf []byte
}

func (w *writer) u64(v uint64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
}

func (w *writer) i64(v int64) { w.u64(uint64(v)) }

func (w *writer) f64(v float64) { w.u64(math.Float64bits(v)) }

func (w *writer) boolean(v bool) {
	if v {
		w.buf = append(w.buf, 1)
	} else {
		w.buf = append(w.buf, 0)
	}
}

type reader struct {
	buf []byte
	off int
	bad bool
}

func (r *reader) u64() uint64 {
	if r.bad || r.off+8 > len(r.buf) {
		r.bad = true
		return 0
	}
	v := binary.LittleEndian.Uint64(r.buf[r.off:])
	r.off += 8
	return v
}

func (r *reader) i64() int64 { return int64(r.u64()) }

func (r *reader) f64() float64 { return math.Float64frombits(r.u64()) }

func (r *reader) boolean() bool {
	if r.bad || r.off >= len(r.buf) {
		r.bad = true
		return false
	}
	v := r.buf[r.off] != 0
	r.off++
	return v
}

func (r *reader) done() error {
	if r.bad || r.off != len(r.buf) {
		return ErrTruncated
	}
	return nil
}

func putSum(w *writer, st accumulator.KBNSumState[float64]) {
	w.f64(st.Sum)
	w.f64(st.Correction)
	w.u64(st.Seen)
}

func getSum(r *reader) accumulator.KBNSumState[float64] {
	return accumulator.KBNSumState[float64]{
		Sum:        r.f64(),
		Correction: r.f64(),
		Seen:       r.u64(),
	}
}

// expectKind opens the envelope and checks the tag.
func expectKind(data []byte, want Kind) ([]byte, error) {
	kind, payload, err := open(data)
	if err != nil {
		return nil, err
	}
	if kind != want {
		return nil, ErrKindMismatch
	}
	return payload, nil
}

// MarshalKBNSum seals a compensated sum state.
func MarshalKBNSum(st accumulator.KBNSumState[float64]) []byte {
	var w writer
	putSum(&w, st)
	return seal(KindKBNSum, w.buf)
}

// UnmarshalKBNSum opens a compensated sum envelope.
func UnmarshalKBNSum(data []byte) (accumulator.KBNSumState[float64], error) {
	var st accumulator.KBNSumState[float64]
	payload, err := expectKind(data, KindKBNSum)
	if err != nil {
		return st, err
	}
	r := reader{buf: payload}
	st = getSum(&r)
	return st, r.done()
}

// MarshalWelford seals a moment accumulator state.
func MarshalWelford(st accumulator.WelfordState[float64]) []byte {
	var w writer
	w.u64(st.Count)
	putSum(&w, st.Mean)
	putSum(&w, st.M2)
	return seal(KindWelford, w.buf)
}

// UnmarshalWelford opens a moment accumulator envelope.
func UnmarshalWelford(data []byte) (accumulator.WelfordState[float64], error) {
	var st accumulator.WelfordState[float64]
	payload, err := expectKind(data, KindWelford)
	if err != nil {
		return st, err
	}
	r := reader{buf: payload}
	st.Count = r.u64()
	st.Mean = getSum(&r)
	st.M2 = getSum(&r)
	return st, r.done()
}

// MarshalCovariance seals a covariance state.
func MarshalCovariance(st accumulator.CovarianceState[float64]) []byte {
	var w writer
	w.u64(st.Count)
	putSum(&w, st.MeanX)
	putSum(&w, st.MeanY)
	putSum(&w, st.M2X)
	putSum(&w, st.M2Y)
	putSum(&w, st.CXY)
	return seal(KindCovariance, w.buf)
}

// UnmarshalCovariance opens a covariance envelope.
func UnmarshalCovariance(data []byte) (accumulator.CovarianceState[float64], error) {
	var st accumulator.CovarianceState[float64]
	payload, err := expectKind(data, KindCovariance)
	if err != nil {
		return st, err
	}
	r := reader{buf: payload}
	st.Count = r.u64()
	st.MeanX = getSum(&r)
	st.MeanY = getSum(&r)
	st.M2X = getSum(&r)
	st.M2Y = getSum(&r)
	st.CXY = getSum(&r)
	return st, r.done()
}

// MarshalMin seals a minimum state.
func MarshalMin(st accumulator.MinState[float64]) []byte {
	var w writer
	w.f64(st.Min)
	w.boolean(st.Seen)
	return seal(KindMin, w.buf)
}

// UnmarshalMin opens a minimum envelope.
func UnmarshalMin(data []byte) (accumulator.MinState[float64], error) {
	var st accumulator.MinState[float64]
	payload, err := expectKind(data, KindMin)
	if err != nil {
		return st, err
	}
	r := reader{buf: payload}
	st.Min = r.f64()
	st.Seen = r.boolean()
	return st, r.done()
}

// MarshalMax seals a maximum state.
func MarshalMax(st accumulator.MaxState[float64]) []byte {
	var w writer
	w.f64(st.Max)
	w.boolean(st.Seen)
	return seal(KindMax, w.buf)
}

// UnmarshalMax opens a maximum envelope.
func UnmarshalMax(data []byte) (accumulator.MaxState[float64], error) {
	var st accumulator.MaxState[float64]
	payload, err := expectKind(data, KindMax)
	if err != nil {
		return st, err
	}
	r := reader{buf: payload}
	st.Max = r.f64()
	st.Seen = r.boolean()
	return st, r.done()
}

// MarshalMinMax seals a bounds state.
func MarshalMinMax(st accumulator.MinMaxState[float64]) []byte {
	var w writer
	w.f64(st.Min)
	w.f64(st.Max)
	w.boolean(st.Seen)
	return seal(KindMinMax, w.buf)
}

// UnmarshalMinMax opens a bounds envelope.
func UnmarshalMinMax(data []byte) (accumulator.MinMaxState[float64], error) {
	var st accumulator.MinMaxState[float64]
	payload, err := expectKind(data, KindMinMax)
	if err != nil {
		return st, err
	}
	r := reader{buf: payload}
	st.Min = r.f64()
	st.Max = r.f64()
	st.Seen = r.boolean()
	return st, r.done()
}

// MarshalCount seals a counter state.
func MarshalCount(st accumulator.CountState) []byte {
	var w writer
	w.u64(st.Count)
	return seal(KindCount, w.buf)
}

// UnmarshalCount opens a counter envelope.
func UnmarshalCount(data []byte) (accumulator.CountState, error) {
	var st accumulator.CountState
	payload, err := expectKind(data, KindCount)
	if err != nil {
		return st, err
	}
	r := reader{buf: payload}
	st.Count = r.u64()
	return st, r.done()
}

// MarshalProduct seals a product state.
func MarshalProduct(st accumulator.ProductState[float64]) []byte {
	var w writer
	putSum(&w, st.LogSum)
	w.boolean(st.Seen)
	w.boolean(st.SawZero)
	return seal(KindProduct, w.buf)
}

// UnmarshalProduct opens a product envelope.
func UnmarshalProduct(data []byte) (accumulator.ProductState[float64], error) {
	var st accumulator.ProductState[float64]
	payload, err := expectKind(data, KindProduct)
	if err != nil {
		return st, err
	}
	r := reader{buf: payload}
	st.LogSum = getSum(&r)
	st.Seen = r.boolean()
	st.SawZero = r.boolean()
	return st, r.done()
}

// MarshalEMA seals an EMA state.
func MarshalEMA(st accumulator.EMAState[float64]) []byte {
	var w writer
	w.f64(st.Alpha)
	w.f64(st.EMA)
	w.f64(st.EMAVariance)
	w.u64(st.Count)
	w.boolean(st.Initialized)
	return seal(KindEMA, w.buf)
}

// UnmarshalEMA opens an EMA envelope.
func UnmarshalEMA(data []byte) (accumulator.EMAState[float64], error) {
	var st accumulator.EMAState[float64]
	payload, err := expectKind(data, KindEMA)
	if err != nil {
		return st, err
	}
	r := reader{buf: payload}
	st.Alpha = r.f64()
	st.EMA = r.f64()
	st.EMAVariance = r.f64()
	st.Count = r.u64()
	st.Initialized = r.boolean()
	return st, r.done()
}

// MarshalHistogram seals a histogram state including all bin counters.
func MarshalHistogram(st accumulator.HistogramState[float64]) []byte {
	var w writer
	w.f64(st.Min)
	w.f64(st.Max)
	w.u64(st.Bins)
	w.u64(uint64(len(st.Counts)))
	for _, c := range st.Counts {
		w.u64(c)
	}
	w.u64(st.Underflow)
	w.u64(st.Overflow)
	w.u64(st.Total)
	return seal(KindHistogram, w.buf)
}

// UnmarshalHistogram opens a histogram envelope.
func UnmarshalHistogram(data []byte) (accumulator.HistogramState[float64], error) {
	var st accumulator.HistogramState[float64]
	payload, err := expectKind(data, KindHistogram)
	if err != nil {
		return st, err
	}
	r := reader{buf: payload}
	st.Min = r.f64()
	st.Max = r.f64()
	st.Bins = r.u64()
	n := r.u64()
	if n > uint64(len(payload)) {
		return st, ErrTruncated
	}
	st.Counts = make([]uint64, n)
	for i := range st.Counts {
		st.Counts[i] = r.u64()
	}
	st.Underflow = r.u64()
	st.Overflow = r.u64()
	st.Total = r.u64()
	return st, r.done()
}

// MarshalP2Quantile seals a P2 estimator state.
func MarshalP2Quantile(st accumulator.P2QuantileState[float64]) []byte {
	var w writer
	w.f64(st.P)
	for _, h := range st.Heights {
		w.f64(h)
	}
	for _, p := range st.Pos {
		w.i64(p)
	}
	for _, d := range st.Desired {
		w.f64(d)
	}
	w.u64(st.Count)
	return seal(KindP2Quantile, w.buf)
}

// UnmarshalP2Quantile opens a P2 estimator envelope.
func UnmarshalP2Quantile(data []byte) (accumulator.P2QuantileState[float64], error) {
	var st accumulator.P2QuantileState[float64]
	payload, err := expectKind(data, KindP2Quantile)
	if err != nil {
		return st, err
	}
	r := reader{buf: payload}
	st.P = r.f64()
	for i := range st.Heights {
		st.Heights[i] = r.f64()
	}
	for i := range st.Pos {
		st.Pos[i] = r.i64()
	}
	for i := range st.Desired {
		st.Desired[i] = r.f64()
	}
	st.Count = r.u64()
	return st, r.done()
}

// MarshalReservoir seals a reservoir state including the retained
// sample.
func MarshalReservoir(st accumulator.ReservoirState[float64]) []byte {
	var w writer
	w.i64(int64(st.Capacity))
	w.u64(st.Count)
	w.i64(st.Seed)
	w.u64(uint64(len(st.Sample)))
	for _, v := range st.Sample {
		w.f64(v)
	}
	return seal(KindReservoir, w.buf)
}

// UnmarshalReservoir opens a reservoir envelope.
func UnmarshalReservoir(data []byte) (accumulator.ReservoirState[float64], error) {
	var st accumulator.ReservoirState[float64]
	payload, err := expectKind(data, KindReservoir)
	if err != nil {
		return st, err
	}
	r := reader{buf: payload}
	st.Capacity = int(r.i64())
	st.Count = r.u64()
	st.Seed = r.i64()
	n := r.u64()
	if n > uint64(len(payload)) {
		return st, ErrTruncated
	}
	st.Sample = make([]float64, n)
	for i := range st.Sample {
		st.Sample[i] = r.f64()
	}
	return st, r.done()
}
