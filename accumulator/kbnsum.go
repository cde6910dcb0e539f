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

// KBNSum is a Kahan-Babuska-Neumaier compensated summation accumulator.
// It keeps a running correction term alongside the sum so that the
// accumulated rounding error stays bounded independent of how many values
// have been ingested. NaN inputs propagate per IEEE semantics.
type KBNSum[F Float] struct {
	sum        F
	correction F
	seen       uint64
}

var _ Accumulator[*KBNSum[float64], float64, float64] = (*KBNSum[float64])(nil)

// NewKBNSum returns an empty compensated sum.
func NewKBNSum[F Float]() *KBNSum[F] {
	return &KBNSum[F]{}
}

// NewKBNSumOf returns a compensated sum seeded with a single value.
func NewKBNSumOf[F Float](v F) *KBNSum[F] {
	s := NewKBNSum[F]()
	s.Ingest(v)
	return s
}

func (s *KBNSum[F]) Ingest(v F) {
	s.add(v)
	s.seen++
}

// Merge folds the other accumulator's total back in as a single value.
// This keeps merge O(1) at a slight precision cost relative to merging
// the raw streams.
func (s *KBNSum[F]) Merge(other *KBNSum[F]) error {
	if other.seen == 0 {
		return nil
	}
	s.add(other.Eval())
	s.seen += other.seen
	return nil
}

// Eval returns the compensated total.
func (s *KBNSum[F]) Eval() F {
	return s.sum + s.correction
}

func (s *KBNSum[F]) Fresh() *KBNSum[F] {
	return NewKBNSum[F]()
}

func (s *KBNSum[F]) Empty() bool {
	return s.seen == 0
}

// Size returns the number of samples ingested, counting merged
// accumulators' samples.
func (s *KBNSum[F]) Size() uint64 {
	return s.seen
}

// Components exposes the raw sum and correction term for serialization.
func (s *KBNSum[F]) Components() (sum, correction F) {
	return s.sum, s.correction
}

// add is the compensated update without sample accounting, shared with
// kinds that embed a KBNSum as a running moment rather than a stream sum.
func (s *KBNSum[F]) add(v F) {
	corrected := v + s.correction
	newSum := s.sum + corrected
	// Subtract the larger-magnitude operand first so the correction term
	// captures the rounding error of the addition exactly.
	if math.Abs(float64(s.sum)) >= math.Abs(float64(corrected)) {
		s.correction = (s.sum - newSum) + corrected
	} else {
		s.correction = (corrected - newSum) + s.sum
	}
	s.sum = newSum
}

// set overwrites the compensated total with a plain value.
func (s *KBNSum[F]) set(v F) {
	s.sum = v
	s.correction = 0
}
