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

import "github.com/statforge/accrue/accumulator"

// Mapped adapts an accumulator over V to accept samples of type U by
// applying a transform to each sample before ingestion. Both sides of a
// merge must carry the same transform; only the receiver's is kept.
type Mapped[U, V, R any, A accumulator.Accumulator[A, V, R]] struct {
	inner A
	fn    func(U) V
}

var _ accumulator.Accumulator[
	*Mapped[string, float64, float64, *accumulator.KBNSum[float64]],
	string,
	float64,
] = (*Mapped[string, float64, float64, *accumulator.KBNSum[float64]])(nil)

// NewMapped returns an accumulator ingesting U through the transform.
func NewMapped[U, V, R any, A accumulator.Accumulator[A, V, R]](fn func(U) V, inner A) *Mapped[U, V, R, A] {
	return &Mapped[U, V, R, A]{inner: inner, fn: fn}
}

func (m *Mapped[U, V, R, A]) Ingest(u U) {
	m.inner.Ingest(m.fn(u))
}

func (m *Mapped[U, V, R, A]) Merge(other *Mapped[U, V, R, A]) error {
	return m.inner.Merge(other.inner)
}

func (m *Mapped[U, V, R, A]) Eval() R {
	return m.inner.Eval()
}

func (m *Mapped[U, V, R, A]) Fresh() *Mapped[U, V, R, A] {
	return &Mapped[U, V, R, A]{inner: m.inner.Fresh(), fn: m.fn}
}

func (m *Mapped[U, V, R, A]) Empty() bool {
	return m.inner.Empty()
}

// Inner returns the wrapped accumulator for direct inspection.
func (m *Mapped[U, V, R, A]) Inner() A { return m.inner }
