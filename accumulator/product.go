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

// Product accumulates the product of all ingested values. The magnitude
// is held as a sum of logarithms so that long sequences neither overflow
// nor underflow. A zero input sets a sticky flag that forces the
// evaluated product to zero without corrupting the log sum, so merging
// with a non-zero-containing accumulator stays meaningful.
//
// Sign is not tracked: a product with an odd number of negative factors
// still evaluates to its magnitude. Known limitation of the log-magnitude
// representation.
type Product[F Float] struct {
	logSum  KBNSum[F]
	seen    bool
	sawZero bool
}

var _ Accumulator[*Product[float64], float64, float64] = (*Product[float64])(nil)

// NewProduct returns an empty product accumulator. It evaluates to 1,
// the multiplicative identity.
func NewProduct[F Float]() *Product[F] {
	return &Product[F]{}
}

// NewProductOf returns a product accumulator seeded with one factor.
func NewProductOf[F Float](v F) *Product[F] {
	p := NewProduct[F]()
	p.Ingest(v)
	return p
}

func (p *Product[F]) Ingest(v F) {
	if v == 0 {
		p.sawZero = true
		return
	}
	p.logSum.add(F(math.Log(math.Abs(float64(v)))))
	p.seen = true
}

func (p *Product[F]) Merge(other *Product[F]) error {
	if other.sawZero {
		p.sawZero = true
	}
	if other.seen {
		p.logSum.add(other.logSum.Eval())
		p.seen = true
	}
	return nil
}

func (p *Product[F]) Eval() F {
	if p.sawZero {
		return 0
	}
	if !p.seen {
		return 1
	}
	return F(math.Exp(float64(p.logSum.Eval())))
}

func (p *Product[F]) Fresh() *Product[F] { return NewProduct[F]() }

func (p *Product[F]) Empty() bool { return !p.seen && !p.sawZero }

// SawZero reports whether any zero factor was ingested.
func (p *Product[F]) SawZero() bool { return p.sawZero }

// LogMagnitude exposes the accumulated log of absolute values for
// serialization.
func (p *Product[F]) LogMagnitude() F { return p.logSum.Eval() }
