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

// XY is a paired bivariate sample.
type XY[F Float] struct {
	X F
	Y F
}

// Covariance is the bivariate extension of Welford: it maintains running
// means, squared deviations, and the cross moment for (x, y) pairs, all
// in compensated sums.
type Covariance[F Float] struct {
	count uint64
	meanX KBNSum[F]
	meanY KBNSum[F]
	m2X   KBNSum[F]
	m2Y   KBNSum[F]
	cXY   KBNSum[F]
}

var _ Accumulator[*Covariance[float64], XY[float64], float64] = (*Covariance[float64])(nil)

// NewCovariance returns an empty covariance accumulator.
func NewCovariance[F Float]() *Covariance[F] {
	return &Covariance[F]{}
}

func (c *Covariance[F]) Ingest(p XY[F]) {
	c.count++
	n := F(c.count)

	dx := p.X - c.meanX.Eval()
	dy := p.Y - c.meanY.Eval()

	c.meanX.add(dx / n)
	c.meanY.add(dy / n)

	dx2 := p.X - c.meanX.Eval()
	dy2 := p.Y - c.meanY.Eval()

	c.m2X.add(dx * dx2)
	c.m2Y.add(dy * dy2)
	// Pre-update deviation of x against post-update deviation of y. The
	// asymmetry is required for the single-pass recurrence to be exact.
	c.cXY.add(dx * dy2)
}

// Merge combines two covariance accumulators, applying the same
// n1*n2/n weighting to both squared-deviation moments and the cross
// moment.
func (c *Covariance[F]) Merge(other *Covariance[F]) error {
	if other.count == 0 {
		return nil
	}
	if c.count == 0 {
		*c = *other
		return nil
	}

	n1 := F(c.count)
	n2 := F(other.count)
	n := n1 + n2

	dx := other.meanX.Eval() - c.meanX.Eval()
	dy := other.meanY.Eval() - c.meanY.Eval()

	c.meanX.set((n1*c.meanX.Eval() + n2*other.meanX.Eval()) / n)
	c.meanY.set((n1*c.meanY.Eval() + n2*other.meanY.Eval()) / n)

	c.m2X.add(other.m2X.Eval() + dx*dx*n1*n2/n)
	c.m2Y.add(other.m2Y.Eval() + dy*dy*n1*n2/n)
	c.cXY.add(other.cXY.Eval() + dx*dy*n1*n2/n)

	c.count += other.count
	return nil
}

// Eval returns the sample covariance.
func (c *Covariance[F]) Eval() F {
	return c.SampleCovariance()
}

func (c *Covariance[F]) Fresh() *Covariance[F] {
	return NewCovariance[F]()
}

func (c *Covariance[F]) Empty() bool {
	return c.count == 0
}

// Size returns the number of pairs ingested.
func (c *Covariance[F]) Size() uint64 {
	return c.count
}

// MeanX returns the mean of the x values, 0 when empty.
func (c *Covariance[F]) MeanX() F {
	if c.count == 0 {
		return 0
	}
	return c.meanX.Eval()
}

// MeanY returns the mean of the y values, 0 when empty.
func (c *Covariance[F]) MeanY() F {
	if c.count == 0 {
		return 0
	}
	return c.meanY.Eval()
}

// PopulationCovariance divides the cross moment by n, 0 when empty.
func (c *Covariance[F]) PopulationCovariance() F {
	if c.count == 0 {
		return 0
	}
	return c.cXY.Eval() / F(c.count)
}

// SampleCovariance divides the cross moment by n-1, 0 when n <= 1.
func (c *Covariance[F]) SampleCovariance() F {
	if c.count < 2 {
		return 0
	}
	return c.cXY.Eval() / F(c.count-1)
}

// VarianceX returns the population variance of x.
func (c *Covariance[F]) VarianceX() F {
	if c.count == 0 {
		return 0
	}
	return c.m2X.Eval() / F(c.count)
}

// VarianceY returns the population variance of y.
func (c *Covariance[F]) VarianceY() F {
	if c.count == 0 {
		return 0
	}
	return c.m2Y.Eval() / F(c.count)
}

// SampleVarianceX returns the sample variance of x, 0 when n <= 1.
func (c *Covariance[F]) SampleVarianceX() F {
	if c.count < 2 {
		return 0
	}
	return c.m2X.Eval() / F(c.count-1)
}

// SampleVarianceY returns the sample variance of y, 0 when n <= 1.
func (c *Covariance[F]) SampleVarianceY() F {
	if c.count < 2 {
		return 0
	}
	return c.m2Y.Eval() / F(c.count-1)
}

// StdDevX returns the population standard deviation of x.
func (c *Covariance[F]) StdDevX() F {
	return F(math.Sqrt(float64(c.VarianceX())))
}

// StdDevY returns the population standard deviation of y.
func (c *Covariance[F]) StdDevY() F {
	return F(math.Sqrt(float64(c.VarianceY())))
}

// Correlation returns the Pearson correlation coefficient. It is
// defined as 0 when either standard deviation is 0 or fewer than two
// pairs have been seen; too little data is not an error.
func (c *Covariance[F]) Correlation() F {
	if c.count < 2 {
		return 0
	}
	sx := c.StdDevX()
	sy := c.StdDevY()
	if sx == 0 || sy == 0 {
		return 0
	}
	return c.PopulationCovariance() / (sx * sy)
}

// Slope returns the least-squares slope of y on x, 0 when x has no
// variance.
func (c *Covariance[F]) Slope() F {
	vx := c.VarianceX()
	if vx <= 0 {
		return 0
	}
	return c.PopulationCovariance() / vx
}

// Intercept returns the least-squares intercept of y on x.
func (c *Covariance[F]) Intercept() F {
	return c.MeanY() - c.Slope()*c.MeanX()
}

// RSquared returns the coefficient of determination.
func (c *Covariance[F]) RSquared() F {
	r := c.Correlation()
	return r * r
}
