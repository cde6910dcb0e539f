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

import (
	"fmt"
	"math"

	"go.uber.org/multierr"

	"github.com/statforge/accrue/accumulator"
)

// Comparator reports whether two results are equal for the purposes of
// law checking.
type Comparator[R any] func(a, b R) bool

// Exactly compares results with ==.
func Exactly[R comparable]() Comparator[R] {
	return func(a, b R) bool { return a == b }
}

// Float64Near compares float64 results within an absolute tolerance.
// NaN compares equal to NaN so propagated NaNs don't fail the laws.
func Float64Near(tol float64) Comparator[float64] {
	return func(a, b float64) bool {
		if math.IsNaN(a) && math.IsNaN(b) {
			return true
		}
		return math.Abs(a-b) <= tol
	}
}

// VerifyLeftIdentity checks that merging a populated accumulator into a
// fresh one yields the populated result.
func VerifyLeftIdentity[V, R any, A accumulator.Accumulator[A, V, R]](newAcc func() A, samples []V, eq Comparator[R]) error {
	populated := IngestAll[V, R](newAcc(), samples...)
	identity := populated.Fresh()
	if err := identity.Merge(populated); err != nil {
		return fmt.Errorf("left identity: merge failed: %w", err)
	}
	if !eq(identity.Eval(), populated.Eval()) {
		return fmt.Errorf("left identity violated: got %v, want %v", identity.Eval(), populated.Eval())
	}
	return nil
}

// VerifyRightIdentity checks that merging a fresh accumulator into a
// populated one leaves the result unchanged.
func VerifyRightIdentity[V, R any, A accumulator.Accumulator[A, V, R]](newAcc func() A, samples []V, eq Comparator[R]) error {
	populated := IngestAll[V, R](newAcc(), samples...)
	want := populated.Eval()
	if err := populated.Merge(populated.Fresh()); err != nil {
		return fmt.Errorf("right identity: merge failed: %w", err)
	}
	if !eq(populated.Eval(), want) {
		return fmt.Errorf("right identity violated: got %v, want %v", populated.Eval(), want)
	}
	return nil
}

// VerifyAssociativity checks that (a merge b) merge c equals
// a merge (b merge c) over the three sample streams.
func VerifyAssociativity[V, R any, A accumulator.Accumulator[A, V, R]](newAcc func() A, s1, s2, s3 []V, eq Comparator[R]) error {
	left := IngestAll[V, R](newAcc(), s1...)
	if err := left.Merge(IngestAll[V, R](newAcc(), s2...)); err != nil {
		return fmt.Errorf("associativity: merge failed: %w", err)
	}
	if err := left.Merge(IngestAll[V, R](newAcc(), s3...)); err != nil {
		return fmt.Errorf("associativity: merge failed: %w", err)
	}

	bc := IngestAll[V, R](newAcc(), s2...)
	if err := bc.Merge(IngestAll[V, R](newAcc(), s3...)); err != nil {
		return fmt.Errorf("associativity: merge failed: %w", err)
	}
	right := IngestAll[V, R](newAcc(), s1...)
	if err := right.Merge(bc); err != nil {
		return fmt.Errorf("associativity: merge failed: %w", err)
	}

	if !eq(left.Eval(), right.Eval()) {
		return fmt.Errorf("associativity violated: got %v and %v", left.Eval(), right.Eval())
	}
	return nil
}

// VerifySplitMergeEquivalence checks that splitting a stream at every
// point, accumulating the halves separately, and merging yields the
// same result as sequential accumulation.
func VerifySplitMergeEquivalence[V, R any, A accumulator.Accumulator[A, V, R]](newAcc func() A, samples []V, eq Comparator[R]) error {
	sequential := IngestAll[V, R](newAcc(), samples...)
	want := sequential.Eval()

	for split := 0; split <= len(samples); split++ {
		left := IngestAll[V, R](newAcc(), samples[:split]...)
		right := IngestAll[V, R](newAcc(), samples[split:]...)
		if err := left.Merge(right); err != nil {
			return fmt.Errorf("split at %d: merge failed: %w", split, err)
		}
		if !eq(left.Eval(), want) {
			return fmt.Errorf("split at %d: got %v, want %v", split, left.Eval(), want)
		}
	}
	return nil
}

// VerifyMonoid runs every law over the sample stream and reports all
// violations together.
func VerifyMonoid[V, R any, A accumulator.Accumulator[A, V, R]](newAcc func() A, samples []V, eq Comparator[R]) error {
	third := len(samples) / 3
	return multierr.Combine(
		VerifyLeftIdentity[V, R](newAcc, samples, eq),
		VerifyRightIdentity[V, R](newAcc, samples, eq),
		VerifyAssociativity[V, R](newAcc, samples[:third], samples[third:2*third], samples[2*third:], eq),
		VerifySplitMergeEquivalence[V, R](newAcc, samples, eq),
	)
}
