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

import "golang.org/x/exp/constraints"

// Accumulator is the contract every streaming accumulator kind satisfies.
// A is the concrete accumulator type itself, V the sample type it ingests,
// and R the result type produced by Eval.
//
// The contract forms a monoid: Fresh() is the identity element for Merge,
// and Merge is associative (within floating-point tolerance) for every
// kind except the explicitly approximate ones (EMA, P2Quantile, and
// Reservoir, whose merges are documented approximations).
type Accumulator[A, V, R any] interface {
	// Ingest adds one sample. It always succeeds for well-typed input.
	Ingest(v V)

	// Merge folds another accumulator of the same concrete kind into the
	// receiver. Merging across kinds is a compile-time type error. The
	// returned error is reserved for structural mismatches between two
	// accumulators of the same kind, such as histograms with different
	// bin layouts.
	Merge(other A) error

	// Eval returns the current result without disturbing accumulation
	// state. Repeated calls between ingests return identical results.
	Eval() R

	// Fresh returns an empty accumulator of the same kind and
	// configuration: structural parameters (smoothing factor, bin layout,
	// quantile target, reservoir capacity) are retained, accumulated data
	// is not. Fresh of any accumulator is a left and right identity for
	// Merge.
	Fresh() A

	// Empty reports whether no samples were ever ingested. It
	// distinguishes "no data" from data that happens to sum to zero.
	Empty() bool
}

// Float constrains the floating-point kinds.
type Float = constraints.Float

// Number constrains the value types the extrema accumulators accept.
type Number interface {
	constraints.Integer | constraints.Float
}
