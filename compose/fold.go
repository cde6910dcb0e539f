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

// IngestAll feeds every value into the accumulator and returns it for
// chaining.
func IngestAll[V, R any, A accumulator.Accumulator[A, V, R]](acc A, values ...V) A {
	for _, v := range values {
		acc.Ingest(v)
	}
	return acc
}

// Fold ingests every value and returns the result.
func Fold[V, R any, A accumulator.Accumulator[A, V, R]](acc A, values ...V) R {
	return IngestAll[V, R](acc, values...).Eval()
}

// MergeAll folds the remaining accumulators into the first and returns
// it. An empty argument list is not meaningful for typed accumulators,
// so at least one is required by the signature.
func MergeAll[V, R any, A accumulator.Accumulator[A, V, R]](first A, rest ...A) (A, error) {
	for _, a := range rest {
		if err := first.Merge(a); err != nil {
			return first, err
		}
	}
	return first, nil
}
