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

package distributed

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/statforge/accrue/accumulator"
)

// ErrNoPartials is returned when a merge is requested over zero
// accumulators.
var ErrNoPartials = errors.New("distributed: no accumulators to merge")

// MergeSequential folds the partials into the first one, left to right.
// The slice is consumed: the first element owns the combined state
// afterwards.
func MergeSequential[V, R any, A accumulator.Accumulator[A, V, R]](partials []A) (A, error) {
	var zero A
	if len(partials) == 0 {
		return zero, ErrNoPartials
	}
	result := partials[0]
	for _, p := range partials[1:] {
		if err := result.Merge(p); err != nil {
			return result, err
		}
	}
	return result, nil
}

// MergeTree reduces the partials pairwise in rounds, merging each pair
// concurrently. For n partials the merge depth is log2(n) instead of n,
// which matters when individual merges are expensive (wide histograms,
// big groups). Associative kinds produce the same result as
// MergeSequential.
func MergeTree[V, R any, A accumulator.Accumulator[A, V, R]](ctx context.Context, partials []A, opts ...Option) (A, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt.apply(&o)
	}

	var zero A
	if len(partials) == 0 {
		return zero, ErrNoPartials
	}

	round := partials
	for len(round) > 1 {
		next := make([]A, (len(round)+1)/2)
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(o.workers)
		for i := 0; i < len(round); i += 2 {
			i := i
			if i+1 == len(round) {
				next[i/2] = round[i]
				continue
			}
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				if err := round[i].Merge(round[i+1]); err != nil {
					return err
				}
				next[i/2] = round[i]
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return zero, err
		}
		round = next
	}
	return round[0], nil
}
