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

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/statforge/accrue/accumulator"
)

// MapReduce folds the values into per-worker accumulators concurrently
// and merges the partials into one. newAcc must return independent
// accumulators of identical configuration; results for exactly
// mergeable kinds match sequential accumulation up to floating-point
// tolerance.
func MapReduce[V, R any, A accumulator.Accumulator[A, V, R]](ctx context.Context, newAcc func() A, values []V, opts ...Option) (A, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt.apply(&o)
	}

	workers := o.workers
	if workers > len(values) {
		workers = len(values)
	}
	result := newAcc()
	if workers <= 1 {
		for _, v := range values {
			result.Ingest(v)
		}
		return result, ctx.Err()
	}

	o.logger.Debug("mapreduce fold",
		zap.Int("values", len(values)),
		zap.Int("workers", workers))

	// Walk the slice in chunk-sized steps rather than multiplying the
	// worker index, so a rounded-up chunk size never produces a range
	// past the end of the slice. Every partial covers a non-empty range.
	partials := make([]A, 0, workers)
	g, ctx := errgroup.WithContext(ctx)
	chunk := (len(values) + workers - 1) / workers
	for lo := 0; lo < len(values); lo += chunk {
		hi := lo + chunk
		if hi > len(values) {
			hi = len(values)
		}
		part := values[lo:hi]
		acc := newAcc()
		partials = append(partials, acc)
		g.Go(func() error {
			for _, v := range part {
				acc.Ingest(v)
			}
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return result, err
	}

	for _, p := range partials {
		if err := result.Merge(p); err != nil {
			return result, err
		}
	}
	return result, nil
}
