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

package syncacc

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"

	"github.com/statforge/accrue/accumulator"
)

// ErrShardCount is returned when a sharded wrapper is built with no
// shards.
var ErrShardCount = errors.New("syncacc: shard count must be > 0")

// Sharded spreads writes over independently locked accumulators so
// concurrent writers rarely contend. Reads merge the shards, which is
// only exact for kinds whose merge is exact, and only meaningful at all
// for order-insensitive kinds.
type Sharded[V, R any, A accumulator.Accumulator[A, V, R]] struct {
	shards []*Mutex[V, R, A]
	proto  A
	next   atomic.Uint64
}

// NewSharded builds n shards from the prototype's configuration. The
// prototype itself is not used for accumulation.
func NewSharded[V, R any, A accumulator.Accumulator[A, V, R]](proto A, n int) (*Sharded[V, R, A], error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrShardCount, n)
	}
	shards := make([]*Mutex[V, R, A], n)
	for i := range shards {
		shards[i] = NewMutex[V, R](proto.Fresh())
	}
	return &Sharded[V, R, A]{shards: shards, proto: proto}, nil
}

// Ingest routes the sample to a shard round-robin.
func (s *Sharded[V, R, A]) Ingest(v V) {
	i := s.next.Add(1) % uint64(len(s.shards))
	s.shards[i].Ingest(v)
}

// IngestKeyed routes all samples with the same key to the same shard,
// keeping per-key sample runs together for order-sensitive kinds.
func (s *Sharded[V, R, A]) IngestKeyed(key []byte, v V) {
	i := xxhash.Sum64(key) % uint64(len(s.shards))
	s.shards[i].Ingest(v)
}

// IngestKeyedString is IngestKeyed for string keys without a copy.
func (s *Sharded[V, R, A]) IngestKeyedString(key string, v V) {
	i := xxhash.Sum64String(key) % uint64(len(s.shards))
	s.shards[i].Ingest(v)
}

// Merged combines the shards into a fresh accumulator without
// disturbing them. Writers proceeding during the merge land in either
// the result or the next one.
func (s *Sharded[V, R, A]) Merged() (A, error) {
	combined := s.proto.Fresh()
	for _, shard := range s.shards {
		var err error
		shard.Do(func(acc A) {
			err = combined.Merge(acc)
		})
		if err != nil {
			return combined, err
		}
	}
	return combined, nil
}

// Eval merges the shards and evaluates the combination.
func (s *Sharded[V, R, A]) Eval() (R, error) {
	combined, err := s.Merged()
	if err != nil {
		var zero R
		return zero, err
	}
	return combined.Eval(), nil
}

// Drain swaps every shard for a fresh one and merges the drained
// accumulators, handing the caller the complete state collected so far.
func (s *Sharded[V, R, A]) Drain() (A, error) {
	combined := s.proto.Fresh()
	for _, shard := range s.shards {
		if err := combined.Merge(shard.SwapAndReset()); err != nil {
			return combined, err
		}
	}
	return combined, nil
}

// Empty reports whether every shard is empty.
func (s *Sharded[V, R, A]) Empty() bool {
	for _, shard := range s.shards {
		if !shard.Empty() {
			return false
		}
	}
	return true
}

// Shards returns the shard count.
func (s *Sharded[V, R, A]) Shards() int { return len(s.shards) }
