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

// Package syncacc wraps accumulators for concurrent use. The plain
// kinds are not safe for simultaneous goroutines; these wrappers add
// mutual exclusion, reader-shared evaluation, or sharding for
// write-heavy streams.
package syncacc

import (
	"sync"

	"github.com/statforge/accrue/accumulator"
)

// Mutex serializes all access to an accumulator with a single lock.
type Mutex[V, R any, A accumulator.Accumulator[A, V, R]] struct {
	mu  sync.Mutex
	acc A
}

// NewMutex wraps the accumulator. The wrapper owns it afterwards;
// callers must not touch the original directly.
func NewMutex[V, R any, A accumulator.Accumulator[A, V, R]](acc A) *Mutex[V, R, A] {
	return &Mutex[V, R, A]{acc: acc}
}

func (m *Mutex[V, R, A]) Ingest(v V) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.acc.Ingest(v)
}

// MergeIn folds a plain accumulator into the wrapped one. The argument
// must not be concurrently mutated by another goroutine.
func (m *Mutex[V, R, A]) MergeIn(other A) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.acc.Merge(other)
}

func (m *Mutex[V, R, A]) Eval() R {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.acc.Eval()
}

func (m *Mutex[V, R, A]) Empty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.acc.Empty()
}

// SwapAndReset installs a fresh accumulator of the same configuration
// and returns the accumulated one. The caller gets exclusive ownership
// of the returned accumulator.
func (m *Mutex[V, R, A]) SwapAndReset() A {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.acc
	m.acc = m.acc.Fresh()
	return out
}

// Do runs fn with the lock held, for multi-step reads like pulling
// several statistics from one Welford consistently.
func (m *Mutex[V, R, A]) Do(fn func(acc A)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(m.acc)
}

// RW serializes writes but lets evaluations proceed concurrently.
// Worth it only when Eval is expensive and frequent relative to Ingest,
// such as sort-based reservoir quantiles.
type RW[V, R any, A accumulator.Accumulator[A, V, R]] struct {
	mu  sync.RWMutex
	acc A
}

// NewRW wraps the accumulator. The wrapper owns it afterwards.
func NewRW[V, R any, A accumulator.Accumulator[A, V, R]](acc A) *RW[V, R, A] {
	return &RW[V, R, A]{acc: acc}
}

func (r *RW[V, R, A]) Ingest(v V) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.acc.Ingest(v)
}

func (r *RW[V, R, A]) MergeIn(other A) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.acc.Merge(other)
}

func (r *RW[V, R, A]) Eval() R {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.acc.Eval()
}

func (r *RW[V, R, A]) Empty() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.acc.Empty()
}

func (r *RW[V, R, A]) SwapAndReset() A {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.acc
	r.acc = r.acc.Fresh()
	return out
}

// Do runs fn with the read lock held. fn must not mutate the
// accumulator.
func (r *RW[V, R, A]) Do(fn func(acc A)) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn(r.acc)
}
