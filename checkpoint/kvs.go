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

// Package checkpoint persists serialized accumulator state in a
// key-value store so long-running aggregations survive restarts. It is
// designed around BadgerDB but works with any store implementing the
// KVS interface.
package checkpoint

import (
	"strings"
	"sync"
	"time"
)

// TimeFunc returns the current time. Injectable for tests.
type TimeFunc func() time.Time

// NoTTL disables expiry for stored checkpoints.
const NoTTL = time.Duration(0)

// KVS is the storage contract. Get returns a nil value for a missing
// key rather than an error.
type KVS interface {
	Get(key []byte) ([]byte, error)
	Set(key []byte, value []byte, ttl time.Duration) error
	Delete(key []byte) error
	ForEachPrefix(prefix []byte, f func(key []byte, value []byte) bool) error
	Close() error
}

// Wiper is implemented by stores that can drop all data at once.
type Wiper interface {
	Wipe() error
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryKVS is an in-process KVS for tests and ephemeral use. TTLs are
// honored against the injected clock.
type MemoryKVS struct {
	mu       sync.RWMutex
	entries  map[string]memoryEntry
	timefunc TimeFunc
}

var (
	_ KVS   = (*MemoryKVS)(nil)
	_ Wiper = (*MemoryKVS)(nil)
)

// NewMemoryKVS returns an empty in-memory store. A nil timefunc
// defaults to time.Now.
func NewMemoryKVS(timefunc TimeFunc) *MemoryKVS {
	if timefunc == nil {
		timefunc = time.Now
	}
	return &MemoryKVS{
		entries:  make(map[string]memoryEntry),
		timefunc: timefunc,
	}
}

func (m *MemoryKVS) expired(e memoryEntry) bool {
	return !e.expiresAt.IsZero() && !m.timefunc().Before(e.expiresAt)
}

func (m *MemoryKVS) Get(key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[string(key)]
	if !ok || m.expired(e) {
		return nil, nil
	}
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

func (m *MemoryKVS) Set(key []byte, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = m.timefunc().Add(ttl)
	}
	m.entries[string(key)] = e
	return nil
}

func (m *MemoryKVS) Delete(key []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, string(key))
	return nil
}

func (m *MemoryKVS) ForEachPrefix(prefix []byte, f func(key []byte, value []byte) bool) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for k, e := range m.entries {
		if !strings.HasPrefix(k, string(prefix)) || m.expired(e) {
			continue
		}
		if !f([]byte(k), append([]byte(nil), e.value...)) {
			break
		}
	}
	return nil
}

func (m *MemoryKVS) Close() error {
	return nil
}

func (m *MemoryKVS) Wipe() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]memoryEntry)
	return nil
}
