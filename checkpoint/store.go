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

package checkpoint

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/statforge/accrue/codec"
)

// ErrNotFound is returned when no checkpoint exists under a name.
var ErrNotFound = errors.New("checkpoint: not found")

// Store namespaces sealed accumulator envelopes inside a KVS. Only
// valid envelopes are accepted, so a Load never hands back bytes the
// codec will reject for structural reasons.
type Store struct {
	kvs       KVS
	namespace string
	ttl       time.Duration
	timefunc  TimeFunc
	logger    *zap.Logger
}

// StoreOption configures a Store.
type StoreOption interface {
	apply(*Store)
}

type storeOptionFunc func(*Store)

func (f storeOptionFunc) apply(s *Store) { f(s) }

// WithNamespace prefixes every key, letting several stores share one
// KVS.
func WithNamespace(ns string) StoreOption {
	return storeOptionFunc(func(s *Store) {
		s.namespace = ns
	})
}

// WithTTL expires checkpoints after the given duration. The default is
// NoTTL.
func WithTTL(ttl time.Duration) StoreOption {
	return storeOptionFunc(func(s *Store) {
		s.ttl = ttl
	})
}

// WithTimeFunc overrides the clock recorded on save.
func WithTimeFunc(tf TimeFunc) StoreOption {
	return storeOptionFunc(func(s *Store) {
		if tf != nil {
			s.timefunc = tf
		}
	})
}

// WithLogger attaches a logger. The default discards everything.
func WithLogger(logger *zap.Logger) StoreOption {
	return storeOptionFunc(func(s *Store) {
		s.logger = logger
	})
}

// NewStore wraps a KVS. The store owns it afterwards; Close closes it.
func NewStore(kvs KVS, opts ...StoreOption) *Store {
	s := &Store{
		kvs:       kvs,
		namespace: "accrue",
		ttl:       NoTTL,
		timefunc:  time.Now,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt.apply(s)
	}
	return s
}

func (s *Store) key(name string) []byte {
	return []byte(s.namespace + "/" + name)
}

// Save stores a sealed envelope under the name, replacing any previous
// checkpoint. Bytes that are not a valid envelope are rejected before
// touching the KVS.
func (s *Store) Save(name string, sealed []byte) error {
	kind, err := codec.PeekKind(sealed)
	if err != nil {
		return fmt.Errorf("checkpoint: refusing to store %q: %w", name, err)
	}
	if err := s.kvs.Set(s.key(name), sealed, s.ttl); err != nil {
		return fmt.Errorf("checkpoint: store %q: %w", name, err)
	}
	s.logger.Debug("checkpoint saved",
		zap.String("name", name),
		zap.Stringer("kind", kind),
		zap.Int("bytes", len(sealed)),
		zap.Time("at", s.timefunc()))
	return nil
}

// Load returns the sealed envelope stored under the name.
func (s *Store) Load(name string) ([]byte, error) {
	data, err := s.kvs.Get(s.key(name))
	if err != nil {
		return nil, fmt.Errorf("checkpoint: load %q: %w", name, err)
	}
	if data == nil {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return data, nil
}

// Kind returns the accumulator kind stored under the name without
// decoding the payload.
func (s *Store) Kind(name string) (codec.Kind, error) {
	data, err := s.Load(name)
	if err != nil {
		return codec.KindInvalid, err
	}
	return codec.PeekKind(data)
}

// Delete removes a checkpoint. Deleting a missing name is not an
// error.
func (s *Store) Delete(name string) error {
	return s.kvs.Delete(s.key(name))
}

// Names lists the stored checkpoint names in this store's namespace.
func (s *Store) Names() ([]string, error) {
	prefix := s.namespace + "/"
	var names []string
	err := s.kvs.ForEachPrefix([]byte(prefix), func(key, _ []byte) bool {
		names = append(names, string(key[len(prefix):]))
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("checkpoint: list: %w", err)
	}
	return names, nil
}

// Close releases the underlying KVS.
func (s *Store) Close() error {
	return s.kvs.Close()
}
