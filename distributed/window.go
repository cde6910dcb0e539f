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
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/statforge/accrue/accumulator"
)

// ErrWindowConfig is returned for non-positive window durations or
// sizes.
var ErrWindowConfig = errors.New("distributed: invalid window configuration")

// WindowResult is one closed tumbling window.
type WindowResult[R any] struct {
	Start  time.Time
	End    time.Time
	Result R
}

// Windowed accumulates into fixed-duration tumbling windows. When a
// sample arrives after the current window's end, the window is closed,
// its result recorded, and a fresh accumulator started. Windows with no
// samples are never emitted.
type Windowed[V, R any, A accumulator.Accumulator[A, V, R]] struct {
	current  A
	duration time.Duration
	start    time.Time
	started  bool
	closed   []WindowResult[R]
	logger   *zap.Logger
	timefunc TimeFunc
}

// NewWindowed returns a tumbling-window driver around the accumulator.
// A non-positive duration is a configuration error.
func NewWindowed[V, R any, A accumulator.Accumulator[A, V, R]](acc A, duration time.Duration, opts ...Option) (*Windowed[V, R, A], error) {
	if duration <= 0 {
		return nil, fmt.Errorf("%w: duration %v", ErrWindowConfig, duration)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt.apply(&o)
	}
	return &Windowed[V, R, A]{
		current:  acc,
		duration: duration,
		logger:   o.logger,
		timefunc: o.timefunc,
	}, nil
}

// Ingest stamps the sample with the driver's clock and routes it into
// the window covering that instant.
func (w *Windowed[V, R, A]) Ingest(v V) {
	now := w.timefunc()
	if !w.started {
		w.start = now.Truncate(w.duration)
		w.started = true
	}
	if !now.Before(w.start.Add(w.duration)) {
		w.roll()
		// Advance past empty intervals without emitting them.
		for !now.Before(w.start.Add(w.duration)) {
			w.start = w.start.Add(w.duration)
		}
	}
	w.current.Ingest(v)
}

func (w *Windowed[V, R, A]) roll() {
	if !w.current.Empty() {
		end := w.start.Add(w.duration)
		w.closed = append(w.closed, WindowResult[R]{
			Start:  w.start,
			End:    end,
			Result: w.current.Eval(),
		})
		w.logger.Debug("window closed",
			zap.Time("start", w.start),
			zap.Time("end", end))
	}
	w.current = w.current.Fresh()
}

// Current returns the open window's result so far.
func (w *Windowed[V, R, A]) Current() R {
	return w.current.Eval()
}

// CurrentStart returns the open window's start time. The zero time is
// returned before the first sample.
func (w *Windowed[V, R, A]) CurrentStart() time.Time {
	return w.start
}

// Closed returns the finished windows in order and clears them.
func (w *Windowed[V, R, A]) Closed() []WindowResult[R] {
	out := w.closed
	w.closed = nil
	return out
}

// Flush closes the open window if it has data and returns all finished
// windows.
func (w *Windowed[V, R, A]) Flush() []WindowResult[R] {
	if w.started && !w.current.Empty() {
		w.roll()
	}
	return w.Closed()
}

// SlidingWindow evaluates an accumulator over the most recent n samples.
// Accumulators cannot un-ingest, so eviction is handled by refolding the
// retained samples through a fresh accumulator on each Eval.
type SlidingWindow[V, R any, A accumulator.Accumulator[A, V, R]] struct {
	proto  A
	buf    []V
	size   int
	next   int
	filled bool
}

// NewSlidingWindow returns a driver keeping the last size samples. A
// non-positive size is a configuration error.
func NewSlidingWindow[V, R any, A accumulator.Accumulator[A, V, R]](acc A, size int) (*SlidingWindow[V, R, A], error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: size %d", ErrWindowConfig, size)
	}
	return &SlidingWindow[V, R, A]{
		proto: acc,
		buf:   make([]V, size),
		size:  size,
	}, nil
}

func (s *SlidingWindow[V, R, A]) Ingest(v V) {
	s.buf[s.next] = v
	s.next++
	if s.next == s.size {
		s.next = 0
		s.filled = true
	}
}

// Eval folds the retained samples, oldest first, through a fresh copy
// of the prototype accumulator.
func (s *SlidingWindow[V, R, A]) Eval() R {
	acc := s.proto.Fresh()
	if s.filled {
		for i := s.next; i < s.size; i++ {
			acc.Ingest(s.buf[i])
		}
	}
	for i := 0; i < s.next; i++ {
		acc.Ingest(s.buf[i])
	}
	return acc.Eval()
}

// Len returns the number of retained samples.
func (s *SlidingWindow[V, R, A]) Len() int {
	if s.filled {
		return s.size
	}
	return s.next
}

// Empty reports whether no samples were ever ingested.
func (s *SlidingWindow[V, R, A]) Empty() bool {
	return !s.filled && s.next == 0
}
