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

// Package distributed runs accumulators over partitioned data: worker
// pools that fold chunks concurrently, tree-shaped merges of many
// partial accumulators, and time or count based windowing for streams.
package distributed

import (
	"runtime"
	"time"

	"go.uber.org/zap"
)

// TimeFunc returns the current time. Injectable for tests.
type TimeFunc func() time.Time

type options struct {
	logger   *zap.Logger
	workers  int
	timefunc TimeFunc
}

// Option configures the drivers in this package.
type Option interface {
	apply(*options)
}

type optionFunc func(*options)

func (f optionFunc) apply(o *options) { f(o) }

func defaultOptions() options {
	return options{
		logger:   zap.NewNop(),
		workers:  runtime.GOMAXPROCS(0),
		timefunc: time.Now,
	}
}

// WithLogger attaches a logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return optionFunc(func(o *options) {
		o.logger = logger
	})
}

// WithWorkers caps the number of concurrent workers. Values below one
// fall back to the default.
func WithWorkers(n int) Option {
	return optionFunc(func(o *options) {
		if n > 0 {
			o.workers = n
		}
	})
}

// WithTimeFunc overrides the clock used by time-based windows.
func WithTimeFunc(tf TimeFunc) Option {
	return optionFunc(func(o *options) {
		if tf != nil {
			o.timefunc = tf
		}
	})
}
