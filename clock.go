// clock.go: process clock abstraction for the Router's hot path
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package slf

import (
	"time"

	timecache "github.com/agilira/go-timecache"
)

// Clock supplies the current time to the Router and file-name
// interpolation. Tests inject a fixed clock for determinism; production
// code uses the cached clock below, which amortises the syscall behind
// time.Now() across many events per refresh tick.
type Clock interface {
	Now() time.Time
}

// cachedClock delegates to go-timecache's background-refreshed clock.
// Staleness is bounded by the cache's own refresh interval, which is
// irrelevant at file-rotation granularity (rotations happen on the order
// of megabytes of log output, not nanoseconds).
type cachedClock struct{}

// NewCachedClock returns the default production Clock.
func NewCachedClock() Clock { return cachedClock{} }

func (cachedClock) Now() time.Time { return timecache.CachedTime() }

// fixedClock always returns the same instant; used by tests that need
// deterministic timestamps in headers and events.
type fixedClock struct{ at time.Time }

// NewFixedClock returns a Clock frozen at the given instant.
func NewFixedClock(at time.Time) Clock { return fixedClock{at: at} }

func (f fixedClock) Now() time.Time { return f.at }
