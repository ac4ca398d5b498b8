// Copyright 2025 walteh LLC
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

// Package staleness decides whether a data source changed recently enough to
// be migrated.
package staleness

import (
	"time"

	"github.com/juju/clock"
	"github.com/walteh/tabmigrate/pkg/config"
)

// Filter compares modification times against a recency window.
type Filter struct {
	threshold config.Threshold
	clock     clock.Clock
}

// New returns a filter for threshold. A nil clock means the wall clock.
func New(threshold config.Threshold, clk clock.Clock) *Filter {
	if clk == nil {
		clk = clock.WallClock
	}
	return &Filter{threshold: threshold, clock: clk}
}

// IsStale reports whether ts lies strictly inside the window ending now. A
// nil timestamp or an unusable threshold is never stale.
func (f *Filter) IsStale(ts *time.Time) bool {
	if ts == nil {
		return false
	}
	window, ok := f.threshold.Window()
	if !ok {
		return false
	}
	elapsed := f.clock.Now().In(ts.Location()).Sub(*ts)
	return elapsed < window
}

// Threshold returns the window the filter was built with.
func (f *Filter) Threshold() config.Threshold {
	return f.threshold
}
