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

// Package migration drives the transfer engine over a whole source site.
package migration

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/tabmigrate/pkg/config"
	"github.com/walteh/tabmigrate/pkg/log"
	"github.com/walteh/tabmigrate/pkg/metrics"
	"github.com/walteh/tabmigrate/pkg/remote"
	"github.com/walteh/tabmigrate/pkg/transfer"
)

// Lister is satisfied by *inventory.Lister.
type Lister interface {
	List(ctx context.Context) ([]remote.DataSource, error)
}

// Migrator is satisfied by *transfer.Engine.
type Migrator interface {
	MigrateOne(ctx context.Context, record remote.DataSource) transfer.Outcome
}

// Filter is satisfied by *staleness.Filter.
type Filter interface {
	IsStale(ts *time.Time) bool
	Threshold() config.Threshold
}

// Orchestrator runs batches sequentially. A failed record never stops the
// batch; a failed listing does.
type Orchestrator struct {
	lister   Lister
	migrator Migrator
	filter   Filter
	recorder *metrics.Recorder
	dryRun   bool
}

type Option func(*Orchestrator)

// WithRecorder records every transfer on r.
func WithRecorder(r *metrics.Recorder) Option {
	return func(o *Orchestrator) { o.recorder = r }
}

// WithDryRun lists and classifies without transferring anything.
func WithDryRun(dryRun bool) Option {
	return func(o *Orchestrator) { o.dryRun = dryRun }
}

func New(lister Lister, migrator Migrator, filter Filter, opts ...Option) *Orchestrator {
	o := &Orchestrator{lister: lister, migrator: migrator, filter: filter}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// MigrateAll migrates every data source on the source site.
func (o *Orchestrator) MigrateAll(ctx context.Context) (*Report, error) {
	console := log.FromContext(ctx)
	ctx = zerolog.Ctx(ctx).With().Str("mode", ModeAll).Logger().WithContext(ctx)

	console.Header(ctx, "migrating all data sources")

	records, err := o.lister.List(ctx)
	if err != nil {
		return nil, err
	}
	records = uniqueByID(ctx, records)

	report := newReport(ModeAll, o.dryRun)
	for _, r := range records {
		report.put(transfer.NewOutcome(r, transfer.StatusPending))
	}

	console.Infof(ctx, "found %d data sources", len(records))
	if err := console.Table(ctx, []string{"Name", "Last Updated", "Owner"}, recordRows(records)); err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("rendering table")
	}

	o.run(ctx, report, records)
	o.printSummary(ctx, report)
	return report, nil
}

// MigrateUpdated migrates only the data sources the filter reports as
// recently updated. The rest, including those without a timestamp, are
// skipped.
func (o *Orchestrator) MigrateUpdated(ctx context.Context) (*Report, error) {
	console := log.FromContext(ctx)
	ctx = zerolog.Ctx(ctx).With().Str("mode", ModeUpdated).Logger().WithContext(ctx)

	console.Header(ctx, "migrating updated data sources")

	records, err := o.lister.List(ctx)
	if err != nil {
		return nil, err
	}
	records = uniqueByID(ctx, records)

	report := newReport(ModeUpdated, o.dryRun)
	var targets []remote.DataSource
	for _, r := range records {
		if o.filter.IsStale(r.UpdatedAt) {
			report.put(transfer.NewOutcome(r, transfer.StatusUpdateNeeded))
			targets = append(targets, r)
			continue
		}
		report.put(transfer.NewOutcome(r, transfer.StatusSkipped))
	}
	report.updated = len(targets)

	console.Infof(ctx, "%d of %d data sources were updated recently (window %s)", len(targets), len(records), o.filter.Threshold())
	if len(targets) > 0 {
		if err := console.Table(ctx, []string{"Name", "Last Updated", "Owner"}, recordRows(targets)); err != nil {
			zerolog.Ctx(ctx).Debug().Err(err).Msg("rendering table")
		}
	}

	o.run(ctx, report, targets)
	o.printSummary(ctx, report)
	return report, nil
}

func (o *Orchestrator) run(ctx context.Context, report *Report, records []remote.DataSource) {
	console := log.FromContext(ctx)

	if o.dryRun {
		console.Warningf(ctx, "dry run, %d data sources would be migrated", len(records))
		return
	}

	progress := console.Progress(ctx, "migrating", len(records))
	defer progress.Stop()

	for _, r := range records {
		outcome := o.migrator.MigrateOne(ctx, r)
		report.put(outcome)
		o.recorder.RecordTransfer(report.Mode, outcome.Status.String(), outcome.Duration, outcome.Size)

		console.Outcome(ctx, outcome.Name, outcome.UpdatedAt, outcome.Err)
		progress.Increment()
	}
}

func (o *Orchestrator) printSummary(ctx context.Context, report *Report) {
	console := log.FromContext(ctx)
	c := report.Counts()

	zerolog.Ctx(ctx).Info().
		Int("total", c.Total).
		Int("updated", c.Updated).
		Int("success", c.Success).
		Int("failed", c.Failed).
		Int("skipped", c.Skipped).
		Msg("migration finished")

	if report.DryRun {
		return
	}

	rows := [][]string{{"Total", fmt.Sprint(c.Total)}}
	if report.Mode == ModeUpdated {
		rows = append(rows, []string{"Updated", fmt.Sprint(c.Updated)})
	}
	rows = append(rows,
		[]string{"Migrated", fmt.Sprint(c.Success)},
		[]string{"Failed", fmt.Sprint(c.Failed)},
	)
	if report.Mode == ModeUpdated {
		rows = append(rows, []string{"Skipped", fmt.Sprint(c.Skipped)})
	}
	if err := console.Table(ctx, []string{"Result", "Count"}, rows); err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("rendering table")
	}

	failures := report.Failures()
	if len(failures) == 0 {
		console.Successf(ctx, "%d data sources migrated", c.Success)
		return
	}

	console.Errorf(ctx, "%d data sources failed to migrate", len(failures))
	for _, f := range failures {
		console.Outcome(ctx, f.Name, "", f.Err)
	}
}

// uniqueByID drops records whose id was already listed, keeping the first.
// A listing can repeat a record when the site changes between pages.
func uniqueByID(ctx context.Context, records []remote.DataSource) []remote.DataSource {
	seen := make(map[string]bool, len(records))
	out := make([]remote.DataSource, 0, len(records))
	for _, r := range records {
		if seen[r.ID] {
			zerolog.Ctx(ctx).Warn().
				Str("datasource_id", r.ID).
				Str("datasource", r.Name).
				Msg("data source listed twice, migrating it once")
			continue
		}
		seen[r.ID] = true
		out = append(out, r)
	}
	return out
}

func recordRows(records []remote.DataSource) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{r.Name, r.UpdatedAtString(), r.OwnerID})
	}
	return rows
}
