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

// Package transfer moves one data source from the source server to the
// destination site.
package transfer

import (
	"context"
	"os"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/juju/clock"
	"github.com/rs/zerolog"
	"github.com/walteh/tabmigrate/pkg/remote"
	"github.com/walteh/tabmigrate/pkg/scratch"
	"github.com/walteh/tabmigrate/pkg/session"
	"gitlab.com/tozd/go/errors"
)

var (
	ErrDownloadIncomplete   = errors.Base("download incomplete")
	ErrProjectNotConfigured = errors.Base("destination project not configured")
	ErrProjectNotFound      = errors.Base("destination project not found")
	ErrPublish              = errors.Base("publish failure")
)

// SessionOpener is satisfied by *session.Manager.
type SessionOpener interface {
	WithSession(ctx context.Context, target session.Target, body session.Body) error
}

// Engine migrates records one at a time.
type Engine struct {
	sessions  SessionOpener
	scratch   *scratch.Dir
	projectID string
	clock     clock.Clock
}

type Option func(*Engine)

// WithClock replaces the wall clock used for scratch names and timing.
func WithClock(clk clock.Clock) Option {
	return func(e *Engine) {
		if clk != nil {
			e.clock = clk
		}
	}
}

// NewEngine publishes into the destination project projectID. An empty
// projectID fails every transfer with ErrProjectNotConfigured.
func NewEngine(sessions SessionOpener, dir *scratch.Dir, projectID string, opts ...Option) *Engine {
	e := &Engine{
		sessions:  sessions,
		scratch:   dir,
		projectID: projectID,
		clock:     clock.WallClock,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MigrateOne downloads record into scratch storage, checks the destination
// project and publishes over any data source of the same name. The scratch
// file is removed before returning. Errors never escape: they are logged and
// recorded on the returned outcome.
func (e *Engine) MigrateOne(ctx context.Context, record remote.DataSource) Outcome {
	logger := zerolog.Ctx(ctx).With().
		Str("datasource_id", record.ID).
		Str("datasource", record.Name).
		Logger()
	ctx = logger.WithContext(ctx)

	outcome := NewOutcome(record, StatusPending)
	start := e.clock.Now()
	prefix := e.scratch.Prefix(record.Name, start)

	defer func() {
		if path, err := e.scratch.Locate(prefix); err == nil {
			if err := e.scratch.Remove(path); err != nil {
				logger.Warn().Err(err).Str("path", path).Msg("could not remove scratch file")
			}
		}
	}()

	err := e.transfer(ctx, record, prefix, &outcome)
	outcome.Duration = e.clock.Now().Sub(start)

	if err != nil {
		outcome.fail(err)
		logger.Error().Err(err).Dur("took", outcome.Duration).Msg("transfer failed")
		return outcome
	}

	outcome.Status = StatusSuccess
	logger.Info().
		Str("size", humanize.Bytes(uint64(outcome.Size))).
		Dur("took", outcome.Duration).
		Msg("transfer succeeded")
	return outcome
}

func (e *Engine) transfer(ctx context.Context, record remote.DataSource, prefix string, outcome *Outcome) error {
	err := e.sessions.WithSession(ctx, session.Source, func(ctx context.Context, sess remote.Session) error {
		if _, err := sess.DownloadDataSource(ctx, record.ID, prefix); err != nil {
			return errors.Errorf("downloading: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	path, err := e.scratch.Locate(prefix)
	if err != nil {
		return errors.Errorf("%w: %s", ErrDownloadIncomplete, err)
	}
	if info, err := os.Stat(path); err == nil {
		outcome.Size = info.Size()
	}

	return e.sessions.WithSession(ctx, session.Destination, func(ctx context.Context, sess remote.Session) error {
		if err := e.checkProject(ctx, sess); err != nil {
			return err
		}

		published, err := sess.PublishDataSource(ctx, remote.PublishRequest{
			Name:      record.Name,
			ProjectID: e.projectID,
			FilePath:  path,
			Overwrite: true,
		})
		if err != nil {
			return errors.Errorf("%w: %s", ErrPublish, err)
		}

		if published != nil {
			zerolog.Ctx(ctx).Debug().Str("published_id", published.ID).Msg("published data source")
		}
		return nil
	})
}

func (e *Engine) checkProject(ctx context.Context, sess remote.Session) error {
	if e.projectID == "" {
		return ErrProjectNotConfigured
	}

	projects, err := sess.ListProjects(ctx)
	if err != nil {
		return errors.Errorf("listing destination projects: %w", err)
	}

	found := slices.ContainsFunc(projects, func(p remote.Project) bool {
		return p.ID == e.projectID
	})
	if !found {
		return errors.Errorf("%w: %s", ErrProjectNotFound, e.projectID)
	}
	return nil
}
