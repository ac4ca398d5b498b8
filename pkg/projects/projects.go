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

// Package projects lists destination projects and records the one chosen as
// the publish target.
package projects

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/walteh/tabmigrate/pkg/config"
	"github.com/walteh/tabmigrate/pkg/log"
	"github.com/walteh/tabmigrate/pkg/remote"
	"github.com/walteh/tabmigrate/pkg/session"
	"gitlab.com/tozd/go/errors"
)

// ErrInvalidSelection is returned when a project number is out of range.
var ErrInvalidSelection = errors.Base("invalid selection")

// SessionOpener is satisfied by *session.Manager.
type SessionOpener interface {
	WithSession(ctx context.Context, target session.Target, body session.Body) error
}

// Store persists the chosen project id. *config.Config satisfies it.
type Store interface {
	SetProjectID(ctx context.Context, id string) (*config.Config, error)
}

// List returns the projects of the destination site.
func List(ctx context.Context, sessions SessionOpener) ([]remote.Project, error) {
	var projects []remote.Project
	err := sessions.WithSession(ctx, session.Destination, func(ctx context.Context, sess remote.Session) error {
		var err error
		projects, err = sess.ListProjects(ctx)
		if err != nil {
			return errors.Errorf("listing projects: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// Render prints projects as a table numbered from 1, the numbers Select
// accepts.
func Render(ctx context.Context, console *log.Console, projects []remote.Project) error {
	rows := make([][]string, 0, len(projects))
	for i, p := range projects {
		rows = append(rows, []string{strconv.Itoa(i + 1), p.Name, p.ID})
	}
	return console.Table(ctx, []string{"No", "Name", "ID"}, rows)
}

// Find returns the first project named exactly name.
func Find(projects []remote.Project, name string) (remote.Project, bool) {
	for _, p := range projects {
		if p.Name == name {
			return p, true
		}
	}
	return remote.Project{}, false
}

// Select picks project number (1-based) and persists its id to store.
func Select(ctx context.Context, store Store, number int, projects []remote.Project) (remote.Project, error) {
	if number < 1 || number > len(projects) {
		return remote.Project{}, errors.Errorf("%w: %d is not between 1 and %d", ErrInvalidSelection, number, len(projects))
	}

	chosen := projects[number-1]
	if _, err := store.SetProjectID(ctx, chosen.ID); err != nil {
		return remote.Project{}, errors.Errorf("saving project id: %w", err)
	}

	zerolog.Ctx(ctx).Info().
		Str("project", chosen.Name).
		Str("project_id", chosen.ID).
		Msg("selected destination project")
	return chosen, nil
}
