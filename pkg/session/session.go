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

// Package session opens authenticated sessions against the source server or
// the destination cloud site and guarantees they are closed.
package session

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/tabmigrate/pkg/config"
	"github.com/walteh/tabmigrate/pkg/remote"
	"gitlab.com/tozd/go/errors"
)

// ErrAuthentication is returned when sign-in is rejected or the server cannot
// be reached.
var ErrAuthentication = errors.Base("authentication failure")

// Target names which configured deployment a session is opened against.
type Target string

const (
	Source      Target = "source"
	Destination Target = "destination"
)

// Body runs with a live session. The session must not be kept after Body
// returns.
type Body func(ctx context.Context, sess remote.Session) error

// Manager opens scoped sessions for both targets of one config.
type Manager struct {
	connector remote.Connector
	cfg       *config.Config
}

func NewManager(connector remote.Connector, cfg *config.Config) *Manager {
	return &Manager{connector: connector, cfg: cfg}
}

func (m *Manager) profile(target Target) (config.Profile, error) {
	switch target {
	case Source:
		return m.cfg.Source, nil
	case Destination:
		return m.cfg.Destination, nil
	default:
		return config.Profile{}, errors.Errorf("unknown target %q", target)
	}
}

// WithSession signs in to target, runs body and signs out again whatever body
// returned. A failed sign-out is logged and never replaces body's error.
func (m *Manager) WithSession(ctx context.Context, target Target, body Body) error {
	profile, err := m.profile(target)
	if err != nil {
		return err
	}

	logger := zerolog.Ctx(ctx).With().Str("target", string(target)).Logger()
	ctx = logger.WithContext(ctx)

	sess, err := m.connector.SignIn(ctx, profile)
	if err != nil {
		logger.Error().Err(err).Str("server", profile.Server).Msg("sign in failed")
		return errors.Errorf("%w: %s: %s", ErrAuthentication, target, err)
	}

	defer func() {
		if serr := sess.SignOut(ctx); serr != nil {
			logger.Warn().Err(serr).Msg("sign out failed")
		}
	}()

	return body(ctx, sess)
}
