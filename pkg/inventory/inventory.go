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

// Package inventory lists the data sources published on the source server.
package inventory

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/tabmigrate/pkg/remote"
	"github.com/walteh/tabmigrate/pkg/session"
	"gitlab.com/tozd/go/errors"
)

// ErrEnumeration is returned when the data source listing cannot be fetched.
var ErrEnumeration = errors.Base("enumeration failure")

// SessionOpener is satisfied by *session.Manager.
type SessionOpener interface {
	WithSession(ctx context.Context, target session.Target, body session.Body) error
}

// Lister fetches the source inventory.
type Lister struct {
	sessions SessionOpener
	observe  func(n int)
}

type Option func(*Lister)

// WithObserver registers a callback that receives the size of every listing.
func WithObserver(fn func(n int)) Option {
	return func(l *Lister) { l.observe = fn }
}

func NewLister(sessions SessionOpener, opts ...Option) *Lister {
	l := &Lister{sessions: sessions}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// List returns every data source on the source site, in server order. Sign-in
// failures are returned as they are; any other failure wraps ErrEnumeration.
func (l *Lister) List(ctx context.Context) ([]remote.DataSource, error) {
	var records []remote.DataSource
	var listErr error

	err := l.sessions.WithSession(ctx, session.Source, func(ctx context.Context, sess remote.Session) error {
		records, listErr = sess.ListDataSources(ctx)
		return listErr
	})
	if listErr != nil {
		return nil, errors.Errorf("%w: %s", ErrEnumeration, listErr)
	}
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().Int("count", len(records)).Msg("listed data sources")
	if l.observe != nil {
		l.observe(len(records))
	}
	return records, nil
}
