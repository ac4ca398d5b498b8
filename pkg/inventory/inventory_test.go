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

package inventory

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/tabmigrate/gen/mockery"
	"github.com/walteh/tabmigrate/pkg/config"
	"github.com/walteh/tabmigrate/pkg/remote"
	"github.com/walteh/tabmigrate/pkg/session"
	"gitlab.com/tozd/go/errors"
)

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func TestList(t *testing.T) {
	cfg := &config.Config{Source: config.Profile{Server: "https://server"}}

	t.Run("test_returns_all_records", func(t *testing.T) {
		conn := mockery.NewMockConnector_remote(t)
		sess := mockery.NewMockSession_remote(t)
		want := []remote.DataSource{{ID: "b", Name: "B"}, {ID: "a", Name: "A"}}

		conn.EXPECT().SignIn(mock.Anything, cfg.Source).Return(sess, nil)
		sess.EXPECT().ListDataSources(mock.Anything).Return(want, nil)
		sess.EXPECT().SignOut(mock.Anything).Return(nil)

		var observed int
		got, err := NewLister(session.NewManager(conn, cfg), WithObserver(func(n int) { observed = n })).List(testContext(t))
		require.NoError(t, err, "List should succeed")
		assert.Equal(t, want, got, "server order should be kept")
		assert.Equal(t, 2, observed, "observer should see the count")
	})

	t.Run("test_transport_failure", func(t *testing.T) {
		conn := mockery.NewMockConnector_remote(t)
		sess := mockery.NewMockSession_remote(t)

		conn.EXPECT().SignIn(mock.Anything, cfg.Source).Return(sess, nil)
		sess.EXPECT().ListDataSources(mock.Anything).Return(nil, errors.New("connection reset"))
		sess.EXPECT().SignOut(mock.Anything).Return(nil)

		_, err := NewLister(session.NewManager(conn, cfg)).List(testContext(t))
		require.Error(t, err, "List should fail")
		assert.True(t, errors.Is(err, ErrEnumeration), "error should be an enumeration failure")
		assert.Contains(t, err.Error(), "connection reset", "cause should be in the message")
	})

	t.Run("test_sign_in_failure_is_not_enumeration", func(t *testing.T) {
		conn := mockery.NewMockConnector_remote(t)
		conn.EXPECT().SignIn(mock.Anything, cfg.Source).Return(nil, errors.New("bad token"))

		_, err := NewLister(session.NewManager(conn, cfg)).List(testContext(t))
		require.Error(t, err, "List should fail")
		assert.True(t, errors.Is(err, session.ErrAuthentication), "error should be an authentication failure")
		assert.False(t, errors.Is(err, ErrEnumeration), "error should not be an enumeration failure")
	})
}
