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

package tableau

import (
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/rs/zerolog"
	"github.com/walteh/tabmigrate/pkg/config"
	"github.com/walteh/tabmigrate/pkg/remote"
	"gitlab.com/tozd/go/errors"
)

const (
	// DefaultAPIVersion is used when the server does not report its version.
	DefaultAPIVersion = "3.4"
	// discoveryAPIVersion is the oldest version that serves /serverinfo.
	discoveryAPIVersion = "2.4"

	authHeader = "X-Tableau-Auth"

	defaultPageSize       = 100
	defaultChunkThreshold = 64 << 20
	defaultChunkSize      = 5 << 20
)

// HTTPClient defines the part of *http.Client we need.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

var _ remote.Connector = (*Connector)(nil)

// 🔌 Connector implements remote.Connector over the Tableau REST API.
type Connector struct {
	client         HTTPClient
	pageSize       int
	chunkThreshold int64
	chunkSize      int64
}

// Option configures a Connector.
type Option func(*Connector)

// WithHTTPClient replaces the default pooled client.
func WithHTTPClient(c HTTPClient) Option {
	return func(conn *Connector) { conn.client = c }
}

// WithPageSize sets the page size used by list calls.
func WithPageSize(n int) Option {
	return func(conn *Connector) {
		if n > 0 {
			conn.pageSize = n
		}
	}
}

// WithChunking sets the file size above which publishing goes through an
// upload session, and the size of each appended chunk.
func WithChunking(threshold, chunk int64) Option {
	return func(conn *Connector) {
		if threshold > 0 {
			conn.chunkThreshold = threshold
		}
		if chunk > 0 {
			conn.chunkSize = chunk
		}
	}
}

// NewConnector creates a connector backed by a cleanhttp pooled client.
func NewConnector(opts ...Option) *Connector {
	c := &Connector{
		client:         cleanhttp.DefaultPooledClient(),
		pageSize:       defaultPageSize,
		chunkThreshold: defaultChunkThreshold,
		chunkSize:      defaultChunkSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SignIn authenticates with a personal access token. When the profile does not
// pin an API version the server is asked for its own.
func (c *Connector) SignIn(ctx context.Context, profile config.Profile) (remote.Session, error) {
	logger := zerolog.Ctx(ctx)

	if profile.Server == "" {
		return nil, errors.Errorf("empty server url")
	}

	version := profile.APIVersion
	if version == "" {
		v, err := c.serverVersion(ctx, profile.Server)
		if err != nil {
			logger.Warn().Err(err).Str("server", profile.Server).Str("fallback", DefaultAPIVersion).Msg("could not detect api version")
			v = DefaultAPIVersion
		}
		version = v
	}

	s := &Session{
		conn:   c,
		server: profile.Server,
		base:   apiBase(profile.Server, version),
	}

	body := tsRequest{
		Credentials: &xmlCredentials{
			PATName:   profile.TokenName,
			PATSecret: profile.TokenSecret,
			Site:      xmlSite{ContentURL: profile.Site},
		},
	}

	var resp tsResponse
	if err := s.doXML(ctx, http.MethodPost, "/auth/signin", nil, body, &resp); err != nil {
		return nil, errors.Errorf("signing in to %s: %w", profile.Server, err)
	}
	if resp.Credentials == nil || resp.Credentials.Token == "" {
		return nil, errors.Errorf("signing in to %s: response carried no token", profile.Server)
	}

	s.token = resp.Credentials.Token
	s.siteID = resp.Credentials.Site.ID
	if resp.Credentials.User != nil {
		s.userID = resp.Credentials.User.ID
	}

	logger.Debug().
		Str("server", profile.Server).
		Str("api_version", version).
		Str("site_id", s.siteID).
		Msg("signed in")

	return s, nil
}

func (c *Connector) serverVersion(ctx context.Context, server string) (string, error) {
	probe := &Session{conn: c, server: server, base: apiBase(server, discoveryAPIVersion)}

	var resp tsResponse
	if err := probe.doXML(ctx, http.MethodGet, "/serverinfo", nil, nil, &resp); err != nil {
		return "", errors.Errorf("getting server info: %w", err)
	}
	if resp.ServerInfo == nil || resp.ServerInfo.RestAPIVersion == "" {
		return "", errors.Errorf("server info carried no api version")
	}
	return strings.TrimSpace(resp.ServerInfo.RestAPIVersion), nil
}

func apiBase(server, version string) string {
	return strings.TrimSuffix(server, "/") + "/api/" + version
}

var _ remote.Session = (*Session)(nil)

// Session is a signed-in REST session on one site.
type Session struct {
	conn   *Connector
	server string
	base   string
	token  string
	siteID string
	userID string
}

// SiteID returns the LUID of the signed-in site.
func (s *Session) SiteID() string {
	return s.siteID
}

// UserID returns the LUID of the signed-in user.
func (s *Session) UserID() string {
	return s.userID
}

// SignOut invalidates the token. Calling it twice is a no-op.
func (s *Session) SignOut(ctx context.Context) error {
	if s.token == "" {
		return nil
	}
	if err := s.doXML(ctx, http.MethodPost, "/auth/signout", nil, nil, nil); err != nil {
		return errors.Errorf("signing out of %s: %w", s.server, err)
	}
	s.token = ""
	return nil
}

// sitePath fills each {} in format with the next escaped arg.
func (s *Session) sitePath(format string, args ...string) string {
	p := "/sites/" + url.PathEscape(s.siteID)
	for _, a := range args {
		format = strings.Replace(format, "{}", url.PathEscape(a), 1)
	}
	return p + format
}

// doXML sends an optional XML body and decodes an optional XML response.
func (s *Session) doXML(ctx context.Context, method, path string, query url.Values, body any, out *tsResponse) error {
	var r io.Reader
	contentType := ""
	if body != nil {
		data, err := xml.Marshal(body)
		if err != nil {
			return errors.Errorf("encoding request: %w", err)
		}
		r = bytes.NewReader(data)
		contentType = "application/xml"
	}

	resp, err := s.do(ctx, method, path, query, r, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return decodeResponse(resp, out)
}

// do sends the request and turns non-2xx answers into *APIError. The caller
// owns the response body on success.
func (s *Session) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) (*http.Response, error) {
	logger := zerolog.Ctx(ctx)

	u := s.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, errors.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/xml")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if s.token != "" {
		req.Header.Set(authHeader, s.token)
	}

	start := time.Now()
	resp, err := s.conn.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Errorf("context error: %w", ctx.Err())
		}
		return nil, errors.Errorf("%s %s: %w", method, path, err)
	}

	logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("tableau request")

	if resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, readAPIError(resp)
	}

	return resp, nil
}

func decodeResponse(resp *http.Response, out *tsResponse) error {
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Errorf("reading response: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := xml.Unmarshal(data, out); err != nil {
		return errors.Errorf("decoding response: %w", err)
	}
	return nil
}

func readAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apiErr
	}

	var body tsResponse
	if xml.Unmarshal(data, &body) == nil && body.Error != nil {
		apiErr.Code = body.Error.Code
		apiErr.Summary = strings.TrimSpace(body.Error.Summary)
		apiErr.Detail = strings.TrimSpace(body.Error.Detail)
	}
	return apiErr
}
