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

package tableau_test

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/tabmigrate/pkg/config"
	"github.com/walteh/tabmigrate/pkg/remote"
	"github.com/walteh/tabmigrate/pkg/remote/tableau"
	"gitlab.com/tozd/go/errors"
)

const ns = `xmlns="http://tableau.com/api"`

type published struct {
	payload  string
	field    string
	filename string
	content  []byte
	query    string
}

// fakeServer is a small in-memory Tableau site.
type fakeServer struct {
	t *testing.T

	mu          sync.Mutex
	version     string
	datasources []string
	projects    []string
	content     map[string][]byte
	disposition map[string]string
	signouts    int
	published   []published
	chunks      [][]byte
	authSeen    []string
}

func newFakeServer(t *testing.T) (*fakeServer, *httptest.Server) {
	f := &fakeServer{
		t:           t,
		version:     "3.19",
		content:     map[string][]byte{},
		disposition: map[string]string{},
	}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeServer) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := r.URL.Path
	if tok := r.Header.Get("X-Tableau-Auth"); tok != "" {
		f.authSeen = append(f.authSeen, tok)
	}

	switch {
	case path == "/api/2.4/serverinfo":
		if f.version == "" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprintf(w, `<tsResponse %s><serverInfo><restApiVersion>%s</restApiVersion></serverInfo></tsResponse>`, ns, f.version)

	case strings.HasSuffix(path, "/auth/signin"):
		body, _ := io.ReadAll(r.Body)
		if !bytes.Contains(body, []byte(`personalAccessTokenSecret="good"`)) {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprintf(w, `<tsResponse %s><error code="401002"><summary>Unauthorized Access</summary><detail>Invalid credentials</detail></error></tsResponse>`, ns)
			return
		}
		fmt.Fprintf(w, `<tsResponse %s><credentials token="tok-1"><site id="site-1" contentUrl="acme"/><user id="user-1"/></credentials></tsResponse>`, ns)

	case strings.HasSuffix(path, "/auth/signout"):
		f.signouts++
		w.WriteHeader(http.StatusNoContent)

	case path == "/api/3.19/sites/site-1/datasources" && r.Method == http.MethodGet:
		f.page(w, r, f.datasources, "datasources")

	case path == "/api/3.19/sites/site-1/projects":
		f.page(w, r, f.projects, "projects")

	case strings.HasPrefix(path, "/api/3.19/sites/site-1/datasources/") && strings.HasSuffix(path, "/content"):
		id := strings.TrimSuffix(strings.TrimPrefix(path, "/api/3.19/sites/site-1/datasources/"), "/content")
		data, ok := f.content[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprintf(w, `<tsResponse %s><error code="404011"><summary>Resource Not Found</summary><detail>no such data source</detail></error></tsResponse>`, ns)
			return
		}
		if d := f.disposition[id]; d != "" {
			w.Header().Set("Content-Disposition", d)
		}
		_, _ = w.Write(data)

	case path == "/api/3.19/sites/site-1/fileUploads" && r.Method == http.MethodPost:
		fmt.Fprintf(w, `<tsResponse %s><fileUpload uploadSessionId="up-1" fileSize="0"/></tsResponse>`, ns)

	case path == "/api/3.19/sites/site-1/fileUploads/up-1" && r.Method == http.MethodPut:
		p := f.readMultipart(r)
		f.chunks = append(f.chunks, p.content)
		fmt.Fprintf(w, `<tsResponse %s><fileUpload uploadSessionId="up-1"/></tsResponse>`, ns)

	case path == "/api/3.19/sites/site-1/datasources" && r.Method == http.MethodPost:
		p := f.readMultipart(r)
		p.query = r.URL.RawQuery
		f.published = append(f.published, p)
		if strings.Contains(p.payload, `id="missing"`) {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprintf(w, `<tsResponse %s><error code="404005"><summary>Project Not Found</summary><detail>missing</detail></error></tsResponse>`, ns)
			return
		}
		w.WriteHeader(http.StatusCreated)
		fmt.Fprintf(w, `<tsResponse %s><datasource id="new-1" name="Sales" updatedAt="2024-05-01T10:00:00Z"><project id="proj-1" name="Landing"/><owner id="user-1"/></datasource></tsResponse>`, ns)

	default:
		f.t.Errorf("unexpected request %s %s", r.Method, path)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (f *fakeServer) page(w http.ResponseWriter, r *http.Request, items []string, kind string) {
	var size, number int
	fmt.Sscan(r.URL.Query().Get("pageSize"), &size)
	fmt.Sscan(r.URL.Query().Get("pageNumber"), &number)

	start := (number - 1) * size
	end := start + size
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}

	fmt.Fprintf(w, `<tsResponse %s><pagination pageNumber="%d" pageSize="%d" totalAvailable="%d"/><%s>%s</%s></tsResponse>`,
		ns, number, size, len(items), kind, strings.Join(items[start:end], ""), kind)
}

func (f *fakeServer) readMultipart(r *http.Request) published {
	mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	require.NoError(f.t, err, "content type should parse")
	assert.Equal(f.t, "multipart/mixed", mediaType, "publish body should be multipart/mixed")

	var p published
	mr := multipart.NewReader(r.Body, params["boundary"])
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(f.t, err, "part should read")
		data, _ := io.ReadAll(part)
		params := partParams(f.t, part)
		if params["name"] == "request_payload" {
			p.payload = string(data)
			continue
		}
		p.field = params["name"]
		p.filename = params["filename"]
		p.content = data
	}
	return p
}

// partParams reads the disposition parameters of a publish part, which carry
// no form-data type.
func partParams(t *testing.T, part *multipart.Part) map[string]string {
	header := part.Header.Get("Content-Disposition")
	assert.False(t, strings.HasPrefix(header, "form-data"), "parts should use Tableau's bare disposition")
	_, params, err := mime.ParseMediaType("form-data; " + header)
	assert.NoError(t, err, "disposition should parse")
	return params
}

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func profile(server string) config.Profile {
	return config.Profile{Server: server, Site: "acme", TokenName: "migrator", TokenSecret: "good"}
}

func datasourceXML(id, name, updated string) string {
	return fmt.Sprintf(`<datasource id="%s" name="%s" type="hyper" updatedAt="%s"><project id="p-%s" name="Default"/><owner id="o-%s"/></datasource>`, id, name, updated, id, id)
}

func TestSignIn(t *testing.T) {
	t.Run("test_discovers_version_and_signs_out", func(t *testing.T) {
		fake, srv := newFakeServer(t)
		ctx := testContext(t)

		sess, err := tableau.NewConnector().SignIn(ctx, profile(srv.URL))
		require.NoError(t, err, "SignIn should succeed")

		ts, ok := sess.(*tableau.Session)
		require.True(t, ok, "session should be a tableau session")
		assert.Equal(t, "site-1", ts.SiteID(), "site id should come from the response")
		assert.Equal(t, "user-1", ts.UserID(), "user id should come from the response")

		require.NoError(t, sess.SignOut(ctx), "SignOut should succeed")
		require.NoError(t, sess.SignOut(ctx), "second SignOut should be a no-op")
		assert.Equal(t, 1, fake.signouts, "server should see one sign out")
		assert.Contains(t, fake.authSeen, "tok-1", "token should be sent on later calls")
	})

	t.Run("test_falls_back_when_serverinfo_fails", func(t *testing.T) {
		fake, srv := newFakeServer(t)
		fake.version = ""

		sess, err := tableau.NewConnector().SignIn(testContext(t), profile(srv.URL))
		// the fallback version has no routes on the fake, so only sign-in is checked
		require.NoError(t, err, "SignIn should succeed on the fallback version")
		assert.NotNil(t, sess, "session should be returned")
	})

	t.Run("test_bad_credentials", func(t *testing.T) {
		_, srv := newFakeServer(t)
		p := profile(srv.URL)
		p.TokenSecret = "bad"

		_, err := tableau.NewConnector().SignIn(testContext(t), p)
		require.Error(t, err, "SignIn should fail")

		var apiErr *tableau.APIError
		require.True(t, errors.As(err, &apiErr), "error should carry the api error")
		assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode, "status should match")
		assert.Equal(t, "401002", apiErr.Code, "code should match")
		assert.Contains(t, err.Error(), "Invalid credentials", "detail should be in the message")
	})

	t.Run("test_pinned_version_skips_discovery", func(t *testing.T) {
		fake, srv := newFakeServer(t)
		fake.version = ""
		p := profile(srv.URL)
		p.APIVersion = "3.19"

		sess, err := tableau.NewConnector().SignIn(testContext(t), p)
		require.NoError(t, err, "SignIn should succeed")

		_, err = sess.ListProjects(testContext(t))
		require.NoError(t, err, "pinned version should be used for later calls")
	})
}

func signedIn(t *testing.T, srv *httptest.Server, opts ...tableau.Option) remote.Session {
	t.Helper()
	sess, err := tableau.NewConnector(opts...).SignIn(testContext(t), profile(srv.URL))
	require.NoError(t, err, "SignIn should succeed")
	return sess
}

func TestListDataSources(t *testing.T) {
	fake, srv := newFakeServer(t)
	for i := 0; i < 5; i++ {
		fake.datasources = append(fake.datasources, datasourceXML(fmt.Sprintf("ds-%d", i), fmt.Sprintf("Source %d", i), "2024-05-01T10:00:00Z"))
	}
	fake.datasources = append(fake.datasources, `<datasource id="ds-null" name="Never Updated"/>`)

	sess := signedIn(t, srv, tableau.WithPageSize(2))

	got, err := sess.ListDataSources(testContext(t))
	require.NoError(t, err, "ListDataSources should succeed")
	require.Len(t, got, 6, "every page should be walked")

	assert.Equal(t, "ds-0", got[0].ID, "order should be kept")
	assert.Equal(t, "o-ds-0", got[0].OwnerID, "owner should be mapped")
	assert.Equal(t, "p-ds-0", got[0].ProjectID, "project should be mapped")
	require.NotNil(t, got[0].UpdatedAt, "updatedAt should parse")
	assert.Equal(t, 2024, got[0].UpdatedAt.Year(), "updatedAt should parse")
	assert.Nil(t, got[5].UpdatedAt, "missing updatedAt should stay nil")
}

func TestListProjects(t *testing.T) {
	fake, srv := newFakeServer(t)
	fake.projects = []string{
		`<project id="p1" name="Default" description="The default project"/>`,
		`<project id="p2" name="Finance" parentProjectId="p1"/>`,
	}

	got, err := signedIn(t, srv).ListProjects(testContext(t))
	require.NoError(t, err, "ListProjects should succeed")
	require.Len(t, got, 2, "both projects should be listed")
	assert.Equal(t, remote.Project{ID: "p2", Name: "Finance", ParentID: "p1"}, got[1], "project should be mapped")
}

func zipBytes(t *testing.T) []byte {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("Sales.tds")
	require.NoError(t, err, "zip entry")
	_, _ = w.Write([]byte("<datasource/>"))
	require.NoError(t, zw.Close(), "zip close")
	return buf.Bytes()
}

func TestDownloadDataSource(t *testing.T) {
	tests := []struct {
		name        string
		content     func(t *testing.T) []byte
		disposition string
		wantExt     string
	}{
		{
			name:        "extension_from_disposition",
			content:     func(*testing.T) []byte { return []byte("<datasource/>") },
			disposition: `attachment; filename="Sales.tds"`,
			wantExt:     ".tds",
		},
		{
			name:        "extension_from_tableau_disposition",
			content:     func(*testing.T) []byte { return []byte("<datasource/>") },
			disposition: `name="tableau_datasource"; filename="Sales.tdsx"`,
			wantExt:     ".tdsx",
		},
		{
			name:        "unknown_disposition_extension_is_sniffed",
			content:     zipBytes,
			disposition: `name="tableau_datasource"; filename="Sales.bin"`,
			wantExt:     ".tdsx",
		},
		{
			name:    "sniffed_zip_is_packaged",
			content: zipBytes,
			wantExt: ".tdsx",
		},
		{
			name:    "sniffed_xml_is_plain",
			content: func(*testing.T) []byte { return []byte(`<?xml version="1.0"?><datasource/>`) },
			wantExt: ".tds",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake, srv := newFakeServer(t)
			data := tt.content(t)
			fake.content["ds-1"] = data
			fake.disposition["ds-1"] = tt.disposition

			prefix := filepath.Join(t.TempDir(), "nested", "Sales_2024-05-01_10-00-00")
			path, err := signedIn(t, srv).DownloadDataSource(testContext(t), "ds-1", prefix)
			require.NoError(t, err, "DownloadDataSource should succeed")
			assert.Equal(t, prefix+tt.wantExt, path, "path should be prefix plus extension")

			got, err := os.ReadFile(path)
			require.NoError(t, err, "file should exist")
			assert.Equal(t, data, got, "content should match")
		})
	}

	t.Run("test_missing_data_source", func(t *testing.T) {
		_, srv := newFakeServer(t)
		prefix := filepath.Join(t.TempDir(), "gone")

		_, err := signedIn(t, srv).DownloadDataSource(testContext(t), "nope", prefix)
		require.Error(t, err, "DownloadDataSource should fail")

		matches, _ := filepath.Glob(prefix + "*")
		assert.Empty(t, matches, "no file should be left behind")
	})
}

func writeTemp(t *testing.T, name string, size int) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("x"), size), 0o600), "writing file")
	return path
}

func TestPublishDataSource(t *testing.T) {
	t.Run("test_single_request", func(t *testing.T) {
		fake, srv := newFakeServer(t)
		path := writeTemp(t, "Sales_2024.tdsx", 100)

		ds, err := signedIn(t, srv).PublishDataSource(testContext(t), remote.PublishRequest{
			Name:      "Sales",
			ProjectID: "proj-1",
			FilePath:  path,
			Overwrite: true,
		})
		require.NoError(t, err, "PublishDataSource should succeed")
		assert.Equal(t, "new-1", ds.ID, "published id should be returned")
		assert.Equal(t, "proj-1", ds.ProjectID, "project should be returned")

		require.Len(t, fake.published, 1, "one publish request expected")
		p := fake.published[0]
		assert.Contains(t, p.payload, `name="Sales"`, "payload should name the data source")
		assert.Contains(t, p.payload, `id="proj-1"`, "payload should carry the project")
		assert.Equal(t, "tableau_datasource", p.field, "file part name should match")
		assert.Equal(t, "Sales_2024.tdsx", p.filename, "file name should match")
		assert.Len(t, p.content, 100, "whole file should be sent")
		assert.Equal(t, "overwrite=true", p.query, "overwrite should be requested")
	})

	t.Run("test_chunked_upload", func(t *testing.T) {
		fake, srv := newFakeServer(t)
		path := writeTemp(t, "Big.hyper", 25)

		_, err := signedIn(t, srv, tableau.WithChunking(10, 10)).PublishDataSource(testContext(t), remote.PublishRequest{
			Name:      "Big",
			ProjectID: "proj-1",
			FilePath:  path,
			Overwrite: true,
		})
		require.NoError(t, err, "PublishDataSource should succeed")

		require.Len(t, fake.chunks, 3, "file should be split in three chunks")
		assert.Len(t, fake.chunks[2], 5, "last chunk should hold the remainder")

		require.Len(t, fake.published, 1, "one commit request expected")
		assert.Empty(t, fake.published[0].field, "commit should carry no file part")
		assert.Contains(t, fake.published[0].query, "uploadSessionId=up-1", "commit should name the upload session")
		assert.Contains(t, fake.published[0].query, "datasourceType=hyper", "commit should name the file type")
	})

	t.Run("test_api_error", func(t *testing.T) {
		_, srv := newFakeServer(t)
		path := writeTemp(t, "Sales.tds", 10)

		_, err := signedIn(t, srv).PublishDataSource(testContext(t), remote.PublishRequest{
			Name:      "Sales",
			ProjectID: "missing",
			FilePath:  path,
		})
		require.Error(t, err, "PublishDataSource should fail")

		var apiErr *tableau.APIError
		require.True(t, errors.As(err, &apiErr), "error should carry the api error")
		assert.Equal(t, "404005", apiErr.Code, "code should match")
	})

	t.Run("test_missing_file", func(t *testing.T) {
		_, srv := newFakeServer(t)
		_, err := signedIn(t, srv).PublishDataSource(testContext(t), remote.PublishRequest{
			Name:     "Sales",
			FilePath: filepath.Join(t.TempDir(), "none.tds"),
		})
		require.Error(t, err, "PublishDataSource should fail")
	})
}
