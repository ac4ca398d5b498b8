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
	"bufio"
	"context"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"github.com/walteh/tabmigrate/pkg/remote"
	"gitlab.com/tozd/go/errors"
)

// ListDataSources returns every data source on the site, walking all pages.
func (s *Session) ListDataSources(ctx context.Context) ([]remote.DataSource, error) {
	var out []remote.DataSource
	err := s.paginate(ctx, "/datasources", func(resp *tsResponse) int {
		for _, ds := range resp.Datasources {
			out = append(out, ds.toRemote())
		}
		return len(resp.Datasources)
	})
	if err != nil {
		return nil, errors.Errorf("listing data sources: %w", err)
	}
	return out, nil
}

// ListProjects returns every project on the site, walking all pages.
func (s *Session) ListProjects(ctx context.Context) ([]remote.Project, error) {
	var out []remote.Project
	err := s.paginate(ctx, "/projects", func(resp *tsResponse) int {
		for _, p := range resp.Projects {
			out = append(out, p.toRemote())
		}
		return len(resp.Projects)
	})
	if err != nil {
		return nil, errors.Errorf("listing projects: %w", err)
	}
	return out, nil
}

// paginate requests pages until totalAvailable items were seen or a page
// comes back empty. collect returns how many items the page carried.
func (s *Session) paginate(ctx context.Context, resource string, collect func(*tsResponse) int) error {
	seen := 0
	for page := 1; ; page++ {
		query := url.Values{}
		query.Set("pageSize", strconv.Itoa(s.conn.pageSize))
		query.Set("pageNumber", strconv.Itoa(page))

		var resp tsResponse
		if err := s.doXML(ctx, http.MethodGet, s.sitePath(resource), query, nil, &resp); err != nil {
			return errors.Errorf("page %d: %w", page, err)
		}

		n := collect(&resp)
		seen += n
		if n == 0 || resp.Pagination == nil || seen >= resp.Pagination.TotalAvailable {
			return nil
		}
	}
}

// DownloadDataSource streams the content of a data source, extract included,
// to dstPrefix plus the extension the server reports. When the server gives
// no filename the extension is sniffed from the payload: packaged sources are
// zip archives.
func (s *Session) DownloadDataSource(ctx context.Context, id, dstPrefix string) (string, error) {
	logger := zerolog.Ctx(ctx)

	query := url.Values{}
	query.Set("includeExtract", "true")

	resp, err := s.do(ctx, http.MethodGet, s.sitePath("/datasources/{}/content", id), query, nil, "")
	if err != nil {
		return "", errors.Errorf("downloading data source %s: %w", id, err)
	}
	defer resp.Body.Close()

	body := bufio.NewReaderSize(resp.Body, 3072)
	ext := extensionFromDisposition(resp.Header.Get("Content-Disposition"))
	if ext == "" {
		head, _ := body.Peek(3072)
		ext = sniffExtension(head)
	}

	path := dstPrefix + ext
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", errors.Errorf("creating download directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", errors.Errorf("creating %s: %w", path, err)
	}

	n, err := io.Copy(f, body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", errors.Errorf("writing %s: %w", path, err)
	}

	logger.Debug().
		Str("datasource_id", id).
		Str("path", path).
		Str("size", humanize.Bytes(uint64(n))).
		Msg("downloaded data source")

	return path, nil
}

// dispositionParams parses a Content-Disposition header. Tableau sends
// `name="tableau_datasource"; filename="x.tdsx"` with no disposition type, so
// one is supplied when the header opens with a parameter.
func dispositionParams(header string) map[string]string {
	if header == "" {
		return nil
	}
	if first, _, _ := strings.Cut(header, ";"); strings.Contains(first, "=") {
		header = "form-data; " + header
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return nil
	}
	return params
}

func extensionFromDisposition(header string) string {
	params := dispositionParams(header)
	if params == nil {
		return ""
	}
	ext := strings.ToLower(filepath.Ext(params["filename"]))
	switch ext {
	case ".tds", ".tdsx", ".hyper", ".tde":
		return ext
	}
	return ""
}

func sniffExtension(head []byte) string {
	for m := mimetype.Detect(head); m != nil; m = m.Parent() {
		if m.Is("application/zip") {
			return ".tdsx"
		}
	}
	return ".tds"
}
