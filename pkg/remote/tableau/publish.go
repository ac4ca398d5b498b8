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
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/walteh/tabmigrate/pkg/remote"
	"gitlab.com/tozd/go/errors"
)

// PublishDataSource uploads a data source file into a project. Files above the
// chunk threshold go through an upload session.
func (s *Session) PublishDataSource(ctx context.Context, req remote.PublishRequest) (*remote.DataSource, error) {
	logger := zerolog.Ctx(ctx)

	info, err := os.Stat(req.FilePath)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", req.FilePath, err)
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(req.FilePath), "."))
	if ext == "" {
		return nil, errors.Errorf("publishing %s: file has no extension", req.FilePath)
	}

	payload, err := xml.Marshal(tsRequest{
		Datasource: &xmlDatasource{
			Name:    req.Name,
			Project: &xmlRef{ID: req.ProjectID},
		},
	})
	if err != nil {
		return nil, errors.Errorf("encoding publish request: %w", err)
	}

	query := url.Values{}
	query.Set("overwrite", boolString(req.Overwrite))

	var resp *tsResponse
	if info.Size() > s.conn.chunkThreshold {
		logger.Debug().
			Str("file", req.FilePath).
			Str("size", humanize.Bytes(uint64(info.Size()))).
			Msg("publishing in chunks")

		uploadID, err := s.uploadChunks(ctx, req.FilePath)
		if err != nil {
			return nil, errors.Errorf("publishing %s: %w", req.Name, err)
		}
		query.Set("uploadSessionId", uploadID)
		query.Set("datasourceType", ext)

		resp, err = s.postMultipart(ctx, s.sitePath("/datasources"), query, payload, nil)
		if err != nil {
			return nil, errors.Errorf("publishing %s: %w", req.Name, err)
		}
	} else {
		f, err := os.Open(req.FilePath)
		if err != nil {
			return nil, errors.Errorf("opening %s: %w", req.FilePath, err)
		}
		defer f.Close()

		resp, err = s.postMultipart(ctx, s.sitePath("/datasources"), query, payload, &filePart{
			field: "tableau_datasource",
			name:  filepath.Base(req.FilePath),
			body:  f,
		})
		if err != nil {
			return nil, errors.Errorf("publishing %s: %w", req.Name, err)
		}
	}

	if resp.Datasource == nil {
		return nil, errors.Errorf("publishing %s: response carried no data source", req.Name)
	}
	ds := resp.Datasource.toRemote()
	return &ds, nil
}

// uploadChunks opens an upload session and appends the file to it.
func (s *Session) uploadChunks(ctx context.Context, path string) (string, error) {
	var init tsResponse
	if err := s.doXML(ctx, http.MethodPost, s.sitePath("/fileUploads"), nil, nil, &init); err != nil {
		return "", errors.Errorf("starting upload session: %w", err)
	}
	if init.FileUpload == nil || init.FileUpload.UploadSessionID == "" {
		return "", errors.Errorf("starting upload session: response carried no session id")
	}
	uploadID := init.FileUpload.UploadSessionID

	f, err := os.Open(path)
	if err != nil {
		return "", errors.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	payload := []byte(`<tsRequest />`)
	buf := make([]byte, s.conn.chunkSize)
	for chunk := 1; ; chunk++ {
		n, err := io.ReadFull(f, buf)
		if n > 0 {
			_, perr := s.putMultipart(ctx, s.sitePath("/fileUploads/{}", uploadID), payload, &filePart{
				field: "tableau_file",
				name:  "file",
				body:  bytes.NewReader(buf[:n]),
			})
			if perr != nil {
				return "", errors.Errorf("appending chunk %d: %w", chunk, perr)
			}
		}
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return uploadID, nil
		}
		if err != nil {
			return "", errors.Errorf("reading %s: %w", path, err)
		}
	}
}

type filePart struct {
	field string
	name  string
	body  io.Reader
}

func (s *Session) postMultipart(ctx context.Context, path string, query url.Values, payload []byte, file *filePart) (*tsResponse, error) {
	return s.sendMultipart(ctx, http.MethodPost, path, query, payload, file)
}

func (s *Session) putMultipart(ctx context.Context, path string, payload []byte, file *filePart) (*tsResponse, error) {
	return s.sendMultipart(ctx, http.MethodPut, path, nil, payload, file)
}

// sendMultipart builds the multipart/mixed body the publish endpoints expect:
// an XML request_payload part followed by an optional file part.
func (s *Session) sendMultipart(ctx context.Context, method, path string, query url.Values, payload []byte, file *filePart) (*tsResponse, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeParts(mw, payload, file))
	}()

	resp, err := s.do(ctx, method, path, query, pr, "multipart/mixed; boundary="+mw.Boundary())
	if err != nil {
		_ = pr.CloseWithError(err)
		return nil, err
	}
	defer resp.Body.Close()

	var out tsResponse
	if err := decodeResponse(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func writeParts(mw *multipart.Writer, payload []byte, file *filePart) error {
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `name="request_payload"`)
	h.Set("Content-Type", "text/xml")
	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := part.Write(payload); err != nil {
		return err
	}

	if file != nil {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `name="`+file.field+`"; filename="`+escapeQuotes(file.name)+`"`)
		h.Set("Content-Type", "application/octet-stream")
		part, err := mw.CreatePart(h)
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, file.body); err != nil {
			return err
		}
	}

	return mw.Close()
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
