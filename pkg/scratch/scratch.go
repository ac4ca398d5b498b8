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

// Package scratch manages the local directory downloads are staged in.
package scratch

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// ErrNotFound is returned by Locate when nothing matches the prefix.
var ErrNotFound = errors.Base("no file matches prefix")

const timestampLayout = "2006-01-02_15-04-05.000000000"

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

var globMeta = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `{`, `\{`, `}`, `\}`, `,`, `\,`)

// escapeMeta quotes the doublestar metacharacters in s so it matches literally.
func escapeMeta(s string) string {
	return globMeta.Replace(s)
}

// Dir is a scratch directory.
type Dir struct {
	path string
}

func New(path string) *Dir {
	return &Dir{path: path}
}

func (d *Dir) Path() string {
	return d.path
}

// Ensure creates the directory if it does not exist.
func (d *Dir) Ensure() error {
	if err := os.MkdirAll(d.path, 0o755); err != nil {
		return errors.Errorf("creating scratch directory %s: %w", d.path, err)
	}
	return nil
}

// Prefix returns the path prefix a download of name started at now is
// written under. The server appends the extension.
func (d *Dir) Prefix(name string, now time.Time) string {
	safe := strings.Trim(unsafeChars.ReplaceAllString(name, "_"), "_.")
	if safe == "" {
		safe = "datasource"
	}
	return filepath.Join(d.path, safe+"_"+now.UTC().Format(timestampLayout))
}

// Locate returns the regular file whose path starts with prefix. When several
// match, the lexically first is returned.
func (d *Dir) Locate(prefix string) (string, error) {
	dir, base := filepath.Split(prefix)
	if dir == "" {
		dir = "."
	}

	matches, err := doublestar.Glob(os.DirFS(dir), escapeMeta(base)+"*", doublestar.WithFilesOnly())
	if err != nil {
		return "", errors.Errorf("scanning %s: %w", dir, err)
	}
	if len(matches) == 0 {
		return "", errors.Errorf("%w: %s", ErrNotFound, prefix)
	}

	sort.Strings(matches)
	return filepath.Join(dir, matches[0]), nil
}

// Remove deletes path. A missing file is not an error.
func (d *Dir) Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Errorf("removing %s: %w", path, err)
	}
	return nil
}
