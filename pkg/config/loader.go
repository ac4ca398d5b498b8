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

package config

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Format reads and edits one config file syntax.
type Format interface {
	// Name is used in logs
	Name() string
	// CanParse checks if this format handles the given file
	CanParse(filename string) bool
	// Parse flattens the file into canonical keys
	Parse(ctx context.Context, filename string, data []byte) (map[string]string, error)
	// SetProjectID returns data with the destination project id set
	SetProjectID(ctx context.Context, filename string, data []byte, id string) ([]byte, error)
}

// formats is checked in order; env is the fallback.
var formats = []Format{
	&YAMLFormat{},
	&HCLFormat{},
}

// FormatFor returns the format that handles filename.
func FormatFor(filename string) Format {
	for _, f := range formats {
		if f.CanParse(filename) {
			return f
		}
	}
	return &EnvFormat{}
}

// 🎯 Load reads the config file at path, overlays lookup (normally
// os.LookupEnv) and validates the result.
func Load(ctx context.Context, path string, lookup LookupFunc) (*Config, error) {
	logger := zerolog.Ctx(ctx)

	format := FormatFor(path)
	logger.Debug().Str("path", path).Str("format", format.Name()).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	values, err := format.Parse(ctx, path, data)
	if err != nil {
		return nil, errors.Errorf("parsing %s config: %w", format.Name(), err)
	}

	cfg, err := FromValues(ctx, values, lookup)
	if err != nil {
		return nil, errors.Errorf("validating config %s: %w", path, err)
	}
	cfg.location = path
	cfg.format = format

	return cfg, nil
}

// SetProjectID persists id as the destination project in the backing file,
// leaving everything else in the file untouched. It returns a copy of c with
// the new project id; c itself is not modified.
func (c *Config) SetProjectID(ctx context.Context, id string) (*Config, error) {
	if c.location == "" {
		return nil, errors.New("config was not loaded from a file")
	}

	format := c.format
	if format == nil {
		format = FormatFor(c.location)
	}

	info, err := os.Stat(c.location)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	data, err := os.ReadFile(c.location)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	updated, err := format.SetProjectID(ctx, c.location, data, id)
	if err != nil {
		return nil, errors.Errorf("updating %s config: %w", format.Name(), err)
	}

	if err := os.WriteFile(c.location, updated, info.Mode().Perm()); err != nil {
		return nil, errors.Errorf("writing config file: %w", err)
	}

	zerolog.Ctx(ctx).Info().Str("path", c.location).Str("project_id", id).Msg("destination project saved")

	next := *c
	next.ProjectID = id
	return &next, nil
}
