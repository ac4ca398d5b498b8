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
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ErrConfigMissing is returned when one or more required keys are absent.
var ErrConfigMissing = errors.Base("required configuration missing")

// 🔑 Canonical keys. Every file format is flattened to these.
const (
	SourcePrefix      = "TS"
	DestinationPrefix = "TC"

	KeyProjectID     = DestinationPrefix + "_PROJECT_ID"
	KeyCriteriaType  = "UPDATE_CRITERIA_TYPE"
	KeyCriteriaValue = "UPDATE_CRITERIA_VALUE"
	KeyScratchDir    = "SCRATCH_DIR"

	DefaultScratchDir = "./downloads"
	DefaultConfigFile = "properties.env"
)

const (
	suffixServer     = "_SERVER"
	suffixSite       = "_SITE"
	suffixPATName    = "_PAT_NAME"
	suffixPATSecret  = "_PAT_SECRET"
	suffixAPIVersion = "_API_VERSION"
)

// Unit is the unit of a staleness threshold.
type Unit string

const (
	UnitDays    Unit = "days"
	UnitHours   Unit = "hours"
	UnitMinutes Unit = "minutes"
)

// Duration returns the length of one unit. ok is false for unrecognized units.
func (u Unit) Duration() (d time.Duration, ok bool) {
	switch u {
	case UnitDays:
		return 24 * time.Hour, true
	case UnitHours:
		return time.Hour, true
	case UnitMinutes:
		return time.Minute, true
	default:
		return 0, false
	}
}

// ⏳ Threshold is the recency window used to pick migration candidates.
type Threshold struct {
	Unit      Unit
	Magnitude int
}

// Window returns the threshold as a duration. ok is false when the threshold
// is unusable, in which case nothing should be considered recently updated.
func (t Threshold) Window() (time.Duration, bool) {
	d, ok := t.Unit.Duration()
	if !ok || t.Magnitude <= 0 {
		return 0, false
	}
	return time.Duration(t.Magnitude) * d, true
}

func (t Threshold) String() string {
	return fmt.Sprintf("%d %s", t.Magnitude, t.Unit)
}

// 🔌 Profile holds the connection parameters for one Tableau target.
type Profile struct {
	Server      string
	Site        string
	TokenName   string
	TokenSecret string
	// APIVersion pins the REST API version. Empty means ask the server.
	APIVersion string
}

// String never includes the token secret.
func (p Profile) String() string {
	site := p.Site
	if site == "" {
		site = "(default)"
	}
	return fmt.Sprintf("%s site=%s token=%s", p.Server, site, p.TokenName)
}

// 📚 Config is the validated, immutable run configuration.
type Config struct {
	Source      Profile
	Destination Profile
	ProjectID   string
	Threshold   Threshold
	ScratchDir  string

	location string
	format   Format
}

// Location returns the file the config was loaded from, if any.
func (c *Config) Location() string {
	return c.location
}

// LookupFunc resolves a key from the process environment.
type LookupFunc func(key string) (string, bool)

// FromValues builds a Config from canonical key/value pairs, overlaying lookup
// (which may be nil) on top of them.
func FromValues(ctx context.Context, values map[string]string, lookup LookupFunc) (*Config, error) {
	get := func(key string) (string, bool) {
		if lookup != nil {
			if v, ok := lookup(key); ok {
				return v, true
			}
		}
		v, ok := values[key]
		return v, ok
	}

	var missing []string
	profile := func(prefix string) Profile {
		required := func(suffix string, allowEmpty bool) string {
			v, ok := get(prefix + suffix)
			v = strings.TrimSpace(v)
			if !ok || (v == "" && !allowEmpty) {
				missing = append(missing, prefix+suffix)
			}
			return v
		}
		apiVersion, _ := get(prefix + suffixAPIVersion)
		return Profile{
			Server:      strings.TrimSuffix(required(suffixServer, false), "/"),
			Site:        required(suffixSite, true),
			TokenName:   required(suffixPATName, false),
			TokenSecret: required(suffixPATSecret, false),
			APIVersion:  strings.TrimSpace(apiVersion),
		}
	}

	cfg := &Config{
		Source:      profile(SourcePrefix),
		Destination: profile(DestinationPrefix),
		ScratchDir:  DefaultScratchDir,
	}

	if len(missing) > 0 {
		return nil, errors.Errorf("%w: %s", ErrConfigMissing, strings.Join(missing, ", "))
	}

	if v, ok := get(KeyProjectID); ok {
		cfg.ProjectID = strings.TrimSpace(v)
	}
	if v, ok := get(KeyScratchDir); ok && strings.TrimSpace(v) != "" {
		cfg.ScratchDir = strings.TrimSpace(v)
	}

	cfg.Threshold = parseThreshold(ctx, get)

	return cfg, nil
}

// parseThreshold never fails. An unusable threshold is kept as-is so the
// staleness filter can refuse every record.
func parseThreshold(ctx context.Context, get LookupFunc) Threshold {
	logger := zerolog.Ctx(ctx)

	th := Threshold{Unit: UnitDays, Magnitude: 1}

	if v, ok := get(KeyCriteriaType); ok {
		th.Unit = Unit(strings.ToLower(strings.TrimSpace(v)))
	}

	if v, ok := get(KeyCriteriaValue); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			logger.Warn().Str("key", KeyCriteriaValue).Str("value", v).Msg("update criteria value is not an integer")
			n = 0
		}
		th.Magnitude = n
	}

	if _, ok := th.Window(); !ok {
		logger.Warn().
			Str("unit", string(th.Unit)).
			Int("magnitude", th.Magnitude).
			Msg("update criteria unusable, no data source will be treated as updated")
	}

	return th
}
