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
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"gitlab.com/tozd/go/errors"
)

// 🔧 EnvFormat handles KEY=value environment files such as properties.env.
type EnvFormat struct{}

func (f *EnvFormat) Name() string { return "env" }

func (f *EnvFormat) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".env")
}

func (f *EnvFormat) Parse(ctx context.Context, filename string, data []byte) (map[string]string, error) {
	values, err := godotenv.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Errorf("parsing env file: %w", err)
	}
	return values, nil
}

// SetProjectID rewrites the first project id assignment in place, or appends
// one. Every other line is kept byte for byte.
func (f *EnvFormat) SetProjectID(ctx context.Context, filename string, data []byte, id string) ([]byte, error) {
	assignment := fmt.Sprintf("%s='%s'", KeyProjectID, id)

	lines := strings.SplitAfter(string(data), "\n")
	for i, line := range lines {
		if !isAssignmentOf(line, KeyProjectID) {
			continue
		}
		ending := ""
		if strings.HasSuffix(line, "\r\n") {
			ending = "\r\n"
		} else if strings.HasSuffix(line, "\n") {
			ending = "\n"
		}
		lines[i] = assignment + ending
		return []byte(strings.Join(lines, "")), nil
	}

	var buf bytes.Buffer
	buf.Write(data)
	if len(data) > 0 && !bytes.HasSuffix(data, []byte("\n")) {
		buf.WriteString("\n")
	}
	buf.WriteString(assignment + "\n")
	return buf.Bytes(), nil
}

func isAssignmentOf(line, key string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	trimmed = strings.TrimPrefix(trimmed, "export ")
	rest, ok := strings.CutPrefix(trimmed, key)
	if !ok {
		return false
	}
	rest = strings.TrimLeft(rest, " \t")
	return strings.HasPrefix(rest, "=")
}
