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
	"io"
	"strings"

	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// 🔧 YAMLFormat handles nested YAML config files.
//
//	source:
//	  server: https://tableau.example.com
//	  site: finance
//	  pat_name: migrator
//	  pat_secret: ...
//	destination:
//	  server: https://10ax.online.tableau.com
//	  site: acme
//	  pat_name: migrator
//	  pat_secret: ...
//	  project_id: 2f1c...
//	update_criteria:
//	  type: hours
//	  value: 6
type YAMLFormat struct{}

type yamlProfile struct {
	Server     *string `yaml:"server"`
	Site       *string `yaml:"site"`
	PATName    *string `yaml:"pat_name"`
	PATSecret  *string `yaml:"pat_secret"`
	APIVersion *string `yaml:"api_version"`
	ProjectID  *string `yaml:"project_id"`
}

type yamlFile struct {
	Source         *yamlProfile `yaml:"source"`
	Destination    *yamlProfile `yaml:"destination"`
	UpdateCriteria *struct {
		Type  *string `yaml:"type"`
		Value *string `yaml:"value"`
	} `yaml:"update_criteria"`
	ScratchDir *string `yaml:"scratch_dir"`
}

func (f *YAMLFormat) Name() string { return "yaml" }

func (f *YAMLFormat) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml")
}

func (f *YAMLFormat) Parse(ctx context.Context, filename string, data []byte) (map[string]string, error) {
	var file yamlFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}

	values := map[string]string{}
	set := func(key string, v *string) {
		if v != nil {
			values[key] = *v
		}
	}
	profile := func(prefix string, p *yamlProfile) {
		if p == nil {
			return
		}
		set(prefix+suffixServer, p.Server)
		set(prefix+suffixSite, p.Site)
		set(prefix+suffixPATName, p.PATName)
		set(prefix+suffixPATSecret, p.PATSecret)
		set(prefix+suffixAPIVersion, p.APIVersion)
	}

	profile(SourcePrefix, file.Source)
	profile(DestinationPrefix, file.Destination)
	if file.Destination != nil {
		set(KeyProjectID, file.Destination.ProjectID)
	}
	if file.UpdateCriteria != nil {
		set(KeyCriteriaType, file.UpdateCriteria.Type)
		set(KeyCriteriaValue, file.UpdateCriteria.Value)
	}
	set(KeyScratchDir, file.ScratchDir)

	return values, nil
}

// SetProjectID edits destination.project_id on the node tree so comments and
// key order survive.
func (f *YAMLFormat) SetProjectID(ctx context.Context, filename string, data []byte, id string) ([]byte, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}

	if doc.Kind == 0 {
		doc = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, errors.New("top level of YAML config must be a mapping")
	}

	dest := mappingValue(doc.Content[0], "destination", yaml.MappingNode)
	if dest.Kind != yaml.MappingNode {
		return nil, errors.New("destination must be a mapping")
	}
	project := mappingValue(dest, "project_id", yaml.ScalarNode)
	project.Kind = yaml.ScalarNode
	project.Tag = "!!str"
	project.Value = id
	if project.Style == 0 {
		project.Style = yaml.DoubleQuotedStyle
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, errors.Errorf("encoding YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Errorf("encoding YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// mappingValue returns the value node for key in m, appending an empty node of
// kind when the key is absent.
func mappingValue(m *yaml.Node, key string, kind yaml.Kind) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	k := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
	v := &yaml.Node{Kind: kind}
	if kind == yaml.MappingNode {
		v.Tag = "!!map"
	}
	m.Content = append(m.Content, k, v)
	return v
}
