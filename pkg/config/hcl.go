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
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

// 🔧 HCLFormat handles HCL config files.
//
//	source {
//	  server     = "https://tableau.example.com"
//	  site       = "finance"
//	  pat_name   = "migrator"
//	  pat_secret = "..."
//	}
//
//	destination {
//	  ...
//	  project_id = "2f1c..."
//	}
//
//	update_criteria {
//	  type  = "days"
//	  value = 1
//	}
type HCLFormat struct{}

type hclProfile struct {
	Server     *string `hcl:"server,optional"`
	Site       *string `hcl:"site,optional"`
	PATName    *string `hcl:"pat_name,optional"`
	PATSecret  *string `hcl:"pat_secret,optional"`
	APIVersion *string `hcl:"api_version,optional"`
	ProjectID  *string `hcl:"project_id,optional"`
}

type hclCriteria struct {
	Type  *string `hcl:"type,optional"`
	Value *int    `hcl:"value,optional"`
}

type hclFile struct {
	Source         *hclProfile  `hcl:"source,block"`
	Destination    *hclProfile  `hcl:"destination,block"`
	UpdateCriteria *hclCriteria `hcl:"update_criteria,block"`
	ScratchDir     *string      `hcl:"scratch_dir,optional"`
}

func (f *HCLFormat) Name() string { return "hcl" }

func (f *HCLFormat) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

func (f *HCLFormat) Parse(ctx context.Context, filename string, data []byte) (map[string]string, error) {
	parser := hclparse.NewParser()
	parsed, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	var file hclFile
	diags = gohcl.DecodeBody(parsed.Body, evalCtx, &file)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	values := map[string]string{}
	set := func(key string, v *string) {
		if v != nil {
			values[key] = *v
		}
	}
	profile := func(prefix string, p *hclProfile) {
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
	if c := file.UpdateCriteria; c != nil {
		set(KeyCriteriaType, c.Type)
		if c.Value != nil {
			values[KeyCriteriaValue] = strconv.Itoa(*c.Value)
		}
	}
	set(KeyScratchDir, file.ScratchDir)

	return values, nil
}

// SetProjectID sets destination.project_id with hclwrite so the rest of the
// file keeps its formatting.
func (f *HCLFormat) SetProjectID(ctx context.Context, filename string, data []byte, id string) ([]byte, error) {
	file, diags := hclwrite.ParseConfig(data, filename, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	body := file.Body()
	dest := body.FirstMatchingBlock("destination", nil)
	if dest == nil {
		body.AppendNewline()
		dest = body.AppendNewBlock("destination", nil)
	}
	dest.Body().SetAttributeValue("project_id", cty.StringVal(id))

	return file.Bytes(), nil
}
