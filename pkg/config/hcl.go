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
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/walteh/assetrc/pkg/asset"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".hcl")
}

// 📝 Parse parses the table from HCL. Kinds may be written bare (kind = move).
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "tasks.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			string(asset.KindMove): cty.StringVal(string(asset.KindMove)),
			string(asset.KindCopy): cty.StringVal(string(asset.KindCopy)),
		},
	}

	type hclConfig struct {
		Tasks []struct {
			Name        string `hcl:"name,label"`
			Source      string `hcl:"source"`
			Destination string `hcl:"destination"`
			Kind        string `hcl:"kind,optional"`
		} `hcl:"task,block"`
		Reports []string `hcl:"reports,optional"`
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	cfg := &Config{Reports: hclCfg.Reports}
	for _, t := range hclCfg.Tasks {
		cfg.Tasks = append(cfg.Tasks, TaskDef{
			Name:        t.Name,
			Source:      t.Source,
			Destination: t.Destination,
			Kind:        t.Kind,
		})
	}

	return cfg, nil
}
