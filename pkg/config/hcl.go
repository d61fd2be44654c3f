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
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files. Expressions
// can read the environment through env, e.g. directory = env.FOLDER_FILEPATH.
type HCLParser struct {
	// Environ lists KEY=VALUE pairs exposed as env; os.Environ when nil.
	Environ func() []string
}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".hcl")
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filepath.Base(filename))
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Create evaluation context
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": p.envValue(),
		},
	}

	// Define HCL schema
	type hclConfig struct {
		Directory *string  `hcl:"directory,optional"`
		Targets   []string `hcl:"targets,optional"`
		Amount    *float64 `hcl:"amount,optional"`
		Sideways  *bool    `hcl:"sideways,optional"`
		Ignore    []string `hcl:"ignore,optional"`
		Backup    *bool    `hcl:"backup,optional"`
	}

	// Decode HCL
	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	cfg := &Config{
		Targets: hclCfg.Targets,
		Amount:  hclCfg.Amount,
		Ignore:  hclCfg.Ignore,
	}
	if hclCfg.Directory != nil {
		cfg.Directory = *hclCfg.Directory
	}
	if hclCfg.Sideways != nil {
		cfg.Sideways = *hclCfg.Sideways
	}
	if hclCfg.Backup != nil {
		cfg.Backup = *hclCfg.Backup
	}

	return cfg, nil
}

func (p *HCLParser) envValue() cty.Value {
	environ := p.Environ
	if environ == nil {
		environ = os.Environ
	}
	vars := map[string]cty.Value{}
	for _, kv := range environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		vars[key] = cty.StringVal(value)
	}
	if len(vars) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(vars)
}
