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

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
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
	return hasExt(filename, ".hcl")
}

// 🌍 EvalContext exposes the reference patterns and widths to HCL expressions
func EvalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"frame_pattern":        cty.StringVal(FramePattern),
			"size_pattern":         cty.StringVal(SizePattern),
			"default_width_before": cty.NumberIntVal(DefaultWidthBefore),
			"default_width_after":  cty.NumberIntVal(DefaultWidthAfter),
		},
	}
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Define HCL schema
	type hclConfig struct {
		WidthBefore     float64 `hcl:"width_before"`
		WidthAfter      float64 `hcl:"width_after"`
		RoundFractional bool    `hcl:"round_fractional,optional"`
		Rules           []struct {
			Name    string `hcl:"name,label"`
			Pattern string `hcl:"pattern"`
		} `hcl:"rule,block"`
		Inputs    []string `hcl:"inputs,optional"`
		OutputDir string   `hcl:"output_dir,optional"`
		Suffix    string   `hcl:"suffix,optional"`
		InPlace   bool     `hcl:"in_place,optional"`
		Async     bool     `hcl:"async,optional"`
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, EvalContext(), &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	cfg := &Config{
		WidthBefore:     hclCfg.WidthBefore,
		WidthAfter:      hclCfg.WidthAfter,
		RoundFractional: hclCfg.RoundFractional,
		Inputs:          hclCfg.Inputs,
		OutputDir:       hclCfg.OutputDir,
		Suffix:          hclCfg.Suffix,
		InPlace:         hclCfg.InPlace,
		Async:           hclCfg.Async,
	}
	for _, r := range hclCfg.Rules {
		cfg.Rules = append(cfg.Rules, RuleArgs{
			Name:    r.Name,
			Pattern: r.Pattern,
		})
	}

	return cfg, nil
}
