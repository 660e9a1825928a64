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
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/atlasscale/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 📐 Reference scenario: a Leshy SpriteSheet atlas reduced to 800px wide
const (
	DefaultWidthBefore = 2413
	DefaultWidthAfter  = 800

	// FramePattern matches "x","y","w","h" quadruples in frame rectangles
	FramePattern = `"x":(\d+),"y":(\d+),"w":(\d+),"h":(\d+)`

	// SizePattern matches standalone {"w":N,"h":N} size objects
	SizePattern = `{"w":(\d+),"h":(\d+)}`
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser

	// ErrTrailingData is returned when a config file holds more than one document
	ErrTrailingData = errors.Base("trailing data after config")
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// hasExt reports whether filename ends in one of exts, ignoring case
func hasExt(filename string, exts ...string) bool {
	ext := filepath.Ext(strings.TrimSpace(filename))
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// 🔄 RuleArgs names a capturing-group pattern whose groups get scaled
type RuleArgs struct {
	Name    string `json:"name" yaml:"name"`
	Pattern string `json:"pattern" yaml:"pattern"`
}

// 📚 Config represents the complete rescale configuration
type Config struct {
	WidthBefore     float64    `json:"width_before" yaml:"width_before"`
	WidthAfter      float64    `json:"width_after" yaml:"width_after"`
	RoundFractional bool       `json:"round_fractional,omitempty" yaml:"round_fractional,omitempty"`
	Rules           []RuleArgs `json:"rules,omitempty" yaml:"rules,omitempty"`
	Inputs          []string   `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	OutputDir       string     `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`
	Suffix          string     `json:"suffix,omitempty" yaml:"suffix,omitempty"`
	InPlace         bool       `json:"in_place,omitempty" yaml:"in_place,omitempty"`
	Async           bool       `json:"async,omitempty" yaml:"async,omitempty"`
}

// 🏭 DefaultRules returns the frame and size rules of the reference scenario
func DefaultRules() []RuleArgs {
	return []RuleArgs{
		{Name: "frame", Pattern: FramePattern},
		{Name: "size", Pattern: SizePattern},
	}
}

// 🏭 Default returns the reference scenario configuration
func Default() *Config {
	return &Config{
		WidthBefore: DefaultWidthBefore,
		WidthAfter:  DefaultWidthAfter,
		Rules:       DefaultRules(),
	}
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	logger.Debug().Str("config", cfg.String()).Msg("configuration loaded")

	return cfg, nil
}

// 🔍 Validate checks if the configuration is valid and fills in defaults
func (cfg *Config) Validate() error {
	if cfg.WidthBefore <= 0 {
		return errors.Errorf("width_before must be greater than zero")
	}
	if cfg.WidthAfter <= 0 {
		return errors.Errorf("width_after must be greater than zero")
	}
	if err := text.ValidateFactor(cfg.ScaleFactor()); err != nil {
		return errors.Errorf("scale factor: %w", err)
	}

	if len(cfg.Rules) == 0 {
		cfg.Rules = DefaultRules()
	}

	seen := make(map[string]bool, len(cfg.Rules))
	for i, r := range cfg.Rules {
		if r.Name == "" {
			return errors.Errorf("rule %d: name is required", i)
		}
		if r.Pattern == "" {
			return errors.Errorf("rule %d (%s): pattern is required", i, r.Name)
		}
		if r.Name == text.RoundRuleName {
			return errors.Errorf("rule %d: name %q is reserved", i, r.Name)
		}
		if seen[r.Name] {
			return errors.Errorf("rule %d: duplicate name %q", i, r.Name)
		}
		seen[r.Name] = true
	}

	if cfg.InPlace && cfg.OutputDir != "" {
		return errors.Errorf("in_place and output_dir are mutually exclusive")
	}
	if cfg.OutputDir != "" {
		cfg.OutputDir = filepath.Clean(cfg.OutputDir)
	}

	return nil
}

// 📐 ScaleFactor returns width_after / width_before
func (cfg *Config) ScaleFactor() float64 {
	return cfg.WidthAfter / cfg.WidthBefore
}

// 🔧 TextRules compiles the configured rules, in order. The round rule goes
// first when round_fractional is set.
func (cfg *Config) TextRules() ([]text.Rule, error) {
	factor := cfg.ScaleFactor()

	var rules []text.Rule
	if cfg.RoundFractional {
		rules = append(rules, text.RoundRule())
	}
	for _, r := range cfg.Rules {
		rule, err := text.ScaleRule(r.Name, r.Pattern, factor)
		if err != nil {
			return nil, errors.Errorf("building rule %q: %w", r.Name, err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	names := make([]string, 0, len(cfg.Rules)+1)
	if cfg.RoundFractional {
		names = append(names, text.RoundRuleName)
	}
	for _, r := range cfg.Rules {
		names = append(names, r.Name)
	}
	return fmt.Sprintf("%g -> %g (x%.5f) rules=%s", cfg.WidthBefore, cfg.WidthAfter, cfg.ScaleFactor(), strings.Join(names, ","))
}
