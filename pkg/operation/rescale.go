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

package operation

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/atlasscale/pkg/log"
	"github.com/walteh/atlasscale/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 📊 Summary totals the work done by a RescaleOperation
type Summary struct {
	Files        int
	Modified     int
	Replacements int
}

func (s Summary) String() string {
	return fmt.Sprintf("%d files, %d modified, %d replacements", s.Files, s.Modified, s.Replacements)
}

// 📐 RescaleOperation rewrites every configured input with the configured rules
type RescaleOperation struct {
	opts   Options
	rules  []text.Rule
	factor float64

	mu      sync.Mutex // guards stdout and summary
	summary Summary
}

// 🏭 NewRescaleOperation creates a rescale operation and compiles its rules
func NewRescaleOperation(opts Options) (*RescaleOperation, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	rules := opts.Rules
	if rules == nil {
		compiled, err := opts.Config.TextRules()
		if err != nil {
			return nil, errors.Errorf("compiling rules: %w", err)
		}
		rules = compiled
	}
	if err := opts.Rewriter.ValidateRules(rules); err != nil {
		return nil, errors.Errorf("validating rules: %w", err)
	}

	// rounding on its own leaves sizes alone
	factor := 1.0
	for _, r := range rules {
		if r.Name != text.RoundRuleName {
			factor = opts.Config.ScaleFactor()
			break
		}
	}

	return &RescaleOperation{
		opts:   opts,
		rules:  rules,
		factor: factor,
	}, nil
}

// 🏃 Execute resolves inputs and rewrites each of them
func (op *RescaleOperation) Execute(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	inputs, err := ResolveInputs(op.opts.Config.Inputs)
	if err != nil {
		return errors.Errorf("resolving inputs: %w", err)
	}
	if len(inputs) == 0 {
		return errors.Errorf("no inputs to rescale")
	}

	logger.Debug().Strs("inputs", inputs).Str("config", op.opts.Config.String()).Msg("rescaling atlas files")

	files := make([]Operation, 0, len(inputs))
	writers := make(map[string]string, len(inputs))
	for _, input := range inputs {
		output, err := op.outputPath(input)
		if err != nil {
			return err
		}
		// output_dir flattens inputs, so equal base names collide
		if output != StdioPath {
			if prev, ok := writers[output]; ok {
				return errors.Errorf("inputs %s and %s both write to %s", prev, input, output)
			}
			writers[output] = input
		}
		files = append(files, &fileOperation{parent: op, input: input, output: output})
	}

	return NewRunner(logger, op.opts.Config.Async).RunAll(ctx, files...)
}

// 📊 Summary returns the totals so far
func (op *RescaleOperation) Summary() Summary {
	op.mu.Lock()
	defer op.mu.Unlock()
	return op.summary
}

// 📁 outputPath decides where the result for input goes
func (op *RescaleOperation) outputPath(input string) (string, error) {
	cfg := op.opts.Config
	switch {
	case cfg.InPlace:
		if input == StdioPath {
			return "", errors.Errorf("stdin cannot be rewritten in place")
		}
		return input, nil
	case cfg.OutputDir != "":
		if input == StdioPath {
			return "", errors.Errorf("stdin cannot be written to output_dir")
		}
		base := filepath.Base(input)
		ext := filepath.Ext(base)
		return filepath.Join(cfg.OutputDir, strings.TrimSuffix(base, ext)+cfg.Suffix+ext), nil
	default:
		return StdioPath, nil
	}
}

// 📄 fileOperation rewrites one input
type fileOperation struct {
	parent *RescaleOperation
	input  string
	output string
}

// 🏃 Execute reads, rewrites, logs and writes a single atlas
func (f *fileOperation) Execute(ctx context.Context) error {
	op := f.parent
	logger := zerolog.Ctx(ctx).With().Str("input", f.input).Logger()

	content, err := f.read()
	if err != nil {
		return errors.Errorf("reading %s: %w", f.input, err)
	}

	result, err := op.opts.Rewriter.Rewrite(logger.WithContext(ctx), bytes.NewReader(content), op.rules)
	if err != nil {
		op.logFailure(ctx, f, err)
		op.reportChange(log.AtlasChange{Type: log.AtlasError, Path: f.input, Error: err})
		return errors.Errorf("rescaling %s: %w", f.input, err)
	}

	atlasOp := log.AtlasOperation{
		Input:  f.input,
		Output: f.output,
		Factor: op.factor,
	}
	for _, r := range result.Rules {
		status := "scaled"
		if r.Name == text.RoundRuleName {
			status = "rounded"
		}
		if r.Matches == 0 {
			status = "no match"
		}
		atlasOp.Rules = append(atlasOp.Rules, log.RuleOperation{Rule: r.Name, Matches: r.Matches, Status: status})
	}
	op.opts.Logger.LogAtlasOperation(ctx, atlasOp)

	if err := f.write(result.ModifiedContent); err != nil {
		return errors.Errorf("writing %s: %w", f.output, err)
	}

	op.mu.Lock()
	op.summary.Files++
	op.summary.Replacements += result.ReplacementCount
	if result.WasModified {
		op.summary.Modified++
	}
	op.mu.Unlock()

	change := log.AtlasChange{Type: log.AtlasUnchanged, Path: f.input, Replacements: result.ReplacementCount}
	if result.WasModified {
		change.Type = log.AtlasScaled
	}
	op.reportChange(change)

	logger.Debug().Str("output", f.output).Int("replacements", result.ReplacementCount).Msg("atlas rescaled")
	return nil
}

func (f *fileOperation) read() ([]byte, error) {
	if f.input == StdioPath {
		return io.ReadAll(f.parent.opts.Stdin)
	}
	return os.ReadFile(f.input)
}

func (f *fileOperation) write(content []byte) error {
	if f.output == StdioPath {
		op := f.parent
		op.mu.Lock()
		defer op.mu.Unlock()
		_, err := op.opts.Stdout.Write(content)
		return err
	}
	return writeFileAtomic(f.output, content)
}

// 📝 logFailure reports the rule that aborted a rewrite, when known
func (op *RescaleOperation) logFailure(ctx context.Context, f *fileOperation, err error) {
	atlasOp := log.AtlasOperation{
		Input:  f.input,
		Output: f.output,
		Factor: op.factor,
	}

	var ferr *text.FormatError
	if errors.As(err, &ferr) {
		atlasOp.Rules = append(atlasOp.Rules, log.RuleOperation{Rule: ferr.Rule, Status: "format error", Failed: true})
	}
	op.opts.Logger.LogAtlasOperation(ctx, atlasOp)
}

func (op *RescaleOperation) reportChange(change log.AtlasChange) {
	if op.opts.UserLogger == nil {
		return
	}
	op.mu.Lock()
	defer op.mu.Unlock()
	op.opts.UserLogger.LogAtlasChange(change)
}

// 💾 writeFileAtomic writes content to a temporary file beside path and
// renames it into place
func writeFileAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Errorf("creating output directory: %w", err)
	}

	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Errorf("creating temporary file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return errors.Errorf("writing temporary file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return errors.Errorf("closing temporary file: %w", err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return errors.Errorf("setting file mode: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Errorf("renaming temporary file: %w", err)
	}
	return nil
}

// 🔍 ResolveInputs expands doublestar globs, keeps plain paths and "-" as
// given, and drops duplicates. Glob matches are sorted; a glob that matches
// nothing is an error.
func ResolveInputs(patterns []string) ([]string, error) {
	var inputs []string
	seen := map[string]bool{}

	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			inputs = append(inputs, p)
		}
	}

	for _, pattern := range patterns {
		if pattern == StdioPath || !hasMeta(pattern) {
			add(pattern)
			continue
		}

		if !doublestar.ValidatePathPattern(pattern) {
			return nil, errors.Errorf("invalid glob %q: %w", pattern, doublestar.ErrBadPattern)
		}

		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Errorf("expanding glob %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, errors.Errorf("glob %q matched no files", pattern)
		}

		slices.Sort(matches)
		for _, m := range matches {
			add(m)
		}
	}

	return inputs, nil
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
