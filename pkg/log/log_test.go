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

package log

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestLogger(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "log_atlas_operation",
			op: func(t *testing.T, logger *Logger) {
				logger.LogAtlasOperation(context.Background(), AtlasOperation{
					Input:  "ss-dragon.json",
					Output: "out/ss-dragon-800.json",
					Factor: 800.0 / 2413.0,
					Rules: []RuleOperation{
						{Rule: "frame", Matches: 64, Status: "scaled"},
						{Rule: "size", Matches: 0, Status: "no match"},
					},
				})
			},
			wantLogs: []string{
				"[scaling ss-dragon.json]",
				"◆ out/ss-dragon-800.json • x0.33154",
				"⟳ frame                64 spans     scaled",
				"• size                 0 spans      no match",
			},
		},
		{
			name: "log_failed_rule",
			op: func(t *testing.T, logger *Logger) {
				logger.LogAtlasOperation(context.Background(), AtlasOperation{
					Input:  "-",
					Output: "-",
					Factor: 0.5,
					Rules:  []RuleOperation{{Rule: "bad", Status: "format error", Failed: true}},
				})
			},
			wantLogs: []string{
				"[scaling -]",
				"◆ - • x0.50000",
				"✗ bad                  0 spans      format error",
			},
		},
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("info message")
				logger.Warning("warning message")
				logger.Error("error message")
				logger.Success("success message")
			},
			wantLogs: []string{
				"ℹ️  info message",
				"⚠️  warning message",
				"❌ error message",
				"✅ success message",
			},
		},
		{
			name: "log_formatted_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Infof("info %s", "test")
				logger.Warningf("warning %s", "test")
				logger.Errorf("error %s", "test")
				logger.Successf("success %d", 3)
			},
			wantLogs: []string{
				"ℹ️  info test",
				"⚠️  warning test",
				"❌ error test",
				"✅ success 3",
			},
		},
		{
			name: "log_header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("scaling atlas files")
			},
			wantLogs: []string{
				"atlasscale • scaling atlas files",
			},
		},
		{
			name: "log_newline",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("first")
				logger.LogNewline()
				logger.Info("second")
			},
			wantLogs: []string{
				"ℹ️  first",
				"",
				"ℹ️  second",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := NewWithZerolog(buf, zerolog.Nop())

			tt.op(t, logger)

			output := strings.TrimSpace(buf.String())
			lines := strings.Split(output, "\n")

			require.Equal(t, len(tt.wantLogs), len(lines), "number of log lines should match")
			for i, want := range tt.wantLogs {
				assert.Equal(t, want, strings.TrimSpace(lines[i]), "log line %d should match", i)
			}
		})
	}
}

func TestLoggerContext(t *testing.T) {
	logger := New(io.Discard, zerolog.InfoLevel)

	ctx := NewContext(context.Background(), logger)

	got := FromContext(ctx)
	assert.Same(t, logger, got, "logger from context should be the same instance")

	assert.Panics(t, func() {
		FromContext(context.Background())
	}, "FromContext should panic when logger is missing")
}

func TestRuleOperationFormatting(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	logger := NewWithZerolog(io.Discard, zerolog.Nop())

	tests := []struct {
		name string
		op   RuleOperation
		want string
	}{
		{
			name: "scaled",
			op:   RuleOperation{Rule: "frame", Matches: 4, Status: "scaled"},
			want: "    ⟳ frame                4 spans      scaled         ",
		},
		{
			name: "no_match",
			op:   RuleOperation{Rule: "size", Status: "no match"},
			want: "    • size                 0 spans      no match       ",
		},
		{
			name: "failed",
			op:   RuleOperation{Rule: "bad", Status: "format error", Failed: true},
			want: "    ✗ bad                  0 spans      format error   ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.formatRuleOperation(tt.op), "formatted output should match")
		})
	}
}

func TestUserLogger(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	// anything reaching pterm's default output escaped the logger's writer
	stray := &bytes.Buffer{}
	pterm.SetDefaultOutput(stray)
	defer pterm.SetDefaultOutput(os.Stdout)

	buf := &bytes.Buffer{}
	zbuf := &bytes.Buffer{}
	ctx := zerolog.New(zbuf).WithContext(context.Background())
	user := NewUserLogger(ctx, buf)

	user.LogAtlasChange(AtlasChange{Type: AtlasScaled, Path: "assets/ss-dragon.json", Replacements: 82})
	user.LogAtlasChange(AtlasChange{Type: AtlasUnchanged, Path: "assets/plain.json"})
	user.LogAtlasChange(AtlasChange{Type: AtlasError, Path: "assets/bad.json", Error: errors.New("boom")})
	user.LogValidation(true, "config ok", nil)
	user.LogValidation(false, "config missing widths", nil)
	user.LogValidation(false, "command failed", errors.New("kaput"))

	out := buf.String()
	assert.Contains(t, out, "Scaled ss-dragon.json (82 spans)")
	assert.Contains(t, out, "Unchanged plain.json")
	assert.Contains(t, out, "Error bad.json")
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, "config ok")
	assert.Contains(t, out, "config missing widths")
	assert.Contains(t, out, "command failed")
	assert.Contains(t, out, "kaput")
	assert.Empty(t, stray.String(), "user lines must only go to the given writer")

	logs := zbuf.String()
	assert.Contains(t, logs, `"message":"Scaled ss-dragon.json (82 spans)"`)
	assert.Contains(t, logs, `"error":"boom"`)
}
