package text

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

const (
	framePattern = `"x":(\d+),"y":(\d+),"w":(\d+),"h":(\d+)`
	sizePattern  = `{"w":(\d+),"h":(\d+)}`
)

func atlasRules(t *testing.T, factor float64) []Rule {
	t.Helper()
	frame, err := ScaleRule("frame", framePattern, factor)
	require.NoError(t, err)
	size, err := ScaleRule("size", sizePattern, factor)
	require.NoError(t, err)
	return []Rule{frame, size}
}

func readTestdata(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err, "reading %s", name)
	return string(data)
}

func TestRegexRewriter_Rewrite(t *testing.T) {
	tests := []struct {
		name         string
		content      string
		rules        func(t *testing.T) []Rule
		want         string
		wantCount    int
		wantRules    []RuleResult
		wantModified bool
	}{
		{
			name:    "frame_then_size",
			content: `{"frame":{"x":1207,"y":819,"w":1206,"h":818},"sourceSize":{"w":1206,"h":818}}`,
			rules: func(t *testing.T) []Rule {
				return atlasRules(t, 800.0/2413.0)
			},
			want:         `{"frame":{"x":400,"y":272,"w":400,"h":271},"sourceSize":{"w":400,"h":271}}`,
			wantCount:    6,
			wantRules:    []RuleResult{{Name: "frame", Matches: 4}, {Name: "size", Matches: 2}},
			wantModified: true,
		},
		{
			name:    "round_then_scale",
			content: `{"w":100.4999,"h":50.5001}`,
			rules: func(t *testing.T) []Rule {
				size, err := ScaleRule("size", sizePattern, 2)
				require.NoError(t, err)
				return []Rule{RoundRule(), size}
			},
			want:         `{"w":200,"h":102}`,
			wantCount:    4,
			wantRules:    []RuleResult{{Name: "round", Matches: 2}, {Name: "size", Matches: 2}},
			wantModified: true,
		},
		{
			name:    "no_match",
			content: `{"meta":{"scale":1}}`,
			rules: func(t *testing.T) []Rule {
				return atlasRules(t, 0.5)
			},
			want:         `{"meta":{"scale":1}}`,
			wantRules:    []RuleResult{{Name: "frame"}, {Name: "size"}},
			wantModified: false,
		},
		{
			name:    "factor_one_counts_but_does_not_modify",
			content: `{"w":3,"h":4}`,
			rules: func(t *testing.T) []Rule {
				return atlasRules(t, 1)
			},
			want:         `{"w":3,"h":4}`,
			wantCount:    2,
			wantRules:    []RuleResult{{Name: "frame"}, {Name: "size", Matches: 2}},
			wantModified: false,
		},
		{
			name:    "empty_rules",
			content: `{"w":3,"h":4}`,
			rules: func(t *testing.T) []Rule {
				return nil
			},
			want: `{"w":3,"h":4}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rewriter := NewRegexRewriter()
			result, err := rewriter.Rewrite(context.Background(), strings.NewReader(tt.content), tt.rules(t))
			require.NoError(t, err)
			require.NotNil(t, result)

			assert.Equal(t, tt.content, string(result.OriginalContent))
			assert.Equal(t, tt.want, string(result.ModifiedContent))
			assert.Equal(t, tt.wantCount, result.ReplacementCount)
			assert.Equal(t, tt.wantModified, result.WasModified)
			assert.Equal(t, tt.wantRules, result.Rules)
		})
	}
}

func TestRegexRewriter_ReferenceAtlas(t *testing.T) {
	input := readTestdata(t, "ss-dragon.json")
	want := readTestdata(t, "ss-dragon-800.json")

	result, err := NewRegexRewriter().Rewrite(context.Background(), strings.NewReader(input), atlasRules(t, 800.0/2413.0))
	require.NoError(t, err)

	assert.Equal(t, want, string(result.ModifiedContent))
	assert.Equal(t, []RuleResult{{Name: "frame", Matches: 64}, {Name: "size", Matches: 18}}, result.Rules)
	assert.Equal(t, 82, result.ReplacementCount)
	assert.True(t, result.WasModified)
	assert.Contains(t, want, `"size":{"w":800,"h":1086}`)
}

func TestRegexRewriter_AbortsOnFormatError(t *testing.T) {
	bad := NewScaleRule("bad", regexp.MustCompile(`"w":(\w+)`), 2)
	size, err := ScaleRule("size", sizePattern, 2)
	require.NoError(t, err)

	result, err := NewRegexRewriter().Rewrite(context.Background(), strings.NewReader(`{"w":10,"h":20} "w":oops`), []Rule{size, bad})
	require.Error(t, err)
	assert.Nil(t, result, "no partial output on failure")
	assert.Contains(t, err.Error(), `applying rule "bad"`)

	var ferr *FormatError
	require.True(t, errors.As(err, &ferr))
	assert.Equal(t, "oops", ferr.Text)
	assert.Equal(t, "bad", ferr.Rule)
}

func TestRegexRewriter_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := NewRegexRewriter().Rewrite(ctx, strings.NewReader(`{"w":1,"h":1}`), atlasRules(t, 2))
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRegexRewriter_ValidateRules(t *testing.T) {
	tests := []struct {
		name      string
		rules     []Rule
		wantError string
	}{
		{
			name:  "valid_rules",
			rules: []Rule{RoundRule(), NewScaleRule("size", regexp.MustCompile(sizePattern), 2)},
		},
		{
			name:      "missing_name",
			rules:     []Rule{{Pattern: regexp.MustCompile(`\d+`), Transform: RoundTransform}},
			wantError: "name is required",
		},
		{
			name:      "missing_pattern",
			rules:     []Rule{{Name: "x", Transform: RoundTransform}},
			wantError: "pattern is required",
		},
		{
			name:      "missing_transform",
			rules:     []Rule{{Name: "x", Pattern: regexp.MustCompile(`\d+`)}},
			wantError: "transform is required",
		},
		{
			name:      "group_rule_without_groups",
			rules:     []Rule{NewScaleRule("flat", regexp.MustCompile(`"w":\d+`), 2)},
			wantError: "pattern has no capturing groups",
		},
		{
			name:  "empty_rules",
			rules: []Rule{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewRegexRewriter().ValidateRules(tt.rules)

			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}

			require.NoError(t, err)
		})
	}
}
