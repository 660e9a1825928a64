package commands

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/atlasscale/pkg/config"
	"github.com/walteh/atlasscale/pkg/operation"
)

func TestParseRules(t *testing.T) {
	tests := []struct {
		name        string
		values      []string
		want        []config.RuleArgs
		errContains string
	}{
		{
			name:   "pattern_with_equals_and_commas",
			values: []string{`anchor="ax":(\d+),"ay":(\d+)`, `pivot=p=(\d+)`},
			want: []config.RuleArgs{
				{Name: "anchor", Pattern: `"ax":(\d+),"ay":(\d+)`},
				{Name: "pivot", Pattern: `p=(\d+)`},
			},
		},
		{name: "missing_equals", values: []string{"anchor"}, errContains: "expected name=pattern"},
		{name: "empty_name", values: []string{`=(\d+)`}, errContains: "expected name=pattern"},
		{name: "empty_pattern", values: []string{"anchor="}, errContains: "expected name=pattern"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseRules(tt.values)
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRescaleFlagsApply(t *testing.T) {
	newCmd := func(f *rescaleFlags) *cobra.Command {
		cmd := &cobra.Command{Use: "test"}
		f.addRuleFlags(cmd)
		f.addOutputFlags(cmd)
		return cmd
	}

	t.Run("unset_flags_keep_config", func(t *testing.T) {
		f := &rescaleFlags{}
		cmd := newCmd(f)
		require.NoError(t, cmd.ParseFlags(nil))

		cfg := config.Default()
		cfg.WidthAfter = 1024
		cfg.Suffix = "-1024"
		require.NoError(t, f.apply(cmd, cfg, nil))

		assert.Equal(t, float64(1024), cfg.WidthAfter)
		assert.Equal(t, "-1024", cfg.Suffix)
		assert.Equal(t, config.DefaultRules(), cfg.Rules)
		assert.Equal(t, []string{operation.StdioPath}, cfg.Inputs)
	})

	t.Run("flags_override_config", func(t *testing.T) {
		f := &rescaleFlags{}
		cmd := newCmd(f)
		require.NoError(t, cmd.ParseFlags([]string{
			"--width-before", "1000",
			"--width-after", "500",
			"--round",
			"--rule", `size={"w":(\d+),"h":(\d+)}`,
			"--output-dir", "out/",
			"--suffix", "-half",
			"--async",
		}))

		cfg := config.Default()
		cfg.Inputs = []string{"from-config.json"}
		require.NoError(t, f.apply(cmd, cfg, []string{"a.json", "b.json"}))

		assert.Equal(t, 0.5, cfg.ScaleFactor())
		assert.True(t, cfg.RoundFractional)
		assert.Equal(t, []config.RuleArgs{{Name: "size", Pattern: config.SizePattern}}, cfg.Rules)
		assert.Equal(t, "out", cfg.OutputDir)
		assert.Equal(t, "-half", cfg.Suffix)
		assert.True(t, cfg.Async)
		assert.Equal(t, []string{"a.json", "b.json"}, cfg.Inputs)
	})
}
