package commands

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/walteh/atlasscale/pkg/config"
	"github.com/walteh/atlasscale/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// 🎛️ rescaleFlags holds the flags that override config values
type rescaleFlags struct {
	widthBefore float64
	widthAfter  float64
	round       bool
	rules       []string

	outputDir string
	suffix    string
	inPlace   bool
	async     bool
}

// addRuleFlags registers the flags that shape the rule set
func (f *rescaleFlags) addRuleFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.widthBefore, "width-before", config.DefaultWidthBefore, "sheet width the atlas was authored for")
	cmd.Flags().Float64Var(&f.widthAfter, "width-after", config.DefaultWidthAfter, "sheet width to scale to")
	cmd.Flags().BoolVar(&f.round, "round", false, "round numbers with three or more fractional digits first")
	// StringArray keeps commas inside patterns intact
	cmd.Flags().StringArrayVar(&f.rules, "rule", nil, "scale rule as name=pattern, repeatable; replaces the configured rules")
}

// addOutputFlags registers the flags that pick where results go
func (f *rescaleFlags) addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.outputDir, "output-dir", "", "write results into this directory instead of stdout")
	cmd.Flags().StringVar(&f.suffix, "suffix", "", "suffix added to output file names in --output-dir")
	cmd.Flags().BoolVar(&f.inPlace, "in-place", false, "overwrite each input with its result")
	cmd.Flags().BoolVar(&f.async, "async", false, "rescale files concurrently")
}

// apply copies every flag the user set onto cfg, takes args as inputs, and
// validates the result
func (f *rescaleFlags) apply(cmd *cobra.Command, cfg *config.Config, args []string) error {
	flags := cmd.Flags()

	if flags.Changed("width-before") {
		cfg.WidthBefore = f.widthBefore
	}
	if flags.Changed("width-after") {
		cfg.WidthAfter = f.widthAfter
	}
	if flags.Changed("round") {
		cfg.RoundFractional = f.round
	}
	if flags.Changed("rule") {
		rules, err := parseRules(f.rules)
		if err != nil {
			return err
		}
		cfg.Rules = rules
	}

	if flags.Lookup("output-dir") != nil {
		if flags.Changed("output-dir") {
			cfg.OutputDir = f.outputDir
		}
		if flags.Changed("suffix") {
			cfg.Suffix = f.suffix
		}
		if flags.Changed("in-place") {
			cfg.InPlace = f.inPlace
		}
		if flags.Changed("async") {
			cfg.Async = f.async
		}
	}

	if len(args) > 0 {
		cfg.Inputs = args
	}
	if len(cfg.Inputs) == 0 {
		cfg.Inputs = []string{operation.StdioPath}
	}

	if err := cfg.Validate(); err != nil {
		return errors.Errorf("validating config: %w", err)
	}
	return nil
}

// parseRules turns name=pattern flag values into rule arguments
func parseRules(values []string) ([]config.RuleArgs, error) {
	rules := make([]config.RuleArgs, 0, len(values))
	for _, v := range values {
		name, pattern, ok := strings.Cut(v, "=")
		if !ok || name == "" || pattern == "" {
			return nil, errors.Errorf("rule %q: expected name=pattern", v)
		}
		rules = append(rules, config.RuleArgs{Name: name, Pattern: pattern})
	}
	return rules, nil
}
