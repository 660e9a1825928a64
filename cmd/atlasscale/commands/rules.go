package commands

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/atlasscale/cmd/atlasscale/opts"
	"gitlab.com/tozd/go/errors"
)

// NewRulesCmd creates the rules command
func NewRulesCmd(o *opts.RootOpts) *cobra.Command {
	flags := &rescaleFlags{}

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Print the effective rules and scale factor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := o.LoadConfig(ctx)
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, cfg, nil); err != nil {
				return err
			}

			rules, err := cfg.TextRules()
			if err != nil {
				return errors.Errorf("compiling rules: %w", err)
			}

			data := pterm.TableData{{"Rule", "Groups", "Pattern"}}
			for _, r := range rules {
				groups := "-"
				if r.Groups {
					groups = strconv.Itoa(r.Pattern.NumSubexp())
				}
				data = append(data, []string{r.Name, groups, r.Pattern.String()})
			}

			table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
			if err != nil {
				return errors.Errorf("rendering rules: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cfg.String())
			fmt.Fprintln(out, table)
			return nil
		},
	}

	flags.addRuleFlags(cmd)

	return cmd
}
