package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/atlasscale/cmd/atlasscale/opts"
	"github.com/walteh/atlasscale/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// NewRoundCmd creates the round command
func NewRoundCmd(o *opts.RootOpts) *cobra.Command {
	flags := &rescaleFlags{}

	cmd := &cobra.Command{
		Use:   "round [inputs...]",
		Short: "Round numbers with three or more fractional digits",
		Long: `Round replaces every number with three or more fractional digits by its
nearest integer. Numbers with fewer fractional digits are left alone, so
running it twice changes nothing. No scaling is applied.`,
		Example: `  atlasscale round atlas.json
  cat atlas.json | atlasscale round > atlas-rounded.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "round").Logger().WithContext(cmd.Context())
			cmd.SetContext(ctx)

			cfg, err := o.LoadConfig(ctx)
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, cfg, args); err != nil {
				return err
			}

			if err := runRescale(cmd, o, cfg, []text.Rule{text.RoundRule()}); err != nil {
				return errors.Errorf("rounding: %w", err)
			}
			return nil
		},
	}

	flags.addOutputFlags(cmd)

	return cmd
}
