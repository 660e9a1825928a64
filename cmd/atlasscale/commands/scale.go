package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/atlasscale/cmd/atlasscale/opts"
	"gitlab.com/tozd/go/errors"
)

// NewScaleCmd creates the scale command
func NewScaleCmd(o *opts.RootOpts) *cobra.Command {
	flags := &rescaleFlags{}

	cmd := &cobra.Command{
		Use:   "scale [inputs...]",
		Short: "Scale the numbers captured by the rules",
		Long: `Scale multiplies every number captured by a rule's groups by
width-after / width-before and rounds the result. Inputs are paths, doublestar
globs, or "-" for stdin. With no inputs, stdin is read.

It will:
1. Load the config, or the 2413 -> 800 defaults when none is given
2. Apply flag overrides
3. Round fractional numbers when --round is set
4. Scale each rule's captured numbers, in order
5. Write each result to stdout, --output-dir, or back in place`,
		Example: `  atlasscale scale ss-dragon.json > ss-dragon-800.json
  atlasscale scale --width-after 1024 --output-dir out --suffix -1024 'atlases/**/*.json'
  atlasscale scale --rule 'anchor="ax":(\d+),"ay":(\d+)' --in-place atlas.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "scale").Logger().WithContext(cmd.Context())
			cmd.SetContext(ctx)

			cfg, err := o.LoadConfig(ctx)
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, cfg, args); err != nil {
				return err
			}

			if err := runRescale(cmd, o, cfg, nil); err != nil {
				return errors.Errorf("scaling: %w", err)
			}
			return nil
		},
	}

	flags.addRuleFlags(cmd)
	flags.addOutputFlags(cmd)

	return cmd
}
