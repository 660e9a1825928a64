package main

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/atlasscale/cmd/atlasscale/commands"
	"github.com/walteh/atlasscale/cmd/atlasscale/opts"
	"github.com/walteh/atlasscale/pkg/log"
)

// newRootCmd builds the command tree around shared options
func newRootCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "atlasscale",
		Short: "Rescale the coordinates in sprite-atlas JSON files",
		Long: `atlasscale rewrites the numbers inside sprite-atlas JSON so the atlas matches
a resized sheet image. It rounds fractional numbers and scales the numbers
captured by regex rules, leaving every other byte of the file untouched.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := setupLogging(cmd.Context(), o.Debug)
			cmd.SetContext(ctx)
			o.Logger = log.NewWithZerolog(cmd.ErrOrStderr(), *zerolog.Ctx(ctx))
			return nil
		},
	}

	addRootFlags(cmd, o)

	cmd.AddCommand(
		commands.NewScaleCmd(o),
		commands.NewRoundCmd(o),
		commands.NewRulesCmd(o),
		commands.NewVersionCmd(),
	)

	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", "", "config file path (.yaml, .yml, .json or .hcl)")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
}

// setupLogging sets the level of the context logger based on flags
func setupLogging(ctx context.Context, debug bool) context.Context {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.Ctx(ctx).Level(level)
	return logger.WithContext(ctx)
}
