package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/atlasscale/cmd/atlasscale/opts"
	"github.com/walteh/atlasscale/pkg/config"
	"github.com/walteh/atlasscale/pkg/operation"
	"github.com/walteh/atlasscale/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// runRescale runs one RescaleOperation over cfg. A nil rules slice uses the
// rules compiled from cfg.
func runRescale(cmd *cobra.Command, o *opts.RootOpts, cfg *config.Config, rules []text.Rule) error {
	ctx := cmd.Context()
	logger := zerolog.Ctx(ctx)

	op, err := operation.NewRescaleOperation(operation.Options{
		Config:     cfg,
		Rules:      rules,
		Logger:     o.Logger,
		UserLogger: o.UserLogger,
		Stdin:      cmd.InOrStdin(),
		Stdout:     cmd.OutOrStdout(),
	})
	if err != nil {
		return errors.Errorf("creating rescale operation: %w", err)
	}

	// async returns as soon as ctx is cancelled; files already renamed into place stay whole
	if err := operation.NewRunner(logger, cfg.Async).Run(ctx, op); err != nil {
		return errors.Errorf("running rescale operation: %w", err)
	}

	summary := op.Summary()
	logger.Debug().Int("files", summary.Files).Int("modified", summary.Modified).Int("replacements", summary.Replacements).Msg("rescale complete")
	if o.UserLogger != nil {
		o.UserLogger.LogValidation(true, fmt.Sprintf("Done: %s", summary), nil)
	}
	return nil
}
