package opts

import (
	"context"

	"github.com/walteh/atlasscale/pkg/config"
	"github.com/walteh/atlasscale/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	ConfigFile string
	Debug      bool
	Logger     *log.Logger
	UserLogger *log.UserLogger
}

// LoadConfig loads the config file when one is given, and the reference
// scenario defaults otherwise
func (o *RootOpts) LoadConfig(ctx context.Context) (*config.Config, error) {
	if o.ConfigFile == "" {
		return config.Default(), nil
	}

	cfg, err := config.Load(ctx, o.ConfigFile)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}
	return cfg, nil
}
