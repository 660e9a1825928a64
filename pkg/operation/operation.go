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

package operation

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/walteh/atlasscale/pkg/config"
	"github.com/walteh/atlasscale/pkg/log"
	"github.com/walteh/atlasscale/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// StdioPath stands for stdin as an input and stdout as an output
const StdioPath = "-"

// 🎯 Operation is a unit of work run by an OperationRunner
type Operation interface {
	Execute(ctx context.Context) error
}

// 🔧 Options contains configuration for operations
type Options struct {
	// Config holds widths, rules, inputs and output settings
	Config *config.Config

	// Rules overrides the rules compiled from Config when set
	Rules []text.Rule

	// Rewriter applies the rules. Defaults to text.NewRegexRewriter().
	Rewriter text.TextRewriter

	// Logger receives per-atlas console output. Defaults to a silent logger.
	Logger *log.Logger

	// UserLogger, when set, reports one line per atlas
	UserLogger *log.UserLogger

	// Stdin is read for the "-" input. Defaults to os.Stdin.
	Stdin io.Reader

	// Stdout receives results when no output_dir is set. Defaults to os.Stdout.
	Stdout io.Writer
}

// withDefaults validates the options and fills in unset fields
func (o Options) withDefaults() (Options, error) {
	if o.Config == nil {
		return o, errors.Errorf("config is required")
	}
	if o.Rewriter == nil {
		o.Rewriter = text.NewRegexRewriter()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithZerolog(io.Discard, zerolog.Nop())
	}
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	return o, nil
}
