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
	"runtime"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🏃 OperationRunner executes operations
type OperationRunner struct {
	logger *zerolog.Logger
	async  bool
	limit  int
}

// 🏗️ NewRunner creates a new runner
func NewRunner(logger *zerolog.Logger, async bool) *OperationRunner {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &OperationRunner{
		logger: logger,
		async:  async,
		limit:  runtime.GOMAXPROCS(0),
	}
}

// 🎚️ WithLimit caps the number of operations RunAll runs at once
func (r *OperationRunner) WithLimit(n int) *OperationRunner {
	r.limit = n
	return r
}

// 🏃 Run executes an operation
func (r *OperationRunner) Run(ctx context.Context, op Operation) error {
	if r.async {
		return r.runAsync(ctx, op)
	}
	return r.runSync(ctx, op)
}

// 🔄 runSync runs an operation synchronously
func (r *OperationRunner) runSync(ctx context.Context, op Operation) error {
	return op.Execute(ctx)
}

// ⚡ runAsync runs an operation asynchronously
func (r *OperationRunner) runAsync(ctx context.Context, op Operation) error {
	var wg sync.WaitGroup
	errCh := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := op.Execute(ctx); err != nil {
			errCh <- errors.Errorf("executing operation: %w", err)
		}
	}()

	// Wait for completion or context cancellation
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return errors.Errorf("operation cancelled: %w", ctx.Err())
	case err := <-errCh:
		return err
	case <-done:
		// the error may land alongside done
		select {
		case err := <-errCh:
			return err
		default:
			return nil
		}
	}
}

// 📦 RunAll executes a batch of operations. Sequential runners stop at the
// first failure. Async runners run up to limit operations at once and cancel
// the rest when one fails.
func (r *OperationRunner) RunAll(ctx context.Context, ops ...Operation) error {
	r.logger.Debug().Int("operations", len(ops)).Bool("async", r.async).Msg("running operations")

	if !r.async {
		for i, op := range ops {
			if err := ctx.Err(); err != nil {
				return errors.Errorf("operation cancelled: %w", err)
			}
			if err := op.Execute(ctx); err != nil {
				return errors.Errorf("executing operation %d: %w", i, err)
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	if r.limit > 0 {
		g.SetLimit(r.limit)
	}
	for i, op := range ops {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return errors.Errorf("operation cancelled: %w", err)
			}
			if err := op.Execute(gctx); err != nil {
				return errors.Errorf("executing operation %d: %w", i, err)
			}
			return nil
		})
	}
	return g.Wait()
}
