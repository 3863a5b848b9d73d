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

// Package runner executes the asset table: every task is resolved, planned, transferred and
// recorded in order, and no single failure stops the run.
package runner

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/walteh/assetrc/pkg/asset"
	"gitlab.com/tozd/go/errors"
)

// 📼 Recorder receives the run boundary and every outcome, in completion order
type Recorder interface {
	RecordRunStart(ctx context.Context, runID string) error
	Record(ctx context.Context, out asset.Outcome) error
}

// 🔍 Resolver expands a source spec into existing paths
type Resolver interface {
	Resolve(ctx context.Context, spec string) ([]string, error)
}

// 🗺️ Planner maps a destination spec and a concrete source to a final path
type Planner interface {
	Plan(ctx context.Context, spec, source string) (string, error)
}

// 🚚 Executor carries out one transfer
type Executor interface {
	Transfer(ctx context.Context, task asset.Task, source, destination string) (asset.Outcome, error)
}

// 🔧 Options wires the collaborators of a Runner
type Options struct {
	Resolver  Resolver
	Planner   Planner
	Executor  Executor
	Recorders []Recorder
	// NewRunID overrides run id generation; defaults to a random UUID
	NewRunID func() string
}

// 🏃 Runner executes task tables
type Runner struct {
	resolver  Resolver
	planner   Planner
	executor  Executor
	recorders []Recorder
	newRunID  func() string
}

// 🏭 New creates a runner with the given options
func New(opts Options) (*Runner, error) {
	if opts.Resolver == nil {
		return nil, errors.Errorf("resolver is required")
	}
	if opts.Planner == nil {
		return nil, errors.Errorf("planner is required")
	}
	if opts.Executor == nil {
		return nil, errors.Errorf("executor is required")
	}
	newRunID := opts.NewRunID
	if newRunID == nil {
		newRunID = func() string { return uuid.NewString() }
	}
	return &Runner{
		resolver:  opts.Resolver,
		planner:   opts.Planner,
		executor:  opts.Executor,
		recorders: opts.Recorders,
		newRunID:  newRunID,
	}, nil
}

// 📊 Summary counts what a run did. It is informational; a run with failures still completes.
type Summary struct {
	RunID     string
	Succeeded int
	Failed    int
	NotFound  int
	Outcomes  []asset.Outcome
}

// 🏃 Run executes tasks in table order. It returns early only when ctx is cancelled between
// transfers.
func (r *Runner) Run(ctx context.Context, tasks []asset.Task) (*Summary, error) {
	sum := &Summary{RunID: r.newRunID()}
	ctx = zerolog.Ctx(ctx).With().Str("run_id", sum.RunID).Logger().WithContext(ctx)
	logger := zerolog.Ctx(ctx)

	for _, rec := range r.recorders {
		if err := rec.RecordRunStart(ctx, sum.RunID); err != nil {
			logger.Error().Err(err).Msg("recording run start")
		}
	}

	for _, task := range tasks {
		if err := ctx.Err(); err != nil {
			return sum, errors.Errorf("run interrupted: %w", err)
		}
		r.runTask(ctx, task, func(out asset.Outcome) {
			r.record(ctx, sum, out)
		})
	}

	logger.Debug().
		Int("succeeded", sum.Succeeded).
		Int("failed", sum.Failed).
		Int("not_found", sum.NotFound).
		Msg("run complete")
	return sum, nil
}

// runTask emits one outcome per resolved source as each finishes, or a single failure outcome
// when nothing could be resolved.
func (r *Runner) runTask(ctx context.Context, task asset.Task, emit func(asset.Outcome)) {
	logger := zerolog.Ctx(ctx).With().Str("task", task.Name).Logger()

	failed := func(source, destination string, err error) asset.Outcome {
		return asset.Outcome{
			Task:        task,
			Action:      asset.ActionError,
			Source:      source,
			Destination: destination,
			Err:         err,
		}
	}

	sources, err := r.resolver.Resolve(ctx, task.Source)
	if err != nil {
		emit(failed(task.Source, task.Destination, errors.Errorf("resolving source: %w", err)))
		return
	}
	if len(sources) == 0 {
		logger.Debug().Str("source", task.Source).Msg("nothing matched")
		emit(failed(task.Source, task.Destination, asset.NotFoundError(task.Source)))
		return
	}

	for _, src := range sources {
		final, err := r.planner.Plan(ctx, task.Destination, src)
		if err != nil {
			emit(failed(src, task.Destination, err))
			continue
		}

		out, err := r.executor.Transfer(ctx, task, src, final)
		if err != nil {
			logger.Debug().Err(err).Str("source", src).Msg("transfer failed")
		}
		emit(out)
	}
}

func (r *Runner) record(ctx context.Context, sum *Summary, out asset.Outcome) {
	switch {
	case out.NotFound():
		sum.NotFound++
	case out.Failed():
		sum.Failed++
	default:
		sum.Succeeded++
	}
	sum.Outcomes = append(sum.Outcomes, out)

	for _, rec := range r.recorders {
		if err := rec.Record(ctx, out); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Str("task", out.Task.Name).Msg("recording outcome")
		}
	}
}
