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

package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/walteh/assetrc/cmd/assetrc/opts"
	"github.com/walteh/assetrc/pkg/audit"
	"github.com/walteh/assetrc/pkg/config"
	"github.com/walteh/assetrc/pkg/log"
	"github.com/walteh/assetrc/pkg/plan"
	"github.com/walteh/assetrc/pkg/resolve"
	"github.com/walteh/assetrc/pkg/runner"
	"github.com/walteh/assetrc/pkg/transfer"
	"gitlab.com/tozd/go/errors"
)

// DefaultLogFile is the audit log name, relative to the project root
const DefaultLogFile = "asset_log.txt"

// AssetsOptions controls one run of the asset table
type AssetsOptions struct {
	TasksFile string
	LogFile   string
	History   bool
}

// DefaultAssetsOptions runs the built-in table and logs to DefaultLogFile
func DefaultAssetsOptions() AssetsOptions {
	return AssetsOptions{LogFile: DefaultLogFile}
}

// NewAssetsCmd creates the assets command
func NewAssetsCmd(root *opts.RootOpts) *cobra.Command {
	ao := DefaultAssetsOptions()

	cmd := &cobra.Command{
		Use:   "assets",
		Short: "Move and copy the site assets into place",
		Long: `Assets runs the asset table against the project root.
Each task is resolved, planned and transferred in order:
1. Expand the source (literal name or glob)
2. Work out the final destination and create its directories
3. Move or copy the file
4. Append the outcome to the audit log

A failing task never stops the run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunAssets(cmd.Context(), root, ao)
		},
	}

	cmd.Flags().StringVar(&ao.TasksFile, "tasks", "", "task table file (.hcl, .yaml, .json) replacing the built-in table")
	cmd.Flags().StringVar(&ao.LogFile, "log", DefaultLogFile, "audit log file, relative to the project root")
	cmd.Flags().BoolVar(&ao.History, "history", false, "print the recorded run from the audit log afterwards")

	return cmd
}

func loadTable(ctx context.Context, tasksFile string) (*config.Config, error) {
	if tasksFile == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(ctx, tasksFile)
	if err != nil {
		return nil, errors.Errorf("loading task table: %w", err)
	}
	return cfg, nil
}

// 🏃 RunAssets executes the asset table. Individual task failures are reported, not returned.
func RunAssets(ctx context.Context, root *opts.RootOpts, ao AssetsOptions) error {
	ui := log.FromContext(ctx)

	cfg, err := loadTable(ctx, ao.TasksFile)
	if err != nil {
		return err
	}
	tasks := cfg.AssetTasks()

	logFile := ao.LogFile
	if logFile == "" {
		logFile = DefaultLogFile
	}
	logPath := root.Path(logFile)
	auditLog, err := audit.Open(logPath)
	if err != nil {
		return errors.Errorf("opening audit log: %w", err)
	}

	r, err := runner.New(runner.Options{
		Resolver:  resolve.New(root.Root),
		Planner:   plan.New(root.Root),
		Executor:  transfer.New(),
		Recorders: []runner.Recorder{ui, auditLog},
	})
	if err != nil {
		return errors.Errorf("creating runner: %w", err)
	}

	ui.Header(fmt.Sprintf("running %d asset tasks in %s", len(tasks), root.Root))

	sum, err := r.Run(ctx, tasks)
	if err != nil {
		return errors.Errorf("running asset table: %w", err)
	}

	ui.LogNewline()
	if sum.Failed == 0 && sum.NotFound == 0 {
		ui.Successf("%d transferred", sum.Succeeded)
	} else {
		ui.Warningf("%d transferred, %d failed, %d not found", sum.Succeeded, sum.Failed, sum.NotFound)
	}
	ui.Infof("audit log: %s", logPath)

	if ao.History {
		printHistory(ui, logPath)
	}
	return nil
}

func printHistory(ui *log.Logger, logPath string) {
	run, ok, err := audit.LastRun(logPath)
	if err != nil {
		ui.Errorf("reading audit log: %v", err)
		return
	}
	if !ok {
		ui.Info("audit log is empty")
		return
	}

	ui.LogNewline()
	if run.Marker != "" {
		ui.Print(run.Marker)
	}
	for _, line := range run.Lines {
		ui.Print(line)
	}
}
