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

package main

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/assetrc/cmd/assetrc/commands"
	"github.com/walteh/assetrc/cmd/assetrc/opts"
	"github.com/walteh/assetrc/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// NewRootCmd creates the assetrc command tree
func NewRootCmd() *cobra.Command {
	root := &opts.RootOpts{}

	cmd := &cobra.Command{
		Use:   "assetrc [assets|pdf]",
		Short: "Prepare the build-time assets of the club website",
		Long: `assetrc finds loosely named source files (exact names or globs) in the project root and
moves or copies them to the paths the site expects, recording every outcome in an
append-only audit log.

With no argument the asset table runs. "assetrc pdf" previews the report PDFs.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := root.Resolve(); err != nil {
				return err
			}
			setupLogging(cmd, root.Debug)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ui := log.FromContext(ctx)

			if len(args) == 0 {
				if err := commands.RunAssets(ctx, root, commands.DefaultAssetsOptions()); err != nil {
					return err
				}
				ui.Info("run `assetrc pdf` to preview the PDF reports")
				return nil
			}

			ui.Warningf("unknown task group %q, running assets and pdf", args[0])
			if err := commands.RunAssets(ctx, root, commands.DefaultAssetsOptions()); err != nil {
				return err
			}
			if err := commands.RunPDF(ctx, root, commands.DefaultPDFOptions()); err != nil {
				return errors.Errorf("previewing reports: %w", err)
			}
			return nil
		},
	}

	addRootFlags(cmd, root)

	cmd.AddCommand(
		commands.NewAssetsCmd(root),
		commands.NewPDFCmd(root),
		newVersionCmd(),
	)

	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, root *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&root.Root, "root", "r", ".", "project root all task paths are relative to")
	cmd.PersistentFlags().BoolVarP(&root.Debug, "debug", "d", false, "enable debug logging")
}

// setupLogging attaches a zerolog logger and the console logger to the command context. A logger
// already carried by the context is kept.
func setupLogging(cmd *cobra.Command, debug bool) {
	ctx := cmd.Context()

	zlog := zerolog.Ctx(ctx)
	if zlog.GetLevel() == zerolog.Disabled {
		l := newLogger(os.Stderr, debug)
		zlog = &l
		ctx = l.WithContext(ctx)
	}

	ui := log.New(cmd.OutOrStdout(), *zlog)
	cmd.SetContext(log.NewContext(ctx, ui))
}

// newLogger writes JSON events when w is not a terminal. On a terminal the console lines already
// carry every outcome, so events are only shown with --debug.
func newLogger(w *os.File, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	var out io.Writer = w
	if isatty.IsTerminal(w.Fd()) || isatty.IsCygwinTerminal(w.Fd()) {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
		if !debug {
			level = zerolog.Disabled
		}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
