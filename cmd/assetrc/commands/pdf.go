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
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/assetrc/cmd/assetrc/opts"
	"github.com/walteh/assetrc/pkg/log"
	"github.com/walteh/assetrc/pkg/preview"
	"gitlab.com/tozd/go/errors"
)

// PDFOptions controls the report preview
type PDFOptions struct {
	TasksFile string
	Dir       string
	MaxChars  int
	Backend   string
	// Extractor overrides Backend
	Extractor *preview.Extractor
}

// DefaultPDFOptions previews the built-in report list in the project root
func DefaultPDFOptions() PDFOptions {
	return PDFOptions{MaxChars: preview.DefaultMaxChars, Backend: "auto"}
}

// NewPDFCmd creates the pdf command
func NewPDFCmd(root *opts.RootOpts) *cobra.Command {
	po := DefaultPDFOptions()

	cmd := &cobra.Command{
		Use:   "pdf",
		Short: "Preview the first page of each PDF report",
		Long: `PDF prints the beginning of the first page of every known report and of any other
PDF in the report directory. Nothing is written to disk.

Text is extracted with the built-in PDF reader, or with poppler's pdftotext when the
reader is unavailable. --backend pdftotext uses poppler only.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunPDF(cmd.Context(), root, po)
		},
	}

	cmd.Flags().IntVar(&po.MaxChars, "max-chars", preview.DefaultMaxChars, "characters of first-page text to show")
	cmd.Flags().StringVar(&po.Dir, "dir", "", "directory holding the reports (default: project root)")
	cmd.Flags().StringVar(&po.Backend, "backend", "auto", "text extraction backend: auto, ledongthuc or pdftotext")
	cmd.Flags().StringVar(&po.TasksFile, "tasks", "", "task table file whose reports list replaces the built-in one")

	return cmd
}

// 📖 RunPDF previews every report. Extraction problems are reported, not returned.
func RunPDF(ctx context.Context, root *opts.RootOpts, po PDFOptions) error {
	ui := log.FromContext(ctx)

	cfg, err := loadTable(ctx, po.TasksFile)
	if err != nil {
		return err
	}

	ex := po.Extractor
	if ex == nil {
		if ex, err = preview.NewNamed(po.Backend); err != nil {
			return errors.Errorf("choosing pdf backend: %w", err)
		}
	}

	dir := root.Path(po.Dir)
	ui.Header(fmt.Sprintf("previewing PDF reports in %s", dir))

	if ex.Backend() == nil {
		ui.Error("no PDF text extraction backend available (install poppler-utils for pdftotext)")
		return nil
	}

	reports := preview.Reports(ctx, dir, cfg.ReportNames())
	if len(reports) == 0 {
		ui.Info("no PDF reports found")
		return nil
	}

	for _, r := range reports {
		if err := ctx.Err(); err != nil {
			return err
		}
		showReport(ctx, ui, ex, r, po.MaxChars)
	}
	return nil
}

func showReport(ctx context.Context, ui *log.Logger, ex *preview.Extractor, r preview.Report, maxChars int) {
	name := filepath.Base(r.Path)
	if r.Missing {
		ui.Warningf("%s not found", name)
		return
	}

	res, err := ex.Preview(ctx, r.Path, maxChars)
	switch res.Status {
	case preview.StatusOK:
		ui.Print(previewBox(name, res))
	case preview.StatusEmpty:
		ui.Infof("%s: first page has no extractable text (%d pages)", name, res.Pages)
	case preview.StatusNoPages:
		ui.Warningf("%s: document has no pages", name)
	case preview.StatusUnavailable:
		ui.Errorf("%s: %v", name, res.Err())
	case preview.StatusFailed:
		ui.Errorf("%s: %v", name, err)
	}
}

func previewBox(name string, res preview.Result) string {
	pages := "1 page"
	if res.Pages != 1 {
		pages = fmt.Sprintf("%d pages", res.Pages)
	}
	text := res.Text
	if res.Truncated {
		text += " …"
	}
	return pterm.DefaultBox.
		WithTitle(fmt.Sprintf("%s • %s", name, pages)).
		WithTitleTopLeft().
		Sprint(text)
}
