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

// Package preview extracts a short text preview from the first page of a PDF report.
//
// Extraction goes through an ordered list of backends; the first one available on this machine is
// used. Nothing here writes to the filesystem.
package preview

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/assetrc/pkg/asset"
	"gitlab.com/tozd/go/errors"
)

// DefaultMaxChars is the preview length used when the caller does not pick one
const DefaultMaxChars = 500

// 🔌 Backend extracts text from the first page of a PDF
type Backend interface {
	// Name identifies the backend in logs
	Name() string
	// Available reports whether the backend can run here
	Available() bool
	// FirstPage returns the first page's text and the document's page count. With zero pages the
	// text is empty and no error is returned.
	FirstPage(ctx context.Context, path string) (text string, pages int, err error)
}

// 🏷️ Status says how a preview attempt ended
type Status int

const (
	StatusOK          Status = iota
	StatusEmpty              // first page has no extractable text
	StatusNoPages            // document has zero pages
	StatusUnavailable        // no backend could run
	StatusFailed             // the backend ran and failed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusEmpty:
		return "empty"
	case StatusNoPages:
		return "no pages"
	case StatusUnavailable:
		return "unavailable"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 📄 Result is the outcome of one preview
type Result struct {
	Path      string
	Backend   string
	Status    Status
	Text      string
	Pages     int
	Truncated bool
}

// 🔎 Extractor tries its backends in order
type Extractor struct {
	Backends []Backend
}

// 🏭 New creates an extractor over backends, tried in the given order
func New(backends ...Backend) *Extractor {
	return &Extractor{Backends: backends}
}

// 🏭 NewDefault creates an extractor with the pure Go reader first and poppler's pdftotext second
func NewDefault() *Extractor {
	return New(NewLedongthucBackend(), NewPdftotextBackend())
}

// 🏭 NewNamed creates an extractor for a single backend by name. "auto" or an empty name gives the
// default chain, where pdftotext is only reached when the Go reader cannot run.
func NewNamed(name string) (*Extractor, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return NewDefault(), nil
	case "ledongthuc":
		return New(NewLedongthucBackend()), nil
	case "pdftotext":
		return New(NewPdftotextBackend()), nil
	}
	return nil, errors.Errorf("unknown pdf backend %q (want auto, ledongthuc or pdftotext)", name)
}

// Backend returns the first available backend, or nil
func (e *Extractor) Backend() Backend {
	for _, b := range e.Backends {
		if b != nil && b.Available() {
			return b
		}
	}
	return nil
}

// 📖 Preview returns up to maxChars characters of the first page of the PDF at path.
//
// A missing backend is reported through StatusUnavailable, not an error. Backend failures return
// StatusFailed and an error matching asset.ErrExtractionFailure.
func (e *Extractor) Preview(ctx context.Context, path string, maxChars int) (Result, error) {
	logger := zerolog.Ctx(ctx)
	res := Result{Path: path}

	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	b := e.Backend()
	if b == nil {
		logger.Debug().Str("path", path).Msg("no pdf backend available")
		res.Status = StatusUnavailable
		return res, nil
	}
	res.Backend = b.Name()

	text, pages, err := b.FirstPage(ctx, path)
	if err != nil {
		res.Status = StatusFailed
		return res, errors.Errorf("%w: %s via %s: %v", asset.ErrExtractionFailure, path, b.Name(), err)
	}
	res.Pages = pages

	if pages == 0 {
		res.Status = StatusNoPages
		return res, nil
	}

	res.Text, res.Truncated = truncate(text, maxChars)
	if res.Text == "" {
		res.Status = StatusEmpty
		return res, nil
	}

	logger.Debug().Str("path", path).Str("backend", b.Name()).Int("pages", pages).Msg("preview extracted")
	res.Status = StatusOK
	return res, nil
}

// truncate cuts s to at most n characters, counting runes rather than bytes
func truncate(s string, n int) (string, bool) {
	count := 0
	for i := range s {
		if count == n {
			return s[:i], true
		}
		count++
	}
	return s, false
}

// Err maps a non-text status to the matching taxonomy error, for callers that report by error
func (r Result) Err() error {
	switch r.Status {
	case StatusUnavailable:
		return asset.ErrExtractionUnavailable
	case StatusFailed:
		return asset.ErrExtractionFailure
	default:
		return nil
	}
}
