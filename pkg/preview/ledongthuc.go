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

package preview

import (
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"
	"gitlab.com/tozd/go/errors"
)

// 📚 LedongthucBackend reads PDFs in process with github.com/ledongthuc/pdf
type LedongthucBackend struct{}

// 🏭 NewLedongthucBackend creates the pure Go backend
func NewLedongthucBackend() *LedongthucBackend {
	return &LedongthucBackend{}
}

func (b *LedongthucBackend) Name() string { return "ledongthuc/pdf" }

// Available is always true; the reader is compiled in
func (b *LedongthucBackend) Available() bool { return true }

// FirstPage implements Backend. The reader panics on some malformed files, so panics come back as
// errors.
func (b *LedongthucBackend) FirstPage(ctx context.Context, path string) (text string, pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, pages = "", 0
			err = errors.Errorf("reading pdf: %s", fmt.Sprint(r))
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", 0, errors.Errorf("opening pdf: %w", err)
	}
	defer f.Close()

	pages = r.NumPage()
	if pages == 0 {
		return "", 0, nil
	}

	page := r.Page(1)
	if page.V.IsNull() {
		return "", pages, nil
	}

	text, err = page.GetPlainText(nil)
	if err != nil {
		return "", pages, errors.Errorf("extracting text: %w", err)
	}
	return text, pages, nil
}
