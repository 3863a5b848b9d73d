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
	"bufio"
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🛠️ PdftotextBackend shells out to poppler's pdftotext, and pdfinfo for the page count
type PdftotextBackend struct {
	Bin     string
	InfoBin string
}

// 🏭 NewPdftotextBackend creates a backend using the binaries found on PATH
func NewPdftotextBackend() *PdftotextBackend {
	return &PdftotextBackend{Bin: "pdftotext", InfoBin: "pdfinfo"}
}

func (b *PdftotextBackend) Name() string { return "pdftotext" }

// Available reports whether the pdftotext binary can be found
func (b *PdftotextBackend) Available() bool {
	_, err := exec.LookPath(b.Bin)
	return err == nil
}

// FirstPage implements Backend
func (b *PdftotextBackend) FirstPage(ctx context.Context, path string) (string, int, error) {
	pages, err := b.pageCount(ctx, path)
	if err != nil {
		return "", 0, err
	}
	if pages == 0 {
		return "", 0, nil
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, b.Bin, "-f", "1", "-l", "1", "-enc", "UTF-8", path, "-")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", pages, errors.Errorf("running %s: %w: %s", b.Bin, err, strings.TrimSpace(stderr.String()))
	}

	// pdftotext ends every page with a form feed
	return strings.TrimRight(stdout.String(), "\f\n"), pages, nil
}

// pageCount asks pdfinfo for the page count. Without pdfinfo the document is assumed to have at
// least one page and pdftotext decides.
func (b *PdftotextBackend) pageCount(ctx context.Context, path string) (int, error) {
	if b.InfoBin == "" {
		return 1, nil
	}
	if _, err := exec.LookPath(b.InfoBin); err != nil {
		return 1, nil
	}

	out, err := exec.CommandContext(ctx, b.InfoBin, path).Output()
	if err != nil {
		return 0, errors.Errorf("running %s: %w", b.InfoBin, err)
	}

	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), ":")
		if !ok || strings.TrimSpace(key) != "Pages" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return 0, errors.Errorf("parsing page count %q: %w", value, err)
		}
		return n, nil
	}
	return 1, nil
}
