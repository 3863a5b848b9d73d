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
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
)

// 📑 Report is a PDF to preview
type Report struct {
	Path     string
	Priority bool // named in the known report list
	Missing  bool // named but not present
}

// 🗂️ Reports lists what to preview in dir: the known names first, in order, then every other PDF
// directly inside dir, sorted. Known names that do not exist are returned with Missing set.
func Reports(ctx context.Context, dir string, names []string) []Report {
	logger := zerolog.Ctx(ctx)

	seen := make(map[string]bool)
	reports := make([]Report, 0, len(names))

	for _, name := range names {
		path := filepath.Join(dir, name)
		if seen[path] {
			continue
		}
		seen[path] = true

		r := Report{Path: path, Priority: true}
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			r.Missing = true
		}
		reports = append(reports, r)
	}

	matches, err := doublestar.Glob(os.DirFS(dir), "*.{pdf,PDF}", doublestar.WithFilesOnly())
	if err != nil {
		logger.Debug().Err(err).Str("dir", dir).Msg("listing pdfs")
		return reports
	}
	sort.Strings(matches)

	for _, m := range matches {
		path := filepath.Join(dir, filepath.FromSlash(m))
		if seen[path] {
			continue
		}
		seen[path] = true
		reports = append(reports, Report{Path: path})
	}
	return reports
}
