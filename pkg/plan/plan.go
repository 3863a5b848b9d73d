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

// Package plan decides where a resolved source lands and makes sure the directories on the way
// exist.
package plan

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/assetrc/pkg/asset"
)

// 🗺️ Planner maps destination specs to final paths under Root
type Planner struct {
	Root string
}

// 🏭 New creates a planner rooted at root
func New(root string) *Planner {
	return &Planner{Root: filepath.Clean(root)}
}

// IsDirTarget reports whether a destination spec names a directory: it ends in a separator or
// already exists as a directory.
func (p *Planner) IsDirTarget(spec string) bool {
	if strings.HasSuffix(spec, "/") || strings.HasSuffix(spec, `\`) {
		return true
	}
	info, err := os.Stat(p.abs(spec))
	return err == nil && info.IsDir()
}

// 📍 Plan returns the final destination path for source and creates the directories it needs.
// Directory targets receive the source's base name; file targets are returned as given.
func (p *Planner) Plan(ctx context.Context, spec, source string) (string, error) {
	logger := zerolog.Ctx(ctx)

	if p.IsDirTarget(spec) {
		dir := p.abs(strings.TrimRight(spec, `/\`))
		if err := mkdirAll(dir); err != nil {
			return "", err
		}
		final := filepath.Join(dir, filepath.Base(source))
		logger.Debug().Str("destination", spec).Str("final", final).Msg("planned directory target")
		return final, nil
	}

	final := p.abs(spec)
	if err := mkdirAll(filepath.Dir(final)); err != nil {
		return "", err
	}
	logger.Debug().Str("destination", spec).Str("final", final).Msg("planned file target")
	return final, nil
}

func (p *Planner) abs(spec string) string {
	if spec == "" {
		return p.Root
	}
	spec = filepath.FromSlash(spec)
	if filepath.IsAbs(spec) {
		return filepath.Clean(spec)
	}
	return filepath.Join(p.Root, spec)
}

func mkdirAll(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &asset.DirectoryError{Path: dir, Cause: err}
	}
	return nil
}
