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

// Package resolve turns a loosely specified source (a literal path or a glob pattern) into the
// concrete files that exist under a project root.
package resolve

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// globMeta are the characters that make a spec a pattern rather than a plain name
const globMeta = "*?[{"

// 🔍 Resolver expands source specs relative to Root
type Resolver struct {
	Root string
}

// 🏭 New creates a resolver rooted at root
func New(root string) *Resolver {
	return &Resolver{Root: filepath.Clean(root)}
}

// HasMeta reports whether spec contains glob metacharacters
func HasMeta(spec string) bool {
	return strings.ContainsAny(spec, globMeta)
}

// 🎯 Resolve returns every existing file matched by spec.
//
// Patterns are expanded first; when a pattern matches nothing the spec is tried as a literal
// path, so names that merely contain bracket or brace characters still resolve. Wildcards skip
// dotfiles unless the pattern's last element starts with a dot. An empty result is not an error.
func (r *Resolver) Resolve(ctx context.Context, spec string) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	if spec == "" {
		return nil, nil
	}

	if HasMeta(spec) {
		matches, err := r.glob(spec)
		if err != nil {
			if errors.Is(err, doublestar.ErrBadPattern) {
				logger.Debug().Str("spec", spec).Err(err).Msg("invalid pattern, trying literal path")
				return r.literal(spec), nil
			}
			return nil, errors.Errorf("expanding %q: %w", spec, err)
		}
		if len(matches) > 0 {
			logger.Debug().Str("spec", spec).Int("matches", len(matches)).Msg("pattern matched")
			return matches, nil
		}
		logger.Debug().Str("spec", spec).Msg("pattern matched nothing, trying literal path")
	}

	return r.literal(spec), nil
}

func (r *Resolver) glob(spec string) ([]string, error) {
	var matches []string

	rel := filepath.ToSlash(filepath.Clean(spec))
	if filepath.IsAbs(spec) || !fs.ValidPath(rel) {
		// io/fs cannot reach above the root, so patterns starting with .. go through the OS
		found, err := doublestar.FilepathGlob(r.Abs(spec), doublestar.WithFilesOnly())
		if err != nil {
			return nil, err
		}
		matches = found
	} else {
		found, err := doublestar.Glob(os.DirFS(r.Root), rel, doublestar.WithFilesOnly())
		if err != nil {
			return nil, err
		}
		for _, m := range found {
			matches = append(matches, filepath.Join(r.Root, filepath.FromSlash(m)))
		}
	}

	visible := matches[:0]
	for _, m := range matches {
		if hidden(spec, m) {
			continue
		}
		visible = append(visible, m)
	}
	return visible, nil
}

// hidden reports whether match is a dotfile that the last element of pattern does not ask for
func hidden(pattern, match string) bool {
	if !strings.HasPrefix(filepath.Base(match), ".") {
		return false
	}
	return !strings.HasPrefix(filepath.Base(pattern), ".")
}

func (r *Resolver) literal(spec string) []string {
	path := r.Abs(spec)
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return []string{path}
}

// Abs joins a relative spec with the root
func (r *Resolver) Abs(spec string) string {
	if filepath.IsAbs(spec) {
		return filepath.Clean(spec)
	}
	return filepath.Join(r.Root, spec)
}
