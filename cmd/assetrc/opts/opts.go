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

package opts

import (
	"os"
	"path/filepath"

	"gitlab.com/tozd/go/errors"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	Root  string
	Debug bool
}

// 📂 Resolve makes Root absolute and checks that it is a directory
func (o *RootOpts) Resolve() error {
	if o.Root == "" {
		o.Root = "."
	}

	abs, err := filepath.Abs(o.Root)
	if err != nil {
		return errors.Errorf("resolving project root %q: %w", o.Root, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return errors.Errorf("reading project root: %w", err)
	}
	if !info.IsDir() {
		return errors.Errorf("project root %s is not a directory", abs)
	}

	o.Root = abs
	return nil
}

// 📍 Path joins a relative path onto Root; absolute paths are returned unchanged
func (o *RootOpts) Path(p string) string {
	if p == "" {
		return o.Root
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(o.Root, p)
}
