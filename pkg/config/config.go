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

package config

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/walteh/assetrc/pkg/asset"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for task table parsers
type Parser interface {
	// 📝 Parse parses the table from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📦 TaskDef is one task as written in a table file
type TaskDef struct {
	Name        string `json:"name" yaml:"name"`
	Source      string `json:"source" yaml:"source"`
	Destination string `json:"destination" yaml:"destination"`
	Kind        string `json:"kind,omitempty" yaml:"kind,omitempty"`
}

// 📚 Config is a complete task table
type Config struct {
	Tasks   []TaskDef `json:"tasks" yaml:"tasks"`
	Reports []string  `json:"reports,omitempty" yaml:"reports,omitempty"`

	tasks []asset.Task
}

// 🎯 Load loads and validates a task table file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading task table")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading task table: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing task table: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating task table: %w", err)
	}

	logger.Debug().Int("tasks", len(cfg.tasks)).Msg("task table loaded")
	return cfg, nil
}

// 🔍 Validate checks the table and builds its task list
func (cfg *Config) Validate() error {
	if len(cfg.Tasks) == 0 {
		return errors.Errorf("at least one task is required")
	}

	seen := make(map[string]bool, len(cfg.Tasks))
	tasks := make([]asset.Task, 0, len(cfg.Tasks))
	for i, def := range cfg.Tasks {
		if def.Name == "" {
			return errors.Errorf("task %d: name is required", i)
		}
		if seen[def.Name] {
			return errors.Errorf("task %q: duplicate name", def.Name)
		}
		seen[def.Name] = true

		if def.Source == "" {
			return errors.Errorf("task %q: source is required", def.Name)
		}
		if def.Destination == "" {
			return errors.Errorf("task %q: destination is required", def.Name)
		}

		kind := asset.KindCopy
		if def.Kind != "" {
			k, err := asset.ParseKind(def.Kind)
			if err != nil {
				return errors.Errorf("task %q: %w", def.Name, err)
			}
			kind = k
		}

		tasks = append(tasks, asset.Task{
			Name:        def.Name,
			Source:      def.Source,
			Destination: def.Destination,
			Kind:        kind,
		})
	}

	cfg.tasks = tasks
	return nil
}

// AssetTasks returns the validated tasks in table order
func (cfg *Config) AssetTasks() []asset.Task {
	return append([]asset.Task(nil), cfg.tasks...)
}

// ReportNames returns the report list, or the built-in one when the table has none
func (cfg *Config) ReportNames() []string {
	if len(cfg.Reports) == 0 {
		return DefaultReports()
	}
	return append([]string(nil), cfg.Reports...)
}
