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

// Package asset holds the shared types of the asset transfer pipeline: the task table entries,
// the per-file outcomes recorded in the audit log, and the error taxonomy.
package asset

import (
	"fmt"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🔀 Kind selects how a resolved source reaches its destination
type Kind string

const (
	KindMove Kind = "move"
	KindCopy Kind = "copy"
)

// ParseKind parses a kind name, ignoring case and surrounding space
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindMove:
		return KindMove, nil
	case KindCopy:
		return KindCopy, nil
	default:
		return "", errors.Errorf("unknown kind %q (want move or copy)", s)
	}
}

// 📦 Task is one entry of the asset table
type Task struct {
	Name        string // Short label used in log lines
	Source      string // Literal path or glob pattern, relative to the project root
	Destination string // File path, or directory when it ends in a separator or already is one
	Kind        Kind
}

func (t Task) String() string {
	return fmt.Sprintf("%s: %s -> %s (%s)", t.Name, t.Source, t.Destination, t.Kind)
}

// 🎯 Resolved is a single concrete source paired with its final destination
type Resolved struct {
	Source      string
	Destination string
}

// 🏷️ Action is what happened to one resolved source
type Action int

const (
	ActionError Action = iota
	ActionMoved
	ActionMovedByCopy // rename failed, copy fallback succeeded
	ActionCopied
)

func (a Action) String() string {
	switch a {
	case ActionMoved:
		return "Moved"
	case ActionMovedByCopy:
		return "Moved (copy fallback)"
	case ActionCopied:
		return "Copied"
	default:
		return "Error"
	}
}

// 📝 Outcome describes a single transfer attempt, successful or not
type Outcome struct {
	Task        Task
	Action      Action
	Source      string // Resolved source, or the raw spec when nothing resolved
	Destination string // Final destination, or the raw spec when planning never ran
	Bytes       int64
	Warning     string // Non-fatal problem, e.g. the source survived a fallback move
	Err         error
}

// Failed reports whether the attempt did not land the file
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// NotFound reports whether the attempt failed because nothing matched the source spec
func (o Outcome) NotFound() bool {
	return errors.Is(o.Err, ErrNotFound)
}
