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

// Package transfer moves or copies one resolved source onto its planned destination.
package transfer

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/assetrc/pkg/asset"
	"gitlab.com/tozd/go/errors"
)

// 🚚 Executor performs moves and copies.
//
// Rename and CopyFile are swappable so callers can force the copy fallback of a move.
type Executor struct {
	Rename   func(oldpath, newpath string) error
	CopyFile func(src, dst string) (int64, error)
	Remove   func(path string) error
}

// 🏭 New creates an executor backed by the real filesystem
func New() *Executor {
	return &Executor{
		Rename:   os.Rename,
		CopyFile: CopyFile,
		Remove:   os.Remove,
	}
}

// 🏃 Transfer moves or copies source to destination and reports what happened.
// The returned error is the outcome's error, for callers that only care about failure.
func (e *Executor) Transfer(ctx context.Context, task asset.Task, source, destination string) (asset.Outcome, error) {
	out := asset.Outcome{
		Task:        task,
		Source:      source,
		Destination: destination,
	}

	var err error
	switch task.Kind {
	case asset.KindMove:
		err = e.move(ctx, &out)
	case asset.KindCopy:
		err = e.copy(ctx, &out)
	default:
		err = errors.Errorf("unknown kind %q", task.Kind)
	}
	if err != nil {
		out.Action = asset.ActionError
		out.Err = err
	}
	return out, err
}

func (e *Executor) move(ctx context.Context, out *asset.Outcome) error {
	logger := zerolog.Ctx(ctx)

	// the planner already did this; the tree may have changed since
	if err := ensureParent(out.Destination); err != nil {
		return err
	}

	size := fileSize(out.Source)
	renameErr := e.Rename(out.Source, out.Destination)
	if renameErr == nil {
		out.Action = asset.ActionMoved
		out.Bytes = size
		return nil
	}

	logger.Warn().Err(renameErr).
		Str("source", out.Source).
		Str("destination", out.Destination).
		Msg("rename failed, falling back to copy")

	n, err := e.CopyFile(out.Source, out.Destination)
	if err != nil {
		return &asset.TransferError{
			Source:      out.Source,
			Destination: out.Destination,
			Cause:       errors.Join(renameErr, err),
		}
	}

	out.Action = asset.ActionMovedByCopy
	out.Bytes = n

	if err := e.Remove(out.Source); err != nil {
		logger.Warn().Err(err).Str("source", out.Source).Msg("copied but could not remove source")
		out.Warning = "source not removed: " + err.Error()
	}
	return nil
}

func (e *Executor) copy(ctx context.Context, out *asset.Outcome) error {
	if err := ensureParent(out.Destination); err != nil {
		return err
	}

	n, err := e.CopyFile(out.Source, out.Destination)
	if err != nil {
		return &asset.TransferError{Source: out.Source, Destination: out.Destination, Cause: err}
	}

	zerolog.Ctx(ctx).Debug().Int64("bytes", n).Str("destination", out.Destination).Msg("copied")
	out.Action = asset.ActionCopied
	out.Bytes = n
	return nil
}

func ensureParent(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &asset.DirectoryError{Path: dir, Cause: err}
	}
	return nil
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
