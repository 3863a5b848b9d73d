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

// Package audit keeps the append-only history of every transfer attempt.
//
// The log is plain text. Each invocation starts with a run marker line and then gets one line per
// attempt, in the order attempts finish. The file is opened in append mode for every line and
// closed right away, so a killed process leaves a clean prefix. Nothing is ever rewritten.
package audit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog"
	"github.com/walteh/assetrc/pkg/asset"
	"gitlab.com/tozd/go/errors"
)

// 📜 Log appends audit lines to a file at Path
type Log struct {
	Path string
	now  func() time.Time
}

// 🏭 Open prepares an audit log at path, creating its directory if needed.
// The file itself is created on first write.
func Open(path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Errorf("creating audit log directory: %w", err)
	}
	return &Log{Path: path, now: time.Now}, nil
}

// 🚩 RecordRunStart appends the marker that opens a new run
func (l *Log) RecordRunStart(ctx context.Context, runID string) error {
	return l.append(ctx, "\n"+FormatRunStart(runID, l.now()))
}

// 📝 Record appends one line describing the outcome
func (l *Log) Record(ctx context.Context, out asset.Outcome) error {
	return l.append(ctx, FormatOutcome(out))
}

func (l *Log) append(ctx context.Context, line string) error {
	f, err := os.OpenFile(l.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return errors.Errorf("opening audit log: %w", err)
	}

	// the log doubles as its own lock file, so nothing but the log is left behind
	lock := flock.New(l.Path)
	if err := lock.Lock(); err != nil {
		f.Close()
		return errors.Errorf("locking audit log: %w", err)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("path", l.Path).Msg("unlocking audit log")
		}
	}()

	if _, err := fmt.Fprintln(f, line); err != nil {
		f.Close()
		return errors.Errorf("writing audit log: %w", err)
	}

	if err := f.Close(); err != nil {
		return errors.Errorf("closing audit log: %w", err)
	}
	return nil
}
