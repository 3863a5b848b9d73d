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

package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/assetrc/pkg/asset"
	"github.com/walteh/assetrc/pkg/audit"
)

// 🎨 Display configuration
const (
	indent      = 4  // spaces before outcome lines
	nameWidth   = 24 // width of the task name column
	actionWidth = 22 // width of the action column
)

// 🎯 Logger renders user-facing lines on a console and mirrors each one as a zerolog event
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
	runID   string
}

// 🏭 New creates a new logger writing human lines to console and events to zlog
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatOutcome formats an outcome as an aligned, colored console line
func formatOutcome(out asset.Outcome) string {
	var symbol string
	var symbolColor color.Attribute
	switch {
	case out.NotFound():
		symbol, symbolColor = "?", color.FgYellow
	case out.Failed():
		symbol, symbolColor = "✗", color.FgRed
	case out.Warning != "":
		symbol, symbolColor = "⟳", color.FgYellow
	case out.Action == asset.ActionMovedByCopy:
		symbol, symbolColor = "⟳", color.FgBlue
	default:
		symbol, symbolColor = "✓", color.FgGreen
	}

	name := out.Task.Name
	if name == "" {
		name = out.Task.Source
	}

	var detail string
	switch {
	case out.NotFound():
		detail = fmt.Sprintf("%s not found", out.Task.Source)
	case out.Failed():
		detail = out.Err.Error()
	default:
		detail = fmt.Sprintf("%s (%s)", out.Destination, humanize.Bytes(uint64(max(out.Bytes, 0))))
		if out.Warning != "" {
			detail += " " + color.New(color.FgYellow).Sprint(out.Warning)
		}
	}

	action := out.Action.String()
	if out.NotFound() {
		action = "Not found"
	}

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", indent, ""),
		color.New(symbolColor).Sprint(symbol),
		fmt.Sprintf("%-*s", nameWidth, name),
		color.New(color.Faint).Sprint(fmt.Sprintf("%-*s", actionWidth, action)),
		detail)
}

// 🚩 RecordRunStart prints the run header
func (l *Logger) RecordRunStart(ctx context.Context, runID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.runID = runID
	fmt.Fprintf(l.console, "%s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint("asset run"),
		color.New(color.Faint).Sprint(runID))

	l.zlog.Info().Str("run_id", runID).Msg("starting asset run")
	return nil
}

// 📝 Record prints one outcome and logs it at a level matching its result
func (l *Logger) Record(ctx context.Context, out asset.Outcome) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console, formatOutcome(out))

	var ev *zerolog.Event
	switch {
	case out.NotFound(), out.Warning != "":
		ev = l.zlog.Warn()
	case out.Failed():
		ev = l.zlog.Error().Err(out.Err)
	default:
		ev = l.zlog.Info()
	}
	ev.Str("run_id", l.runID).
		Str("task", out.Task.Name).
		Str("kind", string(out.Task.Kind)).
		Str("action", out.Action.String()).
		Str("source", out.Source).
		Str("destination", out.Destination).
		Int64("bytes", out.Bytes).
		Msg(audit.FormatOutcome(out))
	return nil
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("assetrc")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Print writes raw text to the console without a zerolog event
func (l *Logger) Print(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console, text)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
