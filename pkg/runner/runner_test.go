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

package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/assetrc/pkg/asset"
	"github.com/walteh/assetrc/pkg/audit"
	"github.com/walteh/assetrc/pkg/plan"
	"github.com/walteh/assetrc/pkg/resolve"
	"github.com/walteh/assetrc/pkg/runner"
	"github.com/walteh/assetrc/pkg/transfer"
	"gitlab.com/tozd/go/errors"
)

// 📼 memoryRecorder keeps everything it is given
type memoryRecorder struct {
	runs     []string
	outcomes []asset.Outcome
	err      error
}

func (m *memoryRecorder) RecordRunStart(ctx context.Context, runID string) error {
	m.runs = append(m.runs, runID)
	return m.err
}

func (m *memoryRecorder) Record(ctx context.Context, out asset.Outcome) error {
	m.outcomes = append(m.outcomes, out)
	return m.err
}

type testEnv struct {
	ctx    context.Context
	root   string
	log    *audit.Log
	mem    *memoryRecorder
	runner *runner.Runner
	exec   *transfer.Executor
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	root := t.TempDir()

	l, err := audit.Open(filepath.Join(root, "asset_log.txt"))
	require.NoError(t, err)

	env := &testEnv{
		ctx:  zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background()),
		root: root,
		log:  l,
		mem:  &memoryRecorder{},
		exec: transfer.New(),
	}

	env.runner, err = runner.New(runner.Options{
		Resolver:  resolve.New(root),
		Planner:   plan.New(root),
		Executor:  env.exec,
		Recorders: []runner.Recorder{env.log, env.mem},
	})
	require.NoError(t, err)
	return env
}

func (e *testEnv) write(t *testing.T, name, content string) {
	t.Helper()
	path := filepath.Join(e.root, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func (e *testEnv) read(t *testing.T, name string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(e.root, name))
	require.NoError(t, err)
	return string(content)
}

func (e *testEnv) exists(name string) bool {
	_, err := os.Stat(filepath.Join(e.root, name))
	return err == nil
}

func (e *testEnv) lastRunLines(t *testing.T) []string {
	t.Helper()
	run, ok, err := audit.LastRun(e.log.Path)
	require.NoError(t, err)
	require.True(t, ok)
	return run.Lines
}

func TestNewRequiresCollaborators(t *testing.T) {
	_, err := runner.New(runner.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolver is required")

	_, err = runner.New(runner.Options{Resolver: resolve.New(".")})
	assert.Contains(t, err.Error(), "planner is required")

	_, err = runner.New(runner.Options{Resolver: resolve.New("."), Planner: plan.New(".")})
	assert.Contains(t, err.Error(), "executor is required")
}

func TestRunExampleTable(t *testing.T) {
	env := newTestEnv(t)
	env.write(t, "video.mp4", "video")
	env.write(t, "logo.jpg", "logo")

	tasks := []asset.Task{
		{Name: "video", Source: "video.mp4", Destination: "assets/video/loading.mp4", Kind: asset.KindMove},
		{Name: "logo", Source: "logo.jpg", Destination: "public/logo.jpg", Kind: asset.KindCopy},
	}

	sum, err := env.runner.Run(env.ctx, tasks)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Succeeded)
	assert.Zero(t, sum.Failed)
	assert.Zero(t, sum.NotFound)

	assert.False(t, env.exists("video.mp4"), "moved source should be gone")
	assert.Equal(t, "video", env.read(t, "assets/video/loading.mp4"))
	assert.Equal(t, "logo", env.read(t, "logo.jpg"), "copied source should be intact")
	assert.Equal(t, "logo", env.read(t, "public/logo.jpg"))

	lines := env.lastRunLines(t)
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Success: [video] Moved "))
	assert.True(t, strings.HasPrefix(lines[1], "Success: [logo] Copied "))

	require.Len(t, env.mem.runs, 1)
	assert.Equal(t, sum.RunID, env.mem.runs[0])
	run, _, err := audit.LastRun(env.log.Path)
	require.NoError(t, err)
	assert.Contains(t, run.Marker, sum.RunID)
}

func TestRunGlobProducesIdenticalBytes(t *testing.T) {
	env := newTestEnv(t)
	payload := strings.Repeat("%PDF-1.7 binary\x00\x01\x02", 512)
	env.write(t, "Query Quest – DBMS & SQL Workshop (3).pdf", payload)

	_, err := env.runner.Run(env.ctx, []asset.Task{
		{Name: "query-quest", Source: "Query Quest*.pdf", Destination: "public/query_quest_report.pdf", Kind: asset.KindMove},
	})
	require.NoError(t, err)
	assert.Equal(t, payload, env.read(t, "public/query_quest_report.pdf"))
}

func TestRunNotFound(t *testing.T) {
	env := newTestEnv(t)

	sum, err := env.runner.Run(env.ctx, []asset.Task{
		{Name: "missing", Source: "nothing*.pdf", Destination: "public/nothing.pdf", Kind: asset.KindCopy},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.NotFound)
	assert.False(t, env.exists("public/nothing.pdf"))
	assert.False(t, env.exists("public"), "no directories should be created for a miss")

	lines := env.lastRunLines(t)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "not found/matched")
	require.Len(t, env.mem.outcomes, 1)
	assert.True(t, errors.Is(env.mem.outcomes[0].Err, asset.ErrNotFound))
}

func TestRunMoveTwiceIsNotIdempotent(t *testing.T) {
	env := newTestEnv(t)
	env.write(t, "Untitled video - Made with Clipchamp.mp4", "clip")
	tasks := []asset.Task{{
		Name:        "loading-video",
		Source:      "Untitled video - Made with Clipchamp.mp4",
		Destination: "src/assets/video/loading-screen.mp4",
		Kind:        asset.KindMove,
	}}

	first, err := env.runner.Run(env.ctx, tasks)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Succeeded)

	second, err := env.runner.Run(env.ctx, tasks)
	require.NoError(t, err)
	assert.Equal(t, 1, second.NotFound)
	assert.Equal(t, "clip", env.read(t, "src/assets/video/loading-screen.mp4"), "destination untouched by the second run")

	runs, err := audit.ReadRuns(env.log.Path)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.True(t, strings.HasPrefix(runs[0].Lines[0], "Success:"))
	assert.True(t, strings.HasPrefix(runs[1].Lines[0], "Error:"))
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestRunCopyRepeatedly(t *testing.T) {
	env := newTestEnv(t)
	env.write(t, "1749373788465.jpeg", "jpeg")
	tasks := []asset.Task{{Name: "logo", Source: "1749373788465.jpeg", Destination: "src/assets/images/department-logo.jpg", Kind: asset.KindCopy}}

	for i := 0; i < 3; i++ {
		sum, err := env.runner.Run(env.ctx, tasks)
		require.NoError(t, err)
		assert.Equal(t, 1, sum.Succeeded)
		assert.Equal(t, "jpeg", env.read(t, "1749373788465.jpeg"))
		assert.Equal(t, "jpeg", env.read(t, "src/assets/images/department-logo.jpg"))
	}

	runs, err := audit.ReadRuns(env.log.Path)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}

func TestRunDirectoryTargetWithMultipleMatches(t *testing.T) {
	env := newTestEnv(t)
	env.write(t, "DAC_Report.pdf", "a")
	env.write(t, "DATA_ANALYTICS_CLUB.pdf", "b")

	sum, err := env.runner.Run(env.ctx, []asset.Task{
		{Name: "reports", Source: "*.pdf", Destination: "public/docs/reports/", Kind: asset.KindCopy},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Succeeded)
	assert.Equal(t, "a", env.read(t, "public/docs/reports/DAC_Report.pdf"))
	assert.Equal(t, "b", env.read(t, "public/docs/reports/DATA_ANALYTICS_CLUB.pdf"))
	assert.Len(t, env.lastRunLines(t), 2)
}

func TestRunContinuesPastFailures(t *testing.T) {
	env := newTestEnv(t)
	env.write(t, "a.png", "a")
	env.write(t, "c.png", "c")
	// a file where the planner needs a directory
	env.write(t, "blocked", "file")

	sum, err := env.runner.Run(env.ctx, []asset.Task{
		{Name: "planning-fails", Source: "a.png", Destination: "blocked/images/", Kind: asset.KindCopy},
		{Name: "missing", Source: "b.png", Destination: "public/b.png", Kind: asset.KindCopy},
		{Name: "works", Source: "c.png", Destination: "public/c.png", Kind: asset.KindCopy},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Failed)
	assert.Equal(t, 1, sum.NotFound)
	assert.Equal(t, 1, sum.Succeeded)
	assert.Equal(t, "c", env.read(t, "public/c.png"))

	require.Len(t, env.mem.outcomes, 3)
	assert.True(t, errors.Is(env.mem.outcomes[0].Err, asset.ErrDirectoryCreation))
	assert.Equal(t, []string{"planning-fails", "missing", "works"}, []string{
		env.mem.outcomes[0].Task.Name, env.mem.outcomes[1].Task.Name, env.mem.outcomes[2].Task.Name,
	})
}

func TestRunTransferFailureIsRecorded(t *testing.T) {
	env := newTestEnv(t)
	env.write(t, "a.pdf", "a")
	env.exec.Rename = func(string, string) error { return os.ErrPermission }
	env.exec.CopyFile = func(string, string) (int64, error) { return 0, errors.New("read-only filesystem") }

	sum, err := env.runner.Run(env.ctx, []asset.Task{
		{Name: "report", Source: "a.pdf", Destination: "public/a.pdf", Kind: asset.KindMove},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Failed)
	assert.True(t, env.exists("a.pdf"))

	lines := env.lastRunLines(t)
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "Error: [report]"))
	assert.Contains(t, lines[0], "read-only filesystem")
}

func TestRunRecorderErrorsDoNotAbort(t *testing.T) {
	env := newTestEnv(t)
	env.write(t, "a.png", "a")
	broken := &memoryRecorder{err: errors.New("disk full")}

	r, err := runner.New(runner.Options{
		Resolver:  resolve.New(env.root),
		Planner:   plan.New(env.root),
		Executor:  transfer.New(),
		Recorders: []runner.Recorder{broken, env.mem},
		NewRunID:  func() string { return "fixed" },
	})
	require.NoError(t, err)

	sum, err := r.Run(env.ctx, []asset.Task{{Name: "a", Source: "a.png", Destination: "out/", Kind: asset.KindCopy}})
	require.NoError(t, err)
	assert.Equal(t, "fixed", sum.RunID)
	assert.Equal(t, 1, sum.Succeeded)
	assert.Len(t, env.mem.outcomes, 1)
	assert.Equal(t, "a", env.read(t, "out/a.png"))
}

func TestRunStopsWhenCancelled(t *testing.T) {
	env := newTestEnv(t)
	env.write(t, "a.png", "a")

	ctx, cancel := context.WithCancel(env.ctx)
	cancel()

	sum, err := env.runner.Run(ctx, []asset.Task{{Name: "a", Source: "a.png", Destination: "out/", Kind: asset.KindCopy}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, sum.Outcomes)
	assert.False(t, env.exists("out/a.png"))
}
