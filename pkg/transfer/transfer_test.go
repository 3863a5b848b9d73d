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

package transfer_test

import (
	"context"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/assetrc/pkg/asset"
	"github.com/walteh/assetrc/pkg/transfer"
	"gitlab.com/tozd/go/errors"
)

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0640))
	return path
}

func TestTransferMove(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "clip.mp4", "video bytes")
	dst := filepath.Join(dir, "src", "assets", "video", "loading-screen.mp4")

	out, err := transfer.New().Transfer(testContext(t), asset.Task{Name: "video", Kind: asset.KindMove}, src, dst)
	require.NoError(t, err)
	assert.Equal(t, asset.ActionMoved, out.Action)
	assert.Equal(t, int64(len("video bytes")), out.Bytes)
	assert.Empty(t, out.Warning)

	content, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "video bytes", string(content))

	_, err = os.Stat(src)
	assert.True(t, os.IsNotExist(err), "move should delete the source")
}

func TestTransferCopy(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "logo.jpg", "jpeg bytes")
	mtime := time.Date(2024, 6, 8, 10, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(src, mtime, mtime))
	dst := filepath.Join(dir, "public", "logo.jpg")

	exec := transfer.New()
	task := asset.Task{Name: "logo", Kind: asset.KindCopy}

	for i := 0; i < 2; i++ {
		out, err := exec.Transfer(testContext(t), task, src, dst)
		require.NoError(t, err)
		assert.Equal(t, asset.ActionCopied, out.Action)

		content, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.Equal(t, "jpeg bytes", string(content))

		_, err = os.Stat(src)
		require.NoError(t, err, "copy must never delete the source")
	}

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0640), info.Mode().Perm(), "permissions should be preserved")
	assert.True(t, info.ModTime().Equal(mtime), "modification time should be preserved")

	entries, err := os.ReadDir(filepath.Dir(dst))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files should be left behind")
}

func TestTransferMoveFallsBackToCopy(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "report.pdf", "%PDF-1.4")
	dst := filepath.Join(dir, "public", "query_quest_report.pdf")

	exec := transfer.New()
	exec.Rename = func(string, string) error {
		return &os.LinkError{Op: "rename", Err: syscall.EXDEV}
	}

	out, err := exec.Transfer(testContext(t), asset.Task{Kind: asset.KindMove}, src, dst)
	require.NoError(t, err)
	assert.Equal(t, asset.ActionMovedByCopy, out.Action)
	assert.Empty(t, out.Warning)

	content, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(content))

	_, err = os.Stat(src)
	assert.True(t, os.IsNotExist(err), "fallback should remove the source")
}

func TestTransferMoveFallbackKeepsSourceOnRemoveFailure(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "report.pdf", "%PDF-1.4")
	dst := filepath.Join(dir, "out.pdf")

	exec := transfer.New()
	exec.Rename = func(string, string) error { return os.ErrPermission }
	exec.Remove = func(string) error { return os.ErrPermission }

	out, err := exec.Transfer(testContext(t), asset.Task{Kind: asset.KindMove}, src, dst)
	require.NoError(t, err)
	assert.Equal(t, asset.ActionMovedByCopy, out.Action)
	assert.Contains(t, out.Warning, "source not removed")

	_, err = os.Stat(src)
	assert.NoError(t, err)
	_, err = os.Stat(dst)
	assert.NoError(t, err)
}

func TestTransferFailure(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "report.pdf", "%PDF-1.4")
	dst := filepath.Join(dir, "out.pdf")

	exec := transfer.New()
	exec.Rename = func(string, string) error { return os.ErrPermission }
	exec.CopyFile = func(string, string) (int64, error) { return 0, errors.New("disk full") }

	out, err := exec.Transfer(testContext(t), asset.Task{Kind: asset.KindMove}, src, dst)
	require.Error(t, err)
	assert.True(t, errors.Is(err, asset.ErrTransfer))
	assert.Equal(t, asset.ActionError, out.Action)
	assert.Equal(t, err, out.Err)

	var terr *asset.TransferError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, src, terr.Source)
	assert.Equal(t, dst, terr.Destination)
	assert.Contains(t, terr.Error(), "disk full")
	assert.True(t, errors.Is(err, os.ErrPermission), "rename cause should be kept")

	_, statErr := os.Stat(src)
	assert.NoError(t, statErr, "source must survive a failed transfer")
}

func TestTransferCopyMissingSource(t *testing.T) {
	dir := t.TempDir()
	out, err := transfer.New().Transfer(testContext(t), asset.Task{Kind: asset.KindCopy},
		filepath.Join(dir, "gone.png"), filepath.Join(dir, "public", "gone.png"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, asset.ErrTransfer))
	assert.True(t, out.Failed())

	_, statErr := os.Stat(filepath.Join(dir, "public", "gone.png"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestCopyFileRejectsDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder"), 0755))

	_, err := transfer.CopyFile(filepath.Join(dir, "folder"), filepath.Join(dir, "copy"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")
}
