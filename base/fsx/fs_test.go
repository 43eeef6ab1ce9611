// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fsx

import (
	"path/filepath"
	"testing"

	"github.com/hack-pad/hackpadfs"
	"github.com/hack-pad/hackpadfs/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileExistsFS(t *testing.T) {
	fsys, err := mem.NewFS()
	require.NoError(t, err)
	require.NoError(t, hackpadfs.MkdirAll(fsys, "a/b", 0o755))
	require.NoError(t, hackpadfs.WriteFullFile(fsys, "a/b/c.txt", []byte("c"), 0o644))

	ok, err := FileExistsFS(fsys, "a/b/c.txt")
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = FileExistsFS(fsys, "a/b")
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, err = FileExistsFS(fsys, "a/missing.txt")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestHostFS(t *testing.T) {
	dir := t.TempDir()
	fsys, p, err := HostFS(dir)
	require.NoError(t, err)
	require.NoError(t, hackpadfs.WriteFullFile(fsys, p+"/x.txt", []byte("x"), 0o644))

	ok, err := FileExistsFS(fsys, p+"/x.txt")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.FileExists(t, filepath.Join(dir, "x.txt"))
}

func TestExpandPath(t *testing.T) {
	p, err := ExpandPath("rel")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(p))
	assert.Equal(t, "rel", filepath.Base(p))
}
