// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fsx provides filesystem helpers on top of [hackpadfs].
package fsx

import (
	"io/fs"
	"path/filepath"

	"cogentcore.org/scene3d/base/errors"
	"github.com/hack-pad/hackpadfs"
	osfs "github.com/hack-pad/hackpadfs/os"
	"github.com/mitchellh/go-homedir"
)

// FileExistsFS checks whether given file exists and is not a directory,
// returning true if so, false if not, and error if there is an error
// in accessing the file.
func FileExistsFS(fsys fs.FS, filePath string) (bool, error) {
	info, err := hackpadfs.Stat(fsys, filePath)
	if err == nil {
		return !info.IsDir(), nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// ExpandPath expands a leading ~ in the given host path to the
// home directory of the user and makes it absolute.
func ExpandPath(fpath string) (string, error) {
	exp, err := homedir.Expand(fpath)
	if err != nil {
		return "", err
	}
	return filepath.Abs(exp)
}

// HostFS returns a filesystem for the host operating system and the
// given host path converted to a path within it. A leading ~ in the
// host path is expanded. The result can be used as the filesystem
// and root of an asset cache.
func HostFS(fpath string) (hackpadfs.FS, string, error) {
	abs, err := ExpandPath(fpath)
	if err != nil {
		return nil, "", err
	}
	fsys := osfs.NewFS()
	p, err := fsys.FromOSPath(abs)
	if err != nil {
		return nil, "", err
	}
	return fsys, p, nil
}
