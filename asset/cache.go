// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asset

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"cogentcore.org/scene3d/base/fsx"
	"github.com/hack-pad/hackpadfs"
)

// Cache directory layout, relative to [Cache.Root].
const (
	MeshesDir   = "Meshes"
	TexturesDir = "Textures"

	MeshExt    = ".rmesh"
	TextureExt = ".rtex"
)

// Source reports where the data returned by a [Cache] import came from.
type Source int32

const (
	// FromImporter means the cache was missing or unreadable and the
	// data was produced by the importer.
	FromImporter Source = iota

	// FromCache means the data was loaded from a cache record.
	FromCache
)

func (s Source) String() string {
	if s == FromCache {
		return "cache"
	}
	return "importer"
}

// Kinds are the kinds of cache records.
type Kinds int32

const (
	KindMesh Kinds = iota
	KindTexture
)

func (k Kinds) String() string {
	if k == KindTexture {
		return "texture"
	}
	return "mesh"
}

// Entry describes one record stored in a [Cache].
type Entry struct {
	Kind Kinds

	// Path is the path of the record within the cache filesystem.
	Path string

	// Size is the size of the record in bytes.
	Size int64
}

// Cache is an asset import cache: it returns raw buffers from a cache
// record when one exists and parses, and otherwise runs the importer
// and stores its result for next time. The returned data is the same
// either way.
//
// Records are keyed only by the base name of the source file, so two
// sources with the same base name share a record, and a record is never
// refreshed when its source changes. Use [Cache.Remove] or [Cache.Clear]
// to force a re-import.
//
// A Cache is not safe for concurrent use.
type Cache struct {

	// FS is the filesystem that cache records are stored in.
	FS hackpadfs.FS

	// Root is the cache root directory within FS.
	Root string

	// Meshes imports mesh source files on a cache miss.
	// If nil, the [DefaultRegistry] is used.
	Meshes MeshImporter

	// Textures imports image source files on a cache miss.
	// If nil, the [DefaultRegistry] is used.
	Textures TextureImporter
}

// NewCache returns a new cache storing records under the given root
// directory in the given filesystem, importing with the [DefaultRegistry].
func NewCache(fsys hackpadfs.FS, root string) *Cache {
	return &Cache{FS: fsys, Root: root}
}

// MeshPath returns the path of the mesh cache record for the given source file.
func (c *Cache) MeshPath(src string) string {
	return path.Join(c.Root, MeshesDir, baseName(src)+MeshExt)
}

// TexturePath returns the path of the texture cache record for the given source file.
func (c *Cache) TexturePath(src string) string {
	return path.Join(c.Root, TexturesDir, baseName(src)+TextureExt)
}

// ImportMesh returns the mesh data for the given source file, from its
// cache record if possible, and otherwise from the mesh importer, in which
// case the result is stored in the cache. An importer failure is returned
// as an error wrapping [ErrImport]; a cache read or write failure is not
// an error.
func (c *Cache) ImportMesh(src string) (*MeshData, Source, error) {
	cp := c.MeshPath(src)
	if c.exists(cp) {
		md, err := OpenMesh(c.FS, cp)
		if err == nil {
			slog.Debug("asset: mesh loaded from cache", "source", src, "path", cp)
			return md, FromCache, nil
		}
		slog.Debug("asset: unusable mesh cache record, importing", "path", cp, "err", err)
	}
	im := c.Meshes
	if im == nil {
		im = DefaultRegistry
	}
	md, err := im.ImportMesh(src)
	if err == nil && md == nil {
		err = errors.New("importer returned no data")
	}
	if err == nil {
		err = md.Validate()
	}
	if err != nil {
		return nil, FromImporter, fmt.Errorf("%w: mesh %q: %w", ErrImport, src, err)
	}
	if err := c.store(cp, func() error { return SaveMesh(c.FS, cp, md) }); err != nil {
		slog.Warn("asset: could not write mesh cache record", "path", cp, "err", err)
	}
	return md, FromImporter, nil
}

// ImportTexture returns the texture data for the given source file, from
// its cache record if possible, and otherwise from the texture importer,
// in which case the result is stored in the cache. The importer must
// produce [FormatRGBA8] pixels. An importer failure is returned as an
// error wrapping [ErrImport]; a cache read or write failure is not an error.
func (c *Cache) ImportTexture(src string) (*TextureData, Source, error) {
	cp := c.TexturePath(src)
	if c.exists(cp) {
		td, err := OpenTexture(c.FS, cp)
		if err == nil && td.Format != FormatRGBA8 {
			err = fmt.Errorf("%w: pixel format %v", ErrCorrupt, td.Format)
		}
		if err == nil {
			slog.Debug("asset: texture loaded from cache", "source", src, "path", cp)
			return td, FromCache, nil
		}
		slog.Debug("asset: unusable texture cache record, importing", "path", cp, "err", err)
	}
	im := c.Textures
	if im == nil {
		im = DefaultRegistry
	}
	td, err := im.ImportTexture(src)
	if err == nil && td == nil {
		err = errors.New("importer returned no data")
	}
	if err == nil {
		err = td.Validate()
	}
	if err == nil && td.Format != FormatRGBA8 {
		err = fmt.Errorf("pixel format %v is not %v", td.Format, FormatRGBA8)
	}
	if err != nil {
		return nil, FromImporter, fmt.Errorf("%w: texture %q: %w", ErrImport, src, err)
	}
	if err := c.store(cp, func() error { return SaveTexture(c.FS, cp, td) }); err != nil {
		slog.Warn("asset: could not write texture cache record", "path", cp, "err", err)
	}
	return td, FromImporter, nil
}

// Remove removes the mesh, mesh group and texture cache records
// for the given source file, if they exist.
func (c *Cache) Remove(src string) error {
	var errs []error
	for _, cp := range []string{c.MeshPath(src), c.TexturePath(src)} {
		err := hackpadfs.Remove(c.FS, cp)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	err := hackpadfs.RemoveAll(c.FS, c.GroupsPath(src))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Clear removes all of the records in the cache.
func (c *Cache) Clear() error {
	var errs []error
	for _, dir := range []string{MeshesDir, TexturesDir} {
		err := hackpadfs.RemoveAll(c.FS, path.Join(c.Root, dir))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Entries returns the records in the cache, meshes first, each
// sorted by path. Mesh group records are included as meshes.
// Files without a record extension are skipped.
func (c *Cache) Entries() ([]Entry, error) {
	var ents []Entry
	dirs := []struct {
		kind Kinds
		dir  string
		ext  string
	}{{KindMesh, MeshesDir, MeshExt}, {KindTexture, TexturesDir, TextureExt}}
	for _, d := range dirs {
		dp := path.Join(c.Root, d.dir)
		des, err := hackpadfs.ReadDir(c.FS, dp)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return ents, err
		}
		for _, de := range des {
			if de.IsDir() && d.kind == KindMesh && path.Ext(de.Name()) == GroupsExt {
				gd := path.Join(dp, de.Name())
				gdes, err := hackpadfs.ReadDir(c.FS, gd)
				if err != nil {
					return ents, err
				}
				ents = appendEntries(ents, d.kind, gd, d.ext, gdes)
				continue
			}
			ents = appendEntries(ents, d.kind, dp, d.ext, []fs.DirEntry{de})
		}
	}
	slices.SortStableFunc(ents, func(a, b Entry) int {
		if a.Kind != b.Kind {
			return cmp.Compare(a.Kind, b.Kind)
		}
		return strings.Compare(a.Path, b.Path)
	})
	return ents, nil
}

// appendEntries appends the files with the given extension
// among the given entries of the given directory.
func appendEntries(ents []Entry, kind Kinds, dir, ext string, des []fs.DirEntry) []Entry {
	for _, de := range des {
		if de.IsDir() || path.Ext(de.Name()) != ext {
			continue
		}
		ent := Entry{Kind: kind, Path: path.Join(dir, de.Name())}
		if info, err := de.Info(); err == nil {
			ent.Size = info.Size()
		}
		ents = append(ents, ent)
	}
	return ents
}

func (c *Cache) exists(cp string) bool {
	ok, err := fsx.FileExistsFS(c.FS, cp)
	if err != nil {
		slog.Debug("asset: cannot check cache record", "path", cp, "err", err)
	}
	return ok
}

// store creates the directory of the given record path and then
// calls save to write the record.
func (c *Cache) store(cp string, save func() error) error {
	if err := hackpadfs.MkdirAll(c.FS, path.Dir(cp), 0o755); err != nil {
		return err
	}
	return save()
}

// baseName returns the file name of the given source path
// without its directory and extension.
func baseName(src string) string {
	fn := filepath.Base(src)
	return strings.TrimSuffix(fn, filepath.Ext(fn))
}
