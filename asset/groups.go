// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asset

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"slices"
	"strconv"
	"strings"

	"cogentcore.org/scene3d/base/fsx"
	"github.com/hack-pad/hackpadfs"
)

// GroupsExt is the extension of the directory under [MeshesDir]
// that holds the group records of one source file.
const GroupsExt = ".groups"

// GroupsPath returns the directory of the group cache records
// for the given source file.
func (c *Cache) GroupsPath(src string) string {
	return path.Join(c.Root, MeshesDir, baseName(src)+GroupsExt)
}

// ImportGroups returns the named parts of the given source file, from
// their cache records if possible, and otherwise from the mesh importer,
// which must implement [GroupImporter], in which case the result is stored
// in the cache with one record per group. Group names are stored in record
// file names, so characters that cannot appear in a file name are replaced
// with _ in groups loaded from the cache. Errors are as for [Cache.ImportMesh].
func (c *Cache) ImportGroups(src string) ([]MeshGroup, Source, error) {
	dir := c.GroupsPath(src)
	gps, err := c.openGroups(dir)
	if err == nil {
		slog.Debug("asset: mesh groups loaded from cache", "source", src, "path", dir, "groups", len(gps))
		return gps, FromCache, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		slog.Debug("asset: unusable mesh group cache records, importing", "path", dir, "err", err)
	}

	switch im := c.Meshes.(type) {
	case nil:
		gps, err = DefaultRegistry.ImportGroups(src)
	case GroupImporter:
		gps, err = im.ImportGroups(src)
	default:
		err = fmt.Errorf("%w: mesh importer for %q has no groups", ErrUnsupported, src)
	}
	for i := 0; err == nil && i < len(gps); i++ {
		if gps[i].Mesh == nil {
			err = fmt.Errorf("group %q has no data", gps[i].Name)
		} else {
			err = gps[i].Mesh.Validate()
		}
	}
	if err != nil {
		return nil, FromImporter, fmt.Errorf("%w: mesh groups %q: %w", ErrImport, src, err)
	}
	if err := c.saveGroups(dir, gps); err != nil {
		slog.Warn("asset: could not write mesh group cache records", "path", dir, "err", err)
		// a partial set of records would load as fewer groups
		hackpadfs.RemoveAll(c.FS, dir)
	}
	return gps, FromImporter, nil
}

func (c *Cache) openGroups(dir string) ([]MeshGroup, error) {
	ok, err := fsx.FileExistsFS(c.FS, dir)
	if err != nil {
		return nil, err
	}
	if ok {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrCorrupt, dir)
	}
	des, err := hackpadfs.ReadDir(c.FS, dir)
	if err != nil {
		return nil, err
	}
	type record struct {
		index int
		name  string
		file  string
	}
	var recs []record
	for _, de := range des {
		fn := de.Name()
		if de.IsDir() || path.Ext(fn) != MeshExt {
			continue
		}
		is, name, found := strings.Cut(strings.TrimSuffix(fn, MeshExt), "-")
		idx, err := strconv.Atoi(is)
		if !found || err != nil {
			return nil, fmt.Errorf("%w: group record name %q", ErrCorrupt, fn)
		}
		recs = append(recs, record{idx, name, fn})
	}
	slices.SortFunc(recs, func(a, b record) int { return a.index - b.index })
	gps := make([]MeshGroup, len(recs))
	for i, r := range recs {
		if r.index != i {
			return nil, fmt.Errorf("%w: missing group record %d", ErrCorrupt, i)
		}
		md, err := OpenMesh(c.FS, path.Join(dir, r.file))
		if err != nil {
			return nil, err
		}
		gps[i] = MeshGroup{Name: r.name, Mesh: md}
	}
	return gps, nil
}

// saveGroups replaces any records in the given directory
// with one record per group.
func (c *Cache) saveGroups(dir string, gps []MeshGroup) error {
	err := hackpadfs.RemoveAll(c.FS, dir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if err := hackpadfs.MkdirAll(c.FS, dir, 0o755); err != nil {
		return err
	}
	for i, gp := range gps {
		fn := path.Join(dir, strconv.Itoa(i)+"-"+groupFileName(gp.Name)+MeshExt)
		if err := SaveMesh(c.FS, fn, gp.Mesh); err != nil {
			return err
		}
	}
	return nil
}

// groupFileName returns the given group name with
// characters that are unsafe in file names replaced.
func groupFileName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', 0:
			return '_'
		}
		return r
	}, name)
}

// ImportMaterials returns the materials of the named parts of the given
// source file from the mesh importer, which must implement
// [MaterialImporter]. Materials are small and are not cached.
func (c *Cache) ImportMaterials(src string) ([]Material, error) {
	switch im := c.Meshes.(type) {
	case nil:
		return DefaultRegistry.ImportMaterials(src)
	case MaterialImporter:
		return im.ImportMaterials(src)
	}
	return nil, fmt.Errorf("%w: mesh importer for %q has no materials", ErrUnsupported, src)
}
