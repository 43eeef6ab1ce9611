// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asset

import (
	"path"
	"testing"

	"github.com/hack-pad/hackpadfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type groupImporter struct {
	countingImporter
	groups []MeshGroup
}

func (gi *groupImporter) ImportGroups(filename string) ([]MeshGroup, error) {
	gi.calls++
	if gi.err != nil {
		return nil, gi.err
	}
	gps := make([]MeshGroup, len(gi.groups))
	for i, gp := range gi.groups {
		gps[i] = MeshGroup{Name: gp.Name, Mesh: gp.Mesh.Clone()}
	}
	return gps, nil
}

func TestCacheGroups(t *testing.T) {
	c, _ := newTestCache(t)
	gi := &groupImporter{groups: []MeshGroup{
		{"wheel/left", NewTriangle()},
		{"body", NewBox(1, 2, 3)},
		{"roof", NewPyramid()},
	}}
	c.Meshes = gi

	gps, src, err := c.ImportGroups("models/car.obj")
	require.NoError(t, err)
	assert.Equal(t, FromImporter, src)
	require.Len(t, gps, 3)
	assert.Equal(t, "wheel/left", gps[0].Name)
	assert.Equal(t, "Library/Meshes/car.groups", c.GroupsPath("models/car.obj"))

	again, src, err := c.ImportGroups("models/car.obj")
	require.NoError(t, err)
	assert.Equal(t, FromCache, src)
	assert.Equal(t, 1, gi.calls)
	require.Len(t, again, 3)
	assert.Equal(t, "wheel_left", again[0].Name)
	for i := range gps {
		assert.Equal(t, gps[i].Mesh, again[i].Mesh)
	}
	assert.Equal(t, "body", again[1].Name)

	ents, err := c.Entries()
	require.NoError(t, err)
	require.Len(t, ents, 3)
	assert.Equal(t, "Library/Meshes/car.groups/0-wheel_left.rmesh", ents[0].Path)
	assert.Equal(t, KindMesh, ents[2].Kind)

	// a missing record makes the whole set a miss
	require.NoError(t, hackpadfs.Remove(c.FS, path.Join(c.GroupsPath("car.obj"), "1-body.rmesh")))
	_, src, err = c.ImportGroups("models/car.obj")
	require.NoError(t, err)
	assert.Equal(t, FromImporter, src)
	assert.Equal(t, 2, gi.calls)

	require.NoError(t, c.Remove("car.obj"))
	ents, err = c.Entries()
	require.NoError(t, err)
	assert.Empty(t, ents)
}

func TestCacheGroupsUnsupported(t *testing.T) {
	c, ci := newTestCache(t)
	_, _, err := c.ImportGroups("models/house.obj")
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.ErrorIs(t, err, ErrImport)
	assert.Zero(t, ci.calls)

	c.Meshes = nil
	_, _, err = c.ImportGroups("models/house.xyz")
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestCacheGroupsInvalid(t *testing.T) {
	c, _ := newTestCache(t)
	c.Meshes = &groupImporter{groups: []MeshGroup{
		{"bad", &MeshData{Positions: []float32{1, 2}}},
	}}
	_, _, err := c.ImportGroups("bad.obj")
	assert.ErrorIs(t, err, ErrImport)
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = hackpadfs.Stat(c.FS, c.GroupsPath("bad.obj"))
	assert.Error(t, err)
}

type materialImporter struct {
	groupImporter
	mats []Material
}

func (mi *materialImporter) ImportMaterials(filename string) ([]Material, error) {
	return mi.mats, nil
}

func TestCacheMaterials(t *testing.T) {
	c, _ := newTestCache(t)
	_, err := c.ImportMaterials("models/house.obj")
	assert.ErrorIs(t, err, ErrUnsupported)

	mats := []Material{{Group: "body", DiffuseMap: "paint.png"}, {Group: "roof"}}
	c.Meshes = &materialImporter{mats: mats}
	got, err := c.ImportMaterials("models/car.obj")
	require.NoError(t, err)
	assert.Equal(t, mats, got)

	rg := NewRegistry()
	rg.Meshes[".obj"] = &materialImporter{mats: mats}
	c.Meshes = rg
	got, err = c.ImportMaterials("models/car.obj")
	require.NoError(t, err)
	assert.Equal(t, mats, got)
	_, err = c.ImportMaterials("models/car.fbx")
	assert.ErrorIs(t, err, ErrUnsupported)
}
