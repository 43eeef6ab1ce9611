// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package obj

import (
	"strings"
	"testing"
	"testing/fstest"

	"cogentcore.org/scene3d/asset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quadObj = `# a unit quad
mtllib quad.mtl
o Quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
usemtl none
s off
f 1/1/1 2/2/1 3/3/1 4/4/1
`

const twoGroupsObj = `v -1 0 0
v 0 0 0
v 0 1 0
f 1 2 3
g Second Part
v 5 5 5
v 6 5 5
v 6 6 5
f -3 -2 -1
g empty
`

func TestDecodeQuad(t *testing.T) {
	dec, err := Decode(strings.NewReader(quadObj))
	require.NoError(t, err)
	assert.Empty(t, dec.Warnings)
	require.Len(t, dec.Objects, 1)
	assert.Equal(t, "Quad", dec.Objects[0].Name)

	md := dec.Mesh()
	require.NoError(t, md.Validate())
	assert.Equal(t, 4, md.VertexCount())
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, md.Indices)
	assert.True(t, md.HasNormals())
	assert.True(t, md.HasTexCoords())
	assert.False(t, md.HasColors())
	assert.Equal(t, []float32{0, 0, 1, 0, 1, 1, 0, 1}, md.TexCoords)
	assert.Equal(t, []float32{0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1}, md.Normals)
}

func TestDecodeGroups(t *testing.T) {
	dec, err := Decode(strings.NewReader(twoGroupsObj))
	require.NoError(t, err)
	require.Len(t, dec.Objects, 3)

	gps := dec.Groups()
	require.Len(t, gps, 2)
	assert.Equal(t, "default", gps[0].Name)
	assert.Equal(t, "Second Part", gps[1].Name)
	assert.Equal(t, []float32{5, 5, 5, 6, 5, 5, 6, 6, 5}, gps[1].Mesh.Positions)
	assert.Equal(t, []uint32{0, 1, 2}, gps[1].Mesh.Indices)
	assert.False(t, gps[1].Mesh.HasNormals())
	assert.False(t, gps[1].Mesh.HasTexCoords())

	md := dec.Mesh()
	assert.Equal(t, 6, md.VertexCount())
	assert.Equal(t, []uint32{0, 1, 2, 3, 4, 5}, md.Indices)
}

func TestDecodeSharedVertices(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 0\nf 1 2 3\nf 1 3 4\n"
	dec, err := Decode(strings.NewReader(src))
	require.NoError(t, err)
	md := dec.Mesh()
	assert.Equal(t, 4, md.VertexCount())
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, md.Indices)
}

func TestDecodeMixedNormals(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 1 1 0\nvn 0 0 1\nf 1//1 2 3//1\n"
	dec, err := Decode(strings.NewReader(src))
	require.NoError(t, err)
	md := dec.Mesh()
	assert.Equal(t, []float32{0, 0, 1, 0, 0, 0, 0, 0, 1}, md.Normals)
	assert.False(t, md.HasTexCoords())
}

func TestDecodeErrors(t *testing.T) {
	for _, src := range []string{
		"v 0 0\n",
		"v 0 0 x\n",
		"v 0 0 0\nf 1 1\n",
		"v 0 0 0\nf 1 2 0\n",
		"v 0 0 0\nf 1 1 2\n",
		"v 0 0 0\nf 1/3 1 1\n",
		"v 0 0 0\nf -2 1 1\n",
		"mtllib\n",
		"usemtl\n",
	} {
		_, err := Decode(strings.NewReader(src))
		assert.ErrorIs(t, err, errFormat, src)
	}
	dec, err := Decode(strings.NewReader("v 0 0 0\nbogus 1\n"))
	require.NoError(t, err)
	assert.Len(t, dec.Warnings, 1)
}

func TestImporter(t *testing.T) {
	fsys := fstest.MapFS{
		"models/quad.obj": {Data: []byte(quadObj)},
		"models/bad.obj":  {Data: []byte("f 1 2 3\n")},
	}
	im := &Importer{FS: fsys}
	md, err := im.ImportMesh("models/quad.obj")
	require.NoError(t, err)
	assert.Equal(t, 4, md.VertexCount())

	_, err = im.ImportMesh("models/bad.obj")
	assert.ErrorIs(t, err, errFormat)
	_, err = im.ImportMesh("models/none.obj")
	assert.Error(t, err)

	gps, err := im.ImportGroups("models/quad.obj")
	require.NoError(t, err)
	require.Len(t, gps, 1)
	assert.Equal(t, "Quad", gps[0].Name)
	assert.Equal(t, md, gps[0].Mesh)

	def, ok := asset.MeshImporterFor("x/Y.OBJ")
	require.True(t, ok)
	_, ok = def.(*Importer)
	assert.True(t, ok)
}

func TestBareGroup(t *testing.T) {
	dec, err := Decode(strings.NewReader("g\nv 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\no\n"))
	require.NoError(t, err)
	require.Len(t, dec.Objects, 2)
	assert.Equal(t, "default", dec.Objects[0].Name)
	gps := dec.Groups()
	require.Len(t, gps, 1)
	assert.Equal(t, "default", gps[0].Name)
}

const boxesObj = `mtllib mats/boxes.mtl
usemtl red
v 0 0 0
v 1 0 0
v 1 1 0
f 1 2 3
o Blue
usemtl blue
usemtl red
f 1 2 3
o Plain
f 1 2 3
o Unknown
usemtl purple
f 1 2 3
o NoFaces
usemtl red
`

const boxesMtl = `# two materials
newmtl red
Kd 1 0 0
map_Kd -o 0.5 0.5 0 -clamp on red.png
newmtl blue
Kd 0 0 1
illum 2
`

func TestMaterials(t *testing.T) {
	fsys := fstest.MapFS{
		"models/boxes.obj":      {Data: []byte(boxesObj)},
		"models/mats/boxes.mtl": {Data: []byte(boxesMtl)},
		"models/nolib.obj":      {Data: []byte(strings.Replace(boxesObj, "mats/", "none/", 1))},
		"models/badlib.obj":     {Data: []byte(strings.Replace(boxesObj, "mats/boxes.mtl", "bad.mtl", 1))},
		"models/bad.mtl":        {Data: []byte("map_Kd red.png\n")},
	}
	im := &Importer{FS: fsys}
	dec, err := im.Open("models/boxes.obj")
	require.NoError(t, err)
	assert.Empty(t, dec.Warnings)
	assert.Equal(t, "mats/boxes.mtl", dec.Matlib)
	require.Len(t, dec.Materials, 2)
	assert.Equal(t, "red.png", dec.Materials["red"].MapKd)
	assert.Empty(t, dec.Materials["blue"].MapKd)
	require.Len(t, dec.Objects, 5)
	assert.Equal(t, "default", dec.Objects[0].Name)
	assert.Equal(t, "red", dec.Objects[0].Material)
	assert.Equal(t, "blue", dec.Objects[1].Material, "first material of the object")

	want := []asset.Material{
		{Group: "default", DiffuseMap: "red.png"},
		{Group: "Blue"},
		{Group: "Plain"},
		{Group: "Unknown"},
	}
	assert.Equal(t, want, dec.GroupMaterials())

	mats, err := im.ImportMaterials("models/boxes.obj")
	require.NoError(t, err)
	assert.Equal(t, want, mats)
	gps, err := im.ImportGroups("models/boxes.obj")
	require.NoError(t, err)
	require.Len(t, gps, len(mats))
	for i := range gps {
		assert.Equal(t, gps[i].Name, mats[i].Group)
	}

	// an unreadable library only warns
	for _, fn := range []string{"models/nolib.obj", "models/badlib.obj"} {
		dec, err = im.Open(fn)
		require.NoError(t, err, fn)
		assert.Len(t, dec.Warnings, 1, fn)
		assert.Equal(t, 3, dec.Mesh().VertexCount())
		mats, err = im.ImportMaterials(fn)
		require.NoError(t, err, fn)
		assert.Empty(t, mats[0].DiffuseMap, fn)
	}

	_, err = im.ImportMaterials("models/none.obj")
	assert.Error(t, err)
	rg := asset.NewRegistry()
	rg.Meshes[".obj"] = im
	mats, err = rg.ImportMaterials("models/boxes.obj")
	require.NoError(t, err)
	assert.Equal(t, want, mats)
}

func TestEmpty(t *testing.T) {
	dec, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	md := dec.Mesh()
	assert.NotNil(t, md.Indices)
	assert.Zero(t, md.VertexCount())
	assert.NoError(t, md.Validate())
	assert.Empty(t, dec.Groups())
}
