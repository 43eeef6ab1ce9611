// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asset

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"testing"

	"github.com/hack-pad/hackpadfs"
	"github.com/hack-pad/hackpadfs/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testMesh returns a mesh with nv vertices and ni indices, with the
// optional arrays present according to the flags.
func testMesh(nv, ni int, norms, tex, colors bool) *MeshData {
	md := &MeshData{Positions: make([]float32, nv*3), Indices: make([]uint32, ni)}
	for i := range md.Positions {
		md.Positions[i] = float32(i) * 0.25
	}
	for i := range md.Indices {
		md.Indices[i] = uint32(i % max(nv, 1))
	}
	if norms {
		md.Normals = make([]float32, nv*3)
		for i := range md.Normals {
			md.Normals[i] = -float32(i)
		}
	}
	if tex {
		md.TexCoords = make([]float32, nv*2)
		for i := range md.TexCoords {
			md.TexCoords[i] = float32(i) / 8
		}
	}
	if colors {
		md.Colors = make([]float32, nv*4)
		for i := range md.Colors {
			md.Colors[i] = 1 / float32(i+1)
		}
	}
	return md
}

func TestMeshRoundTrip(t *testing.T) {
	for _, nv := range []int{0, 1, 4} {
		for flags := range 8 {
			norms, tex, colors := flags&1 != 0, flags&2 != 0, flags&4 != 0
			for _, ni := range []int{0, 6} {
				t.Run(fmt.Sprintf("v%d_i%d_n%v_t%v_c%v", nv, ni, norms, tex, colors), func(t *testing.T) {
					md := testMesh(nv, ni, norms, tex, colors)
					var buf bytes.Buffer
					require.NoError(t, WriteMesh(&buf, md))
					rd, err := ReadMesh(&buf)
					require.NoError(t, err)
					assert.Equal(t, md, rd)
					assert.Equal(t, norms, rd.HasNormals())
					assert.Equal(t, tex, rd.HasTexCoords())
					assert.Equal(t, colors, rd.HasColors())
				})
			}
		}
	}
}

func TestMeshTexCoordsOnly(t *testing.T) {
	md := &MeshData{
		Positions: []float32{-1, -1, 0, 1, -1, 0, 1, 1, 0, -1, 1, 0},
		Indices:   []uint32{0, 1, 2, 0, 2, 3},
		TexCoords: []float32{0, 0, 1, 0, 1, 1, 0, 1},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteMesh(&buf, md))
	b := buf.Bytes()
	assert.Len(t, b, MeshHeaderSize+4*(4*3+6+4*2))
	assert.Equal(t, []byte{4, 0, 0, 0, 6, 0, 0, 0, 0, 1, 0}, b[:MeshHeaderSize])

	rd, err := ReadMesh(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, 4, rd.VertexCount())
	assert.Equal(t, 6, rd.IndexCount())
	assert.Len(t, rd.Positions, 12)
	assert.Len(t, rd.TexCoords, 8)
	assert.False(t, rd.HasNormals())
	assert.True(t, rd.HasTexCoords())
	assert.False(t, rd.HasColors())
	assert.Equal(t, md, rd)
}

func TestMeshLayout(t *testing.T) {
	md := &MeshData{
		Positions: []float32{1, 2, 3},
		Indices:   []uint32{7},
		Colors:    []float32{0.5, 0.25, 0, 1},
	}
	b, err := EncodeMesh(md)
	require.NoError(t, err)

	le := binary.LittleEndian
	var want []byte
	want = le.AppendUint32(want, 1)
	want = le.AppendUint32(want, 1)
	want = append(want, 0, 0, 1)
	for _, f := range []float32{1, 2, 3} {
		want = le.AppendUint32(want, math.Float32bits(f))
	}
	want = le.AppendUint32(want, 7)
	for _, f := range []float32{0.5, 0.25, 0, 1} {
		want = le.AppendUint32(want, math.Float32bits(f))
	}
	assert.Equal(t, want, b)
}

func TestReadMeshTruncated(t *testing.T) {
	b, err := EncodeMesh(testMesh(4, 6, true, true, true))
	require.NoError(t, err)
	for n := range len(b) {
		_, err := DecodeMesh(b[:n])
		assert.ErrorIs(t, err, ErrCorrupt, "length %d", n)
	}
}

func TestReadMeshMalformed(t *testing.T) {
	b, err := EncodeMesh(testMesh(2, 3, false, true, false))
	require.NoError(t, err)

	_, err = DecodeMesh(append(bytes.Clone(b), 0))
	assert.ErrorIs(t, err, ErrCorrupt, "trailing byte")

	bad := bytes.Clone(b)
	bad[9] = 2
	_, err = DecodeMesh(bad)
	assert.ErrorIs(t, err, ErrCorrupt, "flag byte")

	// header claims normals that are not there
	bad = bytes.Clone(b)
	bad[8] = 1
	_, err = DecodeMesh(bad)
	assert.ErrorIs(t, err, ErrCorrupt, "missing normals")

	// huge counts must not allocate
	huge := binary.LittleEndian.AppendUint32(nil, math.MaxUint32)
	huge = binary.LittleEndian.AppendUint32(huge, math.MaxUint32)
	huge = append(huge, 1, 1, 1)
	_, err = DecodeMesh(huge)
	assert.ErrorIs(t, err, ErrCorrupt, "huge counts")
}

func TestWriteMeshInvalid(t *testing.T) {
	var buf bytes.Buffer
	err := WriteMesh(&buf, &MeshData{Positions: []float32{1, 2}})
	assert.ErrorIs(t, err, ErrInvalid)
	err = WriteMesh(&buf, &MeshData{Positions: []float32{1, 2, 3}, Normals: []float32{0, 1}})
	assert.ErrorIs(t, err, ErrInvalid)
	err = WriteMesh(&buf, &MeshData{Positions: []float32{1, 2, 3}, TexCoords: []float32{0}})
	assert.ErrorIs(t, err, ErrInvalid)
	err = WriteMesh(&buf, &MeshData{Positions: []float32{1, 2, 3}, Colors: []float32{0, 0, 0}})
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Zero(t, buf.Len())
}

func TestTextureRoundTrip(t *testing.T) {
	for _, sz := range [][2]uint32{{0, 0}, {1, 1}, {3, 2}, {8, 8}} {
		td := CheckerTexture(int(sz[0]), int(sz[1]))
		var buf bytes.Buffer
		require.NoError(t, WriteTexture(&buf, td))
		assert.Equal(t, TextureHeaderSize+len(td.Pixels), buf.Len())
		rd, err := ReadTexture(&buf)
		require.NoError(t, err)
		assert.Equal(t, td, rd)
	}
}

func TestTextureLayout(t *testing.T) {
	td := &TextureData{Width: 1, Height: 1, Format: FormatRGBA8, Pixels: []byte{1, 2, 3, 4}}
	b, err := EncodeTexture(td)
	require.NoError(t, err)
	assert.Equal(t, []byte{
		1, 0, 0, 0,
		1, 0, 0, 0,
		0x08, 0x19, 0, 0,
		4, 0, 0, 0,
		1, 2, 3, 4,
	}, b)
}

func TestReadTextureMalformed(t *testing.T) {
	b, err := EncodeTexture(CheckerTexture(4, 4))
	require.NoError(t, err)
	for n := range len(b) {
		_, err := DecodeTexture(b[:n])
		assert.ErrorIs(t, err, ErrCorrupt, "length %d", n)
	}
	_, err = DecodeTexture(append(bytes.Clone(b), 0))
	assert.ErrorIs(t, err, ErrCorrupt, "trailing byte")

	// byte length consistent with the data but not the dimensions
	bad := bytes.Clone(b)
	binary.LittleEndian.PutUint32(bad[0:], 5)
	_, err = DecodeTexture(bad)
	assert.ErrorIs(t, err, ErrCorrupt, "dimensions")

	bad = bytes.Clone(b)
	binary.LittleEndian.PutUint32(bad[8:], 1)
	_, err = DecodeTexture(bad)
	assert.ErrorIs(t, err, ErrCorrupt, "format")
}

func TestWriteTextureInvalid(t *testing.T) {
	var buf bytes.Buffer
	err := WriteTexture(&buf, &TextureData{Width: 2, Height: 2, Format: FormatRGBA8, Pixels: make([]byte, 15)})
	assert.ErrorIs(t, err, ErrInvalid)
	err = WriteTexture(&buf, &TextureData{Width: 1, Height: 1, Pixels: make([]byte, 4)})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestSaveOpen(t *testing.T) {
	fsys, err := mem.NewFS()
	require.NoError(t, err)
	require.NoError(t, hackpadfs.MkdirAll(fsys, "lib", 0o755))

	md := testMesh(3, 3, true, false, true)
	require.NoError(t, SaveMesh(fsys, "lib/a.rmesh", md))
	rd, err := OpenMesh(fsys, "lib/a.rmesh")
	require.NoError(t, err)
	assert.Equal(t, md, rd)

	td := CheckerTexture(CheckerSize, CheckerSize)
	require.NoError(t, SaveTexture(fsys, "lib/a.rtex", td))
	rt, err := OpenTexture(fsys, "lib/a.rtex")
	require.NoError(t, err)
	assert.Equal(t, td, rt)

	_, err = OpenMesh(fsys, "lib/none.rmesh")
	assert.Error(t, err)
}
