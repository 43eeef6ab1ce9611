// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asset

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"

	"github.com/hack-pad/hackpadfs"
)

// Cache records are little-endian with no padding and no version field:
//
//	mesh:    u32 vertexCount, u32 indexCount, u8 hasNormals, u8 hasTexCoords, u8 hasColors,
//	         f32 positions[vertexCount*3], u32 indices[indexCount],
//	         f32 normals[vertexCount*3]   (if hasNormals),
//	         f32 texCoords[vertexCount*2] (if hasTexCoords),
//	         f32 colors[vertexCount*4]    (if hasColors)
//	texture: u32 width, u32 height, u32 formatTag, u32 byteLength, u8 pixels[byteLength]
//
// Changing this layout invalidates every existing cache file.
const (
	// MeshHeaderSize is the size in bytes of a mesh record header.
	MeshHeaderSize = 4 + 4 + 1 + 1 + 1

	// TextureHeaderSize is the size in bytes of a texture record header.
	TextureHeaderSize = 4 * 4
)

var (
	// ErrCorrupt is returned when a cache record is truncated or its
	// header does not agree with the data that follows.
	ErrCorrupt = errors.New("asset: corrupt cache record")

	// ErrInvalid is returned when mesh or texture data has inconsistent
	// array lengths and cannot be written.
	ErrInvalid = errors.New("asset: invalid data")
)

// EncodeMesh returns the cache record encoding of the given mesh.
func EncodeMesh(md *MeshData) ([]byte, error) {
	if err := md.Validate(); err != nil {
		return nil, err
	}
	nv := md.VertexCount()
	ni := md.IndexCount()
	if uint64(nv) > math.MaxUint32 || uint64(ni) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: mesh too large for a cache record", ErrInvalid)
	}
	size := MeshHeaderSize + 4*(len(md.Positions)+ni+len(md.Normals)+len(md.TexCoords)+len(md.Colors))
	b := make([]byte, 0, size)
	b = binary.LittleEndian.AppendUint32(b, uint32(nv))
	b = binary.LittleEndian.AppendUint32(b, uint32(ni))
	b = append(b, boolByte(md.HasNormals()), boolByte(md.HasTexCoords()), boolByte(md.HasColors()))
	b = appendFloats(b, md.Positions)
	for _, ix := range md.Indices {
		b = binary.LittleEndian.AppendUint32(b, ix)
	}
	b = appendFloats(b, md.Normals)
	b = appendFloats(b, md.TexCoords)
	b = appendFloats(b, md.Colors)
	return b, nil
}

// DecodeMesh decodes a complete mesh cache record. The record must be
// exactly the size implied by its header: any short or over-long record
// is rejected as a whole with an error wrapping [ErrCorrupt].
func DecodeMesh(b []byte) (*MeshData, error) {
	if len(b) < MeshHeaderSize {
		return nil, fmt.Errorf("%w: mesh header truncated (%d bytes)", ErrCorrupt, len(b))
	}
	nv := uint64(binary.LittleEndian.Uint32(b[0:]))
	ni := uint64(binary.LittleEndian.Uint32(b[4:]))
	hasNorm, err := byteBool(b[8])
	if err != nil {
		return nil, err
	}
	hasTex, err := byteBool(b[9])
	if err != nil {
		return nil, err
	}
	hasColor, err := byteBool(b[10])
	if err != nil {
		return nil, err
	}
	floats := nv * 3
	if hasNorm {
		floats += nv * 3
	}
	if hasTex {
		floats += nv * 2
	}
	if hasColor {
		floats += nv * 4
	}
	want := MeshHeaderSize + 4*(floats+ni)
	if uint64(len(b)) != want {
		return nil, fmt.Errorf("%w: mesh record is %d bytes, header declares %d", ErrCorrupt, len(b), want)
	}
	d := b[MeshHeaderSize:]
	md := &MeshData{}
	md.Positions, d = readFloats(d, int(nv*3))
	md.Indices = make([]uint32, ni)
	for i := range md.Indices {
		md.Indices[i] = binary.LittleEndian.Uint32(d[4*i:])
	}
	d = d[4*ni:]
	if hasNorm {
		md.Normals, d = readFloats(d, int(nv*3))
	}
	if hasTex {
		md.TexCoords, d = readFloats(d, int(nv*2))
	}
	if hasColor {
		md.Colors, _ = readFloats(d, int(nv*4))
	}
	return md, nil
}

// WriteMesh writes the mesh cache record for the given mesh to the writer.
func WriteMesh(w io.Writer, md *MeshData) error {
	b, err := EncodeMesh(md)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// ReadMesh reads one complete mesh cache record from the reader,
// which must contain nothing else.
func ReadMesh(r io.Reader) (*MeshData, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return DecodeMesh(b)
}

// SaveMesh saves the mesh cache record for the given mesh to the given
// file in the given filesystem, creating or truncating it.
func SaveMesh(fsys hackpadfs.FS, filename string, md *MeshData) error {
	b, err := EncodeMesh(md)
	if err != nil {
		return err
	}
	return hackpadfs.WriteFullFile(fsys, filename, b, 0o644)
}

// OpenMesh opens the mesh cache record in the given file
// in the given filesystem.
func OpenMesh(fsys fs.FS, filename string) (*MeshData, error) {
	fp, err := fsys.Open(filename)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	return ReadMesh(bufio.NewReader(fp))
}

// EncodeTexture returns the cache record encoding of the given texture.
func EncodeTexture(td *TextureData) ([]byte, error) {
	if err := td.Validate(); err != nil {
		return nil, err
	}
	if uint64(len(td.Pixels)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: texture too large for a cache record", ErrInvalid)
	}
	b := make([]byte, 0, TextureHeaderSize+len(td.Pixels))
	b = binary.LittleEndian.AppendUint32(b, td.Width)
	b = binary.LittleEndian.AppendUint32(b, td.Height)
	b = binary.LittleEndian.AppendUint32(b, uint32(td.Format))
	b = binary.LittleEndian.AppendUint32(b, uint32(len(td.Pixels)))
	b = append(b, td.Pixels...)
	return b, nil
}

// DecodeTexture decodes a complete texture cache record, rejecting it with
// an error wrapping [ErrCorrupt] if the byte length disagrees with the
// data that follows or with the declared dimensions and format.
func DecodeTexture(b []byte) (*TextureData, error) {
	if len(b) < TextureHeaderSize {
		return nil, fmt.Errorf("%w: texture header truncated (%d bytes)", ErrCorrupt, len(b))
	}
	td := &TextureData{
		Width:  binary.LittleEndian.Uint32(b[0:]),
		Height: binary.LittleEndian.Uint32(b[4:]),
		Format: Formats(binary.LittleEndian.Uint32(b[8:])),
	}
	n := uint64(binary.LittleEndian.Uint32(b[12:]))
	if uint64(len(b)-TextureHeaderSize) != n {
		return nil, fmt.Errorf("%w: texture record has %d pixel bytes, header declares %d", ErrCorrupt, len(b)-TextureHeaderSize, n)
	}
	td.Pixels = make([]byte, n)
	copy(td.Pixels, b[TextureHeaderSize:])
	if err := td.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return td, nil
}

// WriteTexture writes the texture cache record for the given texture
// to the writer.
func WriteTexture(w io.Writer, td *TextureData) error {
	b, err := EncodeTexture(td)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// ReadTexture reads one complete texture cache record from the reader,
// which must contain nothing else.
func ReadTexture(r io.Reader) (*TextureData, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return DecodeTexture(b)
}

// SaveTexture saves the texture cache record for the given texture to the
// given file in the given filesystem, creating or truncating it.
func SaveTexture(fsys hackpadfs.FS, filename string, td *TextureData) error {
	b, err := EncodeTexture(td)
	if err != nil {
		return err
	}
	return hackpadfs.WriteFullFile(fsys, filename, b, 0o644)
}

// OpenTexture opens the texture cache record in the given file
// in the given filesystem.
func OpenTexture(fsys fs.FS, filename string) (*TextureData, error) {
	fp, err := fsys.Open(filename)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	return ReadTexture(bufio.NewReader(fp))
}

func boolByte(v bool) byte {
	if v {
		return 1
	}
	return 0
}

func byteBool(b byte) (bool, error) {
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, fmt.Errorf("%w: presence flag byte %#x", ErrCorrupt, b)
}

func appendFloats(b []byte, fs []float32) []byte {
	for _, f := range fs {
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(f))
	}
	return b
}

// readFloats reads n floats from the start of d, returning them and the
// remainder of d. The caller has checked the length.
func readFloats(d []byte, n int) ([]float32, []byte) {
	fs := make([]float32, n)
	for i := range fs {
		fs[i] = math.Float32frombits(binary.LittleEndian.Uint32(d[4*i:]))
	}
	return fs, d[4*n:]
}
