// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asset

import (
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

// MeshData holds the raw buffers of one indexed triangle mesh, as produced
// by a mesh importer and as stored in a mesh cache record.
// All per-vertex arrays are flat, with a fixed number of floats per vertex.
// The optional arrays are present when non-nil, even if empty.
type MeshData struct {

	// Positions holds 3 floats (X, Y, Z) per vertex.
	Positions []float32

	// Indices holds 3 vertex indexes per triangle.
	Indices []uint32

	// Normals holds 3 floats per vertex, if present.
	Normals []float32

	// TexCoords holds 2 floats (U, V) per vertex, if present.
	TexCoords []float32

	// Colors holds 4 floats (R, G, B, A) per vertex, if present.
	Colors []float32
}

// VertexCount returns the number of vertices in the mesh.
func (md *MeshData) VertexCount() int {
	return len(md.Positions) / 3
}

// IndexCount returns the number of indices in the mesh.
func (md *MeshData) IndexCount() int {
	return len(md.Indices)
}

// HasNormals returns whether the mesh has per-vertex normals.
func (md *MeshData) HasNormals() bool {
	return md.Normals != nil
}

// HasTexCoords returns whether the mesh has per-vertex texture coordinates.
func (md *MeshData) HasTexCoords() bool {
	return md.TexCoords != nil
}

// HasColors returns whether the mesh has per-vertex RGBA colors.
func (md *MeshData) HasColors() bool {
	return md.Colors != nil
}

// Position returns the position of the vertex at the given index.
func (md *MeshData) Position(i int) mgl32.Vec3 {
	return mgl32.Vec3{md.Positions[3*i], md.Positions[3*i+1], md.Positions[3*i+2]}
}

// Validate checks that all of the array lengths are consistent with the
// vertex count, returning an error wrapping [ErrInvalid] if not.
// Index values are not range checked against the vertex count.
func (md *MeshData) Validate() error {
	if len(md.Positions)%3 != 0 {
		return fmt.Errorf("%w: %d position floats is not a multiple of 3", ErrInvalid, len(md.Positions))
	}
	nv := md.VertexCount()
	if md.Normals != nil && len(md.Normals) != nv*3 {
		return fmt.Errorf("%w: %d normal floats for %d vertices", ErrInvalid, len(md.Normals), nv)
	}
	if md.TexCoords != nil && len(md.TexCoords) != nv*2 {
		return fmt.Errorf("%w: %d texcoord floats for %d vertices", ErrInvalid, len(md.TexCoords), nv)
	}
	if md.Colors != nil && len(md.Colors) != nv*4 {
		return fmt.Errorf("%w: %d color floats for %d vertices", ErrInvalid, len(md.Colors), nv)
	}
	return nil
}

// Clone returns a deep copy of the mesh data, preserving nil-ness of
// the optional arrays.
func (md *MeshData) Clone() *MeshData {
	return &MeshData{
		Positions: slices.Clone(md.Positions),
		Indices:   slices.Clone(md.Indices),
		Normals:   slices.Clone(md.Normals),
		TexCoords: slices.Clone(md.TexCoords),
		Colors:    slices.Clone(md.Colors),
	}
}
