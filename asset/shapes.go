// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asset

import (
	"fmt"
	"strings"

	"cogentcore.org/scene3d/math32"
)

// Primitives are the built-in shapes that can be created without
// importing a file.
type Primitives int32

const (
	Triangle Primitives = iota
	Square
	Rectangle
	Cube
	Pyramid
	Sphere

	PrimitivesN
)

var primitiveNames = [...]string{"Triangle", "Square", "Rectangle", "Cube", "Pyramid", "Sphere"}

func (p Primitives) String() string {
	if p < 0 || p >= PrimitivesN {
		return fmt.Sprintf("Primitives(%d)", int32(p))
	}
	return primitiveNames[p]
}

// PrimitiveByName returns the primitive with the given name,
// matched case-insensitively.
func PrimitiveByName(name string) (Primitives, error) {
	for i, nm := range primitiveNames {
		if strings.EqualFold(nm, name) {
			return Primitives(i), nil
		}
	}
	return 0, fmt.Errorf("asset: unknown primitive %q", name)
}

// Mesh returns a new mesh for the primitive, centered on the origin.
// It returns nil for an unknown primitive.
func (p Primitives) Mesh() *MeshData {
	switch p {
	case Triangle:
		return NewTriangle()
	case Square:
		return NewPlane(1, 1)
	case Rectangle:
		return NewPlane(2, 1)
	case Cube:
		return NewBox(1, 1, 1)
	case Pyramid:
		return NewPyramid()
	case Sphere:
		return NewSphere(0.5, 32, 16)
	}
	return nil
}

// NewTriangle returns a single triangle in the XY plane facing +Z.
func NewTriangle() *MeshData {
	return &MeshData{
		Positions: []float32{-0.5, -0.5, 0, 0.5, -0.5, 0, 0, 0.5, 0},
		Indices:   []uint32{0, 1, 2},
		Normals:   []float32{0, 0, 1, 0, 0, 1, 0, 0, 1},
		TexCoords: []float32{0, 0, 1, 0, 0.5, 1},
	}
}

// NewPlane returns a width by height quad in the XY plane facing +Z.
func NewPlane(width, height float32) *MeshData {
	hw, hh := width/2, height/2
	return &MeshData{
		Positions: []float32{-hw, -hh, 0, hw, -hh, 0, hw, hh, 0, -hw, hh, 0},
		Indices:   []uint32{0, 1, 2, 0, 2, 3},
		Normals:   []float32{0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1},
		TexCoords: []float32{0, 0, 1, 0, 1, 1, 0, 1},
	}
}

// NewBox returns an axis-aligned box with the given size, with
// separate vertices per face so each face has its own normal.
func NewBox(width, height, depth float32) *MeshData {
	hw, hh, hd := width/2, height/2, depth/2
	// each face: normal, then 4 corners counter-clockwise seen from outside
	faces := [6]struct {
		n  [3]float32
		cs [4][3]float32
	}{
		{[3]float32{0, 0, 1}, [4][3]float32{{-hw, -hh, hd}, {hw, -hh, hd}, {hw, hh, hd}, {-hw, hh, hd}}},
		{[3]float32{0, 0, -1}, [4][3]float32{{hw, -hh, -hd}, {-hw, -hh, -hd}, {-hw, hh, -hd}, {hw, hh, -hd}}},
		{[3]float32{1, 0, 0}, [4][3]float32{{hw, -hh, hd}, {hw, -hh, -hd}, {hw, hh, -hd}, {hw, hh, hd}}},
		{[3]float32{-1, 0, 0}, [4][3]float32{{-hw, -hh, -hd}, {-hw, -hh, hd}, {-hw, hh, hd}, {-hw, hh, -hd}}},
		{[3]float32{0, 1, 0}, [4][3]float32{{-hw, hh, hd}, {hw, hh, hd}, {hw, hh, -hd}, {-hw, hh, -hd}}},
		{[3]float32{0, -1, 0}, [4][3]float32{{-hw, -hh, -hd}, {hw, -hh, -hd}, {hw, -hh, hd}, {-hw, -hh, hd}}},
	}
	md := &MeshData{
		Positions: make([]float32, 0, 24*3),
		Indices:   make([]uint32, 0, 36),
		Normals:   make([]float32, 0, 24*3),
		TexCoords: make([]float32, 0, 24*2),
	}
	uvs := []float32{0, 0, 1, 0, 1, 1, 0, 1}
	for fi, f := range faces {
		for _, c := range f.cs {
			md.Positions = append(md.Positions, c[:]...)
			md.Normals = append(md.Normals, f.n[:]...)
		}
		md.TexCoords = append(md.TexCoords, uvs...)
		st := uint32(fi * 4)
		md.Indices = append(md.Indices, st, st+1, st+2, st, st+2, st+3)
	}
	return md
}

// NewPyramid returns a square-based pyramid with unit base and height,
// with its apex on +Y.
func NewPyramid() *MeshData {
	return &MeshData{
		Positions: []float32{
			-0.5, -0.5, 0.5, // front-left
			0.5, -0.5, 0.5, // front-right
			0.5, -0.5, -0.5, // back-right
			-0.5, -0.5, -0.5, // back-left
			0, 0.5, 0, // apex
		},
		Indices: []uint32{
			0, 2, 1, 0, 3, 2, // base
			0, 1, 4,
			1, 2, 4,
			2, 3, 4,
			3, 0, 4,
		},
		TexCoords: []float32{0, 0, 1, 0, 1, 1, 0, 1, 0.5, 0.5},
	}
}

// NewSphere returns a UV sphere with the given radius and number of
// segments around the width and along the height.
func NewSphere(radius float32, widthSegs, heightSegs int) *MeshData {
	widthSegs = max(widthSegs, 3)
	heightSegs = max(heightSegs, 2)
	nv := (widthSegs + 1) * (heightSegs + 1)
	md := &MeshData{
		Positions: make([]float32, 0, nv*3),
		Indices:   make([]uint32, 0, widthSegs*heightSegs*6),
		Normals:   make([]float32, 0, nv*3),
		TexCoords: make([]float32, 0, nv*2),
	}
	for y := 0; y <= heightSegs; y++ {
		v := float32(y) / float32(heightSegs)
		elev := v * math32.Pi
		for x := 0; x <= widthSegs; x++ {
			u := float32(x) / float32(widthSegs)
			ang := u * 2 * math32.Pi
			nx := -math32.Cos(ang) * math32.Sin(elev)
			ny := math32.Cos(elev)
			nz := math32.Sin(ang) * math32.Sin(elev)
			md.Positions = append(md.Positions, radius*nx, radius*ny, radius*nz)
			md.Normals = append(md.Normals, nx, ny, nz)
			md.TexCoords = append(md.TexCoords, u, v)
		}
	}
	row := uint32(widthSegs + 1)
	for y := 0; y < heightSegs; y++ {
		for x := 0; x < widthSegs; x++ {
			v1 := uint32(y)*row + uint32(x) + 1
			v2 := uint32(y)*row + uint32(x)
			v3 := uint32(y+1)*row + uint32(x)
			v4 := uint32(y+1)*row + uint32(x) + 1
			if y != 0 {
				md.Indices = append(md.Indices, v1, v2, v4)
			}
			if y != heightSegs-1 {
				md.Indices = append(md.Indices, v2, v3, v4)
			}
		}
	}
	return md
}

// CheckerSize is the default size of [CheckerTexture].
const CheckerSize = 8

// CheckerTexture returns a black and white checkerboard texture with
// one pixel per square, used when an entity has no texture of its own.
func CheckerTexture(width, height int) *TextureData {
	td := &TextureData{Width: uint32(width), Height: uint32(height), Format: FormatRGBA8}
	td.Pixels = make([]byte, width*height*4)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := (y*width + x) * 4
			var c byte = 255
			if (x%2 == 0) != (y%2 == 0) {
				c = 0
			}
			td.Pixels[i], td.Pixels[i+1], td.Pixels[i+2], td.Pixels[i+3] = c, c, c, 255
		}
	}
	return td
}
