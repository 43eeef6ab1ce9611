// Copyright 2019 Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Initially copied from G3N: github.com/g3n/engine/math32
// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
// with modifications needed to suit Cogent Core functionality.

package math32

import "github.com/go-gl/mathgl/mgl32"

// Box3 represents a 3D bounding box defined by two points:
// the point with minimum coordinates and the point with maximum coordinates.
// The empty box has Min = +Infinity and Max = -Infinity on every axis,
// so that expanding it by any point yields a zero-extent box at that point.
type Box3 struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// B3 returns a new [Box3] from the given minimum and maximum x, y, and z coordinates.
func B3(x0, y0, z0, x1, y1, z1 float32) Box3 {
	return Box3{Vec3(x0, y0, z0), Vec3(x1, y1, z1)}
}

// B3Empty returns a new [Box3] with empty minimum and maximum values.
func B3Empty() Box3 {
	bx := Box3{}
	bx.SetEmpty()
	return bx
}

// SetEmpty set this bounding box to empty (min / max +/- Infinity)
func (b *Box3) SetEmpty() {
	b.Min = Vec3Scalar(Infinity)
	b.Max = Vec3Scalar(-Infinity)
}

// IsEmpty returns true if this bounding box is empty (max < min on any coord).
func (b Box3) IsEmpty() bool {
	return (b.Max[0] < b.Min[0]) || (b.Max[1] < b.Min[1]) || (b.Max[2] < b.Min[2])
}

// ExpandByPoints may expand this bounding box from the specified array of points.
func (b *Box3) ExpandByPoints(points []mgl32.Vec3) {
	for i := 0; i < len(points); i++ {
		b.ExpandByPoint(points[i])
	}
}

// ExpandByPoint may expand this bounding box to include the specified point.
func (b *Box3) ExpandByPoint(point mgl32.Vec3) {
	b.Min = MinVec3(b.Min, point)
	b.Max = MaxVec3(b.Max, point)
}

// ExpandByBox may expand this bounding box to include the specified box.
// Expanding by an empty box is a no-op.
func (b *Box3) ExpandByBox(box Box3) {
	if box.IsEmpty() {
		return
	}
	b.ExpandByPoint(box.Min)
	b.ExpandByPoint(box.Max)
}

// Center returns the center of the bounding box.
func (b Box3) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size calculates the size of this bounding box: the vector from
// its minimum point to its maximum point.
// The size of an empty box is the zero vector.
func (b Box3) Size() mgl32.Vec3 {
	if b.IsEmpty() {
		return mgl32.Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// ContainsPoint returns if this bounding box contains the specified point.
func (b Box3) ContainsPoint(point mgl32.Vec3) bool {
	if point[0] < b.Min[0] || point[0] > b.Max[0] ||
		point[1] < b.Min[1] || point[1] > b.Max[1] ||
		point[2] < b.Min[2] || point[2] > b.Max[2] {
		return false
	}
	return true
}

// MulMatrix4 returns the axis-aligned box containing this box
// transformed by the given matrix, by transforming all 8 corners.
func (b Box3) MulMatrix4(m *mgl32.Mat4) Box3 {
	if b.IsEmpty() {
		return b
	}
	nb := B3Empty()
	for i := 0; i < 8; i++ {
		c := b.Min
		if i&1 != 0 {
			c[0] = b.Max[0]
		}
		if i&2 != 0 {
			c[1] = b.Max[1]
		}
		if i&4 != 0 {
			c[2] = b.Max[2]
		}
		nb.ExpandByPoint(mgl32.TransformCoordinate(c, *m))
	}
	return nb
}
