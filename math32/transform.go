// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math32

import "github.com/go-gl/mathgl/mgl32"

// MinScale is the smallest scale component that a decomposed
// transform is allowed to have. Decomposition can produce zero or
// negative scales (mirrored or collapsed matrices); those are clamped
// up to this value.
const MinScale float32 = 0.001

// degenerateEpsilon is the threshold below which a basis vector length or
// matrix determinant is treated as zero.
const degenerateEpsilon float32 = 1e-12

// Compose returns the matrix T * R * S for the given position, rotation and
// scale: scale is applied first, then rotation, then translation.
func Compose(pos mgl32.Vec3, rot mgl32.Quat, scale mgl32.Vec3) mgl32.Mat4 {
	t := mgl32.Translate3D(pos[0], pos[1], pos[2])
	r := rot.Normalize().Mat4()
	s := mgl32.Scale3D(scale[0], scale[1], scale[2])
	return t.Mul4(r).Mul4(s)
}

// Inverse returns the inverse of m, and false if m is not invertible
// (zero determinant or non-finite values).
func Inverse(m mgl32.Mat4) (mgl32.Mat4, bool) {
	if !IsFiniteMat4(m) {
		return mgl32.Ident4(), false
	}
	det := m.Det()
	if Abs(det) < degenerateEpsilon || !IsFinite(det) {
		return mgl32.Ident4(), false
	}
	return m.Inv(), true
}

// IsFiniteMat4 returns true if every element of m is finite.
func IsFiniteMat4(m mgl32.Mat4) bool {
	for _, v := range m {
		if !IsFinite(v) {
			return false
		}
	}
	return true
}

// Decompose extracts the position, rotation and scale from the given affine
// matrix, returning false if the matrix is degenerate: non-finite, a
// projective matrix, or with a collapsed basis axis. Shear is removed by
// Gram-Schmidt orthogonalization of the basis. A mirrored basis (negative
// determinant) is reported with all scale components negated, so callers
// that need positive scale should apply [ClampScale].
func Decompose(m mgl32.Mat4) (pos mgl32.Vec3, rot mgl32.Quat, scale mgl32.Vec3, ok bool) {
	rot = mgl32.QuatIdent()
	scale = Vec3Scalar(1)
	if !IsFiniteMat4(m) || Abs(m[15]) < degenerateEpsilon {
		return
	}
	// projective matrices are not supported
	if Abs(m[3]) > 1e-6 || Abs(m[7]) > 1e-6 || Abs(m[11]) > 1e-6 {
		return
	}
	if m[15] != 1 {
		m = m.Mul(1 / m[15])
	}

	pos = mgl32.Vec3{m[12], m[13], m[14]}

	c0 := mgl32.Vec3{m[0], m[1], m[2]}
	c1 := mgl32.Vec3{m[4], m[5], m[6]}
	c2 := mgl32.Vec3{m[8], m[9], m[10]}

	sx := c0.Len()
	if sx < degenerateEpsilon {
		return
	}
	c0 = c0.Mul(1 / sx)

	c1 = c1.Sub(c0.Mul(c0.Dot(c1)))
	sy := c1.Len()
	if sy < degenerateEpsilon {
		return
	}
	c1 = c1.Mul(1 / sy)

	c2 = c2.Sub(c0.Mul(c0.Dot(c2)))
	c2 = c2.Sub(c1.Mul(c1.Dot(c2)))
	sz := c2.Len()
	if sz < degenerateEpsilon {
		return
	}
	c2 = c2.Mul(1 / sz)

	if c0.Dot(c1.Cross(c2)) < 0 {
		sx, sy, sz = -sx, -sy, -sz
		c0, c1, c2 = c0.Mul(-1), c1.Mul(-1), c2.Mul(-1)
	}

	q := mgl32.Mat4ToQuat(mgl32.Mat3FromCols(c0, c1, c2).Mat4())
	if q.Len() < degenerateEpsilon || !IsFinite(q.W) {
		return
	}
	rot = q.Normalize()
	scale = mgl32.Vec3{sx, sy, sz}
	ok = true
	return
}

// ClampScale returns s with every component raised to at least min.
func ClampScale(s mgl32.Vec3, min float32) mgl32.Vec3 {
	for i := range s {
		if s[i] < min || IsNaN(s[i]) {
			s[i] = min
		}
	}
	return s
}
