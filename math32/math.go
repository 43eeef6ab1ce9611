// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package math32 is a float32 based vector, matrix, and math package
// for 3D scene graph transforms. Vectors, quaternions and matrices
// are the [mgl32] types; this package adds bounding boxes, transform
// composition and decomposition, and scalar helpers.
package math32

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// These are mostly just wrappers around chewxy/math32, which has
// some optimized implementations.

// Mathematical constants.
const (
	Pi = math.Pi

	// DegToRadFactor is the number of radians per degree.
	DegToRadFactor = Pi / 180
)

// Infinity is positive infinity.
var Infinity = float32(math.Inf(1))

// DegToRad converts a number from degrees to radians
func DegToRad(degrees float32) float32 {
	return degrees * DegToRadFactor
}

// Abs returns the absolute value of x.
func Abs(x float32) float32 {
	return math32.Abs(x)
}

// Sqrt returns the square root of x.
func Sqrt(x float32) float32 {
	return math32.Sqrt(x)
}

// Sin returns the sine of the radian argument x.
func Sin(x float32) float32 {
	return math32.Sin(x)
}

// Cos returns the cosine of the radian argument x.
func Cos(x float32) float32 {
	return math32.Cos(x)
}

// IsInf reports whether f is an infinity, according to sign.
func IsInf(x float32, sign int) bool {
	return math32.IsInf(x, sign)
}

// IsNaN reports whether f is an IEEE 754 “not-a-number” value.
func IsNaN(x float32) bool {
	return math32.IsNaN(x)
}

// IsFinite returns true if x is neither an infinity nor NaN.
func IsFinite(x float32) bool {
	return !math32.IsInf(x, 0) && !math32.IsNaN(x)
}

// Max returns the larger of x or y.
func Max(x, y float32) float32 {
	return math32.Max(x, y)
}

// Min returns the smaller of x or y.
func Min(x, y float32) float32 {
	return math32.Min(x, y)
}

// Vec3 returns a new [mgl32.Vec3] with the given x, y and z components.
func Vec3(x, y, z float32) mgl32.Vec3 {
	return mgl32.Vec3{x, y, z}
}

// Vec3Scalar returns a new [mgl32.Vec3] with all components set to s.
func Vec3Scalar(s float32) mgl32.Vec3 {
	return mgl32.Vec3{s, s, s}
}

// MinVec3 returns the component-wise minimum of a and b.
func MinVec3(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{Min(a[0], b[0]), Min(a[1], b[1]), Min(a[2], b[2])}
}

// MaxVec3 returns the component-wise maximum of a and b.
func MaxVec3(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{Max(a[0], b[0]), Max(a[1], b[1]), Max(a[2], b[2])}
}

// MaxComponent returns the largest of the three components of v.
func MaxComponent(v mgl32.Vec3) float32 {
	return Max(v[0], Max(v[1], v[2]))
}
