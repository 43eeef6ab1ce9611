// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"fmt"

	"cogentcore.org/scene3d/asset"
	"cogentcore.org/scene3d/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Kinds are the kinds of components an [Entity] can have.
// An entity has at most one component of each kind.
type Kinds int32

const (
	KindTransform Kinds = iota
	KindMesh
	KindTexture
	KindCamera

	KindsN
)

var kindNames = [...]string{"Transform", "Mesh", "Texture", "Camera"}

func (k Kinds) String() string {
	if k < 0 || k >= KindsN {
		return fmt.Sprintf("Kinds(%d)", int32(k))
	}
	return kindNames[k]
}

// Component is a piece of data attached to an [Entity].
type Component interface {

	// Kind returns the kind of the component, which is
	// the slot it occupies on its entity.
	Kind() Kinds

	// AsBase returns the common state of the component.
	AsBase() *ComponentBase
}

// ComponentBase is the common state embedded in every component.
type ComponentBase struct {

	// Active gates the use of the component, independent of the
	// active flag of its entity.
	Active bool
}

func (cb *ComponentBase) AsBase() *ComponentBase { return cb }

// Transform is the local position, rotation and scale of an entity,
// relative to its parent.
type Transform struct {
	ComponentBase

	Position mgl32.Vec3

	// Rotation is a unit quaternion.
	Rotation mgl32.Quat

	Scale mgl32.Vec3
}

// NewTransform returns a new identity transform.
func NewTransform() *Transform {
	return &Transform{
		ComponentBase: ComponentBase{Active: true},
		Rotation:      mgl32.QuatIdent(),
		Scale:         math32.Vec3Scalar(1),
	}
}

func (tr *Transform) Kind() Kinds { return KindTransform }

// Matrix returns the local transform matrix T * R * S.
func (tr *Transform) Matrix() mgl32.Mat4 {
	return math32.Compose(tr.Position, tr.Rotation, tr.Scale)
}

// SetMatrix sets the position, rotation and scale from the given matrix,
// with scale clamped to at least [math32.MinScale]. If the matrix cannot
// be decomposed, the transform is reset to identity and false is returned.
func (tr *Transform) SetMatrix(m mgl32.Mat4) bool {
	pos, rot, scale, ok := math32.Decompose(m)
	if !ok {
		tr.Reset()
		return false
	}
	tr.Position = pos
	tr.Rotation = rot
	tr.Scale = math32.ClampScale(scale, math32.MinScale)
	return true
}

// Reset sets the transform to identity.
func (tr *Transform) Reset() {
	tr.Position = mgl32.Vec3{}
	tr.Rotation = mgl32.QuatIdent()
	tr.Scale = math32.Vec3Scalar(1)
}

// SetEulerDegrees sets the rotation from the given Euler angles in degrees,
// applied in X, Y, Z order.
func (tr *Transform) SetEulerDegrees(x, y, z float32) {
	tr.Rotation = mgl32.AnglesToQuat(math32.DegToRad(z), math32.DegToRad(y), math32.DegToRad(x), mgl32.ZYX)
}

// Mesh is the geometry of an entity.
type Mesh struct {
	ComponentBase

	Data *asset.MeshData

	// Source is the file the mesh was imported from, if any.
	Source string
}

// NewMesh returns a new active mesh component for the given data.
func NewMesh(md *asset.MeshData, source string) *Mesh {
	return &Mesh{ComponentBase: ComponentBase{Active: true}, Data: md, Source: source}
}

func (ms *Mesh) Kind() Kinds { return KindMesh }

// Texture is the diffuse texture of an entity.
type Texture struct {
	ComponentBase

	Data *asset.TextureData

	// Source is the file the texture was imported from, if any.
	Source string
}

// NewTexture returns a new active texture component for the given data.
func NewTexture(td *asset.TextureData, source string) *Texture {
	return &Texture{ComponentBase: ComponentBase{Active: true}, Data: td, Source: source}
}

func (tx *Texture) Kind() Kinds { return KindTexture }

// Camera is a perspective camera looking down the -Z axis of
// its entity's world transform, with +Y up.
type Camera struct {
	ComponentBase

	// FOV is the vertical field of view in degrees.
	FOV float32

	Near float32
	Far  float32
}

// NewCamera returns a new active camera with default parameters.
func NewCamera() *Camera {
	return &Camera{ComponentBase: ComponentBase{Active: true}, FOV: 60, Near: 0.1, Far: 100}
}

func (cm *Camera) Kind() Kinds { return KindCamera }

// ViewMatrix returns the view matrix for the camera attached to the
// given entity, from the entity's world position and rotation.
func (cm *Camera) ViewMatrix(owner *Entity) mgl32.Mat4 {
	pos, rot, _, ok := math32.Decompose(owner.WorldMatrix())
	if !ok {
		rot = mgl32.QuatIdent()
	}
	front := rot.Rotate(mgl32.Vec3{0, 0, -1})
	up := rot.Rotate(mgl32.Vec3{0, 1, 0})
	return mgl32.LookAtV(pos, pos.Add(front), up)
}

// ProjectionMatrix returns the perspective projection matrix
// for a viewport of the given size.
func (cm *Camera) ProjectionMatrix(width, height int) mgl32.Mat4 {
	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}
	return mgl32.Perspective(math32.DegToRad(cm.FOV), aspect, cm.Near, cm.Far)
}
