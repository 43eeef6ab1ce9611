// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"cogentcore.org/scene3d/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// ComputeWorldBounds returns the world-space axis-aligned bounding box of
// the vertex positions of every entity with a mesh in the subtree rooted
// at the given entity, including the root itself. Each position is
// transformed by its entity's world matrix, which includes the
// transforms of the root and its ancestors. Entities without a mesh
// contribute nothing, but their descendants are still included.
// If there are no mesh vertices, the result is empty (see [math32.Box3.IsEmpty]).
func ComputeWorldBounds(root *Entity) math32.Box3 {
	bb := math32.B3Empty()
	if root == nil {
		return bb
	}
	// pre-order, carrying the world matrix of each entity
	type item struct {
		e     *Entity
		world mgl32.Mat4
	}
	stack := []item{{root, root.WorldMatrix()}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		expandMesh(&bb, it.e, it.world)
		kids := it.e.children
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, item{kids[i], it.world.Mul4(kids[i].LocalMatrix())})
		}
	}
	return bb
}

// MeshWorldBounds returns the world-space axis-aligned bounding box of
// the vertex positions of the given entity's own mesh, without its
// descendants. It is empty if the entity has no mesh vertices.
func MeshWorldBounds(e *Entity) math32.Box3 {
	bb := math32.B3Empty()
	if e != nil {
		expandMesh(&bb, e, e.WorldMatrix())
	}
	return bb
}

// expandMesh expands bb by the mesh positions of e under the given world matrix.
func expandMesh(bb *math32.Box3, e *Entity, world mgl32.Mat4) {
	ms := e.Mesh()
	if ms == nil || ms.Data == nil {
		return
	}
	md := ms.Data
	for i := range md.VertexCount() {
		bb.ExpandByPoint(mgl32.TransformCoordinate(md.Position(i), world))
	}
}

// NormalizeScale scales the root of an imported subtree so that the
// largest extent of its world bounds is at most targetSize. If the
// largest extent exceeds targetSize, the current scale of the root's
// [Transform] is multiplied by targetSize / extent, and the factor and
// true are returned. Children are not rescaled. Nothing is done for empty
// bounds, bounds already within targetSize, or a root without a Transform.
func NormalizeScale(root *Entity, targetSize float32) (factor float32, applied bool) {
	tr := root.Transform()
	if tr == nil {
		return 1, false
	}
	bb := ComputeWorldBounds(root)
	if bb.IsEmpty() {
		return 1, false
	}
	extent := math32.MaxComponent(bb.Size())
	if extent <= targetSize || !math32.IsFinite(extent) {
		return 1, false
	}
	factor = targetSize / extent
	tr.Scale = tr.Scale.Mul(factor)
	return factor, true
}
