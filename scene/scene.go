// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
)

// RootName is the name of the root entity of a new [Scene].
const RootName = "SceneRoot"

// Scene owns the root entity of a scene graph.
type Scene struct {

	// Root is the root of the scene graph. It has an identity
	// [Transform] and no parent.
	Root *Entity
}

// New returns a new scene with an empty root.
func New() *Scene {
	return &Scene{Root: NewEntity(RootName)}
}

// Add attaches the given entity as the last child of the root.
func (sc *Scene) Add(e *Entity) {
	AttachChild(sc.Root, e)
	slog.Debug("scene: entity added", "name", e.Name, "id", e.ID)
}

// Delete destroys the given entity and its subtree, removing it from
// its parent. The root cannot be deleted, and false is returned for it
// or for an entity that is not in a tree.
func (sc *Scene) Delete(e *Entity) bool {
	if e == nil || e == sc.Root || e.parent == nil {
		return false
	}
	return DetachChild(e.parent, e.ID)
}

// Visit calls the given function on every entity in the scene
// in depth-first pre-order (see [WalkDown]).
func (sc *Scene) Visit(fun func(e *Entity) bool) {
	WalkDown(sc.Root, fun)
}

// Find returns the entity with the given ID, or nil.
func (sc *Scene) Find(id uint64) *Entity {
	return sc.Root.FindByID(id)
}

// Count returns the number of entities in the scene, including the root.
func (sc *Scene) Count() int {
	n := 0
	sc.Visit(func(e *Entity) bool {
		n++
		return Continue
	})
	return n
}

// Drawable is an entity to be drawn, with its world matrix.
type Drawable struct {
	Entity *Entity
	World  mgl32.Mat4
	Mesh   *Mesh

	// Texture is nil if the entity has no active texture.
	Texture *Texture
}

// Drawables returns every active entity in the scene that has an active
// mesh with data, in pre-order. The active flag of an entity only
// affects that entity: the descendants of an inactive entity are
// still drawn if they are active themselves.
func (sc *Scene) Drawables() []Drawable {
	var ds []Drawable
	type item struct {
		e     *Entity
		world mgl32.Mat4
	}
	stack := []item{{sc.Root, sc.Root.LocalMatrix()}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		e := it.e
		if ms := e.Mesh(); e.Active && ms != nil && ms.Active && ms.Data != nil {
			d := Drawable{Entity: e, World: it.world, Mesh: ms}
			if tx := e.Texture(); tx != nil && tx.Active && tx.Data != nil {
				d.Texture = tx
			}
			ds = append(ds, d)
		}
		for i := len(e.children) - 1; i >= 0; i-- {
			c := e.children[i]
			stack = append(stack, item{c, it.world.Mul4(c.LocalMatrix())})
		}
	}
	return ds
}

// Camera returns the first active entity in pre-order with an active
// camera, or nil.
func (sc *Scene) Camera() *Entity {
	var found *Entity
	sc.Visit(func(e *Entity) bool {
		if found != nil {
			return Break
		}
		if cm := e.Camera(); e.Active && cm != nil && cm.Active {
			found = e
			return Break
		}
		return Continue
	})
	return found
}
