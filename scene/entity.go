// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scene provides the scene graph: a tree of [Entity] nodes, each
// with optional components (transform, mesh, texture, camera), hierarchy
// operations that preserve world transforms across reparenting, and
// world-space bounds computation.
//
// Everything in this package is single-threaded: callers must not
// mutate a tree while another goroutine is using it, and must not
// mutate it from within a walk callback.
package scene

import (
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Entity is a node in the scene graph. It exclusively owns its children
// and components; the parent reference is non-owning.
type Entity struct {

	// ID uniquely identifies the entity within the process. It is never 0.
	ID uint64

	// Name is the display name of the entity, which need not be unique.
	Name string

	// Active gates the update and draw of this entity only;
	// it does not affect its descendants.
	Active bool

	parent     *Entity
	children   []*Entity
	components [KindsN]Component
	destroyed  bool
}

// NewID returns a new random non-zero entity ID.
func NewID() uint64 {
	for {
		if id := rand.Uint64(); id != 0 {
			return id
		}
	}
}

// NewEntity returns a new active entity with the given name,
// a new ID, an identity [Transform], and no parent.
func NewEntity(name string) *Entity {
	e := NewEmpty(name)
	e.SetComponent(NewTransform())
	return e
}

// NewEmpty returns a new active entity with the given name,
// a new ID, and no components.
func NewEmpty(name string) *Entity {
	return &Entity{ID: NewID(), Name: name, Active: true}
}

func (e *Entity) String() string {
	return e.Path()
}

// Parent returns the parent of the entity, or nil if it is a root.
func (e *Entity) Parent() *Entity {
	return e.parent
}

// IsRoot returns whether the entity has no parent.
func (e *Entity) IsRoot() bool {
	return e.parent == nil
}

// Destroyed returns whether the entity has been destroyed by
// [DetachChild] on it or an ancestor.
func (e *Entity) Destroyed() bool {
	return e.destroyed
}

// Children returns the children of the entity in insertion order.
// The returned slice must not be modified.
func (e *Entity) Children() []*Entity {
	return e.children
}

// NumChildren returns the number of children of the entity.
func (e *Entity) NumChildren() int {
	return len(e.children)
}

// Child returns the child at the given index, or nil
// if the index is out of range.
func (e *Entity) Child(i int) *Entity {
	if i < 0 || i >= len(e.children) {
		return nil
	}
	return e.children[i]
}

// ChildByID returns the direct child with the given ID, or nil.
func (e *Entity) ChildByID(id uint64) *Entity {
	if i := e.childIndex(id); i >= 0 {
		return e.children[i]
	}
	return nil
}

func (e *Entity) childIndex(id uint64) int {
	return slices.IndexFunc(e.children, func(c *Entity) bool { return c.ID == id })
}

// IndexInParent returns the index of the entity in its parent's
// children, or -1 if it has no parent.
func (e *Entity) IndexInParent() int {
	if e.parent == nil {
		return -1
	}
	return e.parent.childIndex(e.ID)
}

// Root returns the root of the tree that the entity is in.
func (e *Entity) Root() *Entity {
	r := e
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Depth returns the number of ancestors of the entity.
func (e *Entity) Depth() int {
	d := 0
	for p := e.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

// Path returns the names of the entity and its ancestors from
// the root down, separated by / delimiters. Any / characters
// in names are escaped to \\
func (e *Entity) Path() string {
	var names []string
	WalkUp(e, func(a *Entity) bool {
		names = append(names, strings.ReplaceAll(a.Name, "/", `\\`))
		return Continue
	})
	slices.Reverse(names)
	return "/" + strings.Join(names, "/")
}

// FindByID returns the entity with the given ID in the subtree
// rooted at the entity, including itself, or nil.
func (e *Entity) FindByID(id uint64) *Entity {
	var found *Entity
	WalkDown(e, func(d *Entity) bool {
		if found != nil {
			return Break
		}
		if d.ID == id {
			found = d
			return Break
		}
		return Continue
	})
	return found
}

// FindByName returns the first entity in pre-order with the given name
// in the subtree rooted at the entity, including itself, or nil.
func (e *Entity) FindByName(name string) *Entity {
	var found *Entity
	WalkDown(e, func(d *Entity) bool {
		if found != nil {
			return Break
		}
		if d.Name == name {
			found = d
			return Break
		}
		return Continue
	})
	return found
}

// Components:

// Component returns the component of the given kind, or nil.
func (e *Entity) Component(kind Kinds) Component {
	if kind < 0 || kind >= KindsN {
		return nil
	}
	return e.components[kind]
}

// SetComponent attaches the given component to the entity, replacing
// any existing component of the same kind, which is returned.
func (e *Entity) SetComponent(c Component) Component {
	k := c.Kind()
	old := e.components[k]
	e.components[k] = c
	return old
}

// RemoveComponent detaches and returns the component of the given kind, if any.
func (e *Entity) RemoveComponent(kind Kinds) Component {
	old := e.Component(kind)
	if old != nil {
		e.components[kind] = nil
	}
	return old
}

// Components returns the attached components in kind order.
func (e *Entity) Components() []Component {
	var cs []Component
	for _, c := range e.components {
		if c != nil {
			cs = append(cs, c)
		}
	}
	return cs
}

// Transform returns the transform component, or nil.
func (e *Entity) Transform() *Transform {
	c, _ := e.components[KindTransform].(*Transform)
	return c
}

// Mesh returns the mesh component, or nil.
func (e *Entity) Mesh() *Mesh {
	c, _ := e.components[KindMesh].(*Mesh)
	return c
}

// Texture returns the texture component, or nil.
func (e *Entity) Texture() *Texture {
	c, _ := e.components[KindTexture].(*Texture)
	return c
}

// Camera returns the camera component, or nil.
func (e *Entity) Camera() *Camera {
	c, _ := e.components[KindCamera].(*Camera)
	return c
}

// LocalMatrix returns the local transform matrix of the entity,
// which is identity if it has no [Transform].
func (e *Entity) LocalMatrix() mgl32.Mat4 {
	if tr := e.Transform(); tr != nil {
		return tr.Matrix()
	}
	return mgl32.Ident4()
}

// WorldMatrix returns the world transform matrix of the entity: the
// product of the local matrices of the root down to the entity.
// It is computed on demand.
func (e *Entity) WorldMatrix() mgl32.Mat4 {
	var chain []*Entity
	for a := e; a != nil; a = a.parent {
		chain = append(chain, a)
	}
	m := mgl32.Ident4()
	for i := len(chain) - 1; i >= 0; i-- {
		m = m.Mul4(chain[i].LocalMatrix())
	}
	return m
}
