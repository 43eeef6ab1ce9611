// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"errors"
	"log/slog"
	"slices"

	"cogentcore.org/scene3d/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrCycle is returned by [TryReparent] when the new parent is the
// entity itself or one of its descendants.
var ErrCycle = errors.New("scene: reparent would create a cycle")

// AttachChild adds the given child at the end of the children of the
// given parent and sets its parent. If the child already has a parent it
// is first removed from that parent's children, without being destroyed.
// The local transform of the child is unchanged, so its world transform
// changes with the new parent; use [Reparent] to keep it.
//
// The caller must ensure that the child is not the parent or an ancestor
// of it (see [IsAncestorOf]); this is not checked.
func AttachChild(parent, child *Entity) {
	if child.parent != nil {
		child.parent.removeChild(child)
	}
	parent.children = append(parent.children, child)
	child.parent = parent
}

// DetachChild removes the direct child with the given ID from the
// given parent and destroys it and its entire subtree: components are
// released and every entity in the subtree is marked destroyed.
// It returns false if the parent has no such child.
func DetachChild(parent *Entity, id uint64) bool {
	i := parent.childIndex(id)
	if i < 0 {
		return false
	}
	child := parent.children[i]
	parent.children = slices.Delete(parent.children, i, i+1)
	child.parent = nil
	child.destroy()
	return true
}

// removeChild removes the given child from the children
// without destroying it, and clears its parent.
func (e *Entity) removeChild(child *Entity) {
	if i := slices.Index(e.children, child); i >= 0 {
		e.children = slices.Delete(e.children, i, i+1)
	}
	child.parent = nil
}

// destroy destroys the entity and all of its descendants.
func (e *Entity) destroy() {
	var all []*Entity
	WalkDown(e, func(d *Entity) bool {
		all = append(all, d)
		return Continue
	})
	for _, d := range all {
		d.children = nil
		d.parent = nil
		d.components = [KindsN]Component{}
		d.destroyed = true
	}
}

// Reparent moves the entity to be the last child of the given new parent,
// or makes it a root if newParent is nil, keeping its world transform
// unchanged by solving for a new local transform. It does nothing if
// newParent is already the parent.
//
// If the new local matrix cannot be decomposed, for example because the
// new parent has a collapsed scale, the entity gets an identity transform
// and a warning is logged; the move still happens. Decomposition removes
// shear and clamps scale to at least [math32.MinScale], so a world transform
// that needs either is only approximately preserved.
//
// The caller must ensure that newParent is not the entity or one of its
// descendants (see [IsAncestorOf] and [TryReparent]); this is not checked.
func Reparent(e, newParent *Entity) {
	if e.parent == newParent {
		return
	}
	oldWorld := e.WorldMatrix()
	if e.parent != nil {
		e.parent.removeChild(e)
	}
	if newParent != nil {
		AttachChild(newParent, e)
	}
	tr := e.Transform()
	if tr == nil {
		return
	}
	parWorld := mgl32.Ident4()
	if newParent != nil {
		parWorld = newParent.WorldMatrix()
	}
	inv, ok := math32.Inverse(parWorld)
	if ok {
		ok = tr.SetMatrix(inv.Mul4(oldWorld))
	}
	if !ok {
		tr.Reset()
		slog.Warn("scene.Reparent: degenerate transform, reset to identity", "entity", e.Path())
	}
}

// TryReparent is like [Reparent], but returns [ErrCycle] without doing
// anything if newParent is the entity or one of its descendants.
func TryReparent(e, newParent *Entity) error {
	if newParent == e || IsAncestorOf(e, newParent) {
		return ErrCycle
	}
	Reparent(e, newParent)
	return nil
}

// IsAncestorOf returns whether candidate is a strict ancestor of node:
// its parent, its parent's parent, and so on. An entity is not its own
// ancestor. It returns false if either is nil.
func IsAncestorOf(candidate, node *Entity) bool {
	if candidate == nil || node == nil {
		return false
	}
	return !WalkUpParent(node, func(a *Entity) bool {
		if a == candidate {
			return Break
		}
		return Continue
	})
}
