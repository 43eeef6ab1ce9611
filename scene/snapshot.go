// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"log/slog"

	"cogentcore.org/scene3d/base/errors"
	"github.com/jinzhu/copier"
)

// EntityState is the recorded state of one entity in a [Snapshot].
type EntityState struct {
	ID       uint64
	ParentID uint64
	Name     string
	Active   bool

	// Transform is a copy of the entity's transform, if HasTransform.
	Transform    Transform
	HasTransform bool

	// ComponentActive holds the active flag of each component kind
	// that the entity had, as indicated by HasComponent.
	ComponentActive [KindsN]bool
	HasComponent    [KindsN]bool
}

// Snapshot records the state of a tree so that it can be restored
// later, as when leaving play mode in an editor. It records the
// identity, name, active flag, transform and parent of every entity
// and the active flags of their components; mesh and texture data
// are not copied.
type Snapshot struct {
	states []EntityState
	index  map[uint64]int
}

// Capture records the state of the tree rooted at the given entity,
// replacing anything previously captured.
func (sn *Snapshot) Capture(root *Entity) {
	sn.Clear()
	WalkDown(root, func(e *Entity) bool {
		st := EntityState{ID: e.ID, Name: e.Name, Active: e.Active}
		if e != root && e.parent != nil {
			st.ParentID = e.parent.ID
		}
		if tr := e.Transform(); tr != nil {
			errors.Log(copier.CopyWithOption(&st.Transform, tr, copier.Option{DeepCopy: true}))
			st.HasTransform = true
		}
		for k, c := range e.components {
			if c != nil {
				st.HasComponent[k] = true
				st.ComponentActive[k] = c.AsBase().Active
			}
		}
		sn.index[e.ID] = len(sn.states)
		sn.states = append(sn.states, st)
		return Continue
	})
	slog.Info("scene: state captured", "entities", len(sn.states))
}

// Restore restores the tree rooted at the given entity to the captured
// state. Entities that were moved are put back under their captured
// parent, entities that were not captured are then destroyed with their
// subtrees, and the recorded fields are restored. A captured entity whose
// captured parent has been destroyed is moved under the root if it would
// otherwise be destroyed with a new entity. Captured entities that have
// been destroyed since cannot be brought back. It returns the number of
// entities destroyed. It does nothing if the snapshot is empty.
func (sn *Snapshot) Restore(root *Entity) int {
	if sn.IsEmpty() || root == nil {
		return 0
	}
	byID := map[uint64]*Entity{}
	WalkDown(root, func(e *Entity) bool {
		byID[e.ID] = e
		return Continue
	})
	// states are in pre-order, so parents are back in place before their children
	for _, st := range sn.states {
		e := byID[st.ID]
		if e == nil || st.ParentID == 0 || e == root {
			continue
		}
		p := byID[st.ParentID]
		if p == nil && sn.underCreated(e, root) {
			p = root
		}
		if p == nil || e.parent == p || p == e || IsAncestorOf(e, p) {
			continue
		}
		AttachChild(p, e)
	}

	var created []*Entity
	WalkDown(root, func(e *Entity) bool {
		if _, ok := sn.index[e.ID]; !ok && e != root {
			created = append(created, e)
			return Break
		}
		return Continue
	})
	removed := 0
	for _, e := range created {
		n := 0
		WalkDown(e, func(*Entity) bool { n++; return Continue })
		slog.Debug("scene: removing entity created after capture", "name", e.Name, "id", e.ID)
		if DetachChild(e.parent, e.ID) {
			removed += n
		}
	}

	restored := 0
	for _, st := range sn.states {
		if e := byID[st.ID]; e != nil && !e.destroyed {
			sn.restoreEntity(e, &st)
			restored++
		}
	}
	slog.Info("scene: state restored", "entities", restored, "removed", removed)
	return removed
}

// underCreated returns whether any ancestor of e below the root
// was not captured.
func (sn *Snapshot) underCreated(e, root *Entity) bool {
	found := false
	WalkUpParent(e, func(p *Entity) bool {
		if p == root {
			return Break
		}
		if _, ok := sn.index[p.ID]; !ok {
			found = true
			return Break
		}
		return Continue
	})
	return found
}

func (sn *Snapshot) restoreEntity(e *Entity, st *EntityState) {
	e.Name = st.Name
	e.Active = st.Active
	if tr := e.Transform(); tr != nil && st.HasTransform {
		errors.Log(copier.CopyWithOption(tr, &st.Transform, copier.Option{DeepCopy: true}))
	}
	for k, c := range e.components {
		if c != nil && st.HasComponent[k] {
			c.AsBase().Active = st.ComponentActive[k]
		}
	}
}

// State returns the captured state of the entity with the given ID.
func (sn *Snapshot) State(id uint64) (EntityState, bool) {
	i, ok := sn.index[id]
	if !ok {
		return EntityState{}, false
	}
	return sn.states[i], true
}

// Clear discards the captured state.
func (sn *Snapshot) Clear() {
	sn.states = nil
	sn.index = map[uint64]int{}
}

// IsEmpty returns whether nothing has been captured.
func (sn *Snapshot) IsEmpty() bool {
	return len(sn.states) == 0
}

// Len returns the number of captured entities.
func (sn *Snapshot) Len() int {
	return len(sn.states)
}
