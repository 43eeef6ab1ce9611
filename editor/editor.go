// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package editor provides the scene editing operations behind the user
// interface of an editor: importing dropped files, creating and deleting
// entities, moving them by drag and drop, selection and play mode.
// The user interface itself is not part of this package.
package editor

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"cogentcore.org/scene3d/asset"
	"cogentcore.org/scene3d/config"
	"cogentcore.org/scene3d/scene"
)

var (
	// ErrRoot is returned for operations that cannot be applied
	// to the root of the scene.
	ErrRoot = errors.New("editor: cannot modify the scene root")

	// ErrNotInScene is returned for entities that are not in the scene.
	ErrNotInScene = errors.New("editor: entity is not in the scene")

	// ErrPlaying is returned for operations that conflict with play mode.
	ErrPlaying = errors.New("editor: play mode")
)

// Editor edits a scene, importing assets through a cache.
type Editor struct {

	// Scene is the scene being edited.
	Scene *scene.Scene

	// Cache is the asset import cache used for dropped files.
	Cache *asset.Cache

	// Config holds the editor options.
	Config *config.Config

	// Registry is used to classify dropped files by extension.
	// If nil, the [asset.DefaultRegistry] is used.
	Registry *asset.Registry

	// FS is the filesystem that dropped files are read from to detect
	// their type. If nil, the OS filesystem is used. The importers of
	// the Cache must read from the same filesystem.
	FS fs.FS

	selected *scene.Entity
	snapshot scene.Snapshot
	playing  bool
}

// New returns a new editor for the given scene and cache. If cfg is nil,
// the default config is used.
func New(sc *scene.Scene, cache *asset.Cache, cfg *config.Config) *Editor {
	if cfg == nil {
		cfg = config.Defaults()
	}
	return &Editor{Scene: sc, Cache: cache, Config: cfg}
}

// Select makes the given entity the selected one; nil clears the selection.
func (ed *Editor) Select(e *scene.Entity) {
	ed.selected = e
}

// Selected returns the selected entity, or nil if there is none
// or it has been destroyed.
func (ed *Editor) Selected() *scene.Entity {
	if ed.selected != nil && ed.selected.Destroyed() {
		ed.selected = nil
	}
	return ed.selected
}

// CreateEmpty adds a new entity with an identity transform and no other
// components as the last child of the given parent, or of the root if
// parent is nil, and selects it.
func (ed *Editor) CreateEmpty(name string, parent *scene.Entity) *scene.Entity {
	e := scene.NewEntity(name)
	ed.add(e, parent)
	slog.Info("editor: entity created", "name", name)
	return e
}

// CreatePrimitive adds a new entity with the mesh of the given primitive
// and a checker texture, as for [Editor.CreateEmpty].
func (ed *Editor) CreatePrimitive(p asset.Primitives, parent *scene.Entity) (*scene.Entity, error) {
	md := p.Mesh()
	if md == nil {
		return nil, fmt.Errorf("editor: unknown primitive %v", p)
	}
	e := scene.NewEntity(p.String())
	e.SetComponent(scene.NewMesh(md, ""))
	e.SetComponent(scene.NewTexture(asset.CheckerTexture(asset.CheckerSize, asset.CheckerSize), ""))
	ed.add(e, parent)
	slog.Info("editor: primitive created", "primitive", p)
	return e, nil
}

// Delete destroys the given entity and its subtree. It returns false
// for the root or an entity that is not in the scene.
func (ed *Editor) Delete(e *scene.Entity) bool {
	if e == nil || e.Root() != ed.Scene.Root {
		return false
	}
	name := e.Path()
	if !ed.Scene.Delete(e) {
		return false
	}
	slog.Info("editor: entity deleted", "entity", name)
	ed.Selected()
	return true
}

// DragDrop moves the given entity to be the last child of the target, or
// of the root if target is nil, keeping its world transform. It is
// rejected with [scene.ErrCycle] if the target is the entity or one of its
// descendants, and with [ErrRoot] for the root itself.
func (ed *Editor) DragDrop(e, target *scene.Entity) error {
	if e == ed.Scene.Root {
		return ErrRoot
	}
	if e == nil || e.Root() != ed.Scene.Root {
		return ErrNotInScene
	}
	if target == nil {
		target = ed.Scene.Root
	} else if target.Root() != ed.Scene.Root {
		return ErrNotInScene
	}
	if err := scene.TryReparent(e, target); err != nil {
		slog.Warn("editor: cannot move entity under itself", "entity", e.Path(), "target", target.Path())
		return err
	}
	slog.Debug("editor: entity moved", "entity", e.Path())
	return nil
}

// ApplyTexture sets the texture of the given entity to the given data,
// replacing any existing texture.
func (ed *Editor) ApplyTexture(e *scene.Entity, td *asset.TextureData, source string) {
	e.SetComponent(scene.NewTexture(td, source))
	slog.Info("editor: texture applied", "entity", e.Path(), "source", source)
}

// Play enters play mode, capturing the state of the scene
// so that [Editor.Stop] can restore it.
func (ed *Editor) Play() error {
	if ed.playing {
		return fmt.Errorf("%w: already playing", ErrPlaying)
	}
	ed.snapshot.Capture(ed.Scene.Root)
	ed.playing = true
	return nil
}

// Stop leaves play mode, restoring the state captured by [Editor.Play].
// Entities created during play are destroyed.
func (ed *Editor) Stop() error {
	if !ed.playing {
		return fmt.Errorf("%w: not playing", ErrPlaying)
	}
	ed.snapshot.Restore(ed.Scene.Root)
	ed.snapshot.Clear()
	ed.playing = false
	ed.Selected()
	return nil
}

// IsPlaying returns whether the editor is in play mode.
func (ed *Editor) IsPlaying() bool {
	return ed.playing
}

// add attaches e under the given parent or the root and selects it.
func (ed *Editor) add(e, parent *scene.Entity) {
	scene.AttachChild(ed.parentOr(parent), e)
	ed.Select(e)
}

func (ed *Editor) parentOr(parent *scene.Entity) *scene.Entity {
	if parent == nil || parent.Destroyed() {
		return ed.Scene.Root
	}
	return parent
}

func (ed *Editor) registry() *asset.Registry {
	if ed.Registry == nil {
		return asset.DefaultRegistry
	}
	return ed.Registry
}

// baseName returns the file name of the given path
// without its directory and extension.
func baseName(filename string) string {
	fn := filepath.Base(filename)
	return strings.TrimSuffix(fn, filepath.Ext(fn))
}
