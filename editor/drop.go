// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package editor

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"cogentcore.org/scene3d/asset"
	_ "cogentcore.org/scene3d/asset/obj"
	_ "cogentcore.org/scene3d/asset/texture"
	"cogentcore.org/scene3d/scene"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
)

// FileKinds is the kind of asset that a dropped file holds.
type FileKinds int32

const (
	// Unsupported is a file that cannot be imported.
	Unsupported FileKinds = iota

	// Model is a 3D model file, imported as meshes.
	Model

	// Image is an image file, imported as a texture.
	Image
)

func (k FileKinds) String() string {
	switch k {
	case Model:
		return "model"
	case Image:
		return "image"
	}
	return "unsupported"
}

// headSize is the number of leading bytes used to detect the file type.
const headSize = 262

// Classify returns the kind of the given file, from the importers
// registered for its extension and its first bytes. Binary content is
// detected by its signature and must be an image with a registered image
// extension; content that is not recognized, as for text formats like
// .obj, is classified by extension alone.
func Classify(rg *asset.Registry, filename string, head []byte) FileKinds {
	_, isModel := rg.MeshImporterFor(filename)
	_, isImage := rg.TextureImporterFor(filename)
	kind, _ := filetype.Match(head)
	switch {
	case kind == types.Unknown:
		if isModel {
			return Model
		}
		if isImage {
			return Image
		}
	case isImage && filetype.IsImage(head):
		return Image
	default:
		slog.Debug("editor: file content does not match its extension", "file", filename, "type", kind.MIME.Value)
	}
	return Unsupported
}

// DropFile imports the given file dropped onto the editor. A model is
// imported under the given parent, or the root if it is nil, and selected.
// An image textures the selected entity if there is one and
// [config.Config.DropSelectedTexture] is on, and is otherwise shown on a
// new quad under the parent. It returns the entity that was created or
// textured. On any failure the error is logged and returned, and the scene
// is unchanged; an unsupported file is reported as [asset.ErrUnsupported].
func (ed *Editor) DropFile(filename string, parent *scene.Entity) (*scene.Entity, error) {
	head, err := ed.readHead(filename)
	if err != nil {
		slog.Error("editor: cannot read dropped file", "file", filename, "err", err)
		return nil, err
	}
	switch kind := Classify(ed.registry(), filename, head); kind {
	case Model:
		return ed.ImportModel(filename, parent)
	case Image:
		return ed.ImportImage(filename, parent)
	}
	slog.Warn("editor: unsupported file dropped", "file", filename)
	return nil, fmt.Errorf("%w: %s", asset.ErrUnsupported, filename)
}

// ImportModel imports the given model file through the cache as a new
// entity named after the file, under the given parent or the root, and
// selects it. If [config.Config.SplitGroups] is on and the importer
// supports it, each object or group of the file with geometry becomes a
// child entity with its own mesh. Meshes get the diffuse texture of their
// material, if any; see [Editor.addTextures]. If [config.Config.Normalize]
// is on, the new entity is scaled down to fit in [config.Config.NormalizeSize].
func (ed *Editor) ImportModel(filename string, parent *scene.Entity) (*scene.Entity, error) {
	root := scene.NewEntity(baseName(filename))
	grouped := false
	if ed.Config.SplitGroups {
		gps, src, err := ed.Cache.ImportGroups(filename)
		switch {
		case err == nil:
			ed.addGroups(root, filename, gps)
			grouped = true
			slog.Debug("editor: model groups imported", "file", filename, "groups", len(gps), "from", src)
		case errors.Is(err, asset.ErrUnsupported):
			slog.Debug("editor: model has no groups, importing as one mesh", "file", filename)
		default:
			slog.Error("editor: cannot import model", "file", filename, "err", err)
			return nil, err
		}
	}
	if !grouped {
		md, src, err := ed.Cache.ImportMesh(filename)
		if err != nil {
			slog.Error("editor: cannot import model", "file", filename, "err", err)
			return nil, err
		}
		root.SetComponent(scene.NewMesh(md, filename))
		slog.Debug("editor: model imported", "file", filename, "from", src)
	}
	ed.addTextures(root, filename)
	ed.add(root, parent)
	if ed.Config.Normalize {
		if factor, ok := scene.NormalizeScale(root, ed.Config.NormalizeSize); ok {
			slog.Info("editor: model scaled to fit", "entity", root.Name, "factor", factor)
		}
	}
	slog.Info("editor: model added", "entity", root.Path(), "file", filename)
	return root, nil
}

// addGroups gives a single group mesh to root,
// and otherwise adds a child entity per group.
func (ed *Editor) addGroups(root *scene.Entity, filename string, gps []asset.MeshGroup) {
	if len(gps) == 1 {
		root.SetComponent(scene.NewMesh(gps[0].Mesh, filename))
		return
	}
	for i, gp := range gps {
		name := gp.Name
		if name == "" {
			name = fmt.Sprintf("%s_Mesh%d", root.Name, i)
		}
		e := scene.NewEntity(name)
		e.SetComponent(scene.NewMesh(gp.Mesh, filename))
		scene.AttachChild(root, e)
	}
}

// addTextures gives the meshes of a model the diffuse textures of their
// materials, loaded through the cache relative to the directory of the
// model file. A root mesh gets the first texture of the file; group
// children get the texture of their own group. A texture that cannot be
// loaded is logged and skipped.
func (ed *Editor) addTextures(root *scene.Entity, filename string) {
	mats, err := ed.Cache.ImportMaterials(filename)
	if err != nil {
		if !errors.Is(err, asset.ErrUnsupported) {
			slog.Warn("editor: cannot read model materials", "file", filename, "err", err)
		}
		return
	}
	if root.Mesh() != nil {
		for _, mt := range mats {
			if mt.DiffuseMap != "" {
				ed.loadTexture(root, ed.resolve(filename, mt.DiffuseMap))
				break
			}
		}
		return
	}
	for i, c := range root.Children() {
		if i < len(mats) && mats[i].DiffuseMap != "" {
			ed.loadTexture(c, ed.resolve(filename, mats[i].DiffuseMap))
		}
	}
}

func (ed *Editor) loadTexture(e *scene.Entity, filename string) {
	td, src, err := ed.Cache.ImportTexture(filename)
	if err != nil {
		slog.Warn("editor: failed to load texture", "entity", e.Name, "file", filename, "err", err)
		return
	}
	e.SetComponent(scene.NewTexture(td, filename))
	slog.Debug("editor: material texture loaded", "entity", e.Name, "file", filename, "from", src)
}

// resolve returns the path of a file referenced by the given model file.
func (ed *Editor) resolve(model, ref string) string {
	if ed.FS != nil {
		return path.Join(path.Dir(model), ref)
	}
	if filepath.IsAbs(ref) {
		return ref
	}
	return filepath.Join(filepath.Dir(model), ref)
}

// ImportImage imports the given image file through the cache as a texture.
// See [Editor.DropFile] for where it is applied.
func (ed *Editor) ImportImage(filename string, parent *scene.Entity) (*scene.Entity, error) {
	td, src, err := ed.Cache.ImportTexture(filename)
	if err != nil {
		slog.Error("editor: cannot import image", "file", filename, "err", err)
		return nil, err
	}
	slog.Debug("editor: image imported", "file", filename, "from", src)
	if sel := ed.Selected(); sel != nil && ed.Config.DropSelectedTexture {
		ed.ApplyTexture(sel, td, filename)
		return sel, nil
	}
	aspect := float32(1)
	if td.Width > 0 && td.Height > 0 {
		aspect = float32(td.Width) / float32(td.Height)
	}
	e := scene.NewEntity(baseName(filename))
	e.SetComponent(scene.NewMesh(asset.NewPlane(aspect, 1), ""))
	e.SetComponent(scene.NewTexture(td, filename))
	ed.add(e, parent)
	slog.Info("editor: image added", "entity", e.Path(), "file", filename)
	return e, nil
}

// readHead returns the first bytes of the given file.
func (ed *Editor) readHead(filename string) ([]byte, error) {
	var fp io.ReadCloser
	var err error
	if ed.FS != nil {
		fp, err = ed.FS.Open(filename)
	} else {
		fp, err = os.Open(filename)
	}
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	head := make([]byte, headSize)
	n, err := io.ReadFull(fp, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return head[:n], nil
}
