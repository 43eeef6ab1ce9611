// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asset

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

var (
	// ErrImport is returned when an importer fails to produce data
	// from a source asset file.
	ErrImport = errors.New("asset: import failed")

	// ErrUnsupported is returned when no importer is registered
	// for the extension of a source asset file.
	ErrUnsupported = errors.New("asset: unsupported file type")
)

// MeshImporter produces raw mesh buffers from a source asset file.
// It is an opaque producer: the cache does not depend on how
// the file is parsed, triangulated or has its normals generated.
type MeshImporter interface {
	ImportMesh(filename string) (*MeshData, error)
}

// TextureImporter produces decoded pixels in [FormatRGBA8]
// from a source image file.
type TextureImporter interface {
	ImportTexture(filename string) (*TextureData, error)
}

// MeshGroup is one named part of a source asset file, such as
// an object or group of an .obj file.
type MeshGroup struct {
	Name string
	Mesh *MeshData
}

// GroupImporter is implemented by mesh importers that can
// split a source file into its named parts.
type GroupImporter interface {
	ImportGroups(filename string) ([]MeshGroup, error)
}

// Material is the material reference of one named part of a
// source asset file.
type Material struct {
	Group string

	// DiffuseMap is the diffuse texture file, relative to the
	// directory of the source file. It is empty if there is none.
	DiffuseMap string
}

// MaterialImporter is implemented by mesh importers that can report
// the materials of the parts of a source file without importing its
// geometry. The parts are in the same order as from [GroupImporter].
type MaterialImporter interface {
	ImportMaterials(filename string) ([]Material, error)
}

// MeshImporterFunc is a function that implements [MeshImporter].
type MeshImporterFunc func(filename string) (*MeshData, error)

func (f MeshImporterFunc) ImportMesh(filename string) (*MeshData, error) {
	return f(filename)
}

// TextureImporterFunc is a function that implements [TextureImporter].
type TextureImporterFunc func(filename string) (*TextureData, error)

func (f TextureImporterFunc) ImportTexture(filename string) (*TextureData, error) {
	return f(filename)
}

// Registry dispatches imports to importers registered by file
// extension. Extensions include the leading dot and are matched
// case-insensitively.
type Registry struct {
	Meshes   map[string]MeshImporter
	Textures map[string]TextureImporter
}

// NewRegistry returns a new empty registry.
func NewRegistry() *Registry {
	return &Registry{Meshes: map[string]MeshImporter{}, Textures: map[string]TextureImporter{}}
}

// DefaultRegistry is the registry used by the package-level Register and
// lookup functions. Importer packages such as asset/obj and asset/texture
// add themselves to it in their init functions, so they must be imported
// for their side effects to be available.
var DefaultRegistry = NewRegistry()

// RegisterMeshImporter registers the given mesh importer for the given
// extension in the [DefaultRegistry].
func RegisterMeshImporter(ext string, im MeshImporter) {
	DefaultRegistry.Meshes[normExt(ext)] = im
}

// RegisterTextureImporter registers the given texture importer for the
// given extension in the [DefaultRegistry].
func RegisterTextureImporter(ext string, im TextureImporter) {
	DefaultRegistry.Textures[normExt(ext)] = im
}

// MeshImporterFor returns the mesh importer registered in the
// [DefaultRegistry] for the extension of the given file name.
func MeshImporterFor(filename string) (MeshImporter, bool) {
	return DefaultRegistry.MeshImporterFor(filename)
}

// TextureImporterFor returns the texture importer registered in the
// [DefaultRegistry] for the extension of the given file name.
func TextureImporterFor(filename string) (TextureImporter, bool) {
	return DefaultRegistry.TextureImporterFor(filename)
}

// MeshImporterFor returns the mesh importer for the extension
// of the given file name.
func (rg *Registry) MeshImporterFor(filename string) (MeshImporter, bool) {
	im, ok := rg.Meshes[normExt(filepath.Ext(filename))]
	return im, ok
}

// TextureImporterFor returns the texture importer for the extension
// of the given file name.
func (rg *Registry) TextureImporterFor(filename string) (TextureImporter, bool) {
	im, ok := rg.Textures[normExt(filepath.Ext(filename))]
	return im, ok
}

// ImportMesh imports the given file with the mesh importer
// registered for its extension.
func (rg *Registry) ImportMesh(filename string) (*MeshData, error) {
	im, ok := rg.MeshImporterFor(filename)
	if !ok {
		return nil, fmt.Errorf("%w: no mesh importer for %q", ErrUnsupported, filename)
	}
	return im.ImportMesh(filename)
}

// ImportTexture imports the given file with the texture importer
// registered for its extension.
func (rg *Registry) ImportTexture(filename string) (*TextureData, error) {
	im, ok := rg.TextureImporterFor(filename)
	if !ok {
		return nil, fmt.Errorf("%w: no texture importer for %q", ErrUnsupported, filename)
	}
	return im.ImportTexture(filename)
}

// ImportGroups imports the parts of the given file with the mesh importer
// registered for its extension, which must implement [GroupImporter].
func (rg *Registry) ImportGroups(filename string) ([]MeshGroup, error) {
	im, ok := rg.MeshImporterFor(filename)
	if !ok {
		return nil, fmt.Errorf("%w: no mesh importer for %q", ErrUnsupported, filename)
	}
	gi, ok := im.(GroupImporter)
	if !ok {
		return nil, fmt.Errorf("%w: mesh importer for %q has no groups", ErrUnsupported, filename)
	}
	return gi.ImportGroups(filename)
}

// ImportMaterials returns the materials of the parts of the given file
// from the mesh importer registered for its extension, which must
// implement [MaterialImporter].
func (rg *Registry) ImportMaterials(filename string) ([]Material, error) {
	im, ok := rg.MeshImporterFor(filename)
	if !ok {
		return nil, fmt.Errorf("%w: no mesh importer for %q", ErrUnsupported, filename)
	}
	mi, ok := im.(MaterialImporter)
	if !ok {
		return nil, fmt.Errorf("%w: mesh importer for %q has no materials", ErrUnsupported, filename)
	}
	return mi.ImportMaterials(filename)
}

// MeshExts returns the sorted list of registered mesh extensions.
func (rg *Registry) MeshExts() []string {
	return sortedKeys(rg.Meshes)
}

// TextureExts returns the sorted list of registered texture extensions.
func (rg *Registry) TextureExts() []string {
	return sortedKeys(rg.Textures)
}

func sortedKeys[V any](m map[string]V) []string {
	ks := make([]string, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	slices.Sort(ks)
	return ks
}

func normExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
