// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"errors"
	"fmt"
	"io"

	"cogentcore.org/scene3d/asset"
	"cogentcore.org/scene3d/scene"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "import FILE...",
		Short: "Import model and image files into the cache",
		Long: "Import model and image files into the cache, so that later imports\n" +
			"of the same files are loaded from the cache.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.importFiles(cmd.OutOrStdout(), args, force)
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "remove existing cache records first")
	return cmd
}

// importFiles imports each file through the cache and prints what it
// produced. It continues after failures, returning all of their errors.
func (app *App) importFiles(w io.Writer, files []string, force bool) error {
	ed := app.newEditor()
	ed.Config.DropSelectedTexture = false
	var errs []error
	for _, fn := range files {
		if force {
			if err := app.Cache.Remove(fn); err != nil {
				errs = append(errs, err)
				continue
			}
		}
		e, err := ed.DropFile(fn, nil)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		fmt.Fprintf(w, "%s: %s\n", fn, describe(e))
		ed.Delete(e)
	}
	return errors.Join(errs...)
}

// describe returns a one-line summary of the geometry and
// textures of the given entity and its descendants.
func describe(e *scene.Entity) string {
	meshes, verts, tris, textures := 0, 0, 0, 0
	scene.WalkDown(e, func(d *scene.Entity) bool {
		if ms := d.Mesh(); ms != nil && ms.Data != nil {
			meshes++
			verts += ms.Data.VertexCount()
			tris += ms.Data.IndexCount() / 3
		}
		if tx := d.Texture(); tx != nil && tx.Data != nil {
			textures++
		}
		return scene.Continue
	})
	s := fmt.Sprintf("%d mesh(es), %d vertices, %d triangles", meshes, verts, tris)
	if tx := e.Texture(); tx != nil && tx.Data != nil {
		s += fmt.Sprintf(", %dx%d texture", tx.Data.Width, tx.Data.Height)
	} else if textures > 0 {
		s += fmt.Sprintf(", %d texture(s)", textures)
	}
	return s
}

// supported returns whether the file has an extension
// with a registered importer.
func supported(filename string) bool {
	if _, ok := asset.MeshImporterFor(filename); ok {
		return true
	}
	_, ok := asset.TextureImporterFor(filename)
	return ok
}
