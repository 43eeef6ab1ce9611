// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"cogentcore.org/scene3d/math32"
	"cogentcore.org/scene3d/scene"
	"github.com/spf13/cobra"
)

func newTreeCmd(app *App) *cobra.Command {
	var split bool
	cmd := &cobra.Command{
		Use:   "tree FILE...",
		Short: "Import files into a new scene and print its hierarchy",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("split") {
				app.Config.SplitGroups = split
			}
			return app.printTree(cmd.OutOrStdout(), args)
		},
	}
	cmd.Flags().BoolVar(&split, "split", false, "import each object or group of a model as its own entity")
	return cmd
}

// printTree drops the given files into a new scene
// and prints the resulting hierarchy.
func (app *App) printTree(w io.Writer, files []string) error {
	ed := app.newEditor()
	ed.Config.DropSelectedTexture = false
	var errs []error
	for _, fn := range files {
		if _, err := ed.DropFile(fn, nil); err != nil {
			errs = append(errs, err)
		}
	}
	writeTree(w, ed.Scene.Root)
	return errors.Join(errs...)
}

// writeTree writes one line per entity in pre-order,
// indented by depth, with its mesh and the world bounds of that mesh.
func writeTree(w io.Writer, root *scene.Entity) {
	base := root.Depth()
	scene.WalkDown(root, func(e *scene.Entity) bool {
		var sb strings.Builder
		sb.WriteString(strings.Repeat("  ", e.Depth()-base))
		sb.WriteString(e.Name)
		if !e.Active {
			sb.WriteString(" (inactive)")
		}
		if ms := e.Mesh(); ms != nil && ms.Data != nil {
			fmt.Fprintf(&sb, " [%d vertices, %d indices]", ms.Data.VertexCount(), ms.Data.IndexCount())
		}
		if tx := e.Texture(); tx != nil && tx.Data != nil {
			fmt.Fprintf(&sb, " [%dx%d %v]", tx.Data.Width, tx.Data.Height, tx.Data.Format)
		}
		if tr := e.Transform(); tr != nil && tr.Scale != math32.Vec3Scalar(1) {
			fmt.Fprintf(&sb, " scale %v", tr.Scale)
		}
		if bb := scene.MeshWorldBounds(e); !bb.IsEmpty() {
			fmt.Fprintf(&sb, " bounds %v %v", bb.Min, bb.Max)
		}
		fmt.Fprintln(w, sb.String())
		return scene.Continue
	})
}
