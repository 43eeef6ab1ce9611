// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"cogentcore.org/scene3d/asset"
	"cogentcore.org/scene3d/base/fsx"
	"github.com/spf13/cobra"
)

func newInspectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [RECORD...]",
		Short: "List the cache records, or print the headers of the given record files",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return app.listEntries(cmd.OutOrStdout())
			}
			var errs []error
			for _, fn := range args {
				if err := inspectRecord(cmd.OutOrStdout(), fn); err != nil {
					errs = append(errs, err)
				}
			}
			return errors.Join(errs...)
		},
	}
}

// listEntries writes one line per cache record.
func (app *App) listEntries(w io.Writer) error {
	ents, err := app.Cache.Entries()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, ent := range ents {
		rel := strings.TrimPrefix(strings.TrimPrefix(ent.Path, app.Cache.Root), "/")
		fmt.Fprintf(tw, "%v\t%d\t%s\n", ent.Kind, ent.Size, rel)
	}
	return tw.Flush()
}

// inspectRecord decodes the given host cache record file
// and writes a summary of it.
func inspectRecord(w io.Writer, fn string) error {
	fsys, p, err := fsx.HostFS(fn)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(fn)) {
	case asset.MeshExt:
		md, err := asset.OpenMesh(fsys, p)
		if err != nil {
			return fmt.Errorf("%s: %w", fn, err)
		}
		fmt.Fprintf(w, "%s: mesh, %d vertices, %d indices, normals %v, texcoords %v, colors %v\n",
			fn, md.VertexCount(), md.IndexCount(), md.HasNormals(), md.HasTexCoords(), md.HasColors())
	case asset.TextureExt:
		td, err := asset.OpenTexture(fsys, p)
		if err != nil {
			return fmt.Errorf("%s: %w", fn, err)
		}
		fmt.Fprintf(w, "%s: texture, %dx%d %v, %d bytes\n", fn, td.Width, td.Height, td.Format, len(td.Pixels))
	default:
		return fmt.Errorf("%s: %w: not a cache record", fn, asset.ErrUnsupported)
	}
	return nil
}
