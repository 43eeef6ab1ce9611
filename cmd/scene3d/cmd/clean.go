// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

func newCleanCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clean [FILE...]",
		Short: "Remove the cache records of the given source files, or all records",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				if err := app.Cache.Clear(); err != nil {
					return err
				}
				slog.Info("scene3d: cache cleared", "root", app.Config.CacheRoot)
				return nil
			}
			var errs []error
			for _, fn := range args {
				if err := app.Cache.Remove(fn); err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", fn, err))
					continue
				}
				slog.Info("scene3d: removed cache records", "source", fn)
			}
			return errors.Join(errs...)
		},
	}
}
