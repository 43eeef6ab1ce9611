// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// DefaultDebounce is how long a file must go without changes
// before the watch command re-imports it.
const DefaultDebounce = 250 * time.Millisecond

func newWatchCmd(app *App) *cobra.Command {
	debounce := DefaultDebounce
	cmd := &cobra.Command{
		Use:   "watch DIR",
		Short: "Re-import supported files in a directory whenever they change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wt, err := startWatch(args[0])
			if err != nil {
				return err
			}
			defer wt.Close()
			slog.Info("scene3d: watching", "dir", args[0])
			return app.runWatch(cmd.Context(), cmd.OutOrStdout(), wt, debounce)
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", DefaultDebounce, "time without changes before a file is re-imported")
	return cmd
}

// startWatch returns a watcher for the given directory.
func startWatch(dir string) (*fsnotify.Watcher, error) {
	wt, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := wt.Add(dir); err != nil {
		wt.Close()
		return nil, fmt.Errorf("watch %q: %w", dir, err)
	}
	return wt, nil
}

// runWatch re-imports each supported file created or written in the
// watched directory, once it has gone the debounce time without
// further events. It returns when the context is done.
func (app *App) runWatch(ctx context.Context, w io.Writer, wt *fsnotify.Watcher, debounce time.Duration) error {
	ed := app.newEditor()
	ed.Config.DropSelectedTexture = false
	pending := map[string]time.Time{}
	tick := time.NewTicker(max(debounce/2, time.Millisecond))
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-wt.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if !supported(ev.Name) {
				continue
			}
			pending[ev.Name] = time.Now()
		case err, ok := <-wt.Errors:
			if !ok {
				return nil
			}
			slog.Warn("scene3d: watch error", "err", err)
		case now := <-tick.C:
			for fn, last := range pending {
				if now.Sub(last) < debounce {
					continue
				}
				delete(pending, fn)
				if err := app.Cache.Remove(fn); err != nil {
					slog.Warn("scene3d: cannot remove cache records", "source", fn, "err", err)
				}
				e, err := ed.DropFile(fn, nil)
				if err != nil {
					slog.Warn("scene3d: import failed", "source", fn, "err", err)
					continue
				}
				fmt.Fprintf(w, "imported %s: %s\n", fn, describe(e))
				ed.Delete(e)
			}
		}
	}
}
