// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cmd implements the commands of the scene3d tool.
package cmd

import (
	"fmt"
	"log/slog"

	"cogentcore.org/scene3d/asset"
	"cogentcore.org/scene3d/base/fsx"
	"cogentcore.org/scene3d/base/logx"
	"cogentcore.org/scene3d/config"
	"cogentcore.org/scene3d/editor"
	"cogentcore.org/scene3d/scene"
	"github.com/spf13/cobra"
)

// App holds the state shared by the commands: the flags of the
// root command, and the config and cache set up from them.
type App struct {
	ConfigFile  string
	CacheRoot   string
	Verbose     bool
	VeryVerbose bool
	Quiet       bool

	Config *config.Config
	Cache  *asset.Cache
}

// NewRootCmd returns the scene3d root command with all of its subcommands.
func NewRootCmd() *cobra.Command {
	app := &App{}
	root := &cobra.Command{
		Use:          "scene3d",
		Short:        "Import and inspect 3D assets through the asset import cache",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup()
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&app.ConfigFile, "config", "", "config file to read (.toml or .yaml)")
	pf.StringVar(&app.CacheRoot, "cache", "", "cache root directory, overriding the config")
	pf.BoolVarP(&app.Verbose, "verbose", "v", false, "show info messages")
	pf.BoolVar(&app.VeryVerbose, "vv", false, "show debug messages")
	pf.BoolVarP(&app.Quiet, "quiet", "q", false, "only show errors")

	root.AddCommand(
		newImportCmd(app),
		newTreeCmd(app),
		newInspectCmd(app),
		newCleanCmd(app),
		newWatchCmd(app),
	)
	return root
}

// setup reads the config, sets the log level and opens the cache.
func (app *App) setup() error {
	cfg := config.Defaults()
	if app.ConfigFile != "" {
		var err error
		cfg, err = config.Open(app.ConfigFile)
		if err != nil {
			return err
		}
	}
	if app.CacheRoot != "" {
		cfg.CacheRoot = app.CacheRoot
	}
	app.Config = cfg

	if app.VeryVerbose || app.Verbose || app.Quiet {
		logx.UserLevel = logx.LevelFromFlags(app.VeryVerbose, app.Verbose, app.Quiet)
	} else {
		lv, err := cfg.Level()
		if err != nil {
			return err
		}
		logx.UserLevel = lv
	}
	logx.SetDefaultLogger()

	fsys, root, err := fsx.HostFS(cfg.CacheRoot)
	if err != nil {
		return fmt.Errorf("cache root %q: %w", cfg.CacheRoot, err)
	}
	app.Cache = asset.NewCache(fsys, root)
	slog.Debug("scene3d: cache opened", "root", cfg.CacheRoot)
	return nil
}

// newEditor returns an editor for a new empty scene using the cache.
func (app *App) newEditor() *editor.Editor {
	cfg := *app.Config
	return editor.New(scene.New(), app.Cache, &cfg)
}
