// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config contains the configuration
// struct for the scene3d editor and tool.
package config

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"cogentcore.org/scene3d/base/fsx"
	"cogentcore.org/scene3d/base/logx"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config is the main config struct that contains
// all of the configuration options.
type Config struct {

	// [def: Library] the directory that holds the asset import cache;
	// a leading ~ is the home directory of the user
	CacheRoot string `toml:"CacheRoot" yaml:"CacheRoot"`

	// [def: true] whether to scale imported models down to fit in NormalizeSize
	Normalize bool `toml:"Normalize" yaml:"Normalize"`

	// [def: 10] the largest extent of an imported model, if Normalize is on
	NormalizeSize float32 `toml:"NormalizeSize" yaml:"NormalizeSize"`

	// [def: false] whether to import each object or group of a model file
	// as its own child entity, instead of one entity with a merged mesh
	SplitGroups bool `toml:"SplitGroups" yaml:"SplitGroups"`

	// [def: info] the level of log messages to show: debug, info, warn or error
	LogLevel string `toml:"LogLevel" yaml:"LogLevel"`

	// [def: true] whether a dropped image textures the selected entity,
	// instead of always creating a new textured entity
	DropSelectedTexture bool `toml:"DropSelectedTexture" yaml:"DropSelectedTexture"`
}

// Defaults returns a new config with the default values.
func Defaults() *Config {
	return &Config{
		CacheRoot:           "Library",
		Normalize:           true,
		NormalizeSize:       10,
		LogLevel:            "info",
		DropSelectedTexture: true,
	}
}

// Open reads the config from the given file on top of the default values,
// decoding it as TOML or YAML based on its extension.
func Open(filename string) (*Config, error) {
	return OpenFS(nil, filename)
}

// OpenFS is like [Open], reading from the given filesystem,
// or from the host if it is nil.
func OpenFS(fsys fs.FS, filename string) (*Config, error) {
	var b []byte
	var err error
	if fsys == nil {
		b, err = os.ReadFile(filename)
	} else {
		b, err = fs.ReadFile(fsys, filename)
	}
	if err != nil {
		return nil, err
	}
	cfg := Defaults()
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".toml":
		err = toml.Unmarshal(b, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, cfg)
	default:
		return nil, fmt.Errorf("config: unsupported file type %q for %s", ext, filename)
	}
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", filename, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", filename, err)
	}
	slog.Debug("config: opened", "file", filename)
	return cfg, nil
}

// Save writes the config to the given file as TOML.
func (c *Config) Save(filename string) error {
	b, err := toml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0o644)
}

// Validate returns an error if any field has an invalid value.
func (c *Config) Validate() error {
	if c.CacheRoot == "" {
		return fmt.Errorf("CacheRoot must not be empty")
	}
	if c.NormalizeSize <= 0 {
		return fmt.Errorf("NormalizeSize must be positive, not %v", c.NormalizeSize)
	}
	_, err := c.Level()
	return err
}

// Level returns the parsed LogLevel.
func (c *Config) Level() (slog.Level, error) {
	return logx.ParseLevel(c.LogLevel)
}

// CachePath returns CacheRoot as an absolute host path,
// with a leading ~ expanded.
func (c *Config) CachePath() (string, error) {
	return fsx.ExpandPath(c.CacheRoot)
}
