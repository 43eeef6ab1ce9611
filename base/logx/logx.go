// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logx sets up structured logging through [log/slog] at a
// user-selected verbosity level, with colored level labels on terminals.
package logx

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/muesli/termenv"
)

// UserLevel is the verbosity [slog.Level] that the user has selected for
// what logging messages should be shown. Messages at levels at or above
// this level will be shown. The logger installed by [SetDefaultLogger]
// reads it on every message, so it can be changed at any time.
var UserLevel = slog.LevelInfo

// UseColor is whether to color level labels when writing to a terminal.
var UseColor = true

// LevelFromFlags returns the [slog.Level] object corresponding to the given
// user flag options. The flags correspond to the following values:
//   - vv: [slog.LevelDebug]
//   - v: [slog.LevelInfo]
//   - q: [slog.LevelError]
//   - (default: [slog.LevelWarn])
//
// The flags are evaluated in that order, so, for example, if both
// vv and q are specified, it will still return [slog.LevelDebug].
func LevelFromFlags(vv, v, q bool) slog.Level {
	switch {
	case vv:
		return slog.LevelDebug
	case v:
		return slog.LevelInfo
	case q:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// ParseLevel parses a level name such as "debug", "info", "warn" or
// "error" (case insensitive, with an optional offset like "warn+2").
// The empty string is [slog.LevelInfo].
func ParseLevel(s string) (slog.Level, error) {
	var lv slog.Level
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}
	err := lv.UnmarshalText([]byte(strings.TrimSpace(s)))
	return lv, err
}

// NewHandler returns a text handler that writes to the given writer,
// showing messages at or above the given level. If [UseColor] is set and
// the writer is a color terminal, level labels are colored.
func NewHandler(w io.Writer, level slog.Leveler) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if UseColor {
		profile := termenv.NewOutput(w).EnvColorProfile()
		if profile != termenv.Ascii {
			opts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
				if a.Key != slog.LevelKey || len(groups) > 0 {
					return a
				}
				if lv, ok := a.Value.Any().(slog.Level); ok {
					a.Value = slog.StringValue(colorLevel(profile, lv))
				}
				return a
			}
		}
	}
	return slog.NewTextHandler(w, opts)
}

// SetDefaultLogger sets the default [slog] logger to one that writes
// to [os.Stderr] at [UserLevel].
func SetDefaultLogger() {
	slog.SetDefault(slog.New(NewHandler(os.Stderr, &UserLevel)))
}

func colorLevel(profile termenv.Profile, lv slog.Level) string {
	var c termenv.Color
	switch {
	case lv >= slog.LevelError:
		c = profile.Color("9")
	case lv >= slog.LevelWarn:
		c = profile.Color("11")
	case lv >= slog.LevelInfo:
		c = profile.Color("12")
	default:
		c = profile.Color("8")
	}
	return termenv.String(lv.String()).Foreground(c).String()
}
