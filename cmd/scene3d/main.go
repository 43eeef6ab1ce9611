// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command scene3d imports, inspects and manages 3D assets
// through the scene3d asset import cache.
package main

import (
	"context"
	"os"
	"os/signal"

	"cogentcore.org/scene3d/cmd/scene3d/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := cmd.NewRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
