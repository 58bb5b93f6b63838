// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/bud/internal/adapters/cas"
	_ "go.trai.ch/bud/internal/adapters/config"
	_ "go.trai.ch/bud/internal/adapters/fs"
	_ "go.trai.ch/bud/internal/adapters/logger"
	_ "go.trai.ch/bud/internal/adapters/shell"
	_ "go.trai.ch/bud/internal/adapters/telemetry"
	// Register app and engine nodes.
	_ "go.trai.ch/bud/internal/app"
	_ "go.trai.ch/bud/internal/engine/builder"
)
