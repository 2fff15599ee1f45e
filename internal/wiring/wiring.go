// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/mill/internal/adapters/builtin"
	_ "go.trai.ch/mill/internal/adapters/config"
	_ "go.trai.ch/mill/internal/adapters/fs"
	_ "go.trai.ch/mill/internal/adapters/logger"
	_ "go.trai.ch/mill/internal/adapters/shell"
	_ "go.trai.ch/mill/internal/adapters/table"
	_ "go.trai.ch/mill/internal/adapters/telemetry/progrock"
	// Register app and engine nodes.
	_ "go.trai.ch/mill/internal/app"
	_ "go.trai.ch/mill/internal/engine/scheduler"
)
