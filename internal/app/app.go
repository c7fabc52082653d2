// Package app wires the circuit engine into a runnable host: it builds an
// isolated logger, registers the built-in block kinds plus any host
// modules, loads a circuit and chat context from disk, and runs validation
// or execution.
package app

import (
	"io"
	"log/slog"

	"github.com/theFisher86/coolChat-sub000/internal/blocks"
	"github.com/theFisher86/coolChat-sub000/internal/engine"
	"github.com/theFisher86/coolChat-sub000/internal/schema"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	reg    *schema.Registry
	engine *engine.Engine
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and registry.
// Registering a conflicting block kind panics; the entrypoint recovers and
// reports it as a startup error.
func NewApp(outW io.Writer, config *Config, modules ...schema.Module) *App {
	logger := newLogger(config.LogLevel, config.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	reg := blocks.NewRegistry(modules...)
	logger.Debug("Block kinds registered.", "count", len(reg.List()))

	return &App{
		outW:   outW,
		logger: logger,
		config: config,
		reg:    reg,
		engine: engine.New(reg),
	}
}

// Engine returns the application's engine. This is primarily for testing.
func (a *App) Engine() *engine.Engine {
	return a.engine
}
