// Package logging provides categorized structured logging for the refiner.
// Each subsystem logs through its own named zap logger so output can be
// filtered per category. Before Initialize is called every category logs
// to a no-op logger, which keeps library use silent by default.
package logging

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category identifies a logging subsystem.
type Category string

const (
	CategoryVocabulary Category = "vocabulary" // corpus loading and lookups
	CategoryResolver   Category = "resolver"   // term resolution decisions
	CategorySafety     Category = "safety"     // tier handling, rewrites, denylist hits
	CategoryComposer   Category = "composer"   // prompt assembly
	CategoryEngine     Category = "engine"     // request pipeline
	CategoryStore      Category = "store"      // sqlite ingestion
	CategoryCLI        Category = "cli"        // command surface
)

var (
	mu      sync.RWMutex
	root    = zap.NewNop()
	loggers = make(map[Category]*zap.SugaredLogger)
)

// Initialize builds the process-wide logger. Verbose enables debug level with
// development-style console output; otherwise the production JSON encoder is
// used at info level. Safe to call more than once; the last call wins.
func Initialize(verbose bool) error {
	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		cfg = zap.NewProductionConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	SetLogger(logger)
	return nil
}

// SetLogger replaces the root logger. Tests use this with zap.NewNop or an
// observer core.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	mu.Lock()
	defer mu.Unlock()
	root = l
	loggers = make(map[Category]*zap.SugaredLogger)
}

// Get returns the sugared logger for a category.
func Get(c Category) *zap.SugaredLogger {
	mu.RLock()
	if l, ok := loggers[c]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[c]; ok {
		return l
	}
	l := root.Named(string(c)).Sugar()
	loggers[c] = l
	return l
}

// Sync flushes buffered log entries. Called once at process exit.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = root.Sync()
}
