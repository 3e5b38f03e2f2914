// Package logging configures the process-wide zerolog logger and hands out
// per-component child loggers, mirroring the teacher's internal/log
// package: a single global base logger, configured once at startup, with
// callers asking for a Str("component", ...) derivative rather than
// constructing their own.
package logging

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config captures the startup options for the global logger.
type Config struct {
	Level  string    // "debug", "info", "warn", "error"; defaults to "info"
	Output io.Writer // defaults to os.Stderr
	Pretty bool      // human-readable console writer instead of JSON
}

var (
	mu          sync.RWMutex
	base        zerolog.Logger
	initialized bool
)

// Configure initializes the global logger. Safe to call once at process
// startup; components obtained via For before Configure runs fall back to
// an info-level JSON logger on os.Stderr.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()

	level := zerolog.InfoLevel
	if cfg.Level != "" {
		if parsed, err := zerolog.ParseLevel(cfg.Level); err == nil {
			level = parsed
		}
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	var writer io.Writer = cfg.Output
	if writer == nil {
		writer = os.Stderr
	}
	if cfg.Pretty {
		writer = zerolog.ConsoleWriter{Out: writer, TimeFormat: time.Kitchen}
	}

	base = zerolog.New(writer).With().Timestamp().Logger()
	initialized = true
}

func ensureInitialized() {
	mu.RLock()
	if initialized {
		mu.RUnlock()
		return
	}
	mu.RUnlock()
	Configure(Config{})
}

// For returns a child logger tagged with the given component name, e.g.
// logging.For("bus"), logging.For("fetcher"). Every pipeline stage logs
// through its own component logger so log lines can be filtered per stage.
func For(component string) zerolog.Logger {
	ensureInitialized()
	mu.RLock()
	defer mu.RUnlock()
	return base.With().Str("component", component).Logger()
}
