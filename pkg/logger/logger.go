// Package logger owns the process-wide zerolog logger.
//
// Call Init once from main with the configured level, then Get from anywhere
// else. Reset exists for tests that need a fresh logger per case.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options configures the logger built by Init.
type Options struct {
	// Level names the minimum level: trace, debug, info, warn or error.
	// Anything else falls back to info.
	Level string
	// Pretty switches to the human-readable console writer. Production
	// deployments leave this off and emit one JSON object per line.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
}

var (
	mu       sync.Mutex
	instance *zerolog.Logger
)

// Init builds the shared logger. Repeated calls return the logger built by
// the first call.
func Init(opts Options) zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return *instance
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Caller().
		Logger()
	instance = &log
	return log
}

// Get returns the shared logger. Panics when Init has not run yet.
func Get() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if instance == nil {
		panic("logger: Get called before Init")
	}
	return *instance
}

// Reset discards the shared logger so the next Init rebuilds it. Test use
// only.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
}
