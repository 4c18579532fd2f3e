// Package cli implements the licensetower command-line interface.
//
// This package provides the commands that report the licenses of a Yarn
// project's installed dependencies. The CLI is built using cobra and supports
// verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - list: Print the License Tree (text or JSON)
//   - generate-disclaimer: Write the deduplicated attribution document
//   - completion: Generate shell completion scripts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which includes
// every skipped package and every install-state index fallback. Loggers are
// passed through context.Context.
//
// # Example
//
//	import "github.com/matzehuels/licensetower/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg at debug level along with the elapsed time, rounded to the millisecond.
// Example output: "Loaded 1 workspaces, 42 packages (12ms)"
func (p *progress) done(msg string) {
	p.logger.Debugf("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() if none is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
