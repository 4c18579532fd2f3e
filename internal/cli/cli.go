// Package cli implements the licensetower command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/licensetower/pkg/buildinfo"
	"github.com/matzehuels/licensetower/pkg/config"
	"github.com/matzehuels/licensetower/pkg/linker"
	"github.com/matzehuels/licensetower/pkg/observability"
	"github.com/matzehuels/licensetower/pkg/project"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display and metric names.
	appName = "licensetower"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Stdout receives artifacts (trees, disclaimers); status lines go to Stderr.
	Stdout io.Writer
	Stderr io.Writer

	cwd         string
	metricsFile string
	metrics     *observability.Metrics
	stats       *runStats
}

// New creates a new CLI instance whose logger writes to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Stdout: os.Stdout,
		Stderr: w,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Licensetower reports the licenses of a Yarn project's dependencies",
		Long: `Licensetower inspects the resolved dependency graph of a Yarn project, finds every
installed package on disk under the configured linker, and reports their licenses
as a tree grouped by license or as a single attribution disclaimer.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			c.registerHooks()
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.flushMetrics()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.cwd, "cwd", "C", ".", "project directory containing yarn.lock")
	root.PersistentFlags().StringVar(&c.metricsFile, "metrics-file", "", "write Prometheus metrics to this file after the run")

	root.AddCommand(c.listCommand())
	root.AddCommand(c.disclaimerCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Hooks
// =============================================================================

// registerHooks installs the run tally and, when requested, the metrics recorder.
func (c *CLI) registerHooks() {
	var next observability.LicenseHooks = observability.NoopLicenseHooks{}
	if c.metricsFile != "" {
		c.metrics = observability.NewMetrics(appName)
		next = c.metrics
		observability.SetLinkerHooks(c.metrics)
	}
	c.stats = newRunStats(next)
	observability.SetLicenseHooks(c.stats)
}

func (c *CLI) flushMetrics() error {
	if c.metrics == nil {
		return nil
	}
	if err := c.metrics.WriteTextfile(c.metricsFile); err != nil {
		return fmt.Errorf("write metrics %s: %w", c.metricsFile, err)
	}
	c.Logger.Debug("wrote metrics", "path", c.metricsFile)
	return nil
}

// =============================================================================
// Project Loading
// =============================================================================

// workspace is everything a command needs to inspect one project.
type workspace struct {
	cwd      string
	config   *config.Config
	resolver linker.Resolver
	project  *project.Project
}

// open reads configuration, selects the linker and loads the lockfile. An
// unsupported linker fails before anything else is read.
func (c *CLI) open(ctx context.Context) (*workspace, error) {
	logger := loggerFromContext(ctx)

	cwd, err := filepath.Abs(c.cwd)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", c.cwd, err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger.Debug("config loaded", "cwd", cwd, "linker", cfg.Linker, "recursive", cfg.Recursive)

	r, err := linker.Resolve(cfg.Linker, linker.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	prog := newProgress(logger)
	p, err := project.Load(cwd)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}
	prog.done(fmt.Sprintf("Loaded %d workspaces, %d packages", len(p.Workspaces), len(p.StoredPackages)))

	return &workspace{cwd: cwd, config: cfg, resolver: r, project: p}, nil
}

// boolFlag returns the flag value when set on the command line, else fallback.
func boolFlag(cmd *cobra.Command, name string, value, fallback bool) bool {
	if cmd.Flags().Changed(name) {
		return value
	}
	return fallback
}

// stringFlag returns the flag value when set on the command line, else fallback.
func stringFlag(cmd *cobra.Command, name, value, fallback string) string {
	if cmd.Flags().Changed(name) {
		return value
	}
	return fallback
}
