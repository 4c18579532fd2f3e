// Package linker maps a package to its install directory under a Yarn
// linker strategy.
//
// # Strategies
//
// The set of strategies is closed and selected once from configuration:
//
//   - [NodeModules] ("node-modules"): install locations are looked up in the
//     node_modules/.yarn-state.yml index written by Yarn.
//   - [PNPM] ("pnpm"): packages live at node_modules/<name>, so the location
//     is a plain path join.
//
// Anything else, including Yarn's default "pnp", yields an
// [*UnsupportedLinkerError] from [Resolve].
//
// # Usage
//
//	r, err := linker.Resolve(linker.NodeModules, linker.WithLogger(logger))
//	if err != nil {
//	    return err // configuration error
//	}
//	dir, ok, err := r.InstallPath(ctx, proj, pkg)
//	if err != nil {
//	    return err
//	}
//	if !ok {
//	    // no install directory for this package; skip it
//	}
//
// Resolvers embed a [vfs.FS] so package files are read through the same view
// of the disk that located them.
package linker

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/licensetower/pkg/errors"
	"github.com/matzehuels/licensetower/pkg/project"
	"github.com/matzehuels/licensetower/pkg/vfs"
)

// Strategy names a Yarn nodeLinker setting.
type Strategy string

const (
	NodeModules Strategy = "node-modules"
	PNPM        Strategy = "pnpm"
	PnP         Strategy = "pnp" // recognised, not supported
)

// NodeModulesDir is the directory both supported layouts install into.
const NodeModulesDir = "node_modules"

// Resolver locates installed packages for one strategy.
type Resolver interface {
	vfs.FS

	// Strategy reports which linker this resolver implements.
	Strategy() Strategy

	// InstallPath returns the absolute install directory of pkg. ok is false
	// when the package has no directory of its own; that is not an error.
	InstallPath(ctx context.Context, p *project.Project, pkg *project.Package) (dir string, ok bool, err error)
}

// UnsupportedLinkerError is returned by Resolve for unknown strategies.
type UnsupportedLinkerError struct {
	Strategy Strategy
}

func (e *UnsupportedLinkerError) Error() string {
	return fmt.Sprintf("unsupported linker %q (supported: %s)", e.Strategy, strings.Join(names(), ", "))
}

// Code returns the error code for this error type.
func (e *UnsupportedLinkerError) Code() errors.Code {
	return errors.ErrCodeUnsupportedLinker
}

type options struct {
	fs     vfs.FS
	logger *log.Logger
}

// Option configures a Resolver.
type Option func(*options)

// WithFS reads through fsys instead of the host file system.
func WithFS(fsys vfs.FS) Option {
	return func(o *options) {
		if fsys != nil {
			o.fs = fsys
		}
	}
}

// WithLogger sets the logger used for lookup diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

var registry = map[Strategy]func(options) Resolver{
	NodeModules: func(o options) Resolver { return newIndexed(o) },
	PNPM:        func(o options) Resolver { return newFlat(o) },
}

// Resolve returns a new resolver for strategy.
//
// Indexed resolvers cache their index for their own lifetime, so callers
// should resolve once per run and share the result.
func Resolve(strategy Strategy, opts ...Option) (Resolver, error) {
	newResolver, ok := registry[strategy]
	if !ok {
		return nil, &UnsupportedLinkerError{Strategy: strategy}
	}
	o := options{fs: vfs.OS{}, logger: log.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return newResolver(o), nil
}

// Strategies lists the supported strategies in sorted order.
func Strategies() []Strategy {
	out := make([]Strategy, 0, len(registry))
	for s := range registry {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func names() []string {
	var out []string
	for _, s := range Strategies() {
		out = append(out, string(s))
	}
	return out
}
