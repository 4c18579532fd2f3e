// Package observability provides hooks for diagnostics emitted during a
// license run.
//
// The core never reports skipped packages or index-key drift as errors; it
// emits them here instead. Consumers register hooks at startup to log or count
// those events without the library depending on a particular backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetLicenseHooks(&myLicenseHooks{})
//	    observability.SetLinkerHooks(&myLinkerHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Licenses().OnPackageSkipped(ctx, "disclaimer", locator, observability.SkipNoLicenseFile)
package observability

import (
	"context"
	"sync"
	"time"
)

// SkipReason says why a package was left out of an artifact.
type SkipReason string

const (
	SkipNoInstallPath SkipReason = "no install path"
	SkipNoManifest    SkipReason = "manifest missing"
	SkipBadManifest   SkipReason = "manifest unparsable"
	SkipNoLicenseFile SkipReason = "no license file"
	SkipDuplicate     SkipReason = "already processed"
)

// =============================================================================
// License Hooks
// =============================================================================

// LicenseHooks receives events from the tree and disclaimer builders.
type LicenseHooks interface {
	// OnPackageSkipped records a package left out of artifact ("tree" or "disclaimer").
	OnPackageSkipped(ctx context.Context, artifact, locator string, reason SkipReason)

	// OnArtifactBuilt records a finished artifact and how many packages it covers.
	OnArtifactBuilt(ctx context.Context, artifact string, included, skipped int, duration time.Duration)
}

// =============================================================================
// Linker Hooks
// =============================================================================

// LinkerHooks receives events from path resolvers.
type LinkerHooks interface {
	// OnIndexLoad records the one-time load of an install-state index.
	OnIndexLoad(ctx context.Context, path string, entries int, duration time.Duration, err error)

	// OnIndexFallback records an exact-key miss and the candidates the fallback scan found.
	// chosen is empty when no candidate matched.
	OnIndexFallback(ctx context.Context, key string, candidates []string, chosen string)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLicenseHooks is a no-op implementation of LicenseHooks.
type NoopLicenseHooks struct{}

func (NoopLicenseHooks) OnPackageSkipped(context.Context, string, string, SkipReason) {}
func (NoopLicenseHooks) OnArtifactBuilt(context.Context, string, int, int, time.Duration) {}

// NoopLinkerHooks is a no-op implementation of LinkerHooks.
type NoopLinkerHooks struct{}

func (NoopLinkerHooks) OnIndexLoad(context.Context, string, int, time.Duration, error) {}
func (NoopLinkerHooks) OnIndexFallback(context.Context, string, []string, string) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	licenseHooks LicenseHooks = NoopLicenseHooks{}
	linkerHooks  LinkerHooks  = NoopLinkerHooks{}
	hooksMu      sync.RWMutex
)

// SetLicenseHooks registers custom license hooks.
// This should be called once at application startup.
func SetLicenseHooks(h LicenseHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		licenseHooks = h
	}
}

// SetLinkerHooks registers custom linker hooks.
// This should be called once at application startup.
func SetLinkerHooks(h LinkerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		linkerHooks = h
	}
}

// Licenses returns the registered license hooks.
func Licenses() LicenseHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return licenseHooks
}

// Linker returns the registered linker hooks.
func Linker() LinkerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return linkerHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	licenseHooks = NoopLicenseHooks{}
	linkerHooks = NoopLinkerHooks{}
}
