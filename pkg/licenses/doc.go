// Package licenses builds license reports for a resolved Yarn project.
//
// # Overview
//
// Two artifacts are produced from the same enumeration of packages
// ([project.SortedPackages]) and the same path resolution ([linker.Resolver]):
//
//   - [BuildTree] groups packages under their declared license string.
//   - [BuildDisclaimer] renders one attribution document in which packages
//     with byte-identical license (and NOTICE) text share a section.
//
// # Best effort
//
// Dependency metadata is heterogeneous. A package with no install directory,
// a missing or malformed package.json, or (for the disclaimer) no license
// file is left out of that artifact and reported through
// [observability.LicenseHooks] instead of failing the run. Only file system
// errors other than "does not exist" and errors from the resolver itself are
// returned.
//
// # Determinism
//
// Packages are visited in descriptor order, tree children and disclaimer
// sections keep first-insertion order, and directory listings are sorted, so
// an unchanged lockfile and node_modules produce byte-identical output.
//
// [project.SortedPackages]: github.com/matzehuels/licensetower/pkg/project.SortedPackages
// [linker.Resolver]: github.com/matzehuels/licensetower/pkg/linker.Resolver
// [observability.LicenseHooks]: github.com/matzehuels/licensetower/pkg/observability.LicenseHooks
package licenses
