// Package project models a resolved Yarn dependency graph.
//
// # Overview
//
// A [Project] holds the pieces a license run needs from the package manager:
//
//   - Workspaces, each with its anchored (self-referencing) [Descriptor] and
//     its direct dependency descriptors
//   - Every stored descriptor, the descriptor → resolution map, and the
//     resolution → [Package] map
//   - The top-level workspace manifest name
//
// The graph is read-only once built. [Load] builds it from a project's
// yarn.lock and root package.json; tests usually assemble one by hand with
// [New], [Project.AddWorkspace], and [Project.Resolve].
//
// # Identities
//
// Descriptors are requests ("left-pad@npm:^1.3.0") and locators are
// resolutions ("left-pad@npm:1.3.0"). Both stringify the way Yarn does, and
// the string forms double as map keys.
//
// # Enumeration
//
// [SortedPackages] turns the graph into an ordered list of
// descriptor/package pairs, either one level deep from every workspace or
// the full transitive closure. Order is bytewise by descriptor string so two
// runs over the same lockfile visit packages identically.
package project
