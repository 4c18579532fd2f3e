// Package pkg provides the libraries behind licensetower.
//
// # Overview
//
// Licensetower reports the licenses of a Yarn project's installed
// dependencies. The pkg directory is organized as:
//
//  1. [project] - Idents, descriptors, locators and the lockfile loader
//  2. [linker] - Install-path resolution per Yarn linker strategy
//  3. [licenses] - License Tree and attribution disclaimer builders
//  4. [render] - Text and JSON output for the License Tree
//  5. [config] - .yarnrc.yml and licensetower.toml settings
//
// Supporting packages: [errors] (coded errors), [observability] (skip and
// index hooks, Prometheus recorder), [vfs] (file system view), [buildinfo].
//
// # Architecture
//
// The typical data flow:
//
//	yarn.lock + package.json
//	         ↓
//	    [project] package (descriptor → locator graph)
//	         ↓
//	    [linker] package (locator → install directory)
//	         ↓
//	    [licenses] package (manifests and LICENSE files)
//	         ↓
//	    License Tree (text/JSON) or disclaimer
//
// [project]: github.com/matzehuels/licensetower/pkg/project
// [linker]: github.com/matzehuels/licensetower/pkg/linker
// [licenses]: github.com/matzehuels/licensetower/pkg/licenses
// [render]: github.com/matzehuels/licensetower/pkg/render
// [config]: github.com/matzehuels/licensetower/pkg/config
// [errors]: github.com/matzehuels/licensetower/pkg/errors
// [observability]: github.com/matzehuels/licensetower/pkg/observability
// [vfs]: github.com/matzehuels/licensetower/pkg/vfs
// [buildinfo]: github.com/matzehuels/licensetower/pkg/buildinfo
package pkg
