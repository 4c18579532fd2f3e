package linker

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/licensetower/pkg/errors"
	"github.com/matzehuels/licensetower/pkg/observability"
	"github.com/matzehuels/licensetower/pkg/project"
	"github.com/matzehuels/licensetower/pkg/vfs"
)

// StateFileName is the install-state index Yarn writes inside node_modules.
const StateFileName = ".yarn-state.yml"

const stateMetadataKey = "__metadata"

// stateEntry is one record of the install-state index.
type stateEntry struct {
	Locations []string `yaml:"locations"`
}

// stateIndex is a parsed install-state file with its keys pre-sorted for
// deterministic fallback scans.
type stateIndex struct {
	entries map[string]stateEntry
	keys    []string
}

// Indexed resolves packages through node_modules/.yarn-state.yml.
//
// The index is read at most once per project root for the lifetime of the
// resolver. Concurrent first lookups share a single in-flight load.
type Indexed struct {
	vfs.FS
	logger *log.Logger

	loads   singleflight.Group
	mu      sync.RWMutex
	indexes map[string]*stateIndex // keyed by index path
}

func newIndexed(o options) *Indexed {
	return &Indexed{
		FS:      o.fs,
		logger:  o.logger,
		indexes: make(map[string]*stateIndex),
	}
}

func (*Indexed) Strategy() Strategy { return NodeModules }

// Reset drops cached indexes so the next lookup reloads them.
func (r *Indexed) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.indexes = make(map[string]*stateIndex)
}

// InstallPath looks pkg up by its locator string. On a miss it falls back to
// the lexicographically first index key with the same name and version; with
// no such key the package has no install path.
func (r *Indexed) InstallPath(ctx context.Context, p *project.Project, pkg *project.Package) (string, bool, error) {
	idx, err := r.index(ctx, p.Cwd)
	if err != nil {
		return "", false, err
	}

	key := pkg.Locator.String()
	entry, ok := idx.entries[key]
	if !ok {
		if entry, ok = r.fallback(ctx, idx, pkg); !ok {
			return "", false, nil
		}
	}

	if len(entry.Locations) == 0 || entry.Locations[0] == "" {
		return p.Cwd, true, nil
	}
	return filepath.Join(p.Cwd, filepath.FromSlash(entry.Locations[0])), true, nil
}

func (r *Indexed) fallback(ctx context.Context, idx *stateIndex, pkg *project.Package) (stateEntry, bool) {
	key := pkg.Locator.String()
	prefix := pkg.Ident.String() + "@"
	suffix := versionSuffix(pkg)

	var candidates []string
	for _, k := range idx.keys {
		if strings.HasPrefix(k, prefix) && strings.HasSuffix(k, suffix) {
			candidates = append(candidates, k)
		}
	}

	var chosen string
	if len(candidates) > 0 {
		chosen = candidates[0]
	}
	r.logger.Debug("install state lookup missed",
		"key", key,
		"suffix", suffix,
		"candidates", candidates,
		"using", chosen)
	observability.Linker().OnIndexFallback(ctx, key, candidates, chosen)

	if chosen == "" {
		return stateEntry{}, false
	}
	return idx.entries[chosen], true
}

// versionSuffix is the ":<version>" tail index keys for pkg are expected to
// end with. It prefers the resolved version, then a "::version=" binding in
// the reference, then whatever follows the reference's last colon.
func versionSuffix(pkg *project.Package) string {
	if pkg.Version != "" {
		return ":" + pkg.Version
	}
	ref := pkg.Reference
	if _, params, ok := strings.Cut(ref, "::"); ok {
		for _, kv := range strings.Split(params, "&") {
			if v, ok := strings.CutPrefix(kv, "version="); ok && v != "" {
				return ":" + v
			}
		}
	}
	if i := strings.LastIndex(ref, ":"); i >= 0 {
		return ref[i:]
	}
	return ":" + ref
}

func (r *Indexed) index(ctx context.Context, cwd string) (*stateIndex, error) {
	path := filepath.Join(cwd, NodeModulesDir, StateFileName)

	if idx := r.cached(path); idx != nil {
		return idx, nil
	}

	v, err, _ := r.loads.Do(path, func() (any, error) {
		if idx := r.cached(path); idx != nil {
			return idx, nil
		}
		start := time.Now()
		idx, err := r.readIndex(path)
		n := 0
		if idx != nil {
			n = len(idx.keys)
		}
		observability.Linker().OnIndexLoad(ctx, path, n, time.Since(start), err)
		if err != nil {
			return nil, err
		}
		r.logger.Debug("loaded install state", "path", path, "entries", n)

		r.mu.Lock()
		r.indexes[path] = idx
		r.mu.Unlock()
		return idx, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*stateIndex), nil
}

func (r *Indexed) cached(path string) *stateIndex {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.indexes[path]
}

func (r *Indexed) readIndex(path string) (*stateIndex, error) {
	data, err := r.ReadFile(path)
	if err != nil {
		if vfs.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "no install state at %s; run yarn install first", path)
		}
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read install state")
	}
	return parseStateIndex(path, []byte(data))
}

func parseStateIndex(path string, data []byte) (*stateIndex, error) {
	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidIndex, err, "parse %s", path)
	}

	idx := &stateIndex{entries: make(map[string]stateEntry, len(raw))}
	for key, node := range raw {
		if key == stateMetadataKey {
			continue
		}
		var entry stateEntry
		if err := node.Decode(&entry); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidIndex, err, "entry %q in %s", key, path)
		}
		// One index key may list several comma-separated locators.
		for _, k := range strings.Split(key, ",") {
			k = strings.TrimSpace(k)
			if k == "" {
				continue
			}
			idx.entries[k] = entry
			idx.keys = append(idx.keys, k)
		}
	}
	sort.Strings(idx.keys)
	return idx, nil
}
