package project

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/licensetower/pkg/errors"
	"github.com/matzehuels/licensetower/pkg/vfs"
)

const (
	// LockfileName is the Yarn lockfile at the project root.
	LockfileName = "yarn.lock"
	// ManifestName is the package manifest file name.
	ManifestName = "package.json"

	metadataKey       = "__metadata"
	workspaceProtocol = "workspace:"
)

type lockEntry struct {
	Version      string            `yaml:"version"`
	Resolution   string            `yaml:"resolution"`
	Dependencies map[string]string `yaml:"dependencies"`
	LinkType     string            `yaml:"linkType"`
}

type rootManifest struct {
	Name string `json:"name"`
}

// Load builds a Project from the yarn.lock and package.json found in cwd.
func Load(cwd string) (*Project, error) {
	return LoadFS(vfs.OS{}, cwd)
}

// LoadFS is Load reading through fsys.
func LoadFS(fsys vfs.FS, cwd string) (*Project, error) {
	lock, err := fsys.ReadFile(filepath.Join(cwd, LockfileName))
	if err != nil {
		if vfs.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "no %s in %s; run yarn install first", LockfileName, cwd)
		}
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read %s", LockfileName)
	}

	p, err := ParseLockfile(cwd, []byte(lock))
	if err != nil {
		return nil, err
	}

	if top := p.TopLevelWorkspace(); top != nil {
		raw, err := fsys.ReadFile(filepath.Join(cwd, ManifestName))
		switch {
		case err == nil:
			var m rootManifest
			if err := json.Unmarshal([]byte(raw), &m); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse %s", ManifestName)
			}
			if m.Name != "" {
				top.Name = m.Name
			}
		case !vfs.IsNotExist(err):
			return nil, errors.Wrap(errors.ErrCodeIO, err, "read %s", ManifestName)
		}
	}
	return p, nil
}

// ParseLockfile builds a Project rooted at cwd from yarn.lock content.
//
// Every lockfile key contributes one descriptor per comma-separated entry,
// all resolving to the entry's resolution. Entries resolved through the
// workspace protocol become workspaces.
func ParseLockfile(cwd string, data []byte) (*Project, error) {
	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidLockfile, err, "parse %s", LockfileName)
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		if k != metadataKey {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	p := New(cwd)
	for _, key := range keys {
		node := raw[key]
		var entry lockEntry
		if err := node.Decode(&entry); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidLockfile, err, "entry %q", key)
		}
		if entry.Resolution == "" {
			return nil, errors.New(errors.ErrCodeInvalidLockfile, "entry %q has no resolution", key)
		}
		loc, err := ParseLocator(entry.Resolution)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidLockfile, err, "entry %q", key)
		}
		pkg := &Package{Locator: loc, Version: entry.Version}

		for _, part := range strings.Split(key, ",") {
			d, err := ParseDescriptor(part)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidLockfile, err, "entry %q", key)
			}
			d.Range = NormalizeRange(d.Range)
			p.Resolve(d, pkg)
		}

		if strings.HasPrefix(loc.Reference, workspaceProtocol) {
			ws, err := workspaceFromEntry(loc, entry)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidLockfile, err, "workspace %q", key)
			}
			// The anchored descriptor always resolves to the workspace itself.
			p.Resolve(ws.Anchored, pkg)
			p.AddWorkspace(ws)
		}
	}

	sort.SliceStable(p.Workspaces, func(i, j int) bool {
		return p.Workspaces[i].Cwd < p.Workspaces[j].Cwd
	})
	return p, nil
}

func workspaceFromEntry(loc Locator, entry lockEntry) (*Workspace, error) {
	ws := &Workspace{
		Cwd:      strings.TrimPrefix(loc.Reference, workspaceProtocol),
		Name:     loc.Ident.String(),
		Anchored: Descriptor{Ident: loc.Ident, Range: loc.Reference},
	}

	names := make([]string, 0, len(entry.Dependencies))
	for name := range entry.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		id, err := ParseIdent(name)
		if err != nil {
			return nil, fmt.Errorf("dependency %q: %w", name, err)
		}
		ws.Dependencies = append(ws.Dependencies, Descriptor{
			Ident: id,
			Range: NormalizeRange(entry.Dependencies[name]),
		})
	}
	return ws, nil
}
