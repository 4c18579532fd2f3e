package project

import "path/filepath"

// Workspace is one workspace of the project.
type Workspace struct {
	// Cwd is the workspace directory relative to the project root ("." for the top level).
	Cwd string
	// Name is the manifest name; the top-level one names the product in disclaimers.
	Name string
	// Anchored is the descriptor pointing the workspace at itself (name@workspace:<cwd>).
	Anchored Descriptor
	// Dependencies are the direct dependency descriptors, in declaration order.
	Dependencies []Descriptor
}

// Project is a resolved dependency graph rooted at Cwd.
type Project struct {
	Cwd        string
	Workspaces []*Workspace

	// StoredDescriptors maps descriptor hash to descriptor.
	StoredDescriptors map[string]Descriptor
	// StoredResolutions maps descriptor hash to locator hash.
	StoredResolutions map[string]string
	// StoredPackages maps locator hash to package.
	StoredPackages map[string]*Package
}

// New returns an empty project rooted at cwd.
func New(cwd string) *Project {
	return &Project{
		Cwd:               cwd,
		StoredDescriptors: make(map[string]Descriptor),
		StoredResolutions: make(map[string]string),
		StoredPackages:    make(map[string]*Package),
	}
}

// AddWorkspace registers ws. The first workspace whose Cwd is "." becomes the top level.
func (p *Project) AddWorkspace(ws *Workspace) {
	p.Workspaces = append(p.Workspaces, ws)
}

// Resolve records that d resolves to pkg. Passing a nil pkg stores the
// descriptor without a resolution.
func (p *Project) Resolve(d Descriptor, pkg *Package) {
	p.StoredDescriptors[d.Hash()] = d
	if pkg == nil {
		return
	}
	p.StoredResolutions[d.Hash()] = pkg.Hash()
	p.StoredPackages[pkg.Hash()] = pkg
}

// Package looks up the package a descriptor resolved to.
func (p *Project) Package(d Descriptor) (*Package, bool) {
	h, ok := p.StoredResolutions[d.Hash()]
	if !ok {
		return nil, false
	}
	pkg, ok := p.StoredPackages[h]
	return pkg, ok
}

// TopLevelWorkspace returns the workspace rooted at the project directory, or nil.
func (p *Project) TopLevelWorkspace() *Workspace {
	for _, ws := range p.Workspaces {
		if filepath.Clean(ws.Cwd) == "." {
			return ws
		}
	}
	return nil
}
