package linker

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/matzehuels/licensetower/pkg/project"
	"github.com/matzehuels/licensetower/pkg/vfs"
)

const workspaceProtocol = "workspace:"

// Flat resolves packages installed at node_modules/<name>.
type Flat struct {
	vfs.FS
}

func newFlat(o options) *Flat {
	return &Flat{FS: o.fs}
}

func (*Flat) Strategy() Strategy { return PNPM }

// InstallPath joins the project root, node_modules, and the package name.
// Workspaces resolve to their own directory. A path that does not exist on
// disk surfaces later as a read failure.
func (*Flat) InstallPath(_ context.Context, p *project.Project, pkg *project.Package) (string, bool, error) {
	if rel, ok := strings.CutPrefix(pkg.Reference, workspaceProtocol); ok {
		return filepath.Join(p.Cwd, filepath.FromSlash(rel)), true, nil
	}
	if pkg.Name == "" {
		return "", false, nil
	}
	return filepath.Join(p.Cwd, NodeModulesDir, filepath.FromSlash(pkg.Ident.String())), true, nil
}
