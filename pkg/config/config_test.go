package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/matzehuels/licensetower/pkg/errors"
	"github.com/matzehuels/licensetower/pkg/linker"
	"github.com/matzehuels/licensetower/pkg/vfs"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name   string
		yarnrc string
		tool   string
		env    string
		want   Config
	}{
		{
			name: "defaults",
			want: Config{Linker: linker.PnP},
		},
		{
			name:   "yarnrc node-modules",
			yarnrc: "nodeLinker: node-modules\n",
			want:   Config{Linker: linker.NodeModules},
		},
		{
			name:   "yarnrc without nodeLinker",
			yarnrc: "enableTelemetry: false\n",
			want:   Config{Linker: linker.PnP},
		},
		{
			name:   "env overrides yarnrc",
			yarnrc: "nodeLinker: node-modules\n",
			env:    "pnpm",
			want:   Config{Linker: linker.PNPM},
		},
		{
			name: "tool file",
			tool: "recursive = true\nproduct = \"acme-suite\"\noutput = \"NOTICE.txt\"\n",
			want: Config{Linker: linker.PnP, Recursive: true, Product: "acme-suite", Output: "NOTICE.txt"},
		},
		{
			name:   "tool linker overrides yarnrc",
			yarnrc: "nodeLinker: node-modules\n",
			tool:   "linker = \"pnpm\"\n",
			want:   Config{Linker: linker.PNPM},
		},
		{
			name:   "tool without linker keeps yarnrc",
			yarnrc: "nodeLinker: pnpm\n",
			tool:   "recursive = true\n",
			want:   Config{Linker: linker.PNPM, Recursive: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.yarnrc != "" {
				writeFile(t, dir, YarnrcName, tt.yarnrc)
			}
			if tt.tool != "" {
				writeFile(t, dir, FileName, tt.tool)
			}
			t.Setenv(LinkerEnv, tt.env)

			cfg, err := Load(dir)
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if *cfg != tt.want {
				t.Errorf("Load() = %+v, want %+v", *cfg, tt.want)
			}
		})
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name   string
		yarnrc string
		tool   string
	}{
		{name: "bad yaml", yarnrc: "nodeLinker: [unterminated\n"},
		{name: "bad toml", tool: "recursive = \n"},
		{name: "wrong toml type", tool: "recursive = \"yes\"\n"},
		{name: "unknown toml key", tool: "linkr = \"pnpm\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.yarnrc != "" {
				writeFile(t, dir, YarnrcName, tt.yarnrc)
			}
			if tt.tool != "" {
				writeFile(t, dir, FileName, tt.tool)
			}
			t.Setenv(LinkerEnv, "")

			_, err := Load(dir)
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Load() error = %v, want %s", err, errors.ErrCodeInvalidConfig)
			}
		})
	}
}

func TestLoadUnreadable(t *testing.T) {
	dir := t.TempDir()
	// A directory where the file is expected fails with something other than "not exist".
	if err := os.Mkdir(filepath.Join(dir, YarnrcName), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv(LinkerEnv, "")

	_, err := Load(dir)
	if !errors.Is(err, errors.ErrCodeIO) {
		t.Errorf("Load() error = %v, want %s", err, errors.ErrCodeIO)
	}
}

// mapFS serves files from memory. Paths listed in fail return that error.
type mapFS struct {
	files map[string]string
	fail  map[string]error
}

func (m mapFS) ReadFile(path string) (string, error) {
	if err, ok := m.fail[path]; ok {
		return "", &fs.PathError{Op: "open", Path: path, Err: err}
	}
	data, ok := m.files[path]
	if !ok {
		return "", &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return data, nil
}

func (mapFS) ReadDir(path string) ([]vfs.DirEntry, error) {
	return nil, &fs.PathError{Op: "readdir", Path: path, Err: fs.ErrNotExist}
}

func TestLoadFS(t *testing.T) {
	root := filepath.Join("/", "repo")
	yarnrc := filepath.Join(root, YarnrcName)
	tool := filepath.Join(root, FileName)

	tests := []struct {
		name    string
		fsys    mapFS
		want    Config
		wantErr errors.Code
	}{
		{
			name: "both files",
			fsys: mapFS{files: map[string]string{
				yarnrc: "nodeLinker: node-modules\n",
				tool:   "recursive = true\nproduct = \"acme\"\n",
			}},
			want: Config{Linker: linker.NodeModules, Recursive: true, Product: "acme"},
		},
		{
			name: "nothing on disk",
			fsys: mapFS{},
			want: Config{Linker: linker.PnP},
		},
		{
			name: "parent is a file",
			fsys: mapFS{fail: map[string]error{yarnrc: syscall.ENOTDIR, tool: syscall.ENOTDIR}},
			want: Config{Linker: linker.PnP},
		},
		{
			name:    "permission denied",
			fsys:    mapFS{fail: map[string]error{tool: fs.ErrPermission}},
			wantErr: errors.ErrCodeIO,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(LinkerEnv, "")

			got, err := LoadFS(tt.fsys, root)
			if tt.wantErr != "" {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("LoadFS() error = %v, want %s", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadFS() error = %v", err)
			}
			if *got != tt.want {
				t.Errorf("LoadFS() = %+v, want %+v", *got, tt.want)
			}
		})
	}
}
