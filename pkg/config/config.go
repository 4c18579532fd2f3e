// Package config reads the settings that decide how a project is inspected.
//
// Two sources are consulted. The linker strategy comes from the project's
// .yarnrc.yml (nodeLinker), which YARN_NODE_LINKER overrides, exactly as Yarn
// itself reads it. Tool defaults (recursive, product name, output path) come
// from an optional licensetower.toml next to the lockfile. Command-line flags
// take precedence over both; that merge happens in the CLI.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/licensetower/pkg/errors"
	"github.com/matzehuels/licensetower/pkg/linker"
	"github.com/matzehuels/licensetower/pkg/vfs"
)

const (
	// YarnrcName is Yarn's per-project configuration file.
	YarnrcName = ".yarnrc.yml"

	// FileName is the optional tool configuration file.
	FileName = "licensetower.toml"

	// LinkerEnv overrides nodeLinker from .yarnrc.yml.
	LinkerEnv = "YARN_NODE_LINKER"

	// DefaultLinker is Yarn's default when nodeLinker is unset.
	DefaultLinker = linker.PnP
)

// Config is the resolved configuration for one project.
type Config struct {
	// Linker is the install strategy whose layout paths are resolved against.
	Linker linker.Strategy `toml:"linker"`

	// Recursive includes transitive dependencies by default.
	Recursive bool `toml:"recursive"`

	// Product overrides the product name in the disclaimer preamble.
	Product string `toml:"product"`

	// Output is the default disclaimer destination; empty means stdout.
	Output string `toml:"output"`
}

type yarnrc struct {
	NodeLinker string `yaml:"nodeLinker"`
}

// Load reads configuration for the project rooted at cwd.
//
// Missing files are not errors. Precedence for the linker is, lowest first:
// the Yarn default, .yarnrc.yml, licensetower.toml, then YARN_NODE_LINKER.
func Load(cwd string) (*Config, error) {
	return LoadFS(vfs.OS{}, cwd)
}

// LoadFS is [Load] reading both files through fsys.
func LoadFS(fsys vfs.FS, cwd string) (*Config, error) {
	cfg := &Config{Linker: DefaultLinker}

	strategy, err := readYarnrc(fsys, filepath.Join(cwd, YarnrcName))
	if err != nil {
		return nil, err
	}
	if strategy != "" {
		cfg.Linker = strategy
	}

	if err := readTool(fsys, filepath.Join(cwd, FileName), cfg); err != nil {
		return nil, err
	}

	if env := os.Getenv(LinkerEnv); env != "" {
		cfg.Linker = linker.Strategy(env)
	}
	return cfg, nil
}

func readYarnrc(fsys vfs.FS, path string) (linker.Strategy, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if vfs.IsNotExist(err) {
			return "", nil
		}
		return "", errors.Wrap(errors.ErrCodeIO, err, "read %s", path)
	}
	var rc yarnrc
	if err := yaml.Unmarshal([]byte(data), &rc); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	return linker.Strategy(rc.NodeLinker), nil
}

// readTool decodes path over cfg, leaving keys absent from the file untouched.
func readTool(fsys vfs.FS, path string, cfg *Config) error {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if vfs.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(errors.ErrCodeIO, err, "read %s", path)
	}

	md, err := toml.Decode(data, cfg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown key %q in %s", undecoded[0].String(), path)
	}
	return nil
}
