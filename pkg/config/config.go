// Package config loads the optional bowerimport.toml project file.
//
// Every key is optional:
//
//	directory    = "vendor/components"  # components directory for lister "dir"
//	ignore       = ["almond"]           # skipped in addition to requirejs
//	munge_suffix = "-js"                # replaces a trailing .js in module ids
//	bower        = "bower"              # bower executable
//	offline      = true                 # pass --offline to bower list
//	lister       = "bower"              # "bower" or "dir"
//	answers      = true                 # remember prompt answers across runs
//
// Unknown keys are an error, so typos do not silently fall back to defaults.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/bowerimport/pkg/errors"
	"github.com/matzehuels/bowerimport/pkg/output"
)

// FileName is the configuration file looked up in the project directory.
const FileName = "bowerimport.toml"

// Lister names.
const (
	ListerBower = "bower"
	ListerDir   = "dir"
)

// Config is the project configuration.
type Config struct {
	Directory   string   `toml:"directory"`
	Ignore      []string `toml:"ignore"`
	MungeSuffix string   `toml:"munge_suffix"`
	Bower       string   `toml:"bower"`
	Offline     bool     `toml:"offline"`
	Lister      string   `toml:"lister"`
	Answers     bool     `toml:"answers"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `toml:"-"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		MungeSuffix: output.DefaultMungeSuffix,
		Bower:       "bower",
		Offline:     true,
		Lister:      ListerBower,
		Answers:     true,
	}
}

// Load reads FileName from dir. A missing file yields Default().
func Load(dir string) (Config, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads the configuration at path on top of Default().
func LoadFile(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path
	return cfg, cfg.Validate()
}

// Validate checks value constraints.
func (c Config) Validate() error {
	switch c.Lister {
	case ListerBower, ListerDir:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "lister must be %q or %q, got %q", ListerBower, ListerDir, c.Lister)
	}
	if c.MungeSuffix == "" || strings.ContainsAny(c.MungeSuffix, `/\`) || strings.HasSuffix(strings.ToLower(c.MungeSuffix), ".js") {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid munge_suffix %q", c.MungeSuffix)
	}
	for _, name := range c.Ignore {
		if err := errors.ValidatePackageName(name); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "ignore entry %q", name)
		}
	}
	return nil
}
