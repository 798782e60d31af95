// Package config loads a novac project's compiler options from a
// novac.yaml file. The Config shape and yaml.v3 struct-tag loading style
// follow funxy's own ext.Config/funxy.yaml loader.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/novalang/novac/internal/flags"
)

// ModuleKind controls how internal/resolve interprets bare specifiers.
type ModuleKind string

const (
	ModuleCommonJS ModuleKind = "commonjs"
	ModuleESNext   ModuleKind = "esnext"
	ModuleNode16   ModuleKind = "node16"
)

// Config is the top-level novac.yaml document.
type Config struct {
	RootDir  string   `yaml:"rootDir,omitempty"`
	OutDir   string   `yaml:"outDir,omitempty"`
	Include  []string `yaml:"include,omitempty"`
	Exclude  []string `yaml:"exclude,omitempty"`
	Lib      []string `yaml:"lib,omitempty"`
	Module   ModuleKind `yaml:"module,omitempty"`

	Strict                        bool `yaml:"strict,omitempty"`
	StrictNullChecks              bool `yaml:"strictNullChecks,omitempty"`
	StrictFunctionTypes           bool `yaml:"strictFunctionTypes,omitempty"`
	StrictBindCallApply           bool `yaml:"strictBindCallApply,omitempty"`
	StrictPropertyInitialization  bool `yaml:"strictPropertyInitialization,omitempty"`
	NoImplicitAny                 bool `yaml:"noImplicitAny,omitempty"`
	NoImplicitThis                bool `yaml:"noImplicitThis,omitempty"`
	UseUnknownInCatchVariables     bool `yaml:"useUnknownInCatchVariables,omitempty"`
	AlwaysStrict                  bool `yaml:"alwaysStrict,omitempty"`
	NoImplicitReturns             bool `yaml:"noImplicitReturns,omitempty"`
	NoImplicitOverride            bool `yaml:"noImplicitOverride,omitempty"`
	NoUncheckedIndexedAccess       bool `yaml:"noUncheckedIndexedAccess,omitempty"`
	ExactOptionalPropertyTypes    bool `yaml:"exactOptionalPropertyTypes,omitempty"`
	AllowUnreachableCode          bool `yaml:"allowUnreachableCode,omitempty"`
	NoCheck                       bool `yaml:"noCheck,omitempty"`
	AllowJs                       bool `yaml:"allowJs,omitempty"`
	CheckJs                       bool `yaml:"checkJs,omitempty"`

	Declaration bool `yaml:"declaration,omitempty"`

	// CustomConditions feeds internal/resolve's package.json "exports"
	// condition matching.
	CustomConditions []string `yaml:"customConditions,omitempty"`

	// BaseUrl/Paths drive internal/resolve's path-mapping fallback before
	// it falls through to package.json resolution.
	BaseUrl string              `yaml:"baseUrl,omitempty"`
	Paths   map[string][]string `yaml:"paths,omitempty"`

	// ModuleSuffixes inserts a suffix (e.g. ".ios") before the extension
	// during internal/resolve's file-candidate search.
	ModuleSuffixes []string `yaml:"moduleSuffixes,omitempty"`

	ResolveJsonModule          bool `yaml:"resolveJsonModule,omitempty"`
	ResolvePackageJsonExports  bool `yaml:"resolvePackageJsonExports,omitempty"`
	ResolvePackageJsonImports  bool `yaml:"resolvePackageJsonImports,omitempty"`
	AllowArbitraryExtensions   bool `yaml:"allowArbitraryExtensions,omitempty"`
	AllowImportingTsExtensions bool `yaml:"allowImportingTsExtensions,omitempty"`
	NoResolve                  bool `yaml:"noResolve,omitempty"`

	// CacheDir, if set, enables internal/buildcache's persisted incremental
	// cache under this directory.
	CacheDir string `yaml:"cacheDir,omitempty"`
}

// FileName is the conventional project config file novac looks for in a
// directory and its ancestors, mirroring how funxy's loader resolves
// funxy.yaml.
const FileName = "novac.yaml"

// Default returns a Config with funxy's conservative baseline: no
// strict flags enabled, ESNext modules, declaration emission off.
func Default() *Config {
	return &Config{
		RootDir: ".",
		OutDir:  "dist",
		Module:  ModuleESNext,
		Include: []string{"**/*.ts"},
	}
}

// Load reads and parses the novac.yaml at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// FindAndLoad walks upward from dir looking for novac.yaml, the same
// ancestor-search strategy funxy's loader uses for funxy.yaml.
func FindAndLoad(dir string) (*Config, string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, "", err
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			cfg, err := Load(candidate)
			return cfg, candidate, err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), "", nil
		}
		dir = parent
	}
}

// Flags projects the strictness section of Config into an internal/flags.Flags
// bitmask for the solver packages (internal/subtype, internal/assign, ...).
func (c *Config) Flags() flags.Flags {
	var f flags.Flags
	if c.Strict {
		f |= flags.AllStrict
	}
	f = setFlag(f, flags.StrictNullChecks, c.Strict || c.StrictNullChecks)
	f = setFlag(f, flags.StrictFunctionTypes, c.Strict || c.StrictFunctionTypes)
	f = setFlag(f, flags.StrictBindCallApply, c.Strict || c.StrictBindCallApply)
	f = setFlag(f, flags.StrictPropertyInitialization, c.Strict || c.StrictPropertyInitialization)
	f = setFlag(f, flags.NoImplicitAny, c.Strict || c.NoImplicitAny)
	f = setFlag(f, flags.NoImplicitThis, c.Strict || c.NoImplicitThis)
	f = setFlag(f, flags.UseUnknownInCatchVariables, c.Strict || c.UseUnknownInCatchVariables)
	f = setFlag(f, flags.AlwaysStrict, c.Strict || c.AlwaysStrict)
	f = setFlag(f, flags.NoImplicitReturns, c.NoImplicitReturns)
	f = setFlag(f, flags.NoImplicitOverride, c.NoImplicitOverride)
	f = setFlag(f, flags.NoUncheckedIndexedAccess, c.NoUncheckedIndexedAccess)
	f = setFlag(f, flags.ExactOptionalPropertyTypes, c.ExactOptionalPropertyTypes)
	f = setFlag(f, flags.AllowUnreachableCode, c.AllowUnreachableCode)
	f = setFlag(f, flags.NoCheck, c.NoCheck)
	f = setFlag(f, flags.AllowJs, c.AllowJs)
	f = setFlag(f, flags.CheckJs, c.CheckJs)
	return f
}

func setFlag(f flags.Flags, bit flags.Flags, on bool) flags.Flags {
	if on {
		return f.With(bit)
	}
	return f.Without(bit)
}
