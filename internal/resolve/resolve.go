// Package resolve implements novac's Module Resolver:
// turning an import specifier plus its containing file into a concrete
// source file on disk, or a structured failure the Build Driver can map to
// a diagnostic code. The cache-by-absolute-path and cycle-aware module
// bookkeeping follow funxy's internal/modules.Loader; the extension
// search order and package.json exports/imports walk are novac's own,
// since funxy's loader resolves a single-extension scripting language and
// has no notion of package.json conditional exports.
package resolve

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/novalang/novac/internal/config"
)

// Kind distinguishes the import forms that resolve differently under
// Node-style ESM rules.
type Kind int

const (
	KindImport Kind = iota
	KindRequire
	KindTypeReferenceDirective
)

// Resolved is what a successful resolution produces.
type Resolved struct {
	FileName                string
	Extension                string
	IsExternalLibraryImport bool
	PackageName             string // "" unless resolved through node_modules
}

// FailureKind enumerates the structured reasons a resolution can fail,
// each mapped by the Build Driver to its own diagnostic code.
type FailureKind int

const (
	FailureNotFound FailureKind = iota
	FailurePathMapping
	FailurePackageJsonError
	FailureModuleKindMismatch
	FailureJsonWithoutFlag
	FailureJsxNotEnabled
)

func (k FailureKind) String() string {
	switch k {
	case FailureNotFound:
		return "not-found"
	case FailurePathMapping:
		return "path-mapping"
	case FailurePackageJsonError:
		return "package-json-error"
	case FailureModuleKindMismatch:
		return "module-kind-mismatch"
	case FailureJsonWithoutFlag:
		return "json-without-flag"
	case FailureJsxNotEnabled:
		return "jsx-not-enabled"
	default:
		return "unknown"
	}
}

// Failure is a resolve attempt's structured error (never a bare Go error
// for a semantic resolution outcome, matching the rest of the solver).
type Failure struct {
	Kind      FailureKind
	Specifier string
	Message   string
}

func (f *Failure) Error() string { return f.Message }

// sourceExtensions is the base extension search order.
// ".d.ts" sits ahead of ".js" because a declaration file should win over a
// plain JS sibling when both exist.
var sourceExtensions = []string{".ts", ".tsx", ".d.ts", ".mts", ".cts"}

var tsLikeExtensions = map[string]bool{".ts": true, ".tsx": true, ".mts": true, ".cts": true}

type cacheKey struct {
	specifier string
	dir       string
	kind      Kind
}

// Resolver resolves specifiers against one project Config, caching results
// by (specifier, containing directory) the way funxy's Loader caches
// modules by absolute path.
type Resolver struct {
	cfg   *config.Config
	cache map[cacheKey]*cacheResult
}

type cacheResult struct {
	resolved *Resolved
	failure  *Failure
}

func New(cfg *config.Config) *Resolver {
	return &Resolver{cfg: cfg, cache: make(map[cacheKey]*cacheResult)}
}

func (r *Resolver) extensions() []string {
	exts := append([]string(nil), sourceExtensions...)
	exts = append(exts, ".js", ".jsx")
	if r.cfg.ResolveJsonModule {
		exts = append(exts, ".json")
	}
	return exts
}

// Resolve turns specifier (as written in an import/require/reference
// appearing in containingFile) into a Resolved file or a structured
// Failure.
func (r *Resolver) Resolve(specifier, containingFile string, kind Kind) (*Resolved, *Failure) {
	dir := filepath.Dir(containingFile)
	key := cacheKey{specifier: specifier, dir: dir, kind: kind}
	if cached, ok := r.cache[key]; ok {
		return cached.resolved, cached.failure
	}
	resolved, failure := r.resolveUncached(specifier, dir, kind)
	r.cache[key] = &cacheResult{resolved: resolved, failure: failure}
	return resolved, failure
}

func (r *Resolver) resolveUncached(specifier, dir string, kind Kind) (*Resolved, *Failure) {
	if r.cfg.NoResolve {
		return nil, &Failure{Kind: FailureNotFound, Specifier: specifier, Message: "module resolution is disabled (--noResolve)"}
	}

	if isRelativeOrAbsolute(specifier) {
		base := specifier
		if !filepath.IsAbs(base) {
			base = filepath.Join(dir, specifier)
		}
		return r.resolveFileOrDirectory(base, specifier)
	}

	if resolved, failure := r.resolvePaths(specifier, dir); resolved != nil || failure != nil {
		return resolved, failure
	}

	return r.resolveNodeModules(specifier, dir)
}

func isRelativeOrAbsolute(specifier string) bool {
	return strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../") || filepath.IsAbs(specifier) || specifier == "."
}

// resolvePaths applies tsconfig-style baseUrl+paths mapping before falling
// through to node_modules resolution.
func (r *Resolver) resolvePaths(specifier, dir string) (*Resolved, *Failure) {
	if len(r.cfg.Paths) == 0 {
		return nil, nil
	}
	base := r.cfg.BaseUrl
	if base == "" {
		base = "."
	}
	if !filepath.IsAbs(base) {
		base = filepath.Join(dir, base)
	}
	for pattern, targets := range r.cfg.Paths {
		prefix, suffix, hasStar := splitPattern(pattern)
		if !hasStar {
			if specifier != pattern {
				continue
			}
			for _, target := range targets {
				if res, _ := r.resolveFileOrDirectory(filepath.Join(base, target), specifier); res != nil {
					return res, nil
				}
			}
			return nil, &Failure{Kind: FailurePathMapping, Specifier: specifier, Message: "path mapping '" + pattern + "' matched but no candidate target exists"}
		}
		if strings.HasPrefix(specifier, prefix) && strings.HasSuffix(specifier, suffix) {
			matched := specifier[len(prefix) : len(specifier)-len(suffix)]
			for _, target := range targets {
				full := strings.Replace(target, "*", matched, 1)
				if res, _ := r.resolveFileOrDirectory(filepath.Join(base, full), specifier); res != nil {
					return res, nil
				}
			}
			return nil, &Failure{Kind: FailurePathMapping, Specifier: specifier, Message: "path mapping '" + pattern + "' matched but no candidate target exists"}
		}
	}
	return nil, nil
}

func splitPattern(pattern string) (prefix, suffix string, hasStar bool) {
	idx := strings.IndexByte(pattern, '*')
	if idx < 0 {
		return pattern, "", false
	}
	return pattern[:idx], pattern[idx+1:], true
}

// resolveNodeModules walks dir and its ancestors looking for a
// node_modules/<package> directory, the same upward-walk shape the
// funxy's loader uses to find a package relative to the importing file
// before falling back to a workspace-wide index.
func (r *Resolver) resolveNodeModules(specifier, dir string) (*Resolved, *Failure) {
	pkgName, subpath := splitPackageSpecifier(specifier)

	for cur := dir; ; {
		candidate := filepath.Join(cur, "node_modules", pkgName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			if res, fail := r.resolvePackageDir(candidate, pkgName, subpath); res != nil || fail != nil {
				return res, fail
			}
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			break
		}
		cur = parent
	}
	return nil, &Failure{Kind: FailureNotFound, Specifier: specifier, Message: "cannot find module '" + specifier + "'"}
}

// splitPackageSpecifier separates a bare specifier into its package name
// (including a single scope segment for "@scope/name") and any remaining
// subpath.
func splitPackageSpecifier(specifier string) (pkgName, subpath string) {
	parts := strings.SplitN(specifier, "/", 2)
	if strings.HasPrefix(specifier, "@") && len(parts) == 2 {
		scoped := strings.SplitN(parts[1], "/", 2)
		if len(scoped) == 2 {
			return parts[0] + "/" + scoped[0], scoped[1]
		}
		return specifier, ""
	}
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return specifier, ""
}

func (r *Resolver) resolvePackageDir(pkgDir, pkgName, subpath string) (*Resolved, *Failure) {
	pj, err := readPackageJSON(filepath.Join(pkgDir, "package.json"))
	if err != nil {
		return nil, &Failure{Kind: FailurePackageJsonError, Specifier: pkgName, Message: err.Error()}
	}

	if pj != nil && (r.cfg.ResolvePackageJsonExports || len(pj.Exports) > 0) {
		if target, ok := pj.resolveExports(subpath, r.conditions()); ok {
			res, fail := r.resolvePackageTarget(filepath.Join(pkgDir, target))
			if res != nil {
				res.IsExternalLibraryImport = true
				res.PackageName = pkgName
			}
			return res, fail
		}
	}

	entryDir := pkgDir
	if subpath != "" {
		entryDir = filepath.Join(pkgDir, subpath)
	} else if pj != nil {
		if types := pj.typesEntry(); types != "" {
			if res, _ := r.resolvePackageTarget(filepath.Join(pkgDir, types)); res != nil {
				res.IsExternalLibraryImport = true
				res.PackageName = pkgName
				return res, nil
			}
		}
	}

	res, fail := r.resolveFileOrDirectory(entryDir, pkgName)
	if res != nil {
		res.IsExternalLibraryImport = true
		res.PackageName = pkgName
	}
	return res, fail
}

// conditions is the ordered condition list package.json "exports" matches
// against: novac's custom conditions first, then "types", "import",
// "require", and "default".
func (r *Resolver) conditions() []string {
	conds := append([]string(nil), r.cfg.CustomConditions...)
	return append(conds, "types", "import", "require", "default")
}

// resolvePackageTarget resolves a path already named by a package.json
// field (an "exports" or "types" entry), not by the importing source
// file. The allowImportingTsExtensions/resolveJsonModule gates only police
// what a project's own source writes in an import specifier, so a package
// author's own declared entry file is trusted as-is if it exists.
func (r *Resolver) resolvePackageTarget(base string) (*Resolved, *Failure) {
	if ext := explicitExtension(base); ext != "" {
		if fileExists(base) {
			return &Resolved{FileName: base, Extension: ext}, nil
		}
		return nil, &Failure{Kind: FailureNotFound, Specifier: base, Message: "cannot find module '" + base + "'"}
	}
	return r.resolveFileOrDirectory(base, base)
}

// resolveFileOrDirectory tries base as a literal file (honoring an explicit
// recognized extension already present on specifier), then as
// base+extension for each extension in search order, then as a directory
// through its package.json types entry or an index file. A package.json
// "main" entry is not consulted.
func (r *Resolver) resolveFileOrDirectory(base, specifier string) (*Resolved, *Failure) {
	if ext := explicitExtension(specifier); ext != "" {
		if tsLikeExtensions[ext] && !r.cfg.AllowImportingTsExtensions {
			return nil, &Failure{Kind: FailureModuleKindMismatch, Specifier: specifier, Message: "an import path can only end with a '" + ext + "' extension when 'allowImportingTsExtensions' is enabled"}
		}
		if ext == ".json" && !r.cfg.ResolveJsonModule {
			return nil, &Failure{Kind: FailureJsonWithoutFlag, Specifier: specifier, Message: "cannot import a JSON module unless 'resolveJsonModule' is set"}
		}
		if !isRecognizedExtension(ext) && !r.cfg.AllowArbitraryExtensions {
			return nil, &Failure{Kind: FailureModuleKindMismatch, Specifier: specifier, Message: "an import path can only end with an arbitrary extension when 'allowArbitraryExtensions' is enabled"}
		}
		if fileExists(base) {
			return &Resolved{FileName: base, Extension: ext}, nil
		}
		return nil, &Failure{Kind: FailureNotFound, Specifier: specifier, Message: "cannot find module '" + specifier + "'"}
	}

	for _, suffix := range r.suffixedCandidates() {
		candidate := base + suffix
		if fileExists(candidate) {
			return &Resolved{FileName: candidate, Extension: filepath.Ext(candidate)}, nil
		}
	}

	if info, err := os.Stat(base); err == nil && info.IsDir() {
		if pj, _ := readPackageJSON(filepath.Join(base, "package.json")); pj != nil {
			if types := pj.typesEntry(); types != "" {
				if res, _ := r.resolveFileOrDirectory(filepath.Join(base, types), types); res != nil {
					return res, nil
				}
			}
		}
		for _, suffix := range r.suffixedCandidates() {
			candidate := filepath.Join(base, "index"+suffix)
			if fileExists(candidate) {
				return &Resolved{FileName: candidate, Extension: filepath.Ext(candidate)}, nil
			}
		}
	}

	return nil, &Failure{Kind: FailureNotFound, Specifier: specifier, Message: "cannot find module '" + specifier + "'"}
}

// suffixedCandidates inserts each configured moduleSuffix (e.g. ".ios")
// before every extension in search order, trying suffixed forms before the
// bare extension so a platform-specific file wins when present.
func (r *Resolver) suffixedCandidates() []string {
	exts := r.extensions()
	if len(r.cfg.ModuleSuffixes) == 0 {
		return exts
	}
	out := make([]string, 0, len(exts)*(len(r.cfg.ModuleSuffixes)+1))
	for _, suffix := range r.cfg.ModuleSuffixes {
		if suffix == "" {
			continue
		}
		for _, ext := range exts {
			out = append(out, suffix+ext)
		}
	}
	out = append(out, exts...)
	return out
}

func explicitExtension(specifier string) string {
	ext := filepath.Ext(specifier)
	if ext == "" {
		return ""
	}
	return ext
}

func isRecognizedExtension(ext string) bool {
	switch ext {
	case ".ts", ".tsx", ".d.ts", ".mts", ".cts", ".js", ".jsx", ".json":
		return true
	default:
		return false
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
