// Package build implements the batch Build Driver: it
// discovers a project's root files, parses and resolves them concurrently,
// orders them so every file is checked after what it imports, runs the
// checker over each, and merges the results into one Result.
//
// Grounded on funxy's internal/pipeline (a Build runs as a sequence of
// stages that all run to completion so diagnostics accumulate from every
// stage) and internal/modules (the per-file dependency graph and its
// topological ordering, see graph.go).
package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/novalang/novac/internal/ast"
	"github.com/novalang/novac/internal/checker"
	"github.com/novalang/novac/internal/config"
	"github.com/novalang/novac/internal/diagnostics"
	"github.com/novalang/novac/internal/parser"
	"github.com/novalang/novac/internal/resolve"
)

// DefaultParse wires internal/parser's recursive-descent parser as the
// Driver's parse stage; cmd/novac and the build tests both pass it to
// Build.
func DefaultParse(source, path string) (*ast.Program, []*diagnostics.Diagnostic) {
	p := parser.New(source, path)
	prog := p.ParseProgram()
	return prog, p.Errors()
}

// FileResult is one file's outcome within a Result.
type FileResult struct {
	Path          string
	Diagnostics   []*diagnostics.Diagnostic
	Signatures    map[string]string
	SignatureHash string
}

// Result is the outcome of one Driver.Build call.
type Result struct {
	BuildID     string
	Files       []*FileResult
	Diagnostics []*diagnostics.Diagnostic // every file's diagnostics, merged and sorted
}

// Summary renders a short human-readable line for CLI/log output, the way
// funxy's CLI reports counts with humanize.Comma rather than raw
// fmt.Sprintf("%d", ...) once the numbers can get large across big batches.
func (r *Result) Summary() string {
	errs := 0
	for _, d := range r.Diagnostics {
		if d.Category == diagnostics.CategoryError {
			errs++
		}
	}
	return fmt.Sprintf("checked %s file(s), %s error(s)",
		humanize.Comma(int64(len(r.Files))), humanize.Comma(int64(errs)))
}

// Driver orchestrates one build of a novac project.
type Driver struct {
	cfg      *config.Config
	resolver *resolve.Resolver
}

// NewDriver constructs a Driver bound to cfg's root/include/exclude patterns
// and resolution settings.
func NewDriver(cfg *config.Config) *Driver {
	return &Driver{cfg: cfg, resolver: resolve.New(cfg)}
}

// ParseFunc parses one file's source into a Program, recording any
// lex/parse diagnostics. Passed explicitly to Build so tests can substitute
// a stub instead of a full source-to-AST round trip; a nil ParseFunc falls
// back to DefaultParse.
type ParseFunc func(source, path string) (*ast.Program, []*diagnostics.Diagnostic)

// Build discovers root files under cfg.RootDir, parses them concurrently,
// builds the cross-file dependency graph, topologically orders the batch,
// and checks each file against the checker, merging every stage's
// diagnostics into one sorted Result.
func (d *Driver) Build(ctx context.Context, parse ParseFunc) (*Result, error) {
	if parse == nil {
		parse = DefaultParse
	}
	paths, err := d.discoverRootFiles()
	if err != nil {
		return nil, fmt.Errorf("build: discovering root files: %w", err)
	}

	nodes := make([]*fileNode, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			src, err := os.ReadFile(p)
			if err != nil {
				return fmt.Errorf("reading %s: %w", p, err)
			}
			prog, parseDiags := parse(string(src), p)
			nodes[i] = &fileNode{path: p, program: prog, parseDiags: parseDiags}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	graph := buildDependencyGraph(nodes, d.resolver)
	ordered := graph.topoOrder()

	var mu sync.Mutex
	results := make([]*FileResult, len(ordered))
	cg, cgctx := errgroup.WithContext(ctx)
	cflags := d.cfg.Flags()
	for i, n := range ordered {
		i, n := i, n
		cg.Go(func() error {
			select {
			case <-cgctx.Done():
				return cgctx.Err()
			default:
			}
			c := checker.New()
			diags := append([]*diagnostics.Diagnostic{}, n.parseDiags...)
			diags = append(diags, c.Check(n.program, n.path, cflags)...)
			sigs := c.ExportedSignatures(n.program)

			mu.Lock()
			results[i] = &FileResult{
				Path:          n.path,
				Diagnostics:   diags,
				Signatures:    sigs,
				SignatureHash: exportSignatureHash(sigs),
			}
			mu.Unlock()
			return nil
		})
	}
	if err := cg.Wait(); err != nil {
		return nil, err
	}

	all := append([]*diagnostics.Diagnostic{}, graph.diags...)
	for _, fr := range results {
		all = append(all, fr.Diagnostics...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		fi, si, ci := diagnostics.SortKey(all[i])
		fj, sj, cj := diagnostics.SortKey(all[j])
		if fi != fj {
			return fi < fj
		}
		if si != sj {
			return si < sj
		}
		return ci < cj
	})

	return &Result{
		BuildID:     uuid.NewString(),
		Files:       results,
		Diagnostics: all,
	}, nil
}

// discoverRootFiles walks cfg.RootDir collecting files matching
// cfg.Include and not matching cfg.Exclude, skipping node_modules and
// cfg.OutDir the way a real project build always does regardless of the
// include patterns configured.
func (d *Driver) discoverRootFiles() ([]string, error) {
	root, err := filepath.Abs(d.cfg.RootDir)
	if err != nil {
		return nil, err
	}
	outDir := filepath.Join(root, d.cfg.OutDir)

	var out []string
	err = filepath.WalkDir(root, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			base := entry.Name()
			if base == "node_modules" || path == outDir {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		for _, ex := range d.cfg.Exclude {
			if matchesPattern(ex, rel) {
				return nil
			}
		}
		for _, inc := range d.cfg.Include {
			if matchesPattern(inc, rel) {
				out = append(out, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

// matchesPattern supports filepath.Match's glob syntax plus the common
// "**/*.ext" recursive form filepath.Match can't express on its own
// (stdlib's Match has no "any depth" wildcard).
func matchesPattern(pattern, relPath string) bool {
	if strings.HasPrefix(pattern, "**/") {
		suffix := pattern[len("**/"):]
		ok, _ := filepath.Match(suffix, filepath.Base(relPath))
		if ok {
			return true
		}
		ok, _ = filepath.Match(suffix, relPath)
		return ok
	}
	ok, _ := filepath.Match(pattern, relPath)
	return ok
}
