package build

import (
	"sort"

	"github.com/novalang/novac/internal/ast"
	"github.com/novalang/novac/internal/diagnostics"
	"github.com/novalang/novac/internal/resolve"
)

// fileNode is one parsed source file tracked by the dependency graph.
type fileNode struct {
	path       string
	program    *ast.Program
	deps       []string // resolved absolute paths, deduplicated
	parseDiags []*diagnostics.Diagnostic
}

// depGraph is the Build Driver's per-build import graph: one node per root
// file, edges to every file it imports (relatively or through node_modules)
// that also resolved to another root file. External-library imports resolve
// successfully but contribute no edge, since their declarations are outside
// the batch being checked.
type depGraph struct {
	nodes map[string]*fileNode
	order []string // insertion order, used for the cycle-fallback path
	diags []*diagnostics.Diagnostic
}

// importSpecifierOf returns the module specifier a statement resolves
// against, and whether the statement names one at all. Re-exports
// (export ... from "./x") are specifiers too: the Build Driver needs them in
// the graph exactly like imports, since a change to "./x" can change what
// the re-exporting file exports.
func importSpecifierOf(stmt ast.Statement) (string, bool) {
	switch s := stmt.(type) {
	case *ast.ImportDeclaration:
		return s.Source, true
	case *ast.ExportDeclaration:
		if s.Source != "" {
			return s.Source, true
		}
	}
	return "", false
}

// buildDependencyGraph resolves every import/re-export specifier in each
// parsed file against res, recording an edge for every specifier that
// resolves inside the batch being built. A specifier that fails to resolve
// produces a diagnostic rather than aborting the build: the rest of the file, and the
// rest of the batch, still get checked.
func buildDependencyGraph(programs []*fileNode, res *resolve.Resolver) *depGraph {
	g := &depGraph{nodes: make(map[string]*fileNode, len(programs))}
	for _, n := range programs {
		g.nodes[n.path] = n
		g.order = append(g.order, n.path)
	}

	for _, n := range programs {
		seen := make(map[string]bool)
		for _, stmt := range n.program.Statements {
			specifier, ok := importSpecifierOf(stmt)
			if !ok {
				continue
			}
			resolved, fail := res.Resolve(specifier, n.path, resolve.KindImport)
			if fail != nil {
				g.diags = append(g.diags, failureDiagnostic(n.path, specifier, fail))
				continue
			}
			if resolved.IsExternalLibraryImport {
				continue
			}
			if _, inBatch := g.nodes[resolved.FileName]; !inBatch {
				continue
			}
			if !seen[resolved.FileName] {
				seen[resolved.FileName] = true
				n.deps = append(n.deps, resolved.FileName)
			}
		}
	}
	return g
}

// failureDiagnostic maps a structured resolver failure onto one of the
// checker's numeric diagnostic codes — the Build Driver's job, since the
// resolver itself never touches diagnostics.Diagnostic.
func failureDiagnostic(file, specifier string, fail *resolve.Failure) *diagnostics.Diagnostic {
	code := diagnostics.CodeCannotFindModule
	switch fail.Kind {
	case resolve.FailurePathMapping:
		code = diagnostics.CodePathMappingError
	case resolve.FailurePackageJsonError:
		code = diagnostics.CodePackageJsonError
	case resolve.FailureModuleKindMismatch:
		code = diagnostics.CodeModuleKindMismatch
	case resolve.FailureJsonWithoutFlag:
		code = diagnostics.CodeJsonWithoutFlag
	case resolve.FailureJsxNotEnabled:
		code = diagnostics.CodeJsxNotEnabled
	}
	return diagnostics.NewDiagnostic(file, 0, uint32(len(specifier)), code, "%s", fail.Message)
}

// topoOrder orders the batch so every file is checked after the files it
// imports, matching funxy's orderByTopLevelDeps: an in-degree count
// per node, an index-sorted ready queue, and a fall back to the original
// (insertion) order when the graph has a cycle or otherwise can't fully
// drain, rather than failing the build.
func (g *depGraph) topoOrder() []*fileNode {
	n := len(g.order)
	if n <= 1 {
		out := make([]*fileNode, 0, n)
		for _, p := range g.order {
			out = append(out, g.nodes[p])
		}
		return out
	}

	index := make(map[string]int, n)
	for i, p := range g.order {
		index[p] = i
	}

	edges := make([][]int, n)
	inDegree := make([]int, n)
	for i, p := range g.order {
		for _, dep := range g.nodes[p].deps {
			depIdx, ok := index[dep]
			if !ok || depIdx == i {
				continue
			}
			edges[depIdx] = append(edges[depIdx], i)
			inDegree[i]++
		}
	}

	queue := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if inDegree[i] == 0 {
			queue = append(queue, i)
		}
	}
	sort.Ints(queue)

	ordered := make([]int, 0, n)
	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]
		ordered = append(ordered, idx)
		for _, next := range edges[idx] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
				sort.Ints(queue)
			}
		}
	}

	if len(ordered) != n {
		ordered = ordered[:0]
		for i := 0; i < n; i++ {
			ordered = append(ordered, i)
		}
	}

	out := make([]*fileNode, 0, n)
	for _, idx := range ordered {
		out = append(out, g.nodes[g.order[idx]])
	}
	return out
}
