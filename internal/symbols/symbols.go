// Package symbols implements the binder-output contract a collaborator
// feeds to the checker: per-file locals, a flat symbol arena, per-module
// export tables, and a node-to-symbol map. novac's Checker does its own
// hoisting inline (see
// internal/checker/decl.go's two-pass hoistDeclarations, grounded on the
// funxy's single-package evaluator shape), so this package is not itself
// in the checking path — it is the introspection surface other
// collaborators (internal/build's persisted build info, internal/rpc,
// internal/protobridge) read to ask "what does file X declare, and what
// does it export" without re-parsing or re-walking the AST themselves.
package symbols

import (
	"github.com/novalang/novac/internal/ast"
)

// Kind is the flags bitmask identifying what a Symbol's flags describe
// ("value/type/alias/enum/class"), widened to cover every novac top-level
// declaration kind.
type Kind uint32

const (
	KindValue Kind = 1 << iota
	KindFunction
	KindClass
	KindInterface
	KindTypeAlias
	KindEnum
)

func (k Kind) Has(bit Kind) bool { return k&bit != 0 }

// Id identifies one Symbol within a Table's arena.
type Id uint32

// Symbol is one declared or imported name.
type Symbol struct {
	ID       Id
	Name     string
	Kind     Kind
	File     string
	Exported bool
}

// Table is one file's binder output: the symbol arena, the file-local name
// table, the subset of locals that are exported, and the declaration-node
// to symbol mapping. Modeled on funxy's SymbolTable's
// name-to-entry map (store) and its distinction between what's declared in
// a scope and what's visible from outside it (traitMethods-style exported
// registries), simplified to novac's flat per-file/value-or-type binder
// contract instead of funxy's trait/instance resolution tables.
type Table struct {
	File    string
	symbols []Symbol

	fileLocals map[string]Id
	exports    map[string]Id
	nodeSymbol map[ast.Node]Id
}

// New creates an empty Table for file.
func New(file string) *Table {
	return &Table{
		File:       file,
		fileLocals: make(map[string]Id),
		exports:    make(map[string]Id),
		nodeSymbol: make(map[ast.Node]Id),
	}
}

func (t *Table) declare(name string, kind Kind, exported bool, node ast.Node) Id {
	id := Id(len(t.symbols))
	t.symbols = append(t.symbols, Symbol{ID: id, Name: name, Kind: kind, File: t.File, Exported: exported})
	t.fileLocals[name] = id
	if exported {
		t.exports[name] = id
	}
	if node != nil {
		t.nodeSymbol[node] = id
	}
	return id
}

// Symbol returns the Symbol stored at id.
func (t *Table) Symbol(id Id) Symbol { return t.symbols[id] }

// Lookup finds a file-local symbol by name, the table's file_locals.
func (t *Table) Lookup(name string) (Symbol, bool) {
	id, ok := t.fileLocals[name]
	if !ok {
		return Symbol{}, false
	}
	return t.symbols[id], true
}

// Exports returns the table's module_exports: every symbol this file
// exports, keyed by name.
func (t *Table) Exports() map[string]Symbol {
	out := make(map[string]Symbol, len(t.exports))
	for name, id := range t.exports {
		out[name] = t.symbols[id]
	}
	return out
}

// SymbolFor returns the symbol a node_symbols entry maps node to, if the
// node is itself the declaration site of a symbol (not every AST node has
// one).
func (t *Table) SymbolFor(node ast.Node) (Symbol, bool) {
	id, ok := t.nodeSymbol[node]
	if !ok {
		return Symbol{}, false
	}
	return t.symbols[id], true
}

// All returns every symbol in declaration order, the table's flat arena.
func (t *Table) All() []Symbol {
	out := make([]Symbol, len(t.symbols))
	copy(out, t.symbols)
	return out
}

// Build walks program's top-level statements recording one Symbol per
// named declaration, following the exact declaration-kind switch
// internal/checker/decl.go's hoistDeclarations uses so the two stay in
// lockstep: anything the checker hoists as a type or value name, Build
// records as a Symbol.
func Build(program *ast.Program, file string) *Table {
	t := New(file)
	for _, raw := range program.Statements {
		exported := false
		stmt := raw
		if exp, ok := raw.(*ast.ExportDeclaration); ok {
			exported = true
			if exp.Decl == nil {
				continue // bare re-export, no local symbol introduced
			}
			stmt = exp.Decl
		}
		switch d := stmt.(type) {
		case *ast.ClassDeclaration:
			t.declare(d.Name, KindClass, exported || d.Exported, d)
		case *ast.InterfaceDeclaration:
			t.declare(d.Name, KindInterface, exported || d.Exported, d)
		case *ast.TypeAliasDeclaration:
			t.declare(d.Name, KindTypeAlias, exported || d.Exported, d)
		case *ast.EnumDeclaration:
			t.declare(d.Name, KindEnum, exported || d.Exported, d)
		case *ast.FunctionDeclaration:
			t.declare(d.Function.Name, KindFunction, exported || d.Exported, d)
		case *ast.VarDeclaration:
			for i := range d.Declarators {
				t.declare(d.Declarators[i].Name, KindValue, exported, d)
			}
		}
	}
	return t
}
