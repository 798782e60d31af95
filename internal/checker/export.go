package checker

import (
	"github.com/novalang/novac/internal/ast"
	"github.com/novalang/novac/internal/types"
)

// ExportedSignatures renders every top-level exported declaration's
// resolved type as a string, keyed by name. Check must have already run
// against program. The Build Driver (internal/build) hashes this map's
// contents to decide whether a file's exported shape changed across a
// rebuild, independent of whether its implementation changed.
func (c *Checker) ExportedSignatures(program *ast.Program) map[string]string {
	out := make(map[string]string)
	for _, raw := range program.Statements {
		exported := false
		stmt := raw
		if exp, ok := raw.(*ast.ExportDeclaration); ok {
			if exp.Decl == nil {
				continue
			}
			exported, stmt = true, exp.Decl
		}
		switch d := stmt.(type) {
		case *ast.FunctionDeclaration:
			if t, ok := c.lookupValue(d.Function.Name); ok && (exported || d.Exported) {
				out[d.Function.Name] = c.in.Print(t, nil)
			}
		case *ast.ClassDeclaration:
			if decl, ok := c.typeNames[d.Name]; ok && (exported || d.Exported) {
				out[d.Name] = c.in.Print(c.in.Reference(types.SymbolRef{Def: decl.def}), nil)
			}
		case *ast.InterfaceDeclaration:
			if decl, ok := c.typeNames[d.Name]; ok && (exported || d.Exported) {
				out[d.Name] = c.in.Print(c.in.Reference(types.SymbolRef{Def: decl.def}), nil)
			}
		case *ast.TypeAliasDeclaration:
			if decl, ok := c.typeNames[d.Name]; ok && (exported || d.Exported) {
				out[d.Name] = c.in.Print(c.in.Reference(types.SymbolRef{Def: decl.def}), nil)
			}
		case *ast.EnumDeclaration:
			if decl, ok := c.typeNames[d.Name]; ok && (exported || d.Exported) {
				out[d.Name] = c.in.Print(decl.enumMember, nil)
			}
		case *ast.VarDeclaration:
			if !exported {
				continue
			}
			for _, v := range d.Declarators {
				if t, ok := c.lookupValue(v.Name); ok {
					out[v.Name] = c.in.Print(t, nil)
				}
			}
		}
	}
	return out
}
