package symbols

import (
	"testing"

	"github.com/novalang/novac/internal/parser"
)

func parseFile(t *testing.T, src string) *parser.Parser {
	t.Helper()
	p := parser.New(src, "test.ts")
	return p
}

func TestBuildRecordsExportedAndLocalSymbols(t *testing.T) {
	p := parseFile(t, `
export function greet(name: string): string { return name; }
const secret: number = 1;
export class Widget {}
`)
	prog := p.ParseProgram()
	if len(p.Errors()) > 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}

	table := Build(prog, "test.ts")

	greet, ok := table.Lookup("greet")
	if !ok || !greet.Exported || greet.Kind != KindFunction {
		t.Fatalf("expected exported function symbol for greet, got %+v (ok=%v)", greet, ok)
	}

	secret, ok := table.Lookup("secret")
	if !ok || secret.Exported || secret.Kind != KindValue {
		t.Fatalf("expected unexported value symbol for secret, got %+v (ok=%v)", secret, ok)
	}

	exports := table.Exports()
	if _, ok := exports["secret"]; ok {
		t.Fatalf("secret must not appear in module exports")
	}
	if _, ok := exports["Widget"]; !ok {
		t.Fatalf("expected Widget in module exports")
	}
}

func TestBuildAssignsDistinctSymbolIds(t *testing.T) {
	p := parseFile(t, `
export const a: number = 1;
export const b: number = 2;
`)
	prog := p.ParseProgram()
	table := Build(prog, "test.ts")

	a, _ := table.Lookup("a")
	b, _ := table.Lookup("b")
	if a.ID == b.ID {
		t.Fatalf("expected distinct symbol ids, got %d and %d", a.ID, b.ID)
	}
	if len(table.All()) != 2 {
		t.Fatalf("expected 2 symbols in the arena, got %d", len(table.All()))
	}
}

func TestSymbolForMapsDeclarationNodeBackToSymbol(t *testing.T) {
	p := parseFile(t, `export enum Color { Red, Green }`)
	prog := p.ParseProgram()
	table := Build(prog, "test.ts")

	sym, ok := table.Lookup("Color")
	if !ok {
		t.Fatalf("expected Color symbol to be declared")
	}
	if sym.Kind != KindEnum {
		t.Fatalf("expected KindEnum, got %v", sym.Kind)
	}
	if s, ok := table.SymbolFor(prog.Statements[0]); !ok || s.ID != sym.ID {
		t.Fatalf("expected SymbolFor to map the enum declaration back to %+v, got %+v (ok=%v)", sym, s, ok)
	}
}
