package emit

import (
	"strings"
	"testing"

	"github.com/novalang/novac/internal/checker"
	"github.com/novalang/novac/internal/flags"
	"github.com/novalang/novac/internal/parser"
	"github.com/novalang/novac/internal/symbols"
)

func TestDeclarationFileEmitsOneLinePerExport(t *testing.T) {
	src := `
export const count: number = 1;
export function greet(name: string): string { return name; }
let hidden: number = 2;
`
	p := parser.New(src, "test.ts")
	prog := p.ParseProgram()
	if len(p.Errors()) > 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}

	c := checker.New()
	if diags := c.Check(prog, "test.ts", flags.Flags(0)); len(diags) > 0 {
		t.Fatalf("unexpected check diagnostics: %v", diags)
	}

	table := symbols.Build(prog, "test.ts")
	sigs := c.ExportedSignatures(prog)

	out := DeclarationFile(table, sigs)
	if !strings.Contains(out, "export declare const count:") {
		t.Fatalf("expected a declare-const line for count, got:\n%s", out)
	}
	if !strings.Contains(out, "export declare function greet:") {
		t.Fatalf("expected a declare-function line for greet, got:\n%s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("expected unexported 'hidden' to be omitted, got:\n%s", out)
	}
}

func TestDeclarationFileOmitsEntriesTableDoesNotKnowAbout(t *testing.T) {
	table := symbols.New("test.ts")
	out := DeclarationFile(table, map[string]string{"ghost": "number"})
	if out != "" {
		t.Fatalf("expected no output for a signature with no matching symbol, got:\n%s", out)
	}
}
