package checker

import (
	"testing"

	"github.com/novalang/novac/internal/diagnostics"
	"github.com/novalang/novac/internal/flags"
	"github.com/novalang/novac/internal/parser"
)

func check(t *testing.T, input string, f flags.Flags) []*diagnostics.Diagnostic {
	t.Helper()
	p := parser.New(input, "test.ts")
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("parser errors: %v", p.Errors())
	}
	return New().Check(prog, "test.ts", f)
}

func assertNoDiags(t *testing.T, diags []*diagnostics.Diagnostic) {
	t.Helper()
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}
}

func assertHasCode(t *testing.T, diags []*diagnostics.Diagnostic, code uint32) {
	t.Helper()
	for _, d := range diags {
		if d.Code == code {
			return
		}
	}
	t.Fatalf("expected a diagnostic with code %d, got %v", code, diags)
}

func TestChecksVarDeclarationAssignability(t *testing.T) {
	assertNoDiags(t, check(t, `let x: string | number = 1;`, 0))
}

func TestRejectsAssigningMismatchedType(t *testing.T) {
	diags := check(t, `let x: string = 1;`, 0)
	assertHasCode(t, diags, diagnostics.CodeTypeNotAssignable)
}

func TestConstPreservesLiteralType(t *testing.T) {
	diags := check(t, `
const x = 1;
let y: 1 = x;
`, 0)
	assertNoDiags(t, diags)
}

func TestLetWidensLiteralType(t *testing.T) {
	diags := check(t, `
let x = 1;
let y: 1 = x;
`, 0)
	assertHasCode(t, diags, diagnostics.CodeTypeNotAssignable)
}

func TestChecksGenericFunctionCallInfersReturnType(t *testing.T) {
	diags := check(t, `
function identity<T>(x: T): T { return x; }
let a: string = identity("hi");
`, 0)
	assertNoDiags(t, diags)
}

func TestRejectsWrongArgumentCount(t *testing.T) {
	diags := check(t, `
function add(a: number, b: number): number { return a + b; }
add(1);
`, 0)
	assertHasCode(t, diags, diagnostics.CodeWrongArgumentCount)
}

func TestForwardReferencedClassResolves(t *testing.T) {
	diags := check(t, `
class Node {
  next: Linked | null = null;
}
class Linked {
  value: number = 0;
}
`, 0)
	assertNoDiags(t, diags)
}

func TestClassHeritageExposesBaseMembers(t *testing.T) {
	diags := check(t, `
class Animal {
  name: string = "";
}
class Dog extends Animal {
  bark(): string { return this.name; }
}
`, 0)
	assertNoDiags(t, diags)
}

func TestPrivatePropertyNotAccessibleOutsideClass(t *testing.T) {
	diags := check(t, `
class Box {
  private value: number = 0;
}
let b: Box = new Box();
let v = b.value;
`, 0)
	assertHasCode(t, diags, diagnostics.CodePrivateOutsideClass)
}

func TestTypeofNarrowsUnionInBranch(t *testing.T) {
	diags := check(t, `
function describe(x: string | number): string {
  if (typeof x === "string") {
    return x;
  }
  return "number";
}
`, 0)
	assertNoDiags(t, diags)
}

func TestEnumMemberIsAssignableToEnumType(t *testing.T) {
	diags := check(t, `
enum Color { Red, Green, Blue }
let c: Color = Color.Red;
`, 0)
	assertNoDiags(t, diags)
}

func TestCannotFindNameReportsUseBeforeDeclaration(t *testing.T) {
	diags := check(t, `let y = z;`, 0)
	assertHasCode(t, diags, diagnostics.CodeCannotFindName)
}
