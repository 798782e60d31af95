package parser

import (
	"testing"

	"github.com/novalang/novac/internal/ast"
)

func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	p := New(input, "test.ts")
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("parser errors: %v", p.Errors())
	}
	return prog
}

func TestParsesVarDeclarationWithUnionType(t *testing.T) {
	prog := parseProgram(t, `let x: string | number = 1;`)
	if len(prog.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Statements))
	}
	decl, ok := prog.Statements[0].(*ast.VarDeclaration)
	if !ok {
		t.Fatalf("expected *ast.VarDeclaration, got %T", prog.Statements[0])
	}
	if decl.Kind != ast.VarLet || len(decl.Declarators) != 1 {
		t.Fatalf("unexpected declaration shape: %+v", decl)
	}
	union, ok := decl.Declarators[0].Type.(*ast.UnionTypeExpr)
	if !ok || len(union.Members) != 2 {
		t.Fatalf("expected a 2-member union type, got %#v", decl.Declarators[0].Type)
	}
}

func TestParsesFunctionDeclarationWithGenericsAndReturnType(t *testing.T) {
	prog := parseProgram(t, `function identity<T>(x: T): T { return x; }`)
	fd, ok := prog.Statements[0].(*ast.FunctionDeclaration)
	if !ok {
		t.Fatalf("expected *ast.FunctionDeclaration, got %T", prog.Statements[0])
	}
	if fd.Function.Name != "identity" || len(fd.Function.TypeParams) != 1 {
		t.Fatalf("unexpected function shape: %+v", fd.Function)
	}
	if fd.Function.TypeParams[0].Name != "T" {
		t.Fatalf("expected type param T, got %q", fd.Function.TypeParams[0].Name)
	}
	if len(fd.Function.Params) != 1 || fd.Function.Params[0].Name != "x" {
		t.Fatalf("unexpected params: %+v", fd.Function.Params)
	}
}

func TestParsesArrowFunctionExpression(t *testing.T) {
	prog := parseProgram(t, `const add = (a: number, b: number): number => a + b;`)
	decl := prog.Statements[0].(*ast.VarDeclaration)
	fn, ok := decl.Declarators[0].Init.(*ast.FunctionLiteral)
	if !ok || !fn.IsArrow {
		t.Fatalf("expected arrow FunctionLiteral, got %#v", decl.Declarators[0].Init)
	}
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Params))
	}
	ret, ok := fn.Body.Statements[0].(*ast.ReturnStatement)
	if !ok {
		t.Fatalf("expected synthesized return statement in arrow body, got %T", fn.Body.Statements[0])
	}
	if _, ok := ret.ReturnValue.(*ast.InfixExpression); !ok {
		t.Fatalf("expected infix expression body, got %T", ret.ReturnValue)
	}
}

func TestParsesInterfaceWithOptionalAndMethodMembers(t *testing.T) {
	prog := parseProgram(t, `interface Greeter { name: string; greet?(): string; }`)
	iface, ok := prog.Statements[0].(*ast.InterfaceDeclaration)
	if !ok {
		t.Fatalf("expected *ast.InterfaceDeclaration, got %T", prog.Statements[0])
	}
	if len(iface.Members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(iface.Members))
	}
	if iface.Members[1].Name != "greet" || !iface.Members[1].IsMethod {
		t.Fatalf("expected method member greet, got %+v", iface.Members[1])
	}
}

func TestParsesClassWithHeritageAndModifiers(t *testing.T) {
	prog := parseProgram(t, `class Dog extends Animal implements Named {
		private readonly name: string;
		constructor(name: string) { this.name = name; }
		speak(): string { return this.name; }
	}`)
	cls, ok := prog.Statements[0].(*ast.ClassDeclaration)
	if !ok {
		t.Fatalf("expected *ast.ClassDeclaration, got %T", prog.Statements[0])
	}
	if cls.Extends == nil {
		t.Fatalf("expected Extends to be set")
	}
	if len(cls.Implements) != 1 {
		t.Fatalf("expected 1 implements clause, got %d", len(cls.Implements))
	}
	if len(cls.Properties) != 1 || cls.Properties[0].Visibility != "private" || !cls.Properties[0].Readonly {
		t.Fatalf("unexpected property shape: %+v", cls.Properties)
	}
	if len(cls.Methods) != 2 {
		t.Fatalf("expected constructor + speak method, got %d", len(cls.Methods))
	}
}

func TestParsesConditionalAndMappedTypeAlias(t *testing.T) {
	prog := parseProgram(t, `type Keys<T> = { readonly [K in keyof T]?: T[K] };`)
	alias, ok := prog.Statements[0].(*ast.TypeAliasDeclaration)
	if !ok {
		t.Fatalf("expected *ast.TypeAliasDeclaration, got %T", prog.Statements[0])
	}
	mt, ok := alias.Value.(*ast.MappedTypeExpr)
	if !ok {
		t.Fatalf("expected *ast.MappedTypeExpr, got %#v", alias.Value)
	}
	if mt.KeyName != "K" {
		t.Fatalf("expected key name K, got %q", mt.KeyName)
	}
	if _, ok := mt.Constraint.(*ast.KeyOfTypeExpr); !ok {
		t.Fatalf("expected keyof constraint, got %#v", mt.Constraint)
	}
}

func TestParsesNarrowingExpressions(t *testing.T) {
	prog := parseProgram(t, `if (typeof x === "string") { y = x; } else if (x instanceof Error) { z = x; }`)
	ifStmt, ok := prog.Statements[0].(*ast.IfStatement)
	if !ok {
		t.Fatalf("expected *ast.IfStatement, got %T", prog.Statements[0])
	}
	infix, ok := ifStmt.Condition.(*ast.InfixExpression)
	if !ok || infix.Operator != "===" {
		t.Fatalf("expected strict-eq infix, got %#v", ifStmt.Condition)
	}
	if _, ok := infix.Left.(*ast.TypeofExpression); !ok {
		t.Fatalf("expected typeof expression on the left, got %#v", infix.Left)
	}
	elseIf, ok := ifStmt.Alternative.(*ast.IfStatement)
	if !ok {
		t.Fatalf("expected else-if to parse as a nested IfStatement, got %T", ifStmt.Alternative)
	}
	if _, ok := elseIf.Condition.(*ast.InstanceofExpression); !ok {
		t.Fatalf("expected instanceof expression, got %#v", elseIf.Condition)
	}
}

func TestParsesEnumDeclaration(t *testing.T) {
	prog := parseProgram(t, `enum Color { Red, Green, Blue = 5 }`)
	en, ok := prog.Statements[0].(*ast.EnumDeclaration)
	if !ok {
		t.Fatalf("expected *ast.EnumDeclaration, got %T", prog.Statements[0])
	}
	if len(en.Members) != 3 || en.Members[2].Value == nil {
		t.Fatalf("unexpected enum members: %+v", en.Members)
	}
}

func TestParsesImportAndExportDeclarations(t *testing.T) {
	prog := parseProgram(t, "import { A, B as C } from \"./mod\";\nexport const x: number = 1;")
	imp, ok := prog.Statements[0].(*ast.ImportDeclaration)
	if !ok {
		t.Fatalf("expected *ast.ImportDeclaration, got %T", prog.Statements[0])
	}
	if imp.Source != "./mod" || len(imp.Specifiers) != 2 || imp.Specifiers[1].Local != "C" {
		t.Fatalf("unexpected import shape: %+v", imp)
	}
	exp, ok := prog.Statements[1].(*ast.ExportDeclaration)
	if !ok {
		t.Fatalf("expected *ast.ExportDeclaration, got %T", prog.Statements[1])
	}
	if _, ok := exp.Decl.(*ast.VarDeclaration); !ok {
		t.Fatalf("expected wrapped var declaration, got %#v", exp.Decl)
	}
}
