// Package checker is novac's binder and type checker: it
// walks a parsed Program, declares its types into the Type Environment the
// same way internal/infer's constructor chain expects (evaluator, subtype,
// variance, assign, access, narrow all wired from one Interner), and reports
// diagnostics for assignability, member-access, and strict-mode violations.
// There is no separate "binder" package — declaration collection and
// statement checking share the scope stack defined here, mirroring how the
// funxy's evaluator keeps environment and program-walking code in one
// package rather than splitting them across a pipeline of passes.
package checker

import (
	"sort"

	"github.com/novalang/novac/internal/access"
	"github.com/novalang/novac/internal/assign"
	"github.com/novalang/novac/internal/ast"
	"github.com/novalang/novac/internal/diagnostics"
	"github.com/novalang/novac/internal/evaluator"
	"github.com/novalang/novac/internal/flags"
	"github.com/novalang/novac/internal/infer"
	"github.com/novalang/novac/internal/narrow"
	"github.com/novalang/novac/internal/querycache"
	"github.com/novalang/novac/internal/subtype"
	"github.com/novalang/novac/internal/typeenv"
	"github.com/novalang/novac/internal/types"
	"github.com/novalang/novac/internal/variance"
)

// valueBinding is one name's slot in the scope stack: its type, whether it
// was declared `const` (relevant to literal-widening and narrowing-by-
// reassignment), and a narrowed override type-checking
// pushes onto an `if`/`while` branch without mutating the declared type.
type valueBinding struct {
	declared types.TypeId
	narrowed types.TypeId // 0 if not currently narrowed
	isConst  bool
}

type scope struct {
	vars   map[string]*valueBinding
	parent *scope
}

func newScope(parent *scope) *scope {
	return &scope{vars: make(map[string]*valueBinding), parent: parent}
}

func (s *scope) lookup(name string) (*scope, *valueBinding) {
	for cur := s; cur != nil; cur = cur.parent {
		if b, ok := cur.vars[name]; ok {
			return cur, b
		}
	}
	return nil, nil
}

// typeScope resolves `<T>` type-parameter names visible while lowering a
// generic declaration's own members.
type typeScope struct {
	params map[string]types.TypeId
	parent *typeScope
}

func (ts *typeScope) lookup(name string) (types.TypeId, bool) {
	for cur := ts; cur != nil; cur = cur.parent {
		if t, ok := cur.params[name]; ok {
			return t, true
		}
	}
	return 0, false
}

// typeDecl records what a top-level type-position name resolves to, decided
// during the hoisting pass so forward references (a class referencing a
// sibling declared later in the file) resolve during the bind pass.
type typeDecl struct {
	def        types.DefId
	kind       typeenv.DefKind
	typeParams []ast.TypeParamDecl
	enumMember types.TypeId // only set for DefEnum
}

// Checker binds and checks one Program's declarations. A fresh Checker owns
// its own Interner/Environment, the same single-module-per-Checker shape the
// Build Driver (internal/build) uses when it creates one Checker per
// compiled program rather than sharing solver state across unrelated builds.
type Checker struct {
	in     *types.Interner
	env    *typeenv.Environment
	caches *querycache.Caches
	eval   *evaluator.Evaluator
	sub    *subtype.Checker
	asn    *assign.Checker
	acc    *access.Resolver
	narrow *narrow.Narrower
	infer  *infer.Context

	file  string
	flags flags.Flags
	diags []*diagnostics.Diagnostic

	nextDef types.DefId
	nextSym types.SymbolId

	scope     *scope
	typeScope *typeScope
	typeNames map[string]*typeDecl

	enclosingClass types.DefId
	thisType       types.TypeId

	returnType    types.TypeId
	hasReturnType bool
	sawReturn     bool

	// funcSig/classTypeParams memoize the TypeParameter identities a
	// generic function/class was first lowered with, so the hoisting pass
	// (which declares the signature) and the later body-check pass (which
	// re-enters the same type-parameter scope to check statements) agree
	// on the exact TypeId rather than minting a second, distinct
	// TypeParameter for the same surface name.
	funcSig         map[*ast.FunctionLiteral]types.Signature
	classTypeParams map[*ast.ClassDeclaration][]types.TypeId
}

// New constructs a Checker with the canonical solver wiring order: the
// Evaluator needs the Subtype Checker as its ExtendsTester (subtype.New
// wires that internally), the Subtype Checker needs a VarianceSource after
// construction (breaking the evaluator/variance/subtype cycle), and
// assign/access/narrow/infer all build on the fully-wired pair.
func New() *Checker {
	in := types.NewInterner()
	env := typeenv.New(in)
	caches := querycache.New()
	ev := evaluator.New(in, env, caches)
	sub := subtype.New(in, ev, caches)
	prober := variance.New(in, env, caches)
	sub.SetVarianceSource(prober)
	asn := assign.New(in, ev, sub, caches)
	acc := access.New(in, ev, env, caches)
	nrw := narrow.New(in, ev, acc, sub)
	inf := infer.New(in, ev, sub)

	return &Checker{
		in:              in,
		env:             env,
		caches:          caches,
		eval:            ev,
		sub:             sub,
		asn:             asn,
		acc:             acc,
		narrow:          nrw,
		infer:           inf,
		nextDef:         1,
		nextSym:         1,
		scope:           newScope(nil),
		typeNames:       make(map[string]*typeDecl),
		funcSig:         make(map[*ast.FunctionLiteral]types.Signature),
		classTypeParams: make(map[*ast.ClassDeclaration][]types.TypeId),
	}
}

// Interner exposes the Checker's Interner so callers (tests, the Build
// Driver) can print or compare TypeIds it produced.
func (c *Checker) Interner() *types.Interner { return c.in }

func (c *Checker) newDef() types.DefId {
	d := c.nextDef
	c.nextDef++
	return d
}

func (c *Checker) newSym() types.SymbolId {
	s := c.nextSym
	c.nextSym++
	return s
}

func (c *Checker) pushScope() { c.scope = newScope(c.scope) }
func (c *Checker) popScope()  { c.scope = c.scope.parent }

func (c *Checker) declareValue(name string, t types.TypeId, isConst bool) {
	if _, exists := c.scope.vars[name]; exists {
		c.errorf(0, diagnostics.CodeDuplicateIdentifier, "Duplicate identifier '%s'.", name)
	}
	c.scope.vars[name] = &valueBinding{declared: t, isConst: isConst}
}

func (c *Checker) lookupValue(name string) (types.TypeId, bool) {
	_, b := c.scope.lookup(name)
	if b == nil {
		return 0, false
	}
	if b.narrowed != 0 {
		return b.narrowed, true
	}
	return b.declared, true
}

// Check binds and checks program's declarations for file under f, returning
// every diagnostic emitted, sorted by source position.
func (c *Checker) Check(program *ast.Program, file string, f flags.Flags) []*diagnostics.Diagnostic {
	c.file = file
	c.flags = f
	c.diags = nil

	c.hoistDeclarations(program.Statements)
	for _, stmt := range program.Statements {
		c.checkStatement(stmt)
	}

	sort.SliceStable(c.diags, func(i, j int) bool {
		fi, si, ci := diagnostics.SortKey(c.diags[i])
		fj, sj, cj := diagnostics.SortKey(c.diags[j])
		if fi != fj {
			return fi < fj
		}
		if si != sj {
			return si < sj
		}
		return ci < cj
	})
	return c.diags
}

func (c *Checker) errorf(pos uint32, code uint32, format string, args ...interface{}) {
	c.diags = append(c.diags, diagnostics.NewDiagnostic(c.file, pos, 0, code, format, args...))
}

func (c *Checker) errorAt(tok ast.Node, code uint32, format string, args ...interface{}) {
	c.diags = append(c.diags, diagnostics.NewTokenError(c.file, tok.GetToken(), code, format, args...))
}

func visibilityOf(s string) types.Visibility {
	switch s {
	case "private":
		return types.VisibilityPrivate
	case "protected":
		return types.VisibilityProtected
	default:
		return types.VisibilityPublic
	}
}
