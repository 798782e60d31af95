package checker

import (
	"github.com/novalang/novac/internal/ast"
	"github.com/novalang/novac/internal/diagnostics"
	"github.com/novalang/novac/internal/flags"
	"github.com/novalang/novac/internal/types"
)

func (c *Checker) checkStatement(s ast.Statement) {
	switch n := s.(type) {
	case *ast.ExpressionStatement:
		c.inferExpr(n.Expression)
	case *ast.BlockStatement:
		c.checkBlock(n)
	case *ast.VarDeclaration:
		c.checkVarDeclaration(n)
	case *ast.FunctionDeclaration:
		sig := c.signatureFor(n.Function)
		c.checkFunctionBody(n.Function, sig, 0, 0)
	case *ast.ReturnStatement:
		c.checkReturn(n)
	case *ast.IfStatement:
		c.checkIf(n)
	case *ast.WhileStatement:
		c.checkWhile(n)
	case *ast.ForStatement:
		c.checkFor(n)
	case *ast.BreakStatement, *ast.ContinueStatement:
		// Loop-control-flow targets are validated by the parser's paren/
		// brace matching; nothing more to check here.
	case *ast.ClassDeclaration:
		c.checkClassBody(n)
	case *ast.InterfaceDeclaration, *ast.TypeAliasDeclaration, *ast.EnumDeclaration:
		// Fully bound during hoistDeclarations; no executable body to walk.
	case *ast.ImportDeclaration:
		c.bindImport(n)
	case *ast.ExportDeclaration:
		if n.Decl != nil {
			c.checkStatement(n.Decl)
		}
	}
}

func (c *Checker) checkBlock(b *ast.BlockStatement) {
	c.pushScope()
	for _, s := range b.Statements {
		c.checkStatement(s)
	}
	c.popScope()
}

func (c *Checker) checkVarDeclaration(v *ast.VarDeclaration) {
	isConst := v.Kind == ast.VarConst
	for _, d := range v.Declarators {
		var declaredType types.TypeId
		switch {
		case d.Type != nil:
			declaredType = c.lowerType(d.Type)
			if d.Init != nil {
				initType := c.inferExpr(d.Init)
				c.checkAssignableTo(initType, declaredType, v)
			}
		case d.Init != nil:
			initType := c.inferExpr(d.Init)
			if isConst {
				declaredType = initType
			} else {
				declaredType = c.widen(initType)
			}
		default:
			if c.flags.Has(flags.NoImplicitAny) {
				c.errorf(0, diagnostics.CodeImplicitAny, "Variable '%s' implicitly has an 'any' type.", d.Name)
			}
			declaredType = types.Any
		}
		c.declareValue(d.Name, declaredType, isConst)
	}
}

func (c *Checker) checkReturn(r *ast.ReturnStatement) {
	valType := types.Undefined
	if r.ReturnValue != nil {
		valType = c.inferExpr(r.ReturnValue)
	}
	c.sawReturn = true
	if c.hasReturnType {
		c.checkAssignableTo(valType, c.returnType, r)
	}
}

func (c *Checker) checkIf(n *ast.IfStatement) {
	c.inferExpr(n.Condition)

	c.pushScope()
	c.applyNarrow(n.Condition, true)
	c.checkStatement(n.Consequence)
	c.popScope()

	if n.Alternative != nil {
		c.pushScope()
		c.applyNarrow(n.Condition, false)
		c.checkStatement(n.Alternative)
		c.popScope()
	}
}

func (c *Checker) checkWhile(n *ast.WhileStatement) {
	c.inferExpr(n.Condition)
	c.pushScope()
	c.applyNarrow(n.Condition, true)
	c.checkStatement(n.Body)
	c.popScope()
}

func (c *Checker) checkFor(n *ast.ForStatement) {
	c.pushScope()
	if n.Init != nil {
		c.checkStatement(n.Init)
	}
	if n.Condition != nil {
		c.inferExpr(n.Condition)
	}
	if n.Update != nil {
		c.inferExpr(n.Update)
	}
	c.checkStatement(n.Body)
	c.popScope()
}

// bindImport binds every imported name as Any: resolving what a specifier
// actually refers to belongs to internal/resolve's Module Resolver (spec
// section 4.10), which a single-file Checker doesn't have access to.
func (c *Checker) bindImport(n *ast.ImportDeclaration) {
	if n.Default != "" {
		c.declareValue(n.Default, types.Any, false)
	}
	for _, spec := range n.Specifiers {
		c.declareValue(spec.Local, types.Any, false)
	}
}

func (c *Checker) checkFunctionBody(fn *ast.FunctionLiteral, sig types.Signature, thisType types.TypeId, enclosingClass types.DefId) {
	savedThis, savedClass := c.thisType, c.enclosingClass
	c.thisType, c.enclosingClass = thisType, enclosingClass
	c.pushScope()

	for i, p := range fn.Params {
		if i >= len(sig.Params) {
			break
		}
		c.declareValue(p.Name, sig.Params[i].Type, false)
		if p.Default != nil {
			dt := c.inferExpr(p.Default)
			c.checkAssignableTo(dt, sig.Params[i].Type, p.Default)
		}
	}

	savedReturn, savedHasReturn, savedSaw := c.returnType, c.hasReturnType, c.sawReturn
	c.returnType = sig.ReturnType
	c.hasReturnType = fn.ReturnType != nil
	c.sawReturn = false

	for _, s := range fn.Body.Statements {
		c.checkStatement(s)
	}

	if c.flags.Has(flags.NoImplicitReturns) && c.hasReturnType && !c.sawReturn &&
		sig.ReturnType != types.Void && sig.ReturnType != types.Any && sig.ReturnType != types.Undefined {
		c.errorAt(fn, diagnostics.CodeNotAllCodePathsReturn, "Function lacks ending return statement and return type does not include 'undefined'.")
	}

	c.returnType, c.hasReturnType, c.sawReturn = savedReturn, savedHasReturn, savedSaw
	c.popScope()
	c.thisType, c.enclosingClass = savedThis, savedClass
}

func (c *Checker) pushClassTypeScope(d *ast.ClassDeclaration) func() {
	ids := c.classTypeParams[d]
	child := &typeScope{params: make(map[string]types.TypeId), parent: c.typeScope}
	for i, tp := range d.TypeParams {
		if i < len(ids) {
			child.params[tp.Name] = ids[i]
		}
	}
	save := c.typeScope
	c.typeScope = child
	return func() { c.typeScope = save }
}

func (c *Checker) checkClassBody(d *ast.ClassDeclaration) {
	decl := c.typeNames[d.Name]
	restore := c.pushClassTypeScope(d)
	defer restore()
	instanceType := c.in.Reference(types.SymbolRef{Def: decl.def})
	for _, m := range d.Methods {
		sig := c.signatureFor(m.Function)
		c.checkFunctionBody(m.Function, sig, instanceType, decl.def)
	}
}
