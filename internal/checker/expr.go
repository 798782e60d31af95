package checker

import (
	"github.com/novalang/novac/internal/access"
	"github.com/novalang/novac/internal/ast"
	"github.com/novalang/novac/internal/diagnostics"
	"github.com/novalang/novac/internal/evaluator"
	"github.com/novalang/novac/internal/infer"
	"github.com/novalang/novac/internal/types"
)

// inferExpr computes the type of an expression, emitting diagnostics for
// any assignability or member-access problem it finds along the way (spec
// section 4.6's "checking an expression is itself a side effect on the
// diagnostic stream, not a separate pass").
func (c *Checker) inferExpr(e ast.Expression) types.TypeId {
	switch n := e.(type) {
	case *ast.Identifier:
		if t, ok := c.lookupValue(n.Name); ok {
			return t
		}
		c.errorAt(n, diagnostics.CodeCannotFindName, "Cannot find name '%s'.", n.Name)
		return types.ErrorType
	case *ast.ThisExpression:
		if c.thisType == 0 {
			c.errorAt(n, diagnostics.CodeCannotFindName, "'this' is not available here.")
			return types.Any
		}
		return c.thisType
	case *ast.NumberLiteral:
		return c.in.LiteralNumber(n.Value)
	case *ast.StringLiteral:
		return c.in.LiteralString(n.Value)
	case *ast.BooleanLiteral:
		return c.in.LiteralBoolean(n.Value)
	case *ast.NullLiteral:
		return types.Null
	case *ast.UndefinedLiteral:
		return types.Undefined
	case *ast.ArrayLiteral:
		return c.inferArrayLiteral(n)
	case *ast.ObjectLiteral:
		return c.inferObjectLiteral(n)
	case *ast.PrefixExpression:
		return c.inferPrefix(n)
	case *ast.InfixExpression:
		return c.inferInfix(n)
	case *ast.TypeofExpression:
		c.inferExpr(n.Right)
		return types.String
	case *ast.InstanceofExpression:
		c.inferExpr(n.Left)
		c.inferExpr(n.Right)
		return types.Boolean
	case *ast.InExpression:
		c.inferExpr(n.Left)
		c.inferExpr(n.Right)
		return types.Boolean
	case *ast.AssignExpression:
		return c.inferAssign(n)
	case *ast.ConditionalExpression:
		c.inferExpr(n.Condition)
		cons := c.inferExpr(n.Consequence)
		alt := c.inferExpr(n.Alternative)
		return c.in.Union([]types.TypeId{cons, alt})
	case *ast.MemberExpression:
		return c.inferMember(n)
	case *ast.IndexExpression:
		return c.inferIndex(n)
	case *ast.CallExpression:
		return c.inferCall(n)
	case *ast.NewExpression:
		return c.inferNew(n)
	case *ast.ArrayIsArrayExpression:
		c.inferExpr(n.Argument)
		return types.Boolean
	case *ast.FunctionLiteral:
		sig := c.signatureFor(n)
		c.checkFunctionBody(n, sig, 0, 0)
		return c.in.Function(sig)
	default:
		return types.Any
	}
}

func (c *Checker) inferArrayLiteral(n *ast.ArrayLiteral) types.TypeId {
	if len(n.Elements) == 0 {
		return c.in.Array(types.Any)
	}
	members := make([]types.TypeId, len(n.Elements))
	for i, el := range n.Elements {
		members[i] = c.widen(c.inferExpr(el))
	}
	return c.in.Array(c.in.Union(members))
}

func (c *Checker) inferObjectLiteral(n *ast.ObjectLiteral) types.TypeId {
	props := make([]types.PropertyInfo, 0, len(n.Properties))
	for _, p := range n.Properties {
		var typ types.TypeId
		if p.Value != nil {
			typ = c.widen(c.inferExpr(p.Value))
		} else {
			typ = types.Any
		}
		props = append(props, types.PropertyInfo{Name: c.in.InternString(p.Key), ReadType: typ, WriteType: typ})
	}
	return c.in.Object(types.ObjectShape{Properties: props, Flags: types.ObjectFlagFresh})
}

func (c *Checker) inferPrefix(n *ast.PrefixExpression) types.TypeId {
	right := c.inferExpr(n.Right)
	switch n.Operator {
	case "!":
		return types.Boolean
	case "-", "+", "~":
		return types.Number
	case "typeof":
		return types.String
	default:
		_ = right
		return types.Any
	}
}

func (c *Checker) inferInfix(n *ast.InfixExpression) types.TypeId {
	switch n.Operator {
	case "&&":
		leftType := c.inferExpr(n.Left)
		_, rightType := c.narrow.Truthy(leftType, c.flags)
		_ = rightType
		return c.inferExpr(n.Right)
	case "||", "??":
		leftType := c.inferExpr(n.Left)
		rightType := c.inferExpr(n.Right)
		if n.Operator == "||" {
			thenType, _ := c.narrow.Truthy(leftType, c.flags)
			return c.in.Union([]types.TypeId{thenType, rightType})
		}
		return c.in.Union([]types.TypeId{leftType, rightType})
	case "<", ">", "<=", ">=", "==", "!=", "===", "!==":
		c.inferExpr(n.Left)
		c.inferExpr(n.Right)
		return types.Boolean
	case "+":
		left := c.inferExpr(n.Left)
		right := c.inferExpr(n.Right)
		if c.sub.IsSubtypeOf(left, types.String, c.flags) || c.sub.IsSubtypeOf(right, types.String, c.flags) {
			return types.String
		}
		return types.Number
	case "-", "*", "/", "%", "**", "&", "|", "^", "<<", ">>", ">>>":
		c.inferExpr(n.Left)
		c.inferExpr(n.Right)
		return types.Number
	default:
		c.inferExpr(n.Left)
		c.inferExpr(n.Right)
		return types.Any
	}
}

func (c *Checker) inferAssign(n *ast.AssignExpression) types.TypeId {
	targetType := c.inferExpr(n.Left)
	valueType := c.inferExpr(n.Right)
	if n.Operator != "=" {
		return targetType
	}
	if ident, ok := n.Left.(*ast.Identifier); ok {
		if _, b := c.scope.lookup(ident.Name); b != nil && b.isConst {
			c.errorAt(n, diagnostics.CodeTypeNotAssignable, "Cannot assign to '%s' because it is a constant.", ident.Name)
		}
	}
	c.checkAssignableTo(valueType, targetType, n)
	return targetType
}

func (c *Checker) inferMember(n *ast.MemberExpression) types.TypeId {
	objType := c.inferExpr(n.Object)
	res := c.acc.ResolveProperty(objType, n.Property, c.enclosingClass, c.flags)
	switch res.Reason {
	case access.ReasonOK:
		if n.OptionalChain {
			return c.in.Union([]types.TypeId{res.Type, types.Undefined})
		}
		return res.Type
	case access.ReasonPrivateOutside:
		c.errorAt(n, diagnostics.CodePrivateOutsideClass, "Property '%s' is private and only accessible within its declaring class.", n.Property)
	case access.ReasonProtectedOutside:
		c.errorAt(n, diagnostics.CodeProtectedOutsideClass, "Property '%s' is protected and only accessible within its declaring class and subclasses.", n.Property)
	default:
		c.errorAt(n, diagnostics.CodePropertyMissing, "Property '%s' does not exist on type '%s'.", n.Property, c.in.Print(objType, nil))
	}
	return types.ErrorType
}

func (c *Checker) inferIndex(n *ast.IndexExpression) types.TypeId {
	objType := c.inferExpr(n.Object)
	idxType := c.inferExpr(n.Index)
	res := c.acc.ResolveElement(objType, idxType, c.enclosingClass, c.flags)
	if res.Reason != access.ReasonOK {
		c.errorAt(n, diagnostics.CodePropertyMissing, "Element access on type '%s' is not valid here.", c.in.Print(objType, nil))
		return types.ErrorType
	}
	return res.Type
}

func (c *Checker) inferCall(n *ast.CallExpression) types.TypeId {
	calleeType := c.inferExpr(n.Callee)
	argTypes := make([]types.TypeId, len(n.Arguments))
	for i, a := range n.Arguments {
		argTypes[i] = c.inferExpr(a)
	}

	evaluated := c.eval.Evaluate(calleeType, c.flags)
	v := c.in.View()
	var sig types.Signature
	switch v.Kind(evaluated) {
	case types.KindFunction:
		sig, _ = v.FunctionSignature(evaluated)
	case types.KindCallable:
		shape, _ := v.CallableShape(evaluated)
		if len(shape.CallSignatures) == 0 {
			c.errorAt(n, diagnostics.CodeNotCallable, "This expression is not callable.")
			return types.ErrorType
		}
		sig = shape.CallSignatures[0]
	default:
		if evaluated == types.Any || evaluated == types.ErrorType {
			return types.Any
		}
		c.errorAt(n, diagnostics.CodeNotCallable, "This expression is not callable.")
		return types.ErrorType
	}

	if len(sig.Params) > 0 {
		hasRest := sig.Params[len(sig.Params)-1].Rest
		if len(n.Arguments) > len(sig.Params) && !hasRest {
			c.errorAt(n, diagnostics.CodeWrongArgumentCount, "Expected %d arguments, but got %d.", len(sig.Params), len(n.Arguments))
		}
		required := 0
		for _, p := range sig.Params {
			if !p.Optional && !p.Rest {
				required++
			}
		}
		if len(n.Arguments) < required {
			c.errorAt(n, diagnostics.CodeWrongArgumentCount, "Expected %d arguments, but got %d.", required, len(n.Arguments))
		}
	}

	returnType := sig.ReturnType
	var subst map[types.TypeId]types.TypeId
	if len(sig.TypeParams) > 0 {
		session := c.infer.NewSession(sig.TypeParams)
		for i, param := range sig.Params {
			if i >= len(argTypes) {
				break
			}
			session.ConstrainTypes(argTypes[i], param.Type, infer.PriorityDefault, c.flags)
		}
		result := session.Resolve(c.flags)
		subst = result.Substitution
		returnType = evaluator.Substitute(c.in, sig.ReturnType, subst)
	}

	for i, param := range sig.Params {
		if i >= len(argTypes) {
			break
		}
		paramType := param.Type
		if subst != nil {
			paramType = evaluator.Substitute(c.in, param.Type, subst)
		}
		c.checkAssignableTo(argTypes[i], paramType, n.Arguments[i])
	}
	return returnType
}

func (c *Checker) inferNew(n *ast.NewExpression) types.TypeId {
	for _, a := range n.Arguments {
		c.inferExpr(a)
	}
	ident, ok := n.Callee.(*ast.Identifier)
	if !ok {
		return types.Any
	}
	decl, ok := c.typeNames[ident.Name]
	if !ok {
		c.errorAt(n, diagnostics.CodeCannotFindName, "Cannot find name '%s'.", ident.Name)
		return types.ErrorType
	}
	return c.in.Reference(types.SymbolRef{Def: decl.def})
}

// widen converts a literal type to its base primitive, matching how a `let`
// without an annotation infers the wide type from its initializer while a
// `const` keeps the literal.
func (c *Checker) widen(t types.TypeId) types.TypeId {
	switch c.in.View().Kind(t) {
	case types.KindLiteralString:
		return types.String
	case types.KindLiteralNumber:
		return types.Number
	case types.KindLiteralBoolean:
		return types.Boolean
	case types.KindLiteralBigInt:
		return types.BigInt
	default:
		return t
	}
}

func (c *Checker) checkAssignableTo(source, target types.TypeId, node ast.Node) {
	if target == 0 || target == types.Any {
		return
	}
	if !c.asn.IsAssignable(source, target, c.flags) {
		c.errorAt(node, diagnostics.CodeTypeNotAssignable, "Type '%s' is not assignable to type '%s'.", c.in.Print(source, nil), c.in.Print(target, nil))
	}
}
