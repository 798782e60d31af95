package checker

import (
	"github.com/novalang/novac/internal/ast"
	"github.com/novalang/novac/internal/types"
)

// applyNarrow pushes type-narrowing overrides onto the current (innermost)
// scope for every guard shape internal/narrow exposes a dedicated method
// for, covering the recognized guard shapes for
// `if`/`while` conditions: typeof checks, discriminant/literal equality,
// instanceof, `in`, Array.isArray, bare truthiness, and their `&&`/`||`/`!`
// compositions.
func (c *Checker) applyNarrow(cond ast.Expression, branchTrue bool) {
	switch n := cond.(type) {
	case *ast.InfixExpression:
		switch n.Operator {
		case "===", "==":
			c.applyEquals(n.Left, n.Right, branchTrue)
		case "!==", "!=":
			c.applyEquals(n.Left, n.Right, !branchTrue)
		case "&&":
			if branchTrue {
				c.applyNarrow(n.Left, true)
				c.applyNarrow(n.Right, true)
			}
		case "||":
			if !branchTrue {
				c.applyNarrow(n.Left, false)
				c.applyNarrow(n.Right, false)
			}
		}
	case *ast.PrefixExpression:
		if n.Operator == "!" {
			c.applyNarrow(n.Right, !branchTrue)
		}
	case *ast.InstanceofExpression:
		if ident, ok := n.Left.(*ast.Identifier); ok {
			if classRef, ok2 := c.classRefFromExpr(n.Right); ok2 {
				c.narrowInstanceof(ident, classRef, branchTrue)
			}
		}
	case *ast.InExpression:
		if ident, ok := n.Right.(*ast.Identifier); ok {
			if lit, ok2 := n.Left.(*ast.StringLiteral); ok2 {
				c.narrowIn(ident, lit.Value, branchTrue)
			}
		}
	case *ast.ArrayIsArrayExpression:
		if ident, ok := n.Argument.(*ast.Identifier); ok {
			c.narrowArrayIsArray(ident, branchTrue)
		}
	case *ast.Identifier:
		c.applyTruthy(n, branchTrue)
	}
}

// applyEquals recognizes `typeof x === "tag"`, `x.prop === <literal>` (a
// discriminant check on a tagged union), and `x === <literal>` in either
// operand order.
func (c *Checker) applyEquals(left, right ast.Expression, eq bool) {
	if tof, ok := left.(*ast.TypeofExpression); ok {
		if ident, ok2 := tof.Right.(*ast.Identifier); ok2 {
			if tag, ok3 := litString(right); ok3 {
				c.narrowTypeof(ident, tag, eq)
				return
			}
		}
	}
	if tof, ok := right.(*ast.TypeofExpression); ok {
		if ident, ok2 := tof.Right.(*ast.Identifier); ok2 {
			if tag, ok3 := litString(left); ok3 {
				c.narrowTypeof(ident, tag, eq)
				return
			}
		}
	}
	if me, ok := left.(*ast.MemberExpression); ok {
		if obj, ok2 := me.Object.(*ast.Identifier); ok2 {
			if lit, ok3 := c.literalTypeOf(right); ok3 {
				c.narrowDiscriminant(obj, me.Property, lit, eq)
				return
			}
		}
	}
	if me, ok := right.(*ast.MemberExpression); ok {
		if obj, ok2 := me.Object.(*ast.Identifier); ok2 {
			if lit, ok3 := c.literalTypeOf(left); ok3 {
				c.narrowDiscriminant(obj, me.Property, lit, eq)
				return
			}
		}
	}
	if ident, ok := left.(*ast.Identifier); ok {
		if lit, ok2 := c.literalTypeOf(right); ok2 {
			c.narrowEqualsLiteral(ident, lit, eq)
			return
		}
	}
	if ident, ok := right.(*ast.Identifier); ok {
		if lit, ok2 := c.literalTypeOf(left); ok2 {
			c.narrowEqualsLiteral(ident, lit, eq)
		}
	}
}

func litString(e ast.Expression) (string, bool) {
	if s, ok := e.(*ast.StringLiteral); ok {
		return s.Value, true
	}
	return "", false
}

func (c *Checker) literalTypeOf(e ast.Expression) (types.TypeId, bool) {
	switch v := e.(type) {
	case *ast.StringLiteral:
		return c.in.LiteralString(v.Value), true
	case *ast.NumberLiteral:
		return c.in.LiteralNumber(v.Value), true
	case *ast.BooleanLiteral:
		return c.in.LiteralBoolean(v.Value), true
	case *ast.NullLiteral:
		return types.Null, true
	case *ast.UndefinedLiteral:
		return types.Undefined, true
	}
	return 0, false
}

func (c *Checker) classRefFromExpr(e ast.Expression) (types.TypeId, bool) {
	ident, ok := e.(*ast.Identifier)
	if !ok {
		return 0, false
	}
	decl, ok := c.typeNames[ident.Name]
	if !ok {
		return 0, false
	}
	return c.in.Reference(types.SymbolRef{Def: decl.def}), true
}

// narrowIdent resolves name's current type, runs compute to get the
// then/else split, and shadows the binding with the appropriate half in the
// scope checkIf/checkWhile already pushed for this branch.
func (c *Checker) narrowIdent(name string, compute func(t types.TypeId) (thenT, elseT types.TypeId), branchTrue bool) {
	t, ok := c.lookupValue(name)
	if !ok {
		return
	}
	thenT, elseT := compute(t)
	result := thenT
	if !branchTrue {
		result = elseT
	}
	c.scope.vars[name] = &valueBinding{declared: t, narrowed: result}
}

func (c *Checker) applyTruthy(ident *ast.Identifier, branchTrue bool) {
	c.narrowIdent(ident.Name, func(t types.TypeId) (types.TypeId, types.TypeId) {
		return c.narrow.Truthy(t, c.flags)
	}, branchTrue)
}

func (c *Checker) narrowTypeof(ident *ast.Identifier, tag string, branchTrue bool) {
	c.narrowIdent(ident.Name, func(t types.TypeId) (types.TypeId, types.TypeId) {
		return c.narrow.Typeof(t, tag, c.flags)
	}, branchTrue)
}

func (c *Checker) narrowEqualsLiteral(ident *ast.Identifier, lit types.TypeId, branchTrue bool) {
	c.narrowIdent(ident.Name, func(t types.TypeId) (types.TypeId, types.TypeId) {
		return c.narrow.EqualsLiteral(t, lit, c.flags)
	}, branchTrue)
}

func (c *Checker) narrowInstanceof(ident *ast.Identifier, classRef types.TypeId, branchTrue bool) {
	c.narrowIdent(ident.Name, func(t types.TypeId) (types.TypeId, types.TypeId) {
		return c.narrow.InstanceofClass(t, classRef, c.flags)
	}, branchTrue)
}

func (c *Checker) narrowIn(ident *ast.Identifier, prop string, branchTrue bool) {
	c.narrowIdent(ident.Name, func(t types.TypeId) (types.TypeId, types.TypeId) {
		return c.narrow.InProperty(t, prop, c.enclosingClass, c.flags)
	}, branchTrue)
}

func (c *Checker) narrowArrayIsArray(ident *ast.Identifier, branchTrue bool) {
	c.narrowIdent(ident.Name, func(t types.TypeId) (types.TypeId, types.TypeId) {
		return c.narrow.ArrayIsArray(t, c.flags)
	}, branchTrue)
}

func (c *Checker) narrowDiscriminant(ident *ast.Identifier, prop string, lit types.TypeId, branchTrue bool) {
	c.narrowIdent(ident.Name, func(t types.TypeId) (types.TypeId, types.TypeId) {
		return c.narrow.Discriminant(t, prop, lit, c.enclosingClass, c.flags)
	}, branchTrue)
}
