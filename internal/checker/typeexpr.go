package checker

import (
	"github.com/novalang/novac/internal/ast"
	"github.com/novalang/novac/internal/diagnostics"
	"github.com/novalang/novac/internal/typeenv"
	"github.com/novalang/novac/internal/types"
)

// lowerType evaluates a surface TypeExpr into an interned types.TypeId.
// Generic instantiation with supplied arguments goes through
// Interner.Application(Lazy(def), args) rather than a hand-built
// SymbolRef{Args: ...} — the solver's Interner only exposes a TypeListId
// constructor internally (internList), so a reference carrying explicit
// type arguments must be expressed the way the Evaluator's own
// evalApplication case already expects to unwrap it (see
// internal/evaluator's handling of KindApplication over a KindLazy base).
// A bare, argument-less reference (recursive self-reference, or any
// non-generic name) uses Reference(SymbolRef{Def: def}) instead, since
// internal/access's resolveAtom special-cases KindTypeReference to walk
// class/interface heritage without losing the declaring DefId.
func (c *Checker) lowerType(t ast.TypeExpr) types.TypeId {
	if t == nil {
		return types.Any
	}
	switch n := t.(type) {
	case *ast.KeywordTypeExpr:
		return c.lowerKeyword(n.Name)
	case *ast.LiteralTypeExpr:
		switch v := n.Value.(type) {
		case string:
			return c.in.LiteralString(v)
		case float64:
			return c.in.LiteralNumber(v)
		case bool:
			return c.in.LiteralBoolean(v)
		}
		return types.Any
	case *ast.TypeReferenceExpr:
		return c.lowerTypeReference(n)
	case *ast.UnionTypeExpr:
		members := make([]types.TypeId, len(n.Members))
		for i, m := range n.Members {
			members[i] = c.lowerType(m)
		}
		return c.in.Union(members)
	case *ast.IntersectionTypeExpr:
		members := make([]types.TypeId, len(n.Members))
		for i, m := range n.Members {
			members[i] = c.lowerType(m)
		}
		return c.in.Intersection(members)
	case *ast.ArrayTypeExpr:
		return c.in.Array(c.lowerType(n.Element))
	case *ast.TupleTypeExpr:
		elems := make([]types.TupleElement, len(n.Elements))
		for i, e := range n.Elements {
			var name types.Atom
			if e.Name != "" {
				name = c.in.InternString(e.Name)
			}
			elems[i] = types.TupleElement{Type: c.lowerType(e.Type), Name: name, Optional: e.Optional, Rest: e.Rest}
		}
		return c.in.Tuple(elems)
	case *ast.ObjectTypeExpr:
		return c.lowerObjectType(n)
	case *ast.FunctionTypeExpr:
		return c.lowerFunctionType(n)
	case *ast.KeyOfTypeExpr:
		return c.in.KeyOf(c.lowerType(n.Inner))
	case *ast.ReadonlyTypeExpr:
		return c.in.ReadonlyType(c.lowerType(n.Inner))
	case *ast.IndexedAccessTypeExpr:
		return c.in.IndexAccess(c.lowerType(n.Base), c.lowerType(n.Index))
	case *ast.InferTypeExpr:
		if tp, ok := c.typeScope.lookup(n.Name); ok {
			return tp
		}
		c.errorAt(n, diagnostics.CodeCannotFindName, "'infer %s' is only valid inside a conditional type's extends clause.", n.Name)
		return types.Unknown
	case *ast.ConditionalTypeExpr:
		return c.lowerConditionalType(n)
	case *ast.MappedTypeExpr:
		return c.lowerMappedType(n)
	case *ast.TemplateLiteralTypeExpr:
		return c.lowerTemplateLiteralType(n)
	case *ast.TypePredicateExpr:
		// Only legal in return-type position; lowerFunctionReturn unwraps
		// this before calling lowerType, so reaching here means it was
		// nested somewhere else in the type grammar.
		return types.Boolean
	case *ast.ParenthesizedTypeExpr:
		return c.lowerType(n.Inner)
	}
	return types.Any
}

func (c *Checker) lowerKeyword(name string) types.TypeId {
	switch name {
	case "any":
		return types.Any
	case "unknown":
		return types.Unknown
	case "never":
		return types.Never
	case "void":
		return types.Void
	case "string":
		return types.String
	case "number":
		return types.Number
	case "boolean":
		return types.Boolean
	case "bigint":
		return types.BigInt
	case "symbol":
		return types.Symbol
	case "object":
		return types.Object
	case "null":
		return types.Null
	case "undefined":
		return types.Undefined
	default:
		return types.Any
	}
}

func (c *Checker) lowerTypeReference(n *ast.TypeReferenceExpr) types.TypeId {
	if tp, ok := c.typeScope.lookup(n.Name); ok {
		return tp
	}
	decl, ok := c.typeNames[n.Name]
	if !ok {
		c.errorAt(n, diagnostics.CodeCannotFindName, "Cannot find name '%s'.", n.Name)
		return types.ErrorType
	}
	if decl.kind == typeenv.DefEnum {
		return c.in.Enum(decl.def, decl.enumMember)
	}
	if len(n.TypeArgs) == 0 {
		return c.in.Reference(types.SymbolRef{Def: decl.def})
	}
	args := make([]types.TypeId, len(n.TypeArgs))
	for i, a := range n.TypeArgs {
		args[i] = c.lowerType(a)
	}
	return c.in.Application(c.in.Lazy(decl.def), args)
}

func (c *Checker) lowerObjectType(n *ast.ObjectTypeExpr) types.TypeId {
	props := make([]types.PropertyInfo, 0, len(n.Members))
	for _, m := range n.Members {
		typ := c.lowerType(m.Type)
		props = append(props, types.PropertyInfo{
			Name:     c.in.InternString(m.Name),
			ReadType: typ, WriteType: typ,
			Optional: m.Optional, Readonly: m.Readonly, IsMethod: m.IsMethod,
		})
	}
	shape := types.ObjectShape{Properties: props, Flags: types.ObjectFlagFresh}
	if n.StringIndex != nil {
		shape.StringIndex = &types.IndexSignature{ValueType: c.lowerType(n.StringIndex)}
		return c.in.ObjectWithIndex(shape)
	}
	if n.NumberIndex != nil {
		shape.NumberIndex = &types.IndexSignature{ValueType: c.lowerType(n.NumberIndex)}
		return c.in.ObjectWithIndex(shape)
	}
	return c.in.Object(shape)
}

func (c *Checker) lowerFunctionType(n *ast.FunctionTypeExpr) types.TypeId {
	child := &typeScope{params: map[string]types.TypeId{}, parent: c.typeScope}
	save := c.typeScope
	c.typeScope = child
	tpIds := make([]types.TypeId, 0, len(n.TypeParams))
	for _, tp := range n.TypeParams {
		id := c.in.TypeParameter(types.TypeParameterInfo{
			Symbol: c.newSym(), Name: c.in.InternString(tp.Name),
			Constraint: c.lowerTypeOrZero(tp.Constraint), Default: c.lowerTypeOrZero(tp.Default), IsConst: tp.Const,
		})
		child.params[tp.Name] = id
		tpIds = append(tpIds, id)
	}
	params := make([]types.Param, len(n.Params))
	for i, p := range n.Params {
		params[i] = types.Param{Name: c.in.InternString(p.Name), Type: c.lowerType(p.Type), Optional: p.Optional, Rest: p.Rest}
	}
	ret := c.lowerType(n.ReturnType)
	c.typeScope = save
	return c.in.Function(types.Signature{TypeParams: tpIds, Params: params, ReturnType: ret, IsConstructor: n.IsConstructor})
}

func (c *Checker) lowerTypeOrZero(t ast.TypeExpr) types.TypeId {
	if t == nil {
		return 0
	}
	return c.lowerType(t)
}

func collectInferNames(t ast.TypeExpr, out map[string]bool) {
	switch n := t.(type) {
	case *ast.InferTypeExpr:
		out[n.Name] = true
	case *ast.UnionTypeExpr:
		for _, m := range n.Members {
			collectInferNames(m, out)
		}
	case *ast.IntersectionTypeExpr:
		for _, m := range n.Members {
			collectInferNames(m, out)
		}
	case *ast.ArrayTypeExpr:
		collectInferNames(n.Element, out)
	case *ast.TupleTypeExpr:
		for _, e := range n.Elements {
			collectInferNames(e.Type, out)
		}
	case *ast.TypeReferenceExpr:
		for _, a := range n.TypeArgs {
			collectInferNames(a, out)
		}
	case *ast.ParenthesizedTypeExpr:
		collectInferNames(n.Inner, out)
	case *ast.FunctionTypeExpr:
		for _, p := range n.Params {
			collectInferNames(p.Type, out)
		}
		collectInferNames(n.ReturnType, out)
	}
}

func (c *Checker) lowerConditionalType(n *ast.ConditionalTypeExpr) types.TypeId {
	checkT := c.lowerType(n.Check)

	names := map[string]bool{}
	collectInferNames(n.Extends, names)
	child := &typeScope{params: map[string]types.TypeId{}, parent: c.typeScope}
	for name := range names {
		child.params[name] = c.in.TypeParameter(types.TypeParameterInfo{
			Symbol: c.newSym(), Name: c.in.InternString(name), IsInfer: true,
		})
	}
	save := c.typeScope
	c.typeScope = child
	extendsT := c.lowerType(n.Extends)
	trueT := c.lowerType(n.True)
	c.typeScope = save
	falseT := c.lowerType(n.False)

	return c.in.Conditional(types.ConditionalPayload{Check: checkT, Extends: extendsT, TrueBranch: trueT, FalseBranch: falseT})
}

func (c *Checker) lowerMappedType(n *ast.MappedTypeExpr) types.TypeId {
	constraintT := c.lowerType(n.Constraint)
	tp := c.in.TypeParameter(types.TypeParameterInfo{Symbol: c.newSym(), Name: c.in.InternString(n.KeyName), Constraint: constraintT})

	child := &typeScope{params: map[string]types.TypeId{n.KeyName: tp}, parent: c.typeScope}
	save := c.typeScope
	c.typeScope = child
	var nameType types.TypeId
	if n.NameType != nil {
		nameType = c.lowerType(n.NameType)
	}
	template := c.lowerType(n.Template)
	c.typeScope = save

	return c.in.Mapped(types.MappedPayload{
		TypeParam: tp, Constraint: constraintT, NameType: nameType, Template: template,
		ReadonlyModifier: mappedModifier(n.Readonly), QuestionModifier: mappedModifier(n.Optional),
	})
}

func mappedModifier(m ast.MappedModifierExpr) types.MappedModifier {
	switch m {
	case ast.MappedModifierAdd:
		return types.ModifierAdd
	case ast.MappedModifierRemove:
		return types.ModifierRemove
	default:
		return types.ModifierNone
	}
}

func (c *Checker) lowerTemplateLiteralType(n *ast.TemplateLiteralTypeExpr) types.TypeId {
	spans := make([]types.TemplateSpan, 0, len(n.Quasis)+len(n.Types))
	for i, q := range n.Quasis {
		if q != "" {
			spans = append(spans, types.TemplateSpan{IsText: true, Text: c.in.InternString(q)})
		}
		if i < len(n.Types) {
			spans = append(spans, types.TemplateSpan{Type: c.lowerType(n.Types[i])})
		}
	}
	return c.in.TemplateLiteral(spans)
}
