package checker

import (
	"github.com/novalang/novac/internal/ast"
	"github.com/novalang/novac/internal/diagnostics"
	"github.com/novalang/novac/internal/flags"
	"github.com/novalang/novac/internal/typeenv"
	"github.com/novalang/novac/internal/types"
)

// unwrapExport strips an `export` wrapper so hoisting/binding sees the same
// declaration shape whether or not it was exported, mirroring how the
// Module Resolver only cares about the export's
// specifier list, not the declaration's internal structure.
func unwrapExport(s ast.Statement) ast.Statement {
	if exp, ok := s.(*ast.ExportDeclaration); ok && exp.Decl != nil {
		return exp.Decl
	}
	return s
}

// hoistDeclarations runs two passes over stmts: the first allocates a DefId
// for every named class/interface/alias/enum so forward references between
// sibling declarations resolve, the second lowers each declaration's actual
// structure now that every name in the file is resolvable.
func (c *Checker) hoistDeclarations(stmts []ast.Statement) {
	for _, raw := range stmts {
		switch d := unwrapExport(raw).(type) {
		case *ast.ClassDeclaration:
			c.typeNames[d.Name] = &typeDecl{def: c.newDef(), kind: typeenv.DefClass, typeParams: d.TypeParams}
		case *ast.InterfaceDeclaration:
			c.typeNames[d.Name] = &typeDecl{def: c.newDef(), kind: typeenv.DefInterface, typeParams: d.TypeParams}
		case *ast.TypeAliasDeclaration:
			c.typeNames[d.Name] = &typeDecl{def: c.newDef(), kind: typeenv.DefTypeAlias, typeParams: d.TypeParams}
		case *ast.EnumDeclaration:
			c.typeNames[d.Name] = &typeDecl{def: c.newDef(), kind: typeenv.DefEnum}
		}
	}
	for _, raw := range stmts {
		switch d := unwrapExport(raw).(type) {
		case *ast.ClassDeclaration:
			c.bindClass(d)
		case *ast.InterfaceDeclaration:
			c.bindInterface(d)
		case *ast.TypeAliasDeclaration:
			c.bindTypeAlias(d)
		case *ast.EnumDeclaration:
			c.bindEnum(d)
		case *ast.FunctionDeclaration:
			c.bindFunctionSignature(d)
		}
	}
}

// pushTypeParamDecls opens a child type scope binding each TypeParamDecl to
// a freshly interned TypeParameter, returning the scope and the ordered
// TypeIds a Signature/class body needs to record.
func (c *Checker) pushTypeParamDecls(decls []ast.TypeParamDecl) (restore func(), ids []types.TypeId) {
	child := &typeScope{params: make(map[string]types.TypeId), parent: c.typeScope}
	save := c.typeScope
	c.typeScope = child
	ids = make([]types.TypeId, 0, len(decls))
	for _, tp := range decls {
		id := c.in.TypeParameter(types.TypeParameterInfo{
			Symbol:     c.newSym(),
			Name:       c.in.InternString(tp.Name),
			Constraint: c.lowerTypeOrZero(tp.Constraint),
			Default:    c.lowerTypeOrZero(tp.Default),
			IsConst:    tp.Const,
		})
		child.params[tp.Name] = id
		ids = append(ids, id)
	}
	return func() { c.typeScope = save }, ids
}

func (c *Checker) bindClass(d *ast.ClassDeclaration) {
	decl := c.typeNames[d.Name]
	restore, tpIds := c.pushTypeParamDecls(d.TypeParams)
	c.classTypeParams[d] = tpIds
	defer restore()

	var props []types.PropertyInfo
	for _, p := range d.Properties {
		typ := c.propertyType(p.Type, p.Initial)
		props = append(props, types.PropertyInfo{
			Name: c.in.InternString(p.Name), ReadType: typ, WriteType: typ,
			Optional: p.Optional, Readonly: p.Readonly, Visibility: visibilityOf(p.Visibility), Parent: decl.def,
		})
	}
	for _, m := range d.Methods {
		if m.Name == "constructor" {
			for _, param := range m.Function.Params {
				if param.Visibility == "" {
					continue
				}
				typ := c.propertyType(param.Type, nil)
				props = append(props, types.PropertyInfo{
					Name: c.in.InternString(param.Name), ReadType: typ, WriteType: typ,
					Readonly: param.Readonly, Visibility: visibilityOf(param.Visibility), Parent: decl.def,
				})
			}
			continue
		}
		sig := c.signatureFor(m.Function)
		sig.IsMethod = true
		var memberType types.TypeId
		if m.IsGetter {
			memberType = sig.ReturnType
		} else {
			memberType = c.in.Function(sig)
		}
		props = append(props, types.PropertyInfo{
			Name: c.in.InternString(m.Name), ReadType: memberType, WriteType: memberType,
			IsMethod: !m.IsGetter && !m.IsSetter, Visibility: visibilityOf(m.Visibility), Parent: decl.def,
		})
	}

	body := c.in.Object(types.ObjectShape{Properties: props, Flags: types.ObjectFlagClassInstance})
	c.env.Declare(decl.def, c.newSym(), typeenv.DefClass, tpIds, body)
	if d.Extends != nil {
		c.env.SetBaseType(decl.def, c.lowerType(d.Extends))
	} else if len(d.Implements) > 0 {
		bases := make([]types.TypeId, len(d.Implements))
		for i, imp := range d.Implements {
			bases[i] = c.lowerType(imp)
		}
		c.env.SetBaseType(decl.def, c.in.Intersection(bases))
	}
}

// propertyType lowers a declared property type, infers it from the
// initializer, or falls back to Any when the property has neither. No
// NoImplicitAny diagnostic is reported for that fallback.
func (c *Checker) propertyType(t ast.TypeExpr, initial ast.Expression) types.TypeId {
	if t != nil {
		return c.lowerType(t)
	}
	if initial != nil {
		return c.inferExpr(initial)
	}
	return types.Any
}

func (c *Checker) bindInterface(d *ast.InterfaceDeclaration) {
	decl := c.typeNames[d.Name]
	restore, tpIds := c.pushTypeParamDecls(d.TypeParams)
	defer restore()

	props := make([]types.PropertyInfo, 0, len(d.Members))
	for _, m := range d.Members {
		typ := c.lowerType(m.Type)
		props = append(props, types.PropertyInfo{
			Name: c.in.InternString(m.Name), ReadType: typ, WriteType: typ,
			Optional: m.Optional, Readonly: m.Readonly, IsMethod: m.IsMethod, Parent: decl.def,
		})
	}
	shape := types.ObjectShape{Properties: props}
	var body types.TypeId
	if d.StringIndex != nil {
		shape.StringIndex = &types.IndexSignature{ValueType: c.lowerType(d.StringIndex)}
		body = c.in.ObjectWithIndex(shape)
	} else {
		body = c.in.Object(shape)
	}
	c.env.Declare(decl.def, c.newSym(), typeenv.DefInterface, tpIds, body)

	if len(d.Extends) == 1 {
		c.env.SetBaseType(decl.def, c.lowerType(d.Extends[0]))
	} else if len(d.Extends) > 1 {
		bases := make([]types.TypeId, len(d.Extends))
		for i, e := range d.Extends {
			bases[i] = c.lowerType(e)
		}
		c.env.SetBaseType(decl.def, c.in.Intersection(bases))
	}
}

func (c *Checker) bindTypeAlias(d *ast.TypeAliasDeclaration) {
	decl := c.typeNames[d.Name]
	restore, tpIds := c.pushTypeParamDecls(d.TypeParams)
	defer restore()
	body := c.lowerType(d.Value)
	c.env.Declare(decl.def, c.newSym(), typeenv.DefTypeAlias, tpIds, body)
}

func (c *Checker) bindEnum(d *ast.EnumDeclaration) {
	decl := c.typeNames[d.Name]
	numeric := true
	for _, m := range d.Members {
		if s, ok := m.Value.(*ast.StringLiteral); ok && s != nil {
			numeric = false
			break
		}
	}

	members := make(map[string]types.TypeId, len(d.Members))
	next := 0.0
	for _, m := range d.Members {
		var val types.TypeId
		switch {
		case m.Value == nil:
			val = c.in.LiteralNumber(next)
		default:
			val = c.inferExpr(m.Value)
		}
		members[m.Name] = val
		if n, ok := c.in.View().LiteralNumberValue(val); ok {
			next = n + 1
		}
	}
	c.env.DeclareEnum(decl.def, c.newSym(), numeric, members)
	if numeric {
		decl.enumMember = types.Number
	} else {
		decl.enumMember = types.String
	}

	enumType := c.in.Enum(decl.def, decl.enumMember)
	props := make([]types.PropertyInfo, 0, len(d.Members))
	for _, m := range d.Members {
		props = append(props, types.PropertyInfo{
			Name: c.in.InternString(m.Name), ReadType: enumType, WriteType: enumType, Readonly: true,
		})
	}
	c.declareValue(d.Name, c.in.Object(types.ObjectShape{Properties: props, Flags: types.ObjectFlagFresh}), true)
}

// signatureFor lowers (and memoizes) fn's Signature so the hoisting pass
// and the later statement-checking pass over the same function body agree
// on the exact TypeParameter TypeIds, rather than minting a second set of
// type parameters with a different identity each time the body is visited.
func (c *Checker) signatureFor(fn *ast.FunctionLiteral) types.Signature {
	if sig, ok := c.funcSig[fn]; ok {
		return sig
	}
	restore, tpIds := c.pushTypeParamDecls(fn.TypeParams)
	defer restore()

	params := make([]types.Param, len(fn.Params))
	for i, p := range fn.Params {
		typ := types.Any
		if p.Type != nil {
			typ = c.lowerType(p.Type)
		} else if c.flags.Has(flags.NoImplicitAny) {
			c.errorf(0, diagnostics.CodeImplicitAny, "Parameter '%s' implicitly has an 'any' type.", p.Name)
		}
		params[i] = types.Param{Name: c.in.InternString(p.Name), Type: typ, Optional: p.Optional || p.Default != nil, Rest: p.Rest}
	}

	var ret types.TypeId
	var pred *types.TypePredicate
	switch rt := fn.ReturnType.(type) {
	case *ast.TypePredicateExpr:
		ret = types.Boolean
		var paramAtom types.Atom
		if rt.ParamName != "" && rt.ParamName != "this" {
			paramAtom = c.in.InternString(rt.ParamName)
		}
		var predType types.TypeId
		if rt.Type != nil {
			predType = c.lowerType(rt.Type)
		}
		pred = &types.TypePredicate{ParamName: paramAtom, Type: predType, Asserts: rt.Asserts}
	case nil:
		ret = types.Any
	default:
		ret = c.lowerType(rt)
	}

	sig := types.Signature{TypeParams: tpIds, Params: params, ReturnType: ret, TypePredicate: pred}
	c.funcSig[fn] = sig
	return sig
}

func (c *Checker) bindFunctionSignature(d *ast.FunctionDeclaration) {
	sig := c.signatureFor(d.Function)
	c.declareValue(d.Function.Name, c.in.Function(sig), true)
}
