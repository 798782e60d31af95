package evaluator

import "github.com/novalang/novac/internal/types"

// Substitute replaces every occurrence of a type parameter in subst with its
// bound argument, rebuilding composite types bottom-up through the interner
// so the result is itself a properly interned term. Used when instantiating
// a generic alias/conditional/mapped body.
func Substitute(in *types.Interner, t types.TypeId, subst map[types.TypeId]types.TypeId) types.TypeId {
	if len(subst) == 0 {
		return t
	}
	if repl, ok := subst[t]; ok {
		return repl
	}
	v := in.View()
	switch v.Kind(t) {
	case types.KindUnion:
		members := v.UnionMembers(t)
		out := mapSubst(in, members, subst)
		return in.Union(out)
	case types.KindIntersection:
		members := v.IntersectionMembers(t)
		out := mapSubst(in, members, subst)
		return in.Intersection(out)
	case types.KindArray:
		el := v.ArrayElement(t)
		return in.Array(Substitute(in, el, subst))
	case types.KindTuple:
		elems := v.TupleElements(t)
		out := make([]types.TupleElement, len(elems))
		for i, el := range elems {
			out[i] = types.TupleElement{Type: Substitute(in, el.Type, subst), Name: el.Name, Optional: el.Optional, Rest: el.Rest}
		}
		return in.Tuple(out)
	case types.KindObject, types.KindObjectWithIndex:
		shape, _ := v.ObjectShape(t)
		props := make([]types.PropertyInfo, len(shape.Properties))
		for i, p := range shape.Properties {
			props[i] = types.PropertyInfo{
				Name: p.Name, ReadType: Substitute(in, p.ReadType, subst), WriteType: Substitute(in, p.WriteType, subst),
				Optional: p.Optional, Readonly: p.Readonly, IsMethod: p.IsMethod, Visibility: p.Visibility, Parent: p.Parent,
			}
		}
		newShape := types.ObjectShape{Properties: props, Flags: shape.Flags, SymbolProps: shape.SymbolProps}
		if shape.StringIndex != nil {
			newShape.StringIndex = &types.IndexSignature{ValueType: Substitute(in, shape.StringIndex.ValueType, subst), Readonly: shape.StringIndex.Readonly}
		}
		if shape.NumberIndex != nil {
			newShape.NumberIndex = &types.IndexSignature{ValueType: Substitute(in, shape.NumberIndex.ValueType, subst), Readonly: shape.NumberIndex.Readonly}
		}
		if v.Kind(t) == types.KindObjectWithIndex {
			return in.ObjectWithIndex(newShape)
		}
		return in.Object(newShape)
	case types.KindFunction:
		sig, _ := v.FunctionSignature(t)
		return in.Function(substituteSignature(in, sig, subst))
	case types.KindCallable:
		cs, _ := v.CallableShape(t)
		newCS := types.CallableShape{Properties: cs.Properties, StringIndex: cs.StringIndex, NumberIndex: cs.NumberIndex}
		for _, sig := range cs.CallSignatures {
			newCS.CallSignatures = append(newCS.CallSignatures, substituteSignature(in, sig, subst))
		}
		for _, sig := range cs.ConstructSignatures {
			newCS.ConstructSignatures = append(newCS.ConstructSignatures, substituteSignature(in, sig, subst))
		}
		return in.Callable(newCS)
	case types.KindApplication:
		base, args, _ := v.Application(t)
		out := mapSubst(in, args, subst)
		return in.Application(Substitute(in, base, subst), out)
	case types.KindConditional:
		c, _ := v.Conditional(t)
		return in.Conditional(types.ConditionalPayload{
			Check:       Substitute(in, c.Check, subst),
			Extends:     Substitute(in, c.Extends, subst),
			TrueBranch:  Substitute(in, c.TrueBranch, subst),
			FalseBranch: Substitute(in, c.FalseBranch, subst),
		})
	case types.KindMapped:
		m, _ := v.Mapped(t)
		nameType := m.NameType
		if nameType != 0 {
			nameType = Substitute(in, nameType, subst)
		}
		return in.Mapped(types.MappedPayload{
			TypeParam:        m.TypeParam,
			Constraint:       Substitute(in, m.Constraint, subst),
			NameType:         nameType,
			Template:         Substitute(in, m.Template, subst),
			ReadonlyModifier: m.ReadonlyModifier,
			QuestionModifier: m.QuestionModifier,
		})
	case types.KindIndexAccess:
		ia, _ := v.IndexAccess(t)
		return in.IndexAccess(Substitute(in, ia.Object, subst), Substitute(in, ia.Index, subst))
	case types.KindKeyOf:
		inner, _ := v.KeyOfInner(t)
		return in.KeyOf(Substitute(in, inner, subst))
	case types.KindReadonly:
		inner, _ := v.ReadonlyInner(t)
		return in.ReadonlyType(Substitute(in, inner, subst))
	case types.KindNoInfer:
		inner, _ := v.NoInferInner(t)
		return in.NoInfer(Substitute(in, inner, subst))
	case types.KindTemplateLiteral:
		spans, _ := v.TemplateSpans(t)
		out := make([]types.TemplateSpan, len(spans))
		changed := false
		for i, s := range spans {
			out[i] = s
			if !s.IsText {
				out[i].Type = Substitute(in, s.Type, subst)
				if out[i].Type != s.Type {
					changed = true
				}
			}
		}
		if !changed {
			return t
		}
		return in.TemplateLiteral(out)
	default:
		return t
	}
}

func mapSubst(in *types.Interner, ids []types.TypeId, subst map[types.TypeId]types.TypeId) []types.TypeId {
	out := make([]types.TypeId, len(ids))
	for i, id := range ids {
		out[i] = Substitute(in, id, subst)
	}
	return out
}

func substituteSignature(in *types.Interner, sig types.Signature, subst map[types.TypeId]types.TypeId) types.Signature {
	params := make([]types.Param, len(sig.Params))
	for i, p := range sig.Params {
		params[i] = types.Param{Name: p.Name, Type: Substitute(in, p.Type, subst), Optional: p.Optional, Rest: p.Rest}
	}
	out := types.Signature{
		TypeParams:    sig.TypeParams,
		Params:        params,
		ReturnType:    Substitute(in, sig.ReturnType, subst),
		IsConstructor: sig.IsConstructor,
		IsMethod:      sig.IsMethod,
	}
	if sig.ThisType != 0 {
		out.ThisType = Substitute(in, sig.ThisType, subst)
	}
	if sig.TypePredicate != nil {
		out.TypePredicate = &types.TypePredicate{ParamName: sig.TypePredicate.ParamName, Type: Substitute(in, sig.TypePredicate.Type, subst), Asserts: sig.TypePredicate.Asserts}
	}
	return out
}
