package evaluator

import (
	"github.com/novalang/novac/internal/flags"
	"github.com/novalang/novac/internal/types"
)

// evalConditional implements the Conditional algorithm:
// evaluate both sides; if concrete and free of this conditional's own naked
// type parameter, run the "extends" test and pick a branch, substituting
// any `infer` bindings collected along the way. If the check type is a
// naked type parameter that evaluates to a union, distribute the
// conditional over the union instead (the classic `T extends U ? X : Y`
// distributive-conditional rule).
func (e *Evaluator) evalConditional(t types.TypeId, f flags.Flags, depth int) types.TypeId {
	v := e.in.View()
	c, _ := v.Conditional(t)

	checkEval := e.evalGuarded(c.Check, f, depth+1)

	if v.Kind(checkEval) == types.KindUnion && isNakedTypeParameter(e.in, c.Check) {
		members := v.UnionMembers(checkEval)
		out := make([]types.TypeId, len(members))
		for i, m := range members {
			subst := map[types.TypeId]types.TypeId{c.Check: m}
			distributed := e.in.Conditional(types.ConditionalPayload{
				Check:       m,
				Extends:     Substitute(e.in, c.Extends, subst),
				TrueBranch:  Substitute(e.in, c.TrueBranch, subst),
				FalseBranch: Substitute(e.in, c.FalseBranch, subst),
			})
			out[i] = e.evalGuarded(distributed, f, depth+1)
		}
		return e.in.Union(out)
	}

	extendsEval := e.evalGuarded(c.Extends, f, depth+1)

	if e.extends == nil {
		// Subtype Checker not wired yet (construction-order bootstrap): leave
		// the conditional unevaluated rather than guessing a branch.
		return t
	}
	res := e.extends.TestExtends(checkEval, extendsEval, f)
	if res.Matches {
		branch := c.TrueBranch
		if len(res.Inferred) > 0 {
			branch = Substitute(e.in, branch, res.Inferred)
		}
		return e.evalGuarded(branch, f, depth+1)
	}
	return e.evalGuarded(c.FalseBranch, f, depth+1)
}

func isNakedTypeParameter(in *types.Interner, t types.TypeId) bool {
	return in.View().Kind(t) == types.KindTypeParameter
}

// evalMapped implements the Mapped algorithm: if the
// constraint evaluates to a union of literal keys, eagerly materialize an
// object with one property per key (applying the readonly/question
// modifiers and substituting the template per key); otherwise the Mapped
// form is left unchanged (e.g. the constraint is `keyof T` for an
// unresolved generic `T`).
func (e *Evaluator) evalMapped(t types.TypeId, f flags.Flags, depth int) types.TypeId {
	v := e.in.View()
	m, _ := v.Mapped(t)
	keyType := e.evalGuarded(m.Constraint, f, depth+1)

	keys, ok := literalKeyMembers(e.in, keyType)
	if !ok {
		return t
	}

	props := make([]types.PropertyInfo, 0, len(keys))
	for _, key := range keys {
		keyName := key
		nameAtom := e.in.InternString(keyName)
		if m.NameType != 0 {
			subst := map[types.TypeId]types.TypeId{m.TypeParam: e.in.LiteralString(keyName)}
			remapped := e.evalGuarded(Substitute(e.in, m.NameType, subst), f, depth+1)
			if remapped == types.Never {
				continue // `as never` drops the key
			}
			if s, ok := e.in.View().LiteralStringValue(remapped); ok {
				nameAtom = e.in.InternString(s)
			} else if spans, ok := e.in.View().TemplateSpans(remapped); ok {
				name, literal := "", true
				for _, sp := range spans {
					if sp.IsText {
						name += e.in.ResolveAtom(sp.Text)
					} else if s, ok := e.in.View().LiteralStringValue(sp.Type); ok {
						name += s
					} else {
						literal = false
					}
				}
				if literal {
					nameAtom = e.in.InternString(name)
				}
			}
		}
		subst := map[types.TypeId]types.TypeId{m.TypeParam: e.in.LiteralString(keyName)}
		propType := e.evalGuarded(Substitute(e.in, m.Template, subst), f, depth+1)
		props = append(props, types.PropertyInfo{
			Name:     nameAtom,
			ReadType: propType,
			WriteType: propType,
			Optional: m.QuestionModifier == types.ModifierAdd,
			Readonly: m.ReadonlyModifier == types.ModifierAdd,
		})
	}
	return e.in.Object(types.ObjectShape{Properties: props})
}

// literalKeyMembers extracts the set of string-literal keys from a key type
// (a union of string literals, or a single string literal).
func literalKeyMembers(in *types.Interner, keyType types.TypeId) ([]string, bool) {
	v := in.View()
	if s, ok := v.LiteralStringValue(keyType); ok {
		return []string{s}, true
	}
	if v.Kind(keyType) != types.KindUnion {
		return nil, false
	}
	var out []string
	for _, m := range v.UnionMembers(keyType) {
		s, ok := v.LiteralStringValue(m)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

// evalKeyOf implements the KeyOf algorithm.
func (e *Evaluator) evalKeyOf(t types.TypeId, f flags.Flags, depth int) types.TypeId {
	v := e.in.View()
	inner, _ := v.KeyOfInner(t)
	innerEval := e.evalGuarded(inner, f, depth+1)
	iv := e.in.View()

	switch iv.Kind(innerEval) {
	case types.KindObject, types.KindObjectWithIndex:
		shape, _ := iv.ObjectShape(innerEval)
		members := make([]types.TypeId, 0, len(shape.Properties)+2)
		for _, p := range shape.Properties {
			members = append(members, e.in.LiteralString(e.in.ResolveAtom(p.Name)))
		}
		if shape.StringIndex != nil {
			members = append(members, types.String)
		}
		if shape.NumberIndex != nil {
			members = append(members, types.Number)
		}
		return e.in.Union(members)
	case types.KindTuple:
		elems := iv.TupleElements(innerEval)
		members := make([]types.TypeId, 0, len(elems)+1)
		for i := range elems {
			members = append(members, e.in.LiteralString(itoa(i)))
		}
		members = append(members, e.in.LiteralString("length"))
		return e.in.Union(members)
	case types.KindArray:
		return types.Number
	case types.KindUnion:
		// keyof (A|B) = keyof A & keyof B — distribute over union by
		// intersecting the per-member key sets.
		members := iv.UnionMembers(innerEval)
		result := e.evalGuarded(e.in.KeyOf(members[0]), f, depth+1)
		for _, m := range members[1:] {
			result = e.in.Intersection([]types.TypeId{result, e.evalGuarded(e.in.KeyOf(m), f, depth+1)})
		}
		return result
	default:
		return types.Never
	}
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	digits := []byte{}
	for i > 0 {
		digits = append([]byte{byte('0' + i%10)}, digits...)
		i /= 10
	}
	return string(digits)
}
