package evaluator

import (
	"github.com/novalang/novac/internal/flags"
	"github.com/novalang/novac/internal/types"
)

// evalIndexAccess implements the IndexAccess algorithm:
// evaluate both operands; a literal index looks up the matching
// property/tuple element directly, falling back to an index signature (and
// unioning with undefined under noUncheckedIndexedAccess when the hit came
// from an index signature rather than a named property); union objects and
// union indices distribute.
func (e *Evaluator) evalIndexAccess(t types.TypeId, f flags.Flags, depth int) types.TypeId {
	v := e.in.View()
	ia, _ := v.IndexAccess(t)
	obj := e.evalGuarded(ia.Object, f, depth+1)
	idx := e.evalGuarded(ia.Index, f, depth+1)

	if e.in.View().Kind(idx) == types.KindUnion {
		members := e.in.View().UnionMembers(idx)
		out := make([]types.TypeId, len(members))
		for i, m := range members {
			out[i] = e.evalGuarded(e.in.IndexAccess(obj, m), f, depth+1)
		}
		return e.in.Union(out)
	}
	if e.in.View().Kind(obj) == types.KindUnion {
		members := e.in.View().UnionMembers(obj)
		out := make([]types.TypeId, len(members))
		for i, m := range members {
			out[i] = e.evalGuarded(e.in.IndexAccess(m, idx), f, depth+1)
		}
		return e.in.Union(out)
	}

	return e.indexOne(obj, idx, f)
}

func (e *Evaluator) indexOne(obj, idx types.TypeId, f flags.Flags) types.TypeId {
	v := e.in.View()

	if name, ok := v.LiteralStringValue(idx); ok {
		switch v.Kind(obj) {
		case types.KindObject, types.KindObjectWithIndex:
			shape, _ := v.ObjectShape(obj)
			for _, p := range shape.Properties {
				if e.in.ResolveAtom(p.Name) == name {
					return p.ReadType
				}
			}
			if shape.StringIndex != nil {
				return e.maybeUndefined(shape.StringIndex.ValueType, f)
			}
			return types.ErrorType
		case types.KindTuple:
			if n, ok := parseUint(name); ok {
				elems := v.TupleElements(obj)
				if n >= 0 && n < len(elems) {
					return elems[n].Type
				}
			}
			if name == "length" {
				return types.Number
			}
			return types.ErrorType
		}
	}

	if _, ok := v.LiteralNumberValue(idx); ok || idx == types.Number {
		switch v.Kind(obj) {
		case types.KindArray:
			return v.ArrayElement(obj)
		case types.KindTuple:
			elems := v.TupleElements(obj)
			members := make([]types.TypeId, len(elems))
			for i, el := range elems {
				members[i] = el.Type
			}
			return e.in.Union(members)
		case types.KindObject, types.KindObjectWithIndex:
			shape, _ := v.ObjectShape(obj)
			if shape.NumberIndex != nil {
				return e.maybeUndefined(shape.NumberIndex.ValueType, f)
			}
		}
	}

	return types.ErrorType
}

func (e *Evaluator) maybeUndefined(t types.TypeId, f flags.Flags) types.TypeId {
	if f.Has(flags.NoUncheckedIndexedAccess) {
		return e.in.Union([]types.TypeId{t, types.Undefined})
	}
	return t
}

func parseUint(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
