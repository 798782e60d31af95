// Package access implements property and element resolution across unions,
// intersections, index signatures, and class heritage.
package access

import (
	"github.com/novalang/novac/internal/evaluator"
	"github.com/novalang/novac/internal/flags"
	"github.com/novalang/novac/internal/querycache"
	"github.com/novalang/novac/internal/typeenv"
	"github.com/novalang/novac/internal/types"
)

type Reason int

const (
	ReasonOK Reason = iota
	ReasonNotFound
	ReasonAmbiguous
	ReasonPrivateOutside
	ReasonProtectedOutside
)

type Result struct {
	Type       types.TypeId
	Readonly   bool
	Visibility types.Visibility
	Origin     types.DefId
	Reason     Reason
}

type ElementKind int

const (
	ElementProperty ElementKind = iota
	ElementIndexSignature
	ElementTupleElement
	ElementUndefined
)

type ElementResult struct {
	Result
	Kind ElementKind
}

type Resolver struct {
	in     *types.Interner
	eval   *evaluator.Evaluator
	env    *typeenv.Environment
	caches *querycache.Caches
}

func New(in *types.Interner, eval *evaluator.Evaluator, env *typeenv.Environment, caches *querycache.Caches) *Resolver {
	return &Resolver{in: in, eval: eval, env: env, caches: caches}
}

// ResolveProperty resolves `object.name`.
func (r *Resolver) ResolveProperty(object types.TypeId, name string, enclosingClass types.DefId, f flags.Flags) Result {
	atom := r.in.InternString(name)
	return r.resolveAtom(object, atom, enclosingClass, f)
}

// resolveAtom checks for a bare TypeReference before reducing to head-normal
// form, since the Evaluator fully unfolds a class/interface reference down
// to its own member shape and loses the declaring DefId that heritage
// lookup needs.
func (r *Resolver) resolveAtom(t types.TypeId, atom types.Atom, enclosingClass types.DefId, f flags.Flags) Result {
	v := r.in.View()
	if ref, ok := v.Reference(t); ok {
		return r.resolveThroughHeritage(ref.Def, atom, enclosingClass, f)
	}

	obj := r.eval.Evaluate(t, f)

	switch v.Kind(obj) {
	case types.KindUnion:
		members := v.UnionMembers(obj)
		var resultType types.TypeId
		readonly := false
		collected := make([]types.TypeId, 0, len(members))
		for _, m := range members {
			if v.IsNullish(m) {
				continue // optional-chaining callers filter nullish separately
			}
			res := r.resolveAtom(m, atom, enclosingClass, f)
			if res.Reason != ReasonOK {
				return Result{Reason: ReasonNotFound}
			}
			collected = append(collected, res.Type)
			if res.Readonly {
				readonly = true
			}
		}
		resultType = r.in.Union(collected)
		return Result{Type: resultType, Readonly: readonly, Reason: ReasonOK}

	case types.KindIntersection:
		members := v.IntersectionMembers(obj)
		var last Result
		found := false
		for _, m := range members {
			res := r.resolveAtom(m, atom, enclosingClass, f)
			if res.Reason == ReasonOK {
				last = res // later successes shadow earlier ones
				found = true
			}
		}
		if !found {
			return Result{Reason: ReasonNotFound}
		}
		return last

	case types.KindObject, types.KindObjectWithIndex:
		shape, _ := v.ObjectShape(obj)
		if p, ok := findProperty(shape.Properties, atom); ok {
			if vis := r.checkAccessibility(p, enclosingClass); vis != ReasonOK {
				return Result{Reason: vis}
			}
			return Result{Type: p.ReadType, Readonly: p.Readonly, Visibility: p.Visibility, Origin: p.Parent, Reason: ReasonOK}
		}
		if shape.StringIndex != nil {
			valueType := shape.StringIndex.ValueType
			if f.Has(flags.NoUncheckedIndexedAccess) {
				valueType = r.in.Union([]types.TypeId{valueType, types.Undefined})
			}
			return Result{Type: valueType, Readonly: shape.StringIndex.Readonly, Reason: ReasonOK}
		}
		return Result{Reason: ReasonNotFound}

	case types.KindArray:
		return r.arrayPrototypeProperty(obj, atom, f)

	case types.KindTuple:
		elems := v.TupleElements(obj)
		if idx, ok := tupleIndexName(r.in, atom); ok && idx < len(elems) {
			return Result{Type: elems[idx].Type, Reason: ReasonOK}
		}
		return r.arrayPrototypeProperty(r.in.Array(tupleUnion(r.in, elems)), atom, f)

	case types.KindCallable, types.KindFunction:
		if v.Kind(obj) == types.KindCallable {
			cs, _ := v.CallableShape(obj)
			if p, ok := findProperty(cs.Properties, atom); ok {
				return Result{Type: p.ReadType, Readonly: p.Readonly, Reason: ReasonOK}
			}
		}
		return Result{Reason: ReasonNotFound}

	case types.KindTypeReference:
		// Only reachable for a self-referential generic alias with no
		// supplied arguments (ResolveRef returns the bare body unevaluated);
		// treat it as another heritage lookup rather than recursing forever.
		ref, _ := v.Reference(obj)
		return r.resolveThroughHeritage(ref.Def, atom, enclosingClass, f)

	default:
		return Result{Reason: ReasonNotFound}
	}
}

func (r *Resolver) checkAccessibility(p types.PropertyInfo, enclosingClass types.DefId) Reason {
	switch p.Visibility {
	case types.VisibilityPrivate:
		if enclosingClass != p.Parent {
			return ReasonPrivateOutside
		}
	case types.VisibilityProtected:
		if enclosingClass == 0 {
			return ReasonProtectedOutside
		}
	}
	return ReasonOK
}

// resolveThroughHeritage walks a class/interface's base-type chain looking
// for the property, applying variance-aware substitution already baked into
// the base type's recorded TypeId (the Environment stores it post-
// substitution at declaration time).
func (r *Resolver) resolveThroughHeritage(def types.DefId, atom types.Atom, enclosingClass types.DefId, f flags.Flags) Result {
	seen := map[types.DefId]bool{}
	for def != 0 && !seen[def] {
		seen[def] = true
		body := r.env.ResolveLazy(def)
		res := r.resolveAtom(r.eval.Evaluate(body, f), atom, enclosingClass, f)
		if res.Reason != ReasonNotFound {
			return res
		}
		base, ok := r.env.GetBaseType(def)
		if !ok {
			break
		}
		baseEval := r.eval.Evaluate(base, f)
		if ref, ok := r.in.View().Reference(baseEval); ok {
			def = ref.Def
			continue
		}
		return r.resolveAtom(baseEval, atom, enclosingClass, f)
	}
	return Result{Reason: ReasonNotFound}
}

func findProperty(props []types.PropertyInfo, atom types.Atom) (types.PropertyInfo, bool) {
	lo, hi := 0, len(props)
	for lo < hi {
		mid := (lo + hi) / 2
		if props[mid].Name < atom {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(props) && props[lo].Name == atom {
		return props[lo], true
	}
	return types.PropertyInfo{}, false
}

func tupleIndexName(in *types.Interner, atom types.Atom) (int, bool) {
	s := in.ResolveAtom(atom)
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

func tupleUnion(in *types.Interner, elems []types.TupleElement) types.TypeId {
	members := make([]types.TypeId, len(elems))
	for i, el := range elems {
		members[i] = el.Type
	}
	return in.Union(members)
}

// arrayPrototypeProperty resolves well-known Array.prototype-shaped members
// (length, and otherwise falls back to NotFound — full prototype modeling
// lives in the ambient lib declarations loaded by the Build Driver, not in
// this package).
func (r *Resolver) arrayPrototypeProperty(obj types.TypeId, atom types.Atom, f flags.Flags) Result {
	if r.in.ResolveAtom(atom) == "length" {
		return Result{Type: types.Number, Reason: ReasonOK}
	}
	return Result{Reason: ReasonNotFound}
}

// ResolveElement resolves `obj[expr]`, reusing property access for literal
// indices.
func (r *Resolver) ResolveElement(obj, index types.TypeId, enclosingClass types.DefId, f flags.Flags) ElementResult {
	v := r.in.View()
	objEval := r.eval.Evaluate(obj, f)
	idxEval := r.eval.Evaluate(index, f)

	if s, ok := v.LiteralStringValue(idxEval); ok {
		res := r.resolveAtom(objEval, r.in.InternString(s), enclosingClass, f)
		kind := ElementProperty
		if v.Kind(objEval) == types.KindObjectWithIndex {
			if shape, ok2 := v.ObjectShape(objEval); ok2 {
				if _, found := findProperty(shape.Properties, r.in.InternString(s)); !found && shape.StringIndex != nil {
					kind = ElementIndexSignature
				}
			}
		}
		return ElementResult{Result: res, Kind: kind}
	}

	if n, ok := v.LiteralNumberValue(idxEval); ok && v.Kind(objEval) == types.KindTuple {
		if idx := int(n); float64(idx) == n && idx >= 0 {
			if elems := v.TupleElements(objEval); idx < len(elems) {
				return ElementResult{Result: Result{Type: elems[idx].Type, Reason: ReasonOK}, Kind: ElementTupleElement}
			}
		}
	}

	if v.Kind(objEval) == types.KindArray || v.Kind(objEval) == types.KindTuple {
		el := v.ArrayElement(objEval)
		if v.Kind(objEval) == types.KindTuple {
			elems := v.TupleElements(objEval)
			members := make([]types.TypeId, len(elems))
			for i, e := range elems {
				members[i] = e.Type
			}
			el = r.in.Union(members)
		}
		return ElementResult{Result: Result{Type: el, Reason: ReasonOK}, Kind: ElementTupleElement}
	}
	return ElementResult{Result: Result{Reason: ReasonNotFound}, Kind: ElementUndefined}
}
