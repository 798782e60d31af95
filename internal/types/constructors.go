package types

import (
	"fmt"
	"math"
)

// LiteralString interns a string-literal type.
func (in *Interner) LiteralString(s string) TypeId {
	a := in.InternString(s)
	return in.internKeyed(fmt.Sprintf("ls:%d", a), func() term { return term{kind: KindLiteralString, atom: a} })
}

// LiteralNumber interns a numeric-literal type from its IEEE-754 bit pattern.
func (in *Interner) LiteralNumber(v float64) TypeId {
	bits := math.Float64bits(v)
	return in.internKeyed(fmt.Sprintf("ln:%d", bits), func() term { return term{kind: KindLiteralNumber, scalarF: bits} })
}

// LiteralBoolean interns a boolean-literal type.
func (in *Interner) LiteralBoolean(b bool) TypeId {
	v := uint64(0)
	if b {
		v = 1
	}
	return in.internKeyed(fmt.Sprintf("lb:%d", v), func() term { return term{kind: KindLiteralBoolean, scalarF: v} })
}

// LiteralBigInt interns a bigint-literal type from its sign and decimal digits.
func (in *Interner) LiteralBigInt(negative bool, digits string) TypeId {
	a := in.InternString(digits)
	return in.internKeyed(fmt.Sprintf("li:%v:%d", negative, a), func() term { return term{kind: KindLiteralBigInt, atom: a, neg: negative} })
}

// Union constructs a canonicalized union type: flattens nested unions, drops
// `never`, collapses to `any` if any member is `any`, sort-dedups, and
// collapses empty→never / singleton→member.
func (in *Interner) Union(members []TypeId) TypeId {
	flat := make([]TypeId, 0, len(members))
	var flatten func(TypeId)
	flatten = func(id TypeId) {
		rec := in.lookup(id)
		if rec.kind == KindUnion {
			for _, m := range in.ListOf(rec.list) {
				flatten(m)
			}
			return
		}
		if id == Never {
			return
		}
		flat = append(flat, id)
	}
	for _, m := range members {
		flatten(m)
	}
	for _, m := range flat {
		if m == Any {
			return Any
		}
	}
	flat = dedupSorted(flat)
	if len(flat) == 0 {
		return Never
	}
	if len(flat) == 1 {
		return flat[0]
	}
	list := in.internList(flat)
	return in.internKeyed(fmt.Sprintf("u:%d", list), func() term { return term{kind: KindUnion, list: list} })
}

// Intersection constructs a canonicalized intersection type.
func (in *Interner) Intersection(members []TypeId) TypeId {
	flat := make([]TypeId, 0, len(members))
	var flatten func(TypeId)
	flatten = func(id TypeId) {
		rec := in.lookup(id)
		if rec.kind == KindIntersection {
			for _, m := range in.ListOf(rec.list) {
				flatten(m)
			}
			return
		}
		if id == Unknown {
			return
		}
		flat = append(flat, id)
	}
	for _, m := range members {
		flatten(m)
	}
	if disjointPrimitives(in, flat) {
		return Never
	}
	flat = dedupSorted(flat)
	if len(flat) == 0 {
		return Unknown
	}
	if len(flat) == 1 {
		return flat[0]
	}
	list := in.internList(flat)
	return in.internKeyed(fmt.Sprintf("i:%d", list), func() term { return term{kind: KindIntersection, list: list} })
}

func dedupSorted(ids []TypeId) []TypeId {
	sortTypeIds(ids)
	out := ids[:0:0]
	for i, id := range ids {
		if i == 0 || id != ids[i-1] {
			out = append(out, id)
		}
	}
	return out
}

// disjointPrimitives detects a contradiction among disjoint primitive
// sentinels in an intersection (e.g. `string & number`), which always
// reduces to `never`.
func disjointPrimitives(in *Interner, members []TypeId) bool {
	primitiveSentinels := map[TypeId]bool{String: true, Number: true, Boolean: true, BigInt: true, Symbol: true, Void: true, Null: true, Undefined: true}
	seen := TypeId(0)
	found := false
	for _, m := range members {
		if primitiveSentinels[m] {
			if found && seen != m {
				return true
			}
			seen, found = m, true
		}
	}
	return false
}

// Array constructs an array type over element.
func (in *Interner) Array(element TypeId) TypeId {
	return in.internKeyed(fmt.Sprintf("a:%d", element), func() term { return term{kind: KindArray, inner: element} })
}

// Tuple constructs a tuple type with ordered, non-canonicalized elements
// (order is significant).
func (in *Interner) Tuple(elems []TupleElement) TypeId {
	id := in.internTupleList(elems)
	return in.internKeyed(fmt.Sprintf("t:%d", id), func() term { return term{kind: KindTuple, tuple: id} })
}

// Object constructs an object type from a shape, sorting properties by atom
// for the interning postcondition that lets property access binary-search.
func (in *Interner) Object(shape ObjectShape) TypeId {
	return in.objectOfKind(shape, false)
}

// ObjectWithIndex is like Object but tagged so downstream lookups know an
// index signature may be present without re-scanning the shape.
func (in *Interner) ObjectWithIndex(shape ObjectShape) TypeId {
	return in.objectOfKind(shape, true)
}

func (in *Interner) objectOfKind(shape ObjectShape, withIndex bool) TypeId {
	sortProperties(shape.Properties)
	id := in.internObjectShape(shape)
	kind := KindObject
	prefix := "o"
	if withIndex {
		kind = KindObjectWithIndex
		prefix = "oi"
	}
	return in.internKeyed(fmt.Sprintf("%s:%d", prefix, id), func() term { return term{kind: kind, objShape: id} })
}

func sortProperties(props []PropertyInfo) {
	for i := 1; i < len(props); i++ {
		j := i
		for j > 0 && props[j-1].Name > props[j].Name {
			props[j-1], props[j] = props[j], props[j-1]
			j--
		}
	}
}

// Function constructs a single-signature function type.
func (in *Interner) Function(sig Signature) TypeId {
	id := in.internFunctionShape(FunctionShape{Signature: sig})
	return in.internKeyed(fmt.Sprintf("f:%d", id), func() term { return term{kind: KindFunction, fnShape: id} })
}

// Callable constructs an overloaded call/construct-signature shape.
func (in *Interner) Callable(shape CallableShape) TypeId {
	id := in.internCallableShape(shape)
	return in.internKeyed(fmt.Sprintf("c:%d", id), func() term { return term{kind: KindCallable, callShape: id} })
}

// TemplateLiteral constructs a template-literal type from its ordered spans.
func (in *Interner) TemplateLiteral(spans []TemplateSpan) TypeId {
	id := in.internTemplateList(spans)
	return in.internKeyed(fmt.Sprintf("tl:%d", id), func() term { return term{kind: KindTemplateLiteral, tmpl: id} })
}

// Conditional constructs a not-yet-evaluated conditional type.
func (in *Interner) Conditional(p ConditionalPayload) TypeId {
	return in.internKeyed(fmt.Sprintf("cond:%d:%d:%d:%d", p.Check, p.Extends, p.TrueBranch, p.FalseBranch), func() term {
		cp := p
		return term{kind: KindConditional, cond: &cp}
	})
}

// Mapped constructs a not-yet-evaluated mapped type.
func (in *Interner) Mapped(p MappedPayload) TypeId {
	nt := p.NameType
	return in.internKeyed(fmt.Sprintf("map:%d:%d:%d:%d:%d:%d", p.TypeParam, p.Constraint, nt, p.Template, p.ReadonlyModifier, p.QuestionModifier), func() term {
		mp := p
		return term{kind: KindMapped, mapped: &mp}
	})
}

// IndexAccess constructs `object[index]` in unevaluated form.
func (in *Interner) IndexAccess(object, index TypeId) TypeId {
	return in.internKeyed(fmt.Sprintf("idx:%d:%d", object, index), func() term {
		return term{kind: KindIndexAccess, idx: &IndexAccessPayload{Object: object, Index: index}}
	})
}

// KeyOf constructs `keyof inner` in unevaluated form.
func (in *Interner) KeyOf(inner TypeId) TypeId {
	return in.internKeyed(fmt.Sprintf("keyof:%d", inner), func() term { return term{kind: KindKeyOf, inner: inner} })
}

// Reference constructs a TypeReference to a (possibly generic) declaration.
func (in *Interner) Reference(ref SymbolRef) TypeId {
	return in.internKeyed(fmt.Sprintf("ref:%d:%d", ref.Def, ref.Args), func() term { return term{kind: KindTypeReference, ref: ref} })
}

// Lazy constructs an unresolved reference into the Type Environment.
func (in *Interner) Lazy(def DefId) TypeId {
	return in.internKeyed(fmt.Sprintf("lazy:%d", def), func() term { return term{kind: KindLazy, lazy: def} })
}

// Application constructs a not-yet-reduced generic instantiation `base<args>`.
func (in *Interner) Application(base TypeId, args []TypeId) TypeId {
	list := in.internList(args)
	return in.internKeyed(fmt.Sprintf("app:%d:%d", base, list), func() term {
		return term{kind: KindApplication, app: ApplicationPayload{Base: base, Args: list}}
	})
}

// TypeParameter constructs a type-parameter type term.
func (in *Interner) TypeParameter(info TypeParameterInfo) TypeId {
	return in.internKeyed(fmt.Sprintf("tp:%d:%d", info.Symbol, info.Name), func() term {
		ti := info
		return term{kind: KindTypeParameter, tparam: &ti}
	})
}

// Enum constructs an Enum(DefId, memberType) type term.
func (in *Interner) Enum(def DefId, memberType TypeId) TypeId {
	return in.internKeyed(fmt.Sprintf("enum:%d:%d", def, memberType), func() term {
		return term{kind: KindEnum, enum: &EnumPayload{Def: def, MemberType: memberType}}
	})
}

// UniqueSymbol constructs `unique symbol` tied to a particular declaration.
func (in *Interner) UniqueSymbol(sym SymbolId) TypeId {
	return in.internKeyed(fmt.Sprintf("usym:%d", sym), func() term { return term{kind: KindUniqueSymbol, scalarF: uint64(sym)} })
}

// ReadonlyType wraps inner as a `readonly` array/tuple modifier.
func (in *Interner) ReadonlyType(inner TypeId) TypeId {
	if in.lookup(inner).kind == KindReadonly {
		return inner
	}
	return in.internKeyed(fmt.Sprintf("ro:%d", inner), func() term { return term{kind: KindReadonly, inner: inner} })
}

// NoInfer wraps inner to suppress inference-candidate collection through it.
func (in *Interner) NoInfer(inner TypeId) TypeId {
	return in.internKeyed(fmt.Sprintf("ni:%d", inner), func() term { return term{kind: KindNoInfer, inner: inner} })
}

// IsUnitType reports whether t denotes a single concrete value: literals,
// enum members, null/undefined/void/never, unique symbol, or tuples whose
// elements are all unit types. Memoized because the inference engine and
// literal-widening logic both probe it frequently.
func (in *Interner) IsUnitType(t TypeId) bool {
	in.unitMu.Lock()
	if v, ok := in.unitCache[t]; ok {
		in.unitMu.Unlock()
		return v
	}
	in.unitMu.Unlock()

	v := in.computeIsUnitType(t)
	in.unitMu.Lock()
	in.unitCache[t] = v
	in.unitMu.Unlock()
	return v
}

func (in *Interner) computeIsUnitType(t TypeId) bool {
	switch t {
	case Null, Undefined, Void, Never:
		return true
	}
	rec := in.lookup(t)
	switch rec.kind {
	case KindLiteralString, KindLiteralNumber, KindLiteralBoolean, KindLiteralBigInt, KindUniqueSymbol:
		return true
	case KindEnum:
		return in.IsUnitType(rec.enum.MemberType)
	case KindTuple:
		for _, el := range in.TupleOf(rec.tuple) {
			if !in.IsUnitType(el.Type) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
