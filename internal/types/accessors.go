package types

import "math"

// View exposes read-only accessors over an interned TypeId's payload. All
// downstream solver packages (evaluator, subtype, assign, access, infer,
// variance, narrow) consume types only through View and the constructors
// above — never through the unexported term record — so Interner stays the
// single place that understands the tagged-union layout.
type View struct{ in *Interner }

func (in *Interner) View() View { return View{in: in} }

func (v View) Kind(t TypeId) Kind { return v.in.lookup(t).kind }

func (v View) UnionMembers(t TypeId) []TypeId {
	r := v.in.lookup(t)
	if r.kind != KindUnion {
		return nil
	}
	return v.in.ListOf(r.list)
}

func (v View) IntersectionMembers(t TypeId) []TypeId {
	r := v.in.lookup(t)
	if r.kind != KindIntersection {
		return nil
	}
	return v.in.ListOf(r.list)
}

func (v View) ArrayElement(t TypeId) TypeId {
	r := v.in.lookup(t)
	if r.kind != KindArray {
		return ErrorType
	}
	return r.inner
}

func (v View) TupleElements(t TypeId) []TupleElement {
	r := v.in.lookup(t)
	if r.kind != KindTuple {
		return nil
	}
	return v.in.TupleOf(r.tuple)
}

func (v View) ObjectShape(t TypeId) (ObjectShape, bool) {
	r := v.in.lookup(t)
	if r.kind != KindObject && r.kind != KindObjectWithIndex {
		return ObjectShape{}, false
	}
	return v.in.ObjectShapeOf(r.objShape), true
}

func (v View) HasIndexSignature(t TypeId) bool {
	return v.in.lookup(t).kind == KindObjectWithIndex
}

func (v View) CallableShape(t TypeId) (CallableShape, bool) {
	r := v.in.lookup(t)
	if r.kind != KindCallable {
		return CallableShape{}, false
	}
	return v.in.CallableShapeOf(r.callShape), true
}

func (v View) FunctionSignature(t TypeId) (Signature, bool) {
	r := v.in.lookup(t)
	if r.kind != KindFunction {
		return Signature{}, false
	}
	return v.in.FunctionShapeOf(r.fnShape).Signature, true
}

func (v View) TypeParameterInfo(t TypeId) (TypeParameterInfo, bool) {
	r := v.in.lookup(t)
	if r.kind != KindTypeParameter || r.tparam == nil {
		return TypeParameterInfo{}, false
	}
	return *r.tparam, true
}

func (v View) Reference(t TypeId) (SymbolRef, bool) {
	r := v.in.lookup(t)
	if r.kind != KindTypeReference {
		return SymbolRef{}, false
	}
	return r.ref, true
}

func (v View) LazyDef(t TypeId) (DefId, bool) {
	r := v.in.lookup(t)
	if r.kind != KindLazy {
		return 0, false
	}
	return r.lazy, true
}

func (v View) Application(t TypeId) (TypeId, []TypeId, bool) {
	r := v.in.lookup(t)
	if r.kind != KindApplication {
		return 0, nil, false
	}
	return r.app.Base, v.in.ListOf(r.app.Args), true
}

func (v View) Conditional(t TypeId) (*ConditionalPayload, bool) {
	r := v.in.lookup(t)
	if r.kind != KindConditional {
		return nil, false
	}
	return r.cond, true
}

func (v View) Mapped(t TypeId) (*MappedPayload, bool) {
	r := v.in.lookup(t)
	if r.kind != KindMapped {
		return nil, false
	}
	return r.mapped, true
}

func (v View) IndexAccess(t TypeId) (*IndexAccessPayload, bool) {
	r := v.in.lookup(t)
	if r.kind != KindIndexAccess {
		return nil, false
	}
	return r.idx, true
}

func (v View) KeyOfInner(t TypeId) (TypeId, bool) {
	r := v.in.lookup(t)
	if r.kind != KindKeyOf {
		return 0, false
	}
	return r.inner, true
}

func (v View) TemplateSpans(t TypeId) ([]TemplateSpan, bool) {
	r := v.in.lookup(t)
	if r.kind != KindTemplateLiteral {
		return nil, false
	}
	return v.in.TemplateOf(r.tmpl), true
}

func (v View) Enum(t TypeId) (*EnumPayload, bool) {
	r := v.in.lookup(t)
	if r.kind != KindEnum {
		return nil, false
	}
	return r.enum, true
}

func (v View) ReadonlyInner(t TypeId) (TypeId, bool) {
	r := v.in.lookup(t)
	if r.kind != KindReadonly {
		return 0, false
	}
	return r.inner, true
}

func (v View) NoInferInner(t TypeId) (TypeId, bool) {
	r := v.in.lookup(t)
	if r.kind != KindNoInfer {
		return 0, false
	}
	return r.inner, true
}

func (v View) LiteralStringValue(t TypeId) (string, bool) {
	r := v.in.lookup(t)
	if r.kind != KindLiteralString {
		return "", false
	}
	return v.in.ResolveAtom(r.atom), true
}

func (v View) LiteralNumberValue(t TypeId) (float64, bool) {
	r := v.in.lookup(t)
	if r.kind != KindLiteralNumber {
		return 0, false
	}
	return math.Float64frombits(r.scalarF), true
}

func (v View) LiteralBooleanValue(t TypeId) (bool, bool) {
	r := v.in.lookup(t)
	if r.kind != KindLiteralBoolean {
		return false, false
	}
	return r.scalarF != 0, true
}

func (v View) LiteralBigIntValue(t TypeId) (negative bool, digits string, ok bool) {
	r := v.in.lookup(t)
	if r.kind != KindLiteralBigInt {
		return false, "", false
	}
	return r.neg, v.in.ResolveAtom(r.atom), true
}

func (v View) UniqueSymbolId(t TypeId) (SymbolId, bool) {
	r := v.in.lookup(t)
	if r.kind != KindUniqueSymbol {
		return 0, false
	}
	return SymbolId(r.scalarF), true
}

// IsIntrinsic reports whether t is one of the sentinel primitive kinds.
func (v View) IsIntrinsic(t TypeId) bool { return t < firstDynamicTypeId }

// IsNullish reports whether t is exactly null, undefined, or void.
func (v View) IsNullish(t TypeId) bool { return t == Null || t == Undefined || t == Void }
