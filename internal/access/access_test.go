package access

import (
	"testing"

	"github.com/novalang/novac/internal/evaluator"
	"github.com/novalang/novac/internal/querycache"
	"github.com/novalang/novac/internal/typeenv"
	"github.com/novalang/novac/internal/types"
)

func newTestResolver() (*Resolver, *types.Interner, *typeenv.Environment) {
	in := types.NewInterner()
	env := typeenv.New(in)
	caches := querycache.New()
	ev := evaluator.New(in, env, caches)
	return New(in, ev, env, caches), in, env
}

func TestResolveOwnProperty(t *testing.T) {
	r, in, _ := newTestResolver()
	name := in.InternString("x")
	obj := in.Object(types.ObjectShape{Properties: []types.PropertyInfo{
		{Name: name, ReadType: types.Number, WriteType: types.Number},
	}})

	res := r.ResolveProperty(obj, "x", 0, 0)
	if res.Reason != ReasonOK || res.Type != types.Number {
		t.Errorf("expected x: number, got %+v", res)
	}

	res = r.ResolveProperty(obj, "missing", 0, 0)
	if res.Reason != ReasonNotFound {
		t.Errorf("expected NotFound for a missing property, got %+v", res)
	}
}

func TestResolveThroughUnionRequiresAllMembers(t *testing.T) {
	r, in, _ := newTestResolver()
	name := in.InternString("tag")
	a := in.Object(types.ObjectShape{Properties: []types.PropertyInfo{
		{Name: name, ReadType: in.LiteralString("a"), WriteType: in.LiteralString("a")},
	}})
	b := in.Object(types.ObjectShape{Properties: []types.PropertyInfo{
		{Name: name, ReadType: in.LiteralString("b"), WriteType: in.LiteralString("b")},
	}})
	union := in.Union([]types.TypeId{a, b})

	res := r.ResolveProperty(union, "tag", 0, 0)
	if res.Reason != ReasonOK {
		t.Fatalf("expected union property present on both members to resolve, got %+v", res)
	}
	if kind := in.View().Kind(res.Type); kind != types.KindUnion {
		t.Errorf("expected tag: \"a\"|\"b\", got kind %v", kind)
	}

	onlyA := in.Object(types.ObjectShape{Properties: []types.PropertyInfo{
		{Name: name, ReadType: types.String, WriteType: types.String},
	}})
	partial := in.Union([]types.TypeId{onlyA, in.Object(types.ObjectShape{})})
	res = r.ResolveProperty(partial, "tag", 0, 0)
	if res.Reason != ReasonNotFound {
		t.Errorf("property missing on one union member should fail resolution, got %+v", res)
	}
}

func TestResolveClassHeritageChain(t *testing.T) {
	r, in, env := newTestResolver()

	baseName := in.InternString("id")
	baseBody := in.Object(types.ObjectShape{Properties: []types.PropertyInfo{
		{Name: baseName, ReadType: types.Number, WriteType: types.Number, Parent: 1},
	}})
	env.Declare(1, 1, typeenv.DefClass, nil, baseBody)

	derivedName := in.InternString("label")
	derivedBody := in.Object(types.ObjectShape{Properties: []types.PropertyInfo{
		{Name: derivedName, ReadType: types.String, WriteType: types.String, Parent: 2},
	}})
	env.Declare(2, 2, typeenv.DefClass, nil, derivedBody)
	env.SetBaseType(2, in.Reference(types.SymbolRef{Def: 1}))

	derivedRef := in.Reference(types.SymbolRef{Def: 2})

	res := r.ResolveProperty(derivedRef, "label", 0, 0)
	if res.Reason != ReasonOK || res.Type != types.String {
		t.Errorf("expected own property label: string, got %+v", res)
	}

	res = r.ResolveProperty(derivedRef, "id", 0, 0)
	if res.Reason != ReasonOK || res.Type != types.Number {
		t.Errorf("expected inherited property id: number from the base class, got %+v", res)
	}

	res = r.ResolveProperty(derivedRef, "nope", 0, 0)
	if res.Reason != ReasonNotFound {
		t.Errorf("expected NotFound past the top of the heritage chain, got %+v", res)
	}
}

func TestPrivatePropertyOutsideDeclaringClass(t *testing.T) {
	r, in, _ := newTestResolver()
	name := in.InternString("secret")
	obj := in.Object(types.ObjectShape{Properties: []types.PropertyInfo{
		{Name: name, ReadType: types.String, WriteType: types.String, Visibility: types.VisibilityPrivate, Parent: 7},
	}})

	res := r.ResolveProperty(obj, "secret", 7, 0)
	if res.Reason != ReasonOK {
		t.Errorf("private property should resolve from within its declaring class, got %+v", res)
	}

	res = r.ResolveProperty(obj, "secret", 8, 0)
	if res.Reason != ReasonPrivateOutside {
		t.Errorf("expected ReasonPrivateOutside accessing a private property from another class, got %+v", res)
	}
}

func TestResolveElementOnTuple(t *testing.T) {
	r, in, _ := newTestResolver()
	tuple := in.Tuple([]types.TupleElement{
		{Type: types.String},
		{Type: types.Number},
	})

	res := r.ResolveElement(tuple, in.LiteralNumber(1), 0, 0)
	if res.Reason != ReasonOK || res.Type != types.Number {
		t.Errorf("expected tuple[1]: number via literal-index property lookup, got %+v", res)
	}

	res = r.ResolveElement(tuple, types.Number, 0, 0)
	if res.Reason != ReasonOK || res.Kind != ElementTupleElement {
		t.Errorf("expected a non-literal numeric index to widen to the tuple element union, got %+v", res)
	}
}

func TestResolveElementOnIndexSignature(t *testing.T) {
	r, in, _ := newTestResolver()
	obj := in.ObjectWithIndex(types.ObjectShape{
		StringIndex: &types.IndexSignature{ValueType: types.Boolean},
	})

	res := r.ResolveElement(obj, in.LiteralString("whatever"), 0, 0)
	if res.Reason != ReasonOK || res.Type != types.Boolean || res.Kind != ElementIndexSignature {
		t.Errorf("expected string-index fallback for an unknown key, got %+v", res)
	}
}
