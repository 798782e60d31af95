package subtype

import (
	"testing"

	"github.com/novalang/novac/internal/evaluator"
	"github.com/novalang/novac/internal/querycache"
	"github.com/novalang/novac/internal/typeenv"
	"github.com/novalang/novac/internal/types"
)

func newTestChecker() (*Checker, *types.Interner) {
	in := types.NewInterner()
	env := typeenv.New(in)
	caches := querycache.New()
	ev := evaluator.New(in, env, caches)
	c := New(in, ev, caches)
	return c, in
}

func TestReflexivity(t *testing.T) {
	c, in := newTestChecker()
	x := in.InternString("x")
	obj := in.Object(types.ObjectShape{Properties: []types.PropertyInfo{{Name: x, ReadType: types.Number, WriteType: types.Number}}})
	if !c.IsSubtypeOf(obj, obj, 0) {
		t.Errorf("t <: t should hold for any evaluable t")
	}
}

func TestUnionTargetLaw(t *testing.T) {
	c, in := newTestChecker()
	a, b := in.LiteralString("a"), in.LiteralNumber(1)
	union := in.Union([]types.TypeId{a, b})
	if !c.IsSubtypeOf(a, union, 0) {
		t.Errorf("a <: A|B should hold when a <: A")
	}
	if c.IsSubtypeOf(types.Boolean, union, 0) {
		t.Errorf("boolean should not be a subtype of \"a\"|1")
	}
}

func TestIntersectionSourceLaw(t *testing.T) {
	c, in := newTestChecker()
	xName := in.InternString("x")
	yName := in.InternString("y")
	withX := in.Object(types.ObjectShape{Properties: []types.PropertyInfo{{Name: xName, ReadType: types.Number, WriteType: types.Number}}})
	withY := in.Object(types.ObjectShape{Properties: []types.PropertyInfo{{Name: yName, ReadType: types.String, WriteType: types.String}}})
	intersection := in.Intersection([]types.TypeId{withX, withY})
	if !c.IsSubtypeOf(intersection, withX, 0) {
		t.Errorf("{x,y} & shape should be a subtype of {x: number}")
	}
}

func TestObjectStructuralSubtyping(t *testing.T) {
	c, in := newTestChecker()
	xName := in.InternString("x")
	yName := in.InternString("y")
	wide := in.Object(types.ObjectShape{Properties: []types.PropertyInfo{
		{Name: xName, ReadType: types.Number, WriteType: types.Number},
		{Name: yName, ReadType: types.String, WriteType: types.String},
	}})
	narrow := in.Object(types.ObjectShape{Properties: []types.PropertyInfo{
		{Name: xName, ReadType: types.Number, WriteType: types.Number},
	}})
	if !c.IsSubtypeOf(wide, narrow, 0) {
		t.Errorf("a wider object type should be a subtype of a narrower structural requirement")
	}
	if c.IsSubtypeOf(narrow, wide, 0) {
		t.Errorf("a narrower object type missing a required property should not be a subtype of the wider one")
	}
}

func TestArrayToTupleRequiresRest(t *testing.T) {
	c, in := newTestChecker()
	arr := in.Array(types.Number)
	tupleWithRest := in.Tuple([]types.TupleElement{{Type: types.Number, Rest: true}})
	tupleFixed := in.Tuple([]types.TupleElement{{Type: types.Number}})
	if !c.IsSubtypeOf(arr, tupleWithRest, 0) {
		t.Errorf("array should be assignable to a tuple with a rest tail")
	}
	if c.IsSubtypeOf(arr, tupleFixed, 0) {
		t.Errorf("array should not be a subtype of a fixed-length tuple")
	}
}

func TestRecursiveTypeCoinduction(t *testing.T) {
	c, in := newTestChecker()
	// A self-referential object shape via TypeReference back to itself
	// models a recursive interface; the assumption stack must terminate.
	selfRef := in.Reference(types.SymbolRef{Def: 1})
	nextName := in.InternString("next")
	recursive := in.Object(types.ObjectShape{Properties: []types.PropertyInfo{{Name: nextName, ReadType: selfRef, WriteType: selfRef}}})
	if !c.IsSubtypeOf(recursive, recursive, 0) {
		t.Errorf("recursive structural type should be a subtype of itself without infinite recursion")
	}
}
