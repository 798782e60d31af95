package assign

import (
	"testing"

	"github.com/novalang/novac/internal/evaluator"
	"github.com/novalang/novac/internal/flags"
	"github.com/novalang/novac/internal/querycache"
	"github.com/novalang/novac/internal/subtype"
	"github.com/novalang/novac/internal/typeenv"
	"github.com/novalang/novac/internal/types"
)

func newTestChecker() (*Checker, *types.Interner) {
	in := types.NewInterner()
	env := typeenv.New(in)
	caches := querycache.New()
	ev := evaluator.New(in, env, caches)
	sub := subtype.New(in, ev, caches)
	return New(in, ev, sub, caches), in
}

func TestAnyIsBidirectionallyAssignable(t *testing.T) {
	c, _ := newTestChecker()
	if !c.IsAssignable(types.Any, types.String, 0) {
		t.Errorf("any should be assignable to string")
	}
	if !c.IsAssignable(types.String, types.Any, 0) {
		t.Errorf("string should be assignable to any")
	}
	if c.IsAssignable(types.Any, types.Never, 0) {
		t.Errorf("any should not be assignable to never")
	}
}

func TestUnknownAcceptsAnythingButIsNotAssignableOut(t *testing.T) {
	c, _ := newTestChecker()
	if !c.IsAssignable(types.String, types.Unknown, 0) {
		t.Errorf("string should be assignable to unknown")
	}
	if c.IsAssignable(types.Unknown, types.String, 0) {
		t.Errorf("unknown should not be assignable to string")
	}
}

func TestExcessPropertyOnFreshLiteral(t *testing.T) {
	c, in := newTestChecker()
	xName := in.InternString("x")
	yName := in.InternString("y")

	target := in.Object(types.ObjectShape{Properties: []types.PropertyInfo{{Name: xName, ReadType: types.Number, WriteType: types.Number}}})
	freshSource := in.Object(types.ObjectShape{
		Properties: []types.PropertyInfo{
			{Name: xName, ReadType: types.Number, WriteType: types.Number},
			{Name: yName, ReadType: types.Number, WriteType: types.Number},
		},
		Flags: types.ObjectFlagFresh,
	})
	if c.IsAssignable(freshSource, target, 0) {
		t.Errorf("fresh object literal with an excess property should not be assignable")
	}

	// Same shape without the fresh flag (as if read back through an
	// intermediate variable's declared type) is not excess-property checked.
	widenedSource := in.Object(types.ObjectShape{Properties: []types.PropertyInfo{
		{Name: xName, ReadType: types.Number, WriteType: types.Number},
		{Name: yName, ReadType: types.Number, WriteType: types.Number},
	}})
	if !c.IsAssignable(widenedSource, target, 0) {
		t.Errorf("a non-fresh object with extra structural properties should still be assignable")
	}
}

func TestNullUndefinedWithoutStrictNullChecks(t *testing.T) {
	c, _ := newTestChecker()
	if !c.IsAssignable(types.Null, types.String, 0) {
		t.Errorf("null should be assignable to string without strictNullChecks")
	}
	if c.IsAssignable(types.Null, types.String, flags.StrictNullChecks) {
		t.Errorf("null should not be assignable to string under strictNullChecks")
	}
}
