package types

import "testing"

func TestInternerIdentity(t *testing.T) {
	in := NewInterner()
	a := in.LiteralString("hello")
	b := in.LiteralString("hello")
	if a != b {
		t.Errorf("intern(t) != intern(t): %d != %d", a, b)
	}
	c := in.LiteralString("world")
	if a == c {
		t.Errorf("distinct strings interned to the same TypeId")
	}
}

func TestUnionCanonicalization(t *testing.T) {
	in := NewInterner()
	s := in.LiteralString("a")
	u1 := in.Union([]TypeId{s, Number, Never})
	u2 := in.Union([]TypeId{Number, s})
	if u1 != u2 {
		t.Errorf("union canonicalization not order/never-independent: %d != %d", u1, u2)
	}

	single := in.Union([]TypeId{Number})
	if single != Number {
		t.Errorf("singleton union should collapse to its member, got %d", single)
	}

	empty := in.Union(nil)
	if empty != Never {
		t.Errorf("empty union should collapse to never, got %d", empty)
	}

	withAny := in.Union([]TypeId{String, Any})
	if withAny != Any {
		t.Errorf("union containing any should collapse to any, got %d", withAny)
	}
}

func TestIntersectionCanonicalization(t *testing.T) {
	in := NewInterner()
	empty := in.Intersection(nil)
	if empty != Unknown {
		t.Errorf("empty intersection should collapse to unknown, got %d", empty)
	}

	contradiction := in.Intersection([]TypeId{String, Number})
	if contradiction != Never {
		t.Errorf("string & number should collapse to never, got %d", contradiction)
	}
}

func TestObjectShapeInterning(t *testing.T) {
	in := NewInterner()
	x := in.InternString("x")
	y := in.InternString("y")
	o1 := in.Object(ObjectShape{Properties: []PropertyInfo{
		{Name: y, ReadType: String, WriteType: String},
		{Name: x, ReadType: Number, WriteType: Number},
	}})
	o2 := in.Object(ObjectShape{Properties: []PropertyInfo{
		{Name: x, ReadType: Number, WriteType: Number},
		{Name: y, ReadType: String, WriteType: String},
	}})
	if o1 != o2 {
		t.Errorf("structurally identical object shapes should intern to the same TypeId (property order independent)")
	}
}

func TestIsUnitType(t *testing.T) {
	in := NewInterner()
	if !in.IsUnitType(in.LiteralString("a")) {
		t.Errorf("string literal should be a unit type")
	}
	if in.IsUnitType(String) {
		t.Errorf("string (not a literal) should not be a unit type")
	}
	if !in.IsUnitType(Null) {
		t.Errorf("null should be a unit type")
	}
	tup := in.Tuple([]TupleElement{{Type: in.LiteralNumber(1)}, {Type: in.LiteralString("a")}})
	if !in.IsUnitType(tup) {
		t.Errorf("tuple of unit types should itself be a unit type")
	}
	tupNonUnit := in.Tuple([]TupleElement{{Type: in.LiteralNumber(1)}, {Type: String}})
	if in.IsUnitType(tupNonUnit) {
		t.Errorf("tuple with a non-unit element should not be a unit type")
	}
}

func TestPrintRoundTrip(t *testing.T) {
	in := NewInterner()
	u := in.Union([]TypeId{in.LiteralString("a"), in.LiteralNumber(1)})
	got := in.Print(u, nil)
	want1 := `"a" | 1`
	want2 := `1 | "a"`
	if got != want1 && got != want2 {
		t.Errorf("Print(union) = %q, want %q or %q", got, want1, want2)
	}
}
