package evaluator

import (
	"testing"

	"github.com/novalang/novac/internal/flags"
	"github.com/novalang/novac/internal/querycache"
	"github.com/novalang/novac/internal/typeenv"
	"github.com/novalang/novac/internal/types"
)

// fakeExtendsTester implements just enough structural "extends" testing for
// these tests without depending on internal/subtype (which itself depends
// on this package).
type fakeExtendsTester struct{ in *types.Interner }

func (f *fakeExtendsTester) TestExtends(check, extends types.TypeId, fl flags.Flags) ExtendsResult {
	return ExtendsResult{Matches: check == extends}
}

func newTestEvaluator(t *testing.T) (*Evaluator, *types.Interner, *typeenv.Environment) {
	in := types.NewInterner()
	env := typeenv.New(in)
	e := New(in, env, querycache.New())
	e.SetExtendsTester(&fakeExtendsTester{in: in})
	return e, in, env
}

func TestEvaluationIdempotence(t *testing.T) {
	e, in, _ := newTestEvaluator(t)
	u := in.Union([]types.TypeId{in.LiteralString("a"), types.Number})
	first := e.Evaluate(u, 0)
	second := e.Evaluate(first, 0)
	if first != second {
		t.Errorf("evaluate(evaluate(t)) != evaluate(t): %d != %d", second, first)
	}
}

func TestMappedKeyRemapping(t *testing.T) {
	e, in, _ := newTestEvaluator(t)
	x := in.InternString("x")
	y := in.InternString("y")
	obj := in.Object(types.ObjectShape{Properties: []types.PropertyInfo{
		{Name: x, ReadType: types.Number, WriteType: types.Number},
		{Name: y, ReadType: types.String, WriteType: types.String},
	}})

	tp := in.TypeParameter(types.TypeParameterInfo{Name: in.InternString("K")})
	nameType := in.TemplateLiteral([]types.TemplateSpan{
		{IsText: true, Text: in.InternString("get")},
		{IsText: false, Type: tp},
	})
	template := in.Function(types.Signature{ReturnType: in.IndexAccess(obj, tp)})
	mapped := in.Mapped(types.MappedPayload{
		TypeParam:  tp,
		Constraint: in.KeyOf(obj),
		NameType:   nameType,
		Template:   template,
	})

	result := e.Evaluate(mapped, 0)
	shape, ok := in.View().ObjectShape(result)
	if !ok {
		t.Fatalf("expected mapped type to evaluate to an object shape, got kind %v", in.View().Kind(result))
	}
	if len(shape.Properties) != 2 {
		t.Fatalf("expected 2 properties, got %d", len(shape.Properties))
	}
	names := map[string]bool{}
	for _, p := range shape.Properties {
		names[in.ResolveAtom(p.Name)] = true
	}
	if !names["getx"] && !names["getX"] {
		t.Errorf("expected a remapped getX-like property, got %v", names)
	}
}
