package narrow

import (
	"testing"

	"github.com/novalang/novac/internal/access"
	"github.com/novalang/novac/internal/evaluator"
	"github.com/novalang/novac/internal/querycache"
	"github.com/novalang/novac/internal/subtype"
	"github.com/novalang/novac/internal/typeenv"
	"github.com/novalang/novac/internal/types"
)

func newTestNarrower() (*Narrower, *types.Interner) {
	in := types.NewInterner()
	env := typeenv.New(in)
	caches := querycache.New()
	ev := evaluator.New(in, env, caches)
	sub := subtype.New(in, ev, caches)
	acc := access.New(in, ev, env, caches)
	return New(in, ev, acc, sub), in
}

func TestTypeofNarrowsUnion(t *testing.T) {
	n, in := newTestNarrower()
	union := in.Union([]types.TypeId{types.String, types.Number})

	thenT, elseT := n.Typeof(union, "string", 0)
	if thenT != types.String {
		t.Errorf("expected then-branch to narrow to string, got %v", in.Print(thenT, nil))
	}
	if elseT != types.Number {
		t.Errorf("expected else-branch to narrow to number, got %v", in.Print(elseT, nil))
	}
}

func TestTruthyExcludesNullAndUndefined(t *testing.T) {
	n, in := newTestNarrower()
	union := in.Union([]types.TypeId{types.String, types.Null, types.Undefined})

	thenT, elseT := n.Truthy(union, 0)
	if thenT != types.String {
		t.Errorf("expected truthy branch to be string, got %v", in.Print(thenT, nil))
	}
	elseV := in.View()
	if elseV.Kind(elseT) != types.KindUnion {
		t.Fatalf("expected falsy branch to stay a union of null | undefined, got %v", in.Print(elseT, nil))
	}
}

func TestEqualsLiteralNarrowsDiscriminant(t *testing.T) {
	n, in := newTestNarrower()
	litA := in.LiteralString("a")
	litB := in.LiteralString("b")
	union := in.Union([]types.TypeId{litA, litB})

	thenT, elseT := n.EqualsLiteral(union, litA, 0)
	if thenT != litA {
		t.Errorf("expected then-branch to be literal \"a\", got %v", in.Print(thenT, nil))
	}
	if elseT != litB {
		t.Errorf("expected else-branch to be literal \"b\", got %v", in.Print(elseT, nil))
	}
}

func TestInPropertyNarrowsUnionOfShapes(t *testing.T) {
	n, in := newTestNarrower()
	nameAtom := in.InternString("bark")
	dog := in.Object(types.ObjectShape{Properties: []types.PropertyInfo{
		{Name: nameAtom, ReadType: types.Boolean, WriteType: types.Boolean},
	}})
	cat := in.Object(types.ObjectShape{})
	union := in.Union([]types.TypeId{dog, cat})

	thenT, elseT := n.InProperty(union, "bark", 0, 0)
	if thenT != dog {
		t.Errorf("expected then-branch to be dog shape, got %v", in.Print(thenT, nil))
	}
	if elseT != cat {
		t.Errorf("expected else-branch to be cat shape, got %v", in.Print(elseT, nil))
	}
}

func TestArrayIsArrayNarrowsUnion(t *testing.T) {
	n, in := newTestNarrower()
	arr := in.Array(types.Number)
	union := in.Union([]types.TypeId{arr, types.String})

	thenT, elseT := n.ArrayIsArray(union, 0)
	if thenT != arr {
		t.Errorf("expected then-branch to be the array type, got %v", in.Print(thenT, nil))
	}
	if elseT != types.String {
		t.Errorf("expected else-branch to be string, got %v", in.Print(elseT, nil))
	}
}
