package infer

import (
	"testing"

	"github.com/novalang/novac/internal/evaluator"
	"github.com/novalang/novac/internal/querycache"
	"github.com/novalang/novac/internal/subtype"
	"github.com/novalang/novac/internal/typeenv"
	"github.com/novalang/novac/internal/types"
)

func newTestContext() (*Context, *types.Interner) {
	in := types.NewInterner()
	env := typeenv.New(in)
	caches := querycache.New()
	ev := evaluator.New(in, env, caches)
	sub := subtype.New(in, ev, caches)
	return New(in, ev, sub), in
}

func TestInferFromNakedParameter(t *testing.T) {
	ctx, in := newTestContext()
	tp := in.TypeParameter(types.TypeParameterInfo{Name: in.InternString("T")})

	session := ctx.NewSession([]types.TypeId{tp})
	session.ConstrainTypes(in.LiteralString("hi"), tp, PriorityNaked, 0)

	result := session.Resolve(0)
	if result.Substitution[tp] != types.String {
		t.Errorf("expected T to widen to string, got %v", in.View().Kind(result.Substitution[tp]))
	}
	if len(result.Unresolved) != 0 {
		t.Errorf("expected no unresolved parameters, got %v", result.Unresolved)
	}
}

func TestInferConstPreservesLiteral(t *testing.T) {
	ctx, in := newTestContext()
	tp := in.TypeParameter(types.TypeParameterInfo{Name: in.InternString("T"), IsConst: true})
	literal := in.LiteralString("exact")

	session := ctx.NewSession([]types.TypeId{tp})
	session.ConstrainTypes(literal, tp, PriorityNaked, 0)

	result := session.Resolve(0)
	if result.Substitution[tp] != literal {
		t.Errorf("expected a const type parameter to preserve the literal, got widened type %v", result.Substitution[tp])
	}
}

func TestInferThroughFunctionParameterContravariance(t *testing.T) {
	ctx, in := newTestContext()
	tp := in.TypeParameter(types.TypeParameterInfo{Name: in.InternString("T")})

	// declared: (cb: (arg: T) => void) => void
	declaredParam := in.Function(types.Signature{Params: []types.Param{{Type: tp}}, ReturnType: types.Void})
	// actual argument: (arg: string) => void
	actualArg := in.Function(types.Signature{Params: []types.Param{{Type: types.String}}, ReturnType: types.Void})

	session := ctx.NewSession([]types.TypeId{tp})
	session.ConstrainTypes(actualArg, declaredParam, PriorityDefault, 0)

	result := session.Resolve(0)
	if result.Substitution[tp] != types.String {
		t.Errorf("expected T inferred as string through the contravariant callback parameter, got %v", in.View().Kind(result.Substitution[tp]))
	}
}

func TestInferFromObjectProperty(t *testing.T) {
	ctx, in := newTestContext()
	tp := in.TypeParameter(types.TypeParameterInfo{Name: in.InternString("T")})
	propName := in.InternString("value")

	target := in.Object(types.ObjectShape{Properties: []types.PropertyInfo{{Name: propName, ReadType: tp, WriteType: tp}}})
	source := in.Object(types.ObjectShape{Properties: []types.PropertyInfo{{Name: propName, ReadType: types.Number, WriteType: types.Number}}})

	session := ctx.NewSession([]types.TypeId{tp})
	session.ConstrainTypes(source, target, PriorityDefault, 0)

	result := session.Resolve(0)
	if result.Substitution[tp] != types.Number {
		t.Errorf("expected T inferred as number from matching property, got %v", in.View().Kind(result.Substitution[tp]))
	}
}

func TestInferTupleRestCollectsRemainingElements(t *testing.T) {
	ctx, in := newTestContext()
	restParam := in.TypeParameter(types.TypeParameterInfo{Name: in.InternString("R")})

	target := in.Tuple([]types.TupleElement{
		{Type: types.String},
		{Type: restParam, Rest: true},
	})
	source := in.Tuple([]types.TupleElement{
		{Type: types.String},
		{Type: types.Number},
		{Type: types.Boolean},
	})

	session := ctx.NewSession([]types.TypeId{restParam})
	session.ConstrainTypes(source, target, PriorityDefault, 0)

	result := session.Resolve(0)
	elems := in.View().TupleElements(result.Substitution[restParam])
	if len(elems) != 2 || elems[0].Type != types.Number || elems[1].Type != types.Boolean {
		t.Errorf("expected R to capture [number, boolean], got %+v", elems)
	}
}

func TestUnresolvedParameterFallsBackToDefaultThenConstraint(t *testing.T) {
	ctx, in := newTestContext()
	withDefault := in.TypeParameter(types.TypeParameterInfo{Name: in.InternString("D"), Default: types.Boolean})
	withConstraintOnly := in.TypeParameter(types.TypeParameterInfo{Name: in.InternString("C"), Constraint: types.Number})
	bare := in.TypeParameter(types.TypeParameterInfo{Name: in.InternString("U")})

	session := ctx.NewSession([]types.TypeId{withDefault, withConstraintOnly, bare})
	result := session.Resolve(0)

	if result.Substitution[withDefault] != types.Boolean {
		t.Errorf("expected default fallback to boolean, got %v", result.Substitution[withDefault])
	}
	if result.Substitution[withConstraintOnly] != types.Number {
		t.Errorf("expected constraint fallback to number, got %v", result.Substitution[withConstraintOnly])
	}
	found := false
	for _, u := range result.Unresolved {
		if u == bare {
			found = true
		}
	}
	if !found {
		t.Errorf("expected the candidate-less, constraint-less, default-less parameter to be reported unresolved")
	}
}
