package variance

import (
	"testing"

	"github.com/novalang/novac/internal/querycache"
	"github.com/novalang/novac/internal/subtype"
	"github.com/novalang/novac/internal/typeenv"
	"github.com/novalang/novac/internal/types"
)

func TestCovariantArrayLikeParameter(t *testing.T) {
	in := types.NewInterner()
	env := typeenv.New(in)
	caches := querycache.New()
	p := New(in, env, caches)

	tp := in.TypeParameter(types.TypeParameterInfo{Name: in.InternString("T")})
	readonlyName := in.InternString("value")
	body := in.Object(types.ObjectShape{Properties: []types.PropertyInfo{
		{Name: readonlyName, ReadType: tp, WriteType: tp, Readonly: true},
	}})
	env.Declare(1, 1, typeenv.DefTypeAlias, []types.TypeId{tp}, body)

	mask := p.VarianceOf(1)
	if len(mask) != 1 || mask[0] != subtype.Covariant {
		t.Errorf("expected covariant mask for a readonly-property parameter, got %v", mask)
	}
}

func TestContravariantFunctionParameter(t *testing.T) {
	in := types.NewInterner()
	env := typeenv.New(in)
	caches := querycache.New()
	p := New(in, env, caches)

	tp := in.TypeParameter(types.TypeParameterInfo{Name: in.InternString("T")})
	fn := in.Function(types.Signature{Params: []types.Param{{Type: tp}}, ReturnType: types.Void})
	env.Declare(2, 2, typeenv.DefTypeAlias, []types.TypeId{tp}, fn)

	mask := p.VarianceOf(2)
	if len(mask) != 1 || mask[0] != subtype.Contravariant {
		t.Errorf("expected contravariant mask for a function-parameter position, got %v", mask)
	}
}
