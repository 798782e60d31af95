// Package variance computes, per generic DefId, the per-type-parameter
// variance mask the Subtype/Compatibility checkers use when comparing two
// applications of the same generic. Each mask entry is
// computed once and cached by probing the generic body structurally for the
// positions its type parameters occur in, then cached by DefId.
package variance

import (
	"github.com/novalang/novac/internal/querycache"
	"github.com/novalang/novac/internal/subtype"
	"github.com/novalang/novac/internal/typeenv"
	"github.com/novalang/novac/internal/types"
)

// Prober computes variance masks and satisfies subtype.VarianceSource.
type Prober struct {
	in     *types.Interner
	env    *typeenv.Environment
	caches *querycache.Caches
}

func New(in *types.Interner, env *typeenv.Environment, caches *querycache.Caches) *Prober {
	return &Prober{in: in, env: env, caches: caches}
}

// VarianceOf returns the per-type-parameter variance mask for def, computing
// it on first request by probing the body.
//
// This implementation probes structurally rather than through two literal
// marker instantiations: it walks the generic body once, tracking the
// ambient polarity (covariant=+1, contravariant=-1) at each position a type
// parameter's TypeId occurs in, and folds the set of polarities seen per
// parameter into a single Variance verdict. The two techniques agree because
// marker substitution is exactly how a probe would observe the same
// polarities experimentally; walking avoids needing two full Evaluate
// passes per generic.
func (p *Prober) VarianceOf(def types.DefId) []subtype.Variance {
	key := uint64(def)
	cached := p.caches.Variance.GetOrCompute(key, func() []int8 {
		return p.compute(def)
	})
	out := make([]subtype.Variance, len(cached))
	for i, v := range cached {
		out[i] = int8ToVariance(v)
	}
	return out
}

const (
	polarNone         int8 = 0
	polarCovariant    int8 = 1
	polarContravariant int8 = -1
	polarBoth         int8 = 2
)

func int8ToVariance(v int8) subtype.Variance {
	switch v {
	case polarCovariant:
		return subtype.Covariant
	case polarContravariant:
		return subtype.Contravariant
	case polarNone:
		return subtype.Independent
	default:
		return subtype.Invariant
	}
}

func (p *Prober) compute(def types.DefId) []int8 {
	params := p.env.GetTypeParams(def)
	body := p.env.ResolveLazy(def)
	polarity := make(map[types.TypeId]int8, len(params))
	for _, tp := range params {
		polarity[tp] = polarNone
	}
	visited := make(map[types.TypeId]bool)
	p.walk(body, 1, polarity, visited)
	out := make([]int8, len(params))
	for i, tp := range params {
		out[i] = polarity[tp]
	}
	return out
}

func fold(existing, seen int8) int8 {
	if existing == polarNone {
		return seen
	}
	if existing == seen {
		return existing
	}
	return polarBoth
}

func (p *Prober) walk(t types.TypeId, sign int8, polarity map[types.TypeId]int8, visited map[types.TypeId]bool) {
	v := p.in.View()

	if _, ok := v.TypeParameterInfo(t); ok {
		if _, tracked := polarity[t]; tracked {
			polarity[t] = fold(polarity[t], sign)
		}
		return
	}
	if visited[t] {
		return
	}
	visited[t] = true

	switch v.Kind(t) {
	case types.KindUnion:
		for _, m := range v.UnionMembers(t) {
			p.walk(m, sign, polarity, visited)
		}
	case types.KindIntersection:
		for _, m := range v.IntersectionMembers(t) {
			p.walk(m, sign, polarity, visited)
		}
	case types.KindArray:
		p.walk(v.ArrayElement(t), sign, polarity, visited)
	case types.KindReadonly:
		inner, _ := v.ReadonlyInner(t)
		p.walk(inner, sign, polarity, visited)
	case types.KindTuple:
		for _, el := range v.TupleElements(t) {
			p.walk(el.Type, sign, polarity, visited)
		}
	case types.KindObject, types.KindObjectWithIndex:
		shape, _ := v.ObjectShape(t)
		for _, prop := range shape.Properties {
			p.walk(prop.ReadType, sign, polarity, visited)
			if !prop.Readonly {
				p.walk(prop.WriteType, -sign, polarity, visited)
			}
		}
	case types.KindFunction:
		sig, _ := v.FunctionSignature(t)
		p.walkSignature(sig, sign, polarity, visited)
	case types.KindCallable:
		cs, _ := v.CallableShape(t)
		for _, sig := range cs.CallSignatures {
			p.walkSignature(sig, sign, polarity, visited)
		}
	case types.KindApplication:
		_, args, _ := v.Application(t)
		for _, a := range args {
			p.walk(a, sign, polarity, visited)
		}
	}
}

func (p *Prober) walkSignature(sig types.Signature, sign int8, polarity map[types.TypeId]int8, visited map[types.TypeId]bool) {
	for _, param := range sig.Params {
		p.walk(param.Type, -sign, polarity, visited)
	}
	p.walk(sig.ReturnType, sign, polarity, visited)
}
