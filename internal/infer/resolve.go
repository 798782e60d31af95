package infer

import (
	"github.com/novalang/novac/internal/flags"
	"github.com/novalang/novac/internal/types"
)

// Result is the outcome of stage 3, per-parameter resolution.
type Result struct {
	Substitution map[types.TypeId]types.TypeId
	Unresolved   []types.TypeId
}

// Resolve implements stage 3: for each type parameter, take the
// highest-priority non-empty candidate set, widen literals unless the
// parameter is declared const, take the union as an approximation of the
// common supertype, then clamp to the declared constraint. Parameters with
// no candidates fall back to their declared default, then their constraint,
// else are reported unresolved.
func (s *Session) Resolve(f flags.Flags) Result {
	res := Result{Substitution: make(map[types.TypeId]types.TypeId, len(s.order))}
	v := s.ctx.in.View()

	for _, tp := range s.order {
		info, _ := v.TypeParameterInfo(tp)
		vrb := s.vars[tp]

		best := highestPriority(vrb.lower)
		var resolved types.TypeId
		resolvedFrom := false
		switch {
		case len(best) > 0:
			resolved = s.commonSupertype(best, info.IsConst)
			resolvedFrom = true
		case info.Default != 0:
			resolved = info.Default
			resolvedFrom = true
		case len(vrb.upper) > 0:
			// No covariant candidate: fall back to the tightest upper
			// bound collected from a contravariant position (e.g. a
			// callback parameter), the upper-bound
			// rule for placeholders appearing as the source.
			resolved = vrb.upper[0]
			for _, u := range vrb.upper[1:] {
				if s.ctx.sub != nil && s.ctx.sub.IsSubtypeOf(u, resolved, f) {
					resolved = u
				}
			}
			resolvedFrom = true
		case info.Constraint != 0:
			resolved = info.Constraint
			resolvedFrom = true
		default:
			resolved = types.Unknown
		}
		if !resolvedFrom {
			res.Unresolved = append(res.Unresolved, tp)
		}

		if info.Constraint != 0 && s.ctx.sub != nil && !s.ctx.sub.IsSubtypeOf(resolved, info.Constraint, f) {
			resolved = info.Constraint
		}
		res.Substitution[tp] = resolved
	}
	return res
}

func highestPriority(candidates []candidate) []types.TypeId {
	if len(candidates) == 0 {
		return nil
	}
	top := candidates[0].priority
	for _, c := range candidates {
		if c.priority > top {
			top = c.priority
		}
	}
	out := make([]types.TypeId, 0, len(candidates))
	for _, c := range candidates {
		if c.priority == top {
			out = append(out, c.typ)
		}
	}
	return out
}

func (s *Session) commonSupertype(candidates []types.TypeId, isConst bool) types.TypeId {
	in := s.ctx.in
	out := make([]types.TypeId, len(candidates))
	for i, c := range candidates {
		if isConst {
			out[i] = c
		} else {
			out[i] = widenLiteral(in, c)
		}
	}
	return in.Union(out)
}

func widenLiteral(in *types.Interner, t types.TypeId) types.TypeId {
	v := in.View()
	switch v.Kind(t) {
	case types.KindLiteralString:
		return types.String
	case types.KindLiteralNumber:
		return types.Number
	case types.KindLiteralBoolean:
		return types.Boolean
	case types.KindLiteralBigInt:
		return types.BigInt
	default:
		return t
	}
}
