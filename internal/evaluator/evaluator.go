// Package evaluator reduces non-canonical type constructs — conditional,
// mapped, keyof, indexed-access, application, lazy — to head-normal form
//. It is the solver's single entry point for "give me the
// concrete shape of this type"; every other solver package (subtype, assign,
// access, infer, narrow) calls Evaluate before inspecting a type's Kind.
package evaluator

import (
	"github.com/novalang/novac/internal/flags"
	"github.com/novalang/novac/internal/querycache"
	"github.com/novalang/novac/internal/typeenv"
	"github.com/novalang/novac/internal/types"
)

// ExtendsResult is the outcome of testing `check extends extends` for a
// Conditional type, including any `infer X` bindings collected along the
// way.
type ExtendsResult struct {
	Matches  bool
	Inferred map[types.TypeId]types.TypeId
}

// ExtendsTester is implemented by the Subtype Checker and injected here so
// the Evaluator never imports internal/subtype directly — the two packages
// are mutually recursive in the design (conditional-type evaluation needs
// subtyping; subtyping needs evaluation to reach head-normal form first) and
// Go has no package cycles, so the dependency is inverted via this small
// capability interface.
type ExtendsTester interface {
	TestExtends(check, extends types.TypeId, f flags.Flags) ExtendsResult
}

// Substituter applies a type-parameter substitution when instantiating a
// generic alias/conditional/mapped body. Implemented here directly (see
// substitute.go) since substitution is intrinsic to evaluation and doesn't
// need external injection.

// Evaluator is the process-wide, stateless (beyond its caches) reducer.
type Evaluator struct {
	in      *types.Interner
	env     *typeenv.Environment
	caches  *querycache.Caches
	extends ExtendsTester
}

const maxEvalDepth = 250

// New constructs an Evaluator. extends may be nil until the Subtype Checker
// is constructed; SetExtendsTester wires it in afterward to break the
// construction-order cycle between evaluator and subtype.
func New(in *types.Interner, env *typeenv.Environment, caches *querycache.Caches) *Evaluator {
	return &Evaluator{in: in, env: env, caches: caches}
}

func (e *Evaluator) SetExtendsTester(t ExtendsTester) { e.extends = t }

// Evaluate reduces t to head-normal form under the given flags: the result
// has no top-level Lazy, Application, KeyOf, IndexAccess, Conditional,
// Mapped, or NoInfer/ReadonlyType wrapper unless that wrapper is blocked
// (still contains an unresolved type parameter).
func (e *Evaluator) Evaluate(t types.TypeId, f flags.Flags) types.TypeId {
	key := querycache.EvalKey{Type: uint32(t), NoUncheckedIndexedAccess: f.Has(flags.NoUncheckedIndexedAccess)}
	result := e.caches.Evaluation.GetOrCompute(key, func() querycache.TypeId {
		return uint32(e.evalGuarded(t, f, 0))
	})
	return types.TypeId(result)
}

func (e *Evaluator) evalGuarded(t types.TypeId, f flags.Flags, depth int) types.TypeId {
	if depth > maxEvalDepth {
		return types.ErrorType
	}
	v := e.in.View()
	switch v.Kind(t) {
	case types.KindLazy:
		def, _ := v.LazyDef(t)
		resolved := e.env.ResolveLazy(def)
		if resolved == t {
			return resolved
		}
		return e.evalGuarded(resolved, f, depth+1)
	case types.KindTypeReference:
		ref, _ := v.Reference(t)
		resolved := e.env.ResolveRef(ref)
		if resolved == t {
			return resolved
		}
		return e.evalGuarded(resolved, f, depth+1)
	case types.KindApplication:
		return e.evalApplication(t, f, depth)
	case types.KindConditional:
		return e.evalConditional(t, f, depth)
	case types.KindMapped:
		return e.evalMapped(t, f, depth)
	case types.KindKeyOf:
		return e.evalKeyOf(t, f, depth)
	case types.KindIndexAccess:
		return e.evalIndexAccess(t, f, depth)
	case types.KindNoInfer:
		inner, _ := v.NoInferInner(t)
		return e.evalGuarded(inner, f, depth+1)
	case types.KindUnion:
		members := v.UnionMembers(t)
		out := make([]types.TypeId, len(members))
		changed := false
		for i, m := range members {
			out[i] = e.evalGuarded(m, f, depth+1)
			if out[i] != m {
				changed = true
			}
		}
		if !changed {
			return t
		}
		return e.in.Union(out)
	case types.KindIntersection:
		members := v.IntersectionMembers(t)
		out := make([]types.TypeId, len(members))
		changed := false
		for i, m := range members {
			out[i] = e.evalGuarded(m, f, depth+1)
			if out[i] != m {
				changed = true
			}
		}
		if !changed {
			return t
		}
		return e.in.Intersection(out)
	default:
		return t
	}
}

func (e *Evaluator) evalApplication(t types.TypeId, f flags.Flags, depth int) types.TypeId {
	v := e.in.View()
	base, args, _ := v.Application(t)
	evaluatedArgs := make([]types.TypeId, len(args))
	for i, a := range args {
		evaluatedArgs[i] = e.evalGuarded(a, f, depth+1)
	}

	baseKind := v.Kind(base)
	if baseKind == types.KindLazy {
		def, _ := v.LazyDef(base)
		if e.env.GetDefKind(def) == typeenv.DefTypeAlias {
			body := e.env.ResolveLazy(def)
			params := e.env.GetTypeParams(def)
			subst := buildSubstitution(params, evaluatedArgs)
			return e.evalGuarded(Substitute(e.in, body, subst), f, depth+1)
		}
		// Generic class/interface: nominal identity preserved, Application
		// remains canonical — only the arguments are evaluated.
		resolvedBase := e.env.ResolveLazy(def)
		return e.in.Application(resolvedBase, evaluatedArgs)
	}
	if baseKind == types.KindTypeReference {
		ref, _ := v.Reference(base)
		if e.env.GetDefKind(ref.Def) == typeenv.DefTypeAlias {
			params := e.env.GetTypeParams(ref.Def)
			body := e.env.ResolveLazy(ref.Def)
			subst := buildSubstitution(params, evaluatedArgs)
			return e.evalGuarded(Substitute(e.in, body, subst), f, depth+1)
		}
		return e.in.Application(base, evaluatedArgs)
	}
	return e.in.Application(base, evaluatedArgs)
}

func buildSubstitution(params, args []types.TypeId) map[types.TypeId]types.TypeId {
	subst := make(map[types.TypeId]types.TypeId, len(params))
	for i, p := range params {
		if i < len(args) {
			subst[p] = args[i]
		}
	}
	return subst
}
