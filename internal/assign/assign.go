// Package assign is the lenient Compatibility Checker:
// assignability, with `any`-propagation, excess-property checking, and
// method-parameter bivariance, layered on top of the strict Subtype
// Checker. Its cache is deliberately separate from the Subtype Checker's so
// a lenient result can never leak into a strict lookup.
package assign

import (
	"github.com/novalang/novac/internal/evaluator"
	"github.com/novalang/novac/internal/flags"
	"github.com/novalang/novac/internal/querycache"
	"github.com/novalang/novac/internal/subtype"
	"github.com/novalang/novac/internal/types"
)

type Checker struct {
	in      *types.Interner
	eval    *evaluator.Evaluator
	subtype *subtype.Checker
	caches  *querycache.Caches
}

func New(in *types.Interner, eval *evaluator.Evaluator, sub *subtype.Checker, caches *querycache.Caches) *Checker {
	return &Checker{in: in, eval: eval, subtype: sub, caches: caches}
}

// IsAssignable implements `source` assignable to `target`.
func (c *Checker) IsAssignable(source, target types.TypeId, f flags.Flags) bool {
	key := querycache.RelationKey{Source: uint32(source), Target: uint32(target), Flags: uint32(f)}
	return c.caches.Assignability.GetOrCompute(key, func() bool {
		return c.compute(source, target, f)
	})
}

func (c *Checker) compute(source, target types.TypeId, f flags.Flags) bool {
	source = c.eval.Evaluate(source, f)
	target = c.eval.Evaluate(target, f)

	if source == target {
		return true
	}
	if source == types.Any || target == types.Any {
		if target == types.Never {
			return false
		}
		return true
	}
	if target == types.Unknown {
		return true
	}
	if source == types.Unknown {
		return false
	}
	if !f.Has(flags.StrictNullChecks) && (source == types.Null || source == types.Undefined) {
		return true
	}

	v := c.in.View()

	if v.Kind(target) == types.KindUnion {
		for _, m := range v.UnionMembers(target) {
			if c.IsAssignable(source, m, f) {
				return true
			}
		}
		// An object-literal-like source may still be assignable to a union
		// member once widened; fall through to structural comparison below
		// only if no exact alternative matched.
	}
	if v.Kind(source) == types.KindUnion {
		for _, m := range v.UnionMembers(source) {
			if !c.IsAssignable(m, target, f) {
				return false
			}
		}
		return true
	}

	if isEmptyObject(c.in, target) && !v.IsNullish(source) {
		return true
	}

	if v.Kind(target) == types.KindObject || v.Kind(target) == types.KindObjectWithIndex {
		if err := c.excessPropertyCheck(source, target, f); err != nil {
			return false
		}
	}

	if c.functionBivariantCompatible(source, target, f) {
		return true
	}

	return c.subtype.IsSubtypeOf(source, target, f)
}

func isEmptyObject(in *types.Interner, t types.TypeId) bool {
	shape, ok := in.View().ObjectShape(t)
	return ok && len(shape.Properties) == 0 && shape.StringIndex == nil && shape.NumberIndex == nil
}

// functionBivariantCompatible re-checks a method-to-method assignment with
// bivariant parameters when strict_function_types is off: "Function parameter bivariance when strict_function_types is off
// and the function is a method."
func (c *Checker) functionBivariantCompatible(source, target types.TypeId, f flags.Flags) bool {
	if f.Has(flags.StrictFunctionTypes) {
		return false
	}
	v := c.in.View()
	ssig, sok := v.FunctionSignature(source)
	tsig, tok := v.FunctionSignature(target)
	if !sok || !tok || !ssig.IsMethod || !tsig.IsMethod {
		return false
	}
	if len(ssig.Params) != len(tsig.Params) {
		return false
	}
	for i := range ssig.Params {
		if !c.subtype.IsSubtypeOf(tsig.Params[i].Type, ssig.Params[i].Type, f) &&
			!c.subtype.IsSubtypeOf(ssig.Params[i].Type, tsig.Params[i].Type, f) {
			return false
		}
	}
	return c.subtype.IsSubtypeOf(ssig.ReturnType, tsig.ReturnType, f)
}
