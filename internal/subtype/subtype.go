// Package subtype is the strict Subtype Checker: pure
// structural subtyping with no `any` bypass and no excess-property
// leniency, used internally by the solver (conditional-type "extends"
// tests, generic variance comparisons, narrowing sanity checks). The
// lenient Compatibility Checker (internal/assign) builds on top of this.
package subtype

import (
	"sync"

	"github.com/novalang/novac/internal/evaluator"
	"github.com/novalang/novac/internal/flags"
	"github.com/novalang/novac/internal/querycache"
	"github.com/novalang/novac/internal/types"
)

// VarianceSource supplies the per-DefId variance mask the Checker needs
// when comparing two applications of the same generic.
// Implemented by internal/variance and injected here to avoid a cycle
// (variance itself needs subtyping to probe variance by marker injection).
type VarianceSource interface {
	VarianceOf(def types.DefId) []Variance
}

type Variance uint8

const (
	Invariant Variance = iota
	Covariant
	Contravariant
	Bivariant
	Independent
)

// Checker implements is_subtype_of and the conditional-type extends test
// that doubles as `infer` constraint collection.
type Checker struct {
	in       *types.Interner
	eval     *evaluator.Evaluator
	caches   *querycache.Caches
	variance VarianceSource

	assumeMu sync.Mutex
	assume   map[assumption]bool
}

type assumption struct{ source, target types.TypeId }

func New(in *types.Interner, eval *evaluator.Evaluator, caches *querycache.Caches) *Checker {
	c := &Checker{in: in, eval: eval, caches: caches, assume: make(map[assumption]bool)}
	eval.SetExtendsTester(c)
	return c
}

func (c *Checker) SetVarianceSource(v VarianceSource) { c.variance = v }

// IsSubtypeOf is the public contract: `source <: target` under f.
func (c *Checker) IsSubtypeOf(source, target types.TypeId, f flags.Flags) bool {
	return c.isSubtype(source, target, f)
}

func (c *Checker) isSubtype(source, target types.TypeId, f flags.Flags) bool {
	if source == target {
		return true
	}
	if target == types.Any || target == types.Unknown {
		return true
	}
	if source == types.Never {
		return true
	}

	source = c.eval.Evaluate(source, f)
	target = c.eval.Evaluate(target, f)
	if source == target {
		return true
	}

	key := querycache.RelationKey{Source: uint32(source), Target: uint32(target), Flags: uint32(f)}
	return c.caches.Subtype.GetOrCompute(key, func() bool {
		return c.computeSubtype(source, target, f)
	})
}

// assumptionGuard pushes (source,target) before recursing and pops on
// return; a hit during recursion returns true, breaking infinite recursion
// on recursive structural types coinductively.
func (c *Checker) assumptionGuard(source, target types.TypeId, compute func() bool) bool {
	key := assumption{source, target}
	c.assumeMu.Lock()
	if c.assume[key] {
		c.assumeMu.Unlock()
		return true
	}
	c.assume[key] = true
	c.assumeMu.Unlock()

	result := compute()

	c.assumeMu.Lock()
	delete(c.assume, key)
	c.assumeMu.Unlock()
	return result
}

func (c *Checker) computeSubtype(source, target types.TypeId, f flags.Flags) bool {
	v := c.in.View()

	switch v.Kind(target) {
	case types.KindUnion:
		for _, m := range v.UnionMembers(target) {
			if c.isSubtype(source, m, f) {
				return true
			}
		}
		return false
	case types.KindIntersection:
		for _, m := range v.IntersectionMembers(target) {
			if !c.isSubtype(source, m, f) {
				return false
			}
		}
		return true
	}

	switch v.Kind(source) {
	case types.KindUnion:
		for _, m := range v.UnionMembers(source) {
			if !c.isSubtype(m, target, f) {
				return false
			}
		}
		return true
	case types.KindIntersection:
		members := v.IntersectionMembers(source)
		for _, m := range members {
			if c.isSubtype(m, target, f) {
				return true
			}
		}
		return false
	}

	return c.assumptionGuard(source, target, func() bool {
		return c.dispatchSubtype(source, target, f)
	})
}

func (c *Checker) dispatchSubtype(source, target types.TypeId, f flags.Flags) bool {
	v := c.in.View()

	switch v.Kind(target) {
	case types.KindObject, types.KindObjectWithIndex:
		return c.objectSubtype(source, target, f)
	case types.KindCallable, types.KindFunction:
		return c.callableSubtype(source, target, f)
	case types.KindTuple:
		return c.tupleSubtype(source, target, f)
	case types.KindArray:
		return c.arraySubtype(source, target, f)
	case types.KindTemplateLiteral:
		return c.templateLiteralSubtype(source, target, f)
	case types.KindLiteralString, types.KindLiteralNumber, types.KindLiteralBoolean, types.KindLiteralBigInt:
		return false // already excluded identity above; distinct literals never compare equal
	case types.KindTypeReference:
		return c.nominalSubtype(source, target, f)
	case types.KindApplication:
		return c.applicationSubtype(source, target, f)
	case types.KindEnum:
		return c.enumSubtype(source, target, f)
	}

	switch target {
	case types.String:
		return v.Kind(source) == types.KindLiteralString || v.Kind(source) == types.KindTemplateLiteral
	case types.Number:
		return v.Kind(source) == types.KindLiteralNumber
	case types.Boolean:
		return v.Kind(source) == types.KindLiteralBoolean
	case types.BigInt:
		return v.Kind(source) == types.KindLiteralBigInt
	case types.Symbol:
		return v.Kind(source) == types.KindUniqueSymbol
	case types.Object:
		vk := v.Kind(source)
		return vk == types.KindObject || vk == types.KindObjectWithIndex || vk == types.KindArray || vk == types.KindTuple || vk == types.KindFunction || vk == types.KindCallable
	}

	return false
}
