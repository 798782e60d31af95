// Package narrow implements control-flow type narrowing:
// given a union type and a guard expression, it computes the refined types
// for the guard's "then" and "else" branches. The Narrower's dependence on
// evaluator/access/subtype for head-normal-form reduction and property/
// instance checks follows the same layering internal/infer uses to reach
// the solver (see internal/infer/constrain.go).
package narrow

import (
	"github.com/novalang/novac/internal/access"
	"github.com/novalang/novac/internal/evaluator"
	"github.com/novalang/novac/internal/flags"
	"github.com/novalang/novac/internal/subtype"
	"github.com/novalang/novac/internal/types"
)

type Narrower struct {
	in       *types.Interner
	eval     *evaluator.Evaluator
	access   *access.Resolver
	subtype  *subtype.Checker
}

func New(in *types.Interner, eval *evaluator.Evaluator, acc *access.Resolver, sub *subtype.Checker) *Narrower {
	return &Narrower{in: in, eval: eval, access: acc, subtype: sub}
}

// Split partitions t into the types that remain in the "then" branch (keep
// returns true) and the "else" branch (keep returns false), reducing to
// head-normal form first so a type alias or lazily-evaluated union still
// narrows.
func (n *Narrower) split(t types.TypeId, f flags.Flags, keep func(types.TypeId) bool) (thenType, elseType types.TypeId) {
	head := n.eval.Evaluate(t, f)
	v := n.in.View()

	if v.Kind(head) != types.KindUnion {
		if keep(head) {
			return t, types.Never
		}
		return types.Never, t
	}

	members := v.UnionMembers(head)
	var thenMembers, elseMembers []types.TypeId
	for _, m := range members {
		if keep(m) {
			thenMembers = append(thenMembers, m)
		} else {
			elseMembers = append(elseMembers, m)
		}
	}
	return n.rebuild(thenMembers), n.rebuild(elseMembers)
}

func (n *Narrower) rebuild(members []types.TypeId) types.TypeId {
	if len(members) == 0 {
		return types.Never
	}
	if len(members) == 1 {
		return members[0]
	}
	return n.in.Union(members)
}

// typeofTag classifies a single (already head-normalized) member the way
// JavaScript's `typeof` operator would, for the typeof-guard
// narrowing rule. KindIntrinsic members that are Any/Unknown match every
// tag, since narrowing must never exclude a dynamically-typed value.
func (n *Narrower) typeofTag(t types.TypeId, tag string) bool {
	if t == types.Any || t == types.Unknown {
		return true
	}
	v := n.in.View()
	switch v.Kind(t) {
	case types.KindLiteralString:
		return tag == "string"
	case types.KindLiteralNumber:
		return tag == "number"
	case types.KindLiteralBoolean:
		return tag == "boolean"
	case types.KindLiteralBigInt:
		return tag == "bigint"
	case types.KindFunction, types.KindCallable:
		return tag == "function"
	case types.KindUniqueSymbol:
		return tag == "symbol"
	}
	switch t {
	case types.String:
		return tag == "string"
	case types.Number:
		return tag == "number"
	case types.Boolean:
		return tag == "boolean"
	case types.BigInt:
		return tag == "bigint"
	case types.Symbol:
		return tag == "symbol"
	case types.Undefined, types.Void:
		return tag == "undefined"
	case types.Null, types.Object:
		return tag == "object"
	}
	switch v.Kind(t) {
	case types.KindArray, types.KindTuple, types.KindObject, types.KindObjectWithIndex,
		types.KindTypeReference, types.KindEnum:
		return tag == "object"
	}
	return false
}

// Typeof narrows `typeof x === tag` (thenType) / `typeof x !== tag`
// (elseType).
func (n *Narrower) Typeof(t types.TypeId, tag string, f flags.Flags) (thenType, elseType types.TypeId) {
	return n.split(t, f, func(m types.TypeId) bool { return n.typeofTag(m, tag) })
}

// isFalsy reports whether a single head-normalized member can only ever be
// the falsy value of its kind (e.g. the literal type `0`, `""`, `false`,
// `null`, `undefined`). Non-literal primitives (plain `string`/`number`/
// `boolean`) are ambiguous and kept in both branches, matching how a real
// TypeScript checker handles them (it cannot rule out `""` from `string`).
func (n *Narrower) isFalsy(t types.TypeId) bool {
	v := n.in.View()
	if t == types.Null || t == types.Undefined || t == types.Void {
		return true
	}
	if s, ok := v.LiteralStringValue(t); ok {
		return s == ""
	}
	if num, ok := v.LiteralNumberValue(t); ok {
		return num == 0
	}
	if b, ok := v.LiteralBooleanValue(t); ok {
		return !b
	}
	return false
}

func (n *Narrower) isDefinitelyTruthy(t types.TypeId) bool {
	v := n.in.View()
	if v.IsNullish(t) {
		return false
	}
	if s, ok := v.LiteralStringValue(t); ok {
		return s != ""
	}
	if num, ok := v.LiteralNumberValue(t); ok {
		return num != 0
	}
	if b, ok := v.LiteralBooleanValue(t); ok {
		return b
	}
	switch v.Kind(t) {
	case types.KindObject, types.KindObjectWithIndex, types.KindArray, types.KindTuple,
		types.KindFunction, types.KindCallable, types.KindTypeReference:
		return true
	}
	return false
}

// Truthy narrows a bare `if (x)` / `x && ...` guard.
func (n *Narrower) Truthy(t types.TypeId, f flags.Flags) (thenType, elseType types.TypeId) {
	return n.split(t, f, func(m types.TypeId) bool { return !n.isFalsy(m) })
}

// ArrayIsArray narrows `Array.isArray(x)`.
func (n *Narrower) ArrayIsArray(t types.TypeId, f flags.Flags) (thenType, elseType types.TypeId) {
	return n.split(t, f, func(m types.TypeId) bool {
		if m == types.Any || m == types.Unknown {
			return true
		}
		k := n.in.View().Kind(m)
		return k == types.KindArray || k == types.KindTuple
	})
}

// InstanceofClass narrows `x instanceof C`, keeping union members assignable
// to classRef (a KindTypeReference TypeId for C).
func (n *Narrower) InstanceofClass(t, classRef types.TypeId, f flags.Flags) (thenType, elseType types.TypeId) {
	return n.split(t, f, func(m types.TypeId) bool {
		if m == types.Any || m == types.Unknown {
			return true
		}
		return n.subtype.IsSubtypeOf(m, classRef, f)
	})
}

// InProperty narrows `"name" in x`, keeping union members that resolve a
// property (or index signature) named name.
func (n *Narrower) InProperty(t types.TypeId, name string, enclosingClass types.DefId, f flags.Flags) (thenType, elseType types.TypeId) {
	return n.split(t, f, func(m types.TypeId) bool {
		if m == types.Any || m == types.Unknown {
			return true
		}
		res := n.access.ResolveProperty(m, name, enclosingClass, f)
		return res.Reason == access.ReasonOK
	})
}

// EqualsLiteral narrows `x === literal` / `x == literal`, keeping members
// that could possibly hold literal's value: the literal type itself, its
// unit-type's base primitive, or a dynamic (Any/Unknown) member.
func (n *Narrower) EqualsLiteral(t, literal types.TypeId, f flags.Flags) (thenType, elseType types.TypeId) {
	base := n.literalBase(literal)
	return n.split(t, f, func(m types.TypeId) bool {
		if m == types.Any || m == types.Unknown {
			return true
		}
		if m == literal {
			return true
		}
		return base != 0 && m == base
	})
}

func (n *Narrower) literalBase(t types.TypeId) types.TypeId {
	v := n.in.View()
	switch v.Kind(t) {
	case types.KindLiteralString:
		return types.String
	case types.KindLiteralNumber:
		return types.Number
	case types.KindLiteralBoolean:
		return types.Boolean
	case types.KindLiteralBigInt:
		return types.BigInt
	}
	return 0
}

// Discriminant narrows a tagged union on `x.tag === literal`, the common
// "discriminated union" idiom: a member survives the then-branch only if
// its own `name` property type could equal literal.
func (n *Narrower) Discriminant(t types.TypeId, name string, literal types.TypeId, enclosingClass types.DefId, f flags.Flags) (thenType, elseType types.TypeId) {
	base := n.literalBase(literal)
	return n.split(t, f, func(m types.TypeId) bool {
		if m == types.Any || m == types.Unknown {
			return true
		}
		res := n.access.ResolveProperty(m, name, enclosingClass, f)
		if res.Reason != access.ReasonOK {
			return false
		}
		return res.Type == literal || (base != 0 && res.Type == base) || n.subtype.IsSubtypeOf(literal, res.Type, f)
	})
}
