package subtype

import (
	"github.com/novalang/novac/internal/flags"
	"github.com/novalang/novac/internal/types"
)

// objectSubtype: every target property has a matching source property with
// a compatible read type, a compatible write type when target is mutable,
// and readonly compatibility (readonly target accepts mutable source, not
// vice versa). Index signatures compare with their respective keys;
// properties of source check against index signatures of target.
func (c *Checker) objectSubtype(source, target types.TypeId, f flags.Flags) bool {
	v := c.in.View()
	targetShape, ok := v.ObjectShape(target)
	if !ok {
		return false
	}
	sourceShape, sourceIsObject := v.ObjectShape(source)

	for _, tp := range targetShape.Properties {
		var sp *types.PropertyInfo
		if sourceIsObject {
			for i := range sourceShape.Properties {
				if sourceShape.Properties[i].Name == tp.Name {
					sp = &sourceShape.Properties[i]
					break
				}
			}
		}
		if sp == nil {
			if tp.Optional {
				continue
			}
			if sourceIsObject && sourceShape.StringIndex != nil {
				if !c.isSubtype(sourceShape.StringIndex.ValueType, tp.ReadType, f) {
					return false
				}
				continue
			}
			return false
		}
		if !c.isSubtype(sp.ReadType, tp.ReadType, f) {
			return false
		}
		if !tp.Readonly {
			if sp.Readonly {
				return false
			}
			if !c.isSubtype(tp.WriteType, sp.WriteType, f) {
				return false
			}
		}
	}

	if targetShape.StringIndex != nil {
		if sourceIsObject {
			if sourceShape.StringIndex == nil {
				return false
			}
			if !c.isSubtype(sourceShape.StringIndex.ValueType, targetShape.StringIndex.ValueType, f) {
				return false
			}
		} else if v.Kind(source) != types.KindArray {
			return false
		}
	}
	if targetShape.NumberIndex != nil {
		switch v.Kind(source) {
		case types.KindArray:
			if !c.isSubtype(v.ArrayElement(source), targetShape.NumberIndex.ValueType, f) {
				return false
			}
		case types.KindObject, types.KindObjectWithIndex:
			if sourceShape.NumberIndex == nil {
				return false
			}
			if !c.isSubtype(sourceShape.NumberIndex.ValueType, targetShape.NumberIndex.ValueType, f) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// callableSubtype: at least one source call signature must be <= each
// target call signature (contravariant params, covariant return,
// contravariant `this`, arity/rest/optional rules, predicate compatibility).
func (c *Checker) callableSubtype(source, target types.TypeId, f flags.Flags) bool {
	v := c.in.View()
	targetSigs := c.signaturesOf(target, v)
	if len(targetSigs) == 0 {
		return false
	}
	sourceSigs := c.signaturesOf(source, v)
	if len(sourceSigs) == 0 {
		return false
	}
	for _, tsig := range targetSigs {
		matched := false
		for _, ssig := range sourceSigs {
			if c.signatureSubtype(ssig, tsig, f) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func (c *Checker) signaturesOf(t types.TypeId, v types.View) []types.Signature {
	if sig, ok := v.FunctionSignature(t); ok {
		return []types.Signature{sig}
	}
	if cs, ok := v.CallableShape(t); ok {
		return cs.CallSignatures
	}
	return nil
}

func (c *Checker) signatureSubtype(source, target types.Signature, f flags.Flags) bool {
	// Params: contravariant. Target must be able to supply every parameter
	// source declares as required (arity), and each target param type must
	// be a subtype of the corresponding source param type (unless
	// strict_function_types is relaxed by the Compatibility Checker).
	requiredSourceParams := 0
	for _, p := range source.Params {
		if !p.Optional && !p.Rest {
			requiredSourceParams++
		}
	}
	if len(target.Params) < requiredSourceParams {
		return false
	}
	for i, sp := range source.Params {
		if i >= len(target.Params) {
			if sp.Optional || sp.Rest {
				continue
			}
			return false
		}
		tp := target.Params[i]
		if !c.isSubtype(tp.Type, sp.Type, f) {
			return false
		}
	}
	if !c.isSubtype(source.ReturnType, target.ReturnType, f) {
		return false
	}
	if source.ThisType != 0 && target.ThisType != 0 {
		if !c.isSubtype(target.ThisType, source.ThisType, f) {
			return false
		}
	}
	if source.TypePredicate != nil {
		if target.TypePredicate == nil {
			return false
		}
		return c.isSubtype(source.TypePredicate.Type, target.TypePredicate.Type, f)
	}
	return true
}

// tupleSubtype: element-wise with optional/rest semantics.
func (c *Checker) tupleSubtype(source, target types.TypeId, f flags.Flags) bool {
	v := c.in.View()
	targetElems := v.TupleElements(target)
	var sourceElems []types.TupleElement
	switch v.Kind(source) {
	case types.KindTuple:
		sourceElems = v.TupleElements(source)
	case types.KindArray:
		if len(targetElems) == 0 || !targetElems[len(targetElems)-1].Rest {
			return false
		}
		el := v.ArrayElement(source)
		for _, te := range targetElems {
			if !te.Rest && !c.isSubtype(el, te.Type, f) {
				return false
			}
		}
		return true
	default:
		return false
	}
	si := 0
	for _, te := range targetElems {
		if te.Rest {
			for ; si < len(sourceElems); si++ {
				if !c.isSubtype(sourceElems[si].Type, te.Type, f) {
					return false
				}
			}
			continue
		}
		if si >= len(sourceElems) {
			if te.Optional {
				continue
			}
			return false
		}
		if !c.isSubtype(sourceElems[si].Type, te.Type, f) {
			return false
		}
		si++
	}
	return si >= len(sourceElems) || len(targetElems) == 0
}

// arraySubtype: covariant element; array <= tuple only if the tuple has a
// rest tail.
func (c *Checker) arraySubtype(source, target types.TypeId, f flags.Flags) bool {
	v := c.in.View()
	el := v.ArrayElement(target)
	switch v.Kind(source) {
	case types.KindArray:
		return c.isSubtype(v.ArrayElement(source), el, f)
	case types.KindTuple:
		elems := v.TupleElements(source)
		for _, te := range elems {
			if !c.isSubtype(te.Type, el, f) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func (c *Checker) templateLiteralSubtype(source, target types.TypeId, f flags.Flags) bool {
	v := c.in.View()
	if s, ok := v.LiteralStringValue(source); ok {
		pattern, _ := v.TemplateSpans(target)
		return matchesTemplatePattern(c.in, s, pattern)
	}
	return false
}

func matchesTemplatePattern(in *types.Interner, s string, spans []types.TemplateSpan) bool {
	// A minimal literal/union-fill pattern match: walk fixed text spans as
	// anchors and accept any fill for interpolated spans whose type is
	// string/number/bigint/boolean or a union thereof (full enumeration of
	// the fill's possible values is left to the Evaluator's eager expansion
	// when the interpolated types are literal unions).
	i := 0
	for k, sp := range spans {
		if sp.IsText {
			text := in.ResolveAtom(sp.Text)
			if len(s)-i < len(text) || s[i:i+len(text)] != text {
				return false
			}
			i += len(text)
			continue
		}
		// Greedily consume until the next literal anchor or end of string.
		if k+1 < len(spans) && spans[k+1].IsText {
			next := in.ResolveAtom(spans[k+1].Text)
			j := len(s) - len(next)
			for j >= i && s[j:j+len(next)] != next {
				j--
			}
			if j < i {
				return false
			}
			i = j
		} else {
			i = len(s)
		}
	}
	return i == len(s)
}

func (c *Checker) enumSubtype(source, target types.TypeId, f flags.Flags) bool {
	v := c.in.View()
	targetEnum, _ := v.Enum(target)
	if sourceEnum, ok := v.Enum(source); ok {
		return sourceEnum.Def == targetEnum.Def
	}
	return c.isSubtype(source, targetEnum.MemberType, f)
}
