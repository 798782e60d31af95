package infer

import (
	"github.com/novalang/novac/internal/flags"
	"github.com/novalang/novac/internal/types"
)

// constrain is the structural walker that drives inference. It
// checks for a raw NoInfer wrapper before reducing to head-normal form,
// since the Evaluator strips NoInfer unconditionally (internal/access uses
// the same pre-evaluation interception trick for TypeReference).
func (s *Session) constrain(source, target types.TypeId, priority Priority, f flags.Flags, depth int) {
	if depth > maxConstrainDepth {
		return
	}
	v := s.ctx.in.View()

	if _, ok := v.NoInferInner(target); ok {
		return
	}

	source = s.ctx.eval.Evaluate(source, f)
	target = s.ctx.eval.Evaluate(target, f)

	if s.placeholders[target] {
		s.addLower(target, source, priority)
		return
	}
	if s.placeholders[source] {
		s.addUpper(source, target)
		return
	}
	if source == target {
		return
	}

	switch v.Kind(target) {
	case types.KindUnion:
		members := v.UnionMembers(target)
		var withPlaceholder []types.TypeId
		for _, m := range members {
			if s.containsPlaceholder(m, 0) {
				withPlaceholder = append(withPlaceholder, m)
			}
		}
		for _, m := range withPlaceholder {
			s.constrain(source, m, priority, f, depth+1)
		}
		return

	case types.KindFunction, types.KindCallable:
		s.constrainCallable(source, target, priority, f, depth)
		return

	case types.KindTuple:
		s.constrainTuple(source, target, priority, f, depth)
		return

	case types.KindArray:
		elem := v.ArrayElement(target)
		switch v.Kind(source) {
		case types.KindArray:
			s.constrain(v.ArrayElement(source), elem, priority, f, depth+1)
		case types.KindTuple:
			for _, el := range v.TupleElements(source) {
				s.constrain(el.Type, elem, priority, f, depth+1)
			}
		}
		return

	case types.KindObject, types.KindObjectWithIndex:
		s.constrainObject(source, target, priority, f, depth)
		return

	case types.KindMapped:
		s.constrainMapped(source, target, priority, f, depth)
		return
	}
}

func (s *Session) constrainCallable(source, target types.TypeId, priority Priority, f flags.Flags, depth int) {
	v := s.ctx.in.View()
	tSig, ok := v.FunctionSignature(target)
	if !ok {
		if cs, ok2 := v.CallableShape(target); ok2 && len(cs.CallSignatures) > 0 {
			tSig = cs.CallSignatures[0]
		} else {
			return
		}
	}
	sSig, ok := v.FunctionSignature(source)
	if !ok {
		if cs, ok2 := v.CallableShape(source); ok2 && len(cs.CallSignatures) > 0 {
			sSig = cs.CallSignatures[0]
		} else {
			return
		}
	}

	for i := range tSig.Params {
		if i >= len(sSig.Params) {
			break
		}
		// Parameters are contravariant: swap source/target when recursing.
		s.constrain(tSig.Params[i].Type, sSig.Params[i].Type, PriorityContravariant, f, depth+1)
	}
	if tSig.ThisType != 0 && sSig.ThisType != 0 {
		s.constrain(tSig.ThisType, sSig.ThisType, PriorityContravariant, f, depth+1)
	}
	if tSig.TypePredicate != nil && sSig.TypePredicate != nil {
		s.constrain(sSig.TypePredicate.Type, tSig.TypePredicate.Type, priority, f, depth+1)
	}
	s.constrain(sSig.ReturnType, tSig.ReturnType, priority, f, depth+1)
}

func (s *Session) constrainTuple(source, target types.TypeId, priority Priority, f flags.Flags, depth int) {
	v := s.ctx.in.View()
	tElems := v.TupleElements(target)
	var sElems []types.TupleElement
	switch v.Kind(source) {
	case types.KindTuple:
		sElems = v.TupleElements(source)
	case types.KindArray:
		sElems = []types.TupleElement{{Type: v.ArrayElement(source), Rest: true}}
	default:
		return
	}

	si := 0
	for _, te := range tElems {
		if te.Rest {
			// Trailing rest placeholder: infer a tuple type from whatever
			// source elements remain.
			if s.placeholders[te.Type] {
				rest := append([]types.TupleElement(nil), sElems[si:]...)
				s.addLower(te.Type, s.ctx.in.Tuple(rest), priority)
				return
			}
			for ; si < len(sElems); si++ {
				s.constrain(sElems[si].Type, te.Type, priority, f, depth+1)
			}
			return
		}
		if si >= len(sElems) {
			if te.Optional {
				s.constrainOptionalMiss(te.Type, priority)
			}
			continue
		}
		s.constrain(sElems[si].Type, te.Type, priority, f, depth+1)
		si++
	}
}

func (s *Session) constrainObject(source, target types.TypeId, priority Priority, f flags.Flags, depth int) {
	v := s.ctx.in.View()
	targetShape, ok := v.ObjectShape(target)
	if !ok {
		return
	}
	sourceShape, hasSourceShape := v.ObjectShape(source)

	for _, tp := range targetShape.Properties {
		var matched bool
		if hasSourceShape {
			for _, sp := range sourceShape.Properties {
				if sp.Name == tp.Name {
					s.constrain(sp.ReadType, tp.ReadType, PriorityPropertyWise, f, depth+1)
					matched = true
					break
				}
			}
		}
		if !matched && tp.Optional && !s.placeholders[tp.ReadType] {
			s.constrainOptionalMiss(tp.ReadType, PriorityPropertyWise)
		}
	}

	if targetShape.StringIndex != nil {
		if hasSourceShape && sourceShape.StringIndex != nil {
			s.constrain(sourceShape.StringIndex.ValueType, targetShape.StringIndex.ValueType, priority, f, depth+1)
		}
		for _, sp := range sourceShapePropertiesOrEmpty(sourceShape, hasSourceShape) {
			s.constrain(sp.ReadType, targetShape.StringIndex.ValueType, priority, f, depth+1)
		}
	}
}

func sourceShapePropertiesOrEmpty(shape types.ObjectShape, ok bool) []types.PropertyInfo {
	if !ok {
		return nil
	}
	return shape.Properties
}

// constrainOptionalMiss adds `undefined` as a lower-bound candidate for any
// placeholder reachable inside an optional target property with no source
// counterpart.
func (s *Session) constrainOptionalMiss(targetPropType types.TypeId, priority Priority) {
	if s.placeholders[targetPropType] {
		return
	}
	v := s.ctx.in.View()
	if v.Kind(targetPropType) == types.KindUnion {
		for _, m := range v.UnionMembers(targetPropType) {
			if s.placeholders[m] {
				s.addLower(m, types.Undefined, priority)
			}
		}
	}
}

func (s *Session) constrainMapped(source, target types.TypeId, priority Priority, f flags.Flags, depth int) {
	v := s.ctx.in.View()
	mp, ok := v.Mapped(target)
	if !ok || !s.placeholders[mp.Constraint] {
		return
	}
	sourceShape, ok := v.ObjectShape(source)
	if !ok {
		return
	}
	keyMembers := make([]types.TypeId, len(sourceShape.Properties))
	for i, p := range sourceShape.Properties {
		keyMembers[i] = s.ctx.in.LiteralString(s.ctx.in.ResolveAtom(p.Name))
	}
	s.addLower(mp.Constraint, s.ctx.in.Union(keyMembers), priority)

	if s.placeholders[mp.Template] {
		members := make([]types.TypeId, len(sourceShape.Properties))
		for i, p := range sourceShape.Properties {
			members[i] = p.ReadType
		}
		s.addLower(mp.Template, s.ctx.in.Union(members), priority)
	}
}

// containsPlaceholder reports whether t mentions any of this session's
// inference variables, used to pick which union members to descend into
//.
func (s *Session) containsPlaceholder(t types.TypeId, depth int) bool {
	if depth > maxConstrainDepth {
		return false
	}
	if s.placeholders[t] {
		return true
	}
	if s.seen == nil {
		s.seen = make(map[types.TypeId]bool)
	}
	if cached, ok := s.seen[t]; ok {
		return cached
	}
	s.seen[t] = false // breaks recursive-type cycles pessimistically while this call is in flight
	result := s.computeContainsPlaceholder(t, depth)
	s.seen[t] = result
	return result
}

func (s *Session) computeContainsPlaceholder(t types.TypeId, depth int) bool {
	v := s.ctx.in.View()
	switch v.Kind(t) {
	case types.KindUnion:
		for _, m := range v.UnionMembers(t) {
			if s.containsPlaceholder(m, depth+1) {
				return true
			}
		}
	case types.KindIntersection:
		for _, m := range v.IntersectionMembers(t) {
			if s.containsPlaceholder(m, depth+1) {
				return true
			}
		}
	case types.KindArray:
		return s.containsPlaceholder(v.ArrayElement(t), depth+1)
	case types.KindTuple:
		for _, el := range v.TupleElements(t) {
			if s.containsPlaceholder(el.Type, depth+1) {
				return true
			}
		}
	case types.KindObject, types.KindObjectWithIndex:
		shape, _ := v.ObjectShape(t)
		for _, p := range shape.Properties {
			if s.containsPlaceholder(p.ReadType, depth+1) {
				return true
			}
		}
	case types.KindFunction:
		sig, _ := v.FunctionSignature(t)
		for _, p := range sig.Params {
			if s.containsPlaceholder(p.Type, depth+1) {
				return true
			}
		}
		return s.containsPlaceholder(sig.ReturnType, depth+1)
	}
	return false
}
