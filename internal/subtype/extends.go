package subtype

import (
	"github.com/novalang/novac/internal/evaluator"
	"github.com/novalang/novac/internal/flags"
	"github.com/novalang/novac/internal/types"
)

// TestExtends implements the Evaluator's ExtendsTester capability: it runs
// the same structural comparison as IsSubtypeOf, except that wherever it
// encounters a `target` TypeParameter with IsInfer set, it records the
// corresponding `source` subterm as that parameter's inferred binding
// instead of continuing the structural comparison, so the extends test's
// result reflects any inferred bindings collected along the way.
func (c *Checker) TestExtends(check, extendsType types.TypeId, f flags.Flags) evaluator.ExtendsResult {
	inferred := make(map[types.TypeId]types.TypeId)
	matches := c.extendsWithInfer(check, extendsType, f, inferred)
	return evaluator.ExtendsResult{Matches: matches, Inferred: inferred}
}

func (c *Checker) extendsWithInfer(check, extendsType types.TypeId, f flags.Flags, inferred map[types.TypeId]types.TypeId) bool {
	v := c.in.View()
	if info, ok := v.TypeParameterInfo(extendsType); ok && info.IsInfer {
		if existing, ok := inferred[extendsType]; ok {
			return c.isSubtype(check, existing, f)
		}
		inferred[extendsType] = check
		return true
	}

	switch v.Kind(extendsType) {
	case types.KindArray:
		if v.Kind(check) == types.KindArray {
			return c.extendsWithInfer(v.ArrayElement(check), v.ArrayElement(extendsType), f, inferred)
		}
		return c.isSubtype(check, extendsType, f)
	case types.KindTuple:
		if v.Kind(check) == types.KindTuple {
			ce, ee := v.TupleElements(check), v.TupleElements(extendsType)
			if len(ce) != len(ee) {
				return c.isSubtype(check, extendsType, f)
			}
			for i := range ce {
				if !c.extendsWithInfer(ce[i].Type, ee[i].Type, f, inferred) {
					return false
				}
			}
			return true
		}
		return c.isSubtype(check, extendsType, f)
	case types.KindFunction:
		if checkSig, ok := v.FunctionSignature(check); ok {
			extSig, _ := v.FunctionSignature(extendsType)
			if len(checkSig.Params) == len(extSig.Params) {
				ok := true
				for i := range checkSig.Params {
					if !c.extendsWithInfer(extSig.Params[i].Type, checkSig.Params[i].Type, f, inferred) {
						ok = false
						break
					}
				}
				if ok {
					return c.extendsWithInfer(checkSig.ReturnType, extSig.ReturnType, f, inferred)
				}
			}
		}
		return c.isSubtype(check, extendsType, f)
	default:
		return c.isSubtype(check, extendsType, f)
	}
}
