package subtype

import (
	"github.com/novalang/novac/internal/flags"
	"github.com/novalang/novac/internal/types"
)

// nominalSubtype compares two bare TypeReferences (no supplied args, or
// classes/interfaces compared by DefId identity rather than structurally;
// generic classes/interfaces compare via DefId and a variance mask.
func (c *Checker) nominalSubtype(source, target types.TypeId, f flags.Flags) bool {
	v := c.in.View()
	tRef, ok := v.Reference(target)
	if !ok {
		return false
	}
	sRef, ok := v.Reference(source)
	if !ok || sRef.Def != tRef.Def {
		return false
	}
	if tRef.Args == 0 && sRef.Args == 0 {
		return true
	}
	sArgs, tArgs := c.in.ListOf(sRef.Args), c.in.ListOf(tRef.Args)
	if c.variance == nil {
		return allArgsEqual(sArgs, tArgs)
	}
	mask := c.variance.VarianceOf(tRef.Def)
	return c.compareArgsByVariance(sArgs, tArgs, mask, f)
}

func (c *Checker) compareArgsByVariance(sArgs, tArgs []types.TypeId, mask []Variance, f flags.Flags) bool {
	if len(sArgs) != len(tArgs) {
		return false
	}
	for i := range sArgs {
		vr := Invariant
		if i < len(mask) {
			vr = mask[i]
		}
		switch vr {
		case Covariant:
			if !c.isSubtype(sArgs[i], tArgs[i], f) {
				return false
			}
		case Contravariant:
			if !c.isSubtype(tArgs[i], sArgs[i], f) {
				return false
			}
		case Bivariant:
			if !c.isSubtype(sArgs[i], tArgs[i], f) && !c.isSubtype(tArgs[i], sArgs[i], f) {
				return false
			}
		case Independent:
		default:
			if !c.isSubtype(sArgs[i], tArgs[i], f) || !c.isSubtype(tArgs[i], sArgs[i], f) {
				return false
			}
		}
	}
	return true
}

func (c *Checker) applicationSubtype(source, target types.TypeId, f flags.Flags) bool {
	v := c.in.View()
	tBase, tArgs, _ := v.Application(target)
	sBase, sArgs, ok := v.Application(source)
	if !ok || sBase != tBase {
		// Different (or absent) generic identity: fall back to structural
		// comparison of the evaluated forms via the Evaluator, which the
		// caller already ran before dispatch reached here for non-nominal
		// bases. Identity mismatch on a nominal base is never a subtype.
		return false
	}
	if c.variance == nil {
		return allArgsEqual(sArgs, tArgs)
	}
	def, _ := v.Reference(tBase)
	mask := c.variance.VarianceOf(def.Def)
	return c.compareArgsByVariance(sArgs, tArgs, mask, f)
}

func allArgsEqual(a, b []types.TypeId) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
