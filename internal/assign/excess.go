package assign

import (
	"fmt"

	"github.com/novalang/novac/internal/flags"
	"github.com/novalang/novac/internal/types"
)

// ExcessPropertyError names the offending property of an excess-property
// violation.
type ExcessPropertyError struct {
	PropertyName string
}

func (e *ExcessPropertyError) Error() string {
	return fmt.Sprintf("object literal may only specify known properties, and %q does not exist in the target type", e.PropertyName)
}

// excessPropertyCheck enforces the excess-property rule: a *fresh* object
// literal source (ObjectFlagFresh) assigned directly to a non-index target
// shape may not carry properties the target doesn't declare. The freshness
// flag is what distinguishes `const p: P = {x:1,y:2}` (checked) from
// `const tmp = {x:1,y:2}; const p: P = tmp;` (not checked, spec scenario 5:
// "assigning the same literal via an intermediate variable produces no
// diagnostic") — by the time `tmp`'s declared type is read back, the shape
// interned for it no longer carries ObjectFlagFresh.
func (c *Checker) excessPropertyCheck(source, target types.TypeId, f flags.Flags) error {
	v := c.in.View()
	sourceShape, ok := v.ObjectShape(source)
	if !ok || sourceShape.Flags&types.ObjectFlagFresh == 0 {
		return nil
	}
	targetShape, ok := v.ObjectShape(target)
	if !ok {
		return nil
	}
	if targetShape.StringIndex != nil {
		return nil
	}
	known := make(map[types.Atom]bool, len(targetShape.Properties))
	for _, p := range targetShape.Properties {
		known[p.Name] = true
	}
	for _, p := range sourceShape.Properties {
		if !known[p.Name] {
			return &ExcessPropertyError{PropertyName: c.in.ResolveAtom(p.Name)}
		}
	}
	return nil
}
