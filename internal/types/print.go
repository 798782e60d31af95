package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Print renders a TypeId as surface-syntax-like text for diagnostic
// messages and export-signature hashing. It never recurses through a cycle
// indefinitely: recursive references print as their declaration name via
// names, falling back to "#<id>" when the caller has none.
func (in *Interner) Print(t TypeId, names map[DefId]string) string {
	return in.printDepth(t, names, 0)
}

func (in *Interner) printDepth(t TypeId, names map[DefId]string, depth int) string {
	if depth > 64 {
		return "..."
	}
	v := in.View()
	switch t {
	case Any:
		return "any"
	case Unknown:
		return "unknown"
	case Never:
		return "never"
	case Void:
		return "void"
	case Null:
		return "null"
	case Undefined:
		return "undefined"
	case String:
		return "string"
	case Number:
		return "number"
	case Boolean:
		return "boolean"
	case BigInt:
		return "bigint"
	case Symbol:
		return "symbol"
	case Object:
		return "object"
	case ErrorType:
		return "error"
	}
	switch v.Kind(t) {
	case KindLiteralString:
		s, _ := v.LiteralStringValue(t)
		return strconv.Quote(s)
	case KindLiteralNumber:
		n, _ := v.LiteralNumberValue(t)
		return strconv.FormatFloat(n, 'g', -1, 64)
	case KindLiteralBoolean:
		b, _ := v.LiteralBooleanValue(t)
		return strconv.FormatBool(b)
	case KindLiteralBigInt:
		neg, digits, _ := v.LiteralBigIntValue(t)
		if neg {
			return "-" + digits + "n"
		}
		return digits + "n"
	case KindUnion:
		parts := make([]string, 0)
		for _, m := range v.UnionMembers(t) {
			parts = append(parts, in.printDepth(m, names, depth+1))
		}
		return strings.Join(parts, " | ")
	case KindIntersection:
		parts := make([]string, 0)
		for _, m := range v.IntersectionMembers(t) {
			parts = append(parts, in.printDepth(m, names, depth+1))
		}
		return strings.Join(parts, " & ")
	case KindArray:
		return in.printDepth(v.ArrayElement(t), names, depth+1) + "[]"
	case KindTuple:
		parts := make([]string, 0)
		for _, el := range v.TupleElements(t) {
			s := in.printDepth(el.Type, names, depth+1)
			if el.Rest {
				s = "..." + s
			}
			if el.Optional {
				s += "?"
			}
			parts = append(parts, s)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindObject, KindObjectWithIndex:
		shape, _ := v.ObjectShape(t)
		parts := make([]string, 0, len(shape.Properties))
		for _, p := range shape.Properties {
			opt := ""
			if p.Optional {
				opt = "?"
			}
			ro := ""
			if p.Readonly {
				ro = "readonly "
			}
			parts = append(parts, fmt.Sprintf("%s%s%s: %s", ro, in.ResolveAtom(p.Name), opt, in.printDepth(p.ReadType, names, depth+1)))
		}
		if shape.StringIndex != nil {
			parts = append(parts, "[key: string]: "+in.printDepth(shape.StringIndex.ValueType, names, depth+1))
		}
		if shape.NumberIndex != nil {
			parts = append(parts, "[key: number]: "+in.printDepth(shape.NumberIndex.ValueType, names, depth+1))
		}
		return "{ " + strings.Join(parts, "; ") + " }"
	case KindFunction:
		sig, _ := v.FunctionSignature(t)
		return in.printSignature(sig, names, depth)
	case KindCallable:
		cs, _ := v.CallableShape(t)
		if len(cs.CallSignatures) > 0 {
			return in.printSignature(cs.CallSignatures[0], names, depth)
		}
		return "Function"
	case KindTypeReference:
		ref, _ := v.Reference(t)
		name := names[ref.Def]
		if name == "" {
			name = fmt.Sprintf("#%d", ref.Def)
		}
		if ref.Args != 0 {
			args := in.ListOf(ref.Args)
			parts := make([]string, len(args))
			for i, a := range args {
				parts[i] = in.printDepth(a, names, depth+1)
			}
			return name + "<" + strings.Join(parts, ", ") + ">"
		}
		return name
	case KindApplication:
		base, args, _ := v.Application(t)
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = in.printDepth(a, names, depth+1)
		}
		return in.printDepth(base, names, depth+1) + "<" + strings.Join(parts, ", ") + ">"
	case KindLazy:
		def, _ := v.LazyDef(t)
		if name, ok := names[def]; ok {
			return name
		}
		return fmt.Sprintf("#%d", def)
	case KindTypeParameter:
		info, _ := v.TypeParameterInfo(t)
		return in.ResolveAtom(info.Name)
	case KindConditional:
		c, _ := v.Conditional(t)
		return fmt.Sprintf("%s extends %s ? %s : %s",
			in.printDepth(c.Check, names, depth+1), in.printDepth(c.Extends, names, depth+1),
			in.printDepth(c.TrueBranch, names, depth+1), in.printDepth(c.FalseBranch, names, depth+1))
	case KindMapped:
		m, _ := v.Mapped(t)
		return fmt.Sprintf("{ [K in %s]: %s }", in.printDepth(m.Constraint, names, depth+1), in.printDepth(m.Template, names, depth+1))
	case KindIndexAccess:
		ia, _ := v.IndexAccess(t)
		return in.printDepth(ia.Object, names, depth+1) + "[" + in.printDepth(ia.Index, names, depth+1) + "]"
	case KindKeyOf:
		inner, _ := v.KeyOfInner(t)
		return "keyof " + in.printDepth(inner, names, depth+1)
	case KindTemplateLiteral:
		spans, _ := v.TemplateSpans(t)
		var b strings.Builder
		b.WriteString("`")
		for _, s := range spans {
			if s.IsText {
				b.WriteString(in.ResolveAtom(s.Text))
			} else {
				b.WriteString("${")
				b.WriteString(in.printDepth(s.Type, names, depth+1))
				b.WriteString("}")
			}
		}
		b.WriteString("`")
		return b.String()
	case KindEnum:
		e, _ := v.Enum(t)
		if name, ok := names[e.Def]; ok {
			return name
		}
		return fmt.Sprintf("enum#%d", e.Def)
	case KindUniqueSymbol:
		return "unique symbol"
	case KindReadonly:
		inner, _ := v.ReadonlyInner(t)
		return "readonly " + in.printDepth(inner, names, depth+1)
	case KindNoInfer:
		inner, _ := v.NoInferInner(t)
		return "NoInfer<" + in.printDepth(inner, names, depth+1) + ">"
	default:
		return fmt.Sprintf("<?%d>", t)
	}
}

func (in *Interner) printSignature(sig Signature, names map[DefId]string, depth int) string {
	v := in.View()
	parts := make([]string, 0, len(sig.Params))
	for _, p := range sig.Params {
		name := in.ResolveAtom(p.Name)
		opt := ""
		if p.Optional {
			opt = "?"
		}
		rest := ""
		if p.Rest {
			rest = "..."
		}
		parts = append(parts, fmt.Sprintf("%s%s%s: %s", rest, name, opt, in.printDepth(p.Type, names, depth+1)))
	}
	_ = v
	return "(" + strings.Join(parts, ", ") + ") => " + in.printDepth(sig.ReturnType, names, depth+1)
}
