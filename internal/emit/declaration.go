package emit

import (
	"sort"

	"github.com/novalang/novac/internal/symbols"
)

// DeclarationFile renders a `.d.ts`-shaped ambient declaration file for one
// checked source file, given its binder output (for which exported names
// exist and what kind of declaration each one is) and the checker's
// resolved type text for each exported name (checker.ExportedSignatures).
//
// Only declaration-level lowering is implemented here:
// one ambient declaration line per export, using the already-resolved type
// string the checker produced. There is no statement-body lowering (no
// full JS emission) and no import
// re-declaration; a consumer of the emitted `.d.ts` is expected to resolve
// imports the same way the original file did, through internal/resolve.
func DeclarationFile(table *symbols.Table, signatures map[string]string) string {
	p := NewPrinter()

	names := make([]string, 0, len(signatures))
	for name := range signatures {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		sym, ok := table.Lookup(name)
		if !ok || !sym.Exported {
			continue
		}
		sig := signatures[name]
		switch sym.Kind {
		case symbols.KindFunction:
			p.Line("export declare function %s: %s;", name, sig)
		case symbols.KindClass:
			p.Line("export declare class %s %s", name, sig)
		case symbols.KindInterface:
			p.Line("export declare interface %s %s", name, sig)
		case symbols.KindTypeAlias:
			p.Line("export declare type %s = %s;", name, sig)
		case symbols.KindEnum:
			p.Line("export declare const enum %s %s", name, sig)
		default:
			p.Line("export declare const %s: %s;", name, sig)
		}
	}
	return p.String()
}
