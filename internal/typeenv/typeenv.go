// Package typeenv is the Type Environment. It maps the binder's SymbolId/DefId
// identities to interned TypeId terms and exposes the handful of nominal
// queries the solver needs without ever re-deriving them from the AST.
package typeenv

import (
	"sync"

	"github.com/novalang/novac/internal/types"
)

// DefKind classifies what a DefId names.
type DefKind int

const (
	DefUnknown DefKind = iota
	DefTypeAlias
	DefInterface
	DefClass
	DefEnum
	DefFunction
	DefVariable
	DefTypeParameter
)

type defEntry struct {
	kind         DefKind
	typeParams   []types.TypeId
	body         types.TypeId // alias RHS / class-or-interface member-bearing body
	baseType     types.TypeId // heritage: extends/implements target, 0 if none
	numericEnum  bool
	enumMembers  map[string]types.TypeId
	symbol       types.SymbolId
	resolved     bool
}

// Environment resolves symbol/DefId references to type terms. It is rebuilt
// on every incremental bind and handed to the Evaluator/Subtype/Access packages as a
// read-mostly, thread-safe capability — it satisfies the solver's
// TypeResolver abstraction.
type Environment struct {
	in *types.Interner

	mu          sync.RWMutex
	defs        map[types.DefId]*defEntry
	defToSymbol map[types.DefId]types.SymbolId
	symbolToDef map[types.SymbolId]types.DefId

	resolvingMu sync.Mutex
	resolving   map[types.DefId]bool // cycle guard for ResolveLazy
}

func New(in *types.Interner) *Environment {
	return &Environment{
		in:          in,
		defs:        make(map[types.DefId]*defEntry),
		defToSymbol: make(map[types.DefId]types.SymbolId),
		symbolToDef: make(map[types.SymbolId]types.DefId),
		resolving:   make(map[types.DefId]bool),
	}
}

// Declare registers a named declaration. Called by the checker/binder-glue
// layer while merging bind results into the program.
func (e *Environment) Declare(def types.DefId, sym types.SymbolId, kind DefKind, typeParams []types.TypeId, body types.TypeId) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.defs[def] = &defEntry{kind: kind, typeParams: typeParams, body: body, resolved: true}
	e.defToSymbol[def] = sym
	e.symbolToDef[sym] = def
}

// SetBaseType records a class/interface's heritage target (its `extends`/
// `implements` clause resolved to a TypeId, typically an Application or
// TypeReference).
func (e *Environment) SetBaseType(def types.DefId, base types.TypeId) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if entry, ok := e.defs[def]; ok {
		entry.baseType = base
	}
}

// DeclareEnum registers an enum's members and whether it is a numeric enum
//.
func (e *Environment) DeclareEnum(def types.DefId, sym types.SymbolId, numeric bool, members map[string]types.TypeId) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.defs[def] = &defEntry{kind: DefEnum, numericEnum: numeric, enumMembers: members, resolved: true}
	e.defToSymbol[def] = sym
	e.symbolToDef[sym] = def
}

// ResolveRef resolves a TypeReference's SymbolRef (a DefId plus supplied
// type arguments) to a concrete TypeId. For a generic alias with arguments
// already supplied, this wraps the result as an Application so the
// Evaluator can perform substitution lazily; for a non-generic alias it
// returns the body directly.
func (e *Environment) ResolveRef(ref types.SymbolRef) types.TypeId {
	e.mu.RLock()
	entry, ok := e.defs[ref.Def]
	e.mu.RUnlock()
	if !ok {
		return types.ErrorType
	}
	if ref.Args == 0 || len(entry.typeParams) == 0 {
		return entry.body
	}
	return e.in.Application(entry.body, e.in.ListOf(ref.Args))
}

// ResolveLazy resolves an unresolved Lazy(DefId) reference, memoizing and
// tolerating cycles: a def that is already being resolved on the current
// goroutine's call stack returns its partial (possibly still-Lazy) term
// rather than recursing forever — the caller (the Evaluator) is responsible
// for not unfolding further.
func (e *Environment) ResolveLazy(def types.DefId) types.TypeId {
	e.resolvingMu.Lock()
	if e.resolving[def] {
		e.resolvingMu.Unlock()
		e.mu.RLock()
		entry, ok := e.defs[def]
		e.mu.RUnlock()
		if ok {
			return entry.body
		}
		return types.ErrorType
	}
	e.resolving[def] = true
	e.resolvingMu.Unlock()

	defer func() {
		e.resolvingMu.Lock()
		delete(e.resolving, def)
		e.resolvingMu.Unlock()
	}()

	e.mu.RLock()
	entry, ok := e.defs[def]
	e.mu.RUnlock()
	if !ok {
		return types.ErrorType
	}
	return entry.body
}

func (e *Environment) GetTypeParams(def types.DefId) []types.TypeId {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if entry, ok := e.defs[def]; ok {
		return entry.typeParams
	}
	return nil
}

func (e *Environment) DefToSymbol(def types.DefId) (types.SymbolId, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	s, ok := e.defToSymbol[def]
	return s, ok
}

func (e *Environment) SymbolToDef(sym types.SymbolId) (types.DefId, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	d, ok := e.symbolToDef[sym]
	return d, ok
}

// GetBaseType returns the heritage target of a class/interface, or 0 (the
// `any` sentinel reinterpreted as "no base") if it has none.
func (e *Environment) GetBaseType(def types.DefId) (types.TypeId, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	entry, ok := e.defs[def]
	if !ok || entry.baseType == 0 {
		return 0, false
	}
	return entry.baseType, true
}

func (e *Environment) IsNumericEnum(def types.DefId) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	entry, ok := e.defs[def]
	return ok && entry.kind == DefEnum && entry.numericEnum
}

// GetLazyEnumMember looks up one member of an enum by name.
func (e *Environment) GetLazyEnumMember(def types.DefId, name string) (types.TypeId, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	entry, ok := e.defs[def]
	if !ok || entry.enumMembers == nil {
		return 0, false
	}
	t, ok := entry.enumMembers[name]
	return t, ok
}

func (e *Environment) GetDefKind(def types.DefId) DefKind {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if entry, ok := e.defs[def]; ok {
		return entry.kind
	}
	return DefUnknown
}
