package types

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

const shardCount = 16

type shard struct {
	mu    sync.RWMutex
	index map[string]TypeId
}

// Interner is the process-wide, thread-safe type-term hash-cons table (spec
// section 4.1). It lives for the whole compilation. Interning is sharded by
// a cheap hash of the canonical key so that concurrent parse+bind workers
// interning distinct shapes rarely contend on the same lock").
type Interner struct {
	shards [shardCount]*shard

	recMu   sync.Mutex
	records []term

	atoms *atomTable

	listMu sync.Mutex
	lists  []TypeListId
	listData map[TypeListId][]TypeId

	tupleMu   sync.Mutex
	tupleData map[TupleListId][]TupleElement
	nextTuple TupleListId

	tmplMu   sync.Mutex
	tmplData map[TemplateListId][]TemplateSpan
	nextTmpl TemplateListId

	objMu   sync.Mutex
	objData map[ObjectShapeId]ObjectShape
	nextObj ObjectShapeId

	fnMu   sync.Mutex
	fnData map[FunctionShapeId]FunctionShape
	nextFn FunctionShapeId

	callMu   sync.Mutex
	callData map[CallableShapeId]CallableShape
	nextCall CallableShapeId

	nextList TypeListId

	// unitCache memoizes IsUnitType, which is consulted heavily by the
	// evaluator's literal-key union materialization.
	unitMu    sync.Mutex
	unitCache map[TypeId]bool
}

// NewInterner creates an Interner pre-seeded with the sentinel intrinsics at
// their reserved low TypeIds.
func NewInterner() *Interner {
	in := &Interner{
		atoms:     newAtomTable(),
		listData:  make(map[TypeListId][]TypeId),
		tupleData: make(map[TupleListId][]TupleElement),
		tmplData:  make(map[TemplateListId][]TemplateSpan),
		objData:   make(map[ObjectShapeId]ObjectShape),
		fnData:    make(map[FunctionShapeId]FunctionShape),
		callData:  make(map[CallableShapeId]CallableShape),
		unitCache: make(map[TypeId]bool),
	}
	for i := range in.shards {
		in.shards[i] = &shard{index: make(map[string]TypeId, 256)}
	}
	sentinelNames := []string{
		"any", "unknown", "never", "void", "null", "undefined",
		"string", "number", "boolean", "bigint", "symbol", "object", "error",
	}
	for range sentinelNames {
		in.records = append(in.records, term{kind: KindIntrinsic})
	}
	return in
}

func (in *Interner) shardFor(key string) *shard {
	var h uint32 = 2166136261
	for i := 0; i < len(key); i++ {
		h ^= uint32(key[i])
		h *= 16777619
	}
	return in.shards[h%shardCount]
}

// internKeyed is the single chokepoint for hash-consing: given a canonical
// string key (produced by a constructor after it has already canonicalized
// its arguments) and a factory for the term payload, returns the existing
// TypeId for that key or allocates a fresh one.
func (in *Interner) internKeyed(key string, make_ func() term) TypeId {
	sh := in.shardFor(key)
	sh.mu.RLock()
	if id, ok := sh.index[key]; ok {
		sh.mu.RUnlock()
		return id
	}
	sh.mu.RUnlock()

	sh.mu.Lock()
	defer sh.mu.Unlock()
	if id, ok := sh.index[key]; ok {
		return id
	}
	in.recMu.Lock()
	id := TypeId(len(in.records))
	in.records = append(in.records, make_())
	in.recMu.Unlock()
	sh.index[key] = id
	return id
}

// Lookup is total on valid IDs: every TypeId ever returned by a constructor
// resolves back to its term.
func (in *Interner) lookup(id TypeId) term {
	in.recMu.Lock()
	defer in.recMu.Unlock()
	if int(id) >= len(in.records) {
		return term{kind: KindIntrinsic}
	}
	return in.records[id]
}

// KindOf returns the tagged kind of a TypeId without exposing the payload.
func (in *Interner) KindOf(id TypeId) Kind { return in.lookup(id).kind }

// InternString interns a string into an Atom.
func (in *Interner) InternString(s string) Atom { return in.atoms.intern(s) }

// ResolveAtom returns the string a previously-interned Atom stands for.
func (in *Interner) ResolveAtom(a Atom) string { return in.atoms.resolve(a) }

// --- list pools ---

func (in *Interner) internList(members []TypeId) TypeListId {
	key := make([]byte, 0, len(members)*5)
	for _, m := range members {
		key = appendUint32(key, uint32(m))
	}
	in.listMu.Lock()
	defer in.listMu.Unlock()
	for id, data := range in.listData {
		if sameTypeIds(data, members) {
			return id
		}
	}
	in.nextList++
	id := in.nextList
	cp := append([]TypeId(nil), members...)
	in.listData[id] = cp
	return id
}

func (in *Interner) ListOf(id TypeListId) []TypeId { return in.listData[id] }

func sameTypeIds(a, b []TypeId) bool {
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

func appendUint32(b []byte, v uint32) []byte {
	return append(b, byte(v), byte(v>>8), byte(v>>16), byte(v>>24), '|')
}

// --- tuple list pool ---

func (in *Interner) internTupleList(elems []TupleElement) TupleListId {
	in.tupleMu.Lock()
	defer in.tupleMu.Unlock()
	for id, data := range in.tupleData {
		if sameTupleElems(data, elems) {
			return id
		}
	}
	in.nextTuple++
	id := in.nextTuple
	in.tupleData[id] = append([]TupleElement(nil), elems...)
	return id
}

func (in *Interner) TupleOf(id TupleListId) []TupleElement { return in.tupleData[id] }

func sameTupleElems(a, b []TupleElement) bool {
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

// --- template span pool ---

func (in *Interner) internTemplateList(spans []TemplateSpan) TemplateListId {
	in.tmplMu.Lock()
	defer in.tmplMu.Unlock()
	for id, data := range in.tmplData {
		if sameSpans(data, spans) {
			return id
		}
	}
	in.nextTmpl++
	id := in.nextTmpl
	in.tmplData[id] = append([]TemplateSpan(nil), spans...)
	return id
}

func (in *Interner) TemplateOf(id TemplateListId) []TemplateSpan { return in.tmplData[id] }

func sameSpans(a, b []TemplateSpan) bool {
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

// --- object shapes ---

func (in *Interner) internObjectShape(shape ObjectShape) ObjectShapeId {
	key := objectShapeKey(shape)
	in.objMu.Lock()
	defer in.objMu.Unlock()
	for id, data := range in.objData {
		if objectShapeKey(data) == key {
			return id
		}
	}
	in.nextObj++
	id := in.nextObj
	in.objData[id] = shape
	return id
}

func (in *Interner) ObjectShapeOf(id ObjectShapeId) ObjectShape { return in.objData[id] }

func objectShapeKey(s ObjectShape) string {
	var b strings.Builder
	for _, p := range s.Properties {
		fmt.Fprintf(&b, "%d:%d:%d:%v:%v:%v:%d;", p.Name, p.ReadType, p.WriteType, p.Optional, p.Readonly, p.IsMethod, p.Parent)
	}
	if s.StringIndex != nil {
		fmt.Fprintf(&b, "si%d:%v;", s.StringIndex.ValueType, s.StringIndex.Readonly)
	}
	if s.NumberIndex != nil {
		fmt.Fprintf(&b, "ni%d:%v;", s.NumberIndex.ValueType, s.NumberIndex.Readonly)
	}
	for _, p := range s.SymbolProps {
		fmt.Fprintf(&b, "sp%d:%d;", p.Name, p.ReadType)
	}
	fmt.Fprintf(&b, "f%d", s.Flags)
	return b.String()
}

// --- function/callable shapes ---

func (in *Interner) internFunctionShape(fs FunctionShape) FunctionShapeId {
	key := signatureKey(fs.Signature)
	in.fnMu.Lock()
	defer in.fnMu.Unlock()
	for id, data := range in.fnData {
		if signatureKey(data.Signature) == key {
			return id
		}
	}
	in.nextFn++
	id := in.nextFn
	in.fnData[id] = fs
	return id
}

func (in *Interner) FunctionShapeOf(id FunctionShapeId) FunctionShape { return in.fnData[id] }

func signatureKey(s Signature) string {
	var b strings.Builder
	for _, tp := range s.TypeParams {
		fmt.Fprintf(&b, "tp%d;", tp)
	}
	for _, p := range s.Params {
		fmt.Fprintf(&b, "p%d:%d:%v:%v;", p.Name, p.Type, p.Optional, p.Rest)
	}
	fmt.Fprintf(&b, "this%d;ret%d;ctor%v;method%v", s.ThisType, s.ReturnType, s.IsConstructor, s.IsMethod)
	if s.TypePredicate != nil {
		fmt.Fprintf(&b, "pred%d:%d:%v", s.TypePredicate.ParamName, s.TypePredicate.Type, s.TypePredicate.Asserts)
	}
	return b.String()
}

func (in *Interner) internCallableShape(cs CallableShape) CallableShapeId {
	var b strings.Builder
	for _, sig := range cs.CallSignatures {
		b.WriteString("c:")
		b.WriteString(signatureKey(sig))
	}
	for _, sig := range cs.ConstructSignatures {
		b.WriteString("n:")
		b.WriteString(signatureKey(sig))
	}
	key := b.String()
	in.callMu.Lock()
	defer in.callMu.Unlock()
	for id, data := range in.callData {
		var b2 strings.Builder
		for _, sig := range data.CallSignatures {
			b2.WriteString("c:")
			b2.WriteString(signatureKey(sig))
		}
		for _, sig := range data.ConstructSignatures {
			b2.WriteString("n:")
			b2.WriteString(signatureKey(sig))
		}
		if b2.String() == key {
			return id
		}
	}
	in.nextCall++
	id := in.nextCall
	in.callData[id] = cs
	return id
}

func (in *Interner) CallableShapeOf(id CallableShapeId) CallableShape { return in.callData[id] }

// sortTypeIds sorts a slice of TypeId in place; used by union/intersection
// canonicalization.
func sortTypeIds(ids []TypeId) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
