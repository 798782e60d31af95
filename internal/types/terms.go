package types

// DefId is a stable identity for a named type/value declaration (alias,
// class, interface, enum), independent of file-local symbol numbering; it
// survives binder merges across incremental builds. SymbolId is the
// binder-local symbol identifier. Both are opaque handles owned by the
// binder/Type Environment layer but threaded through type terms that need to
// name a declaration (TypeReference, Lazy, Application, Enum).
type DefId uint64
type SymbolId uint64

// PropertyInfo describes one member of an object/callable shape.
type PropertyInfo struct {
	Name       Atom
	ReadType   TypeId
	WriteType  TypeId // equal to ReadType unless a setter narrows/widens it
	Optional   bool
	Readonly   bool
	IsMethod   bool
	Visibility Visibility
	Parent     DefId // declaring class/interface, 0 if none
}

type Visibility uint8

const (
	VisibilityPublic Visibility = iota
	VisibilityProtected
	VisibilityPrivate
)

// TupleElement is one slot of a Tuple type term.
type TupleElement struct {
	Type     TypeId
	Name     Atom // 0 if unnamed
	Optional bool
	Rest     bool
}

// TemplateSpan is one piece of a TemplateLiteral type: either literal text or
// an interpolated type.
type TemplateSpan struct {
	IsText bool
	Text   Atom
	Type   TypeId
}

// ObjectShape is the content of an Object/ObjectWithIndex type term.
// Properties are sorted by Name (atom numeric order) as an interning
// postcondition, which is what lets property lookup binary-search and what
// lets two structurally equal objects share one ObjectShapeId.
type ObjectShape struct {
	Properties  []PropertyInfo
	StringIndex *IndexSignature
	NumberIndex *IndexSignature
	SymbolProps []PropertyInfo
	Flags       ObjectFlags
}

type ObjectFlags uint8

const (
	ObjectFlagFresh ObjectFlags = 1 << iota // fresh object literal: subject to excess-property checks
	ObjectFlagClassInstance
	ObjectFlagReadonly
)

type IndexSignature struct {
	ValueType TypeId
	Readonly  bool
}

// Signature is one call or construct signature of a Callable/Function shape.
type Signature struct {
	TypeParams     []TypeId // TypeParameter TypeIds in scope for this signature
	Params         []Param
	ThisType       TypeId // 0 if none
	ReturnType     TypeId
	TypePredicate  *TypePredicate
	IsConstructor  bool
	IsMethod       bool
}

type Param struct {
	Name     Atom
	Type     TypeId
	Optional bool
	Rest     bool
}

type TypePredicate struct {
	ParamName Atom // 0 means "this"
	Type      TypeId
	Asserts   bool
}

// CallableShape backs the Callable kind: overloaded call/construct
// signatures plus ordinary properties (e.g. a function object with static
// members) and optional index signatures.
type CallableShape struct {
	CallSignatures      []Signature
	ConstructSignatures []Signature
	Properties          []PropertyInfo
	StringIndex         *IndexSignature
	NumberIndex         *IndexSignature
}

// FunctionShape backs the Function kind: a single signature, the common case
// (arrow functions, method shorthand, plain function declarations).
type FunctionShape struct {
	Signature
}

// TypeParameterInfo is the payload of a TypeParameter type term.
type TypeParameterInfo struct {
	Symbol     SymbolId
	Name       Atom
	Constraint TypeId // 0 if none
	Default    TypeId // 0 if none
	IsConst    bool
	IsInfer    bool // introduced by an `infer X` position
}

// SymbolRef names a TypeReference's target declaration plus any supplied
// type arguments (for a bare reference to a generic without Application
// wrapping, e.g. inside its own recursive definition).
type SymbolRef struct {
	Def  DefId
	Args TypeListId // 0 if non-generic or no args supplied yet
}

// ConditionalPayload backs the Conditional kind.
type ConditionalPayload struct {
	Check       TypeId
	Extends     TypeId
	TrueBranch  TypeId
	FalseBranch TypeId
}

type MappedModifier uint8

const (
	ModifierNone MappedModifier = iota
	ModifierAdd
	ModifierRemove
)

// MappedPayload backs the Mapped kind: `{ [K in Constraint as NameType]: Template }`.
type MappedPayload struct {
	TypeParam        TypeId // the TypeParameter TypeId bound by `in`
	Constraint       TypeId
	NameType         TypeId // 0 if no `as` clause
	Template         TypeId
	ReadonlyModifier MappedModifier
	QuestionModifier MappedModifier
}

// IndexAccessPayload backs IndexAccess (`T[K]`).
type IndexAccessPayload struct {
	Object TypeId
	Index  TypeId
}

// ApplicationPayload backs a not-yet-reduced generic instantiation `Base<Args...>`.
type ApplicationPayload struct {
	Base TypeId
	Args TypeListId
}

// EnumPayload backs Enum(DefId, memberType).
type EnumPayload struct {
	Def        DefId
	MemberType TypeId // underlying literal union, or single literal for one member
}

// term is the internal storage record for one interned type. Exactly one of
// the payload fields is meaningful, selected by Kind — Go has no tagged
// union, so we dispatch on Kind and type-assert the matching field.
type term struct {
	kind    Kind
	scalarF uint64 // LiteralNumber bits / LiteralBoolean(0/1) / UniqueSymbol SymbolId
	atom    Atom   // LiteralString atom / BigInt digits atom
	neg     bool   // LiteralBigInt sign
	list    TypeListId
	tuple   TupleListId
	tmpl    TemplateListId
	objShape ObjectShapeId
	fnShape  FunctionShapeId
	callShape CallableShapeId
	inner   TypeId // Array element / ReadonlyType inner / NoInfer inner / KeyOf inner
	ref     SymbolRef
	lazy    DefId
	app     ApplicationPayload
	cond    *ConditionalPayload
	mapped  *MappedPayload
	idx     *IndexAccessPayload
	tparam  *TypeParameterInfo
	enum    *EnumPayload
}
