// Package types is the type interner: the hash-consed, immutable type-term
// graph described by the checker design (type graph component). Every type
// in the system is a TypeId, a 32-bit handle into the Interner. Structural
// equality on type terms is, by construction, equality of their TypeId.
package types

// TypeId is an interned type-term handle. Low-numbered values are reserved
// sentinel intrinsics; see the Sentinel* constants below.
type TypeId uint32

// Atom is an interned, deduplicated string handle (property names, literal
// string values, template-literal text spans).
type Atom uint32

// TypeListId, TupleListId and TemplateListId are interned handles to
// immutable slices of TypeId / TupleElement / TemplateSpan respectively.
type TypeListId uint32
type TupleListId uint32
type TemplateListId uint32

// ObjectShapeId, FunctionShapeId and CallableShapeId are interned handles to
// structural shapes, deduplicated by content so that two objects with the
// same property set collapse to one shape.
type ObjectShapeId uint32
type FunctionShapeId uint32
type CallableShapeId uint32

// Sentinel intrinsic TypeIds. These occupy the lowest TypeId values and are
// never evicted; Interner.intern returns them unchanged for the matching
// IntrinsicKind.
const (
	Any TypeId = iota
	Unknown
	Never
	Void
	Null
	Undefined
	String
	Number
	Boolean
	BigInt
	Symbol
	Object
	ErrorType
	firstDynamicTypeId
)

// Kind tags the variant of a type term. One variant per entry in spec
// section 3.1.
type Kind uint8

const (
	KindIntrinsic Kind = iota
	KindLiteralString
	KindLiteralNumber
	KindLiteralBoolean
	KindLiteralBigInt
	KindUnion
	KindIntersection
	KindArray
	KindTuple
	KindObject
	KindObjectWithIndex
	KindCallable
	KindFunction
	KindTypeParameter
	KindTypeReference
	KindLazy
	KindApplication
	KindConditional
	KindMapped
	KindIndexAccess
	KindKeyOf
	KindTemplateLiteral
	KindEnum
	KindUniqueSymbol
	KindReadonly
	KindNoInfer
)

func (k Kind) String() string {
	names := [...]string{
		"Intrinsic", "LiteralString", "LiteralNumber", "LiteralBoolean", "LiteralBigInt",
		"Union", "Intersection", "Array", "Tuple", "Object", "ObjectWithIndex",
		"Callable", "Function", "TypeParameter", "TypeReference", "Lazy",
		"Application", "Conditional", "Mapped", "IndexAccess", "KeyOf",
		"TemplateLiteral", "Enum", "UniqueSymbol", "Readonly", "NoInfer",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "Unknown"
}
