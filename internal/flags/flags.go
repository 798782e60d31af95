// Package flags defines the compiler-flag bitmask threaded through every
// cache key in the solver. It is intentionally dependency-free so every
// solver package (types, typeenv, evaluator, subtype, assign, access,
// infer, variance, narrow, checker, build, config) can import it without
// creating a cycle.
package flags

type Flags uint32

const (
	StrictNullChecks Flags = 1 << iota
	StrictFunctionTypes
	StrictBindCallApply
	StrictPropertyInitialization
	NoImplicitAny
	NoImplicitThis
	UseUnknownInCatchVariables
	AlwaysStrict
	NoImplicitReturns
	NoImplicitOverride
	NoUncheckedIndexedAccess
	ExactOptionalPropertyTypes
	AllowUnreachableCode
	NoCheck
	AllowJs
	CheckJs
)

const AllStrict = StrictNullChecks | StrictFunctionTypes | StrictBindCallApply |
	StrictPropertyInitialization | NoImplicitAny | NoImplicitThis |
	UseUnknownInCatchVariables | AlwaysStrict

func (f Flags) Has(bit Flags) bool { return f&bit != 0 }

func (f Flags) With(bit Flags) Flags { return f | bit }

func (f Flags) Without(bit Flags) Flags { return f &^ bit }
