package diagnostics

import (
	"fmt"

	"github.com/novalang/novac/internal/token"
)

// Category mirrors the reference compiler's diagnostic category numbering so
// that build-info JSON round-trips the same small integers across runs.
type Category int

const (
	CategoryWarning    Category = 0
	CategoryError      Category = 1
	CategorySuggestion Category = 2
	CategoryMessage    Category = 3
)

func (c Category) String() string {
	switch c {
	case CategoryWarning:
		return "warning"
	case CategoryError:
		return "error"
	case CategorySuggestion:
		return "suggestion"
	case CategoryMessage:
		return "message"
	default:
		return "unknown"
	}
}

// RelatedInfo attaches a secondary source location to a Diagnostic, e.g. the
// location of a conflicting declaration or the base class a property came from.
type RelatedInfo struct {
	File        string
	Start       uint32
	Length      uint32
	MessageText string
}

// Diagnostic is the checker's primary output. Every
// semantic problem produced by the type graph/solver/build driver is one of
// these; nothing in the core ever panics or returns a bare Go error for a
// semantic condition.
type Diagnostic struct {
	File              string
	Start             uint32
	Length            uint32
	Code              uint32
	Category          Category
	MessageText       string
	RelatedInformation []RelatedInfo
}

func (d *Diagnostic) Error() string {
	if d == nil {
		return ""
	}
	return fmt.Sprintf("%s(%d,%d): %s NV%04d: %s", d.File, d.Start, d.Length, d.Category, d.Code, d.MessageText)
}

// Stable numeric diagnostic codes. These intentionally mirror the reference
// compiler's own numbering scheme (four-digit codes per subsystem band) so
// golden-test interop stays possible.
const (
	CodeExcessPropertyLiteral    uint32 = 2353
	CodeTypeNotAssignable        uint32 = 2322
	CodePropertyMissing          uint32 = 2339
	CodeCannotFindModule         uint32 = 2307
	CodePrivateOutsideClass      uint32 = 2341
	CodeProtectedOutsideClass    uint32 = 2445
	CodeDuplicateIdentifier      uint32 = 2300
	CodeImplicitAny              uint32 = 7006
	CodeUnresolvedTypeParameter  uint32 = 2344
	CodeNotAllCodePathsReturn    uint32 = 2366
	CodeUnreachableCode          uint32 = 7027
	CodeModuleKindMismatch       uint32 = 1479
	CodeJsonWithoutFlag          uint32 = 6504
	CodeJsxNotEnabled            uint32 = 17004
	CodeFileAppearsBinary        uint32 = 1490
	CodeInternalExhaustion       uint32 = 9999
	CodeCannotFindName           uint32 = 2304
	CodeNotCallable              uint32 = 2349
	CodeWrongArgumentCount       uint32 = 2554
	CodePathMappingError         uint32 = 6222
	CodePackageJsonError         uint32 = 6228
)

// NewDiagnostic builds an Error-category diagnostic at the given code.
func NewDiagnostic(file string, start, length uint32, code uint32, message string, args ...interface{}) *Diagnostic {
	return &Diagnostic{
		File:        file,
		Start:       start,
		Length:      length,
		Code:        code,
		Category:    CategoryError,
		MessageText: fmt.Sprintf(message, args...),
	}
}

// WithRelated attaches related-information entries and returns the receiver
// for chaining at diagnostic-construction sites.
func (d *Diagnostic) WithRelated(info ...RelatedInfo) *Diagnostic {
	d.RelatedInformation = append(d.RelatedInformation, info...)
	return d
}

// Parse/lex diagnostics carry no byte offset (the lexer tracks line/column,
// not a byte cursor), so they pack line and column into Start the same way
// across every NewTokenError call site.
const (
	CodeUnexpectedToken uint32 = 1002
	CodeIllegalToken    uint32 = 1001
)

// NewTokenError lifts a lexer/parser failure at tok into the diagnostic
// stream verbatim.
func NewTokenError(file string, tok token.Token, code uint32, message string, args ...interface{}) *Diagnostic {
	return &Diagnostic{
		File:        file,
		Start:       uint32(tok.Line)<<16 | uint32(tok.Column),
		Length:      uint32(len(tok.Lexeme)),
		Code:        code,
		Category:    CategoryError,
		MessageText: fmt.Sprintf(message, args...),
	}
}

// SortKey orders diagnostics deterministically by (file, start, code),
// independent of the order in which files were checked.
func SortKey(d *Diagnostic) (string, uint32, uint32) {
	return d.File, d.Start, d.Code
}
