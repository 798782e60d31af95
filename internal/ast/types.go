package ast

import "github.com/novalang/novac/internal/token"

// TypeReferenceExpr is a named type, optionally generic (`Map<K, V>`).
type TypeReferenceExpr struct {
	Token     token.Token
	Name      string
	TypeArgs  []TypeExpr
}

func (t *TypeReferenceExpr) typeExprNode()      {}
func (t *TypeReferenceExpr) TokenLiteral() string { return t.Token.Lexeme }
func (t *TypeReferenceExpr) GetToken() token.Token { return t.Token }

// KeywordTypeExpr covers the primitive/intrinsic keyword types: any, unknown,
// never, void, string, number, boolean, bigint, symbol, object, null,
// undefined.
type KeywordTypeExpr struct {
	Token token.Token
	Name  string
}

func (k *KeywordTypeExpr) typeExprNode()      {}
func (k *KeywordTypeExpr) TokenLiteral() string { return k.Token.Lexeme }
func (k *KeywordTypeExpr) GetToken() token.Token { return k.Token }

type LiteralTypeExpr struct {
	Token token.Token
	Value interface{} // string, float64, or bool
}

func (l *LiteralTypeExpr) typeExprNode()      {}
func (l *LiteralTypeExpr) TokenLiteral() string { return l.Token.Lexeme }
func (l *LiteralTypeExpr) GetToken() token.Token { return l.Token }

type UnionTypeExpr struct {
	Token   token.Token
	Members []TypeExpr
}

func (u *UnionTypeExpr) typeExprNode()      {}
func (u *UnionTypeExpr) TokenLiteral() string { return u.Token.Lexeme }
func (u *UnionTypeExpr) GetToken() token.Token { return u.Token }

type IntersectionTypeExpr struct {
	Token   token.Token
	Members []TypeExpr
}

func (i *IntersectionTypeExpr) typeExprNode()      {}
func (i *IntersectionTypeExpr) TokenLiteral() string { return i.Token.Lexeme }
func (i *IntersectionTypeExpr) GetToken() token.Token { return i.Token }

type ArrayTypeExpr struct {
	Token   token.Token
	Element TypeExpr
}

func (a *ArrayTypeExpr) typeExprNode()      {}
func (a *ArrayTypeExpr) TokenLiteral() string { return a.Token.Lexeme }
func (a *ArrayTypeExpr) GetToken() token.Token { return a.Token }

// TupleElementExpr is one `[name?: T]` or `[...T[]]` tuple slot.
type TupleElementExpr struct {
	Name     string
	Type     TypeExpr
	Optional bool
	Rest     bool
}

type TupleTypeExpr struct {
	Token    token.Token
	Elements []TupleElementExpr
}

func (t *TupleTypeExpr) typeExprNode()      {}
func (t *TupleTypeExpr) TokenLiteral() string { return t.Token.Lexeme }
func (t *TupleTypeExpr) GetToken() token.Token { return t.Token }

// ObjectTypeMember is one member of an inline `{ ... }` type-literal.
type ObjectTypeMember struct {
	Name     string
	Type     TypeExpr
	Optional bool
	Readonly bool
	IsMethod bool
}

type ObjectTypeExpr struct {
	Token       token.Token
	Members     []ObjectTypeMember
	StringIndex TypeExpr // value type of `[key: string]: V`, nil if none
	NumberIndex TypeExpr
}

func (o *ObjectTypeExpr) typeExprNode()      {}
func (o *ObjectTypeExpr) TokenLiteral() string { return o.Token.Lexeme }
func (o *ObjectTypeExpr) GetToken() token.Token { return o.Token }

// FunctionTypeParam mirrors Parameter but for a bare function-type signature
// (`(x: number) => string`), which has no default-value expression.
type FunctionTypeParam struct {
	Name     string
	Type     TypeExpr
	Optional bool
	Rest     bool
}

type FunctionTypeExpr struct {
	Token      token.Token
	TypeParams []TypeParamDecl
	Params     []FunctionTypeParam
	ReturnType TypeExpr
	IsConstructor bool
}

func (f *FunctionTypeExpr) typeExprNode()      {}
func (f *FunctionTypeExpr) TokenLiteral() string { return f.Token.Lexeme }
func (f *FunctionTypeExpr) GetToken() token.Token { return f.Token }

type KeyOfTypeExpr struct {
	Token token.Token
	Inner TypeExpr
}

func (k *KeyOfTypeExpr) typeExprNode()      {}
func (k *KeyOfTypeExpr) TokenLiteral() string { return k.Token.Lexeme }
func (k *KeyOfTypeExpr) GetToken() token.Token { return k.Token }

type ReadonlyTypeExpr struct {
	Token token.Token
	Inner TypeExpr
}

func (r *ReadonlyTypeExpr) typeExprNode()      {}
func (r *ReadonlyTypeExpr) TokenLiteral() string { return r.Token.Lexeme }
func (r *ReadonlyTypeExpr) GetToken() token.Token { return r.Token }

// IndexedAccessTypeExpr is `T[K]`.
type IndexedAccessTypeExpr struct {
	Token token.Token
	Base  TypeExpr
	Index TypeExpr
}

func (i *IndexedAccessTypeExpr) typeExprNode()      {}
func (i *IndexedAccessTypeExpr) TokenLiteral() string { return i.Token.Lexeme }
func (i *IndexedAccessTypeExpr) GetToken() token.Token { return i.Token }

// InferTypeExpr is `infer R`, legal only inside a ConditionalTypeExpr's
// Extends clause.
type InferTypeExpr struct {
	Token token.Token
	Name  string
}

func (i *InferTypeExpr) typeExprNode()      {}
func (i *InferTypeExpr) TokenLiteral() string { return i.Token.Lexeme }
func (i *InferTypeExpr) GetToken() token.Token { return i.Token }

// ConditionalTypeExpr is `Check extends Extends ? True : False`.
type ConditionalTypeExpr struct {
	Token   token.Token
	Check   TypeExpr
	Extends TypeExpr
	True    TypeExpr
	False   TypeExpr
}

func (c *ConditionalTypeExpr) typeExprNode()      {}
func (c *ConditionalTypeExpr) TokenLiteral() string { return c.Token.Lexeme }
func (c *ConditionalTypeExpr) GetToken() token.Token { return c.Token }

// MappedTypeExpr is `{ [K in Constraint as NameType]?: Template }`.
type MappedTypeExpr struct {
	Token        token.Token
	KeyName      string
	Constraint   TypeExpr
	NameType     TypeExpr // the `as` clause re-keying expression, nil if absent
	Template     TypeExpr
	Optional     MappedModifierExpr
	Readonly     MappedModifierExpr
}

// MappedModifierExpr models the `+`/`-`/absent prefix on `?` or `readonly`
// in a mapped type.
type MappedModifierExpr int

const (
	MappedModifierNone MappedModifierExpr = iota
	MappedModifierAdd
	MappedModifierRemove
)

func (m *MappedTypeExpr) typeExprNode()      {}
func (m *MappedTypeExpr) TokenLiteral() string { return m.Token.Lexeme }
func (m *MappedTypeExpr) GetToken() token.Token { return m.Token }

// TemplateLiteralTypeExpr is a template-literal type made of alternating
// literal text spans and embedded TypeExprs, e.g. `` `on${Capitalize<E>}` ``.
type TemplateLiteralTypeExpr struct {
	Token token.Token
	Quasis []string // len(Quasis) == len(Types)+1
	Types  []TypeExpr
}

func (t *TemplateLiteralTypeExpr) typeExprNode()      {}
func (t *TemplateLiteralTypeExpr) TokenLiteral() string { return t.Token.Lexeme }
func (t *TemplateLiteralTypeExpr) GetToken() token.Token { return t.Token }

// TypePredicateExpr is a function return-type position `x is T` or
// `asserts x is T` / `asserts x`.
type TypePredicateExpr struct {
	Token     token.Token
	ParamName string
	Type      TypeExpr // nil for bare `asserts x`
	Asserts   bool
}

func (t *TypePredicateExpr) typeExprNode()      {}
func (t *TypePredicateExpr) TokenLiteral() string { return t.Token.Lexeme }
func (t *TypePredicateExpr) GetToken() token.Token { return t.Token }

// ParenthesizedTypeExpr preserves explicit grouping so the parser doesn't
// need unbounded lookahead to disambiguate `(A | B)[]` from `A | B[]`.
type ParenthesizedTypeExpr struct {
	Token token.Token
	Inner TypeExpr
}

func (p *ParenthesizedTypeExpr) typeExprNode()      {}
func (p *ParenthesizedTypeExpr) TokenLiteral() string { return p.Token.Lexeme }
func (p *ParenthesizedTypeExpr) GetToken() token.Token { return p.Token }
