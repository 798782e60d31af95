package parser

import "github.com/novalang/novac/internal/ast"
import "github.com/novalang/novac/internal/token"

var keywordTypeNames = map[token.TokenType]string{
	token.ANY: "any", token.UNKNOWN: "unknown", token.NEVER: "never",
	token.VOID: "void",
}

// parseTypeExpression parses a type annotation with its own small precedence
// ladder: union binds loosest, then intersection, then postfix array/index,
// mirroring how funxy's expression Pratt parser layers binary
// operators, but over TypeExpr rather than Expression.
func (p *Parser) parseTypeExpression(prec precedence) ast.TypeExpr {
	left := p.parseConditionalType()
	return left
}

func (p *Parser) parseConditionalType() ast.TypeExpr {
	check := p.parseUnionType()
	if p.peekIs(token.EXTENDS) {
		tok := p.curToken
		p.nextToken()
		p.nextToken()
		extends := p.parseUnionType()
		if !p.expectPeek(token.QUESTION) {
			return check
		}
		p.nextToken()
		trueType := p.parseTypeExpression(LOWEST)
		if !p.expectPeek(token.COLON) {
			return check
		}
		p.nextToken()
		falseType := p.parseTypeExpression(LOWEST)
		return &ast.ConditionalTypeExpr{Token: tok, Check: check, Extends: extends, True: trueType, False: falseType}
	}
	return check
}

func (p *Parser) parseUnionType() ast.TypeExpr {
	if p.curIs(token.PIPE) {
		p.nextToken()
	}
	first := p.parseIntersectionType()
	if !p.peekIs(token.PIPE) {
		return first
	}
	tok := p.curToken
	members := []ast.TypeExpr{first}
	for p.peekIs(token.PIPE) {
		p.nextToken()
		p.nextToken()
		members = append(members, p.parseIntersectionType())
	}
	return &ast.UnionTypeExpr{Token: tok, Members: members}
}

func (p *Parser) parseIntersectionType() ast.TypeExpr {
	if p.curIs(token.AMPERSAND) {
		p.nextToken()
	}
	first := p.parsePostfixType()
	if !p.peekIs(token.AMPERSAND) {
		return first
	}
	tok := p.curToken
	members := []ast.TypeExpr{first}
	for p.peekIs(token.AMPERSAND) {
		p.nextToken()
		p.nextToken()
		members = append(members, p.parsePostfixType())
	}
	return &ast.IntersectionTypeExpr{Token: tok, Members: members}
}

// parsePostfixType handles the `T[]` array-suffix and `T[K]` indexed-access
// suffix, which bind tighter than union/intersection but apply to an
// arbitrary already-parsed primary type.
func (p *Parser) parsePostfixType() ast.TypeExpr {
	base := p.parsePrimaryType()
	for p.peekIs(token.LBRACKET) {
		tok := p.peekToken
		p.nextToken()
		if p.peekIs(token.RBRACKET) {
			p.nextToken()
			base = &ast.ArrayTypeExpr{Token: tok, Element: base}
			continue
		}
		p.nextToken()
		index := p.parseTypeExpression(LOWEST)
		if !p.expectPeek(token.RBRACKET) {
			return base
		}
		base = &ast.IndexedAccessTypeExpr{Token: tok, Base: base, Index: index}
	}
	return base
}

func (p *Parser) parsePrimaryType() ast.TypeExpr {
	switch p.curToken.Type {
	case token.LPAREN:
		return p.parseParenOrFunctionType()
	case token.LBRACE:
		return p.parseObjectOrMappedType()
	case token.LBRACKET:
		return p.parseTupleType()
	case token.KEYOF:
		tok := p.curToken
		p.nextToken()
		return &ast.KeyOfTypeExpr{Token: tok, Inner: p.parsePostfixType()}
	case token.READONLY:
		tok := p.curToken
		p.nextToken()
		return &ast.ReadonlyTypeExpr{Token: tok, Inner: p.parsePostfixType()}
	case token.INFER:
		tok := p.curToken
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		return &ast.InferTypeExpr{Token: tok, Name: p.curToken.Lexeme}
	case token.TYPEOF:
		tok := p.curToken
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		return &ast.TypeReferenceExpr{Token: tok, Name: p.curToken.Lexeme}
	case token.STRING:
		v, _ := p.curToken.Literal.(string)
		return &ast.LiteralTypeExpr{Token: p.curToken, Value: v}
	case token.NUMBER:
		return &ast.LiteralTypeExpr{Token: p.curToken, Value: p.curToken.Literal}
	case token.TRUE, token.FALSE:
		return &ast.LiteralTypeExpr{Token: p.curToken, Value: p.curIs(token.TRUE)}
	case token.NULL:
		return &ast.KeywordTypeExpr{Token: p.curToken, Name: "null"}
	case token.UNDEFINED:
		return &ast.KeywordTypeExpr{Token: p.curToken, Name: "undefined"}
	case token.VOID, token.ANY, token.UNKNOWN, token.NEVER:
		return &ast.KeywordTypeExpr{Token: p.curToken, Name: string(p.curToken.Lexeme)}
	case token.IDENT:
		return p.parseTypeReference()
	}
	p.curError("unexpected token %s in type position", p.curToken.Type)
	return nil
}

func (p *Parser) parseTypeReference() ast.TypeExpr {
	tok := p.curToken
	switch tok.Lexeme {
	case "string", "number", "boolean", "bigint", "symbol", "object":
		return &ast.KeywordTypeExpr{Token: tok, Name: tok.Lexeme}
	}
	ref := &ast.TypeReferenceExpr{Token: tok, Name: tok.Lexeme}
	if p.peekIs(token.LT) {
		p.nextToken()
		ref.TypeArgs = p.parseTypeArgList()
	}
	return ref
}

func (p *Parser) parseTypeArgList() []ast.TypeExpr {
	var args []ast.TypeExpr
	p.nextToken()
	args = append(args, p.parseTypeExpression(LOWEST))
	for p.peekIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		args = append(args, p.parseTypeExpression(LOWEST))
	}
	if !p.expectPeek(token.GT) {
		return args
	}
	return args
}

func (p *Parser) parseTupleType() ast.TypeExpr {
	tok := p.curToken
	tup := &ast.TupleTypeExpr{Token: tok}
	if p.peekIs(token.RBRACKET) {
		p.nextToken()
		return tup
	}
	for {
		p.nextToken()
		var el ast.TupleElementExpr
		if p.curIs(token.ELLIPSIS) {
			el.Rest = true
			p.nextToken()
		}
		if p.curIs(token.IDENT) && (p.peekIs(token.COLON) || p.peekIs(token.QUESTION)) {
			el.Name = p.curToken.Lexeme
			if p.peekIs(token.QUESTION) {
				el.Optional = true
				p.nextToken()
			}
			p.nextToken()
			p.nextToken()
		}
		el.Type = p.parseTypeExpression(LOWEST)
		tup.Elements = append(tup.Elements, el)
		if p.peekIs(token.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	if !p.expectPeek(token.RBRACKET) {
		return tup
	}
	return tup
}

// parseParenOrFunctionType disambiguates `(T)` grouping from `(x: T) => R`
// function-type syntax by attempting the function-type parameter list form
// first, mirroring parseGroupedOrArrow's expression-level strategy.
func (p *Parser) parseParenOrFunctionType() ast.TypeExpr {
	tok := p.curToken
	save := *p
	if params, ok := p.tryParseFunctionTypeParams(); ok && p.peekIs(token.ARROW) {
		p.nextToken()
		p.nextToken()
		ret := p.parseTypeExpression(LOWEST)
		return &ast.FunctionTypeExpr{Token: tok, Params: params, ReturnType: ret}
	}
	*p = save
	p.nextToken()
	inner := p.parseTypeExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return inner
	}
	return &ast.ParenthesizedTypeExpr{Token: tok, Inner: inner}
}

func (p *Parser) tryParseFunctionTypeParams() ([]ast.FunctionTypeParam, bool) {
	var params []ast.FunctionTypeParam
	if p.peekIs(token.RPAREN) {
		p.nextToken()
		return params, true
	}
	for {
		p.nextToken()
		if !p.curIs(token.IDENT) {
			return nil, false
		}
		var fp ast.FunctionTypeParam
		if p.curIs(token.ELLIPSIS) {
			fp.Rest = true
			p.nextToken()
		}
		fp.Name = p.curToken.Lexeme
		if p.peekIs(token.QUESTION) {
			fp.Optional = true
			p.nextToken()
		}
		if !p.expectPeek(token.COLON) {
			return nil, false
		}
		p.nextToken()
		fp.Type = p.parseTypeExpression(LOWEST)
		params = append(params, fp)
		if p.peekIs(token.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	if !p.peekIs(token.RPAREN) {
		return nil, false
	}
	p.nextToken()
	return params, true
}

// parseObjectOrMappedType disambiguates an object type literal `{ a: T }`
// from a mapped type `{ [K in Keys]: T }` by checking for LBRACKET/IN after
// the opening brace.
func (p *Parser) parseObjectOrMappedType() ast.TypeExpr {
	tok := p.curToken
	if p.peekIs(token.LBRACKET) {
		return p.parseMappedType(tok)
	}
	if (p.peekIs(token.PLUS) || p.peekIs(token.MINUS) || p.peekIs(token.READONLY)) {
		save := *p
		p.nextToken()
		for p.curIs(token.PLUS) || p.curIs(token.MINUS) || p.curIs(token.READONLY) {
			p.nextToken()
		}
		if p.curIs(token.LBRACKET) {
			*p = save
			return p.parseMappedType(tok)
		}
		*p = save
	}
	obj := &ast.ObjectTypeExpr{Token: tok}
	for !p.peekIs(token.RBRACE) {
		p.nextToken()
		if p.curIs(token.LBRACKET) {
			p.nextToken()
			p.nextToken() // index parameter name
			if !p.expectPeek(token.COLON) {
				return obj
			}
			p.nextToken()
			p.nextToken() // "string"/"number" keyword type
			if !p.expectPeek(token.RBRACKET) || !p.expectPeek(token.COLON) {
				return obj
			}
			p.nextToken()
			obj.StringIndex = p.parseTypeExpression(LOWEST)
		} else {
			var m ast.ObjectTypeMember
			if p.curIs(token.READONLY) {
				m.Readonly = true
				p.nextToken()
			}
			m.Name = p.curToken.Lexeme
			if p.peekIs(token.QUESTION) {
				m.Optional = true
				p.nextToken()
			}
			if p.peekIs(token.LPAREN) {
				m.IsMethod = true
				p.nextToken()
				params, _ := p.tryParseFunctionTypeParams()
				var ret ast.TypeExpr
				if p.peekIs(token.COLON) {
					p.nextToken()
					p.nextToken()
					ret = p.parseTypeExpression(LOWEST)
				}
				m.Type = &ast.FunctionTypeExpr{Token: tok, Params: params, ReturnType: ret}
			} else {
				if !p.expectPeek(token.COLON) {
					return obj
				}
				p.nextToken()
				m.Type = p.parseTypeExpression(LOWEST)
			}
			obj.Members = append(obj.Members, m)
		}
		if p.peekIs(token.COMMA) || p.peekIs(token.SEMICOLON) {
			p.nextToken()
		}
	}
	if !p.expectPeek(token.RBRACE) {
		return obj
	}
	return obj
}

func (p *Parser) parseMappedType(tok token.Token) ast.TypeExpr {
	mt := &ast.MappedTypeExpr{Token: tok}
	for p.peekIs(token.PLUS) || p.peekIs(token.MINUS) || p.peekIs(token.READONLY) {
		p.nextToken()
		switch p.curToken.Type {
		case token.PLUS:
			p.nextToken()
			mt.Readonly = ast.MappedModifierAdd
		case token.MINUS:
			p.nextToken()
			mt.Readonly = ast.MappedModifierRemove
		case token.READONLY:
			mt.Readonly = ast.MappedModifierAdd
		}
	}
	if !p.expectPeek(token.LBRACKET) {
		return mt
	}
	if !p.expectPeek(token.IDENT) {
		return mt
	}
	mt.KeyName = p.curToken.Lexeme
	if !p.expectPeek(token.IN) {
		return mt
	}
	p.nextToken()
	mt.Constraint = p.parseTypeExpression(LOWEST)
	if p.peekIs(token.AS) {
		p.nextToken()
		p.nextToken()
		mt.NameType = p.parseTypeExpression(LOWEST)
	}
	if !p.expectPeek(token.RBRACKET) {
		return mt
	}
	if p.peekIs(token.QUESTION) {
		p.nextToken()
		mt.Optional = ast.MappedModifierAdd
	}
	if !p.expectPeek(token.COLON) {
		return mt
	}
	p.nextToken()
	mt.Template = p.parseTypeExpression(LOWEST)
	if !p.expectPeek(token.RBRACE) {
		return mt
	}
	return mt
}

// parseTypeParamList parses a `<T extends C = D, ...>` clause; curToken must
// be the opening LT on entry and is left on the closing GT.
func (p *Parser) parseTypeParamList() []ast.TypeParamDecl {
	var params []ast.TypeParamDecl
	for {
		p.nextToken()
		var tp ast.TypeParamDecl
		if p.curIs(token.CONST) {
			tp.Const = true
			p.nextToken()
		}
		tp.Name = p.curToken.Lexeme
		if p.peekIs(token.EXTENDS) {
			p.nextToken()
			p.nextToken()
			tp.Constraint = p.parseTypeExpression(LOWEST)
		}
		if p.peekIs(token.ASSIGN) {
			p.nextToken()
			p.nextToken()
			tp.Default = p.parseTypeExpression(LOWEST)
		}
		params = append(params, tp)
		if p.peekIs(token.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	if !p.expectPeek(token.GT) {
		return params
	}
	return params
}
