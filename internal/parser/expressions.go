package parser

import (
	"strconv"
	"strings"

	"github.com/novalang/novac/internal/ast"
	"github.com/novalang/novac/internal/token"
)

func (p *Parser) parseExpression(prec precedence) ast.Expression {
	prefix, ok := p.prefixParseFns[p.curToken.Type]
	if !ok {
		return p.illegal()
	}
	left := prefix()

	for !p.peekIs(token.SEMICOLON) && prec < p.peekPrecedence() {
		infix, ok := p.infixParseFns[p.peekToken.Type]
		if !ok {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken, Name: p.curToken.Lexeme}
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	v, _ := p.curToken.Literal.(float64)
	return &ast.NumberLiteral{Token: p.curToken, Value: v}
}

func (p *Parser) parseBigIntLiteral() ast.Expression {
	return &ast.NumberLiteral{Token: p.curToken}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	v, _ := p.curToken.Literal.(string)
	return &ast.StringLiteral{Token: p.curToken, Value: v}
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken, Value: p.curIs(token.TRUE)}
}

func (p *Parser) parseNullLiteral() ast.Expression      { return &ast.NullLiteral{Token: p.curToken} }
func (p *Parser) parseUndefinedLiteral() ast.Expression { return &ast.UndefinedLiteral{Token: p.curToken} }
func (p *Parser) parseThisExpression() ast.Expression   { return &ast.ThisExpression{Token: p.curToken} }

func (p *Parser) parsePrefixExpression() ast.Expression {
	expr := &ast.PrefixExpression{Token: p.curToken, Operator: p.curToken.Lexeme}
	p.nextToken()
	expr.Right = p.parseExpression(PREFIX)
	return expr
}

func (p *Parser) parseTypeofExpression() ast.Expression {
	tok := p.curToken
	p.nextToken()
	return &ast.TypeofExpression{Token: tok, Right: p.parseExpression(PREFIX)}
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expr := &ast.InfixExpression{Token: p.curToken, Left: left, Operator: p.curToken.Lexeme}
	prec := p.curPrecedence()
	p.nextToken()
	expr.Right = p.parseExpression(prec)
	return expr
}

func (p *Parser) parseInstanceofExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	prec := p.curPrecedence()
	p.nextToken()
	return &ast.InstanceofExpression{Token: tok, Left: left, Right: p.parseExpression(prec)}
}

func (p *Parser) parseInExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	prec := p.curPrecedence()
	p.nextToken()
	return &ast.InExpression{Token: tok, Left: left, Right: p.parseExpression(prec)}
}

func (p *Parser) parseAssignExpression(left ast.Expression) ast.Expression {
	expr := &ast.AssignExpression{Token: p.curToken, Left: left, Operator: p.curToken.Lexeme}
	p.nextToken()
	expr.Right = p.parseExpression(ASSIGN - 1)
	return expr
}

func (p *Parser) parseConditionalExpression(cond ast.Expression) ast.Expression {
	tok := p.curToken
	p.nextToken()
	consequence := p.parseExpression(ASSIGN)
	if !p.expectPeek(token.COLON) {
		return nil
	}
	p.nextToken()
	alternative := p.parseExpression(ASSIGN)
	return &ast.ConditionalExpression{Token: tok, Condition: cond, Consequence: consequence, Alternative: alternative}
}

func (p *Parser) parseMemberExpression(obj ast.Expression) ast.Expression {
	tok := p.curToken
	optional := p.curIs(token.OPTIONAL_CHAIN)
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	return &ast.MemberExpression{Token: tok, Object: obj, Property: p.curToken.Lexeme, OptionalChain: optional}
}

func (p *Parser) parseIndexExpression(obj ast.Expression) ast.Expression {
	tok := p.curToken
	p.nextToken()
	idx := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return &ast.IndexExpression{Token: tok, Object: obj, Index: idx}
}

func (p *Parser) parseCallExpression(callee ast.Expression) ast.Expression {
	expr := &ast.CallExpression{Token: p.curToken, Callee: callee}
	if isArrayIsArray(callee) {
		args := p.parseExpressionList(token.RPAREN)
		if len(args) == 1 {
			return &ast.ArrayIsArrayExpression{Token: expr.Token, Argument: args[0]}
		}
	}
	expr.Arguments = p.parseExpressionList(token.RPAREN)
	return expr
}

func isArrayIsArray(callee ast.Expression) bool {
	m, ok := callee.(*ast.MemberExpression)
	if !ok || m.Property != "isArray" {
		return false
	}
	id, ok := m.Object.(*ast.Identifier)
	return ok && id.Name == "Array"
}

func (p *Parser) parseExpressionList(end token.TokenType) []ast.Expression {
	var list []ast.Expression
	if p.peekIs(end) {
		p.nextToken()
		return list
	}
	p.nextToken()
	list = append(list, p.parseExpression(ASSIGN))
	for p.peekIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		list = append(list, p.parseExpression(ASSIGN))
	}
	if !p.expectPeek(end) {
		return nil
	}
	return list
}

func (p *Parser) parseNewExpression() ast.Expression {
	tok := p.curToken
	p.nextToken()
	callee := p.parseExpression(CALL)
	if call, ok := callee.(*ast.CallExpression); ok {
		return &ast.NewExpression{Token: tok, Callee: call.Callee, Arguments: call.Arguments}
	}
	expr := &ast.NewExpression{Token: tok, Callee: callee}
	if p.peekIs(token.LPAREN) {
		p.nextToken()
		expr.Arguments = p.parseExpressionList(token.RPAREN)
	}
	return expr
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	tok := p.curToken
	return &ast.ArrayLiteral{Token: tok, Elements: p.parseExpressionList(token.RBRACKET)}
}

func (p *Parser) parseObjectLiteral() ast.Expression {
	tok := p.curToken
	obj := &ast.ObjectLiteral{Token: tok}
	for !p.peekIs(token.RBRACE) {
		p.nextToken()
		var prop ast.ObjectProperty
		prop.Key = p.curToken.Lexeme
		if p.peekIs(token.COLON) {
			p.nextToken()
			p.nextToken()
			prop.Value = p.parseExpression(ASSIGN)
		} else {
			prop.Value = &ast.Identifier{Token: p.curToken, Name: p.curToken.Lexeme}
		}
		obj.Properties = append(obj.Properties, prop)
		if p.peekIs(token.COMMA) {
			p.nextToken()
		}
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return obj
}

// parseGroupedOrArrow disambiguates `(expr)` from an arrow function's
// parameter list by attempting a parenthesized parameter-list parse and
// falling back to a plain grouped expression when that fails structurally
// (no `=>` follows the closing paren).
func (p *Parser) parseGroupedOrArrow() ast.Expression {
	if fn := p.tryParseArrowFunction(nil); fn != nil {
		return fn
	}
	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	if p.peekIs(token.ARROW) {
		if id, ok := expr.(*ast.Identifier); ok {
			p.nextToken()
			return p.finishArrow(p.curToken, nil, []ast.Parameter{{Name: id.Name}})
		}
	}
	return expr
}

func (p *Parser) parseAsyncArrow() ast.Expression {
	tok := p.curToken
	if p.peekIs(token.FUNCTION) {
		p.nextToken()
		fn := p.parseFunctionExpression().(*ast.FunctionLiteral)
		fn.IsAsync = true
		return fn
	}
	if p.peekIs(token.LPAREN) {
		p.nextToken()
		if fn := p.tryParseArrowFunction(nil); fn != nil {
			fn.(*ast.FunctionLiteral).IsAsync = true
			return fn
		}
	}
	if p.peekIs(token.IDENT) {
		p.nextToken()
		name := p.curToken.Lexeme
		if p.peekIs(token.ARROW) {
			p.nextToken()
			fn := p.finishArrow(tok, nil, []ast.Parameter{{Name: name}})
			fn.(*ast.FunctionLiteral).IsAsync = true
			return fn
		}
	}
	return p.illegal()
}

// tryParseArrowFunction attempts to parse `(params) [: RetType] =>` starting
// at a LPAREN curToken. It returns nil without side effects a caller must
// unwind if the shape doesn't match, since this parser has no backtracking
// lexer; callers only invoke it at positions where failure safely falls
// through to a grouped-expression parse of the same tokens.
func (p *Parser) tryParseArrowFunction(typeParams []ast.TypeParamDecl) ast.Expression {
	save := *p
	params, ok := p.tryParseParameterList()
	if !ok {
		*p = save
		return nil
	}
	var retType ast.TypeExpr
	if p.peekIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		retType = p.parseTypeExpression(LOWEST)
	}
	if !p.peekIs(token.ARROW) {
		*p = save
		return nil
	}
	p.nextToken()
	fn := p.finishArrow(save.curToken, typeParams, params)
	fn.(*ast.FunctionLiteral).ReturnType = retType
	return fn
}

func (p *Parser) tryParseParameterList() ([]ast.Parameter, bool) {
	if !p.curIs(token.LPAREN) {
		return nil, false
	}
	var params []ast.Parameter
	if p.peekIs(token.RPAREN) {
		p.nextToken()
		return params, true
	}
	for {
		p.nextToken()
		param, ok := p.parseParameter()
		if !ok {
			return nil, false
		}
		params = append(params, param)
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

func (p *Parser) parseParameter() (ast.Parameter, bool) {
	var param ast.Parameter
	for p.curIs(token.PUBLIC) || p.curIs(token.PRIVATE) || p.curIs(token.PROTECTED) || p.curIs(token.READONLY) {
		switch p.curToken.Type {
		case token.READONLY:
			param.Readonly = true
		default:
			param.Visibility = strings.ToLower(string(p.curToken.Type))
		}
		p.nextToken()
	}
	if p.curIs(token.ELLIPSIS) {
		param.Rest = true
		p.nextToken()
	}
	if !p.curIs(token.IDENT) {
		return param, false
	}
	param.Name = p.curToken.Lexeme
	if p.peekIs(token.QUESTION) {
		param.Optional = true
		p.nextToken()
	}
	if p.peekIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		param.Type = p.parseTypeExpression(LOWEST)
	}
	if p.peekIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		param.Default = p.parseExpression(ASSIGN)
	}
	return param, true
}

func (p *Parser) finishArrow(tok token.Token, typeParams []ast.TypeParamDecl, params []ast.Parameter) ast.Expression {
	fn := &ast.FunctionLiteral{Token: tok, IsArrow: true, TypeParams: typeParams, Params: params}
	if p.peekIs(token.LBRACE) {
		p.nextToken()
		fn.Body = p.parseBlockStatement()
		return fn
	}
	p.nextToken()
	expr := p.parseExpression(ASSIGN)
	fn.Body = &ast.BlockStatement{Token: tok, Statements: []ast.Statement{
		&ast.ReturnStatement{Token: tok, ReturnValue: expr},
	}}
	return fn
}

func (p *Parser) parseFunctionExpression() ast.Expression {
	tok := p.curToken
	fn := &ast.FunctionLiteral{Token: tok}
	if p.peekIs(token.IDENT) {
		p.nextToken()
		fn.Name = p.curToken.Lexeme
	}
	if p.peekIs(token.LT) {
		p.nextToken()
		fn.TypeParams = p.parseTypeParamList()
	}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	params, ok := p.tryParseParameterList()
	if !ok {
		p.curError("malformed parameter list")
		return nil
	}
	fn.Params = params
	if p.peekIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		fn.ReturnType = p.parseTypeExpression(LOWEST)
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	fn.Body = p.parseBlockStatement()
	return fn
}

func (p *Parser) parseBigIntFromLexeme(lexeme string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSuffix(lexeme, "n"), 64)
	return v
}
