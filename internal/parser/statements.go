package parser

import (
	"github.com/novalang/novac/internal/ast"
	"github.com/novalang/novac/internal/token"
)

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.LET, token.CONST, token.VAR:
		return p.parseVarDeclaration()
	case token.FUNCTION:
		return p.parseFunctionDeclaration(false, false)
	case token.ASYNC:
		if p.peekIs(token.FUNCTION) {
			p.nextToken()
			return p.parseFunctionDeclaration(false, true)
		}
		return p.parseExpressionStatement()
	case token.CLASS:
		return p.parseClassDeclaration(false)
	case token.INTERFACE:
		return p.parseInterfaceDeclaration(false)
	case token.TYPE:
		return p.parseTypeAliasDeclaration(false)
	case token.ENUM:
		return p.parseEnumDeclaration(false, false)
	case token.RETURN:
		return p.parseReturnStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.BREAK:
		s := &ast.BreakStatement{Token: p.curToken}
		p.skipSemicolon()
		return s
	case token.CONTINUE:
		s := &ast.ContinueStatement{Token: p.curToken}
		p.skipSemicolon()
		return s
	case token.LBRACE:
		return p.parseBlockStatement()
	case token.IMPORT:
		return p.parseImportDeclaration()
	case token.EXPORT:
		return p.parseExportDeclaration()
	case token.DECLARE:
		return p.parseDeclareStatement()
	case token.SEMICOLON:
		return nil
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	stmt := &ast.ExpressionStatement{Token: p.curToken}
	stmt.Expression = p.parseExpression(LOWEST)
	p.skipSemicolon()
	return stmt
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken}
	p.nextToken()
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if stmt := p.parseStatement(); stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}
	return block
}

func (p *Parser) parseVarDeclaration() ast.Statement {
	decl := &ast.VarDeclaration{Token: p.curToken, Kind: ast.VarDeclKind(p.curToken.Lexeme)}
	for {
		if !p.expectPeek(token.IDENT) {
			return decl
		}
		var d ast.VarDeclarator
		d.Name = p.curToken.Lexeme
		if p.peekIs(token.COLON) {
			p.nextToken()
			p.nextToken()
			d.Type = p.parseTypeExpression(LOWEST)
		}
		if p.peekIs(token.ASSIGN) {
			p.nextToken()
			p.nextToken()
			d.Init = p.parseExpression(ASSIGN)
		}
		decl.Declarators = append(decl.Declarators, d)
		if p.peekIs(token.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	p.skipSemicolon()
	return decl
}

func (p *Parser) parseFunctionDeclaration(exported, async bool) ast.Statement {
	tok := p.curToken
	fnExpr := p.parseFunctionExpression()
	fn, ok := fnExpr.(*ast.FunctionLiteral)
	if !ok {
		return nil
	}
	fn.IsAsync = async
	return &ast.FunctionDeclaration{Token: tok, Function: fn, Exported: exported}
}

func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStatement{Token: p.curToken}
	if p.peekIs(token.SEMICOLON) || p.peekIs(token.RBRACE) {
		p.skipSemicolon()
		return stmt
	}
	p.nextToken()
	stmt.ReturnValue = p.parseExpression(LOWEST)
	p.skipSemicolon()
	return stmt
}

func (p *Parser) parseIfStatement() ast.Statement {
	stmt := &ast.IfStatement{Token: p.curToken}
	if !p.expectPeek(token.LPAREN) {
		return stmt
	}
	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return stmt
	}
	if !p.expectPeek(token.LBRACE) {
		return stmt
	}
	stmt.Consequence = p.parseBlockStatement()
	if p.peekIs(token.ELSE) {
		p.nextToken()
		if p.peekIs(token.IF) {
			p.nextToken()
			stmt.Alternative = p.parseIfStatement()
		} else if p.expectPeek(token.LBRACE) {
			stmt.Alternative = p.parseBlockStatement()
		}
	}
	return stmt
}

func (p *Parser) parseWhileStatement() ast.Statement {
	stmt := &ast.WhileStatement{Token: p.curToken}
	if !p.expectPeek(token.LPAREN) {
		return stmt
	}
	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return stmt
	}
	if !p.expectPeek(token.LBRACE) {
		return stmt
	}
	stmt.Body = p.parseBlockStatement()
	return stmt
}

func (p *Parser) parseForStatement() ast.Statement {
	stmt := &ast.ForStatement{Token: p.curToken}
	if !p.expectPeek(token.LPAREN) {
		return stmt
	}
	p.nextToken()
	if !p.curIs(token.SEMICOLON) {
		stmt.Init = p.parseStatement()
	} else {
		p.skipSemicolon()
	}
	if !p.curIs(token.SEMICOLON) {
		p.nextToken()
	}
	if !p.curIs(token.SEMICOLON) {
		stmt.Condition = p.parseExpression(LOWEST)
		if !p.expectPeek(token.SEMICOLON) {
			return stmt
		}
	}
	if !p.peekIs(token.RPAREN) {
		p.nextToken()
		stmt.Update = p.parseExpression(LOWEST)
	}
	if !p.expectPeek(token.RPAREN) {
		return stmt
	}
	if !p.expectPeek(token.LBRACE) {
		return stmt
	}
	stmt.Body = p.parseBlockStatement()
	return stmt
}

func (p *Parser) parseClassDeclaration(exported bool) ast.Statement {
	tok := p.curToken
	cls := &ast.ClassDeclaration{Token: tok, Exported: exported}
	if !p.expectPeek(token.IDENT) {
		return cls
	}
	cls.Name = p.curToken.Lexeme
	if p.peekIs(token.LT) {
		p.nextToken()
		cls.TypeParams = p.parseTypeParamList()
	}
	if p.peekIs(token.EXTENDS) {
		p.nextToken()
		p.nextToken()
		cls.Extends = p.parseTypeExpression(LOWEST)
	}
	if p.peekIs(token.IMPLEMENTS) {
		p.nextToken()
		p.nextToken()
		cls.Implements = append(cls.Implements, p.parseTypeExpression(LOWEST))
		for p.peekIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			cls.Implements = append(cls.Implements, p.parseTypeExpression(LOWEST))
		}
	}
	if !p.expectPeek(token.LBRACE) {
		return cls
	}
	p.nextToken()
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		p.parseClassMember(cls)
		p.nextToken()
	}
	return cls
}

func (p *Parser) parseClassMember(cls *ast.ClassDeclaration) {
	var static, abstract, readonly bool
	visibility := "public"
	for {
		switch p.curToken.Type {
		case token.PUBLIC:
			visibility = "public"
		case token.PRIVATE:
			visibility = "private"
		case token.PROTECTED:
			visibility = "protected"
		case token.STATIC:
			static = true
		case token.ABSTRACT:
			abstract = true
		case token.READONLY:
			readonly = true
		default:
			goto modifiersDone
		}
		p.nextToken()
	}
modifiersDone:
	if p.curIs(token.SEMICOLON) {
		return
	}
	name := p.curToken.Lexeme
	if p.peekIs(token.LPAREN) || p.peekIs(token.LT) {
		method := ast.MethodDeclaration{Name: name, Static: static, Abstract: abstract, Visibility: visibility}
		fn := &ast.FunctionLiteral{Token: p.curToken, Name: name}
		if p.peekIs(token.LT) {
			p.nextToken()
			fn.TypeParams = p.parseTypeParamList()
		}
		if !p.expectPeek(token.LPAREN) {
			return
		}
		params, _ := p.tryParseParameterList()
		fn.Params = params
		if p.peekIs(token.COLON) {
			p.nextToken()
			p.nextToken()
			fn.ReturnType = p.parseTypeExpression(LOWEST)
		}
		if p.peekIs(token.LBRACE) {
			p.nextToken()
			fn.Body = p.parseBlockStatement()
		} else {
			p.skipSemicolon()
		}
		method.Function = fn
		cls.Methods = append(cls.Methods, method)
		return
	}
	prop := ast.PropertyDeclaration{Name: name, Static: static, Readonly: readonly, Visibility: visibility}
	if p.peekIs(token.QUESTION) {
		prop.Optional = true
		p.nextToken()
	}
	if p.peekIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		prop.Type = p.parseTypeExpression(LOWEST)
	}
	if p.peekIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		prop.Initial = p.parseExpression(ASSIGN)
	}
	p.skipSemicolon()
	cls.Properties = append(cls.Properties, prop)
}

func (p *Parser) parseInterfaceDeclaration(exported bool) ast.Statement {
	tok := p.curToken
	iface := &ast.InterfaceDeclaration{Token: tok, Exported: exported}
	if !p.expectPeek(token.IDENT) {
		return iface
	}
	iface.Name = p.curToken.Lexeme
	if p.peekIs(token.LT) {
		p.nextToken()
		iface.TypeParams = p.parseTypeParamList()
	}
	if p.peekIs(token.EXTENDS) {
		p.nextToken()
		p.nextToken()
		iface.Extends = append(iface.Extends, p.parseTypeExpression(LOWEST))
		for p.peekIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			iface.Extends = append(iface.Extends, p.parseTypeExpression(LOWEST))
		}
	}
	if !p.expectPeek(token.LBRACE) {
		return iface
	}
	for !p.peekIs(token.RBRACE) {
		p.nextToken()
		if p.curIs(token.LBRACKET) {
			p.nextToken()
			p.nextToken()
			if !p.expectPeek(token.COLON) {
				return iface
			}
			p.nextToken()
			p.nextToken()
			if !p.expectPeek(token.RBRACKET) || !p.expectPeek(token.COLON) {
				return iface
			}
			p.nextToken()
			iface.StringIndex = p.parseTypeExpression(LOWEST)
			p.skipMemberSeparator()
			continue
		}
		var m ast.InterfaceMember
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
				return iface
			}
			p.nextToken()
			m.Type = p.parseTypeExpression(LOWEST)
		}
		iface.Members = append(iface.Members, m)
		p.skipMemberSeparator()
	}
	if !p.expectPeek(token.RBRACE) {
		return iface
	}
	return iface
}

func (p *Parser) skipMemberSeparator() {
	if p.peekIs(token.COMMA) || p.peekIs(token.SEMICOLON) {
		p.nextToken()
	}
}

func (p *Parser) parseTypeAliasDeclaration(exported bool) ast.Statement {
	tok := p.curToken
	alias := &ast.TypeAliasDeclaration{Token: tok, Exported: exported}
	if !p.expectPeek(token.IDENT) {
		return alias
	}
	alias.Name = p.curToken.Lexeme
	if p.peekIs(token.LT) {
		p.nextToken()
		alias.TypeParams = p.parseTypeParamList()
	}
	if !p.expectPeek(token.ASSIGN) {
		return alias
	}
	p.nextToken()
	alias.Value = p.parseTypeExpression(LOWEST)
	p.skipSemicolon()
	return alias
}

func (p *Parser) parseEnumDeclaration(exported, isConst bool) ast.Statement {
	tok := p.curToken
	en := &ast.EnumDeclaration{Token: tok, Exported: exported, Const: isConst}
	if !p.expectPeek(token.IDENT) {
		return en
	}
	en.Name = p.curToken.Lexeme
	if !p.expectPeek(token.LBRACE) {
		return en
	}
	for !p.peekIs(token.RBRACE) {
		p.nextToken()
		member := ast.EnumMember{Name: p.curToken.Lexeme}
		if p.peekIs(token.ASSIGN) {
			p.nextToken()
			p.nextToken()
			member.Value = p.parseExpression(ASSIGN)
		}
		en.Members = append(en.Members, member)
		if p.peekIs(token.COMMA) {
			p.nextToken()
		}
	}
	if !p.expectPeek(token.RBRACE) {
		return en
	}
	return en
}

func (p *Parser) parseImportDeclaration() ast.Statement {
	tok := p.curToken
	decl := &ast.ImportDeclaration{Token: tok}
	if p.peekIs(token.TYPE) {
		p.nextToken()
		decl.TypeOnly = true
	}
	if p.peekIs(token.IDENT) {
		p.nextToken()
		decl.Default = p.curToken.Lexeme
		if p.peekIs(token.COMMA) {
			p.nextToken()
		}
	}
	if p.peekIs(token.LBRACE) {
		p.nextToken()
		for !p.peekIs(token.RBRACE) {
			p.nextToken()
			spec := ast.ImportSpecifier{Imported: p.curToken.Lexeme, Local: p.curToken.Lexeme}
			if p.peekIs(token.AS) {
				p.nextToken()
				p.nextToken()
				spec.Local = p.curToken.Lexeme
			}
			decl.Specifiers = append(decl.Specifiers, spec)
			if p.peekIs(token.COMMA) {
				p.nextToken()
			}
		}
		if !p.expectPeek(token.RBRACE) {
			return decl
		}
	} else if p.peekIs(token.ASTERISK) {
		p.nextToken()
		if !p.expectPeek(token.AS) {
			return decl
		}
		if !p.expectPeek(token.IDENT) {
			return decl
		}
		decl.Specifiers = append(decl.Specifiers, ast.ImportSpecifier{Local: p.curToken.Lexeme, Namespace: true})
	}
	if !p.expectPeek(token.FROM) {
		return decl
	}
	if !p.expectPeek(token.STRING) {
		return decl
	}
	decl.Source, _ = p.curToken.Literal.(string)
	p.skipSemicolon()
	return decl
}

func (p *Parser) parseExportDeclaration() ast.Statement {
	tok := p.curToken
	switch p.peekToken.Type {
	case token.FUNCTION:
		p.nextToken()
		return p.parseFunctionDeclaration(true, false)
	case token.CLASS:
		p.nextToken()
		return p.parseClassDeclaration(true)
	case token.INTERFACE:
		p.nextToken()
		return p.parseInterfaceDeclaration(true)
	case token.TYPE:
		p.nextToken()
		return p.parseTypeAliasDeclaration(true)
	case token.ENUM:
		p.nextToken()
		return p.parseEnumDeclaration(true, false)
	case token.CONST:
		if p.peekIs(token.CONST) {
			save := *p
			p.nextToken()
			if p.peekIs(token.ENUM) {
				p.nextToken()
				return p.parseEnumDeclaration(true, true)
			}
			*p = save
		}
		p.nextToken()
		decl := p.parseVarDeclaration()
		if v, ok := decl.(*ast.VarDeclaration); ok {
			return &ast.ExportDeclaration{Token: tok, Decl: v}
		}
		return decl
	case token.LET, token.VAR:
		p.nextToken()
		decl := p.parseVarDeclaration()
		return &ast.ExportDeclaration{Token: tok, Decl: decl}
	case token.LBRACE:
		p.nextToken()
		exp := &ast.ExportDeclaration{Token: tok}
		for !p.peekIs(token.RBRACE) {
			p.nextToken()
			spec := ast.ImportSpecifier{Imported: p.curToken.Lexeme, Local: p.curToken.Lexeme}
			if p.peekIs(token.AS) {
				p.nextToken()
				p.nextToken()
				spec.Local = p.curToken.Lexeme
			}
			exp.Specifiers = append(exp.Specifiers, spec)
			if p.peekIs(token.COMMA) {
				p.nextToken()
			}
		}
		if !p.expectPeek(token.RBRACE) {
			return exp
		}
		if p.peekIs(token.FROM) {
			p.nextToken()
			if !p.expectPeek(token.STRING) {
				return exp
			}
			exp.Source, _ = p.curToken.Literal.(string)
		}
		p.skipSemicolon()
		return exp
	default:
		p.nextToken()
		inner := p.parseStatement()
		return &ast.ExportDeclaration{Token: tok, Decl: inner}
	}
}

// parseDeclareStatement handles `declare` ambient declarations by parsing
// through to the underlying declaration; ambient-ness is recorded on
// FunctionDeclaration.Declare for function signatures (the only shape the
// checker treats differently in ambient contexts).
func (p *Parser) parseDeclareStatement() ast.Statement {
	p.nextToken()
	if p.curIs(token.FUNCTION) {
		decl := p.parseFunctionDeclaration(false, false)
		if fn, ok := decl.(*ast.FunctionDeclaration); ok {
			fn.Declare = true
		}
		return decl
	}
	return p.parseStatement()
}
