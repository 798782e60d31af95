// Package parser builds an internal/ast tree from an internal/lexer token
// stream. The Pratt core (prefix/infix parse-function tables keyed by
// TokenType, a precedence table, parseExpression(precedence) driving
// left-binding via peekPrecedence) follows funxy's parser's
// expressions_core.go structure; the statement and type grammars are new,
// grounded in the TypeScript surface syntax this checker targets.
package parser

import (
	"fmt"

	"github.com/novalang/novac/internal/ast"
	"github.com/novalang/novac/internal/diagnostics"
	"github.com/novalang/novac/internal/lexer"
	"github.com/novalang/novac/internal/token"
)

type precedence int

const (
	LOWEST precedence = iota
	ASSIGN
	TERNARY
	NULLISH
	LOGIC_OR
	LOGIC_AND
	BIT_OR
	BIT_AND
	EQUALITY
	RELATIONAL
	ADDITIVE
	MULTIPLICATIVE
	PREFIX
	CALL
	INDEX
	MEMBER
)

var precedences = map[token.TokenType]precedence{
	token.ASSIGN:          ASSIGN,
	token.PLUS_ASSIGN:     ASSIGN,
	token.MINUS_ASSIGN:    ASSIGN,
	token.ASTERISK_ASSIGN: ASSIGN,
	token.SLASH_ASSIGN:    ASSIGN,
	token.QUESTION:        TERNARY,
	token.QUESTION_QUEST:  NULLISH,
	token.PIPE_PIPE:       LOGIC_OR,
	token.AMPERSAND_AMP:   LOGIC_AND,
	token.PIPE:            BIT_OR,
	token.AMPERSAND:       BIT_AND,
	token.EQ:              EQUALITY,
	token.NOT_EQ:          EQUALITY,
	token.STRICT_EQ:       EQUALITY,
	token.STRICT_NEQ:      EQUALITY,
	token.LT:              RELATIONAL,
	token.GT:              RELATIONAL,
	token.LTE:             RELATIONAL,
	token.GTE:             RELATIONAL,
	token.INSTANCEOF:      RELATIONAL,
	token.IN:              RELATIONAL,
	token.PLUS:            ADDITIVE,
	token.MINUS:           ADDITIVE,
	token.ASTERISK:        MULTIPLICATIVE,
	token.SLASH:           MULTIPLICATIVE,
	token.PERCENT:         MULTIPLICATIVE,
	token.LPAREN:          CALL,
	token.LBRACKET:        INDEX,
	token.DOT:             MEMBER,
	token.OPTIONAL_CHAIN:  MEMBER,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Parser is a single-file recursive-descent parser. One instance is
// consumed per file; internal/build drives one per source file in parallel.
// l is held by value, not by pointer: every Lexer field is a plain value
// type, so copying *Parser (as tryParseArrowFunction does to speculatively
// parse and unwind) fully snapshots and restores scan position too.
type Parser struct {
	l      lexer.Lexer
	file   string
	errors []*diagnostics.Diagnostic

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

func New(input, file string) *Parser {
	p := &Parser{l: *lexer.New(input), file: file}

	p.prefixParseFns = map[token.TokenType]prefixParseFn{
		token.IDENT:          p.parseIdentifier,
		token.NUMBER:         p.parseNumberLiteral,
		token.STRING:         p.parseStringLiteral,
		token.BIGINT:         p.parseBigIntLiteral,
		token.TRUE:           p.parseBooleanLiteral,
		token.FALSE:          p.parseBooleanLiteral,
		token.NULL:           p.parseNullLiteral,
		token.UNDEFINED:      p.parseUndefinedLiteral,
		token.THIS:           p.parseThisExpression,
		token.BANG:           p.parsePrefixExpression,
		token.MINUS:          p.parsePrefixExpression,
		token.PLUS:           p.parsePrefixExpression,
		token.TYPEOF:         p.parseTypeofExpression,
		token.LPAREN:         p.parseGroupedOrArrow,
		token.LBRACKET:       p.parseArrayLiteral,
		token.LBRACE:         p.parseObjectLiteral,
		token.FUNCTION:       p.parseFunctionExpression,
		token.NEW:            p.parseNewExpression,
		token.ASYNC:          p.parseAsyncArrow,
	}

	p.infixParseFns = map[token.TokenType]infixParseFn{
		token.PLUS:           p.parseInfixExpression,
		token.MINUS:          p.parseInfixExpression,
		token.ASTERISK:       p.parseInfixExpression,
		token.SLASH:          p.parseInfixExpression,
		token.PERCENT:        p.parseInfixExpression,
		token.EQ:             p.parseInfixExpression,
		token.NOT_EQ:         p.parseInfixExpression,
		token.STRICT_EQ:      p.parseInfixExpression,
		token.STRICT_NEQ:     p.parseInfixExpression,
		token.LT:             p.parseInfixExpression,
		token.GT:             p.parseInfixExpression,
		token.LTE:            p.parseInfixExpression,
		token.GTE:            p.parseInfixExpression,
		token.AMPERSAND_AMP:  p.parseInfixExpression,
		token.PIPE_PIPE:      p.parseInfixExpression,
		token.PIPE:           p.parseInfixExpression,
		token.AMPERSAND:      p.parseInfixExpression,
		token.QUESTION_QUEST: p.parseInfixExpression,
		token.INSTANCEOF:     p.parseInstanceofExpression,
		token.IN:             p.parseInExpression,
		token.ASSIGN:         p.parseAssignExpression,
		token.PLUS_ASSIGN:    p.parseAssignExpression,
		token.MINUS_ASSIGN:   p.parseAssignExpression,
		token.ASTERISK_ASSIGN: p.parseAssignExpression,
		token.SLASH_ASSIGN:   p.parseAssignExpression,
		token.QUESTION:       p.parseConditionalExpression,
		token.LPAREN:         p.parseCallExpression,
		token.LBRACKET:       p.parseIndexExpression,
		token.DOT:            p.parseMemberExpression,
		token.OPTIONAL_CHAIN: p.parseMemberExpression,
	}

	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) Errors() []*diagnostics.Diagnostic { return p.errors }

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curIs(t token.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekIs(t token.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t token.TokenType) {
	p.errors = append(p.errors, diagnostics.NewTokenError(p.file, p.peekToken, diagnostics.CodeUnexpectedToken,
		"expected next token to be %s, got %s instead", t, p.peekToken.Type))
}

func (p *Parser) curError(msg string, args ...interface{}) {
	p.errors = append(p.errors, diagnostics.NewTokenError(p.file, p.curToken, diagnostics.CodeUnexpectedToken,
		msg, args...))
}

func (p *Parser) curPrecedence() precedence {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) peekPrecedence() precedence {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return LOWEST
}

// ParseProgram parses the whole token stream into a *ast.Program.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{FilePath: p.file}
	for !p.curIs(token.EOF) {
		if stmt := p.parseStatement(); stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
		p.nextToken()
	}
	return prog
}

func (p *Parser) skipSemicolon() {
	if p.peekIs(token.SEMICOLON) {
		p.nextToken()
	}
}

func (p *Parser) illegal() ast.Expression {
	p.curError("%s", fmt.Sprintf("no prefix parse function for %s found", p.curToken.Type))
	return nil
}
