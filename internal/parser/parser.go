// Package parser implements a recursive-descent parser for COOL, producing
// the internal/ast tree consumed by internal/semantic. Grounded in the
// teacher's internal/parser package (a Parser wrapping a Lexer, a
// cur/peek token cursor, accumulated Errors()) scaled down to COOL's
// much smaller grammar.
package parser

import (
	"fmt"
	"strconv"

	"github.com/cwbudde/coolc/internal/ast"
	"github.com/cwbudde/coolc/internal/lexer"
)

// Parser turns a token stream from a Lexer into an *ast.Program.
type Parser struct {
	l         *lexer.Lexer
	errors    []ParseError
	curToken  lexer.Token
	peekToken lexer.Token
}

// New creates a Parser reading from l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.next()
	p.next()
	return p
}

// Errors returns every parse error accumulated, plus any lexer errors
// surfaced while scanning tokens.
func (p *Parser) Errors() []ParseError {
	errs := make([]ParseError, len(p.errors))
	copy(errs, p.errors)
	for _, le := range p.l.Errors() {
		errs = append(errs, ParseError{Message: le.Message, Pos: le.Pos})
	}
	return errs
}

func (p *Parser) next() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) errorf(pos ast.Position, format string, args ...any) {
	p.errors = append(p.errors, ParseError{Message: fmt.Sprintf(format, args...), Pos: pos})
}

func (p *Parser) expect(t lexer.TokenType) (lexer.Token, bool) {
	if p.curToken.Type != t {
		p.errorf(p.curToken.Pos, "expected %s, got %s (%q)", t, p.curToken.Type, p.curToken.Literal)
		return p.curToken, false
	}
	tok := p.curToken
	p.next()
	return tok, true
}

// ParseProgram parses a complete COOL translation unit: one or more class
// definitions, each terminated by ';'.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}
	for p.curToken.Type != lexer.EOF {
		class := p.parseClass()
		if class != nil {
			program.Classes = append(program.Classes, class)
		}
		if _, ok := p.expect(lexer.SEMI); !ok {
			p.recoverToNextClass()
		}
	}
	return program
}

// recoverToNextClass skips tokens until the next "class" keyword or EOF,
// so one malformed class definition doesn't prevent reporting errors in
// the rest of the program.
func (p *Parser) recoverToNextClass() {
	for p.curToken.Type != lexer.CLASS && p.curToken.Type != lexer.EOF {
		p.next()
	}
}

func (p *Parser) parseClass() *ast.Class {
	pos := p.curToken.Pos
	if _, ok := p.expect(lexer.CLASS); !ok {
		return nil
	}

	nameTok, ok := p.expect(lexer.TYPEID)
	if !ok {
		return nil
	}
	class := &ast.Class{Name: nameTok.Literal, Loc: pos}

	if p.curToken.Type == lexer.INHERITS {
		p.next()
		parentTok, ok := p.expect(lexer.TYPEID)
		if ok {
			class.Parent = parentTok.Literal
		}
	}

	if _, ok := p.expect(lexer.LBRACE); !ok {
		return class
	}

	for p.curToken.Type != lexer.RBRACE && p.curToken.Type != lexer.EOF {
		p.parseFeature(class)
		if _, ok := p.expect(lexer.SEMI); !ok {
			break
		}
	}
	p.expect(lexer.RBRACE)

	return class
}

func (p *Parser) parseFeature(class *ast.Class) {
	idTok, ok := p.expect(lexer.OBJECTID)
	if !ok {
		p.skipToFeatureBoundary()
		return
	}

	if p.curToken.Type == lexer.LPAREN {
		class.Methods = append(class.Methods, p.parseMethod(idTok))
		return
	}

	class.Attributes = append(class.Attributes, p.parseAttribute(idTok))
}

func (p *Parser) skipToFeatureBoundary() {
	for p.curToken.Type != lexer.SEMI && p.curToken.Type != lexer.RBRACE && p.curToken.Type != lexer.EOF {
		p.next()
	}
}

func (p *Parser) parseMethod(idTok lexer.Token) *ast.Method {
	m := &ast.Method{ID: idTok.Literal, Loc: idTok.Pos}
	p.expect(lexer.LPAREN)
	for p.curToken.Type != lexer.RPAREN && p.curToken.Type != lexer.EOF {
		m.Formals = append(m.Formals, p.parseFormal())
		if p.curToken.Type == lexer.COMMA {
			p.next()
		} else {
			break
		}
	}
	p.expect(lexer.RPAREN)
	p.expect(lexer.COLON)
	if tok, ok := p.expect(lexer.TYPEID); ok {
		m.ReturnTypeName = tok.Literal
	}
	p.expect(lexer.LBRACE)
	m.Body = p.parseExpr()
	p.expect(lexer.RBRACE)
	return m
}

func (p *Parser) parseFormal() *ast.Formal {
	f := &ast.Formal{Loc: p.curToken.Pos}
	if tok, ok := p.expect(lexer.OBJECTID); ok {
		f.ID = tok.Literal
	}
	p.expect(lexer.COLON)
	if tok, ok := p.expect(lexer.TYPEID); ok {
		f.TypeName = tok.Literal
	}
	return f
}

func (p *Parser) parseAttribute(idTok lexer.Token) *ast.Attribute {
	a := &ast.Attribute{ID: idTok.Literal, Loc: idTok.Pos}
	p.expect(lexer.COLON)
	if tok, ok := p.expect(lexer.TYPEID); ok {
		a.TypeName = tok.Literal
	}
	if p.curToken.Type == lexer.ASSIGN {
		p.next()
		a.InitExpr = p.parseExpr()
	}
	return a
}

func parseIntLiteral(tok lexer.Token) int32 {
	v, err := strconv.ParseInt(tok.Literal, 10, 32)
	if err != nil {
		return 0
	}
	return int32(v)
}
