package parser

import (
	"github.com/cwbudde/coolc/internal/ast"
	"github.com/cwbudde/coolc/internal/lexer"
)

// parseExpr parses a full expression at the lowest precedence level
// (assignment), per the COOL grammar's precedence table (lowest to
// highest: <-, not, <=/</=, +/-, */, isvoid, ~, @, .).
func (p *Parser) parseExpr() ast.Expr {
	return p.parseAssign()
}

func (p *Parser) parseAssign() ast.Expr {
	if p.curToken.Type == lexer.OBJECTID && p.peekToken.Type == lexer.ASSIGN {
		idTok := p.curToken
		pos := idTok.Pos
		p.next() // consume id
		p.next() // consume <-
		e := p.parseAssign()
		return &ast.Assign{ExprBase: ast.NewExprBase(pos), E: e, ID: idTok.Literal}
	}
	return p.parseNot()
}

func (p *Parser) parseNot() ast.Expr {
	if p.curToken.Type == lexer.NOT {
		pos := p.curToken.Pos
		p.next()
		e := p.parseNot()
		return &ast.Unary{ExprBase: ast.NewExprBase(pos), E: e, Op: ast.UnaryNot}
	}
	return p.parseComparison()
}

func (p *Parser) parseComparison() ast.Expr {
	left := p.parseAddSub()
	var op ast.CmpKind
	switch p.curToken.Type {
	case lexer.LT:
		op = ast.OpLess
	case lexer.LE:
		op = ast.OpLessEq
	case lexer.EQ:
		op = ast.OpEq
	default:
		return left
	}
	pos := p.curToken.Pos
	p.next()
	right := p.parseAddSub()
	return &ast.BinaryCmp{ExprBase: ast.NewExprBase(pos), L: left, R: right, Op: op}
}

func (p *Parser) parseAddSub() ast.Expr {
	left := p.parseMulDiv()
	for p.curToken.Type == lexer.PLUS || p.curToken.Type == lexer.MINUS {
		pos := p.curToken.Pos
		op := ast.OpAdd
		if p.curToken.Type == lexer.MINUS {
			op = ast.OpSub
		}
		p.next()
		right := p.parseMulDiv()
		left = &ast.BinaryArith{ExprBase: ast.NewExprBase(pos), L: left, R: right, Op: op}
	}
	return left
}

func (p *Parser) parseMulDiv() ast.Expr {
	left := p.parseUnaryPrefix()
	for p.curToken.Type == lexer.STAR || p.curToken.Type == lexer.SLASH {
		pos := p.curToken.Pos
		op := ast.OpMul
		if p.curToken.Type == lexer.SLASH {
			op = ast.OpDiv
		}
		p.next()
		right := p.parseUnaryPrefix()
		left = &ast.BinaryArith{ExprBase: ast.NewExprBase(pos), L: left, R: right, Op: op}
	}
	return left
}

func (p *Parser) parseUnaryPrefix() ast.Expr {
	switch p.curToken.Type {
	case lexer.ISVOID:
		pos := p.curToken.Pos
		p.next()
		return &ast.Unary{ExprBase: ast.NewExprBase(pos), E: p.parseUnaryPrefix(), Op: ast.UnaryIsVoid}
	case lexer.TILDE:
		pos := p.curToken.Pos
		p.next()
		return &ast.Unary{ExprBase: ast.NewExprBase(pos), E: p.parseUnaryPrefix(), Op: ast.UnaryNeg}
	default:
		return p.parseDispatchChain()
	}
}

func (p *Parser) parseDispatchChain() ast.Expr {
	left := p.parsePrimary()
	for {
		switch p.curToken.Type {
		case lexer.DOT:
			pos := p.curToken.Pos
			p.next()
			methodTok, _ := p.expect(lexer.OBJECTID)
			args := p.parseArgs()
			left = &ast.Dispatch{ExprBase: ast.NewExprBase(pos), Receiver: left, Method: methodTok.Literal, Args: args}
		case lexer.AT:
			pos := p.curToken.Pos
			p.next()
			targetTok, _ := p.expect(lexer.TYPEID)
			p.expect(lexer.DOT)
			methodTok, _ := p.expect(lexer.OBJECTID)
			args := p.parseArgs()
			left = &ast.StaticDispatch{
				ExprBase: ast.NewExprBase(pos), Receiver: left,
				TargetClass: targetTok.Literal, Method: methodTok.Literal, Args: args,
			}
		default:
			return left
		}
	}
}

func (p *Parser) parseArgs() []ast.Expr {
	p.expect(lexer.LPAREN)
	var args []ast.Expr
	for p.curToken.Type != lexer.RPAREN && p.curToken.Type != lexer.EOF {
		args = append(args, p.parseExpr())
		if p.curToken.Type == lexer.COMMA {
			p.next()
		} else {
			break
		}
	}
	p.expect(lexer.RPAREN)
	return args
}

func (p *Parser) parsePrimary() ast.Expr {
	pos := p.curToken.Pos
	switch p.curToken.Type {
	case lexer.INT_LIT:
		v := parseIntLiteral(p.curToken)
		p.next()
		return &ast.IntLit{ExprBase: ast.NewExprBase(pos), Value: v}
	case lexer.STRING_LIT:
		v := p.curToken.Literal
		p.next()
		return &ast.StringLit{ExprBase: ast.NewExprBase(pos), Value: v}
	case lexer.BOOL_LIT:
		v := p.curToken.Literal == "true"
		p.next()
		return &ast.BoolLit{ExprBase: ast.NewExprBase(pos), Value: v}
	case lexer.OBJECTID:
		name := p.curToken.Literal
		p.next()
		if p.curToken.Type == lexer.LPAREN {
			args := p.parseArgs()
			return &ast.Dispatch{ExprBase: ast.NewExprBase(pos), Receiver: nil, Method: name, Args: args}
		}
		return &ast.Id{ExprBase: ast.NewExprBase(pos), Name: name}
	case lexer.LPAREN:
		p.next()
		e := p.parseExpr()
		p.expect(lexer.RPAREN)
		return e
	case lexer.LBRACE:
		return p.parseBlock()
	case lexer.IF:
		return p.parseIf()
	case lexer.WHILE:
		return p.parseWhile()
	case lexer.NEW:
		p.next()
		tok, _ := p.expect(lexer.TYPEID)
		return &ast.New{ExprBase: ast.NewExprBase(pos), TypeName: tok.Literal}
	case lexer.LET:
		return p.parseLet()
	case lexer.CASE:
		return p.parseCase()
	default:
		p.errorf(pos, "unexpected token %s (%q) in expression", p.curToken.Type, p.curToken.Literal)
		p.next()
		return &ast.IntLit{ExprBase: ast.NewExprBase(pos), Value: 0}
	}
}

func (p *Parser) parseBlock() ast.Expr {
	pos := p.curToken.Pos
	p.expect(lexer.LBRACE)
	var exprs []ast.Expr
	for p.curToken.Type != lexer.RBRACE && p.curToken.Type != lexer.EOF {
		exprs = append(exprs, p.parseExpr())
		p.expect(lexer.SEMI)
	}
	p.expect(lexer.RBRACE)
	return &ast.Block{ExprBase: ast.NewExprBase(pos), Exprs: exprs}
}

func (p *Parser) parseIf() ast.Expr {
	pos := p.curToken.Pos
	p.expect(lexer.IF)
	cond := p.parseExpr()
	p.expect(lexer.THEN)
	then := p.parseExpr()
	p.expect(lexer.ELSE)
	els := p.parseExpr()
	p.expect(lexer.FI)
	return &ast.If{ExprBase: ast.NewExprBase(pos), Cond: cond, Then: then, Else: els}
}

func (p *Parser) parseWhile() ast.Expr {
	pos := p.curToken.Pos
	p.expect(lexer.WHILE)
	cond := p.parseExpr()
	p.expect(lexer.LOOP)
	body := p.parseExpr()
	p.expect(lexer.POOL)
	return &ast.While{ExprBase: ast.NewExprBase(pos), Cond: cond, Body: body}
}

func (p *Parser) parseLet() ast.Expr {
	pos := p.curToken.Pos
	p.expect(lexer.LET)
	var bindings []*ast.LetBinding
	for {
		bindings = append(bindings, p.parseLetBinding())
		if p.curToken.Type == lexer.COMMA {
			p.next()
			continue
		}
		break
	}
	p.expect(lexer.IN)
	body := p.parseExpr()
	return &ast.Let{ExprBase: ast.NewExprBase(pos), Bindings: bindings, Body: body}
}

func (p *Parser) parseLetBinding() *ast.LetBinding {
	pos := p.curToken.Pos
	b := &ast.LetBinding{Loc: pos}
	if tok, ok := p.expect(lexer.OBJECTID); ok {
		b.ID = tok.Literal
	}
	p.expect(lexer.COLON)
	if tok, ok := p.expect(lexer.TYPEID); ok {
		b.TypeName = tok.Literal
	}
	if p.curToken.Type == lexer.ASSIGN {
		p.next()
		b.Init = p.parseExpr()
	}
	return b
}

func (p *Parser) parseCase() ast.Expr {
	pos := p.curToken.Pos
	p.expect(lexer.CASE)
	scrutinee := p.parseExpr()
	p.expect(lexer.OF)
	var branches []*ast.CaseBranch
	for p.curToken.Type != lexer.ESAC && p.curToken.Type != lexer.EOF {
		branches = append(branches, p.parseCaseBranch())
		p.expect(lexer.SEMI)
	}
	p.expect(lexer.ESAC)
	return &ast.Case{ExprBase: ast.NewExprBase(pos), Scrutinee: scrutinee, Branches: branches}
}

func (p *Parser) parseCaseBranch() *ast.CaseBranch {
	pos := p.curToken.Pos
	b := &ast.CaseBranch{Loc: pos}
	if tok, ok := p.expect(lexer.OBJECTID); ok {
		b.ID = tok.Literal
	}
	p.expect(lexer.COLON)
	if tok, ok := p.expect(lexer.TYPEID); ok {
		b.TypeName = tok.Literal
	}
	p.expect(lexer.DARROW)
	b.Body = p.parseExpr()
	return b
}
