package parser

import (
	"github.com/shfront/shfront/arena"
	"github.com/shfront/shfront/ast"
	"github.com/shfront/shfront/id"
)

// Arithmetic expressions are parsed with a table-driven Pratt parser
// (binding-power climbing) rather than a chain of per-precedence-level
// functions. The operator set, precedence and associativity below match
// bash's arithmetic grammar.

// bindingPower gives the left binding power of a binary/assignment/
// ternary operator token. Higher binds tighter. 0 means "not a binary
// operator here".
func bindingPower(t id.ID) int {
	switch t {
	case id.COMMA:
		return 10
	case id.ASSIGN, id.ADDASSGN, id.SUBASSGN, id.MULASSGN, id.QUOASSGN,
		id.REMASSGN, id.ANDASSGN, id.ORASSGN, id.XORASSGN, id.SHLASSGN, id.SHRASSGN:
		return 20
	case id.QUEST:
		return 30
	case id.LOR:
		return 40
	case id.LAND:
		return 50
	case id.OR:
		return 60
	case id.XOR:
		return 70
	case id.AND:
		return 80
	case id.EQL, id.NEQ:
		return 90
	case id.LSS, id.LEQ, id.GTR, id.GEQ:
		return 100
	case id.SHL, id.SHR:
		return 110
	case id.ADD, id.SUB:
		return 120
	case id.MUL, id.QUO, id.REM:
		return 130
	case id.POW:
		return 140
	}
	return 0
}

// rightAssoc reports whether the operator groups right-to-left.
func rightAssoc(t id.ID) bool {
	switch t {
	case id.ASSIGN, id.ADDASSGN, id.SUBASSGN, id.MULASSGN, id.QUOASSGN,
		id.REMASSGN, id.ANDASSGN, id.ORASSGN, id.XORASSGN, id.SHLASSGN, id.SHRASSGN,
		id.QUEST, id.POW:
		return true
	}
	return false
}

func assignOp(t id.ID) (ast.ArithOp, bool) {
	switch t {
	case id.ASSIGN:
		return ast.Assgn, true
	case id.ADDASSGN:
		return ast.AddAssgn, true
	case id.SUBASSGN:
		return ast.SubAssgn, true
	case id.MULASSGN:
		return ast.MulAssgn, true
	case id.QUOASSGN:
		return ast.QuoAssgn, true
	case id.REMASSGN:
		return ast.RemAssgn, true
	case id.ANDASSGN:
		return ast.AndAssgn, true
	case id.ORASSGN:
		return ast.OrAssgn, true
	case id.XORASSGN:
		return ast.XorAssgn, true
	case id.SHLASSGN:
		return ast.ShlAssgn, true
	case id.SHRASSGN:
		return ast.ShrAssgn, true
	}
	return 0, false
}

func binOp(t id.ID) (ast.ArithOp, bool) {
	switch t {
	case id.COMMA:
		return ast.Comma, true
	case id.LOR:
		return ast.OrArit, true
	case id.LAND:
		return ast.AndArit, true
	case id.OR:
		return ast.Or, true
	case id.XOR:
		return ast.Xor, true
	case id.AND:
		return ast.And, true
	case id.EQL:
		return ast.Eql, true
	case id.NEQ:
		return ast.Neq, true
	case id.LSS:
		return ast.Lss, true
	case id.LEQ:
		return ast.Leq, true
	case id.GTR:
		return ast.Gtr, true
	case id.GEQ:
		return ast.Geq, true
	case id.SHL:
		return ast.Shl, true
	case id.SHR:
		return ast.Shr, true
	case id.ADD:
		return ast.Add, true
	case id.SUB:
		return ast.Sub, true
	case id.MUL:
		return ast.Mul, true
	case id.QUO:
		return ast.Quo, true
	case id.REM:
		return ast.Rem, true
	case id.POW:
		return ast.Pow, true
	}
	return 0, false
}

// optArithExpr parses an arithmetic expression that may be entirely
// absent (the empty clause of a C-style `for ((;;))`), stopping before
// stop without consuming it.
func (p *Parser) optArithExpr(stop id.ID) ast.ArithExpr {
	if p.at(stop) {
		return nil
	}
	return p.arithExpr(stop)
}

// arithExpr parses a full comma/assignment/ternary/binary arithmetic
// expression via Pratt climbing, stopping before stop (typically the
// closing `)`, `]` or `;`) without consuming it.
func (p *Parser) arithExpr(stop id.ID) ast.ArithExpr {
	return p.arithBP(0, stop)
}

func (p *Parser) arithBP(minBP int, stop id.ID) ast.ArithExpr {
	left := p.arithUnary(stop)
	if left == nil {
		return nil
	}
	for {
		if p.at(stop) || p.at(id.RPAREN) || p.at(id.RBRACE) || p.at(id.EOF) || p.failed() {
			break
		}
		if p.at(id.COLON) {
			break // ternary's own `:`, handled by the caller
		}
		bp := bindingPower(p.tok.ID)
		if bp == 0 || bp < minBP {
			break
		}
		opTok := p.tok.ID
		opPos := p.tok.Pos

		if opTok == id.QUEST {
			p.next()
			thenExpr := p.arithBP(0, stop)
			if !p.at(id.COLON) {
				p.errorf(p.tok.Pos, "ternary operator missing :")
			} else {
				p.next()
			}
			elseExpr := p.arithBP(bp, stop)
			left = &ast.ArithTernary{Cond: left, Then: thenExpr, Else: elseExpr}
			continue
		}

		next := bp + 1
		if rightAssoc(opTok) {
			next = bp
		}

		if aop, ok := assignOp(opTok); ok {
			p.next()
			rhs := p.arithBP(next, stop)
			left = &ast.ArithAssign{OpPos: opPos, Op: aop, LValue: left, RHS: rhs}
			continue
		}
		bop, _ := binOp(opTok)
		p.next()
		rhs := p.arithBP(next, stop)
		left = &ast.ArithBinary{OpPos: opPos, Op: bop, X: left, Y: rhs}
	}
	return left
}

// arithUnary parses a prefix-unary or primary arithmetic expression,
// including postfix ++/--.
func (p *Parser) arithUnary(stop id.ID) ast.ArithExpr {
	switch p.tok.ID {
	case id.NOT:
		pos := p.tok.Pos
		p.next()
		x := p.arithUnary(stop)
		return &ast.ArithUnary{OpPos: pos, Op: ast.Not, X: x}
	case id.TNOT:
		pos := p.tok.Pos
		p.next()
		x := p.arithUnary(stop)
		return &ast.ArithUnary{OpPos: pos, Op: ast.BitNegation, X: x}
	case id.ADD:
		pos := p.tok.Pos
		p.next()
		x := p.arithUnary(stop)
		return &ast.ArithUnary{OpPos: pos, Op: ast.Add, X: x}
	case id.SUB:
		pos := p.tok.Pos
		p.next()
		x := p.arithUnary(stop)
		return &ast.ArithUnary{OpPos: pos, Op: ast.Sub, X: x}
	case id.INC:
		pos := p.tok.Pos
		p.next()
		x := p.arithUnary(stop)
		return &ast.ArithUnary{OpPos: pos, Op: ast.Inc, X: x}
	case id.DEC:
		pos := p.tok.Pos
		p.next()
		x := p.arithUnary(stop)
		return &ast.ArithUnary{OpPos: pos, Op: ast.Dec, X: x}
	}
	return p.arithPostfix(stop)
}

func (p *Parser) arithPostfix(stop id.ID) ast.ArithExpr {
	x := p.arithPrimary(stop)
	for {
		switch p.tok.ID {
		case id.INC:
			pos := p.tok.Pos
			p.next()
			x = &ast.ArithUnary{OpPos: pos, Op: ast.Inc, Post: true, X: x}
		case id.DEC:
			pos := p.tok.Pos
			p.next()
			x = &ast.ArithUnary{OpPos: pos, Op: ast.Dec, Post: true, X: x}
		default:
			return x
		}
	}
}

func (p *Parser) arithPrimary(stop id.ID) ast.ArithExpr {
	switch p.tok.ID {
	case id.LPAREN:
		lparen := p.tok.Pos
		p.next()
		x := p.arithBP(0, id.RPAREN)
		rparen := p.tok.Pos
		p.expect(id.RPAREN)
		return &ast.ArithParen{Lparen: lparen, Rparen: rparen, X: x}
	case id.LIT:
		name := p.tok.Value
		pos := p.tok.Pos
		if isValidName(name) {
			p.next()
			if p.at(id.LPAREN) {
				return p.arithFuncCall(pos, name)
			}
			return &ast.ArithVar{NamePos: pos, Name: name}
		}
	}
	w := p.word()
	if w == nil || len(w.Parts) == 0 {
		return nil
	}
	return &ast.ArithWord{W: w}
}

func (p *Parser) arithFuncCall(pos arena.Pos, name string) ast.ArithExpr {
	p.next() // consume '('
	var args []ast.ArithExpr
	for !p.at(id.RPAREN) && !p.at(id.EOF) && !p.failed() {
		args = append(args, p.arithBP(0, id.COMMA))
		if p.at(id.COMMA) {
			p.next()
			continue
		}
		break
	}
	rparen := p.tok.Pos
	p.expect(id.RPAREN)
	return &ast.ArithFuncCall{NamePos: pos, Name: name, Rparen: rparen, Args: args}
}
