package parser

import (
	"github.com/shfront/shfront/ast"
	"github.com/shfront/shfront/id"
)

// boolExpr parses a `[[ ]]` expression: or-expr over and-exprs over
// not-exprs over primaries, matching bash's test.c precedence. Unary and
// binary test operators (`-e`, `-f`, `-eq`, `-nt`, ...) are ordinary
// words in this context, not dedicated lexer tokens, since they are only
// meaningful here and nowhere else a LIT can appear; the table below is
// the parser's own contextual recognition of them via plain literal
// lookups rather than unconditionally reserving them as keywords.
func (p *Parser) boolExpr() ast.BoolExpr {
	return p.boolOr()
}

func (p *Parser) boolOr() ast.BoolExpr {
	left := p.boolAnd()
	for p.at(id.LOR) {
		p.next()
		right := p.boolAnd()
		left = &ast.BoolOr{X: left, Y: right}
	}
	return left
}

func (p *Parser) boolAnd() ast.BoolExpr {
	left := p.boolNot()
	for p.at(id.LAND) {
		p.next()
		right := p.boolNot()
		left = &ast.BoolAnd{X: left, Y: right}
	}
	return left
}

func (p *Parser) boolNot() ast.BoolExpr {
	if p.atWord("!") {
		pos := p.tok.Pos
		p.next()
		x := p.boolNot()
		return &ast.BoolNot{Bang: pos, X: x}
	}
	return p.boolPrimary()
}

var unaryTestOps = map[string]ast.UnaryTestOp{
	"-e": ast.TestExists, "-f": ast.TestRegFile, "-d": ast.TestDir,
	"-c": ast.TestChar, "-b": ast.TestBlock, "-p": ast.TestPipe,
	"-S": ast.TestSocket, "-L": ast.TestSymlink, "-h": ast.TestSymlink,
	"-g": ast.TestSetgid, "-u": ast.TestSetuid, "-r": ast.TestReadabl,
	"-w": ast.TestWritabl, "-x": ast.TestExecabl, "-s": ast.TestNoEmpty,
	"-t": ast.TestTermFd, "-z": ast.TestEmptStr, "-n": ast.TestNEmpStr,
	"-o": ast.TestOptSet, "-v": ast.TestVarSet, "-R": ast.TestNameRef,
}

var binaryTestOps = map[string]ast.BoolBinaryOp{
	"=": ast.TestAssgn, "==": ast.TestEql, "!=": ast.TestNeq,
	"-eq": ast.TestNumEq, "-ne": ast.TestNumNe, "-lt": ast.TestNumLt,
	"-le": ast.TestNumLe, "-gt": ast.TestNumGt, "-ge": ast.TestNumGe,
	"=~": ast.TestRegex, "-nt": ast.TestNewer, "-ot": ast.TestOlder,
	"-ef": ast.TestDevIno,
}

func (p *Parser) boolPrimary() ast.BoolExpr {
	if p.at(id.LPAREN) {
		lparen := p.tok.Pos
		p.next()
		x := p.boolExpr()
		rparen := p.tok.Pos
		p.expect(id.RPAREN)
		return &ast.BoolParen{Lparen: lparen, Rparen: rparen, X: x}
	}
	if p.tok.ID == id.LIT {
		if op, ok := unaryTestOps[p.tok.Value]; ok {
			pos := p.tok.Pos
			p.next()
			x := p.boolPrimary()
			return &ast.BoolUnary{OpPos: pos, Op: op, X: x}
		}
	}
	w := p.word()
	left := ast.BoolExpr(&ast.WordTest{W: w})

	if p.at(id.LSS) || p.at(id.GTR) {
		op := ast.TestLss
		if p.at(id.GTR) {
			op = ast.TestGtr
		}
		pos := p.tok.Pos
		p.next()
		y := p.word()
		return &ast.BoolBinary{OpPos: pos, Op: op, X: left, Y: &ast.WordTest{W: y}}
	}
	if p.tok.ID == id.LIT {
		if op, ok := binaryTestOps[p.tok.Value]; ok {
			pos := p.tok.Pos
			p.next()
			y := p.word()
			return &ast.BoolBinary{OpPos: pos, Op: op, X: left, Y: &ast.WordTest{W: y}}
		}
	}
	return left
}
