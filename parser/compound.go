package parser

import (
	"github.com/shfront/shfront/arena"
	"github.com/shfront/shfront/ast"
	"github.com/shfront/shfront/id"
	"github.com/shfront/shfront/lexer"
)

func (p *Parser) braceGroup() ast.Command {
	lbrace := p.tok.Pos
	p.next()
	stmts := p.stmtList([]string{"}"})
	rbrace := p.tok.Pos
	if !p.atWord("}") {
		p.errorf(p.tok.Pos, "expected }, found %s", p.tok.ID)
	} else {
		p.next()
	}
	return &ast.BraceGroup{Lbrace: lbrace, Rbrace: rbrace, Stmts: stmts}
}

func (p *Parser) subshell() ast.Command {
	lparen := p.tok.Pos
	p.next()
	stmts := p.stmtList(nil)
	rparen := p.tok.Pos
	if !p.at(id.RPAREN) {
		p.errorf(p.tok.Pos, "expected ), found %s", p.tok.ID)
	} else {
		p.next()
	}
	return &ast.Subshell{Lparen: lparen, Rparen: rparen, Stmts: stmts}
}

func (p *Parser) dparen() ast.Command {
	left := p.tok.Pos
	p.pushMode(lexer.Arith)
	p.next()
	x := p.arithExpr(id.RPAREN)
	p.popMode()
	right := p.tok.Pos
	p.expect(id.RPAREN)
	p.expect(id.RPAREN)
	return &ast.DParen{Left: left, Right: right, X: x}
}

func (p *Parser) dbracket() ast.Command {
	left := p.tok.Pos
	p.next()
	x := p.boolExpr()
	right := p.tok.Pos
	if !p.atWord("]]") {
		p.errorf(p.tok.Pos, "expected ]], found %s", p.tok.ID)
	} else {
		p.next()
	}
	return &ast.DBracket{Left: left, Right: right, X: x}
}

// doGroup parses `do stmts done`, used by for/while/until.
func (p *Parser) doGroup() *ast.DoGroup {
	if !p.atWord(id.RsrvDo) {
		p.errorf(p.tok.Pos, "expected do, found %s", p.tok.ID)
		return &ast.DoGroup{}
	}
	do := p.tok.Pos
	p.next()
	stmts := p.stmtList([]string{id.RsrvDone})
	done := p.tok.Pos
	if !p.atWord(id.RsrvDone) {
		p.errorf(p.tok.Pos, "expected done, found %s", p.tok.ID)
	} else {
		p.next()
	}
	return &ast.DoGroup{Do: do, Done: done, Stmts: stmts}
}

func (p *Parser) whileClause(until bool) ast.Command {
	kw := p.tok.Pos
	p.next()
	cond := p.stmtList([]string{id.RsrvDo})
	body := p.doGroup()
	if until {
		return &ast.Until{Until: kw, CondStmts: cond, Body: body}
	}
	return &ast.While{While: kw, CondStmts: cond, Body: body}
}

func (p *Parser) forClause() ast.Command {
	forPos := p.tok.Pos
	p.next()
	if p.at(id.DLPAREN) {
		lparen := p.tok.Pos
		p.next()
		initX := p.optArithExpr(id.SEMICOLON)
		p.expect(id.SEMICOLON)
		condX := p.optArithExpr(id.SEMICOLON)
		p.expect(id.SEMICOLON)
		updateX := p.optArithExpr(id.RPAREN)
		rparen := p.tok.Pos
		p.expect(id.RPAREN)
		p.expect(id.RPAREN)
		for p.at(id.SEMICOLON) || p.at(id.NEWLINE) {
			p.next()
		}
		body := p.doGroup()
		return &ast.ForExpr{For: forPos, Lparen: lparen, Rparen: rparen,
			Init: initX, Cond: condX, Update: updateX, Body: body}
	}

	namePos := p.tok.Pos
	name := p.tok.Value
	if !p.at(id.LIT) {
		p.errorf(p.tok.Pos, "expected name after for")
	} else {
		if !isValidName(name) {
			p.errorf(namePos, "invalid for-loop variable name %q", name)
		}
		p.next()
	}
	for p.at(id.NEWLINE) {
		p.next()
	}
	doArgIter := true
	var words []*ast.Word
	if p.atWord(id.RsrvIn) {
		doArgIter = false
		p.next()
		for !p.at(id.SEMICOLON) && !p.at(id.NEWLINE) && !p.at(id.EOF) {
			words = append(words, p.word())
		}
	}
	for p.at(id.SEMICOLON) || p.at(id.NEWLINE) {
		p.next()
	}
	body := p.doGroup()
	return &ast.ForEach{For: forPos, IterName: name, NamePos: namePos,
		DoArgIter: doArgIter, IterWords: words, Body: body}
}

func (p *Parser) ifClause() ast.Command {
	var arms []*ast.IfArm
	for {
		kw := p.tok.Pos
		p.next()
		cond := p.stmtList([]string{id.RsrvThen})
		if !p.atWord(id.RsrvThen) {
			p.errorf(p.tok.Pos, "expected then, found %s", p.tok.ID)
		} else {
			p.next()
		}
		then := p.stmtList([]string{id.RsrvElif, id.RsrvElse, id.RsrvFi})
		arms = append(arms, &ast.IfArm{Keyword: kw, CondStmts: cond, ThenStmts: then})
		if p.atWord(id.RsrvElif) {
			continue
		}
		break
	}
	var elsePos arena.Pos
	var elseStmts []ast.Command
	if p.atWord(id.RsrvElse) {
		elsePos = p.tok.Pos
		p.next()
		elseStmts = p.stmtList([]string{id.RsrvFi})
	}
	fi := p.tok.Pos
	if !p.atWord(id.RsrvFi) {
		p.errorf(p.tok.Pos, "expected fi, found %s", p.tok.ID)
	} else {
		p.next()
	}
	return &ast.If{Arms: arms, Else: elsePos, ElseStmts: elseStmts, Fi: fi}
}

func (p *Parser) caseClause() ast.Command {
	casePos := p.tok.Pos
	p.next()
	toMatch := p.word()
	for p.at(id.NEWLINE) {
		p.next()
	}
	if !p.atWord(id.RsrvIn) {
		p.errorf(p.tok.Pos, "expected in, found %s", p.tok.ID)
	} else {
		p.next()
	}
	for p.at(id.NEWLINE) {
		p.next()
	}
	var arms []*ast.CaseArm
	for !p.atWord(id.RsrvEsac) && !p.at(id.EOF) && !p.failed() {
		if p.at(id.LPAREN) {
			p.next()
		}
		var pats []*ast.Word
		pats = append(pats, p.word())
		for p.at(id.OR) {
			p.next()
			pats = append(pats, p.word())
		}
		p.expect(id.RPAREN)
		for p.at(id.NEWLINE) {
			p.next()
		}
		stmts := p.stmtList([]string{id.RsrvEsac})
		op := ast.CaseBreak
		opPos := p.tok.Pos
		switch {
		case p.at(id.DSEMICOLON):
			op = ast.CaseBreak
			p.next()
		case p.at(id.SEMIFALL):
			op = ast.CaseFallThru
			p.next()
		case p.at(id.DSEMIFALL):
			op = ast.CaseContTest
			p.next()
		}
		for p.at(id.NEWLINE) {
			p.next()
		}
		arms = append(arms, &ast.CaseArm{Patterns: pats, Op: op, OpPos: opPos, Stmts: stmts})
	}
	esac := p.tok.Pos
	if !p.atWord(id.RsrvEsac) {
		p.errorf(p.tok.Pos, "expected esac, found %s", p.tok.ID)
	} else {
		p.next()
	}
	return &ast.Case{Case: casePos, Esac: esac, ToMatch: toMatch, Arms: arms}
}

func (p *Parser) funcDefKeyword() ast.Command {
	pos := p.tok.Pos
	p.next()
	namePos := p.tok.Pos
	name := p.tok.Value
	if !isValidName(name) {
		p.errorf(namePos, "invalid function name %q", name)
	}
	p.next()
	if p.at(id.LPAREN) {
		p.next()
		p.expect(id.RPAREN)
	}
	for p.at(id.NEWLINE) {
		p.next()
	}
	body := p.compoundOrSimple()
	return &ast.FuncDef{Position: pos, BashStyle: true, Name: name, NamePos: namePos, Body: body}
}

// tryFuncDef recognizes the POSIX `name() { ...; }` form. It speculates
// past the name and an empty parameter list using a checkpoint, and
// rewinds if what follows isn't `()`, so a simple command whose first
// word happens to be a bare name is never misparsed.
func (p *Parser) tryFuncDef() ast.Command {
	if p.tok.ID != id.LIT || id.Reserved(p.tok.Value) || !isValidName(p.tok.Value) {
		return nil
	}
	cp := p.mark()
	namePos := p.tok.Pos
	name := p.tok.Value
	p.next()
	if !p.at(id.LPAREN) {
		p.rewind(cp)
		return nil
	}
	p.next()
	if !p.at(id.RPAREN) {
		p.rewind(cp)
		return nil
	}
	p.next()
	for p.at(id.NEWLINE) {
		p.next()
	}
	body := p.compoundOrSimple()
	return &ast.FuncDef{Position: namePos, BashStyle: false, Name: name, NamePos: namePos, Body: body}
}
