package parser

import (
	"github.com/shfront/shfront/ast"
	"github.com/shfront/shfront/id"
	"github.com/shfront/shfront/lexer"
)

// bracedVarSub parses ${...}: a literal-or-special parameter name,
// optionally prefixed by `#`
// (length) or `!` (indirection/name-listing), optionally subscripted
// with `[index]`, and optionally followed by exactly one suffix
// operator (slice, replace, or one of the expansion operators).
func (p *Parser) bracedVarSub() *ast.BracedVarSub {
	dollar := p.tok.Pos
	p.pushMode(lexer.VS1)
	p.next()

	bv := &ast.BracedVarSub{Dollar: dollar}

	switch {
	case p.at(id.DHASH):
		// `${##}` is the length of $#, not a length-of-# prefix; only
		// treat a leading # as LengthOp when something else follows.
		bv.PrefixOp = ast.LengthOp
		p.tok.ID, p.tok.Value = id.HASH, "#"
	case p.at(id.HASH):
		bv.PrefixOp = ast.LengthOp
		p.next()
	case p.at(id.NOT):
		bv.PrefixOp = ast.IndirectOp
		p.next()
	}

	bv.NamePos = p.tok.Pos
	bv.Name = p.gotParamLit()

	p.popMode() // VS1
	p.pushMode(lexer.VS2)

	if p.at(id.LBRACK) {
		p.next()
		p.pushMode(lexer.Arith)
		idx := p.word()
		p.popMode()
		p.expect(id.RBRACK)
		bv.Index = idx
	}

	switch {
	case p.at(id.RBRACE):
		// bare ${name}
	case p.at(id.COLON):
		bv.Slice = p.parseSlice()
	case p.at(id.QUO), p.at(id.DQUO):
		bv.Replace = p.parseReplace()
	case p.at(id.CARET), p.at(id.DCARET), p.at(id.COMMA), p.at(id.DCOMMA):
		bv.Expand = p.parseCaseExpansion()
	case isSuffixOpToken(p.tok.ID):
		bv.Expand = p.parseExpansion()
	}

	p.popMode() // VS2 (or VS1, if no name-lit path pushed VS2 above)
	bv.Rbrace = p.tok.Pos
	if p.at(id.RBRACE) {
		p.next()
	}
	return bv
}

// gotParamLit reads the braced parameter's name: an ordinary identifier,
// or one of the single-character specials valid in this position.
func (p *Parser) gotParamLit() string {
	switch p.tok.ID {
	case id.LIT:
		v := p.tok.Value
		p.next()
		return v
	case id.DOLLAR:
		p.next()
		return "$"
	case id.QUEST:
		p.next()
		return "?"
	case id.HASH:
		p.next()
		return "#"
	case id.SUB:
		p.next()
		return "-"
	case id.AND:
		p.next()
		return "@"
	case id.MUL:
		p.next()
		return "*"
	}
	p.errorf(p.tok.Pos, "parameter expansion requires a literal")
	return ""
}

func isSuffixOpToken(t id.ID) bool {
	switch t {
	case id.CADD, id.ADD, id.CSUB, id.SUB, id.CQUEST, id.QUEST, id.CASSIGN, id.ASSIGN,
		id.HASH, id.DHASH, id.REM, id.DREM:
		return true
	}
	return false
}

func (p *Parser) parseSlice() *ast.Slice {
	p.next() // consume ':'
	sl := &ast.Slice{}
	if !p.at(id.COLON) {
		sl.Offset = p.arithWordOperand(id.COLON)
	}
	if p.at(id.COLON) {
		p.next()
		sl.Length = p.arithWordOperand(id.RBRACE)
	}
	return sl
}

// arithWordOperand parses a slice bound: an arithmetic expression over
// the VS2 token stream, stopping before stop or the closing brace.
func (p *Parser) arithWordOperand(stop id.ID) *ast.Word {
	w := p.word()
	_ = stop
	return w
}

func (p *Parser) parseReplace() *ast.Replace {
	all := p.at(id.DQUO)
	p.next()
	p.pushMode(p.vsArgMode())
	orig := p.word()
	var with *ast.Word
	if p.at(id.QUO) {
		p.next()
		with = p.word()
	}
	p.popMode()
	return &ast.Replace{All: all, Orig: orig, With: with}
}

// vsArgMode picks the lexer mode for a suffix operator's argument word:
// VSArgDQ when the ${...} being parsed is itself inside a DoubleQuoted
// ancestor (so the expander knows not to field-split the result), or
// VSArgUnq otherwise. The two modes tokenize identically; the choice
// only affects which one ends up on the mode stack for inspection.
func (p *Parser) vsArgMode() lexer.Mode {
	if p.lex.Modes.Contains(lexer.DQ) {
		return lexer.VSArgDQ
	}
	return lexer.VSArgUnq
}

func (p *Parser) parseExpansion() *ast.Expansion {
	var op ast.ExpansionOp
	switch p.tok.ID {
	case id.CADD:
		op = ast.SubstColPlus
	case id.ADD:
		op = ast.SubstPlus
	case id.CSUB:
		op = ast.SubstColMinus
	case id.SUB:
		op = ast.SubstMinus
	case id.CQUEST:
		op = ast.SubstColQuest
	case id.QUEST:
		op = ast.SubstQuest
	case id.CASSIGN:
		op = ast.SubstColAssgn
	case id.ASSIGN:
		op = ast.SubstAssgn
	case id.HASH:
		op = ast.RemSmallPrefix
	case id.DHASH:
		op = ast.RemLargePrefix
	case id.REM:
		op = ast.RemSmallSuffix
	case id.DREM:
		op = ast.RemLargeSuffix
	}
	p.next()
	inDouble := p.lex.Modes.Contains(lexer.DQ)
	p.pushMode(p.vsArgMode())
	w := p.word()
	p.popMode()
	return &ast.Expansion{Op: op, Word: w, InDouble: inDouble}
}

// parseCaseExpansion handles the bash case-conversion suffixes
// `^ ^^ , ,,`.
func (p *Parser) parseCaseExpansion() *ast.Expansion {
	var op ast.ExpansionOp
	switch p.tok.ID {
	case id.CARET:
		op = ast.UpperFirst
	case id.DCARET:
		op = ast.UpperAll
	case id.COMMA:
		op = ast.LowerFirst
	case id.DCOMMA:
		op = ast.LowerAll
	}
	p.next()
	inDouble := p.lex.Modes.Contains(lexer.DQ)
	p.pushMode(p.vsArgMode())
	var w *ast.Word
	if !p.at(id.RBRACE) {
		w = p.word()
	}
	p.popMode()
	return &ast.Expansion{Op: op, Word: w, InDouble: inDouble}
}
