package parser

import (
	"strings"

	"github.com/shfront/shfront/ast"
	"github.com/shfront/shfront/id"
	"github.com/shfront/shfront/lexer"
)

// word parses one compound word: a maximal run of word parts glued
// together with no intervening blank.
func (p *Parser) word() *ast.Word {
	var parts []ast.WordPart
	first := true
	for p.startsWord() && (first || !p.tok.PrecededBySpace) {
		part := p.wordPart(first)
		if part == nil {
			break
		}
		parts = append(parts, part)
		first = false
	}
	return &ast.Word{Parts: parts}
}

// wordPart dispatches on the current token to produce exactly one
// WordPart, without looking at whether a following part is glued to it
// (word() handles gluing).
func (p *Parser) wordPart(atWordStart bool) ast.WordPart {
	switch p.tok.ID {
	case id.LIT:
		return p.literalOrTilde(atWordStart)
	case id.SQUOTE:
		return p.singleQuoted(false)
	case id.DOLLSQ:
		return p.singleQuoted(true)
	case id.DQUOTE:
		return p.doubleQuoted(false)
	case id.DOLLDQ:
		return p.doubleQuoted(true)
	case id.DOLLAR:
		return p.simpleVarSub()
	case id.DOLLBR:
		return p.bracedVarSub()
	case id.DOLLBK:
		return p.legacyArithSub()
	case id.DOLLPR:
		return p.commandSub(false)
	case id.BQUOTE:
		return p.backquoteSub()
	case id.DOLLDP:
		return p.arithSub()
	case id.LPAREN:
		return p.arrayLiteral()
	}
	return nil
}

func (p *Parser) literalOrTilde(atWordStart bool) ast.WordPart {
	val := p.tok.Value
	pos := p.tok.Pos
	if len(val) == 1 && val[0] == '\\' {
		// The lexer hands back a bare backslash only at EOF (a
		// trailing, meaningless escape); treat it as a literal.
		p.next()
		return &ast.Literal{ValuePos: pos, Value: val}
	}
	if len(val) == 2 && val[0] == '\\' {
		p.next()
		return &ast.EscapedLiteral{Backslash: pos, Char: val[1]}
	}
	if atWordStart && strings.HasPrefix(val, "~") {
		prefix := val[1:]
		if i := strings.IndexByte(prefix, '/'); i >= 0 {
			// The slash and what follows stay the current token, so they
			// become the next part of the word.
			prefix = prefix[:i]
			p.tok.Value, p.tok.Pos = val[1+i:], pos.Add(1+i)
			p.tok.PrecededBySpace, p.tok.PrecededByNewline = false, false
		} else {
			p.next()
		}
		return &ast.TildeSub{Position: pos, Prefix: prefix}
	}
	p.next()
	return &ast.Literal{ValuePos: pos, Value: val}
}

func (p *Parser) singleQuoted(dollar bool) ast.WordPart {
	pos := p.tok.Pos
	p.pushMode(lexer.SQ)
	p.next() // consumes the opening ' or $' and lexes the quoted text
	val := p.tok.Value
	p.popMode()
	// The lexer's SQ handler consumes the closing quote itself; advance
	// past it now that we're back in the enclosing mode.
	p.next()
	if dollar {
		val = translateAnsiCEscapes(val)
	}
	return &ast.SingleQuoted{Position: pos, Dollar: dollar, Value: val}
}

func translateAnsiCEscapes(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			switch s[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '\\':
				b.WriteByte('\\')
			case '\'':
				b.WriteByte('\'')
			case 'a':
				b.WriteByte(7)
			case 'b':
				b.WriteByte(8)
			case 'e', 'E':
				b.WriteByte(27)
			case 'f':
				b.WriteByte(12)
			case 'v':
				b.WriteByte(11)
			case '0':
				b.WriteByte(0)
			default:
				b.WriteByte('\\')
				b.WriteByte(s[i])
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func (p *Parser) doubleQuoted(dollar bool) *ast.DoubleQuoted {
	pos := p.tok.Pos
	p.pushMode(lexer.DQ)
	p.next()
	var parts []ast.WordPart
	for !p.at(id.DQUOTE) && !p.at(id.EOF) && !p.failed() {
		part := p.wordPart(false)
		if part == nil {
			break
		}
		parts = append(parts, part)
	}
	p.popMode()
	rquote := p.tok.Pos
	if p.at(id.DQUOTE) {
		p.next()
	} else {
		rquote = 0
	}
	return &ast.DoubleQuoted{Position: pos, Rquote: rquote, Dollar: dollar, Parts: parts}
}

func (p *Parser) simpleVarSub() ast.WordPart {
	pos := p.tok.Pos
	p.next()
	name := p.readSpecialOrName()
	return &ast.SimpleVarSub{Dollar: pos, Name: name}
}

// readSpecialOrName reads the name following a bare `$`: either one of
// the single-character specials ($?, $!, $$, $#, $@, $*, $-, $0-$9) or an
// ordinary identifier.
func (p *Parser) readSpecialOrName() string {
	if !p.at(id.LIT) {
		return ""
	}
	val := p.tok.Value
	if val == "" {
		p.next()
		return val
	}
	c := val[0]
	switch {
	case c == '?' || c == '!' || c == '$' || c == '#' || c == '@' || c == '*' || c == '-':
		// Only the first byte belongs to the special; anything after it
		// is a separate literal glued onto the next word part.
		if len(val) > 1 {
			p.tok.Value = val[1:]
			p.tok.Pos = p.tok.Pos.Add(1)
			return string(c)
		}
		p.next()
		return string(c)
	case c >= '0' && c <= '9':
		if len(val) > 1 {
			p.tok.Value = val[1:]
			p.tok.Pos = p.tok.Pos.Add(1)
			return string(c)
		}
		p.next()
		return string(c)
	default:
		name, rest := splitName(val)
		if rest == "" {
			p.next()
		} else {
			p.tok.Value = rest
			p.tok.Pos = p.tok.Pos.Add(len(name))
		}
		return name
	}
}

func splitName(s string) (name, rest string) {
	i := 0
	for i < len(s) {
		c := s[i]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' || (i > 0 && c >= '0' && c <= '9') {
			i++
			continue
		}
		break
	}
	return s[:i], s[i:]
}

func (p *Parser) pushMode(m lexer.Mode) { p.lex.Modes.Push(m) }
func (p *Parser) popMode()              { p.lex.Modes.Pop() }

func (p *Parser) commandSub(backquotes bool) *ast.CommandSub {
	left := p.tok.Pos
	p.next()
	stmts := p.stmtList(nil)
	right := p.tok.Pos
	p.expect(id.RPAREN)
	return &ast.CommandSub{Left: left, Right: right, Backquotes: backquotes, Stmts: stmts}
}

func (p *Parser) backquoteSub() *ast.CommandSub {
	left := p.tok.Pos
	p.next()
	p.pushMode(lexer.DQ)
	stmts := p.stmtList(nil)
	p.popMode()
	right := p.tok.Pos
	if p.at(id.BQUOTE) {
		p.next()
	}
	return &ast.CommandSub{Left: left, Right: right, Backquotes: true, Stmts: stmts}
}

func (p *Parser) legacyArithSub() *ast.ArithSub {
	left := p.tok.Pos
	p.pushMode(lexer.Arith)
	p.next()
	x := p.arithExpr(id.RBRACK)
	p.popMode()
	right := p.tok.Pos
	p.expect(id.RBRACK)
	return &ast.ArithSub{Left: left, Right: right, X: x}
}

func (p *Parser) arithSub() *ast.ArithSub {
	left := p.tok.Pos
	p.pushMode(lexer.Arith)
	p.next()
	x := p.arithExpr(id.RPAREN)
	p.popMode()
	right := p.tok.Pos
	p.expect(id.RPAREN)
	p.expect(id.RPAREN)
	return &ast.ArithSub{Left: left, Right: right, X: x}
}
