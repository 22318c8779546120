package parser

import (
	"strings"

	"github.com/shfront/shfront/ast"
	"github.com/shfront/shfront/id"
)

// simpleCommand parses a sequence of leading assignments, redirections
// and words in any order, per POSIX's simple_command grammar, stopping
// at a token that cannot start another one of those three.
func (p *Parser) simpleCommand() ast.Command {
	var assigns []*ast.Assign
	var words []*ast.Word
	var redirs []ast.Redir

	for {
		if p.tok.PrecededByNewline && len(assigns)+len(words)+len(redirs) > 0 {
			break
		}
		if r := p.tryRedirect(); r != nil {
			redirs = append(redirs, r)
			continue
		}
		if len(words) == 0 {
			if a := p.tryAssign(); a != nil {
				assigns = append(assigns, a)
				continue
			}
		}
		if !p.startsWord() {
			break
		}
		words = append(words, p.word())
	}

	if len(words) == 0 {
		if len(assigns) == 0 && len(redirs) == 0 {
			return nil
		}
		return &ast.Assignment{Pairs: assigns, Redirs: redirs}
	}
	return &ast.Simple{Assigns: assigns, Words: words, Redirs: redirs}
}

func (p *Parser) startsWord() bool {
	switch p.tok.ID {
	case id.LIT, id.SQUOTE, id.DQUOTE, id.BQUOTE, id.DOLLAR, id.DOLLSQ,
		id.DOLLDQ, id.DOLLBR, id.DOLLBK, id.DOLLPR, id.DOLLDP, id.LPAREN:
		return true
	}
	return false
}

// tryAssign recognizes `name=value`, `name+=value`, `name[i]=value` and
// `name=(arr...)`, rewinding if the leading literal isn't actually
// followed by `=`/`+=`.
func (p *Parser) tryAssign() *ast.Assign {
	if p.tok.ID != id.LIT {
		return nil
	}
	name := p.tok.Value
	if i := strings.IndexByte(name, '='); i > 0 && isValidName(name[:i]) {
		// Outer mode lexes `name=value` as a single literal; split it here.
		lit := &ast.Literal{ValuePos: p.tok.Pos, Value: name[:i]}
		if rest := name[i+1:]; rest != "" {
			p.tok.Value, p.tok.Pos = rest, p.tok.Pos.Add(i+1)
			return &ast.Assign{Name: lit, Value: p.word()}
		}
		p.next()
		if p.at(id.LPAREN) && !p.tok.PrecededBySpace {
			return &ast.Assign{Name: lit, Array: p.arrayLiteral()}
		} else if !p.startsWord() || p.tok.PrecededBySpace {
			return &ast.Assign{Name: lit, Naked: true}
		}
		return &ast.Assign{Name: lit, Value: p.word()}
	}
	if !isValidName(name) {
		return nil
	}
	cp := p.mark()
	namePos := p.tok.Pos
	p.next()

	var index *ast.Word
	if p.at(id.LBRACK) {
		p.next()
		index = p.word()
		if !p.at(id.RBRACK) {
			p.rewind(cp)
			return nil
		}
		p.next()
	}

	append_ := false
	switch {
	case p.at(id.ASSIGN):
		p.next()
	case p.at(id.ADDASSGN):
		append_ = true
		p.next()
	default:
		p.rewind(cp)
		return nil
	}

	lit := &ast.Literal{ValuePos: namePos, Value: name}
	if p.at(id.LPAREN) {
		arr := p.arrayLiteral()
		return &ast.Assign{Append: append_, Name: lit, Index: index, Array: arr}
	}
	if !p.startsWord() {
		return &ast.Assign{Append: append_, Name: lit, Index: index, Naked: true}
	}
	val := p.word()
	return &ast.Assign{Append: append_, Name: lit, Index: index, Value: val}
}

func (p *Parser) arrayLiteral() *ast.ArrayLiteral {
	lparen := p.tok.Pos
	p.next()
	var elems, indexed []*ast.Word
	for !p.at(id.RPAREN) && !p.at(id.EOF) && !p.failed() {
		for p.at(id.NEWLINE) {
			p.next()
		}
		if p.at(id.RPAREN) {
			break
		}
		var idx *ast.Word
		if v := p.tok.Value; p.at(id.LIT) && strings.HasPrefix(v, "[") {
			// Outer mode lexes `[i]=value` as a single literal; split it here.
			if j := strings.Index(v, "]="); j > 0 {
				idx = &ast.Word{Parts: []ast.WordPart{&ast.Literal{ValuePos: p.tok.Pos.Add(1), Value: v[1:j]}}}
				if v[j+2:] == "" {
					p.next()
				} else {
					p.tok.Value, p.tok.Pos = v[j+2:], p.tok.Pos.Add(j+2)
				}
			}
		}
		if p.at(id.LBRACK) {
			p.next()
			idx = p.word()
			p.expect(id.RBRACK)
			p.expect(id.ASSIGN)
		}
		elems = append(elems, p.word())
		indexed = append(indexed, idx)
	}
	rparen := p.tok.Pos
	p.expect(id.RPAREN)
	return &ast.ArrayLiteral{Lparen: lparen, Rparen: rparen, Elems: elems, Indexed: indexed}
}

func isValidName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// tryRedirect recognizes one redirection operator and its target,
// including here-doc openers, which register with the lexer's pending
// queue so the body is read back once a line boundary is reached.
func (p *Parser) tryRedirect() ast.Redir {
	var n *ast.Literal
	if p.tok.ID == id.LIT && isAllDigits(p.tok.Value) {
		cp := p.mark()
		lit := &ast.Literal{ValuePos: p.tok.Pos, Value: p.tok.Value}
		p.next()
		if !p.isRedirOp() {
			p.rewind(cp)
		} else {
			n = lit
		}
	}

	var op ast.RedirOp
	opPos := p.tok.Pos
	switch p.tok.ID {
	case id.LSS:
		op = ast.RedirLess
	case id.GTR:
		op = ast.RedirGreat
	case id.CLBOUT:
		op = ast.RedirClobber
	case id.SHR:
		op = ast.RedirAppend
	case id.RDRINOUT:
		op = ast.RedirRdrInOut
	case id.DPLIN:
		op = ast.RedirDplIn
	case id.DPLOUT:
		op = ast.RedirDplOut
	case id.CMDIN:
		op = ast.RedirCmdIn
	case id.CMDOUT:
		op = ast.RedirCmdOut
	case id.RDRALL:
		op = ast.RedirRdrAll
	case id.APPALL:
		op = ast.RedirAppAll
	case id.SHL, id.DHEREDOC, id.WHEREDOC:
		return p.hereDoc(n)
	default:
		return nil
	}
	p.next()
	arg := p.word()
	return &ast.Redirect{OpPos: opPos, Op: op, N: n, Arg: arg}
}

func (p *Parser) isRedirOp() bool {
	switch p.tok.ID {
	case id.LSS, id.GTR, id.CLBOUT, id.SHR, id.RDRINOUT, id.DPLIN,
		id.DPLOUT, id.CMDIN, id.CMDOUT, id.RDRALL, id.APPALL,
		id.SHL, id.DHEREDOC, id.WHEREDOC:
		return true
	}
	return false
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func (p *Parser) hereDoc(n *ast.Literal) ast.Redir {
	opPos := p.tok.Pos
	dash := p.tok.ID == id.DHEREDOC
	wordForm := p.tok.ID == id.WHEREDOC
	p.next()
	if wordForm {
		// <<< here-string: no delimiter/body scheduling, the RHS word
		// itself is the content, expanded like any other word.
		arg := p.word()
		return &ast.HereDoc{OpPos: opPos, N: n, Delim: arg, Arg: arg, WasFilled: true}
	}
	cp := p.mark()
	delim := p.word()
	quoted := delim.Lit() == "" || wordHasQuotes(delim)
	// The delimiter's lookahead token may already lie past the end of the
	// line. Rewind, queue the body, then re-read the delimiter so the lexer
	// collects the body when it crosses that newline.
	p.rewind(cp)
	body := p.lex.QueueHeredoc(dash, quoted, delim.Lit())
	hd := &ast.HereDoc{OpPos: opPos, Dash: dash, Quoted: quoted, N: n}
	p.pendingHeredocs = append(p.pendingHeredocs, pendingHD{node: hd, body: body})
	hd.Delim = p.word()
	return hd
}

func wordHasQuotes(w *ast.Word) bool {
	for _, part := range w.Parts {
		switch part.(type) {
		case *ast.SingleQuoted, *ast.DoubleQuoted, *ast.EscapedLiteral:
			return true
		}
	}
	return false
}
