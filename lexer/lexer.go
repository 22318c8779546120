package lexer

import (
	"github.com/shfront/shfront/arena"
	"github.com/shfront/shfront/id"
)

// wordBreak reports whether b ends a bare literal run in Outer mode.
func wordBreak(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', ';', '&', '>', '<', '|', '(', ')':
		return true
	}
	return false
}

// regOps are bytes that open or start a token in Outer/DQ-adjacent modes.
func regOps(b byte) bool {
	switch b {
	case ';', '"', '\'', '(', ')', '$', '|', '&', '>', '<', '`':
		return true
	}
	return false
}

// paramOps are bytes that tokenize inside a braced parameter expansion.
func paramOps(b byte) bool {
	switch b {
	case '}', '#', ':', '-', '+', '=', '?', '%', '[', ']', '/', '^', ',', '!', '@', '*':
		return true
	}
	return false
}

// arithOps are bytes that tokenize inside an arithmetic context.
func arithOps(b byte) bool {
	switch b {
	case '+', '-', '!', '~', '*', '/', '%', '(', ')', '^', '<', '>',
		':', '=', ',', '?', '|', '&', ']':
		return true
	}
	return false
}

func byteAt(src []byte, i int) byte {
	if i < 0 || i >= len(src) {
		return 0
	}
	return src[i]
}

// Lexer scans a shell source buffer into a flat token stream, switching
// per-token behavior according to the Mode on top of its Stack. The
// parser owns the Stack and pushes/pops it as it descends into quotes,
// parameter expansions, arithmetic and here-doc bodies.
type Lexer struct {
	arena *arena.Arena
	src   []byte
	Modes Stack

	off int // next unread byte offset into src

	// Spaced and NewLine report whether the most recently returned
	// token was preceded by blank/tab/line-continuation space, or by a
	// newline; the parser uses these the way mvdan-sh uses p.spaced and
	// p.newLine to decide where command boundaries fall.
	Spaced  bool
	NewLine bool

	// pending is a queue of here-doc bodies awaiting collection, set by
	// the parser via QueueHeredoc and drained by DrainHeredocs once a
	// newline is reached outside any nested construct.
	pending []*pendingHeredoc
}

type pendingHeredoc struct {
	dash   bool
	quoted bool
	delim  string
	body   *string // filled in by DrainHeredocs
}

// New creates a Lexer reading from a's source bytes.
func New(a *arena.Arena) *Lexer {
	return &Lexer{arena: a, src: a.Src()}
}

func (l *Lexer) pos() arena.Pos { return arena.Pos(l.off + 1) }

// Snapshot is an opaque lexer checkpoint, used by the parser to try a
// tentative parse (e.g. disambiguating a POSIX `name()` function
// definition from a simple command) and rewind on failure.
type Snapshot struct {
	off     int
	modes   []Mode
	pending int
}

func (l *Lexer) Snapshot() Snapshot {
	return Snapshot{off: l.off, modes: l.Modes.Snapshot(), pending: len(l.pending)}
}

// PendingCount returns the number of here-doc bodies still awaiting
// collection. The parser polls this around each Next call to notice when
// DrainHeredocs has run and convert the newly filled bodies into words.
func (l *Lexer) PendingCount() int { return len(l.pending) }

func (l *Lexer) Restore(s Snapshot) {
	l.off = s.off
	l.Modes.Restore(s.modes)
	l.pending = l.pending[:s.pending]
}

// QueueHeredoc registers a here-doc opener seen by the parser; its body
// will be read back once DrainHeredocs runs at the next unquoted
// newline. Returns a handle the parser keeps alongside the ast.HereDoc
// node and dereferences once the body has been filled in.
func (l *Lexer) QueueHeredoc(dash, quoted bool, delim string) *string {
	body := new(string)
	l.pending = append(l.pending, &pendingHeredoc{dash: dash, quoted: quoted, delim: delim, body: body})
	return body
}

// DrainHeredocs reads the bodies of all queued here-docs, in order,
// starting at the current offset (which must be the first byte of the
// line following the command that opened them). skipBlanksAndContinuations
// calls it whenever it consumes a newline with a non-empty queue,
// mirroring mvdan-sh's doHeredocs.
func (l *Lexer) DrainHeredocs() {
	for _, h := range l.pending {
		l.readHeredocBody(h)
	}
	l.pending = l.pending[:0]
}

func (l *Lexer) readHeredocBody(h *pendingHeredoc) {
	var out []byte
	for l.off < len(l.src) {
		lineStart := l.off
		line, consumed := l.readLine()
		trimmed := line
		if h.dash {
			i := 0
			for i < len(trimmed) && trimmed[i] == '\t' {
				i++
			}
			trimmed = trimmed[i:]
		}
		if string(trimmed) == h.delim {
			l.off = lineStart + consumed
			*h.body = string(out)
			return
		}
		out = append(out, trimmed...)
		out = append(out, '\n')
		l.off = lineStart + consumed
	}
	*h.body = string(out)
}

// readLine returns the bytes of the current line (without its
// terminating newline) and how many bytes (including the newline, if
// present) make up the full line.
func (l *Lexer) readLine() ([]byte, int) {
	start := l.off
	i := start
	for i < len(l.src) && l.src[i] != '\n' {
		i++
	}
	if i < len(l.src) {
		l.arena.MarkLine(i + 1)
		return l.src[start:i], i - start + 1
	}
	return l.src[start:i], i - start
}

// Next scans and returns the next token, advancing the lexer.
func (l *Lexer) Next() Token {
	t := l.next()
	t.PrecededBySpace = l.Spaced
	t.PrecededByNewline = l.NewLine
	return t
}

func (l *Lexer) next() Token {
	l.Spaced, l.NewLine = false, false
	if l.off >= len(l.src) {
		return l.tok(id.EOF, l.pos(), l.pos())
	}

	mode := l.Modes.Top()
	switch mode {
	case SQ:
		return l.lexSingleQuoted()
	case HeredocBody:
		return l.tok(id.ILLEGAL, l.pos(), l.pos())
	case Comment:
		return l.lexComment()
	}

	if mode != VS1 && mode != VS2 && mode != VSArgUnq && mode != VSArgDQ {
		l.skipBlanksAndContinuations()
		if l.off >= len(l.src) {
			return l.tok(id.EOF, l.pos(), l.pos())
		}
	}

	start := l.pos()
	b := l.src[l.off]

	switch mode {
	case DQ:
		if b == '`' || b == '"' || b == '$' {
			return l.dqToken(start, b)
		}
		return l.advanceLiteral(mode)
	case VS1, VS2:
		if paramOps(b) {
			return l.paramToken(start, b)
		}
		return l.advanceLiteral(mode)
	case VSArgUnq, VSArgDQ:
		// The default-value/replacement argument always lexes as if
		// unquoted with respect to ' and " boundaries, regardless of
		// the surrounding quote context.
		switch b {
		case '}':
			l.off++
			return l.tok(id.RBRACE, start, l.pos())
		case '`', '"', '$':
			return l.dqToken(start, b)
		default:
			return l.advanceLiteral(mode)
		}
	case Arith:
		if b == ']' {
			l.off++
			return l.tok(id.RBRACK, start, l.pos())
		}
		if arithOps(b) {
			return l.arithToken(start, b)
		}
		return l.advanceLiteral(mode)
	case BashRegex:
		if regOps(b) {
			return l.regToken(start, b)
		}
		return l.advanceLiteral(mode)
	default: // Outer
		if b == '#' {
			l.off++
			if l.Spaced || l.off == 1 {
				// A `#` that starts a word opens a comment.
				t := l.lexComment()
				t.Pos = start
				return t
			}
			return l.tok(id.HASH, start, l.pos())
		}
		if regOps(b) {
			return l.regToken(start, b)
		}
		return l.advanceLiteral(mode)
	}
}

func (l *Lexer) skipBlanksAndContinuations() {
	for l.off < len(l.src) {
		b := l.src[l.off]
		switch b {
		case ' ', '\t', '\r':
			l.Spaced = true
			l.off++
		case '\n':
			l.Spaced, l.NewLine = true, true
			l.off++
			l.arena.MarkLine(l.off)
			if len(l.pending) > 0 {
				l.DrainHeredocs()
			}
		case '\\':
			if byteAt(l.src, l.off+1) == '\n' {
				l.off += 2
				l.arena.MarkLine(l.off)
			} else {
				return
			}
		default:
			return
		}
	}
}

func (l *Lexer) tok(t id.ID, start, end arena.Pos) Token {
	return Token{ID: t, Pos: start, End: end}
}

func (l *Lexer) lexComment() Token {
	start := l.pos()
	s := l.off
	for l.off < len(l.src) && l.src[l.off] != '\n' {
		l.off++
	}
	return Token{ID: id.COMMENT, Value: string(l.src[s:l.off]), Pos: start, End: l.pos()}
}

func (l *Lexer) lexSingleQuoted() Token {
	start := l.pos()
	s := l.off
	for l.off < len(l.src) && l.src[l.off] != '\'' {
		l.off++
	}
	val := string(l.src[s:l.off])
	if l.off < len(l.src) {
		l.off++ // consume closing quote; caller pops SQ mode
	}
	return Token{ID: id.LIT, Value: val, Pos: start, End: l.pos()}
}

// stopByte reports whether a byte ends a literal run in the given mode.
func (l *Lexer) stopByte(mode Mode, b byte) bool {
	switch mode {
	case DQ:
		return b == '"' || b == '`' || b == '$'
	case VS1, VS2:
		return paramOps(b) || b == ' ' || b == '\t' || b == '\n'
	case VSArgUnq, VSArgDQ:
		return b == '}' || b == '`' || b == '"' || b == '$'
	case Arith:
		return arithOps(b) || b == ']' || b == ' ' || b == '\t' || b == '\n'
	case BashRegex:
		return regOps(b) || b == ' ' || b == '\t' || b == '\n'
	default: // Outer
		return wordBreak(b) || b == '#' || b == '\'' || b == '"' || b == '`' || b == '$'
	}
}

// advanceLiteral scans the longest run of plain text for the given mode,
// stopping at an unescaped backslash (so the parser can split it off as
// an EscapedLiteral), an unescaped mode-terminating byte, or EOF.
func (l *Lexer) advanceLiteral(mode Mode) Token {
	start := l.pos()
	s := l.off
	for l.off < len(l.src) {
		b := l.src[l.off]
		if b == '\\' {
			if l.off == s {
				// A bare escape at the start of a run: let the parser
				// consume it as its own EscapedLiteral token.
				esc := l.src[l.off : l.off+2]
				if l.off+1 >= len(l.src) {
					esc = l.src[l.off:]
				}
				l.off += len(esc)
				return Token{ID: id.LIT, Value: string(esc), Pos: start, End: l.pos()}
			}
			break
		}
		if l.stopByte(mode, b) {
			break
		}
		l.off++
	}
	val := string(l.src[s:l.off])
	return Token{ID: id.LIT, Value: val, Pos: start, End: l.pos()}
}

func (l *Lexer) regToken(start arena.Pos, b byte) Token {
	switch b {
	case '\'':
		l.off++
		return l.tok(id.SQUOTE, start, l.pos())
	case '"':
		l.off++
		return l.tok(id.DQUOTE, start, l.pos())
	case '`':
		l.off++
		return l.tok(id.BQUOTE, start, l.pos())
	case '&':
		switch byteAt(l.src, l.off+1) {
		case '&':
			l.off += 2
			return l.tok(id.LAND, start, l.pos())
		case '>':
			if byteAt(l.src, l.off+2) == '>' {
				l.off += 3
				return l.tok(id.APPALL, start, l.pos())
			}
			l.off += 2
			return l.tok(id.RDRALL, start, l.pos())
		}
		l.off++
		return l.tok(id.AND, start, l.pos())
	case '|':
		switch byteAt(l.src, l.off+1) {
		case '|':
			l.off += 2
			return l.tok(id.LOR, start, l.pos())
		case '&':
			l.off += 2
			return l.tok(id.PIPEALL, start, l.pos())
		}
		l.off++
		return l.tok(id.OR, start, l.pos())
	case '$':
		switch byteAt(l.src, l.off+1) {
		case '\'':
			l.off += 2
			return l.tok(id.DOLLSQ, start, l.pos())
		case '"':
			l.off += 2
			return l.tok(id.DOLLDQ, start, l.pos())
		case '{':
			l.off += 2
			return l.tok(id.DOLLBR, start, l.pos())
		case '[':
			l.off += 2
			return l.tok(id.DOLLBK, start, l.pos())
		case '(':
			if byteAt(l.src, l.off+2) == '(' {
				l.off += 3
				return l.tok(id.DOLLDP, start, l.pos())
			}
			l.off += 2
			return l.tok(id.DOLLPR, start, l.pos())
		}
		l.off++
		return l.tok(id.DOLLAR, start, l.pos())
	case '(':
		if byteAt(l.src, l.off+1) == '(' {
			l.off += 2
			return l.tok(id.DLPAREN, start, l.pos())
		}
		l.off++
		return l.tok(id.LPAREN, start, l.pos())
	case ')':
		l.off++
		return l.tok(id.RPAREN, start, l.pos())
	case ';':
		switch byteAt(l.src, l.off+1) {
		case ';':
			if byteAt(l.src, l.off+2) == '&' {
				l.off += 3
				return l.tok(id.DSEMIFALL, start, l.pos())
			}
			l.off += 2
			return l.tok(id.DSEMICOLON, start, l.pos())
		case '&':
			l.off += 2
			return l.tok(id.SEMIFALL, start, l.pos())
		}
		l.off++
		return l.tok(id.SEMICOLON, start, l.pos())
	case '<':
		switch byteAt(l.src, l.off+1) {
		case '<':
			switch byteAt(l.src, l.off+2) {
			case '-':
				l.off += 3
				return l.tok(id.DHEREDOC, start, l.pos())
			case '<':
				l.off += 3
				return l.tok(id.WHEREDOC, start, l.pos())
			}
			l.off += 2
			return l.tok(id.SHL, start, l.pos())
		case '>':
			l.off += 2
			return l.tok(id.RDRINOUT, start, l.pos())
		case '&':
			l.off += 2
			return l.tok(id.DPLIN, start, l.pos())
		case '(':
			l.off += 2
			return l.tok(id.CMDIN, start, l.pos())
		}
		l.off++
		return l.tok(id.LSS, start, l.pos())
	default: // '>'
		switch byteAt(l.src, l.off+1) {
		case '>':
			l.off += 2
			return l.tok(id.SHR, start, l.pos())
		case '&':
			l.off += 2
			return l.tok(id.DPLOUT, start, l.pos())
		case '|':
			l.off += 2
			return l.tok(id.CLBOUT, start, l.pos())
		case '(':
			l.off += 2
			return l.tok(id.CMDOUT, start, l.pos())
		}
		l.off++
		return l.tok(id.GTR, start, l.pos())
	}
}

func (l *Lexer) dqToken(start arena.Pos, b byte) Token {
	switch b {
	case '"':
		l.off++
		return l.tok(id.DQUOTE, start, l.pos())
	case '`':
		l.off++
		return l.tok(id.BQUOTE, start, l.pos())
	default: // '$'
		switch byteAt(l.src, l.off+1) {
		case '{':
			l.off += 2
			return l.tok(id.DOLLBR, start, l.pos())
		case '(':
			if byteAt(l.src, l.off+2) == '(' {
				l.off += 3
				return l.tok(id.DOLLDP, start, l.pos())
			}
			l.off += 2
			return l.tok(id.DOLLPR, start, l.pos())
		}
		l.off++
		return l.tok(id.DOLLAR, start, l.pos())
	}
}

func (l *Lexer) paramToken(start arena.Pos, b byte) Token {
	switch b {
	case '}':
		l.off++
		return l.tok(id.RBRACE, start, l.pos())
	case '[':
		l.off++
		return l.tok(id.LBRACK, start, l.pos())
	case ']':
		l.off++
		return l.tok(id.RBRACK, start, l.pos())
	case '#':
		if byteAt(l.src, l.off+1) == '#' {
			l.off += 2
			return l.tok(id.DHASH, start, l.pos())
		}
		l.off++
		return l.tok(id.HASH, start, l.pos())
	case '!':
		l.off++
		return l.tok(id.NOT, start, l.pos())
	case '^':
		if byteAt(l.src, l.off+1) == '^' {
			l.off += 2
			return l.tok(id.DCARET, start, l.pos())
		}
		l.off++
		return l.tok(id.CARET, start, l.pos())
	case ',':
		if byteAt(l.src, l.off+1) == ',' {
			l.off += 2
			return l.tok(id.DCOMMA, start, l.pos())
		}
		l.off++
		return l.tok(id.COMMA, start, l.pos())
	case '/':
		if byteAt(l.src, l.off+1) == '/' {
			l.off += 2
			return l.tok(id.DQUO, start, l.pos())
		}
		l.off++
		return l.tok(id.QUO, start, l.pos())
	case ':':
		switch byteAt(l.src, l.off+1) {
		case '+':
			l.off += 2
			return l.tok(id.CADD, start, l.pos())
		case '-':
			l.off += 2
			return l.tok(id.CSUB, start, l.pos())
		case '?':
			l.off += 2
			return l.tok(id.CQUEST, start, l.pos())
		case '=':
			l.off += 2
			return l.tok(id.CASSIGN, start, l.pos())
		}
		l.off++
		return l.tok(id.COLON, start, l.pos())
	case '+':
		l.off++
		return l.tok(id.ADD, start, l.pos())
	case '-':
		l.off++
		return l.tok(id.SUB, start, l.pos())
	case '=':
		l.off++
		return l.tok(id.ASSIGN, start, l.pos())
	case '?':
		l.off++
		return l.tok(id.QUEST, start, l.pos())
	case '%':
		if byteAt(l.src, l.off+1) == '%' {
			l.off += 2
			return l.tok(id.DREM, start, l.pos())
		}
		l.off++
		return l.tok(id.REM, start, l.pos())
	case '@':
		l.off++
		return l.tok(id.AND, start, l.pos())
	default: // '*'
		l.off++
		return l.tok(id.MUL, start, l.pos())
	}
}

func (l *Lexer) arithToken(start arena.Pos, b byte) Token {
	two := func(t id.ID) Token { l.off += 2; return l.tok(t, start, l.pos()) }
	one := func(t id.ID) Token { l.off++; return l.tok(t, start, l.pos()) }
	switch b {
	case '+':
		switch byteAt(l.src, l.off+1) {
		case '+':
			return two(id.INC)
		case '=':
			return two(id.ADDASSGN)
		}
		return one(id.ADD)
	case '-':
		switch byteAt(l.src, l.off+1) {
		case '-':
			return two(id.DEC)
		case '=':
			return two(id.SUBASSGN)
		}
		return one(id.SUB)
	case '!':
		if byteAt(l.src, l.off+1) == '=' {
			return two(id.NEQ)
		}
		return one(id.NOT)
	case '~':
		return one(id.TNOT)
	case '*':
		switch byteAt(l.src, l.off+1) {
		case '*':
			return two(id.POW)
		case '=':
			return two(id.MULASSGN)
		}
		return one(id.MUL)
	case '/':
		if byteAt(l.src, l.off+1) == '=' {
			return two(id.QUOASSGN)
		}
		return one(id.QUO)
	case '%':
		if byteAt(l.src, l.off+1) == '=' {
			return two(id.REMASSGN)
		}
		return one(id.REM)
	case '(':
		return one(id.LPAREN)
	case ')':
		return one(id.RPAREN)
	case '^':
		if byteAt(l.src, l.off+1) == '=' {
			return two(id.XORASSGN)
		}
		return one(id.XOR)
	case '<':
		switch byteAt(l.src, l.off+1) {
		case '<':
			if byteAt(l.src, l.off+2) == '=' {
				l.off += 3
				return l.tok(id.SHLASSGN, start, l.pos())
			}
			return two(id.SHL)
		case '=':
			return two(id.LEQ)
		}
		return one(id.LSS)
	case '>':
		switch byteAt(l.src, l.off+1) {
		case '>':
			if byteAt(l.src, l.off+2) == '=' {
				l.off += 3
				return l.tok(id.SHRASSGN, start, l.pos())
			}
			return two(id.SHR)
		case '=':
			return two(id.GEQ)
		}
		return one(id.GTR)
	case ':':
		return one(id.COLON)
	case '=':
		if byteAt(l.src, l.off+1) == '=' {
			return two(id.EQL)
		}
		return one(id.ASSIGN)
	case ',':
		return one(id.COMMA)
	case '?':
		return one(id.QUEST)
	case '|':
		switch byteAt(l.src, l.off+1) {
		case '|':
			return two(id.LOR)
		case '=':
			return two(id.ORASSGN)
		}
		return one(id.OR)
	case '&':
		switch byteAt(l.src, l.off+1) {
		case '&':
			return two(id.LAND)
		case '=':
			return two(id.ANDASSGN)
		}
		return one(id.AND)
	default: // ']'
		return one(id.RBRACK)
	}
}
