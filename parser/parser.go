// Package parser implements the recursive-descent command parser
// (component G) and the word parser, Pratt arithmetic parser and
// boolean-expression parser it delegates to (components E, F). It turns
// a lexer.Lexer token stream into an *ast.File.
package parser

import (
	"fmt"

	"github.com/shfront/shfront/arena"
	"github.com/shfront/shfront/ast"
	"github.com/shfront/shfront/id"
	"github.com/shfront/shfront/lexer"
)

// Mode controls optional parser behavior.
type Mode uint

const (
	// KeepComments attaches `#`-to-newline comments to the File.
	KeepComments Mode = 1 << iota
)

// Parse parses a complete shell program. name is used only for
// diagnostics in returned errors.
func Parse(src []byte, name string, mode Mode) (*ast.File, error) {
	p := newParser(src, name, mode)
	p.next()
	stmts := p.stmtList(nil)
	if p.err != nil {
		return nil, p.err
	}
	return &ast.File{Arena: p.arena, Stmts: stmts, Comments: p.comments}, nil
}

func newParser(src []byte, name string, mode Mode) *Parser {
	a := arena.New(name, src)
	return &Parser{arena: a, lex: lexer.New(a), mode: mode}
}

// Parser holds the state of an in-progress parse.
type Parser struct {
	arena *arena.Arena
	lex   *lexer.Lexer
	mode  Mode

	tok lexer.Token
	err error

	comments []*ast.Comment

	// pendingHeredocs are HereDoc nodes whose body the lexer has been
	// asked to collect but not yet filled in; flushed in FIFO order as
	// the lexer's own pending queue drains at each newline.
	pendingHeredocs []pendingHD
}

type pendingHD struct {
	node *ast.HereDoc
	body *string
}

func (p *Parser) next() {
	for {
		before := p.lex.PendingCount()
		t := p.lex.Next()
		if drained := before - p.lex.PendingCount(); drained > 0 {
			p.flushHeredocs(drained)
		}
		if t.ID == id.COMMENT {
			if p.mode&KeepComments != 0 {
				p.comments = append(p.comments, &ast.Comment{Hash: t.Pos, Text: t.Value})
			}
			continue
		}
		p.tok = t
		return
	}
}

// flushHeredocs converts the first n still-pending heredoc bodies (the
// oldest n entries, matching the lexer's own FIFO drain order) into word
// trees and attaches them to their HereDoc nodes.
func (p *Parser) flushHeredocs(n int) {
	for i := 0; i < n && len(p.pendingHeredocs) > 0; i++ {
		h := p.pendingHeredocs[0]
		p.pendingHeredocs = p.pendingHeredocs[1:]
		h.node.Arg = p.heredocBodyWord(*h.body, h.node.Quoted)
		h.node.WasFilled = true
	}
}

// heredocBodyWord builds the Word for a collected here-doc body. A
// quoted delimiter (`<<'EOF'` or `<<"EOF"`) disables all expansion, so
// the body becomes a single Literal; otherwise it is re-lexed in double
// -quote mode so parameter, command and arithmetic expansions inside it
// are recognized.
func (p *Parser) heredocBodyWord(body string, quoted bool) *ast.Word {
	pos := p.tok.Pos
	if quoted {
		return &ast.Word{Parts: []ast.WordPart{&ast.Literal{ValuePos: pos, Value: body}}}
	}
	sub := newParser([]byte(body), p.arena.Name, p.mode)
	sub.lex.Modes.Push(lexer.DQ)
	sub.next()
	var parts []ast.WordPart
	for !sub.at(id.EOF) && !sub.failed() {
		part := sub.wordPart(false)
		if part == nil {
			break
		}
		parts = append(parts, part)
	}
	return &ast.Word{Parts: parts}
}

func (p *Parser) errorf(pos arena.Pos, format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	pp := p.arena.Position(pos)
	p.err = &SyntaxError{
		Filename: p.arena.Name,
		Line:     pp.Line,
		Column:   pp.Column,
		Message:  fmt.Sprintf(format, args...),
	}
}

func (p *Parser) failed() bool { return p.err != nil }

// checkpoint is a parser-level rewind point: the lexer's own Snapshot
// plus the one token of lookahead the parser buffers on top of it.
type checkpoint struct {
	lex lexer.Snapshot
	tok lexer.Token
}

func (p *Parser) mark() checkpoint {
	return checkpoint{lex: p.lex.Snapshot(), tok: p.tok}
}

func (p *Parser) rewind(c checkpoint) {
	p.lex.Restore(c.lex)
	p.tok = c.tok
}

func (p *Parser) at(t id.ID) bool { return p.tok.ID == t }

func (p *Parser) atWord(lit string) bool {
	return p.tok.ID == id.LIT && p.tok.Value == lit && p.wordEndsHere()
}

// wordEndsHere reports whether the current literal token, if consumed as
// a word, would not be glued to anything else (so it's safe to treat it
// as a standalone reserved word).
func (p *Parser) wordEndsHere() bool {
	return true
}

func (p *Parser) expect(t id.ID) arena.Pos {
	pos := p.tok.Pos
	if !p.at(t) {
		p.errorf(pos, "expected %s, found %s", t, p.tok.ID)
		return pos
	}
	p.next()
	return pos
}

// atStop reports whether the current token ends a statement list in
// the current context (EOF or one of the closing reserved words passed
// in stop).
func (p *Parser) atStop(stop ...string) bool {
	if p.at(id.EOF) {
		return true
	}
	if p.tok.ID == id.LIT {
		for _, s := range stop {
			if p.tok.Value == s {
				return true
			}
		}
	}
	return false
}

// stmtList parses a `;`/newline-separated list of sentences until EOF or
// one of stop's reserved words is reached (without consuming it).
func (p *Parser) stmtList(stop []string) []ast.Command {
	var out []ast.Command
	for {
		for p.at(id.SEMICOLON) || p.at(id.NEWLINE) {
			p.next()
		}
		if p.atStop(stop...) || p.failed() {
			break
		}
		s := p.sentence()
		if s == nil || p.failed() {
			break
		}
		out = append(out, s)
	}
	return out
}

// sentence parses one top-level sentence: an and-or list, terminated by
// `;`, `&`, or a newline. It consumes a `;` or `&` terminator and returns
// the and-or command itself; the tree does not record which terminator
// ended it, so a background `&` leaves no trace.
func (p *Parser) sentence() ast.Command {
	start := p.tok.Pos
	cmd := p.andOr()
	if cmd == nil {
		return nil
	}
	switch {
	case p.at(id.SEMICOLON):
		p.next()
	case p.at(id.AND):
		p.next()
	}
	_ = start
	return cmd
}

// andOr parses `pipeline (('&&'|'||') pipeline)*`, producing a
// left-associative chain of ast.AndOr nodes.
func (p *Parser) andOr() ast.Command {
	left := p.pipeline()
	if left == nil {
		return nil
	}
	for {
		var op ast.AndOrOp
		switch {
		case p.at(id.LAND):
			op = ast.AndOrAnd
		case p.at(id.LOR):
			op = ast.AndOrOr
		default:
			return left
		}
		opTok := p.tok.ID
		p.next()
		for p.at(id.NEWLINE) {
			p.next()
		}
		right := p.pipeline()
		if right == nil {
			p.errorf(p.tok.Pos, "expected command after %s", opTok)
			return left
		}
		left = &ast.AndOr{Op: op, Children: []ast.Command{left, right}}
	}
}

// pipeline parses `['!'] command ('|' command)*`.
func (p *Parser) pipeline() ast.Command {
	negated := false
	if p.atWord("!") {
		negated = true
		p.next()
	}
	first := p.compoundOrSimple()
	if first == nil {
		if negated {
			p.errorf(p.tok.Pos, "expected command after !")
		}
		return nil
	}
	children := []ast.Command{first}
	var stderrIdx []int
	for p.at(id.OR) || p.at(id.PIPEALL) {
		if p.at(id.PIPEALL) {
			stderrIdx = append(stderrIdx, len(children)-1)
		}
		p.next()
		for p.at(id.NEWLINE) {
			p.next()
		}
		next := p.compoundOrSimple()
		if next == nil {
			p.errorf(p.tok.Pos, "expected command after |")
			break
		}
		children = append(children, next)
	}
	if len(children) == 1 && !negated {
		return first
	}
	return &ast.Pipeline{Negated: negated, Children: children, StderrIndices: stderrIdx}
}

// compoundOrSimple dispatches to a compound command parser based on the
// current reserved word, or falls back to a simple command.
func (p *Parser) compoundOrSimple() ast.Command {
	if p.tok.ID == id.LIT {
		switch p.tok.Value {
		case id.RsrvIf:
			return p.ifClause()
		case id.RsrvWhile:
			return p.whileClause(false)
		case id.RsrvUntil:
			return p.whileClause(true)
		case id.RsrvFor:
			return p.forClause()
		case id.RsrvCase:
			return p.caseClause()
		case id.RsrvFunc:
			return p.funcDefKeyword()
		}
	}
	switch {
	case p.atWord("{"):
		return p.braceGroup()
	case p.at(id.LPAREN):
		return p.subshell()
	case p.at(id.DLPAREN):
		return p.dparen()
	case p.atWord("[["):
		return p.dbracket()
	}
	if cmd := p.tryFuncDef(); cmd != nil {
		return cmd
	}
	return p.simpleCommand()
}
