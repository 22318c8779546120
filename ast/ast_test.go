package ast

import (
	"testing"

	"github.com/shfront/shfront/arena"

	qt "github.com/frankban/quicktest"
)

func TestLiteralSpan(t *testing.T) {
	c := qt.New(t)
	l := &Literal{ValuePos: 1, Value: "hello"}
	c.Assert(l.Pos(), qt.Equals, arena.Pos(1))
	c.Assert(l.End(), qt.Equals, arena.Pos(6))
}

func TestEscapedLiteralSpan(t *testing.T) {
	c := qt.New(t)
	e := &EscapedLiteral{Backslash: 5, Char: '$'}
	c.Assert(e.Pos(), qt.Equals, arena.Pos(5))
	c.Assert(e.End(), qt.Equals, arena.Pos(7)) // backslash + char = 2 bytes
}

func TestSingleQuotedSpan(t *testing.T) {
	c := qt.New(t)
	q := &SingleQuoted{Position: 1, Value: "abc"}
	c.Assert(q.End(), qt.Equals, arena.Pos(1+2+3)) // quotes + content

	dq := &SingleQuoted{Position: 1, Dollar: true, Value: "abc"}
	c.Assert(dq.End(), qt.Equals, arena.Pos(1+3+3)) // $ + quotes + content
}

func TestSimpleVarSubSpan(t *testing.T) {
	c := qt.New(t)
	s := &SimpleVarSub{Dollar: 1, Name: "foo"}
	c.Assert(s.Pos(), qt.Equals, arena.Pos(1))
	c.Assert(s.End(), qt.Equals, arena.Pos(5)) // $ + "foo"
}

func TestWordSpanFromParts(t *testing.T) {
	c := qt.New(t)
	w := &Word{Parts: []WordPart{
		&Literal{ValuePos: 1, Value: "ab"},
		&Literal{ValuePos: 3, Value: "cd"},
	}}
	c.Assert(w.Pos(), qt.Equals, arena.Pos(1))
	c.Assert(w.End(), qt.Equals, arena.Pos(5))
}

func TestWordSpanEmpty(t *testing.T) {
	c := qt.New(t)
	w := &Word{}
	c.Assert(w.Pos(), qt.Equals, arena.NoPos)
	c.Assert(w.End(), qt.Equals, arena.NoPos)
}

func TestWordLit(t *testing.T) {
	c := qt.New(t)
	w := &Word{Parts: []WordPart{&Literal{Value: "foo"}}}
	c.Assert(w.Lit(), qt.Equals, "foo")

	multi := &Word{Parts: []WordPart{&Literal{Value: "foo"}, &Literal{Value: "bar"}}}
	c.Assert(multi.Lit(), qt.Equals, "")

	notLit := &Word{Parts: []WordPart{&SimpleVarSub{Name: "x"}}}
	c.Assert(notLit.Lit(), qt.Equals, "")
}

func TestFileSpanEmpty(t *testing.T) {
	c := qt.New(t)
	f := &File{}
	c.Assert(f.Pos(), qt.Equals, arena.NoPos)
	c.Assert(f.End(), qt.Equals, arena.NoPos)
}

func TestFileSpanFromStmts(t *testing.T) {
	c := qt.New(t)
	s := &Simple{Words: []*Word{{Parts: []WordPart{&Literal{ValuePos: 1, Value: "echo"}}}}}
	f := &File{Stmts: []Command{s}}
	c.Assert(f.Pos(), qt.Equals, arena.Pos(1))
	c.Assert(f.End(), qt.Equals, arena.Pos(5))
}

func TestSimplePosPrefersAssigns(t *testing.T) {
	c := qt.New(t)
	s := &Simple{
		Assigns: []*Assign{{Name: &Literal{ValuePos: 1, Value: "x"}, Value: &Word{Parts: []WordPart{&Literal{ValuePos: 3, Value: "1"}}}}},
		Words:   []*Word{{Parts: []WordPart{&Literal{ValuePos: 5, Value: "echo"}}}},
	}
	c.Assert(s.Pos(), qt.Equals, arena.Pos(1))
}

func TestPipelinePosFromFirstChild(t *testing.T) {
	c := qt.New(t)
	first := &Simple{Words: []*Word{{Parts: []WordPart{&Literal{ValuePos: 1, Value: "foo"}}}}}
	second := &Simple{Words: []*Word{{Parts: []WordPart{&Literal{ValuePos: 10, Value: "bar"}}}}}
	pl := &Pipeline{Children: []Command{first, second}}
	c.Assert(pl.Pos(), qt.Equals, arena.Pos(1))
}
