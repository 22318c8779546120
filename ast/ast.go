// Package ast defines the shell abstract syntax tree. Every node kind is
// a closed tagged union (an interface plus a fixed set of concrete
// implementations, each marked with a private method so the set cannot
// grow outside this package) rather than a class hierarchy, matching how
// Go code expresses sum types without native language support. Nodes are
// immutable after construction, with the single documented exception of
// a HereDoc's body, which is back-filled once the lexer driver reaches
// the delimiter line.
package ast

import "github.com/shfront/shfront/arena"

// Node is implemented by every AST node.
type Node interface {
	// Pos returns the first byte of the node.
	Pos() arena.Pos
	// End returns the byte immediately after the node.
	End() arena.Pos
}

func posAdd(p arena.Pos, n int) arena.Pos { return p.Add(n) }

func maxPos(a, b arena.Pos) arena.Pos {
	if b > a {
		return b
	}
	return a
}

// File is the root of a parsed shell program, together with the arena
// it was parsed against.
type File struct {
	Arena    *arena.Arena
	Stmts    []Command
	Comments []*Comment
}

func (f *File) Pos() arena.Pos { return firstPos(f.Stmts) }
func (f *File) End() arena.Pos { return lastEnd(f.Stmts) }

// Comment is a single `#`-to-newline comment, kept only when requested.
type Comment struct {
	Hash arena.Pos
	Text string
}

func (c *Comment) Pos() arena.Pos { return c.Hash }
func (c *Comment) End() arena.Pos { return posAdd(c.Hash, 1+len(c.Text)) }

func firstPos(cs []Command) arena.Pos {
	if len(cs) == 0 {
		return arena.NoPos
	}
	return cs[0].Pos()
}

func lastEnd(cs []Command) arena.Pos {
	if len(cs) == 0 {
		return arena.NoPos
	}
	return cs[len(cs)-1].End()
}

func wordsFirstPos(ws []*Word) arena.Pos {
	if len(ws) == 0 {
		return arena.NoPos
	}
	return ws[0].Pos()
}

func wordsLastEnd(ws []*Word) arena.Pos {
	if len(ws) == 0 {
		return arena.NoPos
	}
	return ws[len(ws)-1].End()
}

func partsFirstPos(ps []WordPart) arena.Pos {
	if len(ps) == 0 {
		return arena.NoPos
	}
	return ps[0].Pos()
}

func partsLastEnd(ps []WordPart) arena.Pos {
	if len(ps) == 0 {
		return arena.NoPos
	}
	return ps[len(ps)-1].End()
}
