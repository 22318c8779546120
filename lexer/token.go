package lexer

import (
	"github.com/shfront/shfront/arena"
	"github.com/shfront/shfront/id"
)

// Token is one lexical token: an id.ID tag plus the exact source span it
// covers. Value holds the decoded text for LIT/LITWORD tokens and the
// text after the `#` for COMMENT tokens; for punctuation tokens Value is
// empty and the text is recovered from the arena via Pos/End.
type Token struct {
	ID    id.ID
	Value string
	Pos   arena.Pos
	End   arena.Pos

	// PrecededBySpace and PrecededByNewline record whether blank/tab or
	// newline characters (or a line continuation) separated this token
	// from the previous one; the parser uses this the way mvdan-sh uses
	// p.spaced/p.newLine to tell a glued word part from the start of a
	// new word.
	PrecededBySpace   bool
	PrecededByNewline bool
}

func (t Token) String() string { return t.ID.String() }
