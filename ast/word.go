package ast

import "github.com/shfront/shfront/arena"

// Word is a sequence of word parts contiguous in the source, with no
// intervening blank. A bare reserved-word or operator occurrence is not
// represented as a Word at all in this tree; keyword positions live
// directly on the Command node that owns them (If.If, Case.Esac, ...).
type Word struct {
	Parts []WordPart
}

func (w *Word) Pos() arena.Pos { return partsFirstPos(w.Parts) }
func (w *Word) End() arena.Pos { return partsLastEnd(w.Parts) }

// Lit returns the word's value if it consists of exactly one literal
// part, and the empty string otherwise. Used by the parser and expander
// to recognize bare names (e.g. validating a for-loop variable, or an
// arithmetic lvalue).
func (w *Word) Lit() string {
	if len(w.Parts) != 1 {
		return ""
	}
	l, ok := w.Parts[0].(*Literal)
	if !ok {
		return ""
	}
	return l.Value
}

// WordPart is the closed union of everything that can appear inside a
// Word.
type WordPart interface {
	Node
	wordPartNode()
}

func (*Literal) wordPartNode()       {}
func (*EscapedLiteral) wordPartNode() {}
func (*SingleQuoted) wordPartNode()   {}
func (*DoubleQuoted) wordPartNode()   {}
func (*SimpleVarSub) wordPartNode()   {}
func (*BracedVarSub) wordPartNode()   {}
func (*TildeSub) wordPartNode()       {}
func (*CommandSub) wordPartNode()     {}
func (*ArithSub) wordPartNode()       {}
func (*ArrayLiteral) wordPartNode()   {}

// Literal is word_part.Literal: a run of bare, unescaped text.
type Literal struct {
	ValuePos arena.Pos
	Value    string
}

func (l *Literal) Pos() arena.Pos { return l.ValuePos }
func (l *Literal) End() arena.Pos { return posAdd(l.ValuePos, len(l.Value)) }

// EscapedLiteral is word_part.EscapedLiteral: a single `\c` outside
// quotes. Char is the escaped byte (without the backslash); End() is
// always Backslash+2, the extent of an ordinary `\c`, so printers and the
// arena slice agree on the node's extent.
type EscapedLiteral struct {
	Backslash arena.Pos
	Char      byte
}

func (e *EscapedLiteral) Pos() arena.Pos { return e.Backslash }
func (e *EscapedLiteral) End() arena.Pos { return posAdd(e.Backslash, 2) }

// SingleQuoted is word_part.SingleQuoted: text between '...' with no
// expansion performed. Dollar records whether this was a $'...' ANSI-C
// quoted string (which undergoes backslash-escape translation during
// expansion) rather than a plain '...' string.
type SingleQuoted struct {
	Position arena.Pos
	Dollar   bool
	Value    string
}

func (q *SingleQuoted) Pos() arena.Pos { return q.Position }
func (q *SingleQuoted) End() arena.Pos {
	n := 2 + len(q.Value)
	if q.Dollar {
		n++
	}
	return posAdd(q.Position, n)
}

// DoubleQuoted is word_part.DoubleQuoted: parts between "..." (or the
// bash $"..." form, recorded via Dollar) where expansion is enabled but
// field splitting is suppressed — the quote-context flag the expansion
// engine (component H) keys off of.
type DoubleQuoted struct {
	Position arena.Pos
	Rquote   arena.Pos // position of closing ", 0 if never closed
	Dollar   bool
	Parts    []WordPart
}

func (q *DoubleQuoted) Pos() arena.Pos { return q.Position }
func (q *DoubleQuoted) End() arena.Pos {
	if q.Rquote.Valid() {
		return posAdd(q.Rquote, 1)
	}
	return partsLastEnd(q.Parts)
}

// SimpleVarSub is word_part.SimpleVarSub: $name, $1, $?, $@, $*, and the
// other un-braced single-character specials.
type SimpleVarSub struct {
	Dollar arena.Pos
	Name   string
}

func (s *SimpleVarSub) Pos() arena.Pos { return s.Dollar }
func (s *SimpleVarSub) End() arena.Pos { return posAdd(s.Dollar, 1+len(s.Name)) }

// BracedVarSub is word_part.BracedVarSub: ${...}. At most one of
// Slice/Replace/Expand applies (enforced by the parser, which rejects a
// second suffix operator).
type BracedVarSub struct {
	Dollar arena.Pos
	Rbrace arena.Pos

	Name   string
	NamePos arena.Pos

	// PrefixOp: "#name" (length) or "!name" (indirection/prefix-names).
	PrefixOp VarPrefixOp

	// BracketOp: ${name[index]} array subscript.
	Index *Word

	// SuffixOp holds exactly one of the following non-nil, or none for a
	// bare ${name}.
	Slice   *Slice
	Replace *Replace
	Expand  *Expansion
}

func (p *BracedVarSub) Pos() arena.Pos { return p.Dollar }
func (p *BracedVarSub) End() arena.Pos {
	if p.Rbrace.Valid() {
		return posAdd(p.Rbrace, 1)
	}
	return posAdd(p.NamePos, len(p.Name))
}

// VarPrefixOp is the optional prefix before a braced variable's name.
type VarPrefixOp int

const (
	NoPrefixOp VarPrefixOp = iota
	LengthOp               // ${#name}
	IndirectOp             // ${!name}, or ${!prefix*}/${!prefix@} name listing
)

// Slice is ${name:offset:length}.
type Slice struct {
	Offset *Word
	Length *Word
}

// Replace is ${name/orig/with} (All set for the ${name//orig/with} form).
type Replace struct {
	All        bool
	Orig, With *Word
}

// ExpansionOp enumerates the suffix operators other than slicing/replace:
// the `:-`, `#`/`##`, `%`/`%%` family plus the case-conversion and
// introspection operators.
type ExpansionOp int

const (
	SubstColPlus  ExpansionOp = iota // :+
	SubstPlus                        // +
	SubstColMinus                    // :-
	SubstMinus                       // -
	SubstColQuest                    // :?
	SubstQuest                       // ?
	SubstColAssgn                    // :=
	SubstAssgn                       // =
	RemSmallPrefix                   // #
	RemLargePrefix                   // ##
	RemSmallSuffix                   // %
	RemLargeSuffix                   // %%
	UpperFirst                       // ^
	UpperAll                         // ^^
	LowerFirst                       // ,
	LowerAll                         // ,,
	OtherParamOps                    // @Q @E etc, Word holds the single-letter op
	NamesOp                          // ${!prefix*} / ${!prefix@}
)

// Expansion is the non-slice, non-replace suffix of a BracedVarSub.
type Expansion struct {
	Op   ExpansionOp
	Word *Word

	// InDouble records whether this ${...} is itself nested inside a
	// DoubleQuoted word part. The expansion engine uses it to decide
	// whether Word's default/alternate value is field-split (unquoted
	// context) or kept as one literal field (quoted context).
	InDouble bool
}

// TildeSub is word_part.TildeSub: `~` or `~user`, given its own
// first-class node rather than folded into a generic parameter form.
type TildeSub struct {
	Position arena.Pos
	Prefix   string // "" for bare ~, otherwise the user name
}

func (t *TildeSub) Pos() arena.Pos { return t.Position }
func (t *TildeSub) End() arena.Pos { return posAdd(t.Position, 1+len(t.Prefix)) }

// CommandSub is word_part.CommandSub: $(...) or `...`.
type CommandSub struct {
	Left, Right arena.Pos
	Backquotes  bool
	Stmts       []Command
}

func (c *CommandSub) Pos() arena.Pos { return c.Left }
func (c *CommandSub) End() arena.Pos { return posAdd(c.Right, 1) }

// ArithSub is word_part.ArithSub: $((...)).
type ArithSub struct {
	Left, Right arena.Pos
	X           ArithExpr
}

func (a *ArithSub) Pos() arena.Pos { return a.Left }
func (a *ArithSub) End() arena.Pos { return posAdd(a.Right, 2) }

// ArrayLiteral is word_part.ArrayLiteral: `(a b c)` on the RHS of an
// assignment.
type ArrayLiteral struct {
	Lparen, Rparen arena.Pos
	Elems          []*Word

	// Indexed holds, for entries written `[i]=value`, the index word in
	// the same slot as the corresponding Elems entry; nil otherwise.
	Indexed []*Word
}

func (a *ArrayLiteral) Pos() arena.Pos { return a.Lparen }
func (a *ArrayLiteral) End() arena.Pos { return posAdd(a.Rparen, 1) }
