package ast

import "github.com/shfront/shfront/arena"

// ArithExpr is the closed union evaluated by the arithmetic Pratt parser
// (component F) and consumed inside $((...)), ((...)), array subscripts
// and ${x:offset:length}.
type ArithExpr interface {
	Node
	arithExprNode()
}

func (*ArithWord) arithExprNode()     {}
func (*ArithVar) arithExprNode()      {}
func (*ArithUnary) arithExprNode()    {}
func (*ArithBinary) arithExprNode()   {}
func (*ArithAssign) arithExprNode()   {}
func (*ArithTernary) arithExprNode()  {}
func (*ArithParen) arithExprNode()    {}
func (*ArithFuncCall) arithExprNode() {}

// ArithWord wraps an ordinary Word used as an arithmetic primary, e.g. a
// numeric literal, a `$x` parameter expansion, or a nested command/arith
// substitution.
type ArithWord struct {
	W *Word
}

func (a *ArithWord) Pos() arena.Pos { return a.W.Pos() }
func (a *ArithWord) End() arena.Pos { return a.W.End() }

// ArithVar is a bare identifier operand with no `$`, as in `((x = 1))`
// or `((x++))`.
type ArithVar struct {
	NamePos arena.Pos
	Name    string
}

func (a *ArithVar) Pos() arena.Pos { return a.NamePos }
func (a *ArithVar) End() arena.Pos { return posAdd(a.NamePos, len(a.Name)) }

// ArithUnary is `! ~ + -` and prefix/postfix `++ --`.
type ArithUnary struct {
	OpPos arena.Pos
	Op    ArithOp
	Post  bool
	X     ArithExpr
}

func (u *ArithUnary) Pos() arena.Pos {
	if u.Post {
		return u.X.Pos()
	}
	return u.OpPos
}

func (u *ArithUnary) End() arena.Pos {
	if u.Post {
		return posAdd(u.OpPos, 2)
	}
	return u.X.End()
}

// ArithBinary is any left-associative (or, for Pow, right-associative)
// binary arithmetic operator.
type ArithBinary struct {
	OpPos arena.Pos
	Op    ArithOp
	X, Y  ArithExpr
}

func (b *ArithBinary) Pos() arena.Pos { return b.X.Pos() }
func (b *ArithBinary) End() arena.Pos { return b.Y.End() }

// ArithAssign is `=  += -= *= /= %= &= |= ^= <<= >>=`, right-associative.
type ArithAssign struct {
	OpPos  arena.Pos
	Op     ArithOp
	LValue ArithExpr
	RHS    ArithExpr
}

func (a *ArithAssign) Pos() arena.Pos { return a.LValue.Pos() }
func (a *ArithAssign) End() arena.Pos { return a.RHS.End() }

// ArithTernary is `cond ? then : else`, right-associative.
type ArithTernary struct {
	Cond, Then, Else ArithExpr
}

func (t *ArithTernary) Pos() arena.Pos { return t.Cond.Pos() }
func (t *ArithTernary) End() arena.Pos { return t.Else.End() }

// ArithParen is an explicit `(...)` grouping, kept as its own node so the
// printer can reproduce it verbatim rather than relying on precedence to
// infer where parens are needed.
type ArithParen struct {
	Lparen, Rparen arena.Pos
	X              ArithExpr
}

func (p *ArithParen) Pos() arena.Pos { return p.Lparen }
func (p *ArithParen) End() arena.Pos { return posAdd(p.Rparen, 1) }

// ArithFuncCall is a `name(args...)` primary inside an arithmetic
// expression. Not produced by the POSIX grammar path but accepted
// opportunistically; bash itself has no arithmetic function-call
// semantics, so Config.Arithm rejects it at evaluation time.
type ArithFuncCall struct {
	NamePos        arena.Pos
	Name           string
	Rparen         arena.Pos
	Args           []ArithExpr
}

func (f *ArithFuncCall) Pos() arena.Pos { return f.NamePos }
func (f *ArithFuncCall) End() arena.Pos { return posAdd(f.Rparen, 1) }

// ArithOp enumerates arithmetic operators. It is a distinct type from
// id.ID (rather than reusing it directly) so that ast does not need to
// import lexer/parser internals; the parser is responsible for mapping
// lexer token ids onto these values.
type ArithOp int

const (
	_ ArithOp = iota
	Comma
	Assgn
	AddAssgn
	SubAssgn
	MulAssgn
	QuoAssgn
	RemAssgn
	AndAssgn
	OrAssgn
	XorAssgn
	ShlAssgn
	ShrAssgn
	TernQuest
	TernColon
	OrArit
	AndArit
	Or
	Xor
	And
	Eql
	Neq
	Lss
	Gtr
	Leq
	Geq
	Shl
	Shr
	Add
	Sub
	Mul
	Quo
	Rem
	Pow
	Not
	BitNegation
	Inc
	Dec
)
