package ast

import "github.com/shfront/shfront/arena"

// BoolExpr is the closed union parsed by the recursive-descent [[ ]]
// expression parser (component F).
type BoolExpr interface {
	Node
	boolExprNode()
}

func (*WordTest) boolExprNode()   {}
func (*BoolBinary) boolExprNode() {}
func (*BoolUnary) boolExprNode()  {}
func (*BoolNot) boolExprNode()    {}
func (*BoolAnd) boolExprNode()    {}
func (*BoolOr) boolExprNode()     {}
func (*BoolParen) boolExprNode()  {}

// WordTest is a bare word used as a boolean primary (true iff non-empty).
type WordTest struct {
	W *Word
}

func (w *WordTest) Pos() arena.Pos { return w.W.Pos() }
func (w *WordTest) End() arena.Pos { return w.W.End() }

// BoolBinaryOp enumerates the binary test operators.
type BoolBinaryOp int

const (
	_ BoolBinaryOp = iota
	TestAssgn  // =
	TestEql    // ==
	TestNeq    // !=
	TestLss    // <
	TestGtr    // >
	TestNumEq  // -eq
	TestNumNe  // -ne
	TestNumLt  // -lt
	TestNumLe  // -le
	TestNumGt  // -gt
	TestNumGe  // -ge
	TestRegex  // =~
	TestNewer  // -nt
	TestOlder  // -ot
	TestDevIno // -ef
)

// BoolBinary is X op Y for one of the binary test operators above.
type BoolBinary struct {
	OpPos arena.Pos
	Op    BoolBinaryOp
	X, Y  BoolExpr
}

func (b *BoolBinary) Pos() arena.Pos { return b.X.Pos() }
func (b *BoolBinary) End() arena.Pos { return b.Y.End() }

// UnaryTestOp enumerates the unary file/string test operators.
type UnaryTestOp int

const (
	_ UnaryTestOp = iota
	TestExists  // -e
	TestRegFile // -f
	TestDir     // -d
	TestChar    // -c
	TestBlock   // -b
	TestPipe    // -p
	TestSocket  // -S
	TestSymlink // -L
	TestSetgid  // -g
	TestSetuid  // -u
	TestReadabl // -r
	TestWritabl // -w
	TestExecabl // -x
	TestNoEmpty // -s
	TestTermFd  // -t
	TestEmptStr // -z
	TestNEmpStr // -n
	TestOptSet  // -o
	TestVarSet  // -v
	TestNameRef // -R
)

// BoolUnary is `op X` for one of the unary operators above.
type BoolUnary struct {
	OpPos arena.Pos
	Op    UnaryTestOp
	X     BoolExpr
}

func (u *BoolUnary) Pos() arena.Pos { return u.OpPos }
func (u *BoolUnary) End() arena.Pos { return u.X.End() }

// BoolNot is `! X`.
type BoolNot struct {
	Bang arena.Pos
	X    BoolExpr
}

func (n *BoolNot) Pos() arena.Pos { return n.Bang }
func (n *BoolNot) End() arena.Pos { return n.X.End() }

// BoolAnd is `X && Y`.
type BoolAnd struct {
	X, Y BoolExpr
}

func (a *BoolAnd) Pos() arena.Pos { return a.X.Pos() }
func (a *BoolAnd) End() arena.Pos { return a.Y.End() }

// BoolOr is `X || Y`.
type BoolOr struct {
	X, Y BoolExpr
}

func (o *BoolOr) Pos() arena.Pos { return o.X.Pos() }
func (o *BoolOr) End() arena.Pos { return o.Y.End() }

// BoolParen is an explicit `( X )` grouping.
type BoolParen struct {
	Lparen, Rparen arena.Pos
	X              BoolExpr
}

func (p *BoolParen) Pos() arena.Pos { return p.Lparen }
func (p *BoolParen) End() arena.Pos { return posAdd(p.Rparen, 1) }
