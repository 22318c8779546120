package parser

import (
	"testing"

	"github.com/shfront/shfront/ast"

	qt "github.com/frankban/quicktest"
)

func firstWord(t *testing.T, src string) *ast.Word {
	t.Helper()
	f := parseOK(t, src)
	s, ok := f.Stmts[0].(*ast.Simple)
	qt.Assert(t, ok, qt.IsTrue, qt.Commentf("src %q", src))
	qt.Assert(t, s.Words, qt.Not(qt.HasLen), 0)
	return s.Words[0]
}

func TestParseSingleQuoted(t *testing.T) {
	c := qt.New(t)
	w := firstWord(t, "'it'\"'\"'s ok'\n")
	c.Assert(w.Parts, qt.HasLen, 3)
	sq, ok := w.Parts[0].(*ast.SingleQuoted)
	c.Assert(ok, qt.IsTrue)
	c.Assert(sq.Value, qt.Equals, "it")
}

func TestParseDollarSingleQuoted(t *testing.T) {
	c := qt.New(t)
	w := firstWord(t, `$'a\tb\n'`+"\n")
	sq, ok := w.Parts[0].(*ast.SingleQuoted)
	c.Assert(ok, qt.IsTrue)
	c.Assert(sq.Dollar, qt.IsTrue)
	c.Assert(sq.Value, qt.Equals, "a\tb\n")
}

func TestParseDoubleQuoted(t *testing.T) {
	c := qt.New(t)
	w := firstWord(t, `"foo $bar baz"`+"\n")
	dq, ok := w.Parts[0].(*ast.DoubleQuoted)
	c.Assert(ok, qt.IsTrue)
	c.Assert(dq.Rquote.Valid(), qt.IsTrue)
	c.Assert(dq.Parts, qt.HasLen, 3)
	lit0, ok := dq.Parts[0].(*ast.Literal)
	c.Assert(ok, qt.IsTrue)
	c.Assert(lit0.Value, qt.Equals, "foo ")
	sv, ok := dq.Parts[1].(*ast.SimpleVarSub)
	c.Assert(ok, qt.IsTrue)
	c.Assert(sv.Name, qt.Equals, "bar")
}

func TestParseSimpleVarSubSpecials(t *testing.T) {
	c := qt.New(t)
	for _, tc := range []struct {
		src  string
		name string
	}{
		{"echo $?\n", "?"},
		{"echo $@\n", "@"},
		{"echo $1\n", "1"},
		{"echo $foo\n", "foo"},
	} {
		f := parseOK(t, tc.src)
		s := f.Stmts[0].(*ast.Simple)
		sv, ok := s.Words[1].Parts[0].(*ast.SimpleVarSub)
		c.Assert(ok, qt.IsTrue, qt.Commentf("src %q", tc.src))
		c.Assert(sv.Name, qt.Equals, tc.name, qt.Commentf("src %q", tc.src))
	}
}

func TestParseTilde(t *testing.T) {
	c := qt.New(t)
	f := parseOK(t, "echo ~user/foo\n")
	s := f.Stmts[0].(*ast.Simple)
	ts, ok := s.Words[1].Parts[0].(*ast.TildeSub)
	c.Assert(ok, qt.IsTrue)
	c.Assert(ts.Prefix, qt.Equals, "user")
}

func TestParseBracedVarSubBare(t *testing.T) {
	c := qt.New(t)
	f := parseOK(t, "echo ${foo}\n")
	s := f.Stmts[0].(*ast.Simple)
	bv, ok := s.Words[1].Parts[0].(*ast.BracedVarSub)
	c.Assert(ok, qt.IsTrue)
	c.Assert(bv.Name, qt.Equals, "foo")
	c.Assert(bv.PrefixOp, qt.Equals, ast.NoPrefixOp)
	c.Assert(bv.Slice, qt.IsNil)
	c.Assert(bv.Replace, qt.IsNil)
	c.Assert(bv.Expand, qt.IsNil)
}

func TestParseBracedVarSubLength(t *testing.T) {
	c := qt.New(t)
	f := parseOK(t, "echo ${#foo}\n")
	s := f.Stmts[0].(*ast.Simple)
	bv := s.Words[1].Parts[0].(*ast.BracedVarSub)
	c.Assert(bv.PrefixOp, qt.Equals, ast.LengthOp)
	c.Assert(bv.Name, qt.Equals, "foo")
}

func TestParseBracedVarSubSlice(t *testing.T) {
	c := qt.New(t)
	f := parseOK(t, "echo ${foo:1:2}\n")
	s := f.Stmts[0].(*ast.Simple)
	bv := s.Words[1].Parts[0].(*ast.BracedVarSub)
	c.Assert(bv.Slice, qt.Not(qt.IsNil))
	c.Assert(bv.Slice.Offset.Lit(), qt.Equals, "1")
	c.Assert(bv.Slice.Length.Lit(), qt.Equals, "2")
}

func TestParseBracedVarSubReplace(t *testing.T) {
	c := qt.New(t)
	f := parseOK(t, "echo ${foo//bar/baz}\n")
	s := f.Stmts[0].(*ast.Simple)
	bv := s.Words[1].Parts[0].(*ast.BracedVarSub)
	c.Assert(bv.Replace, qt.Not(qt.IsNil))
	c.Assert(bv.Replace.All, qt.IsTrue)
	c.Assert(bv.Replace.Orig.Lit(), qt.Equals, "bar")
	c.Assert(bv.Replace.With.Lit(), qt.Equals, "baz")
}

func TestParseBracedVarSubDefault(t *testing.T) {
	c := qt.New(t)
	f := parseOK(t, "echo ${foo:-bar}\n")
	s := f.Stmts[0].(*ast.Simple)
	bv := s.Words[1].Parts[0].(*ast.BracedVarSub)
	c.Assert(bv.Expand, qt.Not(qt.IsNil))
	c.Assert(bv.Expand.Op, qt.Equals, ast.SubstColMinus)
	c.Assert(bv.Expand.Word.Lit(), qt.Equals, "bar")
}

func TestParseBracedVarSubCaseConv(t *testing.T) {
	c := qt.New(t)
	f := parseOK(t, "echo ${foo^^}\n")
	s := f.Stmts[0].(*ast.Simple)
	bv := s.Words[1].Parts[0].(*ast.BracedVarSub)
	c.Assert(bv.Expand, qt.Not(qt.IsNil))
	c.Assert(bv.Expand.Op, qt.Equals, ast.UpperAll)
	c.Assert(bv.Expand.Word, qt.IsNil)
}

func TestParseBracedVarSubDefaultInDoubleQuotes(t *testing.T) {
	c := qt.New(t)
	f := parseOK(t, `echo "${foo:-bar}"`+"\n")
	s := f.Stmts[0].(*ast.Simple)
	dq := s.Words[1].Parts[0].(*ast.DoubleQuoted)
	bv := dq.Parts[0].(*ast.BracedVarSub)
	c.Assert(bv.Expand, qt.Not(qt.IsNil))
	c.Assert(bv.Expand.InDouble, qt.IsTrue)
}

func TestParseBracedVarSubDefaultNotInDoubleQuotes(t *testing.T) {
	c := qt.New(t)
	f := parseOK(t, "echo ${foo:-bar}\n")
	s := f.Stmts[0].(*ast.Simple)
	bv := s.Words[1].Parts[0].(*ast.BracedVarSub)
	c.Assert(bv.Expand, qt.Not(qt.IsNil))
	c.Assert(bv.Expand.InDouble, qt.IsFalse)
}

func TestParseCommandSub(t *testing.T) {
	c := qt.New(t)
	f := parseOK(t, "echo $(foo bar)\n")
	s := f.Stmts[0].(*ast.Simple)
	cs, ok := s.Words[1].Parts[0].(*ast.CommandSub)
	c.Assert(ok, qt.IsTrue)
	c.Assert(cs.Backquotes, qt.IsFalse)
	c.Assert(cs.Stmts, qt.HasLen, 1)
}

func TestParseBackquoteSub(t *testing.T) {
	c := qt.New(t)
	f := parseOK(t, "echo `foo`\n")
	s := f.Stmts[0].(*ast.Simple)
	cs, ok := s.Words[1].Parts[0].(*ast.CommandSub)
	c.Assert(ok, qt.IsTrue)
	c.Assert(cs.Backquotes, qt.IsTrue)
}

func TestParseArithSub(t *testing.T) {
	c := qt.New(t)
	f := parseOK(t, "echo $((1 + 2))\n")
	s := f.Stmts[0].(*ast.Simple)
	as, ok := s.Words[1].Parts[0].(*ast.ArithSub)
	c.Assert(ok, qt.IsTrue)
	bin, ok := as.X.(*ast.ArithBinary)
	c.Assert(ok, qt.IsTrue)
	c.Assert(bin.Op, qt.Equals, ast.Add)
}

func TestParseArrayLiteral(t *testing.T) {
	c := qt.New(t)
	f := parseOK(t, "foo=(a b c)\n")
	a := f.Stmts[0].(*ast.Assignment)
	c.Assert(a.Pairs, qt.HasLen, 1)
	c.Assert(a.Pairs[0].Array, qt.Not(qt.IsNil))
	c.Assert(a.Pairs[0].Array.Elems, qt.HasLen, 3)
}

func TestParseArrayLiteralIndexed(t *testing.T) {
	c := qt.New(t)
	f := parseOK(t, "foo=([0]=a [2]=b)\n")
	a := f.Stmts[0].(*ast.Assignment)
	arr := a.Pairs[0].Array
	c.Assert(arr.Elems, qt.HasLen, 2)
	c.Assert(arr.Indexed[0].Lit(), qt.Equals, "0")
	c.Assert(arr.Indexed[1].Lit(), qt.Equals, "2")
}

func TestParseEscapedLiteral(t *testing.T) {
	c := qt.New(t)
	f := parseOK(t, `echo \$foo`+"\n")
	s := f.Stmts[0].(*ast.Simple)
	el, ok := s.Words[1].Parts[0].(*ast.EscapedLiteral)
	c.Assert(ok, qt.IsTrue)
	c.Assert(el.Char, qt.Equals, byte('$'))
}
