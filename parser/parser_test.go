package parser

import (
	"testing"

	"github.com/shfront/shfront/ast"

	qt "github.com/frankban/quicktest"
)

func parseOK(t *testing.T, src string) *ast.File {
	t.Helper()
	f, err := Parse([]byte(src), "t.sh", 0)
	qt.Assert(t, err, qt.IsNil, qt.Commentf("src %q", src))
	return f
}

func TestParseSimpleCommand(t *testing.T) {
	c := qt.New(t)
	f := parseOK(t, "echo foo bar\n")
	c.Assert(f.Stmts, qt.HasLen, 1)
	s, ok := f.Stmts[0].(*ast.Simple)
	c.Assert(ok, qt.IsTrue)
	c.Assert(s.Words, qt.HasLen, 3)
	c.Assert(s.Words[0].Lit(), qt.Equals, "echo")
	c.Assert(s.Words[1].Lit(), qt.Equals, "foo")
	c.Assert(s.Words[2].Lit(), qt.Equals, "bar")
}

func TestParseAssignment(t *testing.T) {
	c := qt.New(t)
	f := parseOK(t, "x=1 y=2\n")
	c.Assert(f.Stmts, qt.HasLen, 1)
	a, ok := f.Stmts[0].(*ast.Assignment)
	c.Assert(ok, qt.IsTrue)
	c.Assert(a.Pairs, qt.HasLen, 2)
	c.Assert(a.Pairs[0].Name.Value, qt.Equals, "x")
	c.Assert(a.Pairs[0].Value.Lit(), qt.Equals, "1")
	c.Assert(a.Pairs[1].Name.Value, qt.Equals, "y")
	c.Assert(a.Pairs[1].Value.Lit(), qt.Equals, "2")
}

func TestParseAssignPrefix(t *testing.T) {
	c := qt.New(t)
	f := parseOK(t, "FOO=bar echo hi\n")
	s, ok := f.Stmts[0].(*ast.Simple)
	c.Assert(ok, qt.IsTrue)
	c.Assert(s.Assigns, qt.HasLen, 1)
	c.Assert(s.Assigns[0].Name.Value, qt.Equals, "FOO")
	c.Assert(s.Words, qt.HasLen, 2)
	c.Assert(s.Words[0].Lit(), qt.Equals, "echo")
}

func TestParsePipeline(t *testing.T) {
	c := qt.New(t)
	f := parseOK(t, "foo | bar | baz\n")
	p, ok := f.Stmts[0].(*ast.Pipeline)
	c.Assert(ok, qt.IsTrue)
	c.Assert(p.Negated, qt.IsFalse)
	c.Assert(p.Children, qt.HasLen, 3)
	c.Assert(p.StderrIndices, qt.HasLen, 0)
}

func TestParsePipelineStderr(t *testing.T) {
	c := qt.New(t)
	f := parseOK(t, "foo |& bar\n")
	p, ok := f.Stmts[0].(*ast.Pipeline)
	c.Assert(ok, qt.IsTrue)
	c.Assert(p.Children, qt.HasLen, 2)
	c.Assert(p.StderrIndices, qt.DeepEquals, []int{0})
}

func TestParseNegatedPipeline(t *testing.T) {
	c := qt.New(t)
	f := parseOK(t, "! foo\n")
	p, ok := f.Stmts[0].(*ast.Pipeline)
	c.Assert(ok, qt.IsTrue)
	c.Assert(p.Negated, qt.IsTrue)
	c.Assert(p.Children, qt.HasLen, 1)
}

func TestParseAndOr(t *testing.T) {
	c := qt.New(t)
	f := parseOK(t, "foo && bar || baz\n")
	outer, ok := f.Stmts[0].(*ast.AndOr)
	c.Assert(ok, qt.IsTrue)
	c.Assert(outer.Op, qt.Equals, ast.AndOrOr)
	inner, ok := outer.Children[0].(*ast.AndOr)
	c.Assert(ok, qt.IsTrue)
	c.Assert(inner.Op, qt.Equals, ast.AndOrAnd)
}

func TestParseRedirects(t *testing.T) {
	c := qt.New(t)
	f := parseOK(t, "cmd <in >out 2>&1\n")
	s, ok := f.Stmts[0].(*ast.Simple)
	c.Assert(ok, qt.IsTrue)
	c.Assert(s.Redirs, qt.HasLen, 3)

	r0, ok := s.Redirs[0].(*ast.Redirect)
	c.Assert(ok, qt.IsTrue)
	c.Assert(r0.Op, qt.Equals, ast.RedirLess)
	c.Assert(r0.Arg.Lit(), qt.Equals, "in")

	r1, ok := s.Redirs[1].(*ast.Redirect)
	c.Assert(ok, qt.IsTrue)
	c.Assert(r1.Op, qt.Equals, ast.RedirGreat)
	c.Assert(r1.Arg.Lit(), qt.Equals, "out")

	r2, ok := s.Redirs[2].(*ast.Redirect)
	c.Assert(ok, qt.IsTrue)
	c.Assert(r2.Op, qt.Equals, ast.RedirDplOut)
	c.Assert(r2.N.Value, qt.Equals, "2")
	c.Assert(r2.Arg.Lit(), qt.Equals, "1")
}

func TestParseHeredoc(t *testing.T) {
	c := qt.New(t)
	f := parseOK(t, "cat <<EOF\nhello\nworld\nEOF\n")
	s, ok := f.Stmts[0].(*ast.Simple)
	c.Assert(ok, qt.IsTrue)
	c.Assert(s.Redirs, qt.HasLen, 1)
	h, ok := s.Redirs[0].(*ast.HereDoc)
	c.Assert(ok, qt.IsTrue)
	c.Assert(h.WasFilled, qt.IsTrue)
	c.Assert(h.Delim.Lit(), qt.Equals, "EOF")
	c.Assert(h.Arg.Lit(), qt.Equals, "hello\nworld\n")
}

func TestParseWhereDoc(t *testing.T) {
	c := qt.New(t)
	f := parseOK(t, "cat <<< foo\n")
	s, ok := f.Stmts[0].(*ast.Simple)
	c.Assert(ok, qt.IsTrue)
	h, ok := s.Redirs[0].(*ast.HereDoc)
	c.Assert(ok, qt.IsTrue)
	c.Assert(h.WasFilled, qt.IsTrue)
	c.Assert(h.Arg, qt.Equals, h.Delim)
}

func TestParseIf(t *testing.T) {
	c := qt.New(t)
	f := parseOK(t, "if foo; then bar; elif baz; then qux; else quux; fi\n")
	x, ok := f.Stmts[0].(*ast.If)
	c.Assert(ok, qt.IsTrue)
	c.Assert(x.Arms, qt.HasLen, 2)
	c.Assert(x.Arms[0].ThenStmts, qt.HasLen, 1)
	c.Assert(x.Arms[1].ThenStmts, qt.HasLen, 1)
	c.Assert(x.ElseStmts, qt.HasLen, 1)
	c.Assert(x.Else.Valid(), qt.IsTrue)
}

func TestParseIfNoElse(t *testing.T) {
	c := qt.New(t)
	f := parseOK(t, "if foo; then bar; fi\n")
	x, ok := f.Stmts[0].(*ast.If)
	c.Assert(ok, qt.IsTrue)
	c.Assert(x.Arms, qt.HasLen, 1)
	c.Assert(x.ElseStmts, qt.HasLen, 0)
	c.Assert(x.Else.Valid(), qt.IsFalse)
}

func TestParseWhile(t *testing.T) {
	c := qt.New(t)
	f := parseOK(t, "while foo; do bar; done\n")
	w, ok := f.Stmts[0].(*ast.While)
	c.Assert(ok, qt.IsTrue)
	c.Assert(w.CondStmts, qt.HasLen, 1)
	c.Assert(w.Body.Stmts, qt.HasLen, 1)
}

func TestParseUntil(t *testing.T) {
	c := qt.New(t)
	f := parseOK(t, "until foo; do bar; done\n")
	_, ok := f.Stmts[0].(*ast.Until)
	c.Assert(ok, qt.IsTrue)
}

func TestParseForEach(t *testing.T) {
	c := qt.New(t)
	f := parseOK(t, "for x in a b c; do echo $x; done\n")
	fe, ok := f.Stmts[0].(*ast.ForEach)
	c.Assert(ok, qt.IsTrue)
	c.Assert(fe.IterName, qt.Equals, "x")
	c.Assert(fe.DoArgIter, qt.IsFalse)
	c.Assert(fe.IterWords, qt.HasLen, 3)
}

func TestParseForEachArgIter(t *testing.T) {
	c := qt.New(t)
	f := parseOK(t, "for x; do echo $x; done\n")
	fe, ok := f.Stmts[0].(*ast.ForEach)
	c.Assert(ok, qt.IsTrue)
	c.Assert(fe.DoArgIter, qt.IsTrue)
	c.Assert(fe.IterWords, qt.HasLen, 0)
}

func TestParseForExpr(t *testing.T) {
	c := qt.New(t)
	f := parseOK(t, "for ((i=0; i<10; i++)); do echo $i; done\n")
	fe, ok := f.Stmts[0].(*ast.ForExpr)
	c.Assert(ok, qt.IsTrue)
	c.Assert(fe.Init, qt.Not(qt.IsNil))
	c.Assert(fe.Cond, qt.Not(qt.IsNil))
	c.Assert(fe.Update, qt.Not(qt.IsNil))
}

func TestParseCase(t *testing.T) {
	c := qt.New(t)
	f := parseOK(t, "case $x in foo) a;; bar|baz) b;;& *) c;; esac\n")
	x, ok := f.Stmts[0].(*ast.Case)
	c.Assert(ok, qt.IsTrue)
	c.Assert(x.Arms, qt.HasLen, 3)
	c.Assert(x.Arms[0].Patterns, qt.HasLen, 1)
	c.Assert(x.Arms[0].Op, qt.Equals, ast.CaseBreak)
	c.Assert(x.Arms[1].Patterns, qt.HasLen, 2)
	c.Assert(x.Arms[1].Op, qt.Equals, ast.CaseContTest)
	c.Assert(x.Arms[2].Patterns[0].Lit(), qt.Equals, "*")
}

func TestParseFuncDefBashStyle(t *testing.T) {
	c := qt.New(t)
	f := parseOK(t, "function foo { bar; }\n")
	fd, ok := f.Stmts[0].(*ast.FuncDef)
	c.Assert(ok, qt.IsTrue)
	c.Assert(fd.BashStyle, qt.IsTrue)
	c.Assert(fd.Name, qt.Equals, "foo")
	_, ok = fd.Body.(*ast.BraceGroup)
	c.Assert(ok, qt.IsTrue)
}

func TestParseFuncDefPosixStyle(t *testing.T) {
	c := qt.New(t)
	f := parseOK(t, "foo() { bar; }\n")
	fd, ok := f.Stmts[0].(*ast.FuncDef)
	c.Assert(ok, qt.IsTrue)
	c.Assert(fd.BashStyle, qt.IsFalse)
	c.Assert(fd.Name, qt.Equals, "foo")
}

func TestParseFuncDefNotMisparsedAsSimple(t *testing.T) {
	c := qt.New(t)
	f := parseOK(t, "foo bar\n")
	_, ok := f.Stmts[0].(*ast.Simple)
	c.Assert(ok, qt.IsTrue, qt.Commentf("a bare name followed by a word must stay a simple command"))
}

func TestParseBraceGroup(t *testing.T) {
	c := qt.New(t)
	f := parseOK(t, "{ foo; bar; }\n")
	bg, ok := f.Stmts[0].(*ast.BraceGroup)
	c.Assert(ok, qt.IsTrue)
	c.Assert(bg.Stmts, qt.HasLen, 2)
}

func TestParseSubshell(t *testing.T) {
	c := qt.New(t)
	f := parseOK(t, "(foo; bar)\n")
	sh, ok := f.Stmts[0].(*ast.Subshell)
	c.Assert(ok, qt.IsTrue)
	c.Assert(sh.Stmts, qt.HasLen, 2)
}

func TestParseDParen(t *testing.T) {
	c := qt.New(t)
	f := parseOK(t, "((x + 1))\n")
	dp, ok := f.Stmts[0].(*ast.DParen)
	c.Assert(ok, qt.IsTrue)
	_, ok = dp.X.(*ast.ArithBinary)
	c.Assert(ok, qt.IsTrue)
}

func TestParseDBracket(t *testing.T) {
	c := qt.New(t)
	f := parseOK(t, "[[ -f foo && -d bar ]]\n")
	db, ok := f.Stmts[0].(*ast.DBracket)
	c.Assert(ok, qt.IsTrue)
	and, ok := db.X.(*ast.BoolAnd)
	c.Assert(ok, qt.IsTrue)
	left, ok := and.X.(*ast.BoolUnary)
	c.Assert(ok, qt.IsTrue)
	c.Assert(left.Op, qt.Equals, ast.TestRegFile)
}

func TestParseSyntaxError(t *testing.T) {
	c := qt.New(t)
	_, err := Parse([]byte("if foo; then bar\n"), "bad.sh", 0)
	c.Assert(err, qt.Not(qt.IsNil))
	serr, ok := err.(*SyntaxError)
	c.Assert(ok, qt.IsTrue)
	c.Assert(serr.Filename, qt.Equals, "bad.sh")
}

func TestParseForEachInvalidName(t *testing.T) {
	c := qt.New(t)
	_, err := Parse([]byte("for - in a b c; do echo hi; done\n"), "bad.sh", 0)
	c.Assert(err, qt.Not(qt.IsNil))
	_, ok := err.(*SyntaxError)
	c.Assert(ok, qt.IsTrue)
}

func TestParseFuncDefBashStyleInvalidName(t *testing.T) {
	c := qt.New(t)
	_, err := Parse([]byte("function 1foo { bar; }\n"), "bad.sh", 0)
	c.Assert(err, qt.Not(qt.IsNil))
	_, ok := err.(*SyntaxError)
	c.Assert(ok, qt.IsTrue)
}

func TestParseKeepComments(t *testing.T) {
	c := qt.New(t)
	f := parseOK2(t, "# hello\nfoo\n", KeepComments)
	c.Assert(f.Comments, qt.HasLen, 1)
	c.Assert(f.Comments[0].Text, qt.Equals, " hello")
}

func parseOK2(t *testing.T, src string, mode Mode) *ast.File {
	t.Helper()
	f, err := Parse([]byte(src), "t.sh", mode)
	qt.Assert(t, err, qt.IsNil)
	return f
}
