// Package printer renders an *ast.File back to shell source, either
// byte-for-byte from the arena the parser built (verbatim mode) or
// freshly formatted with consistent indentation (canonical mode). Two
// entry points exist since this module's AST always carries exact source
// positions, making verbatim output a direct arena slice rather than a
// traversal.
package printer

import (
	"bufio"
	"io"

	"github.com/shfront/shfront/arena"
	"github.com/shfront/shfront/ast"
)

// Config controls canonical (reformatting) printing.
type Config struct {
	// Indent is the number of spaces per indentation level. 0 means use
	// a single tab per level.
	Indent int
}

// Verbatim writes f's exact original source by slicing the arena it was
// parsed from, with no re-serialization: every node's Pos()/End() are
// real byte offsets into f.Arena, so printing is just recovering the
// bytes in between.
func Verbatim(w io.Writer, f *ast.File) error {
	if f.Pos() == arena.NoPos {
		_, err := w.Write(f.Arena.Src())
		return err
	}
	_, err := w.Write(f.Arena.Slice(f.Pos(), f.End()))
	return err
}

// Fprint pretty-prints f from scratch, ignoring its original formatting.
func (c Config) Fprint(w io.Writer, f *ast.File) error {
	p := &printer{bufWriter: bufio.NewWriter(w), indent: c.indentStr()}
	p.stmtList(f.Stmts)
	return p.bufWriter.Flush()
}

// Fprint pretty-prints f using the default (tab) indentation.
func Fprint(w io.Writer, f *ast.File) error {
	return Config{}.Fprint(w, f)
}

func (c Config) indentStr() string {
	if c.Indent <= 0 {
		return "\t"
	}
	s := make([]byte, c.Indent)
	for i := range s {
		s[i] = ' '
	}
	return string(s)
}

type printer struct {
	bufWriter *bufio.Writer

	indent string
	level  int

	wantSpace       bool
	pendingHeredocs []*ast.HereDoc
}

func (p *printer) writeString(s string) {
	p.bufWriter.WriteString(s)
}

func (p *printer) space() {
	if p.wantSpace {
		p.writeString(" ")
	}
	p.wantSpace = true
}

func (p *printer) newline() {
	p.writeString("\n")
	p.wantSpace = false
	p.flushPendingHeredocs()
	p.writeIndent()
}

func (p *printer) writeIndent() {
	for i := 0; i < p.level; i++ {
		p.writeString(p.indent)
	}
}

func (p *printer) flushPendingHeredocs() {
	docs := p.pendingHeredocs
	p.pendingHeredocs = nil
	for _, h := range docs {
		if h.Arg != nil {
			p.wordParts(h.Arg.Parts, false)
		}
		p.writeString("\n")
		delim := ""
		if h.Delim != nil {
			delim = h.Delim.Lit()
		}
		p.writeString(delim)
		p.writeString("\n")
	}
}

func (p *printer) stmtList(stmts []ast.Command) {
	for i, s := range stmts {
		if i > 0 {
			p.newline()
		}
		p.command(s)
	}
}

func (p *printer) command(c ast.Command) {
	switch x := c.(type) {
	case nil:
	case *ast.NoOp:
	case *ast.Sentence:
		p.sentence(x)
	case *ast.Assignment:
		if x.Keyword != "" {
			p.writeString(x.Keyword + " ")
		}
		p.assignsAndWords(x.Pairs, nil)
		p.redirs(x.Redirs)
	case *ast.Simple:
		p.assignsAndWords(x.Assigns, x.Words)
		p.redirs(x.Redirs)
	case *ast.Pipeline:
		p.pipeline(x)
	case *ast.AndOr:
		p.andOr(x)
	case *ast.List:
		p.stmtList(x.Children)
	case *ast.DoGroup:
		p.doGroup(x)
	case *ast.BraceGroup:
		p.writeString("{")
		p.level++
		p.newline()
		p.stmtList(x.Stmts)
		p.level--
		p.newline()
		p.writeString("}")
	case *ast.Subshell:
		p.writeString("(")
		p.level++
		p.newline()
		p.stmtList(x.Stmts)
		p.level--
		p.newline()
		p.writeString(")")
	case *ast.DParen:
		p.writeString("((")
		p.arithExpr(x.X)
		p.writeString("))")
	case *ast.DBracket:
		p.writeString("[[ ")
		p.boolExpr(x.X)
		p.writeString(" ]]")
	case *ast.ForEach:
		p.forEach(x)
	case *ast.ForExpr:
		p.forExpr(x)
	case *ast.While:
		p.whileUntil("while", x.CondStmts, x.Body)
	case *ast.Until:
		p.whileUntil("until", x.CondStmts, x.Body)
	case *ast.If:
		p.ifClause(x)
	case *ast.Case:
		p.caseClause(x)
	case *ast.FuncDef:
		p.funcDef(x)
	default:
		p.writeString("<?>")
	}
}

func (p *printer) sentence(s *ast.Sentence) {
	if s.Negated {
		p.space()
		p.writeString("!")
	}
	p.assignsAndWords(s.Assigns, nil)
	if s.Cmd != nil {
		p.command(s.Cmd)
	}
	p.redirs(s.Redirs)
	switch s.Term {
	case ast.TermAmp:
		p.writeString(" &")
	case ast.TermSemi:
		p.writeString(";")
	}
}

func (p *printer) pipeline(pl *ast.Pipeline) {
	if pl.Negated {
		p.space()
		p.writeString("!")
	}
	for i, child := range pl.Children {
		if i > 0 {
			op := "|"
			for _, si := range pl.StderrIndices {
				if si == i-1 {
					op = "|&"
				}
			}
			p.writeString(" " + op + " ")
			p.wantSpace = false
		}
		p.command(child)
	}
}

func (p *printer) andOr(ao *ast.AndOr) {
	op := "&&"
	if ao.Op == ast.AndOrOr {
		op = "||"
	}
	for i, child := range ao.Children {
		if i > 0 {
			p.writeString(" " + op + " ")
			p.wantSpace = false
		}
		p.command(child)
	}
}

func (p *printer) doGroup(dg *ast.DoGroup) {
	p.writeString("do")
	p.level++
	p.newline()
	p.stmtList(dg.Stmts)
	p.level--
	p.newline()
	p.writeString("done")
}

func (p *printer) forEach(f *ast.ForEach) {
	p.writeString("for ")
	p.writeString(f.IterName)
	if !f.DoArgIter {
		p.writeString(" in")
		for _, w := range f.IterWords {
			p.writeString(" ")
			p.word(w)
		}
	}
	p.writeString("; ")
	p.doGroup(f.Body)
	p.redirs(f.Redirs)
}

func (p *printer) forExpr(f *ast.ForExpr) {
	p.writeString("for ((")
	p.arithExpr(f.Init)
	p.writeString("; ")
	p.arithExpr(f.Cond)
	p.writeString("; ")
	p.arithExpr(f.Update)
	p.writeString(")); ")
	p.doGroup(f.Body)
	p.redirs(f.Redirs)
}

func (p *printer) whileUntil(kw string, cond []ast.Command, do *ast.DoGroup) {
	p.writeString(kw + " ")
	p.stmtList(cond)
	p.writeString("; ")
	p.doGroup(do)
}

func (p *printer) ifClause(i *ast.If) {
	for ai, arm := range i.Arms {
		if ai == 0 {
			p.writeString("if ")
		} else {
			p.writeString("elif ")
		}
		p.stmtList(arm.CondStmts)
		p.writeString("; then")
		p.level++
		p.newline()
		p.stmtList(arm.ThenStmts)
		p.level--
		p.newline()
	}
	if len(i.ElseStmts) > 0 || i.Else.Valid() {
		p.writeString("else")
		p.level++
		p.newline()
		p.stmtList(i.ElseStmts)
		p.level--
		p.newline()
	}
	p.writeString("fi")
	p.redirs(i.Redirs)
}

func (p *printer) caseClause(c *ast.Case) {
	p.writeString("case ")
	p.word(c.ToMatch)
	p.writeString(" in")
	p.level++
	for _, arm := range c.Arms {
		p.newline()
		for pi, pat := range arm.Patterns {
			if pi > 0 {
				p.writeString(" | ")
			}
			p.word(pat)
		}
		p.writeString(")")
		p.level++
		p.newline()
		p.stmtList(arm.Stmts)
		switch arm.Op {
		case ast.CaseFallThru:
			p.newline()
			p.writeString(";&")
		case ast.CaseContTest:
			p.newline()
			p.writeString(";;&")
		default:
			p.newline()
			p.writeString(";;")
		}
		p.level--
	}
	p.level--
	p.newline()
	p.writeString("esac")
	p.redirs(c.Redirs)
}

func (p *printer) funcDef(f *ast.FuncDef) {
	if f.BashStyle {
		p.writeString("function " + f.Name + " ")
	} else {
		p.writeString(f.Name + "() ")
	}
	p.command(f.Body)
	p.redirs(f.Redirs)
}

func (p *printer) assignsAndWords(assigns []*ast.Assign, words []*ast.Word) {
	first := true
	for _, a := range assigns {
		if !first {
			p.writeString(" ")
		}
		first = false
		p.assign(a)
	}
	for _, w := range words {
		if !first {
			p.writeString(" ")
		}
		first = false
		p.word(w)
	}
}

func (p *printer) assign(a *ast.Assign) {
	p.writeString(a.Name.Value)
	if a.Index != nil {
		p.writeString("[")
		p.word(a.Index)
		p.writeString("]")
	}
	if a.Append {
		p.writeString("+=")
	} else if !a.Naked {
		p.writeString("=")
	}
	if a.Array != nil {
		p.writeString("(")
		for i, e := range a.Array.Elems {
			if i > 0 {
				p.writeString(" ")
			}
			if a.Array.Indexed != nil && a.Array.Indexed[i] != nil {
				p.writeString("[")
				p.word(a.Array.Indexed[i])
				p.writeString("]=")
			}
			p.word(e)
		}
		p.writeString(")")
	} else if a.Value != nil {
		p.word(a.Value)
	}
}

func (p *printer) redirs(rs []ast.Redir) {
	for _, r := range rs {
		p.writeString(" ")
		p.redir(r)
	}
}

func (p *printer) redir(r ast.Redir) {
	switch x := r.(type) {
	case *ast.Redirect:
		if x.N != nil {
			p.writeString(x.N.Value)
		}
		p.writeString(redirOpString(x.Op))
		switch x.Op {
		case ast.RedirCmdIn, ast.RedirCmdOut:
			p.stmtListInline(x.Stmts)
			p.writeString(")")
		default:
			if x.Arg != nil {
				p.writeString(" ")
				p.word(x.Arg)
			}
		}
	case *ast.HereDoc:
		if x.N != nil {
			p.writeString(x.N.Value)
		}
		if x.Arg == x.Delim && x.WasFilled {
			// The <<< here-string form: Arg is the expanded word
			// itself, not a queued body.
			p.writeString("<<<")
			p.writeString(" ")
			p.word(x.Arg)
			return
		}
		if x.Dash {
			p.writeString("<<-")
		} else {
			p.writeString("<<")
		}
		p.writeString(" ")
		if x.Delim != nil {
			delim := x.Delim.Lit()
			if x.Quoted {
				p.writeString("'" + delim + "'")
			} else {
				p.writeString(delim)
			}
		}
		p.pendingHeredocs = append(p.pendingHeredocs, x)
	}
}

func redirOpString(op ast.RedirOp) string {
	switch op {
	case ast.RedirLess:
		return "<"
	case ast.RedirGreat:
		return ">"
	case ast.RedirClobber:
		return ">|"
	case ast.RedirAppend:
		return ">>"
	case ast.RedirRdrInOut:
		return "<>"
	case ast.RedirDplIn:
		return "<&"
	case ast.RedirDplOut:
		return ">&"
	case ast.RedirCmdIn:
		return "<("
	case ast.RedirCmdOut:
		return ">("
	case ast.RedirRdrAll:
		return "&>"
	case ast.RedirAppAll:
		return "&>>"
	case ast.RedirPipeAll:
		return "|&"
	}
	return "?"
}

func (p *printer) word(w *ast.Word) {
	if w == nil {
		return
	}
	p.wordParts(w.Parts, false)
}

func (p *printer) wordParts(parts []ast.WordPart, inDouble bool) {
	for _, wp := range parts {
		p.wordPart(wp, inDouble)
	}
}

func (p *printer) wordPart(wp ast.WordPart, inDouble bool) {
	switch x := wp.(type) {
	case *ast.Literal:
		p.writeString(x.Value)
	case *ast.EscapedLiteral:
		p.writeString("\\" + string(x.Char))
	case *ast.SingleQuoted:
		if x.Dollar {
			p.writeString("$'" + x.Value + "'")
		} else {
			p.writeString("'" + x.Value + "'")
		}
	case *ast.DoubleQuoted:
		if x.Dollar {
			p.writeString("$\"")
		} else {
			p.writeString("\"")
		}
		p.wordParts(x.Parts, true)
		p.writeString("\"")
	case *ast.TildeSub:
		p.writeString("~" + x.Prefix)
	case *ast.SimpleVarSub:
		p.writeString("$" + x.Name)
	case *ast.BracedVarSub:
		p.bracedVarSub(x)
	case *ast.CommandSub:
		if x.Backquotes {
			p.writeString("`")
			p.stmtListInline(x.Stmts)
			p.writeString("`")
		} else {
			p.writeString("$(")
			p.stmtListInline(x.Stmts)
			p.writeString(")")
		}
	case *ast.ArithSub:
		p.writeString("$((")
		p.arithExpr(x.X)
		p.writeString("))")
	case *ast.ArrayLiteral:
		p.writeString("(")
		for i, e := range x.Elems {
			if i > 0 {
				p.writeString(" ")
			}
			p.word(e)
		}
		p.writeString(")")
	}
}

func (p *printer) stmtListInline(stmts []ast.Command) {
	for i, s := range stmts {
		if i > 0 {
			p.writeString("; ")
		}
		p.command(s)
	}
}

func (p *printer) bracedVarSub(v *ast.BracedVarSub) {
	p.writeString("${")
	switch v.PrefixOp {
	case ast.LengthOp:
		p.writeString("#")
	case ast.IndirectOp:
		p.writeString("!")
	}
	p.writeString(v.Name)
	if v.Index != nil {
		p.writeString("[")
		p.word(v.Index)
		p.writeString("]")
	}
	switch {
	case v.Slice != nil:
		p.writeString(":")
		if v.Slice.Offset != nil {
			p.word(v.Slice.Offset)
		}
		if v.Slice.Length != nil {
			p.writeString(":")
			p.word(v.Slice.Length)
		}
	case v.Replace != nil:
		if v.Replace.All {
			p.writeString("//")
		} else {
			p.writeString("/")
		}
		p.word(v.Replace.Orig)
		p.writeString("/")
		p.word(v.Replace.With)
	case v.Expand != nil:
		p.writeString(expansionOpString(v.Expand.Op))
		p.word(v.Expand.Word)
	}
	p.writeString("}")
}

func expansionOpString(op ast.ExpansionOp) string {
	switch op {
	case ast.SubstColPlus:
		return ":+"
	case ast.SubstPlus:
		return "+"
	case ast.SubstColMinus:
		return ":-"
	case ast.SubstMinus:
		return "-"
	case ast.SubstColQuest:
		return ":?"
	case ast.SubstQuest:
		return "?"
	case ast.SubstColAssgn:
		return ":="
	case ast.SubstAssgn:
		return "="
	case ast.RemSmallPrefix:
		return "#"
	case ast.RemLargePrefix:
		return "##"
	case ast.RemSmallSuffix:
		return "%"
	case ast.RemLargeSuffix:
		return "%%"
	case ast.UpperFirst:
		return "^"
	case ast.UpperAll:
		return "^^"
	case ast.LowerFirst:
		return ","
	case ast.LowerAll:
		return ",,"
	}
	return ""
}

func (p *printer) arithExpr(x ast.ArithExpr) {
	switch v := x.(type) {
	case nil:
	case *ast.ArithWord:
		p.word(v.W)
	case *ast.ArithVar:
		p.writeString(v.Name)
	case *ast.ArithUnary:
		if v.Post {
			p.arithExpr(v.X)
			p.writeString(arithOpString(v.Op))
		} else {
			p.writeString(arithOpString(v.Op))
			p.arithExpr(v.X)
		}
	case *ast.ArithBinary:
		p.arithExpr(v.X)
		p.writeString(" " + arithOpString(v.Op) + " ")
		p.arithExpr(v.Y)
	case *ast.ArithAssign:
		p.arithExpr(v.LValue)
		p.writeString(" " + arithOpString(v.Op) + " ")
		p.arithExpr(v.RHS)
	case *ast.ArithTernary:
		p.arithExpr(v.Cond)
		p.writeString(" ? ")
		p.arithExpr(v.Then)
		p.writeString(" : ")
		p.arithExpr(v.Else)
	case *ast.ArithParen:
		p.writeString("(")
		p.arithExpr(v.X)
		p.writeString(")")
	case *ast.ArithFuncCall:
		p.writeString(v.Name + "(")
		for i, a := range v.Args {
			if i > 0 {
				p.writeString(", ")
			}
			p.arithExpr(a)
		}
		p.writeString(")")
	}
}

func arithOpString(op ast.ArithOp) string {
	switch op {
	case ast.Comma:
		return ","
	case ast.Assgn:
		return "="
	case ast.AddAssgn:
		return "+="
	case ast.SubAssgn:
		return "-="
	case ast.MulAssgn:
		return "*="
	case ast.QuoAssgn:
		return "/="
	case ast.RemAssgn:
		return "%="
	case ast.AndAssgn:
		return "&="
	case ast.OrAssgn:
		return "|="
	case ast.XorAssgn:
		return "^="
	case ast.ShlAssgn:
		return "<<="
	case ast.ShrAssgn:
		return ">>="
	case ast.OrArit:
		return "||"
	case ast.AndArit:
		return "&&"
	case ast.Or:
		return "|"
	case ast.Xor:
		return "^"
	case ast.And:
		return "&"
	case ast.Eql:
		return "=="
	case ast.Neq:
		return "!="
	case ast.Lss:
		return "<"
	case ast.Gtr:
		return ">"
	case ast.Leq:
		return "<="
	case ast.Geq:
		return ">="
	case ast.Shl:
		return "<<"
	case ast.Shr:
		return ">>"
	case ast.Add:
		return "+"
	case ast.Sub:
		return "-"
	case ast.Mul:
		return "*"
	case ast.Quo:
		return "/"
	case ast.Rem:
		return "%"
	case ast.Pow:
		return "**"
	case ast.Not:
		return "!"
	case ast.BitNegation:
		return "~"
	case ast.Inc:
		return "++"
	case ast.Dec:
		return "--"
	}
	return "?"
}

func (p *printer) boolExpr(x ast.BoolExpr) {
	switch v := x.(type) {
	case nil:
	case *ast.BoolOr:
		p.boolExpr(v.X)
		p.writeString(" || ")
		p.boolExpr(v.Y)
	case *ast.BoolAnd:
		p.boolExpr(v.X)
		p.writeString(" && ")
		p.boolExpr(v.Y)
	case *ast.BoolNot:
		p.writeString("! ")
		p.boolExpr(v.X)
	case *ast.BoolParen:
		p.writeString("(")
		p.boolExpr(v.X)
		p.writeString(")")
	case *ast.BoolUnary:
		p.writeString(unaryTestOpString(v.Op) + " ")
		p.boolExpr(v.X)
	case *ast.BoolBinary:
		p.boolExpr(v.X)
		p.writeString(" " + binaryTestOpString(v.Op) + " ")
		p.boolExpr(v.Y)
	case *ast.WordTest:
		p.word(v.W)
	}
}

func unaryTestOpString(op ast.UnaryTestOp) string {
	for k, v := range unaryTestOpNames {
		if v == op {
			return k
		}
	}
	return "?"
}

func binaryTestOpString(op ast.BoolBinaryOp) string {
	for k, v := range binaryTestOpNames {
		if v == op {
			return k
		}
	}
	return "?"
}

var unaryTestOpNames = map[string]ast.UnaryTestOp{
	"-e": ast.TestExists, "-f": ast.TestRegFile, "-d": ast.TestDir,
	"-c": ast.TestChar, "-b": ast.TestBlock, "-p": ast.TestPipe,
	"-S": ast.TestSocket, "-L": ast.TestSymlink,
	"-g": ast.TestSetgid, "-u": ast.TestSetuid, "-r": ast.TestReadabl,
	"-w": ast.TestWritabl, "-x": ast.TestExecabl, "-s": ast.TestNoEmpty,
	"-t": ast.TestTermFd, "-z": ast.TestEmptStr, "-n": ast.TestNEmpStr,
	"-o": ast.TestOptSet, "-v": ast.TestVarSet, "-R": ast.TestNameRef,
}

var binaryTestOpNames = map[string]ast.BoolBinaryOp{
	"==": ast.TestEql, "!=": ast.TestNeq,
	"-eq": ast.TestNumEq, "-ne": ast.TestNumNe, "-lt": ast.TestNumLt,
	"-le": ast.TestNumLe, "-gt": ast.TestNumGt, "-ge": ast.TestNumGe,
	"=~": ast.TestRegex, "-nt": ast.TestNewer, "-ot": ast.TestOlder,
	"-ef": ast.TestDevIno, "=": ast.TestAssgn,
	"<": ast.TestLss, ">": ast.TestGtr,
}

