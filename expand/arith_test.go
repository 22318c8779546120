package expand

import (
	"context"
	"testing"

	"github.com/shfront/shfront/ast"

	qt "github.com/frankban/quicktest"
)

func newTestConfig(vars map[string]string) *Config {
	mem := NewMem(nil)
	for k, v := range vars {
		mem.Set(k, Variable{Set: true, Kind: String, Str: v})
	}
	return &Config{Env: mem}
}

func arithVar(name string) *ast.ArithVar { return &ast.ArithVar{Name: name} }

func arithNum(n string) *ast.ArithWord {
	return &ast.ArithWord{W: litWord(n)}
}

func TestArithmBinary(t *testing.T) {
	c := qt.New(t)
	cfg := newTestConfig(nil)
	expr := &ast.ArithBinary{Op: ast.Add, X: arithNum("3"), Y: arithNum("4")}
	got, err := cfg.Arithm(context.Background(), expr)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, int64(7))
}

func TestArithmPrecedenceViaNesting(t *testing.T) {
	c := qt.New(t)
	cfg := newTestConfig(nil)
	// 2 + 3 * 4 built explicitly as the Pratt parser would nest it.
	mul := &ast.ArithBinary{Op: ast.Mul, X: arithNum("3"), Y: arithNum("4")}
	expr := &ast.ArithBinary{Op: ast.Add, X: arithNum("2"), Y: mul}
	got, err := cfg.Arithm(context.Background(), expr)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, int64(14))
}

func TestArithmDivByZero(t *testing.T) {
	c := qt.New(t)
	cfg := newTestConfig(nil)
	expr := &ast.ArithBinary{Op: ast.Quo, X: arithNum("1"), Y: arithNum("0")}
	_, err := cfg.Arithm(context.Background(), expr)
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestArithmVarReference(t *testing.T) {
	c := qt.New(t)
	cfg := newTestConfig(map[string]string{"x": "10"})
	got, err := cfg.Arithm(context.Background(), arithVar("x"))
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, int64(10))
}

func TestArithmUnsetVarIsZero(t *testing.T) {
	c := qt.New(t)
	cfg := newTestConfig(nil)
	got, err := cfg.Arithm(context.Background(), arithVar("missing"))
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, int64(0))
}

func TestArithmAssign(t *testing.T) {
	c := qt.New(t)
	cfg := newTestConfig(nil)
	expr := &ast.ArithAssign{Op: ast.Assgn, LValue: arithVar("x"), RHS: arithNum("5")}
	got, err := cfg.Arithm(context.Background(), expr)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, int64(5))
	c.Assert(cfg.Env.Get("x").Str, qt.Equals, "5")
}

func TestArithmIncrement(t *testing.T) {
	c := qt.New(t)
	cfg := newTestConfig(map[string]string{"x": "1"})
	pre := &ast.ArithUnary{Op: ast.Inc, Post: false, X: arithVar("x")}
	got, err := cfg.Arithm(context.Background(), pre)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, int64(2))

	post := &ast.ArithUnary{Op: ast.Inc, Post: true, X: arithVar("x")}
	got, err = cfg.Arithm(context.Background(), post)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, int64(2))
	c.Assert(cfg.Env.Get("x").Str, qt.Equals, "3")
}

func TestArithmTernary(t *testing.T) {
	c := qt.New(t)
	cfg := newTestConfig(nil)
	expr := &ast.ArithTernary{
		Cond: &ast.ArithBinary{Op: ast.Gtr, X: arithNum("2"), Y: arithNum("1")},
		Then: arithNum("100"),
		Else: arithNum("200"),
	}
	got, err := cfg.Arithm(context.Background(), expr)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, int64(100))
}

func TestArithmHexAndOctal(t *testing.T) {
	c := qt.New(t)
	cfg := newTestConfig(nil)
	got, err := cfg.Arithm(context.Background(), arithNum("0x10"))
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, int64(16))

	got, err = cfg.Arithm(context.Background(), arithNum("010"))
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, int64(8))
}

func TestArithmBaseNotation(t *testing.T) {
	c := qt.New(t)
	cfg := newTestConfig(nil)
	got, err := cfg.Arithm(context.Background(), arithNum("2#101"))
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, int64(5))
}

func TestArithmFuncCallUnsupported(t *testing.T) {
	c := qt.New(t)
	cfg := newTestConfig(nil)
	expr := &ast.ArithFuncCall{Name: "foo"}
	_, err := cfg.Arithm(context.Background(), expr)
	c.Assert(err, qt.Not(qt.IsNil))
}
