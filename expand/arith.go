package expand

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shfront/shfront/ast"
)

// Arithm evaluates an arithmetic expression tree to its int64 value,
// following name references and performing variable assignment as a
// side effect of `=`/`+=`/`++` and friends, exactly as `$(( ))`/`(( ))`/
// array subscripts do in bash.
func (c *Config) Arithm(ctx context.Context, expr ast.ArithExpr) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	switch x := expr.(type) {
	case nil:
		return 0, nil
	case *ast.ArithWord:
		str, err := Literal(ctx, c, x.W)
		if err != nil {
			return 0, err
		}
		return c.resolveArithWord(str)
	case *ast.ArithVar:
		return c.resolveArithWord(x.Name)
	case *ast.ArithParen:
		return c.Arithm(ctx, x.X)
	case *ast.ArithUnary:
		return c.arithUnary(ctx, x)
	case *ast.ArithBinary:
		return c.arithBinary(ctx, x)
	case *ast.ArithAssign:
		return c.arithAssign(ctx, x)
	case *ast.ArithTernary:
		cond, err := c.Arithm(ctx, x.Cond)
		if err != nil {
			return 0, err
		}
		if cond != 0 {
			return c.Arithm(ctx, x.Then)
		}
		return c.Arithm(ctx, x.Else)
	case *ast.ArithFuncCall:
		return 0, fmt.Errorf("expand: arithmetic function calls are not supported: %s", x.Name)
	default:
		return 0, fmt.Errorf("expand: unhandled arithmetic expression %T", x)
	}
}

// resolveArithWord follows name references (an unquoted identifier
// inside arithmetic is itself a variable reference, recursively, up to
// maxNameRefDepth) before falling back to parsing it as an integer
// literal; an unset or non-numeric name evaluates to 0, matching bash.
func (c *Config) resolveArithWord(s string) (int64, error) {
	str := s
	for i := 0; isValidArithName(str); i++ {
		if i >= maxNameRefDepth {
			break
		}
		v := c.Env.Get(str)
		if !v.IsSet() {
			return 0, nil
		}
		next := v.String()
		if next == str {
			break
		}
		str = next
	}
	return parseArithInt(str), nil
}

func isValidArithName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			continue
		}
		if i > 0 && r >= '0' && r <= '9' {
			continue
		}
		return false
	}
	return true
}

// parseArithInt accepts decimal, 0x-prefixed hex, 0-prefixed octal, and
// bash's own `base#digits` notation (e.g. `2#101`, `16#ff`); anything
// else, including an unset or empty string, evaluates to 0.
func parseArithInt(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	} else if strings.HasPrefix(s, "+") {
		s = s[1:]
	}
	var n int64
	if base, digits, ok := strings.Cut(s, "#"); ok {
		b, err := strconv.ParseInt(base, 10, 64)
		if err != nil || b < 2 || b > 64 {
			return 0
		}
		parsed, err := strconv.ParseInt(digits, int(b), 64)
		if err != nil {
			return 0
		}
		n = parsed
	} else {
		parsed, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			return 0
		}
		n = parsed
	}
	if neg {
		n = -n
	}
	return n
}

func (c *Config) arithUnary(ctx context.Context, u *ast.ArithUnary) (int64, error) {
	if u.Op == ast.Inc || u.Op == ast.Dec {
		name := arithLValueName(u.X)
		old, _ := c.resolveArithWord(name)
		val := old
		if u.Op == ast.Inc {
			val++
		} else {
			val--
		}
		if err := c.setArithVar(name, val); err != nil {
			return 0, err
		}
		if u.Post {
			return old, nil
		}
		return val, nil
	}
	val, err := c.Arithm(ctx, u.X)
	if err != nil {
		return 0, err
	}
	switch u.Op {
	case ast.Not:
		return oneIf(val == 0), nil
	case ast.BitNegation:
		return ^val, nil
	case ast.Sub:
		return -val, nil
	default: // ast.Add
		return val, nil
	}
}

func arithLValueName(x ast.ArithExpr) string {
	switch v := x.(type) {
	case *ast.ArithVar:
		return v.Name
	case *ast.ArithWord:
		return v.W.Lit()
	}
	return ""
}

func (c *Config) setArithVar(name string, val int64) error {
	if name == "" {
		return fmt.Errorf("expand: invalid arithmetic lvalue")
	}
	return c.Env.Set(name, Variable{Set: true, Kind: String, Str: strconv.FormatInt(val, 10)})
}

func (c *Config) arithAssign(ctx context.Context, a *ast.ArithAssign) (int64, error) {
	name := arithLValueName(a.LValue)
	cur, _ := c.resolveArithWord(name)
	rhs, err := c.Arithm(ctx, a.RHS)
	if err != nil {
		return 0, err
	}
	val := cur
	switch a.Op {
	case ast.Assgn:
		val = rhs
	case ast.AddAssgn:
		val += rhs
	case ast.SubAssgn:
		val -= rhs
	case ast.MulAssgn:
		val *= rhs
	case ast.QuoAssgn:
		if rhs == 0 {
			return 0, fmt.Errorf("expand: division by zero")
		}
		val /= rhs
	case ast.RemAssgn:
		if rhs == 0 {
			return 0, fmt.Errorf("expand: division by zero")
		}
		val %= rhs
	case ast.AndAssgn:
		val &= rhs
	case ast.OrAssgn:
		val |= rhs
	case ast.XorAssgn:
		val ^= rhs
	case ast.ShlAssgn:
		val <<= uint(rhs)
	case ast.ShrAssgn:
		val >>= uint(rhs)
	}
	if err := c.setArithVar(name, val); err != nil {
		return 0, err
	}
	return val, nil
}

func oneIf(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func intPow(a, b int64) int64 {
	p := int64(1)
	for b > 0 {
		if b&1 != 0 {
			p *= a
		}
		b >>= 1
		a *= a
	}
	return p
}

func (c *Config) arithBinary(ctx context.Context, b *ast.ArithBinary) (int64, error) {
	x, err := c.Arithm(ctx, b.X)
	if err != nil {
		return 0, err
	}
	y, err := c.Arithm(ctx, b.Y)
	if err != nil {
		return 0, err
	}
	switch b.Op {
	case ast.Add:
		return x + y, nil
	case ast.Sub:
		return x - y, nil
	case ast.Mul:
		return x * y, nil
	case ast.Quo:
		if y == 0 {
			return 0, fmt.Errorf("expand: division by zero")
		}
		return x / y, nil
	case ast.Rem:
		if y == 0 {
			return 0, fmt.Errorf("expand: division by zero")
		}
		return x % y, nil
	case ast.Pow:
		return intPow(x, y), nil
	case ast.Eql:
		return oneIf(x == y), nil
	case ast.Neq:
		return oneIf(x != y), nil
	case ast.Gtr:
		return oneIf(x > y), nil
	case ast.Lss:
		return oneIf(x < y), nil
	case ast.Geq:
		return oneIf(x >= y), nil
	case ast.Leq:
		return oneIf(x <= y), nil
	case ast.And:
		return x & y, nil
	case ast.Or:
		return x | y, nil
	case ast.Xor:
		return x ^ y, nil
	case ast.Shl:
		return x << uint(y), nil
	case ast.Shr:
		return x >> uint(y), nil
	case ast.AndArit:
		return oneIf(x != 0 && y != 0), nil
	case ast.OrArit:
		return oneIf(x != 0 || y != 0), nil
	default: // ast.Comma
		return y, nil
	}
}
