package expand

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shfront/shfront/ast"
	"github.com/shfront/shfront/pattern"
)

// simpleVarSub expands an unbraced $name / $1 / $? / $@ / $* form. The
// positional-parameter and special specials ($@, $*, $#, $?, $$, $!,
// $-, $0 and digits) are resolved the same way a braced ${name} without
// any suffix operator would be, since they carry no operator to apply.
func (c *Config) simpleVarSub(ctx context.Context, s *ast.SimpleVarSub) (string, error) {
	vr := c.Env.Get(s.Name)
	name, vr := vr.Resolve(c.Env)
	_ = name
	switch s.Name {
	case "@":
		return strings.Join(vr.List, " "), nil
	case "*":
		return c.ifsJoin(vr.List), nil
	}
	return vr.String(), nil
}

func (c *Config) ifsJoin(list []string) string {
	sep := " "
	if c.ifs != "" {
		sep = c.ifs[:1]
	}
	return strings.Join(list, sep)
}

// bracedVarSub expands a ${...} form, applying at most one prefix op
// (length/indirection) and at most one suffix op (slice, replace, or
// the `:-`/`#`/`%`/case-conversion family), matching bash's precedence:
// the prefix op sees the raw variable; the suffix op sees the prefix
// op's result when there is one.
// bracedVarSub's second return value is non-nil only when the result
// came verbatim from an unquoted suffix-operator argument word (the
// `:-`/`-`, `:=`/`=`, `:+`/`+` family): those fields keep the argument
// word's own IFS-splitting and quote boundaries intact so the caller
// doing top-level field splitting can splice them in directly instead
// of re-splitting an already-flattened string.
func (c *Config) bracedVarSub(ctx context.Context, bv *ast.BracedVarSub) (string, [][]fieldPart, error) {
	if bv.PrefixOp == ast.IndirectOp && bv.Expand != nil && bv.Expand.Op == ast.NamesOp {
		return strings.Join(c.namesByPrefix(bv.Name), " "), nil, nil
	}

	name := bv.Name
	vr := c.Env.Get(name)
	if bv.PrefixOp == ast.IndirectOp {
		target := vr.String()
		vr = c.Env.Get(target)
		name = target
	}
	_, vr = vr.Resolve(c.Env)
	set := vr.IsSet() || vr.Declared()

	var str string
	var elems []string
	switch {
	case bv.Index != nil && isAtOrStar(bv.Index):
		elems = vr.List
		if vr.Kind == Associative {
			elems = sortedMapValues(vr.Map)
		}
		if bv.Index.Lit() == "@" {
			str = strings.Join(elems, " ")
		} else {
			str = c.ifsJoin(elems)
		}
	case bv.Index != nil:
		idx, err := c.Arithm(ctx, indexArith(bv.Index))
		if err == nil {
			str = indexInto(vr, idx, c, ctx, bv.Index)
		}
		elems = []string{str}
	default:
		str = vr.String()
		elems = []string{str}
	}

	if bv.PrefixOp == ast.LengthOp {
		n := len(elems)
		if !(bv.Index != nil && isAtOrStar(bv.Index)) {
			n = utf8.RuneCountInString(str)
		} else if len(elems) == 1 {
			n = len(elems)
		}
		return strconv.Itoa(n), nil, nil
	}

	switch {
	case bv.Slice != nil:
		if bv.Slice.Offset != nil {
			off, err := c.Arithm(ctx, arithFromWord(bv.Slice.Offset))
			if err != nil {
				return "", nil, err
			}
			str = sliceFrom(str, off)
		}
		if bv.Slice.Length != nil {
			n, err := c.Arithm(ctx, arithFromWord(bv.Slice.Length))
			if err != nil {
				return "", nil, err
			}
			str = sliceTo(str, n)
		}
		return str, nil, nil

	case bv.Replace != nil:
		orig, err := Literal(ctx, c, bv.Replace.Orig)
		if err != nil {
			return "", nil, err
		}
		with, err := Literal(ctx, c, bv.Replace.With)
		if err != nil {
			return "", nil, err
		}
		n := 1
		if bv.Replace.All {
			n = -1
		}
		return replaceAll(str, orig, with, n), nil, nil

	case bv.Expand != nil:
		return c.applyExpansion(ctx, bv.Expand, name, str, elems, set)
	}
	return str, nil, nil
}

func isAtOrStar(w *ast.Word) bool {
	lit := w.Lit()
	return lit == "@" || lit == "*"
}

// indexArith/arithFromWord adapt a *ast.Word holding an arithmetic
// expression (the parser stores ${name[expr]}'s index and the slice
// offset/length as plain Words, since they were read in Arith lexer
// mode but never built into an ArithExpr tree) into the form Config.Arithm
// expects: a one-part ArithWord wrapping the word.
func indexArith(w *ast.Word) ast.ArithExpr { return &ast.ArithWord{W: w} }
func arithFromWord(w *ast.Word) ast.ArithExpr { return &ast.ArithWord{W: w} }

func indexInto(vr Variable, idx int64, c *Config, ctx context.Context, idxWord *ast.Word) string {
	switch vr.Kind {
	case Indexed:
		if idx < 0 {
			idx += int64(len(vr.List))
		}
		if idx >= 0 && int(idx) < len(vr.List) {
			return vr.List[idx]
		}
		return ""
	case Associative:
		key, err := Literal(ctx, c, idxWord)
		if err != nil {
			return ""
		}
		return vr.Map[key]
	default:
		if idx == 0 {
			return vr.Str
		}
		return ""
	}
}

func sortedMapValues(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	vals := make([]string, len(keys))
	for i, k := range keys {
		vals[i] = m[k]
	}
	return vals
}

func sliceFrom(s string, off int64) string {
	if off < 0 {
		off += int64(len(s))
		if off < 0 {
			off = 0
		}
	}
	if off > int64(len(s)) {
		off = int64(len(s))
	}
	return s[off:]
}

func sliceTo(s string, n int64) string {
	if n < 0 {
		n += int64(len(s))
		if n < 0 {
			n = 0
		}
	}
	if n > int64(len(s)) {
		n = int64(len(s))
	}
	return s[:n]
}

// applyExpansion applies exp's suffix operator. Its second return value
// is non-nil only for the `:-`/`-`, `:=`/`=`, `:+`/`+` family when
// exp.Word's expansion is handed back verbatim and exp.InDouble is
// false: there, the argument word is split into IFS-aware, quote-aware
// fields (see Config.wordFields) instead of flattened to one string, so
// a caller doing top-level field splitting can splice those fields
// straight into its own result rather than re-splitting already-joined
// text. Quoted context (exp.InDouble) and the pattern/message-taking
// operators always get the flat, unsplit form, matching how double
// quotes and pattern arguments already suppress field splitting.
func (c *Config) applyExpansion(ctx context.Context, exp *ast.Expansion, name, str string, elems []string, set bool) (string, [][]fieldPart, error) {
	// argLiteral reads exp.Word as a single flat field, for uses (glob
	// patterns, :?'s error message) that never field-split regardless of
	// quote context.
	argLiteral := func() (string, error) {
		if exp.Word == nil {
			return "", nil
		}
		return Literal(ctx, c, exp.Word)
	}
	// wordArg reads exp.Word as the expansion's resulting value. Outside
	// double quotes it keeps the word's own field/quote structure so the
	// caller can splice it in directly; inside double quotes it collapses
	// to one field like argLiteral, since quoting already suppresses
	// splitting for the whole expansion.
	wordArg := func() (string, [][]fieldPart, error) {
		if exp.Word == nil {
			return "", nil, nil
		}
		if exp.InDouble {
			s, err := Literal(ctx, c, exp.Word)
			return s, nil, err
		}
		fields, err := c.wordFields(ctx, exp.Word.Parts)
		if err != nil {
			return "", nil, err
		}
		return joinFieldsFlat(fields), fields, nil
	}

	switch exp.Op {
	case ast.SubstColPlus:
		if str == "" {
			return str, nil, nil
		}
		fallthrough
	case ast.SubstPlus:
		if set {
			return wordArg()
		}
		return str, nil, nil
	case ast.SubstMinus:
		if set {
			return str, nil, nil
		}
		fallthrough
	case ast.SubstColMinus:
		if str == "" {
			return wordArg()
		}
		return str, nil, nil
	case ast.SubstQuest:
		if set {
			return str, nil, nil
		}
		fallthrough
	case ast.SubstColQuest:
		if str == "" {
			msg, err := argLiteral()
			if err != nil {
				return "", nil, err
			}
			return "", nil, &UnsetParameterError{Name: name, Message: msg}
		}
		return str, nil, nil
	case ast.SubstAssgn:
		if set {
			return str, nil, nil
		}
		fallthrough
	case ast.SubstColAssgn:
		if str == "" {
			s, fields, err := wordArg()
			if err != nil {
				return "", nil, err
			}
			c.Env.Set(name, Variable{Set: true, Kind: String, Str: s})
			return s, fields, nil
		}
		return str, nil, nil
	case ast.RemSmallPrefix, ast.RemLargePrefix, ast.RemSmallSuffix, ast.RemLargeSuffix:
		arg, err := argLiteral()
		if err != nil {
			return "", nil, err
		}
		suffix := exp.Op == ast.RemSmallSuffix || exp.Op == ast.RemLargeSuffix
		large := exp.Op == ast.RemLargePrefix || exp.Op == ast.RemLargeSuffix
		out := make([]string, len(elems))
		for i, e := range elems {
			out[i] = removePattern(e, arg, suffix, large)
		}
		return strings.Join(out, " "), nil, nil
	case ast.UpperFirst, ast.UpperAll, ast.LowerFirst, ast.LowerAll:
		arg, err := argLiteral()
		if err != nil {
			return "", nil, err
		}
		caseFn := unicode.ToLower
		if exp.Op == ast.UpperFirst || exp.Op == ast.UpperAll {
			caseFn = unicode.ToUpper
		}
		all := exp.Op == ast.UpperAll || exp.Op == ast.LowerAll
		out := make([]string, len(elems))
		for i, e := range elems {
			out[i] = applyCase(e, arg, caseFn, all)
		}
		return strings.Join(out, " "), nil, nil
	case ast.OtherParamOps:
		arg, err := argLiteral()
		if err != nil {
			return "", nil, err
		}
		switch arg {
		case "Q":
			return strconv.Quote(str), nil, nil
		case "E":
			var rns []rune
			tail := str
			for tail != "" {
				r, _, rest, err := strconv.UnquoteChar(tail, 0)
				if err != nil {
					break
				}
				rns = append(rns, r)
				tail = rest
			}
			return string(rns), nil, nil
		}
		return str, nil, nil
	}
	return str, nil, nil
}

func applyCase(s, argPat string, caseFn func(rune) rune, all bool) string {
	expr := ".?"
	if argPat != "" {
		var err error
		expr, err = pattern.Regexp(argPat, 0)
		if err != nil {
			return s
		}
	}
	rx, err := regexp.Compile(expr)
	if err != nil {
		return s
	}
	rs := []rune(s)
	for i, r := range rs {
		if rx.MatchString(string(r)) {
			rs[i] = caseFn(r)
			if !all {
				break
			}
		}
	}
	return string(rs)
}

func removePattern(s, pat string, fromEnd, greedy bool) string {
	mode := pattern.Mode(0)
	if !greedy {
		mode |= pattern.Shortest
	}
	expr, err := pattern.Regexp(pat, mode)
	if err != nil {
		return s
	}
	switch {
	case fromEnd && !greedy:
		expr = ".*(" + expr + ")$"
	case fromEnd:
		expr = "(" + expr + ")$"
	default:
		expr = "^(" + expr + ")"
	}
	rx, err := regexp.Compile(expr)
	if err != nil {
		return s
	}
	if loc := rx.FindStringSubmatchIndex(s); loc != nil {
		return s[:loc[2]] + s[loc[3]:]
	}
	return s
}

func replaceAll(s, orig, with string, n int) string {
	if orig == "" {
		return s
	}
	expr, err := pattern.Regexp(orig, 0)
	if err != nil {
		return s
	}
	rx, err := regexp.Compile(expr)
	if err != nil {
		return s
	}
	locs := rx.FindAllStringIndex(s, n)
	var b strings.Builder
	last := 0
	for _, loc := range locs {
		b.WriteString(s[last:loc[0]])
		b.WriteString(with)
		last = loc[1]
	}
	b.WriteString(s[last:])
	return b.String()
}

func (c *Config) namesByPrefix(prefix string) []string {
	var names []string
	c.Env.Each(func(name string, v Variable) bool {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
		return true
	})
	sort.Strings(names)
	return names
}
