package expand

import (
	"context"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/shfront/shfront/ast"
	"github.com/shfront/shfront/pattern"
)

// Runner executes the statement list inside a command substitution or
// process substitution and returns what it wrote to its standard
// output. Process execution itself is out of scope for this module;
// Runner is the seam a host program plugs an interpreter into.
type Runner interface {
	Run(ctx context.Context, stmts []ast.Command) (stdout string, err error)
}

// Config bundles everything the expansion pipeline needs beyond the
// word itself: the variable environment, the command-substitution
// runner, and the glob behavior flags bash exposes via `shopt`.
type Config struct {
	Env      WriteEnviron
	Runner   Runner
	NoGlob   bool
	GlobStar bool

	ifs string
}

func (c *Config) prepareIFS() {
	vr := c.Env.Get("IFS")
	if !vr.IsSet() {
		c.ifs = " \t\n"
	} else {
		c.ifs = vr.String()
	}
}

func (c *Config) ifsRune(r rune) bool {
	for _, r2 := range c.ifs {
		if r == r2 {
			return true
		}
	}
	return false
}

// UnsetParameterError is returned when `set -u`-style strictness (or an
// explicit `${var:?msg}`) rejects an unset/null parameter.
type UnsetParameterError struct {
	Name    string
	Message string
}

func (e *UnsetParameterError) Error() string {
	if e.Message != "" {
		return e.Name + ": " + e.Message
	}
	return e.Name + ": parameter not set"
}

// Fields expands and field-splits a sequence of words the way a command
// name and its arguments are expanded: tilde, then parameter/command/
// arithmetic substitution, then IFS splitting (skipped inside quotes),
// then pathname expansion. ctx is polled between stages so a long
// command substitution can be cancelled.
func Fields(ctx context.Context, cfg *Config, words []*ast.Word) ([]string, error) {
	cfg.prepareIFS()
	var out []string
	for _, w := range words {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, bw := range Braces(w) {
			fields, err := cfg.wordFields(ctx, bw.Parts)
			if err != nil {
				return nil, err
			}
			for _, f := range fields {
				literal := joinFieldParts(f)
				expanded, err := cfg.globField(f, literal)
				if err != nil {
					return nil, err
				}
				out = append(out, expanded...)
			}
		}
	}
	return out, nil
}

// Literal expands a word without any field splitting or pathname
// expansion, for contexts that want exactly one resulting string (case
// patterns, here-doc delimiters, the RHS of an assignment).
func Literal(ctx context.Context, cfg *Config, w *ast.Word) (string, error) {
	cfg.prepareIFS()
	parts, err := cfg.wordField(ctx, w.Parts, quoteNone)
	if err != nil {
		return "", err
	}
	return joinFieldParts(parts), nil
}

func (c *Config) globField(parts []fieldPart, literal string) ([]string, error) {
	if c.NoGlob {
		return []string{literal}, nil
	}
	escaped, doGlob := escapedGlobField(parts)
	if !doGlob {
		return []string{literal}, nil
	}
	abs := filepath.IsAbs(escaped)
	path := escaped
	if !abs {
		dir := c.Env.Get("PWD").String()
		path = filepath.Join(pattern.QuoteMeta(dir), escaped)
	}
	matches := globPath(path, c.GlobStar)
	if len(matches) == 0 {
		return []string{literal}, nil
	}
	if !abs {
		dir := c.Env.Get("PWD").String()
		for i, m := range matches {
			endSep := strings.HasSuffix(m, string(filepath.Separator))
			rel, err := filepath.Rel(dir, m)
			if err == nil {
				m = rel
				if endSep {
					m += string(filepath.Separator)
				}
			}
			matches[i] = m
		}
	}
	return matches, nil
}

// escapedGlobField re-joins parts into a single pattern string, escaping
// any part that came from a quoted context so it matches literally, and
// reports whether any unquoted part still carries glob metacharacters.
func escapedGlobField(parts []fieldPart) (string, bool) {
	var b strings.Builder
	doGlob := false
	for _, p := range parts {
		if p.quote != quoteNone {
			b.WriteString(pattern.QuoteMeta(p.val))
			continue
		}
		b.WriteString(p.val)
		if pattern.HasMeta(p.val) {
			doGlob = true
		}
	}
	return b.String(), doGlob
}

type fieldPart struct {
	val   string
	quote quoteLevel
}

type quoteLevel uint

const (
	quoteNone quoteLevel = iota
	quoteDouble
	quoteSingle
)

func joinFieldParts(parts []fieldPart) string {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(p.val)
	}
	return b.String()
}

// joinFieldsFlat collapses an already IFS-split field list back into one
// string, for callers (pattern assignment, error messages) that want a
// plain scalar rather than field-aware data.
func joinFieldsFlat(fields [][]fieldPart) string {
	strs := make([]string, len(fields))
	for i, f := range fields {
		strs[i] = joinFieldParts(f)
	}
	return strings.Join(strs, " ")
}

// wordField expands wps into a single field's parts, honoring the
// enclosing quote level ql (quoteDouble disables IFS splitting and
// pathname expansion for this word entirely, at the caller's level).
func (c *Config) wordField(ctx context.Context, wps []ast.WordPart, ql quoteLevel) ([]fieldPart, error) {
	var field []fieldPart
	for i, wp := range wps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		switch x := wp.(type) {
		case *ast.Literal:
			s := x.Value
			field = append(field, fieldPart{val: s, quote: ql})
		case *ast.EscapedLiteral:
			if ql == quoteDouble {
				switch x.Char {
				case '"', '\\', '$', '`':
					field = append(field, fieldPart{val: string(x.Char), quote: ql})
				default:
					field = append(field, fieldPart{val: "\\" + string(x.Char), quote: ql})
				}
			} else {
				field = append(field, fieldPart{val: string(x.Char), quote: quoteSingle})
			}
		case *ast.TildeSub:
			if i == 0 {
				field = append(field, fieldPart{val: expandTilde(x.Prefix), quote: ql})
			} else {
				field = append(field, fieldPart{val: "~" + x.Prefix, quote: ql})
			}
		case *ast.SingleQuoted:
			val := x.Value
			if x.Dollar {
				val = ansiCExpand(val)
			}
			field = append(field, fieldPart{val: val, quote: quoteSingle})
		case *ast.DoubleQuoted:
			inner, err := c.wordField(ctx, x.Parts, quoteDouble)
			if err != nil {
				return nil, err
			}
			field = append(field, inner...)
		case *ast.SimpleVarSub:
			val, err := c.simpleVarSub(ctx, x)
			if err != nil {
				return nil, err
			}
			field = append(field, fieldPart{val: val, quote: ql})
		case *ast.BracedVarSub:
			val, _, err := c.bracedVarSub(ctx, x)
			if err != nil {
				return nil, err
			}
			field = append(field, fieldPart{val: val, quote: ql})
		case *ast.CommandSub:
			val, err := c.commandSub(ctx, x)
			if err != nil {
				return nil, err
			}
			field = append(field, fieldPart{val: val, quote: ql})
		case *ast.ArithSub:
			n, err := c.Arithm(ctx, x.X)
			if err != nil {
				return nil, err
			}
			field = append(field, fieldPart{val: strconv.FormatInt(n, 10), quote: ql})
		case *ast.ArrayLiteral:
			// Only meaningful on the RHS of an assignment, handled by
			// the caller before reaching here; expand each element's
			// literal value space-joined as a fallback.
			var vals []string
			for _, e := range x.Elems {
				v, err := Literal(ctx, c, e)
				if err != nil {
					return nil, err
				}
				vals = append(vals, v)
			}
			field = append(field, fieldPart{val: strings.Join(vals, " "), quote: ql})
		default:
			return nil, fmt.Errorf("expand: unhandled word part %T", x)
		}
	}
	return field, nil
}

// wordFields expands wps into multiple IFS-split fields, the behavior
// used for command arguments (as opposed to wordField's single-field
// behavior used inside double quotes and for Literal).
func (c *Config) wordFields(ctx context.Context, wps []ast.WordPart) ([][]fieldPart, error) {
	var fields [][]fieldPart
	var cur []fieldPart
	allowEmpty := false
	flush := func() {
		if len(cur) == 0 {
			return
		}
		fields = append(fields, cur)
		cur = nil
	}
	splitAdd := func(val string) {
		if val == "" {
			return
		}
		leadingSep := c.ifsRune(rune(val[0]))
		parts := strings.FieldsFunc(val, c.ifsRune)
		if len(parts) == 0 {
			// val is entirely IFS whitespace: it contributes no text of
			// its own, but it still ends whatever field is open so far
			// (e.g. the literal space between `$var` and a following
			// quoted segment in an unquoted ${...} default value).
			flush()
			return
		}
		for i, f := range parts {
			if i > 0 || leadingSep {
				flush()
			}
			cur = append(cur, fieldPart{val: f})
		}
		if c.ifsRune(rune(val[len(val)-1])) {
			flush()
		}
	}
	for i, wp := range wps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		switch x := wp.(type) {
		case *ast.Literal:
			s := x.Value
			splitAdd(s)
			if s == "" && i == 0 {
				allowEmpty = true
			}
		case *ast.EscapedLiteral:
			cur = append(cur, fieldPart{val: string(x.Char)})
		case *ast.TildeSub:
			allowEmpty = true
			if i == 0 {
				cur = append(cur, fieldPart{val: expandTilde(x.Prefix)})
			} else {
				cur = append(cur, fieldPart{val: "~" + x.Prefix})
			}
		case *ast.SingleQuoted:
			allowEmpty = true
			val := x.Value
			if x.Dollar {
				val = ansiCExpand(val)
			}
			cur = append(cur, fieldPart{val: val, quote: quoteSingle})
		case *ast.DoubleQuoted:
			allowEmpty = true
			if elems, ok := c.quotedArrayElems(x); ok {
				for i, e := range elems {
					if i > 0 {
						flush()
					}
					cur = append(cur, fieldPart{val: e, quote: quoteDouble})
				}
				continue
			}
			inner, err := c.wordField(ctx, x.Parts, quoteDouble)
			if err != nil {
				return nil, err
			}
			cur = append(cur, inner...)
		case *ast.SimpleVarSub:
			val, err := c.simpleVarSub(ctx, x)
			if err != nil {
				return nil, err
			}
			splitAdd(val)
		case *ast.BracedVarSub:
			val, defFields, err := c.bracedVarSub(ctx, x)
			if err != nil {
				return nil, err
			}
			if defFields != nil {
				// A default/alternate value substituted verbatim from an
				// unquoted ${...:-...}-style word: splice its own
				// already-split, quote-aware fields in, gluing the first
				// and last onto the surrounding word the same way
				// quotedArrayElems does above.
				for i, f := range defFields {
					if i > 0 {
						flush()
					}
					cur = append(cur, f...)
				}
				continue
			}
			splitAdd(val)
		case *ast.CommandSub:
			val, err := c.commandSub(ctx, x)
			if err != nil {
				return nil, err
			}
			splitAdd(val)
		case *ast.ArithSub:
			n, err := c.Arithm(ctx, x.X)
			if err != nil {
				return nil, err
			}
			cur = append(cur, fieldPart{val: strconv.FormatInt(n, 10)})
		case *ast.ArrayLiteral:
			for _, e := range x.Elems {
				v, err := Literal(ctx, c, e)
				if err != nil {
					return nil, err
				}
				splitAdd(v)
			}
		default:
			return nil, fmt.Errorf("expand: unhandled word part %T", x)
		}
	}
	flush()
	if allowEmpty && len(fields) == 0 {
		fields = append(fields, cur)
	}
	return fields, nil
}

// quotedArrayElems special-cases a double-quoted word consisting of
// exactly "${arr[@]}" or "$@", which expand to one field per element
// instead of joining on IFS[0].
func (c *Config) quotedArrayElems(dq *ast.DoubleQuoted) ([]string, bool) {
	if len(dq.Parts) != 1 {
		return nil, false
	}
	if sv, ok := dq.Parts[0].(*ast.SimpleVarSub); ok && sv.Name == "@" {
		return c.Env.Get("@").List, true
	}
	bv, ok := dq.Parts[0].(*ast.BracedVarSub)
	if !ok || bv.Index == nil {
		return nil, false
	}
	if bv.Index.Lit() != "@" {
		return nil, false
	}
	v := c.Env.Get(bv.Name)
	if v.Kind != Indexed {
		return nil, false
	}
	return v.List, true
}

func (c *Config) commandSub(ctx context.Context, cs *ast.CommandSub) (string, error) {
	if c.Runner == nil {
		return "", fmt.Errorf("expand: command substitution requires a Runner")
	}
	out, err := c.Runner.Run(ctx, cs.Stmts)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n"), nil
}

func expandTilde(prefix string) string {
	if prefix == "" {
		if u, err := user.Current(); err == nil {
			return u.HomeDir
		}
		return "~"
	}
	if u, err := user.Lookup(prefix); err == nil {
		return u.HomeDir
	}
	return "~" + prefix
}

func ansiCExpand(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			switch s[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '\\':
				b.WriteByte('\\')
			default:
				b.WriteByte('\\')
				b.WriteByte(s[i])
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

var globStarRx = regexp.MustCompile(".*")

// globPath walks the real filesystem matching each `/`-separated
// component of pat against its pattern-translated regexp, expanding a
// `**` component into every depth of subdirectory when globStar is set.
func globPath(pat string, globStar bool) []string {
	parts := strings.Split(pat, string(filepath.Separator))
	matches := []string{"."}
	if filepath.IsAbs(pat) {
		if parts[0] == "" {
			matches[0] = string(filepath.Separator)
		} else {
			matches[0] = parts[0] + string(filepath.Separator)
		}
		parts = parts[1:]
	}
	for _, part := range parts {
		if part == "**" && globStar {
			for i := range matches {
				matches[i] += string(filepath.Separator)
			}
			latest := matches
			for {
				var next []string
				for _, dir := range latest {
					next = globDir(dir, globStarRx, next)
				}
				if len(next) == 0 {
					break
				}
				matches = append(matches, next...)
				latest = next
			}
			continue
		}
		expr, err := pattern.Regexp(part, pattern.EntireString)
		if err != nil {
			return nil
		}
		rx, err := regexp.Compile(expr)
		if err != nil {
			return nil
		}
		var next []string
		for _, dir := range matches {
			next = globDir(dir, rx, next)
		}
		matches = next
	}
	sort.Strings(matches)
	return matches
}

func globDir(dir string, rx *regexp.Regexp, matches []string) []string {
	f, err := os.Open(dir)
	if err != nil {
		return matches
	}
	defer f.Close()
	names, _ := f.Readdirnames(-1)
	sort.Strings(names)
	for _, name := range names {
		if !strings.HasPrefix(rx.String(), `^\.`) && len(name) > 0 && name[0] == '.' {
			continue
		}
		if rx.MatchString(name) {
			matches = append(matches, filepath.Join(dir, name))
		}
	}
	return matches
}
