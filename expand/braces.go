package expand

import (
	"strconv"
	"strings"

	"github.com/shfront/shfront/ast"
)

// Braces performs bash brace expansion on a word: "foo{bar,baz}" becomes
// the two words "foobar" and "foobaz", and "file{1..3}" becomes
// "file1", "file2", "file3". It has no persistent AST representation: it
// runs as a pure, string-level pass over a word's Literal parts before
// any other expansion stage runs, matching the order bash itself applies
// brace expansion in (textually, ahead of every other substitution).
//
// Malformed brace groups are left untouched, same as bash: "a{b{c,d}"
// expands to "a{bc" and "a{bd".
func Braces(w *ast.Word) []*ast.Word {
	items := parseBraceItems(w.Parts)
	variants := expandBraceItems(items)
	words := make([]*ast.Word, len(variants))
	for i, v := range variants {
		words[i] = &ast.Word{Parts: mergeItems(v)}
	}
	return words
}

// item is either a literal run (string), an opaque already-expanded
// WordPart (ast.WordPart, shared unchanged across every variant it
// appears in), or a braceGroup awaiting expansion.
type item any

type braceGroup struct {
	sequence bool
	complete bool // true once its closing '}' was seen; see parseBraceItems
	elems    [][]item
}

func parseBraceItems(parts []ast.WordPart) []item {
	var top []item
	acc := &top
	var stack []*braceGroup
	accStack := []*[]item{&top}

	for _, wp := range parts {
		lit, ok := wp.(*ast.Literal)
		if !ok {
			*acc = append(*acc, wp)
			continue
		}
		s := lit.Value
		last := 0
		flushLit := func(end int) {
			if end > last {
				*acc = append(*acc, s[last:end])
			}
		}
		for j := 0; j < len(s); j++ {
			switch s[j] {
			case '{':
				flushLit(j)
				bg := &braceGroup{}
				var first []item
				bg.elems = append(bg.elems, first)
				*acc = append(*acc, bg)
				stack = append(stack, bg)
				accStack = append(accStack, &bg.elems[0])
				acc = accStack[len(accStack)-1]
				last = j + 1
			case ',':
				if len(stack) == 0 {
					continue
				}
				flushLit(j)
				bg := stack[len(stack)-1]
				bg.elems = append(bg.elems, nil)
				accStack[len(accStack)-1] = &bg.elems[len(bg.elems)-1]
				acc = accStack[len(accStack)-1]
				last = j + 1
			case '.':
				if len(stack) == 0 || j+1 >= len(s) || s[j+1] != '.' {
					continue
				}
				flushLit(j)
				bg := stack[len(stack)-1]
				bg.sequence = true
				bg.elems = append(bg.elems, nil)
				accStack[len(accStack)-1] = &bg.elems[len(bg.elems)-1]
				acc = accStack[len(accStack)-1]
				j++
				last = j + 1
			case '}':
				if len(stack) == 0 {
					continue
				}
				flushLit(j)
				bg := stack[len(stack)-1]
				bg.complete = true
				stack = stack[:len(stack)-1]
				accStack = accStack[:len(accStack)-1]
				acc = accStack[len(accStack)-1]
				last = j + 1
			}
		}
		flushLit(len(s))
	}
	// A braceGroup left in stack never saw its closing '}'; complete
	// stays false, and braceGroupOptions hands it to
	// incompleteBraceOptions, which keeps its '{' and separators literal
	// while complete groups nested inside it still expand.
	return top
}

func flattenLiteral(items []item) (string, bool) {
	var b strings.Builder
	for _, it := range items {
		s, ok := it.(string)
		if !ok {
			return "", false
		}
		b.WriteString(s)
	}
	return b.String(), true
}

func expandBraceItems(items []item) [][]item {
	idx := -1
	for i, it := range items {
		if _, ok := it.(*braceGroup); ok {
			idx = i
			break
		}
	}
	if idx == -1 {
		return [][]item{items}
	}
	prefix := items[:idx]
	suffix := items[idx+1:]
	bg := items[idx].(*braceGroup)

	options := braceGroupOptions(bg)
	suffixVariants := expandBraceItems(suffix)

	var out [][]item
	for _, opt := range options {
		for _, sfx := range suffixVariants {
			combined := make([]item, 0, len(prefix)+len(opt)+len(sfx))
			combined = append(combined, prefix...)
			combined = append(combined, opt...)
			combined = append(combined, sfx...)
			out = append(out, combined)
		}
	}
	return out
}

// braceGroupOptions returns the fully-expanded alternatives a brace
// group contributes, or a single literal fallback ("{...}" reconstructed
// verbatim) when a closed group doesn't parse as a valid comma list or
// range. A group with no closing '}' goes to incompleteBraceOptions.
func braceGroupOptions(bg *braceGroup) [][]item {
	if !bg.complete {
		sep := ","
		if bg.sequence {
			sep = ".."
		}
		return incompleteBraceOptions(bg, sep)
	}
	if bg.sequence && len(bg.elems) >= 2 && len(bg.elems) <= 3 {
		if opts, ok := sequenceOptions(bg); ok {
			return opts
		}
		return [][]item{{rebuildBraceText(bg, "..")}}
	}
	if len(bg.elems) < 2 {
		if len(bg.elems) == 1 {
			return [][]item{append([]item{"{"}, append(append([]item{}, bg.elems[0]...), "}")...)}
		}
		return [][]item{{"{}"}}
	}
	var out [][]item
	for _, elem := range bg.elems {
		out = append(out, expandBraceItems(elem)...)
	}
	return out
}

func sequenceOptions(bg *braceGroup) ([][]item, bool) {
	startS, ok := flattenLiteral(bg.elems[0])
	if !ok {
		return nil, false
	}
	endS, ok := flattenLiteral(bg.elems[1])
	if !ok {
		return nil, false
	}
	step := 1
	if len(bg.elems) == 3 {
		incS, ok := flattenLiteral(bg.elems[2])
		if !ok {
			return nil, false
		}
		n, err := strconv.Atoi(incS)
		if err != nil || n == 0 {
			return nil, false
		}
		step = n
	}
	if n1, err1 := strconv.Atoi(startS); err1 == nil {
		n2, err2 := strconv.Atoi(endS)
		if err2 != nil {
			return nil, false
		}
		width := 0
		if len(startS) > 1 && (startS[0] == '0' || (startS[0] == '-' && startS[1] == '0')) {
			width = len(strings.TrimPrefix(startS, "-"))
		}
		if step < 0 {
			step = -step
		}
		if step == 0 {
			step = 1
		}
		var out [][]item
		if n1 <= n2 {
			for v := n1; v <= n2; v += step {
				out = append(out, []item{formatSeqInt(v, width)})
			}
		} else {
			for v := n1; v >= n2; v -= step {
				out = append(out, []item{formatSeqInt(v, width)})
			}
		}
		return out, true
	}
	if len(startS) == 1 && len(endS) == 1 && isAsciiLetter(startS[0]) && isAsciiLetter(endS[0]) {
		a, b := startS[0], endS[0]
		var out [][]item
		if a <= b {
			for c := a; c <= b; c += byte(step) {
				out = append(out, []item{string(c)})
			}
		} else {
			for c := a; c >= b; c -= byte(step) {
				out = append(out, []item{string(c)})
			}
		}
		return out, true
	}
	return nil, false
}

func isAsciiLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func formatSeqInt(v, width int) string {
	s := strconv.Itoa(v)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	for len(s) < width {
		s = "0" + s
	}
	if neg {
		s = "-" + s
	}
	return s
}

// incompleteBraceOptions reconstructs the options for a brace group whose
// closing '}' was never seen: the leading '{' and the separators between
// elements are literal text (no closing brace is synthesized, since none
// was in the source), but any complete group nested inside an element
// still expands normally, matching bash: "a{b{c,d}" yields "a{bc" and
// "a{bd", not the fully-literal "a{b{c,d}".
func incompleteBraceOptions(bg *braceGroup, sep string) [][]item {
	combos := [][]item{{"{"}}
	for i, elem := range bg.elems {
		variants := expandBraceItems(elem)
		var next [][]item
		for _, prefix := range combos {
			for _, v := range variants {
				combo := append([]item{}, prefix...)
				if i > 0 {
					combo = append(combo, sep)
				}
				combo = append(combo, v...)
				next = append(next, combo)
			}
		}
		combos = next
	}
	return combos
}

func rebuildBraceText(bg *braceGroup, sep string) string {
	var parts []string
	for _, elem := range bg.elems {
		s, _ := flattenLiteral(elem)
		parts = append(parts, s)
	}
	return "{" + strings.Join(parts, sep) + "}"
}

func mergeItems(items []item) []ast.WordPart {
	var out []ast.WordPart
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			out = append(out, &ast.Literal{Value: lit.String()})
			lit.Reset()
		}
	}
	for _, it := range items {
		switch v := it.(type) {
		case string:
			lit.WriteString(v)
		case ast.WordPart:
			flush()
			out = append(out, v)
		case *braceGroup:
			// Unreachable: expandBraceItems eliminates every braceGroup.
			flush()
		}
	}
	flush()
	return out
}
