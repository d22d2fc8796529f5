package detect

import (
	"cmp"
	"regexp"
	"slices"
)

// The lexical scan is used for sources otto cannot parse. It works on the
// source with comments blanked out, so commented-out define calls and
// globals are not reported.

var (
	defineCallRe  = regexp.MustCompile(`(?:^|[^\w$.])define\s*\(`)
	defineDepsRe  = regexp.MustCompile(`(?:^|[^\w$.])define\s*\(\s*(?:(?:"[^"]*"|'[^']*')\s*,\s*)?\[([^\]]*)\]`)
	stringLitRe   = regexp.MustCompile(`"([^"]*)"|'([^']*)'`)
	relRequireRe  = regexp.MustCompile(`(?:^|[^\w$.])require\s*\(\s*(?:"(\.{1,2}(?:/[^"]*)?)"|'(\.{1,2}(?:/[^']*)?)')\s*\)`)
	globalDotRe   = regexp.MustCompile(`(?:^|[^\w$.])(?:window|global|globalThis|self|root)\s*\.\s*([A-Za-z_$][\w$]*)`)
	globalIndexRe = regexp.MustCompile(`(?:^|[^\w$.])(?:window|global|globalThis|self|root)\s*\[\s*(?:"([^"]+)"|'([^']+)')\s*\]`)
	topVarRe      = regexp.MustCompile(`(?m)^(?:var|let|const)\s+([A-Za-z_$][\w$]*)`)
	topFuncRe     = regexp.MustCompile(`(?m)^function\s*\*?\s*([A-Za-z_$][\w$]*)`)
)

func lexicalModule(src []byte) Kind {
	code := stripComments(src)
	if !defineCallRe.Match(code) {
		return NotAModule
	}

	for _, m := range defineDepsRe.FindAllSubmatch(code, -1) {
		for _, s := range stringLitRe.FindAllSubmatch(m[1], -1) {
			if isRelative(string(s[1])) || isRelative(string(s[2])) {
				return ModuleWithRelativeDeps
			}
		}
	}
	if relRequireRe.Match(code) {
		return ModuleWithRelativeDeps
	}
	return ModuleSelfContained
}

// lexicalGlobals returns candidates in the order they occur in the source.
func lexicalGlobals(src []byte) []string {
	code := stripComments(src)

	type hit struct {
		pos  int
		name string
	}
	var hits []hit
	collect := func(re *regexp.Regexp) {
		for _, idx := range re.FindAllSubmatchIndex(code, -1) {
			for g := 2; g+1 < len(idx); g += 2 {
				if idx[g] >= 0 {
					hits = append(hits, hit{pos: idx[g], name: string(code[idx[g]:idx[g+1]])})
					break
				}
			}
		}
	}
	collect(topVarRe)
	collect(topFuncRe)
	collect(globalDotRe)
	collect(globalIndexRe)

	slices.SortStableFunc(hits, func(a, b hit) int { return cmp.Compare(a.pos, b.pos) })

	names := make([]string, len(hits))
	for i, h := range hits {
		names[i] = h.name
	}
	return names
}

// stripComments replaces comments with spaces, leaving string and template
// literals intact and newlines in place so line-anchored patterns still work.
func stripComments(src []byte) []byte {
	out := make([]byte, len(src))
	copy(out, src)

	const (
		code = iota
		lineComment
		blockComment
		quoted
	)
	state := code
	var quote byte

	for i := 0; i < len(out); i++ {
		c := out[i]
		switch state {
		case code:
			switch {
			case c == '/' && i+1 < len(out) && out[i+1] == '/':
				state = lineComment
				out[i] = ' '
			case c == '/' && i+1 < len(out) && out[i+1] == '*':
				state = blockComment
				out[i], out[i+1] = ' ', ' '
				i++
			case c == '"' || c == '\'' || c == '`':
				state = quoted
				quote = c
			}
		case lineComment:
			if c == '\n' {
				state = code
			} else {
				out[i] = ' '
			}
		case blockComment:
			if c == '*' && i+1 < len(out) && out[i+1] == '/' {
				out[i], out[i+1] = ' ', ' '
				i++
				state = code
			} else if c != '\n' {
				out[i] = ' '
			}
		case quoted:
			switch c {
			case '\\':
				i++
			case quote:
				state = code
			case '\n':
				if quote != '`' {
					state = code
				}
			}
		}
	}
	return out
}
