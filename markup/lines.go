package markup

import "strings"

// SplitLines splits raw inline markup into logical lines. Explicit
// "#linebreak()" tokens and literal newlines end a line. A styled run stays
// on one line even when its body spans raw newlines, but an explicit break
// token inside the body splits the run into re-wrapped sub-runs, one per
// produced line. Flushed chunks are trimmed of surrounding whitespace.
//
// Empty input yields exactly one empty line so that downstream consumers can
// always render an empty paragraph.
func SplitLines(s string) []string {
	var (
		lines []string
		cur   strings.Builder
	)
	flush := func() {
		lines = append(lines, strings.TrimSpace(cur.String()))
		cur.Reset()
	}

	i := 0
	for i < len(s) {
		switch {
		case s[i] == '\\' && i+1 < len(s):
			cur.WriteString(s[i : i+2])
			i += 2

		case strings.HasPrefix(s[i:], TokenLineBreak):
			flush()
			i += len(TokenLineBreak)

		case s[i] == '\n':
			flush()
			i++

		case s[i] == '$':
			// Math spans are atomic, raw newlines inside do not split.
			end := findUnescaped(s, i+1, '$')
			if end < 0 {
				cur.WriteByte('$')
				i++
				break
			}
			next := end + 1
			if strings.HasPrefix(s[next:], mathLatexOpen) {
				if close := strings.Index(s[next:], mathLatexClose); close >= 0 {
					next += close + len(mathLatexClose)
				}
			}
			cur.WriteString(s[i:next])
			i = next

		case s[i] == '#':
			if run, ok := matchStyledRun(s, i); ok {
				writeSplitRun(run, &cur, flush)
				i = run.end
				break
			}
			if legacyEnd, ok := matchLegacyTextCall(s, i); ok {
				cur.WriteString(s[i:legacyEnd])
				i = legacyEnd
				break
			}
			if isWrapperStart(s, i) {
				// Unterminated run, consume the rest of the string as is.
				cur.WriteString(s[i:])
				i = len(s)
				break
			}
			cur.WriteByte('#')
			i++

		default:
			cur.WriteByte(s[i])
			i++
		}
	}
	flush()
	return lines
}

// writeSplitRun emits a styled run, splitting it into re-wrapped sub-runs on
// every explicit break token embedded in the body.
func writeSplitRun(run styledRun, cur *strings.Builder, flush func()) {
	parts := strings.Split(run.body, TokenLineBreak)
	for idx, part := range parts {
		if idx > 0 {
			flush()
		}
		if strings.TrimSpace(part) != "" {
			cur.WriteString(run.head)
			cur.WriteString(part)
			cur.WriteByte(']')
		}
	}
}

// matchLegacyTextCall recognizes the legacy two-argument color form
// "#text(fill: ..., [body])" which carries its body inside the argument
// list. Returns the offset just past the closing parenthesis.
func matchLegacyTextCall(s string, start int) (int, bool) {
	if !strings.HasPrefix(s[start:], tokenTextFunc) {
		return 0, false
	}
	argOpen := start + len(tokenTextFunc)
	if argOpen >= len(s) || s[argOpen] != '(' {
		return 0, false
	}
	argEnd := MatchBracket(s, argOpen, '(', ')')
	if argEnd < 0 {
		return 0, false
	}
	return argEnd + 1, true
}

func isWrapperStart(s string, i int) bool {
	return strings.HasPrefix(s[i:], tokenStrike+"[") || strings.HasPrefix(s[i:], tokenTextFunc+"(")
}
