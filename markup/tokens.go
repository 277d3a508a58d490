package markup

import "strings"

// Wire tokens of the persisted markup dialect. These are bit-exact and must
// never change, existing documents depend on them.
const (
	// TokenLineBreak is the explicit hard line break call.
	TokenLineBreak = "#linebreak()"

	tokenStrike   = "#strike"
	tokenTextFunc = "#text"

	mathLatexOpen  = "/*LF_LATEX:"
	mathLatexClose = "*/"
)

// MatchBracket returns the index of the closing delimiter balancing
// text[start], or -1 when the string ends first (unterminated input, the
// caller is expected to consume the rest of the string as literal text).
// text[start] == open is the caller's responsibility.
func MatchBracket(text string, start int, open, close byte) int {
	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// findUnescaped returns the index of the first occurrence of ch at or after
// start that is not preceded by a backslash escape, or -1.
func findUnescaped(s string, start int, ch byte) int {
	for i := start; i < len(s); i++ {
		if s[i] == '\\' {
			i++
			continue
		}
		if s[i] == ch {
			return i
		}
	}
	return -1
}

// styledRun describes a recognized wrapper-call run starting at some offset:
// the full head (wrapper name plus arguments up to and including the opening
// body bracket), the body and the offset just past the closing bracket.
type styledRun struct {
	head string
	body string
	end  int
}

// matchStyledRun recognizes "#strike[...]" and "#text(...)[...]" starting at
// s[start]. The legacy two-argument color form is not a bracketed-body run
// and is handled by the span parser directly.
func matchStyledRun(s string, start int) (styledRun, bool) {
	if strings.HasPrefix(s[start:], tokenStrike) {
		open := start + len(tokenStrike)
		if open < len(s) && s[open] == '[' {
			end := MatchBracket(s, open, '[', ']')
			if end < 0 {
				return styledRun{}, false
			}
			return styledRun{
				head: s[start : open+1],
				body: s[open+1 : end],
				end:  end + 1,
			}, true
		}
	}
	if strings.HasPrefix(s[start:], tokenTextFunc) {
		argOpen := start + len(tokenTextFunc)
		if argOpen < len(s) && s[argOpen] == '(' {
			argEnd := MatchBracket(s, argOpen, '(', ')')
			if argEnd < 0 {
				return styledRun{}, false
			}
			bodyOpen := argEnd + 1
			if bodyOpen < len(s) && s[bodyOpen] == '[' {
				end := MatchBracket(s, bodyOpen, '[', ']')
				if end < 0 {
					return styledRun{}, false
				}
				return styledRun{
					head: s[start : bodyOpen+1],
					body: s[bodyOpen+1 : end],
					end:  end + 1,
				}, true
			}
		}
	}
	return styledRun{}, false
}
