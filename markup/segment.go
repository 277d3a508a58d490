package markup

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	orderedPrefixRe = regexp.MustCompile(`^\s*(\d+)[.)]\s+`)
	bulletPrefixRe  = regexp.MustCompile(`^\s*[-*]\s+`)
)

// ClassifyLine derives the kind of a raw line from its visible leading text.
// A line wrapped entirely in style markup is unwrapped first so that e.g.
// "#strike[1. done]" still counts as an ordered item.
func ClassifyLine(line string) LineKind {
	visible := line
	for {
		inner, _, ok := unwrapWholeRun(visible)
		if !ok {
			break
		}
		visible = inner
	}
	switch {
	case orderedPrefixRe.MatchString(visible):
		return LineOrdered
	case bulletPrefixRe.MatchString(visible):
		return LineBullet
	default:
		return LineText
	}
}

// unwrapWholeRun unwraps a line that consists of exactly one styled run and
// returns its body together with a function re-applying the same wrapper.
// Bold and italic wrappers are only unwrapped when the body binds tightly
// (no leading space), otherwise "* item *" would stop being a bullet line.
func unwrapWholeRun(line string) (string, func(string) string, bool) {
	if run, ok := matchStyledRun(line, 0); ok && run.end == len(line) {
		head := run.head
		return run.body, func(body string) string { return head + body + "]" }, true
	}
	if len(line) > 2 && (line[0] == '*' || line[0] == '_') && line[len(line)-1] == line[0] {
		marker := line[0]
		inner := line[1 : len(line)-1]
		if inner != "" && inner[0] != ' ' && findUnescaped(inner, 0, marker) < 0 {
			return inner, func(body string) string {
				return string(marker) + body + string(marker)
			}, true
		}
	}
	return "", nil, false
}

// lineGroup is a run of consecutive raw lines sharing one kind.
type lineGroup struct {
	kind  LineKind
	lines []string
}

// groupLines folds classified lines into maximal same-kind groups. By
// construction no two adjacent groups share a kind.
func groupLines(lines []string) []lineGroup {
	var groups []lineGroup
	for _, line := range lines {
		kind := ClassifyLine(line)
		if n := len(groups); n > 0 && groups[n-1].kind == kind {
			groups[n-1].lines = append(groups[n-1].lines, line)
			continue
		}
		groups = append(groups, lineGroup{kind: kind, lines: []string{line}})
	}
	return groups
}

// stripListPrefix removes the list prefix from a line's visible leading
// text, preserving any whole-line style wrappers around the remainder. For
// ordered lines the original numeral is returned as well.
func stripListPrefix(line string, kind LineKind) (string, int) {
	var re *regexp.Regexp
	switch kind {
	case LineOrdered:
		re = orderedPrefixRe
	case LineBullet:
		re = bulletPrefixRe
	default:
		return line, 0
	}

	if m := re.FindStringSubmatch(line); m != nil {
		num := 0
		if kind == LineOrdered {
			num, _ = strconv.Atoi(m[1])
		}
		return strings.TrimPrefix(line, m[0]), num
	}
	if inner, rewrap, ok := unwrapWholeRun(line); ok {
		stripped, num := stripListPrefix(inner, kind)
		return rewrap(stripped), num
	}
	return line, 0
}
