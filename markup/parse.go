package markup

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Parser decodes inline markup text into renderable segments. It is safe for
// concurrent use over independent inputs.
type Parser struct {
	log *zap.Logger
	tr  Transpiler
	ids IDGenerator
}

// NewParser creates a markup parser. Nil arguments select a no-op logger,
// the pass-through transpiler and the UUID id generator.
func NewParser(log *zap.Logger, tr Transpiler, ids IDGenerator) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	if tr == nil {
		tr = NopTranspiler{}
	}
	if ids == nil {
		ids = UUIDGenerator{}
	}
	return &Parser{log: log.Named("markup-parser"), tr: tr, ids: ids}
}

// Parse decodes a full inline markup string into paragraph and list
// segments. It never fails: malformed markup degrades to literal text.
func (p *Parser) Parse(s string) []Segment {
	groups := groupLines(SplitLines(s))
	segments := make([]Segment, 0, len(groups))
	for _, g := range groups {
		seg := Segment{Kind: g.kind}
		switch g.kind {
		case LineOrdered:
			// The first item's numeral decides where the list starts,
			// subsequent numerals are ignored and renumbered naturally.
			seg.Start = 1
			for i, raw := range g.lines {
				stripped, num := stripListPrefix(raw, LineOrdered)
				if i == 0 && num > 0 {
					seg.Start = num
				}
				seg.Lines = append(seg.Lines, Line{Spans: p.ParseSpans(stripped)})
			}
		case LineBullet:
			for _, raw := range g.lines {
				stripped, _ := stripListPrefix(raw, LineBullet)
				seg.Lines = append(seg.Lines, Line{Spans: p.ParseSpans(stripped)})
			}
		default:
			// An empty line still renders, as an empty paragraph an editor
			// can place a cursor on.
			for _, raw := range g.lines {
				seg.Lines = append(seg.Lines, Line{Spans: p.ParseSpans(raw)})
			}
		}
		segments = append(segments, seg)
	}
	return segments
}

var fillColorRe = regexp.MustCompile(`rgb\(\s*"(#[0-9a-fA-F]{3,8})"\s*\)`)

// ParseSpans resolves one line of markup into inline spans, left to right.
// Unterminated markers degrade: the remaining text becomes a literal span.
func (p *Parser) ParseSpans(s string) []InlineSpan {
	var (
		spans []InlineSpan
		text  strings.Builder
	)
	flushText := func() {
		if text.Len() > 0 {
			spans = append(spans, InlineSpan{Kind: SpanText, Text: text.String()})
			text.Reset()
		}
	}
	literalRest := func(i int) int {
		text.WriteString(s[i:])
		return len(s)
	}

	i := 0
	for i < len(s) {
		switch {
		case s[i] == '\\' && i+1 < len(s):
			text.WriteByte(s[i+1])
			i += 2

		case strings.HasPrefix(s[i:], TokenLineBreak):
			flushText()
			spans = append(spans, InlineSpan{Kind: SpanLineBreak})
			i += len(TokenLineBreak)

		case s[i] == '\n':
			flushText()
			spans = append(spans, InlineSpan{Kind: SpanLineBreak})
			i++

		case s[i] == '#':
			span, next, ok := p.parseWrapperCall(s, i)
			if !ok {
				if isWrapperStart(s, i) {
					i = literalRest(i)
					break
				}
				text.WriteByte('#')
				i++
				break
			}
			flushText()
			spans = append(spans, span)
			i = next

		case s[i] == '*' || s[i] == '_':
			marker := s[i]
			end := findUnescaped(s, i+1, marker)
			if end < 0 {
				i = literalRest(i)
				break
			}
			flushText()
			kind := SpanBold
			if marker == '_' {
				kind = SpanItalic
			}
			spans = append(spans, InlineSpan{Kind: kind, Children: p.ParseSpans(s[i+1 : end])})
			i = end + 1

		case s[i] == '$':
			native, latex, next, ok := decodeMathAt(s, i)
			if !ok {
				i = literalRest(i)
				break
			}
			flushText()
			spans = append(spans, p.mathSpan(native, latex))
			i = next

		default:
			text.WriteByte(s[i])
			i++
		}
	}
	flushText()
	return spans
}

// parseWrapperCall handles "#strike[...]" and both color forms of
// "#text(...)". ok is false when nothing well-formed starts at s[i].
func (p *Parser) parseWrapperCall(s string, i int) (InlineSpan, int, bool) {
	if run, ok := matchStyledRun(s, i); ok {
		if strings.HasPrefix(run.head, tokenStrike) {
			return InlineSpan{Kind: SpanStrike, Children: p.ParseSpans(run.body)}, run.end, true
		}
		// Modern color form: #text(fill: rgb("#RRGGBB"))[body]
		args := run.head[len(tokenTextFunc) : len(run.head)-1] // "(...)" with the body bracket cut off
		return InlineSpan{
			Kind:     SpanColor,
			Color:    extractFillColor(args),
			Children: p.ParseSpans(run.body),
		}, run.end, true
	}

	// Legacy decode-only form: #text(fill: rgb("#RRGGBB"), [body])
	legacyEnd, ok := matchLegacyTextCall(s, i)
	if !ok {
		return InlineSpan{}, 0, false
	}
	args := s[i+len(tokenTextFunc)+1 : legacyEnd-1]
	bodyOpen := strings.IndexByte(args, '[')
	if bodyOpen < 0 {
		return InlineSpan{}, 0, false
	}
	bodyEnd := MatchBracket(args, bodyOpen, '[', ']')
	if bodyEnd < 0 {
		return InlineSpan{}, 0, false
	}
	return InlineSpan{
		Kind:     SpanColor,
		Color:    extractFillColor(args[:bodyOpen]),
		Children: p.ParseSpans(args[bodyOpen+1 : bodyEnd]),
	}, legacyEnd, true
}

func (p *Parser) mathSpan(native, latex string) InlineSpan {
	display := len(native) >= 2 && native[0] == ' ' && native[len(native)-1] == ' ' &&
		strings.TrimSpace(native) != ""
	math := &MathSpan{
		ID:          p.ids.NextID(),
		Format:      MathFormatNative,
		NativeExpr:  strings.TrimSpace(native),
		LatexExpr:   latex,
		DisplayMode: display,
	}
	if latex != "" {
		math.Format = MathFormatLatex
	} else if math.NativeExpr != "" {
		// Both representations must be populated for serialization, derive
		// the missing one through the transpiler.
		derived, err := p.tr.NativeToMath(math.NativeExpr)
		if err != nil {
			p.log.Debug("Unable to derive LaTeX from native expression", zap.String("native", math.NativeExpr), zap.Error(err))
		} else {
			math.LatexExpr = derived
		}
	}
	return InlineSpan{Kind: SpanMath, Math: math}
}

func extractFillColor(args string) string {
	if m := fillColorRe.FindStringSubmatch(args); m != nil {
		return strings.ToLower(m[1])
	}
	return ""
}
