// Package markup implements the bidirectional codec between the editor's
// rich-text structure and the compact inline markup dialect persisted by the
// documents backend. Decoding never fails: malformed markup degrades to
// literal text so that any stored document renders something sensible.
package markup

import "strings"

// SpanKind distinguishes different inline content types.
type SpanKind string

const (
	SpanText      SpanKind = "text"
	SpanBold      SpanKind = "bold"
	SpanItalic    SpanKind = "italic"
	SpanStrike    SpanKind = "strike"
	SpanColor     SpanKind = "color"
	SpanLineBreak SpanKind = "linebreak"
	SpanMath      SpanKind = "math"
)

// MathFormat says which representation of a formula is authoritative.
type MathFormat string

const (
	MathFormatLatex  MathFormat = "latex"
	MathFormatNative MathFormat = "native"
)

// MathSpan keeps both representations of a formula. NativeExpr is always
// round-trip safe (it is literally the markup content between the dollar
// signs), LatexExpr survives only when the encoded span carried the
// LF_LATEX payload.
type MathSpan struct {
	ID          string     `json:"id"`
	Format      MathFormat `json:"format"`
	NativeExpr  string     `json:"native_expr"`
	LatexExpr   string     `json:"latex_expr,omitempty"`
	DisplayMode bool       `json:"display_mode,omitempty"`
}

// InlineSpan stores text or styled inline content, keeping the original
// ordering. Only the fields relevant to Kind are populated.
type InlineSpan struct {
	Kind     SpanKind     `json:"kind"`
	Text     string       `json:"text,omitempty"`  // SpanText
	Color    string       `json:"color,omitempty"` // SpanColor, "#RRGGBB"
	Math     *MathSpan    `json:"math,omitempty"`  // SpanMath
	Children []InlineSpan `json:"children,omitempty"`
}

// AsText flattens the span to its visible text. Math spans contribute their
// native expression, hard breaks become newlines.
func (s *InlineSpan) AsText() string {
	switch s.Kind {
	case SpanText:
		return s.Text
	case SpanLineBreak:
		return "\n"
	case SpanMath:
		if s.Math != nil {
			return s.Math.NativeExpr
		}
		return ""
	default:
		var sb strings.Builder
		for i := range s.Children {
			sb.WriteString(s.Children[i].AsText())
		}
		return sb.String()
	}
}

// LineKind classifies a logical line by its visible leading text.
type LineKind string

const (
	LineText    LineKind = "text"
	LineBullet  LineKind = "bullet"
	LineOrdered LineKind = "ordered"
)

// Line is one logical line of fully resolved inline spans. An empty line has
// no spans and still renders as an empty paragraph.
type Line struct {
	Spans []InlineSpan `json:"spans"`
}

// AsText flattens the line to its visible text.
func (l *Line) AsText() string {
	var sb strings.Builder
	for i := range l.Spans {
		sb.WriteString(l.Spans[i].AsText())
	}
	return sb.String()
}

// Segment groups consecutive lines of the same kind. Start is meaningful for
// ordered segments only and carries the first item's original numeral.
type Segment struct {
	Kind  LineKind `json:"kind"`
	Start int      `json:"start,omitempty"`
	Lines []Line   `json:"lines"`
}
