package markup

import (
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"
)

func testParser(t *testing.T) *Parser {
	t.Helper()
	return NewParser(zaptest.NewLogger(t), NopTranspiler{}, &counterIDs{})
}

func TestParseSpans(t *testing.T) {
	p := testParser(t)

	t.Run("plain_text", func(t *testing.T) {
		spans := p.ParseSpans("hello")
		if len(spans) != 1 || spans[0].Kind != SpanText || spans[0].Text != "hello" {
			t.Fatalf("spans = %+v", spans)
		}
	})

	t.Run("bold_italic", func(t *testing.T) {
		spans := p.ParseSpans("a *b* _c_")
		if len(spans) != 4 {
			t.Fatalf("expected 4 spans, got %+v", spans)
		}
		if spans[1].Kind != SpanBold || spans[1].Children[0].Text != "b" {
			t.Fatalf("bold span = %+v", spans[1])
		}
		if spans[3].Kind != SpanItalic || spans[3].Children[0].Text != "c" {
			t.Fatalf("italic span = %+v", spans[3])
		}
	})

	t.Run("strike_recurses", func(t *testing.T) {
		spans := p.ParseSpans("#strike[a *b*]")
		if len(spans) != 1 || spans[0].Kind != SpanStrike {
			t.Fatalf("spans = %+v", spans)
		}
		children := spans[0].Children
		if len(children) != 2 || children[1].Kind != SpanBold {
			t.Fatalf("children = %+v", children)
		}
	})

	t.Run("modern_color_form", func(t *testing.T) {
		spans := p.ParseSpans(`#text(fill: rgb("#FF0000"))[red]`)
		if len(spans) != 1 || spans[0].Kind != SpanColor {
			t.Fatalf("spans = %+v", spans)
		}
		if spans[0].Color != "#ff0000" {
			t.Fatalf("color = %q", spans[0].Color)
		}
		if spans[0].Children[0].Text != "red" {
			t.Fatalf("children = %+v", spans[0].Children)
		}
	})

	t.Run("legacy_color_form", func(t *testing.T) {
		spans := p.ParseSpans(`x#text(fill: rgb("#00ff00"), [green])y`)
		if len(spans) != 3 || spans[1].Kind != SpanColor {
			t.Fatalf("spans = %+v", spans)
		}
		if spans[1].Color != "#00ff00" || spans[1].Children[0].Text != "green" {
			t.Fatalf("color span = %+v", spans[1])
		}
	})

	t.Run("line_break_token", func(t *testing.T) {
		spans := p.ParseSpans("a#linebreak()b")
		if len(spans) != 3 || spans[1].Kind != SpanLineBreak {
			t.Fatalf("spans = %+v", spans)
		}
	})

	t.Run("escapes", func(t *testing.T) {
		spans := p.ParseSpans(`\*not bold\* and \$no math\$`)
		if len(spans) != 1 || spans[0].Text != "*not bold* and $no math$" {
			t.Fatalf("spans = %+v", spans)
		}
	})

	t.Run("unterminated_bold_stays_literal", func(t *testing.T) {
		spans := p.ParseSpans("a*b")
		if len(spans) != 1 || spans[0].Kind != SpanText || spans[0].Text != "a*b" {
			t.Fatalf("spans = %+v", spans)
		}
	})

	t.Run("unterminated_strike_stays_literal", func(t *testing.T) {
		spans := p.ParseSpans("#strike[oops")
		if len(spans) != 1 || spans[0].Kind != SpanText || spans[0].Text != "#strike[oops" {
			t.Fatalf("spans = %+v", spans)
		}
	})

	t.Run("math_without_payload_derives_latex", func(t *testing.T) {
		spans := p.ParseSpans("$x + 1$")
		if len(spans) != 1 || spans[0].Kind != SpanMath {
			t.Fatalf("spans = %+v", spans)
		}
		m := spans[0].Math
		if m.Format != MathFormatNative || m.NativeExpr != "x + 1" {
			t.Fatalf("math = %+v", m)
		}
		// NopTranspiler passes the native expression through
		if m.LatexExpr != "x + 1" {
			t.Fatalf("latex = %q", m.LatexExpr)
		}
		if m.ID == "" {
			t.Fatal("math span has no id")
		}
	})

	t.Run("math_payload_is_authoritative", func(t *testing.T) {
		latex := `\sum_{i=0}^{n} i^2`
		spans := p.ParseSpans(EncodeMath("sum_(i=0)^n i^2", latex))
		m := spans[0].Math
		if m.Format != MathFormatLatex {
			t.Fatalf("format = %v", m.Format)
		}
		if m.LatexExpr != latex {
			t.Fatalf("latex = %q, want %q", m.LatexExpr, latex)
		}
	})

	t.Run("display_mode_from_padding", func(t *testing.T) {
		spans := p.ParseSpans("$ E = m c^2 $")
		m := spans[0].Math
		if !m.DisplayMode || m.NativeExpr != "E = m c^2" {
			t.Fatalf("math = %+v", m)
		}
	})
}

func TestParse(t *testing.T) {
	p := testParser(t)

	t.Run("empty_input_renders_one_empty_paragraph", func(t *testing.T) {
		segments := p.Parse("")
		if len(segments) != 1 || segments[0].Kind != LineText {
			t.Fatalf("segments = %+v", segments)
		}
		if len(segments[0].Lines) != 1 || len(segments[0].Lines[0].Spans) != 0 {
			t.Fatalf("lines = %+v", segments[0].Lines)
		}
	})

	t.Run("ordered_list_keeps_start", func(t *testing.T) {
		segments := p.Parse("5. a\n6. b\n7. c")
		if len(segments) != 1 {
			t.Fatalf("segments = %+v", segments)
		}
		seg := segments[0]
		if seg.Kind != LineOrdered || seg.Start != 5 || len(seg.Lines) != 3 {
			t.Fatalf("segment = %+v", seg)
		}
		if got := seg.Lines[0].AsText(); got != "a" {
			t.Fatalf("first item = %q", got)
		}
	})

	t.Run("original_numerals_besides_start_are_dropped", func(t *testing.T) {
		segments := p.Parse("3. a\n9. b")
		seg := segments[0]
		if seg.Start != 3 || len(seg.Lines) != 2 {
			t.Fatalf("segment = %+v", seg)
		}
		if got := seg.Lines[1].AsText(); got != "b" {
			t.Fatalf("second item = %q", got)
		}
	})

	t.Run("kinds_alternate", func(t *testing.T) {
		segments := p.Parse("intro\n- a\n- b\noutro")
		kinds := []LineKind{LineText, LineBullet, LineText}
		if len(segments) != len(kinds) {
			t.Fatalf("segments = %+v", segments)
		}
		for i, want := range kinds {
			if segments[i].Kind != want {
				t.Fatalf("segment %d kind = %v, want %v", i, segments[i].Kind, want)
			}
		}
	})

	t.Run("styled_run_split_keeps_styling_per_line", func(t *testing.T) {
		segments := p.Parse("#strike[a#linebreak()b]")
		if len(segments) != 1 || len(segments[0].Lines) != 2 {
			t.Fatalf("segments = %+v", segments)
		}
		for i, line := range segments[0].Lines {
			if len(line.Spans) != 1 || line.Spans[0].Kind != SpanStrike {
				t.Fatalf("line %d spans = %+v", i, line.Spans)
			}
		}
	})

	t.Run("visible_text_survives_round_trip", func(t *testing.T) {
		segments := p.Parse("plain *bold* #strike[gone]")
		var sb strings.Builder
		for _, seg := range segments {
			for _, line := range seg.Lines {
				sb.WriteString(line.AsText())
			}
		}
		if got := sb.String(); got != "plain bold gone" {
			t.Fatalf("visible text = %q", got)
		}
	})
}
