package richtext

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"typmark/markup"
)

// Encoder walks a rich-text tree snapshot bottom-up and emits inline markup.
type Encoder struct {
	log *zap.Logger
	tr  markup.Transpiler
}

// NewEncoder creates a tree encoder. Nil arguments select a no-op logger and
// the pass-through transpiler.
func NewEncoder(log *zap.Logger, tr markup.Transpiler) *Encoder {
	if log == nil {
		log = zap.NewNop()
	}
	if tr == nil {
		tr = markup.NopTranspiler{}
	}
	return &Encoder{log: log.Named("richtext-encoder"), tr: tr}
}

// Encode runs both passes over the snapshot root: block-level children are
// normalized into lines, inline content within them into markup tokens.
// Leading and trailing blank lines are trimmed from the result.
func (e *Encoder) Encode(root *etree.Element) string {
	var (
		lines []string
		cur   strings.Builder
	)
	flush := func() {
		lines = append(lines, strings.TrimSpace(cur.String()))
		cur.Reset()
	}

	for _, child := range root.Child {
		switch n := child.(type) {
		case *etree.CharData:
			cur.WriteString(n.Data)
		case *etree.Element:
			switch strings.ToLower(n.Tag) {
			case "p", "div":
				flush()
				lines = append(lines, strings.TrimSpace(e.EncodeInline(n)))
			case "ol":
				flush()
				lines = append(lines, e.listLines(n, true)...)
			case "ul":
				flush()
				lines = append(lines, e.listLines(n, false)...)
			case "br":
				flush()
			default:
				e.writeElement(&cur, n)
			}
		}
	}
	flush()
	return strings.Join(trimBlankLines(lines), "\n")
}

// EncodeInline emits markup for the inline content of one element, ignoring
// block-level structure. Hard breaks become literal newlines.
func (e *Encoder) EncodeInline(el *etree.Element) string {
	var b strings.Builder
	e.writeChildren(&b, el)
	return b.String()
}

func (e *Encoder) writeChildren(b *strings.Builder, el *etree.Element) {
	for _, child := range el.Child {
		switch n := child.(type) {
		case *etree.CharData:
			b.WriteString(n.Data)
		case *etree.Element:
			e.writeElement(b, n)
		}
	}
}

func (e *Encoder) writeElement(b *strings.Builder, el *etree.Element) {
	tag := strings.ToLower(el.Tag)
	switch {
	case tag == "br":
		b.WriteByte('\n')

	case isMathMarker(el):
		b.WriteString(e.encodeMathMarker(el))

	case tag == "b" || tag == "strong":
		b.WriteByte('*')
		e.writeChildren(b, el)
		b.WriteByte('*')

	case tag == "i" || tag == "em":
		b.WriteByte('_')
		e.writeChildren(b, el)
		b.WriteByte('_')

	case tag == "s" || tag == "strike" || tag == "del":
		b.WriteString("#strike[")
		e.writeChildren(b, el)
		b.WriteByte(']')

	default:
		if color := elementColor(el); color != "" {
			b.WriteString(`#text(fill: rgb("`)
			b.WriteString(color)
			b.WriteString(`"))[`)
			e.writeChildren(b, el)
			b.WriteByte(']')
			return
		}
		// Unknown wrappers (spans, fonts without color, list items reached
		// directly) contribute their content only.
		e.writeChildren(b, el)
	}
}

// listLines renders a list container as one markup line per item. Hard
// breaks inside an item stay inline as explicit break tokens instead of
// starting a new list line.
func (e *Encoder) listLines(list *etree.Element, ordered bool) []string {
	start := 1
	if v := list.SelectAttrValue("start", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			start = n
		} else {
			e.log.Debug("Ignoring invalid list start attribute", zap.String("start", v))
		}
	}

	var lines []string
	for _, child := range list.Child {
		item, ok := child.(*etree.Element)
		if !ok || strings.ToLower(item.Tag) != "li" {
			continue
		}
		content := strings.TrimSpace(e.EncodeInline(item))
		content = strings.ReplaceAll(content, "\n", markup.TokenLineBreak)
		var prefix string
		if ordered {
			prefix = strconv.Itoa(start+len(lines)) + ". "
		} else {
			prefix = "- "
		}
		lines = append(lines, prefix+content)
	}
	return lines
}

func (e *Encoder) encodeMathMarker(el *etree.Element) string {
	native := strings.TrimSpace(el.SelectAttrValue(attrNativeExpr, ""))
	latex := el.SelectAttrValue(attrLatexExpr, "")
	if native == "" && latex != "" {
		derived, err := e.tr.MathToNative(latex)
		if err != nil {
			e.log.Debug("Unable to transpile LaTeX to native expression", zap.String("latex", latex), zap.Error(err))
		} else {
			native = derived
		}
	}
	if el.SelectAttrValue(attrDisplay, "") == "true" && native != "" {
		native = " " + native + " "
	}
	return markup.EncodeMath(native, latex)
}

func isMathMarker(el *etree.Element) bool {
	for _, class := range strings.Fields(el.SelectAttrValue("class", "")) {
		if class == mathMarkerClass {
			return true
		}
	}
	return false
}

func trimBlankLines(lines []string) []string {
	start, end := 0, len(lines)
	for start < end && lines[start] == "" {
		start++
	}
	for end > start && lines[end-1] == "" {
		end--
	}
	return lines[start:end]
}
