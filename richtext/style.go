package richtext

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// elementColor extracts the text color an element applies, normalized to
// "#rrggbb". Both the inline style attribute and the legacy font element
// with a color attribute are honored.
func elementColor(el *etree.Element) string {
	if style := el.SelectAttrValue("style", ""); style != "" {
		if c := styleColor(style); c != "" {
			return c
		}
	}
	if strings.EqualFold(el.Tag, "font") {
		return normalizeColor(el.SelectAttrValue("color", ""))
	}
	return ""
}

// styleColor lexes an inline style declaration list and returns the value of
// its color property, or empty.
func styleColor(style string) string {
	input := parse.NewInput(bytes.NewReader([]byte(style)))
	parser := css.NewParser(input, true)
	for {
		gt, _, data := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			return ""
		case css.DeclarationGrammar:
			if !strings.EqualFold(string(data), "color") {
				continue
			}
			var raw strings.Builder
			for _, t := range parser.Values() {
				if t.TokenType != css.WhitespaceToken {
					raw.Write(t.Data)
				}
			}
			if c := normalizeColor(raw.String()); c != "" {
				return c
			}
		}
	}
}

var rgbTripletRe = regexp.MustCompile(`(?i)^rgba?\((\d{1,3})[,\s]+(\d{1,3})[,\s]+(\d{1,3})`)

// normalizeColor converts hex and rgb()/rgba() color notations to "#rrggbb".
// Anything else (named colors, gradients) yields empty and the wrapper is
// skipped, matching how unknown styling is dropped elsewhere.
func normalizeColor(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if value[0] == '#' {
		hex := strings.ToLower(value[1:])
		switch len(hex) {
		case 3:
			return "#" + strings.Repeat(string(hex[0]), 2) + strings.Repeat(string(hex[1]), 2) + strings.Repeat(string(hex[2]), 2)
		case 6:
			return "#" + hex
		default:
			return ""
		}
	}
	if m := rgbTripletRe.FindStringSubmatch(value); m != nil {
		r, _ := strconv.Atoi(m[1])
		g, _ := strconv.Atoi(m[2])
		b, _ := strconv.Atoi(m[3])
		if r > 255 || g > 255 || b > 255 {
			return ""
		}
		return fmt.Sprintf("#%02x%02x%02x", r, g, b)
	}
	return ""
}
