package markup

import (
	"encoding/base64"
	"strconv"
	"testing"
)

// counterIDs is a deterministic IDGenerator for tests.
type counterIDs struct {
	n int
}

func (g *counterIDs) NextID() string {
	g.n++
	return "m" + strconv.Itoa(g.n)
}

func TestEncodeMath(t *testing.T) {
	t.Run("native_only", func(t *testing.T) {
		if got := EncodeMath("x^2", ""); got != "$x^2$" {
			t.Fatalf("EncodeMath() = %q", got)
		}
	})

	t.Run("with_latex_payload", func(t *testing.T) {
		want := "$x^2$/*LF_LATEX:" + base64.StdEncoding.EncodeToString([]byte(`x^{2}`)) + "*/"
		if got := EncodeMath("x^2", `x^{2}`); got != want {
			t.Fatalf("EncodeMath() = %q, want %q", got, want)
		}
	})
}

func TestDecodeMathAt(t *testing.T) {
	t.Run("recovers_latex_byte_for_byte", func(t *testing.T) {
		latex := `\frac{\alpha}{\beta} + \sqrt[3]{x}`
		encoded := EncodeMath("alpha/beta + root(3, x)", latex)
		native, gotLatex, next, ok := decodeMathAt(encoded, 0)
		if !ok {
			t.Fatal("decodeMathAt() failed")
		}
		if native != "alpha/beta + root(3, x)" {
			t.Fatalf("native = %q", native)
		}
		if gotLatex != latex {
			t.Fatalf("latex = %q, want %q", gotLatex, latex)
		}
		if next != len(encoded) {
			t.Fatalf("next = %d, want %d", next, len(encoded))
		}
	})

	t.Run("corrupt_payload_degrades_to_empty", func(t *testing.T) {
		native, latex, next, ok := decodeMathAt("$x$/*LF_LATEX:@@not-base64@@*/rest", 0)
		if !ok || native != "x" || latex != "" {
			t.Fatalf("got native=%q latex=%q ok=%v", native, latex, ok)
		}
		// payload is still consumed
		if next != len("$x$/*LF_LATEX:@@not-base64@@*/") {
			t.Fatalf("next = %d", next)
		}
	})

	t.Run("no_payload", func(t *testing.T) {
		native, latex, next, ok := decodeMathAt("$y$ tail", 0)
		if !ok || native != "y" || latex != "" || next != 3 {
			t.Fatalf("got native=%q latex=%q next=%d ok=%v", native, latex, next, ok)
		}
	})

	t.Run("unterminated", func(t *testing.T) {
		if _, _, _, ok := decodeMathAt("$oops", 0); ok {
			t.Fatal("expected failure on unterminated span")
		}
	})
}
