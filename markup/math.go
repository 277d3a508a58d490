package markup

import (
	"encoding/base64"
	"strings"

	"github.com/google/uuid"
)

// Transpiler converts between LaTeX and the native math dialect of the
// markup format. Both directions are best effort and may be lossy, the
// codec never depends on them for its own round-trip guarantees.
type Transpiler interface {
	MathToNative(latex string) (string, error)
	NativeToMath(native string) (string, error)
}

// NopTranspiler passes expressions through unchanged. Useful when no real
// transpiler is wired in and in tests.
type NopTranspiler struct{}

func (NopTranspiler) MathToNative(latex string) (string, error) { return latex, nil }
func (NopTranspiler) NativeToMath(native string) (string, error) { return native, nil }

// IDGenerator produces unique ids for decoded math spans.
type IDGenerator interface {
	NextID() string
}

// UUIDGenerator is the default IDGenerator, prefix plus a random UUID.
type UUIDGenerator struct {
	Prefix string
}

func (g UUIDGenerator) NextID() string {
	prefix := g.Prefix
	if prefix == "" {
		prefix = "math"
	}
	return prefix + "-" + uuid.NewString()
}

// EncodeMath renders a formula as wire markup: the native expression between
// dollar signs, optionally followed by the LF_LATEX payload carrying the
// original LaTeX source base64-encoded. The payload is what makes the LaTeX
// form recoverable byte for byte even though the visible native expression
// comes from a lossy transpilation.
func EncodeMath(nativeExpr, latexExpr string) string {
	var b strings.Builder
	b.WriteByte('$')
	b.WriteString(nativeExpr)
	b.WriteByte('$')
	if latexExpr != "" {
		b.WriteString(mathLatexOpen)
		b.WriteString(base64.StdEncoding.EncodeToString([]byte(latexExpr)))
		b.WriteString(mathLatexClose)
	}
	return b.String()
}

// decodeMathAt parses a math span at s[start] == '$'. It returns the raw
// native expression (dollar padding included), the recovered LaTeX source if
// an LF_LATEX payload follows, and the offset just past the span. ok is
// false when the span is unterminated.
func decodeMathAt(s string, start int) (nativeExpr, latexExpr string, next int, ok bool) {
	end := findUnescaped(s, start+1, '$')
	if end < 0 {
		return "", "", start, false
	}
	nativeExpr = s[start+1 : end]
	next = end + 1
	if strings.HasPrefix(s[next:], mathLatexOpen) {
		payloadStart := next + len(mathLatexOpen)
		if close := strings.Index(s[payloadStart:], mathLatexClose); close >= 0 {
			// A corrupt payload is silently dropped, the native expression
			// alone still renders.
			if decoded, err := base64.StdEncoding.DecodeString(s[payloadStart : payloadStart+close]); err == nil {
				latexExpr = string(decoded)
			}
			next = payloadStart + close + len(mathLatexClose)
		}
	}
	return nativeExpr, latexExpr, next, true
}
