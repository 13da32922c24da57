package filter

import (
	"strconv"
	"strings"

	"github.com/backmassage/fflight/internal/fferr"
)

// structural holds the characters that delimit options, filters, chains
// and link labels in ffmpeg's filtergraph syntax.
const structural = ":,;[]'"

// EscapeExpr backslash-escapes every structural character in raw so the
// result occupies a single slot of a filter chain. Pairs that are already
// escaped ("\:") are kept as-is. A trailing lone backslash is an
// unterminated escape and fails with FilterError.
func EscapeExpr(raw string) (string, error) {
	var b strings.Builder
	b.Grow(len(raw) + 8)
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c == '\\' {
			if i+1 >= len(raw) {
				return "", fferr.New(fferr.KindFilterError, "escape", "unterminated escape at end of "+strconv.Quote(raw))
			}
			b.WriteByte(c)
			b.WriteByte(raw[i+1])
			i++
			continue
		}
		if strings.IndexByte(structural, c) >= 0 {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	return b.String(), nil
}

// formatNum renders a float without trailing zeros ("1.5", "2", "-1").
func formatNum(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
