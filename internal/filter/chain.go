package filter

import (
	"strings"
	"unicode"

	"github.com/backmassage/fflight/internal/fferr"
)

// Member is a single renderable chain element. Both VideoFilter and
// AudioFilter satisfy it.
type Member interface {
	Render() (string, error)
	String() string
}

// ChainOp is the Op of every FilterError raised while rendering a chain.
const ChainOp = "filter chain"

// Chain is an ordered list of same-kind filters. Order is significant:
// crop-then-scale differs from scale-then-crop.
type Chain[F Member] []F

// Render joins each member's fragment with ",". An empty chain renders
// to "", meaning no filter flag should be emitted. The first member that
// fails yields a FilterError carrying its index and description; the
// member's own error stays reachable through errors.As.
func (c Chain[F]) Render() (string, error) {
	if len(c) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(c))
	for i, f := range c {
		frag, err := f.Render()
		if err != nil {
			return "", fferr.Filter(ChainOp, i, f.String(), err)
		}
		parts = append(parts, frag)
	}
	return strings.Join(parts, ","), nil
}

// Labeled renders the chain between link labels, "[in]a,b[out]", for use
// in -filter_complex. Empty labels are omitted. A label holding a
// bracket, a separator or whitespace is rejected.
func (c Chain[F]) Labeled(in, out string) (string, error) {
	for _, l := range []string{in, out} {
		if strings.ContainsFunc(l, badLabelRune) {
			return "", fferr.InvalidInput(ChainOp, "invalid link label %q", l)
		}
	}
	body, err := c.Render()
	if err != nil || body == "" {
		return body, err
	}
	var b strings.Builder
	if in != "" {
		b.WriteString("[" + in + "]")
	}
	b.WriteString(body)
	if out != "" {
		b.WriteString("[" + out + "]")
	}
	return b.String(), nil
}

func badLabelRune(r rune) bool {
	return strings.ContainsRune("[],;", r) || unicode.IsSpace(r)
}

// RenderVideo renders an ordered list of video filters.
func RenderVideo(filters []VideoFilter) (string, error) {
	return Chain[VideoFilter](filters).Render()
}

// RenderAudio renders an ordered list of audio filters.
func RenderAudio(filters []AudioFilter) (string, error) {
	return Chain[AudioFilter](filters).Render()
}
