package probe

import "strings"

// IsInterlaced reports whether the primary video stream's field_order
// indicates interlaced content (tt, bb, tb, bt). Callers typically respond
// by adding a Deinterlace filter.
func (p *ProbeResult) IsInterlaced() bool {
	v, ok := p.PrimaryVideoStream()
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(v.FieldOrder)) {
	case "tt", "bb", "tb", "bt":
		return true
	}
	return false
}
