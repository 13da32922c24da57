package units

import (
	"strconv"
	"strings"

	"github.com/backmassage/fflight/internal/fferr"
)

// Size is a frame size in pixels. Both axes must be positive.
type Size struct {
	Width  int
	Height int
}

// NewSize validates and returns a Size.
func NewSize(width, height int) (Size, error) {
	s := Size{Width: width, Height: height}
	if err := s.Validate(); err != nil {
		return Size{}, err
	}
	return s, nil
}

// Validate fails with InvalidInput when either axis is zero or negative.
func (s Size) Validate() error {
	if s.Width <= 0 {
		return fferr.InvalidInput("size", "width must be positive (got %d)", s.Width)
	}
	if s.Height <= 0 {
		return fferr.InvalidInput("size", "height must be positive (got %d)", s.Height)
	}
	return nil
}

// ParseSize parses "WxH" (also accepts "W:H").
func ParseSize(text string) (Size, error) {
	s := strings.ToLower(strings.TrimSpace(text))
	w, h, ok := strings.Cut(s, "x")
	if !ok {
		w, h, ok = strings.Cut(s, ":")
	}
	if !ok {
		return Size{}, fferr.InvalidInput("size", "malformed size %q (use WIDTHxHEIGHT)", text)
	}
	width, err := strconv.Atoi(strings.TrimSpace(w))
	if err != nil {
		return Size{}, fferr.InvalidInput("size", "malformed width in %q", text)
	}
	height, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil {
		return Size{}, fferr.InvalidInput("size", "malformed height in %q", text)
	}
	return NewSize(width, height)
}

// String returns "WxH".
func (s Size) String() string {
	return strconv.Itoa(s.Width) + "x" + strconv.Itoa(s.Height)
}
