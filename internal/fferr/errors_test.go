package fferr

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Messages(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"invalid input", InvalidInput("transcode", "input path is not set"),
			"transcode: invalid input: input path is not set"},
		{"processing keeps stderr", Processing("transcode", "ffmpeg", 1, "Unknown encoder 'foo'\n"),
			"transcode: processing error: ffmpeg exited with code 1: Unknown encoder 'foo'"},
		{"timeout", Timeout("probe", "ffprobe", 1500*time.Millisecond, nil),
			"probe: timeout: ffprobe after 1.5s"},
		{"filter with index", Filter("video filter chain", 2, "scale 0x720", errors.New("width must be positive")),
			"video filter chain: filter error: filter #2 (scale 0x720): width must be positive"},
		{"not found", NotFound("probe", "ffprobe", "apt install ffmpeg"),
			`probe: ffmpeg not found: binary "ffprobe" not found`},
		{"no op", New(KindExecutionError, "", "spawn failed"),
			"execution error: spawn failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "filter error", KindFilterError.String())
	assert.Equal(t, "kind(42)", Kind(42).String())
}

func TestSuggestion(t *testing.T) {
	tests := []struct {
		name   string
		err    *Error
		want   string
		wantOK bool
	}{
		{"explicit wins", NotFound("x", "ffmpeg", "brew install ffmpeg"), "brew install ffmpeg", true},
		{"input path", InvalidInput("transcode", "input path is not set"), "set the input file path before running", true},
		{"codec", InvalidInput("transcode", "video codec must not be empty"), "use a valid codec name as listed by 'ffmpeg -encoders'", true},
		{"unmatched invalid input", InvalidInput("size", "width must be positive"), "", false},
		{"filter unsupported", Newf(KindFilterError, "f", "zscale not supported"), "check that the filter is available in your FFmpeg version ('ffmpeg -filters')", true},
		{"unknown", New(KindUnknown, "", "boom"), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.err.Suggestion()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, tt.err.Error(), "hint", "suggestion stays out of the message")
		})
	}

	e := Processing("transcode", "ffmpeg", 1, "").WithSuggestion("try -c:v libx264")
	s, ok := e.Suggestion()
	require.True(t, ok)
	assert.Equal(t, "try -c:v libx264", s)
}

func TestInspection(t *testing.T) {
	cause := InvalidInput("scale", "width must be positive")
	fe := Filter("video filter chain", 0, "scale 0x1", cause)
	wrapped := fmt.Errorf("run: %w", fe)

	assert.Equal(t, KindFilterError, KindOf(wrapped))
	assert.True(t, Is(wrapped, KindFilterError))
	assert.False(t, Is(wrapped, KindInvalidInput), "Is looks at the first *Error only")
	assert.True(t, HasKind(wrapped, KindInvalidInput))
	assert.False(t, HasKind(wrapped, KindTimeoutError))
	assert.ErrorIs(t, wrapped, cause)

	got, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, 0, got.FilterIndex)

	hint, ok := SuggestionOf(wrapped)
	assert.True(t, ok)
	assert.True(t, strings.HasPrefix(hint, "check the filter"))

	plain := errors.New("plain")
	assert.Equal(t, KindUnknown, KindOf(plain))
	_, ok = SuggestionOf(plain)
	assert.False(t, ok)
	_, ok = As(nil)
	assert.False(t, ok)
}

func TestNew_DefaultsNoFilterIndex(t *testing.T) {
	e := New(KindInvalidInput, "op", "msg")
	assert.Equal(t, NoFilterIndex, e.FilterIndex)
	assert.Equal(t, "op: filter error: msg", New(KindFilterError, "op", "msg").Error())
}
