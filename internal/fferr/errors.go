// Package fferr defines the error taxonomy shared by every fflight package.
//
// All failures surface as a single [*Error] type whose [Kind] is drawn from
// a closed set. Callers can render the short message via Error() or a
// guided diagnostic via [Error.Suggestion]; the two are kept separate so a
// CLI can choose how much to print.
package fferr

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Kind classifies an error. The set is closed; switch statements over Kind
// should handle every constant.
type Kind int

const (
	KindUnknown         Kind = iota
	KindFFmpegNotFound       // Binary could not be resolved.
	KindInvalidInput         // Caller configuration failed a constraint.
	KindFilterError          // A filter failed to render or compose.
	KindProcessingError      // External tool exited non-zero.
	KindTimeoutError         // External invocation exceeded its deadline.
	KindExecutionError       // Process could not be spawned at all.
)

var kindNames = map[Kind]string{
	KindUnknown:         "unknown",
	KindFFmpegNotFound:  "ffmpeg not found",
	KindInvalidInput:    "invalid input",
	KindFilterError:     "filter error",
	KindProcessingError: "processing error",
	KindTimeoutError:    "timeout",
	KindExecutionError:  "execution error",
}

// String returns the human-readable kind label used as the message prefix.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// NoFilterIndex marks an Error that is not tied to a filter position.
const NoFilterIndex = -1

// Error is the concrete error value returned by fflight packages.
type Error struct {
	Kind Kind
	Op   string // Operation that failed, e.g. "transcode", "probe".
	Msg  string

	// Process details (ProcessingError, ExecutionError, TimeoutError).
	Binary   string
	ExitCode int
	Stderr   string // Tool diagnostic text, verbatim.

	// Filter details (FilterError).
	FilterIndex int
	FilterDesc  string

	// Elapsed wall time before a TimeoutError fired.
	Elapsed time.Duration

	suggestion string
	Err        error
}

// Error implements the error interface. The message never includes the
// suggestion; use [Error.Suggestion] for that.
func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())

	switch e.Kind {
	case KindProcessingError:
		fmt.Fprintf(&b, ": %s exited with code %d", e.Binary, e.ExitCode)
		if e.Msg != "" {
			b.WriteString(": ")
			b.WriteString(e.Msg)
		}
		if e.Stderr != "" {
			b.WriteString(": ")
			b.WriteString(strings.TrimSpace(e.Stderr))
		}
		return b.String()
	case KindTimeoutError:
		if e.Binary != "" {
			fmt.Fprintf(&b, ": %s", e.Binary)
		}
		fmt.Fprintf(&b, " after %s", e.Elapsed.Round(time.Millisecond))
	case KindFilterError:
		if e.FilterIndex >= 0 {
			fmt.Fprintf(&b, ": filter #%d", e.FilterIndex)
			if e.FilterDesc != "" {
				fmt.Fprintf(&b, " (%s)", e.FilterDesc)
			}
		}
	}

	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes the wrapped cause.
func (e *Error) Unwrap() error { return e.Err }

// Suggestion returns a recovery hint distinct from the message. An explicit
// suggestion set at construction wins; otherwise a per-kind default is
// derived from the message.
func (e *Error) Suggestion() (string, bool) {
	if e.suggestion != "" {
		return e.suggestion, true
	}
	s := defaultSuggestion(e)
	return s, s != ""
}

// WithSuggestion returns e with its suggestion replaced.
func (e *Error) WithSuggestion(s string) *Error {
	e.suggestion = s
	return e
}

func defaultSuggestion(e *Error) string {
	msg := strings.ToLower(e.Msg)
	switch e.Kind {
	case KindFFmpegNotFound:
		return "install ffmpeg and make sure ffmpeg and ffprobe are on PATH"
	case KindInvalidInput:
		switch {
		case strings.Contains(msg, "input path"):
			return "set the input file path before running"
		case strings.Contains(msg, "output path"):
			return "set the output file path before running"
		case strings.Contains(msg, "codec"):
			return "use a valid codec name as listed by 'ffmpeg -encoders'"
		case strings.Contains(msg, "bitrate"):
			return "use a positive bitrate in kbit/s"
		}
		return ""
	case KindFilterError:
		if strings.Contains(msg, "not supported") {
			return "check that the filter is available in your FFmpeg version ('ffmpeg -filters')"
		}
		return "check the filter parameters and escaping"
	case KindProcessingError:
		return "check that the codecs are installed and the arguments are valid"
	case KindTimeoutError:
		return "increase the timeout or process a shorter segment"
	case KindExecutionError:
		return "check that the binary is executable and the environment allows spawning processes"
	}
	return ""
}

// --- Constructors ---

// New returns an Error of the given kind.
func New(kind Kind, op, msg string) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg, FilterIndex: NoFilterIndex}
}

// Newf is New with a format string.
func Newf(kind Kind, op, format string, args ...any) *Error {
	return New(kind, op, fmt.Sprintf(format, args...))
}

// Wrap returns an Error of the given kind wrapping err.
func Wrap(kind Kind, op string, err error, msg string) *Error {
	e := New(kind, op, msg)
	e.Err = err
	return e
}

// InvalidInput is shorthand for a KindInvalidInput error.
func InvalidInput(op, format string, args ...any) *Error {
	return Newf(KindInvalidInput, op, format, args...)
}

// Filter returns a FilterError tied to the filter at index.
func Filter(op string, index int, desc string, err error) *Error {
	e := Wrap(KindFilterError, op, err, "")
	e.FilterIndex = index
	e.FilterDesc = desc
	return e
}

// Processing returns a ProcessingError carrying stderr verbatim.
func Processing(op, binary string, exitCode int, stderr string) *Error {
	e := New(KindProcessingError, op, "")
	e.Binary = binary
	e.ExitCode = exitCode
	e.Stderr = stderr
	return e
}

// Timeout returns a TimeoutError for binary after elapsed.
func Timeout(op, binary string, elapsed time.Duration, err error) *Error {
	e := Wrap(KindTimeoutError, op, err, "")
	e.Binary = binary
	e.Elapsed = elapsed
	return e
}

// NotFound returns an FFmpegNotFound error for binary with a suggestion.
func NotFound(op, binary, suggestion string) *Error {
	e := Newf(KindFFmpegNotFound, op, "binary %q not found", binary)
	e.Binary = binary
	e.suggestion = suggestion
	return e
}

// --- Inspection helpers ---

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// KindOf reports the kind of the first *Error in err's chain, or
// KindUnknown.
func KindOf(err error) Kind {
	if fe, ok := As(err); ok {
		return fe.Kind
	}
	return KindUnknown
}

// Is reports whether err carries an *Error of kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// SuggestionOf returns the suggestion attached to err, if any.
func SuggestionOf(err error) (string, bool) {
	if fe, ok := As(err); ok {
		return fe.Suggestion()
	}
	return "", false
}

// HasKind reports whether any *Error in err's chain is of kind. Unlike
// [Is], it looks past an outer error, e.g. to find the InvalidInput cause
// inside a FilterError.
func HasKind(err error, kind Kind) bool {
	for err != nil {
		if fe, ok := err.(*Error); ok && fe.Kind == kind {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}
