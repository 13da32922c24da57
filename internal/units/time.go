// Package units provides the value types shared by the filter model, the
// argument builder and the probe parser: timestamps, frame sizes, bitrates
// and frame rates, each with the parsing and formatting rules ffmpeg
// expects.
package units

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/backmassage/fflight/internal/fferr"
)

// Time is a non-negative position or duration in seconds. The zero value
// is 0s and is valid.
type Time struct {
	seconds float64
}

// MaxSeconds is the largest accepted Time, about 31 years.
const MaxSeconds = 1e9

// TimeFromSeconds returns a Time for s. Negative, NaN, infinite and
// values above MaxSeconds fail with InvalidInput.
func TimeFromSeconds(s float64) (Time, error) {
	if math.IsNaN(s) || math.IsInf(s, 0) {
		return Time{}, fferr.InvalidInput("time", "seconds must be finite (got %v)", s)
	}
	if s < 0 {
		return Time{}, fferr.InvalidInput("time", "time must not be negative (got %v)", s)
	}
	if s > MaxSeconds {
		return Time{}, fferr.InvalidInput("time", "time must not exceed %v seconds (got %v)", float64(MaxSeconds), s)
	}
	return Time{seconds: s}, nil
}

// MustTime is TimeFromSeconds for constants known to be valid. It panics
// on invalid input.
func MustTime(s float64) Time {
	t, err := TimeFromSeconds(s)
	if err != nil {
		panic(err)
	}
	return t
}

// TimeFromDuration converts a time.Duration; negative durations fail.
func TimeFromDuration(d time.Duration) (Time, error) {
	return TimeFromSeconds(d.Seconds())
}

// ParseTime accepts "HH:MM:SS(.fff)", "MM:SS(.fff)" or plain seconds
// "SS(.fff)". Minutes and seconds fields must be below 60 when a larger
// field is present.
func ParseTime(text string) (Time, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return Time{}, fferr.InvalidInput("time", "empty time value")
	}

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return Time{}, fferr.InvalidInput("time", "malformed time %q", text)
	}

	secs, err := strconv.ParseFloat(parts[len(parts)-1], 64)
	if err != nil || secs < 0 || math.IsNaN(secs) || math.IsInf(secs, 0) {
		return Time{}, fferr.InvalidInput("time", "malformed seconds in %q", text)
	}
	if len(parts) > 1 && secs >= 60 {
		return Time{}, fferr.InvalidInput("time", "seconds out of range in %q", text)
	}

	total := secs
	mult := 60.0
	for i := len(parts) - 2; i >= 0; i-- {
		n, err := strconv.Atoi(parts[i])
		if err != nil || n < 0 {
			return Time{}, fferr.InvalidInput("time", "malformed field %q in %q", parts[i], text)
		}
		// Minutes are bounded only when hours are present.
		if i == len(parts)-2 && len(parts) == 3 && n >= 60 {
			return Time{}, fferr.InvalidInput("time", "minutes out of range in %q", text)
		}
		total += float64(n) * mult
		mult *= 60
	}
	return TimeFromSeconds(total)
}

// Seconds returns the value in seconds.
func (t Time) Seconds() float64 { return t.seconds }

// Duration converts to a time.Duration, rounded to the nanosecond.
func (t Time) Duration() time.Duration {
	return time.Duration(math.Round(t.seconds * float64(time.Second)))
}

// IsZero reports whether t is 0s.
func (t Time) IsZero() bool { return t.seconds == 0 }

// Before reports whether t is strictly earlier than u.
func (t Time) Before(u Time) bool { return t.seconds < u.seconds }

// Timestamp formats t as ffmpeg's HH:MM:SS.mmm. Hours are not wrapped.
func (t Time) Timestamp() string {
	ms := int64(math.Round(t.seconds * 1000))
	h := ms / 3_600_000
	m := (ms % 3_600_000) / 60_000
	s := (ms % 60_000) / 1000
	frac := ms % 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, frac)
}

// SecondsString formats t as fractional seconds ("12.5", "3").
func (t Time) SecondsString() string {
	return strconv.FormatFloat(t.seconds, 'f', -1, 64)
}

// String implements fmt.Stringer using the HH:MM:SS.mmm form.
func (t Time) String() string { return t.Timestamp() }
