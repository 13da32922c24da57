package units

import (
	"math"
	"strconv"
	"strings"

	"github.com/backmassage/fflight/internal/fferr"
)

// Bitrate is a target bitrate in kbit/s.
type Bitrate int

// NewBitrate validates kbps > 0.
func NewBitrate(kbps int) (Bitrate, error) {
	if kbps <= 0 {
		return 0, fferr.InvalidInput("bitrate", "bitrate must be positive (got %d)", kbps)
	}
	return Bitrate(kbps), nil
}

// ParseBitrate accepts "2500", "2500k", "2500kbps" or "2.5M".
func ParseBitrate(text string) (Bitrate, error) {
	s := strings.ToLower(strings.TrimSpace(text))
	mult := 1.0
	switch {
	case strings.HasSuffix(s, "kbps"):
		s = strings.TrimSuffix(s, "kbps")
	case strings.HasSuffix(s, "mbps"):
		s, mult = strings.TrimSuffix(s, "mbps"), 1000
	case strings.HasSuffix(s, "k"):
		s = strings.TrimSuffix(s, "k")
	case strings.HasSuffix(s, "m"):
		s, mult = strings.TrimSuffix(s, "m"), 1000
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fferr.InvalidInput("bitrate", "malformed bitrate %q", text)
	}
	return NewBitrate(int(math.Round(f * mult)))
}

// Kbps returns the value in kbit/s.
func (b Bitrate) Kbps() int { return int(b) }

// Arg renders the ffmpeg form, e.g. "2500k".
func (b Bitrate) Arg() string { return strconv.Itoa(int(b)) + "k" }

// String implements fmt.Stringer.
func (b Bitrate) String() string { return b.Arg() }

// FrameRate is a positive rational frame rate.
type FrameRate struct {
	Num int
	Den int
}

// NewFrameRate validates num/den > 0.
func NewFrameRate(num, den int) (FrameRate, error) {
	if num <= 0 || den <= 0 {
		return FrameRate{}, fferr.InvalidInput("frame rate", "frame rate must be positive (got %d/%d)", num, den)
	}
	return FrameRate{Num: num, Den: den}, nil
}

// maxFrameRate bounds decimal rates so the millihertz numerator fits an
// int32.
const maxFrameRate = math.MaxInt32 / 1000

// FrameRateFromFloat converts a decimal rate. Common NTSC rates map to
// their exact rationals; other values keep millihertz precision.
func FrameRateFromFloat(fps float64) (FrameRate, error) {
	if !positiveFinite(fps) {
		return FrameRate{}, fferr.InvalidInput("frame rate", "frame rate must be positive (got %v)", fps)
	}
	if fps > maxFrameRate {
		return FrameRate{}, fferr.InvalidInput("frame rate", "frame rate must not exceed %d (got %v)", maxFrameRate, fps)
	}
	for _, ntsc := range []FrameRate{{24000, 1001}, {30000, 1001}, {60000, 1001}} {
		if math.Abs(ntsc.Float()-fps) < 0.005 {
			return ntsc, nil
		}
	}
	if fps == math.Trunc(fps) {
		return NewFrameRate(int(fps), 1)
	}
	num := int(math.Round(fps * 1000))
	g := gcd(num, 1000)
	return NewFrameRate(num/g, 1000/g)
}

// ParseFrameRate accepts "30000/1001", "29.97" or "30".
func ParseFrameRate(text string) (FrameRate, error) {
	s := strings.TrimSpace(text)
	if n, d, ok := strings.Cut(s, "/"); ok {
		num, err1 := strconv.Atoi(strings.TrimSpace(n))
		den, err2 := strconv.Atoi(strings.TrimSpace(d))
		if err1 != nil || err2 != nil {
			return FrameRate{}, fferr.InvalidInput("frame rate", "malformed frame rate %q", text)
		}
		return NewFrameRate(num, den)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return FrameRate{}, fferr.InvalidInput("frame rate", "malformed frame rate %q", text)
	}
	return FrameRateFromFloat(f)
}

// Float returns Num/Den.
func (r FrameRate) Float() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

// String renders "30" for integral rates and "30000/1001" otherwise.
func (r FrameRate) String() string {
	if r.Den == 1 {
		return strconv.Itoa(r.Num)
	}
	return strconv.Itoa(r.Num) + "/" + strconv.Itoa(r.Den)
}

// ParseRatio parses an ffprobe rate such as "24000/1001" or "59.94".
// "0/0", zero, a zero denominator and unparseable text report absence.
func ParseRatio(text string) (float64, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, false
	}
	if n, d, ok := strings.Cut(s, "/"); ok {
		num, err1 := strconv.ParseFloat(strings.TrimSpace(n), 64)
		den, err2 := strconv.ParseFloat(strings.TrimSpace(d), 64)
		if err1 != nil || err2 != nil || !positiveFinite(num) || !positiveFinite(den) {
			return 0, false
		}
		q := num / den
		if !positiveFinite(q) {
			return 0, false
		}
		return q, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || !positiveFinite(f) {
		return 0, false
	}
	return f, true
}

func positiveFinite(f float64) bool {
	return f > 0 && !math.IsNaN(f) && !math.IsInf(f, 0)
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}
