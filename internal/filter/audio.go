package filter

import (
	"fmt"
	"math"
	"strings"

	"github.com/backmassage/fflight/internal/fferr"
)

// AudioFilter is one audio filter descriptor. The set of implementations
// is closed: only the types in this package satisfy it.
type AudioFilter interface {
	Render() (string, error)
	String() string
	audioFilter()
}

// Volume scales the amplitude by Level (1.0 leaves it unchanged).
type Volume struct {
	Level float64
}

// Equalizer boosts or cuts three bands with linear gains. Nil bands are
// left at unity. Gains must be positive.
type Equalizer struct {
	Bass   *float64
	Mid    *float64
	Treble *float64
}

// Normalization runs EBU R128 loudness normalization to TargetLevel LUFS.
type Normalization struct {
	TargetLevel float64
}

// HighPass attenuates frequencies below Frequency Hz.
type HighPass struct {
	Frequency float64
}

// LowPass attenuates frequencies above Frequency Hz.
type LowPass struct {
	Frequency float64
}

// AudioCustom is a raw expression for filters without a typed variant.
type AudioCustom struct {
	Expr string
}

func (Volume) audioFilter()        {}
func (Equalizer) audioFilter()     {}
func (Normalization) audioFilter() {}
func (HighPass) audioFilter()      {}
func (LowPass) audioFilter()       {}
func (AudioCustom) audioFilter()   {}

// superequalizer exposes 18 bands; they are split evenly between bass,
// mid and treble.
const bandsPerRange = 6

const (
	loudnormMin = -70.0
	loudnormMax = -5.0
)

func (f Volume) Render() (string, error) {
	if math.IsNaN(f.Level) || math.IsInf(f.Level, 0) || f.Level < 0 {
		return "", fferr.InvalidInput("volume", "volume level must be a non-negative number (got %v)", f.Level)
	}
	return "volume=" + formatNum(f.Level), nil
}

func (f Equalizer) Render() (string, error) {
	if f.Bass == nil && f.Mid == nil && f.Treble == nil {
		return "", fferr.InvalidInput("equalizer", "at least one band must be set")
	}
	var opts []string
	for i, g := range []*float64{f.Bass, f.Mid, f.Treble} {
		if g == nil {
			continue
		}
		if *g <= 0 || math.IsNaN(*g) || math.IsInf(*g, 0) {
			return "", fferr.InvalidInput("equalizer", "band gain must be positive (got %v)", *g)
		}
		for band := i*bandsPerRange + 1; band <= (i+1)*bandsPerRange; band++ {
			opts = append(opts, fmt.Sprintf("%db=%s", band, formatNum(*g)))
		}
	}
	return "superequalizer=" + strings.Join(opts, ":"), nil
}

func (f Normalization) Render() (string, error) {
	if f.TargetLevel < loudnormMin || f.TargetLevel > loudnormMax || math.IsNaN(f.TargetLevel) {
		return "", fferr.InvalidInput("loudnorm", "target level must be within [%v, %v] LUFS (got %v)",
			loudnormMin, loudnormMax, f.TargetLevel)
	}
	return "loudnorm=I=" + formatNum(f.TargetLevel), nil
}

func (f HighPass) Render() (string, error) {
	if err := checkFrequency("highpass", f.Frequency); err != nil {
		return "", err
	}
	return "highpass=f=" + formatNum(f.Frequency), nil
}

func (f LowPass) Render() (string, error) {
	if err := checkFrequency("lowpass", f.Frequency); err != nil {
		return "", err
	}
	return "lowpass=f=" + formatNum(f.Frequency), nil
}

func (f AudioCustom) Render() (string, error) {
	return renderCustom(f.Expr)
}

func checkFrequency(op string, hz float64) error {
	if hz <= 0 || math.IsNaN(hz) || math.IsInf(hz, 0) {
		return fferr.InvalidInput(op, "frequency must be positive (got %v)", hz)
	}
	return nil
}

func (f Volume) String() string        { return "volume " + formatNum(f.Level) }
func (f Equalizer) String() string     { return "equalizer" }
func (f Normalization) String() string { return "loudnorm " + formatNum(f.TargetLevel) + " LUFS" }
func (f HighPass) String() string      { return "highpass " + formatNum(f.Frequency) + "Hz" }
func (f LowPass) String() string       { return "lowpass " + formatNum(f.Frequency) + "Hz" }
func (f AudioCustom) String() string   { return "custom " + f.Expr }
