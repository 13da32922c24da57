package filter

import (
	"fmt"
	"math"
	"strings"

	"github.com/backmassage/fflight/internal/fferr"
	"github.com/backmassage/fflight/internal/units"
)

// VideoFilter is one video filter descriptor. The set of implementations is
// closed: only the types in this package satisfy it.
type VideoFilter interface {
	// Render returns the ffmpeg filter fragment. Parameters are validated
	// here, not at construction.
	Render() (string, error)
	// String describes the filter for diagnostics without validating it.
	String() string
	videoFilter()
}

// Scale resizes the frame to Width x Height.
type Scale struct {
	Width  int
	Height int
}

// Crop cuts a Width x Height window whose top-left corner is at X,Y.
type Crop struct {
	Width  int
	Height int
	X      int
	Y      int
}

// Trim keeps the range [Start, End). A nil End keeps everything after
// Start. The transcode builder lifts a Trim to input seeking flags.
type Trim struct {
	Start units.Time
	End   *units.Time
}

// Rotate turns the frame clockwise by Degrees.
type Rotate struct {
	Degrees float64
}

// FlipAxis selects the mirror axis for Flip.
type FlipAxis int

const (
	FlipHorizontal FlipAxis = iota + 1
	FlipVertical
)

// ParseFlipAxis accepts "h", "horizontal", "v" or "vertical".
func ParseFlipAxis(s string) (FlipAxis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "h", "horizontal", "hflip":
		return FlipHorizontal, nil
	case "v", "vertical", "vflip":
		return FlipVertical, nil
	}
	return 0, fferr.InvalidInput("flip", "unknown flip axis %q (use 'h' or 'v')", s)
}

// Flip mirrors the frame along Axis.
type Flip struct {
	Axis FlipAxis
}

// BrightnessContrast adjusts levels via the eq filter. At least one of the
// two must be set.
type BrightnessContrast struct {
	Brightness *float64 // [-1, 1]
	Contrast   *float64 // [-1000, 1000]
}

// DenoiseStrength picks a fixed hqdn3d parameter set.
type DenoiseStrength int

const (
	DenoiseLight DenoiseStrength = iota + 1
	DenoiseMedium
	DenoiseHeavy
)

// denoiseParams maps strength to hqdn3d luma_spatial:chroma_spatial:
// luma_tmp:chroma_tmp. Spatial strength grows monotonically.
var denoiseParams = map[DenoiseStrength]string{
	DenoiseLight:  "1.5:1.5:6:6",
	DenoiseMedium: "3:3:6:6",
	DenoiseHeavy:  "5:5:6:6",
}

// ParseDenoiseStrength accepts "light", "medium" or "heavy".
func ParseDenoiseStrength(s string) (DenoiseStrength, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "light":
		return DenoiseLight, nil
	case "medium":
		return DenoiseMedium, nil
	case "heavy":
		return DenoiseHeavy, nil
	}
	return 0, fferr.InvalidInput("denoise", "unknown denoise strength %q (use light, medium or heavy)", s)
}

func (s DenoiseStrength) String() string {
	switch s {
	case DenoiseLight:
		return "light"
	case DenoiseMedium:
		return "medium"
	case DenoiseHeavy:
		return "heavy"
	}
	return fmt.Sprintf("strength(%d)", int(s))
}

// Denoise applies hqdn3d at a fixed strength.
type Denoise struct {
	Strength DenoiseStrength
}

// DeinterlaceMode is a yadif mode. The empty mode uses yadif's default.
type DeinterlaceMode string

const (
	DeinterlaceDefault            DeinterlaceMode = ""
	DeinterlaceSendFrame          DeinterlaceMode = "send_frame"
	DeinterlaceSendField          DeinterlaceMode = "send_field"
	DeinterlaceSendFrameNoSpatial DeinterlaceMode = "send_frame_nospatial"
	DeinterlaceSendFieldNoSpatial DeinterlaceMode = "send_field_nospatial"
)

// Deinterlace runs yadif.
type Deinterlace struct {
	Mode DeinterlaceMode
}

// VideoCustom is a raw expression for filters without a typed variant.
// Structural characters are escaped so it stays one chain member.
type VideoCustom struct {
	Expr string
}

func (Scale) videoFilter() {}
func (Crop) videoFilter() {}
func (Trim) videoFilter() {}
func (Rotate) videoFilter() {}
func (Flip) videoFilter() {}
func (BrightnessContrast) videoFilter() {}
func (Denoise) videoFilter() {}
func (Deinterlace) videoFilter() {}
func (VideoCustom) videoFilter() {}

// --- Render ---

func (f Scale) Render() (string, error) {
	if err := (units.Size{Width: f.Width, Height: f.Height}).Validate(); err != nil {
		return "", err
	}
	return fmt.Sprintf("scale=%d:%d", f.Width, f.Height), nil
}

func (f Crop) Render() (string, error) {
	if err := (units.Size{Width: f.Width, Height: f.Height}).Validate(); err != nil {
		return "", err
	}
	if f.X < 0 || f.Y < 0 {
		return "", fferr.InvalidInput("crop", "offset must not be negative (got %d,%d)", f.X, f.Y)
	}
	return fmt.Sprintf("crop=%d:%d:%d:%d", f.Width, f.Height, f.X, f.Y), nil
}

func (f Trim) Render() (string, error) {
	if err := f.Validate(); err != nil {
		return "", err
	}
	out := "trim=start=" + f.Start.SecondsString()
	if f.End != nil {
		out += ":end=" + f.End.SecondsString()
	}
	return out, nil
}

// Validate checks that End, when set, is after Start.
func (f Trim) Validate() error {
	if f.End != nil && !f.Start.Before(*f.End) {
		return fferr.InvalidInput("trim", "end (%s) must be after start (%s)", f.End, f.Start)
	}
	return nil
}

func (f Rotate) Render() (string, error) {
	if math.IsNaN(f.Degrees) || math.IsInf(f.Degrees, 0) {
		return "", fferr.InvalidInput("rotate", "degrees must be finite")
	}
	return "rotate=" + formatNum(f.Degrees) + "*PI/180", nil
}

func (f Flip) Render() (string, error) {
	switch f.Axis {
	case FlipHorizontal:
		return "hflip", nil
	case FlipVertical:
		return "vflip", nil
	}
	return "", fferr.InvalidInput("flip", "unknown flip axis %d", int(f.Axis))
}

func (f BrightnessContrast) Render() (string, error) {
	if f.Brightness == nil && f.Contrast == nil {
		return "", fferr.InvalidInput("eq", "brightness or contrast must be set")
	}
	var opts []string
	if f.Brightness != nil {
		if *f.Brightness < -1 || *f.Brightness > 1 {
			return "", fferr.InvalidInput("eq", "brightness must be within [-1, 1] (got %v)", *f.Brightness)
		}
		opts = append(opts, "brightness="+formatNum(*f.Brightness))
	}
	if f.Contrast != nil {
		if *f.Contrast < -1000 || *f.Contrast > 1000 {
			return "", fferr.InvalidInput("eq", "contrast must be within [-1000, 1000] (got %v)", *f.Contrast)
		}
		opts = append(opts, "contrast="+formatNum(*f.Contrast))
	}
	return "eq=" + strings.Join(opts, ":"), nil
}

func (f Denoise) Render() (string, error) {
	p, ok := denoiseParams[f.Strength]
	if !ok {
		return "", fferr.InvalidInput("denoise", "unknown denoise strength %d", int(f.Strength))
	}
	return "hqdn3d=" + p, nil
}

func (f Deinterlace) Render() (string, error) {
	switch f.Mode {
	case DeinterlaceDefault:
		return "yadif", nil
	case DeinterlaceSendFrame, DeinterlaceSendField, DeinterlaceSendFrameNoSpatial, DeinterlaceSendFieldNoSpatial:
		return "yadif=mode=" + string(f.Mode), nil
	}
	return "", fferr.InvalidInput("deinterlace", "unknown yadif mode %q", string(f.Mode))
}

func (f VideoCustom) Render() (string, error) {
	return renderCustom(f.Expr)
}

func renderCustom(expr string) (string, error) {
	if strings.TrimSpace(expr) == "" {
		return "", fferr.InvalidInput("custom", "custom filter expression is empty")
	}
	return EscapeExpr(expr)
}

// --- Descriptions ---

func (f Scale) String() string { return fmt.Sprintf("scale %dx%d", f.Width, f.Height) }
func (f Crop) String() string {
	return fmt.Sprintf("crop %dx%d at %d,%d", f.Width, f.Height, f.X, f.Y)
}
func (f Trim) String() string {
	if f.End == nil {
		return "trim from " + f.Start.Timestamp()
	}
	return "trim " + f.Start.Timestamp() + "-" + f.End.Timestamp()
}
func (f Rotate) String() string { return "rotate " + formatNum(f.Degrees) + "deg" }
func (f Flip) String() string {
	switch f.Axis {
	case FlipHorizontal:
		return "flip horizontal"
	case FlipVertical:
		return "flip vertical"
	}
	return "flip ?"
}
func (f BrightnessContrast) String() string { return "brightness/contrast" }
func (f Denoise) String() string { return "denoise " + f.Strength.String() }
func (f Deinterlace) String() string {
	if f.Mode == DeinterlaceDefault {
		return "deinterlace"
	}
	return "deinterlace " + string(f.Mode)
}
func (f VideoCustom) String() string { return "custom " + f.Expr }
