package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/backmassage/fflight/internal/fferr"
	"github.com/backmassage/fflight/internal/runner"
	"github.com/backmassage/fflight/internal/units"
)

// Args returns the ffprobe argument vector for path.
func Args(path string) []string {
	return []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format", "-show_streams",
		path,
	}
}

// Probe runs a single ffprobe JSON call against path and returns the
// parsed result.
func Probe(ctx context.Context, tool *runner.Tool, path string) (*ProbeResult, error) {
	pr, _, err := ProbeRaw(ctx, tool, path)
	return pr, err
}

// ProbeRaw is Probe that also returns ffprobe's JSON output unchanged.
func ProbeRaw(ctx context.Context, tool *runner.Tool, path string) (*ProbeResult, []byte, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil, fferr.InvalidInput("probe", "input path is empty")
	}
	res, err := tool.Exec(ctx, "probe", "ffprobe", Args(path))
	if err != nil {
		return nil, nil, err
	}
	pr, err := ParseJSON(res.Stdout)
	if err != nil {
		return nil, nil, err
	}
	return pr, res.Stdout, nil
}

// ParseJSON converts raw ffprobe JSON output into a ProbeResult. Missing
// or unparseable individual fields become absent values; only input that
// is not a well-formed JSON document fails, with InvalidInput.
func ParseJSON(data []byte) (*ProbeResult, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fferr.InvalidInput("probe", "ffprobe output is empty")
	}
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fferr.Wrap(fferr.KindInvalidInput, "probe", err, "malformed ffprobe JSON")
	}
	return buildResult(&raw), nil
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Format  *ffprobeFormat
	Streams []ffprobeStream
}

// UnmarshalJSON requires a top-level object. A format block or stream
// entry of the wrong JSON type is dropped rather than failing the document.
func (o *ffprobeOutput) UnmarshalJSON(b []byte) error {
	var top struct {
		Format  json.RawMessage `json:"format"`
		Streams json.RawMessage `json:"streams"`
	}
	if err := json.Unmarshal(b, &top); err != nil {
		return err
	}
	if len(top.Format) > 0 {
		var f ffprobeFormat
		if err := json.Unmarshal(top.Format, &f); err == nil && !isNull(top.Format) {
			o.Format = &f
		}
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(top.Streams, &entries); err != nil {
		return nil
	}
	for _, e := range entries {
		var st ffprobeStream
		if err := json.Unmarshal(e, &st); err != nil || isNull(e) {
			continue
		}
		o.Streams = append(o.Streams, st)
	}
	return nil
}

func isNull(b json.RawMessage) bool {
	return string(bytes.TrimSpace(b)) == "null"
}

type ffprobeFormat struct {
	Filename       flexText  `json:"filename"`
	NbStreams      flexNum   `json:"nb_streams"`
	FormatName     flexText  `json:"format_name"`
	FormatLongName flexText  `json:"format_long_name"`
	Duration       flexNum   `json:"duration"`
	Size           flexNum   `json:"size"`
	BitRate        flexNum   `json:"bit_rate"`
	Tags           flexAttrs `json:"tags"`
}

type ffprobeStream struct {
	Index          flexNum   `json:"index"`
	CodecName      flexText  `json:"codec_name"`
	CodecType      flexText  `json:"codec_type"`
	Profile        flexText  `json:"profile"`
	PixFmt         flexText  `json:"pix_fmt"`
	Width          flexNum   `json:"width"`
	Height         flexNum   `json:"height"`
	BitRate        flexNum   `json:"bit_rate"`
	FieldOrder     flexText  `json:"field_order"`
	ColorTransfer  flexText  `json:"color_transfer"`
	ColorPrimaries flexText  `json:"color_primaries"`
	ColorSpace     flexText  `json:"color_space"`
	AvgFrameRate   flexText  `json:"avg_frame_rate"`
	RFrameRate     flexText  `json:"r_frame_rate"`
	Channels       flexNum   `json:"channels"`
	ChannelLayout  flexText  `json:"channel_layout"`
	SampleRate     flexNum   `json:"sample_rate"`
	Duration       flexNum   `json:"duration"`
	Disposition    flexAttrs `json:"disposition"`
	Tags           flexAttrs `json:"tags"`
}

// flexText holds a text field. Numbers and booleans are kept as their
// JSON text; objects, arrays and null are absent.
type flexText string

func (t *flexText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = flexText(s)
	case '{', '[', 'n':
	default:
		*t = flexText(b)
	}
	return nil
}

// flexNum holds a numeric field that ffprobe may emit either as a JSON
// number or as a string ("125.35", "N/A"). Any other JSON type is treated
// as absent.
type flexNum struct {
	text string
}

func (n *flexNum) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		n.text = strings.TrimSpace(s)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		n.text = string(b)
	}
	return nil
}

func (n flexNum) float() (float64, bool) {
	if n.text == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(n.text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// integer accepts integral text, or a float with no fractional part.
func (n flexNum) integer() (int64, bool) {
	if n.text == "" {
		return 0, false
	}
	if v, err := strconv.ParseInt(n.text, 10, 64); err == nil {
		return v, true
	}
	f, ok := n.float()
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int64(f), true
}

// nonNegFloat and positiveInt reject values that cannot describe media.
func (n flexNum) nonNegFloat() opt[float64] {
	f, ok := n.float()
	return some(f, ok && f >= 0)
}

func (n flexNum) positiveInt() opt[int64] {
	v, ok := n.integer()
	return some(v, ok && v > 0)
}

// flexAttrs decodes a tags or disposition object whose values may be
// strings, numbers or booleans. Values are kept as text.
type flexAttrs map[string]string

func (a *flexAttrs) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		// Not an object: treat as absent.
		return nil
	}
	out := make(flexAttrs, len(raw))
	for k, v := range raw {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			out[k] = s
			continue
		}
		if t := strings.TrimSpace(string(v)); t != "null" && t != "" && t[0] != '{' && t[0] != '[' {
			out[k] = t
		}
	}
	*a = out
	return nil
}

func (a flexAttrs) flag(key string) bool {
	switch a[key] {
	case "1", "true":
		return true
	}
	return false
}

// --- Conversion from wire types to domain types ---

func buildResult(raw *ffprobeOutput) *ProbeResult {
	pr := &ProbeResult{}
	if raw.Format != nil {
		pr.format = convertFormat(raw.Format)
	}
	pr.streams = make([]Stream, 0, len(raw.Streams))
	for i := range raw.Streams {
		pr.streams = append(pr.streams, convertStream(&raw.Streams[i], i))
	}
	return pr
}

func convertFormat(f *ffprobeFormat) Format {
	return Format{
		Filename:       string(f.Filename),
		FormatName:     string(f.FormatName),
		FormatLongName: string(f.FormatLongName),
		nbStreams:      f.NbStreams.positiveInt(),
		duration:       f.Duration.nonNegFloat(),
		size:           f.Size.positiveInt(),
		bitRate:        f.BitRate.positiveInt(),
		tags:           f.Tags,
	}
}

func convertStream(s *ffprobeStream, pos int) Stream {
	index := pos
	if v, ok := s.Index.integer(); ok {
		index = int(v)
	}
	st := Stream{
		Index:          index,
		Kind:           parseKind(string(s.CodecType)),
		Codec:          string(s.CodecName),
		Profile:        string(s.Profile),
		PixFmt:         string(s.PixFmt),
		FieldOrder:     string(s.FieldOrder),
		ColorTransfer:  string(s.ColorTransfer),
		ColorPrimaries: string(s.ColorPrimaries),
		ColorSpace:     string(s.ColorSpace),
		ChannelLayout:  string(s.ChannelLayout),
		IsDefault:      s.Disposition.flag("default"),
		IsAttachedPic:  s.Disposition.flag("attached_pic"),
		bitRate:        s.BitRate.positiveInt(),
		duration:       s.Duration.nonNegFloat(),
		tags:           s.Tags,
	}
	switch st.Kind {
	case KindVideo:
		st.width = s.Width.positiveInt()
		st.height = s.Height.positiveInt()
		st.frameRate = frameRate(string(s.AvgFrameRate), string(s.RFrameRate))
	case KindAudio:
		st.sampleRate = s.SampleRate.positiveInt()
		st.channels = s.Channels.positiveInt()
	}
	return st
}

// frameRate prefers avg_frame_rate and falls back to r_frame_rate.
func frameRate(avg, r string) opt[float64] {
	if f, ok := units.ParseRatio(avg); ok {
		return some(f, true)
	}
	f, ok := units.ParseRatio(r)
	return some(f, ok)
}
