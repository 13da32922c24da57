package probe

import (
	"math"
	"slices"
	"strconv"
	"time"
)

// StreamKind classifies a stream record.
type StreamKind int

const (
	KindOther StreamKind = iota
	KindVideo
	KindAudio
	KindSubtitle
	KindData
)

func (k StreamKind) String() string {
	switch k {
	case KindVideo:
		return "video"
	case KindAudio:
		return "audio"
	case KindSubtitle:
		return "subtitle"
	case KindData:
		return "data"
	}
	return "other"
}

func parseKind(codecType string) StreamKind {
	switch codecType {
	case "video":
		return KindVideo
	case "audio":
		return KindAudio
	case "subtitle":
		return KindSubtitle
	case "data":
		return KindData
	}
	return KindOther
}

// opt is a value that may be absent. Absence is never reported as zero.
type opt[T any] struct {
	v  T
	ok bool
}

func some[T any](v T, ok bool) opt[T] {
	if !ok {
		return opt[T]{}
	}
	return opt[T]{v: v, ok: true}
}

func (o opt[T]) get() (T, bool) { return o.v, o.ok }

func seconds(o opt[float64]) (time.Duration, bool) {
	s, ok := o.get()
	if !ok {
		return 0, false
	}
	return time.Duration(math.Round(s * float64(time.Second))), true
}

// Format holds container-level metadata from ffprobe's format section.
type Format struct {
	Filename       string
	FormatName     string
	FormatLongName string

	nbStreams opt[int64]
	duration  opt[float64]
	size      opt[int64]
	bitRate   opt[int64]
	tags      map[string]string
}

// NbStreams returns the container's stream count.
func (f Format) NbStreams() (int64, bool) { return f.nbStreams.get() }

// Duration returns the container duration.
func (f Format) Duration() (time.Duration, bool) { return seconds(f.duration) }

// Size returns the file size in bytes.
func (f Format) Size() (int64, bool) { return f.size.get() }

// BitRate returns the overall bit rate in bits/sec.
func (f Format) BitRate() (int64, bool) { return f.bitRate.get() }

// Tag returns a container tag such as "title".
func (f Format) Tag(key string) (string, bool) {
	v, ok := f.tags[key]
	return v, ok
}

// Stream holds one stream record. Kind-specific accessors report absence
// for streams of another kind.
type Stream struct {
	Index int
	Kind  StreamKind
	Codec string // codec_name; "" when ffprobe did not report one.

	Profile        string
	PixFmt         string
	FieldOrder     string
	ColorTransfer  string
	ColorPrimaries string
	ColorSpace     string
	ChannelLayout  string

	IsDefault     bool
	IsAttachedPic bool

	width      opt[int64]
	height     opt[int64]
	bitRate    opt[int64]
	frameRate  opt[float64]
	sampleRate opt[int64]
	channels   opt[int64]
	duration   opt[float64]
	tags       map[string]string
}

// Width returns the frame width in pixels.
func (s Stream) Width() (int, bool) {
	v, ok := s.width.get()
	return int(v), ok
}

// Height returns the frame height in pixels.
func (s Stream) Height() (int, bool) {
	v, ok := s.height.get()
	return int(v), ok
}

// BitRate returns the stream bit rate in bits/sec.
func (s Stream) BitRate() (int64, bool) { return s.bitRate.get() }

// FrameRate returns the frame rate in frames/sec, taken from
// avg_frame_rate or, failing that, r_frame_rate.
func (s Stream) FrameRate() (float64, bool) { return s.frameRate.get() }

// SampleRate returns the audio sample rate in Hz.
func (s Stream) SampleRate() (int, bool) {
	v, ok := s.sampleRate.get()
	return int(v), ok
}

// Channels returns the audio channel count.
func (s Stream) Channels() (int, bool) {
	v, ok := s.channels.get()
	return int(v), ok
}

// Duration returns the stream's own duration.
func (s Stream) Duration() (time.Duration, bool) { return seconds(s.duration) }

// Tag returns a stream tag such as "language" or "title".
func (s Stream) Tag(key string) (string, bool) {
	v, ok := s.tags[key]
	return v, ok
}

// Language returns the "language" tag.
func (s Stream) Language() (string, bool) { return s.Tag("language") }

// Resolution returns "WxH", or "unknown" when either dimension is absent.
func (s Stream) Resolution() string {
	w, okW := s.Width()
	h, okH := s.Height()
	if !okW || !okH {
		return "unknown"
	}
	return strconv.Itoa(w) + "x" + strconv.Itoa(h)
}

var bitmapSubCodecs = map[string]bool{
	"hdmv_pgs_subtitle": true,
	"dvd_subtitle":      true,
	"dvb_subtitle":      true,
	"xsub":              true,
}

// IsBitmapSubtitle reports whether a subtitle stream is image based.
func (s Stream) IsBitmapSubtitle() bool {
	return s.Kind == KindSubtitle && bitmapSubCodecs[s.Codec]
}

// ProbeResult is the parsed output of a single ffprobe JSON call. It is
// immutable: accessors return copies.
type ProbeResult struct {
	format  Format
	streams []Stream
}

// Format returns the container block.
func (p *ProbeResult) Format() Format { return p.format }

// Streams returns every stream in ffprobe order.
func (p *ProbeResult) Streams() []Stream { return slices.Clone(p.streams) }

// StreamsOf returns the streams of kind in order.
func (p *ProbeResult) StreamsOf(kind StreamKind) []Stream {
	var out []Stream
	for _, s := range p.streams {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}

// VideoStreams returns the video streams in order.
func (p *ProbeResult) VideoStreams() []Stream { return p.StreamsOf(KindVideo) }

// AudioStreams returns the audio streams in order.
func (p *ProbeResult) AudioStreams() []Stream { return p.StreamsOf(KindAudio) }

// SubtitleStreams returns the subtitle streams in order.
func (p *ProbeResult) SubtitleStreams() []Stream { return p.StreamsOf(KindSubtitle) }

func (p *ProbeResult) first(kind StreamKind) (Stream, bool) {
	for _, s := range p.streams {
		if s.Kind == kind {
			return s, true
		}
	}
	return Stream{}, false
}

// PrimaryVideoStream returns the first video stream in original order,
// skipping attached pictures (cover art) unless nothing else exists.
func (p *ProbeResult) PrimaryVideoStream() (Stream, bool) {
	for _, s := range p.streams {
		if s.Kind == KindVideo && !s.IsAttachedPic {
			return s, true
		}
	}
	return p.first(KindVideo)
}

// PrimaryAudioStream returns the first audio stream in original order.
func (p *ProbeResult) PrimaryAudioStream() (Stream, bool) { return p.first(KindAudio) }

// Duration returns the container duration, falling back to the longest
// stream duration. Absent when neither is reported.
func (p *ProbeResult) Duration() (time.Duration, bool) {
	if d, ok := p.format.Duration(); ok {
		return d, true
	}
	var longest time.Duration
	found := false
	for _, s := range p.streams {
		if d, ok := s.Duration(); ok && (!found || d > longest) {
			longest, found = d, true
		}
	}
	return longest, found
}

// BitRate returns the container bit rate in bits/sec.
func (p *ProbeResult) BitRate() (int64, bool) { return p.format.BitRate() }

// VideoBitRate returns the primary video stream bit rate, falling back to
// the container bit rate when the stream does not report one.
func (p *ProbeResult) VideoBitRate() (int64, bool) {
	if v, ok := p.PrimaryVideoStream(); ok {
		if br, ok := v.BitRate(); ok {
			return br, true
		}
	}
	return p.format.BitRate()
}

// HasBitmapSubs reports whether any subtitle stream is image based.
func (p *ProbeResult) HasBitmapSubs() bool {
	for _, s := range p.streams {
		if s.IsBitmapSubtitle() {
			return true
		}
	}
	return false
}

// Resolution returns "WxH" for the primary video stream, or "unknown".
func (p *ProbeResult) Resolution() string {
	v, ok := p.PrimaryVideoStream()
	if !ok {
		return "unknown"
	}
	return v.Resolution()
}
