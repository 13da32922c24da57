package display

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/backmassage/fflight/internal/probe"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

const unknown = "-"

// RenderProbe renders a container summary followed by a stream table.
func RenderProbe(path string, pr *probe.ProbeResult) string {
	f := pr.Format()

	summary := [][]string{
		{"File", path},
		{"Container", orUnknown(f.FormatName)},
		{"Duration", durationLabel(pr)},
		{"Size", sizeLabel(f)},
		{"Bitrate", bitrateLabel(pr.BitRate())},
		{"Video", videoSummary(pr)},
	}

	streams := pr.Streams()
	rows := make([][]string, 0, len(streams))
	for _, s := range streams {
		lang, _ := s.Language()
		rows = append(rows, []string{
			strconv.Itoa(s.Index),
			s.Kind.String(),
			orUnknown(s.Codec),
			streamDetails(s),
			orUnknown(lang),
			bitrateLabel(s.BitRate()),
			streamFlags(s),
		})
	}

	var b strings.Builder
	b.WriteString(renderTable([]string{"Field", "Value"}, summary, nil))
	b.WriteString("\n")
	b.WriteString(renderTable(
		[]string{"#", "Type", "Codec", "Details", "Lang", "Bitrate", "Flags"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	))
	return b.String()
}

func orUnknown(s string) string {
	if s == "" {
		return unknown
	}
	return s
}

func durationLabel(pr *probe.ProbeResult) string {
	d, ok := pr.Duration()
	if !ok {
		return unknown
	}
	return FormatDuration(d)
}

func sizeLabel(f probe.Format) string {
	n, ok := f.Size()
	if !ok {
		return unknown
	}
	return FormatBytes(n)
}

func bitrateLabel(bps int64, ok bool) string {
	if !ok {
		return unknown
	}
	return FormatBitrate(bps)
}

func videoSummary(pr *probe.ProbeResult) string {
	v, ok := pr.PrimaryVideoStream()
	if !ok {
		return "none"
	}
	parts := []string{v.Codec, pr.Resolution()}
	if pr.IsHDR() {
		parts = append(parts, pr.HDRType())
	}
	if pr.IsInterlaced() {
		parts = append(parts, "interlaced")
	}
	return strings.Join(parts, ", ")
}

func streamDetails(s probe.Stream) string {
	switch s.Kind {
	case probe.KindVideo:
		out := s.Resolution()
		if fps, ok := s.FrameRate(); ok {
			out += fmt.Sprintf(" @ %.3f fps", fps)
		}
		if s.PixFmt != "" {
			out += " " + s.PixFmt
		}
		return out
	case probe.KindAudio:
		var parts []string
		if hz, ok := s.SampleRate(); ok {
			parts = append(parts, strconv.Itoa(hz)+" Hz")
		}
		if s.ChannelLayout != "" {
			parts = append(parts, s.ChannelLayout)
		} else if ch, ok := s.Channels(); ok {
			parts = append(parts, strconv.Itoa(ch)+" ch")
		}
		if len(parts) == 0 {
			return unknown
		}
		return strings.Join(parts, ", ")
	case probe.KindSubtitle:
		if s.IsBitmapSubtitle() {
			return "bitmap"
		}
		return "text"
	}
	if title, ok := s.Tag("title"); ok {
		return title
	}
	return ""
}

func streamFlags(s probe.Stream) string {
	var flags []string
	if s.IsDefault {
		flags = append(flags, "default")
	}
	if s.IsAttachedPic {
		flags = append(flags, "cover")
	}
	return strings.Join(flags, ",")
}
