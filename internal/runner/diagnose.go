package runner

import "regexp"

// diagnosis pairs a stderr pattern with a recovery hint. Entries are
// checked in order; the first match wins.
type diagnosis struct {
	re   *regexp.Regexp
	hint string
}

var diagnoses = []diagnosis{
	{
		regexp.MustCompile(`(?i)Unknown encoder|Encoder .* not found|Codec .* is not supported`),
		"check the codec name; 'ffmpeg -encoders' lists what this build supports",
	},
	{
		regexp.MustCompile(`No such file or directory`),
		"check that the input path exists and is spelled correctly",
	},
	{
		regexp.MustCompile(`Permission denied`),
		"check read permission on the input and write permission on the output directory",
	},
	{
		regexp.MustCompile(`(?i)Error parsing (a )?filter|No such filter|Error (re)?initializing filter|Invalid argument`),
		"check the filter expressions and their escaping",
	},
	{
		regexp.MustCompile(`already exists`),
		"enable overwrite or choose a different output path",
	},
	{
		regexp.MustCompile(`Invalid data found when processing input`),
		"the input may be corrupt or in an unsupported format",
	},
}

// Diagnose matches ffmpeg/ffprobe stderr against known failure patterns
// and returns a recovery hint.
func Diagnose(stderr string) (string, bool) {
	for _, d := range diagnoses {
		if d.re.MatchString(stderr) {
			return d.hint, true
		}
	}
	return "", false
}
