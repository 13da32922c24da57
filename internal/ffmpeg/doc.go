// Package ffmpeg assembles ffmpeg invocations.
//
// [TranscodeBuilder] accumulates a transcode job through chained setters
// and renders a fixed-order argument vector:
//
//	-y|-n  [-ss S] [-to E]  -i IN  [-c:v] [-c:a] [-b:v] [-b:a] [-r]
//	[-vf VIDEO] [-af AUDIO] [-preset]  EXTRA...  OUT
//
// A Trim in the video chain is lifted to input seeking instead of being
// rendered into the filter graph. -ss/-to sit before -i, not after it,
// so the range is applied while demuxing rather than after decode. An
// explicit Size becomes the first stage of -vf, ahead of any Scale
// filters. [TranscodeBuilder.FilterGraph] renders the same chains as one
// labeled -filter_complex graph.
//
// [GenerateThumbnail] extracts a single frame as PNG or JPEG.
//
// Both hand the vector to a [runner.Tool], which performs exactly one
// process invocation and classifies a failure into an fferr.Error.
package ffmpeg
