// Package filter models ffmpeg video and audio filters as typed values and
// composes them into filtergraph expressions.
//
// Each filter variant renders itself to one fragment ("scale=1280:720",
// "loudnorm=I=-16"). Parameters are checked when rendering, so a filter
// can be built, stored and inspected before it is known to be valid.
// [Chain] joins fragments in order; [EscapeExpr] protects custom
// expressions from the filtergraph's structural characters.
package filter
