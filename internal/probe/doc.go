// Package probe runs ffprobe and turns its JSON output into a typed,
// queryable [ProbeResult].
//
// Every optional numeric field is exposed through a (value, ok) accessor:
// a stream without a bit_rate reports ok == false, never 0. Numeric fields
// are accepted both as JSON numbers and as the strings ffprobe usually
// emits, and ratios such as "30000/1001" are reduced to float rates.
package probe
