// Package runner is the boundary between fflight and the external ffmpeg
// and ffprobe processes.
//
// [Runner] spawns a program with a discrete argument vector and [Resolver]
// locates binaries; [ExecRunner] and [PathResolver] are the os/exec
// implementations. [Tool] combines them with stderr diagnosis so callers
// receive classified *fferr.Error values. Package runnertest provides
// recording fakes for tests.
package runner
