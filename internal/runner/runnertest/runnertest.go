// Package runnertest provides fakes for runner.Runner and runner.Resolver.
package runnertest

import (
	"context"
	"slices"
	"sync"

	"github.com/backmassage/fflight/internal/runner"
)

// Call is one recorded invocation.
type Call struct {
	Program string
	Args    []string
}

// Recorder is a Runner that records every call and replies with a canned
// result. It never spawns a process.
type Recorder struct {
	mu    sync.Mutex
	calls []Call

	// Result is returned for every call unless Respond is set.
	Result runner.Result
	// Err is returned alongside Result.
	Err error
	// Respond, when set, computes the reply per call.
	Respond func(program string, args []string) (runner.Result, error)
}

// Run implements runner.Runner.
func (r *Recorder) Run(_ context.Context, program string, args []string) (runner.Result, error) {
	r.mu.Lock()
	r.calls = append(r.calls, Call{Program: program, Args: slices.Clone(args)})
	r.mu.Unlock()
	if r.Respond != nil {
		return r.Respond(program, args)
	}
	return r.Result, r.Err
}

// Calls returns a copy of the recorded calls in order.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.calls)
}

// Resolver maps names to fixed paths. Names not in the map are absent.
type Resolver map[string]string

// Resolve implements runner.Resolver.
func (r Resolver) Resolve(name string) (string, bool) {
	p, ok := r[name]
	return p, ok
}

// DefaultResolver resolves ffmpeg and ffprobe to /usr/bin paths.
func DefaultResolver() Resolver {
	return Resolver{"ffmpeg": "/usr/bin/ffmpeg", "ffprobe": "/usr/bin/ffprobe"}
}

// NewTool returns a runner.Tool backed by rec and DefaultResolver.
func NewTool(rec *Recorder) *runner.Tool {
	return &runner.Tool{Runner: rec, Resolver: DefaultResolver(), GOOS: "linux"}
}
