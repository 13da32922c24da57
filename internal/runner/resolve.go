package runner

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Resolver maps a tool name ("ffmpeg", "ffprobe") to an executable path.
type Resolver interface {
	Resolve(name string) (string, bool)
}

// PathResolver resolves explicit overrides first, then PATH.
//
// When only an explicit ffmpeg path is configured, ffprobe is looked for
// next to it before falling back to PATH, so a self-contained ffmpeg build
// is used as a pair.
type PathResolver struct {
	overrides map[string]string
	goos      string
	lookPath  func(string) (string, error)
}

// NewPathResolver returns a resolver honoring the given overrides. Empty
// overrides mean "search PATH".
func NewPathResolver(ffmpegPath, ffprobePath string) *PathResolver {
	return &PathResolver{
		overrides: map[string]string{
			"ffmpeg":  strings.TrimSpace(ffmpegPath),
			"ffprobe": strings.TrimSpace(ffprobePath),
		},
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
	}
}

// Resolve implements Resolver. An explicit override that does not resolve
// reports absence rather than silently falling back to PATH.
func (r *PathResolver) Resolve(name string) (string, bool) {
	if p := r.overrides[name]; p != "" {
		return r.look(p)
	}
	if name == "ffprobe" {
		if ff := r.overrides["ffmpeg"]; ff != "" && strings.ContainsRune(ff, filepath.Separator) {
			if sibling, ok := siblingCandidate(ff, "ffprobe", r.goos); ok && isExecutable(sibling, r.goos) {
				return sibling, true
			}
		}
	}
	return r.look(name)
}

func (r *PathResolver) look(name string) (string, bool) {
	p, err := r.lookPath(name)
	if err != nil {
		return "", false
	}
	return p, true
}

// siblingCandidate returns the path of tool in the same directory as
// reference.
func siblingCandidate(reference, tool, goos string) (string, bool) {
	if reference == "" {
		return "", false
	}
	name := tool
	if goos == "windows" {
		name += ".exe"
	}
	return filepath.Join(filepath.Dir(reference), name), true
}

func isExecutable(path, goos string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	if goos == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}

// InstallSuggestion returns a platform-specific hint for installing
// ffmpeg, keyed by a GOOS value.
func InstallSuggestion(goos string) string {
	switch goos {
	case "darwin":
		return "install FFmpeg with Homebrew: brew install ffmpeg"
	case "windows":
		return "download an FFmpeg build from https://ffmpeg.org/download.html " +
			"(e.g. https://www.gyan.dev/ffmpeg/builds/) and add its bin folder to PATH"
	case "linux":
		return "install FFmpeg with your package manager, e.g. 'sudo apt install ffmpeg' " +
			"or 'sudo dnf install ffmpeg'"
	case "freebsd":
		return "install FFmpeg with 'pkg install ffmpeg'"
	}
	return "install FFmpeg from https://ffmpeg.org/download.html and make sure it is on PATH"
}
