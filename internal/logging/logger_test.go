package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/backmassage/fflight/internal/config"
)

func TestNewLogger_NoFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LogFile = ""
	cfg.ColorMode = config.ColorNever
	l, err := NewLogger(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	l.Info("test message")
}

func TestNewLogger_WithFile(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	cfg.LogFile = filepath.Join(dir, "nested", "fflight.log")
	l, err := NewLogger(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	l.Info("to file")
	l.Success("done")
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
	b, _ := os.ReadFile(cfg.LogFile)
	if !bytes.Contains(b, []byte(`"level":"info"`)) || !bytes.Contains(b, []byte("to file")) {
		t.Errorf("log file content: %s", string(b))
	}
	if !bytes.Contains(b, []byte(`"level":"success"`)) {
		t.Errorf("success entry missing: %s", string(b))
	}
	if n := bytes.Count(b, []byte("\n")); n != 2 {
		t.Errorf("expected 2 JSON lines, got %d", n)
	}
}

func TestNewWriter_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, false)

	l.Info("hello %s", "world")
	l.Warn("careful")
	l.Error("broken")
	l.Success("finished")
	l.Debug(false, "hidden")

	out := buf.String()
	for _, want := range []string{"[INFO] hello world", "[WARN] careful", "[ERROR] broken", "[SUCCESS] finished"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "hidden") {
		t.Error("Debug(false) should not log")
	}
}

func TestDebug_VerboseFlag(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, false)
	l.Debug(true, "shown %d", 42)
	if !strings.Contains(buf.String(), "[DEBUG] shown 42") {
		t.Errorf("Debug(true) should log regardless of level: %q", buf.String())
	}
}

func TestComponentFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, true)
	zl := l.Component("runner")
	zl.Debug().Str("binary", "ffmpeg").Msg("spawn")
	if !strings.Contains(buf.String(), "component=runner") || !strings.Contains(buf.String(), "binary=ffmpeg") {
		t.Errorf("structured fields missing: %q", buf.String())
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Info("nothing")
	l.Debug(true, "nothing")
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
}
