package term

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/backmassage/fflight/internal/config"
)

func TestConfigure(t *testing.T) {
	t.Cleanup(func() { Configure(config.ColorNever) })

	if !Configure(config.ColorAlways) || !Enabled() {
		t.Fatal("ColorAlways should enable colors")
	}
	if Red == "" || NC == "" {
		t.Error("color variables should be set")
	}
	if Configure(config.ColorNever) || Enabled() {
		t.Fatal("ColorNever should disable colors")
	}
	if Red != "" || NC != "" {
		t.Error("color variables should be cleared")
	}
}

func TestResolveAutoOnRegularFile(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if IsTerminal(f) {
		t.Error("a regular file is not a terminal")
	}
	if resolve(config.ColorAuto, f) {
		t.Error("auto mode should not color a regular file")
	}
	if IsTerminal(nil) {
		t.Error("nil file is not a terminal")
	}
}
