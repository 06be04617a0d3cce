package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{" warn ", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"trace", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestOpenAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "docpub.log")

	for _, msg := range []string{"first", "second"} {
		logger, closer, err := Open(path, "info")
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		logger.Info(msg, "attempt", "x")
		logger.Debug("hidden")
		if err := closer.Close(); err != nil {
			t.Fatal(err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, "msg=first") || !strings.Contains(out, "msg=second") {
		t.Errorf("log = %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line written at info level: %q", out)
	}
}

func TestOpenBadLevel(t *testing.T) {
	if _, _, err := Open(filepath.Join(t.TempDir(), "x.log"), "loud"); err == nil {
		t.Error("Open accepted an unknown level")
	}
}
