package logger

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{" warning ", LevelWarn, false},
		{"error", LevelError, false},
		{"loud", LevelInfo, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInitWriter_FiltersByLevel(t *testing.T) {
	defer func() { Log = nil }()

	var buf bytes.Buffer
	InitWriter(LevelWarn, &buf)

	Info("hidden")
	Warn("shown", "key", "value")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record written at warn level: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"key":"value"`) {
		t.Errorf("warn record missing: %s", out)
	}
}

func TestInitLogger_UsesGivenPath(t *testing.T) {
	defer func() { Close(); Log = nil; logWriter = nil }()

	path := filepath.Join(t.TempDir(), "logs", "irisconns.log")
	InitLogger(LevelInfo, path)

	if LogPath != path {
		t.Errorf("LogPath = %q, want %q", LogPath, path)
	}
}
