package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{" error ", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err: got %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("level: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNew_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := New("warn", &buf)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	l.Info("hidden")
	l.Warn("shown", "count", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info record should be filtered at warn level")
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "count=3") {
		t.Errorf("warn record missing, got %q", out)
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	if l.Enabled(context.Background(), slog.LevelError) {
		t.Error("Nop logger should not be enabled at any level")
	}
	l.Error("dropped")
}
