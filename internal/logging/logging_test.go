package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewWithOutput_Levels(t *testing.T) {
	tests := []struct {
		in   string
		want logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"WARN", logrus.WarnLevel},
		{"error", logrus.ErrorLevel},
		{"", logrus.InfoLevel},
		{"chatty", logrus.InfoLevel},
	}
	for _, tt := range tests {
		l := NewWithOutput(&bytes.Buffer{}, tt.in, "text")
		if l.GetLevel() != tt.want {
			t.Errorf("level %q = %v, want %v", tt.in, l.GetLevel(), tt.want)
		}
	}
}

func TestNewWithOutput_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithOutput(&buf, "info", "json")
	l.WithField("scenario", "Personal").Info("recomputed")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "recomputed" || entry["scenario"] != "Personal" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestNewWithOutput_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithOutput(&buf, "warn", "text")
	l.Info("hidden")
	l.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line leaked at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn line missing: %q", out)
	}
}
