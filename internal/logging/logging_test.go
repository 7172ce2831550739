package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want logrus.Level
	}{
		{"default", Options{}, logrus.WarnLevel},
		{"verbose", Options{Verbose: true}, logrus.DebugLevel},
		{"explicit wins", Options{Verbose: true, Level: "error"}, logrus.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(&bytes.Buffer{}, tt.opts)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if got := l.GetLevel(); got != tt.want {
				t.Errorf("level = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNew_BadLevel(t *testing.T) {
	if _, err := New(&bytes.Buffer{}, Options{Level: "loud"}); err == nil {
		t.Fatal("expected error for unknown level, got nil")
	}
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dtilists.log")
	var buf bytes.Buffer

	l, err := New(&buf, Options{Verbose: true, File: path, MaxSizeMB: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.WithField("subject", "A").Debug("created analysis layout")
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "subject=A") {
		t.Errorf("log file missing field: %q", string(data))
	}
	if !strings.Contains(buf.String(), "created analysis layout") {
		t.Errorf("stderr writer missing message: %q", buf.String())
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Error("dropped")
	if err := l.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
