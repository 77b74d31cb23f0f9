package director

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteFlightLogCreatesDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output", "nested", "flight.yaml")
	log := &FlightLog{Version: FlightLogVersion, Session: "abc", Frames: 3}

	if err := WriteFlightLog(log, path); err != nil {
		t.Fatalf("WriteFlightLog failed: %v", err)
	}

	got, err := ReadFlightLog(path)
	if err != nil {
		t.Fatalf("ReadFlightLog failed: %v", err)
	}
	if got.Session != "abc" || got.Frames != 3 {
		t.Errorf("Unexpected log: %+v", got)
	}
}

func TestReadFlightLogRejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
		version bool
	}{
		{"wrong version", "version: \"0.9\"\nsession: abc\nframes: 1\n", true},
		{"missing version", "session: abc\nframes: 1\n", true},
		{"unknown field", "version: \"1.0\"\nkeyframes: []\n", false},
		{"not yaml", "version: [1.0\n", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "flight.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			_, err := ReadFlightLog(path)
			if err == nil {
				t.Fatalf("Expected error for %q", tt.content)
			}
			if errors.Is(err, ErrFlightLogVersion) != tt.version {
				t.Errorf("errors.Is(err, ErrFlightLogVersion) = %v, want %v (err: %v)", !tt.version, tt.version, err)
			}
			if !strings.Contains(err.Error(), path) {
				t.Errorf("Error should name the file: %v", err)
			}
			t.Logf("Rejected: %v", err)
		})
	}
}

func TestReadFlightLogMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")
	_, err := ReadFlightLog(path)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected os.ErrNotExist, got %v", err)
	}
}
