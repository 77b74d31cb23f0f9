package system

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestCollect(t *testing.T) {
	r := Collect("test", "s-1", time.Now().Add(-2*time.Second), 120, 3, 1)

	if r.Frames != 120 || r.Turns != 3 || r.Fallbacks != 1 {
		t.Errorf("Counters not copied: %+v", r)
	}
	if r.Wall < 2*time.Second {
		t.Errorf("Expected wall time >= 2s, got %v", r.Wall)
	}
	if r.Goroutines < 1 {
		t.Errorf("Expected at least one goroutine, got %d", r.Goroutines)
	}
	if fps := r.FPS(); fps <= 0 || fps > 61 {
		t.Errorf("Unexpected FPS %f", fps)
	}

	report := r.String()
	for _, want := range []string{"PERFORMANCE REPORT", "Session: s-1", "Turns: 3"} {
		if !strings.Contains(report, want) {
			t.Errorf("Report should contain %q:\n%s", want, report)
		}
	}
	t.Logf("\n%s", report)
}

func TestAppendBenchmark(t *testing.T) {
	path := filepath.Join(t.TempDir(), "benchmark.log")
	r := Report{Build: "dev", Session: "abc", Frames: 10}

	for i := 0; i < 2; i++ {
		if err := AppendBenchmark(path, r); err != nil {
			t.Fatalf("AppendBenchmark failed: %v", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if lines := strings.Count(string(data), "\n"); lines != 2 {
		t.Errorf("Expected 2 lines, got %d", lines)
	}
}

func TestSetLogger(t *testing.T) {
	defer SetLogger(log.Printf)

	var got []string
	SetLogger(func(format string, v ...interface{}) { got = append(got, format) })
	Logf("[*] hello")
	if len(got) != 1 {
		t.Fatalf("Expected 1 log call, got %d", len(got))
	}

	SetLogger(nil)
	Logf("[*] muted")
	if len(got) != 1 {
		t.Error("Nil logger should mute output")
	}
}
