package system

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// Report summarises one run.
type Report struct {
	Build      string
	Session    string
	Wall       time.Duration
	Frames     int
	Turns      int
	Fallbacks  int
	RSS        uint64  // Resident set size in bytes, 0 if unavailable
	CPUPercent float64 // Average CPU use since process start
	Goroutines int
}

// Collect fills a Report with process figures from the OS.
func Collect(build, session string, started time.Time, frames, turns, fallbacks int) Report {
	r := Report{
		Build:      build,
		Session:    session,
		Wall:       time.Since(started),
		Frames:     frames,
		Turns:      turns,
		Fallbacks:  fallbacks,
		Goroutines: runtime.NumGoroutine(),
	}

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		Logf("[!] Process stats unavailable: %v", err)
		return r
	}
	if mem, err := p.MemoryInfo(); err == nil {
		r.RSS = mem.RSS
	}
	if cpu, err := p.CPUPercent(); err == nil {
		r.CPUPercent = cpu
	}
	return r
}

// FPS is the effective frame rate over the run.
func (r Report) FPS() float64 {
	if r.Wall <= 0 {
		return 0
	}
	return float64(r.Frames) / r.Wall.Seconds()
}

func (r Report) String() string {
	return fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Session: %s\n"+
			"Total Time: %.2fs\n"+
			"Frames: %d (%.2f FPS)\n"+
			"Turns: %d (fallbacks: %d)\n"+
			"Memory (RSS): %.1f MiB\n"+
			"CPU: %.1f%%\n"+
			"Goroutines: %d\n"+
			"----------------------------\n",
		r.Build, r.Session, r.Wall.Seconds(), r.Frames, r.FPS(), r.Turns, r.Fallbacks,
		float64(r.RSS)/(1<<20), r.CPUPercent, r.Goroutines,
	)
}

// AppendBenchmark appends a one-line summary of r to the log at path.
func AppendBenchmark(path string, r Report) error {
	entry := fmt.Sprintf("[%s] Build: %s | Session: %s | Total: %.2fs | Frames: %d | Turns: %d | Fallbacks: %d | RSS: %d\n",
		time.Now().Format("2006-01-02 15:04:05"),
		r.Build, r.Session, r.Wall.Seconds(), r.Frames, r.Turns, r.Fallbacks, r.RSS,
	)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(entry)
	return err
}
