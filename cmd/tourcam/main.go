package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ivlev/tourcam/internal/camera"
	"github.com/ivlev/tourcam/internal/config"
	"github.com/ivlev/tourcam/internal/director"
	"github.com/ivlev/tourcam/internal/intent"
	"github.com/ivlev/tourcam/internal/renderer"
	"github.com/ivlev/tourcam/internal/system"
	"github.com/ivlev/tourcam/internal/transport"
	"github.com/ivlev/tourcam/internal/tui"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const (
	logDir        = "output"
	benchmarkFile = "benchmark.log"
)

func main() {
	waypointsPtr := flag.String("waypoints", "", "YAML file with waypoint overrides")
	transportPtr := flag.String("transport", config.TransportGuide, "Reply source: guide (offline) or gemini")
	stylePtr := flag.String("guide-style", string(transport.StyleStrict), "Offline guide reply format: strict, fenced, chatty")
	modelPtr := flag.String("model", transport.DefaultGeminiModel, "Gemini model name")
	structuredPtr := flag.Bool("structured", false, "Ask Gemini for schema-enforced JSON replies")
	fpsPtr := flag.Int("fps", 60, "Frames per second")
	dampingPtr := flag.Float64("damping", camera.DefaultDamping, "Fraction of the remaining distance covered per frame")
	thresholdPtr := flag.Float64("threshold", camera.DefaultThreshold, "Distance at which a transition counts as arrived")
	maxTicksPtr := flag.Int("max-ticks", camera.DefaultMaxTicks, "Frames before a transition is abandoned")
	historyPtr := flag.Int("history", 10, "Conversation turns sent with each request")
	trailPtr := flag.Int("trail", 2048, "Camera poses kept for the preview")
	scriptPtr := flag.String("script", "", "Run headless, one request per line from this file")
	replayPtr := flag.String("replay", "", "Replay a flight log (\"latest\" picks the newest in output/)")
	logPtr := flag.String("log", "", "Write a flight log to this file, or into this directory")
	previewPtr := flag.String("preview", "", "Write a top-down PNG of the camera path")
	previewWPtr := flag.Int("preview-width", 640, "Preview width")
	previewHPtr := flag.Int("preview-height", 480, "Preview height")
	statsPtr := flag.Bool("stats", false, "Print a performance report and append it to benchmark.log")

	flag.Parse()

	cfg := &config.Config{
		WaypointsPath: *waypointsPtr,
		Transport:     *transportPtr,
		GuideStyle:    *stylePtr,
		Model:         *modelPtr,
		APIKey:        os.Getenv(transport.APIKeyEnv),
		Structured:    *structuredPtr,
		FPS:           *fpsPtr,
		Damping:       *dampingPtr,
		Threshold:     *thresholdPtr,
		MaxTicks:      *maxTicksPtr,
		HistoryLimit:  *historyPtr,
		TrailLimit:    *trailPtr,
		ScriptPath:    *scriptPtr,
		ReplayPath:    *replayPtr,
		LogPath:       *logPtr,
		PreviewPath:   *previewPtr,
		PreviewWidth:  *previewWPtr,
		PreviewHeight: *previewHPtr,
		ShowStats:     *statsPtr,
		BuildVersion:  version,
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[-] Invalid configuration: %v", err)
	}

	reg, err := config.LoadRegistry(cfg.WaypointsPath)
	if err != nil {
		log.Fatalf("[-] Failed to load waypoints: %v", err)
	}
	ctrl, err := camera.New(reg, cfg.Tuning())
	if err != nil {
		log.Fatalf("[-] Failed to create camera: %v", err)
	}

	session := director.NewSession(intent.NewParser(reg), ctrl, director.Options{
		HistoryLimit: cfg.HistoryLimit,
		TrailLimit:   cfg.TrailLimit,
		DefaultReply: director.DefaultReply,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch {
	case !cfg.Headless():
		tr, err := newTransport(cfg)
		if err != nil {
			log.Fatalf("[-] %v", err)
		}
		f, err := tea.LogToFile("tourcam.log", "tourcam")
		if err != nil {
			log.Fatalf("[-] Failed to open log file: %v", err)
		}
		defer f.Close()

		p := tea.NewProgram(tui.New(session, tr, cfg.FPS), tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			log.Fatalf("[-] Terminal error: %v", err)
		}

	case cfg.ReplayPath != "":
		path := cfg.ReplayPath
		if path == "latest" {
			if path, err = director.FindLatestLog(logDir); err != nil {
				log.Fatalf("[-] %v", err)
			}
			fmt.Printf("[*] Replaying: %s\n", path)
		}
		flight, err := director.ReadFlightLog(path)
		if err != nil {
			log.Fatalf("[-] Failed to read flight log: %v", err)
		}
		runReplay(session, flight, os.Stdout)

	default:
		tr, err := newTransport(cfg)
		if err != nil {
			log.Fatalf("[-] %v", err)
		}
		requests, err := readScript(cfg.ScriptPath)
		if err != nil {
			log.Fatalf("[-] %v", err)
		}
		fmt.Printf("[*] Session %s: %d requests via %s\n", session.ID, len(requests), cfg.Transport)
		if err := runScript(ctx, session, tr, requests, cfg.FPS, os.Stdout); err != nil {
			if !errors.Is(err, context.Canceled) {
				log.Fatalf("[-] Script failed: %v", err)
			}
			log.Printf("[!] Interrupted after %d turns", len(session.Turns()))
		}
	}

	if err := finish(cfg, session); err != nil {
		log.Fatalf("[-] %v", err)
	}
}

func newTransport(cfg *config.Config) (transport.Transport, error) {
	switch cfg.Transport {
	case config.TransportGemini:
		client := &http.Client{Timeout: 30 * time.Second}
		g := transport.NewGemini(client, cfg.APIKey, cfg.Model)
		if cfg.Structured {
			g.EnableStructured()
		}
		return g, nil
	default:
		style, err := transport.ParseGuideStyle(cfg.GuideStyle)
		if err != nil {
			return nil, err
		}
		return transport.NewGuide(style), nil
	}
}

// finish writes the requested artifacts once the session is over.
func finish(cfg *config.Config, session *director.Session) error {
	if cfg.LogPath != "" {
		path := cfg.LogPath
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			path = director.GenerateLogPath(path)
		}
		if err := director.WriteFlightLog(session.FlightLog(), path); err != nil {
			return fmt.Errorf("failed to write flight log: %w", err)
		}
		fmt.Printf("[+++] Flight log: %s\n", path)
	}

	if cfg.PreviewPath != "" {
		img := renderer.Preview(session.Camera().Registry(), session.Trail(), cfg.PreviewWidth, cfg.PreviewHeight)
		if err := renderer.WritePNG(cfg.PreviewPath, img); err != nil {
			return fmt.Errorf("failed to write preview: %w", err)
		}
		fmt.Printf("[+++] Preview: %s\n", cfg.PreviewPath)
	}

	if cfg.ShowStats {
		report := system.Collect(cfg.BuildVersion, session.ID, session.Started,
			session.Frame(), len(session.Turns()), session.Fallbacks())
		fmt.Print(report.String())
		if err := system.AppendBenchmark(benchmarkFile, report); err != nil {
			log.Printf("[!] Failed to write %s: %v", benchmarkFile, err)
		}
	}
	return nil
}
