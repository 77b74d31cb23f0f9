package director

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// GenerateLogPath creates a timestamped flight log filename in dir
func GenerateLogPath(dir string) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("flight_%s.yaml", timestamp))
}

// FindLatestLog finds the most recent flight log in dir
func FindLatestLog(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read log directory: %w", err)
	}

	type candidate struct {
		path string
		mod  time.Time
	}
	var logs []candidate
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		logs = append(logs, candidate{filepath.Join(dir, entry.Name()), info.ModTime()})
	}

	if len(logs) == 0 {
		return "", fmt.Errorf("no flight logs found in %s", dir)
	}

	// Newest first
	sort.Slice(logs, func(i, j int) bool {
		return logs[i].mod.After(logs[j].mod)
	})

	return logs[0].path, nil
}
