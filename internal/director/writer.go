package director

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrFlightLogVersion is returned for logs written by another format version.
var ErrFlightLogVersion = errors.New("unsupported flight log version")

// WriteFlightLog writes log as YAML to path, creating the parent directory.
func WriteFlightLog(log *FlightLog, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create log directory %s: %w", dir, err)
		}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(log); err != nil {
		return fmt.Errorf("failed to encode flight log: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode flight log: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write flight log %s: %w", path, err)
	}
	return nil
}

// ReadFlightLog loads a flight log written by WriteFlightLog. Logs with a
// different version or unknown fields are rejected.
func ReadFlightLog(path string) (*FlightLog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read flight log %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var log FlightLog
	if err := dec.Decode(&log); err != nil {
		return nil, fmt.Errorf("failed to parse flight log %s: %w", path, err)
	}
	if log.Version != FlightLogVersion {
		return nil, fmt.Errorf("%s: %w %q, want %q", path, ErrFlightLogVersion, log.Version, FlightLogVersion)
	}

	return &log, nil
}
