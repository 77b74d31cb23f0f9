package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/ivlev/tourcam/internal/waypoint"
)

// WaypointFile is the on-disk shape of a waypoint override file:
//
//	waypoints:
//	  side:
//	    position: [6, 2, 0]
//	    look_at: [0, 0.5, 0]
type WaypointFile struct {
	Waypoints map[string]WaypointEntry `yaml:"waypoints"`
}

// WaypointEntry is one view placement.
type WaypointEntry struct {
	Position []float64 `yaml:"position"`
	LookAt   []float64 `yaml:"look_at"`
}

// ReadWaypoints reads overrides from a YAML file.
func ReadWaypoints(path string) (map[waypoint.ViewID]waypoint.Waypoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseWaypoints(data)
}

// ParseWaypoints decodes overrides. Unknown fields and views outside the
// fixed set are rejected.
func ParseWaypoints(data []byte) (map[waypoint.ViewID]waypoint.Waypoint, error) {
	var file WaypointFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse waypoints: %w", err)
	}

	out := make(map[waypoint.ViewID]waypoint.Waypoint, len(file.Waypoints))
	for name, entry := range file.Waypoints {
		id := waypoint.ViewID(name)
		if !id.Valid() {
			return nil, fmt.Errorf("waypoints: %w: %q", waypoint.ErrUnknownView, name)
		}
		pos, err := vec(entry.Position)
		if err != nil {
			return nil, fmt.Errorf("waypoint %s position: %w", name, err)
		}
		look, err := vec(entry.LookAt)
		if err != nil {
			return nil, fmt.Errorf("waypoint %s look_at: %w", name, err)
		}
		out[id] = waypoint.Waypoint{Position: pos, LookAt: look}
	}
	return out, nil
}

// LoadRegistry builds the registry, layering the file at path (if any) over
// the defaults.
func LoadRegistry(path string) (*waypoint.Registry, error) {
	if path == "" {
		return waypoint.NewRegistry(nil)
	}
	overrides, err := ReadWaypoints(path)
	if err != nil {
		return nil, err
	}
	return waypoint.NewRegistry(overrides)
}

func vec(v []float64) (r3.Vec, error) {
	if len(v) != 3 {
		return r3.Vec{}, fmt.Errorf("expected 3 components, got %d", len(v))
	}
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}, nil
}
