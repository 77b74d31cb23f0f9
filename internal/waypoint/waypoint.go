// Package waypoint holds the fixed table of named camera viewpoints.
package waypoint

import (
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// ViewID names one of the camera viewpoints. The set is closed.
type ViewID string

const (
	Front  ViewID = "front"
	Side   ViewID = "side"
	Top    ViewID = "top"
	Detail ViewID = "detail"
)

// Default is the view a fresh camera starts at.
const Default = Front

// ErrUnknownView is returned for identifiers outside the view set.
var ErrUnknownView = errors.New("unknown view")

// views lists the set in canonical order.
var views = []ViewID{Front, Side, Top, Detail}

// Views returns the view set in canonical order.
func Views() []ViewID {
	out := make([]ViewID, len(views))
	copy(out, views)
	return out
}

// Valid reports whether v is a member of the view set.
func (v ViewID) Valid() bool {
	for _, known := range views {
		if v == known {
			return true
		}
	}
	return false
}

func (v ViewID) String() string {
	return string(v)
}

// Waypoint is a camera placement: where the camera sits and what it faces.
type Waypoint struct {
	Position r3.Vec
	LookAt   r3.Vec
}

// Direction returns the unit vector from Position towards LookAt.
func (w Waypoint) Direction() r3.Vec {
	return r3.Unit(r3.Sub(w.LookAt, w.Position))
}

// Registry maps every ViewID to its Waypoint. It is immutable after
// construction and safe for concurrent readers.
type Registry struct {
	table map[ViewID]Waypoint
}

// DefaultTable returns the built-in placements around a model at the origin.
func DefaultTable() map[ViewID]Waypoint {
	return map[ViewID]Waypoint{
		Front:  {Position: r3.Vec{X: 0, Y: 2, Z: 5}, LookAt: r3.Vec{}},
		Side:   {Position: r3.Vec{X: 5, Y: 2, Z: 0}, LookAt: r3.Vec{}},
		Top:    {Position: r3.Vec{X: 0, Y: 8, Z: 0.01}, LookAt: r3.Vec{}},
		Detail: {Position: r3.Vec{X: 1, Y: 1, Z: 2}, LookAt: r3.Vec{X: 0, Y: 0.5, Z: 0}},
	}
}

// NewRegistry builds a registry from overrides layered on DefaultTable.
// Overrides may only name views from the fixed set.
func NewRegistry(overrides map[ViewID]Waypoint) (*Registry, error) {
	table := DefaultTable()
	for id, wp := range overrides {
		if !id.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownView, string(id))
		}
		if r3.Norm(r3.Sub(wp.LookAt, wp.Position)) == 0 {
			return nil, fmt.Errorf("waypoint %s: position equals look_at", id)
		}
		table[id] = wp
	}
	return &Registry{table: table}, nil
}

// MustDefault returns a registry over the built-in table.
func MustDefault() *Registry {
	reg, err := NewRegistry(nil)
	if err != nil {
		panic(err)
	}
	return reg
}

// Resolve returns the waypoint for id.
func (r *Registry) Resolve(id ViewID) (Waypoint, error) {
	wp, ok := r.table[id]
	if !ok {
		return Waypoint{}, fmt.Errorf("%w: %q", ErrUnknownView, string(id))
	}
	return wp, nil
}

// Lookup matches a free-form token against the view set, ignoring case and
// surrounding whitespace.
func (r *Registry) Lookup(token string) (ViewID, bool) {
	id := ViewID(strings.ToLower(strings.TrimSpace(token)))
	if _, ok := r.table[id]; !ok {
		return "", false
	}
	return id, true
}

// Views returns the registered views in canonical order.
func (r *Registry) Views() []ViewID {
	return Views()
}
