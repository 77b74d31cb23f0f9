package waypoint

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestResolveDeterministic(t *testing.T) {
	reg := MustDefault()

	for _, v := range Views() {
		first, err := reg.Resolve(v)
		if err != nil {
			t.Fatalf("Resolve(%s) failed: %v", v, err)
		}
		for i := 0; i < 3; i++ {
			again, err := reg.Resolve(v)
			if err != nil {
				t.Fatalf("Resolve(%s) failed: %v", v, err)
			}
			if again != first {
				t.Errorf("Resolve(%s) changed between calls: %v vs %v", v, first, again)
			}
		}
	}
}

func TestResolveUnknown(t *testing.T) {
	reg := MustDefault()

	_, err := reg.Resolve("warp")
	if !errors.Is(err, ErrUnknownView) {
		t.Errorf("Expected ErrUnknownView, got %v", err)
	}
}

func TestLookup(t *testing.T) {
	reg := MustDefault()

	tests := []struct {
		token  string
		want   ViewID
		wantOK bool
	}{
		{"front", Front, true},
		{"SIDE", Side, true},
		{"  Top ", Top, true},
		{"detail", Detail, true},
		{"", "", false},
		{"warp", "", false},
		{"front view", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, ok := reg.Lookup(tt.token)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Lookup(%q) = (%q, %v), want (%q, %v)", tt.token, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestNewRegistryOverrides(t *testing.T) {
	closer := Waypoint{Position: r3.Vec{X: 0.5, Y: 0.5, Z: 1}, LookAt: r3.Vec{}}

	reg, err := NewRegistry(map[ViewID]Waypoint{Detail: closer})
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	got, _ := reg.Resolve(Detail)
	if got != closer {
		t.Errorf("Expected override %v, got %v", closer, got)
	}

	front, _ := reg.Resolve(Front)
	if front != DefaultTable()[Front] {
		t.Errorf("Front should keep its default, got %v", front)
	}
}

func TestNewRegistryRejects(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[ViewID]Waypoint
	}{
		{"unknown view", map[ViewID]Waypoint{"orbit": {Position: r3.Vec{X: 1}}}},
		{"degenerate", map[ViewID]Waypoint{Side: {Position: r3.Vec{X: 1}, LookAt: r3.Vec{X: 1}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewRegistry(tt.overrides); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestDirectionIsUnit(t *testing.T) {
	for id, wp := range DefaultTable() {
		n := r3.Norm(wp.Direction())
		if n < 0.999999 || n > 1.000001 {
			t.Errorf("%s: direction norm %f, want 1", id, n)
		}
	}
}
