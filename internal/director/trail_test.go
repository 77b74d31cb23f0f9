package director

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ivlev/tourcam/internal/camera"
)

func poseAt(x float64) camera.Pose {
	return camera.Pose{Position: r3.Vec{X: x}, Forward: r3.Vec{Z: -1}}
}

func TestTrail(t *testing.T) {
	tests := []struct {
		name   string
		limit  int
		pushes int
		want   []float64
	}{
		{"empty", 4, 0, nil},
		{"partial", 4, 2, []float64{0, 1}},
		{"exactly full", 4, 4, []float64{0, 1, 2, 3}},
		{"wrapped", 4, 6, []float64{2, 3, 4, 5}},
		{"zero limit keeps one", 0, 3, []float64{2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trail := NewTrail(tt.limit)
			for i := 0; i < tt.pushes; i++ {
				trail.Push(poseAt(float64(i)))
			}

			if trail.Len() != len(tt.want) {
				t.Errorf("Len() = %d, want %d", trail.Len(), len(tt.want))
			}
			poses := trail.Poses()
			if len(poses) != len(tt.want) {
				t.Fatalf("Poses() returned %d poses, want %d", len(poses), len(tt.want))
			}
			for i, x := range tt.want {
				if poses[i].Position.X != x {
					t.Errorf("Pose %d at x=%v, want %v", i, poses[i].Position.X, x)
				}
			}
		})
	}
}
