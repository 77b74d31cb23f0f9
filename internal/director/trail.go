package director

import "github.com/ivlev/tourcam/internal/camera"

// Trail keeps the most recent camera poses in a fixed ring.
type Trail struct {
	poses []camera.Pose
	next  int
	full  bool
}

// NewTrail allocates a trail holding up to limit poses.
func NewTrail(limit int) *Trail {
	if limit < 1 {
		limit = 1
	}
	return &Trail{poses: make([]camera.Pose, limit)}
}

// Push records p, evicting the oldest pose when full.
func (t *Trail) Push(p camera.Pose) {
	t.poses[t.next] = p
	t.next++
	if t.next == len(t.poses) {
		t.next = 0
		t.full = true
	}
}

// Len returns the number of recorded poses.
func (t *Trail) Len() int {
	if t.full {
		return len(t.poses)
	}
	return t.next
}

// Poses returns the recorded poses, oldest first.
func (t *Trail) Poses() []camera.Pose {
	out := make([]camera.Pose, 0, t.Len())
	if t.full {
		out = append(out, t.poses[t.next:]...)
	}
	return append(out, t.poses[:t.next]...)
}
