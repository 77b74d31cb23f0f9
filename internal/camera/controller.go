// Package camera animates a camera between registry waypoints.
//
// A Controller is single-owner state: the host's frame loop calls Step once per
// rendered frame and the turn handler calls SetTarget. Neither blocks, allocates
// or performs I/O. Hosts that drive frames from several goroutines must
// serialize access to a Controller themselves.
package camera

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ivlev/tourcam/internal/waypoint"
)

const (
	DefaultDamping   = 0.05
	DefaultThreshold = 0.01
	DefaultMaxTicks  = 120
)

// ErrInvalidTuning is returned by Tuning.Validate.
var ErrInvalidTuning = errors.New("invalid camera tuning")

// Tuning controls how a transition converges.
type Tuning struct {
	Damping   float64 // Fraction of the remaining distance covered per tick
	Threshold float64 // Distance (world units) at which the camera counts as arrived
	MaxTicks  int     // Tick budget after which the transition stops regardless
}

// DefaultTuning returns the stock tuning.
func DefaultTuning() Tuning {
	return Tuning{
		Damping:   DefaultDamping,
		Threshold: DefaultThreshold,
		MaxTicks:  DefaultMaxTicks,
	}
}

// Validate checks that the tuning describes a terminating transition.
func (t Tuning) Validate() error {
	if t.Damping <= 0 || t.Damping > 1 {
		return fmt.Errorf("%w: damping %v must be in (0, 1]", ErrInvalidTuning, t.Damping)
	}
	if t.Threshold <= 0 {
		return fmt.Errorf("%w: threshold %v must be positive", ErrInvalidTuning, t.Threshold)
	}
	if t.MaxTicks < 1 {
		return fmt.Errorf("%w: max ticks %d must be at least 1", ErrInvalidTuning, t.MaxTicks)
	}
	return nil
}

// State is a snapshot of a transition.
type State struct {
	Pose      Pose
	Target    waypoint.ViewID
	Elapsed   int
	Animating bool
}

// Controller owns the transition state of one camera.
type Controller struct {
	registry *waypoint.Registry
	tuning   Tuning

	pose      Pose
	target    waypoint.ViewID
	goal      waypoint.Waypoint
	elapsed   int
	animating bool
}

// New creates an idle controller parked at the default waypoint.
func New(registry *waypoint.Registry, tuning Tuning) (*Controller, error) {
	if err := tuning.Validate(); err != nil {
		return nil, err
	}
	home, err := registry.Resolve(waypoint.Default)
	if err != nil {
		return nil, err
	}
	return &Controller{
		registry: registry,
		tuning:   tuning,
		pose:     PoseAt(home),
		target:   waypoint.Default,
		goal:     home,
	}, nil
}

// SetTarget arms a transition towards view, starting from the live pose.
// Any transition in flight is abandoned. Re-targeting the current view
// re-arms it as well, so a repeated request replays the settle motion.
func (c *Controller) SetTarget(view waypoint.ViewID) error {
	goal, err := c.registry.Resolve(view)
	if err != nil {
		return err
	}
	c.target = view
	c.goal = goal
	c.elapsed = 0
	c.animating = true
	return nil
}

// Step advances the transition by one tick and reports whether the camera is
// still moving. It is a no-op while idle.
func (c *Controller) Step() bool {
	if !c.animating {
		return false
	}

	d := c.tuning.Damping
	aim := c.pose.AimPoint()

	c.pose.Position = lerpVec(c.pose.Position, c.goal.Position, d)

	// Blend the aim point towards the goal's look-at and face it, so the camera
	// turns while it travels.
	aim = lerpVec(aim, c.goal.LookAt, d)
	if dir := r3.Sub(aim, c.pose.Position); r3.Norm(dir) > 1e-9 {
		c.pose.Forward = r3.Unit(dir)
	}

	c.elapsed++

	if c.Remaining() < c.tuning.Threshold || c.elapsed > c.tuning.MaxTicks {
		c.animating = false
	}
	return c.animating
}

// Remaining is the distance between the camera and the target position.
func (c *Controller) Remaining() float64 {
	return r3.Norm(r3.Sub(c.goal.Position, c.pose.Position))
}

// Pose returns the live camera pose.
func (c *Controller) Pose() Pose { return c.pose }

// Target returns the view the camera is heading to, or parked at.
func (c *Controller) Target() waypoint.ViewID { return c.target }

// Elapsed returns the ticks spent on the current transition.
func (c *Controller) Elapsed() int { return c.elapsed }

// Animating reports whether a transition is in progress.
func (c *Controller) Animating() bool { return c.animating }

// Tuning returns the tuning the controller was created with.
func (c *Controller) Tuning() Tuning { return c.tuning }

// Registry returns the waypoints the controller resolves targets against.
func (c *Controller) Registry() *waypoint.Registry { return c.registry }

// State returns a snapshot of the transition.
func (c *Controller) State() State {
	return State{
		Pose:      c.pose,
		Target:    c.target,
		Elapsed:   c.elapsed,
		Animating: c.animating,
	}
}
