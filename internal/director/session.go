// Package director hosts one guided camera session: it turns completed model
// replies into camera targets and advances the camera once per frame.
//
// A Session is not safe for concurrent use. Hosts call HandleTurn and Tick
// from a single goroutine (the bubbletea update loop, or the headless frame
// loop).
package director

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ivlev/tourcam/internal/camera"
	"github.com/ivlev/tourcam/internal/intent"
	"github.com/ivlev/tourcam/internal/system"
	"github.com/ivlev/tourcam/internal/transport"
	"github.com/ivlev/tourcam/internal/waypoint"
)

const (
	// DefaultReply is shown when a turn yields neither message nor text.
	DefaultReply = "Let me show you the front view."

	// FallbackResponse stands in for the model when the transport fails.
	FallbackResponse = `{"message": "Let me show you the front view.", "view": "front"}`

	FlightLogVersion = "1.0"
)

// Options tune a Session.
type Options struct {
	HistoryLimit int    // Turns of conversation sent to the transport
	TrailLimit   int    // Poses kept for previews
	DefaultReply string // Reply when a turn has no text at all
}

// DefaultOptions returns the stock session options.
func DefaultOptions() Options {
	return Options{
		HistoryLimit: 10,
		TrailLimit:   2048,
		DefaultReply: DefaultReply,
	}
}

// Turn is one completed model turn.
type Turn struct {
	Index        int
	Request      string
	Raw          string
	Intent       intent.Intent
	Reply        string
	Frame        int
	SettledFrame int
	Fallback     bool
}

// Session binds a parser and a camera controller to one conversation.
type Session struct {
	ID      string
	Started time.Time

	parser *intent.Parser
	camera *camera.Controller
	opts   Options

	history []transport.Message
	turns   []Turn
	trail   *Trail
	frame   int
	pending int // index of the turn whose transition is in flight, or -1
}

// NewSession creates a session around an existing controller.
func NewSession(parser *intent.Parser, ctrl *camera.Controller, opts Options) *Session {
	if opts.DefaultReply == "" {
		opts.DefaultReply = DefaultReply
	}
	s := &Session{
		ID:      uuid.NewString(),
		Started: time.Now(),
		parser:  parser,
		camera:  ctrl,
		opts:    opts,
		trail:   NewTrail(opts.TrailLimit),
		pending: -1,
	}
	s.trail.Push(ctrl.Pose())
	return s
}

// Conversation returns the history to send for request, trimmed to
// HistoryLimit turns. The returned slice is owned by the caller.
func (s *Session) Conversation(request string) []transport.Message {
	history := s.history
	if limit := s.opts.HistoryLimit * 2; limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}
	out := make([]transport.Message, 0, len(history)+1)
	out = append(out, history...)
	return append(out, transport.Message{Role: transport.RoleUser, Content: request})
}

// HandleTurn applies one complete model reply: the camera is retargeted when
// the reply names a valid view, and the reply text is chosen from the
// message, the raw text, or the default reply, in that order.
func (s *Session) HandleTurn(request, raw string) Turn {
	in := s.parser.Parse(raw)

	turn := Turn{
		Index:   len(s.turns),
		Request: request,
		Raw:     raw,
		Intent:  in,
		Reply:   in.Reply(strings.TrimSpace(raw)),
		Frame:   s.frame,
	}
	if turn.Reply == "" {
		turn.Reply = s.opts.DefaultReply
	}

	if in.Navigates() {
		if err := s.camera.SetTarget(in.View); err != nil {
			system.Logf("[!] Turn %d: %v", turn.Index, err)
		} else {
			s.pending = turn.Index
		}
	} else {
		system.Logf("[*] Turn %d: no view recovered (%s), camera stays at %s", turn.Index, in.Stage, s.camera.Target())
	}

	s.history = append(s.history,
		transport.Message{Role: transport.RoleUser, Content: request},
		transport.Message{Role: transport.RoleModel, Content: raw},
	)
	s.turns = append(s.turns, turn)
	return turn
}

// HandleFailure records a turn whose transport call failed, using
// FallbackResponse in place of the model reply.
func (s *Session) HandleFailure(request string, err error) Turn {
	system.Logf("[!] Transport error, falling back to front view: %v", err)
	turn := s.HandleTurn(request, FallbackResponse)
	turn.Fallback = true
	s.turns[turn.Index].Fallback = true
	return turn
}

// Ask sends request through t and applies the reply. On transport failure the
// fallback turn is applied and returned together with the error.
func (s *Session) Ask(ctx context.Context, t transport.Transport, request string) (Turn, error) {
	raw, err := t.Complete(ctx, s.Conversation(request))
	if err != nil {
		return s.HandleFailure(request, err), fmt.Errorf("complete turn: %w", err)
	}
	return s.HandleTurn(request, raw), nil
}

// Tick advances the camera by one frame and reports whether it is moving.
func (s *Session) Tick() bool {
	wasMoving := s.camera.Animating()
	moving := s.camera.Step()
	s.frame++

	if wasMoving {
		s.trail.Push(s.camera.Pose())
	}
	if wasMoving && !moving && s.pending >= 0 {
		s.turns[s.pending].SettledFrame = s.frame
		s.pending = -1
	}
	return moving
}

// Settle ticks until the camera is idle and returns the frames it took.
func (s *Session) Settle() int {
	n := 0
	for s.camera.Animating() {
		s.Tick()
		n++
	}
	return n
}

// Frame returns the number of frames ticked so far.
func (s *Session) Frame() int { return s.frame }

// Camera returns the session's controller for read access.
func (s *Session) Camera() *camera.Controller { return s.camera }

// Trail returns recent poses, oldest first.
func (s *Session) Trail() []camera.Pose { return s.trail.Poses() }

// Turns returns a copy of the transcript.
func (s *Session) Turns() []Turn {
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Fallbacks counts turns answered by FallbackResponse.
func (s *Session) Fallbacks() int {
	n := 0
	for _, t := range s.turns {
		if t.Fallback {
			n++
		}
	}
	return n
}

// FlightLog exports the session.
func (s *Session) FlightLog() *FlightLog {
	log := &FlightLog{
		Version: FlightLogVersion,
		Session: s.ID,
		Started: s.Started.Format(time.RFC3339),
		Frames:  s.frame,
		Final:   loggedPose(s.camera.Target(), s.camera.Pose()),
	}
	for _, t := range s.turns {
		log.Turns = append(log.Turns, LoggedTurn{
			Index:        t.Index,
			Request:      t.Request,
			Raw:          t.Raw,
			Stage:        string(t.Intent.Stage),
			View:         string(t.Intent.View),
			Message:      t.Intent.Message,
			Reply:        t.Reply,
			Frame:        t.Frame,
			SettledFrame: t.SettledFrame,
			Fallback:     t.Fallback,
		})
	}
	return log
}

func loggedPose(target waypoint.ViewID, p camera.Pose) LoggedPose {
	return LoggedPose{
		Target:   string(target),
		Position: []float64{p.Position.X, p.Position.Y, p.Position.Z},
		Forward:  []float64{p.Forward.X, p.Forward.Y, p.Forward.Z},
	}
}
