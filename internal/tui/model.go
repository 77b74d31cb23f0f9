// Package tui is the interactive terminal host: a bubbletea REPL that sends
// each request to the transport and advances the camera on every frame.
//
// All session access happens inside Update, so the bubbletea event loop is
// the single owner of the camera state. Transport calls run as commands and
// come back as replyMsg values.
package tui

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ivlev/tourcam/internal/director"
	"github.com/ivlev/tourcam/internal/transport"
)

const (
	ModeInput   = "input"
	ModeWaiting = "waiting"
	ModeResult  = "result"

	requestTimeout = 30 * time.Second
	visibleLines   = 8
)

type frameMsg time.Time

type replyMsg struct {
	request string
	raw     string
	err     error
}

type line struct {
	who  string
	text string
}

// Model is the bubbletea model for one session.
type Model struct {
	session   *director.Session
	transport transport.Transport
	interval  time.Duration

	input string
	lines []line
	mode  string
}

// New creates a terminal model that renders at fps frames per second.
func New(session *director.Session, t transport.Transport, fps int) Model {
	if fps <= 0 {
		fps = 60
	}
	return Model{
		session:   session,
		transport: t,
		interval:  time.Second / time.Duration(fps),
		mode:      ModeInput,
	}
}

func (m Model) frame() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func ask(t transport.Transport, request string, history []transport.Message) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		raw, err := t.Complete(ctx, history)
		return replyMsg{request: request, raw: raw, err: err}
	}
}

// Init implements tea.Model interface.
func (m Model) Init() tea.Cmd {
	return m.frame()
}

// Update implements tea.Model interface.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.session.Tick()
		return m, m.frame()

	case replyMsg:
		var turn director.Turn
		if msg.err != nil {
			turn = m.session.HandleFailure(msg.request, msg.err)
		} else {
			turn = m.session.HandleTurn(msg.request, msg.raw)
		}
		m.lines = append(m.lines, line{who: "guide", text: turn.Reply})
		m.mode = ModeResult
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEnter:
			request := strings.TrimSpace(m.input)
			if request == "" || m.mode == ModeWaiting {
				return m, nil
			}
			history := m.session.Conversation(request)
			m.lines = append(m.lines, line{who: "you", text: request})
			m.input = ""
			m.mode = ModeWaiting
			return m, ask(m.transport, request, history)
		case tea.KeyEsc:
			m.input = ""
			if m.mode != ModeWaiting {
				m.mode = ModeInput
			}
		case tea.KeySpace:
			m.input += " "
		case tea.KeyRunes:
			m.input += string(msg.Runes)
		case tea.KeyBackspace:
			if r := []rune(m.input); len(r) > 0 {
				m.input = string(r[:len(r)-1])
			}
		}
	}
	return m, nil
}

// View implements tea.Model interface.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString("tourcam\n")
	b.WriteString("=======\n\n")

	start := 0
	if len(m.lines) > visibleLines {
		start = len(m.lines) - visibleLines
	}
	for _, l := range m.lines[start:] {
		b.WriteString(fmt.Sprintf("%-5s %s\n", l.who+":", l.text))
	}
	if len(m.lines) > 0 {
		b.WriteString("\n")
	}

	cam := m.session.Camera()
	pose := cam.Pose()
	status := "idle"
	if cam.Animating() {
		status = fmt.Sprintf("moving %d/%d", cam.Elapsed(), cam.Tuning().MaxTicks)
	}
	b.WriteString(fmt.Sprintf("camera: %s (%s)  pos=(%.2f, %.2f, %.2f)  yaw=%.0f° pitch=%.0f°\n",
		cam.Target(), status, pose.Position.X, pose.Position.Y, pose.Position.Z,
		degrees(pose.Yaw()), degrees(pose.Pitch())))

	if m.mode == ModeWaiting {
		b.WriteString("guide is thinking...\n")
	}
	b.WriteString(fmt.Sprintf("> %s\n", m.input))
	b.WriteString("\n(Enter to send, Esc to clear, Ctrl+C to quit)")

	return b.String()
}

// CurrentInput returns the text typed so far.
func (m Model) CurrentInput() string {
	return m.input
}

// CurrentMode returns input, waiting or result.
func (m Model) CurrentMode() string {
	return m.mode
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
