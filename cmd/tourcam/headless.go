package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/tourcam/internal/director"
	"github.com/ivlev/tourcam/internal/transport"
)

type historyRequest struct {
	request string
	reply   chan []transport.Message
}

type completion struct {
	request string
	raw     string
	err     error
	done    chan director.Turn
}

// readScript returns the non-empty lines of path. Lines starting with # are
// comments.
func readScript(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open script: %w", err)
	}
	defer f.Close()

	var requests []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		requests = append(requests, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return requests, nil
}

// runScript sends each request through tr in order, waiting for the camera to
// settle before the next one. The frame goroutine is the only one touching
// the session; the turn goroutine reaches it over channels.
func runScript(ctx context.Context, s *director.Session, tr transport.Transport, requests []string, fps int, out io.Writer) error {
	g, ctx := errgroup.WithContext(ctx)

	histories := make(chan historyRequest)
	completions := make(chan completion)
	finished := make(chan struct{})

	g.Go(func() error {
		return frameLoop(ctx, s, fps, histories, completions, finished)
	})

	g.Go(func() error {
		defer close(finished)
		for _, request := range requests {
			hr := historyRequest{request: request, reply: make(chan []transport.Message, 1)}
			select {
			case histories <- hr:
			case <-ctx.Done():
				return ctx.Err()
			}
			history := <-hr.reply

			fmt.Fprintf(out, "[*] you:   %s\n", request)
			raw, err := tr.Complete(ctx, history)
			if ctx.Err() != nil {
				return ctx.Err()
			}

			c := completion{request: request, raw: raw, err: err, done: make(chan director.Turn, 1)}
			select {
			case completions <- c:
			case <-ctx.Done():
				return ctx.Err()
			}

			var turn director.Turn
			select {
			case turn = <-c.done:
			case <-ctx.Done():
				return ctx.Err()
			}
			printTurn(out, turn)
		}
		return nil
	})

	return g.Wait()
}

// frameLoop ticks the session at fps and applies completions between frames.
// A completion's done channel receives the turn once the camera is idle.
func frameLoop(ctx context.Context, s *director.Session, fps int, histories <-chan historyRequest, completions <-chan completion, finished <-chan struct{}) error {
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	var waiting chan director.Turn
	pending := -1

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-finished:
			return nil

		case hr := <-histories:
			hr.reply <- s.Conversation(hr.request)

		case c := <-completions:
			var turn director.Turn
			if c.err != nil {
				turn = s.HandleFailure(c.request, c.err)
			} else {
				turn = s.HandleTurn(c.request, c.raw)
			}
			if !s.Camera().Animating() {
				c.done <- turn
				continue
			}
			waiting, pending = c.done, turn.Index

		case <-ticker.C:
			s.Tick()
			if waiting != nil && !s.Camera().Animating() {
				waiting <- s.Turns()[pending]
				waiting, pending = nil, -1
			}
		}
	}
}

// runReplay re-feeds a recorded flight log through the session.
func runReplay(s *director.Session, log *director.FlightLog, out io.Writer) {
	for _, turn := range s.Replay(log) {
		fmt.Fprintf(out, "[*] you:   %s\n", turn.Request)
		printTurn(out, turn)
	}
}

func printTurn(out io.Writer, turn director.Turn) {
	fmt.Fprintf(out, "[*] guide: %s\n", turn.Reply)
	switch {
	case turn.Fallback:
		fmt.Fprintf(out, "    [!] transport failed, showing %s\n", turn.Intent.View)
	case turn.Intent.Navigates():
		fmt.Fprintf(out, "    view %s via %s parse, settled at frame %d\n", turn.Intent.View, turn.Intent.Stage, turn.SettledFrame)
	default:
		fmt.Fprintf(out, "    no view (%s parse), camera unchanged\n", turn.Intent.Stage)
	}
}
