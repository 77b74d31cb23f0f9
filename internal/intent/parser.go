// Package intent recovers a camera command from language model output.
//
// The model is asked for {"view": ..., "message": ...} but does not reliably
// comply. Parse never fails: it walks a fallback chain and returns the best
// Intent it can find.
//
//	fence strip -> strict JSON object -> "view": "..." pattern -> plain text
package intent

import (
	"encoding/json"
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/ivlev/tourcam/internal/waypoint"
)

// Stage names the fallback step that produced an Intent.
type Stage string

const (
	StageStrict    Stage = "strict"
	StagePattern   Stage = "pattern"
	StagePlaintext Stage = "plaintext"
)

// Intent is the command recovered from one model turn. An empty View means
// no navigation; an empty Message means no displayable text was found.
type Intent struct {
	View    waypoint.ViewID
	Message string
	Stage   Stage
}

// Navigates reports whether the intent carries a valid view.
func (i Intent) Navigates() bool {
	return i.View != ""
}

// Reply returns the message, or fallback when there is none.
func (i Intent) Reply(fallback string) string {
	if i.Message != "" {
		return i.Message
	}
	return fallback
}

var (
	viewPattern   = regexp.MustCompile(`(?i)"view"\s*:\s*"([^"]*)"`)
	objectPattern = regexp.MustCompile(`(?s)\{.*\}`)
)

// Parser validates recovered view tokens against a registry.
type Parser struct {
	registry *waypoint.Registry
}

// NewParser creates a parser bound to registry.
func NewParser(registry *waypoint.Registry) *Parser {
	return &Parser{registry: registry}
}

// Parse extracts an Intent from raw model text. It is pure and total.
func (p *Parser) Parse(raw string) Intent {
	cleaned := stripFence(raw)

	if in, ok := p.parseStrict(cleaned); ok {
		return in
	}
	if in, ok := p.parsePattern(cleaned); ok {
		return in
	}
	return parsePlaintext(cleaned)
}

// parseStrict accepts only a single JSON object. Keys match case-insensitively
// and non-string values count as absent.
func (p *Parser) parseStrict(s string) (Intent, bool) {
	if !strings.HasPrefix(s, "{") {
		return Intent{}, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &fields); err != nil {
		return Intent{}, false
	}

	in := Intent{Stage: StageStrict}
	if token, ok := stringField(fields, "view"); ok {
		if id, ok := p.registry.Lookup(token); ok {
			in.View = id
		}
	}
	if msg, ok := stringField(fields, "message"); ok {
		in.Message = strings.TrimSpace(msg)
	}
	return in, true
}

// parsePattern looks for a "view": "token" pair anywhere in the text.
func (p *Parser) parsePattern(s string) (Intent, bool) {
	m := viewPattern.FindStringSubmatch(s)
	if m == nil {
		return Intent{}, false
	}
	in := Intent{Stage: StagePattern}
	if id, ok := p.registry.Lookup(m[1]); ok {
		in.View = id
	}
	return in, true
}

// parsePlaintext keeps whatever prose surrounds an embedded object.
func parsePlaintext(s string) Intent {
	text := strings.TrimSpace(objectPattern.ReplaceAllString(s, ""))
	return Intent{Message: text, Stage: StagePlaintext}
}

// stringField returns the string value stored under name. An exact key wins
// over case-insensitive matches, which are tried in sorted key order.
func stringField(fields map[string]json.RawMessage, name string) (string, bool) {
	raw, ok := fields[name]
	if !ok {
		for _, key := range slices.Sorted(maps.Keys(fields)) {
			if strings.EqualFold(key, name) {
				raw, ok = fields[key], true
				break
			}
		}
	}
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}
