package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ivlev/tourcam/internal/waypoint"
)

// GuideStyle selects how the offline guide formats its replies.
type GuideStyle string

const (
	// StyleStrict replies with a bare JSON object.
	StyleStrict GuideStyle = "strict"
	// StyleFenced wraps the object in a ```json fence.
	StyleFenced GuideStyle = "fenced"
	// StyleChatty surrounds the object with prose.
	StyleChatty GuideStyle = "chatty"
)

// ParseGuideStyle maps a flag value to a style.
func ParseGuideStyle(s string) (GuideStyle, error) {
	switch GuideStyle(strings.ToLower(s)) {
	case StyleStrict, "":
		return StyleStrict, nil
	case StyleFenced:
		return StyleFenced, nil
	case StyleChatty:
		return StyleChatty, nil
	default:
		return "", fmt.Errorf("unknown guide style: %s", s)
	}
}

type guideRule struct {
	view     waypoint.ViewID
	keywords []string
	message  string
}

// Rules are checked in order; the first keyword hit wins.
var guideRules = []guideRule{
	{waypoint.Detail, []string{"closer", "zoom", "detail", "close-up", "close up"}, "Moving in close so you can see the finer features."},
	{waypoint.Top, []string{"above", "overhead", "top", "bird"}, "Here's the bird's eye view from straight overhead."},
	{waypoint.Side, []string{"side", "profile", "depth"}, "Here's the side profile, notice the depth!"},
	{waypoint.Front, []string{"overview", "front", "whole", "entire", "back out"}, "Back to the wide front view of the whole scene."},
}

const guideDefault = "This is a detailed 3D scan. Starting with the full view."

// Guide is an offline transport that answers like the tour-guide prompt asks,
// using keyword rules on the latest user message.
type Guide struct {
	Style GuideStyle
}

// NewGuide creates an offline guide with the given reply style.
func NewGuide(style GuideStyle) *Guide {
	return &Guide{Style: style}
}

// Complete implements Transport.
func (g *Guide) Complete(ctx context.Context, history []Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	view, message := Choose(lastUser(history))
	payload, err := json.Marshal(struct {
		Message string `json:"message"`
		View    string `json:"view"`
	}{message, string(view)})
	if err != nil {
		return "", err
	}

	switch g.Style {
	case StyleFenced:
		return "```json\n" + string(payload) + "\n```", nil
	case StyleChatty:
		return "Sure thing! " + string(payload) + " Let me know where to go next.", nil
	default:
		return string(payload), nil
	}
}

// Choose picks the view and message the guide would answer with.
func Choose(request string) (waypoint.ViewID, string) {
	text := strings.ToLower(request)
	for _, rule := range guideRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.view, rule.message
			}
		}
	}
	return waypoint.Front, guideDefault
}
