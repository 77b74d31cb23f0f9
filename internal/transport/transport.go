// Package transport carries a conversation to a language model and returns
// the complete text of its reply.
package transport

import (
	"context"
	"net/http"
)

// Roles used in Message.Role.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Message is one conversation entry.
type Message struct {
	Role    string
	Content string
}

// Transport sends the conversation and returns the whole reply text. Streaming
// transports buffer the stream before returning.
type Transport interface {
	Complete(ctx context.Context, history []Message) (string, error)
}

// HTTPClient is the subset of *http.Client used by HTTP transports.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// SystemPrompt instructs the model to answer with a view and a message.
const SystemPrompt = `You are an enthusiastic 3D tour guide. You control a camera viewing a photorealistic 3D scene.

AVAILABLE VIEWS:
- "front": Wide view of entire scene
- "side": Profile angle showing depth
- "top": Bird's eye overhead view
- "detail": Close-up of key features

CRITICAL RULES:
1. ALWAYS respond with ONLY valid JSON in this exact format:
   {"message": "your response here", "view": "waypoint_name"}

2. Pick a view for EVERY response (use "front" if unsure)

3. Keep messages under 2 sentences

4. Match user intent:
   - "show/look/see" -> appropriate view
   - "overview" -> front
   - "side/profile" -> side
   - "above/overhead" -> top
   - "closer/zoom/detail" -> detail

EXAMPLES:
Input: "show me the side"
Output: {"message": "Here's the side profile, notice the depth!", "view": "side"}

Input: "what is this?"
Output: {"message": "This is a detailed 3D scan. Starting with the full view.", "view": "front"}

NO markdown, NO backticks, ONLY the JSON object.`

// lastUser returns the most recent user message in history.
func lastUser(history []Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == RoleUser {
			return history[i].Content
		}
	}
	return ""
}
