package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/ivlev/tourcam/internal/waypoint"
)

const (
	DefaultGeminiEndpoint = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiModel    = "gemini-1.5-flash"

	// APIKeyEnv is the environment variable the CLI reads the key from.
	APIKeyEnv = "GOOGLE_GENERATIVE_AI_API_KEY"
)

// Gemini calls the Generative Language generateContent endpoint.
type Gemini struct {
	Client          HTTPClient
	Endpoint        string
	Model           string
	APIKey          string
	Temperature     float64
	MaxOutputTokens int
	SystemPrompt    string

	// Structured asks the API for JSON matching the view/message schema.
	Structured bool
}

// NewGemini returns a client with the tour-guide defaults.
func NewGemini(client HTTPClient, apiKey, model string) *Gemini {
	if client == nil {
		client = http.DefaultClient
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	return &Gemini{
		Client:          client,
		Endpoint:        DefaultGeminiEndpoint,
		Model:           model,
		APIKey:          apiKey,
		Temperature:     0.3,
		MaxOutputTokens: 100,
		SystemPrompt:    SystemPrompt,
	}
}

// EnableStructured switches g to schema-enforced replies with the sampling
// settings used for them.
func (g *Gemini) EnableStructured() {
	g.Structured = true
	g.Temperature = 0.2
	g.MaxOutputTokens = 80
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  struct {
		Temperature      float64       `json:"temperature"`
		MaxOutputTokens  int           `json:"maxOutputTokens"`
		ResponseMimeType string        `json:"responseMimeType,omitempty"`
		ResponseSchema   *geminiSchema `json:"responseSchema,omitempty"`
	} `json:"generationConfig"`
}

type geminiSchema struct {
	Type       string                  `json:"type"`
	Enum       []string                `json:"enum,omitempty"`
	Properties map[string]geminiSchema `json:"properties,omitempty"`
	Required   []string                `json:"required,omitempty"`
}

// replySchema describes {"view": <one of the views>, "message": <text>}.
func replySchema() *geminiSchema {
	var views []string
	for _, v := range waypoint.Views() {
		views = append(views, string(v))
	}
	return &geminiSchema{
		Type: "OBJECT",
		Properties: map[string]geminiSchema{
			"view":    {Type: "STRING", Enum: views},
			"message": {Type: "STRING"},
		},
		Required: []string{"view", "message"},
	}
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
}

// Complete implements Transport.
func (g *Gemini) Complete(ctx context.Context, history []Message) (string, error) {
	var body geminiRequest
	if g.SystemPrompt != "" {
		body.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: g.SystemPrompt}}}
	}
	for _, m := range history {
		role := RoleUser
		if m.Role == RoleModel {
			role = RoleModel
		}
		body.Contents = append(body.Contents, geminiContent{Role: role, Parts: []geminiPart{{Text: m.Content}}})
	}
	body.GenerationConfig.Temperature = g.Temperature
	body.GenerationConfig.MaxOutputTokens = g.MaxOutputTokens
	if g.Structured {
		body.GenerationConfig.ResponseMimeType = "application/json"
		body.GenerationConfig.ResponseSchema = replySchema()
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimRight(g.Endpoint, "/"), url.PathEscape(g.Model), url.QueryEscape(g.APIKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("gemini: status %d: %s", resp.StatusCode, excerpt(data, 200))
	}

	var out geminiResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(out.Candidates) == 0 {
		return "", fmt.Errorf("gemini: no candidates in response")
	}

	var b strings.Builder
	for _, part := range out.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return b.String(), nil
}

// excerpt shortens data to at most n bytes without splitting a rune.
func excerpt(data []byte, n int) string {
	s := strings.TrimSpace(string(data))
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
