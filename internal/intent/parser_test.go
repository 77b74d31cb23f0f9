package intent

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ivlev/tourcam/internal/waypoint"
)

func TestParse(t *testing.T) {
	p := NewParser(waypoint.MustDefault())

	tests := []struct {
		name string
		raw  string
		want Intent
	}{
		{"empty", "", Intent{}},
		{"whitespace", " \n\t ", Intent{}},
		{"strict", `{"view":"side","message":"hi"}`, Intent{View: waypoint.Side, Message: "hi"}},
		{"fenced and upper case", "```json\n{\"view\":\"TOP\",\"message\":\"up\"}\n```", Intent{View: waypoint.Top, Message: "up"}},
		{"bare fence", "```\n{\"view\":\"front\",\"message\":\"hello\"}\n```", Intent{View: waypoint.Front, Message: "hello"}},
		{"upper fence tag", "```JSON\n{\"view\":\"detail\"}\n```", Intent{View: waypoint.Detail}},
		{"one line fenced prose", "```Nice view from here```", Intent{Message: "Nice view from here"}},
		{"one line fence", "```{\"view\":\"side\",\"message\":\"x\"}```", Intent{View: waypoint.Side, Message: "x"}},
		{"unterminated fence", "```json\n{\"view\":\"side\",\"message\":\"cut\"}", Intent{View: waypoint.Side, Message: "cut"}},
		{"pattern recovery", `blah blah "view": "detail" blah`, Intent{View: waypoint.Detail}},
		{"unknown view keeps message", `{"view":"warp","message":"??"}`, Intent{Message: "??"}},
		{"missing view", `{"message":"just talking"}`, Intent{Message: "just talking"}},
		{"missing message", `{"view":"top"}`, Intent{View: waypoint.Top}},
		{"message case preserved", `{"view":"Side","message":"Look At THE Depth"}`, Intent{View: waypoint.Side, Message: "Look At THE Depth"}},
		{"padded view token", `{"view":"  detail ","message":"close"}`, Intent{View: waypoint.Detail, Message: "close"}},
		{"capitalised keys", `{"View":"side","Message":"profile"}`, Intent{View: waypoint.Side, Message: "profile"}},
		{"non-string view", `{"view":3,"message":"three"}`, Intent{Message: "three"}},
		{"null fields", `{"view":null,"message":null}`, Intent{}},
		{"blank message", `{"view":"front","message":"   "}`, Intent{View: waypoint.Front}},
		{"prose around object", `Sure! {"view": "top", "message": "from above"} Enjoy.`, Intent{View: waypoint.Top}},
		{"trailing comma", `{"view": "side", "message": "oops",}`, Intent{View: waypoint.Side}},
		{"pattern with unknown view", `here "view": "orbit" there`, Intent{}},
		{"plain text", "Here's the front of the model.", Intent{Message: "Here's the front of the model."}},
		{"object stripped from prose", `Let me explain {not json} the scene.`, Intent{Message: "Let me explain  the scene."}},
		{"only object", `{broken`, Intent{Message: "{broken"}},
		{"array", `["side"]`, Intent{Message: `["side"]`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Parse(tt.raw)
			if diff := cmp.Diff(tt.want, got, cmpopts.IgnoreFields(Intent{}, "Stage")); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.raw, diff)
			}
		})
	}
}

func TestParseStages(t *testing.T) {
	p := NewParser(waypoint.MustDefault())

	tests := []struct {
		raw  string
		want Stage
	}{
		{`{"view":"side","message":"hi"}`, StageStrict},
		{`{"view":"warp"}`, StageStrict},
		{`text "view": "side" text`, StagePattern},
		{`no structure here`, StagePlaintext},
		{``, StagePlaintext},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := p.Parse(tt.raw).Stage; got != tt.want {
				t.Errorf("Parse(%q).Stage = %s, want %s", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseIsPure(t *testing.T) {
	p := NewParser(waypoint.MustDefault())
	raw := `{"View":"top","view":"side","message":"dup"}`

	first := p.Parse(raw)
	for i := 0; i < 50; i++ {
		if got := p.Parse(raw); got != first {
			t.Fatalf("Parse is not deterministic: %+v vs %+v", first, got)
		}
	}
	if first.View != waypoint.Side {
		t.Errorf("Exact key should win, got %s", first.View)
	}
}

func TestParseLargeInput(t *testing.T) {
	p := NewParser(waypoint.MustDefault())
	raw := strings.Repeat("noise ", 10000) + `"view": "detail"`

	if got := p.Parse(raw); got.View != waypoint.Detail {
		t.Errorf("Expected detail from long input, got %+v", got)
	}
}

func TestIntentReply(t *testing.T) {
	if got := (Intent{Message: "hi"}).Reply("raw"); got != "hi" {
		t.Errorf("Reply should prefer message, got %q", got)
	}
	if got := (Intent{}).Reply("raw"); got != "raw" {
		t.Errorf("Reply should fall back, got %q", got)
	}
	if (Intent{}).Navigates() {
		t.Error("Empty intent should not navigate")
	}
	if !(Intent{View: waypoint.Top}).Navigates() {
		t.Error("Intent with view should navigate")
	}
}

func TestStripFence(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"  padded  ", "padded"},
		{"```json\n{}\n```", "{}"},
		{"```\n{}\n```", "{}"},
		{"```json\r\n{}\r\n```", "{}"},
		{"```json\n{}", "{}"},
		{"```", ""},
		{"```Here is the side of it```", "Here is the side of it"},
		{"``` spaced ```", "spaced"},
		{"text ```json\n{}\n```", "text ```json\n{}\n```"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := stripFence(tt.in); got != tt.want {
				t.Errorf("stripFence(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
