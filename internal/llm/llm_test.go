package llm

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

// fakeModel echoes prompts back, failing any prompt that contains "fail".
// A non-empty response overrides the echo.
type fakeModel struct {
	response string
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	var prompt strings.Builder
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				prompt.WriteString(text.Text)
			}
		}
	}
	if strings.Contains(prompt.String(), "fail") {
		return nil, errors.New("model unavailable")
	}

	content := "echo: " + prompt.String()
	if f.response != "" {
		content = f.response
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: content}},
	}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	resp, err := f.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeHuman, prompt),
	}, options...)
	if err != nil {
		return "", err
	}
	return resp.Choices[0].Content, nil
}

func TestCompleteBatchIsolatesItemFailure(t *testing.T) {
	c := newClient("fake", &fakeModel{}, 2)

	vars := []map[string]any{
		{"title": "one"},
		{"title": "fail"},
		{"title": "three"},
	}
	got, err := c.CompleteBatch(context.Background(), "{title}", vars)
	if err != nil {
		t.Fatalf("a single item failure must not abort the batch: %v", err)
	}

	want := []string{"echo: one", "", "echo: three"}
	if len(got) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestCompleteStructuredParsesFencedJSON(t *testing.T) {
	c := newClient("fake", &fakeModel{response: "```json\n[{\"id\":\"a\"},{\"id\":\"b\"}]\n```"}, 1)

	var out []struct {
		ID string `json:"id"`
	}
	if err := c.CompleteStructured(context.Background(), "rank {titles}", map[string]any{"titles": "[]"}, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 || out[0].ID != "a" || out[1].ID != "b" {
		t.Errorf("fenced JSON should parse, got %+v", out)
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "bare object",
			input: `{"a":1}`,
			want:  `{"a":1}`,
		},
		{
			name:  "json code fence",
			input: "```json\n[{\"id\":\"x\"}]\n```",
			want:  `[{"id":"x"}]`,
		},
		{
			name:  "plain code fence",
			input: "```\n{\"a\":1}\n```",
			want:  `{"a":1}`,
		},
		{
			name:  "unterminated fence",
			input: "```json\n{\"a\":1}",
			want:  `{"a":1}`,
		},
		{
			name:  "prose around array",
			input: "Here are the ranked titles:\n[{\"id\":\"a\"}]\nHope that helps!",
			want:  `[{"id":"a"}]`,
		},
		{
			name:  "prose around object",
			input: "Sure: {\"topic\":\"go\"} done.",
			want:  `{"topic":"go"}`,
		},
		{
			name:  "nothing to extract",
			input: "no json here",
			want:  "no json here",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractJSON(tt.input); got != tt.want {
				t.Errorf("ExtractJSON(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSelectModelOverrideWinsOverDefault(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	if got := SelectModel(ProviderAnthropic, ProviderOpenAI, rnd); got != ProviderAnthropic {
		t.Errorf("override should win, got %q", got)
	}
	if got := SelectModel("", ProviderAnthropic, rnd); got != ProviderAnthropic {
		t.Errorf("definition default should apply without override, got %q", got)
	}
}

func TestSelectModelUnknownFallsBackToOpenAI(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	for _, model := range []string{"", "gpt-5", "claude"} {
		if got := SelectModel(model, "", rnd); got != ProviderOpenAI {
			t.Errorf("SelectModel(%q) = %q, want openai fallback", model, got)
		}
	}
}

func TestSelectModelRandomPicksBothProviders(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		got := SelectModel(ProviderRandom, "", rnd)
		if got != ProviderOpenAI && got != ProviderAnthropic {
			t.Fatalf("random selection returned unknown provider %q", got)
		}
		seen[got] = true
	}
	if !seen[ProviderOpenAI] || !seen[ProviderAnthropic] {
		t.Errorf("random selection should cover both providers, saw %v", seen)
	}
}

func TestFormatPromptSubstitutesVariables(t *testing.T) {
	got, err := formatPrompt("Summarize {title} by {author}.", map[string]any{
		"title":  "Go in Practice",
		"author": "Ada",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Summarize Go in Practice by Ada." {
		t.Errorf("unexpected prompt: %q", got)
	}
}
