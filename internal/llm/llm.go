// Package llm exposes one completion capability backed by two
// interchangeable providers. The pipeline never sees which backend is in
// play; both are driven through the same prompt-template interface.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/prompts"
	"golang.org/x/sync/errgroup"

	"digestly/internal/config"
	"digestly/internal/logger"
)

// Provider identifiers accepted by the factory and the model selection
// policy.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderRandom    = "random"
)

// Client is the completion capability the pipeline consumes. Prompt
// templates use f-string style {variable} placeholders, matching the
// definition document's prompt syntax.
type Client interface {
	// Complete formats the template with vars and returns the completion.
	Complete(ctx context.Context, template string, vars map[string]any) (string, error)

	// CompleteBatch runs one completion per vars entry. Results are
	// order-preserving: index i of the returned slice corresponds to
	// vars[i]. A per-item failure yields an empty string at that index
	// and is logged; it does not abort the batch.
	CompleteBatch(ctx context.Context, template string, vars []map[string]any) ([]string, error)

	// CompleteStructured requests a JSON completion and unmarshals it
	// into out, tolerating markdown code-fence wrapping.
	CompleteStructured(ctx context.Context, template string, vars map[string]any, out any) error

	// Name returns the provider identifier.
	Name() string
}

type client struct {
	name           string
	model          llms.Model
	maxConcurrency int
}

// NewOpenAI creates a Client backed by OpenAI.
func NewOpenAI(cfg config.OpenAIConfig, maxConcurrency int) (Client, error) {
	m, err := openai.New(
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("creating openai client: %w", err)
	}
	return newClient(ProviderOpenAI, m, maxConcurrency), nil
}

// NewAnthropic creates a Client backed by Anthropic.
func NewAnthropic(cfg config.AnthropicConfig, maxConcurrency int) (Client, error) {
	m, err := anthropic.New(
		anthropic.WithToken(cfg.APIKey),
		anthropic.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("creating anthropic client: %w", err)
	}
	return newClient(ProviderAnthropic, m, maxConcurrency), nil
}

func newClient(name string, m llms.Model, maxConcurrency int) *client {
	if maxConcurrency <= 0 {
		maxConcurrency = 5
	}
	return &client{name: name, model: m, maxConcurrency: maxConcurrency}
}

func (c *client) Name() string {
	return c.name
}

func formatPrompt(template string, vars map[string]any) (string, error) {
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	tmpl := prompts.PromptTemplate{
		Template:       template,
		InputVariables: names,
		TemplateFormat: prompts.TemplateFormatFString,
	}
	formatted, err := tmpl.Format(vars)
	if err != nil {
		return "", fmt.Errorf("formatting prompt: %w", err)
	}
	return formatted, nil
}

func (c *client) Complete(ctx context.Context, template string, vars map[string]any) (string, error) {
	prompt, err := formatPrompt(template, vars)
	if err != nil {
		return "", err
	}

	result, err := llms.GenerateFromSinglePrompt(ctx, c.model, prompt)
	if err != nil {
		return "", fmt.Errorf("%s completion: %w", c.name, err)
	}
	return result, nil
}

func (c *client) CompleteBatch(ctx context.Context, template string, vars []map[string]any) ([]string, error) {
	results := make([]string, len(vars))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.maxConcurrency)

	for i, itemVars := range vars {
		i, itemVars := i, itemVars
		g.Go(func() error {
			text, err := c.Complete(gctx, template, itemVars)
			if err != nil {
				// Item-level isolation: an empty result at this
				// index, the rest of the batch proceeds.
				logger.Error("batch completion item failed", err, "provider", c.name, "index", i)
				return nil
			}
			results[i] = text
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *client) CompleteStructured(ctx context.Context, template string, vars map[string]any, out any) error {
	prompt, err := formatPrompt(template, vars)
	if err != nil {
		return err
	}

	result, err := llms.GenerateFromSinglePrompt(ctx, c.model, prompt, llms.WithJSONMode())
	if err != nil {
		return fmt.Errorf("%s structured completion: %w", c.name, err)
	}

	if err := json.Unmarshal([]byte(ExtractJSON(result)), out); err != nil {
		return fmt.Errorf("parsing %s structured output: %w", c.name, err)
	}
	return nil
}

// ExtractJSON strips markdown code fences and surrounding prose from a
// model response, returning the JSON payload.
func ExtractJSON(s string) string {
	s = strings.TrimSpace(s)

	if start := strings.Index(s, "```"); start != -1 {
		rest := s[start+3:]
		rest = strings.TrimPrefix(rest, "json")
		if end := strings.Index(rest, "```"); end != -1 {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(rest)
	}

	// Fall back to the outermost bracket pair.
	for _, pair := range [][2]string{{"[", "]"}, {"{", "}"}} {
		start := strings.Index(s, pair[0])
		end := strings.LastIndex(s, pair[1])
		if start != -1 && end > start {
			return s[start : end+1]
		}
	}
	return s
}
