package llm

import (
	"fmt"
	"math/rand"

	"digestly/internal/config"
)

// SelectModel resolves the provider for a run: an explicit per-user
// override wins over the definition default; "random" picks uniformly
// between the two providers; anything else falls back to OpenAI. The
// random source is injected so tests can pin the choice.
func SelectModel(override, definitionDefault string, rnd *rand.Rand) string {
	model := override
	if model == "" {
		model = definitionDefault
	}

	switch model {
	case ProviderRandom:
		return [2]string{ProviderAnthropic, ProviderOpenAI}[rnd.Intn(2)]
	case ProviderAnthropic:
		return ProviderAnthropic
	default:
		return ProviderOpenAI
	}
}

// Factory builds provider clients from configuration.
type Factory struct {
	ai             config.AI
	maxConcurrency int
}

// NewFactory creates a Factory for the configured providers.
func NewFactory(ai config.AI, maxConcurrency int) *Factory {
	return &Factory{ai: ai, maxConcurrency: maxConcurrency}
}

// Client returns the Client for a resolved provider identifier.
func (f *Factory) Client(provider string) (Client, error) {
	switch provider {
	case ProviderOpenAI:
		return NewOpenAI(f.ai.OpenAI, f.maxConcurrency)
	case ProviderAnthropic:
		return NewAnthropic(f.ai.Anthropic, f.maxConcurrency)
	default:
		return nil, fmt.Errorf("unknown provider %q", provider)
	}
}
