package digest

import (
	"context"

	"digestly/internal/core"
	"digestly/internal/llm"
)

// DefinitionLoader fetches the run's digest definition document.
type DefinitionLoader interface {
	Load(ctx context.Context) (*core.DigestDefinition, error)
}

// UserFinder looks up the digest recipient and their personalization
// settings.
type UserFinder interface {
	Find(ctx context.Context, userID string) (*core.User, error)
}

// LLMFactory resolves a provider identifier to a completion client.
type LLMFactory interface {
	Client(provider string) (llm.Client, error)
}
