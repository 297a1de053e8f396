package digest

import (
	"context"
	"encoding/json"
	"fmt"

	"digestly/internal/core"
	"digestly/internal/llm"
	"digestly/internal/logger"
)

// rankedTitle is one entry of the ranking model's JSON response.
type rankedTitle struct {
	Topic string `json:"topic"`
	ID    string `json:"id"`
	Title string `json:"title"`
}

type titleEntry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// rankCandidates asks the model to order the candidates against the
// preference profile. Entries are rejoined to their source items by id;
// entries whose id has no match in the candidate set are dropped (a
// provider may hallucinate ids). Response order is rank order.
func (s *Service) rankCandidates(ctx context.Context, def *core.DigestDefinition, client llm.Client, candidates []core.LibraryItem, profile string) ([]core.RankedItem, error) {
	entries := make([]titleEntry, len(candidates))
	for i, item := range candidates {
		entries[i] = titleEntry{ID: item.ID, Title: item.Title}
	}
	titles, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("encoding candidate titles: %w", err)
	}

	var ranked []rankedTitle
	if err := client.CompleteStructured(ctx, def.ZeroShot.RankPrompt, map[string]any{
		"userProfile": profile,
		"titles":      string(titles),
	}, &ranked); err != nil {
		return nil, fmt.Errorf("ranking candidates: %w", err)
	}

	byID := make(map[string]*core.LibraryItem, len(candidates))
	for i := range candidates {
		byID[candidates[i].ID] = &candidates[i]
	}

	items := make([]core.RankedItem, 0, len(ranked))
	for _, entry := range ranked {
		item, ok := byID[entry.ID]
		if !ok {
			logger.Warn("dropping ranked entry with unknown id", "id", entry.ID, "title", entry.Title)
			continue
		}
		items = append(items, core.RankedItem{Topic: entry.Topic, Item: item})
	}
	return items, nil
}
