package digest

import (
	"context"
	"fmt"

	"digestly/internal/core"
	"digestly/internal/llm"
	"digestly/internal/markdown"
)

// summarizeItems generates a summary per selected item via the provider's
// batch completion. Results come back index-for-index; an individual
// item's failure leaves an empty summary at its index (the quality filter
// drops it) and never aborts the batch.
func (s *Service) summarizeItems(ctx context.Context, def *core.DigestDefinition, client llm.Client, items []core.RankedItem) ([]core.RankedItem, error) {
	vars := make([]map[string]any, len(items))
	for i, item := range items {
		vars[i] = map[string]any{
			"title":   item.Item.Title,
			"author":  item.Item.Author,
			"content": item.Item.ReadableContent,
		}
	}

	summaries, err := client.CompleteBatch(ctx, def.SummaryPrompt, vars)
	if err != nil {
		return nil, fmt.Errorf("%w: summarizing batch: %v", ErrProvider, err)
	}

	for i := range items {
		items[i].Summary = summaries[i]
	}
	return items, nil
}

// filterSummaries admits an item iff its summary's word count is strictly
// between 100 and 1000 and the summary is shorter than its source content.
// This rejects truncated, degenerate, or verbatim-copied summaries.
func filterSummaries(items []core.RankedItem) []core.RankedItem {
	var kept []core.RankedItem
	for _, item := range items {
		words := markdown.WordCount(item.Summary)
		if words > 100 && words < 1000 && len(item.Summary) < len(item.Item.ReadableContent) {
			kept = append(kept, item)
		}
	}
	return kept
}
