package digest

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"digestly/internal/core"
	"digestly/internal/logger"
	"digestly/internal/markdown"
	"digestly/internal/search"
)

// gatherCandidates resolves the run's working item set. With explicit ids
// it fetches those items and dedups them; otherwise it fans out every candidate
// selector, dedups by id keeping first occurrence, normalizes each item's
// content to markdown, and samples down to the candidate cap. An empty
// result is a valid outcome, not an error.
func (s *Service) gatherCandidates(ctx context.Context, def *core.DigestDefinition, userID string, itemIDs []string) ([]core.LibraryItem, error) {
	if len(itemIDs) > 0 {
		items, err := s.searcher.FindByIDs(ctx, itemIDs, userID)
		if err != nil {
			return nil, fmt.Errorf("%w: fetching explicit items: %v", ErrProvider, err)
		}
		return normalizeContent(dedupeByID(items)), nil
	}

	items, err := s.runSelectors(ctx, def.CandidateSelectors, userID, true)
	if err != nil {
		return nil, fmt.Errorf("%w: gathering candidates: %v", ErrProvider, err)
	}

	deduped := dedupeByID(items)
	if len(deduped) == 0 {
		return nil, nil
	}
	deduped = normalizeContent(deduped)

	sampled := s.sampleCandidates(deduped)
	logger.Debug("candidates gathered", "userId", userID, "deduped", len(deduped), "sampled", len(sampled))
	return sampled, nil
}

// runSelectors executes every selector query concurrently and flattens the
// results in selector order.
func (s *Service) runSelectors(ctx context.Context, selectors []core.Selector, userID string, includeContent bool) ([]core.LibraryItem, error) {
	results := make([][]core.LibraryItem, len(selectors))

	g, gctx := errgroup.WithContext(ctx)
	for i, sel := range selectors {
		i, sel := i, sel
		g.Go(func() error {
			items, err := s.searcher.Search(gctx, search.Spec{
				Query:          sel.Query,
				Size:           sel.Count,
				IncludeContent: includeContent,
			}, userID)
			if err != nil {
				return fmt.Errorf("selector %q: %w", sel.Reason, err)
			}
			results[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var flat []core.LibraryItem
	for _, items := range results {
		flat = append(flat, items...)
	}
	return flat, nil
}

// dedupeByID removes duplicate items, keeping the first occurrence.
func dedupeByID(items []core.LibraryItem) []core.LibraryItem {
	seen := make(map[string]bool, len(items))
	deduped := make([]core.LibraryItem, 0, len(items))
	for _, item := range items {
		if seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		deduped = append(deduped, item)
	}
	return deduped
}

// normalizeContent converts each item's readable HTML to markdown for
// downstream prompting.
func normalizeContent(items []core.LibraryItem) []core.LibraryItem {
	for i := range items {
		items[i].ReadableContent = markdown.FromHTML(items[i].ReadableContent)
	}
	return items
}

// sampleCandidates applies a uniform random sample without replacement
// down to the candidate cap. Sets at or under the cap pass through in
// first-occurrence order.
func (s *Service) sampleCandidates(items []core.LibraryItem) []core.LibraryItem {
	if len(items) <= s.opts.CandidateCap {
		return items
	}

	sampled := make([]core.LibraryItem, 0, s.opts.CandidateCap)
	for _, idx := range s.opts.Rand.Perm(len(items))[:s.opts.CandidateCap] {
		sampled = append(sampled, items[idx])
	}
	return sampled
}
