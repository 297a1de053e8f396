package digest

import (
	"context"
	"strings"
	"testing"

	"digestly/internal/core"
)

func summaryOfWords(n int) string {
	return strings.TrimSpace(strings.Repeat("w ", n))
}

func itemWithContent(contentWords int) core.RankedItem {
	return core.RankedItem{
		Item: &core.LibraryItem{
			Title:           "T",
			ReadableContent: strings.TrimSpace(strings.Repeat("source ", contentWords)),
		},
	}
}

func TestFilterSummariesBounds(t *testing.T) {
	cases := []struct {
		name  string
		words int
		keep  bool
	}{
		{"exactly 100 rejected", 100, false},
		{"101 accepted", 101, true},
		{"500 accepted", 500, true},
		{"999 accepted", 999, true},
		{"exactly 1000 rejected", 1000, false},
		{"too short rejected", 10, false},
		{"empty rejected", 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			item := itemWithContent(5000)
			item.Summary = summaryOfWords(tc.words)

			kept := filterSummaries([]core.RankedItem{item})
			if got := len(kept) == 1; got != tc.keep {
				t.Errorf("words=%d: kept=%v, want %v", tc.words, got, tc.keep)
			}
		})
	}
}

func TestFilterSummariesRejectsVerbatimCopy(t *testing.T) {
	item := itemWithContent(150)
	// Same length as the source: not a compression, rejected.
	item.Summary = item.Item.ReadableContent

	if kept := filterSummaries([]core.RankedItem{item}); len(kept) != 0 {
		t.Error("a summary at least as long as its source must be rejected")
	}
}

func TestFilterSummariesDropsRejectedEntirely(t *testing.T) {
	good := itemWithContent(5000)
	good.Summary = summaryOfWords(200)
	bad := itemWithContent(5000)
	bad.Summary = summaryOfWords(5)

	kept := filterSummaries([]core.RankedItem{bad, good, bad})
	if len(kept) != 1 {
		t.Fatalf("expected 1 retained item, got %d", len(kept))
	}
	if kept[0].Summary != good.Summary {
		t.Error("the retained item should be the passing one")
	}
}

func TestSummarizeItemsWritesBackInOrder(t *testing.T) {
	f := newFixture()
	f.client.batchFn = func(template string, vars []map[string]any) ([]string, error) {
		out := make([]string, len(vars))
		for i, v := range vars {
			out[i] = "summary of " + v["title"].(string)
		}
		return out, nil
	}
	svc := f.service()

	items := []core.RankedItem{
		{Item: &core.LibraryItem{Title: "first", ReadableContent: "c"}},
		{Item: &core.LibraryItem{Title: "second", ReadableContent: "c"}},
	}

	got, err := svc.summarizeItems(context.Background(), testDefinition(), f.client, items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].Summary != "summary of first" || got[1].Summary != "summary of second" {
		t.Errorf("summaries must map back index-for-index: %q, %q", got[0].Summary, got[1].Summary)
	}
}

func TestSummarizeItemsIsolatesItemFailure(t *testing.T) {
	f := newFixture()
	// Simulates one item failing inside the batch: the provider writes an
	// empty string at its index and the rest proceed.
	f.client.batchFn = func(template string, vars []map[string]any) ([]string, error) {
		return []string{goodSummary(), "", goodSummary()}, nil
	}
	svc := f.service()

	items := asRankedItems(testItems(3))
	got, err := svc.summarizeItems(context.Background(), testDefinition(), f.client, items)
	if err != nil {
		t.Fatalf("a single item failure must not abort the batch: %v", err)
	}
	if got[1].Summary != "" {
		t.Errorf("failed item should carry an empty summary, got %q", got[1].Summary)
	}

	// The quality filter then drops only the failed item.
	if kept := filterSummaries(got); len(kept) != 2 {
		t.Errorf("expected 2 retained items, got %d", len(kept))
	}
}
