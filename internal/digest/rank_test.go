package digest

import (
	"context"
	"errors"
	"testing"

	"digestly/internal/core"
)

func TestRankCandidatesDefensiveJoin(t *testing.T) {
	f := newFixture()
	f.client.structuredFn = func(template string, vars map[string]any, out any) error {
		ranked := out.(*[]rankedTitle)
		*ranked = []rankedTitle{
			{Topic: "go", ID: "b", Title: "B"},
			{Topic: "go", ID: "ghost", Title: "Hallucinated"}, // not in the candidate set
			{Topic: "db", ID: "a", Title: "A"},
		}
		return nil
	}
	svc := f.service()

	candidates := []core.LibraryItem{
		{ID: "a", Title: "A"},
		{ID: "b", Title: "B"},
	}

	got, err := svc.rankCandidates(context.Background(), testDefinition(), f.client, candidates, "profile")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("hallucinated ids must be dropped, got %d items", len(got))
	}
	// Model ordering is rank order.
	if got[0].Item.ID != "b" || got[1].Item.ID != "a" {
		t.Errorf("expected order [b a], got [%s %s]", got[0].Item.ID, got[1].Item.ID)
	}
	if got[0].Topic != "go" || got[1].Topic != "db" {
		t.Errorf("topics should follow the model response, got %q %q", got[0].Topic, got[1].Topic)
	}
}

func TestRankCandidatesPropagatesProviderError(t *testing.T) {
	f := newFixture()
	f.client.structuredFn = func(template string, vars map[string]any, out any) error {
		return errors.New("model unavailable")
	}
	svc := f.service()

	_, err := svc.rankCandidates(context.Background(), testDefinition(), f.client, testItems(2), "profile")
	if err == nil {
		t.Fatal("expected an error from the failing provider")
	}
}

func TestRankCandidatesSendsProfileAndTitles(t *testing.T) {
	f := newFixture()
	var gotVars map[string]any
	f.client.structuredFn = func(template string, vars map[string]any, out any) error {
		gotVars = vars
		ranked := out.(*[]rankedTitle)
		*ranked = nil
		return nil
	}
	svc := f.service()

	_, err := svc.rankCandidates(context.Background(), testDefinition(), f.client, []core.LibraryItem{{ID: "x", Title: "X"}}, "likes Go")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotVars["userProfile"] != "likes Go" {
		t.Errorf("profile should be passed through, got %v", gotVars["userProfile"])
	}
	titles, _ := gotVars["titles"].(string)
	if titles != `[{"id":"x","title":"X"}]` {
		t.Errorf("titles should be a JSON array of id/title pairs, got %s", titles)
	}
}
