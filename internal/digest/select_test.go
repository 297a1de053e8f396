package digest

import (
	"testing"

	"digestly/internal/core"
)

func ranked(topic, id string) core.RankedItem {
	return core.RankedItem{Topic: topic, Item: &core.LibraryItem{ID: id}}
}

func ids(items []core.RankedItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Item.ID
	}
	return out
}

func TestChooseRankedSelectionsDiversityCap(t *testing.T) {
	input := []core.RankedItem{
		ranked("go", "1"),
		ranked("go", "2"),
		ranked("go", "3"), // third of its topic, skipped
		ranked("db", "4"),
		ranked("db", "5"),
		ranked("ml", "6"),
		ranked("ml", "7"), // sixth admission, never reached
	}

	selected, topics := chooseRankedSelections(input)

	if len(selected) != 5 {
		t.Fatalf("expected 5 selections, got %d", len(selected))
	}
	counts := make(map[string]int)
	for _, item := range selected {
		counts[item.Topic]++
	}
	for topic, count := range counts {
		if count > 2 {
			t.Errorf("topic %s selected %d times, cap is 2", topic, count)
		}
	}
	if len(topics) != 3 {
		t.Errorf("expected 3 topics, got %v", topics)
	}
}

func TestChooseRankedSelectionsGroupsByFirstSeenTopic(t *testing.T) {
	input := []core.RankedItem{
		ranked("go", "1"),
		ranked("db", "2"),
		ranked("go", "3"),
		ranked("ml", "4"),
		ranked("db", "5"),
	}

	selected, topics := chooseRankedSelections(input)

	// Topic groups are contiguous in first-seen order; rank order is
	// preserved within each group.
	want := []string{"1", "3", "2", "5", "4"}
	got := ids(selected)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}

	wantTopics := []string{"go", "db", "ml"}
	for i := range wantTopics {
		if topics[i] != wantTopics[i] {
			t.Fatalf("expected topics %v, got %v", wantTopics, topics)
		}
	}
}

func TestChooseRankedSelectionsEmptyTopic(t *testing.T) {
	input := []core.RankedItem{
		ranked("", "1"),
		ranked("", "2"),
		ranked("go", "3"),
	}

	selected, topics := chooseRankedSelections(input)

	// Empty-topic items stay selectable under the untouched-topic key...
	if len(selected) != 3 {
		t.Fatalf("expected 3 selections, got %d", len(selected))
	}
	// ...but the empty label never appears in the reported topic list.
	for _, topic := range topics {
		if topic == "" {
			t.Error("empty topic label must be filtered from the topic list")
		}
	}
	if len(topics) != 1 || topics[0] != "go" {
		t.Errorf("expected topics [go], got %v", topics)
	}
}

func TestChooseRankedSelectionsShortInput(t *testing.T) {
	input := []core.RankedItem{ranked("go", "1")}

	selected, topics := chooseRankedSelections(input)

	if len(selected) != 1 {
		t.Fatalf("expected 1 selection, got %d", len(selected))
	}
	if len(topics) != 1 {
		t.Fatalf("expected 1 topic, got %v", topics)
	}
}
