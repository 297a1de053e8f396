package digest

import (
	"slices"

	"digestly/internal/core"
)

const (
	maxSelections = 5
	maxPerTopic   = 2
)

// chooseRankedSelections greedily picks a diversity-capped subset from the
// ranked items: walking in rank order, an item is admitted iff its topic
// has fewer than two admissions so far, stopping at five. The admitted set
// is then regrouped by first-seen topic order, preserving rank within each
// topic group. The returned topic list excludes empty labels; empty-topic
// items themselves remain selectable.
func chooseRankedSelections(ranked []core.RankedItem) ([]core.RankedItem, []string) {
	var (
		selected   []core.RankedItem
		topicOrder []string
	)
	topicCount := make(map[string]int)

	for _, item := range ranked {
		if len(selected) >= maxSelections {
			break
		}
		if topicCount[item.Topic] >= maxPerTopic {
			continue
		}
		topicCount[item.Topic]++
		selected = append(selected, item)
		if !slices.Contains(topicOrder, item.Topic) {
			topicOrder = append(topicOrder, item.Topic)
		}
	}

	final := make([]core.RankedItem, 0, len(selected))
	for _, topic := range topicOrder {
		for _, item := range selected {
			if item.Topic == topic {
				final = append(final, item)
			}
		}
	}

	return final, filterTopics(topicOrder)
}

// filterTopics drops empty topic labels from the reported list.
func filterTopics(topics []string) []string {
	var kept []string
	for _, topic := range topics {
		if topic != "" {
			kept = append(kept, topic)
		}
	}
	return kept
}
