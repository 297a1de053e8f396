package digest

import (
	"context"
	"fmt"
	"strings"

	"digestly/internal/core"
	"digestly/internal/llm"
	"digestly/internal/logger"
)

// findOrCreateProfile returns the user's cached preference profile, or
// builds one from their preference items and caches it. Callers treat a
// failure here as recoverable: the run proceeds without personalization.
func (s *Service) findOrCreateProfile(ctx context.Context, def *core.DigestDefinition, client llm.Client, userID string) (string, error) {
	key := profileKey(userID)

	cached, ok, err := s.store.Get(ctx, key)
	if err != nil {
		logger.Warn("profile cache read failed", "userId", userID, "error", err.Error())
	} else if ok {
		return cached, nil
	}

	prefs, err := s.runSelectors(ctx, def.PreferenceSelectors, userID, false)
	if err != nil {
		return "", fmt.Errorf("gathering preference items: %w", err)
	}
	prefs = dedupeByID(prefs)
	if len(prefs) == 0 {
		return "", fmt.Errorf("no preference items for user %s", userID)
	}

	titles := make([]string, len(prefs))
	for i, item := range prefs {
		titles[i] = "* " + item.Title
	}

	profile, err := client.Complete(ctx, def.ZeroShot.UserPreferencesProfilePrompt, map[string]any{
		"titles": strings.Join(titles, "\n"),
	})
	if err != nil {
		return "", fmt.Errorf("building preference profile: %w", err)
	}

	if err := s.store.Set(ctx, key, profile, s.opts.ProfileTTL); err != nil {
		// A stale cache only costs a recompute next run.
		logger.Warn("profile cache write failed", "userId", userID, "error", err.Error())
	}
	return profile, nil
}

func profileKey(userID string) string {
	return fmt.Sprintf("digest:%s:userProfile", userID)
}
