package digest

import (
	"context"
	"encoding/json"
	"fmt"

	"digestly/internal/core"
	"digestly/internal/logger"
	"digestly/internal/storage"
)

// writeRecord persists the digest record to the cache store under a
// run-scoped key. This write is on the critical path: its failure fails
// the run.
func (s *Service) writeRecord(ctx context.Context, userID string, dg core.Digest) error {
	payload, err := json.Marshal(dg)
	if err != nil {
		return fmt.Errorf("%w: encoding digest record: %v", ErrPersistence, err)
	}

	key := recordKey(userID, dg.ID)
	if err := s.store.Set(ctx, key, string(payload), s.opts.RecordTTL); err != nil {
		return fmt.Errorf("%w: writing digest record: %v", ErrPersistence, err)
	}
	return nil
}

func recordKey(userID, digestID string) string {
	return fmt.Sprintf("digest:%s:%s", userID, digestID)
}

type auditEntry struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

type auditPayload struct {
	Model     string       `json:"model"`
	Summaries []auditEntry `json:"summaries"`
}

// uploadAudit writes the full unfiltered summary set to object storage.
// Best-effort: failures are logged and never affect the run's outcome.
func (s *Service) uploadAudit(ctx context.Context, userID string, dg core.Digest, summaries []core.RankedItem) {
	if s.uploader == nil {
		return
	}

	entries := make([]auditEntry, len(summaries))
	for i, item := range summaries {
		entries[i] = auditEntry{Title: item.Item.Title, Summary: item.Summary}
	}

	payload, err := json.Marshal(auditPayload{Model: dg.Model, Summaries: entries})
	if err != nil {
		logger.Error("encoding audit payload failed", err, "digestId", dg.ID)
		return
	}

	path := fmt.Sprintf("digest/%s/%s/summaries.json", userID, dg.ID)
	if err := s.uploader.Put(ctx, path, payload, storage.PutOptions{ContentType: "application/json"}); err != nil {
		logger.Error("audit upload failed", err, "digestId", dg.ID, "path", path)
		return
	}
	logger.Debug("audit summary uploaded", "digestId", dg.ID, "path", path)
}
