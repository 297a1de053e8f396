package digest

import "errors"

// Error taxonomy for the digest run. Stages wrap these sentinels so the
// orchestrator can classify failures without inspecting stage internals.
var (
	// ErrConfig means the definition document is unset, unreachable or
	// unparsable. Fatal to the run.
	ErrConfig = errors.New("digest definition unavailable")

	// ErrUserNotFound means the target user does not exist. Fatal; a
	// Failed record is written before any candidate work.
	ErrUserNotFound = errors.New("user not found")

	// ErrProvider means an external search/LLM/speech call failed in a
	// position where no item-level recovery applies.
	ErrProvider = errors.New("provider call failed")

	// ErrPersistence means a critical-path write (the digest record)
	// failed. Audit uploads are best-effort and never wrap this.
	ErrPersistence = errors.New("persistence failed")
)
