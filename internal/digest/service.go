// Package digest generates personalized content digests: it selects a
// bounded set of saved items, optionally ranks and diversifies them
// against a cached preference profile, summarizes each with an LLM,
// renders the summaries into text and audio chapters, and notifies the
// user. Notification fires exactly once on every exit path.
package digest

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"digestly/internal/cache"
	"digestly/internal/core"
	"digestly/internal/llm"
	"digestly/internal/logger"
	"digestly/internal/notify"
	"digestly/internal/search"
	"digestly/internal/storage"
	"digestly/internal/tts"
)

// Request is the invocation contract for one digest run.
type Request struct {
	ID             string   `json:"id,omitempty"` // idempotency key; generated when absent
	UserID         string   `json:"userId"`
	Voices         []string `json:"voices,omitempty"`
	Language       string   `json:"language,omitempty"`
	Rate           string   `json:"rate,omitempty"`
	LibraryItemIDs []string `json:"libraryItemIds,omitempty"`
}

// Response reports the run's outcome.
type Response struct {
	JobID    string        `json:"jobId"`
	JobState core.JobState `json:"jobState"`
}

// Options tune the pipeline.
type Options struct {
	Personalize   bool          // enable profile -> rank -> topic selection
	CandidateCap  int           // post-dedup sampling cap
	RecordTTL     time.Duration // digest record TTL in the cache store
	ProfileTTL    time.Duration // preference profile TTL in the cache store
	DefaultVoice  string        // voice used when the request names none
	SenderAddress string        // From address for digest emails
	Rand          *rand.Rand    // injectable randomness; seeded from time when nil
}

// Service orchestrates digest runs over its collaborators.
type Service struct {
	definitions DefinitionLoader
	users       UserFinder
	searcher    search.Searcher
	llms        LLMFactory
	synthesizer tts.Synthesizer
	store       cache.Store
	uploader    storage.Uploader
	pusher      notify.Pusher
	emailer     notify.Emailer
	opts        Options
}

// NewService wires a digest Service. uploader may be nil, in which case the
// audit upload is skipped.
func NewService(
	definitions DefinitionLoader,
	users UserFinder,
	searcher search.Searcher,
	llms LLMFactory,
	synthesizer tts.Synthesizer,
	store cache.Store,
	uploader storage.Uploader,
	pusher notify.Pusher,
	emailer notify.Emailer,
	opts Options,
) *Service {
	if opts.CandidateCap <= 0 {
		opts.CandidateCap = 25
	}
	if opts.RecordTTL <= 0 {
		opts.RecordTTL = 7 * 24 * time.Hour
	}
	if opts.ProfileTTL <= 0 {
		opts.ProfileTTL = 7 * 24 * time.Hour
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Service{
		definitions: definitions,
		users:       users,
		searcher:    searcher,
		llms:        llms,
		synthesizer: synthesizer,
		store:       store,
		uploader:    uploader,
		pusher:      pusher,
		emailer:     emailer,
		opts:        opts,
	}
}

// CreateDigest executes one digest run. Every exit path ends with exactly
// one notification over the user's (deduplicated) channel set; the audit
// upload afterwards is best-effort and never affects the outcome.
func (s *Service) CreateDigest(ctx context.Context, req Request) Response {
	digestID := req.ID
	if digestID == "" {
		digestID = uuid.NewString()
	}

	var (
		dg        core.Digest
		summaries []core.RankedItem
	)

	usr, err := s.users.Find(ctx, req.UserID)
	if err != nil {
		logger.Error("user lookup failed", err, "userId", req.UserID)
		dg = core.Digest{ID: digestID, JobState: core.JobFailed}
		if werr := s.writeRecord(ctx, req.UserID, dg); werr != nil {
			logger.Error("failed digest record write", werr, "digestId", digestID)
		}
		// Notification still goes out on the default channel.
		usr = &core.User{ID: req.UserID}
	} else {
		dg, summaries = s.run(ctx, usr, req, digestID)
	}

	// The guaranteed block: one notification, regardless of which branch
	// produced dg. A cancelled run context must not suppress it.
	s.sendNotifications(context.WithoutCancel(ctx), usr, channelsFor(usr), dg)

	if dg.JobState == core.JobSucceeded && len(summaries) > 0 {
		s.uploadAudit(context.WithoutCancel(ctx), usr.ID, dg, summaries)
	}

	return Response{JobID: digestID, JobState: dg.JobState}
}

// run executes the pipeline stages after user lookup and writes the
// terminal digest record. It returns the digest as written plus the full
// (unfiltered) summary set for the audit upload.
func (s *Service) run(ctx context.Context, usr *core.User, req Request, digestID string) (core.Digest, []core.RankedItem) {
	def, err := s.definitions.Load(ctx)
	if err != nil {
		return s.fail(ctx, usr.ID, digestID, err), nil
	}

	model := s.selectModel(usr, def)
	client, err := s.llms.Client(model)
	if err != nil {
		return s.fail(ctx, usr.ID, digestID, err), nil
	}
	logger.Info("digest run started", "digestId", digestID, "userId", usr.ID, "model", model, "definition", def.Name)

	candidates, err := s.gatherCandidates(ctx, def, usr.ID, req.LibraryItemIDs)
	if err != nil {
		return s.fail(ctx, usr.ID, digestID, err), nil
	}

	if len(candidates) == 0 {
		// Not an error: a valid terminal success with an empty digest.
		logger.Info("no candidates found", "digestId", digestID, "userId", usr.ID)
		dg := core.Digest{ID: digestID, JobState: core.JobSucceeded}
		if err := s.writeRecord(ctx, usr.ID, dg); err != nil {
			return s.fail(ctx, usr.ID, digestID, err), nil
		}
		return dg, nil
	}

	selections, topics := s.selectCandidates(ctx, def, client, usr.ID, candidates)

	summaries, err := s.summarizeItems(ctx, def, client, selections)
	if err != nil {
		return s.fail(ctx, usr.ID, digestID, err), nil
	}

	retained := filterSummaries(summaries)
	logger.Info("summaries filtered", "digestId", digestID, "summarized", len(summaries), "retained", len(retained))

	speechFiles, err := s.generateSpeechFiles(ctx, retained, req, usr.ID, digestID)
	if err != nil {
		return s.fail(ctx, usr.ID, digestID, err), nil
	}

	dg := s.buildDigest(digestID, model, summaries, retained, topics, speechFiles)
	if err := s.writeRecord(ctx, usr.ID, dg); err != nil {
		return s.fail(ctx, usr.ID, digestID, err), nil
	}

	logger.Info("digest created", "digestId", digestID, "chapters", len(dg.Chapters))
	return dg, summaries
}

// selectCandidates runs the optional personalization stages. Profile or
// ranking trouble degrades to the unranked candidate set rather than
// failing the run.
func (s *Service) selectCandidates(ctx context.Context, def *core.DigestDefinition, client llm.Client, userID string, candidates []core.LibraryItem) ([]core.RankedItem, []string) {
	if !s.opts.Personalize {
		return asRankedItems(candidates), nil
	}

	profile, err := s.findOrCreateProfile(ctx, def, client, userID)
	if err != nil {
		logger.Warn("preference profile unavailable, skipping ranking", "userId", userID, "error", err.Error())
		return asRankedItems(candidates), nil
	}

	ranked, err := s.rankCandidates(ctx, def, client, candidates, profile)
	if err != nil {
		logger.Warn("ranking unavailable, using arrival order", "userId", userID, "error", err.Error())
		return asRankedItems(candidates), nil
	}

	return chooseRankedSelections(ranked)
}

func (s *Service) selectModel(usr *core.User, def *core.DigestDefinition) string {
	override := ""
	if usr.DigestConfig != nil {
		override = usr.DigestConfig.Model
	}
	return llm.SelectModel(override, def.Model, s.opts.Rand)
}

// fail records the Failed outcome and returns the failed digest.
func (s *Service) fail(ctx context.Context, userID, digestID string, cause error) core.Digest {
	logger.Error("digest run failed", cause, "digestId", digestID, "userId", userID)

	dg := core.Digest{ID: digestID, JobState: core.JobFailed}
	if err := s.writeRecord(ctx, userID, dg); err != nil {
		logger.Error("failed digest record write", err, "digestId", digestID)
	}
	return dg
}

func asRankedItems(items []core.LibraryItem) []core.RankedItem {
	ranked := make([]core.RankedItem, len(items))
	for i := range items {
		ranked[i] = core.RankedItem{Item: &items[i]}
	}
	return ranked
}
