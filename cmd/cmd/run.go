package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"digestly/internal/cache"
	"digestly/internal/config"
	"digestly/internal/core"
	"digestly/internal/definition"
	"digestly/internal/digest"
	"digestly/internal/llm"
	"digestly/internal/notify"
	"digestly/internal/search"
	"digestly/internal/storage"
	"digestly/internal/tts"
	"digestly/internal/user"
)

var (
	runUserID   string
	runDigestID string
	runItemIDs  []string
	runVoices   []string
	runLanguage string
	runRate     string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one digest generation job for a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		cfg := config.Get()

		svc, cleanup, err := buildService(ctx, cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		resp := svc.CreateDigest(ctx, digest.Request{
			ID:             runDigestID,
			UserID:         runUserID,
			Voices:         runVoices,
			Language:       runLanguage,
			Rate:           runRate,
			LibraryItemIDs: runItemIDs,
		})

		fmt.Printf("job %s finished: %s\n", resp.JobID, resp.JobState)
		if resp.JobState == core.JobFailed {
			os.Exit(1)
		}
		return nil
	},
}

func buildService(ctx context.Context, cfg *config.Config) (*digest.Service, func(), error) {
	store, err := cache.NewRedis(cfg.Cache)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to cache store: %w", err)
	}

	uploader, err := storage.NewGCS(ctx, cfg.Storage.Bucket)
	if err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("connecting to object storage: %w", err)
	}

	cleanup := func() {
		_ = uploader.Close()
		_ = store.Close()
	}

	loader := definition.NewLoader(cfg.Definition.URL, config.ParseDuration(cfg.Definition.Timeout, 0))
	searcher := search.NewClient(cfg.Library.BaseURL, cfg.Library.APIKey, config.ParseDuration(cfg.Library.Timeout, 0))
	users := user.NewClient(cfg.Library.BaseURL, cfg.Library.APIKey, config.ParseDuration(cfg.Library.Timeout, 0))
	synthesizer := tts.NewClient(cfg.TTS.Endpoint, cfg.TTS.APIKey, config.ParseDuration(cfg.TTS.Timeout, 0), uploader)
	notifier := notify.NewClient(
		cfg.Notification.PushEndpoint,
		cfg.Notification.EmailEndpoint,
		cfg.Notification.APIKey,
		config.ParseDuration(cfg.Notification.Timeout, 0),
	)
	factory := llm.NewFactory(cfg.AI, cfg.Digest.MaxConcurrency)

	svc := digest.NewService(
		loader,
		users,
		searcher,
		factory,
		synthesizer,
		store,
		uploader,
		notifier,
		notifier,
		digest.Options{
			Personalize:   cfg.Digest.Personalize,
			CandidateCap:  cfg.Digest.CandidateCap,
			RecordTTL:     config.ParseDuration(cfg.Digest.RecordTTL, 0),
			ProfileTTL:    config.ParseDuration(cfg.Digest.ProfileTTL, 0),
			DefaultVoice:  cfg.TTS.DefaultVoice,
			SenderAddress: cfg.Notification.SenderAddress,
		},
	)
	return svc, cleanup, nil
}

func init() {
	runCmd.Flags().StringVar(&runUserID, "user", "", "id of the user to generate the digest for (required)")
	runCmd.Flags().StringVar(&runDigestID, "id", "", "digest id (idempotency key); generated when omitted")
	runCmd.Flags().StringSliceVar(&runItemIDs, "items", nil, "explicit library item ids, bypassing discovery")
	runCmd.Flags().StringSliceVar(&runVoices, "voices", nil, "primary and secondary synthesis voices")
	runCmd.Flags().StringVar(&runLanguage, "language", "", "synthesis language")
	runCmd.Flags().StringVar(&runRate, "rate", "", "synthesis speaking rate")
	_ = runCmd.MarkFlagRequired("user")

	rootCmd.AddCommand(runCmd)
}
