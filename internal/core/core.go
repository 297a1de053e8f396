package core

import "time"

// JobState is the terminal state of a digest run.
type JobState string

const (
	JobSucceeded JobState = "SUCCEEDED"
	JobFailed    JobState = "FAILED"
)

// Channel identifies a notification delivery channel.
type Channel string

const (
	ChannelPush  Channel = "push"
	ChannelEmail Channel = "email"
)

// LibraryItem is a saved content item as returned by the library search
// service. It is read-only within the digest pipeline; identity is ID.
type LibraryItem struct {
	ID              string `json:"id"`              // Unique identifier for the item
	Title           string `json:"title"`           // Title of the item
	Author          string `json:"author"`          // Author, may be empty
	ReadableContent string `json:"readableContent"` // Readable content (HTML from the library, markdown after normalization)
	OriginalURL     string `json:"originalUrl"`     // URL the item was saved from
	Thumbnail       string `json:"thumbnail"`       // Thumbnail URL, may be empty
	WordCount       int    `json:"wordCount"`       // Word count of the readable content
}

// RankedItem is a run-scoped candidate carrying its topic label and, once
// summarization has run, its generated summary.
type RankedItem struct {
	Topic   string       `json:"topic"`   // Topic label assigned by ranking (empty when ranking is skipped)
	Summary string       `json:"summary"` // Generated summary, empty until the summarize stage
	Item    *LibraryItem `json:"item"`    // The underlying library item
}

// Chapter is one digest sub-unit corresponding to a retained item.
type Chapter struct {
	Title     string `json:"title"`     // Title of the source item
	ID        string `json:"id"`        // ID of the source item
	URL       string `json:"url"`       // Original URL of the source item
	Thumbnail string `json:"thumbnail"` // Thumbnail URL, may be empty
	WordCount int    `json:"wordCount"` // Word count of the chapter's speech file
}

// SpeechFile references a synthesized audio artifact.
type SpeechFile struct {
	AudioRef  string `json:"audioRef"`  // Storage path of the audio artifact
	WordCount int    `json:"wordCount"` // Word count of the spoken text
}

// Digest is the terminal artifact of a run. ID doubles as the run's
// idempotency key; the record is not mutated after the orchestrator's
// final write.
type Digest struct {
	ID          string       `json:"id"`
	Title       string       `json:"title,omitempty"`
	Content     string       `json:"content,omitempty"`
	Description string       `json:"description,omitempty"`
	Byline      string       `json:"byline,omitempty"`
	Chapters    []Chapter    `json:"chapters,omitempty"`
	JobState    JobState     `json:"jobState"`
	Model       string       `json:"model,omitempty"`
	CreatedAt   time.Time    `json:"createdAt,omitempty"`
	SpeechFiles []SpeechFile `json:"speechFiles,omitempty"`
}

// Selector is a named search query with a target result count.
type Selector struct {
	Query  string `yaml:"query" json:"query"`   // Opaque structured filter query for the library search service
	Count  int    `yaml:"count" json:"count"`   // Target number of results
	Reason string `yaml:"reason" json:"reason"` // Human-readable reason for the selector
}

// ZeroShotDefinition holds the prompts used for preference profiling and
// candidate ranking.
type ZeroShotDefinition struct {
	UserPreferencesProfilePrompt string `yaml:"userPreferencesProfilePrompt" json:"userPreferencesProfilePrompt"`
	RankPrompt                   string `yaml:"rankPrompt" json:"rankPrompt"`
}

// DigestDefinition is the externally hosted definition document describing
// selection queries and prompt templates. It is loaded once per run and
// never mutated afterwards.
type DigestDefinition struct {
	Name                  string             `yaml:"name" json:"name"`
	PreferenceSelectors   []Selector         `yaml:"preferenceSelectors" json:"preferenceSelectors"`
	CandidateSelectors    []Selector         `yaml:"candidateSelectors" json:"candidateSelectors"`
	ContentFeaturesPrompt string             `yaml:"contentFeaturesPrompt" json:"contentFeaturesPrompt"`
	ContentRatingPrompt   string             `yaml:"contentRatingPrompt" json:"contentRatingPrompt"`
	SummaryPrompt         string             `yaml:"summaryPrompt" json:"summaryPrompt"`
	AssemblePrompt        string             `yaml:"assemblePrompt" json:"assemblePrompt"`
	ZeroShot              ZeroShotDefinition `yaml:"zeroShot" json:"zeroShot"`
	Model                 string             `yaml:"model" json:"model"` // Optional default model identifier
}

// DigestConfig is the per-user digest personalization settings.
type DigestConfig struct {
	Model    string    `json:"model,omitempty"`    // Preferred model ("openai", "anthropic", "random")
	Channels []Channel `json:"channels,omitempty"` // Notification channels; defaults to push when empty
}

// User is the digest recipient as returned by the user service.
type User struct {
	ID           string        `json:"id"`
	Email        string        `json:"email"`
	Name         string        `json:"name"`
	DigestConfig *DigestConfig `json:"digestConfig,omitempty"`
}
