package digest

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"digestly/internal/core"
	"digestly/internal/markdown"
	"digestly/internal/tts"
)

// titlePrefix is the fixed literal prefix of every digest title.
const titlePrefix = "Digestly digest: "

// generateSpeechFiles renders each retained summary into the speech
// wrapper markup and synthesizes it, one speech file per retained item in
// selection order.
func (s *Service) generateSpeechFiles(ctx context.Context, retained []core.RankedItem, req Request, userID, digestID string) ([]core.SpeechFile, error) {
	opts := tts.Options{
		Voice:      s.opts.DefaultVoice,
		Language:   req.Language,
		Rate:       req.Rate,
		PathPrefix: fmt.Sprintf("digest/%s/%s", userID, digestID),
	}
	if len(req.Voices) > 0 {
		opts.Voice = req.Voices[0]
	}
	if len(req.Voices) > 1 {
		opts.SecondaryVoice = req.Voices[1]
	}

	files := make([]core.SpeechFile, len(retained))
	for i, item := range retained {
		html := markdown.WrapForSpeech(markdown.ToHTML(item.Summary))
		file, err := s.synthesizer.Synthesize(ctx, html, opts)
		if err != nil {
			return nil, fmt.Errorf("%w: synthesizing chapter %d: %v", ErrProvider, i, err)
		}
		files[i] = file
	}
	return files, nil
}

// buildDigest assembles the terminal artifact. Title, content, and byline
// cover the entire summarized batch; description and chapters cover only
// the retained items.
func (s *Service) buildDigest(digestID, model string, summaries, retained []core.RankedItem, topics []string, speechFiles []core.SpeechFile) core.Digest {
	chapters := make([]core.Chapter, len(retained))
	for i, item := range retained {
		chapters[i] = core.Chapter{
			Title:     item.Item.Title,
			ID:        item.Item.ID,
			URL:       item.Item.OriginalURL,
			Thumbnail: item.Item.Thumbnail,
			WordCount: speechFiles[i].WordCount,
		}
	}

	return core.Digest{
		ID:          digestID,
		Title:       buildTitle(summaries),
		Content:     buildContent(summaries),
		Description: buildDescription(retained, topics),
		Byline:      buildByline(summaries),
		Chapters:    chapters,
		JobState:    core.JobSucceeded,
		Model:       model,
		CreatedAt:   time.Now().UTC(),
		SpeechFiles: speechFiles,
	}
}

func buildTitle(summaries []core.RankedItem) string {
	titles := make([]string, len(summaries))
	for i, item := range summaries {
		titles[i] = item.Item.Title
	}
	return titlePrefix + strings.Join(titles, ", ")
}

func buildDescription(retained []core.RankedItem, topics []string) string {
	description := fmt.Sprintf("We selected %d articles from your last 24 hours of saved items", len(retained))
	if len(topics) > 0 {
		return description + ", covering " + strings.Join(topics, ", ") + "."
	}
	return description + "."
}

func buildContent(summaries []core.RankedItem) string {
	blocks := make([]string, len(summaries))
	for i, item := range summaries {
		blocks[i] = fmt.Sprintf("### %s\n%s", item.Item.Title, item.Summary)
	}
	return strings.Join(blocks, "\n\n")
}

func buildByline(summaries []core.RankedItem) string {
	var authors []string
	for _, item := range summaries {
		if item.Item.Author == "" || slices.Contains(authors, item.Item.Author) {
			continue
		}
		authors = append(authors, item.Item.Author)
	}
	return strings.Join(authors, ", ")
}
