package digest

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"digestly/internal/core"
	"digestly/internal/logger"
	"digestly/internal/markdown"
	"digestly/internal/notify"
)

const fallbackTitle = "Digestly digest"

// channelsFor resolves the user's configured notification channels,
// defaulting to push.
func channelsFor(usr *core.User) []core.Channel {
	if usr != nil && usr.DigestConfig != nil && len(usr.DigestConfig.Channels) > 0 {
		return usr.DigestConfig.Channels
	}
	return []core.Channel{core.ChannelPush}
}

// sendNotifications fans out over the deduplicated channel set. Channel
// failures are logged; one channel's failure never blocks the other.
func (s *Service) sendNotifications(ctx context.Context, usr *core.User, channels []core.Channel, dg core.Digest) {
	var g errgroup.Group
	for _, ch := range dedupeChannels(channels) {
		ch := ch
		g.Go(func() error {
			var err error
			switch ch {
			case core.ChannelPush:
				err = s.sendPush(ctx, usr.ID, dg)
			case core.ChannelEmail:
				err = s.sendEmail(ctx, usr, dg)
			default:
				logger.Warn("unknown notification channel", "channel", string(ch))
			}
			if err != nil {
				logger.Error("notification failed", err, "channel", string(ch), "digestId", dg.ID)
			}
			return nil
		})
	}
	_ = g.Wait()
}

func dedupeChannels(channels []core.Channel) []core.Channel {
	seen := make(map[core.Channel]bool, len(channels))
	var deduped []core.Channel
	for _, ch := range channels {
		if seen[ch] {
			continue
		}
		seen[ch] = true
		deduped = append(deduped, ch)
	}
	return deduped
}

func (s *Service) sendPush(ctx context.Context, userID string, dg core.Digest) error {
	title := dg.Title
	if title == "" {
		title = fallbackTitle
	}

	return s.pusher.SendPush(ctx, userID, notify.Notification{
		Title: title,
		Body:  "Your digest is ready to listen",
	}, "reminder")
}

func (s *Service) sendEmail(ctx context.Context, usr *core.User, dg core.Digest) error {
	title := dg.Title
	if title == "" {
		title = fallbackTitle
	}

	return s.emailer.SendEmail(ctx, notify.Email{
		To:      usr.Email,
		From:    s.opts.SenderAddress,
		Subject: title,
		HTML:    renderEmailHTML(title, dg),
	})
}

// renderEmailHTML builds the digest email body: chapter links followed by
// the full transcript.
func renderEmailHTML(title string, dg core.Digest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<h1>%s</h1>\n", title)
	b.WriteString("<h2>Chapters</h2>\n<ul>\n")
	for _, chapter := range dg.Chapters {
		fmt.Fprintf(&b, "<li><a href=%q>%s</a></li>\n", chapter.URL, chapter.Title)
	}
	b.WriteString("</ul>\n<h2>Transcript</h2>\n")

	if dg.Content == "" {
		b.WriteString("<p>Transcript not available</p>\n")
	} else {
		b.WriteString(markdown.ToHTML(dg.Content) + "\n")
	}

	return b.String()
}
