package slack

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
	"go.mcconachie.co/slack-reactions/internal/report"
	"go.uber.org/zap"
)

// DefaultLimit is the conversations.replies result cap used when none is configured
const DefaultLimit = 1000

// ThreadReactions is the aggregated result of one thread fetch
type ThreadReactions struct {
	Rows         []report.Row
	MessageCount int
	HasMore      bool
}

// FetchThreadReactions fetches a thread with a single conversations.replies
// call and aggregates the reactions on messages carrying a file, one row per
// (author, file URL). Any request failure or missing field aborts the fetch.
func (c *Client) FetchThreadReactions(ctx context.Context, channelID, threadTS string, limit int) (ThreadReactions, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	messages, hasMore, _, err := c.api.GetConversationRepliesContext(ctx, &slack.GetConversationRepliesParameters{
		ChannelID: channelID,
		Timestamp: threadTS,
		Limit:     limit,
	})
	if err != nil {
		return ThreadReactions{}, fmt.Errorf("failed to get thread replies: %w", err)
	}
	if hasMore {
		c.logger.Warn("Thread has more messages than the limit; only the first page is aggregated",
			zap.String("thread_ts", threadTS),
			zap.Int("limit", limit))
	}

	agg := report.NewAggregator(report.Links{
		WorkspaceURL: c.cfg.WorkspaceURL,
		ChannelID:    channelID,
		ThreadTS:     threadTS,
	})
	for i, msg := range messages {
		tm, err := toThreadMessage(msg)
		if err != nil {
			return ThreadReactions{}, fmt.Errorf("message %d: %w", i, err)
		}
		agg.Add(tm)
	}

	c.logger.Info("Aggregated thread reactions",
		zap.String("channel_id", channelID),
		zap.String("thread_ts", threadTS),
		zap.Int("messages", len(messages)),
		zap.Int("rows", agg.Len()))

	return ThreadReactions{
		Rows:         agg.Rows(),
		MessageCount: len(messages),
		HasMore:      hasMore,
	}, nil
}

// toThreadMessage converts a Slack message, keeping only the first attached file
func toThreadMessage(msg slack.Message) (report.ThreadMessage, error) {
	tm := report.ThreadMessage{
		AuthorID:  msg.User,
		Timestamp: msg.Timestamp,
	}
	if len(msg.Files) == 0 {
		return tm, nil
	}

	tm.FileURL = msg.Files[0].URLPrivate
	if tm.FileURL == "" {
		return tm, nil
	}
	if msg.Timestamp == "" {
		return tm, fmt.Errorf("%w: ts", ErrMissingField)
	}

	tm.Reactions = make([]report.Reaction, 0, len(msg.Reactions))
	for _, r := range msg.Reactions {
		if r.Name == "" {
			return tm, fmt.Errorf("%w: reactions.name", ErrMissingField)
		}
		tm.Reactions = append(tm.Reactions, report.Reaction{
			Name:  r.Name,
			Users: r.Users,
			Count: r.Count,
		})
	}
	return tm, nil
}
