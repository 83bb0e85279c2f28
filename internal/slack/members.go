package slack

import (
	"context"
	"errors"
	"fmt"

	"github.com/slack-go/slack"
	"go.mcconachie.co/slack-reactions/internal/report"
	"go.uber.org/zap"
)

// ResolveMembers lists every member of a channel, following the continuation
// cursor until it is empty, and looks up each member's name.
// A failed page aborts the whole resolution. A member whose users.info call
// returns a Slack API error is logged and skipped; a transport failure aborts.
func (c *Client) ResolveMembers(ctx context.Context, channelID string) ([]report.UserRecord, error) {
	var records []report.UserRecord
	seen := make(map[string]bool)

	cursor := ""
	page := 0
	for {
		page++
		members, next, err := c.api.GetUsersInConversationContext(ctx, &slack.GetUsersInConversationParameters{
			ChannelID: channelID,
			Cursor:    cursor,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to get channel members: %w", err)
		}

		c.logger.Debug("Fetched member page",
			zap.String("channel_id", channelID),
			zap.Int("page", page),
			zap.Int("members", len(members)))

		for _, userID := range members {
			if seen[userID] {
				continue
			}
			seen[userID] = true

			user, err := c.api.GetUserInfoContext(ctx, userID)
			if err != nil {
				var apiErr slack.SlackErrorResponse
				if errors.As(err, &apiErr) {
					c.logger.Warn("Failed to get user info",
						zap.String("user_id", userID),
						zap.String("error", apiErr.Err))
					continue
				}
				return nil, fmt.Errorf("failed to get user info for %s: %w", userID, err)
			}

			records = append(records, report.UserRecord{ID: userID, Name: user.Name})
		}

		if next == "" {
			break
		}
		cursor = next
	}

	return records, nil
}
