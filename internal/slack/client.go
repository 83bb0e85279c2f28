package slack

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/slack-go/slack"
	"go.uber.org/zap"
)

// SlackAPI defines the Slack API methods used by the client
type SlackAPI interface {
	GetConversationsContext(ctx context.Context, params *slack.GetConversationsParameters) ([]slack.Channel, string, error)
	GetUsersInConversationContext(ctx context.Context, params *slack.GetUsersInConversationParameters) ([]string, string, error)
	GetUserInfoContext(ctx context.Context, user string) (*slack.User, error)
	GetConversationRepliesContext(ctx context.Context, params *slack.GetConversationRepliesParameters) ([]slack.Message, bool, string, error)
}

// Config holds configuration for the Slack client
type Config struct {
	Token        string `toml:"token"`         // Slack bot token (required)
	Cookie       string `toml:"cookie"`        // Slack cookie for xoxc token auth (optional)
	WorkspaceURL string `toml:"workspace_url"` // base of message deep links
	UsersFile    string `toml:"users_file"`    // member table written by ExportMembers
	ReportFile   string `toml:"report_file"`   // report written by ExportThreadReactions
	Limit        int    `toml:"limit"`         // conversations.replies result cap
}

type Client struct {
	api    SlackAPI
	index  *channelIndex
	logger *zap.Logger
	cfg    Config
}

func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("slack token is required")
	}

	opts := []slack.Option{}

	if cfg.Cookie != "" {
		logger.Info("Using cookie authentication for Slack client")
		httpClient := &http.Client{
			Transport: newCookieTransport(cfg.Cookie, logger),
		}
		opts = append(opts, slack.OptionHTTPClient(httpClient))
	}

	api := slack.New(cfg.Token, opts...)

	return newClientWithAPI(api, cfg, logger), nil
}

// newClientWithAPI creates a client with a given SlackAPI (for testing)
func newClientWithAPI(api SlackAPI, cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		api:    api,
		index:  newIndex(),
		logger: logger,
		cfg:    cfg,
	}
}

// GetChannelID accepts either a channel name or ID and returns the channel ID
func (c *Client) GetChannelID(ctx context.Context, channelOrName string) (string, error) {
	if isChannelID(channelOrName) {
		return channelOrName, nil
	}
	return c.findChannelID(ctx, channelOrName)
}

// isChannelID checks if a string looks like a Slack channel ID
// Channel IDs are uppercase alphanumeric strings starting with C, D, or G
// and are typically 9-11 characters long
func isChannelID(s string) bool {
	if len(s) < 9 {
		return false
	}

	// Must start with C, D, or G
	if s[0] != 'C' && s[0] != 'D' && s[0] != 'G' {
		return false
	}

	// Must be all uppercase alphanumeric
	for _, ch := range s {
		if !((ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9')) {
			return false
		}
	}

	return true
}

// findChannelID looks up a channel name in the index, listing conversations
// page by page until the name shows up
func (c *Client) findChannelID(ctx context.Context, name string) (string, error) {
	name = strings.TrimPrefix(name, "#")

	if ch, ok := c.index.GetByName(name); ok {
		return ch.ID, nil
	}

	cursor := ""
	for {
		channels, next, err := c.api.GetConversationsContext(ctx, &slack.GetConversationsParameters{
			Types:           []string{"public_channel", "private_channel"},
			ExcludeArchived: true,
			Limit:           1000,
			Cursor:          cursor,
		})
		if err != nil {
			return "", fmt.Errorf("failed to list channels: %w", err)
		}
		c.index.Add(channels)

		if ch, ok := c.index.GetByName(name); ok {
			c.logger.Debug("Channel found",
				zap.String("channel_name", ch.Name),
				zap.String("channel_id", ch.ID))
			return ch.ID, nil
		}

		if next == "" {
			break
		}
		cursor = next
	}

	return "", fmt.Errorf("channel %q not found (%d channels listed); use a channel ID", name, c.index.Size())
}
