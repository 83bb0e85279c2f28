package slack

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.mcconachie.co/slack-reactions/internal/report"
	"go.mcconachie.co/slack-reactions/internal/sheet"
	"go.uber.org/zap"
)

// ExportMembersInput defines input for exporting a channel's member table
type ExportMembersInput struct {
	Channel string `json:"channel" jsonschema:"Channel ID or name (e.g., C1234567890 or #general)"`
	File    string `json:"file,omitempty" jsonschema:"Output path ending in .xlsx or .csv (default: configured users file)"`
}

// ExportMembersOutput describes the written member table
type ExportMembersOutput struct {
	File        sheet.FileRef `json:"file"`
	ChannelID   string        `json:"channel_id"`
	MemberCount int           `json:"member_count"`
}

// ExportMembers resolves every member of a channel to a name and writes the
// two-column ID→name table. Nothing is written when the channel has no members.
func (c *Client) ExportMembers(ctx context.Context, req *mcp.CallToolRequest, input ExportMembersInput) (*mcp.CallToolResult, ExportMembersOutput, error) {
	channelID, err := c.GetChannelID(ctx, input.Channel)
	if err != nil {
		return nil, ExportMembersOutput{}, err
	}

	path := input.File
	if path == "" {
		path = c.cfg.UsersFile
	}

	records, err := c.ResolveMembers(ctx, channelID)
	if err != nil {
		return nil, ExportMembersOutput{}, err
	}

	output := ExportMembersOutput{
		ChannelID:   channelID,
		MemberCount: len(records),
	}
	if len(records) == 0 {
		c.logger.Info("Channel has no members to export", zap.String("channel_id", channelID))
		return nil, output, nil
	}

	ref, err := sheet.WriteUserTable(path, records)
	if err != nil {
		return nil, ExportMembersOutput{}, fmt.Errorf("failed to write member table: %w", err)
	}
	output.File = ref

	c.logger.Info("Member table written",
		zap.String("path", ref.Path),
		zap.Int("members", len(records)))

	return nil, output, nil
}

// ExportThreadReactionsInput defines input for exporting a thread's reaction report
type ExportThreadReactionsInput struct {
	Channel   string `json:"channel" jsonschema:"Channel ID or name (e.g., C1234567890 or #general)"`
	Timestamp string `json:"timestamp" jsonschema:"Thread parent message timestamp (e.g., 1234567890.123456)"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Max messages fetched from the thread (default 1000)"`
	UsersFile string `json:"users_file,omitempty" jsonschema:"Member table used to replace user IDs with names (default: configured users file)"`
	File      string `json:"file,omitempty" jsonschema:"Output path ending in .xlsx or .csv (default: configured report file)"`
}

// ExportThreadReactionsOutput describes the written reaction report
type ExportThreadReactionsOutput struct {
	File            sheet.FileRef `json:"file"`
	ChannelID       string        `json:"channel_id"`
	ThreadTimestamp string        `json:"thread_ts"`
	MessageCount    int           `json:"message_count"`
	RowCount        int           `json:"row_count"`
	NamesResolved   bool          `json:"names_resolved"`
	HasMore         bool          `json:"has_more"`
}

// ExportThreadReactions aggregates reactions on the file-bearing messages of a
// thread, replaces user IDs with names from the member table and writes the
// report. The Users column is resolved a second time on the saved file.
// A missing member table leaves IDs in place.
func (c *Client) ExportThreadReactions(ctx context.Context, req *mcp.CallToolRequest, input ExportThreadReactionsInput) (*mcp.CallToolResult, ExportThreadReactionsOutput, error) {
	if input.Timestamp == "" {
		return nil, ExportThreadReactionsOutput{}, fmt.Errorf("thread timestamp is required")
	}

	channelID, err := c.GetChannelID(ctx, input.Channel)
	if err != nil {
		return nil, ExportThreadReactionsOutput{}, err
	}

	limit := c.cfg.Limit
	if input.Limit > 0 {
		limit = input.Limit
	}
	usersFile := input.UsersFile
	if usersFile == "" {
		usersFile = c.cfg.UsersFile
	}
	path := input.File
	if path == "" {
		path = c.cfg.ReportFile
	}

	result, err := c.FetchThreadReactions(ctx, channelID, input.Timestamp, limit)
	if err != nil {
		return nil, ExportThreadReactionsOutput{}, err
	}

	output := ExportThreadReactionsOutput{
		ChannelID:       channelID,
		ThreadTimestamp: input.Timestamp,
		MessageCount:    result.MessageCount,
		RowCount:        len(result.Rows),
		HasMore:         result.HasMore,
	}
	if len(result.Rows) == 0 {
		c.logger.Info("No messages with attached files in thread",
			zap.String("channel_id", channelID),
			zap.String("thread_ts", input.Timestamp))
		return nil, output, nil
	}

	rows := result.Rows
	mapping, err := c.loadUserMapping(usersFile)
	if err == nil {
		rows = mapping.SubstituteRows(rows)
		output.NamesResolved = true
	}

	ref, err := sheet.WriteReport(path, rows)
	if err != nil {
		return nil, ExportThreadReactionsOutput{}, fmt.Errorf("failed to write report: %w", err)
	}
	output.File = ref

	c.logger.Info("Reaction report written",
		zap.String("path", ref.Path),
		zap.Int("rows", ref.Rows))

	if err := sheet.ResolveUsersColumn(path, usersFile); err != nil {
		c.logger.Warn("Failed to resolve Users column in report",
			zap.String("path", path),
			zap.String("users_file", usersFile),
			zap.Error(err))
	} else {
		c.logger.Info("User IDs in Users column replaced with names", zap.String("path", path))
	}

	return nil, output, nil
}

// loadUserMapping reads the member table, logging why it could not be used
func (c *Client) loadUserMapping(path string) (report.UserMapping, error) {
	mapping, err := sheet.ReadUserMapping(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.logger.Warn("User mapping file not found; keeping user IDs", zap.String("users_file", path))
		} else {
			c.logger.Warn("Failed to process user mapping; keeping user IDs",
				zap.String("users_file", path),
				zap.Error(err))
		}
		return nil, err
	}
	return mapping, nil
}
