package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	slackclient "go.mcconachie.co/slack-reactions/internal/slack"
	"go.uber.org/zap"
)

// errorWrappingHandler wraps a ToolHandler to provide enhanced error messages
type errorWrappingHandler struct {
	handler ToolHandler
	logger  *zap.Logger
}

func (h *errorWrappingHandler) ExportMembers(ctx context.Context, req *mcp.CallToolRequest, input slackclient.ExportMembersInput) (*mcp.CallToolResult, slackclient.ExportMembersOutput, error) {
	result, output, err := h.handler.ExportMembers(ctx, req, input)
	return result, output, slackclient.WrapError(h.logger, "export_members", err)
}

func (h *errorWrappingHandler) ExportThreadReactions(ctx context.Context, req *mcp.CallToolRequest, input slackclient.ExportThreadReactionsInput) (*mcp.CallToolResult, slackclient.ExportThreadReactionsOutput, error) {
	result, output, err := h.handler.ExportThreadReactions(ctx, req, input)
	return result, output, slackclient.WrapError(h.logger, "export_thread_reactions", err)
}

// ToolHandler defines the interface for the export operations
//
//go:generate go tool mockgen -source=$GOFILE -destination=mcp_mocks.go -package=mcp
type ToolHandler interface {
	ExportMembers(ctx context.Context, req *mcp.CallToolRequest, input slackclient.ExportMembersInput) (*mcp.CallToolResult, slackclient.ExportMembersOutput, error)
	ExportThreadReactions(ctx context.Context, req *mcp.CallToolRequest, input slackclient.ExportThreadReactionsInput) (*mcp.CallToolResult, slackclient.ExportThreadReactionsOutput, error)
}

// CreateServer creates an MCP server with both export tools registered
func CreateServer(logger *zap.Logger, handler ToolHandler, version string) *mcp.Server {
	logger.Info("Starting MCP server")
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "slack-reactions",
			Version: version,
		},
		nil,
	)

	// Wrap handler to provide enhanced error messages for auth failures
	wrappedHandler := &errorWrappingHandler{handler: handler, logger: logger}
	registerTools(server, wrappedHandler)
	logger.Info("Slack reactions server initialized, starting transport")
	return server
}

// registerTools registers the export tools with the MCP server
func registerTools(server *mcp.Server, handler ToolHandler) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "slack_export_members",
		Description: "Export every member of a Slack channel as a two-column table (User ID, Username) to an .xlsx or .csv file. The table is used later to replace user IDs with names.",
	}, handler.ExportMembers)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "slack_export_thread_reactions",
		Description: "Aggregate the reactions on file-bearing messages of a Slack thread into one row per author and file, replace user IDs with names from the member table, and write the report to an .xlsx or .csv file.",
	}, handler.ExportThreadReactions)
}
