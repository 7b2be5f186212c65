package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Seann-Moser/notify-mcp/notify"
)

// handleListChannels maps the list_channels tool onto the notification API.
func (s *Server) handleListChannels(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	var opts notify.ListChannelsOptions
	if v, ok := args["limit"].(float64); ok {
		opts.Limit = int(v)
	} else if v, ok := args["limit"].(int); ok {
		opts.Limit = v
	}
	if v, ok := args["cursor"].(string); ok {
		opts.Cursor = v
	}

	page, err := s.api.ListChannels(ctx, opts)
	if err != nil {
		s.logger.Warn("list_channels failed", "err", err)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list channels: %v", err)), nil
	}

	jsonData, err := json.MarshalIndent(page, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format channels: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// handleSendMessage maps the send_message tool onto the notification API.
func (s *Server) handleSendMessage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	channelID, err := request.RequireString("channel_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	msg, err := s.api.SendMessage(ctx, channelID, text)
	if err != nil {
		s.logger.Warn("send_message failed", "err", err, "channel_id", channelID)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to send message: %v", err)), nil
	}

	jsonData, err := json.MarshalIndent(msg, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format message: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
