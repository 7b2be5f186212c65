// Package mcpserver exposes the notification API to AI-agent clients as MCP
// tools over the streamable HTTP transport.
package mcpserver

import (
	"log/slog"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Seann-Moser/notify-mcp/notify"
)

const serverName = "notify-mcp"
const serverVersion = "1.0.0"

// Server wraps the notification client and exposes it as MCP tools.
type Server struct {
	api       notify.API
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates the MCP server and registers the notification tools.
func NewServer(api notify.API, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	mcpServer := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithPromptCapabilities(false),
	)

	s := &Server{
		api:       api,
		mcpServer: mcpServer,
		logger:    logger,
	}
	s.registerTools()
	return s
}

// HTTPHandler returns the streamable HTTP transport for mounting under the
// access-token gate.
func (s *Server) HTTPHandler() http.Handler {
	return server.NewStreamableHTTPServer(s.mcpServer)
}

func (s *Server) registerTools() {
	listChannelsTool := mcp.NewTool("list_channels",
		mcp.WithDescription("List notification channels available to the authenticated user"),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of channels to return"),
		),
		mcp.WithString("cursor",
			mcp.Description("Pagination cursor from a previous call"),
		),
	)
	s.mcpServer.AddTool(listChannelsTool, s.handleListChannels)

	sendMessageTool := mcp.NewTool("send_message",
		mcp.WithDescription("Send a text message to a notification channel"),
		mcp.WithString("channel_id",
			mcp.Required(),
			mcp.Description("ID of the channel to post to"),
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Message text to send"),
		),
	)
	s.mcpServer.AddTool(sendMessageTool, s.handleSendMessage)
}
