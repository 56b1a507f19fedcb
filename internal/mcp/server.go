// Package mcp implements the Model Context Protocol server for the concierge.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ajitpratap0/openclaw-concierge/internal/chat"
	"github.com/ajitpratap0/openclaw-concierge/internal/conversation"
	"github.com/ajitpratap0/openclaw-concierge/internal/metrics"
)

// Server wraps an MCPServer with the concierge chat service.
type Server struct {
	mcp    *mcpserver.MCPServer
	chat   *chat.Service
	logger *slog.Logger
}

// NewServer creates a new MCP server. If svc is nil, tool calls return an
// error response instead of panicking.
func NewServer(svc *chat.Service, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		chat:   svc,
		logger: logger,
	}

	mcpSrv := mcpserver.NewMCPServer(
		"openclaw-concierge",
		version,
		mcpserver.WithToolCapabilities(true),
	)

	mcpSrv.AddTool(buildDetectTool(), s.handleDetect)
	mcpSrv.AddTool(buildClassifyTool(), s.handleClassify)
	mcpSrv.AddTool(buildRecommendTool(), s.handleRecommend)
	mcpSrv.AddTool(buildChatTool(), s.handleChat)
	mcpSrv.AddTool(buildEndTool(), s.handleEnd)
	mcpSrv.AddTool(buildStatsTool(), s.handleStats)

	s.mcp = mcpSrv
	return s
}

// MCPServer returns the underlying mcp-go MCPServer for use with ServeStdio.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcp
}

// HandleDetect is the exported handler for the "detect_language" tool.
// It is exposed for direct testing without the mcp-go transport layer.
func (s *Server) HandleDetect(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleDetect(ctx, req)
}

// HandleClassify is the exported handler for the "classify_request" tool.
func (s *Server) HandleClassify(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleClassify(ctx, req)
}

// HandleRecommend is the exported handler for the "recommend" tool.
func (s *Server) HandleRecommend(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleRecommend(ctx, req)
}

// HandleChat is the exported handler for the "chat" tool.
func (s *Server) HandleChat(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleChat(ctx, req)
}

// HandleEnd is the exported handler for the "end_conversation" tool.
func (s *Server) HandleEnd(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleEnd(ctx, req)
}

// HandleStats is the exported handler for the "stats" tool.
func (s *Server) HandleStats(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleStats(ctx, req)
}

// --- helpers ---

// toolResultJSON marshals v to JSON and returns it as a tool text result.
func toolResultJSON(v any) (*mcpgo.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("mcp: marshaling result: %w", err)
	}
	return mcpgo.NewToolResultText(string(b)), nil
}

// requiredMessage returns the message argument or a tool error result.
func requiredMessage(req mcpgo.CallToolRequest) (string, *mcpgo.CallToolResult) {
	message := req.GetString("message", "")
	if strings.TrimSpace(message) == "" {
		return "", mcpgo.NewToolResultError("message is required and must not be empty")
	}
	return message, nil
}

// --- tool definitions ---

func buildDetectTool() mcpgo.Tool {
	return mcpgo.NewTool("detect_language",
		mcpgo.WithDescription("Detect the language of a client message (fr, en, es, it) with a confidence tier."),
		mcpgo.WithString("message",
			mcpgo.Required(),
			mcpgo.Description("The client message"),
		),
	)
}

func buildClassifyTool() mcpgo.Tool {
	return mcpgo.NewTool("classify_request",
		mcpgo.WithDescription("Classify a client message into a concierge intent and extract catalog entities."),
		mcpgo.WithString("message",
			mcpgo.Required(),
			mcpgo.Description("The client message"),
		),
	)
}

func buildRecommendTool() mcpgo.Tool {
	return mcpgo.NewTool("recommend",
		mcpgo.WithDescription("Rank catalog venues for a client message, optionally against a stored preference profile."),
		mcpgo.WithString("message",
			mcpgo.Required(),
			mcpgo.Description("The client message"),
		),
		mcpgo.WithString("user_id",
			mcpgo.Description("User whose preference profile drives ranking"),
		),
		mcpgo.WithNumber("limit",
			mcpgo.Description("Maximum number of candidates to return (default: all)"),
		),
	)
}

func buildChatTool() mcpgo.Tool {
	return mcpgo.NewTool("chat",
		mcpgo.WithDescription("Send one client message to the concierge and get the reply. Reuse conversation_id to continue a conversation."),
		mcpgo.WithString("message",
			mcpgo.Required(),
			mcpgo.Description("The client message"),
		),
		mcpgo.WithString("conversation_id",
			mcpgo.Description("Conversation to continue; a new one is opened when empty"),
		),
		mcpgo.WithString("user_id",
			mcpgo.Description("User the conversation belongs to"),
		),
	)
}

func buildEndTool() mcpgo.Tool {
	return mcpgo.NewTool("end_conversation",
		mcpgo.WithDescription("End a conversation and discard its history."),
		mcpgo.WithString("conversation_id",
			mcpgo.Required(),
			mcpgo.Description("The conversation to end"),
		),
	)
}

func buildStatsTool() mcpgo.Tool {
	return mcpgo.NewTool("stats",
		mcpgo.WithDescription("Return live conversation count and chat counters."),
	)
}

// --- handlers ---

func (s *Server) handleDetect(_ context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.chat == nil {
		return mcpgo.NewToolResultError("concierge is unavailable"), nil
	}
	message, errResult := requiredMessage(req)
	if errResult != nil {
		return errResult, nil
	}
	return toolResultJSON(s.chat.Engine().DetectLanguage(message))
}

func (s *Server) handleClassify(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.chat == nil {
		return mcpgo.NewToolResultError("concierge is unavailable"), nil
	}
	message, errResult := requiredMessage(req)
	if errResult != nil {
		return errResult, nil
	}
	intent := s.chat.Engine().Classify(message, s.chat.Catalog(ctx))
	return toolResultJSON(intent)
}

func (s *Server) handleRecommend(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.chat == nil {
		return mcpgo.NewToolResultError("concierge is unavailable"), nil
	}
	message, errResult := requiredMessage(req)
	if errResult != nil {
		return errResult, nil
	}
	limit := req.GetInt("limit", 0)
	if limit < 0 {
		return mcpgo.NewToolResultError("limit must be >= 0"), nil
	}

	rec := s.chat.Recommend(ctx, message, req.GetString("user_id", ""))
	if limit > 0 && len(rec.Candidates) > limit {
		rec.Candidates = rec.Candidates[:limit]
	}
	return toolResultJSON(rec)
}

func (s *Server) handleChat(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.chat == nil {
		return mcpgo.NewToolResultError("concierge is unavailable"), nil
	}
	message, errResult := requiredMessage(req)
	if errResult != nil {
		return errResult, nil
	}
	reply := s.chat.Turn(ctx, chat.TurnRequest{
		ConversationID: req.GetString("conversation_id", ""),
		UserID:         req.GetString("user_id", ""),
		Message:        message,
	})
	s.logger.Info("mcp: chat turn", "conversation", reply.ConversationID, "source", reply.Source)
	return toolResultJSON(reply)
}

func (s *Server) handleEnd(_ context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.chat == nil {
		return mcpgo.NewToolResultError("concierge is unavailable"), nil
	}
	id := req.GetString("conversation_id", "")
	if id == "" {
		return mcpgo.NewToolResultError("conversation_id is required"), nil
	}
	if err := s.chat.End(id); err != nil {
		if errors.Is(err, conversation.ErrNotFound) {
			return mcpgo.NewToolResultErrorf("conversation %s not found", id), nil
		}
		return mcpgo.NewToolResultErrorf("end failed: %s", err.Error()), nil
	}
	return toolResultJSON(map[string]any{"id": id, "ended": true})
}

func (s *Server) handleStats(_ context.Context, _ mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.chat == nil {
		return mcpgo.NewToolResultError("concierge is unavailable"), nil
	}
	return toolResultJSON(map[string]any{
		"conversations": s.chat.Registry().Len(),
		"counters":      metrics.Snapshot(),
	})
}
