package mcp

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/uicatalog/pkg/mcplog"
)

// loggingMiddleware writes one mcplog entry per tool call. The entry carries
// the revision that was current when the call started.
func (s *Server) loggingMiddleware() server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := mcplog.Now()
			revision := s.store.Current().Revision()

			result, err := next(ctx, req)

			rb := mcplog.ResponseBytes(result)
			entry := mcplog.Entry{
				Ts:            start.UTC().Format(time.RFC3339),
				Tool:          req.Params.Name,
				Params:        mcplog.SanitizeParams(req.GetArguments()),
				Revision:      revision,
				DurationMs:    mcplog.Now().Sub(start).Milliseconds(),
				ResponseBytes: rb,
				TokensEst:     mcplog.EstimateTokens(rb),
				ToolError:     result != nil && result.IsError,
			}
			if err != nil {
				msg := err.Error()
				entry.Error = &msg
			}
			_ = s.logger.Write(entry)

			return result, err
		}
	}
}
