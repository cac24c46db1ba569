// Package mcp exposes the component catalog as MCP tools over stdio.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/uicatalog/pkg/catalog"
	"github.com/gnana997/uicatalog/pkg/mcplog"
	"github.com/gnana997/uicatalog/pkg/usage"
)

// Version is reported to clients during initialization. It is set by the
// CLI from build information.
var Version = "0.1.0-dev"

// Server answers catalog questions for coding agents. Every call reads the
// store's current snapshot, so reloads are picked up without restarting.
type Server struct {
	mcpServer *server.MCPServer
	store     *catalog.Store
	analyzer  *usage.Analyzer // nil disables analyze_page
	logger    *mcplog.Logger  // nil disables call logging
}

// NewServer creates a Server over store. analyzer and logger are optional.
func NewServer(store *catalog.Store, analyzer *usage.Analyzer, logger *mcplog.Logger) *Server {
	s := &Server{store: store, analyzer: analyzer, logger: logger}

	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if logger != nil {
		opts = append(opts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}
	s.mcpServer = server.NewMCPServer("uicatalog", Version, opts...)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: listGroupsTool(), Handler: s.handleListGroups},
		server.ServerTool{Tool: findGroupTool(), Handler: s.handleFindGroup},
		server.ServerTool{Tool: componentsOfTool(), Handler: s.handleComponentsOf},
		server.ServerTool{Tool: resolveGroupsTool(), Handler: s.handleResolveGroups},
		server.ServerTool{Tool: searchGroupsTool(), Handler: s.handleSearchGroups},
		server.ServerTool{Tool: groupsContainingTool(), Handler: s.handleGroupsContaining},
		server.ServerTool{Tool: validateCatalogTool(), Handler: s.handleValidateCatalog},
		server.ServerTool{Tool: analyzePageTool(), Handler: s.handleAnalyzePage},
	)

	return s
}

// ServeStdio serves on stdin/stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
