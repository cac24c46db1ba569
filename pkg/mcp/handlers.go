package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/uicatalog/pkg/catalog"
)

// groupSummary is the list_groups row; full component lists are left to find_group.
type groupSummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Components  int    `json:"components"`
}

type searchHit struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	MatchReason string `json:"match_reason"`
}

func (s *Server) handleListGroups(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c := s.store.Current()
	rows := make([]groupSummary, 0, c.Len())
	for g := range c.ListGroups() {
		rows = append(rows, groupSummary{Name: g.Name, Description: g.Description, Components: len(g.Components)})
	}
	return jsonResult(map[string]any{
		"revision": c.Revision(),
		"groups":   rows,
	})
}

func (s *Server) handleFindGroup(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	g, err := s.store.Current().FindGroup(name)
	if err != nil {
		return notFoundResult(err), nil
	}
	return jsonResult(g)
}

func (s *Server) handleComponentsOf(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.store.Current().ComponentsOf(name))
}

func (s *Server) handleResolveGroups(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names, err := req.RequireStringSlice("names")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(names) == 0 {
		return mcp.NewToolResultError("names must contain at least one group"), nil
	}

	r, err := s.store.Current().Resolve(names...)
	if err != nil {
		return notFoundResult(err), nil
	}
	return jsonResult(r)
}

func (s *Server) handleSearchGroups(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	results := s.store.Current().Search(query)
	hits := make([]searchHit, len(results))
	for i, r := range results {
		hits[i] = searchHit{Name: r.Group.Name, Description: r.Group.Description, MatchReason: r.MatchReason}
	}
	return jsonResult(hits)
}

func (s *Server) handleGroupsContaining(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	component, err := req.RequireString("component")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	groups := s.store.Current().GroupsContaining(component)
	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.Name
	}
	return jsonResult(names)
}

func (s *Server) handleValidateCatalog(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.store.Current().Validate())
}

func (s *Server) handleAnalyzePage(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.analyzer == nil {
		return mcp.NewToolResultError("page analysis is not available"), nil
	}
	code, err := req.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	analysis, err := s.analyzer.Analyze(s.store.Current(), []byte(code), req.GetString("filename", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(analysis)
}

// notFoundResult turns a lookup error into a tool error the agent can act on.
func notFoundResult(err error) *mcp.CallToolResult {
	if errors.Is(err, catalog.ErrNotFound) {
		return mcp.NewToolResultError(err.Error() + "; call list_groups for valid names")
	}
	return mcp.NewToolResultError(err.Error())
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
