// Package linear creates Linear issues through the hosted Linear MCP server,
// bridged over stdio via npx mcp-remote.
package linear

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"nexus/internal/channels"
)

const (
	remoteURL   = "https://mcp.linear.app/mcp"
	defaultTeam = "Operations"
)

// Service implements channels.TicketService against Linear. Each CreateIssue
// spawns its own mcp-remote bridge, performs one tool call, and tears the
// bridge down; Linear sessions are cheap and the dispatcher calls are rare
// enough that pooling buys nothing.
type Service struct {
	apiKey string
	team   string

	// newClient is swapped in tests.
	newClient func() (mcpClient, error)
}

type mcpClient interface {
	Initialize(ctx context.Context, req mcp.InitializeRequest) (*mcp.InitializeResult, error)
	CallTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
	Close() error
}

// New builds a Service from the environment. The LINEAR_API_KEY env var is
// required at call time, not construction time, so a half-configured process
// still starts and the dispatcher records ticket attempts as skipped.
func New() *Service {
	s := &Service{
		apiKey: os.Getenv("LINEAR_API_KEY"),
		team:   os.Getenv("LINEAR_TEAM"),
	}
	if s.team == "" {
		s.team = defaultTeam
	}
	s.newClient = func() (mcpClient, error) {
		return client.NewStdioMCPClient(
			"npx", os.Environ(),
			"-y", "mcp-remote", remoteURL,
			"--header", "Authorization:Bearer "+s.apiKey,
		)
	}
	return s
}

func (s *Service) CreateIssue(ctx context.Context, req channels.IssueRequest) (channels.IssueRef, error) {
	if s.apiKey == "" {
		return channels.IssueRef{}, fmt.Errorf("linear: LINEAR_API_KEY unset: %w", channels.ErrNotConfigured)
	}

	c, err := s.newClient()
	if err != nil {
		return channels.IssueRef{}, fmt.Errorf("linear: start bridge: %w", err)
	}
	defer c.Close()

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: "nexus", Version: "0.1.0"}
	if _, err := c.Initialize(ctx, initReq); err != nil {
		return channels.IssueRef{}, fmt.Errorf("linear: initialize: %w", err)
	}

	team := req.Team
	if team == "" {
		team = s.team
	}
	call := mcp.CallToolRequest{}
	call.Params.Name = "create_issue"
	call.Params.Arguments = map[string]any{
		"team":        team,
		"title":       req.Title,
		"description": req.Description,
		"priority":    req.Priority,
	}
	res, err := c.CallTool(ctx, call)
	if err != nil {
		return channels.IssueRef{}, fmt.Errorf("linear: create_issue: %w", err)
	}
	if res.IsError {
		return channels.IssueRef{}, fmt.Errorf("linear: create_issue failed: %s", firstText(res))
	}
	return channels.IssueRef{ID: firstText(res)}, nil
}

func firstText(res *mcp.CallToolResult) string {
	for _, c := range res.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}
