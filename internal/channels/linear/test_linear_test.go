package linear

import (
	"context"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"nexus/internal/channels"
	"nexus/internal/tester"
)

// stubBridge fakes one MCP session.
type stubBridge struct {
	initErr  error
	callErr  error
	isError  bool
	text     string
	lastCall mcp.CallToolRequest
	inited   bool
	closed   bool
}

func (s *stubBridge) Initialize(ctx context.Context, req mcp.InitializeRequest) (*mcp.InitializeResult, error) {
	s.inited = true
	if s.initErr != nil {
		return nil, s.initErr
	}
	return &mcp.InitializeResult{}, nil
}

func (s *stubBridge) CallTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.lastCall = req
	if s.callErr != nil {
		return nil, s.callErr
	}
	return &mcp.CallToolResult{
		IsError: s.isError,
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: s.text}},
	}, nil
}

func (s *stubBridge) Close() error {
	s.closed = true
	return nil
}

func testService(bridge *stubBridge) *Service {
	return &Service{
		apiKey:    "lin_test",
		team:      "Operations",
		newClient: func() (mcpClient, error) { return bridge, nil },
	}
}

func TestCreateIssue_OneSessionPerCall(t *testing.T) {
	bridge := &stubBridge{text: "ENG-42"}
	s := testService(bridge)

	ref, err := s.CreateIssue(context.Background(), channels.IssueRequest{
		Title:       "[Launch] Draft copy",
		Description: "details",
		Priority:    2,
	})
	tester.NoErr(t, err)
	tester.Eq(t, ref.ID, "ENG-42")
	tester.True(t, bridge.inited, "session must be initialized")
	tester.True(t, bridge.closed, "session must be torn down after the call")
	tester.Eq(t, bridge.lastCall.Params.Name, "create_issue")

	args := bridge.lastCall.Params.Arguments.(map[string]any)
	tester.Eq(t, args["team"].(string), "Operations", "empty request team falls back to the default")
	tester.Eq(t, args["title"].(string), "[Launch] Draft copy")
	tester.Eq(t, args["priority"].(int), 2)
}

func TestCreateIssue_RequestTeamOverridesDefault(t *testing.T) {
	bridge := &stubBridge{text: "OPS-1"}
	s := testService(bridge)

	_, err := s.CreateIssue(context.Background(), channels.IssueRequest{Team: "Legal", Title: "t"})
	tester.NoErr(t, err)
	args := bridge.lastCall.Params.Arguments.(map[string]any)
	tester.Eq(t, args["team"].(string), "Legal")
}

func TestCreateIssue_MissingKeyIsNotConfigured(t *testing.T) {
	s := testService(&stubBridge{})
	s.apiKey = ""

	_, err := s.CreateIssue(context.Background(), channels.IssueRequest{Title: "t"})
	tester.ErrIs(t, err, channels.ErrNotConfigured)
}

func TestCreateIssue_ToolErrorSurfaces(t *testing.T) {
	bridge := &stubBridge{isError: true, text: "team not found"}
	s := testService(bridge)

	_, err := s.CreateIssue(context.Background(), channels.IssueRequest{Title: "t"})
	tester.Err(t, err)
	tester.True(t, bridge.closed, "bridge closes on tool error too")
}

func TestCreateIssue_TransportErrorSurfaces(t *testing.T) {
	bridge := &stubBridge{callErr: errors.New("pipe broke")}
	s := testService(bridge)

	_, err := s.CreateIssue(context.Background(), channels.IssueRequest{Title: "t"})
	tester.Err(t, err)
}
