package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"nexus/internal/tester"
	"nexus/internal/types"
)

// cannedLLM returns a fixed payload (or error) and records the last input.
type cannedLLM struct {
	payload string
	err     error

	lastPrompt string
	lastInput  any
	calls      int
}

func (c *cannedLLM) Name() string { return "canned" }
func (c *cannedLLM) Close() error { return nil }
func (c *cannedLLM) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	c.calls++
	c.lastPrompt = prompt
	c.lastInput = input
	if c.err != nil {
		return nil, c.err
	}
	return json.RawMessage(c.payload), nil
}

func sampleActions() []types.Action {
	return []types.Action{
		{Description: "Draft copy", Department: "Marketing", Urgency: types.UrgencyLow},
		{Description: "Legal review copy", Department: "Legal", Urgency: types.UrgencyHigh, People: []string{"Dana"}},
	}
}

func TestProposeEdges_DecodesEdges(t *testing.T) {
	cli := &cannedLLM{payload: `{"edges":[{"from_idx":0,"to_idx":1,"reason":"explicit_prerequisite","confidence":0.9,"evidence":"review follows draft"}]}`}
	c := NewLLMClassifier(cli)

	edges, err := c.ProposeEdges(context.Background(), "Launch", sampleActions())
	tester.NoErr(t, err)
	tester.Eq(t, len(edges), 1)
	tester.Eq(t, edges[0].FromIdx, 0)
	tester.Eq(t, edges[0].ToIdx, 1)
	tester.Eq(t, edges[0].Reason, types.ReasonExplicitPrerequisite)
	tester.Eq(t, edges[0].Confidence, 0.9)
	tester.Eq(t, cli.calls, 1)
}

func TestProposeEdges_EmptyEdges(t *testing.T) {
	cli := &cannedLLM{payload: `{"edges":[]}`}
	c := NewLLMClassifier(cli)

	edges, err := c.ProposeEdges(context.Background(), "p", sampleActions())
	tester.NoErr(t, err)
	tester.Eq(t, len(edges), 0)
}

func TestProposeEdges_ClampsConfidenceAndReason(t *testing.T) {
	cli := &cannedLLM{payload: `{"edges":[
		{"from_idx":0,"to_idx":1,"reason":"gut_feeling","confidence":1.7},
		{"from_idx":1,"to_idx":0,"reason":"approval_gate","confidence":-0.2}
	]}`}
	c := NewLLMClassifier(cli)

	edges, err := c.ProposeEdges(context.Background(), "p", sampleActions())
	tester.NoErr(t, err)
	tester.Eq(t, edges[0].Confidence, 1.0)
	tester.Eq(t, edges[0].Reason, types.ReasonLogicalSequence, "unknown reason clamps to logical_sequence")
	tester.Eq(t, edges[1].Confidence, 0.0)
	tester.Eq(t, edges[1].Reason, types.ReasonApprovalGate)
}

func TestProposeEdges_TransportErrorWrapsUnavailable(t *testing.T) {
	cli := &cannedLLM{err: errors.New("dial tcp: connection refused")}
	c := NewLLMClassifier(cli)

	_, err := c.ProposeEdges(context.Background(), "p", sampleActions())
	tester.ErrIs(t, err, ErrUnavailable)
}

func TestProposeEdges_MalformedJSONWrapsUnavailable(t *testing.T) {
	cli := &cannedLLM{payload: `not json at all`}
	c := NewLLMClassifier(cli)

	_, err := c.ProposeEdges(context.Background(), "p", sampleActions())
	tester.ErrIs(t, err, ErrUnavailable)
}

func TestProposeEdges_InputListsActionsInOrder(t *testing.T) {
	cli := &cannedLLM{payload: `{"edges":[]}`}
	c := NewLLMClassifier(cli)

	_, err := c.ProposeEdges(context.Background(), "Launch", sampleActions())
	tester.NoErr(t, err)

	input, ok := cli.lastInput.(map[string]any)
	tester.True(t, ok)
	tester.Eq(t, input["project_name"].(string), "Launch")
	listed := input["actions"].([]promptAction)
	tester.Eq(t, len(listed), 2)
	tester.Eq(t, listed[0].Index, 0)
	tester.Eq(t, listed[1].Index, 1)
	tester.Eq(t, listed[1].Description, "Legal review copy")
}
