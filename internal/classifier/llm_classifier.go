package classifier

import (
	"context"
	"fmt"

	"nexus/internal/llm"
	"nexus/internal/types"
	"nexus/internal/util/jsonutil"
)

// Phase label used for logging/hooks on classifier traffic.
const Phase = "link_dependencies"

const linkPrompt = `You are a project-management analyst.
Given one project's ordered action list, identify blocking dependencies: pairs where one action must complete before another can start.

Each action is listed with its 0-based index. An edge {from_idx, to_idx} means the action at from_idx is a prerequisite of the action at to_idx.

Return STRICT JSON ONLY:
{
  "edges": [
    {
      "from_idx": 0,
      "to_idx": 1,
      "reason": "explicit_prerequisite|information_handoff|approval_gate|resource_dependency|logical_sequence",
      "confidence": 0.0,
      "evidence": "string"
    }
  ]
}

Constraints:
- Only propose an edge when the dependency is clearly implied by the action descriptions.
- Never propose an edge from an action to itself.
- Indices must refer to the provided list.
- confidence is your certainty in [0,1]; evidence quotes or paraphrases the supporting text.
- Return {"edges": []} when no dependencies exist.`

type promptAction struct {
	Index       int           `json:"index"`
	Description string        `json:"description"`
	Department  string        `json:"department"`
	Urgency     types.Urgency `json:"urgency"`
	People      []string      `json:"people,omitempty"`
}

type edgeResult struct {
	Edges []types.DependencyEdge `json:"edges"`
}

// LLMClassifier proposes edges with a single structured-JSON model call per
// project. It performs no retries: the builder's contract is exactly one
// classifier round-trip.
type LLMClassifier struct {
	LLM llm.LLMClient
}

func NewLLMClassifier(cli llm.LLMClient) *LLMClassifier {
	return &LLMClassifier{LLM: cli}
}

func (c *LLMClassifier) ProposeEdges(ctx context.Context, projectName string, actions []types.Action) ([]types.DependencyEdge, error) {
	ctx = llm.WithPhase(ctx, Phase)

	listed := make([]promptAction, len(actions))
	for i, a := range actions {
		listed[i] = promptAction{
			Index:       i,
			Description: a.Description,
			Department:  a.Department,
			Urgency:     a.Urgency,
			People:      a.People,
		}
	}
	input := map[string]any{
		"project_name": projectName,
		"actions":      listed,
	}

	raw, err := c.LLM.GenerateJSON(ctx, linkPrompt, input)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, projectName, err)
	}
	var out edgeResult
	if err := jsonutil.UnmarshalRaw(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %s: decode edges: %v", ErrUnavailable, projectName, err)
	}
	return clampEdges(out.Edges), nil
}
