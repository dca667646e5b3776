// Package classifier proposes prerequisite edges between the actions of a
// single project. The production implementation asks an LLM; output is raw
// and unvalidated beyond local clamping — the graph builder owns structural
// validation (range checks, acyclicity).
package classifier

import (
	"context"
	"errors"

	"nexus/internal/types"
)

// ErrUnavailable wraps any transport or model failure. A build that sees it
// fails for that project only; batch processing continues.
var ErrUnavailable = errors.New("classifier: unavailable")

// Classifier is the external oracle for prerequisite relationships.
// Implementations must be safe for concurrent use across projects.
type Classifier interface {
	ProposeEdges(ctx context.Context, projectName string, actions []types.Action) ([]types.DependencyEdge, error)
}

// clampEdges normalizes classifier output without judging semantics:
// confidence is clamped into [0,1] and unknown reasons become
// logical_sequence. Index validation stays with the builder.
func clampEdges(edges []types.DependencyEdge) []types.DependencyEdge {
	out := make([]types.DependencyEdge, 0, len(edges))
	for _, e := range edges {
		if e.Confidence < 0 || e.Confidence != e.Confidence { // NaN guard
			e.Confidence = 0
		}
		if e.Confidence > 1 {
			e.Confidence = 1
		}
		if !types.KnownReason(e.Reason) {
			e.Reason = types.ReasonLogicalSequence
		}
		out = append(out, e)
	}
	return out
}
