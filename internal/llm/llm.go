package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrInvalidJSON is returned when a model responds with something that is
// not parseable JSON.
var ErrInvalidJSON = errors.New("llm: invalid JSON from model")

// LLMClient is the minimal surface the pipeline needs from a model provider:
// one structured-JSON round trip per call.
type LLMClient interface {
	Name() string
	GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error)
	Close() error
}
