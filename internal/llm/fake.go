package llm

import (
	"context"
	"encoding/json"
)

// FakeClient returns deterministic JSON payloads per phase for offline runs
// and tests.
type FakeClient struct{}

func NewFakeClient() *FakeClient { return &FakeClient{} }

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	var obj any
	switch PhaseFrom(ctx) {
	case "link_dependencies":
		obj = map[string]any{"edges": []any{}}
	default:
		obj = map[string]any{}
	}
	b, _ := json.Marshal(obj)
	return json.RawMessage(b), nil
}
