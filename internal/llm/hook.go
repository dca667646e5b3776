package llm

import (
	"context"
	"encoding/json"
)

// PromptHook observes prompts and raw responses around GenerateJSON calls.
type PromptHook interface {
	Before(ctx context.Context, phase, prompt string, input any)
	After(ctx context.Context, phase string, raw json.RawMessage, err error)
}

type ctxKeyHook struct{}
type ctxKeyPhase struct{}

// WithPhase tags the context with a pipeline phase label for logging/hooks.
func WithPhase(ctx context.Context, phase string) context.Context {
	return context.WithValue(ctx, ctxKeyPhase{}, phase)
}

// PhaseFrom returns the phase label stored in the context.
func PhaseFrom(ctx context.Context) string {
	if s, ok := ctx.Value(ctxKeyPhase{}).(string); ok {
		return s
	}
	return "unknown"
}

// WithHook attaches a PromptHook to every call made through the returned client.
func WithHook(base LLMClient, hook PromptHook) LLMClient {
	return &hookAttaching{base: base, hook: hook}
}

type hookAttaching struct {
	base LLMClient
	hook PromptHook
}

func (h *hookAttaching) Name() string { return h.base.Name() }
func (h *hookAttaching) Close() error { return h.base.Close() }

func (h *hookAttaching) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	ctx = context.WithValue(ctx, ctxKeyHook{}, h.hook)
	return h.base.GenerateJSON(ctx, prompt, input)
}

// HookFrom returns the hook stored in the context, or nil.
func HookFrom(ctx context.Context) PromptHook {
	if h, ok := ctx.Value(ctxKeyHook{}).(PromptHook); ok {
		return h
	}
	return nil
}
