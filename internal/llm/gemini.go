package llm

import (
	"context"
	"encoding/json"
	"os"
	"strconv"

	genai "google.golang.org/genai"
)

// GeminiClient is a thin wrapper around the official genai client that
// requests application/json responses.
type GeminiClient struct {
	cli   *genai.Client
	model string
	rl    *rpsLimiter
}

// NewGeminiClient creates a Gemini-backed client. The API key is read by the
// genai SDK from GEMINI_API_KEY. An optional request limiter is configured
// via LLM_RPS/GEMINI_RPS and LLM_BURST/GEMINI_BURST.
func NewGeminiClient(ctx context.Context, model string) (*GeminiClient, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{cli: cli, model: model, rl: limiterFromEnv()}, nil
}

func limiterFromEnv() *rpsLimiter {
	readFloat := func(keys ...string) float64 {
		for _, k := range keys {
			if v := os.Getenv(k); v != "" {
				if f, err := strconv.ParseFloat(v, 64); err == nil {
					return f
				}
			}
		}
		return 0
	}
	readInt := func(keys ...string) int {
		for _, k := range keys {
			if v := os.Getenv(k); v != "" {
				if n, err := strconv.Atoi(v); err == nil {
					return n
				}
			}
		}
		return 0
	}
	return newRPSLimiter(readFloat("LLM_RPS", "GEMINI_RPS"), readInt("LLM_BURST", "GEMINI_BURST"))
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.model }

func (g *GeminiClient) Close() error {
	g.rl.Stop()
	return nil
}

// GenerateJSON sends the prompt plus the JSON-encoded input and returns the
// model's JSON response.
func (g *GeminiClient) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	in, _ := json.MarshalIndent(input, "", "  ")
	full := prompt + "\n\n[INPUT JSON]\n" + string(in)

	if err := g.rl.Acquire(ctx); err != nil {
		return nil, err
	}
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: full}}}},
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		return nil, err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, ErrInvalidJSON
	}
	return json.RawMessage(resp.Candidates[0].Content.Parts[0].Text), nil
}
