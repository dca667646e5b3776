package llm

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"nexus/internal/tester"
)

// fast fake client that returns immediately
type fastClient struct{}

func (f *fastClient) Name() string { return "fast" }
func (f *fastClient) Close() error { return nil }
func (f *fastClient) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	return json.RawMessage([]byte(`{}`)), nil
}

// spy records timestamps when requests reach the inner client
type spy struct{ times []time.Time }
type spyingClient struct {
	next LLMClient
	rec  *spy
}

func (s *spyingClient) Name() string { return s.next.Name() }
func (s *spyingClient) Close() error { return s.next.Close() }
func (s *spyingClient) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	s.rec.times = append(s.rec.times, time.Now())
	return s.next.GenerateJSON(ctx, prompt, input)
}

func TestRate_RPS_2PerSecond_Burst1_Spacing(t *testing.T) {
	// Expect ~>=500ms spacing after the first call when rps=2 and burst=1.
	base := &fastClient{}
	rec := &spy{}
	cli := Wrap(&spyingClient{next: base, rec: rec}, RateLimit(2, 1))
	t.Cleanup(func() { _ = cli.Close() })

	ctx := context.Background()
	start := time.Now()
	if _, err := cli.GenerateJSON(ctx, "p", map[string]any{}); err != nil {
		t.Fatal(err)
	}
	if _, err := cli.GenerateJSON(ctx, "p", map[string]any{}); err != nil {
		t.Fatal(err)
	}
	elapsed := time.Since(start)

	tester.True(t, elapsed >= 450*time.Millisecond, "expected throttling >=450ms")
	tester.Eq(t, len(rec.times), 2, "two calls should reach inner client")
}

func TestRate_DisabledWhenRPSZero(t *testing.T) {
	cli := Wrap(&fastClient{}, RateLimit(0, 0))
	t.Cleanup(func() { _ = cli.Close() })

	start := time.Now()
	for i := 0; i < 5; i++ {
		if _, err := cli.GenerateJSON(context.Background(), "p", nil); err != nil {
			t.Fatal(err)
		}
	}
	tester.True(t, time.Since(start) < 200*time.Millisecond, "rps<=0 must not throttle")
}

func TestRate_AcquireHonorsContextCancel(t *testing.T) {
	cli := Wrap(&fastClient{}, RateLimit(1, 1))
	t.Cleanup(func() { _ = cli.Close() })

	// Drain the single burst token.
	if _, err := cli.GenerateJSON(context.Background(), "p", nil); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := cli.GenerateJSON(ctx, "p", nil)
	tester.ErrIs(t, err, context.DeadlineExceeded)
}
