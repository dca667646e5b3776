// Package phone places outbound voice-agent calls through the internal
// phone API.
package phone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"nexus/internal/channels"
)

const defaultBaseURL = "http://localhost:8000"

// Service implements channels.CallService against POST {base}/api/phone/call.
// The call is initiated and handed off; the voice conversation itself runs on
// the agent side, so a 2xx here means "dialing", not "answered".
type Service struct {
	http    *http.Client
	baseURL string
}

// New builds a Service. PHONE_API_URL overrides the local default.
func New() *Service {
	base := os.Getenv("PHONE_API_URL")
	if base == "" {
		base = defaultBaseURL
	}
	return &Service{
		// Dial handoff can take a while behind slow trunks.
		http:    &http.Client{Timeout: 30 * time.Second},
		baseURL: base,
	}
}

type callReq struct {
	PhoneNumber  string `json:"phone_number"`
	CalleeName   string `json:"callee_name"`
	AgentName    string `json:"agent_name"`
	Organization string `json:"organization"`
	Action       string `json:"action"`
	Context      string `json:"context"`
}

type callResp struct {
	CallID string `json:"call_id"`
	Status string `json:"status"`
}

func (s *Service) PlaceCall(ctx context.Context, req channels.CallRequest) (string, error) {
	if req.PhoneNumber == "" {
		return "", fmt.Errorf("phone: no destination number: %w", channels.ErrNotConfigured)
	}

	body, _ := json.Marshal(callReq{
		PhoneNumber:  req.PhoneNumber,
		CalleeName:   req.CalleeName,
		AgentName:    req.AgentName,
		Organization: req.Organization,
		Action:       req.ActionSummary,
		Context:      req.Context,
	})
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/phone/call", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("phone: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("phone: unexpected status %s", resp.Status)
	}
	var out callResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("phone: decode response: %w", err)
	}
	return out.CallID, nil
}
