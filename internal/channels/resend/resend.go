// Package resend delivers email through the Resend HTTP API.
package resend

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

const defaultBaseURL = "https://api.resend.com"

// Service implements channels.EmailService over the Resend /emails endpoint.
type Service struct {
	http    *http.Client
	apiKey  string
	from    string
	baseURL string
}

// New builds a Service from RESEND_API_KEY and RESEND_FROM. Missing
// credentials surface as ErrNotConfigured on Send, not here.
func New() *Service {
	from := os.Getenv("RESEND_FROM")
	if from == "" {
		from = "Nexus <onboarding@resend.dev>"
	}
	return &Service{
		http:    &http.Client{Timeout: 15 * time.Second},
		apiKey:  os.Getenv("RESEND_API_KEY"),
		from:    from,
		baseURL: defaultBaseURL,
	}
}

type sendReq struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type sendResp struct {
	ID string `json:"id"`
}

func (s *Service) Send(ctx context.Context, to, subject, htmlBody string) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("resend: RESEND_API_KEY unset: %w", channels.ErrNotConfigured)
	}

	body, _ := json.Marshal(sendReq{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		HTML:    htmlBody,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("resend: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("resend: unexpected status %s", resp.Status)
	}
	var out sendResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("resend: decode response: %w", err)
	}
	return out.ID, nil
}
