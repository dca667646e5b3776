// Package channels defines the narrow interfaces the dispatcher uses to
// reach external notification systems. Each capability has one production
// network adapter (subpackages linear, resend, phone) and one in-memory
// fake for tests.
package channels

import (
	"context"
	"errors"
)

// ErrNotConfigured marks a channel whose credentials or endpoint are absent.
// The dispatcher records such attempts as "skipped", never "failed".
var ErrNotConfigured = errors.New("channel not configured")

// IssueRequest describes one ticket to create.
type IssueRequest struct {
	Team        string
	Title       string
	Description string
	Priority    int // 1=urgent .. 4=low
}

// IssueRef identifies a created ticket.
type IssueRef struct {
	ID  string
	URL string
}

// TicketService creates tracking tickets. One connect/invoke/disconnect
// cycle per call; implementations do not pool across actions.
type TicketService interface {
	CreateIssue(ctx context.Context, req IssueRequest) (IssueRef, error)
}

// EmailService delivers a single HTML email.
type EmailService interface {
	Send(ctx context.Context, to, subject, htmlBody string) (messageID string, err error)
}

// CallRequest describes one outbound voice call.
type CallRequest struct {
	PhoneNumber   string
	CalleeName    string
	AgentName     string
	Organization  string
	ActionSummary string
	Context       string
}

// CallService places a single outbound call via the voice agent.
type CallService interface {
	PlaceCall(ctx context.Context, req CallRequest) (callID string, err error)
}
