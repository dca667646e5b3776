package channels

import (
	"context"
	"fmt"
	"sync"
)

// FakeTickets records CreateIssue calls. Err, when set, fails every call.
type FakeTickets struct {
	mu       sync.Mutex
	Err      error
	Requests []IssueRequest
}

func (f *FakeTickets) CreateIssue(ctx context.Context, req IssueRequest) (IssueRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return IssueRef{}, f.Err
	}
	f.Requests = append(f.Requests, req)
	return IssueRef{ID: fmt.Sprintf("TCK-%d", len(f.Requests))}, nil
}

// Created returns a copy of the recorded requests.
func (f *FakeTickets) Created() []IssueRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]IssueRequest, len(f.Requests))
	copy(out, f.Requests)
	return out
}

// SentEmail is one recorded FakeEmails delivery.
type SentEmail struct {
	To      string
	Subject string
	HTML    string
}

// FakeEmails records Send calls. Err, when set, fails every call.
type FakeEmails struct {
	mu   sync.Mutex
	Err  error
	Sent []SentEmail
}

func (f *FakeEmails) Send(ctx context.Context, to, subject, htmlBody string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return "", f.Err
	}
	f.Sent = append(f.Sent, SentEmail{To: to, Subject: subject, HTML: htmlBody})
	return fmt.Sprintf("msg-%d", len(f.Sent)), nil
}

// Deliveries returns a copy of the recorded emails.
func (f *FakeEmails) Deliveries() []SentEmail {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]SentEmail, len(f.Sent))
	copy(out, f.Sent)
	return out
}

// FakeCalls records PlaceCall invocations in order. ErrOn maps a 0-based
// call index to an error for that attempt.
type FakeCalls struct {
	mu     sync.Mutex
	Err    error
	ErrOn  map[int]error
	Placed []CallRequest
	calls  int
}

func (f *FakeCalls) PlaceCall(ctx context.Context, req CallRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := f.calls
	f.calls++
	if f.Err != nil {
		return "", f.Err
	}
	if err, ok := f.ErrOn[idx]; ok {
		return "", err
	}
	f.Placed = append(f.Placed, req)
	return fmt.Sprintf("call-%d", len(f.Placed)), nil
}

// Attempts returns how many times PlaceCall was invoked, including failures.
func (f *FakeCalls) Attempts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// PlacedCalls returns a copy of the successfully placed calls in order.
func (f *FakeCalls) PlacedCalls() []CallRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]CallRequest, len(f.Placed))
	copy(out, f.Placed)
	return out
}
