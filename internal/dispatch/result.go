package dispatch

// Status is the terminal state of one channel attempt.
type Status string

const (
	StatusCreated   Status = "created"
	StatusSent      Status = "sent"
	StatusInitiated Status = "initiated"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// TicketResult records one ticket-creation attempt.
type TicketResult struct {
	Project           string `json:"project_name"`
	ActionDescription string `json:"action_description"`
	TicketID          string `json:"ticket_id,omitempty"`
	TicketURL         string `json:"ticket_url,omitempty"`
	Status            Status `json:"status"`
	Error             string `json:"error,omitempty"`
}

// EmailResult records one email attempt.
type EmailResult struct {
	Project           string `json:"project_name"`
	ActionDescription string `json:"action_description"`
	MessageID         string `json:"email_id,omitempty"`
	Status            Status `json:"status"`
	Error             string `json:"error,omitempty"`
}

// CallResult records one call attempt.
type CallResult struct {
	Project           string `json:"project_name"`
	ActionDescription string `json:"action_description"`
	CallID            string `json:"call_id,omitempty"`
	Status            Status `json:"status"`
	Error             string `json:"error,omitempty"`
}

// DispatchResult aggregates every channel outcome of one Dispatch run.
// Counters count successes only; the slices hold all attempts including
// failures and skips.
type DispatchResult struct {
	TicketsCreated int `json:"tickets_created"`
	EmailsSent     int `json:"emails_sent"`
	CallsMade      int `json:"calls_made"`

	Tickets []TicketResult `json:"ticket_results"`
	Emails  []EmailResult  `json:"email_results"`
	Calls   []CallResult   `json:"call_results"`
}
