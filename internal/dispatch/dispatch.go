// Package dispatch routes each project's entry action to outbound
// channels: a tracking ticket is always attempted, and email/call follow
// the action's response type. Calls are buffered during routing and the
// buffer is drained sequentially afterwards so voice lines never overlap.
package dispatch

import (
	"context"
	"errors"
	"log"
	"time"

	"nexus/internal/channels"
	"nexus/internal/types"
)

const (
	defaultCallDelay = 5 * time.Second
	defaultCallCap   = 1
)

// Config tunes a Dispatcher. Zero values select the defaults noted per field.
type Config struct {
	// PhoneNumber is the destination for every outbound call.
	PhoneNumber string
	// EmailAddress is the destination for every notification email.
	EmailAddress string
	// TicketTeam is the team key tickets are filed under.
	TicketTeam string
	// CallDelay is the pause between successive placed calls. Zero or
	// negative selects 5s.
	CallDelay time.Duration
	// MaxCallsPerDispatch caps how many buffered calls one Dispatch run
	// actually places; the rest are recorded as skipped. Zero or negative
	// selects 1.
	MaxCallsPerDispatch int
}

// Dispatcher fans one batch of linked projects out to the channel adapters.
// A nil adapter means that channel is not configured; its attempts are
// recorded as skipped rather than failed.
type Dispatcher struct {
	cfg     Config
	tickets channels.TicketService
	emails  channels.EmailService
	calls   channels.CallService

	// sleep is time.Sleep in production and a recorder in tests.
	sleep func(time.Duration)
}

func New(cfg Config, tickets channels.TicketService, emails channels.EmailService, calls channels.CallService) *Dispatcher {
	if cfg.CallDelay <= 0 {
		cfg.CallDelay = defaultCallDelay
	}
	if cfg.MaxCallsPerDispatch <= 0 {
		cfg.MaxCallsPerDispatch = defaultCallCap
	}
	return &Dispatcher{
		cfg:     cfg,
		tickets: tickets,
		emails:  emails,
		calls:   calls,
		sleep:   time.Sleep,
	}
}

type queuedCall struct {
	project string
	action  types.LinkedAction
}

// Dispatch processes the batch and never returns an error: every channel
// outcome, including failures, lands in the result records instead.
func (d *Dispatcher) Dispatch(ctx context.Context, projects []types.LinkedProject) *DispatchResult {
	result := &DispatchResult{}

	entries := entryActions(projects)
	log.Printf("dispatch: routing %d entry actions", len(entries))

	var queue []queuedCall
	for _, e := range entries {
		d.createTicket(ctx, e.project, e.action, result)

		switch e.action.ResponseType {
		case types.ResponseBoth:
			d.sendEmail(ctx, e.project, e.action, result)
			queue = append(queue, e)
		case types.ResponseCall:
			queue = append(queue, e)
		case types.ResponseEmail:
			d.sendEmail(ctx, e.project, e.action, result)
		}
		// ResponseNone: ticket only.
	}

	if len(queue) > 0 {
		log.Printf("dispatch: draining %d buffered calls", len(queue))
		d.drainCalls(ctx, queue, result)
	}

	log.Printf("dispatch: done, %d tickets, %d emails, %d calls",
		result.TicketsCreated, result.EmailsSent, result.CallsMade)
	return result
}

// entryActions picks each project's first action with no prerequisites, in
// original list order, at most one per project.
func entryActions(projects []types.LinkedProject) []queuedCall {
	var out []queuedCall
	for _, p := range projects {
		for _, a := range p.Actions {
			if len(a.DependsOn) == 0 {
				out = append(out, queuedCall{project: p.Name, action: a})
				break
			}
		}
	}
	return out
}

func (d *Dispatcher) createTicket(ctx context.Context, project string, action types.LinkedAction, result *DispatchResult) {
	tr := TicketResult{Project: project, ActionDescription: action.Description}

	if d.tickets == nil {
		tr.Status = StatusSkipped
		tr.Error = "ticket channel not configured"
		log.Printf("dispatch: ticket skipped for %s: not configured", project)
		result.Tickets = append(result.Tickets, tr)
		return
	}

	ref, err := d.tickets.CreateIssue(ctx, channels.IssueRequest{
		Team:        d.cfg.TicketTeam,
		Title:       ticketTitle(project, action),
		Description: ticketDescription(project, action),
		Priority:    action.Urgency.Priority(),
	})
	switch {
	case errors.Is(err, channels.ErrNotConfigured):
		tr.Status = StatusSkipped
		tr.Error = err.Error()
		log.Printf("dispatch: ticket skipped for %s: %v", project, err)
	case err != nil:
		tr.Status = StatusFailed
		tr.Error = err.Error()
		log.Printf("dispatch: ticket failed for %s: %v", project, err)
	default:
		tr.Status = StatusCreated
		tr.TicketID = ref.ID
		tr.TicketURL = ref.URL
		result.TicketsCreated++
		log.Printf("dispatch: ticket created for %s: %s", project, ref.ID)
	}
	result.Tickets = append(result.Tickets, tr)
}

func (d *Dispatcher) sendEmail(ctx context.Context, project string, action types.LinkedAction, result *DispatchResult) {
	er := EmailResult{Project: project, ActionDescription: action.Description}

	if d.emails == nil {
		er.Status = StatusSkipped
		er.Error = "email channel not configured"
		log.Printf("dispatch: email skipped for %s: not configured", project)
		result.Emails = append(result.Emails, er)
		return
	}

	id, err := d.emails.Send(ctx, d.cfg.EmailAddress, emailSubject(project, action), emailHTML(project, action))
	switch {
	case errors.Is(err, channels.ErrNotConfigured):
		er.Status = StatusSkipped
		er.Error = err.Error()
		log.Printf("dispatch: email skipped for %s: %v", project, err)
	case err != nil:
		er.Status = StatusFailed
		er.Error = err.Error()
		log.Printf("dispatch: email failed for %s: %v", project, err)
	default:
		er.Status = StatusSent
		er.MessageID = id
		result.EmailsSent++
		log.Printf("dispatch: email sent for %s", project)
	}
	result.Emails = append(result.Emails, er)
}

// drainCalls places buffered calls one at a time in FIFO order. Only the
// first MaxCallsPerDispatch entries are attempted; the rest are skipped.
// Between successive placed calls the configured delay elapses, with no
// trailing delay after the last attempt. Context cancellation fails the
// remaining queue without attempting it.
func (d *Dispatcher) drainCalls(ctx context.Context, queue []queuedCall, result *DispatchResult) {
	for i, q := range queue {
		cr := CallResult{Project: q.project, ActionDescription: q.action.Description}

		if i >= d.cfg.MaxCallsPerDispatch {
			cr.Status = StatusSkipped
			cr.Error = "call cap reached for this dispatch"
			log.Printf("dispatch: call skipped for %s: cap reached", q.project)
			result.Calls = append(result.Calls, cr)
			continue
		}
		if err := ctx.Err(); err != nil {
			cr.Status = StatusFailed
			cr.Error = err.Error()
			log.Printf("dispatch: call aborted for %s: %v", q.project, err)
			result.Calls = append(result.Calls, cr)
			continue
		}
		if d.calls == nil {
			cr.Status = StatusSkipped
			cr.Error = "call channel not configured"
			log.Printf("dispatch: call skipped for %s: not configured", q.project)
			result.Calls = append(result.Calls, cr)
			continue
		}

		callID, err := d.calls.PlaceCall(ctx, callRequest(d.cfg.PhoneNumber, q.project, q.action))
		switch {
		case errors.Is(err, channels.ErrNotConfigured):
			cr.Status = StatusSkipped
			cr.Error = err.Error()
			log.Printf("dispatch: call skipped for %s: %v", q.project, err)
		case err != nil:
			cr.Status = StatusFailed
			cr.Error = err.Error()
			log.Printf("dispatch: call failed for %s: %v", q.project, err)
		default:
			cr.Status = StatusInitiated
			cr.CallID = callID
			result.CallsMade++
			log.Printf("dispatch: call initiated for %s", q.project)
			if i < len(queue)-1 && i < d.cfg.MaxCallsPerDispatch-1 {
				d.sleep(d.cfg.CallDelay)
			}
		}
		result.Calls = append(result.Calls, cr)
	}
}
