package dispatch

import (
	"fmt"
	"strings"

	"nexus/internal/channels"
	"nexus/internal/types"
)

const titleLimit = 80

func peopleOr(action types.LinkedAction, fallback string) string {
	if len(action.People) == 0 {
		return fallback
	}
	return strings.Join(action.People, ", ")
}

func ticketTitle(project string, action types.LinkedAction) string {
	desc := action.Description
	// Truncate on rune boundaries so multi-byte text never ends mid-sequence.
	if runes := []rune(desc); len(runes) > titleLimit {
		desc = string(runes[:titleLimit]) + "..."
	}
	return fmt.Sprintf("[%s] %s", project, desc)
}

func ticketDescription(project string, action types.LinkedAction) string {
	return fmt.Sprintf(`## Action Details

**Project:** %s
**Urgency:** %s
**Department:** %s
**Assigned to:** %s

---

### Task Description

%s

---

*Created automatically by the Nexus action pipeline*
`, project, action.Urgency, action.Department, peopleOr(action, "Unassigned"), action.Description)
}

func emailSubject(project string, action types.LinkedAction) string {
	return fmt.Sprintf("[%s] Action Required: %s", action.Urgency, project)
}

func emailHTML(project string, action types.LinkedAction) string {
	return fmt.Sprintf(`<h2>Action Required: %s</h2>
<p><strong>Urgency:</strong> %s</p>
<p><strong>Department:</strong> %s</p>
<p><strong>Assigned to:</strong> %s</p>
<hr>
<p><strong>Task:</strong></p>
<p>%s</p>
<hr>
<p style="color: gray; font-size: 12px;">
This is an automated notification from the Nexus action pipeline.
</p>`, project, action.Urgency, action.Department, peopleOr(action, "Unassigned"), action.Description)
}

func callRequest(phoneNumber, project string, action types.LinkedAction) channels.CallRequest {
	people := peopleOr(action, "the team")
	return channels.CallRequest{
		PhoneNumber:   phoneNumber,
		CalleeName:    people,
		AgentName:     "Nexus Assistant",
		Organization:  "Nexus",
		ActionSummary: fmt.Sprintf("Notify about urgent action for %s: %s", project, action.Description),
		Context: fmt.Sprintf(`Project: %s
Urgency: %s
Department: %s
Task: %s
Assigned to: %s
`, project, action.Urgency, action.Department, action.Description, people),
	}
}
