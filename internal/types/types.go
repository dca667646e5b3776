package types

import "sort"

// Urgency levels ------------------------------------------------------------------

// Urgency is the severity level assigned upstream during action extraction.
// The string values are the wire format emitted by the extractor.
type Urgency string

const (
	UrgencyVeryHigh Urgency = "VERY HIGH"
	UrgencyHigh     Urgency = "HIGH"
	UrgencyMedium   Urgency = "MEDIUM"
	UrgencyLow      Urgency = "LOW"
)

// Priority maps urgency to a ticketing priority (1=urgent .. 4=low).
// Unknown values fall back to medium.
func (u Urgency) Priority() int {
	switch u {
	case UrgencyVeryHigh:
		return 1
	case UrgencyHigh:
		return 2
	case UrgencyMedium:
		return 3
	case UrgencyLow:
		return 4
	default:
		return 3
	}
}

// ResponseType is the channel-routing decision derived from urgency.
type ResponseType string

const (
	ResponseBoth  ResponseType = "both"
	ResponseCall  ResponseType = "call"
	ResponseEmail ResponseType = "email"
	ResponseNone  ResponseType = "none"
)

// ResponseTypeFor maps urgency to a response type. The mapping is total:
// unknown urgencies map to ResponseNone.
func ResponseTypeFor(u Urgency) ResponseType {
	switch u {
	case UrgencyVeryHigh:
		return ResponseBoth
	case UrgencyHigh:
		return ResponseCall
	case UrgencyMedium:
		return ResponseEmail
	default:
		return ResponseNone
	}
}

// Actions & projects --------------------------------------------------------------

// Action is a single extracted action item. Immutable once produced upstream.
type Action struct {
	Description string   `json:"description"`
	People      []string `json:"people,omitempty"`
	Department  string   `json:"department"`
	Urgency     Urgency  `json:"urgency"`
}

// Project groups an ordered action list under a project name. The list
// position of an action is its identity within dependency edges.
type Project struct {
	Name    string   `json:"name"`
	Actions []Action `json:"actions"`
}

// Dependency edges ----------------------------------------------------------------

// EdgeReason categorizes why one action blocks another.
type EdgeReason string

const (
	ReasonExplicitPrerequisite EdgeReason = "explicit_prerequisite"
	ReasonInformationHandoff   EdgeReason = "information_handoff"
	ReasonApprovalGate         EdgeReason = "approval_gate"
	ReasonResourceDependency   EdgeReason = "resource_dependency"
	ReasonLogicalSequence      EdgeReason = "logical_sequence"
)

// KnownReason reports whether r is one of the defined edge reasons.
func KnownReason(r EdgeReason) bool {
	switch r {
	case ReasonExplicitPrerequisite, ReasonInformationHandoff,
		ReasonApprovalGate, ReasonResourceDependency, ReasonLogicalSequence:
		return true
	}
	return false
}

// DependencyEdge says the action at FromIdx must complete before the action
// at ToIdx can start. Indices are 0-based into one project's action list and
// never cross projects.
type DependencyEdge struct {
	FromIdx    int        `json:"from_idx"`
	ToIdx      int        `json:"to_idx"`
	Reason     EdgeReason `json:"reason"`
	Confidence float64    `json:"confidence"`
	Evidence   string     `json:"evidence,omitempty"`
}

// Linked output -------------------------------------------------------------------

// LinkedAction is an Action plus its resolved prerequisites and routing class.
type LinkedAction struct {
	Action
	DependsOn    []int        `json:"depends_on"`
	ResponseType ResponseType `json:"response_type"`
}

// LinkedProject is the builder output: same name, same action order as the
// input Project, with depends_on guaranteed acyclic.
type LinkedProject struct {
	Name    string         `json:"name"`
	Actions []LinkedAction `json:"actions"`
}

// SortedUnique returns a sorted copy of idxs with duplicates removed.
func SortedUnique(idxs []int) []int {
	if len(idxs) == 0 {
		return []int{}
	}
	seen := make(map[int]bool, len(idxs))
	out := make([]int, 0, len(idxs))
	for _, i := range idxs {
		if !seen[i] {
			seen[i] = true
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return out
}
