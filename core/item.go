package core

import "fmt"

// Status is the lifecycle status of a validation item. The concrete values
// are supplied by a Scheme rather than hardcoded, because two incompatible
// terminal vocabularies exist across versions of the source system.
type Status string

// Resolution is the reason tag attached to an item when it reaches a
// terminal status ("done", "dropped", "blocked", "validated", ...).
type Resolution string

// Role identifies the author of an interview message.
type Role string

const (
	// RoleAssistant marks questions asked by the interrogator.
	RoleAssistant Role = "assistant"
	// RoleUser marks answers given by the simulated stakeholder.
	RoleUser Role = "user"
)

// InterviewMessage is one turn of an item's interview transcript.
type InterviewMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Item is a single validation unit being interrogated. Once Status becomes
// terminal it never changes again; Evidence and Messages only grow.
type Item struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Status      Status             `json:"status"`
	Resolution  Resolution         `json:"resolution"`
	RootCause   string             `json:"root_cause"`
	Evidence    []string           `json:"evidence"`
	Messages    []InterviewMessage `json:"interview_messages"`
}

// Clone returns a deep copy of the item safe for independent mutation.
func (it Item) Clone() Item {
	c := it
	c.Evidence = make([]string, len(it.Evidence))
	copy(c.Evidence, it.Evidence)
	c.Messages = make([]InterviewMessage, len(it.Messages))
	copy(c.Messages, it.Messages)
	return c
}

// Resolve moves the item into the terminal status mapped to the given
// resolution, records the root cause and appends evidence entries. It is the
// single mutation path to a terminal status.
func (it *Item) Resolve(scheme Scheme, resolution Resolution, rootCause string, evidence ...string) error {
	status, ok := scheme.Terminal[resolution]
	if !ok {
		return fmt.Errorf("resolution %q not part of scheme %q", resolution, scheme.Name)
	}
	it.Status = status
	it.Resolution = resolution
	if rootCause != "" {
		it.RootCause = rootCause
	}
	it.Evidence = append(it.Evidence, evidence...)
	return nil
}

// Scheme is the pluggable terminal-status vocabulary. The later "todo"
// variant of the source system collapses every resolution onto a single
// terminal status, the earlier "hypothesis" variant uses one terminal status
// per resolution; both are expressible here.
type Scheme struct {
	Name       string
	Pending    Status
	InProgress Status
	// Terminal maps each terminal decision action (resolution reason) to the
	// terminal status it produces.
	Terminal map[Resolution]Status
	// Blocked is the reserved resolution used when the run itself forces an
	// item terminal: interview depth limit reached, or a degenerate
	// ask-question decision with an empty question.
	Blocked Resolution
}

// TodoScheme is the default vocabulary: a single terminal status "solved"
// qualified by a resolution reason.
var TodoScheme = Scheme{
	Name:       "todo",
	Pending:    "pending",
	InProgress: "in_progress",
	Terminal: map[Resolution]Status{
		"done":    "solved",
		"dropped": "solved",
		"blocked": "solved",
	},
	Blocked: "blocked",
}

// HypothesisScheme is the earlier vocabulary where each outcome is its own
// terminal status.
var HypothesisScheme = Scheme{
	Name:       "hypothesis",
	Pending:    "pending",
	InProgress: "in_progress",
	Terminal: map[Resolution]Status{
		"validated":       "validated",
		"invalidated":     "invalidated",
		"cannot_validate": "cannot_validate",
	},
	Blocked: "cannot_validate",
}

// Validate reports whether the scheme is internally consistent.
func (s Scheme) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("scheme name is empty")
	}
	if s.Pending == "" || s.InProgress == "" {
		return fmt.Errorf("scheme %q missing pending/in_progress statuses", s.Name)
	}
	if len(s.Terminal) == 0 {
		return fmt.Errorf("scheme %q has no terminal statuses", s.Name)
	}
	if _, ok := s.Terminal[s.Blocked]; !ok {
		return fmt.Errorf("scheme %q blocked resolution %q has no terminal status", s.Name, s.Blocked)
	}
	return nil
}

// IsTerminal reports whether the status belongs to the scheme's terminal set.
func (s Scheme) IsTerminal(status Status) bool {
	for _, terminal := range s.Terminal {
		if status == terminal {
			return true
		}
	}
	return false
}

// Resolutions returns the terminal decision actions in deterministic order.
func (s Scheme) Resolutions() []Resolution {
	out := make([]Resolution, 0, len(s.Terminal))
	for r := range s.Terminal {
		out = append(out, r)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] < out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
