package core

import "context"

// ActionAskQuestion is the one non-terminal decision action: continue the
// interview with a follow-up question. Every other action must be a
// Resolution known to the run's Scheme.
const ActionAskQuestion = "ask_question"

// Decision is the interrogator's verdict for one turn: either ask a
// follow-up question or resolve the item terminally.
type Decision struct {
	Action    string `json:"action"`
	Question  string `json:"question"`
	Rationale string `json:"rationale"`
	RootCause string `json:"root_cause"`
}

// InterrogateInput carries everything the interrogator may consider: the
// active item (with its transcript), the stakeholder profile, and terminal
// summaries of the other already-completed items.
type InterrogateInput struct {
	Item               Item
	StakeholderProfile string
	CompletedItems     []Item
	Scheme             Scheme
}

// Planner derives the validation items from the problem statement and the
// stakeholder persona. Backed by a language model in production; any error
// fails the run.
type Planner interface {
	Plan(ctx context.Context, userInput, stakeholderProfile string) ([]ItemDraft, error)
}

// Interrogator produces exactly one Decision per call for the active item.
type Interrogator interface {
	Interrogate(ctx context.Context, in InterrogateInput) (Decision, error)
}

// PersonaResponder answers a pending interview question in character as the
// stakeholder.
type PersonaResponder interface {
	RespondAsStakeholder(ctx context.Context, stakeholderProfile string, history []InterviewMessage, question string) (string, error)
}

// Synthesizer writes the final validation report from the full item set and
// the original inputs.
type Synthesizer interface {
	Synthesize(ctx context.Context, userInput, stakeholderProfile string, items []Item) (string, error)
}

// Collaborators bundles the four decision collaborators a run needs.
type Collaborators struct {
	Planner      Planner
	Interrogator Interrogator
	Responder    PersonaResponder
	Synthesizer  Synthesizer
}
