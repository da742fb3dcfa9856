package core

import (
	"context"
	"fmt"
	"sync"
)

// ScriptedPlanner returns a fixed item list. Deterministic stand-in for the
// language-model planner, used in tests and examples.
type ScriptedPlanner struct {
	Items []ItemDraft
	Err   error
}

// Plan implements Planner.
func (p *ScriptedPlanner) Plan(_ context.Context, _, _ string) ([]ItemDraft, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	out := make([]ItemDraft, len(p.Items))
	copy(out, p.Items)
	return out, nil
}

// ScriptedInterrogator replays a fixed decision sequence, one decision per
// call, across all items.
type ScriptedInterrogator struct {
	Decisions []Decision
	Err       error

	mu    sync.Mutex
	calls int
}

// Interrogate implements Interrogator. Calls beyond the scripted sequence
// repeat the final decision so depth-limit tests can loop indefinitely.
func (i *ScriptedInterrogator) Interrogate(_ context.Context, _ InterrogateInput) (Decision, error) {
	if i.Err != nil {
		return Decision{}, i.Err
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	if len(i.Decisions) == 0 {
		return Decision{}, fmt.Errorf("scripted interrogator has no decisions")
	}
	idx := i.calls
	if idx >= len(i.Decisions) {
		idx = len(i.Decisions) - 1
	}
	i.calls++
	return i.Decisions[idx], nil
}

// Calls reports how many decisions were served.
func (i *ScriptedInterrogator) Calls() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.calls
}

// ScriptedResponder replays fixed stakeholder answers in order.
type ScriptedResponder struct {
	Answers []string
	Err     error

	mu    sync.Mutex
	calls int
}

// RespondAsStakeholder implements PersonaResponder. Calls beyond the script
// repeat the final answer.
func (r *ScriptedResponder) RespondAsStakeholder(_ context.Context, _ string, _ []InterviewMessage, question string) (string, error) {
	if r.Err != nil {
		return "", r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Answers) == 0 {
		return fmt.Sprintf("I have no strong opinion on: %s", question), nil
	}
	idx := r.calls
	if idx >= len(r.Answers) {
		idx = len(r.Answers) - 1
	}
	r.calls++
	return r.Answers[idx], nil
}

// ScriptedSynthesizer returns a fixed final report.
type ScriptedSynthesizer struct {
	Answer string
	Err    error
}

// Synthesize implements Synthesizer.
func (s *ScriptedSynthesizer) Synthesize(_ context.Context, _, _ string, _ []Item) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	return s.Answer, nil
}

// Interface compliance (compile-time assertions)
var (
	_ Planner          = (*ScriptedPlanner)(nil)
	_ Interrogator     = (*ScriptedInterrogator)(nil)
	_ PersonaResponder = (*ScriptedResponder)(nil)
	_ Synthesizer      = (*ScriptedSynthesizer)(nil)
)
