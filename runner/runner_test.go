package runner

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probelab/validationsim/core"
)

func scriptedCollaborators() core.Collaborators {
	return core.Collaborators{
		Planner: &core.ScriptedPlanner{Items: []core.ItemDraft{{Title: "pays for tooling"}}},
		Interrogator: &core.ScriptedInterrogator{Decisions: []core.Decision{
			{Action: core.ActionAskQuestion, Question: "How much would you pay?"},
			{Action: "done", Rationale: "price point confirmed"},
		}},
		Responder:   &core.ScriptedResponder{Answers: []string{"About fifty a month."}},
		Synthesizer: &core.ScriptedSynthesizer{Answer: "worth building"},
	}
}

// drain pops until a terminal event arrives or the deadline passes.
func drain(t *testing.T, q *Queue) []core.Event {
	t.Helper()
	var events []core.Event
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		e, ok := q.Pop(100 * time.Millisecond)
		if !ok {
			continue
		}
		events = append(events, e)
		if e.IsTerminalEvent() {
			return events
		}
	}
	t.Fatal("no terminal event before deadline")
	return nil
}

func TestRunner_FullRunEventSequence(t *testing.T) {
	r, err := New(scriptedCollaborators())
	require.NoError(t, err)

	rt, err := r.Start(StartInput{
		UserInput:            "an idea",
		StakeholderProfile:   "a persona",
		MaxInterviewMessages: 8,
	})
	require.NoError(t, err)

	events := drain(t, rt.Queue())
	require.NotEmpty(t, events)
	assert.Equal(t, core.EventRunStarted, events[0].Type)
	last := events[len(events)-1]
	assert.Equal(t, core.EventRunCompleted, last.Type)
	assert.Equal(t, "worth building", last.Payload.(core.RunCompletedPayload).FinalAnswer)

	// Exactly one terminal event, and every event belongs to this run.
	terminals := 0
	counts := map[core.EventType]int{}
	for _, e := range events {
		assert.Equal(t, rt.ID(), e.RunID)
		counts[e.Type]++
		if e.IsTerminalEvent() {
			terminals++
		}
	}
	assert.Equal(t, 1, terminals)
	assert.Equal(t, 1, counts[core.EventItemsCreated])
	assert.Equal(t, 2, counts[core.EventInterviewMessage])
	assert.Equal(t, 1, counts[core.EventQuestionDrafted])

	require.Eventually(t, rt.Terminal, time.Second, 10*time.Millisecond)
	assert.Equal(t, StatusCompleted, rt.Status())
	assert.Equal(t, "worth building", rt.FinalAnswer())
	assert.False(t, rt.CompletedAt().IsZero())
	require.NotNil(t, rt.State())
	assert.Equal(t, core.Status("solved"), rt.State().Items[0].Status)
}

func TestRunner_CollaboratorFailureEmitsSingleRunFailed(t *testing.T) {
	collab := scriptedCollaborators()
	collab.Synthesizer = &core.ScriptedSynthesizer{Err: fmt.Errorf("model unavailable")}
	r, err := New(collab)
	require.NoError(t, err)

	rt, err := r.Start(StartInput{UserInput: "an idea", StakeholderProfile: "a persona", MaxInterviewMessages: 8})
	require.NoError(t, err)

	events := drain(t, rt.Queue())
	last := events[len(events)-1]
	require.Equal(t, core.EventRunFailed, last.Type)
	assert.Contains(t, last.Payload.(core.RunFailedPayload).Message, "model unavailable")

	require.Eventually(t, rt.Terminal, time.Second, 10*time.Millisecond)
	assert.Equal(t, StatusFailed, rt.Status())
	require.Error(t, rt.Err())
}

func TestRunner_StartValidatesInput(t *testing.T) {
	r, err := New(scriptedCollaborators())
	require.NoError(t, err)

	_, err = r.Start(StartInput{UserInput: "  ", StakeholderProfile: "p", MaxInterviewMessages: 8})
	require.Error(t, err)
	assert.Equal(t, 0, r.registry.Len())
}

func TestRunner_GetUnknownRun(t *testing.T) {
	r, err := New(scriptedCollaborators())
	require.NoError(t, err)

	_, err = r.Get("nope")
	require.ErrorIs(t, err, ErrRunNotFound)
}

func TestRunner_MaxConcurrentRuns(t *testing.T) {
	blocked := make(chan struct{})
	collab := scriptedCollaborators()
	collab.Planner = &blockingPlanner{release: blocked}
	r, err := New(collab, func(o *Options) { o.MaxConcurrentRuns = 1 })
	require.NoError(t, err)

	first, err := r.Start(StartInput{UserInput: "an idea", StakeholderProfile: "a persona", MaxInterviewMessages: 8})
	require.NoError(t, err)

	_, err = r.Start(StartInput{UserInput: "another", StakeholderProfile: "a persona", MaxInterviewMessages: 8})
	require.ErrorIs(t, err, ErrTooManyRuns)

	close(blocked)
	drain(t, first.Queue())
	require.Eventually(t, first.Terminal, time.Second, 10*time.Millisecond)

	_, err = r.Start(StartInput{UserInput: "a third", StakeholderProfile: "a persona", MaxInterviewMessages: 8})
	require.NoError(t, err)
}

func TestRunner_CancelFailsRun(t *testing.T) {
	collab := scriptedCollaborators()
	collab.Planner = &blockingPlanner{release: make(chan struct{})}
	r, err := New(collab)
	require.NoError(t, err)

	rt, err := r.Start(StartInput{UserInput: "an idea", StakeholderProfile: "a persona", MaxInterviewMessages: 8})
	require.NoError(t, err)
	require.NoError(t, r.Cancel(rt.ID()))

	events := drain(t, rt.Queue())
	assert.Equal(t, core.EventRunFailed, events[len(events)-1].Type)
	require.Eventually(t, rt.Terminal, time.Second, 10*time.Millisecond)
	assert.Equal(t, StatusFailed, rt.Status())
}

// blockingPlanner parks until released or the context ends.
type blockingPlanner struct {
	release chan struct{}
}

func (p *blockingPlanner) Plan(ctx context.Context, _, _ string) ([]core.ItemDraft, error) {
	select {
	case <-p.release:
		return []core.ItemDraft{{Title: "unblocked"}}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
