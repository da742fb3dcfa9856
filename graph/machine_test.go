package graph

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probelab/validationsim/core"
)

// drive steps the machine from Plan until Done, guarding against routing
// loops with a generous step cap.
func drive(t *testing.T, m *Machine, s *core.RunState) int {
	t.Helper()
	node := NodePlan
	steps := 0
	for node != NodeDone {
		var err error
		node, err = m.Step(context.Background(), s, node)
		require.NoError(t, err)
		steps++
		require.Less(t, steps, 500, "state machine did not terminate")
	}
	return steps
}

func newMachine(t *testing.T, collab core.Collaborators, optFns ...func(o *Options)) *Machine {
	t.Helper()
	m, err := New(collab, optFns...)
	require.NoError(t, err)
	return m
}

func TestMachine_ImmediateResolution(t *testing.T) {
	collab := core.Collaborators{
		Planner: &core.ScriptedPlanner{Items: []core.ItemDraft{{Title: "pays for tooling", Description: "will they pay"}}},
		Interrogator: &core.ScriptedInterrogator{Decisions: []core.Decision{
			{Action: "done", Rationale: "evidence already sufficient", RootCause: ""},
		}},
		Responder:   &core.ScriptedResponder{},
		Synthesizer: &core.ScriptedSynthesizer{Answer: "ship it"},
	}
	m := newMachine(t, collab)

	s, err := core.NewRunState("an idea", "a persona", 8, nil)
	require.NoError(t, err)
	drive(t, m, s)

	require.Len(t, s.Items, 1)
	assert.Equal(t, "item-1", s.Items[0].ID)
	assert.Equal(t, core.Status("solved"), s.Items[0].Status)
	assert.Equal(t, core.Resolution("done"), s.Items[0].Resolution)
	assert.Empty(t, s.Items[0].Messages)
	assert.Equal(t, "ship it", s.FinalAnswer)
	assert.Empty(t, s.CurrentQuestion)
}

func TestMachine_InterviewThenResolve(t *testing.T) {
	collab := core.Collaborators{
		Planner: &core.ScriptedPlanner{Items: []core.ItemDraft{{Title: "feels the pain weekly"}}},
		Interrogator: &core.ScriptedInterrogator{Decisions: []core.Decision{
			{Action: core.ActionAskQuestion, Question: "How often does this bite you?"},
			{Action: core.ActionAskQuestion, Question: "What do you do about it today?"},
			{Action: "done", Rationale: "clear recurring pain", RootCause: ""},
		}},
		Responder:   &core.ScriptedResponder{Answers: []string{"Every sprint.", "Spreadsheets, painfully."}},
		Synthesizer: &core.ScriptedSynthesizer{Answer: "validated"},
	}
	m := newMachine(t, collab)

	s, err := core.NewRunState("an idea", "a persona", 8, nil)
	require.NoError(t, err)
	drive(t, m, s)

	it := s.Items[0]
	assert.Equal(t, core.Status("solved"), it.Status)
	require.Len(t, it.Messages, 4)
	assert.Equal(t, core.RoleAssistant, it.Messages[0].Role)
	assert.Equal(t, "How often does this bite you?", it.Messages[0].Content)
	assert.Equal(t, core.RoleUser, it.Messages[1].Role)
	assert.Equal(t, "Every sprint.", it.Messages[1].Content)
	assert.Equal(t, "Spreadsheets, painfully.", it.Messages[3].Content)
	assert.Contains(t, it.Evidence, "clear recurring pain")
}

func TestMachine_DepthLimitForcesBlocked(t *testing.T) {
	collab := core.Collaborators{
		Planner: &core.ScriptedPlanner{Items: []core.ItemDraft{{Title: "endless topic"}}},
		Interrogator: &core.ScriptedInterrogator{Decisions: []core.Decision{
			{Action: core.ActionAskQuestion, Question: "And another thing?"},
		}},
		Responder:   &core.ScriptedResponder{Answers: []string{"Hmm."}},
		Synthesizer: &core.ScriptedSynthesizer{Answer: "report"},
	}
	m := newMachine(t, collab)

	s, err := core.NewRunState("an idea", "a persona", 4, nil)
	require.NoError(t, err)
	drive(t, m, s)

	it := s.Items[0]
	assert.Equal(t, core.Status("solved"), it.Status)
	assert.Equal(t, core.Resolution("blocked"), it.Resolution)
	assert.Equal(t, "Interview depth limit reached before obtaining sufficient evidence.", it.RootCause)
	assert.Contains(t, it.Evidence, "Interview terminated: message limit reached.")
	// Two questions and two answers fit under a limit of four.
	assert.Len(t, it.Messages, 4)
	assert.Equal(t, "report", s.FinalAnswer)
}

func TestMachine_EmptyQuestionForcesBlocked(t *testing.T) {
	collab := core.Collaborators{
		Planner: &core.ScriptedPlanner{Items: []core.ItemDraft{{Title: "vague topic"}}},
		Interrogator: &core.ScriptedInterrogator{Decisions: []core.Decision{
			{Action: core.ActionAskQuestion, Question: "   "},
		}},
		Responder:   &core.ScriptedResponder{},
		Synthesizer: &core.ScriptedSynthesizer{Answer: "report"},
	}
	m := newMachine(t, collab)

	s, err := core.NewRunState("an idea", "a persona", 8, nil)
	require.NoError(t, err)
	drive(t, m, s)

	it := s.Items[0]
	assert.Equal(t, core.Resolution("blocked"), it.Resolution)
	assert.Equal(t, "Insufficient interview specificity: no valid follow-up question generated.", it.RootCause)
	assert.Contains(t, it.Evidence, "Interrogation returned an empty follow-up question.")
	assert.Empty(t, it.Messages)
}

func TestMachine_MultipleItemsInOrder(t *testing.T) {
	collab := core.Collaborators{
		Planner: &core.ScriptedPlanner{Items: []core.ItemDraft{
			{Title: "first"}, {Title: "second"}, {Title: "third"},
		}},
		Interrogator: &core.ScriptedInterrogator{Decisions: []core.Decision{
			{Action: "done"},
			{Action: "dropped", RootCause: "not a real need"},
			{Action: "done"},
		}},
		Responder:   &core.ScriptedResponder{},
		Synthesizer: &core.ScriptedSynthesizer{Answer: "summary of three"},
	}
	m := newMachine(t, collab)

	s, err := core.NewRunState("an idea", "a persona", 8, nil)
	require.NoError(t, err)
	drive(t, m, s)

	require.Len(t, s.Items, 3)
	assert.Equal(t, core.Resolution("done"), s.Items[0].Resolution)
	assert.Equal(t, core.Resolution("dropped"), s.Items[1].Resolution)
	assert.Equal(t, "Root cause: not a real need", s.Items[1].Evidence[0])
	assert.Equal(t, core.Resolution("done"), s.Items[2].Resolution)
	assert.Equal(t, 3, s.Cursor)
	assert.Equal(t, "summary of three", s.FinalAnswer)
}

func TestMachine_PresuppliedItemsSkipPlanner(t *testing.T) {
	collab := core.Collaborators{
		Planner:      &core.ScriptedPlanner{Err: fmt.Errorf("planner must not be called")},
		Interrogator: &core.ScriptedInterrogator{Decisions: []core.Decision{{Action: "done"}}},
		Responder:    &core.ScriptedResponder{},
		Synthesizer:  &core.ScriptedSynthesizer{Answer: "done"},
	}
	m := newMachine(t, collab)

	s, err := core.NewRunState("an idea", "a persona", 8, []core.ItemDraft{{Title: "supplied"}})
	require.NoError(t, err)
	drive(t, m, s)

	require.Len(t, s.Items, 1)
	assert.Equal(t, "supplied", s.Items[0].Title)
}

func TestMachine_HypothesisScheme(t *testing.T) {
	collab := core.Collaborators{
		Planner: &core.ScriptedPlanner{Items: []core.ItemDraft{{Title: "h1"}, {Title: "h2"}}},
		Interrogator: &core.ScriptedInterrogator{Decisions: []core.Decision{
			{Action: "validated", Rationale: "confirmed"},
			{Action: "invalidated", RootCause: "contradicted by answers"},
		}},
		Responder:   &core.ScriptedResponder{},
		Synthesizer: &core.ScriptedSynthesizer{Answer: "mixed"},
	}
	m := newMachine(t, collab, func(o *Options) { o.Scheme = core.HypothesisScheme })

	s, err := core.NewRunState("an idea", "a persona", 8, nil)
	require.NoError(t, err)
	drive(t, m, s)

	assert.Equal(t, core.Status("validated"), s.Items[0].Status)
	assert.Equal(t, core.Status("invalidated"), s.Items[1].Status)
}

func TestMachine_UnknownActionFails(t *testing.T) {
	collab := core.Collaborators{
		Planner:      &core.ScriptedPlanner{Items: []core.ItemDraft{{Title: "x"}}},
		Interrogator: &core.ScriptedInterrogator{Decisions: []core.Decision{{Action: "validated"}}},
		Responder:    &core.ScriptedResponder{},
		Synthesizer:  &core.ScriptedSynthesizer{},
	}
	// "validated" is not part of the todo vocabulary.
	m := newMachine(t, collab)

	s, err := core.NewRunState("an idea", "a persona", 8, nil)
	require.NoError(t, err)

	node, err := m.Step(context.Background(), s, NodePlan)
	require.NoError(t, err)
	node, err = m.Step(context.Background(), s, node)
	require.NoError(t, err)
	require.Equal(t, NodeInterrogate, node)
	_, err = m.Step(context.Background(), s, node)
	require.ErrorContains(t, err, "unknown action")
}

func TestMachine_CollaboratorErrorPropagates(t *testing.T) {
	collab := core.Collaborators{
		Planner:      &core.ScriptedPlanner{Err: fmt.Errorf("model unavailable")},
		Interrogator: &core.ScriptedInterrogator{Decisions: []core.Decision{{Action: "done"}}},
		Responder:    &core.ScriptedResponder{},
		Synthesizer:  &core.ScriptedSynthesizer{},
	}
	m := newMachine(t, collab)

	s, err := core.NewRunState("an idea", "a persona", 8, nil)
	require.NoError(t, err)
	_, err = m.Step(context.Background(), s, NodePlan)
	require.ErrorContains(t, err, "model unavailable")
}

func TestNew_RequiresCollaborators(t *testing.T) {
	_, err := New(core.Collaborators{})
	require.Error(t, err)
}
