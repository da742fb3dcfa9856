package validationsim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probelab/validationsim/core"
	"github.com/probelab/validationsim/runner"
)

func TestRunSync(t *testing.T) {
	collab := core.Collaborators{
		Planner:      &core.ScriptedPlanner{Items: []core.ItemDraft{{Title: "pays for tooling"}}},
		Interrogator: &core.ScriptedInterrogator{Decisions: []core.Decision{{Action: "done"}}},
		Responder:    &core.ScriptedResponder{},
		Synthesizer:  &core.ScriptedSynthesizer{Answer: "ship it"},
	}
	sim, err := New(collab)
	require.NoError(t, err)

	events, rt, err := sim.RunSync(runner.StartInput{
		UserInput:            "an idea",
		StakeholderProfile:   "a persona",
		MaxInterviewMessages: 8,
	}, 5*time.Second)
	require.NoError(t, err)
	require.NotEmpty(t, events)
	assert.Equal(t, core.EventRunStarted, events[0].Type)
	assert.Equal(t, core.EventRunCompleted, events[len(events)-1].Type)
	assert.Equal(t, "ship it", rt.FinalAnswer())

	got, err := sim.Run(rt.ID())
	require.NoError(t, err)
	assert.Same(t, rt, got)
}

func TestNew_HypothesisScheme(t *testing.T) {
	collab := core.Collaborators{
		Planner:      &core.ScriptedPlanner{Items: []core.ItemDraft{{Title: "h1"}}},
		Interrogator: &core.ScriptedInterrogator{Decisions: []core.Decision{{Action: "validated"}}},
		Responder:    &core.ScriptedResponder{},
		Synthesizer:  &core.ScriptedSynthesizer{Answer: "report"},
	}
	sim, err := New(collab, func(o *Options) { o.Scheme = core.HypothesisScheme })
	require.NoError(t, err)

	_, rt, err := sim.RunSync(runner.StartInput{
		UserInput:            "an idea",
		StakeholderProfile:   "a persona",
		MaxInterviewMessages: 8,
	}, 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, core.Status("validated"), rt.State().Items[0].Status)
}
