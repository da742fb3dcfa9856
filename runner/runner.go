// Package runner owns run lifecycles: it validates start requests, registers
// run runtimes, and drives each run's state machine on its own goroutine
// while feeding translated events into the run's queue.
package runner

import (
	"context"
	"fmt"

	"github.com/probelab/validationsim/core"
	"github.com/probelab/validationsim/graph"
	"github.com/probelab/validationsim/internal/util"
	"github.com/probelab/validationsim/logging"
	"github.com/probelab/validationsim/translator"
)

// stepBudget caps state machine transitions per run. The checkpoint guard
// bounds every interview, so a run hitting this is a routing bug, not a long
// interview.
const stepBudget = 5000

// ErrTooManyRuns is returned when the concurrent-run cap would be exceeded.
var ErrTooManyRuns = fmt.Errorf("too many concurrent runs")

// Options configures a Runner.
type Options struct {
	Scheme core.Scheme
	Logger logging.Logger
	// MaxConcurrentRuns rejects new runs while that many are still running.
	// Zero means unlimited.
	MaxConcurrentRuns int
}

// StartInput carries everything needed to launch a run.
type StartInput struct {
	UserInput            string
	StakeholderProfile   string
	MaxInterviewMessages int
	// Items optionally pre-supplies the validation item list, skipping the
	// planning collaborator.
	Items []core.ItemDraft
}

// Runner starts and tracks runs. Safe for concurrent use.
type Runner struct {
	machine  *graph.Machine
	registry *Registry
	logger   logging.Logger
	maxRuns  int
}

// New constructs a Runner around the four collaborators.
func New(collab core.Collaborators, optFns ...func(o *Options)) (*Runner, error) {
	opts := Options{
		Scheme: core.TodoScheme,
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	machine, err := graph.New(collab, func(o *graph.Options) {
		o.Scheme = opts.Scheme
		o.Logger = opts.Logger
	})
	if err != nil {
		return nil, err
	}
	return &Runner{
		machine:  machine,
		registry: NewRegistry(),
		logger:   opts.Logger,
		maxRuns:  opts.MaxConcurrentRuns,
	}, nil
}

// Scheme returns the status vocabulary runs execute under.
func (r *Runner) Scheme() core.Scheme { return r.machine.Scheme() }

// Start validates the input, registers a new run and launches its controller
// goroutine. It returns as soon as the run is registered.
func (r *Runner) Start(in StartInput) (*RunRuntime, error) {
	state, err := core.NewRunState(in.UserInput, in.StakeholderProfile, in.MaxInterviewMessages, in.Items)
	if err != nil {
		return nil, err
	}
	if r.maxRuns > 0 && r.registry.Running() >= r.maxRuns {
		return nil, fmt.Errorf("%w: limit %d", ErrTooManyRuns, r.maxRuns)
	}

	ctx, cancel := context.WithCancel(context.Background())
	rt := newRunRuntime(util.NewID(), cancel)
	if err := r.registry.Add(rt); err != nil {
		cancel()
		return nil, err
	}

	r.logger.Info("run started", "run_id", rt.ID(), "max_interview_messages", in.MaxInterviewMessages, "presupplied_items", len(in.Items))
	go r.run(ctx, rt, state)
	return rt, nil
}

// Get returns the runtime for a run id.
func (r *Runner) Get(id string) (*RunRuntime, error) {
	return r.registry.Get(id)
}

// Cancel aborts a running run. Cancelling a terminal run is a no-op.
func (r *Runner) Cancel(id string) error {
	rt, err := r.registry.Get(id)
	if err != nil {
		return err
	}
	rt.Cancel()
	return nil
}

// run is the controller loop: advance the machine one node at a time,
// snapshot after every transition, translate the snapshot into events and
// push them. Exactly one terminal event ends the queue.
func (r *Runner) run(ctx context.Context, rt *RunRuntime, state *core.RunState) {
	defer rt.Cancel()

	log := logging.WithRun(r.logger, rt.ID())
	tr := translator.New(rt.ID(), r.machine.Scheme())
	rt.queue.Push(tr.Started(state))

	node := graph.NodePlan
	for steps := 0; node != graph.NodeDone; steps++ {
		if steps >= stepBudget {
			err := fmt.Errorf("state machine exceeded %d transitions", stepBudget)
			log.Error("run aborted", "error", err)
			rt.fail(err)
			rt.queue.Push(tr.Failed(err))
			return
		}
		next, err := r.machine.Step(ctx, state, node)
		if err != nil {
			log.Error("run failed", "node", node.String(), "error", err)
			rt.fail(err)
			rt.queue.Push(tr.Failed(err))
			return
		}
		node = next

		snap := state.Snapshot()
		rt.setSnapshot(snap)
		rt.queue.Push(tr.Translate(snap)...)
	}

	final := state.Snapshot()
	rt.complete(state.FinalAnswer, final)
	rt.queue.Push(tr.Completed(final))
	log.Info("run completed", "items", len(state.Items))
}
