// Package validationsim simulates bounded customer-discovery interviews: a
// planner distills an idea into validation items, a skeptical interviewer
// interrogates a simulated stakeholder per item, and a synthesizer writes the
// final validation report. Runs execute asynchronously and publish ordered
// event streams.
package validationsim

import (
	"fmt"
	"time"

	"github.com/probelab/validationsim/core"
	"github.com/probelab/validationsim/logging"
	"github.com/probelab/validationsim/runner"
)

// Options configures a Simulator.
type Options struct {
	Scheme            core.Scheme
	Logger            logging.Logger
	MaxConcurrentRuns int
}

// Simulator is the top-level entry point for embedding runs without the HTTP
// layer.
type Simulator struct {
	runner *runner.Runner
}

// New constructs a Simulator around the four collaborators.
func New(collab core.Collaborators, optFns ...func(o *Options)) (*Simulator, error) {
	opts := Options{
		Scheme: core.TodoScheme,
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	r, err := runner.New(collab, func(o *runner.Options) {
		o.Scheme = opts.Scheme
		o.Logger = opts.Logger
		o.MaxConcurrentRuns = opts.MaxConcurrentRuns
	})
	if err != nil {
		return nil, err
	}
	return &Simulator{runner: r}, nil
}

// Runner exposes the underlying runner, e.g. for mounting the HTTP server.
func (s *Simulator) Runner() *runner.Runner { return s.runner }

// StartRun launches a run and returns its runtime handle immediately.
func (s *Simulator) StartRun(in runner.StartInput) (*runner.RunRuntime, error) {
	return s.runner.Start(in)
}

// Run returns the runtime handle for a run id.
func (s *Simulator) Run(id string) (*runner.RunRuntime, error) {
	return s.runner.Get(id)
}

// Cancel aborts a running run.
func (s *Simulator) Cancel(id string) error {
	return s.runner.Cancel(id)
}

// RunSync starts a run, drains its whole event stream and returns the events
// in order. It fails if no terminal event arrives within timeout.
func (s *Simulator) RunSync(in runner.StartInput, timeout time.Duration) ([]core.Event, *runner.RunRuntime, error) {
	rt, err := s.runner.Start(in)
	if err != nil {
		return nil, nil, err
	}
	var events []core.Event
	deadline := time.Now().Add(timeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			rt.Cancel()
			return events, rt, fmt.Errorf("run %s did not finish within %s", rt.ID(), timeout)
		}
		e, ok := rt.Queue().Pop(remaining)
		if !ok {
			continue
		}
		events = append(events, e)
		if e.IsTerminalEvent() {
			return events, rt, nil
		}
	}
}
