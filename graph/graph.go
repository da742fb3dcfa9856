// Package graph implements the run state machine: planning, item selection,
// interrogation, simulated stakeholder responses, the depth-limit checkpoint
// guard and final synthesis. Routing between nodes is a pure function over
// the run state so it can be tested without any collaborator.
package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/probelab/validationsim/core"
	"github.com/probelab/validationsim/logging"
)

// Node identifies one state of the machine.
type Node int

const (
	// NodePlan populates the item set, once.
	NodePlan Node = iota
	// NodeSelect advances the cursor past terminal items and picks the
	// active one.
	NodeSelect
	// NodeInterrogate asks the interrogator for one decision on the active item.
	NodeInterrogate
	// NodeRespond lets the simulated stakeholder answer the pending question.
	NodeRespond
	// NodeCheckpoint is the pure depth-limit guard between interview turns.
	NodeCheckpoint
	// NodeSynthesize writes the final report.
	NodeSynthesize
	// NodeDone is the terminal state.
	NodeDone
)

// String returns the node name used in logs.
func (n Node) String() string {
	switch n {
	case NodePlan:
		return "plan"
	case NodeSelect:
		return "select"
	case NodeInterrogate:
		return "interrogate"
	case NodeRespond:
		return "respond"
	case NodeCheckpoint:
		return "checkpoint"
	case NodeSynthesize:
		return "synthesize"
	case NodeDone:
		return "done"
	default:
		return fmt.Sprintf("node(%d)", int(n))
	}
}

const (
	// depthLimitRootCause is recorded when the checkpoint guard forces an
	// item terminal at the interview message limit.
	depthLimitRootCause = "Interview depth limit reached before obtaining sufficient evidence."
	// depthLimitEvidence is the synthetic evidence entry for that forcing.
	depthLimitEvidence = "Interview terminated: message limit reached."
	// emptyQuestionRootCause is recorded when an ask-question decision
	// carries no usable question text.
	emptyQuestionRootCause = "Insufficient interview specificity: no valid follow-up question generated."
	// emptyQuestionEvidence is the synthetic evidence entry for that forcing.
	emptyQuestionEvidence = "Interrogation returned an empty follow-up question."
)

// Options configures a Machine.
type Options struct {
	Scheme core.Scheme
	Logger logging.Logger
}

// Machine advances a RunState through the validation flow. It executes
// strictly single-threaded; only collaborator calls may block.
type Machine struct {
	collab core.Collaborators
	scheme core.Scheme
	logger logging.Logger
}

// New constructs a Machine. All four collaborators are required.
func New(collab core.Collaborators, optFns ...func(o *Options)) (*Machine, error) {
	opts := Options{
		Scheme: core.TodoScheme,
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if collab.Planner == nil || collab.Interrogator == nil || collab.Responder == nil || collab.Synthesizer == nil {
		return nil, fmt.Errorf("all four collaborators are required")
	}
	if err := opts.Scheme.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scheme: %w", err)
	}
	return &Machine{collab: collab, scheme: opts.Scheme, logger: opts.Logger}, nil
}

// Scheme returns the status vocabulary the machine runs under.
func (m *Machine) Scheme() core.Scheme { return m.scheme }

// Step executes the node's mutation on the state in place, then returns the
// next node from the pure routing table. Calling Step on NodeDone is a no-op.
func (m *Machine) Step(ctx context.Context, s *core.RunState, n Node) (Node, error) {
	var err error
	switch n {
	case NodePlan:
		err = m.plan(ctx, s)
	case NodeSelect:
		m.selectItem(s)
	case NodeInterrogate:
		err = m.interrogate(ctx, s)
	case NodeRespond:
		err = m.respond(ctx, s)
	case NodeCheckpoint:
		m.checkpoint(s)
	case NodeSynthesize:
		err = m.synthesize(ctx, s)
	case NodeDone:
		return NodeDone, nil
	default:
		return NodeDone, fmt.Errorf("unknown node %v", n)
	}
	if err != nil {
		return NodeDone, fmt.Errorf("%s: %w", n, err)
	}
	return Next(m.scheme, n, s), nil
}

// plan fills the item set from pre-supplied drafts or the planner, assigns
// ids in creation order and resets the cursor.
func (m *Machine) plan(ctx context.Context, s *core.RunState) error {
	drafts := s.PresuppliedItems
	if len(drafts) == 0 {
		var err error
		drafts, err = m.collab.Planner.Plan(ctx, s.UserInput, s.StakeholderProfile)
		if err != nil {
			return fmt.Errorf("planner: %w", err)
		}
	}
	if len(drafts) == 0 {
		return fmt.Errorf("planner produced no validation items")
	}
	items := make([]core.Item, 0, len(drafts))
	for i, d := range drafts {
		title := strings.TrimSpace(d.Title)
		if title == "" {
			title = fmt.Sprintf("Item %d", i+1)
		}
		items = append(items, core.Item{
			ID:          fmt.Sprintf("item-%d", i+1),
			Title:       title,
			Description: strings.TrimSpace(d.Description),
			Status:      m.scheme.Pending,
			Evidence:    []string{},
			Messages:    []core.InterviewMessage{},
		})
	}
	s.Items = items
	s.Cursor = 0
	s.CurrentQuestion = ""
	m.logger.Info("plan created validation items", "count", len(items))
	return nil
}

// selectItem advances the cursor past terminal items. It is the only place
// the active item is chosen; item order is creation order.
func (m *Machine) selectItem(s *core.RunState) {
	for s.Cursor < len(s.Items) && m.scheme.IsTerminal(s.Items[s.Cursor].Status) {
		s.Cursor++
	}
	if s.Cursor >= len(s.Items) {
		m.logger.Info("select found all items terminal", "count", len(s.Items))
		return
	}
	it := s.Items[s.Cursor]
	m.logger.Info("select picked item", "item_id", it.ID, "cursor", s.Cursor, "status", string(it.Status))
}

// interrogate applies one interrogation decision to the active item.
func (m *Machine) interrogate(ctx context.Context, s *core.RunState) error {
	it := s.ActiveItem()
	if it == nil {
		return fmt.Errorf("no active item at cursor %d", s.Cursor)
	}
	in := core.InterrogateInput{
		Item:               it.Clone(),
		StakeholderProfile: s.StakeholderProfile,
		Scheme:             m.scheme,
	}
	for i := range s.Items {
		if i == s.Cursor || !m.scheme.IsTerminal(s.Items[i].Status) {
			continue
		}
		in.CompletedItems = append(in.CompletedItems, s.Items[i].Clone())
	}
	decision, err := m.collab.Interrogator.Interrogate(ctx, in)
	if err != nil {
		return fmt.Errorf("interrogator: %w", err)
	}

	if resolution := core.Resolution(decision.Action); decision.Action != core.ActionAskQuestion {
		if _, ok := m.scheme.Terminal[resolution]; !ok {
			return fmt.Errorf("interrogator returned unknown action %q for scheme %q", decision.Action, m.scheme.Name)
		}
		var evidence []string
		if rc := strings.TrimSpace(decision.RootCause); rc != "" {
			evidence = append(evidence, "Root cause: "+rc)
		}
		if decision.Rationale != "" {
			evidence = append(evidence, decision.Rationale)
		}
		if err := it.Resolve(m.scheme, resolution, strings.TrimSpace(decision.RootCause), evidence...); err != nil {
			return err
		}
		s.CurrentQuestion = ""
		m.logger.Info("interrogation resolved item", "item_id", it.ID, "resolution", decision.Action)
		return nil
	}

	question := strings.TrimSpace(decision.Question)
	if question == "" {
		// Degenerate decision: continuing without a question would stall the
		// run, so force the item terminal instead of looping.
		if err := it.Resolve(m.scheme, m.scheme.Blocked, emptyQuestionRootCause, emptyQuestionEvidence); err != nil {
			return err
		}
		s.CurrentQuestion = ""
		m.logger.Warn("interrogation produced empty question", "item_id", it.ID)
		return nil
	}

	it.Status = m.scheme.InProgress
	it.Messages = append(it.Messages, core.InterviewMessage{Role: core.RoleAssistant, Content: question})
	s.CurrentQuestion = question
	m.logger.Info("interrogation asked question", "item_id", it.ID, "messages", len(it.Messages))
	return nil
}

// respond answers the pending question in character. A missing question is a
// no-op pass-through.
func (m *Machine) respond(ctx context.Context, s *core.RunState) error {
	question := strings.TrimSpace(s.CurrentQuestion)
	if question == "" {
		m.logger.Debug("respond skipped: no pending question")
		return nil
	}
	it := s.ActiveItem()
	if it == nil {
		return fmt.Errorf("no active item at cursor %d", s.Cursor)
	}
	answer, err := m.collab.Responder.RespondAsStakeholder(ctx, s.StakeholderProfile, append([]core.InterviewMessage(nil), it.Messages...), question)
	if err != nil {
		return fmt.Errorf("persona responder: %w", err)
	}
	it.Messages = append(it.Messages, core.InterviewMessage{Role: core.RoleUser, Content: answer})
	s.CurrentQuestion = ""
	m.logger.Info("stakeholder answered", "item_id", it.ID, "messages", len(it.Messages))
	return nil
}

// checkpoint is the sole safety net against unbounded interviews: when the
// active item is not terminal and its transcript has reached the configured
// limit, it is forced terminal with the scheme's blocked resolution.
// Deterministic, O(1), and a no-op on already-terminal items.
func (m *Machine) checkpoint(s *core.RunState) {
	it := s.ActiveItem()
	if it == nil {
		m.logger.Debug("checkpoint: no active item")
		return
	}
	if m.scheme.IsTerminal(it.Status) || len(it.Messages) < s.MaxInterviewMessages {
		m.logger.Debug("checkpoint pass", "item_id", it.ID, "messages", len(it.Messages))
		return
	}
	// Resolve cannot fail here: Scheme.Validate guarantees Blocked maps to a
	// terminal status.
	_ = it.Resolve(m.scheme, m.scheme.Blocked, depthLimitRootCause, depthLimitEvidence)
	s.CurrentQuestion = ""
	m.logger.Info("checkpoint terminated item at message limit", "item_id", it.ID, "limit", s.MaxInterviewMessages)
}

// synthesize writes the final report from the full item set.
func (m *Machine) synthesize(ctx context.Context, s *core.RunState) error {
	items := make([]core.Item, 0, len(s.Items))
	for i := range s.Items {
		items = append(items, s.Items[i].Clone())
	}
	answer, err := m.collab.Synthesizer.Synthesize(ctx, s.UserInput, s.StakeholderProfile, items)
	if err != nil {
		return fmt.Errorf("synthesizer: %w", err)
	}
	s.FinalAnswer = answer
	m.logger.Info("synthesis produced final answer", "length", len(answer))
	return nil
}
