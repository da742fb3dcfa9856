package core

import (
	"fmt"
	"strings"
)

// ItemDraft is the planner's output: a titled, testable validation item
// before the run assigns identity and status.
type ItemDraft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// RunState is the full mutable state of one run. It is created once at run
// start, mutated in place by the state machine (which executes strictly
// single-threaded), and snapshotted after every transition for diffing.
type RunState struct {
	Items           []Item `json:"items"`
	Cursor          int    `json:"cursor"`
	CurrentQuestion string `json:"current_question"`
	FinalAnswer     string `json:"final_answer"`

	// Immutable inputs.
	UserInput            string      `json:"user_input"`
	StakeholderProfile   string      `json:"stakeholder_profile"`
	MaxInterviewMessages int         `json:"max_interview_messages"`
	PresuppliedItems     []ItemDraft `json:"presupplied_items,omitempty"`
}

// NewRunState validates the run inputs and returns the initial state. The
// item set stays empty until the planning stage fills it.
func NewRunState(userInput, stakeholderProfile string, maxInterviewMessages int, presupplied []ItemDraft) (*RunState, error) {
	userInput = strings.TrimSpace(userInput)
	stakeholderProfile = strings.TrimSpace(stakeholderProfile)
	if userInput == "" {
		return nil, fmt.Errorf("user input is required")
	}
	if stakeholderProfile == "" {
		return nil, fmt.Errorf("stakeholder profile is required")
	}
	if maxInterviewMessages < 1 {
		return nil, fmt.Errorf("max interview messages must be positive, got %d", maxInterviewMessages)
	}
	drafts := make([]ItemDraft, 0, len(presupplied))
	for _, d := range presupplied {
		title := strings.TrimSpace(d.Title)
		if title == "" {
			continue
		}
		description := strings.TrimSpace(d.Description)
		if description == "" {
			description = title
		}
		drafts = append(drafts, ItemDraft{Title: title, Description: description})
	}
	if len(presupplied) > 0 && len(drafts) == 0 {
		return nil, fmt.Errorf("item list was provided but contained no non-empty items")
	}
	return &RunState{
		Cursor:               0,
		UserInput:            userInput,
		StakeholderProfile:   stakeholderProfile,
		MaxInterviewMessages: maxInterviewMessages,
		PresuppliedItems:     drafts,
	}, nil
}

// ActiveItem returns the item addressed by the cursor, or nil when the
// cursor has moved past the end of the list.
func (s *RunState) ActiveItem() *Item {
	if s.Cursor < 0 || s.Cursor >= len(s.Items) {
		return nil
	}
	return &s.Items[s.Cursor]
}

// AllTerminal reports whether every item carries a terminal status.
func (s *RunState) AllTerminal(scheme Scheme) bool {
	for i := range s.Items {
		if !scheme.IsTerminal(s.Items[i].Status) {
			return false
		}
	}
	return true
}

// Snapshot returns a deep, structurally independent copy of the state.
// The run controller captures one after every state-machine transition so the
// event translator can diff without racing the producer.
func (s *RunState) Snapshot() *RunState {
	c := *s
	c.Items = make([]Item, len(s.Items))
	for i := range s.Items {
		c.Items[i] = s.Items[i].Clone()
	}
	c.PresuppliedItems = make([]ItemDraft, len(s.PresuppliedItems))
	copy(c.PresuppliedItems, s.PresuppliedItems)
	return &c
}

// ItemSummary is the compact per-item view used in step and completion
// payloads.
type ItemSummary struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Status        Status     `json:"status"`
	Resolution    Resolution `json:"resolution"`
	RootCause     string     `json:"root_cause"`
	EvidenceCount int        `json:"evidence_count"`
	MessageCount  int        `json:"interview_message_count"`
}

// StateSummary is the compact view of a whole snapshot.
type StateSummary struct {
	Cursor          int           `json:"cursor"`
	CurrentQuestion string        `json:"current_question"`
	FinalAnswer     string        `json:"final_answer"`
	Items           []ItemSummary `json:"items"`
}

// Summarize builds the compact view of the state.
func (s *RunState) Summarize() StateSummary {
	sum := StateSummary{
		Cursor:          s.Cursor,
		CurrentQuestion: s.CurrentQuestion,
		FinalAnswer:     s.FinalAnswer,
		Items:           make([]ItemSummary, 0, len(s.Items)),
	}
	for i := range s.Items {
		it := &s.Items[i]
		sum.Items = append(sum.Items, ItemSummary{
			ID:            it.ID,
			Title:         it.Title,
			Status:        it.Status,
			Resolution:    it.Resolution,
			RootCause:     it.RootCause,
			EvidenceCount: len(it.Evidence),
			MessageCount:  len(it.Messages),
		})
	}
	return sum
}
