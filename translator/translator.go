// Package translator turns run state snapshots into ordered, deduplicated
// event streams. It holds per-run diff memory and never touches live state;
// callers hand it deep snapshots taken after each state machine transition.
package translator

import (
	"fmt"

	"github.com/probelab/validationsim/core"
)

// Translator diffs successive snapshots of one run. Not safe for concurrent
// use; each run controller owns exactly one.
type Translator struct {
	runID  string
	scheme core.Scheme

	step           int
	itemsAnnounced bool
	lastStatus     map[string]core.Status
	lastCount      map[string]int
	lastCursor     int
	lastQuestion   string
}

// New returns a fresh translator with empty diff memory for the run.
func New(runID string, scheme core.Scheme) *Translator {
	return &Translator{
		runID:      runID,
		scheme:     scheme,
		lastStatus: map[string]core.Status{},
		lastCount:  map[string]int{},
		lastCursor: -1,
	}
}

// Started produces the run.started event emitted before any snapshot.
func (t *Translator) Started(s *core.RunState) core.Event {
	return core.NewEvent(t.runID, core.EventRunStarted, core.RunStartedPayload{
		UserInput:            s.UserInput,
		MaxInterviewMessages: s.MaxInterviewMessages,
		ItemCount:            len(s.PresuppliedItems),
	})
}

// Translate diffs one snapshot against the remembered previous view and
// returns the resulting events in a fixed order: step marker, item creation,
// status changes in item order, focus change, drafted question, then new
// transcript messages in index order. Feeding the same snapshot twice yields
// no events beyond the step marker.
func (t *Translator) Translate(s *core.RunState) []core.Event {
	t.step++
	events := []core.Event{core.NewEvent(t.runID, core.EventRunStep, core.RunStepPayload{
		Step:    t.step,
		Summary: s.Summarize(),
	})}

	if !t.itemsAnnounced && len(s.Items) > 0 {
		t.itemsAnnounced = true
		briefs := make([]core.ItemBrief, 0, len(s.Items))
		for i := range s.Items {
			it := &s.Items[i]
			briefs = append(briefs, core.ItemBrief{
				ID:          it.ID,
				Title:       it.Title,
				Description: it.Description,
				Status:      it.Status,
			})
		}
		events = append(events, core.NewEvent(t.runID, core.EventItemsCreated, core.ItemsCreatedPayload{
			Step:  t.step,
			Count: len(briefs),
			Items: briefs,
		}))
	}

	for i := range s.Items {
		it := &s.Items[i]
		prev, seen := t.lastStatus[it.ID]
		if seen && prev == it.Status {
			continue
		}
		t.lastStatus[it.ID] = it.Status
		from := prev
		if !seen {
			from = "unknown"
		}
		events = append(events, core.NewEvent(t.runID, core.EventItemStatusChanged, core.ItemStatusChangedPayload{
			Step:          t.step,
			ItemID:        it.ID,
			ItemTitle:     it.Title,
			FromStatus:    from,
			ToStatus:      it.Status,
			Resolution:    it.Resolution,
			RootCause:     it.RootCause,
			EvidenceCount: len(it.Evidence),
			Message:       t.statusMessage(it),
		}))
	}

	if s.Cursor != t.lastCursor {
		t.lastCursor = s.Cursor
		if s.Cursor >= 0 && s.Cursor < len(s.Items) {
			it := &s.Items[s.Cursor]
			events = append(events, core.NewEvent(t.runID, core.EventItemFocusChanged, core.ItemFocusChangedPayload{
				Step:      t.step,
				Cursor:    s.Cursor,
				ItemID:    it.ID,
				ItemTitle: it.Title,
			}))
		}
	}

	if q := s.CurrentQuestion; q != "" && q != t.lastQuestion {
		var itemID, itemTitle string
		if it := s.ActiveItem(); it != nil {
			itemID, itemTitle = it.ID, it.Title
		}
		events = append(events, core.NewEvent(t.runID, core.EventQuestionDrafted, core.QuestionDraftedPayload{
			Step:      t.step,
			ItemID:    itemID,
			ItemTitle: itemTitle,
			Question:  q,
		}))
	}
	t.lastQuestion = s.CurrentQuestion

	for i := range s.Items {
		it := &s.Items[i]
		for idx := t.lastCount[it.ID]; idx < len(it.Messages); idx++ {
			msg := it.Messages[idx]
			events = append(events, core.NewEvent(t.runID, core.EventInterviewMessage, core.InterviewMessagePayload{
				Step:         t.step,
				ItemID:       it.ID,
				ItemTitle:    it.Title,
				MessageIndex: idx,
				Role:         msg.Role,
				Content:      msg.Content,
				Status:       it.Status,
			}))
		}
		t.lastCount[it.ID] = len(it.Messages)
	}

	return events
}

// Completed produces the run.completed terminal event.
func (t *Translator) Completed(s *core.RunState) core.Event {
	return core.NewEvent(t.runID, core.EventRunCompleted, core.RunCompletedPayload{
		Steps:       t.step,
		FinalAnswer: s.FinalAnswer,
		Summary:     s.Summarize(),
	})
}

// Failed produces the run.failed terminal event.
func (t *Translator) Failed(err error) core.Event {
	msg := "run failed"
	if err != nil {
		msg = err.Error()
	}
	return core.NewEvent(t.runID, core.EventRunFailed, core.RunFailedPayload{Message: msg})
}

// statusMessage builds the human-readable line attached to a status change,
// disambiguating terminal resolutions that share one status.
func (t *Translator) statusMessage(it *core.Item) string {
	if !t.scheme.IsTerminal(it.Status) {
		return fmt.Sprintf("Validating %s: gathering stakeholder evidence.", it.ID)
	}
	switch it.Resolution {
	case "done":
		return fmt.Sprintf("%s solved: done with sufficient interview evidence.", it.ID)
	case "dropped":
		return fmt.Sprintf("%s solved: dropped based on interview evidence.", it.ID)
	case "blocked":
		return fmt.Sprintf("%s solved: blocked due to insufficient or low-quality evidence.", it.ID)
	case "validated":
		return fmt.Sprintf("%s validated: supported by interview evidence.", it.ID)
	case "invalidated":
		return fmt.Sprintf("%s invalidated: contradicted by interview evidence.", it.ID)
	case "cannot_validate":
		return fmt.Sprintf("%s cannot be validated: insufficient or low-quality evidence.", it.ID)
	default:
		return fmt.Sprintf("%s resolved as %s.", it.ID, it.Status)
	}
}
