package core

import "time"

// EventType identifies an externally observable run notification.
type EventType string

const (
	// EventRunStarted is emitted once, before the first snapshot.
	EventRunStarted EventType = "run.started"
	// EventRunStep is emitted once per snapshot with a compact state summary.
	EventRunStep EventType = "run.step"
	// EventItemsCreated is emitted the first time the item set becomes
	// non-empty, carrying the full initial item brief list.
	EventItemsCreated EventType = "items.created"
	// EventItemStatusChanged is emitted when an item's status differs from
	// the last emitted status for that id, including first sight.
	EventItemStatusChanged EventType = "item.status_changed"
	// EventItemFocusChanged is emitted when the cursor moves onto a valid item.
	EventItemFocusChanged EventType = "item.focus_changed"
	// EventQuestionDrafted is emitted when the pending interview question
	// changes to a new non-empty text.
	EventQuestionDrafted EventType = "interview.question_drafted"
	// EventInterviewMessage is emitted once per transcript message, in index
	// order, never duplicated for the same (item, index) pair.
	EventInterviewMessage EventType = "interview.message"
	// EventRunCompleted terminates a successful stream.
	EventRunCompleted EventType = "run.completed"
	// EventRunFailed terminates a failed stream.
	EventRunFailed EventType = "run.failed"
	// EventStreamConnected is the synthetic first event of every stream
	// connection, carrying the run's current status.
	EventStreamConnected EventType = "stream.connected"
)

// Event is an immutable, translator-emitted notification. Events of one run
// are delivered in the exact order produced.
type Event struct {
	Type      EventType `json:"event"`
	Timestamp time.Time `json:"timestamp"`
	RunID     string    `json:"run_id"`
	Payload   any       `json:"payload"`
}

// NewEvent stamps an event with the current UTC time.
func NewEvent(runID string, t EventType, payload any) Event {
	return Event{Type: t, Timestamp: time.Now().UTC(), RunID: runID, Payload: payload}
}

// IsTerminalEvent reports whether the event ends its run's stream.
func (e Event) IsTerminalEvent() bool {
	return e.Type == EventRunCompleted || e.Type == EventRunFailed
}

// ItemBrief is the creation-time view of an item.
type ItemBrief struct {
	ID          string `json:"item_id"`
	Title       string `json:"item_title"`
	Description string `json:"item_description"`
	Status      Status `json:"status"`
}

// RunStartedPayload announces run parameters.
type RunStartedPayload struct {
	UserInput            string `json:"user_input"`
	MaxInterviewMessages int    `json:"max_interview_messages"`
	ItemCount            int    `json:"item_count"`
}

// RunStepPayload carries the compact state summary for one snapshot.
type RunStepPayload struct {
	Step    int          `json:"step"`
	Summary StateSummary `json:"state"`
}

// ItemsCreatedPayload carries the full initial item brief list.
type ItemsCreatedPayload struct {
	Step  int         `json:"step"`
	Count int         `json:"count"`
	Items []ItemBrief `json:"items"`
}

// ItemStatusChangedPayload describes an item status transition. Message
// disambiguates the terminal resolution reasons for human observers.
type ItemStatusChangedPayload struct {
	Step          int        `json:"step"`
	ItemID        string     `json:"item_id"`
	ItemTitle     string     `json:"item_title"`
	FromStatus    Status     `json:"from_status"`
	ToStatus      Status     `json:"to_status"`
	Resolution    Resolution `json:"resolution"`
	RootCause     string     `json:"root_cause"`
	EvidenceCount int        `json:"evidence_count"`
	Message       string     `json:"message"`
}

// ItemFocusChangedPayload reports which item the run is now validating.
type ItemFocusChangedPayload struct {
	Step      int    `json:"step"`
	Cursor    int    `json:"cursor"`
	ItemID    string `json:"item_id"`
	ItemTitle string `json:"item_title"`
}

// QuestionDraftedPayload reports a freshly drafted interview question.
type QuestionDraftedPayload struct {
	Step      int    `json:"step"`
	ItemID    string `json:"item_id"`
	ItemTitle string `json:"item_title"`
	Question  string `json:"question"`
}

// InterviewMessagePayload carries one transcript message.
type InterviewMessagePayload struct {
	Step         int    `json:"step"`
	ItemID       string `json:"item_id"`
	ItemTitle    string `json:"item_title"`
	MessageIndex int    `json:"message_index"`
	Role         Role   `json:"role"`
	Content      string `json:"content"`
	Status       Status `json:"status"`
}

// RunCompletedPayload ends a successful run with the report and a summary of
// every item.
type RunCompletedPayload struct {
	Steps       int          `json:"steps"`
	FinalAnswer string       `json:"final_answer"`
	Summary     StateSummary `json:"state"`
}

// RunFailedPayload ends a failed run.
type RunFailedPayload struct {
	Message string `json:"message"`
}

// StreamConnectedPayload opens every stream connection.
type StreamConnectedPayload struct {
	Status string `json:"status"`
}
