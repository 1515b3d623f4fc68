package events

import "time"

const (
	TypeBookBorrowed   = "BOOK_BORROWED"
	TypeBookReturned   = "BOOK_RETURNED"
	TypeFeePaid        = "FEE_PAID"
	TypeUserRegistered = "USER_REGISTERED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "BOOK_BORROWED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Envelope is the wire form. Type and time travel with the payload so
// consumers do not have to infer them from the subject.
type Envelope struct {
	Type       string                 `json:"type"`
	OccurredAt time.Time              `json:"occurred_at"`
	Payload    map[string]interface{} `json:"payload"`
}

func Wrap(e Event) Envelope {
	return Envelope{Type: e.EventType(), OccurredAt: e.Timestamp(), Payload: e.Payload()}
}

func (e Envelope) Event() BaseEvent {
	return BaseEvent{Type: e.Type, Data: e.Payload, OccurredAt: e.OccurredAt}
}
