// Path: internal/domain/events.go
package domain

// EventType discriminates the messages on a live search stream.
type EventType string

const (
	EventLog    EventType = "log"
	EventResult EventType = "result"
	EventDone   EventType = "done"
)

// StreamEvent is one message on a live search stream. Within one store
// session, log events strictly precede the single terminal result event.
type StreamEvent struct {
	Type    EventType     `json:"type"`
	Message string        `json:"message,omitempty"`
	Data    *SearchResult `json:"data,omitempty"`
}

// LogEvent builds an informational, non-authoritative progress event.
func LogEvent(message string) StreamEvent {
	return StreamEvent{Type: EventLog, Message: message}
}

// ResultEvent builds the terminal event of one store session.
func ResultEvent(result SearchResult) StreamEvent {
	return StreamEvent{Type: EventResult, Data: &result}
}

// DoneEvent closes a stream after every store completed.
func DoneEvent(message string) StreamEvent {
	return StreamEvent{Type: EventDone, Message: message}
}
