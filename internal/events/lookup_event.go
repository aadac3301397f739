package events

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventInfo    EventType = "info"
	EventWarn    EventType = "warn"
	EventSuccess EventType = "success"
	EventError   EventType = "error"
)

const (
	LookupState  = "events:lookup:state"
	LookupNotice = "events:lookup:notice"
	StoreNotice  = "events:store:notice"
)

// LookupEvent is a simple struct representing a backend event payload
type LookupEvent struct {
	ID         string            `json:"id"`
	Type       EventType         `json:"type"`
	Message    string            `json:"message"`
	Timestamp  time.Time         `json:"timestamp"`
	AttemptKey string            `json:"attemptKey,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// ForAttempt returns a copy of the event scoped to the given attempt key.
func (e LookupEvent) ForAttempt(attemptKey string) LookupEvent {
	e.AttemptKey = attemptKey
	return e
}

type contextKey string

const attemptContextKey contextKey = "termlens/events/attempt"

// WithAttempt returns a derived context annotated with the given attempt key
// so event emitters can automatically scope payloads.
func WithAttempt(ctx context.Context, attemptKey string) context.Context {
	if strings.TrimSpace(attemptKey) == "" {
		return ctx
	}
	return context.WithValue(ctx, attemptContextKey, attemptKey)
}

// AttemptFromContext extracts the attempt key associated with ctx.
func AttemptFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(attemptContextKey).(string); ok {
		return v
	}
	return ""
}

func CreateLookupEvent(eventType EventType, message string) LookupEvent {
	return LookupEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// NewInfo creates an info LookupEvent.
func NewInfo(message string) LookupEvent {
	return CreateLookupEvent(EventInfo, message)
}

// NewWarn creates a warn LookupEvent.
func NewWarn(message string) LookupEvent {
	return CreateLookupEvent(EventWarn, message)
}

// NewError creates an error LookupEvent.
func NewError(message string) LookupEvent {
	return CreateLookupEvent(EventError, message)
}

// NewSuccess creates a success LookupEvent.
func NewSuccess(message string) LookupEvent {
	return CreateLookupEvent(EventSuccess, message)
}
