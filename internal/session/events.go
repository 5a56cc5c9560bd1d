package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the session engine.
const (
	EventLessonCompleted   = "lesson_completed"
	EventQuizSubmitted     = "quiz_submitted"
	EventCertificateEarned = "certificate_earned"
)

// Event is a progress event observable by telemetry or other collaborators.
// The engine delivers each event in the same critical section as the state
// change it describes, so a sink never sees a ledger that drifted from its
// events.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	LessonID  string    `json:"lesson_id,omitempty"`
	QuizID    string    `json:"quiz_id,omitempty"`
	AttemptID string    `json:"attempt_id,omitempty"`
	Score     int       `json:"score,omitempty"`
	Passed    bool      `json:"passed,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// EventSink receives progress events.
type EventSink interface {
	Emit(event Event) error
}

// NopSink ignores all events.
type NopSink struct{}

func (NopSink) Emit(Event) error {
	return nil
}

// MemorySink keeps events in memory for tests and the /api/events feed.
type MemorySink struct {
	mu     sync.Mutex
	events []Event
}

func NewMemorySink() *MemorySink {
	return &MemorySink{
		events: []Event{},
	}
}

func (s *MemorySink) Emit(event Event) error {
	if event.Type == "" {
		return fmt.Errorf("event type is required")
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	s.mu.Lock()
	s.events = append(s.events, event)
	s.mu.Unlock()

	return nil
}

// Events returns a copy of all recorded events.
func (s *MemorySink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event{}, s.events...)
}

// OfType returns recorded events matching the given type.
func (s *MemorySink) OfType(eventType string) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Event
	for _, e := range s.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}
