package engine

import (
	"time"

	"github.com/leengari/lquery/internal/domain/run"
)

// EventType represents different lifecycle phases of an engine call
type EventType string

const (
	EventParseStart  EventType = "parse_start"
	EventParseEnd    EventType = "parse_end"
	EventSortStart   EventType = "sort_start"
	EventSortEnd     EventType = "sort_end"
	EventEvalStart   EventType = "eval_start"
	EventEvalEnd     EventType = "eval_end"
	EventGatherStart EventType = "gather_start"
	EventGatherEnd   EventType = "gather_end"
	EventRunFailed   EventType = "run_failed"
)

// Event represents a lifecycle event of one engine call
type Event struct {
	Type      EventType     // Type of event
	RunID     string        // Run ID for tracing
	Operation run.Operation // Engine call the run belongs to
	Timestamp time.Time     // When the event occurred
	Data      interface{}   // Phase-specific data (e.g., expression, row counts, error)
}

// Observer interface for event subscribers
// Observers receive events at major execution phases
type Observer interface {
	OnEvent(event Event)
}
