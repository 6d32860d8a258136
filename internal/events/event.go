// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"videosummary_backend/platform/events"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Summarize Domain Events
// =============================================================================

// SummaryRequestCompleted is published when a summarization request produced
// a result. The summary text itself is not carried: results are not persisted
// beyond the request.
type SummaryRequestCompleted struct {
	BaseEvent
	RequestID   string `json:"requestId"`
	Style       string `json:"style"`
	OutputChars int    `json:"outputChars"`
	DurationMs  int64  `json:"durationMs"`
}

func (e SummaryRequestCompleted) EventName() string { return "summaries.request.completed" }

// SummaryRequestFailed is published when a summarization request ended in a
// typed failure.
type SummaryRequestFailed struct {
	BaseEvent
	RequestID  string `json:"requestId"`
	Style      string `json:"style"`
	Kind       string `json:"kind"`
	Reason     string `json:"reason"`
	DurationMs int64  `json:"durationMs"`
}

func (e SummaryRequestFailed) EventName() string { return "summaries.request.failed" }
