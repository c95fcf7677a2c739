package model

import "time"

// EventCategory buckets event-log entries for filtering on the client side.
type EventCategory string

const (
	EventDetection EventCategory = "detection"
	EventImpact    EventCategory = "impact"
	EventMiss      EventCategory = "miss"
	EventAlert     EventCategory = "alert"
	EventTracking  EventCategory = "tracking"
	EventMission   EventCategory = "mission"
	EventSystem    EventCategory = "system"
)

// EventSeverity grades how loudly the presentation layer should surface an
// entry.
type EventSeverity string

const (
	SeverityInfo     EventSeverity = "info"
	SeverityWarning  EventSeverity = "warning"
	SeverityCritical EventSeverity = "critical"
)

// EventEntry is one immutable record in the append-only event log.
type EventEntry struct {
	Timestamp time.Time     `json:"timestamp"`
	Category  EventCategory `json:"category"`
	Severity  EventSeverity `json:"severity"`
	// ObjectID references the asteroid the event concerns, when any.
	ObjectID string `json:"object_id,omitempty"`
	Message  string `json:"message"`
}
