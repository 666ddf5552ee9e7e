package domain

import "time"

// View is the screen the session is currently showing.
type View string

const (
	ViewHome      View = "home"
	ViewSearching View = "searching"
	ViewDetail    View = "detail"
	ViewProfile   View = "profile"
)

// UpdateState tracks background "new content" signals separately from the displayed topics.
type UpdateState struct {
	Pending    int       `json:"pending"`
	LastSynced time.Time `json:"lastSynced"`
	Refreshing bool      `json:"refreshing"`
}

// SynthesisEventKind labels journal entries for the staged synthesis lifecycle.
type SynthesisEventKind string

const (
	EventStage1Succeeded SynthesisEventKind = "stage1_succeeded"
	EventStage1Failed    SynthesisEventKind = "stage1_failed"
	EventStage2Succeeded SynthesisEventKind = "stage2_succeeded"
	EventStage2Failed    SynthesisEventKind = "stage2_failed"
)

// SynthesisEvent is reported to observability sinks.
type SynthesisEvent struct {
	Kind       SynthesisEventKind
	RecordID   string
	Query      string
	Category   Category
	Error      string
	Duration   time.Duration
	OccurredAt time.Time
}
