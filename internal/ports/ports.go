package ports

import (
	"context"
	"time"

	"TopicBridge/internal/domain"
)

// GenerationClient is the generative backend producing topic analyses.
type GenerationClient interface {
	Summarize(ctx context.Context, query string, profile domain.Profile) (domain.Record, error)
	DeepDive(ctx context.Context, query string, record domain.Record, profile domain.Profile) (domain.DeepDive, error)
}

// FeedProbe answers whether the upstream feed has content newer than what is displayed.
type FeedProbe interface {
	HasNewContent(ctx context.Context) (bool, error)
}

// EventSink receives synthesis lifecycle events (journal, audit).
type EventSink interface {
	Record(ctx context.Context, event domain.SynthesisEvent) error
}

// Ticker delivers ticks until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Clock abstracts time so polling and refresh can be driven by tests.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
	After(d time.Duration) <-chan time.Time
}
