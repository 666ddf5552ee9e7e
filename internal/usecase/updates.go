package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"TopicBridge/internal/metrics"
	"TopicBridge/internal/ports"
)

const (
	// DefaultPollInterval is how often the feed is checked for new content.
	DefaultPollInterval = time.Minute
	// DefaultSyncLatency is how long a user-triggered refresh takes to settle.
	DefaultSyncLatency = 1500 * time.Millisecond
)

// ErrPollerStopped is returned when Start is called after Stop.
var ErrPollerStopped = errors.New("update poller stopped")

// UpdateState is the slice of session state the poller writes to.
type UpdateState interface {
	// MarkPending increments the pending-updates counter and returns the new value.
	MarkPending() int
	BeginRefresh()
	// CompleteRefresh clears pending updates, stamps the sync time and clears the busy flag.
	CompleteRefresh(at time.Time)
}

// UpdatePollerDeps wires the poller.
type UpdatePollerDeps struct {
	Probe       ports.FeedProbe
	State       UpdateState
	Clock       ports.Clock
	Interval    time.Duration
	SyncLatency time.Duration
	Logger      *slog.Logger
}

// UpdatePoller flags "new content available" on a fixed period without touching displayed topics.
type UpdatePoller struct {
	probe       ports.FeedProbe
	state       UpdateState
	clock       ports.Clock
	interval    time.Duration
	syncLatency time.Duration
	logger      *slog.Logger

	mu         sync.Mutex
	running    bool
	stopped    bool
	quit       chan struct{}
	done       chan struct{}
	stopOnce   sync.Once
	refreshing chan struct{}
	refreshWG  sync.WaitGroup
}

// NewUpdatePoller builds a poller; zero durations fall back to the defaults.
func NewUpdatePoller(deps UpdatePollerDeps) *UpdatePoller {
	p := &UpdatePoller{
		probe:       deps.Probe,
		state:       deps.State,
		clock:       deps.Clock,
		interval:    deps.Interval,
		syncLatency: deps.SyncLatency,
		logger:      deps.Logger,
		quit:        make(chan struct{}),
		done:        make(chan struct{}),
	}
	if p.interval <= 0 {
		p.interval = DefaultPollInterval
	}
	if p.syncLatency <= 0 {
		p.syncLatency = DefaultSyncLatency
	}
	if p.logger == nil {
		p.logger = slog.New(slog.DiscardHandler)
	}
	return p
}

// Start begins ticking. Calling it again while running is a no-op.
func (p *UpdatePoller) Start(ctx context.Context) error {
	if p.clock == nil || p.state == nil {
		return errors.New("update poller misconfigured")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return ErrPollerStopped
	}
	if p.running {
		return nil
	}
	p.running = true

	ticker := p.clock.NewTicker(p.interval)
	go p.loop(ctx, ticker)
	return nil
}

// Stop halts ticking, abandons any pending refresh and waits for goroutines to exit.
// The poller cannot be restarted afterwards.
func (p *UpdatePoller) Stop() {
	p.stopOnce.Do(func() { close(p.quit) })

	p.mu.Lock()
	running := p.running
	p.stopped = true
	p.mu.Unlock()

	if running {
		<-p.done
	}
	p.refreshWG.Wait()
}

// Refresh starts an asynchronous sync and returns a channel closed when it settles.
// A refresh already in progress is joined rather than restarted.
func (p *UpdatePoller) Refresh() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.refreshing != nil {
		return p.refreshing
	}

	done := make(chan struct{})
	if p.stopped || p.clock == nil || p.state == nil {
		close(done)
		return done
	}

	p.refreshing = done
	p.state.BeginRefresh()
	metrics.IncRefresh()
	timer := p.clock.After(p.syncLatency)

	p.refreshWG.Add(1)
	go func() {
		defer p.refreshWG.Done()
		defer close(done)

		select {
		case <-timer:
			p.state.CompleteRefresh(p.clock.Now())
			metrics.SetPendingUpdates(0)
			p.logger.Debug("feed refreshed")
		case <-p.quit:
		}

		p.mu.Lock()
		p.refreshing = nil
		p.mu.Unlock()
	}()

	return done
}

func (p *UpdatePoller) loop(ctx context.Context, ticker ports.Ticker) {
	defer close(p.done)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C():
			p.check(ctx)
		case <-ctx.Done():
			return
		case <-p.quit:
			return
		}
	}
}

func (p *UpdatePoller) check(ctx context.Context) {
	if p.probe == nil {
		return
	}

	fresh, err := p.probe.HasNewContent(ctx)
	if err != nil {
		metrics.ObservePoll("error")
		p.logger.Warn("feed check failed", "error", err)
		return
	}
	if !fresh {
		metrics.ObservePoll("none")
		return
	}

	pending := p.state.MarkPending()
	metrics.ObservePoll("new")
	metrics.SetPendingUpdates(pending)
	p.logger.Debug("new content available", "pending", pending)
}
