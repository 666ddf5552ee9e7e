package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"TopicBridge/internal/analytics"
	"TopicBridge/internal/catalog"
	"TopicBridge/internal/config"
	"TopicBridge/internal/domain"
	"TopicBridge/internal/infrastructure/feed"
	"TopicBridge/internal/infrastructure/journal"
	"TopicBridge/internal/infrastructure/llm"
	"TopicBridge/internal/infrastructure/scheduler"
	"TopicBridge/internal/logging"
	"TopicBridge/internal/metrics"
	"TopicBridge/internal/ports"
	"TopicBridge/internal/session"
	"TopicBridge/internal/usecase"
)

// Deps lets callers replace external adapters; nil fields are built from config.
type Deps struct {
	Client ports.GenerationClient
	Probe  ports.FeedProbe
	Clock  ports.Clock
	Sink   ports.EventSink
}

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	session   *session.Session
	synthesis *usecase.SynthesisController
	updates   *usecase.UpdatePoller
	journal   *journal.PostgresJournal
	metrics   *http.Server
}

// New builds the session and its background workers.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger, deps Deps) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	topics, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	clock := deps.Clock
	if clock == nil {
		clock = scheduler.NewSystemClock()
	}

	sess := session.New(session.Options{
		Profile: profileFromConfig(cfg.Profile),
		Topics:  topics.Topics(),
		Engine:  analytics.NewEngine(topics.Top(3), nil),
		Now:     clock.Now(),
	})

	a := &Application{cfg: cfg, logger: baseLogger, session: sess}

	probe := deps.Probe
	if probe == nil {
		probe, err = buildProbe(cfg.Feed)
		if err != nil {
			return nil, err
		}
	}

	sink := deps.Sink
	if sink == nil && cfg.Journal.DSN != "" {
		j, err := journal.Open(ctx, cfg.Journal.DSN)
		if err != nil {
			return nil, err
		}
		a.journal = j
		sink = j
	}

	client := deps.Client
	if client == nil && cfg.Generation.APIKey != "" {
		client = llm.NewOpenAIGenerator(cfg.Generation, logging.Component(baseLogger, "llm"))
	}
	if client == nil {
		baseLogger.Warn("no generation API key configured; searches will fail")
	}

	a.synthesis = usecase.NewSynthesisController(usecase.SynthesisDeps{
		Client:    client,
		Workspace: sess,
		Handler:   sess,
		Sink:      sink,
		Logger:    logging.Component(baseLogger, "synthesis"),
	})

	a.updates = usecase.NewUpdatePoller(usecase.UpdatePollerDeps{
		Probe:       probe,
		State:       sess,
		Clock:       clock,
		Interval:    cfg.Poller.Interval,
		SyncLatency: cfg.Poller.SyncLatency,
		Logger:      logging.Component(baseLogger, "poller"),
	})

	if cfg.Metrics.Addr != "" {
		a.metrics = metrics.NewServer(cfg.Metrics.Addr)
	}

	return a, nil
}

// Session exposes the reader session.
func (a *Application) Session() *session.Session {
	return a.session
}

// Run drives the interactive console on in/out until it quits or ctx is cancelled.
// The poller and the metrics endpoint run alongside it.
func (a *Application) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	group, ctx := errgroup.WithContext(ctx)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := a.updates.Start(ctx); err != nil {
		return fmt.Errorf("start poller: %w", err)
	}

	if a.metrics != nil {
		group.Go(func() error {
			return metrics.Serve(ctx, a.metrics)
		})
	}

	group.Go(func() error {
		defer cancel()
		console := newConsole(a, in, out)
		return console.run(ctx)
	})

	err := group.Wait()
	a.shutdown()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (a *Application) shutdown() {
	a.updates.Stop()
	a.synthesis.Close()
	if err := a.journal.Close(); err != nil {
		a.logger.Warn("close journal", "error", err)
	}
}

// RecentEvents reads the journal when one is configured.
func (a *Application) RecentEvents(ctx context.Context, limit uint64) ([]domain.SynthesisEvent, error) {
	if a.journal == nil {
		return nil, errJournalDisabled
	}
	return a.journal.Recent(ctx, "", limit)
}

var errJournalDisabled = errors.New("journal is not configured")

func buildProbe(cfg config.FeedConfig) (ports.FeedProbe, error) {
	if cfg.URL == "" {
		return feed.NewChanceProbe(cfg.Chance, nil), nil
	}
	probe, err := feed.NewHTMLProbe(&http.Client{Timeout: 20 * time.Second}, cfg.URL, cfg.ItemSelector)
	if err != nil {
		return nil, fmt.Errorf("build feed probe: %w", err)
	}
	return probe, nil
}

func profileFromConfig(cfg config.ProfileConfig) domain.Profile {
	membership := domain.MembershipFree
	if domain.MembershipTier(cfg.Membership) == domain.MembershipPro {
		membership = domain.MembershipPro
	}
	return domain.Profile{Language: cfg.Language, Membership: membership}
}
