package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"TopicBridge/internal/domain"
	"TopicBridge/internal/metrics"
	"TopicBridge/internal/ports"
)

// FailureMessage is the single user-facing text for a failed summary.
const FailureMessage = "Unable to analyze this topic. Please check your API key or try a different query."

var (
	// ErrEmptyQuery rejects blank submissions without touching session state.
	ErrEmptyQuery = errors.New("query is empty")
	// ErrSynthesisFailed wraps any stage-1 failure.
	ErrSynthesisFailed = errors.New("topic synthesis failed")
)

// Phase is the lifecycle position of one submitted query.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseStage1Pending
	PhaseStage1Done
	PhaseStage2Pending
	PhaseStage2Done
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseStage1Pending:
		return "stage1_pending"
	case PhaseStage1Done:
		return "stage1_done"
	case PhaseStage2Pending:
		return "stage2_pending"
	case PhaseStage2Done:
		return "stage2_done"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

// SynthesisStatus tells "still enriching" apart from "enrichment failed" for a record.
type SynthesisStatus struct {
	Phase Phase
	Err   error
}

// Enriched reports whether the deep dive was merged.
func (s SynthesisStatus) Enriched() bool {
	return s.Phase == PhaseStage2Done && s.Err == nil
}

// EnrichmentFailed reports whether the record is permanently summary-only.
func (s SynthesisStatus) EnrichmentFailed() bool {
	return s.Phase == PhaseStage2Done && s.Err != nil
}

// Workspace is the session state the controller drives during a search.
type Workspace interface {
	Profile() domain.Profile
	// BeginSearch switches to the searching view and returns the view to restore on failure.
	BeginSearch() domain.View
	// CompleteSearch stores rec, appends it to history and makes it active.
	CompleteSearch(rec domain.Record) error
	FailSearch(previous domain.View, message string)
}

// EnrichmentHandler consumes stage-2 results; it applies them to every container holding the record.
type EnrichmentHandler interface {
	ApplyEnrichment(ev domain.Enrichment) int
}

// SynthesisDeps wires driven adapters into the controller.
type SynthesisDeps struct {
	Client    ports.GenerationClient
	Workspace Workspace
	Handler   EnrichmentHandler
	Sink      ports.EventSink
	Logger    *slog.Logger
	NewID     func() string
	Now       func() time.Time
}

// SynthesisController runs the two-stage fetch: a blocking summary, then a background deep dive.
type SynthesisController struct {
	client    ports.GenerationClient
	workspace Workspace
	handler   EnrichmentHandler
	sink      ports.EventSink
	logger    *slog.Logger
	newID     func() string
	now       func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	jobs    map[string]*synthesisJob
	current string
	pending bool
	failed  bool
}

type synthesisJob struct {
	query string
	phase Phase
	err   error
}

// NewSynthesisController constructs the controller. Background work lives until Close.
func NewSynthesisController(deps SynthesisDeps) *SynthesisController {
	ctx, cancel := context.WithCancel(context.Background())

	c := &SynthesisController{
		client:    deps.Client,
		workspace: deps.Workspace,
		handler:   deps.Handler,
		sink:      deps.Sink,
		logger:    deps.Logger,
		newID:     deps.NewID,
		now:       deps.Now,
		ctx:       ctx,
		cancel:    cancel,
		jobs:      map[string]*synthesisJob{},
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	if c.newID == nil {
		c.newID = uuid.NewString
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// Submit runs stage 1 and returns the summary record as soon as it is active.
// Stage 2 is then issued in the background and never blocks the caller.
func (c *SynthesisController) Submit(ctx context.Context, query string) (domain.Record, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.Record{}, ErrEmptyQuery
	}
	if c.workspace == nil {
		return domain.Record{}, fmt.Errorf("%w: workspace is not configured", ErrSynthesisFailed)
	}

	previous := c.workspace.BeginSearch()
	profile := c.workspace.Profile()
	c.markSubmission(true, false)

	rec, err := c.summarize(ctx, query, profile)
	if err != nil {
		c.markSubmission(false, true)
		c.workspace.FailSearch(previous, FailureMessage)
		return domain.Record{}, fmt.Errorf("%w: %w", ErrSynthesisFailed, err)
	}

	c.setPhase(rec.ID, query, PhaseStage1Done, nil)
	if err := c.workspace.CompleteSearch(rec); err != nil {
		c.setPhase(rec.ID, query, PhaseFailed, err)
		c.markSubmission(false, true)
		c.workspace.FailSearch(previous, FailureMessage)
		return domain.Record{}, fmt.Errorf("%w: %w", ErrSynthesisFailed, err)
	}

	c.mu.Lock()
	c.current = rec.ID
	c.pending = false
	c.mu.Unlock()

	c.startDeepDive(query, rec, profile)
	return rec, nil
}

// Status reports where the record created by Submit is in its lifecycle.
func (c *SynthesisController) Status(id string) (SynthesisStatus, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	job, ok := c.jobs[id]
	if !ok {
		return SynthesisStatus{Phase: PhaseIdle}, false
	}
	return SynthesisStatus{Phase: job.phase, Err: job.err}, true
}

// Current reports the phase of the most recent submission.
func (c *SynthesisController) Current() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.pending:
		return PhaseStage1Pending
	case c.failed:
		return PhaseFailed
	case c.current == "":
		return PhaseIdle
	default:
		return c.jobs[c.current].phase
	}
}

// Wait blocks until every in-flight deep dive has finished.
func (c *SynthesisController) Wait() {
	c.wg.Wait()
}

// Close cancels outstanding deep dives and waits for them to return.
func (c *SynthesisController) Close() {
	c.cancel()
	c.wg.Wait()
}

func (c *SynthesisController) summarize(ctx context.Context, query string, profile domain.Profile) (domain.Record, error) {
	if c.client == nil {
		return domain.Record{}, fmt.Errorf("generation client is not configured")
	}

	start := c.now()
	rec, err := c.client.Summarize(ctx, query, profile)
	took := c.now().Sub(start)
	if err != nil {
		metrics.ObserveSynthesis(metrics.StageSummary, metrics.OutcomeFailure, took)
		c.logger.Error("summary generation failed", "query", query, "error", err)
		c.record(ctx, domain.SynthesisEvent{
			Kind:     domain.EventStage1Failed,
			Query:    query,
			Error:    err.Error(),
			Duration: took,
		})
		return domain.Record{}, err
	}

	// IDs are assigned here so repeating a query always yields a new identity.
	rec.ID = c.newID()

	metrics.ObserveSynthesis(metrics.StageSummary, metrics.OutcomeSuccess, took)
	c.logger.Info("summary ready", "record_id", rec.ID, "category", rec.Category, "took", took)
	c.record(ctx, domain.SynthesisEvent{
		Kind:     domain.EventStage1Succeeded,
		RecordID: rec.ID,
		Query:    query,
		Category: rec.Category,
		Duration: took,
	})
	return rec, nil
}

func (c *SynthesisController) startDeepDive(query string, rec domain.Record, profile domain.Profile) {
	c.mu.Lock()
	job := c.jobs[rec.ID]
	if job.phase >= PhaseStage2Pending {
		c.mu.Unlock()
		return
	}
	job.phase = PhaseStage2Pending
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.deepDive(query, rec, profile)
	}()
}

func (c *SynthesisController) deepDive(query string, rec domain.Record, profile domain.Profile) {
	start := c.now()
	patch, err := c.client.DeepDive(c.ctx, query, rec, profile)
	took := c.now().Sub(start)

	if err != nil {
		metrics.ObserveSynthesis(metrics.StageDeepDive, metrics.OutcomeFailure, took)
		c.logger.Warn("deep dive failed", "record_id", rec.ID, "error", err)
		c.setPhase(rec.ID, query, PhaseStage2Done, err)
		c.record(c.ctx, domain.SynthesisEvent{
			Kind:     domain.EventStage2Failed,
			RecordID: rec.ID,
			Query:    query,
			Category: rec.Category,
			Error:    err.Error(),
			Duration: took,
		})
		return
	}

	copies := 0
	if c.handler != nil {
		copies = c.handler.ApplyEnrichment(domain.Enrichment{RecordID: rec.ID, Patch: patch})
	}
	c.setPhase(rec.ID, query, PhaseStage2Done, nil)

	metrics.ObserveSynthesis(metrics.StageDeepDive, metrics.OutcomeSuccess, took)
	metrics.ObserveEnrichment(copies)
	c.logger.Info("deep dive merged", "record_id", rec.ID, "copies", copies, "took", took)
	c.record(c.ctx, domain.SynthesisEvent{
		Kind:     domain.EventStage2Succeeded,
		RecordID: rec.ID,
		Query:    query,
		Category: rec.Category,
		Duration: took,
	})
}

func (c *SynthesisController) markSubmission(pending, failed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = pending
	c.failed = failed
}

func (c *SynthesisController) setPhase(id, query string, phase Phase, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	job, ok := c.jobs[id]
	if !ok {
		job = &synthesisJob{query: query}
		c.jobs[id] = job
	}
	job.phase = phase
	job.err = err
}

func (c *SynthesisController) record(ctx context.Context, event domain.SynthesisEvent) {
	if c.sink == nil {
		return
	}
	event.OccurredAt = c.now()
	if err := c.sink.Record(context.WithoutCancel(ctx), event); err != nil {
		c.logger.Debug("journal write failed", "kind", event.Kind, "error", err)
	}
}
