package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"TopicBridge/internal/analytics"
	"TopicBridge/internal/domain"
	"TopicBridge/internal/engagement"
	"TopicBridge/internal/metrics"
	"TopicBridge/internal/store"
	"TopicBridge/internal/usecase"
)

// ErrUnknownRecord is returned when an ID is held by no container of the session.
var ErrUnknownRecord = errors.New("unknown record")

// Session owns all mutable state of one reader session. Every exported method
// is one atomic update, so stage-2 merges and poller ticks never interleave.
type Session struct {
	mu        sync.Mutex
	profile   domain.Profile
	view      domain.View
	active    activeSlot
	tracker   *engagement.Tracker
	store     *store.Store
	updates   domain.UpdateState
	searchErr string
	engine    *analytics.Engine
}

var (
	_ usecase.Workspace         = (*Session)(nil)
	_ usecase.EnrichmentHandler = (*Session)(nil)
	_ usecase.UpdateState       = (*Session)(nil)
)

// Options configures a new session.
type Options struct {
	Profile domain.Profile
	Topics  []domain.Record
	Engine  *analytics.Engine
	Now     time.Time
}

// New starts a session on the home view with the given seed topics.
func New(opts Options) *Session {
	engine := opts.Engine
	if engine == nil {
		engine = analytics.NewEngine(opts.Topics, nil)
	}
	return &Session{
		profile: opts.Profile,
		view:    domain.ViewHome,
		tracker: engagement.NewTracker(opts.Profile.Incentives.TotalOutsideCocoonReads),
		store:   store.New(opts.Topics),
		updates: domain.UpdateState{LastSynced: opts.Now},
		engine:  engine,
	}
}

// State is a read-only snapshot for presentation layers.
type State struct {
	View        domain.View        `json:"view"`
	Active      *domain.Record     `json:"active,omitempty"`
	ActiveIsFav bool               `json:"activeIsFavorite"`
	SearchError string             `json:"searchError,omitempty"`
	Updates     domain.UpdateState `json:"updates"`
	Reads       int                `json:"reads"`
	Favorites   int                `json:"favorites"`
	Profile     domain.Profile     `json:"profile"`
}

// Snapshot copies the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := State{
		View:        s.view,
		SearchError: s.searchErr,
		Updates:     s.updates,
		Reads:       len(s.tracker.History()),
		Favorites:   len(s.tracker.Favorites()),
		Profile:     s.profileLocked(),
	}
	if s.active.rec != nil {
		rec := *s.active.rec
		state.Active = &rec
		state.ActiveIsFav = s.tracker.IsFavorite(rec.ID)
	}
	return state
}

// Profile returns the profile with live incentive counters.
func (s *Session) Profile() domain.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profileLocked()
}

// UpdateProfile replaces the editable profile fields; incentive counters are owned by the session.
func (s *Session) UpdateProfile(p domain.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.Incentives = s.profile.Incentives
	s.profile = p
}

// UpgradeMembership switches the profile to the Pro tier.
func (s *Session) UpgradeMembership() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile.Membership = domain.MembershipPro
}

// BeginSearch implements usecase.Workspace.
func (s *Session) BeginSearch() domain.View {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.view
	s.view = domain.ViewSearching
	s.searchErr = ""
	return previous
}

// CompleteSearch implements usecase.Workspace.
func (s *Session) CompleteSearch(rec domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Add(rec); err != nil {
		return fmt.Errorf("store summary: %w", err)
	}
	s.tracker.RecordView(rec)
	s.active.set(rec)
	s.view = domain.ViewDetail
	return nil
}

// FailSearch implements usecase.Workspace.
func (s *Session) FailSearch(previous domain.View, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.view = previous
	s.searchErr = message
}

// DismissError clears the search error banner.
func (s *Session) DismissError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchErr = ""
}

// ApplyEnrichment fans a stage-2 result out to every container holding the record.
// The active slot only accepts it while it still shows the same ID.
func (s *Session) ApplyEnrichment(ev domain.Enrichment) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	containers := []interface {
		ApplyEnrichment(domain.Enrichment) int
	}{&s.active, s.tracker, s.store}

	copies := 0
	for _, c := range containers {
		copies += c.ApplyEnrichment(ev)
	}
	return copies
}

// Open views a record from the topic list, favorites or history.
func (s *Session) Open(id string) (domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.lookupLocked(id)
	if !ok {
		return domain.Record{}, fmt.Errorf("open %s: %w", id, ErrUnknownRecord)
	}
	s.tracker.RecordView(rec)
	s.active.set(rec)
	s.view = domain.ViewDetail
	return rec, nil
}

// ToggleFavorite flips favorite membership of the record with id.
func (s *Session) ToggleFavorite(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.lookupLocked(id)
	if !ok {
		return false, fmt.Errorf("favorite %s: %w", id, ErrUnknownRecord)
	}
	return s.tracker.ToggleFavorite(rec), nil
}

// Back returns to the home view and clears the active record.
func (s *Session) Back() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.view = domain.ViewHome
	s.active.clear()
}

// ShowProfile switches to the profile view.
func (s *Session) ShowProfile() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = domain.ViewProfile
}

// Topics lists the content store.
func (s *Session) Topics() []domain.Record {
	return s.store.List()
}

// History returns the reading log.
func (s *Session) History() []domain.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.History()
}

// Favorites returns favorited records.
func (s *Session) Favorites() []domain.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.Favorites()
}

// SearchFavorites filters favorites by title or summary.
func (s *Session) SearchFavorites(term string) []domain.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.SearchFavorites(term)
}

// Report recomputes the cocoon report from the current history and favorites.
func (s *Session) Report() domain.Report {
	s.mu.Lock()
	history := s.tracker.History()
	favorites := s.tracker.Favorites()
	s.mu.Unlock()

	metrics.IncReport()
	return s.engine.Generate(history, favorites)
}

// IncentiveProgress reports progress toward the free Pro upgrade.
func (s *Session) IncentiveProgress() []domain.GoalProgress {
	return domain.IncentiveProgress(s.Profile().Incentives)
}

// MarkPending implements usecase.UpdateState.
func (s *Session) MarkPending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.updates.Pending++
	return s.updates.Pending
}

// BeginRefresh implements usecase.UpdateState.
func (s *Session) BeginRefresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates.Refreshing = true
}

// CompleteRefresh implements usecase.UpdateState.
func (s *Session) CompleteRefresh(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.updates.Pending = 0
	s.updates.LastSynced = at
	s.updates.Refreshing = false
}

func (s *Session) profileLocked() domain.Profile {
	p := s.profile
	p.Incentives.TotalOutsideCocoonReads = s.tracker.OutsideCocoonReads()
	return p
}

func (s *Session) lookupLocked(id string) (domain.Record, bool) {
	if s.active.rec != nil && s.active.rec.ID == id {
		return *s.active.rec, true
	}
	if rec, ok := s.tracker.Favorite(id); ok {
		return rec, true
	}
	if rec, err := s.store.Get(id); err == nil {
		return rec, true
	}
	return s.tracker.LastViewed(id)
}

// activeSlot holds the record currently on screen.
type activeSlot struct {
	rec *domain.Record
}

func (a *activeSlot) set(rec domain.Record) {
	a.rec = &rec
}

func (a *activeSlot) clear() {
	a.rec = nil
}

func (a *activeSlot) ApplyEnrichment(ev domain.Enrichment) int {
	if a.rec == nil {
		return 0
	}
	merged, ok := ev.Apply(*a.rec)
	if !ok {
		return 0
	}
	a.rec = &merged
	return 1
}
