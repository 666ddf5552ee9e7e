package engagement

import (
	"strings"

	"TopicBridge/internal/domain"
)

// Tracker keeps the reading log and the favorites set for one session.
// It is not safe for concurrent use; the owning session serializes access.
type Tracker struct {
	history       []domain.Record
	favorites     []domain.Record
	outsideCocoon int
}

// NewTracker starts a tracker with a carried-over outside-cocoon count.
func NewTracker(outsideCocoonReads int) *Tracker {
	return &Tracker{outsideCocoon: outsideCocoonReads}
}

// RecordView appends rec to the history unconditionally.
// Reports whether the view counted as an outside-cocoon read.
func (t *Tracker) RecordView(rec domain.Record) bool {
	t.history = append(t.history, rec)

	if rec.IsInternational || (rec.Category != "" && rec.Category != domain.HomeCategory) {
		t.outsideCocoon++
		return true
	}
	return false
}

// ToggleFavorite removes rec from favorites when present, adds it otherwise.
// Returns whether rec is a favorite afterwards.
func (t *Tracker) ToggleFavorite(rec domain.Record) bool {
	for i, fav := range t.favorites {
		if fav.ID == rec.ID {
			t.favorites = append(t.favorites[:i:i], t.favorites[i+1:]...)
			return false
		}
	}
	t.favorites = append(t.favorites, rec)
	return true
}

// IsFavorite reports whether a record with id is favorited.
func (t *Tracker) IsFavorite(id string) bool {
	_, ok := t.Favorite(id)
	return ok
}

// Favorite returns the favorited copy of id.
func (t *Tracker) Favorite(id string) (domain.Record, bool) {
	for _, fav := range t.favorites {
		if fav.ID == id {
			return fav, true
		}
	}
	return domain.Record{}, false
}

// LastViewed returns the most recent history copy of id.
func (t *Tracker) LastViewed(id string) (domain.Record, bool) {
	for i := len(t.history) - 1; i >= 0; i-- {
		if t.history[i].ID == id {
			return t.history[i], true
		}
	}
	return domain.Record{}, false
}

// History returns the reading log in chronological order.
func (t *Tracker) History() []domain.Record {
	out := make([]domain.Record, len(t.history))
	copy(out, t.history)
	return out
}

// Favorites returns favorites in insertion order.
func (t *Tracker) Favorites() []domain.Record {
	out := make([]domain.Record, len(t.favorites))
	copy(out, t.favorites)
	return out
}

// OutsideCocoonReads is the incentive counter of views outside the home bubble.
func (t *Tracker) OutsideCocoonReads() int {
	return t.outsideCocoon
}

// SearchFavorites filters favorites by a case-insensitive title or summary match.
func (t *Tracker) SearchFavorites(term string) []domain.Record {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return t.Favorites()
	}

	var out []domain.Record
	for _, fav := range t.favorites {
		if strings.Contains(strings.ToLower(fav.Title), needle) ||
			strings.Contains(strings.ToLower(fav.Summary), needle) {
			out = append(out, fav)
		}
	}
	return out
}

// ApplyEnrichment merges stage-2 output into every history entry and the favorites entry with the same ID.
// Returns the number of copies updated.
func (t *Tracker) ApplyEnrichment(ev domain.Enrichment) int {
	updated := 0
	for i := range t.history {
		if merged, ok := ev.Apply(t.history[i]); ok {
			t.history[i] = merged
			updated++
		}
	}
	for i := range t.favorites {
		if merged, ok := ev.Apply(t.favorites[i]); ok {
			t.favorites[i] = merged
			updated++
		}
	}
	return updated
}
