package engagement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TopicBridge/internal/domain"
)

func TestRecordViewAppendsDuplicates(t *testing.T) {
	t.Parallel()

	tr := NewTracker(0)
	rec := domain.Record{ID: "a", Category: domain.CategoryTech}
	tr.RecordView(rec)
	tr.RecordView(rec)

	history := tr.History()
	require.Len(t, history, 2)
	assert.Equal(t, "a", history[0].ID)
	assert.Equal(t, "a", history[1].ID)
}

func TestRecordViewOutsideCocoonCounter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		rec     domain.Record
		outside bool
	}{
		{name: "home category", rec: domain.Record{ID: "1", Category: domain.CategoryTech}},
		{name: "uncategorized", rec: domain.Record{ID: "2"}},
		{name: "home but international", rec: domain.Record{ID: "3", Category: domain.CategoryTech, IsInternational: true}, outside: true},
		{name: "other category", rec: domain.Record{ID: "4", Category: domain.CategoryPolicy}, outside: true},
		{name: "unscored category", rec: domain.Record{ID: "5", Category: "Culture"}, outside: true},
		{name: "uncategorized international", rec: domain.Record{ID: "6", IsInternational: true}, outside: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tr := NewTracker(5)
			assert.Equal(t, tt.outside, tr.RecordView(tt.rec))

			want := 5
			if tt.outside {
				want = 6
			}
			assert.Equal(t, want, tr.OutsideCocoonReads())
			assert.Len(t, tr.History(), 1)
		})
	}
}

func TestToggleFavoriteTwiceRestoresMembership(t *testing.T) {
	t.Parallel()

	tr := NewTracker(0)
	a := domain.Record{ID: "a", Title: "A"}
	b := domain.Record{ID: "b", Title: "B"}
	tr.ToggleFavorite(a)

	assert.True(t, tr.ToggleFavorite(b))
	assert.True(t, tr.IsFavorite("b"))
	assert.False(t, tr.ToggleFavorite(b))
	assert.False(t, tr.IsFavorite("b"))

	favs := tr.Favorites()
	require.Len(t, favs, 1)
	assert.Equal(t, "a", favs[0].ID)
}

func TestToggleFavoriteMatchesByID(t *testing.T) {
	t.Parallel()

	tr := NewTracker(0)
	tr.ToggleFavorite(domain.Record{ID: "a", Title: "before"})
	assert.False(t, tr.ToggleFavorite(domain.Record{ID: "a", Title: "after enrichment"}))
	assert.Empty(t, tr.Favorites())
}

func TestApplyEnrichmentUpdatesAllCopies(t *testing.T) {
	t.Parallel()

	tr := NewTracker(0)
	a := domain.Record{ID: "a", Title: "A"}
	b := domain.Record{ID: "b", Title: "B"}
	tr.RecordView(a)
	tr.RecordView(b)
	tr.RecordView(a)
	tr.ToggleFavorite(a)

	updated := tr.ApplyEnrichment(domain.Enrichment{
		RecordID: "a",
		Patch:    domain.DeepDive{PerspectiveSummary: "deep"},
	})
	assert.Equal(t, 3, updated)

	history := tr.History()
	assert.Equal(t, "deep", history[0].PerspectiveSummary)
	assert.Empty(t, history[1].PerspectiveSummary)
	assert.Equal(t, "deep", history[2].PerspectiveSummary)

	fav, ok := tr.Favorite("a")
	require.True(t, ok)
	assert.Equal(t, "deep", fav.PerspectiveSummary)
}

func TestSearchFavorites(t *testing.T) {
	t.Parallel()

	tr := NewTracker(0)
	tr.ToggleFavorite(domain.Record{ID: "1", Title: "Global Minimum Tax", Summary: "15% corporate tax."})
	tr.ToggleFavorite(domain.Record{ID: "2", Title: "Lab-Grown Meat", Summary: "Cultivated meat sales."})

	assert.Len(t, tr.SearchFavorites(""), 2)
	assert.Len(t, tr.SearchFavorites("CORPORATE"), 1)
	assert.Len(t, tr.SearchFavorites("meat"), 1)
	assert.Empty(t, tr.SearchFavorites("crispr"))
}

func TestHistoryReturnsCopy(t *testing.T) {
	t.Parallel()

	tr := NewTracker(0)
	tr.RecordView(domain.Record{ID: "a"})
	h := tr.History()
	h[0].ID = "mutated"
	assert.Equal(t, "a", tr.History()[0].ID)
}
