package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeepDiveMergeIsShallow(t *testing.T) {
	t.Parallel()

	rating := 3
	base := DeepDive{
		PerspectiveSummary: "base",
		Terms:              []Term{{Term: "old"}},
		DivergenceRating:   &rating,
	}
	patch := DeepDive{
		Terms:        []Term{{Term: "new"}, {Term: "newer"}},
		Stakeholders: []Stakeholder{{ID: "s1"}},
	}

	merged := base.Merge(patch)
	assert.Equal(t, "base", merged.PerspectiveSummary)
	assert.Equal(t, []Term{{Term: "new"}, {Term: "newer"}}, merged.Terms)
	assert.Equal(t, []Stakeholder{{ID: "s1"}}, merged.Stakeholders)
	assert.Equal(t, 3, *merged.DivergenceRating)
	assert.Equal(t, []Term{{Term: "old"}}, base.Terms, "receiver must not change")
}

func TestEnrichmentApplyMatchesByID(t *testing.T) {
	t.Parallel()

	ev := Enrichment{RecordID: "a", Patch: DeepDive{PerspectiveSummary: "enriched"}}

	rec, ok := ev.Apply(Record{ID: "a", Title: "A"})
	assert.True(t, ok)
	assert.Equal(t, "enriched", rec.PerspectiveSummary)
	assert.Equal(t, "A", rec.Title)

	other, ok := ev.Apply(Record{ID: "b"})
	assert.False(t, ok)
	assert.True(t, other.DeepDive.Empty())
}

func TestCategoryScored(t *testing.T) {
	t.Parallel()

	for _, c := range AllCategories {
		assert.True(t, c.Scored(), c)
	}
	assert.False(t, Category("Culture").Scored())
	assert.False(t, Category("").Scored())
}

func TestIncentiveProgress(t *testing.T) {
	t.Parallel()

	progress := IncentiveProgress(Incentives{CurrentStreak: 2, TotalOutsideCocoonReads: 25, Referrals: 1})
	byName := map[string]GoalProgress{}
	for _, p := range progress {
		byName[p.Name] = p
	}

	assert.Equal(t, 28, byName["streak"].Percent)
	assert.False(t, byName["streak"].Complete)
	assert.Equal(t, 100, byName["reads"].Percent)
	assert.True(t, byName["reads"].Complete)
	assert.Equal(t, 33, byName["referrals"].Percent)
	assert.Equal(t, 0, byName["errors"].Percent)
}

func TestDiversityLevelRank(t *testing.T) {
	t.Parallel()

	assert.Less(t, DiversityEchoChamber.Rank(), DiversityFilterBubble.Rank())
	assert.Less(t, DiversityFilterBubble.Rank(), DiversityExplorer.Rank())
	assert.Less(t, DiversityExplorer.Rank(), DiversityBridgeBuilder.Rank())
}
