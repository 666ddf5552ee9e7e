package analytics

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"TopicBridge/internal/domain"
)

const (
	fullMark        = 100
	baseScore       = 20
	perReadScore    = 20
	viewWeight      = 1
	favoriteWeight  = 3
	topTopicsLimit  = 3
	globalThemeSize = 3

	bridgeBuilderScore = 80
	bridgeBuilderReads = 5
	explorerScore      = 50
	filterBubbleScore  = 30
)

const (
	noHistorySummary = "You haven't built enough reading history yet."
	globalSummary    = "This month's global discourse was dominated by AI Safety Governance and Digital Sovereignty, marking a shift from economic indicators to regulatory frameworks."
)

// Picker returns an index in [0, n). It selects the recommended blind spot.
type Picker func(n int) int

// Engine turns a reading history and favorites into a Report.
// Every call recomputes from scratch; the engine holds no per-user state.
type Engine struct {
	themes []domain.Record
	pick   Picker
}

// NewEngine builds an engine; themes is the external catalog used for global themes.
// A nil picker defaults to a uniform random choice.
func NewEngine(themes []domain.Record, pick Picker) *Engine {
	if pick == nil {
		pick = rand.IntN
	}
	if len(themes) > globalThemeSize {
		themes = themes[:globalThemeSize]
	}
	snapshot := make([]domain.Record, len(themes))
	copy(snapshot, themes)
	return &Engine{themes: snapshot, pick: pick}
}

// Generate builds the full report.
func (e *Engine) Generate(history, favorites []domain.Record) domain.Report {
	counts := CountCategories(history)

	radar := make([]domain.CategoryScore, 0, len(domain.AllCategories))
	scores := make([]int, 0, len(domain.AllCategories))
	var blindSpots []domain.Category
	for _, cat := range domain.AllCategories {
		score := CategoryScore(counts[cat])
		radar = append(radar, domain.CategoryScore{Subject: cat, Score: score, FullMark: fullMark})
		scores = append(scores, score)
		if score == 0 {
			blindSpots = append(blindSpots, cat)
		}
	}

	cocoon := CocoonScore(scores)
	report := domain.Report{
		RadarData:      radar,
		TotalReads:     len(history),
		CocoonScore:    cocoon,
		BlindSpots:     blindSpots,
		DiversityLevel: Diversity(cocoon, len(history)),
		TrendInsights:  e.trendInsights(history, favorites),
	}

	if len(blindSpots) > 0 {
		pick := blindSpots[e.pick(len(blindSpots))]
		report.RecommendedTopic = &pick
	}

	return report
}

// CountCategories counts history entries per scored category; favorites never count.
func CountCategories(history []domain.Record) map[domain.Category]int {
	counts := make(map[domain.Category]int, len(domain.AllCategories))
	for _, rec := range history {
		if rec.Category.Scored() {
			counts[rec.Category]++
		}
	}
	return counts
}

// CategoryScore saturates at 100: 0 views score 0, one view 40, four or more 100.
func CategoryScore(count int) int {
	if count <= 0 {
		return 0
	}
	return min(fullMark, baseScore+perReadScore*count)
}

// CocoonScore is 100 minus the population standard deviation of scores, floored at 0.
// Uniform scores, including all zeros, yield 100.
func CocoonScore(scores []int) int {
	if len(scores) == 0 {
		return fullMark
	}

	var sum float64
	for _, s := range scores {
		sum += float64(s)
	}
	mean := sum / float64(len(scores))

	var variance float64
	for _, s := range scores {
		diff := float64(s) - mean
		variance += diff * diff
	}
	variance /= float64(len(scores))

	return max(0, int(math.Round(fullMark-math.Sqrt(variance))))
}

// Diversity maps a cocoon score to a tier; first matching rule wins.
// With zero reads a perfect score still lands in Explorer because the top tier needs more than five reads.
func Diversity(cocoonScore, totalReads int) domain.DiversityLevel {
	switch {
	case cocoonScore > bridgeBuilderScore && totalReads > bridgeBuilderReads:
		return domain.DiversityBridgeBuilder
	case cocoonScore > explorerScore:
		return domain.DiversityExplorer
	case cocoonScore > filterBubbleScore:
		return domain.DiversityFilterBubble
	default:
		return domain.DiversityEchoChamber
	}
}

// RankTopics weights each record ID by views and favorites and returns the top entries.
// Ties keep first-appearance order, history before favorites.
func RankTopics(history, favorites []domain.Record, limit int) []domain.TopicRef {
	type weighted struct {
		rec   domain.Record
		score int
	}

	index := map[string]int{}
	var ranked []weighted
	add := func(rec domain.Record, weight int) {
		i, ok := index[rec.ID]
		if !ok {
			i = len(ranked)
			index[rec.ID] = i
			ranked = append(ranked, weighted{rec: rec})
		}
		ranked[i].score += weight
	}

	for _, rec := range history {
		add(rec, viewWeight)
	}
	for _, rec := range favorites {
		add(rec, favoriteWeight)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]domain.TopicRef, 0, len(ranked))
	for _, item := range ranked {
		out = append(out, domain.TopicRef{
			Title:    item.rec.Title,
			Category: item.rec.Category,
			Score:    item.score,
		})
	}
	return out
}

// FocusSummary phrases the reader's top topics.
func FocusSummary(top []domain.TopicRef) string {
	switch len(top) {
	case 0:
		return noHistorySummary
	case 1:
		return fmt.Sprintf("You are heavily focused on the %q event in the %s sector.", top[0].Title, top[0].Category)
	default:
		return fmt.Sprintf("Your attention is centered on %q and related %s discussions, with strong interest in high-impact policy shifts.", top[0].Title, top[0].Category)
	}
}

func (e *Engine) trendInsights(history, favorites []domain.Record) domain.TrendInsight {
	themes := make([]domain.TopicRef, 0, len(e.themes))
	for _, rec := range e.themes {
		themes = append(themes, domain.TopicRef{Title: rec.Title, Category: rec.Category})
	}

	top := RankTopics(history, favorites, topTopicsLimit)
	return domain.TrendInsight{
		GlobalThemes:     themes,
		UserTopTopics:    top,
		UserFocusSummary: FocusSummary(top),
		GlobalSummary:    globalSummary,
	}
}
