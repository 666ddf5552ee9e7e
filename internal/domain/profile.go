package domain

// MembershipTier gates expert-mode deep dives and trend briefings.
type MembershipTier string

const (
	MembershipFree MembershipTier = "Free"
	MembershipPro  MembershipTier = "Pro"
)

// Profile is passed through to the generation backend; the core only reads Incentives.
type Profile struct {
	Age        string         `json:"age,omitempty" yaml:"age"`
	Occupation string         `json:"occupation,omitempty" yaml:"occupation"`
	Education  string         `json:"education,omitempty" yaml:"education"`
	Language   string         `json:"language" yaml:"language"`
	Membership MembershipTier `json:"membership" yaml:"membership"`
	Incentives Incentives     `json:"incentives" yaml:"incentives"`
}

// Personalized reports whether any demographic field was filled in.
func (p Profile) Personalized() bool {
	return p.Age != "" || p.Occupation != "" || p.Education != ""
}

// Incentives counts the actions that unlock a free Pro upgrade.
type Incentives struct {
	CurrentStreak           int `json:"currentStreak" yaml:"currentStreak"`
	TotalOutsideCocoonReads int `json:"totalOutsideCocoonReads" yaml:"totalOutsideCocoonReads"`
	ErrorsCorrected         int `json:"errorsCorrected" yaml:"errorsCorrected"`
	SuggestionsAdopted      int `json:"suggestionsAdopted" yaml:"suggestionsAdopted"`
	Referrals               int `json:"referrals" yaml:"referrals"`
}

// IncentiveGoal is a target for one incentive counter.
type IncentiveGoal struct {
	Name   string
	Target int
}

// IncentiveGoals are the thresholds shown on the membership page.
var IncentiveGoals = []IncentiveGoal{
	{Name: "streak", Target: 7},
	{Name: "reads", Target: 20},
	{Name: "errors", Target: 1},
	{Name: "suggestions", Target: 1},
	{Name: "referrals", Target: 3},
}

// GoalProgress is the progress of a single incentive goal.
type GoalProgress struct {
	Name     string `json:"name"`
	Current  int    `json:"current"`
	Target   int    `json:"target"`
	Percent  int    `json:"percent"`
	Complete bool   `json:"complete"`
}

// IncentiveProgress maps the counters onto IncentiveGoals.
func IncentiveProgress(in Incentives) []GoalProgress {
	current := map[string]int{
		"streak":      in.CurrentStreak,
		"reads":       in.TotalOutsideCocoonReads,
		"errors":      in.ErrorsCorrected,
		"suggestions": in.SuggestionsAdopted,
		"referrals":   in.Referrals,
	}

	progress := make([]GoalProgress, 0, len(IncentiveGoals))
	for _, goal := range IncentiveGoals {
		value := current[goal.Name]
		percent := 100
		if goal.Target > 0 {
			percent = min(100, value*100/goal.Target)
		}
		progress = append(progress, GoalProgress{
			Name:     goal.Name,
			Current:  value,
			Target:   goal.Target,
			Percent:  percent,
			Complete: value >= goal.Target,
		})
	}
	return progress
}
