package feed

import (
	"context"
	"math/rand/v2"

	"TopicBridge/internal/ports"
)

// DefaultChance is the probability that a simulated check finds new content.
const DefaultChance = 0.7

// ChanceProbe simulates a feed: each check reports new content with a fixed probability.
type ChanceProbe struct {
	chance float64
	roll   func() float64
}

var _ ports.FeedProbe = (*ChanceProbe)(nil)

// NewChanceProbe builds a probe; roll defaults to rand.Float64 and a chance
// outside (0, 1] falls back to DefaultChance.
func NewChanceProbe(chance float64, roll func() float64) *ChanceProbe {
	if chance <= 0 || chance > 1 {
		chance = DefaultChance
	}
	if roll == nil {
		roll = rand.Float64
	}
	return &ChanceProbe{chance: chance, roll: roll}
}

// HasNewContent never fails.
func (p *ChanceProbe) HasNewContent(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return p.roll() < p.chance, nil
}
