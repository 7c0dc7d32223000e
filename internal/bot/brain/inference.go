package brain

import (
	"dhihaei/internal/domain"
)

// Estimator answers positional questions on top of the raw memory.
type Estimator struct {
	Memory *GameMemory
}

// NewEstimator creates a new reasoning engine.
func NewEstimator(m *GameMemory) *Estimator {
	return &Estimator{Memory: m}
}

// BossCards returns the cards in hand that no hidden card can currently beat
// within their own suit.
func (e *Estimator) BossCards(hand []domain.Card) []domain.Card {
	var boss []domain.Card
	for _, c := range hand {
		if e.Memory.IsBoss(c) {
			boss = append(boss, c)
		}
	}
	return boss
}

// HiddenCount returns how many cards of the suit are still unaccounted for.
func (e *Estimator) HiddenCount(suit domain.Suit) int {
	count := 0
	for rank := domain.RankTwo; rank <= domain.RankAce; rank++ {
		if e.Memory.DeckStatus[cardToIndex(domain.Card{Suit: suit, Rank: rank})] == StatusUnknown {
			count++
		}
	}
	return count
}

// HighestHidden returns the top outstanding rank of the suit, if any.
func (e *Estimator) HighestHidden(suit domain.Suit) (int, bool) {
	for rank := domain.RankAce; rank >= domain.RankTwo; rank-- {
		if e.Memory.DeckStatus[cardToIndex(domain.Card{Suit: suit, Rank: rank})] == StatusUnknown {
			return rank, true
		}
	}
	return 0, false
}

// OpponentsVoid reports whether both seats opposing the given seat have
// shown themselves out of the suit.
func (e *Estimator) OpponentsVoid(seat int, suit domain.Suit) bool {
	left := (seat + 1) % 4
	right := (seat + 3) % 4
	return e.Memory.HasShownVoid(left, suit) && e.Memory.HasShownVoid(right, suit)
}
