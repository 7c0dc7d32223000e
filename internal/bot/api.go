package bot

import (
	"dhihaei/internal/domain"
)

// Turn describes one decision point for a trick brain: the seat's hand, the
// legal subset of it, and the table state the choice may depend on.
type Turn struct {
	Seat  int
	Hand  []domain.Card
	Valid []domain.Card
	Trick *domain.Trick
	Trump domain.Suit
}

// LedSuit returns the suit led to the current trick, or SuitNone when the
// seat is leading.
func (t Turn) LedSuit() domain.Suit {
	if t.Trick == nil {
		return domain.SuitNone
	}
	return t.Trick.LedSuit()
}

// ActsLast reports whether the seat plays the final card of the trick.
func (t Turn) ActsLast() bool {
	return t.Trick != nil && len(t.Trick.Plays) == 3
}

// PartnerWinning reports whether the seat's partner holds the trick as it
// stands.
func (t Turn) PartnerWinning() bool {
	if t.Trick == nil || len(t.Trick.Plays) == 0 {
		return false
	}
	best := t.Trick.Resolve(t.Trump)
	return best.Seat == domain.PartnerSeat(t.Seat)
}

// Brain is the interface all trick strategies implement.
type Brain interface {
	// ChooseCard picks one of turn.Valid.
	ChooseCard(turn Turn) (domain.Card, error)
	// ObserveRoundStart announces a fresh deal and the brain's own hand.
	ObserveRoundStart(hand []domain.Card)
	// ObservePlay feeds every play at the table, the brain's own included.
	ObservePlay(seat int, card domain.Card, ledSuit domain.Suit)
}
