package bot

import (
	"testing"

	"dhihaei/internal/domain"
)

func TestSmartLeadsBossTrumpBelowThreshold(t *testing.T) {
	b := NewSmartBot()
	hand := []domain.Card{mk(domain.Hearts, 9), mk(domain.Clubs, 4), mk(domain.Clubs, 6)}
	b.ObserveRoundStart(hand)

	// Every heart above the nine has been seen, so the nine is boss.
	for rank := domain.RankTen; rank <= domain.RankAce; rank++ {
		b.ObservePlay(1, mk(domain.Hearts, rank), domain.Hearts)
	}

	turn := Turn{Seat: 0, Hand: hand, Valid: hand, Trump: domain.Hearts}
	if got := choose(t, b, turn); got != mk(domain.Hearts, 9) {
		t.Errorf("expected the boss trump lead, got %v", got)
	}
}

func TestSmartWithoutMemoryKeepsWeakTrump(t *testing.T) {
	b := NewSmartBot()
	hand := []domain.Card{mk(domain.Hearts, 9), mk(domain.Clubs, 4), mk(domain.Clubs, 6)}
	b.ObserveRoundStart(hand)

	turn := Turn{Seat: 0, Hand: hand, Valid: hand, Trump: domain.Hearts}
	if got := choose(t, b, turn); got != mk(domain.Clubs, 4) {
		t.Errorf("expected the low club lead while the trump nine is beatable, got %v", got)
	}
}

func TestSmartLeadsIntoOpponentVoids(t *testing.T) {
	b := NewSmartBot()
	hand := []domain.Card{
		mk(domain.Diamonds, 4), mk(domain.Diamonds, 9),
		mk(domain.Clubs, 6), mk(domain.Spades, 2),
	}
	b.ObserveRoundStart(hand)

	// Both opponents of seat 0 failed to follow diamonds; partner followed.
	b.ObservePlay(2, mk(domain.Diamonds, 3), domain.Diamonds)
	b.ObservePlay(1, mk(domain.Hearts, 5), domain.Diamonds)
	b.ObservePlay(3, mk(domain.Clubs, 8), domain.Diamonds)

	turn := Turn{Seat: 0, Hand: hand, Valid: hand}
	if got := choose(t, b, turn); got != mk(domain.Diamonds, 4) {
		t.Errorf("expected the lead into the opponents' void, got %v", got)
	}
}

func TestSmartVoidLeadSkippedWhenPartnerVoidToo(t *testing.T) {
	b := NewSmartBot()
	hand := []domain.Card{
		mk(domain.Diamonds, 4), mk(domain.Diamonds, 9),
		mk(domain.Clubs, 6), mk(domain.Spades, 2),
	}
	b.ObserveRoundStart(hand)

	b.ObservePlay(1, mk(domain.Hearts, 5), domain.Diamonds)
	b.ObservePlay(3, mk(domain.Clubs, 8), domain.Diamonds)
	b.ObservePlay(2, mk(domain.Spades, 7), domain.Diamonds)

	turn := Turn{Seat: 0, Hand: hand, Valid: hand}
	if got := choose(t, b, turn); got != mk(domain.Spades, 2) {
		t.Errorf("expected the plain low lead, got %v", got)
	}
}

func TestSmartTieBreaksTowardShorterSuit(t *testing.T) {
	b := NewSmartBot()
	hand := []domain.Card{mk(domain.Clubs, 2), mk(domain.Diamonds, 2), mk(domain.Diamonds, 7)}
	b.ObserveRoundStart(hand)

	turn := Turn{Seat: 0, Hand: hand, Valid: hand}
	if got := choose(t, b, turn); got != mk(domain.Clubs, 2) {
		t.Errorf("expected the short-suit club, got %v", got)
	}
}

func TestSmartMemoryResetsBetweenRounds(t *testing.T) {
	b := NewSmartBot()
	hand := []domain.Card{mk(domain.Diamonds, 4), mk(domain.Spades, 2), mk(domain.Spades, 6)}
	b.ObserveRoundStart(hand)
	b.ObservePlay(1, mk(domain.Hearts, 5), domain.Diamonds)
	b.ObservePlay(3, mk(domain.Clubs, 8), domain.Diamonds)

	if !b.Memory.HasShownVoid(1, domain.Diamonds) {
		t.Fatalf("void should be recorded")
	}

	b.ObserveRoundStart(hand)
	if b.Memory.HasShownVoid(1, domain.Diamonds) {
		t.Errorf("voids must not survive into a new round")
	}
	if !b.Memory.IsMine(mk(domain.Spades, 2)) {
		t.Errorf("the new hand should be marked mine")
	}
}
