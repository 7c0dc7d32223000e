package bot

import (
	"testing"

	"dhihaei/internal/digu"
	"dhihaei/internal/domain"
)

func TestGreedyDiguChooseDraw(t *testing.T) {
	g := &GreedyDigu{}
	hand := []domain.Card{
		mk(domain.Spades, 7), mk(domain.Hearts, 7),
		mk(domain.Clubs, 2), mk(domain.Diamonds, 9),
	}

	// The seven completes a set, so the visible card is worth taking.
	turn := DiguTurn{Hand: hand, DiscardTop: mk(domain.Diamonds, 7), HasDiscard: true, StockCount: 5}
	if got := g.ChooseDraw(turn); got != DrawDiscard {
		t.Errorf("expected DrawDiscard for a meld-completing card, got %v", got)
	}

	turn.DiscardTop = mk(domain.Spades, domain.RankKing)
	if got := g.ChooseDraw(turn); got != DrawStock {
		t.Errorf("expected DrawStock for a useless card, got %v", got)
	}

	turn.HasDiscard = false
	if got := g.ChooseDraw(turn); got != DrawStock {
		t.Errorf("expected DrawStock with an empty discard pile, got %v", got)
	}
}

func TestGreedyDiguArrangeDeclares(t *testing.T) {
	g := &GreedyDigu{}

	// Eleven scrambled cards hiding a winning ten plus one leftover.
	hand := []domain.Card{
		mk(domain.Clubs, 2), mk(domain.Spades, 7), mk(domain.Diamonds, domain.RankQueen),
		mk(domain.Hearts, 7), mk(domain.Clubs, 3), mk(domain.Diamonds, domain.RankKing),
		mk(domain.Diamonds, 7), mk(domain.Clubs, 4), mk(domain.Spades, 9),
		mk(domain.Clubs, 7), mk(domain.Diamonds, domain.RankAce),
	}

	arranged, declare := g.Arrange(hand)
	if !declare {
		t.Fatalf("expected a declarable arrangement")
	}
	if len(arranged) != len(hand) {
		t.Fatalf("arranged hand has %d cards, want %d", len(arranged), len(hand))
	}
	if _, ok := digu.FindWinningPartition(arranged); !ok {
		t.Errorf("the arranged first ten must partition: %v", arranged)
	}
	if arranged[10] != mk(domain.Spades, 9) {
		t.Errorf("the leftover nine of spades should sit last, got %v", arranged[10])
	}
}

func TestGreedyDiguArrangeKeepsMeldsFirst(t *testing.T) {
	g := &GreedyDigu{}
	hand := []domain.Card{
		mk(domain.Spades, 7), mk(domain.Clubs, 2), mk(domain.Hearts, 7),
		mk(domain.Diamonds, domain.RankKing), mk(domain.Diamonds, 7),
		mk(domain.Spades, 2), mk(domain.Hearts, domain.RankJack),
		mk(domain.Clubs, 9), mk(domain.Diamonds, 4), mk(domain.Spades, domain.RankQueen),
	}

	arranged, declare := g.Arrange(hand)
	if declare {
		t.Fatalf("this hand must not declare")
	}
	if !digu.IsValidMeld(arranged[:3]) {
		t.Errorf("expected the seven set leading the arrangement, got %v", arranged[:3])
	}
}

func TestGreedyDiguChooseDiscard(t *testing.T) {
	g := &GreedyDigu{}

	// The king serves no meld and costs the most.
	hand := []domain.Card{
		mk(domain.Spades, 7), mk(domain.Hearts, 7), mk(domain.Diamonds, 7),
		mk(domain.Diamonds, domain.RankKing), mk(domain.Clubs, 3),
	}
	if got := g.ChooseDiscard(hand); got != mk(domain.Diamonds, domain.RankKing) {
		t.Errorf("expected the dead king discarded, got %v", got)
	}

	// Everything melds: give up the cheapest card instead.
	locked := []domain.Card{
		mk(domain.Spades, 7), mk(domain.Hearts, 7), mk(domain.Diamonds, 7),
		mk(domain.Clubs, 5), mk(domain.Clubs, 6), mk(domain.Clubs, 7),
	}
	if got := g.ChooseDiscard(locked); got != mk(domain.Clubs, 5) {
		t.Errorf("expected the cheapest locked card, got %v", got)
	}
}

func TestFactoryLevels(t *testing.T) {
	if _, err := NewBrain(BotLevelBasic); err != nil {
		t.Fatalf("basic brain: %v", err)
	}
	smart, err := NewBrain(BotLevelSmart)
	if err != nil {
		t.Fatalf("smart brain: %v", err)
	}
	if _, ok := smart.(*SmartBot); !ok {
		t.Errorf("smart level should build a SmartBot")
	}
	if _, err := NewBrain(BotLevel(99)); err == nil {
		t.Errorf("unknown level should fail")
	}

	if _, err := NewDiguBrain(BotLevelSmart); err != nil {
		t.Fatalf("digu brain: %v", err)
	}

	level, err := ParseBotLevel("smart")
	if err != nil || level != BotLevelSmart {
		t.Errorf("ParseBotLevel(smart) = %v, %v", level, err)
	}
	if _, err := ParseBotLevel("expert"); err == nil {
		t.Errorf("unknown level string should fail")
	}
}
