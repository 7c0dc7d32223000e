package bot

import (
	"dhihaei/internal/digu"
	"dhihaei/internal/domain"
)

// DrawSource selects where a digu turn draws from.
type DrawSource int

const (
	DrawStock DrawSource = iota
	DrawDiscard
)

// DiguTurn describes the table as a seat sees it before drawing.
type DiguTurn struct {
	Hand       []domain.Card
	DiscardTop domain.Card
	HasDiscard bool
	StockCount int
}

// DiguBrain drives one seat of the rummy game.
type DiguBrain interface {
	// ChooseDraw picks the draw source for the turn.
	ChooseDraw(turn DiguTurn) DrawSource
	// Arrange reorders the post-draw hand, melds first, and reports
	// whether the layout declares.
	Arrange(hand []domain.Card) ([]domain.Card, bool)
	// ChooseDiscard picks the card to shed from the arranged hand.
	ChooseDiscard(hand []domain.Card) domain.Card
}

// GreedyDigu chases melds: it takes the visible discard whenever that card
// joins any possible meld, keeps the hand arranged toward its best cover,
// and declares the moment ten cards partition.
type GreedyDigu struct{}

func (g *GreedyDigu) ChooseDraw(turn DiguTurn) DrawSource {
	if !turn.HasDiscard {
		return DrawStock
	}
	with := append(append([]domain.Card{}, turn.Hand...), turn.DiscardTop)
	for _, meld := range digu.FindAllPossibleMelds(with) {
		if domain.IndexOfCard(meld, turn.DiscardTop) >= 0 {
			return DrawDiscard
		}
	}
	return DrawStock
}

func (g *GreedyDigu) Arrange(hand []domain.Card) ([]domain.Card, bool) {
	if len(hand) <= digu.HandSize {
		if win, ok := digu.ArrangeWinning(hand); ok {
			return win, true
		}
		return digu.ArrangeBest(hand), false
	}
	// Eleven cards: try each card as the leftover and win on the rest. The
	// leftover goes last so the declaration sheds it automatically.
	for drop := len(hand) - 1; drop >= 0; drop-- {
		rest := make([]domain.Card, 0, len(hand)-1)
		rest = append(rest, hand[:drop]...)
		rest = append(rest, hand[drop+1:]...)
		if win, ok := digu.ArrangeWinning(rest); ok {
			return append(win, hand[drop]), true
		}
	}
	return digu.ArrangeBest(hand), false
}

func (g *GreedyDigu) ChooseDiscard(hand []domain.Card) domain.Card {
	inMeld := make(map[domain.Card]bool)
	for _, meld := range digu.FindAllPossibleMelds(hand) {
		for _, c := range meld {
			inMeld[c] = true
		}
	}
	var deadwood []domain.Card
	for _, c := range hand {
		if !inMeld[c] {
			deadwood = append(deadwood, c)
		}
	}
	if len(deadwood) == 0 {
		// Everything serves a meld; give up the cheapest card.
		best := hand[0]
		for _, c := range hand[1:] {
			if digu.CardValue(c) < digu.CardValue(best) {
				best = c
			}
		}
		return best
	}
	// Shed the most expensive card that serves no meld.
	best := deadwood[0]
	for _, c := range deadwood[1:] {
		if digu.CardValue(c) > digu.CardValue(best) {
			best = c
		}
	}
	return best
}
