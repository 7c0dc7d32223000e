package brain

import (
	"dhihaei/internal/domain"
)

// CardStatus represents what the bot knows about a specific card.
type CardStatus int

const (
	StatusUnknown CardStatus = iota // Still hidden in someone else's hand
	StatusMine                      // In the bot's own hand
	StatusPlayed                    // Already played into a trick this round
)

// GameMemory stores the bot's private view of one round. It is rebuilt from
// scratch every deal.
type GameMemory struct {
	// DeckStatus tracks all 52 cards. Index = (suit-1)*13 + rank-2.
	DeckStatus [52]CardStatus
	// Voids records which suits each seat has failed to follow.
	Voids [4][5]bool
}

// NewMemory initializes a fresh memory state.
func NewMemory() *GameMemory {
	return &GameMemory{}
}

// Reset clears the memory for a new round.
func (m *GameMemory) Reset() {
	for i := range m.DeckStatus {
		m.DeckStatus[i] = StatusUnknown
	}
	for seat := range m.Voids {
		for suit := range m.Voids[seat] {
			m.Voids[seat][suit] = false
		}
	}
}

// MarkMine records the cards currently in the bot's hand.
func (m *GameMemory) MarkMine(cards []domain.Card) {
	for _, c := range cards {
		m.DeckStatus[cardToIndex(c)] = StatusMine
	}
}

// MarkPlayed records cards that have been played into tricks.
func (m *GameMemory) MarkPlayed(cards []domain.Card) {
	for _, c := range cards {
		m.DeckStatus[cardToIndex(c)] = StatusPlayed
	}
}

// RecordPlay logs one play. When the seat fails to follow the led suit it is
// marked void in that suit for the rest of the round.
func (m *GameMemory) RecordPlay(seat int, card domain.Card, ledSuit domain.Suit) {
	m.MarkPlayed([]domain.Card{card})
	if ledSuit != domain.SuitNone && card.Suit != ledSuit {
		m.Voids[seat][ledSuit] = true
	}
}

// IsPlayed reports whether the card has already hit the table this round.
func (m *GameMemory) IsPlayed(c domain.Card) bool {
	return m.DeckStatus[cardToIndex(c)] == StatusPlayed
}

// IsMine reports whether the bot holds the card.
func (m *GameMemory) IsMine(c domain.Card) bool {
	return m.DeckStatus[cardToIndex(c)] == StatusMine
}

// HasShownVoid reports whether the seat has revealed it is out of the suit.
func (m *GameMemory) HasShownVoid(seat int, suit domain.Suit) bool {
	if suit == domain.SuitNone {
		return false
	}
	return m.Voids[seat][suit]
}

// IsBoss reports whether no hidden card of the same suit outranks c: every
// higher card is either already played or in the bot's own hand.
func (m *GameMemory) IsBoss(c domain.Card) bool {
	for rank := c.Rank + 1; rank <= domain.RankAce; rank++ {
		idx := cardToIndex(domain.Card{Suit: c.Suit, Rank: rank})
		if m.DeckStatus[idx] == StatusUnknown {
			return false
		}
	}
	return true
}

// cardToIndex maps a card to its DeckStatus slot.
func cardToIndex(c domain.Card) int {
	return (int(c.Suit)-1)*13 + c.Rank - domain.RankTwo
}
