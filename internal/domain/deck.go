package domain

import (
	"math/rand"
	"sort"
)

// NewDeck returns the 52 distinct cards in suit-major, rank-ascending order.
func NewDeck() []Card {
	deck := make([]Card, 0, 52)
	for _, s := range Suits {
		for r := RankTwo; r <= RankAce; r++ {
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	return deck
}

// Shuffle permutes the deck in place using an unbiased Fisher-Yates swap.
func Shuffle(rng *rand.Rand, deck []Card) {
	rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
}

// Deal shuffles a fresh deck and distributes floor(52/n) cards to each of n
// hands in round-robin order. Remainder cards are dropped.
func Deal(rng *rand.Rand, n int) [][]Card {
	deck := NewDeck()
	Shuffle(rng, deck)

	per := len(deck) / n
	hands := make([][]Card, n)
	for i := range hands {
		hands[i] = make([]Card, 0, per)
	}
	for i := 0; i < per*n; i++ {
		hands[i%n] = append(hands[i%n], deck[i])
	}
	return hands
}

// SortHand orders a hand by suit then rank for display.
func SortHand(cards []Card) {
	sort.Slice(cards, func(i, j int) bool {
		if cards[i].Suit != cards[j].Suit {
			return cards[i].Suit < cards[j].Suit
		}
		return cards[i].Rank < cards[j].Rank
	})
}

// HasSuit reports whether the hand holds at least one card of the suit.
func HasSuit(hand []Card, suit Suit) bool {
	for _, c := range hand {
		if c.Suit == suit {
			return true
		}
	}
	return false
}

// IndexOfCard returns the position of the card in the hand or -1.
func IndexOfCard(hand []Card, card Card) int {
	for i, c := range hand {
		if c == card {
			return i
		}
	}
	return -1
}

// RemoveCard removes one occurrence of the card, preserving hand order.
// The second return value is false when the card is not present.
func RemoveCard(hand []Card, card Card) ([]Card, bool) {
	i := IndexOfCard(hand, card)
	if i < 0 {
		return hand, false
	}
	out := make([]Card, 0, len(hand)-1)
	out = append(out, hand[:i]...)
	out = append(out, hand[i+1:]...)
	return out, true
}
