package digu

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dhihaei/internal/domain"
)

var suitByLetter = map[byte]domain.Suit{
	'S': domain.Spades,
	'H': domain.Hearts,
	'C': domain.Clubs,
	'D': domain.Diamonds,
}

var rankByName = map[string]int{"A": 14, "K": 13, "Q": 12, "J": 11}

// parseCard turns "7S", "10H" or "QD" into a card.
func parseCard(t *testing.T, s string) domain.Card {
	t.Helper()
	suit, ok := suitByLetter[s[len(s)-1]]
	require.True(t, ok, "bad suit in %q", s)
	name := s[:len(s)-1]
	rank, ok := rankByName[name]
	if !ok {
		var err error
		rank, err = strconv.Atoi(name)
		require.NoError(t, err, "bad rank in %q", s)
	}
	return domain.Card{Suit: suit, Rank: rank}
}

func parseHand(t *testing.T, names ...string) []domain.Card {
	t.Helper()
	hand := make([]domain.Card, len(names))
	for i, s := range names {
		hand[i] = parseCard(t, s)
	}
	return hand
}

func TestIsValidSet(t *testing.T) {
	tests := []struct {
		name  string
		cards []string
		want  bool
	}{
		{"three of a kind", []string{"7S", "7H", "7D"}, true},
		{"four of a kind", []string{"7S", "7H", "7D", "7C"}, true},
		{"repeated suit", []string{"7S", "7S", "7D"}, false},
		{"mixed ranks", []string{"7S", "8H", "7D"}, false},
		{"too short", []string{"7S", "7H"}, false},
		{"too long", []string{"7S", "7H", "7D", "7C", "8S"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidSet(parseHand(t, tt.cards...)))
		})
	}
}

func TestIsValidRun(t *testing.T) {
	tests := []struct {
		name  string
		cards []string
		want  bool
	}{
		{"three in order", []string{"2C", "3C", "4C"}, true},
		{"unsorted input", []string{"4C", "2C", "3C"}, true},
		{"ace high", []string{"QD", "KD", "AD"}, true},
		{"ace cannot wrap", []string{"AD", "2D", "3D"}, false},
		{"gap", []string{"2C", "3C", "5C"}, false},
		{"mixed suits", []string{"2C", "3D", "4C"}, false},
		{"too short", []string{"2C", "3C"}, false},
		{"five long", []string{"5H", "6H", "7H", "8H", "9H"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidRun(parseHand(t, tt.cards...)))
		})
	}
}

func TestFindWinningPartition(t *testing.T) {
	winning := []string{"7S", "7H", "7D", "7C", "2C", "3C", "4C", "QD", "KD", "AD"}

	p, ok := FindWinningPartition(parseHand(t, winning...))
	require.True(t, ok)
	assert.Equal(t, [3]int{4, 3, 3}, p.Sizes)
	assert.True(t, p.Valid)
	assert.Equal(t, parseHand(t, "7S", "7H", "7D", "7C"), p.Melds[0])

	// Same cards out of order: melds are positional, so this must fail.
	scrambled := []string{"7S", "2C", "7H", "3C", "7D", "4C", "7C", "QD", "KD", "AD"}
	_, ok = FindWinningPartition(parseHand(t, scrambled...))
	assert.False(t, ok)

	// Middle slice of four.
	middle := []string{"2C", "3C", "4C", "7S", "7H", "7D", "7C", "QD", "KD", "AD"}
	p, ok = FindWinningPartition(parseHand(t, middle...))
	require.True(t, ok)
	assert.Equal(t, [3]int{3, 4, 3}, p.Sizes)

	_, ok = FindWinningPartition(parseHand(t, "7S", "7H", "7D"))
	assert.False(t, ok)
}

func TestFindAllPossibleMelds(t *testing.T) {
	// A quad yields the quad itself plus its four triples.
	melds := FindAllPossibleMelds(parseHand(t, "7S", "7H", "7D", "7C"))
	assert.Len(t, melds, 5)

	// Five consecutive suited cards yield 3+2+1 windows.
	melds = FindAllPossibleMelds(parseHand(t, "5H", "6H", "7H", "8H", "9H"))
	assert.Len(t, melds, 6)

	melds = FindAllPossibleMelds(parseHand(t, "2S", "9H", "KD"))
	assert.Empty(t, melds)
}

func TestArrangeWinning(t *testing.T) {
	scrambled := parseHand(t, "7S", "2C", "7H", "3C", "7D", "4C", "7C", "QD", "KD", "AD")

	arranged, ok := ArrangeWinning(scrambled)
	require.True(t, ok)
	require.Len(t, arranged, 10)
	p, ok := FindWinningPartition(arranged)
	require.True(t, ok)
	assert.True(t, p.Valid)

	hopeless := parseHand(t, "2S", "4S", "6S", "8H", "10H", "QH", "3D", "5D", "9C", "KC")
	_, ok = ArrangeWinning(hopeless)
	assert.False(t, ok)

	_, ok = ArrangeWinning(parseHand(t, "2S", "4S"))
	assert.False(t, ok)
}

func TestArrangeBest(t *testing.T) {
	hand := parseHand(t, "2C", "9S", "7S", "3C", "7H", "4C", "KD", "7D", "5H", "JS")

	arranged := ArrangeBest(hand)
	require.Len(t, arranged, len(hand))
	assert.True(t, IsValidMeld(arranged[:3]) || IsValidMeld(arranged[:4]))

	// Still a permutation of the original hand.
	rest := append([]domain.Card{}, hand...)
	for _, c := range arranged {
		var ok bool
		rest, ok = domain.RemoveCard(rest, c)
		require.True(t, ok, "card %v not from original hand", c)
	}
	assert.Empty(t, rest)
}

func TestCardValue(t *testing.T) {
	tests := []struct {
		card string
		want int
	}{
		{"AD", 15},
		{"KS", 10},
		{"QH", 10},
		{"JC", 10},
		{"10D", 10},
		{"9H", 9},
		{"2C", 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CardValue(parseCard(t, tt.card)), tt.card)
	}
}

func TestMeldedSplit(t *testing.T) {
	full := parseHand(t, "7S", "7H", "7D", "7C", "2C", "3C", "4C", "QD", "KD", "AD")
	melded, unmelded := MeldedSplit(full)
	assert.Equal(t, 72, HandValue(melded))
	assert.Empty(t, unmelded)

	// Only the leading run validates; the rest counts against the hand.
	partial := parseHand(t, "2S", "3S", "4S", "9C", "JS", "5H", "8D", "JC", "2D", "6H")
	melded, unmelded = MeldedSplit(partial)
	assert.Equal(t, 9, HandValue(melded))
	assert.Len(t, unmelded, 7)

	// An eleventh card is never melded.
	eleven := append(append([]domain.Card{}, full...), parseCard(t, "9H"))
	melded, unmelded = MeldedSplit(eleven)
	assert.Equal(t, 72, HandValue(melded))
	assert.Equal(t, parseHand(t, "9H"), unmelded)
}
