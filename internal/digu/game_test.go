package digu

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dhihaei/internal/domain"
)

func testRNG() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func TestNewGameDeal(t *testing.T) {
	g := NewGame(testRNG(), 2, [4]int{})

	seen := make(map[domain.Card]bool)
	count := func(cards []domain.Card) {
		for _, c := range cards {
			assert.False(t, seen[c], "card %v dealt twice", c)
			seen[c] = true
		}
	}
	for seat := 0; seat < 4; seat++ {
		require.Len(t, g.Hands[seat], HandSize)
		count(g.Hands[seat])
	}
	count(g.Stock)
	count(g.Discard)

	assert.Len(t, seen, 52)
	assert.Equal(t, 11, g.StockCount())
	assert.Len(t, g.Discard, 1)
	assert.Equal(t, domain.NextSeat(2), g.CurrentSeat)
	assert.Equal(t, PhaseDraw, g.Phase)
	assert.Equal(t, [4]int{0, 0, 1, 0}, g.Shuffles)
}

func TestDrawMeldDiscardCycle(t *testing.T) {
	g := NewGame(testRNG(), 0, [4]int{})
	seat := g.CurrentSeat

	drawn, err := g.DrawFromStock(seat)
	require.NoError(t, err)
	assert.Len(t, g.Hands[seat], HandSize+1)
	assert.Equal(t, drawn, g.Hands[seat][HandSize])
	assert.Equal(t, PhaseMeld, g.Phase)
	assert.Equal(t, 10, g.StockCount())

	// Discarding straight from the meld phase is allowed.
	require.NoError(t, g.DiscardCard(seat, drawn))
	assert.Len(t, g.Hands[seat], HandSize)
	top, ok := g.DiscardTop()
	require.True(t, ok)
	assert.Equal(t, drawn, top)
	assert.Equal(t, domain.NextSeat(seat), g.CurrentSeat)
	assert.Equal(t, PhaseDraw, g.Phase)

	// Next seat takes the freshly discarded card instead.
	next := g.CurrentSeat
	got, err := g.DrawFromDiscard(next)
	require.NoError(t, err)
	assert.Equal(t, drawn, got)

	require.NoError(t, g.FinishMelding(next))
	assert.Equal(t, PhaseDiscard, g.Phase)
	assert.ErrorIs(t, g.Rearrange(next, g.Hands[next]), domain.ErrInvalidPlay)
	require.NoError(t, g.DiscardCard(next, got))
}

func TestTurnAndPhaseRejections(t *testing.T) {
	g := NewGame(testRNG(), 0, [4]int{})
	seat := g.CurrentSeat
	other := domain.NextSeat(seat)

	_, err := g.DrawFromStock(other)
	assert.ErrorIs(t, err, domain.ErrOutOfTurn)

	assert.ErrorIs(t, g.DiscardCard(seat, g.Hands[seat][0]), domain.ErrInvalidPlay)
	assert.ErrorIs(t, g.Rearrange(seat, g.Hands[seat]), domain.ErrInvalidPlay)
	_, err = g.DeclareDigu(seat)
	assert.ErrorIs(t, err, domain.ErrInvalidDeclaration)

	_, err = g.DrawFromStock(seat)
	require.NoError(t, err)
	_, err = g.DrawFromStock(seat)
	assert.ErrorIs(t, err, domain.ErrInvalidDraw)

	assert.ErrorIs(t, g.DiscardCard(seat, domain.Card{Suit: domain.Spades, Rank: 99}), domain.ErrCardNotFound)
}

func TestRearrange(t *testing.T) {
	g := NewGame(testRNG(), 0, [4]int{})
	seat := g.CurrentSeat
	_, err := g.DrawFromStock(seat)
	require.NoError(t, err)

	order := append([]domain.Card{}, g.Hands[seat]...)
	order[0], order[len(order)-1] = order[len(order)-1], order[0]
	require.NoError(t, g.Rearrange(seat, order))
	assert.Equal(t, order, g.Hands[seat])

	// A different multiset is rejected and leaves the hand alone.
	bogus := append([]domain.Card{}, order...)
	bogus[0] = domain.Card{Suit: domain.Spades, Rank: 99}
	assert.ErrorIs(t, g.Rearrange(seat, bogus), domain.ErrInvalidPlay)
	assert.Equal(t, order, g.Hands[seat])

	assert.ErrorIs(t, g.Rearrange(seat, order[:3]), domain.ErrInvalidPlay)
}

func TestStockReshuffle(t *testing.T) {
	g := NewGame(testRNG(), 1, [4]int{})
	seat := g.CurrentSeat

	// Exhaust the stock into the discard pile by hand.
	g.Discard = append(g.Discard, g.Stock...)
	g.Stock = nil
	top := g.Discard[len(g.Discard)-1]
	poolSize := len(g.Discard) - 1

	drawn, err := g.DrawFromStock(seat)
	require.NoError(t, err)
	assert.Equal(t, poolSize-1, g.StockCount())
	require.Len(t, g.Discard, 1)
	assert.Equal(t, top, g.Discard[0], "discard top must survive the reshuffle")
	assert.NotEqual(t, top, drawn)
	assert.Equal(t, 2, g.Shuffles[1], "dealer is charged for the reshuffle")
}

func TestStockReshuffleImpossible(t *testing.T) {
	g := NewGame(testRNG(), 0, [4]int{})
	g.Stock = nil

	_, err := g.DrawFromStock(g.CurrentSeat)
	assert.ErrorIs(t, err, domain.ErrInvalidDraw)
	assert.Equal(t, PhaseDraw, g.Phase)
	assert.Len(t, g.Hands[g.CurrentSeat], HandSize)
}

// declarableGame builds a game mid-flight where seat 1 holds a winning
// eleven-card hand in its meld phase. The four hands share no card, so the
// score totals below are hand-checkable.
func declarableGame(t *testing.T) *Game {
	t.Helper()
	g := NewGame(testRNG(), 0, [4]int{})
	g.Hands[1] = parseHand(t, "7S", "7H", "7D", "7C", "2C", "3C", "4C", "QD", "KD", "AD", "9H")
	g.Hands[3] = parseHand(t, "2S", "3S", "4S", "9C", "JS", "5H", "8D", "JC", "2D", "6H")
	g.Hands[0] = parseHand(t, "AS", "KS", "9S", "6C", "8C", "10C", "5D", "6D", "8H", "10H")
	g.Hands[2] = parseHand(t, "KC", "QC", "9D", "JD", "4H", "6S", "5C", "8S", "10S", "10D")
	g.CurrentSeat = 1
	g.Phase = PhaseMeld
	return g
}

func TestDeclareDigu(t *testing.T) {
	g := declarableGame(t)

	res, err := g.DeclareDigu(1)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, PhaseGameOver, g.Phase)
	assert.True(t, g.Over())

	// The eleventh card was discarded automatically.
	assert.Len(t, g.Hands[1], HandSize)
	top, ok := g.DiscardTop()
	require.True(t, ok)
	assert.Equal(t, parseCard(t, "9H"), top)

	assert.Equal(t, 1, res.WinnerSeat)
	assert.Equal(t, domain.TeamB, res.Winner)
	assert.Equal(t, 72, res.MeldedValue[1])
	assert.Equal(t, 9, res.MeldedValue[3])
	assert.Equal(t, 87, res.UnmeldedValue[0])
	assert.Equal(t, 82, res.UnmeldedValue[2])
	assert.Equal(t, [2]int{-169, 181}, res.TeamScores)
	assert.True(t, res.Partitions[1].Valid)
	assert.False(t, res.Partitions[0].Valid)

	_, err = g.DrawFromStock(g.CurrentSeat)
	assert.ErrorIs(t, err, domain.ErrOutOfTurn)
}

func TestDeclareRequiresWinningHand(t *testing.T) {
	g := NewGame(testRNG(), 0, [4]int{})
	seat := g.CurrentSeat
	g.Hands[seat] = parseHand(t, "2S", "4S", "6S", "8H", "10H", "QH", "3D", "5D", "9C", "KC")
	_, err := g.DrawFromStock(seat)
	require.NoError(t, err)

	_, err = g.DeclareDigu(seat)
	assert.ErrorIs(t, err, domain.ErrInvalidDeclaration)
	assert.Equal(t, PhaseMeld, g.Phase)
	assert.Len(t, g.Hands[seat], HandSize+1)
}

func TestAbandonGame(t *testing.T) {
	g := NewGame(testRNG(), 0, [4]int{})
	require.NoError(t, g.Abandon(2))
	assert.True(t, g.Over())
	assert.True(t, g.Abandoned)
	assert.Equal(t, 2, g.AbandonedBy)
	assert.Nil(t, g.Result)

	_, err := g.DrawFromStock(g.CurrentSeat)
	assert.ErrorIs(t, err, domain.ErrOutOfTurn)
	assert.ErrorIs(t, g.Abandon(2), domain.ErrOutOfTurn)
}

func TestTableStatsAndDealerRotation(t *testing.T) {
	tbl := NewTable(testRNG())
	_, err := tbl.StartGame()
	require.NoError(t, err)
	_, err = tbl.StartGame()
	assert.ErrorIs(t, err, domain.ErrInvalidPlay)

	tbl.Game = declarableGame(t)
	res, err := tbl.Declare(1)
	require.NoError(t, err)

	assert.Equal(t, 1, tbl.Stats.GamesPlayed)
	assert.Equal(t, [2]int{0, 1}, tbl.Stats.Wins)
	assert.Equal(t, [2]int{res.TeamScores[0], res.TeamScores[1]}, tbl.Stats.Scores)

	// Dealer's team lost, so the deal stays put for the next game.
	prevShuffles := tbl.Game.Shuffles
	g, err := tbl.StartNextGame()
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Dealer)
	assert.Equal(t, prevShuffles[0]+1, g.Shuffles[0])

	// Stats survive into the next game until explicitly reset.
	assert.Equal(t, 1, tbl.Stats.GamesPlayed)
	tbl.ResetMatchStats()
	assert.Equal(t, Stats{}, tbl.Stats)

	_, err = tbl.StartNextGame()
	assert.ErrorIs(t, err, domain.ErrInvalidPlay)
}

func TestTableDealerRotatesOnDealerWin(t *testing.T) {
	tbl := NewTable(testRNG())
	_, err := tbl.StartGame()
	require.NoError(t, err)

	// Rig a win for seat 0, the dealer's own team.
	g := declarableGame(t)
	g.Hands[0], g.Hands[1] = g.Hands[1], g.Hands[0]
	g.Hands[2], g.Hands[3] = g.Hands[3], g.Hands[2]
	g.CurrentSeat = 0
	tbl.Game = g

	res, err := tbl.Declare(0)
	require.NoError(t, err)
	assert.Equal(t, domain.TeamA, res.Winner)

	_, err = tbl.StartNextGame()
	require.NoError(t, err)
	assert.Equal(t, domain.NextSeat(0), tbl.Dealer)
}
