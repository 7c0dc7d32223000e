package integration

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dhihaei/internal/app"
	"dhihaei/internal/bot"
	"dhihaei/internal/digu"
	"dhihaei/internal/domain"
)

func card(suit domain.Suit, rank int) domain.Card {
	return domain.Card{Suit: suit, Rank: rank}
}

// assertTableConservation checks that hands, stock and discard together hold
// exactly one full deck with no card twice.
func assertTableConservation(t *testing.T, g *digu.Game) {
	t.Helper()
	seen := make(map[domain.Card]bool)
	total := 0
	count := func(cards []domain.Card) {
		for _, c := range cards {
			assert.False(t, seen[c], "card %v appears twice", c)
			seen[c] = true
			total++
		}
	}
	for seat := 0; seat < 4; seat++ {
		count(g.Hands[seat])
	}
	count(g.Stock)
	count(g.Discard)
	assert.Equal(t, 52, total)
}

// TestDiguBotsDriveGame runs greedy bots through a bounded stretch of a game,
// mirroring one phase of a turn per step, and checks the table invariants
// after every mutation.
func TestDiguBotsDriveGame(t *testing.T) {
	svc := app.NewDiguService()
	table := digu.NewTable(rand.New(rand.NewSource(7)))
	seats := [4]string{"p0", "p1", "p2", "p3"}

	var brains [4]bot.DiguBrain
	for i := range brains {
		brain, err := bot.NewDiguBrain(bot.BotLevelSmart)
		require.NoError(t, err)
		brains[i] = brain
	}

	events, err := svc.Deal(table, seats)
	require.NoError(t, err)
	g := table.Game
	require.NotNil(t, g)

	// Step 1: verify the deal layout.
	require.Len(t, events, 5)
	assert.Equal(t, app.EventDiguStarted, events[0].Kind)
	for seat := 0; seat < 4; seat++ {
		ev := events[seat+1]
		require.Equal(t, app.EventDiguDealt, ev.Kind)
		p := ev.Payload.(app.DiguDealtPayload)
		assert.Equal(t, seat, p.Seat)
		assert.Len(t, p.Hand, digu.HandSize)
		require.Equal(t, []string{seats[seat]}, ev.Recipients)
	}
	assert.Equal(t, domain.NextSeat(g.Dealer), g.CurrentSeat)
	assert.Equal(t, 11, g.StockCount())
	_, hasTop := g.DiscardTop()
	assert.True(t, hasTop)
	assert.Equal(t, 1, g.Shuffles[g.Dealer])
	assertTableConservation(t, g)

	// Step 2: let the bots take turns. A greedy game has no guaranteed
	// finish inside the cap, so the loop asserts structure rather than an
	// outcome and stops early on a declaration.
	declared := false
	for step := 0; step < 240 && !g.Over(); step++ {
		seat := g.CurrentSeat
		brain := brains[seat]

		switch g.Phase {
		case digu.PhaseDraw:
			for other := 0; other < 4; other++ {
				require.Len(t, g.Hands[other], digu.HandSize, "hands hold ten cards between turns")
			}
			top, hasTop := g.DiscardTop()
			turn := bot.DiguTurn{
				Hand:       g.Hands[seat],
				DiscardTop: top,
				HasDiscard: hasTop,
				StockCount: g.StockCount(),
			}
			source := app.DrawSourceStock
			if brain.ChooseDraw(turn) == bot.DrawDiscard {
				source = app.DrawSourceDiscard
			}
			evs, err := svc.Draw(table, seats, seat, source)
			require.NoError(t, err)
			require.Len(t, evs, 2)
			assert.Equal(t, app.EventCardDrawn, evs[0].Kind)
			assert.Equal(t, app.EventDrawMade, evs[1].Kind)
			assert.Len(t, g.Hands[seat], digu.HandSize+1)
			assert.Equal(t, digu.PhaseMeld, g.Phase)
			assert.Equal(t, seat, g.CurrentSeat, "drawing keeps the turn")

		case digu.PhaseMeld:
			arranged, declare := brain.Arrange(g.Hands[seat])
			_, err := svc.Rearrange(table, seats, seat, arranged)
			require.NoError(t, err, "an arranged hand is a permutation of the held one")

			if declare {
				evs, err := svc.Declare(table, seat)
				require.NoError(t, err)
				require.Len(t, evs, 1)
				p := evs[0].Payload.(app.DiguDeclaredPayload)
				assert.Equal(t, seat, p.Result.WinnerSeat)
				assert.Equal(t, domain.TeamOf(seat), p.Result.Winner)
				assert.True(t, p.Result.Partitions[seat].Valid)
				assert.GreaterOrEqual(t, p.Result.TeamScores[p.Result.Winner], 100)
				declared = true
			} else {
				discard := brain.ChooseDiscard(g.Hands[seat])
				evs, err := svc.Discard(table, seat, discard)
				require.NoError(t, err)
				require.Len(t, evs, 1)
				assert.Equal(t, domain.NextSeat(seat), g.CurrentSeat)
				assert.Equal(t, digu.PhaseDraw, g.Phase)
				assert.Len(t, g.Hands[seat], digu.HandSize)
			}

		default:
			t.Fatalf("unexpected phase %q on step %d", g.Phase, step)
		}

		assertTableConservation(t, g)
	}

	if declared {
		assert.True(t, g.Over())
		assert.Equal(t, 1, table.Stats.GamesPlayed)
		assert.Equal(t, 1, table.Stats.Wins[g.Result.Winner])
		t.Logf("declared by seat %d, scores %v", g.Result.WinnerSeat, g.Result.TeamScores)
	} else {
		assert.Zero(t, table.Stats.GamesPlayed)
		t.Log("no declaration inside the cap; structural invariants held throughout")
	}
}

// TestDiguDeclareScoresAndRotates plants known hands, declares with them and
// checks the exact settlement, the stats folding and the dealer rotation
// across three games.
func TestDiguDeclareScoresAndRotates(t *testing.T) {
	svc := app.NewDiguService()
	table := digu.NewTable(rand.New(rand.NewSource(3)))
	seats := [4]string{"p0", "p1", "p2", "p3"}

	winner := []domain.Card{
		card(domain.Spades, 2), card(domain.Spades, 3), card(domain.Spades, 4),
		card(domain.Hearts, 5), card(domain.Hearts, 6), card(domain.Hearts, 7),
		card(domain.Clubs, 9), card(domain.Clubs, 10), card(domain.Clubs, domain.RankJack), card(domain.Clubs, domain.RankQueen),
	} // three runs under the 3-3-4 slicing, value 9+18+39 = 66
	partner := []domain.Card{
		card(domain.Diamonds, 5), card(domain.Diamonds, 6), card(domain.Diamonds, 7),
		card(domain.Hearts, 2), card(domain.Hearts, 3), card(domain.Hearts, 4),
		card(domain.Spades, 8), card(domain.Spades, 9), card(domain.Spades, 10), card(domain.Spades, domain.RankJack),
	} // fully melded as well, value 18+9+37 = 64
	junkA := []domain.Card{
		card(domain.Clubs, 2), card(domain.Diamonds, 9), card(domain.Hearts, 9),
		card(domain.Spades, 5), card(domain.Clubs, 4), card(domain.Diamonds, domain.RankJack),
		card(domain.Hearts, domain.RankKing), card(domain.Spades, 6), card(domain.Clubs, domain.RankAce), card(domain.Diamonds, 3),
	} // no slicing melds anything, value 73
	junkB := []domain.Card{
		card(domain.Diamonds, 2), card(domain.Clubs, 5), card(domain.Hearts, 8),
		card(domain.Spades, domain.RankKing), card(domain.Clubs, 6), card(domain.Diamonds, 10),
		card(domain.Hearts, domain.RankAce), card(domain.Spades, 7), card(domain.Clubs, 7), card(domain.Diamonds, 4),
	} // value 74

	// Game 1: seat 3 declares, so team B wins against dealer 0's team.
	_, err := svc.Deal(table, seats)
	require.NoError(t, err)
	g := table.Game
	require.Equal(t, 0, g.Dealer)
	require.Equal(t, 3, g.CurrentSeat)

	g.Hands[0] = append([]domain.Card{}, junkA...)
	g.Hands[1] = append([]domain.Card{}, partner...)
	g.Hands[2] = append([]domain.Card{}, junkB...)
	g.Hands[3] = append([]domain.Card{}, winner...)

	_, err = svc.Draw(table, seats, 3, app.DrawSourceStock)
	require.NoError(t, err)
	require.Len(t, g.Hands[3], 11)

	discardsBefore := len(g.Discard)
	evs, err := svc.Declare(table, 3)
	require.NoError(t, err)
	require.Len(t, evs, 1)
	res := evs[0].Payload.(app.DiguDeclaredPayload).Result

	// The drawn eleventh card is shed automatically, so the planted ten
	// cards are exactly what gets scored.
	assert.Len(t, g.Hands[3], 10)
	assert.Len(t, g.Discard, discardsBefore+1)
	assert.True(t, g.Over())

	assert.Equal(t, 3, res.WinnerSeat)
	assert.Equal(t, domain.TeamB, res.Winner)
	assert.Equal(t, [4]int{0, 64, 0, 66}, res.MeldedValue)
	assert.Equal(t, [4]int{73, 0, 74, 0}, res.UnmeldedValue)
	assert.Equal(t, [2]int{-147, 230}, res.TeamScores, "winners bank 100 plus both melds, losers owe both deadwoods")
	assert.True(t, res.Partitions[3].Valid)
	assert.True(t, res.Partitions[1].Valid)
	assert.False(t, res.Partitions[0].Valid)

	assert.Equal(t, 1, table.Stats.GamesPlayed)
	assert.Equal(t, [2]int{0, 1}, table.Stats.Wins)
	assert.Equal(t, [2]int{-147, 230}, table.Stats.Scores)

	// Game 2: the deal stays with seat 0 because its team lost. This time
	// seat 2 wins for the dealer's team.
	_, err = svc.Deal(table, seats)
	require.NoError(t, err)
	g = table.Game
	require.Equal(t, 0, table.Dealer)
	require.Equal(t, 0, g.Dealer)
	require.Equal(t, 3, g.CurrentSeat)
	assert.Equal(t, 2, g.Shuffles[0], "dealer is credited one shuffle per deal")

	g.Hands[0] = append([]domain.Card{}, partner...)
	g.Hands[1] = append([]domain.Card{}, junkB...)
	g.Hands[2] = append([]domain.Card{}, winner...)
	g.Hands[3] = append([]domain.Card{}, junkA...)

	// Seat 3 takes a plain turn to pass the deal order along.
	_, err = svc.Draw(table, seats, 3, app.DrawSourceStock)
	require.NoError(t, err)
	_, err = svc.Discard(table, 3, junkA[0])
	require.NoError(t, err)
	require.Equal(t, 2, g.CurrentSeat)

	_, err = svc.Draw(table, seats, 2, app.DrawSourceStock)
	require.NoError(t, err)
	evs, err = svc.Declare(table, 2)
	require.NoError(t, err)
	res = evs[0].Payload.(app.DiguDeclaredPayload).Result

	assert.Equal(t, 2, res.WinnerSeat)
	assert.Equal(t, domain.TeamA, res.Winner)
	assert.Equal(t, 230, res.TeamScores[domain.TeamA])

	// Seat 3 ends holding nine planted junk cards plus whatever it drew,
	// none of which can meld, so team B owes at least the planted value.
	plantedDebt := 74 + 73 - digu.CardValue(junkA[0])
	assert.LessOrEqual(t, res.TeamScores[domain.TeamB], -plantedDebt)
	assert.GreaterOrEqual(t, res.TeamScores[domain.TeamB], -(plantedDebt + 15))

	assert.Equal(t, 2, table.Stats.GamesPlayed)
	assert.Equal(t, [2]int{1, 1}, table.Stats.Wins)
	assert.Equal(t, -147+230, table.Stats.Scores[domain.TeamA])
	assert.Equal(t, 230+res.TeamScores[domain.TeamB], table.Stats.Scores[domain.TeamB])

	// Game 3: the dealer's team won, so the deal finally moves on.
	_, err = svc.Deal(table, seats)
	require.NoError(t, err)
	assert.Equal(t, 3, table.Dealer)
	assert.Equal(t, 3, table.Game.Dealer)
	assert.Equal(t, 2, table.Game.CurrentSeat)
}
