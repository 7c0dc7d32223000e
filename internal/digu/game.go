package digu

import (
	"math/rand"
	"time"

	"dhihaei/internal/domain"
)

// Phase is the stage of the current turn cycle.
type Phase string

const (
	PhaseDraw     Phase = "draw"
	PhaseMeld     Phase = "meld"
	PhaseDiscard  Phase = "discard"
	PhaseGameOver Phase = "gameover"
)

// HandSize is the number of cards dealt to each seat.
const HandSize = 10

// Game is one deal of digu: four hands, a face-down stock and a face-up
// discard pile, advanced one seat at a time through draw, meld and discard.
type Game struct {
	Hands       [4][]domain.Card
	Stock       []domain.Card
	Discard     []domain.Card
	CurrentSeat int
	Phase       Phase
	Dealer      int
	Shuffles    [4]int
	Result      *Result
	Abandoned   bool
	AbandonedBy int

	rng *rand.Rand
}

// NewGame deals a fresh game: ten cards to each seat in seat order, the
// remainder to the stock, and the stock's top card seeding the discard
// pile. The seat after the dealer draws first. carried preserves shuffle
// tallies from earlier games at the same table.
func NewGame(rng *rand.Rand, dealer int, carried [4]int) *Game {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	deck := domain.NewDeck()
	domain.Shuffle(rng, deck)

	g := &Game{
		CurrentSeat: domain.NextSeat(dealer),
		Phase:       PhaseDraw,
		Dealer:      dealer,
		Shuffles:    carried,
		AbandonedBy: -1,
		rng:         rng,
	}
	g.Shuffles[dealer]++

	next := 0
	for round := 0; round < HandSize; round++ {
		for seat := 0; seat < 4; seat++ {
			g.Hands[seat] = append(g.Hands[seat], deck[next])
			next++
		}
	}
	g.Stock = append(g.Stock, deck[next:len(deck)-1]...)
	g.Discard = append(g.Discard, deck[len(deck)-1])
	return g
}

// Over reports whether the game has reached a terminal state.
func (g *Game) Over() bool {
	return g.Phase == PhaseGameOver
}

// StockCount returns the number of face-down cards left to draw.
func (g *Game) StockCount() int {
	return len(g.Stock)
}

// DiscardTop returns the face-up card available to the next drawer.
func (g *Game) DiscardTop() (domain.Card, bool) {
	if len(g.Discard) == 0 {
		return domain.Card{}, false
	}
	return g.Discard[len(g.Discard)-1], true
}

func (g *Game) checkTurn(seat int) error {
	if g.Phase == PhaseGameOver {
		return domain.ErrOutOfTurn
	}
	if seat != g.CurrentSeat {
		return domain.ErrOutOfTurn
	}
	return nil
}

// DrawFromStock moves the top stock card into the seat's hand. When the
// stock is empty the discard pile minus its top card is shuffled back in
// first, crediting the dealer with the extra shuffle.
func (g *Game) DrawFromStock(seat int) (domain.Card, error) {
	if err := g.checkTurn(seat); err != nil {
		return domain.Card{}, err
	}
	if g.Phase != PhaseDraw {
		return domain.Card{}, domain.ErrInvalidDraw
	}
	if len(g.Stock) == 0 {
		if len(g.Discard) <= 1 {
			return domain.Card{}, domain.ErrInvalidDraw
		}
		top := g.Discard[len(g.Discard)-1]
		pool := append([]domain.Card{}, g.Discard[:len(g.Discard)-1]...)
		domain.Shuffle(g.rng, pool)
		g.Stock = pool
		g.Discard = []domain.Card{top}
		g.Shuffles[g.Dealer]++
	}
	drawn := g.Stock[len(g.Stock)-1]
	g.Stock = g.Stock[:len(g.Stock)-1]
	g.Hands[seat] = append(g.Hands[seat], drawn)
	g.Phase = PhaseMeld
	return drawn, nil
}

// DrawFromDiscard moves the face-up top of the discard pile into the
// seat's hand.
func (g *Game) DrawFromDiscard(seat int) (domain.Card, error) {
	if err := g.checkTurn(seat); err != nil {
		return domain.Card{}, err
	}
	if g.Phase != PhaseDraw {
		return domain.Card{}, domain.ErrInvalidDraw
	}
	if len(g.Discard) == 0 {
		return domain.Card{}, domain.ErrInvalidDraw
	}
	drawn := g.Discard[len(g.Discard)-1]
	g.Discard = g.Discard[:len(g.Discard)-1]
	g.Hands[seat] = append(g.Hands[seat], drawn)
	g.Phase = PhaseMeld
	return drawn, nil
}

// Rearrange replaces the seat's hand with the given ordering. The new order
// must hold exactly the same cards; melds are positional, so ordering is how
// a player lays out their melds.
func (g *Game) Rearrange(seat int, order []domain.Card) error {
	if err := g.checkTurn(seat); err != nil {
		return err
	}
	if g.Phase != PhaseMeld {
		return domain.ErrInvalidPlay
	}
	if len(order) != len(g.Hands[seat]) {
		return domain.ErrInvalidPlay
	}
	rest := append([]domain.Card{}, g.Hands[seat]...)
	for _, c := range order {
		var ok bool
		rest, ok = domain.RemoveCard(rest, c)
		if !ok {
			return domain.ErrInvalidPlay
		}
	}
	g.Hands[seat] = append([]domain.Card{}, order...)
	return nil
}

// FinishMelding ends the seat's arranging and moves the turn to the
// discard phase.
func (g *Game) FinishMelding(seat int) error {
	if err := g.checkTurn(seat); err != nil {
		return err
	}
	if g.Phase != PhaseMeld {
		return domain.ErrInvalidPlay
	}
	g.Phase = PhaseDiscard
	return nil
}

// DiscardCard moves one card from the seat's hand onto the discard pile and
// passes the turn to the next seat.
func (g *Game) DiscardCard(seat int, card domain.Card) error {
	if err := g.checkTurn(seat); err != nil {
		return err
	}
	if g.Phase != PhaseMeld && g.Phase != PhaseDiscard {
		return domain.ErrInvalidPlay
	}
	hand, ok := domain.RemoveCard(g.Hands[seat], card)
	if !ok {
		return domain.ErrCardNotFound
	}
	g.Hands[seat] = hand
	g.Discard = append(g.Discard, card)
	g.CurrentSeat = domain.NextSeat(seat)
	g.Phase = PhaseDraw
	return nil
}

// DeclareDigu ends the game if the first ten cards of the seat's hand split
// into three valid melds under one of the allowed slicings. A declaration is
// only legal while the seat is in its meld phase; an eleventh card is
// discarded automatically.
func (g *Game) DeclareDigu(seat int) (*Result, error) {
	if err := g.checkTurn(seat); err != nil {
		return nil, err
	}
	if g.Phase != PhaseMeld {
		return nil, domain.ErrInvalidDeclaration
	}
	if _, ok := FindWinningPartition(g.Hands[seat]); !ok {
		return nil, domain.ErrInvalidDeclaration
	}
	if len(g.Hands[seat]) > HandSize {
		g.Discard = append(g.Discard, g.Hands[seat][HandSize])
		g.Hands[seat] = g.Hands[seat][:HandSize]
	}
	g.Phase = PhaseGameOver
	g.Result = scoreGame(&g.Hands, seat)
	return g.Result, nil
}

// Abandon terminates the game without a result.
func (g *Game) Abandon(seat int) error {
	if g.Phase == PhaseGameOver {
		return domain.ErrOutOfTurn
	}
	g.Abandoned = true
	g.AbandonedBy = seat
	g.Phase = PhaseGameOver
	return nil
}

// Stats accumulates outcomes across the games played at one table.
type Stats struct {
	GamesPlayed int    `json:"gamesPlayed"`
	Wins        [2]int `json:"wins"`
	Scores      [2]int `json:"scores"`
}

// Table hosts a run of digu games for four fixed seats, tracking the dealer
// rotation and cumulative stats between games.
type Table struct {
	Game   *Game
	Stats  Stats
	Dealer int

	rng *rand.Rand
}

// NewTable seats a fresh table with seat 0 dealing first. A nil rng is
// seeded from the clock.
func NewTable(rng *rand.Rand) *Table {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Table{rng: rng}
}

// StartGame deals the table's first game. Later games go through
// StartNextGame so the dealer rotation applies.
func (t *Table) StartGame() (*Game, error) {
	if t.Game != nil {
		return nil, domain.ErrInvalidPlay
	}
	t.Game = NewGame(t.rng, t.Dealer, [4]int{})
	return t.Game, nil
}

// Declare forwards a declaration to the current game and folds a resolved
// result into the table stats.
func (t *Table) Declare(seat int) (*Result, error) {
	if t.Game == nil {
		return nil, domain.ErrOutOfTurn
	}
	res, err := t.Game.DeclareDigu(seat)
	if err != nil {
		return nil, err
	}
	t.Stats.GamesPlayed++
	t.Stats.Wins[res.Winner]++
	t.Stats.Scores[0] += res.TeamScores[0]
	t.Stats.Scores[1] += res.TeamScores[1]
	return res, nil
}

// StartNextGame rotates the deal and starts another game. The deal moves to
// the next seat only when the outgoing dealer's team won; an abandoned game
// leaves the dealer in place.
func (t *Table) StartNextGame() (*Game, error) {
	if t.Game == nil || !t.Game.Over() {
		return nil, domain.ErrInvalidPlay
	}
	if res := t.Game.Result; res != nil && domain.TeamOf(t.Dealer) == res.Winner {
		t.Dealer = domain.NextSeat(t.Dealer)
	}
	t.Game = NewGame(t.rng, t.Dealer, t.Game.Shuffles)
	return t.Game, nil
}

// ResetMatchStats clears the cumulative table stats.
func (t *Table) ResetMatchStats() {
	t.Stats = Stats{}
}
