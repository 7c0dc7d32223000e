package app

import (
	"fmt"

	"dhihaei/internal/digu"
	"dhihaei/internal/domain"
)

// Draw sources accepted by DiguService.Draw.
const (
	DrawSourceStock   = "stock"
	DrawSourceDiscard = "discard"
)

// DiguService contains the rummy use-cases operating on a table. The table
// owns all game state; the service turns mutations into events.
type DiguService struct{}

// NewDiguService constructs the service.
func NewDiguService() *DiguService {
	return &DiguService{}
}

// Deal starts the table's next game: the first via StartGame, later ones via
// the dealer-rotating StartNextGame. Each seat gets its hand privately.
func (s *DiguService) Deal(t *digu.Table, seats [4]string) ([]Event, error) {
	var (
		g   *digu.Game
		err error
	)
	if t.Game == nil {
		g, err = t.StartGame()
	} else {
		g, err = t.StartNextGame()
	}
	if err != nil {
		return nil, err
	}

	top, _ := g.DiscardTop()
	events := make([]Event, 0, 5)
	events = append(events, Event{
		Kind:    EventDiguStarted,
		Payload: DiguStartedPayload{Dealer: g.Dealer, FirstSeat: g.CurrentSeat},
	})
	for seat := 0; seat < 4; seat++ {
		events = append(events, Event{
			Kind: EventDiguDealt,
			Payload: DiguDealtPayload{
				Seat:       seat,
				Hand:       g.Hands[seat],
				StockCount: g.StockCount(),
				DiscardTop: top,
			},
			Recipients: []string{seats[seat]},
		})
	}
	return events, nil
}

// Draw pulls one card from the requested source. The drawer alone learns a
// stock card; a discard draw is public knowledge either way.
func (s *DiguService) Draw(t *digu.Table, seats [4]string, seat int, source string) ([]Event, error) {
	g := t.Game
	if g == nil {
		return nil, domain.ErrOutOfTurn
	}

	var (
		card       domain.Card
		err        error
		reshuffled bool
	)
	switch source {
	case DrawSourceStock:
		before := g.Shuffles[g.Dealer]
		card, err = g.DrawFromStock(seat)
		reshuffled = err == nil && g.Shuffles[g.Dealer] > before
	case DrawSourceDiscard:
		card, err = g.DrawFromDiscard(seat)
	default:
		return nil, fmt.Errorf("unknown draw source %q: %w", source, domain.ErrInvalidDraw)
	}
	if err != nil {
		return nil, err
	}

	events := []Event{{
		Kind:       EventCardDrawn,
		Payload:    CardDrawnPayload{Seat: seat, Source: source, Card: card},
		Recipients: []string{seats[seat]},
	}}
	public := DrawMadePayload{
		Seat:       seat,
		Source:     source,
		StockCount: g.StockCount(),
		Reshuffled: reshuffled,
	}
	if source == DrawSourceDiscard {
		public.Card = card
	}
	events = append(events, Event{Kind: EventDrawMade, Payload: public})
	return events, nil
}

// Rearrange lays the seat's hand out in a new order. Only the owner sees
// the layout.
func (s *DiguService) Rearrange(t *digu.Table, seats [4]string, seat int, order []domain.Card) ([]Event, error) {
	g := t.Game
	if g == nil {
		return nil, domain.ErrOutOfTurn
	}
	if err := g.Rearrange(seat, order); err != nil {
		return nil, err
	}
	return []Event{{
		Kind:       EventHandArranged,
		Payload:    HandArrangedPayload{Seat: seat, Hand: g.Hands[seat]},
		Recipients: []string{seats[seat]},
	}}, nil
}

// FinishMelding closes the seat's arranging window.
func (s *DiguService) FinishMelding(t *digu.Table, seat int) ([]Event, error) {
	g := t.Game
	if g == nil {
		return nil, domain.ErrOutOfTurn
	}
	if err := g.FinishMelding(seat); err != nil {
		return nil, err
	}
	return []Event{{
		Kind:    EventMeldingDone,
		Payload: MeldingDonePayload{Seat: seat},
	}}, nil
}

// Discard sheds one card and passes the turn.
func (s *DiguService) Discard(t *digu.Table, seat int, card domain.Card) ([]Event, error) {
	g := t.Game
	if g == nil {
		return nil, domain.ErrOutOfTurn
	}
	if err := g.DiscardCard(seat, card); err != nil {
		return nil, err
	}
	return []Event{{
		Kind: EventCardDiscarded,
		Payload: CardDiscardedPayload{
			Seat:       seat,
			Card:       card,
			NextSeat:   g.CurrentSeat,
			StockCount: g.StockCount(),
		},
	}}, nil
}

// Declare ends the game on a winning hand and folds the result into the
// table stats.
func (s *DiguService) Declare(t *digu.Table, seat int) ([]Event, error) {
	res, err := t.Declare(seat)
	if err != nil {
		return nil, err
	}
	return []Event{{
		Kind:    EventDiguDeclared,
		Payload: DiguDeclaredPayload{Result: *res, Stats: t.Stats},
	}}, nil
}

// Abandon terminates the running game without a result.
func (s *DiguService) Abandon(t *digu.Table, seat int) ([]Event, error) {
	if t.Game == nil {
		return nil, domain.ErrOutOfTurn
	}
	if err := t.Game.Abandon(seat); err != nil {
		return nil, err
	}
	return []Event{{
		Kind:    EventDiguAbandoned,
		Payload: DiguAbandonedPayload{Seat: seat},
	}}, nil
}

// ResetStats clears the table's cumulative statistics.
func (s *DiguService) ResetStats(t *digu.Table) []Event {
	t.ResetMatchStats()
	return []Event{{Kind: EventStatsReset, Payload: StatsResetPayload{}}}
}
