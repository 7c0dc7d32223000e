package app

import (
	"math/rand"
	"time"

	"dhihaei/internal/domain"
)

// DhihaService contains the trick-game use-cases operating on domain state.
// It is stateless apart from its randomness source; callers own the match.
type DhihaService struct {
	rng *rand.Rand
}

// NewDhihaService constructs a service with the provided rng or a
// time-seeded default.
func NewDhihaService(rng *rand.Rand) *DhihaService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &DhihaService{rng: rng}
}

// StartMatch creates a match and deals its first round. seats maps seat
// positions to user IDs for targeted events.
func (s *DhihaService) StartMatch(dealer, targetPoints int, seats [4]string) (*domain.Match, []Event, error) {
	m := domain.NewMatch(dealer, targetPoints)
	events := []Event{{
		Kind:    EventMatchStarted,
		Payload: MatchStartedPayload{Dealer: m.Dealer, TargetPoints: m.TargetPoints},
	}}
	roundEvents, err := s.StartRound(m, seats)
	if err != nil {
		return nil, nil, err
	}
	return m, append(events, roundEvents...), nil
}

// StartRound deals the next round: each seat receives its hand privately,
// then the table learns who leads.
func (s *DhihaService) StartRound(m *domain.Match, seats [4]string) ([]Event, error) {
	if err := m.StartRound(s.rng); err != nil {
		return nil, err
	}
	events := make([]Event, 0, 5)
	for seat := 0; seat < 4; seat++ {
		events = append(events, Event{
			Kind:       EventHandDealt,
			Payload:    HandDealtPayload{Seat: seat, Hand: m.Round.Hands[seat]},
			Recipients: []string{seats[seat]},
		})
	}
	events = append(events, Event{
		Kind:    EventRoundStarted,
		Payload: RoundStartedPayload{Dealer: m.Dealer, Leader: m.Round.CurrentSeat},
	})
	return events, nil
}

// PlayCard applies one play and folds everything that followed from it into
// events: the play itself, a trump establishment, a finished trick, a
// finished round, a finished match.
func (s *DhihaService) PlayCard(m *domain.Match, seat int, card domain.Card) ([]Event, error) {
	res, err := m.PlayCard(seat, card)
	if err != nil {
		return nil, err
	}

	events := []Event{{
		Kind:    EventCardPlayed,
		Payload: CardPlayedPayload{Seat: seat, Card: card, NextSeat: m.Round.CurrentSeat},
	}}
	if res.TrumpEstablished {
		events = append(events, Event{
			Kind:    EventTrumpEstablished,
			Payload: TrumpEstablishedPayload{Suit: m.Round.Trump, Seat: seat},
		})
	}
	if res.Trick != nil {
		events = append(events, Event{
			Kind: EventTrickWon,
			Payload: TrickWonPayload{
				Winner:      res.Trick.Winner.Seat,
				Team:        res.Trick.Team,
				WinningCard: res.Trick.Winner.Card,
				Tens:        res.Trick.Tens,
				Plays:       res.Trick.Plays,
				TrickNo:     m.Round.TricksPlayed,
				NextSeat:    m.Round.CurrentSeat,
				TricksWon:   m.Round.TricksWon,
			},
		})
	}
	if res.Round != nil {
		events = append(events, Event{
			Kind:    EventRoundEnded,
			Payload: RoundEndedPayload{Result: *res.Round, Points: m.Points, Dealer: m.Dealer},
		})
		if m.Status == domain.MatchEnded {
			events = append(events, Event{
				Kind:    EventMatchEnded,
				Payload: MatchEndedPayload{Winner: m.Winner, Points: m.Points},
			})
		}
	}
	return events, nil
}

// Abandon terminates the match on behalf of a leaving seat.
func (s *DhihaService) Abandon(m *domain.Match, seat int) ([]Event, error) {
	if err := m.Abandon(seat); err != nil {
		return nil, err
	}
	return []Event{{
		Kind:    EventMatchAbandoned,
		Payload: MatchAbandonedPayload{Seat: seat},
	}}, nil
}
