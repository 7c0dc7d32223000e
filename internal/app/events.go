package app

import (
	"dhihaei/internal/digu"
	"dhihaei/internal/domain"
)

// EventKind identifies emitted game events for dispatch to clients.
type EventKind string

const (
	EventMatchStarted     EventKind = "match_started"
	EventHandDealt        EventKind = "hand_dealt"
	EventRoundStarted     EventKind = "round_started"
	EventCardPlayed       EventKind = "card_played"
	EventTrumpEstablished EventKind = "trump_established"
	EventTrickWon         EventKind = "trick_won"
	EventRoundEnded       EventKind = "round_ended"
	EventMatchEnded       EventKind = "match_ended"
	EventMatchAbandoned   EventKind = "match_abandoned"

	EventDiguStarted   EventKind = "digu_started"
	EventDiguDealt     EventKind = "digu_dealt"
	EventCardDrawn     EventKind = "card_drawn"
	EventDrawMade      EventKind = "draw_made"
	EventHandArranged  EventKind = "hand_arranged"
	EventMeldingDone   EventKind = "melding_done"
	EventCardDiscarded EventKind = "card_discarded"
	EventDiguDeclared  EventKind = "digu_declared"
	EventDiguAbandoned EventKind = "digu_abandoned"
	EventStatsReset    EventKind = "stats_reset"
)

// Event is a game event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

type MatchStartedPayload struct {
	Dealer       int
	TargetPoints int
}

type HandDealtPayload struct {
	Seat int
	Hand []domain.Card
}

type RoundStartedPayload struct {
	Dealer int
	Leader int
}

type CardPlayedPayload struct {
	Seat     int
	Card     domain.Card
	NextSeat int
}

type TrumpEstablishedPayload struct {
	Suit domain.Suit
	Seat int
}

type TrickWonPayload struct {
	Winner      int
	Team        domain.Team
	WinningCard domain.Card
	Tens        []domain.Card
	Plays       []domain.Play
	TrickNo     int
	NextSeat    int
	TricksWon   [2]int
}

type RoundEndedPayload struct {
	Result domain.RoundResult
	Points [2]int
	Dealer int
}

type MatchEndedPayload struct {
	Winner domain.Team
	Points [2]int
}

type MatchAbandonedPayload struct {
	Seat int
}

type DiguStartedPayload struct {
	Dealer    int
	FirstSeat int
}

type DiguDealtPayload struct {
	Seat       int
	Hand       []domain.Card
	StockCount int
	DiscardTop domain.Card
}

type CardDrawnPayload struct {
	Seat   int
	Source string
	Card   domain.Card
}

type DrawMadePayload struct {
	Seat       int
	Source     string
	Card       domain.Card // zero unless drawn from the discard pile
	StockCount int
	Reshuffled bool
}

type HandArrangedPayload struct {
	Seat int
	Hand []domain.Card
}

type MeldingDonePayload struct {
	Seat int
}

type CardDiscardedPayload struct {
	Seat       int
	Card       domain.Card
	NextSeat   int
	StockCount int
}

type DiguDeclaredPayload struct {
	Result digu.Result
	Stats  digu.Stats
}

type DiguAbandonedPayload struct {
	Seat int
}

type StatsResetPayload struct{}
