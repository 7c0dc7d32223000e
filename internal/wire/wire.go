// Package wire defines the JSON payloads exchanged with clients. Both
// hosting layers (the Nakama module and the standalone room server) speak
// this format; cards, plays and results reuse the domain encoding.
package wire

import (
	"dhihaei/internal/digu"
	"dhihaei/internal/domain"
)

// Client -> Server requests.

type StartGameRequest struct {
	TargetPoints int `json:"target_points,omitempty"`
}

type PlayCardRequest struct {
	Card domain.Card `json:"card"`
}

type DrawCardRequest struct {
	Source string `json:"source"` // "stock" or "discard"
}

type RearrangeRequest struct {
	Order []domain.Card `json:"order"`
}

type DiscardRequest struct {
	Card domain.Card `json:"card"`
}

// Server -> Client events.

type PlayerState struct {
	UserID      string `json:"user_id"`
	Seat        int    `json:"seat"`
	IsOwner     bool   `json:"is_owner"`
	DisplayName string `json:"display_name"`
	IsBot       bool   `json:"is_bot"`
}

type LobbyStateEvent struct {
	Seats     []string      `json:"seats"`
	OwnerSeat int           `json:"owner_seat"`
	Players   []PlayerState `json:"players"`
}

type GameErrorEvent struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type MatchStartedEvent struct {
	Dealer       int `json:"dealer"`
	TargetPoints int `json:"target_points"`
}

type HandDealtEvent struct {
	Seat int           `json:"seat"`
	Hand []domain.Card `json:"hand"`
}

type RoundStartedEvent struct {
	Dealer int `json:"dealer"`
	Leader int `json:"leader"`
}

type CardPlayedEvent struct {
	Seat     int         `json:"seat"`
	Card     domain.Card `json:"card"`
	NextSeat int         `json:"next_seat"`
}

type TrumpEstablishedEvent struct {
	Suit domain.Suit `json:"suit"`
	Seat int         `json:"seat"`
}

type TrickWonEvent struct {
	Winner      int           `json:"winner"`
	Team        domain.Team   `json:"team"`
	WinningCard domain.Card   `json:"winning_card"`
	Tens        []domain.Card `json:"tens"`
	Plays       []domain.Play `json:"plays"`
	TrickNo     int           `json:"trick_no"`
	NextSeat    int           `json:"next_seat"`
	TricksWon   [2]int        `json:"tricks_won"`
}

type RoundEndedEvent struct {
	Result      domain.RoundResult `json:"result"`
	MatchPoints [2]int             `json:"match_points"`
	Dealer      int                `json:"dealer"`
}

type MatchEndedEvent struct {
	Winner domain.Team `json:"winner"`
	Points [2]int      `json:"points"`
}

type MatchAbandonedEvent struct {
	Seat int `json:"seat"`
}

type DiguStartedEvent struct {
	Dealer    int `json:"dealer"`
	FirstSeat int `json:"first_seat"`
}

type DiguDealtEvent struct {
	Seat       int           `json:"seat"`
	Hand       []domain.Card `json:"hand"`
	StockCount int           `json:"stock_count"`
	DiscardTop domain.Card   `json:"discard_top"`
}

type CardDrawnEvent struct {
	Seat   int         `json:"seat"`
	Source string      `json:"source"`
	Card   domain.Card `json:"card"`
}

type DrawMadeEvent struct {
	Seat       int          `json:"seat"`
	Source     string       `json:"source"`
	Card       *domain.Card `json:"card,omitempty"` // only for discard draws
	StockCount int          `json:"stock_count"`
	Reshuffled bool         `json:"reshuffled"`
}

type HandArrangedEvent struct {
	Seat int           `json:"seat"`
	Hand []domain.Card `json:"hand"`
}

type MeldingDoneEvent struct {
	Seat int `json:"seat"`
}

type CardDiscardedEvent struct {
	Seat       int         `json:"seat"`
	Card       domain.Card `json:"card"`
	NextSeat   int         `json:"next_seat"`
	StockCount int         `json:"stock_count"`
}

type DiguDeclaredEvent struct {
	Result digu.Result `json:"result"`
	Stats  digu.Stats  `json:"stats"`
}

type DiguAbandonedEvent struct {
	Seat int `json:"seat"`
}

type StatsResetEvent struct{}

// FindMatchRequest selects which game to match into.
type FindMatchRequest struct {
	Game string `json:"game"`
}

// FindMatchResponse is the payload returned to clients when requesting a match.
type FindMatchResponse struct {
	MatchID string `json:"match_id"`
	IsNew   bool   `json:"is_new"`
}

// SessionTokenRequest asks for a rejoin token for a seat the caller holds.
type SessionTokenRequest struct {
	MatchID string `json:"match_id"`
	Seat    int    `json:"seat"`
}

// SessionTokenResponse carries the signed rejoin token.
type SessionTokenResponse struct {
	Token string `json:"token"`
}
