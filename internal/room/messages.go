package room

import (
	"encoding/json"

	"dhihaei/internal/app"
	"dhihaei/internal/wire"
)

// Envelope frames every message on the room socket. Game events reuse the
// shared wire payloads with the event kind as the envelope type.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Client -> server message types.
const (
	MsgCreateRoom = "create_room"
	MsgJoinRoom   = "join_room"
	MsgLeaveRoom  = "leave_room"
	MsgSetReady   = "set_ready"
	MsgSwapSeat   = "swap_seat"
	MsgAddBots    = "add_bots"
	MsgStartGame  = "start_game"
	MsgPlayCard   = "play_card"
)

// Server -> client message types. Game events use app.EventKind strings.
const (
	MsgRoomCreated = "room_created"
	MsgRoomJoined  = "room_joined"
	MsgRoomState   = "room_state"
	MsgError       = "error"
)

type CreateRoomRequest struct {
	Name string `json:"name"`
}

type JoinRoomRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type SetReadyRequest struct {
	Ready bool `json:"ready"`
}

// SwapSeatRequest asks the host to move the player at Seat onto the other
// team, into an empty slot when one exists or else trading places.
type SwapSeatRequest struct {
	Seat int `json:"seat"`
}

// RoomJoinedEvent confirms a create or join to the requesting client.
type RoomJoinedEvent struct {
	Code string `json:"code"`
	Seat int    `json:"seat"`
}

type SeatInfo struct {
	Seat     int    `json:"seat"`
	Name     string `json:"name,omitempty"`
	Ready    bool   `json:"ready"`
	IsBot    bool   `json:"is_bot"`
	Occupied bool   `json:"occupied"`
}

type RoomStateEvent struct {
	Code     string      `json:"code"`
	Seats    [4]SeatInfo `json:"seats"`
	HostSeat int         `json:"host_seat"`
	Started  bool        `json:"started"`
}

// encode wraps a payload in an Envelope and marshals the whole frame.
func encode(msgType string, payload any) ([]byte, error) {
	var data json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		data = b
	}
	return json.Marshal(Envelope{Type: msgType, Data: data})
}

// wirePayload converts an app event into its client wire form.
func wirePayload(ev app.Event) any {
	switch p := ev.Payload.(type) {
	case app.MatchStartedPayload:
		return wire.MatchStartedEvent{Dealer: p.Dealer, TargetPoints: p.TargetPoints}
	case app.HandDealtPayload:
		return wire.HandDealtEvent{Seat: p.Seat, Hand: p.Hand}
	case app.RoundStartedPayload:
		return wire.RoundStartedEvent{Dealer: p.Dealer, Leader: p.Leader}
	case app.CardPlayedPayload:
		return wire.CardPlayedEvent{Seat: p.Seat, Card: p.Card, NextSeat: p.NextSeat}
	case app.TrumpEstablishedPayload:
		return wire.TrumpEstablishedEvent{Suit: p.Suit, Seat: p.Seat}
	case app.TrickWonPayload:
		return wire.TrickWonEvent{
			Winner:      p.Winner,
			Team:        p.Team,
			WinningCard: p.WinningCard,
			Tens:        p.Tens,
			Plays:       p.Plays,
			TrickNo:     p.TrickNo,
			NextSeat:    p.NextSeat,
			TricksWon:   p.TricksWon,
		}
	case app.RoundEndedPayload:
		return wire.RoundEndedEvent{Result: p.Result, MatchPoints: p.Points, Dealer: p.Dealer}
	case app.MatchEndedPayload:
		return wire.MatchEndedEvent{Winner: p.Winner, Points: p.Points}
	case app.MatchAbandonedPayload:
		return wire.MatchAbandonedEvent{Seat: p.Seat}
	default:
		return nil
	}
}
