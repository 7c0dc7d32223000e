package domain

// SeatControl says how a seat's moves are supplied: by the local UI, by a
// remote transport, or by a scripted strategy.
type SeatControl int

const (
	ControlLocal SeatControl = iota
	ControlRemote
	ControlScripted
)

func (c SeatControl) String() string {
	switch c {
	case ControlLocal:
		return "local"
	case ControlRemote:
		return "remote"
	case ControlScripted:
		return "scripted"
	default:
		return "unknown"
	}
}

// Seat is a table position. Hands live on the round or game state; the seat
// carries only identity and control mode, which persist across rounds.
type Seat struct {
	Position int         `json:"position"` // 0..3
	Name     string      `json:"name"`
	Control  SeatControl `json:"control"`
}

// Team returns the partnership the seat belongs to.
func (s Seat) Team() Team {
	return TeamOf(s.Position)
}

// IsScripted reports whether the seat is driven by a strategy.
func (s Seat) IsScripted() bool {
	return s.Control == ControlScripted
}
