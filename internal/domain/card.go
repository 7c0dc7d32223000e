package domain

import "strconv"

// Suit identifies one of the four French suits. The zero value SuitNone
// marks "no suit" (no led suit yet, no trump established).
type Suit int

const (
	SuitNone Suit = iota
	Spades
	Hearts
	Clubs
	Diamonds
)

// String returns the one-letter suit code used on the wire.
func (s Suit) String() string {
	switch s {
	case Spades:
		return "S"
	case Hearts:
		return "H"
	case Clubs:
		return "C"
	case Diamonds:
		return "D"
	default:
		return ""
	}
}

// Suits lists the four real suits in deck order.
var Suits = [4]Suit{Spades, Hearts, Clubs, Diamonds}

// Rank constants. Ranks run 2..14 with the ace always high.
const (
	RankTwo   = 2
	RankTen   = 10
	RankJack  = 11
	RankQueen = 12
	RankKing  = 13
	RankAce   = 14
)

// Card is a single playing card. Equality is by (suit, rank).
type Card struct {
	Suit Suit `json:"suit"`
	Rank int  `json:"rank"` // 2..14, 11=J 12=Q 13=K 14=A
}

// IsTen reports whether the card is one of the four tens the trick game
// is played for.
func (c Card) IsTen() bool {
	return c.Rank == RankTen
}

// String renders the card as rank code plus suit letter, e.g. "10S", "QH".
func (c Card) String() string {
	var r string
	switch c.Rank {
	case RankJack:
		r = "J"
	case RankQueen:
		r = "Q"
	case RankKing:
		r = "K"
	case RankAce:
		r = "A"
	default:
		r = strconv.Itoa(c.Rank)
	}
	return r + c.Suit.String()
}

// Team is one of the two fixed partnerships: seats 0 and 2 against
// seats 1 and 3.
type Team int

const (
	TeamA Team = 0
	TeamB Team = 1
)

// TeamOf returns the team a seat belongs to.
func TeamOf(seat int) Team {
	return Team(seat % 2)
}

// Other returns the opposing team.
func (t Team) Other() Team {
	return 1 - t
}

// NextSeat returns the seat that acts after the given one. Play runs
// counter-clockwise, so the next seat is seat-1 mod 4.
func NextSeat(seat int) int {
	return (seat + 3) % 4
}

// PartnerSeat returns the seat of the given seat's partner.
func PartnerSeat(seat int) int {
	return (seat + 2) % 4
}
