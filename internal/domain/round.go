package domain

// WinType classifies how a round was won. The point award is always one
// point regardless of type; the type is kept for display and tallies.
type WinType string

const (
	WinNormal  WinType = "normal"
	WinShutout WinType = "shutout"
	WinAllTens WinType = "all_tens"
)

// RoundStatus is the lifecycle state of a single round.
type RoundStatus string

const (
	RoundPlaying   RoundStatus = "playing"
	RoundResolved  RoundStatus = "resolved"
	RoundAbandoned RoundStatus = "abandoned"
)

// RoundResult is the terminal outcome of a resolved round.
type RoundResult struct {
	Tie       bool    `json:"tie"`
	Winner    Team    `json:"winner"`
	Type      WinType `json:"type,omitempty"`
	Points    int     `json:"points"`
	TricksWon [2]int  `json:"tricks_won"`
	TensTaken [2]int  `json:"tens_taken"`
}

// TrickResult reports a completed trick.
type TrickResult struct {
	Winner Play   `json:"winner"`
	Team   Team   `json:"team"`
	Plays  []Play `json:"plays"`
	Tens   []Card `json:"tens"`
}

// PlayResult reports everything that followed from one accepted play.
type PlayResult struct {
	TrumpEstablished bool
	Trick            *TrickResult // non-nil when the play completed a trick
	Round            *RoundResult // non-nil when the trick ended the round
}

// Round is the authoritative state of one round of the trick game: thirteen
// tricks played for the four tens.
type Round struct {
	Hands        [4][]Card
	Trick        Trick
	CurrentSeat  int
	TricksPlayed int
	Trump        Suit // SuitNone until established
	TrumpSeat    int  // seat that established the trump, -1 before
	TricksWon    [2]int
	Tens         [2][]Card // captured ten-cards per team, kept for display
	Status       RoundStatus
	Result       *RoundResult
	AbandonedBy  int
}

// NewRound starts a round from dealt hands with the given seat leading the
// first trick.
func NewRound(hands [4][]Card, leader int) *Round {
	return &Round{
		Hands:       hands,
		CurrentSeat: leader,
		Trump:       SuitNone,
		TrumpSeat:   -1,
		Status:      RoundPlaying,
		AbandonedBy: -1,
	}
}

// ValidPlays returns the cards the seat may legally play right now: the led
// suit must be followed when held, otherwise the whole hand is legal.
func (r *Round) ValidPlays(seat int) []Card {
	hand := r.Hands[seat]
	led := r.Trick.LedSuit()
	if led == SuitNone || !HasSuit(hand, led) {
		out := make([]Card, len(hand))
		copy(out, hand)
		return out
	}
	out := make([]Card, 0, len(hand))
	for _, c := range hand {
		if c.Suit == led {
			out = append(out, c)
		}
	}
	return out
}

// PlayCard applies one play for the seat. Rejected plays mutate nothing.
func (r *Round) PlayCard(seat int, card Card) (PlayResult, error) {
	if r.Status != RoundPlaying {
		return PlayResult{}, ErrOutOfTurn
	}
	if seat != r.CurrentSeat {
		return PlayResult{}, ErrOutOfTurn
	}
	if IndexOfCard(r.Hands[seat], card) < 0 {
		return PlayResult{}, ErrCardNotFound
	}
	if !r.isValidPlay(seat, card) {
		return PlayResult{}, ErrInvalidPlay
	}

	led := r.Trick.LedSuit()
	var res PlayResult
	if trump, established := ConsiderTrump(card, led, r.Trump); established {
		r.Trump = trump
		r.TrumpSeat = seat
		res.TrumpEstablished = true
	}

	r.Hands[seat], _ = RemoveCard(r.Hands[seat], card)
	_ = r.Trick.AddPlay(card, seat)

	if !r.Trick.Complete() {
		r.CurrentSeat = NextSeat(r.CurrentSeat)
		return res, nil
	}

	res.Trick = r.finishTrick()
	if r.Status == RoundResolved {
		res.Round = r.Result
	}
	return res, nil
}

func (r *Round) isValidPlay(seat int, card Card) bool {
	for _, c := range r.ValidPlays(seat) {
		if c == card {
			return true
		}
	}
	return false
}

// finishTrick resolves the completed trick, moves captured tens, advances
// counters and checks for the round result. The trick winner leads next.
func (r *Round) finishTrick() *TrickResult {
	winner := r.Trick.Resolve(r.Trump)
	team := TeamOf(winner.Seat)
	tens := r.Trick.Tens()

	r.TricksWon[team]++
	r.Tens[team] = append(r.Tens[team], tens...)
	r.TricksPlayed++

	result := &TrickResult{
		Winner: winner,
		Team:   team,
		Plays:  r.Trick.Plays,
		Tens:   tens,
	}

	if round := r.checkRoundWinner(); round != nil {
		r.Status = RoundResolved
		r.Result = round
	} else {
		r.CurrentSeat = winner.Seat
		r.Trick = Trick{}
	}
	return result
}

// checkRoundWinner returns the round result once decided: either all four
// tens are out and split unevenly, or thirteen tricks have been played.
// Before that it returns nil.
func (r *Round) checkRoundWinner() *RoundResult {
	tensA, tensB := len(r.Tens[TeamA]), len(r.Tens[TeamB])

	if tensA+tensB == 4 && tensA != tensB {
		winner := TeamA
		if tensB > tensA {
			winner = TeamB
		}
		return r.decidedResult(winner)
	}

	if r.TricksPlayed < 13 {
		return nil
	}

	// Thirteen tricks with a 2-2 ten split: broken by tricks won.
	winner := TeamA
	switch {
	case r.TricksWon[TeamA] > r.TricksWon[TeamB]:
		winner = TeamA
	case r.TricksWon[TeamB] > r.TricksWon[TeamA]:
		winner = TeamB
	default:
		return &RoundResult{
			Tie:       true,
			TricksWon: r.TricksWon,
			TensTaken: [2]int{tensA, tensB},
		}
	}
	return r.decidedResult(winner)
}

func (r *Round) decidedResult(winner Team) *RoundResult {
	loser := winner.Other()
	return &RoundResult{
		Winner:    winner,
		Type:      r.classifyWin(winner, loser),
		Points:    1,
		TricksWon: r.TricksWon,
		TensTaken: [2]int{len(r.Tens[TeamA]), len(r.Tens[TeamB])},
	}
}

func (r *Round) classifyWin(winner, loser Team) WinType {
	if len(r.Tens[winner]) == 4 {
		return WinAllTens
	}
	if r.TricksWon[loser] == 0 && r.TricksPlayed == 13 {
		return WinShutout
	}
	return WinNormal
}

// Abandon terminates the round without a result because the seat left.
func (r *Round) Abandon(seat int) error {
	if r.Status != RoundPlaying {
		return ErrOutOfTurn
	}
	r.Status = RoundAbandoned
	r.AbandonedBy = seat
	return nil
}
