package domain

import "math/rand"

// MatchStatus is the lifecycle state of a whole match.
type MatchStatus string

const (
	MatchPlaying   MatchStatus = "playing"
	MatchEnded     MatchStatus = "ended"
	MatchAbandoned MatchStatus = "abandoned"
)

// Match accumulates round results into match points. One match point is
// awarded per won round; the dealer only passes on when the dealer's own
// team won the round just played.
type Match struct {
	Points       [2]int
	WinTallies   [2]map[WinType]int
	Dealer       int
	TargetPoints int // 0 keeps the match running with no automatic end
	Shuffles     [4]int
	RoundsPlayed int
	Round        *Round
	Status       MatchStatus
	Winner       Team
	AbandonedBy  int
}

// NewMatch creates a match with the given first dealer and target score.
func NewMatch(dealer, targetPoints int) *Match {
	return &Match{
		WinTallies:   [2]map[WinType]int{{}, {}},
		Dealer:       dealer,
		TargetPoints: targetPoints,
		Status:       MatchPlaying,
		AbandonedBy:  -1,
	}
}

// RoundInProgress reports whether a round is currently being played.
func (m *Match) RoundInProgress() bool {
	return m.Round != nil && m.Round.Status == RoundPlaying
}

// StartRound deals a fresh round. The dealer shuffles and the seat after the
// dealer leads the first trick.
func (m *Match) StartRound(rng *rand.Rand) error {
	if m.Status != MatchPlaying || m.RoundInProgress() {
		return ErrOutOfTurn
	}

	dealt := Deal(rng, 4)
	m.Shuffles[m.Dealer]++

	var hands [4][]Card
	for i := range hands {
		hands[i] = dealt[i]
		SortHand(hands[i])
	}
	m.Round = NewRound(hands, NextSeat(m.Dealer))
	return nil
}

// PlayCard forwards the play to the current round and folds a finished
// round's result into the match.
func (m *Match) PlayCard(seat int, card Card) (PlayResult, error) {
	if m.Status != MatchPlaying || m.Round == nil {
		return PlayResult{}, ErrOutOfTurn
	}
	res, err := m.Round.PlayCard(seat, card)
	if err != nil {
		return res, err
	}
	if res.Round != nil {
		m.applyRoundResult(res.Round)
	}
	return res, nil
}

func (m *Match) applyRoundResult(res *RoundResult) {
	m.RoundsPlayed++
	if res.Tie {
		return
	}

	m.Points[res.Winner] += res.Points
	m.WinTallies[res.Winner][res.Type]++

	// The deal moves on only when the dealer's team just won.
	if TeamOf(m.Dealer) == res.Winner {
		m.Dealer = NextSeat(m.Dealer)
	}

	if m.TargetPoints > 0 && m.Points[res.Winner] >= m.TargetPoints {
		m.Status = MatchEnded
		m.Winner = res.Winner
	}
}

// Abandon terminates the match because a seat left mid-round. The current
// round, if any, is abandoned with it.
func (m *Match) Abandon(seat int) error {
	if m.Status != MatchPlaying {
		return ErrOutOfTurn
	}
	if m.RoundInProgress() {
		_ = m.Round.Abandon(seat)
	}
	m.Status = MatchAbandoned
	m.AbandonedBy = seat
	return nil
}
