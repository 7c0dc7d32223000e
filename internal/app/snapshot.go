package app

import (
	"dhihaei/internal/digu"
	"dhihaei/internal/domain"
)

// SeatView is the public face of one seat.
type SeatView struct {
	Seat      int
	UserID    string
	CardCount int
}

// MatchSnapshot is the trick game as one seat may see it: the own hand in
// full, everyone else reduced to card counts.
type MatchSnapshot struct {
	Seat         int
	Hand         []domain.Card
	Seats        [4]SeatView
	Trick        []domain.Play
	Trump        domain.Suit
	TrumpSeat    int
	CurrentSeat  int
	TricksPlayed int
	TricksWon    [2]int
	TensTaken    [2]int
	Points       [2]int
	RoundsPlayed int
	WinTallies   [2]map[domain.WinType]int
	Shuffles     [4]int
	Dealer       int
	TargetPoints int
	Status       domain.MatchStatus
}

// SnapshotFor renders the match for one seat without leaking hidden hands.
// A negative seat produces a spectator view.
func SnapshotFor(m *domain.Match, seats [4]string, seat int) MatchSnapshot {
	snap := MatchSnapshot{
		Seat:         seat,
		Points:       m.Points,
		RoundsPlayed: m.RoundsPlayed,
		Shuffles:     m.Shuffles,
		Dealer:       m.Dealer,
		TargetPoints: m.TargetPoints,
		Status:       m.Status,
		CurrentSeat:  -1,
		TrumpSeat:    -1,
	}
	for team := 0; team < 2; team++ {
		snap.WinTallies[team] = make(map[domain.WinType]int, len(m.WinTallies[team]))
		for kind, n := range m.WinTallies[team] {
			snap.WinTallies[team][kind] = n
		}
	}
	for i := 0; i < 4; i++ {
		snap.Seats[i] = SeatView{Seat: i, UserID: seats[i]}
	}
	r := m.Round
	if r == nil {
		return snap
	}
	for i := 0; i < 4; i++ {
		snap.Seats[i].CardCount = len(r.Hands[i])
	}
	if seat >= 0 && seat < 4 {
		snap.Hand = append([]domain.Card{}, r.Hands[seat]...)
	}
	snap.Trick = append([]domain.Play{}, r.Trick.Plays...)
	snap.Trump = r.Trump
	snap.TrumpSeat = r.TrumpSeat
	snap.CurrentSeat = r.CurrentSeat
	snap.TricksPlayed = r.TricksPlayed
	snap.TricksWon = r.TricksWon
	snap.TensTaken = [2]int{len(r.Tens[0]), len(r.Tens[1])}
	return snap
}

// DiguSnapshot is the rummy table as one seat may see it.
type DiguSnapshot struct {
	Seat        int
	Hand        []domain.Card
	Seats       [4]SeatView
	Phase       digu.Phase
	CurrentSeat int
	StockCount  int
	DiscardTop  *domain.Card
	Dealer      int
	Shuffles    [4]int
	Stats       digu.Stats
	Result      *digu.Result
}

// DiguSnapshotFor renders the table for one seat without leaking hands.
func DiguSnapshotFor(t *digu.Table, seats [4]string, seat int) DiguSnapshot {
	snap := DiguSnapshot{
		Seat:        seat,
		Dealer:      t.Dealer,
		Stats:       t.Stats,
		CurrentSeat: -1,
	}
	for i := 0; i < 4; i++ {
		snap.Seats[i] = SeatView{Seat: i, UserID: seats[i]}
	}
	g := t.Game
	if g == nil {
		return snap
	}
	for i := 0; i < 4; i++ {
		snap.Seats[i].CardCount = len(g.Hands[i])
	}
	if seat >= 0 && seat < 4 {
		snap.Hand = append([]domain.Card{}, g.Hands[seat]...)
	}
	snap.Phase = g.Phase
	snap.CurrentSeat = g.CurrentSeat
	snap.StockCount = g.StockCount()
	snap.Dealer = g.Dealer
	snap.Shuffles = g.Shuffles
	snap.Result = g.Result
	if top, ok := g.DiscardTop(); ok {
		snap.DiscardTop = &top
	}
	return snap
}
