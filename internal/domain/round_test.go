package domain

import "testing"

func card(suit Suit, rank int) Card {
	return Card{Suit: suit, Rank: rank}
}

// playOut feeds the given plays in order and fails the test on any rejection.
func playOut(t *testing.T, r *Round, plays []Play) {
	t.Helper()
	for _, p := range plays {
		if _, err := r.PlayCard(p.Seat, p.Card); err != nil {
			t.Fatalf("seat %d playing %v: %v", p.Seat, p.Card, err)
		}
	}
}

func TestPlayCardRejections(t *testing.T) {
	hands := [4][]Card{
		{card(Hearts, RankAce), card(Diamonds, 3)},
		{card(Hearts, 5), card(Diamonds, 7)},
		{card(Hearts, 3), card(Diamonds, 6)},
		{card(Clubs, 2), card(Diamonds, 4)},
	}
	r := NewRound(hands, 0)

	if _, err := r.PlayCard(2, card(Hearts, 3)); err != ErrOutOfTurn {
		t.Errorf("out of turn play: got %v, expected ErrOutOfTurn", err)
	}
	if _, err := r.PlayCard(0, card(Spades, 9)); err != ErrCardNotFound {
		t.Errorf("absent card: got %v, expected ErrCardNotFound", err)
	}

	playOut(t, r, []Play{{Card: card(Hearts, RankAce), Seat: 0}})

	// Turn order runs counter-clockwise: seat 3 acts after seat 0.
	if _, err := r.PlayCard(2, card(Hearts, 3)); err != ErrOutOfTurn {
		t.Errorf("seat 2 before seat 3: got %v, expected ErrOutOfTurn", err)
	}
	if _, err := r.PlayCard(3, card(Clubs, 2)); err != nil {
		t.Errorf("seat 3 in turn: %v", err)
	}
}

func TestMustFollowLedSuit(t *testing.T) {
	hands := [4][]Card{
		{card(Hearts, RankAce), card(Diamonds, 3)},
		{card(Hearts, 5), card(Diamonds, 7)},
		{card(Hearts, 3), card(Diamonds, 6)},
		{card(Hearts, 2), card(Diamonds, 4)},
	}
	r := NewRound(hands, 0)
	playOut(t, r, []Play{{Card: card(Hearts, RankAce), Seat: 0}})

	// Seat 3 is next and holds a heart: a diamond must be rejected and the
	// rejection must not mutate the round.
	handBefore := len(r.Hands[3])
	if _, err := r.PlayCard(3, card(Diamonds, 4)); err != ErrInvalidPlay {
		t.Fatalf("expected ErrInvalidPlay, got %v", err)
	}
	if len(r.Hands[3]) != handBefore || len(r.Trick.Plays) != 1 {
		t.Error("rejected play mutated round state")
	}

	valid := r.ValidPlays(3)
	if len(valid) != 1 || valid[0] != card(Hearts, 2) {
		t.Errorf("valid plays for seat 3 = %v, expected only the heart", valid)
	}
}

func TestTrumpEstablishmentScenario(t *testing.T) {
	// Led suit hearts, seat 3 holds no hearts and plays a club: clubs become
	// trump. When the same seat is off suit again later, trump is unchanged.
	hands := [4][]Card{
		{card(Hearts, RankAce), card(Diamonds, RankAce)},
		{card(Hearts, 5), card(Diamonds, 7)},
		{card(Hearts, 3), card(Diamonds, 6)},
		{card(Clubs, 2), card(Diamonds, 3)},
	}
	r := NewRound(hands, 0)

	playOut(t, r, []Play{{Card: card(Hearts, RankAce), Seat: 0}})

	res, err := r.PlayCard(3, card(Clubs, 2))
	if err != nil {
		t.Fatalf("off-suit play rejected: %v", err)
	}
	if !res.TrumpEstablished || r.Trump != Clubs || r.TrumpSeat != 3 {
		t.Fatalf("trump not established as clubs by seat 3: %+v trump=%v seat=%d", res, r.Trump, r.TrumpSeat)
	}

	playOut(t, r, []Play{
		{Card: card(Hearts, 3), Seat: 2},
		{Card: card(Hearts, 5), Seat: 1},
	})

	// The low trump wins the trick over the led ace.
	if r.CurrentSeat != 3 {
		t.Fatalf("trump winner should lead next trick, current seat = %d", r.CurrentSeat)
	}

	// Second trick: seat 3 leads a diamond. Leading never changes trump and
	// later follows keep it fixed.
	res, err = r.PlayCard(3, card(Diamonds, 3))
	if err != nil {
		t.Fatalf("lead rejected: %v", err)
	}
	if res.TrumpEstablished || r.Trump != Clubs {
		t.Errorf("trump changed on lead: %v", r.Trump)
	}
	playOut(t, r, []Play{
		{Card: card(Diamonds, 6), Seat: 2},
		{Card: card(Diamonds, 7), Seat: 1},
		{Card: card(Diamonds, RankAce), Seat: 0},
	})
	if r.Trump != Clubs || r.TrumpSeat != 3 {
		t.Errorf("trump drifted after round: %v seat %d", r.Trump, r.TrumpSeat)
	}
}

func TestRoundEndsWhenTensSplitUnevenly(t *testing.T) {
	// Team A (seats 0 and 2) takes three tens, team B one: the round must
	// end immediately after the fourth ten is captured, type normal.
	hands := [4][]Card{
		{card(Spades, RankTen), card(Hearts, RankAce), card(Clubs, RankTen), card(Diamonds, 3)},
		{card(Spades, 2), card(Hearts, 2), card(Clubs, 3), card(Diamonds, RankTen)},
		{card(Spades, RankAce), card(Hearts, RankTen), card(Clubs, RankAce), card(Diamonds, 2)},
		{card(Spades, 4), card(Hearts, 3), card(Clubs, 2), card(Diamonds, RankAce)},
	}
	r := NewRound(hands, 0)

	playOut(t, r, []Play{
		// Trick 1: seat 2 wins the ten of spades for team A.
		{Card: card(Spades, RankTen), Seat: 0},
		{Card: card(Spades, 4), Seat: 3},
		{Card: card(Spades, RankAce), Seat: 2},
		{Card: card(Spades, 2), Seat: 1},
		// Trick 2: seat 0 wins the ten of hearts for team A.
		{Card: card(Hearts, RankTen), Seat: 2},
		{Card: card(Hearts, 2), Seat: 1},
		{Card: card(Hearts, RankAce), Seat: 0},
		{Card: card(Hearts, 3), Seat: 3},
		// Trick 3: seat 2 wins the ten of clubs for team A.
		{Card: card(Clubs, RankTen), Seat: 0},
		{Card: card(Clubs, 2), Seat: 3},
		{Card: card(Clubs, RankAce), Seat: 2},
		{Card: card(Clubs, 3), Seat: 1},
		// Trick 4: seat 3 wins the ten of diamonds for team B.
		{Card: card(Diamonds, 2), Seat: 2},
		{Card: card(Diamonds, RankTen), Seat: 1},
		{Card: card(Diamonds, 3), Seat: 0},
		{Card: card(Diamonds, RankAce), Seat: 3},
	})

	if r.Status != RoundResolved || r.Result == nil {
		t.Fatalf("round should be resolved, status %v", r.Status)
	}
	res := r.Result
	if res.Tie || res.Winner != TeamA || res.Type != WinNormal || res.Points != 1 {
		t.Errorf("unexpected result %+v, expected team A normal win worth 1 point", res)
	}
	if res.TensTaken != [2]int{3, 1} {
		t.Errorf("tens taken %v, expected [3 1]", res.TensTaken)
	}

	// The resolved round accepts no further plays.
	if _, err := r.PlayCard(3, card(Diamonds, RankAce)); err != ErrOutOfTurn {
		t.Errorf("play after resolution: got %v, expected ErrOutOfTurn", err)
	}
}

func TestAllTensWin(t *testing.T) {
	hands := [4][]Card{
		{card(Spades, RankTen), card(Hearts, RankAce), card(Clubs, RankTen), card(Diamonds, RankAce)},
		{card(Spades, 3), card(Hearts, 2), card(Clubs, 3), card(Diamonds, 2)},
		{card(Spades, RankAce), card(Hearts, RankTen), card(Clubs, RankAce), card(Diamonds, RankTen)},
		{card(Spades, 2), card(Hearts, 3), card(Clubs, 2), card(Diamonds, 3)},
	}
	r := NewRound(hands, 0)

	playOut(t, r, []Play{
		{Card: card(Spades, RankTen), Seat: 0},
		{Card: card(Spades, 2), Seat: 3},
		{Card: card(Spades, RankAce), Seat: 2},
		{Card: card(Spades, 3), Seat: 1},

		{Card: card(Hearts, RankTen), Seat: 2},
		{Card: card(Hearts, 2), Seat: 1},
		{Card: card(Hearts, RankAce), Seat: 0},
		{Card: card(Hearts, 3), Seat: 3},

		{Card: card(Clubs, RankTen), Seat: 0},
		{Card: card(Clubs, 2), Seat: 3},
		{Card: card(Clubs, RankAce), Seat: 2},
		{Card: card(Clubs, 3), Seat: 1},

		{Card: card(Diamonds, RankTen), Seat: 2},
		{Card: card(Diamonds, 2), Seat: 1},
		{Card: card(Diamonds, RankAce), Seat: 0},
		{Card: card(Diamonds, 3), Seat: 3},
	})

	if r.Result == nil || r.Result.Type != WinAllTens || r.Result.Winner != TeamA {
		t.Fatalf("expected team A all-tens win, got %+v", r.Result)
	}
	if len(r.Tens[TeamA]) != 4 {
		t.Errorf("team A should hold all four tens, has %v", r.Tens[TeamA])
	}
}

func TestWinClassificationLadder(t *testing.T) {
	r := NewRound([4][]Card{{}, {}, {}, {}}, 0)
	r.TricksPlayed = 13
	r.TricksWon = [2]int{13, 0}
	r.Tens[TeamA] = []Card{
		card(Spades, RankTen), card(Hearts, RankTen),
		card(Clubs, RankTen), card(Diamonds, RankTen),
	}

	// Four tens outrank everything, even a trickless loser.
	if got := r.classifyWin(TeamA, TeamB); got != WinAllTens {
		t.Errorf("classified %v, want %v", got, WinAllTens)
	}

	r.Tens[TeamA] = r.Tens[TeamA][:3]
	if got := r.classifyWin(TeamA, TeamB); got != WinShutout {
		t.Errorf("trickless loser classified %v, want %v", got, WinShutout)
	}

	r.TricksWon = [2]int{12, 1}
	if got := r.classifyWin(TeamA, TeamB); got != WinNormal {
		t.Errorf("classified %v, want %v", got, WinNormal)
	}
}

func TestTiedRoundResult(t *testing.T) {
	// A 13-trick deal cannot reach this state (odd trick count), but the
	// resolution rule covers it: even tens, even tricks, nobody scores.
	r := NewRound([4][]Card{{}, {}, {}, {}}, 0)
	r.TricksPlayed = 14
	r.TricksWon = [2]int{7, 7}
	r.Tens[TeamA] = []Card{card(Spades, RankTen), card(Hearts, RankTen)}
	r.Tens[TeamB] = []Card{card(Clubs, RankTen), card(Diamonds, RankTen)}

	res := r.checkRoundWinner()
	if res == nil || !res.Tie {
		t.Fatalf("result = %+v, want tie", res)
	}
	if res.Points != 0 {
		t.Fatalf("tie awarded %d points", res.Points)
	}

	// With the tens still even, the trick count breaks the round.
	r.TricksWon = [2]int{8, 6}
	res = r.checkRoundWinner()
	if res == nil || res.Tie || res.Winner != TeamA || res.Type != WinNormal {
		t.Fatalf("trick tiebreak result = %+v", res)
	}
}

func TestAbandonRound(t *testing.T) {
	hands := [4][]Card{
		{card(Hearts, RankAce)}, {card(Hearts, 5)}, {card(Hearts, 3)}, {card(Hearts, 2)},
	}
	r := NewRound(hands, 0)

	if err := r.Abandon(2); err != nil {
		t.Fatalf("abandon failed: %v", err)
	}
	if r.Status != RoundAbandoned || r.AbandonedBy != 2 {
		t.Errorf("status %v abandonedBy %d", r.Status, r.AbandonedBy)
	}
	if r.Result != nil {
		t.Error("abandoned round must not carry a normal result")
	}
	if _, err := r.PlayCard(0, card(Hearts, RankAce)); err != ErrOutOfTurn {
		t.Errorf("play after abandonment: got %v", err)
	}
}
