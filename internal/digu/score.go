package digu

import "dhihaei/internal/domain"

// CardValue returns the scoring value of a card: aces count 15, court cards
// count 10, everything else counts its face rank.
func CardValue(c domain.Card) int {
	switch {
	case c.Rank == domain.RankAce:
		return 15
	case c.Rank >= domain.RankJack:
		return 10
	default:
		return c.Rank
	}
}

// HandValue sums the scoring values of the cards.
func HandValue(cards []domain.Card) int {
	total := 0
	for _, c := range cards {
		total += CardValue(c)
	}
	return total
}

// MeldedSplit divides a hand into its melded and unmelded cards. Each of the
// three slicings is tried over the first ten cards; slices that validate
// count as melded and the slicing that melds the most value wins. Cards past
// the tenth are always unmelded.
func MeldedSplit(hand []domain.Card) (melded, unmelded []domain.Card) {
	if len(hand) < 10 {
		return nil, append([]domain.Card{}, hand...)
	}
	first := hand[:10]

	bestValue := -1
	var bestMelded, bestUnmelded []domain.Card
	for _, sizes := range partitionSizes {
		p := sliceParts(first, sizes)
		var m, u []domain.Card
		for _, meld := range p.Melds {
			if IsValidMeld(meld) {
				m = append(m, meld...)
			} else {
				u = append(u, meld...)
			}
		}
		if v := HandValue(m); v > bestValue {
			bestValue = v
			bestMelded, bestUnmelded = m, u
		}
	}

	bestUnmelded = append(bestUnmelded, hand[10:]...)
	return bestMelded, bestUnmelded
}

// Result carries the outcome of a finished game.
type Result struct {
	WinnerSeat    int          `json:"winnerSeat"`
	Winner        domain.Team  `json:"winner"`
	TeamScores    [2]int       `json:"teamScores"`
	MeldedValue   [4]int       `json:"meldedValue"`
	UnmeldedValue [4]int       `json:"unmeldedValue"`
	Partitions    [4]Partition `json:"partitions"`
}

// scoreGame settles a game won by winnerSeat. The winning team banks 100
// plus the melded value of both its hands; the losing team is debited the
// unmelded value of both of its hands.
func scoreGame(hands *[4][]domain.Card, winnerSeat int) *Result {
	res := &Result{WinnerSeat: winnerSeat, Winner: domain.TeamOf(winnerSeat)}
	for seat := 0; seat < 4; seat++ {
		m, u := MeldedSplit(hands[seat])
		res.MeldedValue[seat] = HandValue(m)
		res.UnmeldedValue[seat] = HandValue(u)
		if p, ok := FindWinningPartition(hands[seat]); ok {
			res.Partitions[seat] = p
		} else {
			res.Partitions[seat] = DefaultPartition(hands[seat])
		}
	}
	loser := res.Winner.Other()
	for seat := 0; seat < 4; seat++ {
		switch domain.TeamOf(seat) {
		case res.Winner:
			res.TeamScores[res.Winner] += res.MeldedValue[seat]
		case loser:
			res.TeamScores[loser] -= res.UnmeldedValue[seat]
		}
	}
	res.TeamScores[res.Winner] += 100
	return res
}
