package bot

import (
	"fmt"
	"sort"

	"dhihaei/internal/domain"
)

// BasicBot plays the decision ladder on table state alone, with no memory of
// earlier tricks.
type BasicBot struct{}

func (b *BasicBot) ChooseCard(turn Turn) (domain.Card, error) {
	if len(turn.Valid) == 0 {
		return domain.Card{}, fmt.Errorf("no playable cards for seat %d", turn.Seat)
	}
	if len(turn.Valid) == 1 {
		return turn.Valid[0], nil
	}
	if turn.LedSuit() == domain.SuitNone {
		return b.lead(turn), nil
	}
	if domain.HasSuit(turn.Valid, turn.LedSuit()) {
		return b.follow(turn), nil
	}
	return b.offSuit(turn), nil
}

func (b *BasicBot) ObserveRoundStart(hand []domain.Card) {}

func (b *BasicBot) ObservePlay(seat int, card domain.Card, ledSuit domain.Suit) {}

func (b *BasicBot) lead(turn Turn) domain.Card {
	if turn.Trump != domain.SuitNone {
		if top, ok := highestCard(cardsOfSuit(turn.Valid, turn.Trump)); ok && top.Rank >= DefaultTuning.TrumpLeadRank {
			return top
		}
	}
	if ten, ok := protectedTen(turn.Valid, turn.Hand); ok {
		return ten
	}
	return leadLowest(turn.Valid, turn.Hand, false)
}

func (b *BasicBot) follow(turn Turn) domain.Card {
	if turn.PartnerWinning() {
		if turn.ActsLast() && trickHasTen(turn.Trick) {
			if ten, ok := findTen(turn.Valid); ok {
				return ten
			}
		}
		return lowestPreferNonTen(turn.Valid)
	}
	winners := winningFollows(turn.Valid, turn.Trick, turn.Trump)
	if len(winners) > 0 {
		if trickHasTen(turn.Trick) || turn.ActsLast() {
			if top, ok := highestCard(winners); ok {
				return top
			}
		}
		return lowestPreferNonTen(winners)
	}
	return lowestPreferNonTen(turn.Valid)
}

func (b *BasicBot) offSuit(turn Turn) domain.Card {
	if turn.PartnerWinning() {
		if turn.ActsLast() {
			if ten, ok := findTen(turn.Valid); ok {
				return ten
			}
		}
		return lowestPreferNonTen(turn.Valid)
	}
	if c, ok := trumpIn(turn); ok {
		return c
	}
	return lowestFromShortestSuit(turn.Valid, turn.Hand)
}

// trumpIn decides whether to ruff a trick the partner is losing: the trump
// must beat every trump already played, and the trick has to be worth it
// (carries a ten, the seat acts last, or the seat holds several trumps).
func trumpIn(turn Turn) (domain.Card, bool) {
	if turn.Trump == domain.SuitNone {
		return domain.Card{}, false
	}
	trumps := cardsOfSuit(turn.Valid, turn.Trump)
	if len(trumps) == 0 {
		return domain.Card{}, false
	}
	floor := highestTrumpPlayed(turn.Trick, turn.Trump)
	var winning []domain.Card
	for _, c := range trumps {
		if c.Rank > floor {
			winning = append(winning, c)
		}
	}
	if len(winning) == 0 {
		return domain.Card{}, false
	}
	if !trickHasTen(turn.Trick) && !turn.ActsLast() && len(trumps) < DefaultTuning.SeveralTrumps {
		return domain.Card{}, false
	}
	low, _ := lowestCard(winning)
	return low, true
}

func cardsOfSuit(cards []domain.Card, suit domain.Suit) []domain.Card {
	var out []domain.Card
	for _, c := range cards {
		if c.Suit == suit {
			out = append(out, c)
		}
	}
	return out
}

func nonTens(cards []domain.Card) []domain.Card {
	var out []domain.Card
	for _, c := range cards {
		if !c.IsTen() {
			out = append(out, c)
		}
	}
	return out
}

func highestCard(cards []domain.Card) (domain.Card, bool) {
	if len(cards) == 0 {
		return domain.Card{}, false
	}
	best := cards[0]
	for _, c := range cards[1:] {
		if c.Rank > best.Rank {
			best = c
		}
	}
	return best, true
}

func lowestCard(cards []domain.Card) (domain.Card, bool) {
	if len(cards) == 0 {
		return domain.Card{}, false
	}
	best := cards[0]
	for _, c := range cards[1:] {
		if c.Rank < best.Rank {
			best = c
		}
	}
	return best, true
}

// lowestPreferNonTen returns the lowest candidate, spending tens only when
// nothing else is available.
func lowestPreferNonTen(cards []domain.Card) domain.Card {
	if pool := nonTens(cards); len(pool) > 0 {
		c, _ := lowestCard(pool)
		return c
	}
	c, _ := lowestCard(cards)
	return c
}

func findTen(cards []domain.Card) (domain.Card, bool) {
	for _, c := range cards {
		if c.IsTen() {
			return c, true
		}
	}
	return domain.Card{}, false
}

func trickHasTen(trick *domain.Trick) bool {
	if trick == nil {
		return false
	}
	return len(trick.Tens()) > 0
}

// protectedTen finds a ten that is backed by a higher card of its own suit.
func protectedTen(valid, hand []domain.Card) (domain.Card, bool) {
	for _, c := range valid {
		if !c.IsTen() {
			continue
		}
		for _, h := range hand {
			if h.Suit == c.Suit && h.Rank > c.Rank {
				return c, true
			}
		}
	}
	return domain.Card{}, false
}

func suitLengths(hand []domain.Card) map[domain.Suit]int {
	lens := make(map[domain.Suit]int)
	for _, c := range hand {
		lens[c.Suit]++
	}
	return lens
}

// leadLowest picks the lowest non-ten lead, breaking rank ties toward the
// shorter or longer holding depending on the variant.
func leadLowest(valid, hand []domain.Card, preferShort bool) domain.Card {
	pool := nonTens(valid)
	if len(pool) == 0 {
		pool = append([]domain.Card{}, valid...)
	}
	sort.Slice(pool, func(i, j int) bool {
		if pool[i].Rank != pool[j].Rank {
			return pool[i].Rank < pool[j].Rank
		}
		return pool[i].Suit < pool[j].Suit
	})
	ties := []domain.Card{pool[0]}
	for _, c := range pool[1:] {
		if c.Rank != pool[0].Rank {
			break
		}
		ties = append(ties, c)
	}
	if len(ties) == 1 {
		return ties[0]
	}
	lens := suitLengths(hand)
	best := ties[0]
	for _, c := range ties[1:] {
		if preferShort && lens[c.Suit] < lens[best.Suit] {
			best = c
		}
		if !preferShort && lens[c.Suit] > lens[best.Suit] {
			best = c
		}
	}
	return best
}

// winningFollows returns the candidates whose effective power beats the
// trick's current best.
func winningFollows(valid []domain.Card, trick *domain.Trick, trump domain.Suit) []domain.Card {
	if trick == nil || len(trick.Plays) == 0 {
		return nil
	}
	led := trick.LedSuit()
	best := 0
	for _, p := range trick.Plays {
		if power := domain.EffectivePower(p.Card, led, trump); power > best {
			best = power
		}
	}
	var out []domain.Card
	for _, c := range valid {
		if domain.EffectivePower(c, led, trump) > best {
			out = append(out, c)
		}
	}
	return out
}

func highestTrumpPlayed(trick *domain.Trick, trump domain.Suit) int {
	top := 0
	if trick == nil {
		return top
	}
	for _, p := range trick.Plays {
		if p.Card.Suit == trump && p.Card.Rank > top {
			top = p.Card.Rank
		}
	}
	return top
}

// lowestFromShortestSuit sheds the lowest non-ten, favouring the shortest
// held suit so a void opens sooner.
func lowestFromShortestSuit(valid, hand []domain.Card) domain.Card {
	lens := suitLengths(hand)
	var order []domain.Suit
	for suit := range lens {
		order = append(order, suit)
	}
	sort.Slice(order, func(i, j int) bool {
		if lens[order[i]] != lens[order[j]] {
			return lens[order[i]] < lens[order[j]]
		}
		return order[i] < order[j]
	})
	for _, suit := range order {
		if pool := nonTens(cardsOfSuit(valid, suit)); len(pool) > 0 {
			c, _ := lowestCard(pool)
			return c
		}
	}
	return lowestPreferNonTen(valid)
}
