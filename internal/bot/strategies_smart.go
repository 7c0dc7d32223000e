package bot

import (
	"fmt"

	"dhihaei/internal/bot/brain"
	"dhihaei/internal/domain"
)

// SmartBot runs the same ladder as BasicBot but carries a per-round memory:
// played cards and revealed suit voids sharpen its trump leads and let it
// lead into suits the opponents cannot answer.
type SmartBot struct {
	Memory *brain.GameMemory

	est *brain.Estimator
}

// NewSmartBot wires a fresh memory to a new estimator.
func NewSmartBot() *SmartBot {
	m := brain.NewMemory()
	return &SmartBot{Memory: m, est: brain.NewEstimator(m)}
}

func (b *SmartBot) ObserveRoundStart(hand []domain.Card) {
	b.Memory.Reset()
	b.Memory.MarkMine(hand)
}

func (b *SmartBot) ObservePlay(seat int, card domain.Card, ledSuit domain.Suit) {
	b.Memory.RecordPlay(seat, card, ledSuit)
}

func (b *SmartBot) ChooseCard(turn Turn) (domain.Card, error) {
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

func (b *SmartBot) lead(turn Turn) domain.Card {
	if turn.Trump != domain.SuitNone {
		if top, ok := highestCard(cardsOfSuit(turn.Valid, turn.Trump)); ok {
			if top.Rank >= DefaultTuning.TrumpLeadRank || b.Memory.IsBoss(top) {
				return top
			}
		}
	}
	if ten, ok := protectedTen(turn.Valid, turn.Hand); ok {
		return ten
	}
	if c, ok := b.voidLead(turn); ok {
		return c
	}
	return leadLowest(turn.Valid, turn.Hand, true)
}

// voidLead looks for a suit both opponents have shown void while the
// partner has not: such a lead either walks home or draws only partner
// cards.
func (b *SmartBot) voidLead(turn Turn) (domain.Card, bool) {
	partner := domain.PartnerSeat(turn.Seat)
	for _, suit := range domain.Suits {
		if suit == turn.Trump {
			continue
		}
		pool := cardsOfSuit(turn.Valid, suit)
		if len(pool) == 0 {
			continue
		}
		if b.est.OpponentsVoid(turn.Seat, suit) && !b.Memory.HasShownVoid(partner, suit) {
			return lowestPreferNonTen(pool), true
		}
	}
	return domain.Card{}, false
}

func (b *SmartBot) follow(turn Turn) domain.Card {
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

func (b *SmartBot) offSuit(turn Turn) domain.Card {
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
