package domain

// Play is one card laid into a trick by a seat.
type Play struct {
	Card Card `json:"card"`
	Seat int  `json:"seat"`
}

// Trick accumulates up to four plays. The suit of the first play is the led
// suit for the whole trick.
type Trick struct {
	Plays []Play `json:"plays"`
}

// LedSuit returns the suit of the first play, or SuitNone before any play.
func (t *Trick) LedSuit() Suit {
	if len(t.Plays) == 0 {
		return SuitNone
	}
	return t.Plays[0].Card.Suit
}

// Complete reports whether all four plays have been recorded.
func (t *Trick) Complete() bool {
	return len(t.Plays) == 4
}

// AddPlay records a play. A trick never holds more than four plays.
func (t *Trick) AddPlay(card Card, seat int) error {
	if t.Complete() {
		return ErrOutOfTurn
	}
	t.Plays = append(t.Plays, Play{Card: card, Seat: seat})
	return nil
}

// Tens returns the ten-cards contained in the trick so far.
func (t *Trick) Tens() []Card {
	var tens []Card
	for _, p := range t.Plays {
		if p.Card.IsTen() {
			tens = append(tens, p.Card)
		}
	}
	return tens
}

// EffectivePower is a card's comparison value within a trick: rank+100 when
// it matches the established trump, its plain rank when it matches the led
// suit, and 0 otherwise.
func EffectivePower(c Card, led, trump Suit) int {
	if trump != SuitNone && c.Suit == trump {
		return c.Rank + 100
	}
	if c.Suit == led {
		return c.Rank
	}
	return 0
}

// Resolve returns the winning play under the given trump. The first play
// with strictly maximal effective power wins; two plays can never share a
// power since no two cards share suit and rank.
func (t *Trick) Resolve(trump Suit) Play {
	led := t.LedSuit()
	best := t.Plays[0]
	bestPower := EffectivePower(best.Card, led, trump)
	for _, p := range t.Plays[1:] {
		if power := EffectivePower(p.Card, led, trump); power > bestPower {
			best = p
			bestPower = power
		}
	}
	return best
}

// ConsiderTrump decides whether playing the card establishes a new trump.
// A trump is established the first time a card is played off the led suit
// while no trump is set. Leading a trick never establishes trump, and an
// established trump is immutable for the rest of the round.
func ConsiderTrump(card Card, led, current Suit) (Suit, bool) {
	if current != SuitNone {
		return current, false
	}
	if led == SuitNone {
		return SuitNone, false
	}
	if card.Suit != led {
		return card.Suit, true
	}
	return SuitNone, false
}
