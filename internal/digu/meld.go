package digu

import (
	"sort"

	"dhihaei/internal/domain"
)

// MeldSize bounds: a meld is always three or four cards.
const (
	MinMeldSize = 3
	MaxMeldSize = 4
)

// partitionSizes are the three ordered slicings tried against the first ten
// cards of a hand. Melds are positional: the hand must be physically ordered
// so that one of these slicings validates.
var partitionSizes = [3][3]int{{4, 3, 3}, {3, 4, 3}, {3, 3, 4}}

// IsValidSet reports whether the cards form a set: three or four cards of
// one rank with pairwise-distinct suits.
func IsValidSet(cards []domain.Card) bool {
	if len(cards) < MinMeldSize || len(cards) > MaxMeldSize {
		return false
	}
	rank := cards[0].Rank
	var seen [5]bool // indexed by suit
	for _, c := range cards {
		if c.Rank != rank {
			return false
		}
		if seen[c.Suit] {
			return false
		}
		seen[c.Suit] = true
	}
	return true
}

// IsValidRun reports whether the cards form a run: at least three cards of
// one suit with strictly consecutive ranks. The ace is always high; a run
// may not contain both an ace and a two.
func IsValidRun(cards []domain.Card) bool {
	if len(cards) < MinMeldSize {
		return false
	}
	suit := cards[0].Suit
	hasAce, hasTwo := false, false
	ranks := make([]int, len(cards))
	for i, c := range cards {
		if c.Suit != suit {
			return false
		}
		ranks[i] = c.Rank
		if c.Rank == domain.RankAce {
			hasAce = true
		}
		if c.Rank == domain.RankTwo {
			hasTwo = true
		}
	}
	if hasAce && hasTwo {
		return false // no wrapping around the ace
	}
	sort.Ints(ranks)
	for i := 1; i < len(ranks); i++ {
		if ranks[i] != ranks[i-1]+1 {
			return false
		}
	}
	return true
}

// IsValidMeld reports whether the cards form either a set or a run.
func IsValidMeld(cards []domain.Card) bool {
	return IsValidSet(cards) || IsValidRun(cards)
}

// Partition is a slicing of the first ten hand cards into three melds.
type Partition struct {
	Sizes [3]int           `json:"sizes"`
	Melds [3][]domain.Card `json:"melds"`
	Valid bool             `json:"valid"`
}

func sliceParts(first []domain.Card, sizes [3]int) Partition {
	p := Partition{Sizes: sizes}
	offset := 0
	for i, size := range sizes {
		meld := make([]domain.Card, size)
		copy(meld, first[offset:offset+size])
		p.Melds[i] = meld
		offset += size
	}
	return p
}

// FindWinningPartition tries the slicings [4 3 3], [3 4 3] and [3 3 4] over
// the first ten cards in hand order and returns the first one whose three
// contiguous slices are all valid melds.
func FindWinningPartition(hand []domain.Card) (Partition, bool) {
	if len(hand) < 10 {
		return Partition{}, false
	}
	first := hand[:10]
	for _, sizes := range partitionSizes {
		p := sliceParts(first, sizes)
		if IsValidMeld(p.Melds[0]) && IsValidMeld(p.Melds[1]) && IsValidMeld(p.Melds[2]) {
			p.Valid = true
			return p, true
		}
	}
	return Partition{}, false
}

// DefaultPartition returns the display fallback: the hand's first ten cards
// sliced 3-3-4 with Valid left false.
func DefaultPartition(hand []domain.Card) Partition {
	if len(hand) < 10 {
		return Partition{}
	}
	return sliceParts(hand[:10], [3]int{3, 3, 4})
}

// FindAllPossibleMelds enumerates every valid meld hiding in the cards
// regardless of order: all sets per rank group including the 3-of-4
// sub-combinations, and all runs per suit including every consecutive
// window of length three or more.
func FindAllPossibleMelds(cards []domain.Card) [][]domain.Card {
	var melds [][]domain.Card

	// Sets by rank group.
	byRank := make(map[int][]domain.Card)
	for _, c := range cards {
		byRank[c.Rank] = append(byRank[c.Rank], c)
	}
	ranks := make([]int, 0, len(byRank))
	for r := range byRank {
		ranks = append(ranks, r)
	}
	sort.Ints(ranks)
	for _, r := range ranks {
		group := byRank[r]
		switch len(group) {
		case 3:
			melds = append(melds, append([]domain.Card{}, group...))
		case 4:
			melds = append(melds, append([]domain.Card{}, group...))
			for skip := range group {
				triple := make([]domain.Card, 0, 3)
				for i, c := range group {
					if i != skip {
						triple = append(triple, c)
					}
				}
				melds = append(melds, triple)
			}
		}
	}

	// Runs by suit: every consecutive window of length >= 3.
	for _, suit := range domain.Suits {
		var suited []domain.Card
		for _, c := range cards {
			if c.Suit == suit {
				suited = append(suited, c)
			}
		}
		if len(suited) < MinMeldSize {
			continue
		}
		sort.Slice(suited, func(i, j int) bool { return suited[i].Rank < suited[j].Rank })
		for start := 0; start < len(suited); start++ {
			for end := start + 1; end < len(suited); end++ {
				if suited[end].Rank != suited[end-1].Rank+1 {
					break
				}
				if end-start+1 >= MinMeldSize {
					melds = append(melds, append([]domain.Card{}, suited[start:end+1]...))
				}
			}
		}
	}

	return melds
}

// subtract removes the given cards from the set, one occurrence each.
func subtract(cards, remove []domain.Card) []domain.Card {
	out := append([]domain.Card{}, cards...)
	for _, r := range remove {
		out, _ = domain.RemoveCard(out, r)
	}
	return out
}

func meldsOfSize(melds [][]domain.Card, size int) [][]domain.Card {
	var out [][]domain.Card
	for _, m := range melds {
		if len(m) == size {
			out = append(out, m)
		}
	}
	return out
}

// ArrangeWinning searches the ten cards for any unordered cover by three
// melds of sizes {3,3,4}: each candidate first meld is removed, the search
// recurses for the second, and the leftover must validate as the third. On
// the first hit the cards are returned reordered meld by meld.
func ArrangeWinning(cards []domain.Card) ([]domain.Card, bool) {
	if len(cards) != 10 {
		return nil, false
	}
	for _, sizes := range partitionSizes {
		for _, m1 := range meldsOfSize(FindAllPossibleMelds(cards), sizes[0]) {
			rest1 := subtract(cards, m1)
			for _, m2 := range meldsOfSize(FindAllPossibleMelds(rest1), sizes[1]) {
				rest2 := subtract(rest1, m2)
				if IsValidMeld(rest2) {
					out := make([]domain.Card, 0, 10)
					out = append(out, m1...)
					out = append(out, m2...)
					out = append(out, rest2...)
					return out, true
				}
			}
		}
	}
	return nil, false
}

// ArrangeBest orders the cards so that found melds sit first, largest
// before smallest, with the leftovers sorted behind them. Used to keep a
// hand in a near-winning layout when no full cover exists.
func ArrangeBest(cards []domain.Card) []domain.Card {
	melds := FindAllPossibleMelds(cards)
	sort.SliceStable(melds, func(i, j int) bool { return len(melds[i]) > len(melds[j]) })

	remaining := append([]domain.Card{}, cards...)
	var arranged []domain.Card
	for _, m := range melds {
		if !contains(remaining, m) {
			continue
		}
		arranged = append(arranged, m...)
		remaining = subtract(remaining, m)
	}
	domain.SortHand(remaining)
	return append(arranged, remaining...)
}

func contains(cards, subset []domain.Card) bool {
	rest := cards
	for _, c := range subset {
		var ok bool
		rest, ok = domain.RemoveCard(rest, c)
		if !ok {
			return false
		}
	}
	return true
}
