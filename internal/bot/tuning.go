package bot

// Tuning holds the thresholds the trick strategies steer by.
type Tuning struct {
	// TrumpLeadRank is the minimum rank at which a trump is led as
	// presumed-highest without memory backing.
	TrumpLeadRank int
	// SeveralTrumps is the holding size at which trumping in cheap tricks
	// becomes worthwhile.
	SeveralTrumps int
}

// DefaultTuning keeps trump leads to queens and up and loose trumping to
// three-card holdings.
var DefaultTuning = Tuning{
	TrumpLeadRank: 12,
	SeveralTrumps: 3,
}
