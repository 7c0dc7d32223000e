package ports

import "context"

// MatchRecord is one player's outcome from a finished game, ready to be
// folded into their lifetime statistics.
type MatchRecord struct {
	UserID   string
	Game     string // "dhihaei" or "digu"
	Won      bool
	Score    int
	Metadata map[string]interface{}
}

// PlayerStats is the lifetime tally kept per player and game.
type PlayerStats struct {
	GamesPlayed int `json:"games_played"`
	GamesWon    int `json:"games_won"`
	TotalScore  int `json:"total_score"`
}

// StatsPort defines the interface for persisting player statistics.
type StatsPort interface {
	// RecordResults folds one finished game's outcomes into each player's
	// lifetime statistics.
	RecordResults(ctx context.Context, records []MatchRecord) error

	// ReadStats returns the lifetime statistics of a player for a game.
	ReadStats(ctx context.Context, userID, game string) (PlayerStats, error)
}
