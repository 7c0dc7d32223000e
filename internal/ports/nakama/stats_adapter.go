package nakama

import (
	"context"
	"encoding/json"
	"fmt"

	"dhihaei/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

const statsCollection = "player_stats"

// NakamaStatsAdapter implements ports.StatsPort on Nakama's storage engine.
// Each player's lifetime tally lives in one storage object per game.
type NakamaStatsAdapter struct {
	nk runtime.NakamaModule
}

// NewNakamaStatsAdapter creates a new stats adapter.
func NewNakamaStatsAdapter(nk runtime.NakamaModule) *NakamaStatsAdapter {
	return &NakamaStatsAdapter{nk: nk}
}

// RecordResults folds one finished game's outcomes into each player's
// lifetime statistics.
func (a *NakamaStatsAdapter) RecordResults(ctx context.Context, records []ports.MatchRecord) error {
	writes := make([]*runtime.StorageWrite, 0, len(records))
	for _, record := range records {
		stats, err := a.ReadStats(ctx, record.UserID, record.Game)
		if err != nil {
			return err
		}

		stats.GamesPlayed++
		if record.Won {
			stats.GamesWon++
		}
		stats.TotalScore += record.Score

		value, err := json.Marshal(stats)
		if err != nil {
			return fmt.Errorf("failed to marshal stats for user %s: %w", record.UserID, err)
		}
		writes = append(writes, &runtime.StorageWrite{
			Collection:      statsCollection,
			Key:             record.Game,
			UserID:          record.UserID,
			Value:           string(value),
			PermissionRead:  runtime.STORAGE_PERMISSION_OWNER_READ,
			PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
		})
	}
	if len(writes) == 0 {
		return nil
	}

	if _, err := a.nk.StorageWrite(ctx, writes); err != nil {
		return fmt.Errorf("failed to write stats: %w", err)
	}
	return nil
}

// ReadStats returns the lifetime statistics of a player for a game. A player
// with no recorded games gets the zero tally.
func (a *NakamaStatsAdapter) ReadStats(ctx context.Context, userID, game string) (ports.PlayerStats, error) {
	var stats ports.PlayerStats

	objects, err := a.nk.StorageRead(ctx, []*runtime.StorageRead{{
		Collection: statsCollection,
		Key:        game,
		UserID:     userID,
	}})
	if err != nil {
		return stats, fmt.Errorf("failed to read stats for user %s: %w", userID, err)
	}
	if len(objects) == 0 {
		return stats, nil
	}

	if err := json.Unmarshal([]byte(objects[0].Value), &stats); err != nil {
		return stats, fmt.Errorf("failed to unmarshal stats for user %s: %w", userID, err)
	}
	return stats, nil
}

var _ ports.StatsPort = (*NakamaStatsAdapter)(nil)
