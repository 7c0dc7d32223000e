package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

type GameConfig struct {
	// TargetPoints is the match score that ends a match. Zero keeps the
	// match running until the players stop it.
	TargetPoints        int    `json:"target_points"`
	BotLevel            string `json:"bot_level"`
	TurnDurationSeconds int    `json:"turn_duration_seconds"`
	// BotAutoFillDelaySeconds configures how many seconds to wait before adding bots to a solo human lobby.
	BotAutoFillDelaySeconds int `json:"bot_auto_fill_delay_seconds"`
	BotMinDelaySeconds      int `json:"bot_min_delay_seconds"`
	BotMaxDelaySeconds      int `json:"bot_max_delay_seconds"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		var c GameConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration.
func GetGameConfig() *GameConfig {
	return cfg
}

// GetTargetPoints returns the configured match target, or 7 when no config
// is loaded.
func GetTargetPoints() int {
	if cfg == nil {
		return 7
	}
	if cfg.TargetPoints < 0 {
		return 0
	}
	return cfg.TargetPoints
}

// GetBotLevel returns the configured bot identifier, defaulting to "smart".
func GetBotLevel() string {
	if cfg == nil || cfg.BotLevel == "" {
		return "smart"
	}
	return cfg.BotLevel
}

// GetTurnDurationSeconds returns the per-turn clock, defaulting to 30.
func GetTurnDurationSeconds() int {
	if cfg == nil || cfg.TurnDurationSeconds <= 0 {
		return 30
	}
	return cfg.TurnDurationSeconds
}

// GetBotDelayBounds returns the min and max seconds a bot waits before
// acting. Defaults keep the pace of a human table.
func GetBotDelayBounds() (int, int) {
	min, max := 1, 3
	if cfg != nil && cfg.BotMinDelaySeconds > 0 {
		min = cfg.BotMinDelaySeconds
	}
	if cfg != nil && cfg.BotMaxDelaySeconds >= min {
		max = cfg.BotMaxDelaySeconds
	}
	if max < min {
		max = min
	}
	return min, max
}

// GetBotAutoFillDelaySeconds returns how long a lone human waits before the
// empty seats are filled with bots.
func GetBotAutoFillDelaySeconds() int {
	if cfg == nil || cfg.BotAutoFillDelaySeconds <= 0 {
		return 10
	}
	return cfg.BotAutoFillDelaySeconds
}
