package bot

import (
	"fmt"
)

// BotLevel selects how much table knowledge a strategy uses.
type BotLevel int

const (
	BotLevelBasic BotLevel = iota
	BotLevelSmart
)

func (l BotLevel) String() string {
	switch l {
	case BotLevelBasic:
		return "basic"
	case BotLevelSmart:
		return "smart"
	default:
		return fmt.Sprintf("BotLevel(%d)", int(l))
	}
}

// ParseBotLevel maps a config string onto a level.
func ParseBotLevel(s string) (BotLevel, error) {
	switch s {
	case "basic":
		return BotLevelBasic, nil
	case "smart":
		return BotLevelSmart, nil
	default:
		return 0, fmt.Errorf("unknown bot level: %q", s)
	}
}

// NewBrain creates a trick brain for the specified level.
func NewBrain(level BotLevel) (Brain, error) {
	switch level {
	case BotLevelBasic:
		return &BasicBot{}, nil
	case BotLevelSmart:
		return NewSmartBot(), nil
	default:
		return nil, fmt.Errorf("unknown bot level: %d", level)
	}
}

// NewDiguBrain creates a rummy brain for the specified level. Both levels
// currently share the greedy meld chaser.
func NewDiguBrain(level BotLevel) (DiguBrain, error) {
	switch level {
	case BotLevelBasic, BotLevelSmart:
		return &GreedyDigu{}, nil
	default:
		return nil, fmt.Errorf("unknown bot level: %d", level)
	}
}
