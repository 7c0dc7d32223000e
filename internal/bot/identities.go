package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/heroiclabs/nakama-common/runtime"
)

// BotIdentity is one entry of the bot account pool.
type BotIdentity struct {
	DeviceID    string `json:"device_id"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Level       string `json:"level"` // "basic" or "smart"
	AvatarIndex int    `json:"avatar_index"`
}

var (
	identityMu        sync.RWMutex
	botIdentities     []BotIdentity
	botIDMap          map[string]bool
	botDisplayNameMap map[string]string
	botConfigMap      map[string]BotIdentity
	loadOnce          sync.Once
	provisionOnce     sync.Once
	loadErr           error
)

// LoadIdentities loads the bot profiles from the given path.
func LoadIdentities(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read bot identities: %w", err)
			return
		}

		var identities []BotIdentity
		if err := json.Unmarshal(data, &identities); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal bot identities: %w", err)
			return
		}

		identityMu.Lock()
		defer identityMu.Unlock()
		botIdentities = identities
		botIDMap = make(map[string]bool)
		botDisplayNameMap = make(map[string]string)
		botConfigMap = make(map[string]BotIdentity)
		for _, identity := range botIdentities {
			if identity.UserID != "" {
				mapIdentityLocked(identity)
			}
		}
	})
	return loadErr
}

// mapIdentityLocked registers an identity in the lookup maps. Caller holds
// identityMu.
func mapIdentityLocked(identity BotIdentity) {
	botIDMap[identity.UserID] = true
	botDisplayNameMap[identity.UserID] = identity.DisplayName
	botConfigMap[identity.UserID] = identity
}

// ProvisionBots ensures the bot accounts exist in the Nakama database and
// carry the is_bot metadata.
func ProvisionBots(ctx context.Context, nk runtime.NakamaModule, logger runtime.Logger) error {
	provisionOnce.Do(func() {
		for i := range botIdentities {
			identity := &botIdentities[i]
			if identity.DeviceID == "" {
				continue
			}

			userID, username, _, authErr := nk.AuthenticateDevice(ctx, identity.DeviceID, identity.Username, true)
			if authErr != nil {
				logger.Error("ProvisionBots: failed to authenticate bot %s: %v", identity.Username, authErr)
				continue
			}

			identity.UserID = userID
			identity.Username = username

			metadata := map[string]interface{}{
				"is_bot":       true,
				"level":        identity.Level,
				"avatar_index": identity.AvatarIndex,
			}
			authErr = nk.AccountUpdateId(ctx, userID, identity.Username, metadata, identity.DisplayName, "", "", "", "")
			if authErr != nil {
				logger.Warn("ProvisionBots: failed to update bot account %s: %v", userID, authErr)
			}

			identityMu.Lock()
			mapIdentityLocked(*identity)
			identityMu.Unlock()
			logger.Info("ProvisionBots: bot %s (%s) is ready, level %s", identity.DisplayName, userID, identity.Level)
		}
	})
	return nil
}

// GetBotConfig returns the full identity configuration for a bot ID.
func GetBotConfig(userID string) (BotIdentity, bool) {
	identityMu.RLock()
	defer identityMu.RUnlock()
	config, ok := botConfigMap[userID]
	return config, ok
}

// GetBotDisplayName returns the display name for a bot ID, or an empty
// string if the ID is not a bot.
func GetBotDisplayName(userID string) string {
	identityMu.RLock()
	defer identityMu.RUnlock()
	return botDisplayNameMap[userID]
}

// GetBotIdentity returns an identity for a bot by index (mod pool size),
// synthesizing one if no pool was loaded.
func GetBotIdentity(index int) BotIdentity {
	identityMu.Lock()
	defer identityMu.Unlock()
	if len(botIdentities) == 0 {
		identity := BotIdentity{
			UserID:      fmt.Sprintf("bot-%d", index),
			DisplayName: fmt.Sprintf("AI Player %d", index),
			Level:       BotLevelSmart.String(),
		}
		if botIDMap == nil {
			botIDMap = make(map[string]bool)
			botDisplayNameMap = make(map[string]string)
			botConfigMap = make(map[string]BotIdentity)
		}
		mapIdentityLocked(identity)
		return identity
	}
	return botIdentities[index%len(botIdentities)]
}

// BrainForIdentity builds the brain matching the identity's level, falling
// back to basic on unknown values.
func BrainForIdentity(identity BotIdentity) Brain {
	level, err := ParseBotLevel(identity.Level)
	if err != nil {
		level = BotLevelBasic
	}
	b, err := NewBrain(level)
	if err != nil {
		return &BasicBot{}
	}
	return b
}

// IsBot reports whether the given user ID belongs to the bot pool.
func IsBot(userID string) bool {
	identityMu.RLock()
	defer identityMu.RUnlock()
	return botIDMap[userID]
}

// GetAllBotIDs returns all provisioned bot user IDs.
func GetAllBotIDs() []string {
	identityMu.RLock()
	defer identityMu.RUnlock()
	ids := make([]string, 0, len(botIDMap))
	for id := range botIDMap {
		ids = append(ids, id)
	}
	return ids
}
