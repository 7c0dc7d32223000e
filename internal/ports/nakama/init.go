package nakama

import (
	"context"
	"database/sql"

	"dhihaei/internal/bot"

	"github.com/heroiclabs/nakama-common/runtime"
)

// InitModule wires RPCs, hooks and match handlers for the Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	if err := initializer.RegisterRpc(RpcFindMatch, RpcFindMatchFn); err != nil {
		return err
	}
	if err := initializer.RegisterRpc(RpcSessionToken, RpcSessionTokenFn); err != nil {
		return err
	}
	if err := initializer.RegisterAfterAuthenticateDevice(AfterAuthenticateDevice); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchNameDhihaEi, func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
		return &matchHandler{}, nil
	}); err != nil {
		return err
	}
	if err := initializer.RegisterMatch(MatchNameDigu, func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
		return &diguMatchHandler{}, nil
	}); err != nil {
		return err
	}

	// Bot accounts exist server-side so their seats look like real players.
	if err := bot.LoadIdentities("data/bot_identities.json"); err != nil {
		logger.Warn("InitModule: Could not load bot identities: %v", err)
	}
	if err := bot.ProvisionBots(ctx, nk, logger); err != nil {
		logger.Warn("InitModule: Could not provision bot accounts: %v", err)
	}

	logger.Info("Dhiha Ei Go module loaded.")
	return nil
}
