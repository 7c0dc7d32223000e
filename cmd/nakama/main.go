package main

import (
	"context"
	"database/sql"

	"github.com/heroiclabs/nakama-common/runtime"

	"dhihaei/internal/ports/nakama"
)

// InitModule is the symbol the Nakama runtime loads from the plugin. All
// registration lives in the ports package so the entry point stays a shim.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	return nakama.InitModule(ctx, logger, db, nk, initializer)
}
