package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"dhihaei/internal/wire"

	"github.com/heroiclabs/nakama-common/runtime"
)

// RpcFindMatchFn searches for an available match of the requested game with
// open seats. If none is found it creates a new one.
//
// Payload: {"game": "dhihaei"} or {"game": "digu"}. Empty defaults to dhihaei.
// Returns: JSON FindMatchResponse with the match ID.
func RpcFindMatchFn(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userId, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	request := wire.FindMatchRequest{Game: "dhihaei"}
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &request); err != nil {
			return "", fmt.Errorf("invalid find_match payload: %w", err)
		}
	}

	var moduleName string
	switch request.Game {
	case "", "dhihaei":
		moduleName = MatchNameDhihaEi
		request.Game = "dhihaei"
	case "digu":
		moduleName = MatchNameDigu
	default:
		return "", fmt.Errorf("unknown game %q", request.Game)
	}

	// Filter on the indexed label keys: at least one open seat, right game.
	limit := 1
	authoritative := true
	labelQuery := fmt.Sprintf("+label.%s:>=1 +label.%s:%s", MatchLabelKey_OpenSeats, MatchLabelKey_Game, request.Game)
	minSize := 0
	maxSize := 4

	matches, err := nk.MatchList(ctx, limit, authoritative, "", &minSize, &maxSize, labelQuery)
	if err != nil {
		logger.Error("RpcFindMatch [User:%s]: Failed to list matches: %v", userId, err)
		return "", err
	}

	if len(matches) > 0 {
		matchId := matches[0].MatchId
		logger.Info("RpcFindMatch [User:%s]: Found existing %s match %s", userId, request.Game, matchId)
		b, _ := json.Marshal(wire.FindMatchResponse{MatchID: matchId, IsNew: false})
		return string(b), nil
	}

	matchId, err := nk.MatchCreate(ctx, moduleName, nil)
	if err != nil {
		logger.Error("RpcFindMatch [User:%s]: Failed to create match: %v", userId, err)
		return "", err
	}

	logger.Info("RpcFindMatch [User:%s]: Created new %s match %s", userId, request.Game, matchId)
	b, _ := json.Marshal(wire.FindMatchResponse{MatchID: matchId, IsNew: true})
	return string(b), nil
}

// RpcSessionTokenFn signs a rejoin token binding the calling user to a seat
// of a running match. Presenting the token at join time lets a disconnected
// player back into a full match.
//
// Payload: JSON SessionTokenRequest.
// Returns: JSON SessionTokenResponse.
func RpcSessionTokenFn(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userId, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userId == "" {
		return "", fmt.Errorf("session_token requires an authenticated user")
	}

	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	sessions := sessionServiceFromEnv(env)
	if sessions == nil {
		return "", fmt.Errorf("session tokens are not configured")
	}

	var request wire.SessionTokenRequest
	if err := json.Unmarshal([]byte(payload), &request); err != nil {
		return "", fmt.Errorf("invalid session_token payload: %w", err)
	}
	if request.MatchID == "" || request.Seat < 0 || request.Seat > 3 {
		return "", fmt.Errorf("session_token needs a match id and a seat")
	}

	token, err := sessions.GenerateToken(request.MatchID, userId, request.Seat)
	if err != nil {
		logger.Error("RpcSessionToken [User:%s]: Failed to sign token: %v", userId, err)
		return "", err
	}

	b, _ := json.Marshal(wire.SessionTokenResponse{Token: token})
	return string(b), nil
}
