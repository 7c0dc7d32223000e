package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"math/rand"
	"strconv"
	"time"

	"dhihaei/internal/app"
	"dhihaei/internal/bot"
	"dhihaei/internal/config"
	"dhihaei/internal/domain"
	"dhihaei/internal/ports"
	"dhihaei/internal/wire"

	"github.com/heroiclabs/nakama-common/runtime"
)

// MatchState holds the authoritative runtime state for the trick game handler.
type MatchState struct {
	Seats                [4]string                   `json:"seats"`                   // Array of user IDs, empty string means seat is empty
	OwnerSeat            int                         `json:"owner_seat"`              // Seat index of the match owner
	Tick                 int64                       `json:"tick"`                    // Current tick of the match for turn-based logic
	Presences            map[string]runtime.Presence `json:"-"`                       // Map UserId -> Presence for targeted messaging
	App                  *app.DhihaService           `json:"-"`                       // Trick game service with game logic
	Sessions             *app.SessionTokenService    `json:"-"`                       // Signs and verifies seat rejoin tokens
	Match                *domain.Match               `json:"-"`                       // Current active match state (nil if in lobby)
	BotsEnabled          bool                        `json:"bots_enabled"`            // Whether AI players are allowed
	BotMinDelay          int                         `json:"bot_min_delay"`           // Min seconds a bot waits
	BotMaxDelay          int                         `json:"bot_max_delay"`           // Max seconds a bot waits
	BotAutoFillDelay     int                         `json:"bot_auto_fill_delay"`     // Seconds to wait before auto-filling with bots
	BotWaitUntil         int64                       `json:"bot_wait_until"`          // Tick when the bot should act
	LastSinglePlayerTick int64                       `json:"last_single_player_tick"` // Tick when a single player started waiting
	Bots                 map[string]*bot.Agent       `json:"-"`                       // Active bot agents
	Stats                ports.StatsPort             `json:"-"`                       // Interface to persistent player statistics
}

func (ms *MatchState) GetOpenSeatsCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat == "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) GetOccupiedSeatCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) GetHumanPlayerCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" && !isBotUserId(seat) {
			count++
		}
	}
	return count
}

// isBotUserId reports whether the given user id represents a bot seat.
func isBotUserId(userId string) bool {
	return bot.IsBot(userId)
}

// isHumanSeat reports whether the seat index belongs to a human player.
func isHumanSeat(seats []string, seatIndex int) bool {
	if seatIndex < 0 || seatIndex >= len(seats) {
		return false
	}
	userId := seats[seatIndex]
	return userId != "" && !isBotUserId(userId)
}

// findFirstHumanSeat returns the first seat index with a human occupant or -1 if none exist.
func findFirstHumanSeat(seats []string) int {
	for i, userId := range seats {
		if userId != "" && !isBotUserId(userId) {
			return i
		}
	}
	return -1
}

// findSeatOf returns the seat index held by the user or -1.
func findSeatOf(seats []string, userId string) int {
	for i, seatUserId := range seats {
		if seatUserId != "" && seatUserId == userId {
			return i
		}
	}
	return -1
}

// shouldTerminateNoHumans returns true when there are no humans in the match.
func shouldTerminateNoHumans(seats []string) bool {
	return findFirstHumanSeat(seats) == -1
}

// sessionServiceFromEnv builds the rejoin token signer from the runtime
// environment. Returns nil when no secret is configured.
func sessionServiceFromEnv(env map[string]string) *app.SessionTokenService {
	secret := env["dhihaei_session_secret"]
	if secret == "" {
		return nil
	}
	return app.NewSessionTokenService(secret, "dhihaei", time.Hour)
}

type matchHandler struct{}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing trick match handler.")

	if err := bot.LoadIdentities("data/bot_identities.json"); err != nil {
		logger.Warn("MatchInit: Could not load bot identities: %v", err)
	}
	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("MatchInit: Could not load game config: %v", err)
	}

	state := &MatchState{
		Tick:      time.Now().Unix(),
		Presences: make(map[string]runtime.Presence),
		App:       app.NewDhihaService(nil),
		OwnerSeat: -1,
		Bots:      make(map[string]*bot.Agent),
		Stats:     NewNakamaStatsAdapter(nk),
	}

	// Read environment variables for bot configuration
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	state.Sessions = sessionServiceFromEnv(env)
	state.BotsEnabled = true
	if val, ok := env["dhihaei_bots_enabled"]; ok {
		state.BotsEnabled = val == "true"
	}
	if val, ok := env["dhihaei_bot_min_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotMinDelay = i
		}
	}
	if val, ok := env["dhihaei_bot_max_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotMaxDelay = i
		}
	}
	if val, ok := env["dhihaei_bot_auto_fill_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotAutoFillDelay = i
		}
	}

	// Defaults if not set
	if state.BotMinDelay == 0 || state.BotMaxDelay < state.BotMinDelay {
		state.BotMinDelay, state.BotMaxDelay = config.GetBotDelayBounds()
	}
	if state.BotAutoFillDelay == 0 {
		state.BotAutoFillDelay = config.GetBotAutoFillDelaySeconds()
	}

	label, err := marshalLabel(state.GetOpenSeatsCount(), "dhihaei", "lobby")
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := 1
	return state, tickRate, label
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// A player whose user id is still bound to a seat may always rejoin.
	if findSeatOf(matchState.Seats[:], presence.GetUserId()) >= 0 {
		return state, true, ""
	}

	// A rejoin token can also prove seat ownership across account sessions.
	if token := metadata["session_token"]; token != "" && matchState.Sessions != nil {
		claims, err := matchState.Sessions.VerifyToken(token)
		if err != nil {
			logger.Warn("MatchJoinAttempt: Rejected session token from %s: %v", presence.GetUserId(), err)
			return state, false, "invalid session token"
		}
		matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)
		if claims.UserID == presence.GetUserId() && claims.MatchID == matchID {
			return state, true, ""
		}
	}

	// Otherwise there must be an empty seat or a bot to replace (pre-game).
	if matchState.GetOpenSeatsCount() <= 0 {
		hasBot := false
		if matchState.Match == nil {
			for _, seat := range matchState.Seats {
				if isBotUserId(seat) {
					hasBot = true
					break
				}
			}
		}
		if !hasBot {
			return state, false, "Match full"
		}
	}

	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		matchState.Presences[p.GetUserId()] = p

		// A returning player keeps the seat that is still bound to them.
		if seat := findSeatOf(matchState.Seats[:], p.GetUserId()); seat >= 0 {
			logger.Info("MatchJoin: User %s rejoined seat %d", p.GetUserId(), seat)
			mh.sendSnapshot(matchState, dispatcher, logger, seat)
			continue
		}

		// Assign seat: try empty seats first, then bots (if lobby)
		assigned := false
		for i, seatUserId := range matchState.Seats {
			if seatUserId == "" {
				matchState.Seats[i] = p.GetUserId()
				assigned = true
				break
			}
		}

		if !assigned && matchState.Match == nil {
			for i, seatUserId := range matchState.Seats {
				if isBotUserId(seatUserId) {
					logger.Info("MatchJoin: Replacing bot %s with human %s in seat %d", seatUserId, p.GetUserId(), i)
					delete(matchState.Bots, seatUserId)
					matchState.Seats[i] = p.GetUserId()
					assigned = true
					break
				}
			}
		}

		if !assigned {
			logger.Warn("MatchJoin: User %s joined but no seat (empty or bot) was available.", p.GetUserId())
			continue
		}
	}

	// Ensure owner seat is assigned to a human player only.
	if !isHumanSeat(matchState.Seats[:], matchState.OwnerSeat) {
		matchState.OwnerSeat = findFirstHumanSeat(matchState.Seats[:])
		if matchState.OwnerSeat >= 0 {
			logger.Debug("MatchJoin: Owner set to human seat %d.", matchState.OwnerSeat)
		}
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastLobbyState(matchState, dispatcher, logger)

	return matchState
}

// MatchLeave is called when one or more players leave the match. During an
// active match the seat stays bound to the leaver so they can rejoin; in the
// lobby the seat is freed immediately.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	lastLeaverSeat := -1
	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())

		seat := findSeatOf(matchState.Seats[:], p.GetUserId())
		if seat < 0 {
			continue
		}
		lastLeaverSeat = seat

		if matchState.Match == nil {
			matchState.Seats[seat] = ""
			logger.Debug("MatchLeave: User %s left, seat %d freed.", p.GetUserId(), seat)
		} else {
			logger.Debug("MatchLeave: User %s disconnected, seat %d held for rejoin.", p.GetUserId(), seat)
		}
	}

	if mh.connectedHumanCount(matchState) == 0 {
		if matchState.Match != nil && matchState.Match.Status == domain.MatchPlaying && lastLeaverSeat >= 0 {
			if events, err := matchState.App.Abandon(matchState.Match, lastLeaverSeat); err == nil {
				for _, ev := range events {
					mh.broadcastEvent(ctx, matchState, dispatcher, logger, ev)
				}
			}
		}
		logger.Info("MatchLeave: Terminating match with no connected humans.")
		return nil
	}

	if newOwnerSeat := findFirstHumanSeat(matchState.Seats[:]); newOwnerSeat != matchState.OwnerSeat {
		matchState.OwnerSeat = newOwnerSeat
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastLobbyState(matchState, dispatcher, logger)

	return matchState
}

// connectedHumanCount counts seated humans that still hold a presence.
func (mh *matchHandler) connectedHumanCount(state *MatchState) int {
	count := 0
	for _, userId := range state.Seats {
		if userId == "" || isBotUserId(userId) {
			continue
		}
		if _, ok := state.Presences[userId]; ok {
			count++
		}
	}
	return count
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartGame:
			mh.handleStartGame(ctx, matchState, dispatcher, logger, msg)
		case OpPlayCard:
			mh.handlePlayCard(ctx, matchState, dispatcher, logger, msg)
		case OpLeaveTable:
			mh.handleLeaveTable(ctx, matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	if matchState.BotsEnabled {
		mh.processBots(ctx, matchState, dispatcher, logger)
	}

	return matchState
}

func (mh *matchHandler) processBots(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	// 1. Auto-fill lobby with bots if there's only one human player after delay
	if state.Match == nil {
		humanCount := state.GetHumanPlayerCount()
		if humanCount == 1 {
			if state.LastSinglePlayerTick == 0 {
				state.LastSinglePlayerTick = state.Tick
				logger.Debug("processBots: Single player detected, starting auto-fill timer.")
			}

			if state.Tick-state.LastSinglePlayerTick >= int64(state.BotAutoFillDelay) {
				if mh.fillEmptySeatsWithBots(ctx, state, logger) {
					state.LastSinglePlayerTick = 0
					mh.updateLabel(state, dispatcher, logger)
					mh.broadcastLobbyState(state, dispatcher, logger)
				}
			}
		} else {
			state.LastSinglePlayerTick = 0
		}
		return
	}

	// 2. Handle bot turns in-game
	if state.Match.RoundInProgress() {
		currentSeat := state.Match.Round.CurrentSeat
		currentUserID := state.Seats[currentSeat]

		if isBotUserId(currentUserID) {
			if state.BotWaitUntil == 0 {
				delay := rand.Intn(state.BotMaxDelay-state.BotMinDelay+1) + state.BotMinDelay
				state.BotWaitUntil = state.Tick + int64(delay)
			}

			if state.Tick >= state.BotWaitUntil {
				state.BotWaitUntil = 0

				agent, exists := state.Bots[currentUserID]
				if !exists {
					logger.Error("processBots: No agent for bot %s", currentUserID)
					return
				}

				round := state.Match.Round
				turn := bot.Turn{
					Seat:  currentSeat,
					Hand:  round.Hands[currentSeat],
					Valid: round.ValidPlays(currentSeat),
					Trick: &round.Trick,
					Trump: round.Trump,
				}
				card, err := agent.Play(turn)
				if err != nil {
					logger.Error("processBots: Bot %s failed to choose a card: %v", currentUserID, err)
					return
				}
				mh.applyPlay(ctx, state, dispatcher, logger, currentSeat, card)
			}
		} else {
			state.BotWaitUntil = 0
		}
	}
}

// fillEmptySeatsWithBots seats provisioned bot identities in every empty
// seat. Returns true when at least one bot was added.
func (mh *matchHandler) fillEmptySeatsWithBots(ctx context.Context, state *MatchState, logger runtime.Logger) bool {
	added := false
	botIndex := 0
	for i, seat := range state.Seats {
		if seat != "" {
			continue
		}
		identity := bot.GetBotIdentity(botIndex)
		botIndex++
		for findSeatOf(state.Seats[:], identity.UserID) >= 0 {
			identity = bot.GetBotIdentity(botIndex)
			botIndex++
		}

		agent, err := bot.NewAgentForIdentity(identity)
		if err != nil {
			logger.Error("fillEmptySeatsWithBots: Failed to create bot agent for %s: %v", identity.UserID, err)
			continue
		}
		state.Seats[i] = identity.UserID
		state.Bots[identity.UserID] = agent
		logger.Info("fillEmptySeatsWithBots: Added bot %s (%s) to seat %d", identity.DisplayName, identity.UserID, i)
		added = true
	}
	return added
}

func (mh *matchHandler) handleStartGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	senderSeat := findSeatOf(state.Seats[:], senderID)

	logger.Info("StartGame: Request received from %s (seat=%d, owner_seat=%d, occupied=%d)", senderID, senderSeat, state.OwnerSeat, state.GetOccupiedSeatCount())

	request := &wire.StartGameRequest{}
	if len(msg.GetData()) > 0 {
		if err := json.Unmarshal(msg.GetData(), request); err != nil {
			logger.Warn("StartGame: Invalid StartGameRequest from %s: %v", senderID, err)
			return
		}
	}

	if senderSeat != state.OwnerSeat {
		logger.Warn("StartGame: User %s tried to start game but is not owner (owner_seat=%d)", senderID, state.OwnerSeat)
		return
	}
	if state.Match != nil && state.Match.Status == domain.MatchPlaying {
		logger.Warn("StartGame: Match already running.")
		return
	}
	if state.GetHumanPlayerCount() < app.MinHumansToStart {
		logger.Warn("StartGame: Cannot start without a human player.")
		return
	}

	if state.GetOpenSeatsCount() > 0 {
		if !state.BotsEnabled {
			mh.sendError(state, dispatcher, logger, senderID, 400, "not enough players")
			return
		}
		mh.fillEmptySeatsWithBots(ctx, state, logger)
		mh.broadcastLobbyState(state, dispatcher, logger)
	}

	targetPoints := request.TargetPoints
	if targetPoints <= 0 {
		targetPoints = config.GetTargetPoints()
	}
	dealer := rand.Intn(4)

	match, events, err := state.App.StartMatch(dealer, targetPoints, state.Seats)
	if err != nil {
		logger.Error("StartGame: Failed to start match: %v", err)
		return
	}
	state.Match = match

	mh.updateLabel(state, dispatcher, logger)
	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
	mh.primeBotHands(state)

	logger.Info("StartGame: Match started with dealer %d, target %d.", dealer, targetPoints)
}

// primeBotHands tells every seated bot agent its fresh hand.
func (mh *matchHandler) primeBotHands(state *MatchState) {
	if state.Match == nil || state.Match.Round == nil {
		return
	}
	for i, userId := range state.Seats {
		if agent, ok := state.Bots[userId]; ok {
			agent.OnRoundStart(state.Match.Round.Hands[i])
		}
	}
}

func (mh *matchHandler) handlePlayCard(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	senderSeat := findSeatOf(state.Seats[:], senderID)

	if state.Match == nil {
		logger.Warn("handlePlayCard: Match not started.")
		return
	}

	request := &wire.PlayCardRequest{}
	if err := json.Unmarshal(msg.GetData(), request); err != nil {
		logger.Error("handlePlayCard: Failed to unmarshal PlayCardRequest: %v", err)
		return
	}

	if !mh.applyPlay(ctx, state, dispatcher, logger, senderSeat, request.Card) {
		mh.sendError(state, dispatcher, logger, senderID, 400, "invalid play")
	}
}

// applyPlay routes one play through the service, keeps the bot agents'
// memories current and deals the next round when one just ended.
func (mh *matchHandler) applyPlay(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, seat int, card domain.Card) bool {
	led := domain.SuitNone
	if state.Match.RoundInProgress() {
		led = state.Match.Round.Trick.LedSuit()
	}

	events, err := state.App.PlayCard(state.Match, seat, card)
	if err != nil {
		logger.Warn("applyPlay: Seat %d failed to play %s: %v", seat, card, err)
		return false
	}

	for _, agent := range state.Bots {
		agent.OnPlay(seat, card, led)
	}
	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}

	mh.continueMatch(ctx, state, dispatcher, logger, events)
	return true
}

// continueMatch deals the next round after a finished one, or settles and
// returns to the lobby when the match is over.
func (mh *matchHandler) continueMatch(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	roundEnded := false
	for _, ev := range events {
		if ev.Kind == app.EventRoundEnded {
			roundEnded = true
		}
	}
	if !roundEnded {
		return
	}

	if state.Match.Status == domain.MatchPlaying {
		dealEvents, err := state.App.StartRound(state.Match, state.Seats)
		if err != nil {
			logger.Error("continueMatch: Failed to deal next round: %v", err)
			return
		}
		for _, ev := range dealEvents {
			mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
		}
		mh.primeBotHands(state)
		return
	}

	if state.Match.Status == domain.MatchEnded {
		mh.recordMatchResults(ctx, state, logger)
	}
	state.Match = nil
	mh.updateLabel(state, dispatcher, logger)
}

// recordMatchResults folds the finished match into each human's lifetime stats.
func (mh *matchHandler) recordMatchResults(ctx context.Context, state *MatchState, logger runtime.Logger) {
	if state.Stats == nil || state.Match == nil {
		return
	}
	records := make([]ports.MatchRecord, 0, 4)
	for seat, userId := range state.Seats {
		if userId == "" || isBotUserId(userId) {
			continue
		}
		team := domain.TeamOf(seat)
		records = append(records, ports.MatchRecord{
			UserID: userId,
			Game:   "dhihaei",
			Won:    team == state.Match.Winner,
			Score:  state.Match.Points[team],
			Metadata: map[string]interface{}{
				"rounds": state.Match.RoundsPlayed,
			},
		})
	}
	if err := mh.statsRecord(ctx, state, records); err != nil {
		logger.Error("recordMatchResults: Failed to record stats: %v", err)
	}
}

func (mh *matchHandler) statsRecord(ctx context.Context, state *MatchState, records []ports.MatchRecord) error {
	if len(records) == 0 {
		return nil
	}
	return state.Stats.RecordResults(ctx, records)
}

func (mh *matchHandler) handleLeaveTable(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	senderSeat := findSeatOf(state.Seats[:], senderID)
	if senderSeat < 0 {
		return
	}

	if state.Match != nil && state.Match.Status == domain.MatchPlaying {
		events, err := state.App.Abandon(state.Match, senderSeat)
		if err != nil {
			logger.Warn("handleLeaveTable: Abandon failed for seat %d: %v", senderSeat, err)
			return
		}
		for _, ev := range events {
			mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
		}
		state.Match = nil
	}

	state.Seats[senderSeat] = ""
	if state.OwnerSeat == senderSeat {
		state.OwnerSeat = findFirstHumanSeat(state.Seats[:])
	}
	mh.updateLabel(state, dispatcher, logger)
	mh.broadcastLobbyState(state, dispatcher, logger)
}

// broadcastEvent handles the conversion and dispatching of app events to Nakama.
func (mh *matchHandler) broadcastEvent(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	var opCode int64
	var payload interface{}

	switch ev.Kind {
	case app.EventMatchStarted:
		opCode = OpMatchStarted
		p := ev.Payload.(app.MatchStartedPayload)
		payload = wire.MatchStartedEvent{Dealer: p.Dealer, TargetPoints: p.TargetPoints}
	case app.EventHandDealt:
		opCode = OpHandDealt
		p := ev.Payload.(app.HandDealtPayload)
		payload = wire.HandDealtEvent{Seat: p.Seat, Hand: p.Hand}
	case app.EventRoundStarted:
		opCode = OpRoundStarted
		p := ev.Payload.(app.RoundStartedPayload)
		payload = wire.RoundStartedEvent{Dealer: p.Dealer, Leader: p.Leader}
	case app.EventCardPlayed:
		opCode = OpCardPlayed
		p := ev.Payload.(app.CardPlayedPayload)
		payload = wire.CardPlayedEvent{Seat: p.Seat, Card: p.Card, NextSeat: p.NextSeat}
	case app.EventTrumpEstablished:
		opCode = OpTrumpEstablished
		p := ev.Payload.(app.TrumpEstablishedPayload)
		payload = wire.TrumpEstablishedEvent{Suit: p.Suit, Seat: p.Seat}
	case app.EventTrickWon:
		opCode = OpTrickWon
		p := ev.Payload.(app.TrickWonPayload)
		payload = wire.TrickWonEvent{
			Winner:      p.Winner,
			Team:        p.Team,
			WinningCard: p.WinningCard,
			Tens:        p.Tens,
			Plays:       p.Plays,
			TrickNo:     p.TrickNo,
			NextSeat:    p.NextSeat,
			TricksWon:   p.TricksWon,
		}
	case app.EventRoundEnded:
		opCode = OpRoundEnded
		p := ev.Payload.(app.RoundEndedPayload)
		payload = wire.RoundEndedEvent{Result: p.Result, MatchPoints: p.Points, Dealer: p.Dealer}
	case app.EventMatchEnded:
		opCode = OpMatchEnded
		p := ev.Payload.(app.MatchEndedPayload)
		payload = wire.MatchEndedEvent{Winner: p.Winner, Points: p.Points}
	case app.EventMatchAbandoned:
		opCode = OpMatchAbandoned
		p := ev.Payload.(app.MatchAbandonedPayload)
		payload = wire.MatchAbandonedEvent{Seat: p.Seat}
	default:
		logger.Warn("Unknown event kind: %v", ev.Kind)
		return
	}

	bytes, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}

	// Determine recipients (default to broadcast)
	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, uid := range ev.Recipients {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}

		// If we had intended recipients but none are connected (e.g. they are bots),
		// we MUST NOT broadcast to everyone else.
		if len(recipients) == 0 {
			return
		}
	}

	dispatcher.BroadcastMessage(opCode, bytes, recipients, nil, true)
}

// sendSnapshot sends the seat's private view of the running match.
func (mh *matchHandler) sendSnapshot(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, seat int) {
	if state.Match == nil {
		return
	}
	presence, ok := state.Presences[state.Seats[seat]]
	if !ok {
		return
	}
	snap := app.SnapshotFor(state.Match, state.Seats, seat)
	bytes, err := json.Marshal(snap)
	if err != nil {
		logger.Error("sendSnapshot: Failed to marshal snapshot: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpMatchSnapshot, bytes, []runtime.Presence{presence}, nil, true)
}

func (mh *matchHandler) broadcastLobbyState(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	var players []wire.PlayerState
	for _, s := range seatRoster(state.Seats, state.Presences) {
		players = append(players, wire.PlayerState{
			UserID:      state.Seats[s.Position],
			Seat:        s.Position,
			IsOwner:     s.Position == state.OwnerSeat,
			DisplayName: s.Name,
			IsBot:       s.IsScripted(),
		})
	}

	event := wire.LobbyStateEvent{
		Seats:     state.Seats[:],
		OwnerSeat: state.OwnerSeat,
		Players:   players,
	}
	bytes, err := json.Marshal(event)
	if err != nil {
		logger.Error("broadcastLobbyState: Failed to marshal: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpLobbyState, bytes, nil, nil, true)
}

// sendError sends a GameErrorEvent to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	payload := wire.GameErrorEvent{
		Code:    code,
		Message: message,
	}
	bytes, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal GameErrorEvent: %v", err)
		return
	}

	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}

	dispatcher.BroadcastMessage(OpGameError, bytes, []runtime.Presence{presence}, nil, true)
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	matchPhase := "lobby"
	if state.Match != nil {
		matchPhase = "playing"
	}

	label, err := marshalLabel(state.GetOpenSeatsCount(), "dhihaei", matchPhase)
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: Match terminated for reason %d", reason)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
