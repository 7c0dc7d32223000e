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
	"dhihaei/internal/digu"
	"dhihaei/internal/domain"
	"dhihaei/internal/ports"
	"dhihaei/internal/wire"

	"github.com/heroiclabs/nakama-common/runtime"
)

// DiguMatchState holds the authoritative runtime state for the rummy handler.
// The table persists across games so cumulative statistics survive until the
// owner resets them.
type DiguMatchState struct {
	Seats                [4]string                   `json:"seats"`
	OwnerSeat            int                         `json:"owner_seat"`
	Tick                 int64                       `json:"tick"`
	Presences            map[string]runtime.Presence `json:"-"`
	App                  *app.DiguService            `json:"-"`
	Sessions             *app.SessionTokenService    `json:"-"`
	Table                *digu.Table                 `json:"-"`
	BotsEnabled          bool                        `json:"bots_enabled"`
	BotMinDelay          int                         `json:"bot_min_delay"`
	BotMaxDelay          int                         `json:"bot_max_delay"`
	BotAutoFillDelay     int                         `json:"bot_auto_fill_delay"`
	BotWaitUntil         int64                       `json:"bot_wait_until"`
	LastSinglePlayerTick int64                       `json:"last_single_player_tick"`
	DiguBots             map[string]bot.DiguBrain    `json:"-"`
	Stats                ports.StatsPort             `json:"-"`
}

func (ms *DiguMatchState) GetOpenSeatsCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat == "" {
			count++
		}
	}
	return count
}

func (ms *DiguMatchState) GetHumanPlayerCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" && !isBotUserId(seat) {
			count++
		}
	}
	return count
}

// GameRunning reports whether a digu game is being played right now.
func (ms *DiguMatchState) GameRunning() bool {
	return ms.Table != nil && ms.Table.Game != nil && !ms.Table.Game.Over()
}

type diguMatchHandler struct{}

// MatchInit is called when the match is created.
func (mh *diguMatchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing digu match handler.")

	if err := bot.LoadIdentities("data/bot_identities.json"); err != nil {
		logger.Warn("MatchInit: Could not load bot identities: %v", err)
	}
	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("MatchInit: Could not load game config: %v", err)
	}

	state := &DiguMatchState{
		Tick:      time.Now().Unix(),
		Presences: make(map[string]runtime.Presence),
		App:       app.NewDiguService(),
		OwnerSeat: -1,
		DiguBots:  make(map[string]bot.DiguBrain),
		Stats:     NewNakamaStatsAdapter(nk),
	}

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
	if state.BotMinDelay == 0 || state.BotMaxDelay < state.BotMinDelay {
		state.BotMinDelay, state.BotMaxDelay = config.GetBotDelayBounds()
	}
	if state.BotAutoFillDelay == 0 {
		state.BotAutoFillDelay = config.GetBotAutoFillDelaySeconds()
	}

	label, err := marshalLabel(state.GetOpenSeatsCount(), "digu", "lobby")
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := 1
	return state, tickRate, label
}

func (mh *diguMatchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*DiguMatchState)
	if !ok {
		return state, false, "state not found"
	}

	if findSeatOf(matchState.Seats[:], presence.GetUserId()) >= 0 {
		return state, true, ""
	}

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

	if matchState.GetOpenSeatsCount() <= 0 {
		hasBot := false
		if !matchState.GameRunning() {
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

func (mh *diguMatchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*DiguMatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		matchState.Presences[p.GetUserId()] = p

		if seat := findSeatOf(matchState.Seats[:], p.GetUserId()); seat >= 0 {
			logger.Info("MatchJoin: User %s rejoined seat %d", p.GetUserId(), seat)
			mh.sendSnapshot(matchState, dispatcher, logger, seat)
			continue
		}

		assigned := false
		for i, seatUserId := range matchState.Seats {
			if seatUserId == "" {
				matchState.Seats[i] = p.GetUserId()
				assigned = true
				break
			}
		}

		if !assigned && !matchState.GameRunning() {
			for i, seatUserId := range matchState.Seats {
				if isBotUserId(seatUserId) {
					logger.Info("MatchJoin: Replacing bot %s with human %s in seat %d", seatUserId, p.GetUserId(), i)
					delete(matchState.DiguBots, seatUserId)
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

	if !isHumanSeat(matchState.Seats[:], matchState.OwnerSeat) {
		matchState.OwnerSeat = findFirstHumanSeat(matchState.Seats[:])
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastLobbyState(matchState, dispatcher, logger)

	return matchState
}

func (mh *diguMatchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*DiguMatchState)
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

		if !matchState.GameRunning() {
			matchState.Seats[seat] = ""
			logger.Debug("MatchLeave: User %s left, seat %d freed.", p.GetUserId(), seat)
		} else {
			logger.Debug("MatchLeave: User %s disconnected, seat %d held for rejoin.", p.GetUserId(), seat)
		}
	}

	if mh.connectedHumanCount(matchState) == 0 {
		if matchState.GameRunning() && lastLeaverSeat >= 0 {
			if events, err := matchState.App.Abandon(matchState.Table, lastLeaverSeat); err == nil {
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

func (mh *diguMatchHandler) connectedHumanCount(state *DiguMatchState) int {
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

func (mh *diguMatchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*DiguMatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartGame:
			mh.handleStartGame(ctx, matchState, dispatcher, logger, msg)
		case OpDrawCard:
			mh.handleDraw(ctx, matchState, dispatcher, logger, msg)
		case OpRearrange:
			mh.handleRearrange(ctx, matchState, dispatcher, logger, msg)
		case OpFinishMeld:
			mh.handleFinishMeld(ctx, matchState, dispatcher, logger, msg)
		case OpDiscard:
			mh.handleDiscard(ctx, matchState, dispatcher, logger, msg)
		case OpDeclareDigu:
			mh.handleDeclare(ctx, matchState, dispatcher, logger, msg)
		case OpResetStats:
			mh.handleResetStats(ctx, matchState, dispatcher, logger, msg)
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

func (mh *diguMatchHandler) processBots(ctx context.Context, state *DiguMatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if !state.GameRunning() {
		humanCount := state.GetHumanPlayerCount()
		if humanCount == 1 {
			if state.LastSinglePlayerTick == 0 {
				state.LastSinglePlayerTick = state.Tick
			}
			if state.Tick-state.LastSinglePlayerTick >= int64(state.BotAutoFillDelay) {
				if mh.fillEmptySeatsWithBots(state, logger) {
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

	g := state.Table.Game
	currentUserID := state.Seats[g.CurrentSeat]
	if !isBotUserId(currentUserID) {
		state.BotWaitUntil = 0
		return
	}

	if state.BotWaitUntil == 0 {
		delay := rand.Intn(state.BotMaxDelay-state.BotMinDelay+1) + state.BotMinDelay
		state.BotWaitUntil = state.Tick + int64(delay)
	}
	if state.Tick < state.BotWaitUntil {
		return
	}
	state.BotWaitUntil = 0

	brain, exists := state.DiguBots[currentUserID]
	if !exists {
		logger.Error("processBots: No brain for bot %s", currentUserID)
		return
	}
	mh.playBotTurn(ctx, state, dispatcher, logger, brain, g.CurrentSeat)
}

// playBotTurn advances the acting bot by one phase of its turn.
func (mh *diguMatchHandler) playBotTurn(ctx context.Context, state *DiguMatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, brain bot.DiguBrain, seat int) {
	g := state.Table.Game

	switch g.Phase {
	case digu.PhaseDraw:
		top, hasTop := g.DiscardTop()
		turn := bot.DiguTurn{
			Hand:       g.Hands[seat],
			DiscardTop: top,
			HasDiscard: hasTop,
			StockCount: g.StockCount(),
		}
		source := app.DrawSourceStock
		if brain.ChooseDraw(turn) == bot.DrawDiscard {
			source = app.DrawSourceDiscard
		}
		events, err := state.App.Draw(state.Table, state.Seats, seat, source)
		if err != nil {
			logger.Error("playBotTurn: Bot draw failed for seat %d: %v", seat, err)
			return
		}
		mh.broadcastEvents(ctx, state, dispatcher, logger, events)

	case digu.PhaseMeld:
		arranged, declare := brain.Arrange(g.Hands[seat])
		if events, err := state.App.Rearrange(state.Table, state.Seats, seat, arranged); err == nil {
			mh.broadcastEvents(ctx, state, dispatcher, logger, events)
		}

		if declare {
			events, err := state.App.Declare(state.Table, seat)
			if err != nil {
				logger.Error("playBotTurn: Bot declare failed for seat %d: %v", seat, err)
				return
			}
			mh.broadcastEvents(ctx, state, dispatcher, logger, events)
			mh.settleGame(ctx, state, dispatcher, logger)
			return
		}

		discard := brain.ChooseDiscard(g.Hands[seat])
		events, err := state.App.Discard(state.Table, seat, discard)
		if err != nil {
			logger.Error("playBotTurn: Bot discard failed for seat %d: %v", seat, err)
			return
		}
		mh.broadcastEvents(ctx, state, dispatcher, logger, events)

	default:
		logger.Warn("playBotTurn: Bot seat %d in unexpected phase %s", seat, g.Phase)
	}
}

func (mh *diguMatchHandler) fillEmptySeatsWithBots(state *DiguMatchState, logger runtime.Logger) bool {
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

		level, err := bot.ParseBotLevel(identity.Level)
		if err != nil {
			level = bot.BotLevelBasic
		}
		brain, err := bot.NewDiguBrain(level)
		if err != nil {
			logger.Error("fillEmptySeatsWithBots: Failed to create digu brain for %s: %v", identity.UserID, err)
			continue
		}
		state.Seats[i] = identity.UserID
		state.DiguBots[identity.UserID] = brain
		logger.Info("fillEmptySeatsWithBots: Added bot %s (%s) to seat %d", identity.DisplayName, identity.UserID, i)
		added = true
	}
	return added
}

func (mh *diguMatchHandler) handleStartGame(ctx context.Context, state *DiguMatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	senderSeat := findSeatOf(state.Seats[:], senderID)

	if senderSeat != state.OwnerSeat {
		logger.Warn("StartGame: User %s tried to start game but is not owner (owner_seat=%d)", senderID, state.OwnerSeat)
		return
	}
	if state.GameRunning() {
		logger.Warn("StartGame: Game already running.")
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
		mh.fillEmptySeatsWithBots(state, logger)
		mh.broadcastLobbyState(state, dispatcher, logger)
	}

	if state.Table == nil {
		state.Table = digu.NewTable(nil)
	}
	events, err := state.App.Deal(state.Table, state.Seats)
	if err != nil {
		logger.Error("StartGame: Failed to deal: %v", err)
		return
	}

	mh.updateLabel(state, dispatcher, logger)
	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
	logger.Info("StartGame: Digu game dealt by dealer %d.", state.Table.Game.Dealer)
}

func (mh *diguMatchHandler) handleDraw(ctx context.Context, state *DiguMatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	senderSeat := findSeatOf(state.Seats[:], senderID)
	if !state.GameRunning() {
		logger.Warn("handleDraw: Game not running.")
		return
	}

	request := &wire.DrawCardRequest{}
	if err := json.Unmarshal(msg.GetData(), request); err != nil {
		logger.Error("handleDraw: Failed to unmarshal DrawCardRequest: %v", err)
		return
	}

	events, err := state.App.Draw(state.Table, state.Seats, senderSeat, request.Source)
	if err != nil {
		logger.Warn("handleDraw: User %s (seat %d) failed to draw from %q: %v", senderID, senderSeat, request.Source, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}
	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
}

func (mh *diguMatchHandler) handleRearrange(ctx context.Context, state *DiguMatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	senderSeat := findSeatOf(state.Seats[:], senderID)
	if !state.GameRunning() {
		return
	}

	request := &wire.RearrangeRequest{}
	if err := json.Unmarshal(msg.GetData(), request); err != nil {
		logger.Error("handleRearrange: Failed to unmarshal RearrangeRequest: %v", err)
		return
	}

	events, err := state.App.Rearrange(state.Table, state.Seats, senderSeat, request.Order)
	if err != nil {
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}
	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
}

func (mh *diguMatchHandler) handleFinishMeld(ctx context.Context, state *DiguMatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	senderSeat := findSeatOf(state.Seats[:], senderID)
	if !state.GameRunning() {
		return
	}

	events, err := state.App.FinishMelding(state.Table, senderSeat)
	if err != nil {
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}
	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
}

func (mh *diguMatchHandler) handleDiscard(ctx context.Context, state *DiguMatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	senderSeat := findSeatOf(state.Seats[:], senderID)
	if !state.GameRunning() {
		return
	}

	request := &wire.DiscardRequest{}
	if err := json.Unmarshal(msg.GetData(), request); err != nil {
		logger.Error("handleDiscard: Failed to unmarshal DiscardRequest: %v", err)
		return
	}

	events, err := state.App.Discard(state.Table, senderSeat, request.Card)
	if err != nil {
		logger.Warn("handleDiscard: User %s (seat %d) failed to discard %s: %v", senderID, senderSeat, request.Card, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}
	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
}

func (mh *diguMatchHandler) handleDeclare(ctx context.Context, state *DiguMatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	senderSeat := findSeatOf(state.Seats[:], senderID)
	if !state.GameRunning() {
		return
	}

	events, err := state.App.Declare(state.Table, senderSeat)
	if err != nil {
		logger.Warn("handleDeclare: User %s (seat %d) declaration rejected: %v", senderID, senderSeat, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}
	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
	mh.settleGame(ctx, state, dispatcher, logger)
}

// settleGame records the finished game's results and flips the label back
// to the lobby so the owner can deal the next one.
func (mh *diguMatchHandler) settleGame(ctx context.Context, state *DiguMatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	res := state.Table.Game.Result
	if res != nil && state.Stats != nil {
		records := make([]ports.MatchRecord, 0, 4)
		for seat, userId := range state.Seats {
			if userId == "" || isBotUserId(userId) {
				continue
			}
			team := domain.TeamOf(seat)
			records = append(records, ports.MatchRecord{
				UserID: userId,
				Game:   "digu",
				Won:    team == res.Winner,
				Score:  res.TeamScores[team],
				Metadata: map[string]interface{}{
					"winner_seat": res.WinnerSeat,
				},
			})
		}
		if len(records) > 0 {
			if err := state.Stats.RecordResults(ctx, records); err != nil {
				logger.Error("settleGame: Failed to record stats: %v", err)
			}
		}
	}
	mh.updateLabel(state, dispatcher, logger)
}

func (mh *diguMatchHandler) handleResetStats(ctx context.Context, state *DiguMatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderSeat := findSeatOf(state.Seats[:], msg.GetUserId())
	if senderSeat != state.OwnerSeat {
		logger.Warn("handleResetStats: User %s is not the owner.", msg.GetUserId())
		return
	}
	if state.Table == nil || state.GameRunning() {
		return
	}
	events := state.App.ResetStats(state.Table)
	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
}

func (mh *diguMatchHandler) handleLeaveTable(ctx context.Context, state *DiguMatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	senderSeat := findSeatOf(state.Seats[:], senderID)
	if senderSeat < 0 {
		return
	}

	if state.GameRunning() {
		events, err := state.App.Abandon(state.Table, senderSeat)
		if err != nil {
			logger.Warn("handleLeaveTable: Abandon failed for seat %d: %v", senderSeat, err)
			return
		}
		mh.broadcastEvents(ctx, state, dispatcher, logger, events)
	}

	state.Seats[senderSeat] = ""
	if state.OwnerSeat == senderSeat {
		state.OwnerSeat = findFirstHumanSeat(state.Seats[:])
	}
	mh.updateLabel(state, dispatcher, logger)
	mh.broadcastLobbyState(state, dispatcher, logger)
}

func (mh *diguMatchHandler) broadcastEvents(ctx context.Context, state *DiguMatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

// broadcastEvent handles the conversion and dispatching of app events to Nakama.
func (mh *diguMatchHandler) broadcastEvent(ctx context.Context, state *DiguMatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	var opCode int64
	var payload interface{}

	switch ev.Kind {
	case app.EventDiguStarted:
		opCode = OpDiguStarted
		p := ev.Payload.(app.DiguStartedPayload)
		payload = wire.DiguStartedEvent{Dealer: p.Dealer, FirstSeat: p.FirstSeat}
	case app.EventDiguDealt:
		opCode = OpDiguDealt
		p := ev.Payload.(app.DiguDealtPayload)
		payload = wire.DiguDealtEvent{Seat: p.Seat, Hand: p.Hand, StockCount: p.StockCount, DiscardTop: p.DiscardTop}
	case app.EventCardDrawn:
		opCode = OpCardDrawn
		p := ev.Payload.(app.CardDrawnPayload)
		payload = wire.CardDrawnEvent{Seat: p.Seat, Source: p.Source, Card: p.Card}
	case app.EventDrawMade:
		opCode = OpDrawMade
		p := ev.Payload.(app.DrawMadePayload)
		event := wire.DrawMadeEvent{Seat: p.Seat, Source: p.Source, StockCount: p.StockCount, Reshuffled: p.Reshuffled}
		if p.Card != (domain.Card{}) {
			card := p.Card
			event.Card = &card
		}
		payload = event
	case app.EventHandArranged:
		opCode = OpHandArranged
		p := ev.Payload.(app.HandArrangedPayload)
		payload = wire.HandArrangedEvent{Seat: p.Seat, Hand: p.Hand}
	case app.EventMeldingDone:
		opCode = OpMeldingDone
		p := ev.Payload.(app.MeldingDonePayload)
		payload = wire.MeldingDoneEvent{Seat: p.Seat}
	case app.EventCardDiscarded:
		opCode = OpCardDiscarded
		p := ev.Payload.(app.CardDiscardedPayload)
		payload = wire.CardDiscardedEvent{Seat: p.Seat, Card: p.Card, NextSeat: p.NextSeat, StockCount: p.StockCount}
	case app.EventDiguDeclared:
		opCode = OpDiguDeclared
		p := ev.Payload.(app.DiguDeclaredPayload)
		payload = wire.DiguDeclaredEvent{Result: p.Result, Stats: p.Stats}
	case app.EventDiguAbandoned:
		opCode = OpDiguAbandoned
		p := ev.Payload.(app.DiguAbandonedPayload)
		payload = wire.DiguAbandonedEvent{Seat: p.Seat}
	case app.EventStatsReset:
		opCode = OpStatsReset
		payload = wire.StatsResetEvent{}
	default:
		logger.Warn("Unknown event kind: %v", ev.Kind)
		return
	}

	bytes, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}

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

// sendSnapshot sends the seat's private view of the running game.
func (mh *diguMatchHandler) sendSnapshot(state *DiguMatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, seat int) {
	if state.Table == nil || state.Table.Game == nil {
		return
	}
	presence, ok := state.Presences[state.Seats[seat]]
	if !ok {
		return
	}
	snap := app.DiguSnapshotFor(state.Table, state.Seats, seat)
	bytes, err := json.Marshal(snap)
	if err != nil {
		logger.Error("sendSnapshot: Failed to marshal snapshot: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpMatchSnapshot, bytes, []runtime.Presence{presence}, nil, true)
}

func (mh *diguMatchHandler) broadcastLobbyState(state *DiguMatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
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

func (mh *diguMatchHandler) sendError(state *DiguMatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
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

func (mh *diguMatchHandler) updateLabel(state *DiguMatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	matchPhase := "lobby"
	if state.GameRunning() {
		matchPhase = "playing"
	}

	label, err := marshalLabel(state.GetOpenSeatsCount(), "digu", matchPhase)
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *diguMatchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: Match terminated for reason %d", reason)
	return state
}

func (mh *diguMatchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
