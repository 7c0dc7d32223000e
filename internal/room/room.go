package room

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"dhihaei/internal/app"
	"dhihaei/internal/bot"
	"dhihaei/internal/domain"
	"dhihaei/internal/room/conf"
)

var (
	errRoomNotFound   = errors.New("room not found")
	errRoomFull       = errors.New("room is full")
	errGameInProgress = errors.New("game already started")
)

// Room is one table: four seats, a lobby phase with ready flags, then a
// match hosted server-side. All state behind mu; bot moves come in through
// timers that re-validate the turn under the same lock.
type Room struct {
	code string
	hub  *Hub
	cfg  *conf.Config
	log  *logrus.Entry

	mu     sync.Mutex
	closed bool
	seats  [4]*Client
	names  [4]string
	ready  [4]bool
	bots   [4]*bot.Agent

	svc     *app.DhihaService
	match   *domain.Match
	turnSeq int
	rng     *rand.Rand
}

func newRoom(code string, hub *Hub, cfg *conf.Config, log *logrus.Entry) *Room {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Room{
		code: code,
		hub:  hub,
		cfg:  cfg,
		log:  log,
		svc:  app.NewDhihaService(rng),
		rng:  rng,
	}
}

func (r *Room) Code() string { return r.code }

// join seats the client in the first free seat and confirms with the given
// message type before the state broadcast goes out.
func (r *Room) join(c *Client, name, confirm string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return errRoomNotFound
	}
	if r.match != nil {
		return errGameInProgress
	}
	seat := -1
	for i := 0; i < 4; i++ {
		if !r.occupiedLocked(i) {
			seat = i
			break
		}
	}
	if seat < 0 {
		return errRoomFull
	}
	r.seats[seat] = c
	r.names[seat] = name
	r.ready[seat] = false
	c.sendMessage(confirm, RoomJoinedEvent{Code: r.code, Seat: seat})
	r.broadcastStateLocked()
	return nil
}

// leave frees the client's seat. A departure mid-match forfeits it for the
// leaver's team; the last human out closes the room.
func (r *Room) leave(c *Client) {
	r.mu.Lock()
	seat := r.seatOfLocked(c)
	if seat < 0 {
		r.mu.Unlock()
		return
	}
	if r.match != nil && r.match.Status == domain.MatchPlaying {
		if events, err := r.svc.Abandon(r.match, seat); err == nil {
			r.dispatchLocked(events)
		}
		r.match = nil
		r.clearHumanReadyLocked()
	}
	r.seats[seat] = nil
	r.names[seat] = ""
	r.ready[seat] = false
	lastOut := r.humanCountLocked() == 0
	if lastOut {
		r.closed = true
	} else {
		r.broadcastStateLocked()
	}
	r.mu.Unlock()

	if lastOut {
		r.hub.removeRoom(r.code)
		r.log.Info("room closed")
	}
}

func (r *Room) setReady(c *Client, ready bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seat := r.seatOfLocked(c)
	if seat < 0 {
		c.sendError(400, "not seated")
		return
	}
	if r.match != nil {
		c.sendError(409, "game already started")
		return
	}
	r.ready[seat] = ready
	r.broadcastStateLocked()
}

// swapSeat moves the player at from onto the other team: into an empty slot
// when the other team has one, otherwise trading places with its first
// player. Host only.
func (r *Room) swapSeat(c *Client, from int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.isHostLocked(c) {
		c.sendError(403, "only the host can move players")
		return
	}
	if r.match != nil {
		c.sendError(409, "game already started")
		return
	}
	if from < 0 || from > 3 || !r.occupiedLocked(from) {
		c.sendError(400, "no player at that seat")
		return
	}
	targets := [2]int{1, 3}
	if from%2 == 1 {
		targets = [2]int{0, 2}
	}
	to := -1
	for _, t := range targets {
		if !r.occupiedLocked(t) {
			to = t
			break
		}
	}
	if to < 0 {
		to = targets[0]
	}
	r.seats[from], r.seats[to] = r.seats[to], r.seats[from]
	r.names[from], r.names[to] = r.names[to], r.names[from]
	r.ready[from], r.ready[to] = r.ready[to], r.ready[from]
	r.bots[from], r.bots[to] = r.bots[to], r.bots[from]
	r.broadcastStateLocked()
}

// addBots fills every empty seat with a provisioned bot. Bots are always
// ready. Host only.
func (r *Room) addBots(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.isHostLocked(c) {
		c.sendError(403, "only the host can add bots")
		return
	}
	if r.match != nil {
		c.sendError(409, "game already started")
		return
	}
	botIndex := 0
	for i := 0; i < 4; i++ {
		if r.occupiedLocked(i) {
			continue
		}
		identity := bot.GetBotIdentity(botIndex)
		botIndex++
		for r.seatOfIDLocked(identity.UserID) >= 0 {
			identity = bot.GetBotIdentity(botIndex)
			botIndex++
		}
		agent, err := bot.NewAgentForIdentity(identity)
		if err != nil {
			r.log.WithError(err).Error("create bot agent")
			continue
		}
		r.bots[i] = agent
		r.names[i] = identity.DisplayName
		r.ready[i] = true
	}
	r.broadcastStateLocked()
}

// startGame deals the first round once all four seats are occupied and
// ready. Host only.
func (r *Room) startGame(c *Client, targetPoints int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.isHostLocked(c) {
		c.sendError(403, "only the host can start the game")
		return
	}
	if r.match != nil {
		c.sendError(409, "game already started")
		return
	}
	for i := 0; i < 4; i++ {
		if !r.occupiedLocked(i) {
			c.sendError(400, "need four players")
			return
		}
		if !r.ready[i] {
			c.sendError(400, "everyone must be ready")
			return
		}
	}
	if targetPoints <= 0 {
		targetPoints = r.cfg.TargetPoints
	}
	dealer := r.rng.Intn(4)
	m, events, err := r.svc.StartMatch(dealer, targetPoints, r.seatIDsLocked())
	if err != nil {
		r.log.WithError(err).Error("start match")
		c.sendError(500, "could not start the game")
		return
	}
	r.match = m
	r.turnSeq++
	r.primeBotsLocked()
	r.dispatchLocked(events)
	r.broadcastStateLocked()
	r.scheduleBotLocked()
}

func (r *Room) playCard(c *Client, card domain.Card) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seat := r.seatOfLocked(c)
	if seat < 0 {
		c.sendError(400, "not seated")
		return
	}
	if r.match == nil {
		c.sendError(409, "no game in progress")
		return
	}
	r.applyPlayLocked(seat, card, c)
}

// applyPlayLocked pushes one play through the engine, tells the agents what
// hit the table, fans the events out and keeps the match moving: next round
// dealt, or back to the lobby after the final one.
func (r *Room) applyPlayLocked(seat int, card domain.Card, human *Client) {
	led := r.match.Round.Trick.LedSuit()
	if led == domain.SuitNone {
		led = card.Suit
	}
	events, err := r.svc.PlayCard(r.match, seat, card)
	if err != nil {
		if human != nil {
			human.sendError(400, "invalid play")
		}
		return
	}
	r.turnSeq++
	for _, agent := range r.bots {
		if agent != nil {
			agent.OnPlay(seat, card, led)
		}
	}
	r.dispatchLocked(events)

	roundEnded := false
	for _, ev := range events {
		if ev.Kind == app.EventRoundEnded {
			roundEnded = true
		}
	}
	if r.match.Status != domain.MatchPlaying {
		r.match = nil
		r.clearHumanReadyLocked()
		r.broadcastStateLocked()
		return
	}
	if roundEnded {
		roundEvents, err := r.svc.StartRound(r.match, r.seatIDsLocked())
		if err != nil {
			r.log.WithError(err).Error("deal next round")
			return
		}
		r.turnSeq++
		r.primeBotsLocked()
		r.dispatchLocked(roundEvents)
	}
	r.scheduleBotLocked()
}

// scheduleBotLocked arms a timer for the seat on turn when a bot holds it.
// The timer re-validates against turnSeq so a stale one cannot double-play.
func (r *Room) scheduleBotLocked() {
	if r.match == nil || !r.match.RoundInProgress() {
		return
	}
	seat := r.match.Round.CurrentSeat
	if r.bots[seat] == nil {
		return
	}
	seq := r.turnSeq
	lo, hi := r.cfg.BotMinDelayMs, r.cfg.BotMaxDelayMs
	if hi < lo {
		hi = lo
	}
	delay := time.Duration(lo+r.rng.Intn(hi-lo+1)) * time.Millisecond
	time.AfterFunc(delay, func() { r.botPlay(seq) })
}

func (r *Room) botPlay(seq int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || r.match == nil || r.turnSeq != seq || !r.match.RoundInProgress() {
		return
	}
	seat := r.match.Round.CurrentSeat
	agent := r.bots[seat]
	if agent == nil {
		return
	}
	round := r.match.Round
	turn := bot.Turn{
		Seat:  seat,
		Hand:  round.Hands[seat],
		Valid: round.ValidPlays(seat),
		Trick: &round.Trick,
		Trump: round.Trump,
	}
	card, err := agent.Play(turn)
	if err != nil {
		r.log.WithError(err).Errorf("bot %s failed to choose a card", agent.Name)
		return
	}
	r.applyPlayLocked(seat, card, nil)
}

func (r *Room) primeBotsLocked() {
	if r.match == nil || r.match.Round == nil {
		return
	}
	for i, agent := range r.bots {
		if agent != nil {
			agent.OnRoundStart(r.match.Round.Hands[i])
		}
	}
}

// dispatchLocked fans events out to the seated humans. Targeted events go
// only to their recipients; a bot recipient simply has no socket.
func (r *Room) dispatchLocked(events []app.Event) {
	for _, ev := range events {
		frame, err := encode(string(ev.Kind), wirePayload(ev))
		if err != nil {
			r.log.WithError(err).Errorf("encode %s", ev.Kind)
			continue
		}
		if len(ev.Recipients) > 0 {
			for _, uid := range ev.Recipients {
				if seat := r.seatOfIDLocked(uid); seat >= 0 && r.seats[seat] != nil {
					r.seats[seat].enqueue(frame)
				}
			}
			continue
		}
		for _, c := range r.seats {
			if c != nil {
				c.enqueue(frame)
			}
		}
	}
}

func (r *Room) broadcastStateLocked() {
	st := RoomStateEvent{
		Code:     r.code,
		HostSeat: r.hostSeatLocked(),
		Started:  r.match != nil,
	}
	for i := 0; i < 4; i++ {
		st.Seats[i] = SeatInfo{Seat: i, Ready: r.ready[i]}
	}
	for _, s := range r.rosterLocked() {
		st.Seats[s.Position].Name = s.Name
		st.Seats[s.Position].IsBot = s.IsScripted()
		st.Seats[s.Position].Occupied = true
	}
	frame, err := encode(MsgRoomState, st)
	if err != nil {
		return
	}
	for _, c := range r.seats {
		if c != nil {
			c.enqueue(frame)
		}
	}
}

func (r *Room) occupiedLocked(i int) bool {
	return r.seats[i] != nil || r.bots[i] != nil
}

func (r *Room) seatOfLocked(c *Client) int {
	for i, s := range r.seats {
		if s == c {
			return i
		}
	}
	return -1
}

// seatOfIDLocked matches either a client id or a bot agent id.
func (r *Room) seatOfIDLocked(id string) int {
	if id == "" {
		return -1
	}
	for i := 0; i < 4; i++ {
		if r.seats[i] != nil && r.seats[i].id == id {
			return i
		}
		if r.bots[i] != nil && r.bots[i].ID == id {
			return i
		}
	}
	return -1
}

// rosterLocked lists the occupied seats with their control mode: connected
// clients are remote, agents scripted.
func (r *Room) rosterLocked() []domain.Seat {
	roster := make([]domain.Seat, 0, 4)
	for i := 0; i < 4; i++ {
		s := domain.Seat{Position: i, Name: r.names[i]}
		switch {
		case r.seats[i] != nil:
			s.Control = domain.ControlRemote
		case r.bots[i] != nil:
			s.Control = domain.ControlScripted
		default:
			continue
		}
		roster = append(roster, s)
	}
	return roster
}

func (r *Room) seatIDsLocked() [4]string {
	var ids [4]string
	for i := 0; i < 4; i++ {
		switch {
		case r.seats[i] != nil:
			ids[i] = r.seats[i].id
		case r.bots[i] != nil:
			ids[i] = r.bots[i].ID
		}
	}
	return ids
}

// hostSeatLocked is the lowest seat held by a human, so the room cannot be
// left hostless while anyone is still connected.
func (r *Room) hostSeatLocked() int {
	for i := 0; i < 4; i++ {
		if r.seats[i] != nil {
			return i
		}
	}
	return -1
}

func (r *Room) isHostLocked(c *Client) bool {
	host := r.hostSeatLocked()
	return host >= 0 && r.seats[host] == c
}

func (r *Room) humanCountLocked() int {
	n := 0
	for _, c := range r.seats {
		if c != nil {
			n++
		}
	}
	return n
}

func (r *Room) clearHumanReadyLocked() {
	for i := 0; i < 4; i++ {
		if r.seats[i] != nil {
			r.ready[i] = false
		}
	}
}
