package room

import (
	"encoding/json"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"dhihaei/internal/room/conf"
	"dhihaei/internal/wire"
)

// Room codes skip I, O, 0 and 1 so they survive being read out loud.
const (
	roomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	roomCodeLength   = 6
)

// Hub owns the set of live rooms. Lock ordering is hub before room; a room
// never calls back into the hub while holding its own lock.
type Hub struct {
	cfg *conf.Config
	log *logrus.Entry

	mu    sync.Mutex
	rooms map[string]*Room
	rng   *rand.Rand
}

func NewHub(cfg *conf.Config, log *logrus.Entry) *Hub {
	if cfg == nil {
		cfg = conf.DefaultConf
	}
	return &Hub{
		cfg:   cfg,
		log:   log,
		rooms: make(map[string]*Room),
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// generateCode returns a code not currently in use. Caller holds h.mu.
func (h *Hub) generateCode() string {
	var sb strings.Builder
	for {
		sb.Reset()
		for i := 0; i < roomCodeLength; i++ {
			sb.WriteByte(roomCodeAlphabet[h.rng.Intn(len(roomCodeAlphabet))])
		}
		if _, taken := h.rooms[sb.String()]; !taken {
			return sb.String()
		}
	}
}

// CreateRoom makes a fresh room and seats the creator in seat 0. The hub
// lock is held until the creator is seated, so no joiner can reach the room
// first.
func (h *Hub) CreateRoom(c *Client, name string) *Room {
	h.mu.Lock()
	defer h.mu.Unlock()
	code := h.generateCode()
	r := newRoom(code, h, h.cfg, h.log.WithField("room", code))
	h.rooms[code] = r
	_ = r.join(c, name, MsgRoomCreated)
	h.log.WithField("room", code).Info("room created")
	return r
}

// JoinRoom seats the client in an existing room.
func (h *Hub) JoinRoom(c *Client, code, name string) (*Room, error) {
	h.mu.Lock()
	r, ok := h.rooms[strings.ToUpper(code)]
	h.mu.Unlock()
	if !ok {
		return nil, errRoomNotFound
	}
	if err := r.join(c, name, MsgRoomJoined); err != nil {
		return nil, err
	}
	return r, nil
}

// removeRoom drops a closed room from the map.
func (h *Hub) removeRoom(code string) {
	h.mu.Lock()
	delete(h.rooms, code)
	h.mu.Unlock()
}

func (h *Hub) RoomCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms)
}

// drop handles a client whose read loop ended.
func (h *Hub) drop(c *Client) {
	if c.room != nil {
		c.room.leave(c)
		c.room = nil
	}
}

// route dispatches one decoded envelope from a client's read loop.
func (h *Hub) route(c *Client, env Envelope) {
	switch env.Type {
	case MsgCreateRoom:
		if c.room != nil {
			c.sendError(400, "already in a room")
			return
		}
		var req CreateRoomRequest
		if err := json.Unmarshal(env.Data, &req); err != nil || req.Name == "" {
			c.sendError(400, "name required")
			return
		}
		c.name = req.Name
		c.room = h.CreateRoom(c, req.Name)

	case MsgJoinRoom:
		if c.room != nil {
			c.sendError(400, "already in a room")
			return
		}
		var req JoinRoomRequest
		if err := json.Unmarshal(env.Data, &req); err != nil || req.Name == "" || req.Code == "" {
			c.sendError(400, "code and name required")
			return
		}
		r, err := h.JoinRoom(c, req.Code, req.Name)
		if err != nil {
			code := 409
			if errors.Is(err, errRoomNotFound) {
				code = 404
			}
			c.sendError(code, err.Error())
			return
		}
		c.name = req.Name
		c.room = r

	case MsgLeaveRoom:
		if c.room == nil {
			c.sendError(400, "not in a room")
			return
		}
		c.room.leave(c)
		c.room = nil

	case MsgSetReady:
		var req SetReadyRequest
		if err := json.Unmarshal(env.Data, &req); err != nil {
			c.sendError(400, "malformed message")
			return
		}
		h.inRoom(c, func(r *Room) { r.setReady(c, req.Ready) })

	case MsgSwapSeat:
		var req SwapSeatRequest
		if err := json.Unmarshal(env.Data, &req); err != nil {
			c.sendError(400, "malformed message")
			return
		}
		h.inRoom(c, func(r *Room) { r.swapSeat(c, req.Seat) })

	case MsgAddBots:
		h.inRoom(c, func(r *Room) { r.addBots(c) })

	case MsgStartGame:
		var req wire.StartGameRequest
		if env.Data != nil {
			if err := json.Unmarshal(env.Data, &req); err != nil {
				c.sendError(400, "malformed message")
				return
			}
		}
		h.inRoom(c, func(r *Room) { r.startGame(c, req.TargetPoints) })

	case MsgPlayCard:
		var req wire.PlayCardRequest
		if err := json.Unmarshal(env.Data, &req); err != nil {
			c.sendError(400, "malformed message")
			return
		}
		h.inRoom(c, func(r *Room) { r.playCard(c, req.Card) })

	default:
		c.sendError(400, "unknown message type")
	}
}

func (h *Hub) inRoom(c *Client, fn func(r *Room)) {
	if c.room == nil {
		c.sendError(400, "not in a room")
		return
	}
	fn(c.room)
}
