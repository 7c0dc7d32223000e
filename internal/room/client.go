package room

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"dhihaei/internal/wire"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 8192
	sendBuffer     = 32
)

// Client is one websocket connection. The room and name fields are owned by
// the client's read loop; everything the room broadcasts goes through the
// send channel so the write loop is the only writer on the socket.
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn

	send chan []byte
	done chan struct{}
	once sync.Once

	name string
	room *Room
}

func newClient(id string, hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		id:   id,
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
}

// Close shuts the connection down once. The send channel is never closed;
// enqueue selects on done instead.
func (c *Client) Close() {
	c.once.Do(func() {
		close(c.done)
		if c.conn != nil {
			c.conn.Close()
		}
	})
}

// enqueue hands a frame to the write loop. Blocks only while the client is
// alive with a full buffer; the write deadline kills stalled connections.
func (c *Client) enqueue(frame []byte) {
	select {
	case <-c.done:
	case c.send <- frame:
	}
}

// sendMessage encodes and enqueues one envelope.
func (c *Client) sendMessage(msgType string, payload any) {
	frame, err := encode(msgType, payload)
	if err != nil {
		return
	}
	c.enqueue(frame)
}

func (c *Client) sendError(code int, message string) {
	c.sendMessage(MsgError, wire.GameErrorEvent{Code: code, Message: message})
}

func (c *Client) writePump(pongWait time.Duration) {
	ticker := time.NewTicker(pongWait * 9 / 10)
	defer func() {
		ticker.Stop()
		c.Close()
	}()
	for {
		select {
		case <-c.done:
			return
		case frame := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) readPump(pongWait time.Duration) {
	defer func() {
		c.hub.drop(c)
		c.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.sendError(400, "malformed message")
			continue
		}
		c.hub.route(c, env)
	}
}
