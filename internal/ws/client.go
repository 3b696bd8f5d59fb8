package ws

import (
	"time"

	"github.com/gorilla/websocket"

	"onenight_server/internal/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second

	sendBuffer = 64
)

// Client is one gateway connection. It starts unattached; a create_session
// or join_session command binds it to a session code and player seat.
type Client struct {
	// ID is the opaque connection handle stored on the player's seat.
	ID string

	// Name is the display name carried by the auth token.
	Name string

	// code is the attached session, empty until create/join. Written only
	// from the client's own read goroutine.
	code string

	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	hub  *Hub
}

func NewClient(id, name string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		ID:   id,
		Name: name,
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
		hub:  hub,
	}
}

// Run drives the connection until it drops.
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

func (c *Client) readPump() {
	// send is never closed; a buffered message to a gone client is simply
	// dropped. done stops the write pump.
	defer func() {
		c.hub.OnDisconnect(c)
		close(c.done)
	}()

	c.conn.SetReadLimit(4096)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			logger.Debug("read closed", "conn", c.ID, "err", err)
			return
		}
		c.hub.HandleCommand(c, raw)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Debug("write failed", "conn", c.ID, "err", err)
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
