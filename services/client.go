package services

import (
	"sync"

	"github.com/bellapacxx/retro-backend/utils/logger"

	"github.com/gorilla/websocket"
)

// BoardClient is one websocket connection watching a session.
type BoardClient struct {
	sessionID string
	userID    string
	conn      *websocket.Conn
	hub       *Hub
	send      chan []byte
	once      sync.Once
}

func (c *BoardClient) Close() {
	c.once.Do(func() {
		close(c.send)
		if c.conn != nil {
			c.conn.Close()
		}
	})
}

// readPump drains inbound frames. Clients only listen; reading here exists
// to detect disconnects and answer pings.
func (c *BoardClient) readPump() {
	defer func() {
		c.hub.removeClient(c)
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debugf("[hub] client %s left session %s", c.userID, c.sessionID)
			} else {
				logger.Debugf("[hub] client %s read error: %v", c.userID, err)
			}
			return
		}
	}
}

func (c *BoardClient) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			logger.Debugf("[hub] client %s write error: %v", c.userID, err)
			return
		}
	}
}
