package services

import (
	"net/http"

	"github.com/bellapacxx/retro-backend/models"
	"github.com/bellapacxx/retro-backend/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWebSocket upgrades a client onto the session's event feed. The
// session is resolved by its share link so any link holder can listen.
func (h *Hub) HandleWebSocket(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var session models.Session
		if err := db.First(&session, "share_link = ?", c.Param("shareLink")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Errorf("[ws] upgrade error: %v", err)
			return
		}

		client := &BoardClient{
			sessionID: session.ID,
			userID:    c.Query("user_id"),
			conn:      conn,
			hub:       h,
			send:      make(chan []byte, 32),
		}
		h.addClient(client)
	}
}
