package handlers

import (
	"log"
	"net/http"
	"slices"

	"command-api/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WSHandler serves the command change feed.
type WSHandler struct {
	mgr      *ws.Manager
	upgrader websocket.Upgrader
}

// NewWSHandler builds the feed handler. When allowedOrigins is empty every
// origin may subscribe, matching the CORS setup of the REST routes.
func NewWSHandler(mgr *ws.Manager, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		mgr:      mgr,
		upgrader: websocket.Upgrader{CheckOrigin: originChecker(allowedOrigins)},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(r *http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		// non-browser clients send no Origin
		return origin == "" || slices.Contains(allowed, origin)
	}
}

// Subscribe upgrades to websocket and keeps the client registered until it
// disconnects. Incoming messages are ignored.
// GET /ws/commands
func (h *WSHandler) Subscribe(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	id := h.mgr.Register(conn)
	log.Printf("subscriber connected: %s", id)

	defer func() {
		h.mgr.Unregister(id)
		log.Printf("subscriber disconnected: %s", id)
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("read error from %s: %v", id, err)
			}
			return
		}
	}
}

// GetSubscribers GET /api/subscribers
func (h *WSHandler) GetSubscribers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"subscribers": h.mgr.List(), "count": h.mgr.Count()})
}
