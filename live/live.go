// Package live pushes change notifications to connected browsers so slot
// grids and the audit page refresh without polling.
package live

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"

	"eletralog/middleware"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins — adjust for production if needed
		return true
	},
}

var (
	subscribers = make(map[string][]*websocket.Conn)
	mu          sync.Mutex
)

// ScheduleTopic keys the per-day, per-location update channel.
func ScheduleTopic(date, location string) string {
	return date + "_" + location
}

// GET /ws/schedule/:date/:location
func HandleScheduleWS(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	serve(w, r, ScheduleTopic(ps.ByName("date"), ps.ByName("location")))
}

// GET /ws/audit
func HandleAuditWS(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	serve(w, r, "audit")
}

func serve(w http.ResponseWriter, r *http.Request, topic string) {
	// browsers cannot set headers on websocket upgrades
	if _, err := middleware.ValidateJWT(r.URL.Query().Get("token")); err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "WebSocket upgrade failed", http.StatusBadRequest)
		return
	}

	mu.Lock()
	subscribers[topic] = append(subscribers[topic], conn)
	mu.Unlock()

	for {
		// keeps the connection alive until the client disconnects
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	mu.Lock()
	conns := subscribers[topic]
	newList := make([]*websocket.Conn, 0, len(conns))
	for _, c := range conns {
		if c != conn {
			newList = append(newList, c)
		}
	}
	subscribers[topic] = newList
	mu.Unlock()

	conn.Close()
}

func Broadcast(topic string, val []byte) {
	mu.Lock()
	defer mu.Unlock()

	conns := subscribers[topic]
	newList := conns[:0]

	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, val); err == nil {
			newList = append(newList, conn)
		} else {
			conn.Close()
		}
	}

	subscribers[topic] = newList
}

// BroadcastUpdate tells viewers of a topic to re-fetch.
func BroadcastUpdate(topic string) {
	msg, _ := json.Marshal(map[string]string{"type": "update"})
	Broadcast(topic, msg)
}
