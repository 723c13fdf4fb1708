package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"gartic-show/internal/db"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// wsHub fans session snapshots out to game watchers, and the lobby list out
// to clients sitting on the lobby browser. Both delivery paths carry full
// state, never deltas, so a missed or duplicated message is harmless.
type wsHub struct {
	mu       sync.Mutex
	games    map[string]map[*websocket.Conn]struct{}
	watchers map[*websocket.Conn]struct{}
}

func newWSHub() *wsHub {
	return &wsHub{
		games:    make(map[string]map[*websocket.Conn]struct{}),
		watchers: make(map[*websocket.Conn]struct{}),
	}
}

func (h *wsHub) AddGame(sessionID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.games[sessionID]
	if group == nil {
		group = make(map[*websocket.Conn]struct{})
		h.games[sessionID] = group
	}
	group[conn] = struct{}{}
}

func (h *wsHub) RemoveGame(sessionID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if group, ok := h.games[sessionID]; ok {
		delete(group, conn)
		if len(group) == 0 {
			delete(h.games, sessionID)
		}
	}
	_ = conn.Close()
}

func (h *wsHub) AddWatcher(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.watchers[conn] = struct{}{}
}

func (h *wsHub) RemoveWatcher(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.watchers, conn)
	_ = conn.Close()
}

func (h *wsHub) BroadcastGame(sessionID string, payload any) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.games[sessionID]))
	for conn := range h.games[sessionID] {
		conns = append(conns, conn)
	}
	h.mu.Unlock()
	send(conns, payload)
}

func (h *wsHub) BroadcastLobbies(payload any) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.watchers))
	for conn := range h.watchers {
		conns = append(conns, conn)
	}
	h.mu.Unlock()
	send(conns, payload)
}

func send(conns []*websocket.Conn, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	for _, conn := range conns {
		_ = conn.WriteMessage(websocket.TextMessage, data)
	}
}

func (s *Server) handleGameWebsocket(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	found := false
	_ = s.store.View(sessionID, func(sess *Session) { found = true })
	if !found {
		http.NotFound(w, r)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed lobby_id=%s error=%v", sessionID, err)
		return
	}
	s.hub.AddGame(sessionID, conn)
	s.pushGameSnapshot(sessionID)
	go func() {
		defer s.hub.RemoveGame(sessionID, conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) handleLobbyWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed error=%v", err)
		return
	}
	s.hub.AddWatcher(conn)
	s.pushLobbyList()
	go func() {
		defer s.hub.RemoveWatcher(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// pushGameSnapshot broadcasts the guesser-visible snapshot to the session's
// websocket group. Viewer-specific word visibility stays on the pull API.
func (s *Server) pushGameSnapshot(sessionID string) {
	var snapshot map[string]any
	if err := s.store.View(sessionID, func(sess *Session) {
		snapshot = sessionSnapshot(sess, "")
	}); err != nil {
		return
	}
	s.hub.BroadcastGame(sessionID, snapshot)
}

func (s *Server) pushLobbyList() {
	s.hub.BroadcastLobbies(map[string]any{
		"lobbies": s.store.ListByStatus(db.StatusWaiting),
	})
}
