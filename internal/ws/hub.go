package ws

import (
	"sync"

	"rpg_tracker/internal/logger"
	"rpg_tracker/internal/service"
)

// Hub fans achievement unlocks out to every open connection of a player.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[int64]map[*Client]struct{})}
}

var _ service.Notifier = (*Hub)(nil)

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.PlayerID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.PlayerID] = set
	}
	set[c] = struct{}{}
	logger.Debug("ws client registered", "player_id", c.PlayerID, "connections", len(set))
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.PlayerID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.Send)
	if len(set) == 0 {
		delete(h.clients, c.PlayerID)
	}
}

// Connections returns the number of open connections for a player.
func (h *Hub) Connections(playerID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[playerID])
}

// NotifyUnlocks pushes newly unlocked achievements. Slow clients whose
// buffer is full miss the message instead of blocking the caller.
func (h *Hub) NotifyUnlocks(playerID int64, unlocked []service.AchievementView) {
	if len(unlocked) == 0 {
		return
	}
	msg, err := encode(MsgAchievements, AchievementsPayload{PlayerID: playerID, Achievements: unlocked})
	if err != nil {
		logger.Error("ws encode failed", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[playerID] {
		select {
		case c.Send <- msg:
		default:
			logger.Warn("ws send buffer full, dropping message", "player_id", playerID)
		}
	}
}

// Close disconnects every client. Each read pump then unregisters itself.
func (h *Hub) Close() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, set := range h.clients {
		for c := range set {
			_ = c.Conn.Close()
		}
	}
}
