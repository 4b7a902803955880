package system

import (
	"sync"

	"go.uber.org/zap"
)

// PolicyEvent is pushed to every connected console when a role's
// compiled policy changes, so open screens can drop cached grants.
type PolicyEvent struct {
	Type       string `json:"type"`
	RoleID     string `json:"roleId"`
	ModuleKey  string `json:"moduleKey"`
	FeatureKey string `json:"featureKey"`
}

const EventPolicyUpdated = "policy.updated"

type eventConn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// PolicyHub fans policy change events out to connected websockets.
// It satisfies the notifier the permission service broadcasts through.
type PolicyHub struct {
	mu     sync.Mutex
	conns  map[eventConn]struct{}
	logger *zap.Logger
}

func NewPolicyHub(logger *zap.Logger) *PolicyHub {
	return &PolicyHub{
		conns:  make(map[eventConn]struct{}),
		logger: logger,
	}
}

func (h *PolicyHub) Register(conn eventConn) {
	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()
}

func (h *PolicyHub) Unregister(conn eventConn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
}

func (h *PolicyHub) PolicyUpdated(roleID, moduleKey, featureKey string) {
	event := PolicyEvent{
		Type:       EventPolicyUpdated,
		RoleID:     roleID,
		ModuleKey:  moduleKey,
		FeatureKey: featureKey,
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.conns {
		if err := conn.WriteJSON(event); err != nil {
			// A dead connection is dropped here; the read loop will
			// also notice and unregister, which is a no-op by then.
			h.logger.Debug("dropping websocket subscriber", zap.Error(err))
			delete(h.conns, conn)
			conn.Close()
		}
	}
}

func (h *PolicyHub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}
