package advpermission

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EditorSession records one open editor dialog: who opened it and which
// role/module/feature it is editing. Option resolutions and saves carry
// the session id so stale responses from a closed dialog can be dropped.
type EditorSession struct {
	ID         string    `json:"sessionId"`
	OwnerID    string    `json:"ownerId"`
	RoleID     string    `json:"roleId"`
	ModuleKey  string    `json:"moduleKey"`
	FeatureKey string    `json:"featureKey"`
	OpenedAt   time.Time `json:"openedAt"`
}

type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]EditorSession
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]EditorSession),
	}
}

func (r *SessionRegistry) Open(ownerID, roleID, moduleKey, featureKey string) EditorSession {
	session := EditorSession{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		RoleID:     roleID,
		ModuleKey:  moduleKey,
		FeatureKey: featureKey,
		OpenedAt:   time.Now(),
	}

	r.mu.Lock()
	r.sessions[session.ID] = session
	r.mu.Unlock()

	return session
}

func (r *SessionRegistry) Get(sessionID string) (EditorSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[sessionID]
	return session, ok
}

// Close removes the session. A later lookup by a slow option response
// fails, which is how in-flight work for a dismissed dialog is ignored.
func (r *SessionRegistry) Close(sessionID string) {
	r.mu.Lock()
	delete(r.sessions, sessionID)
	r.mu.Unlock()
}

func (r *SessionRegistry) ActiveForRole(roleID string) []EditorSession {
	r.mu.Lock()
	defer r.mu.Unlock()

	var active []EditorSession
	for _, session := range r.sessions {
		if session.RoleID == roleID {
			active = append(active, session)
		}
	}
	return active
}
