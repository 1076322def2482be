package retrieval

import "sync"

// sessionArena holds the session-scoped document collections. Access is
// confined to the single request that created a session; the lock guards
// against concurrent clearSession/store calls within one process, it is
// not a cross-request coordination mechanism (§5).
type sessionArena struct {
	mu       sync.Mutex
	sessions map[string][]Document
}

func newSessionArena() *sessionArena {
	return &sessionArena{sessions: make(map[string][]Document)}
}

func (a *sessionArena) store(sessionID string, docs []Document) {
	if sessionID == "" {
		sessionID = "default"
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sessions[sessionID] = docs
}

func (a *sessionArena) get(sessionID string) []Document {
	if sessionID == "" {
		sessionID = "default"
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sessions[sessionID]
}

// clear discards a session's documents (§4.7 "Session lifecycle").
func (a *sessionArena) clear(sessionID string) {
	if sessionID == "" {
		sessionID = "default"
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.sessions, sessionID)
}
