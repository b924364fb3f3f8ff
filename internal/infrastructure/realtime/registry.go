package realtime

import (
	"sync"
)

// Session is the registry's view of a live realtime connection.
// *Connection is the production implementation; tests supply fakes.
type Session interface {
	SessionID() string
	PeerID() string
	Send(payload []byte) error
	Close(code int, reason string)
}

// Registry is the process-wide table of live sessions, their peer addresses
// and their room memberships. All state is in-memory and lost on restart;
// clients re-join rooms after reconnecting. Every mutation happens under the
// mutex since handlers run on independent goroutines.
type Registry struct {
	mu           sync.RWMutex
	sessions     map[string]Session            // sessionID -> session
	peers        map[string]string             // peer address -> sessionID
	rooms        map[string]map[string]Session // conversationID -> sessionID -> session
	sessionRooms map[string]map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		sessions:     make(map[string]Session),
		peers:        make(map[string]string),
		rooms:        make(map[string]map[string]Session),
		sessionRooms: make(map[string]map[string]struct{}),
	}
}

// Attach registers a session under its peer address. A peer gets one active
// session: an existing one is swapped out and closed after the registry is
// released.
func (r *Registry) Attach(s Session) {
	var previous Session

	r.mu.Lock()
	if existingID, ok := r.peers[s.PeerID()]; ok {
		if existing := r.sessions[existingID]; existing != nil {
			previous = existing
			r.detachLocked(existingID)
		}
	}
	r.sessions[s.SessionID()] = s
	r.peers[s.PeerID()] = s.SessionID()
	r.sessionRooms[s.SessionID()] = make(map[string]struct{})
	r.mu.Unlock()

	if previous != nil {
		previous.Close(4001, "session replaced")
	}
}

// Detach removes the session and clears every room membership it held.
// No notification is sent to remaining room members.
func (r *Registry) Detach(s Session) {
	r.mu.Lock()
	r.detachLocked(s.SessionID())
	r.mu.Unlock()
}

// Join adds the session to the conversation's room. Joining a room the
// session is already in is a no-op. Sessions not attached to the registry
// are ignored.
func (r *Registry) Join(conversationID string, s Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[s.SessionID()]; !ok {
		return
	}
	room := r.rooms[conversationID]
	if room == nil {
		room = make(map[string]Session)
		r.rooms[conversationID] = room
	}
	room[s.SessionID()] = s
	r.sessionRooms[s.SessionID()][conversationID] = struct{}{}
}

// Leave removes the session from the conversation's room.
func (r *Registry) Leave(conversationID string, s Session) {
	r.mu.Lock()
	r.leaveLocked(conversationID, s.SessionID())
	r.mu.Unlock()
}

// Broadcast delivers payload to every current member of the conversation's
// room, the sender included when it is a member. A send failure on one
// session never stops delivery to the rest. Returns the number delivered.
func (r *Registry) Broadcast(conversationID string, payload []byte) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	delivered := 0
	for _, s := range r.rooms[conversationID] {
		if err := s.Send(payload); err == nil {
			delivered++
		}
	}
	return delivered
}

// NotifyPeer delivers payload to the session registered under the peer
// address. Reports false when the peer is unknown or the send failed.
func (r *Registry) NotifyPeer(peerID string, payload []byte) bool {
	r.mu.RLock()
	sessionID, ok := r.peers[peerID]
	var s Session
	if ok {
		s = r.sessions[sessionID]
	}
	r.mu.RUnlock()

	if s == nil {
		return false
	}
	return s.Send(payload) == nil
}

// PeerOnline reports whether a live session is registered for the address.
func (r *Registry) PeerOnline(peerID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.peers[peerID]
	return ok
}

// Close terminates all tracked sessions and resets the registry.
func (r *Registry) Close() {
	r.mu.Lock()
	sessions := make([]Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.sessions = make(map[string]Session)
	r.peers = make(map[string]string)
	r.rooms = make(map[string]map[string]Session)
	r.sessionRooms = make(map[string]map[string]struct{})
	r.mu.Unlock()

	for _, s := range sessions {
		s.Close(1001, "registry shutdown")
	}
}

func (r *Registry) detachLocked(sessionID string) {
	s, ok := r.sessions[sessionID]
	if !ok {
		return
	}
	delete(r.sessions, sessionID)

	if current, ok := r.peers[s.PeerID()]; ok && current == sessionID {
		delete(r.peers, s.PeerID())
	}
	for roomID := range r.sessionRooms[sessionID] {
		r.leaveLocked(roomID, sessionID)
	}
	delete(r.sessionRooms, sessionID)
}

func (r *Registry) leaveLocked(conversationID, sessionID string) {
	room := r.rooms[conversationID]
	if room == nil {
		return
	}
	delete(room, sessionID)
	if len(room) == 0 {
		delete(r.rooms, conversationID)
	}
	if memberships, ok := r.sessionRooms[sessionID]; ok {
		delete(memberships, conversationID)
	}
}
