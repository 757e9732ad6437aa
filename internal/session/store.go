package session

import (
	"slices"
	"sync"
	"time"

	"github.com/tbourn/spreadit-gateway/internal/domain"
)

// Listener observes a transition. It runs after the store lock is released.
type Listener func(prev, next State, cmd Command)

// Store holds one session's state.
type Store struct {
	mu        sync.RWMutex
	state     State
	listeners []Listener
	now       func() time.Time
}

// NewStore returns a logged-out store.
func NewStore() *Store { return &Store{now: time.Now} }

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers l for every later dispatch.
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()
}

// Dispatch applies cmd and returns the new state.
func (s *Store) Dispatch(cmd Command) State {
	s.mu.Lock()
	prev := s.state
	next := Reduce(prev, cmd, s.now())
	s.state = next
	ls := slices.Clone(s.listeners)
	s.mu.Unlock()

	for _, l := range ls {
		l(prev, next, cmd)
	}
	return next
}

// Registry maps users to their stores. The zero value is not usable; use
// NewRegistry.
type Registry struct {
	mu       sync.Mutex
	stores   map[domain.RecordID]*Store
	onLogout []func(domain.RecordID)
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{stores: make(map[domain.RecordID]*Store)}
}

// OnLogout registers fn to run after a user's session is closed.
func (r *Registry) OnLogout(fn func(domain.RecordID)) {
	r.mu.Lock()
	r.onLogout = append(r.onLogout, fn)
	r.mu.Unlock()
}

// Open dispatches SetUser on the user's store, creating it if needed.
func (r *Registry) Open(u domain.User, token string) State {
	r.mu.Lock()
	st, ok := r.stores[u.RecordID]
	if !ok {
		st = NewStore()
		r.stores[u.RecordID] = st
	}
	r.mu.Unlock()
	return st.Dispatch(SetUser{User: u, Token: token})
}

// Get returns the user's store, if a session was opened.
func (r *Registry) Get(id domain.RecordID) (*Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.stores[id]
	return st, ok
}

// Credentials is what the registry knows about a logged-in user: the
// token the session was opened with and the user service's business id.
type Credentials struct {
	BusinessID domain.BusinessID
	Token      string
}

// Credentials returns the credentials of a logged-in user.
func (r *Registry) Credentials(id domain.RecordID) (Credentials, bool) {
	st, ok := r.Get(id)
	if !ok {
		return Credentials{}, false
	}
	s := st.State()
	if !s.LoggedIn || s.User == nil {
		return Credentials{}, false
	}
	return Credentials{BusinessID: s.User.BusinessID, Token: s.Token}, true
}

// Dispatch applies cmd to the user's store. ok is false when the user has
// no session; the command is dropped in that case.
func (r *Registry) Dispatch(id domain.RecordID, cmd Command) (State, bool) {
	st, ok := r.Get(id)
	if !ok {
		return State{}, false
	}
	return st.Dispatch(cmd), true
}

// Close dispatches Logout, forgets the store and runs the logout hooks.
func (r *Registry) Close(id domain.RecordID) {
	r.mu.Lock()
	st, ok := r.stores[id]
	delete(r.stores, id)
	hooks := slices.Clone(r.onLogout)
	r.mu.Unlock()

	if ok {
		st.Dispatch(Logout{})
	}
	for _, fn := range hooks {
		fn(id)
	}
}
