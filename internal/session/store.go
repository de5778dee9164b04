package session

import (
	"time"

	"fintrack/internal/cache"
	"fintrack/internal/logger"
)

// Store maps session tokens to workspaces. Entries expire after the
// configured TTL without use and the least recently used one is dropped
// when full.
type Store struct {
	workspaces *cache.LRU[*Workspace]
}

// NewStore creates a store. now may be nil.
func NewStore(maxEntries int, ttl time.Duration, now func() time.Time) *Store {
	opts := []cache.Option[*Workspace]{
		cache.WithSlidingExpiry[*Workspace](),
		cache.WithEvictHook(func(_ string, w *Workspace) {
			logger.Named("session").Debugw("workspace released", "user_id", w.UserID)
		}),
	}
	if now != nil {
		opts = append(opts, cache.WithClock[*Workspace](now))
	}
	return &Store{workspaces: cache.NewLRU[*Workspace](maxEntries, ttl, opts...)}
}

// Open returns the workspace for id, creating it when missing. A token
// presented for a different user than the one it was opened for gets a
// fresh workspace.
func (s *Store) Open(id Identity) *Workspace {
	w, existed := s.workspaces.GetOrSet(id.Token, func() *Workspace {
		return NewWorkspace(id.UserID)
	})
	if existed && w.UserID != id.UserID {
		w = NewWorkspace(id.UserID)
		s.workspaces.Set(id.Token, w)
	}
	return w
}

// Get returns the live workspace for id, if the session has one and it
// belongs to the same user.
func (s *Store) Get(id Identity) (*Workspace, bool) {
	w, ok := s.workspaces.Get(id.Token)
	if !ok || w.UserID != id.UserID {
		return nil, false
	}
	return w, true
}

// Close drops the session's workspace.
func (s *Store) Close(token string) {
	s.workspaces.Delete(token)
}

// Len returns the number of workspaces held.
func (s *Store) Len() int {
	return s.workspaces.Size()
}
