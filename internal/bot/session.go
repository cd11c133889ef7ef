package bot

import (
	"context"
	"sync"
	"time"
)

// session is the per-user chat state the bot needs between updates.
type session struct {
	ChatID     int64
	LastActive time.Time
}

// SessionStore is a bounded map of user id to chat session. Entries idle
// longer than the TTL are evicted by a background ticker, so the store
// cannot grow without limit across long uptimes.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]session
	ttl      time.Duration

	stop    context.CancelFunc
	stopped chan struct{}
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]session),
		ttl:      ttl,
	}
}

// Touch records activity for the user, creating or refreshing the session.
func (s *SessionStore) Touch(userID string, chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = session{ChatID: chatID, LastActive: time.Now()}
}

// ChatID returns the stored chat for the user, false if none or expired.
func (s *SessionStore) ChatID(userID string) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok || time.Since(sess.LastActive) > s.ttl {
		return 0, false
	}
	return sess.ChatID, true
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// StartEviction runs the TTL sweep until ctx is cancelled or Stop is called.
func (s *SessionStore) StartEviction(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)
	s.stop = cancel
	s.stopped = make(chan struct{})

	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.evict()
			}
		}
	}()
}

// Stop cancels the sweep and waits for it to finish.
func (s *SessionStore) Stop() {
	if s.stop == nil {
		return
	}
	s.stop()
	<-s.stopped
}

func (s *SessionStore) evict() {
	cutoff := time.Now().Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		if sess.LastActive.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}
