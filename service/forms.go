package service

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/AnTengye/mediconnect/form"
	"github.com/AnTengye/mediconnect/model"
	"github.com/google/uuid"
)

// FormSession is one live form held for a client
type FormSession struct {
	ID        string
	Engine    *form.Engine
	CreatedAt time.Time
	seq       uint64
}

// FormStore keeps form sessions in memory. Sessions leaving the store, by
// Delete or eviction, have their engines disposed.
type FormStore struct {
	sessions    map[string]*FormSession
	mu          sync.RWMutex
	maxSessions int // Maximum sessions to keep, 0 = unlimited
	sink        form.Sink
	opts        []form.Option
	seq         uint64
}

func NewFormStore(maxSessions int, sink form.Sink, opts ...form.Option) *FormStore {
	if maxSessions < 0 {
		maxSessions = 0
	}
	return &FormStore{
		sessions:    make(map[string]*FormSession),
		maxSessions: maxSessions,
		sink:        sink,
		opts:        opts,
	}
}

// Create starts a new idle form and returns its session
func (s *FormStore) Create(kind form.Kind, role model.Role, initial form.Values) *FormSession {
	sess := &FormSession{
		ID:        uuid.New().String(),
		Engine:    form.NewEngine(kind, role, initial, s.sink, s.opts...),
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	sess.seq = s.seq
	s.sessions[sess.ID] = sess

	s.cleanupIfNeeded()
	return sess
}

func (s *FormStore) Get(id string) *FormSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[id]
}

// Delete removes and disposes a session. It reports whether id existed.
func (s *FormStore) Delete(id string) bool {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if ok {
		sess.Engine.Dispose()
	}
	return ok
}

// Close disposes every session
func (s *FormStore) Close() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*FormSession)
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.Engine.Dispose()
	}
}

// cleanupIfNeeded removes the oldest sessions if the store exceeds maxSessions
// Must be called with lock held
func (s *FormStore) cleanupIfNeeded() {
	if s.maxSessions <= 0 {
		return // Unlimited
	}

	if len(s.sessions) <= s.maxSessions {
		return
	}

	sessions := make([]*FormSession, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].seq < sessions[j].seq
	})

	removeCount := len(sessions) - s.maxSessions
	for i := 0; i < removeCount; i++ {
		slog.Info("evicting form session",
			"form_id", sessions[i].ID,
			"kind", sessions[i].Engine.Kind(),
			"created_at", sessions[i].CreatedAt,
		)
		sessions[i].Engine.Dispose()
		delete(s.sessions, sessions[i].ID)
	}
}

// Count returns the number of live sessions
func (s *FormStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
