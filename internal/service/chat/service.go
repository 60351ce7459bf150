// Package chat owns the in-memory conversation sessions: creation, transcript
// reads, serialized continuation, and idle-session eviction.
package chat

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/yunseochoi/famtalk/backend/internal/model/chat"
)

var (
	ErrPersonaRequired = errors.New("at least one persona is required")
	ErrSessionNotFound = errors.New("session not found")
)

// Service holds every live session. The map is guarded by mu; each session
// additionally carries its own mutex so continuations on one session are
// serialized without blocking the rest.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]*session
}

type session struct {
	mu         sync.Mutex
	meta       chat.Session
	transcript []chat.Turn
	lastActive atomic.Int64 // unix nanos, readable by the janitor without the session lock
}

// NewService bootstraps an empty in-memory session store.
func NewService() *Service {
	return &Service{sessions: make(map[string]*session)}
}

// CreateSession provisions a session for one or two resolved personas. The
// transcript starts with exactly one system turn per supplied prompt, in
// participant order; those turns are never inserted again.
func (s *Service) CreateSession(_ context.Context, participantIDs []string, systemPrompts []string) (chat.Session, error) {
	if len(participantIDs) == 0 {
		return chat.Session{}, ErrPersonaRequired
	}

	now := time.Now().UTC()
	meta := chat.Session{
		ID:             uuid.NewString(),
		ParticipantIDs: append([]string(nil), participantIDs...),
		CreatedAt:      now,
	}

	transcript := make([]chat.Turn, 0, len(systemPrompts)+16)
	for _, prompt := range systemPrompts {
		transcript = append(transcript, chat.Turn{Role: chat.RoleSystem, Content: prompt})
	}

	sess := &session{meta: meta, transcript: transcript}
	sess.lastActive.Store(now.UnixNano())

	s.mu.Lock()
	s.sessions[meta.ID] = sess
	s.mu.Unlock()

	return meta, nil
}

// GetSession retrieves session metadata by identifier.
func (s *Service) GetSession(_ context.Context, sessionID string) (chat.Session, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return chat.Session{}, err
	}
	// meta is immutable after creation.
	return sess.meta, nil
}

// Transcript returns a copy of the full transcript, system turns included.
func (s *Service) Transcript(_ context.Context, sessionID string) ([]chat.Turn, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return append([]chat.Turn(nil), sess.transcript...), nil
}

// Continue runs fn against a snapshot of the transcript while holding the
// session's lock, then appends whatever turns fn produced. If fn fails the
// transcript is left untouched, so a failed provider call never leaves a
// dangling user turn. The lock spans the provider round trip: two concurrent
// continuations of the same session are applied one after the other.
func (s *Service) Continue(ctx context.Context, sessionID string, fn func(ctx context.Context, transcript []chat.Turn) ([]chat.Turn, error)) ([]chat.Turn, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	snapshot := append([]chat.Turn(nil), sess.transcript...)
	turns, err := fn(ctx, snapshot)
	if err != nil {
		return nil, err
	}

	sess.transcript = append(sess.transcript, turns...)
	sess.lastActive.Store(time.Now().UnixNano())
	return append([]chat.Turn(nil), sess.transcript...), nil
}

// Count reports the number of live sessions.
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than ttl as of now and returns how
// many were removed.
func (s *Service) Sweep(now time.Time, ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if now.Sub(time.Unix(0, sess.lastActive.Load())) > ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// StartJanitor periodically evicts idle sessions until ctx is done. A zero
// ttl disables eviction entirely and the goroutine is not started.
func (s *Service) StartJanitor(ctx context.Context, ttl, interval time.Duration) {
	if ttl <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if removed := s.Sweep(now.UTC(), ttl); removed > 0 {
					log.Printf("[chat] janitor evicted %d idle session(s)", removed)
				}
			}
		}
	}()
}

func (s *Service) lookup(sessionID string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}
