package redis

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"studyhub/internal/app"
)

const markerTimeout = time.Second

// dropMarker deletes the liveness key only if it still names the session
// being released; a newer session's marker is left alone.
var dropMarker = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type liveSession struct {
	session *app.ExamSession
	marker  string
}

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Sessions themselves live in process memory next to their timers; Redis
// carries a liveness marker per student so any instance can tell who is
// mid-exam. Marker writes are best effort and never hold the registry lock.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]liveSession
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]liveSession),
	}
}

func (s *SessionStore) Replace(userID string, session *app.ExamSession) *app.ExamSession {
	marker := uuid.NewString()
	s.mu.Lock()
	previous := s.sessions[userID]
	s.sessions[userID] = liveSession{session: session, marker: marker}
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), markerTimeout)
	defer cancel()
	if err := s.client.Set(ctx, SessionKey(userID), marker, s.ttl).Err(); err != nil {
		log.Printf("mark exam session for %s: %v", userID, err)
	}
	return previous.session
}

func (s *SessionStore) Get(userID string) (*app.ExamSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	live, ok := s.sessions[userID]
	return live.session, ok
}

func (s *SessionStore) Delete(userID string, session *app.ExamSession) {
	s.mu.Lock()
	live, ok := s.sessions[userID]
	if !ok || live.session != session {
		s.mu.Unlock()
		return
	}
	delete(s.sessions, userID)
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), markerTimeout)
	defer cancel()
	if err := dropMarker.Run(ctx, s.client, []string{SessionKey(userID)}, live.marker).Err(); err != nil {
		log.Printf("clear exam session marker for %s: %v", userID, err)
	}
}

// Active reports whether any instance holds a live session for userID.
func (s *SessionStore) Active(ctx context.Context, userID string) (bool, error) {
	n, err := s.client.Exists(ctx, SessionKey(userID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func SessionKey(userID string) string {
	return "exam:session:" + userID
}
