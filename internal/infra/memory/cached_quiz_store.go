package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"studyhub/internal/app"
	"studyhub/internal/domain"
)

const quizListKey = "quizzes"

// CachedQuizStore caches the quiz list with TTL to avoid repeated DB hits.
// Writes go straight to the backing store and drop the cached list.
type CachedQuizStore struct {
	app.QuizStore
	ttl   time.Duration
	clock func() time.Time
	sf    singleflight.Group
	rnd   *rand.Rand

	mu        sync.RWMutex
	list      []domain.Quiz
	expiresAt time.Time
	// generation guards against caching a list loaded before a write landed
	generation uint64
}

func NewCachedQuizStore(store app.QuizStore, ttl time.Duration) *CachedQuizStore {
	return &CachedQuizStore{
		QuizStore: store,
		ttl:       ttl,
		clock:     time.Now,
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *CachedQuizStore) ListQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	if list, ok := r.cached(r.clock()); ok {
		return list, nil
	}

	result, err, _ := r.sf.Do(quizListKey, func() (interface{}, error) {
		now := r.clock()
		if list, ok := r.cached(now); ok {
			return list, nil
		}

		r.mu.RLock()
		gen := r.generation
		r.mu.RUnlock()

		list, err := r.QuizStore.ListQuizzes(ctx)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		if gen == r.generation {
			r.list = list
			r.expiresAt = now.Add(r.ttlWithJitter())
		}
		r.mu.Unlock()
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return copyQuizzes(result.([]domain.Quiz)), nil
}

func (r *CachedQuizStore) CreateQuiz(ctx context.Context, in domain.QuizInput) (string, error) {
	defer r.Invalidate()
	return r.QuizStore.CreateQuiz(ctx, in)
}

func (r *CachedQuizStore) UpdateQuiz(ctx context.Context, id string, patch domain.QuizPatch, check func(domain.Quiz) error) (domain.Quiz, error) {
	defer r.Invalidate()
	return r.QuizStore.UpdateQuiz(ctx, id, patch, check)
}

func (r *CachedQuizStore) DeleteQuiz(ctx context.Context, id string) error {
	defer r.Invalidate()
	return r.QuizStore.DeleteQuiz(ctx, id)
}

// Invalidate drops the cached list.
func (r *CachedQuizStore) Invalidate() {
	r.mu.Lock()
	r.list = nil
	r.expiresAt = time.Time{}
	r.generation++
	r.mu.Unlock()
}

func (r *CachedQuizStore) cached(now time.Time) ([]domain.Quiz, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.list != nil && r.expiresAt.After(now) {
		return copyQuizzes(r.list), true
	}
	return nil, false
}

func (r *CachedQuizStore) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

func copyQuizzes(in []domain.Quiz) []domain.Quiz {
	out := make([]domain.Quiz, len(in))
	for i, q := range in {
		out[i] = cloneQuiz(q)
	}
	return out
}
