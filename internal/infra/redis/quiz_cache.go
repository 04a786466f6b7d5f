package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"studyhub/internal/app"
	"studyhub/internal/domain"
)

// QuizListKey holds the JSON-encoded quiz set. QuizGenKey counts writes so a
// fill loaded before a write on any instance is never stored.
const (
	QuizListKey = "quizzes:all"
	QuizGenKey  = "quizzes:gen"
)

var errStaleFill = errors.New("quiz list changed during load")

// CachedQuizStore caches the full quiz list in Redis and falls back to the
// backing store on a miss. Writes go to the backing store, bump QuizGenKey
// and drop the list.
type CachedQuizStore struct {
	app.QuizStore
	client *redis.Client
	ttl    time.Duration
	sf     singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewCachedQuizStore(client *redis.Client, store app.QuizStore, ttl time.Duration) *CachedQuizStore {
	return &CachedQuizStore{
		QuizStore: store,
		client:    client,
		ttl:       ttl,
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *CachedQuizStore) ListQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	if list, ok := c.fromCache(ctx); ok {
		return list, nil
	}

	result, err, _ := c.sf.Do(QuizListKey, func() (interface{}, error) {
		// another caller may have filled the key while we waited
		if list, ok := c.fromCache(ctx); ok {
			return list, nil
		}
		gen, genErr := c.generation(ctx, c.client)

		list, err := c.QuizStore.ListQuizzes(ctx)
		if err != nil {
			return nil, err
		}
		if genErr != nil {
			log.Printf("read quiz cache generation: %v", genErr)
			return list, nil
		}
		c.fill(ctx, gen, list)
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	list := result.([]domain.Quiz)
	out := make([]domain.Quiz, len(list))
	copy(out, list)
	return out, nil
}

// fill stores list only while QuizGenKey still reads gen. A write landing
// between the check and the SET aborts the transaction.
func (c *CachedQuizStore) fill(ctx context.Context, gen int64, list []domain.Quiz) {
	payload, err := json.Marshal(list)
	if err != nil {
		return
	}
	ttl := c.ttlWithJitter()
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := c.generation(ctx, tx)
		if err != nil {
			return err
		}
		if current != gen {
			return errStaleFill
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, QuizListKey, payload, ttl)
			return nil
		})
		return err
	}, QuizGenKey)
	switch {
	case err == nil, errors.Is(err, errStaleFill), errors.Is(err, redis.TxFailedErr):
	default:
		log.Printf("cache quiz list: %v", err)
	}
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (c *CachedQuizStore) generation(ctx context.Context, cmd getter) (int64, error) {
	gen, err := cmd.Get(ctx, QuizGenKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *CachedQuizStore) CreateQuiz(ctx context.Context, in domain.QuizInput) (string, error) {
	defer c.Invalidate(ctx)
	return c.QuizStore.CreateQuiz(ctx, in)
}

func (c *CachedQuizStore) UpdateQuiz(ctx context.Context, id string, patch domain.QuizPatch, check func(domain.Quiz) error) (domain.Quiz, error) {
	defer c.Invalidate(ctx)
	return c.QuizStore.UpdateQuiz(ctx, id, patch, check)
}

func (c *CachedQuizStore) DeleteQuiz(ctx context.Context, id string) error {
	defer c.Invalidate(ctx)
	return c.QuizStore.DeleteQuiz(ctx, id)
}

// Invalidate bumps the write generation and drops the cached list.
func (c *CachedQuizStore) Invalidate(ctx context.Context) {
	if err := c.client.Incr(ctx, QuizGenKey).Err(); err != nil {
		log.Printf("bump quiz cache generation: %v", err)
	}
	if err := c.client.Del(ctx, QuizListKey).Err(); err != nil {
		log.Printf("invalidate quiz list: %v", err)
	}
}

func (c *CachedQuizStore) fromCache(ctx context.Context) ([]domain.Quiz, bool) {
	raw, err := c.client.Get(ctx, QuizListKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("read quiz cache: %v", err)
		}
		return nil, false
	}
	var list []domain.Quiz
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, false
	}
	return list, true
}

func (c *CachedQuizStore) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
