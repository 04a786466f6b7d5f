package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revocations records signed-out token ids with a TTL matching the token's
// remaining lifetime, so the set never outgrows the live tokens.
type Revocations struct {
	client *redis.Client
	now    func() time.Time
}

func NewRevocations(client *redis.Client) *Revocations {
	return &Revocations{client: client, now: time.Now}
}

func (r *Revocations) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := until.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, revokedKey(tokenID), "1", ttl).Err()
}

func (r *Revocations) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedKey(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func revokedKey(tokenID string) string {
	return "auth:revoked:" + tokenID
}
