package refreshtokens

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/petkeeper/internal/common"
	"github.com/dmitrijs2005/petkeeper/internal/server/models"
	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "petkeeper:refresh:"

type redisRecord struct {
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// RedisRepository keeps refresh tokens as Redis keys that expire together
// with the token. Each user also has a set of their token digests so that
// DeleteByUser can find them.
type RedisRepository struct {
	rdb    redis.Cmdable
	prefix string
	now    func() time.Time
}

// NewRedisRepository stores tokens under prefix, or the default prefix when
// it is empty.
func NewRedisRepository(rdb redis.Cmdable, prefix string) *RedisRepository {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisRepository{rdb: rdb, prefix: prefix, now: time.Now}
}

func (r *RedisRepository) tokenKey(digest string) string {
	return r.prefix + "token:" + digest
}

func (r *RedisRepository) userKey(userID string) string {
	return r.prefix + "user:" + userID
}

func (r *RedisRepository) Create(ctx context.Context, userID, token string, expiresAt time.Time) error {
	now := r.now()
	ttl := expiresAt.Sub(now)
	if ttl <= 0 {
		return nil
	}

	payload, err := json.Marshal(redisRecord{UserID: userID, ExpiresAt: expiresAt, CreatedAt: now})
	if err != nil {
		return err
	}

	digest := Digest(token)
	_, err = r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, r.tokenKey(digest), payload, ttl)
		p.SAdd(ctx, r.userKey(userID), digest)
		p.Expire(ctx, r.userKey(userID), ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

// Consume relies on GETDEL, so two concurrent redemptions of the same token
// cannot both succeed.
func (r *RedisRepository) Consume(ctx context.Context, token string) (*models.RefreshToken, error) {
	digest := Digest(token)

	data, err := r.rdb.GetDel(ctx, r.tokenKey(digest)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("redis error: %w", err)
	}

	var rec redisRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode refresh token: %w", err)
	}

	if err := r.rdb.SRem(ctx, r.userKey(rec.UserID), digest).Err(); err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}

	return &models.RefreshToken{UserID: rec.UserID, ExpiresAt: rec.ExpiresAt, CreatedAt: rec.CreatedAt}, nil
}

func (r *RedisRepository) Delete(ctx context.Context, token string) error {
	_, err := r.Consume(ctx, token)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return err
	}
	return nil
}

func (r *RedisRepository) DeleteByUser(ctx context.Context, userID string) error {
	digests, err := r.rdb.SMembers(ctx, r.userKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("redis error: %w", err)
	}

	keys := make([]string, 0, len(digests)+1)
	for _, d := range digests {
		keys = append(keys, r.tokenKey(d))
	}
	keys = append(keys, r.userKey(userID))

	if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}
