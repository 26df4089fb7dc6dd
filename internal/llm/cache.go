package llm

import (
	"context"
	"encoding/hex"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
)

type redisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// CachedClient guarda en Redis las respuestas del modelo por (modelo, prompt)
// durante un TTL corto. Si Redis falla se llama al modelo igual (fail-open).
type CachedClient struct {
	inner  LLMClient
	client redisKV
	ttl    time.Duration
	prefix string
	logger *zap.Logger
}

// NewCachedClient envuelve inner; con client nil devuelve inner sin cache.
func NewCachedClient(inner LLMClient, client *redis.Client, ttl time.Duration, logger *zap.Logger) LLMClient {
	if client == nil {
		return inner
	}
	return newCachedClient(inner, client, ttl, logger)
}

func newCachedClient(inner LLMClient, client redisKV, ttl time.Duration, logger *zap.Logger) *CachedClient {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedClient{
		inner:  inner,
		client: client,
		ttl:    ttl,
		prefix: "llm:reply:",
		logger: logger,
	}
}

func (c *CachedClient) Generate(ctx context.Context, model, prompt string) (string, error) {
	key := c.key(model, prompt)

	getCtx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	cached, err := c.client.Get(getCtx, key).Result()
	cancel()
	switch {
	case err == nil && cached != "":
		return cached, nil
	case err != nil && !errors.Is(err, redis.Nil):
		c.logger.Warn("llm cache get failed", zap.Error(err))
	}

	reply, err := c.inner.Generate(ctx, model, prompt)
	if err != nil {
		return "", err
	}

	setCtx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	if err := c.client.Set(setCtx, key, reply, c.ttl).Err(); err != nil {
		c.logger.Warn("llm cache set failed", zap.Error(err))
	}
	return reply, nil
}

func (c *CachedClient) key(model, prompt string) string {
	sum := blake2b.Sum256([]byte(model + "\x00" + prompt))
	return c.prefix + hex.EncodeToString(sum[:])
}
