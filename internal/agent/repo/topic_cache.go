package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/autodriver-poc/server/internal/agent/model"
	errx "github.com/autodriver-poc/server/internal/core/error"
	logx "github.com/autodriver-poc/server/pkg/logger"
)

const DefaultTopicCacheKey = "ros2:topic_list"

// RedisTopicCache shares the discovered topic list between processes.
// The key has no TTL: the first stored list wins for the life of the key.
type RedisTopicCache struct {
	rdb redis.Cmdable
	key string
}

func NewRedisTopicCache(rdb redis.Cmdable, key string) *RedisTopicCache {
	if key == "" {
		key = DefaultTopicCacheKey
	}
	return &RedisTopicCache{rdb: rdb, key: key}
}

func (c *RedisTopicCache) Get(ctx context.Context) ([]string, bool, error) {
	raw, err := c.rdb.Get(ctx, c.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		logx.Error().Err(err).Str("key", c.key).Msg("failed to read topic list from redis")
		return nil, false, errx.WrapRedis(err)
	}

	var topics []string
	if err := json.Unmarshal(raw, &topics); err != nil {
		logx.Error().Err(err).Str("key", c.key).Msg("failed to unmarshal topic list")
		return nil, false, fmt.Errorf("unmarshal topic list: %w", err)
	}
	if topics == nil {
		topics = []string{}
	}
	return topics, true, nil
}

func (c *RedisTopicCache) Store(ctx context.Context, topics []string) ([]string, error) {
	if topics == nil {
		topics = []string{}
	}
	b, err := json.Marshal(topics)
	if err != nil {
		return nil, fmt.Errorf("marshal topic list: %w", err)
	}

	stored, err := c.rdb.SetNX(ctx, c.key, b, 0).Result()
	if err != nil {
		logx.Error().Err(err).Str("key", c.key).Msg("failed to store topic list in redis")
		return nil, errx.WrapRedis(err)
	}
	if stored {
		logx.Debug().Str("key", c.key).Int("topic_count", len(topics)).Msg("Topic list cached")
		return topics, nil
	}

	// another process won the race
	existing, ok, err := c.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return topics, nil
	}
	return existing, nil
}

var _ model.TopicCache = (*RedisTopicCache)(nil)
