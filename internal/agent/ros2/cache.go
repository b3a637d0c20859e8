package ros2

import (
	"context"
	"sync"

	"github.com/autodriver-poc/server/internal/agent/model"
)

// MemoryTopicCache keeps the topic list for the process lifetime.
// A nil list is never stored, so a failed discovery is retried on the next run.
type MemoryTopicCache struct {
	mu     sync.RWMutex
	topics []string
}

func NewMemoryTopicCache() *MemoryTopicCache {
	return &MemoryTopicCache{}
}

func (c *MemoryTopicCache) Get(_ context.Context) ([]string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.topics == nil {
		return nil, false, nil
	}
	return clone(c.topics), true, nil
}

func (c *MemoryTopicCache) Store(_ context.Context, topics []string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.topics == nil && topics != nil {
		c.topics = clone(topics)
	}
	return clone(c.topics), nil
}

func clone(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

var _ model.TopicCache = (*MemoryTopicCache)(nil)
