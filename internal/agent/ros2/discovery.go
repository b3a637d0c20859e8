package ros2

import (
	"context"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/autodriver-poc/server/internal/agent/model"
	logx "github.com/autodriver-poc/server/pkg/logger"
)

// TopicDiscovery lists robot topics, consulting the cache first.
// Concurrent misses share one command execution.
type TopicDiscovery struct {
	runner CommandRunner
	cache  model.TopicCache
	group  singleflight.Group
}

func NewTopicDiscovery(runner CommandRunner, cache model.TopicCache) *TopicDiscovery {
	if cache == nil {
		cache = NewMemoryTopicCache()
	}
	return &TopicDiscovery{runner: runner, cache: cache}
}

// ListTopics returns the cached list or runs discovery. A command failure yields
// a one-element list holding the sentinel; it is returned but never cached.
func (d *TopicDiscovery) ListTopics(ctx context.Context) ([]string, error) {
	if topics, ok, err := d.cache.Get(ctx); err != nil {
		logx.Warn().Err(err).Msg("Topic cache read failed; running discovery")
	} else if ok {
		logx.Debug().Int("topic_count", len(topics)).Msg("Using cached ROS2 topic list")
		return topics, nil
	}

	v, err, _ := d.group.Do("topics", func() (any, error) {
		// a concurrent caller may have filled the cache since the first check
		if topics, ok, err := d.cache.Get(ctx); err == nil && ok {
			return topics, nil
		}
		out := d.runner.Run(ctx)
		if IsCmdError(out) {
			logx.Error().Str("result", out).Msg("ROS2 topic discovery failed")
			return []string{out}, nil
		}

		topics := ParseTopicList(out)
		stored, err := d.cache.Store(ctx, topics)
		if err != nil {
			logx.Warn().Err(err).Msg("Topic cache write failed; using fresh list")
			return topics, nil
		}
		return stored, nil
	})
	if err != nil {
		return nil, err
	}
	return clone(v.([]string)), nil
}

// ParseTopicList splits command output into trimmed, non-empty lines.
func ParseTopicList(out string) []string {
	topics := []string{}
	for _, line := range strings.Split(out, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			topics = append(topics, t)
		}
	}
	return topics
}
