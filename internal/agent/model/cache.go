package model

import "context"

// TopicCache holds the discovered ROS2 topic list for the lifetime of a process
// (or of a shared backend). Invariant: once a list is stored it is never replaced
// or invalidated; the first successful store wins and later stores are no-ops.
type TopicCache interface {
	// Get returns the cached list and whether one was present.
	Get(ctx context.Context) ([]string, bool, error)
	// Store records topics unless a list is already cached and returns the list
	// that is cached afterwards.
	Store(ctx context.Context, topics []string) ([]string, error)
}
