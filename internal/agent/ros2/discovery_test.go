package ros2

import (
	"context"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type countingRunner struct {
	calls atomic.Int32
	out   string
	delay time.Duration
}

func (r *countingRunner) Run(ctx context.Context) string {
	r.calls.Add(1)
	if r.delay > 0 {
		time.Sleep(r.delay)
	}
	return r.out
}

func TestTopicDiscoveryCachesFirstSuccess(t *testing.T) {
	runner := &countingRunner{out: "/a\n\n  /b  \n"}
	d := NewTopicDiscovery(runner, NewMemoryTopicCache())
	ctx := context.Background()

	first, err := d.ListTopics(ctx)
	if err != nil {
		t.Fatalf("ListTopics: %v", err)
	}
	runner.out = "/changed"
	second, err := d.ListTopics(ctx)
	if err != nil {
		t.Fatalf("ListTopics: %v", err)
	}

	if want := []string{"/a", "/b"}; !reflect.DeepEqual(first, want) {
		t.Fatalf("first = %q, want %q", first, want)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("second run did not reuse the cached list: %q", second)
	}
	if n := runner.calls.Load(); n != 1 {
		t.Fatalf("runner called %d times, want 1", n)
	}
}

func TestTopicDiscoveryDoesNotCacheSentinel(t *testing.T) {
	runner := &countingRunner{out: "CMD_ERROR: ros2: command not found"}
	cache := NewMemoryTopicCache()
	d := NewTopicDiscovery(runner, cache)
	ctx := context.Background()

	got, err := d.ListTopics(ctx)
	if err != nil {
		t.Fatalf("ListTopics: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"CMD_ERROR: ros2: command not found"}) {
		t.Fatalf("got %q", got)
	}
	if _, ok, _ := cache.Get(ctx); ok {
		t.Fatalf("sentinel must not be cached")
	}

	runner.out = "/a"
	got, _ = d.ListTopics(ctx)
	if !reflect.DeepEqual(got, []string{"/a"}) || runner.calls.Load() != 2 {
		t.Fatalf("discovery not retried after failure: %q (%d calls)", got, runner.calls.Load())
	}
}

func TestTopicDiscoveryCollapsesConcurrentMisses(t *testing.T) {
	runner := &countingRunner{out: "/a", delay: 50 * time.Millisecond}
	d := NewTopicDiscovery(runner, NewMemoryTopicCache())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := d.ListTopics(context.Background()); err != nil {
				t.Errorf("ListTopics: %v", err)
			}
		}()
	}
	wg.Wait()

	if n := runner.calls.Load(); n != 1 {
		t.Fatalf("runner called %d times, want 1", n)
	}
}

func TestMemoryTopicCacheFirstStoreWins(t *testing.T) {
	c := NewMemoryTopicCache()
	ctx := context.Background()

	if _, ok, _ := c.Get(ctx); ok {
		t.Fatalf("new cache must be empty")
	}
	kept, _ := c.Store(ctx, []string{"/first"})
	again, _ := c.Store(ctx, []string{"/second"})
	if !reflect.DeepEqual(kept, []string{"/first"}) || !reflect.DeepEqual(again, []string{"/first"}) {
		t.Fatalf("store results %q / %q", kept, again)
	}

	got, ok, _ := c.Get(ctx)
	got[0] = "/mutated"
	fresh, _, _ := c.Get(ctx)
	if !ok || fresh[0] != "/first" {
		t.Fatalf("cache leaked internal slice: %q", fresh)
	}
}
