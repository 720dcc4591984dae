package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookline/booking-system/internal/core/ports"
)

type recordingCache struct {
	mu      sync.Mutex
	dates   []string
	applied chan string
}

func newRecordingCache() *recordingCache {
	return &recordingCache{applied: make(chan string, 64)}
}

func (c *recordingCache) Get(context.Context, string) (*ports.DayAvailability, error) {
	return nil, nil
}

func (c *recordingCache) Set(context.Context, string, *ports.DayAvailability) error {
	return nil
}

func (c *recordingCache) InvalidateDate(_ context.Context, date string) error {
	c.mu.Lock()
	c.dates = append(c.dates, date)
	c.mu.Unlock()
	c.applied <- date
	return nil
}

func TestDispatcherAppliesInvalidations(t *testing.T) {
	cache := newRecordingCache()
	d := NewInvalidationDispatcher(2, cache, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	want := map[string]bool{"2026-01-05": false, "2026-01-06": false, "2026-01-07": false}
	for date := range want {
		d.Invalidate(date)
	}

	deadline := time.After(2 * time.Second)
	for seen := 0; seen < len(want); {
		select {
		case date := <-cache.applied:
			if done, ok := want[date]; !ok {
				t.Fatalf("invalidated unexpected date %q", date)
			} else if !done {
				want[date] = true
				seen++
			}
		case <-deadline:
			t.Fatalf("timed out, applied %v", cache.dates)
		}
	}
}

func TestDispatcherShardIsDeterministic(t *testing.T) {
	d := NewInvalidationDispatcher(4, newRecordingCache(), zerolog.Nop())

	for _, date := range []string{"2026-01-05", "2026-02-14", "2026-03-31"} {
		first := d.shardIndex(date)
		for i := 0; i < 10; i++ {
			if got := d.shardIndex(date); got != first {
				t.Fatalf("shardIndex(%q) flapped: %d then %d", date, first, got)
			}
		}
		if first < 0 || first >= 4 {
			t.Fatalf("shardIndex(%q) = %d, out of range", date, first)
		}
	}
}

// A full worker buffer must never block the caller.
func TestDispatcherDropsWhenFull(t *testing.T) {
	// No Start: nothing drains the buffers.
	d := NewInvalidationDispatcher(1, newRecordingCache(), zerolog.Nop())

	done := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer+10; i++ {
			d.Invalidate("2026-01-05")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Invalidate blocked on a full buffer")
	}
}
