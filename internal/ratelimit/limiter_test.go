package ratelimit

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"
)

func TestAcquireSpacing(t *testing.T) {
	const (
		delay   = 20 * time.Millisecond
		workers = 8
		epsilon = 2 * time.Millisecond
	)

	l := New(delay)

	var mu sync.Mutex
	var grants []time.Time
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := l.Acquire(context.Background()); err != nil {
				t.Errorf("Acquire() error = %v", err)
				return
			}
			mu.Lock()
			grants = append(grants, time.Now())
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(grants) != workers {
		t.Fatalf("got %d grants, want %d", len(grants), workers)
	}

	sort.Slice(grants, func(i, j int) bool { return grants[i].Before(grants[j]) })
	for i := 1; i < len(grants); i++ {
		if gap := grants[i].Sub(grants[i-1]); gap < delay-epsilon {
			t.Errorf("grants %d and %d only %v apart, want >= %v", i-1, i, gap, delay)
		}
	}
}

func TestAcquireCancellation(t *testing.T) {
	l := New(time.Hour)

	// Burn the initial token so the next caller has to wait.
	if err := l.Acquire(context.Background()); err != nil {
		t.Fatalf("first Acquire() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := l.Acquire(ctx); err == nil {
		t.Error("Acquire() with expired context returned nil error")
	}
}

func TestZeroDelayNeverBlocks(t *testing.T) {
	l := New(0)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	for i := 0; i < 100; i++ {
		if err := l.Acquire(ctx); err != nil {
			t.Fatalf("Acquire() %d error = %v", i, err)
		}
	}
}
