package checker

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"urlcheck/internal/domain"
)

// fakeProber records concurrency and echoes each line back as a record.
type fakeProber struct {
	inFlight    atomic.Int64
	maxInFlight atomic.Int64
	delay       time.Duration
}

func (f *fakeProber) Check(ctx context.Context, line string) domain.Result {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		max := f.maxInFlight.Load()
		if n <= max || f.maxInFlight.CompareAndSwap(max, n) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return domain.Result{URL: line, Status: domain.StatusWorking}
}

func TestRunOneResultPerLine(t *testing.T) {
	lines := make([]string, 137)
	for i := range lines {
		lines[i] = fmt.Sprintf("host-%03d.test", i)
	}

	fp := &fakeProber{delay: time.Millisecond}
	d := New(fp, Options{Workers: 8}, nil, nil)

	results := d.Run(context.Background(), lines)

	if len(results) != len(lines) {
		t.Fatalf("got %d results, want %d", len(results), len(lines))
	}

	got := make([]string, len(results))
	for i, r := range results {
		got[i] = r.URL
	}
	sort.Strings(got)
	want := append([]string(nil), lines...)
	sort.Strings(want)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("result set mismatch at %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRunBoundsConcurrency(t *testing.T) {
	lines := make([]string, 60)
	for i := range lines {
		lines[i] = fmt.Sprintf("host-%d.test", i)
	}

	fp := &fakeProber{delay: 5 * time.Millisecond}
	d := New(fp, Options{Workers: 4}, nil, nil)
	d.Run(context.Background(), lines)

	if max := fp.maxInFlight.Load(); max > 4 {
		t.Errorf("observed %d concurrent probes, want <= 4", max)
	}
}

func TestRunEmptyInput(t *testing.T) {
	d := New(&fakeProber{}, Options{Workers: 3}, nil, nil)
	results := d.Run(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("got %d results for empty input, want 0", len(results))
	}
}

func TestProgressSnapshot(t *testing.T) {
	fp := &fakeProber{}
	d := New(fp, Options{Workers: 2}, nil, nil)

	lines := []string{"a.test", "b.test", "c.test", "d.test"}
	d.Run(context.Background(), lines)

	p := d.Progress()
	if p.Completed != 4 || p.Total != 4 {
		t.Errorf("Progress() = %+v, want completed=4 total=4", p)
	}
	if p.Percent != 100 {
		t.Errorf("Percent = %v, want 100", p.Percent)
	}
}
