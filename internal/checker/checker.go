// Package checker fans a URL list out over a bounded worker pool and
// collects classified results as they complete.
package checker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"urlcheck/internal/domain"
	"urlcheck/internal/monitoring"
)

// Prober is the unit of work the dispatcher runs. Check must be total: one
// record per line, nothing escapes.
type Prober interface {
	Check(ctx context.Context, line string) domain.Result
}

// Options bound the pool and the reporting cadence.
type Options struct {
	Workers       int
	ProgressEvery int           // progress log every N completions
	Cooldown      time.Duration // pause after every 100th completion
}

// Dispatcher runs probes with bounded parallelism. Completion order is
// arbitrary; the only ordering contract is one result per input line.
type Dispatcher struct {
	prober  Prober
	opts    Options
	metrics *monitoring.Metrics
	logger  *zap.Logger

	total     atomic.Int64
	completed atomic.Int64
	startedAt atomic.Int64 // unix nanos
}

func New(p Prober, opts Options, m *monitoring.Metrics, l *zap.Logger) *Dispatcher {
	if opts.Workers <= 0 {
		opts.Workers = 20
	}
	if l == nil {
		l = zap.NewNop()
	}
	return &Dispatcher{prober: p, opts: opts, metrics: m, logger: l}
}

// Run probes every line and returns one result per line, in completion
// order. Prober failures surface only as classified records, so the loop
// itself has no error path.
func (d *Dispatcher) Run(ctx context.Context, lines []string) []domain.Result {
	total := int64(len(lines))
	d.total.Store(total)
	d.completed.Store(0)
	d.startedAt.Store(time.Now().UnixNano())

	tasks := make(chan string)
	results := make(chan domain.Result)

	var wg sync.WaitGroup
	for i := 0; i < d.opts.Workers; i++ {
		wg.Add(1)
		go d.worker(ctx, tasks, results, &wg)
	}

	go func() {
		for _, line := range lines {
			tasks <- line
		}
		close(tasks)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]domain.Result, 0, total)
	for rec := range results {
		out = append(out, rec)
		n := d.completed.Add(1)

		if d.opts.ProgressEvery > 0 && (n%int64(d.opts.ProgressEvery) == 0 || n == total) {
			d.logProgress()
		}
		// Coarse breather, distinct from the per-request rate gate. It holds
		// up result draining, not probes already in flight.
		if d.opts.Cooldown > 0 && n%100 == 0 && n < total {
			time.Sleep(d.opts.Cooldown)
		}
	}
	return out
}

func (d *Dispatcher) worker(ctx context.Context, tasks <-chan string, results chan<- domain.Result, wg *sync.WaitGroup) {
	defer wg.Done()
	for line := range tasks {
		if d.metrics != nil {
			d.metrics.InFlight.Inc()
		}
		start := time.Now()
		rec := d.prober.Check(ctx, line)
		if d.metrics != nil {
			d.metrics.InFlight.Dec()
			d.metrics.IncProcessed()
			d.metrics.IncResult(resultType(rec))
			d.metrics.ObserveProbe(time.Since(start).Seconds())
		}
		results <- rec
	}
}

func resultType(rec domain.Result) string {
	if rec.ErrorType != "" {
		return rec.ErrorType
	}
	return string(rec.Status)
}

// Progress returns a point-in-time snapshot of the running check.
func (d *Dispatcher) Progress() domain.Progress {
	completed := d.completed.Load()
	total := d.total.Load()
	p := domain.Progress{Completed: completed, Total: total}

	if total > 0 {
		p.Percent = float64(completed) * 100 / float64(total)
	}
	elapsed := time.Since(time.Unix(0, d.startedAt.Load())).Seconds()
	if elapsed > 0 && completed > 0 {
		p.Rate = float64(completed) / elapsed
		p.ETASecs = float64(total-completed) / p.Rate
	}
	return p
}

func (d *Dispatcher) logProgress() {
	p := d.Progress()
	d.logger.Info("progress",
		zap.Int64("completed", p.Completed),
		zap.Int64("total", p.Total),
		zap.Float64("percent", p.Percent),
		zap.Float64("urls_per_sec", p.Rate),
		zap.Float64("eta_seconds", p.ETASecs),
	)
}
