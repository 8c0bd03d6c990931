package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/billyoftea/shefradar/internal/fetcher"
)

const defaultSourceTimeout = 30 * time.Second

// Orchestrator fans one fetch task out per registered source, runs
// them concurrently and assembles a snapshot. A source that fails,
// times out or panics never blocks or cancels its siblings; its
// failure is captured in that source's outcome and in the ledger.
type Orchestrator struct {
	adapters map[fetcher.Source]fetcher.Adapter
	order    []fetcher.Source
	timeouts map[fetcher.Source]time.Duration
	log      *slog.Logger
}

// New registers the adapters. Snapshot keys, report sections and
// ledger order all follow fetcher.Sources declaration order; adapters
// for sources outside that list are appended after it.
func New(adapters []fetcher.Adapter, timeouts map[fetcher.Source]time.Duration, log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}

	bySource := make(map[fetcher.Source]fetcher.Adapter, len(adapters))
	for _, a := range adapters {
		bySource[a.Source()] = a
	}

	order := make([]fetcher.Source, 0, len(bySource))
	for _, src := range fetcher.Sources {
		if _, ok := bySource[src]; ok {
			order = append(order, src)
		}
	}
	for _, a := range adapters {
		if !contains(order, a.Source()) {
			order = append(order, a.Source())
		}
	}

	return &Orchestrator{
		adapters: bySource,
		order:    order,
		timeouts: timeouts,
		log:      log,
	}
}

// Run executes every registered source and waits for all of them to
// settle. The returned snapshot has exactly one outcome per source.
// Run itself never returns an error: per-source failures are data.
func (o *Orchestrator) Run(ctx context.Context) *fetcher.Snapshot {
	type slot struct {
		src fetcher.Source
		out fetcher.Outcome
	}

	results := make(chan slot, len(o.order))
	var wg sync.WaitGroup

	for _, src := range o.order {
		adapter := o.adapters[src]

		if !adapter.Enabled() {
			o.log.Info("source disabled", "source", src)
			results <- slot{src: src, out: fetcher.Disabled()}
			continue
		}

		wg.Add(1)
		go func(src fetcher.Source, adapter fetcher.Adapter) {
			defer wg.Done()
			results <- slot{src: src, out: o.fetchOne(ctx, src, adapter)}
		}(src, adapter)
	}

	wg.Wait()
	close(results)

	outcomes := make(map[fetcher.Source]fetcher.Outcome, len(o.order))
	for s := range results {
		outcomes[s.src] = s.out
	}

	// One ledger slot per source, collected after all tasks settle.
	var ledger []fetcher.LedgerEntry
	for _, src := range o.order {
		if out := outcomes[src]; out.Status == fetcher.StatusFailure {
			ledger = append(ledger, fetcher.LedgerEntry{
				Source:  string(src),
				Message: out.Err.Error(),
			})
		}
	}

	return &fetcher.Snapshot{
		Timestamp: time.Now(),
		Outcomes:  outcomes,
		Errors:    ledger,
	}
}

// fetchOne runs a single source to a terminal outcome. Panics and
// errors stop at this boundary.
func (o *Orchestrator) fetchOne(ctx context.Context, src fetcher.Source, adapter fetcher.Adapter) (out fetcher.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			o.log.Error("source panicked", "source", src, "panic", r)
			out = fetcher.Failure(fetcher.NewUnhandledError(fmt.Errorf("panic: %v", r)))
		}
	}()

	taskCtx, cancel := context.WithTimeout(ctx, o.timeoutFor(src))
	defer cancel()

	started := time.Now()

	payload, err := adapter.Fetch(taskCtx)
	if err != nil {
		ferr := classify(taskCtx, err)
		o.log.Warn("source fetch failed", "source", src, "kind", ferr.Kind, "error", ferr)
		return fetcher.Failure(ferr)
	}

	records, err := adapter.Parse(payload)
	if err != nil {
		ferr := classify(taskCtx, err)
		o.log.Warn("source parse failed", "source", src, "kind", ferr.Kind, "error", ferr)
		return fetcher.Failure(ferr)
	}

	o.log.Info("source fetched", "source", src, "records", records.Len(), "elapsed", time.Since(started))
	return fetcher.Success(records)
}

func (o *Orchestrator) timeoutFor(src fetcher.Source) time.Duration {
	if d, ok := o.timeouts[src]; ok && d > 0 {
		return d
	}
	return defaultSourceTimeout
}

// classify resolves an adapter error into the failure taxonomy. A
// deadline on the task context wins over whatever error it surfaced
// as.
func classify(ctx context.Context, err error) *fetcher.Error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fetcher.NewTimeoutError(err)
	}

	var ferr *fetcher.Error
	if errors.As(err, &ferr) {
		return ferr
	}

	return fetcher.NewUnhandledError(err)
}

func contains(sources []fetcher.Source, src fetcher.Source) bool {
	for _, s := range sources {
		if s == src {
			return true
		}
	}
	return false
}
