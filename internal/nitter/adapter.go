package nitter

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/billyoftea/shefradar/internal/fetcher"
	"github.com/billyoftea/shefradar/internal/model"
)

// Adapter fetches recent posts for the configured accounts through the
// failover resolver.
type Adapter struct {
	resolver   *Resolver
	accounts   []string
	perAccount int
	maxAge     time.Duration
	enabled    bool
	log        *slog.Logger
}

// Options configures the social-post adapter.
type Options struct {
	Enabled    bool
	Endpoints  []Endpoint
	Accounts   []string
	PerAccount int           // max posts kept per account, 0 = all
	MaxAge     time.Duration // drop posts older than this, 0 = keep all
	Timeout    time.Duration // per-request timeout for each candidate attempt
	Log        *slog.Logger
}

func New(opts Options) *Adapter {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	return &Adapter{
		resolver:   NewResolver(opts.Endpoints, opts.Timeout, log),
		accounts:   opts.Accounts,
		perAccount: opts.PerAccount,
		maxAge:     opts.MaxAge,
		enabled:    opts.Enabled,
		log:        log,
	}
}

// Resolver exposes the failover resolver, mainly for tests.
func (a *Adapter) Resolver() *Resolver { return a.resolver }

func (a *Adapter) Source() fetcher.Source { return fetcher.SourceSocialPost }

func (a *Adapter) Enabled() bool {
	return a.enabled && len(a.accounts) > 0 && len(a.resolver.endpoints) > 0
}

// Fetch pulls every account concurrently and merges the results. One
// failing account does not sink the rest; the source fails only when
// every account does.
func (a *Adapter) Fetch(ctx context.Context) (fetcher.Payload, error) {
	type accountResult struct {
		handle string
		posts  []model.Post
		err    error
	}

	results := make(chan accountResult, len(a.accounts))
	var wg sync.WaitGroup

	for _, handle := range a.accounts {
		wg.Add(1)
		go func(handle string) {
			defer wg.Done()
			posts, err := a.resolver.FetchAccount(ctx, handle)
			if err == nil && a.perAccount > 0 && len(posts) > a.perAccount {
				posts = posts[:a.perAccount]
			}
			results <- accountResult{handle: handle, posts: posts, err: err}
		}(handle)
	}

	wg.Wait()
	close(results)

	var merged []model.Post
	failed := 0
	var lastErr error
	for res := range results {
		if res.err != nil {
			failed++
			lastErr = res.err
			a.log.Warn("account fetch failed", "handle", res.handle, "error", res.err)
			continue
		}
		merged = append(merged, res.posts...)
	}

	if failed == len(a.accounts) && lastErr != nil {
		return nil, lastErr
	}
	return merged, nil
}

// Parse dedupes, windows and orders the merged posts newest first.
// The explicit sort makes per-account completion order unobservable.
func (a *Adapter) Parse(payload fetcher.Payload) (model.RecordSet, error) {
	posts, ok := payload.([]model.Post)
	if !ok {
		return model.RecordSet{}, fetcher.NewMalformedError("social payload has unexpected shape")
	}

	var cutoff time.Time
	if a.maxAge > 0 {
		cutoff = time.Now().Add(-a.maxAge)
	}

	var set model.RecordSet
	for _, p := range posts {
		if !cutoff.IsZero() && p.PublishedAt.Before(cutoff) {
			continue
		}
		set.Add(p)
	}
	set.SortByTimeDesc()
	return set, nil
}
