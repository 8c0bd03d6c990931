package nitter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"resty.dev/v3"

	"github.com/billyoftea/shefradar/internal/feed"
	"github.com/billyoftea/shefradar/internal/fetcher"
	"github.com/billyoftea/shefradar/internal/model"
)

const defaultRequestTimeout = 15 * time.Second

// Resolver fetches one account's feed at a time, failing over across
// mirrors. The last mirror that worked is remembered and tried first
// on later calls. A local mirror is authoritative: while it is first
// in line no public mirror is consulted, so a broken self-hosted
// deployment surfaces instead of being silently bypassed.
//
// There is no retry with backoff anywhere here; walking the candidate
// list once is the entire retry strategy for one logical fetch.
type Resolver struct {
	endpoints  []Endpoint
	normalizer *feed.Normalizer
	client     *resty.Client
	timeout    time.Duration
	log        *slog.Logger

	mu     sync.Mutex
	sticky Endpoint
}

// NewResolver builds a resolver over the candidate list in priority
// order. The first candidate starts as the sticky endpoint.
func NewResolver(endpoints []Endpoint, timeout time.Duration, log *slog.Logger) *Resolver {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	if log == nil {
		log = slog.Default()
	}

	r := &Resolver{
		endpoints:  endpoints,
		normalizer: feed.NewNormalizer(),
		client: resty.New().
			SetHeader("User-Agent", "Mozilla/5.0 (compatible; shefradar/1.0)"),
		timeout: timeout,
		log:     log,
	}
	if len(endpoints) > 0 {
		r.sticky = endpoints[0]
	}
	return r
}

// Sticky returns the currently preferred endpoint.
func (r *Resolver) Sticky() Endpoint {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sticky
}

func (r *Resolver) setSticky(ep Endpoint) {
	r.mu.Lock()
	if r.sticky.BaseURL != ep.BaseURL {
		r.log.Info("switched to working endpoint", "endpoint", ep.BaseURL)
		r.sticky = ep
	}
	r.mu.Unlock()
}

// candidates builds the ordered try-list: sticky first, then the rest
// in configured priority order. A sticky local endpoint stands alone.
func (r *Resolver) candidates() []Endpoint {
	sticky := r.Sticky()
	if sticky.Local {
		return []Endpoint{sticky}
	}

	out := []Endpoint{sticky}
	for _, ep := range r.endpoints {
		if ep.BaseURL != sticky.BaseURL {
			out = append(out, ep)
		}
	}
	return out
}

// FetchAccount returns the account's posts from the first mirror that
// answers with a well-formed feed. A not-found answer is terminal and
// yields an empty result: the account is treated as having no content
// anywhere, not just on that mirror.
func (r *Resolver) FetchAccount(ctx context.Context, handle string) ([]model.Post, error) {
	cands := r.candidates()
	if len(cands) == 0 || cands[0].BaseURL == "" {
		return nil, fetcher.NewMalformedError("no feed endpoints configured")
	}

	var lastSoft error
	for _, ep := range cands {
		posts, err := r.tryEndpoint(ctx, ep, handle)
		if err == nil {
			r.setSticky(ep)
			return posts, nil
		}

		var ferr *fetcher.Error
		if errors.As(err, &ferr) && ferr.Kind == fetcher.KindNotFound {
			r.log.Warn("account not found", "handle", handle, "endpoint", ep.BaseURL)
			return []model.Post{}, nil
		}

		r.log.Warn("endpoint attempt failed", "handle", handle, "endpoint", ep.BaseURL, "error", err)
		lastSoft = err
	}

	return nil, r.terminalError(cands, handle, lastSoft)
}

// tryEndpoint issues one request against one mirror and classifies the
// answer. Every non-success return is a soft failure except not-found.
func (r *Resolver) tryEndpoint(ctx context.Context, ep Endpoint, handle string) ([]model.Post, error) {
	reqCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	resp, err := r.client.R().
		SetContext(reqCtx).
		Get(fmt.Sprintf("%s/%s/rss", ep.BaseURL, handle))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return nil, fetcher.NewTimeoutError(err)
		}
		return nil, fetcher.NewUnhandledError(err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return nil, fetcher.NewNotFoundError("@"+handle, ep.BaseURL)
	case resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden:
		return nil, fetcher.NewForbiddenError(resp.StatusCode())
	case !resp.IsSuccess():
		return nil, fetcher.ClassifyHTTPStatus(resp.StatusCode())
	}

	body := resp.String()
	if !strings.HasPrefix(strings.TrimSpace(body), "<") {
		return nil, fetcher.NewMalformedError(fmt.Sprintf("response from %s is not XML", ep.BaseURL))
	}

	posts, err := r.normalizer.Normalize(body, handle)
	if err != nil {
		return nil, err
	}

	for i := range posts {
		posts[i].Endpoint = ep.BaseURL
	}
	return posts, nil
}

// terminalError reports an exhausted candidate list, carrying the last
// soft failure and whether a local deployment was in play so callers
// can tell "your mirror is down" from "all public mirrors are down".
func (r *Resolver) terminalError(cands []Endpoint, handle string, lastSoft error) *fetcher.Error {
	kind := fetcher.KindUnhandled
	var ferr *fetcher.Error
	if errors.As(lastSoft, &ferr) {
		kind = ferr.Kind
	}

	msg := fmt.Sprintf("all %d endpoints failed for @%s", len(cands), handle)
	if cands[0].Local {
		msg = fmt.Sprintf("local endpoint %s failed for @%s; public mirrors were not tried", cands[0].BaseURL, handle)
	}
	if lastSoft != nil {
		msg = fmt.Sprintf("%s (last error: %v)", msg, lastSoft)
	}

	return &fetcher.Error{Kind: kind, Message: msg, Cause: lastSoft}
}
