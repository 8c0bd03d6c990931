package wechat

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"resty.dev/v3"

	"github.com/billyoftea/shefradar/internal/fetcher"
	"github.com/billyoftea/shefradar/internal/model"
	"github.com/billyoftea/shefradar/internal/ratelimit"
)

// The article source talks to a self-hosted wechat-article-exporter
// service, authenticated out of band via its own login flow.

type accountResponse struct {
	Data []struct {
		FakeID   string `json:"fakeid"`
		Nickname string `json:"nickname"`
	} `json:"data"`
}

type articleResponse struct {
	Data []struct {
		Title      string `json:"title"`
		Author     string `json:"author"`
		Link       string `json:"link"`
		Digest     string `json:"digest"`
		CreateTime int64  `json:"create_time"`
	} `json:"data"`
}

// Adapter fetches recent articles per followed account from the local
// exporter service.
type Adapter struct {
	accounts   []string
	perAccount int
	maxAge     time.Duration
	client     *resty.Client
	enabled    bool
	log        *slog.Logger
}

func New(accounts []string, baseURL string, perAccount int, maxAge time.Duration, enabled bool, log *slog.Logger) *Adapter {
	if perAccount <= 0 {
		perAccount = 20
	}
	if log == nil {
		log = slog.Default()
	}
	return &Adapter{
		accounts:   accounts,
		perAccount: perAccount,
		maxAge:     maxAge,
		client:     fetcher.NewHTTPClient(baseURL),
		enabled:    enabled,
		log:        log,
	}
}

func (a *Adapter) Source() fetcher.Source { return fetcher.SourceSocialArticle }

func (a *Adapter) Enabled() bool { return a.enabled && len(a.accounts) > 0 }

// Fetch resolves each account name to its internal id, then pulls that
// account's recent articles. A failing account is skipped; the source
// fails only when every account does.
func (a *Adapter) Fetch(ctx context.Context) (fetcher.Payload, error) {
	var articles []model.Article
	failed := 0
	var lastErr error

	for _, name := range a.accounts {
		got, err := a.fetchAccount(ctx, name)
		if err != nil {
			a.log.Warn("article account failed", "account", name, "error", err)
			failed++
			lastErr = err
			continue
		}
		articles = append(articles, got...)
	}

	if failed == len(a.accounts) && lastErr != nil {
		return nil, lastErr
	}
	return articles, nil
}

func (a *Adapter) fetchAccount(ctx context.Context, name string) ([]model.Article, error) {
	if err := ratelimit.GetLimiter().Wait(ctx, ratelimit.APIWechatExporter); err != nil {
		return nil, err
	}

	var accounts accountResponse
	resp, err := a.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"query": name, "limit": "1"}).
		SetResult(&accounts).
		Get("/api/public/v1/account")
	if err != nil {
		return nil, fmt.Errorf("account lookup failed: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fetcher.ClassifyHTTPStatus(resp.StatusCode())
	}
	if len(accounts.Data) == 0 {
		return nil, fetcher.NewNotFoundError(name, "exporter service")
	}

	var listing articleResponse
	resp, err = a.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"fakeid": accounts.Data[0].FakeID,
			"count":  fmt.Sprintf("%d", a.perAccount),
		}).
		SetResult(&listing).
		Get("/api/public/v1/article")
	if err != nil {
		return nil, fmt.Errorf("article listing failed: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fetcher.ClassifyHTTPStatus(resp.StatusCode())
	}

	articles := make([]model.Article, 0, len(listing.Data))
	for _, item := range listing.Data {
		if item.Link == "" {
			continue
		}
		articles = append(articles, model.Article{
			Title:       item.Title,
			Author:      item.Author,
			Account:     name,
			URL:         item.Link,
			Digest:      item.Digest,
			PublishedAt: time.Unix(item.CreateTime, 0),
		})
	}
	return articles, nil
}

// Parse dedupes, windows and orders the merged articles newest first.
func (a *Adapter) Parse(payload fetcher.Payload) (model.RecordSet, error) {
	articles, ok := payload.([]model.Article)
	if !ok {
		return model.RecordSet{}, fetcher.NewMalformedError("article payload has unexpected shape")
	}

	var cutoff time.Time
	if a.maxAge > 0 {
		cutoff = time.Now().Add(-a.maxAge)
	}

	var set model.RecordSet
	for _, art := range articles {
		if !cutoff.IsZero() && art.PublishedAt.Before(cutoff) {
			continue
		}
		set.Add(art)
	}
	set.SortByTimeDesc()
	return set, nil
}
