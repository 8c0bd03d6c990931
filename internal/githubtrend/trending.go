package githubtrend

import (
	"context"
	"fmt"
	"time"

	"resty.dev/v3"

	"github.com/billyoftea/shefradar/internal/fetcher"
	"github.com/billyoftea/shefradar/internal/model"
	"github.com/billyoftea/shefradar/internal/ratelimit"
)

const (
	// lookbackDays bounds the "recently created" search window.
	lookbackDays = 7
	// minStars filters out one-day wonders.
	minStars = 100
)

type searchResponse struct {
	TotalCount int `json:"total_count"`
	Items      []struct {
		FullName    string `json:"full_name"`
		Description string `json:"description"`
		HTMLURL     string `json:"html_url"`
		Stars       int    `json:"stargazers_count"`
		Forks       int    `json:"forks_count"`
		Language    string `json:"language"`
	} `json:"items"`
}

// Adapter finds recently created repositories ranked by stars through
// the GitHub search API. A token is optional and only raises quota.
type Adapter struct {
	token   string
	limit   int
	client  *resty.Client
	enabled bool
	now     func() time.Time
}

func New(token, baseURL string, limit int, enabled bool) *Adapter {
	if limit <= 0 {
		limit = 10
	}
	return &Adapter{
		token:   token,
		limit:   limit,
		client:  fetcher.NewHTTPClient(baseURL),
		enabled: enabled,
		now:     time.Now,
	}
}

func (a *Adapter) Source() fetcher.Source { return fetcher.SourceCodeTrend }

func (a *Adapter) Enabled() bool { return a.enabled }

func (a *Adapter) Fetch(ctx context.Context) (fetcher.Payload, error) {
	if err := ratelimit.GetLimiter().Wait(ctx, ratelimit.APIGitHub); err != nil {
		return nil, err
	}

	since := a.now().AddDate(0, 0, -lookbackDays).Format("2006-01-02")

	req := a.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":        fmt.Sprintf("created:>%s stars:>%d", since, minStars),
			"sort":     "stars",
			"order":    "desc",
			"per_page": fmt.Sprintf("%d", a.limit),
		})
	if a.token != "" {
		req.SetHeader("Authorization", "token "+a.token)
	}

	var out searchResponse
	resp, err := req.SetResult(&out).Get("/search/repositories")
	if err != nil {
		return nil, fmt.Errorf("failed to search repositories: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fetcher.ClassifyHTTPStatus(resp.StatusCode())
	}

	return out, nil
}

func (a *Adapter) Parse(payload fetcher.Payload) (model.RecordSet, error) {
	out, ok := payload.(searchResponse)
	if !ok {
		return model.RecordSet{}, fetcher.NewMalformedError("trend payload has unexpected shape")
	}

	now := time.Now()
	var set model.RecordSet
	for _, item := range out.Items {
		if item.FullName == "" {
			continue
		}
		set.Add(model.TrendingRepo{
			FullName:    item.FullName,
			Description: item.Description,
			Language:    item.Language,
			URL:         item.HTMLURL,
			Stars:       item.Stars,
			Forks:       item.Forks,
			At:          now,
		})
	}
	return set, nil
}
