package yahoofinance

import (
	"context"
	"fmt"

	"resty.dev/v3"

	"github.com/billyoftea/shefradar/internal/fetcher"
	"github.com/billyoftea/shefradar/internal/ratelimit"
)

// chartResponse is the v8 chart API envelope; only meta fields are
// needed for a latest-price quote.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta Meta `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Meta carries the instrument's latest regular-session figures.
type Meta struct {
	Symbol             string  `json:"symbol"`
	RegularMarketPrice float64 `json:"regularMarketPrice"`
	PreviousClose      float64 `json:"chartPreviousClose"`
	Currency           string  `json:"currency"`
}

// Client wraps the Yahoo Finance chart API shared by the metal and
// futures adapters.
type Client struct {
	http *resty.Client
}

func NewClient(baseURL string) *Client {
	return &Client{http: fetcher.NewHTTPClient(baseURL)}
}

// Chart fetches the latest session meta for one symbol.
func (c *Client) Chart(ctx context.Context, symbol string) (*Meta, error) {
	if err := ratelimit.GetLimiter().Wait(ctx, ratelimit.APIYahooFinance); err != nil {
		return nil, err
	}

	var out chartResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"interval": "1d",
			"range":    "5d",
		}).
		SetResult(&out).
		Get("/v8/finance/chart/" + symbol)

	if err != nil {
		return nil, fmt.Errorf("failed to fetch chart for %s: %w", symbol, err)
	}
	if !resp.IsSuccess() {
		return nil, fetcher.ClassifyHTTPStatus(resp.StatusCode())
	}
	if out.Chart.Error != nil {
		return nil, fetcher.NewMalformedError(fmt.Sprintf("chart error for %s: %s", symbol, out.Chart.Error.Description))
	}
	if len(out.Chart.Result) == 0 {
		return nil, fetcher.NewMalformedError(fmt.Sprintf("no chart result for %s", symbol))
	}

	meta := out.Chart.Result[0].Meta
	if meta.RegularMarketPrice == 0 {
		return nil, fetcher.NewMalformedError(fmt.Sprintf("no market price for %s", symbol))
	}
	return &meta, nil
}

// quoteChange derives absolute and percentage change from the previous
// close.
func quoteChange(meta *Meta) (change, changePct float64) {
	change = meta.RegularMarketPrice - meta.PreviousClose
	if meta.PreviousClose != 0 {
		changePct = change / meta.PreviousClose * 100
	}
	return change, changePct
}
