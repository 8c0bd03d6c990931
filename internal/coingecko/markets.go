package coingecko

import (
	"context"
	"fmt"
	"strings"
	"time"

	"resty.dev/v3"

	"github.com/billyoftea/shefradar/internal/fetcher"
	"github.com/billyoftea/shefradar/internal/model"
	"github.com/billyoftea/shefradar/internal/ratelimit"
)

// Market is one row of the CoinGecko /coins/markets response.
type Market struct {
	ID             string  `json:"id"`
	Symbol         string  `json:"symbol"`
	Name           string  `json:"name"`
	CurrentPrice   float64 `json:"current_price"`
	MarketCap      float64 `json:"market_cap"`
	TotalVolume    float64 `json:"total_volume"`
	PriceChange24h float64 `json:"price_change_24h"`
	ChangePct24h   float64 `json:"price_change_percentage_24h"`
}

// Adapter fetches crypto market data from the CoinGecko API. Free
// tier, no API key.
type Adapter struct {
	coins      []string
	vsCurrency string
	client     *resty.Client
	enabled    bool
}

func New(coins []string, vsCurrency, baseURL string, enabled bool) *Adapter {
	if vsCurrency == "" {
		vsCurrency = "usd"
	}
	return &Adapter{
		coins:      coins,
		vsCurrency: vsCurrency,
		client:     fetcher.NewHTTPClient(baseURL),
		enabled:    enabled,
	}
}

func (a *Adapter) Source() fetcher.Source { return fetcher.SourceCrypto }

func (a *Adapter) Enabled() bool { return a.enabled && len(a.coins) > 0 }

// Fetch retrieves current market rows for the configured coin ids.
func (a *Adapter) Fetch(ctx context.Context) (fetcher.Payload, error) {
	if err := ratelimit.GetLimiter().Wait(ctx, ratelimit.APICoinGecko); err != nil {
		return nil, err
	}

	var markets []Market
	resp, err := a.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"vs_currency": a.vsCurrency,
			"ids":         strings.Join(a.coins, ","),
			"order":       "market_cap_desc",
			"sparkline":   "false",
		}).
		SetResult(&markets).
		Get("/coins/markets")

	if err != nil {
		return nil, fmt.Errorf("failed to fetch crypto markets: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fetcher.ClassifyHTTPStatus(resp.StatusCode())
	}
	if len(markets) == 0 {
		return nil, fetcher.NewMalformedError("coingecko returned no markets")
	}

	return markets, nil
}

// Parse converts market rows into quotes.
func (a *Adapter) Parse(payload fetcher.Payload) (model.RecordSet, error) {
	markets, ok := payload.([]Market)
	if !ok {
		return model.RecordSet{}, fetcher.NewMalformedError("crypto payload has unexpected shape")
	}

	now := time.Now()
	var set model.RecordSet
	for _, m := range markets {
		set.Add(model.Quote{
			Symbol:    strings.ToUpper(m.Symbol),
			Name:      m.Name,
			Price:     m.CurrentPrice,
			Change:    m.PriceChange24h,
			ChangePct: m.ChangePct24h,
			Volume:    m.TotalVolume,
			Unit:      strings.ToUpper(a.vsCurrency),
			At:        now,
		})
	}
	return set, nil
}
