package yahoofinance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/billyoftea/shefradar/internal/fetcher"
	"github.com/billyoftea/shefradar/internal/model"
)

var futuresNames = map[string]string{
	"CL=F": "WTI Crude",
	"BZ=F": "Brent Crude",
	"ES=F": "S&P 500",
	"NQ=F": "Nasdaq 100",
	"YM=F": "Dow Jones",
	"HG=F": "Copper",
	"ZC=F": "Corn",
	"ZW=F": "Wheat",
}

// FuturesAdapter fetches international futures quotes through the same
// chart API the metal adapter uses.
type FuturesAdapter struct {
	symbols []string
	client  *Client
	enabled bool
	log     *slog.Logger
}

func NewFuturesAdapter(symbols []string, baseURL string, enabled bool, log *slog.Logger) *FuturesAdapter {
	if log == nil {
		log = slog.Default()
	}
	return &FuturesAdapter{
		symbols: symbols,
		client:  NewClient(baseURL),
		enabled: enabled,
		log:     log,
	}
}

func (a *FuturesAdapter) Source() fetcher.Source { return fetcher.SourceFutures }

func (a *FuturesAdapter) Enabled() bool { return a.enabled && len(a.symbols) > 0 }

func (a *FuturesAdapter) Fetch(ctx context.Context) (fetcher.Payload, error) {
	metas := make([]*Meta, 0, len(a.symbols))
	var lastErr error
	for _, symbol := range a.symbols {
		meta, err := a.client.Chart(ctx, symbol)
		if err != nil {
			a.log.Warn("futures quote failed", "symbol", symbol, "error", err)
			lastErr = err
			continue
		}
		metas = append(metas, meta)
	}

	if len(metas) == 0 {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, fmt.Errorf("no futures symbols configured")
	}
	return metas, nil
}

func (a *FuturesAdapter) Parse(payload fetcher.Payload) (model.RecordSet, error) {
	metas, ok := payload.([]*Meta)
	if !ok {
		return model.RecordSet{}, fetcher.NewMalformedError("futures payload has unexpected shape")
	}

	now := time.Now()
	var set model.RecordSet
	for _, meta := range metas {
		name := futuresNames[meta.Symbol]
		if name == "" {
			name = meta.Symbol
		}
		change, changePct := quoteChange(meta)
		set.Add(model.Quote{
			Symbol:    meta.Symbol,
			Name:      name,
			Price:     meta.RegularMarketPrice,
			Change:    change,
			ChangePct: changePct,
			Unit:      meta.Currency,
			At:        now,
		})
	}
	return set, nil
}
