package yahoofinance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/billyoftea/shefradar/internal/fetcher"
	"github.com/billyoftea/shefradar/internal/model"
)

var metalNames = map[string]string{
	"GC=F": "Gold",
	"SI=F": "Silver",
	"PL=F": "Platinum",
	"PA=F": "Palladium",
}

// MetalAdapter fetches precious-metal futures quotes, priced in USD
// per troy ounce.
type MetalAdapter struct {
	symbols []string
	client  *Client
	enabled bool
	log     *slog.Logger
}

func NewMetalAdapter(symbols []string, baseURL string, enabled bool, log *slog.Logger) *MetalAdapter {
	if log == nil {
		log = slog.Default()
	}
	return &MetalAdapter{
		symbols: symbols,
		client:  NewClient(baseURL),
		enabled: enabled,
		log:     log,
	}
}

func (a *MetalAdapter) Source() fetcher.Source { return fetcher.SourcePreciousMetal }

func (a *MetalAdapter) Enabled() bool { return a.enabled && len(a.symbols) > 0 }

// Fetch pulls each configured symbol. A single bad symbol is skipped;
// the source fails only when every symbol does.
func (a *MetalAdapter) Fetch(ctx context.Context) (fetcher.Payload, error) {
	metas := make([]*Meta, 0, len(a.symbols))
	var lastErr error
	for _, symbol := range a.symbols {
		meta, err := a.client.Chart(ctx, symbol)
		if err != nil {
			a.log.Warn("metal quote failed", "symbol", symbol, "error", err)
			lastErr = err
			continue
		}
		metas = append(metas, meta)
	}

	if len(metas) == 0 {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, fmt.Errorf("no metal symbols configured")
	}
	return metas, nil
}

// Parse converts chart metas into quotes.
func (a *MetalAdapter) Parse(payload fetcher.Payload) (model.RecordSet, error) {
	metas, ok := payload.([]*Meta)
	if !ok {
		return model.RecordSet{}, fetcher.NewMalformedError("metal payload has unexpected shape")
	}

	now := time.Now()
	var set model.RecordSet
	for _, meta := range metas {
		name := metalNames[meta.Symbol]
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
			Unit:      "USD/oz",
			At:        now,
		})
	}
	return set, nil
}
