package eastmoney

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"resty.dev/v3"

	"github.com/billyoftea/shefradar/internal/fetcher"
	"github.com/billyoftea/shefradar/internal/model"
	"github.com/billyoftea/shefradar/internal/ratelimit"
)

// ulistResponse is the push2 quote list envelope. With fltt=2 the
// numeric fields come back as plain floats.
type ulistResponse struct {
	Data *struct {
		Diff []indexRow `json:"diff"`
	} `json:"data"`
}

type indexRow struct {
	Price     float64 `json:"f2"`
	ChangePct float64 `json:"f3"`
	Change    float64 `json:"f4"`
	Volume    float64 `json:"f5"`
	Code      string  `json:"f12"`
	Name      string  `json:"f14"`
}

// Adapter fetches mainland index levels from the eastmoney push2 API.
// Security ids are "market.code" pairs, e.g. 1.000001 for the Shanghai
// composite.
type Adapter struct {
	secIDs  []string
	client  *resty.Client
	enabled bool
}

func New(secIDs []string, baseURL string, enabled bool) *Adapter {
	return &Adapter{
		secIDs:  secIDs,
		client:  fetcher.NewHTTPClient(baseURL),
		enabled: enabled,
	}
}

func (a *Adapter) Source() fetcher.Source { return fetcher.SourceEquityIndex }

func (a *Adapter) Enabled() bool { return a.enabled && len(a.secIDs) > 0 }

// Fetch retrieves one quote row per configured index. The endpoint
// serves JSON with a text content type, so the body is decoded by hand.
func (a *Adapter) Fetch(ctx context.Context) (fetcher.Payload, error) {
	if err := ratelimit.GetLimiter().Wait(ctx, ratelimit.APIEastmoney); err != nil {
		return nil, err
	}

	resp, err := a.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"fltt":   "2",
			"secids": strings.Join(a.secIDs, ","),
			"fields": "f2,f3,f4,f5,f12,f14",
		}).
		Get("/api/qt/ulist.np/get")

	if err != nil {
		return nil, fmt.Errorf("failed to fetch index quotes: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fetcher.ClassifyHTTPStatus(resp.StatusCode())
	}

	var out ulistResponse
	if err := json.Unmarshal(resp.Bytes(), &out); err != nil {
		return nil, fetcher.NewMalformedError(fmt.Sprintf("index response is not JSON: %v", err))
	}
	if out.Data == nil || len(out.Data.Diff) == 0 {
		return nil, fetcher.NewMalformedError("index response carried no quotes")
	}

	return out.Data.Diff, nil
}

// Parse converts quote rows into records.
func (a *Adapter) Parse(payload fetcher.Payload) (model.RecordSet, error) {
	rows, ok := payload.([]indexRow)
	if !ok {
		return model.RecordSet{}, fetcher.NewMalformedError("index payload has unexpected shape")
	}

	now := time.Now()
	var set model.RecordSet
	for _, row := range rows {
		if row.Code == "" {
			continue
		}
		set.Add(model.Quote{
			Symbol:    row.Code,
			Name:      row.Name,
			Price:     row.Price,
			Change:    row.Change,
			ChangePct: row.ChangePct,
			Volume:    row.Volume,
			At:        now,
		})
	}
	return set, nil
}
