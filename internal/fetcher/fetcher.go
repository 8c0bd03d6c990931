package fetcher

import (
	"context"

	"github.com/billyoftea/shefradar/internal/model"
)

// Source identifies one logical data source. It is the map key for
// every per-source structure in a snapshot.
type Source string

const (
	SourceEquityIndex   Source = "equity_index"
	SourcePreciousMetal Source = "precious_metal"
	SourceCrypto        Source = "crypto"
	SourceFutures       Source = "futures"
	SourceCodeTrend     Source = "code_trend"
	SourceSocialPost    Source = "social_post"
	SourceSocialArticle Source = "social_article"
)

// Sources lists every source in declaration order. Report sections and
// ledger entries follow this order, never fetch completion order.
var Sources = []Source{
	SourceEquityIndex,
	SourcePreciousMetal,
	SourceCrypto,
	SourceFutures,
	SourceCodeTrend,
	SourceSocialPost,
	SourceSocialArticle,
}

// Payload is the raw result of one fetch. Its shape is defined by the
// adapter that produced it and is opaque to the orchestrator.
type Payload any

// Adapter produces data for one source. The orchestrator calls
// Enabled, Fetch and Parse and nothing else; HTTP clients, rate
// limiters and endpoint failover stay behind this interface.
type Adapter interface {
	// Source returns the key this adapter reports under.
	Source() Source

	// Enabled reports whether the source should be fetched at all.
	// A disabled adapter short-circuits to a Disabled outcome without
	// any work being scheduled.
	Enabled() bool

	// Fetch retrieves the raw payload for this source.
	Fetch(ctx context.Context) (Payload, error)

	// Parse converts a payload from Fetch into normalized records.
	Parse(payload Payload) (model.RecordSet, error)
}
