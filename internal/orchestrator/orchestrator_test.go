package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/billyoftea/shefradar/internal/fetcher"
	"github.com/billyoftea/shefradar/internal/model"
	"github.com/billyoftea/shefradar/internal/testutil"
)

func quoteSet(symbol string) model.RecordSet {
	return model.NewRecordSet(model.Quote{Symbol: symbol, Price: 100, At: time.Now()})
}

func TestRun_Completeness(t *testing.T) {
	adapters := []fetcher.Adapter{
		testutil.NewMockAdapter(fetcher.SourceCrypto, quoteSet("BTC"), nil),
		testutil.NewMockAdapter(fetcher.SourceEquityIndex, model.RecordSet{}, errors.New("boom")),
		testutil.NewDisabledAdapter(fetcher.SourceFutures),
	}

	snap := New(adapters, nil, nil).Run(context.Background())

	if len(snap.Outcomes) != 3 {
		t.Fatalf("snapshot has %d outcomes, want one per requested source (3)", len(snap.Outcomes))
	}
	for _, src := range []fetcher.Source{fetcher.SourceCrypto, fetcher.SourceEquityIndex, fetcher.SourceFutures} {
		if _, ok := snap.Outcomes[src]; !ok {
			t.Errorf("snapshot is missing an outcome for %s", src)
		}
	}
}

func TestRun_IsolationAcrossSources(t *testing.T) {
	panicking := &testutil.MockAdapter{
		SourceFunc: func() fetcher.Source { return fetcher.SourceSocialPost },
		FetchFunc: func(ctx context.Context) (fetcher.Payload, error) {
			panic("adapter exploded")
		},
	}
	healthy := testutil.NewMockAdapter(fetcher.SourceCrypto, quoteSet("ETH"), nil)

	snap := New([]fetcher.Adapter{panicking, healthy}, nil, nil).Run(context.Background())

	if got := snap.Outcomes[fetcher.SourceCrypto].Status; got != fetcher.StatusSuccess {
		t.Errorf("healthy source = %s, want success despite sibling panic", got)
	}

	failed := snap.Outcomes[fetcher.SourceSocialPost]
	if failed.Status != fetcher.StatusFailure {
		t.Fatalf("panicking source = %s, want failure", failed.Status)
	}
	if failed.Err.Kind != fetcher.KindUnhandled {
		t.Errorf("panicking source kind = %q, want %q", failed.Err.Kind, fetcher.KindUnhandled)
	}
}

func TestRun_DisabledShortCircuits(t *testing.T) {
	fetched := false
	disabled := &testutil.MockAdapter{
		SourceFunc:  func() fetcher.Source { return fetcher.SourceFutures },
		EnabledFunc: func() bool { return false },
		FetchFunc: func(ctx context.Context) (fetcher.Payload, error) {
			fetched = true
			return nil, nil
		},
	}

	snap := New([]fetcher.Adapter{disabled}, nil, nil).Run(context.Background())

	if fetched {
		t.Error("Fetch() was called on a disabled adapter")
	}
	if got := snap.Outcomes[fetcher.SourceFutures].Status; got != fetcher.StatusDisabled {
		t.Errorf("outcome = %s, want disabled", got)
	}
	if len(snap.Errors) != 0 {
		t.Errorf("ledger has %d entries, want none for a disabled source", len(snap.Errors))
	}
}

func TestRun_TimeoutBecomesTimeoutFailure(t *testing.T) {
	slow := &testutil.MockAdapter{
		SourceFunc: func() fetcher.Source { return fetcher.SourceCodeTrend },
		FetchFunc: func(ctx context.Context) (fetcher.Payload, error) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(5 * time.Second):
				return model.RecordSet{}, nil
			}
		},
	}

	timeouts := map[fetcher.Source]time.Duration{fetcher.SourceCodeTrend: 50 * time.Millisecond}
	snap := New([]fetcher.Adapter{slow}, timeouts, nil).Run(context.Background())

	out := snap.Outcomes[fetcher.SourceCodeTrend]
	if out.Status != fetcher.StatusFailure {
		t.Fatalf("outcome = %s, want failure", out.Status)
	}
	if out.Err.Kind != fetcher.KindTimeout {
		t.Errorf("kind = %q, want %q", out.Err.Kind, fetcher.KindTimeout)
	}
}

func TestRun_TimeoutCancelsOnlyThatTask(t *testing.T) {
	slow := &testutil.MockAdapter{
		SourceFunc: func() fetcher.Source { return fetcher.SourceCodeTrend },
		FetchFunc: func(ctx context.Context) (fetcher.Payload, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	okAdapter := &testutil.MockAdapter{
		SourceFunc: func() fetcher.Source { return fetcher.SourceCrypto },
		FetchFunc: func(ctx context.Context) (fetcher.Payload, error) {
			time.Sleep(150 * time.Millisecond)
			return quoteSet("BTC"), nil
		},
	}

	timeouts := map[fetcher.Source]time.Duration{
		fetcher.SourceCodeTrend: 20 * time.Millisecond,
		fetcher.SourceCrypto:    time.Second,
	}
	snap := New([]fetcher.Adapter{slow, okAdapter}, timeouts, nil).Run(context.Background())

	if got := snap.Outcomes[fetcher.SourceCrypto].Status; got != fetcher.StatusSuccess {
		t.Errorf("sibling source = %s, want success after the other timed out", got)
	}
}

func TestRun_LedgerFollowsDeclarationOrder(t *testing.T) {
	// Register failures out of declaration order; ledger must not care.
	adapters := []fetcher.Adapter{
		testutil.NewMockAdapter(fetcher.SourceSocialPost, model.RecordSet{}, errors.New("social down")),
		testutil.NewMockAdapter(fetcher.SourceEquityIndex, model.RecordSet{}, errors.New("index down")),
	}

	snap := New(adapters, nil, nil).Run(context.Background())

	if len(snap.Errors) != 2 {
		t.Fatalf("ledger has %d entries, want 2", len(snap.Errors))
	}
	if snap.Errors[0].Source != string(fetcher.SourceEquityIndex) {
		t.Errorf("first ledger entry = %s, want equity_index (declaration order)", snap.Errors[0].Source)
	}
	if snap.Errors[1].Source != string(fetcher.SourceSocialPost) {
		t.Errorf("second ledger entry = %s, want social_post", snap.Errors[1].Source)
	}
}

func TestRun_ClassifiedErrorKeepsItsKind(t *testing.T) {
	forbidden := testutil.NewMockAdapter(fetcher.SourceSocialPost, model.RecordSet{}, fetcher.NewForbiddenError(403))

	snap := New([]fetcher.Adapter{forbidden}, nil, nil).Run(context.Background())

	out := snap.Outcomes[fetcher.SourceSocialPost]
	if out.Err == nil || out.Err.Kind != fetcher.KindForbidden {
		t.Errorf("outcome error = %+v, want the adapter's forbidden classification preserved", out.Err)
	}
}
