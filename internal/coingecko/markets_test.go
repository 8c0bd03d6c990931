package coingecko

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/billyoftea/shefradar/internal/fetcher"
	"github.com/billyoftea/shefradar/internal/model"
)

const marketsBody = `[
	{"id":"bitcoin","symbol":"btc","name":"Bitcoin","current_price":64000.12,"market_cap":1260000000000,"total_volume":31000000000,"price_change_24h":1560.3,"price_change_percentage_24h":2.5},
	{"id":"ethereum","symbol":"eth","name":"Ethereum","current_price":3100.5,"market_cap":372000000000,"total_volume":15000000000,"price_change_24h":-37.6,"price_change_percentage_24h":-1.2}
]`

func TestFetchAndParse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/coins/markets" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("ids"); got != "bitcoin,ethereum" {
			t.Errorf("ids = %q, want bitcoin,ethereum", got)
		}
		if got := r.URL.Query().Get("vs_currency"); got != "usd" {
			t.Errorf("vs_currency = %q, want usd", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(marketsBody))
	}))
	defer server.Close()

	a := New([]string{"bitcoin", "ethereum"}, "usd", server.URL, true)

	payload, err := a.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}

	set, err := a.Parse(payload)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if set.Len() != 2 {
		t.Fatalf("got %d records, want 2", set.Len())
	}

	q, ok := set.Records()[0].(model.Quote)
	if !ok {
		t.Fatalf("record is %T, want model.Quote", set.Records()[0])
	}
	if q.Symbol != "BTC" {
		t.Errorf("Symbol = %q, want BTC (upper-cased)", q.Symbol)
	}
	if q.Unit != "USD" {
		t.Errorf("Unit = %q, want USD", q.Unit)
	}
	if q.Price != 64000.12 {
		t.Errorf("Price = %v, want 64000.12", q.Price)
	}
	if q.ChangePct != 2.5 {
		t.Errorf("ChangePct = %v, want 2.5", q.ChangePct)
	}
}

func TestFetchForbidden(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	a := New([]string{"bitcoin"}, "usd", server.URL, true)

	_, err := a.Fetch(context.Background())
	var ferr *fetcher.Error
	if !errors.As(err, &ferr) {
		t.Fatalf("Fetch() error = %v, want *fetcher.Error", err)
	}
	if ferr.Kind != fetcher.KindForbidden {
		t.Errorf("Kind = %v, want %v", ferr.Kind, fetcher.KindForbidden)
	}
	if !ferr.Soft {
		t.Error("forbidden should be a soft failure")
	}
}

func TestFetchEmptyBodyIsMalformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	a := New([]string{"bitcoin"}, "usd", server.URL, true)

	_, err := a.Fetch(context.Background())
	var ferr *fetcher.Error
	if !errors.As(err, &ferr) || ferr.Kind != fetcher.KindMalformed {
		t.Errorf("Fetch() error = %v, want malformed_response", err)
	}
}

func TestEnabled(t *testing.T) {
	if (&Adapter{enabled: true}).Enabled() {
		t.Error("adapter with no coins should be disabled")
	}
	if New([]string{"bitcoin"}, "usd", "http://example.com", false).Enabled() {
		t.Error("adapter with enabled=false should be disabled")
	}
	if !New([]string{"bitcoin"}, "usd", "http://example.com", true).Enabled() {
		t.Error("adapter with coins and enabled=true should be enabled")
	}
}
