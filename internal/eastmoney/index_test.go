package eastmoney

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/billyoftea/shefradar/internal/fetcher"
	"github.com/billyoftea/shefradar/internal/model"
)

// push2 serves JSON under a text content type, so responses here do the
// same.
const ulistBody = `{"rc":0,"data":{"total":2,"diff":[
	{"f2":3250.44,"f3":0.8,"f4":25.8,"f5":312000000,"f12":"000001","f14":"上证指数"},
	{"f2":10480.2,"f3":-0.3,"f4":-31.5,"f5":401000000,"f12":"399001","f14":"深证成指"}
]}}`

func TestFetchAndParse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/qt/ulist.np/get" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("secids"); got != "1.000001,0.399001" {
			t.Errorf("secids = %q", got)
		}
		if got := r.URL.Query().Get("fltt"); got != "2" {
			t.Errorf("fltt = %q, want 2", got)
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(ulistBody))
	}))
	defer server.Close()

	a := New([]string{"1.000001", "0.399001"}, server.URL, true)

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

	q := set.Records()[0].(model.Quote)
	if q.Symbol != "000001" {
		t.Errorf("Symbol = %q, want 000001", q.Symbol)
	}
	if q.Name != "上证指数" {
		t.Errorf("Name = %q", q.Name)
	}
	if q.Price != 3250.44 || q.ChangePct != 0.8 {
		t.Errorf("Price/ChangePct = %v/%v", q.Price, q.ChangePct)
	}
}

func TestFetchNullDataIsMalformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rc":0,"data":null}`))
	}))
	defer server.Close()

	a := New([]string{"1.000001"}, server.URL, true)

	_, err := a.Fetch(context.Background())
	var ferr *fetcher.Error
	if !errors.As(err, &ferr) || ferr.Kind != fetcher.KindMalformed {
		t.Errorf("Fetch() error = %v, want malformed_response", err)
	}
}

func TestFetchNonJSONIsMalformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("jQuery12345({});"))
	}))
	defer server.Close()

	a := New([]string{"1.000001"}, server.URL, true)

	_, err := a.Fetch(context.Background())
	var ferr *fetcher.Error
	if !errors.As(err, &ferr) || ferr.Kind != fetcher.KindMalformed {
		t.Errorf("Fetch() error = %v, want malformed_response", err)
	}
}

func TestParseSkipsRowsWithoutCode(t *testing.T) {
	a := New([]string{"1.000001"}, "http://example.com", true)

	set, err := a.Parse([]indexRow{
		{Price: 3250.44, Code: "000001", Name: "SSE"},
		{Price: 99.0, Code: "", Name: "broken"},
	})
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if set.Len() != 1 {
		t.Errorf("got %d records, want 1 (empty-code row skipped)", set.Len())
	}
}
