package githubtrend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/billyoftea/shefradar/internal/fetcher"
	"github.com/billyoftea/shefradar/internal/model"
)

const searchBody = `{"total_count":2,"items":[
	{"full_name":"acme/rocket","description":"A very fast rocket","html_url":"https://github.com/acme/rocket","stargazers_count":4200,"forks_count":310,"language":"Go"},
	{"full_name":"acme/skates","description":"","html_url":"https://github.com/acme/skates","stargazers_count":900,"forks_count":55,"language":"Rust"}
]}`

func TestFetchAndParse(t *testing.T) {
	var gotQuery, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/repositories" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotQuery = r.URL.Query().Get("q")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(searchBody))
	}))
	defer server.Close()

	a := New("secret", server.URL, 10, true)
	a.now = func() time.Time { return time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC) }

	payload, err := a.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}

	if !strings.Contains(gotQuery, "created:>2026-03-02") {
		t.Errorf("q = %q, want a created:>2026-03-02 clause", gotQuery)
	}
	if !strings.Contains(gotQuery, "stars:>100") {
		t.Errorf("q = %q, want a stars:>100 clause", gotQuery)
	}
	if gotAuth != "token secret" {
		t.Errorf("Authorization = %q, want token secret", gotAuth)
	}

	set, err := a.Parse(payload)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if set.Len() != 2 {
		t.Fatalf("got %d records, want 2", set.Len())
	}

	repo := set.Records()[0].(model.TrendingRepo)
	if repo.FullName != "acme/rocket" || repo.Stars != 4200 || repo.Language != "Go" {
		t.Errorf("repo = %+v", repo)
	}
}

func TestFetchWithoutTokenSendsNoAuth(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"total_count":0,"items":[]}`))
	}))
	defer server.Close()

	a := New("", server.URL, 10, true)
	if _, err := a.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("Authorization = %q, want empty", gotAuth)
	}
}

func TestFetchForbidden(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	a := New("", server.URL, 10, true)
	_, err := a.Fetch(context.Background())
	var ferr *fetcher.Error
	if !errors.As(err, &ferr) || ferr.Kind != fetcher.KindForbidden {
		t.Errorf("Fetch() error = %v, want forbidden", err)
	}
}

func TestParseSkipsItemsWithoutName(t *testing.T) {
	a := New("", "http://example.com", 10, true)

	var payload searchResponse
	payload.Items = append(payload.Items, struct {
		FullName    string `json:"full_name"`
		Description string `json:"description"`
		HTMLURL     string `json:"html_url"`
		Stars       int    `json:"stargazers_count"`
		Forks       int    `json:"forks_count"`
		Language    string `json:"language"`
	}{FullName: "", Stars: 1})

	set, err := a.Parse(payload)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if set.Len() != 0 {
		t.Errorf("got %d records, want 0", set.Len())
	}
}
