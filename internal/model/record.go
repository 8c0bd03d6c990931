package model

import "time"

// Record is one normalized data point. Every concrete record carries a
// natural identifying key and a timestamp; within one RecordSet natural
// keys are unique.
type Record interface {
	// NaturalKey is the stable identity of the record: a ticker
	// symbol, repository name, post id or article URL.
	NaturalKey() string

	// Time is the record timestamp used for ordering and windowing.
	Time() time.Time
}

// Quote is a priced instrument: an index level, a metal, a coin or a
// futures contract.
type Quote struct {
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Change    float64   `json:"change"`
	ChangePct float64   `json:"change_pct"`
	Volume    float64   `json:"volume,omitempty"`
	Unit      string    `json:"unit,omitempty"`
	At        time.Time `json:"timestamp"`
}

func (q Quote) NaturalKey() string { return q.Symbol }
func (q Quote) Time() time.Time    { return q.At }

// TrendingRepo is one repository from the code-hosting trend source.
type TrendingRepo struct {
	FullName    string    `json:"full_name"`
	Description string    `json:"description"`
	Language    string    `json:"language"`
	URL         string    `json:"url"`
	Stars       int       `json:"stars"`
	Forks       int       `json:"forks"`
	At          time.Time `json:"timestamp"`
}

func (r TrendingRepo) NaturalKey() string { return r.FullName }
func (r TrendingRepo) Time() time.Time    { return r.At }

// Post is one social post pulled through a feed mirror. Endpoint
// records which mirror produced it.
type Post struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	Handle      string    `json:"author_handle"`
	DisplayName string    `json:"display_name"`
	URL         string    `json:"url"`
	Endpoint    string    `json:"source_endpoint"`
	PublishedAt time.Time `json:"published_at"`
}

func (p Post) NaturalKey() string { return p.ID }
func (p Post) Time() time.Time    { return p.PublishedAt }

// Article is one long-form piece from the article source.
type Article struct {
	Title       string    `json:"title"`
	Author      string    `json:"author,omitempty"`
	Account     string    `json:"account_name"`
	URL         string    `json:"url"`
	Digest      string    `json:"digest,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

func (a Article) NaturalKey() string { return a.URL }
func (a Article) Time() time.Time    { return a.PublishedAt }
