package nitter

import "strings"

// localPatterns mark loopback and private-network deployments. A local
// mirror is assumed self-hosted and authoritative.
var localPatterns = []string{
	"localhost",
	"127.0.0.1",
	"0.0.0.0",
	"192.168.",
	"10.",
}

// Endpoint is one interchangeable backend mirror.
type Endpoint struct {
	BaseURL string
	Local   bool
}

// NewEndpoint normalizes the URL and derives the local flag.
func NewEndpoint(rawURL string) Endpoint {
	u := strings.TrimRight(strings.TrimSpace(rawURL), "/")
	return Endpoint{BaseURL: u, Local: isLocal(u)}
}

// NewEndpoints keeps config order, which is the failover priority
// order. Blank entries are dropped.
func NewEndpoints(rawURLs []string) []Endpoint {
	endpoints := make([]Endpoint, 0, len(rawURLs))
	for _, raw := range rawURLs {
		ep := NewEndpoint(raw)
		if ep.BaseURL != "" {
			endpoints = append(endpoints, ep)
		}
	}
	return endpoints
}

func isLocal(url string) bool {
	for _, pattern := range localPatterns {
		if strings.Contains(url, pattern) {
			return true
		}
	}
	return false
}
