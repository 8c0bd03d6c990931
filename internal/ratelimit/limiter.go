package ratelimit

import (
	"context"
	"os"
	"sync"

	"golang.org/x/time/rate"
)

// API represents the upstream services we throttle against.
type API string

const (
	// APICoinGecko covers the crypto markets API (free tier, ~10-30
	// calls per minute).
	APICoinGecko API = "coingecko"
	// APIEastmoney covers the equity index quote API.
	APIEastmoney API = "eastmoney"
	// APIYahooFinance covers the chart API used for metals and futures.
	APIYahooFinance API = "yahoofinance"
	// APIGitHub covers the repository search API (30 searches/minute
	// authenticated, 10 unauthenticated).
	APIGitHub API = "github"
	// APIWechatExporter covers the self-hosted article exporter service.
	APIWechatExporter API = "wechat_exporter"
)

// Limiter manages rate limits per upstream API.
type Limiter struct {
	limiters map[API]*rate.Limiter
	mu       sync.RWMutex
}

var (
	instance *Limiter
	once     sync.Once
)

// GetLimiter returns the process-wide limiter.
func GetLimiter() *Limiter {
	once.Do(func() {
		instance = &Limiter{
			limiters: make(map[API]*rate.Limiter),
		}
		instance.initLimiters()
	})
	return instance
}

func (l *Limiter) initLimiters() {
	// Unlimited in tests so httptest-backed suites do not crawl.
	if os.Getenv("GO_TESTING") == "1" || isTestMode() {
		for _, api := range []API{APICoinGecko, APIEastmoney, APIYahooFinance, APIGitHub, APIWechatExporter} {
			l.limiters[api] = rate.NewLimiter(rate.Inf, 1)
		}
		return
	}

	// Conservative production ceilings.
	l.limiters[APICoinGecko] = rate.NewLimiter(rate.Limit(10.0/60.0), 1)
	l.limiters[APIEastmoney] = rate.NewLimiter(rate.Limit(5), 1)
	l.limiters[APIYahooFinance] = rate.NewLimiter(rate.Limit(2), 1)
	l.limiters[APIGitHub] = rate.NewLimiter(rate.Limit(0.5), 1)
	l.limiters[APIWechatExporter] = rate.NewLimiter(rate.Limit(2), 1)
}

func isTestMode() bool {
	for _, arg := range os.Args {
		if len(arg) > 6 && arg[:6] == "-test." {
			return true
		}
	}
	return false
}

// Wait blocks until the limiter permits an event for the given API or
// the context is canceled.
func (l *Limiter) Wait(ctx context.Context, api API) error {
	l.mu.RLock()
	limiter, exists := l.limiters[api]
	l.mu.RUnlock()

	if !exists {
		return nil
	}
	return limiter.Wait(ctx)
}

// Allow reports whether an event for the given API may happen now.
func (l *Limiter) Allow(api API) bool {
	l.mu.RLock()
	limiter, exists := l.limiters[api]
	l.mu.RUnlock()

	if !exists {
		return true
	}
	return limiter.Allow()
}
