package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/billyoftea/shefradar/internal/coingecko"
	"github.com/billyoftea/shefradar/internal/config"
	"github.com/billyoftea/shefradar/internal/eastmoney"
	"github.com/billyoftea/shefradar/internal/fetcher"
	"github.com/billyoftea/shefradar/internal/githubtrend"
	"github.com/billyoftea/shefradar/internal/logging"
	"github.com/billyoftea/shefradar/internal/nitter"
	"github.com/billyoftea/shefradar/internal/orchestrator"
	"github.com/billyoftea/shefradar/internal/report"
	"github.com/billyoftea/shefradar/internal/store"
	"github.com/billyoftea/shefradar/internal/wechat"
	"github.com/billyoftea/shefradar/internal/yahoofinance"
)

func main() {
	// Optional .env file for local runs.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("received interrupt signal, shutting down")
		cancel()
	}()

	// Static adapter registry: every source is present, disabled ones
	// short-circuit to a Disabled outcome.
	adapters := []fetcher.Adapter{
		eastmoney.New(cfg.IndexSecIDs, cfg.EastmoneyBaseURL, cfg.EnableEquityIndex),
		yahoofinance.NewMetalAdapter(cfg.Metals, cfg.YahooBaseURL, cfg.EnablePreciousMetal, logger),
		coingecko.New(cfg.Coins, cfg.VsCurrency, cfg.CoingeckoBaseURL, cfg.EnableCrypto),
		yahoofinance.NewFuturesAdapter(cfg.FuturesSymbols, cfg.YahooBaseURL, cfg.EnableFutures, logger),
		githubtrend.New(cfg.GithubToken, cfg.GithubBaseURL, 10, cfg.EnableCodeTrend),
		nitter.New(nitter.Options{
			Enabled:    cfg.EnableSocialPost,
			Endpoints:  nitter.NewEndpoints(cfg.NitterEndpoints),
			Accounts:   cfg.SocialAccounts,
			PerAccount: cfg.MaxPostsPerAccount,
			MaxAge:     cfg.MaxAge(),
			Timeout:    cfg.SocialTimeout(),
			Log:        logger,
		}),
		wechat.New(cfg.ArticleAccounts, cfg.WechatBaseURL, cfg.MaxArticlesPerAccount, cfg.MaxAge(), cfg.EnableSocialArticle, logger),
	}

	timeouts := make(map[fetcher.Source]time.Duration, len(adapters))
	for _, a := range adapters {
		timeouts[a.Source()] = cfg.SourceTimeout(string(a.Source()))
	}

	logger.Info("starting daily market radar", "sources", len(adapters))

	snap := orchestrator.New(adapters, timeouts, logger).Run(ctx)

	text := report.Render(snap)
	fmt.Print(text)

	st := store.New(cfg.OutputDir)
	if path, err := st.SaveReport(snap, text); err != nil {
		logger.Error("failed to save report", "error", err)
	} else {
		logger.Info("report saved", "path", path)
	}
	if path, err := st.SaveSnapshot(snap); err != nil {
		logger.Error("failed to save snapshot", "error", err)
	} else {
		logger.Info("snapshot saved", "path", path)
	}

	logger.Info("daily market radar finished", "errors", len(snap.Errors))
}
