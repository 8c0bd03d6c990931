package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds every setting the radar needs, built once at process
// start and passed by reference into the orchestrator and adapters.
type Config struct {
	// Per-source enabled flags.
	EnableEquityIndex   bool `mapstructure:"enable_equity_index"`
	EnablePreciousMetal bool `mapstructure:"enable_precious_metal"`
	EnableCrypto        bool `mapstructure:"enable_crypto"`
	EnableFutures       bool `mapstructure:"enable_futures"`
	EnableCodeTrend     bool `mapstructure:"enable_code_trend"`
	EnableSocialPost    bool `mapstructure:"enable_social_post"`
	EnableSocialArticle bool `mapstructure:"enable_social_article"`

	// Base URLs for the upstream APIs (overridable for testing).
	EastmoneyBaseURL string `mapstructure:"eastmoney_base_url"`
	YahooBaseURL     string `mapstructure:"yahoo_base_url"`
	CoingeckoBaseURL string `mapstructure:"coingecko_base_url"`
	GithubBaseURL    string `mapstructure:"github_base_url"`
	WechatBaseURL    string `mapstructure:"wechat_base_url"`

	// Optional token to raise the GitHub search quota.
	GithubToken string `mapstructure:"github_token"`

	// Instruments per source.
	IndexSecIDs    []string `mapstructure:"index_secids"`
	Metals         []string `mapstructure:"metals"`
	Coins          []string `mapstructure:"coins"`
	VsCurrency     string   `mapstructure:"vs_currency"`
	FuturesSymbols []string `mapstructure:"futures_symbols"`

	// Social sources.
	NitterEndpoints       []string `mapstructure:"nitter_endpoints"`
	SocialAccounts        []string `mapstructure:"social_accounts"`
	ArticleAccounts       []string `mapstructure:"article_accounts"`
	MaxPostsPerAccount    int      `mapstructure:"max_posts_per_account"`
	MaxArticlesPerAccount int      `mapstructure:"max_articles_per_account"`
	MaxAgeHours           int      `mapstructure:"max_age_hours"`

	// Deadlines, in seconds.
	FetchTimeoutSeconds  int            `mapstructure:"fetch_timeout_seconds"`
	SocialTimeoutSeconds int            `mapstructure:"social_timeout_seconds"`
	SourceTimeouts       map[string]int `mapstructure:"source_timeouts"`

	OutputDir string `mapstructure:"output_dir"`
	LogLevel  string `mapstructure:"log_level"`
}

// Load reads configuration from environment variables and an optional
// config.yaml. Environment variables take precedence.
func Load() (*Config, error) {
	v := viper.New()

	v.AutomaticEnv()

	// Sources default on; the article source needs a local exporter
	// service, so it defaults off.
	v.SetDefault("enable_equity_index", true)
	v.SetDefault("enable_precious_metal", true)
	v.SetDefault("enable_crypto", true)
	v.SetDefault("enable_futures", true)
	v.SetDefault("enable_code_trend", true)
	v.SetDefault("enable_social_post", true)
	v.SetDefault("enable_social_article", false)

	v.SetDefault("eastmoney_base_url", "https://push2.eastmoney.com")
	v.SetDefault("yahoo_base_url", "https://query1.finance.yahoo.com")
	v.SetDefault("coingecko_base_url", "https://api.coingecko.com/api/v3")
	v.SetDefault("github_base_url", "https://api.github.com")
	v.SetDefault("wechat_base_url", "http://localhost:3001")

	// Shanghai composite, Shenzhen component, ChiNext.
	v.SetDefault("index_secids", []string{"1.000001", "0.399001", "0.399006"})
	v.SetDefault("metals", []string{"GC=F", "SI=F"})
	v.SetDefault("coins", []string{"bitcoin", "ethereum", "solana", "binancecoin", "ripple"})
	v.SetDefault("vs_currency", "usd")
	v.SetDefault("futures_symbols", []string{"CL=F", "ES=F", "NQ=F", "HG=F"})

	v.SetDefault("nitter_endpoints", []string{
		"https://nitter.privacydev.net",
		"https://nitter.poast.org",
		"https://nitter.net",
	})
	v.SetDefault("social_accounts", []string{"VitalikButerin", "elonmusk", "OpenAI"})
	v.SetDefault("max_posts_per_account", 10)
	v.SetDefault("max_articles_per_account", 20)
	v.SetDefault("max_age_hours", 72)

	v.SetDefault("fetch_timeout_seconds", 30)
	v.SetDefault("social_timeout_seconds", 15)

	v.SetDefault("output_dir", "output")
	v.SetDefault("log_level", "info")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.shefradar")

	// Config file is optional.
	_ = v.ReadInConfig()

	v.BindEnv("github_token", "GITHUB_TOKEN")
	v.BindEnv("wechat_base_url", "WECHAT_SERVICE_URL")
	v.BindEnv("output_dir", "OUTPUT_DIR")
	v.BindEnv("log_level", "LOG_LEVEL")
	v.BindEnv("nitter_instance", "NITTER_INSTANCE")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// A self-hosted feed instance goes to the head of the candidate
	// list; as a local endpoint it then excludes the public mirrors.
	if inst := v.GetString("nitter_instance"); inst != "" {
		cfg.NitterEndpoints = append([]string{inst}, cfg.NitterEndpoints...)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir must not be empty")
	}
	if c.EnableSocialPost && len(c.NitterEndpoints) == 0 {
		return fmt.Errorf("social posts enabled but no nitter_endpoints configured")
	}
	if !c.anySourceEnabled() {
		return fmt.Errorf("every source is disabled, nothing to fetch")
	}
	return nil
}

func (c *Config) anySourceEnabled() bool {
	return c.EnableEquityIndex || c.EnablePreciousMetal || c.EnableCrypto ||
		c.EnableFutures || c.EnableCodeTrend || c.EnableSocialPost || c.EnableSocialArticle
}

// SourceTimeout resolves the per-source deadline: an explicit
// source_timeouts entry wins, otherwise fetch_timeout_seconds.
func (c *Config) SourceTimeout(source string) time.Duration {
	if secs, ok := c.SourceTimeouts[source]; ok && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// SocialTimeout is the per-request deadline for each failover attempt.
func (c *Config) SocialTimeout() time.Duration {
	return time.Duration(c.SocialTimeoutSeconds) * time.Second
}

// MaxAge is the staleness window for social records; zero disables it.
func (c *Config) MaxAge() time.Duration {
	return time.Duration(c.MaxAgeHours) * time.Hour
}
