package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/creator-pitch/internal/agent"
	"github.com/jonathan/creator-pitch/internal/callback"
	"github.com/jonathan/creator-pitch/internal/config"
	"github.com/jonathan/creator-pitch/internal/enrichment"
	"github.com/jonathan/creator-pitch/internal/llm"
	"github.com/jonathan/creator-pitch/internal/logging"
	"github.com/jonathan/creator-pitch/internal/metrics"
	"github.com/jonathan/creator-pitch/internal/server"
	"github.com/jonathan/creator-pitch/internal/store"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the enrichment, callback and pitch strategy endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	defer logger.Sync() //nolint:errcheck

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	jobs, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	m := metrics.New()

	deps := server.Deps{
		Store:   jobs,
		Logger:  logger,
		Metrics: m,
	}

	var discoverer enrichment.BrandDiscoverer
	if cfg.GeminiAPIKey != "" {
		client, err := llm.NewClient(ctx, modelConfig(cfg), cfg.GeminiAPIKey)
		if err != nil {
			return fmt.Errorf("failed to create LLM client: %w", err)
		}
		defer client.Close() //nolint:errcheck

		discoverer = agent.NewDiscoverer(client, logger)
		deps.Strategist = agent.NewStrategist(client, logger)
		deps.Summarizer = agent.NewSummarizer(client, logger)
	} else {
		logger.Warn("GEMINI_API_KEY not set: brand discovery, strategies and summaries are disabled")
	}

	deps.Enricher = enrichment.NewTrigger(enrichment.Options{
		Store:      jobs,
		Provider:   newProvider(cfg, logger),
		Discoverer: discoverer,
		Logger:     logger,
		Metrics:    m,
	})
	deps.Receiver = callback.NewReceiver(callback.Options{
		Store:   jobs,
		History: callback.NewHistory(cfg.HistorySize),
		Secret:  cfg.CallbackSecret,
		Logger:  logger,
		Metrics: m,
	})

	srv, err := server.New(server.Config{
		Port:           cfg.Port,
		CallbackSecret: cfg.CallbackSecret,
	}, deps)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

// newProvider returns the webhook provider, or nil when CLAY_WEBHOOK_URL is
// unset.
func newProvider(cfg *config.Config, logger *zap.Logger) *enrichment.Provider {
	if !cfg.ProviderEnabled() {
		logger.Info("CLAY_WEBHOOK_URL not set: enrichment uses brand discovery only")
		return nil
	}
	provider := enrichment.NewProvider(enrichment.ProviderConfig{
		WebhookURL:  cfg.ClayWebhookURL,
		APIKey:      cfg.ClayAPIKey,
		CallbackURL: cfg.CallbackURL(),
		Timeout:     cfg.ProviderTimeout,
	}, nil)
	logger.Info("enrichment provider enabled", zap.String("callback_url", provider.CallbackURL()))
	return provider
}

// openStore picks Redis when REDIS_URL is set and the in-memory store
// otherwise.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (store.Store, func(), error) {
	if cfg.RedisURL == "" {
		logger.Info("using in-memory correlation store", zap.Duration("retention", cfg.RetentionWindow))
		return store.NewMemory(cfg.RetentionWindow), func() {}, nil
	}

	r, err := store.NewRedis(ctx, cfg.RedisURL, cfg.RetentionWindow)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	logger.Info("using redis correlation store", zap.Duration("retention", cfg.RetentionWindow))
	return r, func() {
		if err := r.Close(); err != nil {
			logger.Warn("error closing redis", zap.Error(err))
		}
	}, nil
}

// modelConfig applies GEMINI_MODEL to every tier of the default model set.
func modelConfig(cfg *config.Config) *llm.Config {
	models := llm.DefaultConfig()
	if cfg.GeminiModel == "" {
		return models
	}
	for _, tier := range []llm.ModelTier{llm.TierLite, llm.TierStandard, llm.TierAdvanced} {
		models = models.WithModel(tier, cfg.GeminiModel)
	}
	return models
}
