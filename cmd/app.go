package cmd

import (
	"context"
	"log"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/career-pilot/internal/ai"
	"github.com/spigell/career-pilot/internal/ai/gemini"
	"github.com/spigell/career-pilot/internal/ats"
	"github.com/spigell/career-pilot/internal/document"
	"github.com/spigell/career-pilot/internal/extraction"
	"github.com/spigell/career-pilot/internal/jsearch"
	"github.com/spigell/career-pilot/internal/logger"
	"github.com/spigell/career-pilot/internal/pipeline"
	"github.com/spigell/career-pilot/internal/recommend"
	"github.com/spigell/career-pilot/internal/roadmap"
	"github.com/spigell/career-pilot/internal/secrets"
	"github.com/spigell/career-pilot/internal/store"
)

// application holds the collaborators built once per command invocation.
type application struct {
	config       *Config
	logger       *zap.Logger
	generator    ai.Generator
	jobs         pipeline.JobSource
	documents    *document.Reader
	scorer       *ats.Engine
	planner      *roadmap.Planner
	orchestrator *pipeline.Orchestrator
	store        *store.Store
}

// newApplication builds the logger, reads the configuration and wires the engines.
// Missing AI or job search credentials degrade the run instead of stopping it.
func newApplication(ctx context.Context) *application {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the "+app, zap.String("version", version))

	a := &application{config: config, logger: logger}

	if !viper.GetBool("no-ai") {
		a.generator = newGenerator(ctx, config.AI, logger)
	}
	if a.generator == nil {
		logger.Info("generative service disabled; using rule engines only")
	}

	a.jobs = newJobSource(config.Jobs, logger)
	a.documents = document.New(logger.Named("document"))
	a.scorer = ats.New(a.generator, logger)
	a.planner = roadmap.New(a.generator, logger)
	a.orchestrator = pipeline.New(pipeline.Deps{
		Extractor:   extraction.New(a.generator, logger),
		Recommender: recommend.New(a.generator, logger),
		Jobs:        a.jobs,
		Scorer:      a.scorer,
		Documents:   a.documents,
		Logger:      logger.Named("pipeline"),
		TopN:        config.TopN,
	})

	if path := strings.TrimSpace(viper.GetString("database")); path != "" {
		st, err := store.Open(ctx, path)
		if err != nil {
			logger.Fatal("opening the database", zap.Error(err), zap.String("path", path))
		}
		a.store = st
	}

	return a
}

func (a *application) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("closing the database", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

func newGenerator(ctx context.Context, cfg *AIConfig, lg *zap.Logger) ai.Generator {
	if cfg == nil || !cfg.Enabled || cfg.Gemini == nil {
		return nil
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		lg.Warn("skipping the generative service", zap.Error(err),
			zap.String("hint", "set ai.gemini.api-key-file, GEMINI_API_KEY_FILE or GEMINI_API_KEY"))
		return nil
	}

	genLogger := logger.ForGenerator(lg.Named("gemini"), "gemini", cfg.Gemini.Model, cfg.Gemini.MaxRetries)

	generator, err := gemini.NewGenerator(ctx, apiKey, gemini.Options{
		Model:             cfg.Gemini.Model,
		MaxRetries:        cfg.Gemini.MaxRetries,
		Timeout:           cfg.Gemini.Timeout,
		Temperature:       cfg.Gemini.Temperature,
		RequestsPerMinute: cfg.Gemini.RequestsPerMinute,
		MaxLogLength:      cfg.Gemini.MaxLogLength,
		JSONResponses:     true,
	}, genLogger)
	if err != nil {
		lg.Warn("skipping the generative service", zap.Error(err))
		return nil
	}

	lg.Debug("generative service enabled", zap.String("model", generator.Model()))
	return generator
}

func newJobSource(cfg *JobsConfig, lg *zap.Logger) pipeline.JobSource {
	if cfg == nil || !cfg.Enabled {
		return nil
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "rapidapi key",
		File: cfg.APIKeyFile,
		Env:  "RAPIDAPI_KEY",
	})
	if err != nil {
		lg.Warn("job search is not available", zap.Error(err),
			zap.String("hint", "set jobs.api-key-file, RAPIDAPI_KEY_FILE or RAPIDAPI_KEY"))
		return nil
	}

	client := jsearch.New(apiKey, cfg.Host, cfg.BaseURL, lg.Named("jsearch"))
	if cfg.UserAgent != "" {
		client.UserAgent = cfg.UserAgent
	}
	if cfg.NumPages > 0 {
		client.NumPages = cfg.NumPages
	}
	return client
}
