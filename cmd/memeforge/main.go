package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	app "github.com/griefbot/memeforge"
	"github.com/griefbot/memeforge/internal/archive"
	"github.com/griefbot/memeforge/internal/cache"
	"github.com/griefbot/memeforge/internal/client"
	"github.com/griefbot/memeforge/internal/config"
	"github.com/griefbot/memeforge/internal/memes"
	"github.com/griefbot/memeforge/internal/pipeline"
	"github.com/griefbot/memeforge/internal/server"
	"github.com/griefbot/memeforge/pkg/events"
	"github.com/griefbot/memeforge/pkg/log"
)

type memeforge struct {
	cfg        *config.Config
	hub        *events.Hub
	redis      *redis.Client
	archive    *archive.BlobArchive
	pipeline   *pipeline.Pipeline
	apiServer  *server.Server
	httpServer *http.Server
	quit       chan os.Signal
}

var (
	ErrOpenArchive   = errors.New("failed to open run archive")
	ErrBuildPipeline = errors.New("failed to build pipeline")
)

func main() {
	cfg := config.NewDefaultConfig()
	if err := cfg.LoadFromEnv(); err != nil {
		slog.Error("Invalid configuration", log.Error(err))
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", log.Error(err))
		os.Exit(1)
	}

	s := &memeforge{
		cfg:  cfg,
		quit: make(chan os.Signal, 1),
	}
	s.setupLogging()

	if err := s.run(); err != nil {
		slog.Error("Failed to start application", log.Error(err))
		os.Exit(1)
	}
}

func (s *memeforge) run() error {
	if err := s.initializePipeline(); err != nil {
		return err
	}
	s.startServer()

	signal.Notify(s.quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(s.quit)
	<-s.quit

	s.shutdown()
	return nil
}

func (s *memeforge) setupLogging() {
	level := log.ParseLevel(s.cfg.LogLevel)
	env := os.Getenv("ENV")
	logger := log.NewWithLevel(app.Name, env, app.Version, level)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level)

	slog.Info("MemeForge starting",
		slog.String("log_level", s.cfg.LogLevel))

	slog.Info("Configuration loaded",
		slog.String("generation_endpoint", s.cfg.Generation.Endpoint),
		slog.String("generation_model", s.cfg.Generation.Model),
		slog.String("templates_url", s.cfg.Imgflip.TemplatesURL),
		slog.String("redis_addr", s.cfg.RedisAddr),
		slog.String("api_host", s.cfg.APIHost),
		slog.Int("api_port", s.cfg.APIPort))
}

func (s *memeforge) initializePipeline() error {
	s.hub = events.NewHub()

	var templateCache *cache.Templates
	if s.cfg.RedisAddr != "" {
		s.redis = redis.NewClient(&redis.Options{
			Addr:     s.cfg.RedisAddr,
			Password: s.cfg.RedisPassword,
			DB:       s.cfg.RedisDB,
		})
		templateCache = cache.NewTemplates(s.redis, s.cfg.TemplateCacheTTL)
	}

	if s.cfg.ArchiveBucketURL != "" {
		arch, err := archive.New(
			context.Background(),
			s.cfg.ArchiveBucketURL, s.cfg.ArchivePrefix,
		)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrOpenArchive, err)
		}
		s.archive = arch
	}

	genOpts := []client.Option{client.WithRetry(s.cfg.Retry)}
	if s.cfg.Generation.APIKey != "" {
		genOpts = append(genOpts, client.WithHeader(
			"Authorization", "Bearer "+s.cfg.Generation.APIKey,
		))
	}
	genClient := client.NewHTTPClient(s.cfg.CallTimeout, genOpts...)
	memeClient := client.NewHTTPClient(
		s.cfg.CallTimeout, client.WithRetry(s.cfg.Retry),
	)

	p, err := memes.BuildPipeline(memes.Services{
		Generator: memes.NewGenerator(
			genClient, s.cfg.Generation.Endpoint, s.cfg.Generation.Model,
		),
		Templates: memes.NewTemplateService(
			memeClient, s.cfg.Imgflip.TemplatesURL, templateCache,
		),
		Render: memes.NewRenderService(
			memeClient, s.cfg.Imgflip.CaptionURL,
			s.cfg.Imgflip.Username, s.cfg.Imgflip.Password,
		),
	}, pipeline.WithHub(s.hub))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildPipeline, err)
	}
	s.pipeline = p
	return nil
}

func (s *memeforge) startServer() {
	s.apiServer = server.NewServer(s.pipeline, s.hub, s.archive)
	mux := s.apiServer.SetupRoutes()

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.cfg.APIHost, s.cfg.APIPort),
		Handler: mux,
	}

	go func() {
		slog.Info("HTTP server starting",
			slog.String("addr", s.httpServer.Addr))
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", log.Error(err))
		}
	}()
}

func (s *memeforge) shutdown() {
	slog.Info("Shutting down")

	ctx, cancel := context.WithTimeout(
		context.Background(), s.cfg.ShutdownTimeout,
	)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		slog.Error("Shutdown failed", log.Error(err))
	}

	s.hub.Close()

	if s.archive != nil {
		_ = s.archive.Close()
	}
	if s.redis != nil {
		_ = s.redis.Close()
	}

	slog.Info("Server exited")
}
