// Package app arma el grafo de dependencias compartido por el API y el CLI.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"vibe-brain/internal/config"
	"vibe-brain/internal/github"
	"vibe-brain/internal/llm"
	"vibe-brain/internal/metrics"
	"vibe-brain/internal/roster"
	"vibe-brain/internal/service"
	"vibe-brain/internal/youtube"
)

// App agrupa los servicios listos para usar.
type App struct {
	Profiles *service.ProfileBuilder
	Matches  *service.MatchEngine
	Roster   *roster.Roster
	Metrics  *metrics.Manager

	redisClient *redis.Client
}

// New construye los clientes externos y los servicios a partir de cfg.
// Redis es opcional: si no responde al ping se sigue sin cache.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	fixtures, err := config.LoadFixtures(cfg.ReferenceProfileFile)
	if err != nil {
		return nil, fmt.Errorf("fixtures: %w", err)
	}

	m := metrics.NewManager()

	ghClient := github.NewClient(cfg.GitHubToken, nil)
	ytClient := youtube.NewClient(cfg.YouTubeClientSecretFile, cfg.YouTubeTokenFile, cfg.YouTubeMaxResults, logger)
	if !ghClient.Configured() {
		logger.Warn("github token not configured")
	}
	if !ytClient.Configured() {
		logger.Warn("youtube credentials not found, using backup titles",
			zap.String("client_secret", cfg.YouTubeClientSecretFile),
			zap.String("token", cfg.YouTubeTokenFile),
		)
	}

	httpLLM := llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, logger)
	if !httpLLM.Configured() {
		logger.Warn("llm api key not configured")
	}

	a := &App{Metrics: m}
	var llmClient llm.LLMClient = httpLLM
	if cfg.RedisAddr != "" {
		a.redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := a.redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, llm cache disabled", zap.Error(err))
			_ = a.redisClient.Close()
			a.redisClient = nil
		} else {
			llmClient = llm.NewCachedClient(httpLLM, a.redisClient, time.Duration(cfg.LLMCacheTTLSecs)*time.Second, logger)
		}
		cancel()
	}

	fetcher := service.NewSignalFetcher(ghClient, ytClient, service.SignalFetcherConfig{
		EventLimit:      cfg.GitHubEventLimit,
		RepoLimit:       cfg.GitHubRepoLimit,
		BackupLikes:     fixtures.BackupLikes,
		BackupPlaylists: fixtures.BackupPlaylists,
	}, logger)
	souls := service.NewSoulGenerator(llmClient, httpLLM, service.SoulGeneratorConfig{
		Available:    httpLLM.Configured(),
		DefaultModel: cfg.LLMDefaultModel,
		Family:       cfg.LLMModelFamily,
	}, logger, m)

	a.Profiles = service.NewProfileBuilder(fetcher, souls, logger, m)
	a.Matches = service.NewMatchEngine(souls, fixtures.Reference, logger, m)
	a.Roster = roster.New(
		roster.WithMaxEntries(cfg.RosterMaxEntries),
		roster.WithPlaceholders(fixtures.Placeholders),
	)
	return a, nil
}

// Close libera las conexiones abiertas.
func (a *App) Close() error {
	if a.redisClient != nil {
		return a.redisClient.Close()
	}
	return nil
}
