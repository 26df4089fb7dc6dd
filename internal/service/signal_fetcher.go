package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"vibe-brain/internal/domain"
)

// EventSource es el colaborador de code hosting (GitHub).
type EventSource interface {
	Configured() bool
	RecentRepoNames(ctx context.Context, user string, limit int) ([]string, error)
}

// VideoSource es el colaborador de la plataforma de video (YouTube).
type VideoSource interface {
	Configured() bool
	Fetch(ctx context.Context) (likes []string, playlists []string, err error)
}

// SignalFetcherConfig fija los límites de muestreo y los títulos de respaldo.
type SignalFetcherConfig struct {
	EventLimit      int
	RepoLimit       int
	BackupLikes     []string
	BackupPlaylists []string
}

// Signals son los fragmentos primitivos de un Profile.
type Signals struct {
	ActivityDigest string
	LikedTitles    []string
	PlaylistTitles []string
	Warnings       []domain.Warning
}

// SignalFetcher normaliza las señales externas. Nunca devuelve error: cada
// falla se absorbe en un centinela y queda registrada como Warning.
type SignalFetcher struct {
	events EventSource
	videos VideoSource
	cfg    SignalFetcherConfig
	logger *zap.Logger
}

func NewSignalFetcher(events EventSource, videos VideoSource, cfg SignalFetcherConfig, logger *zap.Logger) *SignalFetcher {
	if cfg.EventLimit <= 0 {
		cfg.EventLimit = 16
	}
	if cfg.RepoLimit <= 0 {
		cfg.RepoLimit = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SignalFetcher{
		events: events,
		videos: videos,
		cfg:    cfg,
		logger: logger,
	}
}

// Fetch consulta ambos colaboradores en paralelo y espera a los dos.
func (f *SignalFetcher) Fetch(ctx context.Context, identity string) Signals {
	var (
		digest           string
		digestErr        error
		likes, playlists []string
		videoErr         error
		wg               sync.WaitGroup
	)
	// Cada fuente absorbe su propio error; ninguna cancela a la otra.
	wg.Add(2)
	go func() {
		defer wg.Done()
		digest, digestErr = f.fetchActivity(ctx, identity)
	}()
	go func() {
		defer wg.Done()
		likes, playlists, videoErr = f.fetchVideos(ctx)
	}()
	wg.Wait()

	out := Signals{Warnings: []domain.Warning{}}

	switch {
	case digestErr == nil:
		out.ActivityDigest = digest
	case errors.Is(digestErr, ErrCredentialMissing):
		out.ActivityDigest = domain.DigestTokenMissing
	default:
		out.ActivityDigest = domain.DigestConnectError
	}
	if digestErr != nil {
		f.logger.Warn("github fetch failed", zap.Error(digestErr), zap.String("identity", identity))
		out.Warnings = append(out.Warnings, warningFor(SourceGitHub, digestErr))
	}

	switch {
	case videoErr == nil:
		out.LikedTitles, out.PlaylistTitles = likes, playlists
	case errors.Is(videoErr, ErrCredentialMissing):
		out.LikedTitles = cloneStrings(f.cfg.BackupLikes)
		out.PlaylistTitles = cloneStrings(f.cfg.BackupPlaylists)
	default:
		out.LikedTitles, out.PlaylistTitles = []string{}, []string{}
	}
	if videoErr != nil {
		f.logger.Warn("youtube fetch failed", zap.Error(videoErr), zap.String("identity", identity))
		out.Warnings = append(out.Warnings, warningFor(SourceYouTube, videoErr))
	}

	if out.LikedTitles == nil {
		out.LikedTitles = []string{}
	}
	if out.PlaylistTitles == nil {
		out.PlaylistTitles = []string{}
	}
	return out
}

func (f *SignalFetcher) fetchActivity(ctx context.Context, identity string) (string, error) {
	if f.events == nil || !f.events.Configured() {
		return "", newFetchError(SourceGitHub, ErrCredentialMissing, nil)
	}
	names, err := f.events.RecentRepoNames(ctx, identity, f.cfg.EventLimit)
	if err != nil {
		return "", newFetchError(SourceGitHub, ErrUpstream, err)
	}
	if len(names) > f.cfg.EventLimit {
		names = names[:f.cfg.EventLimit]
	}
	return buildActivityDigest(names, f.cfg.RepoLimit), nil
}

func (f *SignalFetcher) fetchVideos(ctx context.Context) ([]string, []string, error) {
	if f.videos == nil || !f.videos.Configured() {
		return nil, nil, newFetchError(SourceYouTube, ErrCredentialMissing, nil)
	}
	likes, playlists, err := f.videos.Fetch(ctx)
	if err != nil {
		return nil, nil, newFetchError(SourceYouTube, ErrUpstream, err)
	}
	return likes, playlists, nil
}

// buildActivityDigest reporta a lo sumo limit nombres de repo distintos, en el
// orden en que aparecen por primera vez. Sin eventos devuelve "Inactive".
func buildActivityDigest(names []string, limit int) string {
	seen := make(map[string]struct{}, limit)
	distinct := make([]string, 0, limit)
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		distinct = append(distinct, n)
		if len(distinct) == limit {
			break
		}
	}
	if len(distinct) == 0 {
		return domain.DigestInactive
	}
	return "Recent Repos: " + strings.Join(distinct, ", ")
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
