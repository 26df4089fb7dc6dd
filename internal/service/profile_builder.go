package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"vibe-brain/internal/domain"
	"vibe-brain/internal/metrics"
)

// ProfileBuilder compone señales + soul en un Profile. Nunca devuelve error.
type ProfileBuilder struct {
	signals *SignalFetcher
	souls   *SoulGenerator
	logger  *zap.Logger
	metrics *metrics.Manager
}

func NewProfileBuilder(signals *SignalFetcher, souls *SoulGenerator, logger *zap.Logger, m *metrics.Manager) *ProfileBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileBuilder{
		signals: signals,
		souls:   souls,
		logger:  logger,
		metrics: m,
	}
}

// Build trae las señales completas antes de generar el soul.
func (b *ProfileBuilder) Build(ctx context.Context, identity string) domain.Profile {
	identity = strings.TrimSpace(identity)
	sig := b.signals.Fetch(ctx, identity)
	soul, soulWarnings := b.souls.Summarize(ctx, sig.ActivityDigest, sig.LikedTitles, sig.PlaylistTitles)

	p := domain.Profile{
		Identity:       identity,
		ActivityDigest: sig.ActivityDigest,
		LikedTitles:    sig.LikedTitles,
		PlaylistTitles: sig.PlaylistTitles,
		Soul:           soul,
		Warnings:       append(sig.Warnings, soulWarnings...),
	}
	for _, w := range p.Warnings {
		b.metrics.RecordFallback(w.Source, w.Kind)
	}

	b.logger.Info("profile built",
		zap.String("identity", identity),
		zap.String("coding_focus", p.ActivityDigest),
		zap.Int("likes", len(p.LikedTitles)),
		zap.Int("playlists", len(p.PlaylistTitles)),
		zap.Int("warnings", len(p.Warnings)),
	)
	return p
}
