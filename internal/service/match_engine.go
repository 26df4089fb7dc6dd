package service

import (
	"context"

	"go.uber.org/zap"

	"vibe-brain/internal/domain"
	"vibe-brain/internal/metrics"
)

// MatchEngine compara un perfil contra el perfil de referencia fijo.
type MatchEngine struct {
	souls     *SoulGenerator
	reference domain.Profile
	parser    MatchReplyParser
	logger    *zap.Logger
	metrics   *metrics.Manager
}

func NewMatchEngine(souls *SoulGenerator, reference domain.Profile, logger *zap.Logger, m *metrics.Manager) *MatchEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MatchEngine{
		souls:     souls,
		reference: reference,
		parser:    DefaultMatchReplyParser,
		logger:    logger,
		metrics:   m,
	}
}

// Reference devuelve una copia del perfil de referencia.
func (e *MatchEngine) Reference() domain.Profile {
	ref := e.reference
	ref.LikedTitles = cloneStrings(ref.LikedTitles)
	ref.PlaylistTitles = cloneStrings(ref.PlaylistTitles)
	return ref
}

// Match nunca falla: una falla del modelo da el centinela de CompareFallback y
// una respuesta ilegible da los valores por defecto del parser.
func (e *MatchEngine) Match(ctx context.Context, p domain.Profile) domain.MatchResult {
	raw, err := e.souls.Compare(ctx, p, e.reference)
	var res domain.MatchResult
	if err != nil {
		res = CompareFallback(err)
	} else {
		res = e.parser.Parse(raw)
	}

	for _, w := range res.Warnings {
		e.metrics.RecordFallback(w.Source, w.Kind)
	}
	if len(res.Warnings) > 0 {
		e.logger.Info("match used fallback values",
			zap.String("identity", p.Identity),
			zap.String("reference", e.reference.Identity),
			zap.Int("warnings", len(res.Warnings)),
		)
	}
	return res
}
