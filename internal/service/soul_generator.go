package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"vibe-brain/internal/domain"
	"vibe-brain/internal/llm"
	"vibe-brain/internal/metrics"
)

const generateContentMethod = "generateContent"

// SoulGeneratorConfig describe cómo elegir el modelo.
type SoulGeneratorConfig struct {
	// Available es false cuando no hay API key: el modelo se considera no disponible.
	Available    bool
	DefaultModel string
	Family       string
}

// SoulGenerator arma prompts, elige el modelo una vez por proceso y llama al LLM.
type SoulGenerator struct {
	llmClient llm.LLMClient
	catalog   llm.Catalog
	cfg       SoulGeneratorConfig
	logger    *zap.Logger
	metrics   *metrics.Manager

	mu    sync.Mutex
	model string
}

func NewSoulGenerator(
	llmClient llm.LLMClient,
	catalog llm.Catalog,
	cfg SoulGeneratorConfig,
	logger *zap.Logger,
	m *metrics.Manager,
) *SoulGenerator {
	if strings.TrimSpace(cfg.DefaultModel) == "" {
		cfg.DefaultModel = "gemini-pro"
	}
	if strings.TrimSpace(cfg.Family) == "" {
		cfg.Family = "gemini"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SoulGenerator{
		llmClient: llmClient,
		catalog:   catalog,
		cfg:       cfg,
		logger:    logger,
		metrics:   m,
	}
}

// Summarize devuelve una oración sobre el estado mental, o un centinela.
func (s *SoulGenerator) Summarize(ctx context.Context, activityDigest string, likes, playlists []string) (string, []domain.Warning) {
	model, err := s.selectModel(ctx)
	if err != nil {
		return domain.SoulModelUnavailable, []domain.Warning{warningFor(SourceLLM, err)}
	}

	reply, err := s.generate(ctx, "summarize", model, buildSummaryPrompt(activityDigest, likes, playlists))
	if err != nil {
		s.logger.Warn("soul generation failed", zap.Error(err), zap.String("model", model))
		return domain.SoulCallFailed, []domain.Warning{warningFor(SourceLLM, err)}
	}
	return reply, nil
}

// Compare pide al modelo el veredicto de compatibilidad y devuelve el texto crudo.
// El error es un *FetchError; CompareFallback lo traduce al MatchResult centinela.
func (s *SoulGenerator) Compare(ctx context.Context, a, b domain.Profile) (string, error) {
	model, err := s.selectModel(ctx)
	if err != nil {
		return "", err
	}
	reply, err := s.generate(ctx, "compare", model, buildComparePrompt(a, b))
	if err != nil {
		s.logger.Warn("compare call failed", zap.Error(err), zap.String("model", model))
		return "", err
	}
	return reply, nil
}

// CompareFallback es el resultado centinela para una falla de Compare.
func CompareFallback(err error) domain.MatchResult {
	res := domain.MatchResult{
		Score:    50,
		Reason:   "AI confused by love.",
		Warnings: []domain.Warning{warningFor(SourceLLM, err)},
	}
	if errors.Is(err, ErrModelUnavailable) {
		res.Score = 0
		res.Reason = "AI Offline"
	}
	return res
}

// Model devuelve el modelo elegido, eligiéndolo si hace falta.
func (s *SoulGenerator) Model(ctx context.Context) (string, error) {
	return s.selectModel(ctx)
}

func (s *SoulGenerator) generate(ctx context.Context, op, model, prompt string) (string, error) {
	start := time.Now()
	reply, err := s.llmClient.Generate(ctx, model, prompt)
	reply = strings.TrimSpace(reply)

	outcome := "ok"
	switch {
	case err != nil:
		outcome = "error"
		err = newFetchError(SourceLLM, ErrUpstream, err)
	case reply == "":
		outcome = "empty"
		err = newFetchError(SourceLLM, ErrReplyUnparsed, nil)
	}
	s.metrics.ObserveModelCall(op, outcome, time.Since(start))
	return reply, err
}

// selectModel prefiere un modelo del catálogo cuyo nombre contenga la familia y
// que soporte generateContent; si no hay, usa el default. La elección se cachea;
// un error al listar usa el default sin cachear para reintentar la próxima vez.
func (s *SoulGenerator) selectModel(ctx context.Context) (string, error) {
	if !s.cfg.Available || s.llmClient == nil {
		return "", newFetchError(SourceLLM, ErrModelUnavailable, nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.model != "" {
		return s.model, nil
	}

	if s.catalog == nil {
		s.model = s.cfg.DefaultModel
		return s.model, nil
	}

	models, err := s.catalog.ListModels(ctx)
	if err != nil {
		s.logger.Warn("list models failed, using default", zap.Error(err), zap.String("default", s.cfg.DefaultModel))
		return s.cfg.DefaultModel, nil
	}

	family := strings.ToLower(s.cfg.Family)
	chosen := s.cfg.DefaultModel
	for _, m := range models {
		if strings.Contains(strings.ToLower(m.Name), family) && m.Supports(generateContentMethod) {
			chosen = m.Name
			break
		}
	}
	s.model = chosen
	s.logger.Info("model selected", zap.String("model", chosen))
	return s.model, nil
}
