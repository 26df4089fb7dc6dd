package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vibe-brain/internal/domain"
	"vibe-brain/internal/metrics"
	"vibe-brain/internal/roster"
	"vibe-brain/internal/service"
)

const liveMessage = "TryMe Brain 4.0 is Live"

// VibeHandler mantiene dependencias para los endpoints de perfiles y match.
// Todas las rutas responden 200: las fallas viajan como valores centinela y
// en el campo warnings.
type VibeHandler struct {
	logger   *zap.Logger
	profiles *service.ProfileBuilder
	matches  *service.MatchEngine
	roster   *roster.Roster
	metrics  *metrics.Manager
}

// NewVibeHandler crea una instancia de VibeHandler con dependencias necesarias.
func NewVibeHandler(
	logger *zap.Logger,
	profiles *service.ProfileBuilder,
	matches *service.MatchEngine,
	r *roster.Roster,
	m *metrics.Manager,
) *VibeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VibeHandler{
		logger:   logger,
		profiles: profiles,
		matches:  matches,
		roster:   r,
		metrics:  m,
	}
}

type radarEntry struct {
	Username string     `json:"username"`
	Soul     string     `json:"ai_soul"`
	LastSeen *time.Time `json:"last_seen,omitempty"`
}

type matchResponse struct {
	User               string           `json:"user"`
	Match              string           `json:"match"`
	CompatibilityScore int              `json:"compatibility_score"`
	Verdict            string           `json:"ai_verdict"`
	RawScore           string           `json:"raw_score,omitempty"`
	Warnings           []domain.Warning `json:"warnings,omitempty"`
}

// Home maneja GET /.
func (h *VibeHandler) Home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": liveMessage})
}

// GetVibe maneja GET /vibe/:identity: arma el perfil y lo registra en el radar.
func (h *VibeHandler) GetVibe(c *gin.Context) {
	identity := c.Param("identity")
	profile := h.profiles.Build(c.Request.Context(), identity)

	entry := h.roster.Upsert(profile)
	h.metrics.SetRosterEntries(h.roster.Len())
	h.logger.Debug("roster upsert", zap.String("identity", entry.Identity), zap.Time("last_seen", entry.LastSeen))

	c.JSON(http.StatusOK, profile)
}

// GetRadar maneja GET /radar. Los placeholders no tienen last_seen.
func (h *VibeHandler) GetRadar(c *gin.Context) {
	snapshot := h.roster.Snapshot()
	out := make([]radarEntry, 0, len(snapshot))
	for _, e := range snapshot {
		item := radarEntry{Username: e.Identity, Soul: e.Soul}
		if !e.LastSeen.IsZero() {
			seen := e.LastSeen
			item.LastSeen = &seen
		}
		out = append(out, item)
	}
	c.JSON(http.StatusOK, out)
}

// GetMatch maneja GET /match/:identity contra el perfil de referencia.
func (h *VibeHandler) GetMatch(c *gin.Context) {
	identity := c.Param("identity")
	profile := h.profiles.Build(c.Request.Context(), identity)
	res := h.matches.Match(c.Request.Context(), profile)

	warnings := append(profile.Warnings, res.Warnings...)
	c.JSON(http.StatusOK, matchResponse{
		User:               profile.Identity,
		Match:              h.matches.Reference().Identity,
		CompatibilityScore: res.Score,
		Verdict:            res.Reason,
		RawScore:           res.RawScore,
		Warnings:           warnings,
	})
}
