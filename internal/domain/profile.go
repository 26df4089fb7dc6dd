package domain

import "time"

// Valores centinela que reemplazan un campo cuando su cálculo real falló.
const (
	DigestInactive       = "Inactive"
	DigestConnectError   = "GitHub Connect Error"
	DigestTokenMissing   = "GitHub Token Missing"
	SoulModelUnavailable = "AI Sleeping."
	SoulCallFailed       = "Vibe Unclear."
)

// Profile es la foto agregada de una identidad: señales externas + soul generado.
type Profile struct {
	Identity       string    `json:"identity" koanf:"identity"`
	ActivityDigest string    `json:"coding_focus" koanf:"activity_digest"`
	LikedTitles    []string  `json:"youtube_obsessions" koanf:"liked_titles"`
	PlaylistTitles []string  `json:"youtube_playlists" koanf:"playlist_titles"`
	Soul           string    `json:"ai_soul" koanf:"soul"`
	Warnings       []Warning `json:"warnings,omitempty" koanf:"-"`
}

// RosterEntry es lo que el radar recuerda de un perfil calculado recientemente.
type RosterEntry struct {
	Identity string    `json:"username" koanf:"identity"`
	Soul     string    `json:"ai_soul" koanf:"soul"`
	LastSeen time.Time `json:"last_seen" koanf:"-"`
}

// MatchResult es la salida estructurada de comparar dos perfiles con el LLM.
// RawScore conserva el token tal como lo devolvió el modelo; Score siempre queda en [0,100].
type MatchResult struct {
	Score    int       `json:"compatibility_score"`
	RawScore string    `json:"raw_score,omitempty"`
	Reason   string    `json:"ai_verdict"`
	Warnings []Warning `json:"warnings,omitempty"`
}

// Warning describe un fallback aplicado en lugar de datos reales.
type Warning struct {
	Source string `json:"source"`
	Kind   string `json:"kind"`
	Detail string `json:"detail,omitempty"`
}
