package service

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"vibe-brain/internal/domain"
)

// Valores por defecto cuando la respuesta no trae el campo.
const (
	DefaultMatchScore  = 50
	DefaultMatchReason = "Complex vibe."
)

var (
	reFenceStart = regexp.MustCompile("(?is)^\\s*```[a-z]*\\s*")
	reFenceEnd   = regexp.MustCompile("(?is)\\s*```\\s*$")

	// Sin distinguir mayúsculas y en cualquier posición de la línea, pero como
	// palabra completa: "Compatibility Score: 87" cuenta, "Scoreboard:" no.
	reScoreMarker  = regexp.MustCompile(`(?i)\bscore\s*[*_]*\s*:`)
	reReasonMarker = regexp.MustCompile(`(?i)\breason\s*[*_]*\s*:`)
	reScoreNumber  = regexp.MustCompile(`(-?\d+(?:\.\d+)?)(?:\s*/\s*(\d+(?:\.\d+)?))?`)
)

// MatchReplyParser convierte la respuesta libre del LLM en un MatchResult.
type MatchReplyParser struct{}

// DefaultMatchReplyParser permite uso directo sin instanciar.
var DefaultMatchReplyParser = MatchReplyParser{}

// Parse busca los marcadores en cada línea, sin depender del orden. Si hay
// varias apariciones del mismo marcador gana la primera. Nunca falla: los
// campos ausentes o inválidos toman el valor por defecto y dejan un Warning.
func (MatchReplyParser) Parse(raw string) domain.MatchResult {
	res := domain.MatchResult{
		Score:    DefaultMatchScore,
		Reason:   DefaultMatchReason,
		Warnings: []domain.Warning{},
	}

	var scoreFound, reasonFound bool
	for _, line := range strings.Split(cleanMatchReply(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		scoreAt := reScoreMarker.FindStringIndex(line)
		reasonAt := reReasonMarker.FindStringIndex(line)
		if tok := markerValue(line, scoreAt, reasonAt); !scoreFound && tok != "" {
			res.RawScore = tok
			scoreFound = true
		}
		if tok := markerValue(line, reasonAt, scoreAt); !reasonFound && tok != "" {
			res.Reason = tok
			reasonFound = true
		}
	}

	// Algunos modelos ignoran el formato y contestan JSON.
	if !scoreFound || !reasonFound {
		if s, r, ok := jsonMatchFields(raw); ok {
			if !scoreFound && s != "" {
				res.RawScore, scoreFound = s, true
			}
			if !reasonFound && r != "" {
				res.Reason, reasonFound = r, true
			}
		}
	}

	if !scoreFound {
		res.Warnings = append(res.Warnings, domain.Warning{Source: SourceMatch, Kind: kindName(ErrReplyUnparsed), Detail: "score line missing"})
	} else {
		score, ok := parseScoreToken(res.RawScore)
		switch {
		case !ok:
			res.Warnings = append(res.Warnings, domain.Warning{Source: SourceMatch, Kind: kindName(ErrReplyUnparsed), Detail: "score not numeric: " + res.RawScore})
		case score < 0 || score > 100:
			res.Score = clampScore(score)
			res.Warnings = append(res.Warnings, domain.Warning{Source: SourceMatch, Kind: kindName(ErrScoreOutOfRange), Detail: "score clamped from " + res.RawScore})
		default:
			res.Score = score
		}
	}
	if !reasonFound {
		res.Warnings = append(res.Warnings, domain.Warning{Source: SourceMatch, Kind: kindName(ErrReplyUnparsed), Detail: "reason line missing"})
	}
	return res
}

// cleanMatchReply quita fences ``` y BOM.
func cleanMatchReply(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "\uFEFF")
	s = reFenceStart.ReplaceAllString(s, "")
	s = reFenceEnd.ReplaceAllString(s, "")
	return strings.ReplaceAll(s, "\r\n", "\n")
}

// markerValue devuelve el texto que sigue al marcador at, cortado donde empieza
// el otro marcador si aparece después en la misma línea ("Score: 85 Reason: x").
func markerValue(line string, at, other []int) string {
	if at == nil {
		return ""
	}
	end := len(line)
	if other != nil && other[0] >= at[1] {
		end = other[0]
	}
	return trimFieldToken(line[at[1]:end])
}

func trimFieldToken(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "*_`\"'[],;|"))
}

// parseScoreToken toma el primer número del token ("87", "~90%"). Con
// denominador explícito se lleva a escala 100: "8/10" es 80, "64/100" es 64.
func parseScoreToken(tok string) (int, bool) {
	m := reScoreNumber.FindStringSubmatch(tok)
	if m == nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	if m[2] != "" {
		if den, err := strconv.ParseFloat(m[2], 64); err == nil && den > 0 {
			f = f * 100 / den
		}
	}
	if f > math.MaxInt32 {
		return math.MaxInt32, true
	}
	if f < math.MinInt32 {
		return math.MinInt32, true
	}
	return int(math.Round(f)), true
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
