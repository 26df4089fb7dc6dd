package service

import (
	"errors"
	"fmt"

	"vibe-brain/internal/domain"
)

// Tipos de falla que el núcleo absorbe en valores centinela.
var (
	ErrCredentialMissing = errors.New("credential missing")
	ErrUpstream          = errors.New("upstream call failed")
	ErrModelUnavailable  = errors.New("model unavailable")
	ErrReplyUnparsed     = errors.New("model reply unparsed")
	ErrScoreOutOfRange   = errors.New("score out of range")
)

// Fuentes de señales y de fallas.
const (
	SourceGitHub  = "github"
	SourceYouTube = "youtube"
	SourceLLM     = "llm"
	SourceMatch   = "match_parser"
)

// FetchError identifica qué fuente falló y de qué tipo fue la falla.
// errors.Is funciona tanto contra Kind como contra el error original.
type FetchError struct {
	Source string
	Kind   error
	Err    error
}

func newFetchError(source string, kind, err error) *FetchError {
	return &FetchError{Source: source, Kind: kind, Err: err}
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Source, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Source, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Warning convierte el error en el aviso que viaja junto al dato de respaldo.
func (e *FetchError) Warning() domain.Warning {
	w := domain.Warning{Source: e.Source, Kind: kindName(e.Kind)}
	if e.Err != nil {
		w.Detail = e.Err.Error()
	}
	return w
}

func kindName(kind error) string {
	switch {
	case errors.Is(kind, ErrCredentialMissing):
		return "credential_missing"
	case errors.Is(kind, ErrUpstream):
		return "upstream_error"
	case errors.Is(kind, ErrModelUnavailable):
		return "model_unavailable"
	case errors.Is(kind, ErrReplyUnparsed):
		return "reply_unparsed"
	case errors.Is(kind, ErrScoreOutOfRange):
		return "score_out_of_range"
	default:
		return "unknown"
	}
}

// warningFor extrae el Warning de err; errores sin tipo quedan como "unknown".
func warningFor(source string, err error) domain.Warning {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Warning()
	}
	return domain.Warning{Source: source, Kind: "unknown", Detail: err.Error()}
}
