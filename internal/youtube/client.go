package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"
)

// Client lee likes y playlists del usuario dueño del token OAuth guardado.
type Client struct {
	clientSecretFile string
	tokenFile        string
	maxResults       int64
	endpoint         string
	logger           *zap.Logger

	// saveMu serializa la escritura del token entre requests concurrentes.
	saveMu sync.Mutex
}

// NewClient construye el cliente; no toca disco hasta el primer Fetch.
func NewClient(clientSecretFile, tokenFile string, maxResults int64, logger *zap.Logger) *Client {
	if maxResults <= 0 {
		maxResults = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		clientSecretFile: clientSecretFile,
		tokenFile:        tokenFile,
		maxResults:       maxResults,
		logger:           logger,
	}
}

// WithEndpoint redirige las llamadas a otro host (tests).
func (c *Client) WithEndpoint(endpoint string) *Client {
	c.endpoint = endpoint
	return c
}

// Configured indica si existe material de credenciales: client secret y token guardado.
// El flujo interactivo de login no corre dentro del servicio.
func (c *Client) Configured() bool {
	if c == nil {
		return false
	}
	return fileExists(c.clientSecretFile) && fileExists(c.tokenFile)
}

// Fetch trae en paralelo los títulos de videos con like y los títulos de playlists.
func (c *Client) Fetch(ctx context.Context) ([]string, []string, error) {
	svc, ts, saved, err := c.service(ctx)
	if err != nil {
		return nil, nil, err
	}

	var likes, playlists []string
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resp, err := svc.Videos.List([]string{"snippet"}).MyRating("like").MaxResults(c.maxResults).Context(gCtx).Do()
		if err != nil {
			return fmt.Errorf("list liked videos: %w", err)
		}
		likes = make([]string, 0, len(resp.Items))
		for _, item := range resp.Items {
			if item.Snippet != nil {
				likes = append(likes, item.Snippet.Title)
			}
		}
		return nil
	})
	g.Go(func() error {
		resp, err := svc.Playlists.List([]string{"snippet"}).Mine(true).MaxResults(c.maxResults).Context(gCtx).Do()
		if err != nil {
			return fmt.Errorf("list playlists: %w", err)
		}
		playlists = make([]string, 0, len(resp.Items))
		for _, item := range resp.Items {
			if item.Snippet != nil {
				playlists = append(playlists, item.Snippet.Title)
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	c.persistRefreshedToken(ts, saved)
	return likes, playlists, nil
}

func (c *Client) service(ctx context.Context) (*yt.Service, oauth2.TokenSource, *oauth2.Token, error) {
	secret, err := os.ReadFile(c.clientSecretFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("read client secret: %w", err)
	}
	cfg, err := google.ConfigFromJSON(secret, yt.YoutubeReadonlyScope)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("parse client secret: %w", err)
	}

	tok, err := loadToken(c.tokenFile)
	if err != nil {
		return nil, nil, nil, err
	}

	ts := oauth2.ReuseTokenSource(tok, cfg.TokenSource(ctx, tok))
	opts := []option.ClientOption{option.WithTokenSource(ts)}
	if c.endpoint != "" {
		opts = append(opts, option.WithEndpoint(c.endpoint))
	}
	svc, err := yt.NewService(ctx, opts...)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("build youtube service: %w", err)
	}
	return svc, ts, tok, nil
}

// persistRefreshedToken guarda el token si oauth2 lo renovó, para no pedir login otra vez.
func (c *Client) persistRefreshedToken(ts oauth2.TokenSource, saved *oauth2.Token) {
	current, err := ts.Token()
	if err != nil || current.AccessToken == saved.AccessToken {
		return
	}
	c.saveMu.Lock()
	defer c.saveMu.Unlock()
	if err := saveToken(c.tokenFile, current); err != nil {
		c.logger.Warn("youtube token save failed", zap.Error(err))
	}
}

// storedToken acepta tanto el JSON de oauth2.Token (access_token) como el
// token.json de google-auth (token, expiry sin zona horaria).
type storedToken struct {
	AccessToken  string `json:"access_token"`
	Token        string `json:"token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
	Expiry       string `json:"expiry"`
}

var expiryLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999"}

func loadToken(path string) (*oauth2.Token, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read token: %w", err)
	}
	var st storedToken
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	tok := &oauth2.Token{
		AccessToken:  strings.TrimSpace(st.AccessToken),
		TokenType:    st.TokenType,
		RefreshToken: strings.TrimSpace(st.RefreshToken),
	}
	if tok.AccessToken == "" {
		tok.AccessToken = strings.TrimSpace(st.Token)
	}
	if tok.AccessToken == "" && tok.RefreshToken == "" {
		return nil, fmt.Errorf("token file %s has no usable token", path)
	}

	if exp, ok := parseExpiry(st.Expiry); ok {
		tok.Expiry = exp
	} else if tok.RefreshToken != "" {
		// Sin vencimiento legible se fuerza un refresh en vez de confiar en el access token.
		tok.Expiry = time.Unix(1, 0)
	}
	return tok, nil
}

func parseExpiry(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, false
	}
	for _, layout := range expiryLayouts {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// saveToken escribe en un archivo temporal y lo renombra, para que un lector
// concurrente vea el token viejo o el nuevo, nunca uno a medias.
func saveToken(path string, tok *oauth2.Token) error {
	raw, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("marshal token: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".token-*.json")
	if err != nil {
		return fmt.Errorf("create temp token: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp token: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp token: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace token: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	if strings.TrimSpace(path) == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
