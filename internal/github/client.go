package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	gogithub "github.com/google/go-github/v66/github"
)

// Client consulta los eventos públicos de un usuario en GitHub.
type Client struct {
	gh    *gogithub.Client
	token string
}

// NewClient arma el cliente autenticado con token. httpClient puede ser nil.
func NewClient(token string, httpClient *http.Client) *Client {
	gh := gogithub.NewClient(httpClient)
	if strings.TrimSpace(token) != "" {
		gh = gh.WithAuthToken(token)
	}
	return &Client{gh: gh, token: token}
}

// WithBaseURL apunta el cliente a otro host (tests, GitHub Enterprise).
func (c *Client) WithBaseURL(raw string) (*Client, error) {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	c.gh.BaseURL = u
	return c, nil
}

// Configured indica si hay token configurado.
func (c *Client) Configured() bool {
	return c != nil && strings.TrimSpace(c.token) != ""
}

// RecentRepoNames devuelve el nombre del repo de cada uno de los últimos
// limit eventos públicos, en el orden de la API y con repetidos.
func (c *Client) RecentRepoNames(ctx context.Context, user string, limit int) ([]string, error) {
	if limit <= 0 {
		return []string{}, nil
	}
	events, _, err := c.gh.Activity.ListEventsPerformedByUser(ctx, user, true, &gogithub.ListOptions{PerPage: limit})
	if err != nil {
		return nil, fmt.Errorf("list public events for %s: %w", user, err)
	}

	names := make([]string, 0, len(events))
	for i, ev := range events {
		if i >= limit {
			break
		}
		if name := ev.GetRepo().GetName(); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}
