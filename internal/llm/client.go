package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// LLMClient define la interfaz para generar texto con un modelo concreto.
type LLMClient interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// Catalog lista los modelos que ofrece el proveedor.
type Catalog interface {
	ListModels(ctx context.Context) ([]Model, error)
}

// Model es una entrada del catálogo del proveedor.
type Model struct {
	Name             string
	SupportedMethods []string
}

// Supports indica si el modelo declara el método de generación pedido.
func (m Model) Supports(method string) bool {
	for _, s := range m.SupportedMethods {
		if s == method {
			return true
		}
	}
	return false
}

// HTTPClient implementa LLMClient y Catalog contra la API REST de Gemini.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
}

// NewHTTPClient construye un cliente apuntando a la API generativa.
func NewHTTPClient(baseURL, apiKey string, logger *zap.Logger) *HTTPClient {
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 60 * time.Second},
		logger:  logger,
	}
}

// Configured indica si hay API key; sin ella el modelo se considera no disponible.
func (c *HTTPClient) Configured() bool {
	return c != nil && strings.TrimSpace(c.apiKey) != ""
}

func (c *HTTPClient) ListModels(ctx context.Context) ([]Model, error) {
	q := url.Values{}
	q.Set("pageSize", "1000")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("x-goog-api-key", c.apiKey)

	respBody, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var lr listModelsResponse
	if err := json.Unmarshal(respBody, &lr); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	models := make([]Model, 0, len(lr.Models))
	for _, m := range lr.Models {
		models = append(models, Model{Name: m.Name, SupportedMethods: m.SupportedGenerationMethods})
	}
	return models, nil
}

func (c *HTTPClient) Generate(ctx context.Context, model, prompt string) (string, error) {
	reqBody := generateRequest{
		Contents: []content{
			{Role: "user", Parts: []part{{Text: prompt}}},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := c.baseURL + "/" + modelPath(model) + ":generateContent"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("x-goog-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	respBody, err := c.do(req)
	if err != nil {
		return "", err
	}

	var gr generateResponse
	if err := json.Unmarshal(respBody, &gr); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if gr.Error != nil {
		return "", fmt.Errorf("llm api error: %s", gr.Error.Message)
	}

	if len(gr.Candidates) == 0 {
		return "", fmt.Errorf("llm empty response")
	}

	var sb strings.Builder
	for _, p := range gr.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", fmt.Errorf("llm empty response")
	}
	return sb.String(), nil
}

func (c *HTTPClient) do(req *http.Request) ([]byte, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		c.logger.Warn("llm error status",
			zap.Int("status", resp.StatusCode),
			zap.String("path", req.URL.Path),
			zap.ByteString("body", respBody),
		)
		return nil, fmt.Errorf("llm http error: status=%d", resp.StatusCode)
	}
	return respBody, nil
}

// modelPath normaliza "gemini-pro" a "models/gemini-pro".
func modelPath(model string) string {
	model = strings.TrimSpace(model)
	if strings.HasPrefix(model, "models/") {
		return model
	}
	return "models/" + model
}

type listModelsResponse struct {
	Models []struct {
		Name                       string   `json:"name"`
		SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
	} `json:"models"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}
