package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`

	GitHubToken      string `env:"GITHUB_TOKEN"`
	GitHubEventLimit int    `env:"GITHUB_EVENT_LIMIT" envDefault:"16"`
	GitHubRepoLimit  int    `env:"GITHUB_REPO_LIMIT" envDefault:"3"`

	LLMAPIKey       string `env:"LLM_API_KEY"`
	LLMBaseURL      string `env:"LLM_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta"`
	LLMDefaultModel string `env:"LLM_DEFAULT_MODEL" envDefault:"gemini-pro"`
	LLMModelFamily  string `env:"LLM_MODEL_FAMILY" envDefault:"gemini"`
	LLMCacheTTLSecs int    `env:"LLM_CACHE_TTL_SECONDS" envDefault:"300"`

	YouTubeClientSecretFile string `env:"YOUTUBE_CLIENT_SECRET_FILE" envDefault:"client_secret.json"`
	YouTubeTokenFile        string `env:"YOUTUBE_TOKEN_FILE" envDefault:"token.json"`
	YouTubeMaxResults       int64  `env:"YOUTUBE_MAX_RESULTS" envDefault:"5"`

	ReferenceProfileFile string `env:"REFERENCE_PROFILE_FILE"`
	RosterMaxEntries     int    `env:"ROSTER_MAX_ENTRIES" envDefault:"0"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
