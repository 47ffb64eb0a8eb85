package config

import (
	"errors"
	"os"
	"strings"
	"time"
)

type APIConfig struct {
	JWTSecret       []byte
	AccessTokenTTL  time.Duration
	TMDBAPIKey      string
	TMDBBaseURL     string
	CatalogCacheTTL time.Duration
	NATSURL         string
}

func LoadAPI() (APIConfig, error) {
	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		return APIConfig{}, errors.New("JWT_SECRET is required")
	}
	apiKey := strings.TrimSpace(os.Getenv("TMDB_API_KEY"))
	if apiKey == "" {
		return APIConfig{}, errors.New("TMDB_API_KEY is required")
	}

	return APIConfig{
		JWTSecret:       []byte(secret),
		AccessTokenTTL:  parseDurationWithDefault(os.Getenv("ACCESS_TOKEN_TTL"), 7*24*time.Hour),
		TMDBAPIKey:      apiKey,
		TMDBBaseURL:     strings.TrimSpace(os.Getenv("TMDB_BASE_URL")),
		CatalogCacheTTL: parseDurationWithDefault(os.Getenv("CATALOG_CACHE_TTL"), 5*time.Minute),
		NATSURL:         strings.TrimSpace(os.Getenv("NATS_URL")),
	}, nil
}

func parseDurationWithDefault(v string, def time.Duration) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
