package config

import (
	"os"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port             string
	Env              string
	CORSAllowOrigin  []string
	PinataJWT        string
	PinataUploadURL  string
	PinataGateway    string
	LiveblocksSecret string
	LiveblocksAPIURL string
	RPCURL           string
	ContractAddress  string
	ChainID          int64
	HTTPTimeout      time.Duration
	PollInterval     time.Duration
	MaxUploadBytes   int64
}

const (
	defaultHTTPTimeout  = 15 * time.Second
	defaultPollInterval = 15 * time.Second
	defaultMaxUpload    = 10 << 20 // 10MB
)

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	return Config{
		Port:             getEnv("PORT", "4411"),
		Env:              normalizeEnv(getEnv("ENV", "dev")),
		CORSAllowOrigin:  splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		PinataJWT:        os.Getenv("PINATA_JWT"),
		PinataUploadURL:  getEnv("PINATA_UPLOAD_URL", "https://uploads.pinata.cloud/v3/files"),
		PinataGateway:    getEnv("PINATA_GATEWAY", "https://gateway.pinata.cloud"),
		LiveblocksSecret: os.Getenv("LIVEBLOCKS_SECRET_KEY"),
		LiveblocksAPIURL: getEnv("LIVEBLOCKS_API_URL", "https://api.liveblocks.io"),
		RPCURL:           os.Getenv("RPC_URL"),
		ContractAddress:  os.Getenv("CONTRACT_ADDRESS"),
		ChainID:          parseInt64(getEnv("CHAIN_ID", "0")),
		HTTPTimeout:      parseDuration(getEnv("HTTP_TIMEOUT", ""), defaultHTTPTimeout),
		PollInterval:     parseDuration(getEnv("POLL_INTERVAL", ""), defaultPollInterval),
		MaxUploadBytes:   defaultMaxUpload,
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func parseDuration(raw string, def time.Duration) time.Duration {
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func parseInt64(raw string) int64 {
	var n int64
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int64(r-'0')
	}
	return n
}
