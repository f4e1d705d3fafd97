package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/lojasmm/rbm/internal/rbm"
)

type Config struct {
	ServiceAccountFile string
	Endpoint           string
	HTTPTimeout        time.Duration
	Retry              rbm.RetryPolicy

	// ClientToken is the webhook client token configured for the agent.
	ClientToken string

	Port     string
	DataDir  string
	LogLevel zerolog.Level
	LogJSON  bool

	// BotImageURL is the media shown on the bot's sample cards.
	BotImageURL string
}

func Load() (*Config, error) {
	// .env is optional: env vars may already be set in production
	_ = godotenv.Load()

	cfg := &Config{
		ServiceAccountFile: os.Getenv("RBM_SERVICE_ACCOUNT_FILE"),
		Endpoint:           getEnvDefault("RBM_ENDPOINT", rbm.DefaultEndpoint),
		ClientToken:        os.Getenv("RBM_CLIENT_TOKEN"),
		Port:               getEnvDefault("PORT", "8080"),
		DataDir:            getEnvDefault("DATA_DIR", "."),
		LogJSON:            os.Getenv("LOG_FORMAT") == "json",
		BotImageURL:        os.Getenv("BOT_IMAGE_URL"),
	}

	var err error
	if cfg.LogLevel, err = zerolog.ParseLevel(getEnvDefault("LOG_LEVEL", "info")); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if cfg.HTTPTimeout, err = parseDurationEnv("RBM_HTTP_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.Retry, err = loadRetryPolicy(); err != nil {
		return nil, err
	}

	if cfg.ClientToken == "" {
		token, err := randomHex(16)
		if err != nil {
			return nil, fmt.Errorf("generating client token: %w", err)
		}
		cfg.ClientToken = token
	}

	if cfg.ServiceAccountFile == "" {
		return nil, fmt.Errorf("%w: required env var RBM_SERVICE_ACCOUNT_FILE is not set", rbm.ErrConfiguration)
	}

	return cfg, nil
}

// Logger builds the process logger: console output unless LOG_FORMAT=json.
func (c *Config) Logger() zerolog.Logger {
	var logger zerolog.Logger
	if c.LogJSON {
		logger = zerolog.New(os.Stderr)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	return logger.Level(c.LogLevel).With().Timestamp().Logger()
}

func loadRetryPolicy() (rbm.RetryPolicy, error) {
	def := rbm.DefaultRetryPolicy()
	var p rbm.RetryPolicy
	var err error

	if p.InitialInterval, err = parseDurationEnv("RBM_RETRY_INITIAL_INTERVAL", def.InitialInterval); err != nil {
		return p, err
	}
	if p.MaxInterval, err = parseDurationEnv("RBM_RETRY_MAX_INTERVAL", def.MaxInterval); err != nil {
		return p, err
	}
	if p.MaxElapsedTime, err = parseDurationEnv("RBM_RETRY_MAX_ELAPSED", def.MaxElapsedTime); err != nil {
		return p, err
	}
	if p.Multiplier, err = parseFloatEnv("RBM_RETRY_MULTIPLIER", def.Multiplier); err != nil {
		return p, err
	}
	if p.MaxRetries, err = parseIntEnv("RBM_RETRY_MAX_RETRIES", def.MaxRetries); err != nil {
		return p, err
	}
	p.RandomizationFactor = def.RandomizationFactor

	if p.Multiplier < 1 {
		return p, fmt.Errorf("RBM_RETRY_MULTIPLIER must be >= 1, got %v", p.Multiplier)
	}
	if p.MaxRetries < 0 {
		return p, fmt.Errorf("RBM_RETRY_MAX_RETRIES must be >= 0, got %d", p.MaxRetries)
	}
	return p, nil
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func parseFloatEnv(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func parseIntEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
