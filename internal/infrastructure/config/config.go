package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	AppEnv   string `envconfig:"APP_ENV" default:"development" validate:"oneof=development staging production"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=trace debug info warn warning error"`

	ConfigPath string `envconfig:"CONFIG_PATH" default:"config/config.json" validate:"required"`
	LogDir     string `envconfig:"LOG_DIR" default:"logs" validate:"required"`

	ChromeUserDataDir string        `envconfig:"CHROME_USER_DATA_DIR" default:"chrome_data"`
	ChromePath        string        `envconfig:"CHROME_PATH"`
	Headless          bool          `envconfig:"HEADLESS" default:"true"`
	PageTimeout       time.Duration `envconfig:"PAGE_TIMEOUT" default:"10m"`

	Email          string `envconfig:"EMAIL_ADDRESS"`
	Password       string `envconfig:"PASSWORD"`
	PasswordSealed string `envconfig:"PASSWORD_SEALED"`
	CredEncKeyB64  string `envconfig:"CRED_ENC_KEY"`
	CredEncKey     []byte `ignored:"true"` // 32 bytes for XChaCha20-Poly1305

	LineToken      string        `envconfig:"LINE_CHANNEL_ACCESS_TOKEN"`
	LineUserID     string        `envconfig:"LINE_USER_ID"`
	LineAPIBase    string        `envconfig:"LINE_API_BASE" default:"https://api.line.me" validate:"url"`
	TelegramToken  string        `envconfig:"TELEGRAM_TOKEN"`
	TelegramChatID int64         `envconfig:"TELEGRAM_CHAT_ID"`
	HTTPTimeout    time.Duration `envconfig:"HTTP_TIMEOUT" default:"15s"`

	DatabaseURL string `envconfig:"DATABASE_URL"`

	DryRun            bool `envconfig:"BOOKING_DRY_RUN"`
	PersistNotified   bool `envconfig:"PERSIST_NOTIFIED"`
	NotifyCycleErrors bool `envconfig:"NOTIFY_CYCLE_ERRORS"`
}

// FromEnv reads .env (if any) and the process environment. Site credentials
// are not required here; commands that log in call RequireCredentials.
func FromEnv() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, fmt.Errorf("read environment: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid environment: %w", err)
	}
	if v := strings.TrimSpace(cfg.CredEncKeyB64); v != "" {
		key, err := decodeB64(v)
		if err != nil {
			return cfg, fmt.Errorf("CRED_ENC_KEY: %w", err)
		}
		if len(key) != 32 {
			return cfg, fmt.Errorf("CRED_ENC_KEY must decode to 32 bytes (got %d)", len(key))
		}
		cfg.CredEncKey = key
	}
	if cfg.TelegramToken != "" && cfg.TelegramChatID == 0 {
		return cfg, errors.New("TELEGRAM_CHAT_ID is required when TELEGRAM_TOKEN is set")
	}
	return cfg, nil
}

func (c Config) RequireCredentials() error {
	if c.Email == "" {
		return errors.New("EMAIL_ADDRESS is required")
	}
	if c.Password == "" && c.PasswordSealed == "" {
		return errors.New("PASSWORD or PASSWORD_SEALED is required")
	}
	if c.Password == "" && len(c.CredEncKey) == 0 {
		return errors.New("CRED_ENC_KEY is required to open PASSWORD_SEALED")
	}
	return nil
}

func (c Config) Production() bool {
	return c.AppEnv == "production" || c.AppEnv == "staging"
}

func decodeB64(v string) ([]byte, error) {
	if b, err := base64.StdEncoding.DecodeString(v); err == nil {
		return b, nil
	}
	return base64.RawStdEncoding.DecodeString(v)
}
