package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

type Config struct {
	TelegramToken string           `yaml:"telegram_token"`
	DatabasePath  string           `yaml:"database_path"`
	LogLevel      string           `yaml:"log_level"`
	Health        HealthConfig     `yaml:"health"`
	Token         TokenConfig      `yaml:"token"`
	Moderation    ModerationConfig `yaml:"moderation"`
	Games         GamesConfig      `yaml:"games"`
	Market        MarketConfig     `yaml:"market"`
}

type HealthConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

type TokenConfig struct {
	ContractAddress string `yaml:"contract_address"`
	Twitter         string `yaml:"twitter"`
	Telegram        string `yaml:"telegram"`
}

type ModerationConfig struct {
	MaxWarnings       int      `yaml:"max_warnings"`
	SpamThreshold     int      `yaml:"spam_threshold"`
	SpamWindowSeconds int      `yaml:"spam_window_seconds"`
	TrackerTTLMinutes int      `yaml:"tracker_ttl_minutes"`
	ExtraScamPhrases  []string `yaml:"extra_scam_phrases"`
}

type GamesConfig struct {
	SpinCooldownMinutes int `yaml:"spin_cooldown_minutes"`
	TriviaReward        int `yaml:"trivia_reward"`
	SessionTTLMinutes   int `yaml:"session_ttl_minutes"`
}

type MarketConfig struct {
	BirdeyeAPIKey  string `yaml:"birdeye_api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

func DefaultConfig() Config {
	return Config{
		DatabasePath: "/data/guardian.db",
		LogLevel:     "info",
		Health:       HealthConfig{Enabled: false, Addr: ":8080"},
		Moderation: ModerationConfig{
			MaxWarnings:       3,
			SpamThreshold:     5,
			SpamWindowSeconds: 10,
			TrackerTTLMinutes: 10,
		},
		Games: GamesConfig{
			SpinCooldownMinutes: 60,
			TriviaReward:        15,
			SessionTTLMinutes:   5,
		},
		Market: MarketConfig{TimeoutSeconds: 10},
	}
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg)
	if cfg.TelegramToken == "" {
		return Config{}, errors.New("TELEGRAM_BOT_TOKEN is required")
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.TelegramToken = envString("TELEGRAM_BOT_TOKEN", cfg.TelegramToken)
	cfg.DatabasePath = envString("DATABASE_PATH", cfg.DatabasePath)
	cfg.LogLevel = envString("LOG_LEVEL", cfg.LogLevel)
	cfg.Health.Enabled = envBool("HEALTH_ENABLED", cfg.Health.Enabled)
	cfg.Health.Addr = envString("HEALTH_ADDR", cfg.Health.Addr)
	cfg.Token.ContractAddress = envString("SUNE_CONTRACT_ADDRESS", cfg.Token.ContractAddress)
	cfg.Token.Twitter = envString("SUNE_TWITTER", cfg.Token.Twitter)
	cfg.Token.Telegram = envString("SUNE_TELEGRAM", cfg.Token.Telegram)
	cfg.Moderation.MaxWarnings = envInt("MAX_WARNINGS", cfg.Moderation.MaxWarnings)
	cfg.Moderation.SpamThreshold = envInt("SPAM_THRESHOLD", cfg.Moderation.SpamThreshold)
	cfg.Moderation.SpamWindowSeconds = envInt("SPAM_WINDOW_SECONDS", cfg.Moderation.SpamWindowSeconds)
	cfg.Moderation.TrackerTTLMinutes = envInt("TRACKER_TTL_MINUTES", cfg.Moderation.TrackerTTLMinutes)
	cfg.Games.SpinCooldownMinutes = envInt("SPIN_COOLDOWN_MINUTES", cfg.Games.SpinCooldownMinutes)
	cfg.Games.TriviaReward = envInt("TRIVIA_REWARD", cfg.Games.TriviaReward)
	cfg.Market.BirdeyeAPIKey = envString("BIRDEYE_API_KEY", cfg.Market.BirdeyeAPIKey)
}

func BuildLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.MessageKey = "message"
	cfg.EncoderConfig.LevelKey = "level"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	lvl := strings.ToLower(level)
	switch lvl {
	case "debug", "info", "warn", "error":
		cfg.Level = zap.NewAtomicLevelAt(parseLevel(lvl))
	default:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	return cfg.Build()
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		lower := strings.ToLower(value)
		return lower == "1" || lower == "true" || lower == "yes"
	}
	return fallback
}
