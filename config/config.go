package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config struct to hold the configuration settings
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	NATS          NATSConfig          `yaml:"nats"`
	JWT           JWTConfig           `yaml:"jwt"`
	HTTP          HTTPConfig          `yaml:"http"`
	Observability ObservabilityConfig `yaml:"observability"`
	Persistence   PersistenceConfig   `yaml:"persistence"`
	Leaderboard   LeaderboardConfig   `yaml:"leaderboard"`
	Challenge     ChallengeConfig     `yaml:"challenge"`
	Energy        EnergyConfig        `yaml:"energy"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// NATSConfig holds NATS configuration.
type NATSConfig struct {
	URL      string `yaml:"url"`
	NKeySeed string `yaml:"nkey_seed"`
}

// JWTConfig holds JWT configuration.
type JWTConfig struct {
	Secret     string        `yaml:"secret"`
	DefaultTTL time.Duration `yaml:"default_ttl"`
}

// HTTPConfig holds the API server configuration.
type HTTPConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	MetricsAddress string `yaml:"metrics_address"`
	Environment    string `yaml:"environment"`
}

// PersistenceConfig bounds every database round trip made on behalf of a user.
type PersistenceConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

// LeaderboardConfig controls the periodic full reload of the standings.
type LeaderboardConfig struct {
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}

// ChallengeConfig controls the weekly quiz rotation.
type ChallengeConfig struct {
	QuestionsPerWeek int `yaml:"questions_per_week"`
}

// EnergyConfig points at the monthly usage spreadsheets.
type EnergyConfig struct {
	ElectricityFile string `yaml:"electricity_file"`
	GasFile         string `yaml:"gas_file"`
}

const (
	DefaultHTTPAddr           = ":8080"
	DefaultJWTTTL             = 24 * time.Hour
	DefaultPersistenceTimeout = 5000 * time.Millisecond
	DefaultRefreshInterval    = 15 * time.Minute
	DefaultQuestionsPerWeek   = 5
)

// LoadConfig loads the configuration from a YAML file.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		// If the file is not found, try loading from environment variables
		return loadConfigFromEnv()
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// loadConfigFromEnv loads the configuration from environment variables.
func loadConfigFromEnv() (*Config, error) {
	var cfg Config
	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}

	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}
	if cfg.NATS.URL == "" {
		return nil, fmt.Errorf("NATS_URL environment variable not set")
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("NATS_NKEY_SEED"); v != "" {
		cfg.NATS.NKeySeed = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("METRICS_ADDRESS"); v != "" {
		cfg.Observability.MetricsAddress = v
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
	if v := os.Getenv("ELECTRICITY_FILE"); v != "" {
		cfg.Energy.ElectricityFile = v
	}
	if v := os.Getenv("GAS_FILE"); v != "" {
		cfg.Energy.GasFile = v
	}
	if v := os.Getenv("CHALLENGE_QUESTIONS_PER_WEEK"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid CHALLENGE_QUESTIONS_PER_WEEK value: %v", err)
		}
		cfg.Challenge.QuestionsPerWeek = n
	}

	durations := []struct {
		env    string
		target *time.Duration
	}{
		{"JWT_DEFAULT_TTL", &cfg.JWT.DefaultTTL},
		{"PERSISTENCE_TIMEOUT", &cfg.Persistence.Timeout},
		{"LEADERBOARD_REFRESH_INTERVAL", &cfg.Leaderboard.RefreshInterval},
	}
	for _, d := range durations {
		v := os.Getenv(d.env)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s value: %v", d.env, err)
		}
		*d.target = parsed
	}
	return nil
}

func (cfg *Config) applyDefaults() {
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = DefaultHTTPAddr
	}
	if cfg.JWT.DefaultTTL <= 0 {
		cfg.JWT.DefaultTTL = DefaultJWTTTL
	}
	if cfg.Persistence.Timeout <= 0 {
		cfg.Persistence.Timeout = DefaultPersistenceTimeout
	}
	if cfg.Leaderboard.RefreshInterval <= 0 {
		cfg.Leaderboard.RefreshInterval = DefaultRefreshInterval
	}
	if cfg.Challenge.QuestionsPerWeek <= 0 {
		cfg.Challenge.QuestionsPerWeek = DefaultQuestionsPerWeek
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
