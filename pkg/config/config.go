package config

import (
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/iancoleman/strcase"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	EnvironmentDevelopment = "development"
	EnvironmentStaging     = "staging"
	EnvironmentProduction  = "production"
	EnvironmentTest        = "test"
)

const (
	environmentENV = "ENVIRONMENT"
	flaskEnvENV    = "FLASK_ENV"
	testingENV     = "TESTING"
	configFileENV  = "CONFIG_FILE"
	dotenvFile     = ".env"
)

type Config struct {
	Environment string `koanf:"environment"`

	DatabaseURL               string        `koanf:"database_url" required:"true"`
	DatabaseDebug             bool          `koanf:"database_debug"`
	DatabaseConnectRetryCount int           `koanf:"database_connect_retry_count"`
	DatabaseConnectRetryDelay time.Duration `koanf:"database_connect_retry_delay"`
	DatabaseBusyTimeout       time.Duration `koanf:"database_busy_timeout"`
	DatabaseMaxRetries        int           `koanf:"database_max_retries"`

	ServerHost string `koanf:"server_host"`
	ServerPort int    `koanf:"server_port"`

	SecretKey          string        `koanf:"secret_key" required:"production"`
	JWTSecretKey       string        `koanf:"jwt_secret_key" required:"production"`
	AccessTokenExpiry  time.Duration `koanf:"access_token_expiry"`
	RefreshTokenExpiry time.Duration `koanf:"refresh_token_expiry"`

	SnapshotDir string `koanf:"snapshot_dir"`
}

// New builds the configuration for the selected profile. Values are layered
// as profile defaults, then the optional YAML file named by CONFIG_FILE, then
// environment variables (including those from an optional .env file).
func New() (*Config, error) {
	if err := godotenv.Load(dotenvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrap(err, "failed to load .env")
	}

	environment := Environment()
	cfg := defaults()
	cfg.Environment = environment

	switch environment {
	case EnvironmentTest:
		loadTestConfig(cfg)
	case EnvironmentProduction:
		loadProductionConfig(cfg)
	case EnvironmentStaging:
		loadStagingConfig(cfg)
	default:
		loadDevelopmentConfig(cfg)
	}

	k := koanf.New(".")

	if path := os.Getenv(configFileENV); path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, errors.Wrapf(err, "failed to load config file %s", path)
			}
		}
	}

	err := k.Load(env.Provider("", ".", strings.ToLower), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load environment")
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.WithStack(err)
	}
	// The profile is decided before any source is read, so a stray
	// "environment" key can't flip it afterwards.
	cfg.Environment = environment

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewForTest returns the test profile without reading any external source.
func NewForTest() *Config {
	cfg := defaults()
	cfg.Environment = EnvironmentTest
	loadTestConfig(cfg)
	return cfg
}

// Environment resolves the active profile name: an explicit ENVIRONMENT or
// FLASK_ENV value, overridden by a truthy TESTING flag, falling back to
// development for anything unrecognized.
func Environment() string {
	environment := os.Getenv(environmentENV)
	if environment == "" {
		environment = os.Getenv(flaskEnvENV)
	}
	if isTruthy(os.Getenv(testingENV)) {
		return EnvironmentTest
	}

	switch strings.ToLower(environment) {
	case EnvironmentProduction:
		return EnvironmentProduction
	case EnvironmentStaging:
		return EnvironmentStaging
	case EnvironmentTest, "testing":
		return EnvironmentTest
	default:
		return EnvironmentDevelopment
	}
}

// IsProduction reports whether secrets must come from the environment.
func (cfg *Config) IsProduction() bool {
	return cfg.Environment == EnvironmentProduction || cfg.Environment == EnvironmentStaging
}

func defaults() *Config {
	return &Config{
		DatabaseConnectRetryCount: 5,
		DatabaseConnectRetryDelay: 2 * time.Second,
		DatabaseBusyTimeout:       5 * time.Second,
		DatabaseMaxRetries:        5,
		ServerHost:                "0.0.0.0",
		ServerPort:                5050,
		AccessTokenExpiry:         time.Hour,
		RefreshTokenExpiry:        30 * 24 * time.Hour,
		SnapshotDir:               "testdata/snapshots",
	}
}

func validate(cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		required := field.Tag.Get("required")
		if required == "" {
			continue
		}
		if required == "production" && !cfg.IsProduction() {
			continue
		}
		if !v.Field(i).IsZero() {
			continue
		}
		key := toSnakeCase(field.Name)
		return errors.Errorf("missing required config: %s (%s)", strings.ToUpper(key), key)
	}
	return nil
}

func toSnakeCase(s string) string {
	return strcase.ToSnake(s)
}

func isTruthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
