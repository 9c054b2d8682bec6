// internal/infra/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// State storage backends.
const (
	StateFile      = "file"
	StateSQLite    = "sqlite"
	StateFirestore = "firestore"
	StateGCS       = "gcs"
	StateMemory    = "memory"
)

// Order storage backends.
const (
	OrderFirestore = "firestore"
	OrderPostgres  = "postgres"
)

// Config holds every environment-level setting of the storefront.
type Config struct {
	Port                     string `mapstructure:"PORT"`
	GCPProjectID             string `mapstructure:"GCP_PROJECT_ID"`
	GCPCreds                 string `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
	FirestoreProjectID       string `mapstructure:"FIRESTORE_PROJECT_ID"`
	FirestoreCredentialsFile string `mapstructure:"FIRESTORE_CREDENTIALS_FILE"`
	FirebaseProjectID        string `mapstructure:"FIREBASE_PROJECT_ID"`

	// Firebase web API key for Identity Toolkit password sign-in.
	// Empty → Secret Manager (storefront-firebase-web-api-key).
	FirebaseWebAPIKey string `mapstructure:"FIREBASE_WEB_API_KEY"`

	SendGridAPIKey string `mapstructure:"SENDGRID_API_KEY"`
	SendGridFrom   string `mapstructure:"SENDGRID_FROM"`

	CatalogBaseURL string `mapstructure:"CATALOG_BASE_URL"`

	StateBackend    string `mapstructure:"STATE_BACKEND"`
	StatePath       string `mapstructure:"STATE_PATH"`
	StateBucket     string `mapstructure:"STATE_BUCKET"`
	StateCollection string `mapstructure:"STATE_COLLECTION"`
	// StateProfile separates snapshots of several local profiles sharing
	// one remote backend.
	StateProfile string `mapstructure:"STATE_PROFILE"`

	OrderBackend string `mapstructure:"ORDER_BACKEND"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`

	// Public base URL of the HTTP shell (password reset continue URL).
	BaseURL string `mapstructure:"STOREFRONT_BASE_URL"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
}

var keys = []string{
	"PORT", "GCP_PROJECT_ID", "GOOGLE_APPLICATION_CREDENTIALS",
	"FIRESTORE_PROJECT_ID", "FIRESTORE_CREDENTIALS_FILE", "FIREBASE_PROJECT_ID",
	"FIREBASE_WEB_API_KEY", "SENDGRID_API_KEY", "SENDGRID_FROM",
	"CATALOG_BASE_URL",
	"STATE_BACKEND", "STATE_PATH", "STATE_BUCKET", "STATE_COLLECTION", "STATE_PROFILE",
	"ORDER_BACKEND", "DATABASE_URL", "STOREFRONT_BASE_URL",
	"LOG_LEVEL", "LOG_FORMAT",
}

// ConfigName is the optional config file (storefront.yaml), searched in the
// working directory and ~/.storefront.
const ConfigName = "storefront"

// Load reads storefront.yaml (optional) and the environment.
// Environment variables win over the file.
func Load() (*Config, error) {
	return LoadWith(viper.New(), "")
}

// LoadWith is Load on a caller-owned viper (flags bound by the CLI).
// file, when set, must exist.
func LoadWith(v *viper.Viper, file string) (*Config, error) {
	setDefaults(v)
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".storefront"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &nf) {
			return nil, fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("CATALOG_BASE_URL", "https://dummyjson.com")
	v.SetDefault("STATE_BACKEND", StateFile)
	v.SetDefault("STATE_COLLECTION", "storefront_state")
	v.SetDefault("STATE_PROFILE", "default")
	v.SetDefault("ORDER_BACKEND", OrderFirestore)
	v.SetDefault("SENDGRID_FROM", "no-reply@storefront.local")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
}

func (c *Config) normalize() {
	trim := func(s *string) { *s = strings.TrimSpace(*s) }
	for _, p := range []*string{
		&c.Port, &c.GCPProjectID, &c.FirestoreProjectID, &c.FirebaseProjectID,
		&c.FirebaseWebAPIKey, &c.SendGridAPIKey, &c.SendGridFrom, &c.CatalogBaseURL,
		&c.StateBackend, &c.StatePath, &c.StateBucket, &c.StateCollection, &c.StateProfile,
		&c.OrderBackend, &c.DatabaseURL, &c.BaseURL, &c.LogLevel, &c.LogFormat,
	} {
		trim(p)
	}
	c.StateBackend = strings.ToLower(c.StateBackend)
	c.OrderBackend = strings.ToLower(c.OrderBackend)

	// FIRESTORE_PROJECT_ID / FIREBASE_PROJECT_ID fall back to GCP_PROJECT_ID
	if c.FirestoreProjectID == "" {
		c.FirestoreProjectID = c.GCPProjectID
	}
	if c.FirebaseProjectID == "" {
		c.FirebaseProjectID = c.GCPProjectID
	}
	if c.StatePath == "" {
		c.StatePath = defaultStatePath(c.StateBackend)
	}
}

func defaultStatePath(backend string) string {
	dir := ".storefront"
	if base, err := os.UserConfigDir(); err == nil {
		dir = filepath.Join(base, "storefront")
	}
	if backend == StateSQLite {
		return filepath.Join(dir, "state.db")
	}
	return dir
}

var (
	ErrUnknownStateBackend = errors.New("config: unknown STATE_BACKEND")
	ErrUnknownOrderBackend = errors.New("config: unknown ORDER_BACKEND")
	ErrMissingSetting      = errors.New("config: missing setting")
)

// Validate checks backend names and the settings they require.
func (c *Config) Validate() error {
	switch c.StateBackend {
	case StateFile, StateSQLite, StateMemory:
	case StateFirestore:
		if c.FirestoreProjectID == "" {
			return fmt.Errorf("%w: FIRESTORE_PROJECT_ID (STATE_BACKEND=firestore)", ErrMissingSetting)
		}
	case StateGCS:
		if c.StateBucket == "" {
			return fmt.Errorf("%w: STATE_BUCKET (STATE_BACKEND=gcs)", ErrMissingSetting)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStateBackend, c.StateBackend)
	}

	switch c.OrderBackend {
	case OrderFirestore:
	case OrderPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: DATABASE_URL (ORDER_BACKEND=postgres)", ErrMissingSetting)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOrderBackend, c.OrderBackend)
	}
	return nil
}

// NeedsGCP reports whether any configured backend talks to Google Cloud.
func (c *Config) NeedsGCP() bool {
	return c.FirestoreProjectID != "" || c.StateBackend == StateFirestore || c.StateBackend == StateGCS
}
