package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/goalpost/internal/metrics"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Store drivers.
const (
	StoreDriverSQLite = "sqlite"
	StoreDriverMemory = "memory"
)

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	Store     StoreConfig       `yaml:"store"`
	Mock      MockConfig        `yaml:"mock"`
	Auth      AuthConfig        `yaml:"auth"`
	Analytics AnalyticsConfig   `yaml:"analytics"`
	Seed      SeedConfig        `yaml:"seed"`
	Events    EventsConfig      `yaml:"events"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	if err := c.Mock.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if err := c.Analytics.Validate(); err != nil {
		return err
	}
	return c.Events.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Driver     string `yaml:"driver"`
	SQLitePath string `yaml:"sqlite_path"`
}

// Validate validates the store configuration.
func (c *StoreConfig) Validate() error {
	if c.Driver == "" {
		c.Driver = StoreDriverSQLite
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Driver, validation.Required, validation.In(StoreDriverSQLite, StoreDriverMemory)),
		validation.Field(&c.SQLitePath, validation.When(c.Driver == StoreDriverSQLite, validation.Required)),
	)
}

// MockConfig injects latency and failures into the memory store. Both are off by default.
type MockConfig struct {
	Latency     time.Duration `yaml:"latency"`
	FailureRate float64       `yaml:"failure_rate"`
}

// Validate validates the mock configuration.
func (c *MockConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Latency, validation.Min(time.Duration(0)), validation.Max(time.Minute)),
		validation.Field(&c.FailureRate, validation.Min(0.0), validation.Max(1.0)),
	)
}

// Enabled reports whether the memory store should be wrapped with fault injection.
func (c *MockConfig) Enabled() bool {
	return c.Latency > 0 || c.FailureRate > 0
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
//
// DefaultUser is the actor recorded when a request names none.
type AuthConfig struct {
	Mode        string `yaml:"mode"`
	Token       string `yaml:"token"`
	DefaultUser string `yaml:"default_user"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// AnalyticsConfig tunes metric status classification and checkpoint statistics.
type AnalyticsConfig struct {
	OnTrackRatio float64 `yaml:"on_track_ratio"`
	AtRiskRatio  float64 `yaml:"at_risk_ratio"`
	OutlierSigma float64 `yaml:"outlier_sigma"`
	TrendEpsilon float64 `yaml:"trend_epsilon"`
}

// Validate validates the analytics configuration.
func (c *AnalyticsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.OnTrackRatio, validation.Required, validation.Min(0.0)),
		validation.Field(&c.AtRiskRatio, validation.Required, validation.Min(0.0), validation.Max(c.OnTrackRatio)),
		validation.Field(&c.OutlierSigma, validation.Required, validation.Min(0.0)),
		validation.Field(&c.TrendEpsilon, validation.Min(0.0)),
	)
}

// Thresholds converts the configuration into analyzer thresholds.
func (c *AnalyticsConfig) Thresholds() metrics.Thresholds {
	return metrics.Thresholds{
		OnTrackRatio: c.OnTrackRatio,
		AtRiskRatio:  c.AtRiskRatio,
		OutlierSigma: c.OutlierSigma,
		TrendEpsilon: c.TrendEpsilon,
	}
}

// SeedConfig points at a directory of goal fixture files. An empty Path disables seeding.
type SeedConfig struct {
	Path     string        `yaml:"path"`
	Watch    bool          `yaml:"watch"`
	Debounce time.Duration `yaml:"debounce"`
}

// EventsConfig tunes the SSE broker.
type EventsConfig struct {
	// Throttle is the minimum gap between analytics events for one goal.
	Throttle time.Duration `yaml:"throttle"`
}

// Validate validates the events configuration.
func (c *EventsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Throttle, validation.Min(time.Duration(0))),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	th := metrics.DefaultThresholds()
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Store: StoreConfig{
			Driver:     StoreDriverSQLite,
			SQLitePath: "./goalpost.db",
		},
		Auth: AuthConfig{
			Mode:        AuthModeDisabled,
			DefaultUser: "current-user",
		},
		Analytics: AnalyticsConfig{
			OnTrackRatio: th.OnTrackRatio,
			AtRiskRatio:  th.AtRiskRatio,
			OutlierSigma: th.OutlierSigma,
			TrendEpsilon: th.TrendEpsilon,
		},
		Seed: SeedConfig{
			Debounce: 200 * time.Millisecond,
		},
		Events: EventsConfig{
			Throttle: 2 * time.Second,
		},
	}
}
