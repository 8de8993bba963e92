// Package config loads the dremio CLI configuration from defaults, a
// .dremio.yaml file, .env files, DREMIO_* environment variables and
// finally command-line flags.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/dremio/pkg/constants"
	"github.com/agentstation/dremio/pkg/errors"
)

// EnvPrefix prefixes every environment override, e.g. DREMIO_AUTH_USERNAME
// for auth.username.
const EnvPrefix = "DREMIO"

// Auth holds login settings.
type Auth struct {
	// Type is basic (username/password login), pat (personal access
	// token) or none.
	Type     string
	Username string
	Password string
	Token    string
}

// Config holds the application configuration.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Coordinator
	Hostname   string
	Port       int
	FlightPort int
	SSL        bool
	Verify     bool
	Auth       Auth

	Timeout      time.Duration
	PollInterval time.Duration
	RateLimit    float64

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("hostname", constants.DefaultHostname)
	v.SetDefault("port", constants.DefaultPort)
	v.SetDefault("flight.port", constants.DefaultFlightPort)
	v.SetDefault("ssl", false)
	v.SetDefault("verify", true)
	v.SetDefault("auth.type", constants.DefaultAuthType)
	v.SetDefault("auth.username", constants.DefaultUsername)
	v.SetDefault("auth.password", constants.DefaultPassword)
	v.SetDefault("auth.token", "")
	v.SetDefault("timeout", constants.DefaultTimeout)
	v.SetDefault("poll_interval", constants.DefaultPollInterval)
	v.SetDefault("rate_limit", constants.DefaultRateLimit)
	v.SetDefault("log.level", "")
	v.SetDefault("log.format", "auto")
	v.SetDefault("log.output", "stderr")
}

// Load reads configuration in order of precedence:
//  1. Command-line flags (applied later with UpdateFromFlags)
//  2. Environment variables (DREMIO_*)
//  3. .env files
//  4. Config file (configFile, or .dremio.yaml in $HOME or the working directory)
//  5. Defaults
func Load(configFile string) (*Config, error) {
	// .env first so its values are visible to the env binding
	loadEnvFiles()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".dremio")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, errors.NewConfigError("file", "reading config", err)
		}
	}

	cfg := &Config{
		ConfigFile: v.ConfigFileUsed(),

		Hostname:   v.GetString("hostname"),
		Port:       v.GetInt("port"),
		FlightPort: v.GetInt("flight.port"),
		SSL:        v.GetBool("ssl"),
		Verify:     v.GetBool("verify"),
		Auth: Auth{
			Type:     strings.ToLower(v.GetString("auth.type")),
			Username: v.GetString("auth.username"),
			Password: v.GetString("auth.password"),
			Token:    v.GetString("auth.token"),
		},

		Timeout:      v.GetDuration("timeout"),
		PollInterval: v.GetDuration("poll_interval"),
		RateLimit:    v.GetFloat64("rate_limit"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", v.GetString("log.level")),
		LogFormat: getEnvOrDefault("LOG_FORMAT", v.GetString("log.format")),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", v.GetString("log.output")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that would otherwise fail far from their source.
func (c *Config) Validate() error {
	if c.Hostname == "" {
		return errors.NewValidationError("hostname", c.Hostname, "must not be empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return errors.NewValidationError("port", c.Port, "must be between 1 and 65535")
	}
	if c.FlightPort < 0 || c.FlightPort > 65535 {
		return errors.NewValidationError("flight.port", c.FlightPort, "must be between 0 and 65535")
	}
	switch c.Auth.Type {
	case "basic", "pat", "none":
	default:
		return errors.NewValidationError("auth.type", c.Auth.Type, "must be one of: basic, pat, none")
	}
	if c.Auth.Type == "pat" && c.Auth.Token == "" {
		return errors.NewValidationError("auth.token", "", "required when auth.type is pat")
	}
	if c.PollInterval <= 0 {
		return errors.NewValidationError("poll_interval", c.PollInterval, "must be positive")
	}
	return nil
}

// UpdateFromFlags applies parsed command flags. Empty strings leave the
// loaded values alone.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// BaseURL is the coordinator REST root.
func (c *Config) BaseURL() string {
	scheme := "http"
	if c.SSL {
		scheme = "https"
	}
	return scheme + "://" + net.JoinHostPort(c.Hostname, strconv.Itoa(c.Port))
}

// String renders the configuration with secrets redacted.
func (c *Config) String() string {
	return fmt.Sprintf("hostname=%s port=%d flight.port=%d ssl=%t verify=%t auth.type=%s auth.username=%s auth.password=%s auth.token=%s timeout=%s poll_interval=%s",
		c.Hostname, c.Port, c.FlightPort, c.SSL, c.Verify,
		c.Auth.Type, c.Auth.Username, redact(c.Auth.Password), redact(c.Auth.Token),
		c.Timeout, c.PollInterval)
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	return "****"
}

// loadEnvFiles loads .env then .env.local. Existing variables win.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
