package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"

	"github.com/GriffinCanCode/ProgramFactory/internal/codec"
	"github.com/GriffinCanCode/ProgramFactory/internal/shared/types"
)

// Host runtime modes
const (
	ModeMemory = "memory"
	ModeRemote = "remote"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Factory   FactoryConfig
	Runtime   RuntimeConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP and gRPC listener configuration.
type ServerConfig struct {
	Port        string `envconfig:"PORT" default:"8000"`
	Host        string `envconfig:"HOST" default:"0.0.0.0"`
	GRPCPort    string `envconfig:"GRPC_PORT" default:"50061"`
	GRPCEnabled bool   `envconfig:"GRPC_ENABLED" default:"true"`
}

// FactoryConfig holds the one-time init message and actor tuning.
type FactoryConfig struct {
	CodeID        string   `envconfig:"FACTORY_CODE_ID"`
	Admins        []string `envconfig:"FACTORY_ADMINS"`
	GasForProgram uint64   `envconfig:"FACTORY_GAS_FOR_PROGRAM" default:"10000000000"`
	InitFile      string   `envconfig:"FACTORY_INIT_FILE"`
	MailboxSize   int      `envconfig:"FACTORY_MAILBOX_SIZE" default:"64"`
}

// RuntimeConfig holds host runtime configuration.
type RuntimeConfig struct {
	Mode           string        `envconfig:"HOST_MODE" default:"memory"`
	URL            string        `envconfig:"HOST_URL"`
	SpawnTimeout   time.Duration `envconfig:"HOST_SPAWN_TIMEOUT" default:"30s"`
	PollInterval   time.Duration `envconfig:"HOST_POLL_INTERVAL" default:"200ms"`
	AckDelay       time.Duration `envconfig:"HOST_ACK_DELAY" default:"0s"`
	MinGas         uint64        `envconfig:"HOST_MIN_GAS" default:"0"`
	StrictCodes    bool          `envconfig:"HOST_STRICT_CODES" default:"false"`
	BreakerEnabled bool          `envconfig:"HOST_BREAKER_ENABLED" default:"true"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
	// Components holds per-component overrides, e.g. "dispatch=debug,host=warn"
	Components string `envconfig:"LOG_COMPONENTS"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        "8000",
			Host:        "0.0.0.0",
			GRPCPort:    "50061",
			GRPCEnabled: true,
		},
		Factory: FactoryConfig{
			GasForProgram: 10_000_000_000,
			MailboxSize:   64,
		},
		Runtime: RuntimeConfig{
			Mode:           ModeMemory,
			SpawnTimeout:   30 * time.Second,
			PollInterval:   200 * time.Millisecond,
			BreakerEnabled: true,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}

// Validate checks cross-field constraints envconfig cannot express.
func (c *Config) Validate() error {
	switch c.Runtime.Mode {
	case ModeMemory:
	case ModeRemote:
		if c.Runtime.URL == "" {
			return fmt.Errorf("invalid config: HOST_URL is required when HOST_MODE=%s", ModeRemote)
		}
	default:
		return fmt.Errorf("invalid config: unknown HOST_MODE %q", c.Runtime.Mode)
	}
	if c.Runtime.SpawnTimeout < 0 {
		return fmt.Errorf("invalid config: negative HOST_SPAWN_TIMEOUT")
	}
	if c.Runtime.PollInterval <= 0 {
		return fmt.Errorf("invalid config: HOST_POLL_INTERVAL must be positive")
	}
	if c.Factory.MailboxSize < 0 {
		return fmt.Errorf("invalid config: negative FACTORY_MAILBOX_SIZE")
	}
	return nil
}

// InitMessage builds the factory init message. An init file, when set,
// replaces the environment values.
func (c *Config) InitMessage() (types.InitConfigFactory, error) {
	if c.Factory.InitFile != "" {
		return LoadInitFile(c.Factory.InitFile)
	}
	if c.Factory.CodeID == "" {
		return types.InitConfigFactory{}, fmt.Errorf("invalid config: FACTORY_CODE_ID or FACTORY_INIT_FILE is required")
	}

	admins := make([]string, 0, len(c.Factory.Admins))
	for _, a := range c.Factory.Admins {
		if a = strings.TrimSpace(a); a != "" {
			admins = append(admins, a)
		}
	}
	init, err := codec.InitWire{
		CodeID:              c.Factory.CodeID,
		FactoryAdminAccount: admins,
		GasForProgram:       c.Factory.GasForProgram,
	}.ToInit()
	if err != nil {
		return types.InitConfigFactory{}, fmt.Errorf("invalid factory config: %w", err)
	}
	return init, nil
}

// LoadInitFile reads an init document; the format follows the extension
// (.yaml, .yml, .toml or .json).
func LoadInitFile(path string) (types.InitConfigFactory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.InitConfigFactory{}, fmt.Errorf("failed to read init file: %w", err)
	}
	return ParseInitDocument(filepath.Ext(path), data)
}

// ParseInitDocument decodes an init document of the given extension
func ParseInitDocument(ext string, data []byte) (types.InitConfigFactory, error) {
	var w codec.InitWire
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &w); err != nil {
			return types.InitConfigFactory{}, fmt.Errorf("failed to parse yaml init file: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &w); err != nil {
			return types.InitConfigFactory{}, fmt.Errorf("failed to parse toml init file: %w", err)
		}
	case ".json":
		return codec.DecodeInit(data)
	default:
		return types.InitConfigFactory{}, fmt.Errorf("unsupported init file extension %q", ext)
	}
	init, err := w.ToInit()
	if err != nil {
		return types.InitConfigFactory{}, fmt.Errorf("invalid init file: %w", err)
	}
	return init, nil
}
