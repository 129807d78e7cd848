package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the trader daemon configuration
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Pool         PoolConfig         `mapstructure:"pool"`
	ChainData    ChainDataConfig    `mapstructure:"chain_data"`
	Confirmation ConfirmationConfig `mapstructure:"confirmation"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// PoolConfig contains privacy-pool provider settings
type PoolConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	NetworkID      uint64        `mapstructure:"network_id"`

	// LocalDerivation switches incognito address derivation to the
	// in-process deriver instead of the provider's derive endpoint.
	LocalDerivation bool `mapstructure:"local_derivation"`
}

// ChainDataConfig contains chain-data provider settings.
// An empty RPCURL disables direct chain reads; the aggregator then
// reports only pool-side balances.
type ChainDataConfig struct {
	RPCURL string `mapstructure:"rpc_url"`
}

// ConfirmationConfig contains operation confirmation settings.
// MaxWait bounds how long a confirmation wait may block; PollInterval
// is the fixed interval between status queries.
type ConfirmationConfig struct {
	MaxWait      time.Duration `mapstructure:"max_wait"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

// DatabaseConfig contains operation-journal database settings.
// An empty host disables journaling.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

// Enabled reports whether an operation journal database is configured.
func (c *DatabaseConfig) Enabled() bool {
	return c.Host != ""
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8085)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "2m")
	viper.SetDefault("server.idle_timeout", "60s")
	viper.SetDefault("server.shutdown_timeout", "30s")

	// Pool provider defaults
	viper.SetDefault("pool.request_timeout", "30s")
	viper.SetDefault("pool.network_id", 1)
	viper.SetDefault("pool.local_derivation", false)

	// Confirmation defaults match the pool's expected indexing latency.
	viper.SetDefault("confirmation.max_wait", "70s")
	viper.SetDefault("confirmation.poll_interval", "2s")

	// Database defaults
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("database.database", "trader_journal")

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.output_path", "stdout")
}

func validate(config *Config) error {
	if config.Pool.BaseURL == "" {
		return fmt.Errorf("pool.base_url is required")
	}
	if config.Pool.NetworkID == 0 {
		return fmt.Errorf("pool.network_id is required")
	}
	if config.Confirmation.MaxWait <= 0 {
		return fmt.Errorf("confirmation.max_wait must be positive")
	}
	if config.Confirmation.PollInterval <= 0 {
		return fmt.Errorf("confirmation.poll_interval must be positive")
	}
	return nil
}
