package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// ServerConfig holds HTTP/MCP server configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	MCPPort      int    `mapstructure:"mcp_port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // in seconds
}

// ChainConfig holds the EVM node and contract wiring. Only the delegation
// contract address is configured; the accounts and WCHI contracts are
// discovered from it at startup.
type ChainConfig struct {
	RPCURL             string        `mapstructure:"rpc_url"`
	DelegationContract string        `mapstructure:"delegation_contract"`
	CallTimeout        time.Duration `mapstructure:"call_timeout"`
}

// IndexConfig holds the stats subgraph wiring
type IndexConfig struct {
	URL                string        `mapstructure:"url"`
	QueryTimeout       time.Duration `mapstructure:"query_timeout"`
	PageSize           int           `mapstructure:"page_size"`
	RequestsPerSecond  float64       `mapstructure:"requests_per_second"`
	Burst              int           `mapstructure:"burst"`
	StalenessThreshold uint64        `mapstructure:"staleness_threshold"` // in blocks
}

// ResolverConfig holds the aggregation core tuning knobs
type ResolverConfig struct {
	SubQueryTimeout time.Duration `mapstructure:"subquery_timeout"`
	RetryAttempts   int           `mapstructure:"retry_attempts"` // per sub-query type, on top of the first attempt
	RetryBackoff    time.Duration `mapstructure:"retry_backoff"`
	PoolSize        int           `mapstructure:"pool_size"`
	QueueSize       int           `mapstructure:"queue_size"`
}

// AuthConfig holds authentication configuration for the REST mirror
type AuthConfig struct {
	JWTPublicKey string   `mapstructure:"jwt_public_key"`
	APIKeys      []string `mapstructure:"api_keys"`
}

// Config is the process-wide configuration, loaded once and immutable
// thereafter.
type Config struct {
	BaseConfig `mapstructure:",squash"`
	Server     ServerConfig   `mapstructure:"server"`
	Chain      ChainConfig    `mapstructure:"chain"`
	Index      IndexConfig    `mapstructure:"index"`
	Resolver   ResolverConfig `mapstructure:"resolver"`
	Auth       AuthConfig     `mapstructure:"auth"`
}

// Load loads the server configuration from config file and environment
func Load(configFile string, envPath string) (*Config, error) {
	v := configureViper(configFile, envPath)

	// Set defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mcp_port", 8000)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("chain.call_timeout", "10s")
	v.SetDefault("index.query_timeout", "15s")
	v.SetDefault("index.page_size", 10)
	v.SetDefault("index.requests_per_second", 20)
	v.SetDefault("index.burst", 40)
	v.SetDefault("index.staleness_threshold", 30)
	v.SetDefault("resolver.subquery_timeout", "10s")
	v.SetDefault("resolver.retry_attempts", 1)
	v.SetDefault("resolver.retry_backoff", "500ms")
	v.SetDefault("resolver.pool_size", 64)
	v.SetDefault("resolver.queue_size", 1024)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// Config file not found, use environment variables
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the required fields. Malformed configuration is fatal at
// startup, never a runtime condition.
func (c *Config) Validate() error {
	if c.Chain.RPCURL == "" {
		return errors.New("chain.rpc_url is required")
	}
	if c.Chain.DelegationContract == "" {
		return errors.New("chain.delegation_contract is required")
	}
	if !common.IsHexAddress(c.Chain.DelegationContract) {
		return fmt.Errorf("chain.delegation_contract is not a valid address: %s", c.Chain.DelegationContract)
	}
	if c.Index.URL == "" {
		return errors.New("index.url is required")
	}
	if c.Index.PageSize <= 0 {
		return errors.New("index.page_size must be positive")
	}
	if c.Resolver.RetryAttempts < 0 {
		return errors.New("resolver.retry_attempts must not be negative")
	}
	return nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(configFile string, envPath string) *viper.Viper {
	v := viper.New()

	loadEnv(envPath)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("config/")
	}

	v.SetEnvPrefix("XAYA_MCP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		// Server
		"server.host",
		"server.port",
		"server.mcp_port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		// Chain
		"chain.rpc_url",
		"chain.delegation_contract",
		"chain.call_timeout",
		// Index
		"index.url",
		"index.query_timeout",
		"index.page_size",
		"index.requests_per_second",
		"index.burst",
		"index.staleness_threshold",
		// Resolver
		"resolver.subquery_timeout",
		"resolver.retry_attempts",
		"resolver.retry_backoff",
		"resolver.pool_size",
		"resolver.queue_size",
		// Auth
		"auth.jwt_public_key",
		"auth.api_keys",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string) {
	envFiles := []string{".env", ".env.local"}

	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // Overload lets later files override earlier ones
	}
}
