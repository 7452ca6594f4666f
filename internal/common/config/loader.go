package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"defi-strategy-agent/internal/common/errors"
)

func Load() (*Config, error) {
	loadEnvFile()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable env overrides like PROTOCOL_WALLET_PRIVATE_KEY.
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment-specific overlay, ignored when absent.
	viper.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = viper.MergeInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideFromEnv(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "defi-strategy-agent"
	}
	if cfg.Protocol.RequestTimeout == 0 {
		cfg.Protocol.RequestTimeout = 30000
	}
	if cfg.Protocol.ConnectionTimeout == 0 {
		cfg.Protocol.ConnectionTimeout = 10000
	}
	if cfg.Protocol.MaxRetries == 0 {
		cfg.Protocol.MaxRetries = 3
	}
	if cfg.Protocol.HeartbeatSeconds == 0 {
		cfg.Protocol.HeartbeatSeconds = 600
	}
	if cfg.Catalog.ListenAddr == "" {
		cfg.Catalog.ListenAddr = ":8080"
	}
	if cfg.Catalog.MetricsAddr == "" {
		cfg.Catalog.MetricsAddr = ":9090"
	}
	if cfg.Registry.Path == "" {
		cfg.Registry.Path = "configs/registry.json"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

// overrideFromEnv covers secrets that are only ever supplied through the
// environment and may not appear in any yaml file.
func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("PROTOCOL_WALLET_PRIVATE_KEY"); v != "" {
		cfg.Protocol.WalletPrivateKey = v
	}
	if v := os.Getenv("PROTOCOL_AGENT_ADDRESS"); v != "" {
		cfg.Protocol.AgentAddress = v
	}
	if v := os.Getenv("PROTOCOL_GATEWAY_URL"); v != "" {
		cfg.Protocol.GatewayURL = v
	}
}

// validateConfig enforces the only fatal startup condition: the agent must
// hold its protocol identity before it can negotiate anything.
func validateConfig(cfg *Config) error {
	if cfg.Protocol.AgentAddress == "" {
		return errors.NewCredentialsMissingError("protocol.agent_address")
	}
	if cfg.Protocol.WalletPrivateKey == "" {
		return errors.NewCredentialsMissingError("protocol.wallet_private_key")
	}
	if cfg.Protocol.GatewayURL == "" {
		return errors.NewCredentialsMissingError("protocol.gateway_url")
	}
	return nil
}
