/**
 * @description
 * This package handles the configuration management for the service. It uses the
 * Viper library to read configuration from environment variables, providing a
 * centralized and straightforward way to manage application settings.
 *
 * @dependencies
 * - github.com/spf13/viper: A popular library for Go application configuration.
 */

package config

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/givechain/donation-service/internal/domain"
)

// Config holds all the configuration variables for the donation-service.
// These values are loaded from environment variables.
type Config struct {
	ServerPort      string `mapstructure:"SERVER_PORT"`
	DatabaseURL     string `mapstructure:"DATABASE_URL"`
	RedisURL        string `mapstructure:"REDIS_URL"`
	RedisKeyPrefix  string `mapstructure:"REDIS_KEY_PREFIX"`
	RabbitMQURL     string `mapstructure:"RABBITMQ_URL"`
	InternalAPIKey  string `mapstructure:"INTERNAL_API_KEY"`
	ChainRPCURL     string `mapstructure:"CHAIN_RPC_URL"`
	ChainID         int64  `mapstructure:"CHAIN_ID"`
	ChainName       string `mapstructure:"CHAIN_NAME"`
	CurrencyName    string `mapstructure:"CURRENCY_NAME"`
	CurrencySymbol  string `mapstructure:"CURRENCY_SYMBOL"`
	ExplorerURL     string `mapstructure:"EXPLORER_URL"`
	ContractAddress string `mapstructure:"CONTRACT_ADDRESS"`
	WalletKeyHex    string `mapstructure:"WALLET_PRIVATE_KEY"`
}

// LoadConfig reads configuration from environment variables from the given path.
// It uses Viper to automatically bind environment variables to the Config struct.
func LoadConfig(path string) (config Config, err error) {
	// Tell viper the path to look for the optional .env file.
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	// Enable automatic binding of environment variables.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("REDIS_KEY_PREFIX", "givechain")
	viper.SetDefault("CHAIN_RPC_URL", "https://dream-rpc.somnia.network")
	viper.SetDefault("CHAIN_ID", 50312)
	viper.SetDefault("CHAIN_NAME", "Somnia Shannon Testnet")
	viper.SetDefault("CURRENCY_NAME", "Somnia Test Token")
	viper.SetDefault("CURRENCY_SYMBOL", "STT")
	viper.SetDefault("EXPLORER_URL", "https://shannon-explorer.somnia.network")

	// Bind environment variables explicitly to ensure they appear in Unmarshal
	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("PORT")
	_ = viper.BindEnv("DATABASE_URL")
	_ = viper.BindEnv("REDIS_URL")
	_ = viper.BindEnv("REDIS_KEY_PREFIX")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("INTERNAL_API_KEY", "INTERNAL_API_KEY", "DONATION_SERVICE_INTERNAL_API_KEY")
	_ = viper.BindEnv("CHAIN_RPC_URL")
	_ = viper.BindEnv("CHAIN_ID")
	_ = viper.BindEnv("CHAIN_NAME")
	_ = viper.BindEnv("CURRENCY_NAME")
	_ = viper.BindEnv("CURRENCY_SYMBOL")
	_ = viper.BindEnv("EXPLORER_URL")
	_ = viper.BindEnv("CONTRACT_ADDRESS")
	_ = viper.BindEnv("WALLET_PRIVATE_KEY")

	// Attempt to read the config file. It's okay if it doesn't exist.
	if err = viper.ReadInConfig(); err != nil {
		// If the config file is not found, we can ignore the error.
		// For other errors, we should return them.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("level=warn component=config msg=\"failed to read config file; using environment values\" err=%v", err)
		}
	}

	// Unmarshal the configuration into the Config struct.
	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		config.ServerPort = port
	}
	if strings.TrimSpace(config.InternalAPIKey) == "" {
		config.InternalAPIKey = strings.TrimSpace(os.Getenv("DONATION_SERVICE_INTERNAL_API_KEY"))
	}
	config.RedisURL = strings.TrimSpace(config.RedisURL)
	config.RedisKeyPrefix = strings.TrimSpace(config.RedisKeyPrefix)
	if config.RedisKeyPrefix == "" {
		config.RedisKeyPrefix = "givechain"
	}
	config.ContractAddress = strings.TrimSpace(config.ContractAddress)
	config.WalletKeyHex = strings.TrimSpace(strings.TrimPrefix(config.WalletKeyHex, "0x"))

	if config.ChainID <= 0 {
		log.Printf("level=warn component=config msg=\"invalid chain id configured; using default\" chain_id=%d", config.ChainID)
		config.ChainID = 50312
	}

	return
}

// TargetChain assembles the full descriptor for the configured donation chain,
// in the shape wallet providers expect when registering a new network.
func (c Config) TargetChain() domain.ChainDescriptor {
	return domain.ChainDescriptor{
		ChainID: c.ChainID,
		Name:    c.ChainName,
		NativeCurrency: domain.NativeCurrency{
			Name:     c.CurrencyName,
			Symbol:   c.CurrencySymbol,
			Decimals: 18,
		},
		RPCURLs:      []string{c.ChainRPCURL},
		ExplorerURLs: []string{c.ExplorerURL},
	}
}
