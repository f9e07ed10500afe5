package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment constants
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// ConfigPaths defines the paths to look for config files
var ConfigPaths = []string{
	"./configs",
	"../configs",
	"../../configs",
}

// DotEnvPaths defines the paths to look for .env files
var DotEnvPaths = []string{
	".env",
	"./configs/.env",
	"../configs/.env",
}

// LoadConfig loads configuration for the current environment. A missing
// config file is not fatal: defaults plus environment variables are enough to
// run with the memory driver.
func LoadConfig() (*Config, error) {
	loadDotEnvFile()

	env := getEnvironment()

	v := viper.New()
	v.SetConfigName(env)
	v.SetConfigType("yaml")
	for _, path := range ConfigPaths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Environment variables override file values
	v.SetEnvPrefix("CL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	processEnvOverrides(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	config.Environment = env

	processDurations(&config)

	return &config, nil
}

// loadDotEnvFile attempts to load environment variables from .env files
func loadDotEnvFile() {
	for _, path := range DotEnvPaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// setDefaults sets default values for non-critical configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", 15)       // seconds
	v.SetDefault("server.writeTimeout", 15)      // seconds
	v.SetDefault("server.idleTimeout", 60)       // seconds
	v.SetDefault("server.readHeaderTimeout", 10) // seconds
	v.SetDefault("server.shutdownTimeout", 10)   // seconds

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 100)
	v.SetDefault("database.maxIdleConns", 50)
	v.SetDefault("database.connMaxLifetime", 30) // minutes
	v.SetDefault("database.connMaxIdleTime", 15) // minutes
	v.SetDefault("database.retryAttempts", 3)
	v.SetDefault("database.retryDelay", 1) // seconds

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")

	// Credit rules: decimal strings, validated again by the rule engine
	v.SetDefault("creditRules.minimumBalance", "0.00")
	v.SetDefault("creditRules.maximumBalance", "100000.00")
	v.SetDefault("creditRules.minimumTransaction", "0.01")
	v.SetDefault("creditRules.maximumTransaction", "10000.00")
	v.SetDefault("creditRules.lowBalanceThreshold", "10.00")
	v.SetDefault("creditRules.criticalBalanceThreshold", "2.00")

	v.SetDefault("ledger.maxRetries", 3)
}

// getEnvironment determines the environment based on CL_ENV
func getEnvironment() string {
	env := os.Getenv("CL_ENV")
	if env == "" {
		env = Development
	}
	return strings.ToLower(env)
}

// processEnvOverrides prioritizes sensitive environment variables over file values
func processEnvOverrides(v *viper.Viper) {
	overrides := map[string]string{
		"CL_DB_DRIVER":   "database.driver",
		"CL_DB_HOST":     "database.host",
		"CL_DB_PORT":     "database.port",
		"CL_DB_USERNAME": "database.username",
		"CL_DB_PASSWORD": "database.password",
		"CL_DB_NAME":     "database.database",
		"CL_DB_SSL_MODE": "database.sslMode",
	}
	for envKey, configKey := range overrides {
		if value := os.Getenv(envKey); value != "" {
			v.Set(configKey, value)
		}
	}
}

// processDurations converts the raw numeric values into time.Duration fields
func processDurations(config *Config) {
	const (
		second = 1_000_000_000
		minute = 60 * second
	)
	config.Server.ReadTimeout *= second
	config.Server.WriteTimeout *= second
	config.Server.IdleTimeout *= second
	config.Server.ReadHeaderTimeout *= second
	config.Server.ShutdownTimeout *= second
	config.Database.ConnMaxLifetime *= minute
	config.Database.ConnMaxIdleTime *= minute
	config.Database.RetryDelay *= second
}
