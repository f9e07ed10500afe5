package config

import (
	"time"

	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/entity"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/rules"
)

// Config holds all configuration for the application
type Config struct {
	Environment string            `mapstructure:"environment"`
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Logger      LoggerConfig      `mapstructure:"logger"`
	CreditRules CreditRulesConfig `mapstructure:"creditRules"`
	Ledger      LedgerConfig      `mapstructure:"ledger"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"readTimeout"`       // seconds
	WriteTimeout      time.Duration `mapstructure:"writeTimeout"`      // seconds
	IdleTimeout       time.Duration `mapstructure:"idleTimeout"`       // seconds
	ReadHeaderTimeout time.Duration `mapstructure:"readHeaderTimeout"` // seconds
	ShutdownTimeout   time.Duration `mapstructure:"shutdownTimeout"`   // seconds
}

// DatabaseConfig contains database connection settings.
// Driver "memory" selects the in-process store; anything else means postgres.
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"sslMode"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"` // minutes
	ConnMaxIdleTime time.Duration `mapstructure:"connMaxIdleTime"` // minutes
	RetryAttempts   int           `mapstructure:"retryAttempts"`
	RetryDelay      time.Duration `mapstructure:"retryDelay"` // seconds
}

// LoggerConfig contains logger settings
type LoggerConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CreditRulesConfig carries the business rules as decimal strings so the
// configuration file reads the way the amounts do on the wire
type CreditRulesConfig struct {
	MinimumBalance           string `mapstructure:"minimumBalance"`
	MaximumBalance           string `mapstructure:"maximumBalance"`
	MinimumTransaction       string `mapstructure:"minimumTransaction"`
	MaximumTransaction       string `mapstructure:"maximumTransaction"`
	LowBalanceThreshold      string `mapstructure:"lowBalanceThreshold"`
	CriticalBalanceThreshold string `mapstructure:"criticalBalanceThreshold"`
}

// LedgerConfig contains ledger processing settings
type LedgerConfig struct {
	MaxRetries int `mapstructure:"maxRetries"`
}

// Build parses the decimal strings into the domain rule set. Parsing errors
// here abort startup together with the rule engine's own validation.
func (c CreditRulesConfig) Build() (rules.CreditRules, error) {
	var (
		out rules.CreditRules
		err error
	)
	if out.MinimumBalance, err = entity.ParseCents(c.MinimumBalance); err != nil {
		return out, err
	}
	if out.MaximumBalance, err = entity.ParseCents(c.MaximumBalance); err != nil {
		return out, err
	}
	if out.MinimumTransaction, err = entity.ParseCents(c.MinimumTransaction); err != nil {
		return out, err
	}
	if out.MaximumTransaction, err = entity.ParseCents(c.MaximumTransaction); err != nil {
		return out, err
	}
	if out.LowBalanceThreshold, err = entity.ParseCents(c.LowBalanceThreshold); err != nil {
		return out, err
	}
	if out.CriticalBalanceThreshold, err = entity.ParseCents(c.CriticalBalanceThreshold); err != nil {
		return out, err
	}
	return out, nil
}
