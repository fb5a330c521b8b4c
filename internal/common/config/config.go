// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Database      DatabaseConfig          `mapstructure:"database"`
	Payments      PaymentsConfig          `mapstructure:"payments"`
	Settlement    SettlementConfig        `mapstructure:"settlement"`
	Sweep         SweepConfig             `mapstructure:"sweep"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	Logging       LoggingConfig           `mapstructure:"logging"`
	Notifications NotificationConfig      `mapstructure:"notifications"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses   []string `mapstructure:"addresses"`
	Username    string   `mapstructure:"username"`
	Password    string   `mapstructure:"password"`
	LedgerIndex string   `mapstructure:"ledger_index"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// PaymentsConfig holds settings for the payment gateway adapter.
type PaymentsConfig struct {
	BaseURL           string `mapstructure:"base_url"`
	APIKey            string `mapstructure:"api_key"`
	WebhookSecret     string `mapstructure:"webhook_secret"`
	Currency          string `mapstructure:"currency"`
	OnboardingRefresh string `mapstructure:"onboarding_refresh_url"`
	OnboardingReturn  string `mapstructure:"onboarding_return_url"`
	CheckoutSuccess   string `mapstructure:"checkout_success_url"`
	CheckoutCancel    string `mapstructure:"checkout_cancel_url"`
	Timeout           int    `mapstructure:"timeout"` // milliseconds
}

// SettlementConfig holds the money-movement policy knobs.
type SettlementConfig struct {
	// PlatformAccountID receives cancellation fees. Explicit configuration,
	// not a runtime "find the admin user" lookup.
	PlatformAccountID    string `mapstructure:"platform_account_id"`
	DepositThresholdDays int    `mapstructure:"deposit_threshold_days"` // 50% deposit beyond this
	RefundEarlyPercent   int    `mapstructure:"refund_early_percent"`   // >14 days out
	RefundMidPercent     int    `mapstructure:"refund_mid_percent"`     // 7..14 days out
	EventDedupeTTLHours  int    `mapstructure:"event_dedupe_ttl_hours"`
}

// SweepConfig holds settings for the auto-complete background task.
type SweepConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	IntervalMinutes   int  `mapstructure:"interval_minutes"`
	StalenessHours    int  `mapstructure:"staleness_hours"`
	CommissionPercent int  `mapstructure:"commission_percent"`
	MinAccountAgeDays int  `mapstructure:"min_account_age_days"`
	LockTTLMinutes    int  `mapstructure:"lock_ttl_minutes"`
	BatchLimit        int  `mapstructure:"batch_limit"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// NotificationConfig holds settings for notification delivery.
type NotificationConfig struct {
	Email struct {
		Enabled   bool   `mapstructure:"enabled"`
		FromEmail string `mapstructure:"from_email"`
	} `mapstructure:"email"`
	SMS struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"sms"`
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
