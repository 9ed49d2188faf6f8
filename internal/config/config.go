package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	SMTP     SMTPConfig     `yaml:"smtp"`
	Loan     LoanConfig     `yaml:"loan"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr      string `yaml:"addr"       env:"SERVER_ADDR"      env-default:":8080"`
	AdminUser string `yaml:"admin_user" env:"SERVER_ADMIN_USER" env-default:"Admin"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path string `yaml:"path" env:"DATABASE_PATH" env-default:"oprema.sqlite3"`
}

// SMTPConfig holds the process-default mail transport. When Host is empty no
// default transport exists and reminder cycles are skipped unless an operator
// has configured a custom one.
type SMTPConfig struct {
	Host     string `yaml:"host"     env:"SMTP_HOST"`
	Port     int    `yaml:"port"     env:"SMTP_PORT"     env-default:"587"`
	Username string `yaml:"username" env:"SMTP_USERNAME"`
	Password string `yaml:"password" env:"SMTP_PASSWORD"`
	UseTLS   bool   `yaml:"use_tls"  env:"SMTP_USE_TLS"  env-default:"true"`
}

// LoanConfig holds the loan and reminder defaults. Operator-saved settings
// override the cron expression and lead days at runtime.
type LoanConfig struct {
	ReminderEnabled      bool   `yaml:"reminder_enabled"       env:"LOAN_REMINDER_ENABLED"       env-default:"true"`
	DefaultDurationDays  int    `yaml:"default_duration_days"  env:"LOAN_DEFAULT_DURATION_DAYS"  env-default:"30"`
	ReminderCron         string `yaml:"reminder_cron"          env:"LOAN_REMINDER_CRON"          env-default:"0 9 * * MON"`
	ReminderCooldownDays int    `yaml:"reminder_cooldown_days" env:"LOAN_REMINDER_COOLDOWN_DAYS" env-default:"7"`
	ReminderLeadDays     int    `yaml:"reminder_lead_days"     env:"LOAN_REMINDER_LEAD_DAYS"     env-default:"7"`
	ReminderEmailFrom    string `yaml:"reminder_email_from"    env:"LOAN_REMINDER_EMAIL_FROM"    env-default:"no-reply@oprema.local"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Path string `yaml:"path" env:"LOG_PATH"`
}

// Load reads configuration from a YAML file and environment variables.
// Priority: ENV > YAML > defaults (via env-default tags).
// The YAML file path is determined by CONFIG_PATH env (fallback "./config.yaml").
// If the file does not exist and CONFIG_PATH was not set explicitly,
// configuration is loaded from ENV + defaults only.
func Load() (*Config, error) {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	explicitPath := path != ""
	if !explicitPath {
		path = "./config.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else {
		// No file, load from ENV + defaults only.
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Loan.DefaultDurationDays < 1 {
		return fmt.Errorf("loan default_duration_days must be >= 1")
	}
	if c.Loan.ReminderCooldownDays < 1 {
		return fmt.Errorf("loan reminder_cooldown_days must be >= 1")
	}
	return nil
}
