// Package config loads and validates the server configuration.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Config holds the complete application configuration.
type Config struct {
	Application ApplicationConfig
	Logging     LoggingConfig
	Server      ServerConfig
	Ledger      LedgerConfig
	Storage     StorageConfig
	Auth        AuthConfig
	Payment     PaymentConfig
	WorkerPool  WorkerPoolConfig
	Kafka       KafkaConfig
	Reminder    ReminderConfig
}

// ApplicationConfig contains general application configuration
type ApplicationConfig struct {
	Env string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Port            int           // Port to listen on
	ShutdownTimeout time.Duration // Grace period for server shutdown
	ReadTimeout     time.Duration // Maximum duration for reading entire request
	WriteTimeout    time.Duration // Maximum duration for writing response
	IdleTimeout     time.Duration // Maximum duration to wait for next request
	StaticPath      string        // Directory served at /
}

// LedgerConfig describes the session's participants.
type LedgerConfig struct {
	Roster    []string          // Display names, in roster order
	Addresses map[string]string // Wallet address per display name
}

const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
)

// StorageConfig selects the storage backend
type StorageConfig struct {
	Driver string
	DBPath string
}

// AuthConfig contains session token settings
type AuthConfig struct {
	JWTSecret         string
	JWTTTL            time.Duration
	SessionPassphrase string
}

// PaymentConfig points at the payments gateway
type PaymentConfig struct {
	GatewayURL   string
	APIKey       string
	Timeout      time.Duration
	DefaultChain string
}

// WorkerPoolConfig contains worker pool configuration
type WorkerPoolConfig struct {
	Size int // Maximum number of concurrent payments in a bulk settlement
}

// KafkaConfig contains Kafka configuration. Publishing is disabled when
// Brokers is empty.
type KafkaConfig struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
}

// ReminderConfig contains the debt reminder schedule
type ReminderConfig struct {
	Enabled  bool
	Schedule string
}

// validate checks every value and reports all problems at once.
func (c *Config) validate() error {
	var validationErrors []string

	if c.Server.Port <= 0 {
		validationErrors = append(validationErrors, "SERVER_PORT must be greater than 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_SHUTDOWN_TIMEOUT must be greater than 0")
	}
	if c.Server.ReadTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_READ_TIMEOUT must be greater than 0")
	}
	if c.Server.WriteTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_WRITE_TIMEOUT must be greater than 0")
	}
	if c.Server.IdleTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_IDLE_TIMEOUT must be greater than 0")
	}

	if len(c.Ledger.Roster) == 0 {
		validationErrors = append(validationErrors, "ROSTER must name at least one participant")
	}
	seen := make(map[string]bool, len(c.Ledger.Roster))
	for _, name := range c.Ledger.Roster {
		if seen[name] {
			validationErrors = append(validationErrors, fmt.Sprintf("ROSTER contains duplicate name %q", name))
		}
		seen[name] = true
	}
	for name := range c.Ledger.Addresses {
		if !seen[name] {
			validationErrors = append(validationErrors, fmt.Sprintf("ADDRESSES names %q who is not in ROSTER", name))
		}
	}

	switch c.Storage.Driver {
	case StorageMemory:
	case StorageSQLite:
		if c.Storage.DBPath == "" {
			validationErrors = append(validationErrors, "DB_PATH is required when STORAGE_DRIVER is sqlite")
		}
	default:
		validationErrors = append(validationErrors, fmt.Sprintf("STORAGE_DRIVER must be %q or %q", StorageMemory, StorageSQLite))
	}

	if c.Auth.JWTSecret == "" {
		validationErrors = append(validationErrors, "JWT_SECRET is required")
	} else if c.Application.Env == "production" && len(c.Auth.JWTSecret) < 32 {
		validationErrors = append(validationErrors, "JWT_SECRET must be at least 32 characters in production")
	}
	if c.Auth.JWTTTL <= 0 {
		validationErrors = append(validationErrors, "JWT_TTL must be greater than 0")
	}
	if c.Auth.SessionPassphrase == "" {
		validationErrors = append(validationErrors, "SESSION_PASSPHRASE is required")
	}

	if c.Payment.GatewayURL == "" {
		validationErrors = append(validationErrors, "PAYMENT_GATEWAY_URL is required")
	}
	if c.Payment.Timeout <= 0 {
		validationErrors = append(validationErrors, "PAYMENT_TIMEOUT must be greater than 0")
	}

	if c.WorkerPool.Size <= 0 {
		validationErrors = append(validationErrors, "WORKER_POOL_SIZE must be greater than 0")
	}

	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		validationErrors = append(validationErrors, "KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}

	if c.Reminder.Enabled {
		if _, err := cron.ParseStandard(c.Reminder.Schedule); err != nil {
			validationErrors = append(validationErrors, fmt.Sprintf("REMINDER_SCHEDULE is invalid: %v", err))
		}
	}

	if len(validationErrors) > 0 {
		return errors.New(strings.Join(validationErrors, ", "))
	}

	return nil
}
