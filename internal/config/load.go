package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// LoadConfig loads configuration from a .env file using the provided base name,
// looked up in ./configs then the working directory. A missing file is fine;
// defaults and environment variables still apply.
func LoadConfig(configName string) (*Config, error) {
	return loadConfig(fmt.Sprintf("%s.env", configName), "env")
}

// loadConfig layers configuration:
// 1. Load defaults
// 2. Override with config file values (if found)
// 3. Override with environment variables
// 4. Validate the final configuration
func loadConfig(configName, configType string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(configName)
	if configType != "" {
		v.SetConfigType(configType)
	}

	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Debug("No config file found, relying on environment variables and defaults", "name", configName)
		} else {
			slog.Warn("Error reading config file", "file", v.ConfigFileUsed(), "error", err)
		}
	} else {
		slog.Debug("Loaded config file", "file", v.ConfigFileUsed())
	}

	v.AutomaticEnv()

	config := &Config{
		Application: ApplicationConfig{
			Env: v.GetString("APP_ENV"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Server: ServerConfig{
			Port:            v.GetInt("SERVER_PORT"),
			ShutdownTimeout: v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
			ReadTimeout:     v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:     v.GetDuration("SERVER_IDLE_TIMEOUT"),
			StaticPath:      v.GetString("STATIC_PATH"),
		},
		Ledger: LedgerConfig{
			Roster:    splitList(v.GetString("ROSTER")),
			Addresses: parseAddresses(v.GetString("ADDRESSES")),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(v.GetString("STORAGE_DRIVER")),
			DBPath: v.GetString("DB_PATH"),
		},
		Auth: AuthConfig{
			JWTSecret:         v.GetString("JWT_SECRET"),
			JWTTTL:            v.GetDuration("JWT_TTL"),
			SessionPassphrase: v.GetString("SESSION_PASSPHRASE"),
		},
		Payment: PaymentConfig{
			GatewayURL:   v.GetString("PAYMENT_GATEWAY_URL"),
			APIKey:       v.GetString("PAYMENT_API_KEY"),
			Timeout:      v.GetDuration("PAYMENT_TIMEOUT"),
			DefaultChain: v.GetString("PAYMENT_DEFAULT_CHAIN"),
		},
		WorkerPool: WorkerPoolConfig{
			Size: v.GetInt("WORKER_POOL_SIZE"),
		},
		Kafka: KafkaConfig{
			Brokers:      splitList(v.GetString("KAFKA_BROKERS")),
			Topic:        v.GetString("KAFKA_TOPIC"),
			WriteTimeout: v.GetDuration("KAFKA_WRITE_TIMEOUT"),
		},
		Reminder: ReminderConfig{
			Enabled:  v.GetBool("REMINDER_ENABLED"),
			Schedule: v.GetString("REMINDER_SCHEDULE"),
		},
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults initializes configuration with development-friendly values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 15*time.Second)
	v.SetDefault("SERVER_READ_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 60*time.Second)
	v.SetDefault("SERVER_IDLE_TIMEOUT", 120*time.Second)
	v.SetDefault("STATIC_PATH", "./web/static")

	v.SetDefault("ROSTER", "")
	v.SetDefault("ADDRESSES", "")

	// memory keeps the ledger for the life of the process only
	v.SetDefault("STORAGE_DRIVER", StorageMemory)
	v.SetDefault("DB_PATH", "./data/arcwise.db")

	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_TTL", 24*time.Hour)
	v.SetDefault("SESSION_PASSPHRASE", "")

	v.SetDefault("PAYMENT_GATEWAY_URL", "http://localhost:8090")
	v.SetDefault("PAYMENT_API_KEY", "")
	v.SetDefault("PAYMENT_TIMEOUT", 30*time.Second)
	v.SetDefault("PAYMENT_DEFAULT_CHAIN", "")

	v.SetDefault("WORKER_POOL_SIZE", 4)

	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "arcwise-events")
	v.SetDefault("KAFKA_WRITE_TIMEOUT", 10*time.Second)

	v.SetDefault("REMINDER_ENABLED", true)
	v.SetDefault("REMINDER_SCHEDULE", "0 9 * * *")
}

// splitList parses "a, b ,c" into [a b c], dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseAddresses parses "Alice=0xabc,Bob=0xdef". Entries without "=" are ignored.
func parseAddresses(raw string) map[string]string {
	out := make(map[string]string)
	for _, entry := range splitList(raw) {
		name, addr, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		name, addr = strings.TrimSpace(name), strings.TrimSpace(addr)
		if name != "" && addr != "" {
			out[name] = addr
		}
	}
	return out
}
