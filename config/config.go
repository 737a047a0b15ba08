package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Booking  BookingConfig  `yaml:"booking"`
	Worker   WorkerConfig   `yaml:"worker"`
	Log      LogConfig      `yaml:"log"`
}

type HTTPConfig struct {
	Address         string `yaml:"address"`
	SwaggerDir      string `yaml:"swagger_dir"`
	ShutdownSeconds int    `yaml:"shutdown_seconds"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// RedisConfig leaves Addr empty to run without the option cache.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// KafkaConfig leaves Brokers empty to run without event publishing.
type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingEventsTopic string   `yaml:"booking_events_topic"`
	GroupID            string   `yaml:"group_id"`
}

type BookingConfig struct {
	OptionsCacheTTL  int `yaml:"options_cache_ttl_seconds"`
	TxRetryAttempts  int `yaml:"tx_retry_attempts"`
	TxRetryDelayMS   int `yaml:"tx_retry_delay_ms"`
	IDRetryAttempts  int `yaml:"id_retry_attempts"`
	RecentBookingsNr int `yaml:"recent_bookings"`
}

func (b BookingConfig) CacheTTL() time.Duration {
	return time.Duration(b.OptionsCacheTTL) * time.Second
}

func (b BookingConfig) TxRetryDelay() time.Duration {
	return time.Duration(b.TxRetryDelayMS) * time.Millisecond
}

type WorkerConfig struct {
	AuditIntervalMinutes int `yaml:"audit_interval_minutes"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Path returns CONFIG_PATH or config.yaml.
func Path() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config.yaml"
}

func (c *Config) ApplyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.HTTP.ShutdownSeconds == 0 {
		c.HTTP.ShutdownSeconds = 5
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverPostgres
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Kafka.BookingEventsTopic == "" {
		c.Kafka.BookingEventsTopic = "booking-events"
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "travelbooking-worker"
	}
	if c.Booking.OptionsCacheTTL == 0 {
		c.Booking.OptionsCacheTTL = 30
	}
	if c.Booking.TxRetryAttempts == 0 {
		c.Booking.TxRetryAttempts = 5
	}
	if c.Booking.TxRetryDelayMS == 0 {
		c.Booking.TxRetryDelayMS = 20
	}
	if c.Booking.IDRetryAttempts == 0 {
		c.Booking.IDRetryAttempts = 3
	}
	if c.Booking.RecentBookingsNr == 0 {
		c.Booking.RecentBookingsNr = 3
	}
	if c.Worker.AuditIntervalMinutes == 0 {
		c.Worker.AuditIntervalMinutes = 15
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
}

func (c *Config) Validate() error {
	var problems []string

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Host == "" {
			problems = append(problems, "database.host cannot be empty")
		}
		if c.Database.Name == "" {
			problems = append(problems, "database.name cannot be empty")
		}
		if c.Database.Port < 1 || c.Database.Port > 65535 {
			problems = append(problems, fmt.Sprintf("database.port must be between 1 and 65535, got: %d", c.Database.Port))
		}
	case DriverMemory:
	default:
		problems = append(problems, fmt.Sprintf("database.driver must be %q or %q, got: %q", DriverPostgres, DriverMemory, c.Database.Driver))
	}

	if c.Booking.OptionsCacheTTL < 0 {
		problems = append(problems, fmt.Sprintf("booking.options_cache_ttl_seconds cannot be negative, got: %d", c.Booking.OptionsCacheTTL))
	}
	if c.Booking.TxRetryAttempts < 1 {
		problems = append(problems, fmt.Sprintf("booking.tx_retry_attempts must be positive, got: %d", c.Booking.TxRetryAttempts))
	}
	if c.Booking.TxRetryDelayMS < 1 {
		problems = append(problems, fmt.Sprintf("booking.tx_retry_delay_ms must be positive, got: %d", c.Booking.TxRetryDelayMS))
	}
	if c.Booking.IDRetryAttempts < 1 {
		problems = append(problems, fmt.Sprintf("booking.id_retry_attempts must be positive, got: %d", c.Booking.IDRetryAttempts))
	}
	if c.Worker.AuditIntervalMinutes < 1 {
		problems = append(problems, fmt.Sprintf("worker.audit_interval_minutes must be positive, got: %d", c.Worker.AuditIntervalMinutes))
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.BookingEventsTopic == "" {
		problems = append(problems, "kafka.booking_events_topic cannot be empty when brokers are set")
	}

	if len(problems) == 0 {
		return nil
	}
	var b strings.Builder
	b.WriteString("configuration validation failed:\n")
	for i, p := range problems {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, p)
	}
	return fmt.Errorf("%s", b.String())
}
